// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package gradual

import (
	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// checkBlock checks a statement list. Statements following a point which no execution reaches are
// reported as unreachable and skipped.
func (c *checker) checkBlock(stmts []ast.Stmt) {
	for i, s := range stmts {
		if c.env.unreachable {
			c.enterBranch(stmts[i:], true)
			return
		}
		c.checkStmt(s)
	}
}

func (c *checker) checkStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Import, *ast.TypeAliasStmt, *ast.Pass:

	case *ast.FuncDef:
		if c.frame.isModule() {
			if c.funcSyms[s] != nil {
				c.deferred = append(c.deferred, s)
			}
			return
		}
		c.checkNestedFunc(s)

	case *ast.ClassDef:
		c.checkClassDef(s)

	case *ast.Assign:
		c.checkAssign(s)

	case *ast.If:
		c.checkIf(s)

	case *ast.While:
		c.checkWhile(s)

	case *ast.Return:
		c.checkReturn(s)

	case *ast.ExprStmt:
		c.checkExpr(s.X, nil)

	case *ast.Break:
		if n := len(c.loops); n > 0 {
			c.loops[n-1].breaks = append(c.loops[n-1].breaks, c.env)
		}
		c.env = unreachableEnv()

	case *ast.Continue:
		if n := len(c.loops); n > 0 {
			c.loops[n-1].continues = append(c.loops[n-1].continues, c.env)
		}
		c.env = unreachableEnv()
	}
}

// checkClassDef checks the class attributes declared in a class body. Methods are checked after
// the module body, `__init__` first.
func (c *checker) checkClassDef(def *ast.ClassDef) {
	var info *symtab.ClassInfo
	for ci, d := range c.classDefs {
		if d == def {
			info = ci
			break
		}
	}
	if info == nil {
		return
	}
	var methods []*ast.FuncDef
	for _, s := range def.Body {
		switch s := s.(type) {
		case *ast.FuncDef:
			if c.funcSyms[s] == nil {
				continue
			}
			if s.Name == "__init__" {
				methods = append([]*ast.FuncDef{s}, methods...)
			} else {
				methods = append(methods, s)
			}
		case *ast.Assign:
			name, ok := s.Target.(*ast.Name)
			if !ok || s.Value == nil {
				continue
			}
			sym := info.Members.Lookup(name.Id)
			if sym == nil || sym.Kind != symtab.Var {
				c.checkExpr(s.Value, nil)
				continue
			}
			c.assignSymbol(s, sym, s.Value)
		case *ast.ExprStmt:
			c.checkExpr(s.X, nil)
		}
	}
	c.deferred = append(c.deferred, methods...)
}

// checkNestedFunc checks a function defined within a function body. Type variables of enclosing
// functions referenced by its signature are recorded as captures, and instantiated by the current
// expansion of the enclosing function.
func (c *checker) checkNestedFunc(def *ast.FuncDef) {
	sig := c.signature(def, nil, c.frame.scope)
	var captures []*types.TypeVar
	for _, tv := range types.FreeVars(sig) {
		if tv.Id < 0 {
			captures = append(captures, tv)
		}
	}
	sym := c.nested[def]
	if sym == nil {
		sym = &symtab.Symbol{Kind: symtab.FuncDef, Name: def.Name, Module: c.mod.Name, Pos: def.Pos, Node: def}
		c.nested[def] = sym
	}
	sym.Type, sym.Captures = sig, captures
	c.frame.locals[def.Name] = types.Substitute(sig, c.frame.mapping)
	c.env = c.env.invalidate(def.Name).define(def.Name)
	if isUntyped(def) && !c.cfg.CheckUntypedDefs {
		return
	}
	c.checkBody(def, sig, nil, c.frame)
}

// Assignment:

func (c *checker) checkAssign(s *ast.Assign) {
	if name, ok := s.Target.(*ast.Name); ok && c.frame.isModule() {
		sym := c.table.Globals.Lookup(name.Id)
		if sym != nil && (sym.Kind == symtab.TypeVarExpr || sym.Kind == symtab.TypeAlias) && sym.Node == ast.Stmt(s) {
			return
		}
	}

	switch target := s.Target.(type) {
	case *ast.Name:
		c.assignName(s, target)
	case *ast.Attribute:
		c.assignAttribute(s, target)
	case *ast.Subscript:
		c.assignSubscript(s, target)
	default:
		if s.Value != nil {
			c.checkExpr(s.Value, nil)
		}
	}
}

func (c *checker) assignName(s *ast.Assign, target *ast.Name) {
	name := target.Id
	if c.frame.isModule() {
		if sym := c.table.Globals.Lookup(name); sym != nil && sym.Kind == symtab.Var {
			c.assignSymbol(s, sym, s.Value)
			return
		}
		t := c.checkExprOpt(s.Value, nil)
		if sym := c.lookupGlobal(name); sym != nil && sym.Kind != symtab.Var {
			c.errorf(s, IncompatibleAssignment, "Cannot assign to %s %q", sym.Kind, name)
		}
		c.record(target, t)
		return
	}

	declared, owner := c.lookupLocal(name)
	if owner != nil && owner != c.frame {
		// Rebinding a name of an enclosing function creates a new local.
		declared = nil
	}
	if declared == nil && s.Annotation != nil {
		declared = c.analyzeType(s.Annotation, c.frame.scope)
		declared = types.Substitute(declared, c.frame.mapping)
		c.frame.locals[name] = declared
	}
	if s.Value == nil {
		if declared != nil {
			c.record(target, declared)
		}
		return
	}
	if declared == nil {
		t := widen(c.checkExpr(s.Value, nil))
		c.frame.locals[name] = t
		c.env = c.env.invalidate(name).define(name)
		c.record(target, t)
		return
	}
	t := c.checkExpr(s.Value, declared)
	c.env = c.env.invalidate(name).define(name)
	c.record(target, c.narrowAssigned(s, name, declared, t, "variable"))
}

// assignSymbol assigns to a module variable or class attribute. An unannotated symbol takes the
// type of its first assigned value.
func (c *checker) assignSymbol(s *ast.Assign, sym *symtab.Symbol, value ast.Expr) {
	if value == nil {
		c.record(s.Target, sym.Type)
		return
	}
	if sym.Type == nil {
		t := widen(c.checkExpr(value, nil))
		if c.owns(sym) {
			sym.Type, sym.Inferred = t, true
		}
		c.env = c.env.invalidate(ast.RefPath(s.Target))
		c.record(s.Target, t)
		return
	}
	t := c.checkExpr(value, sym.Type)
	path := ast.RefPath(s.Target)
	c.env = c.env.invalidate(path)
	c.record(s.Target, c.narrowAssigned(s, path, sym.Type, t, "variable"))
}

// narrowAssigned checks an assigned value against the declared type of the target. A compatible
// value narrows a target declared with a union type; an incompatible value is reported, and the
// target keeps its declared type.
func (c *checker) narrowAssigned(s *ast.Assign, path string, declared, t types.Type, what string) types.Type {
	if !c.ctx.IsSubtype(t, declared) {
		c.errorf(s.Value, IncompatibleAssignment, "Incompatible types in assignment (expression has type %q, %s has type %q)",
			types.ShortString(t), what, types.ShortString(declared))
		return declared
	}
	if _, ok := declared.(*types.Union); ok && path != "" && !types.IsAny(t) {
		c.env = c.env.narrow(path, t)
		return t
	}
	return declared
}

func (c *checker) assignAttribute(s *ast.Assign, target *ast.Attribute) {
	base := c.checkExpr(target.X, nil)
	path := ast.RefPath(target)
	if s.Value == nil {
		return
	}
	inst, ok := c.ctx.Expand(base).(*types.Instance)
	if !ok {
		t := c.checkExpr(s.Value, nil)
		if !types.IsAny(base) {
			c.checkMember(target, base, target.Attr)
		}
		c.record(target, t)
		return
	}
	sym, decl := symtab.LookupMember(c.view, inst.Class, target.Attr)
	if sym == nil {
		c.checkExpr(s.Value, nil)
		c.errorf(target, AttributeNotFound, "%q has no attribute %q", types.ShortString(inst), target.Attr)
		return
	}
	if sym.Kind != symtab.Var {
		c.checkExpr(s.Value, nil)
		c.errorf(target, IncompatibleAssignment, "Cannot assign to %s %q", sym.Kind, target.Attr)
		return
	}
	if sym.Type == nil {
		// Symbols of committed modules are never updated; an unannotated one stays Any.
		t := widen(c.checkExpr(s.Value, nil))
		if c.owns(sym) {
			sym.Type, sym.Inferred = t, true
		}
		if path != "" {
			c.env = c.env.invalidate(path)
		}
		c.record(target, t)
		return
	}
	declared := sym.Type
	if mapped := c.ctx.MapInstanceToSupertype(inst, decl.ID); mapped != nil && len(decl.TypeVars) > 0 {
		declared = types.Substitute(declared, types.VarMapping(decl.TypeVars, mapped.Args))
	}
	t := c.checkExpr(s.Value, declared)
	if path != "" {
		c.env = c.env.invalidate(path)
	}
	c.record(target, c.narrowAssigned(s, path, declared, t, "attribute"))
}

func (c *checker) assignSubscript(s *ast.Assign, target *ast.Subscript) {
	base := c.ctx.Expand(c.checkExpr(target.X, nil))
	if m, ok := base.(*types.TypedMapping); ok && len(target.Index) == 1 {
		ft := c.mappingField(m, target.Index[0])
		t := c.checkExprOpt(s.Value, ft)
		if ft != nil && t != nil && !c.ctx.IsSubtype(t, ft) {
			c.errorf(s.Value, IncompatibleAssignment, "Incompatible types in assignment (expression has type %q, key has type %q)",
				types.ShortString(t), types.ShortString(ft))
		}
		return
	}
	args := append(append([]ast.Expr(nil), target.Index...), s.Value)
	c.callMethod(target, base, "__setitem__", args, nil)
}

// widen returns the declared type inferred for a variable from its first assigned value.
func widen(t types.Type) types.Type {
	if lit, ok := t.(*types.Literal); ok {
		return lit.Base
	}
	return t
}

// Control flow:

func (c *checker) checkIf(s *ast.If) {
	c.checkExpr(s.Cond, nil)
	yes, no := c.narrowCond(s.Cond, c.env)
	var out []env
	for _, branch := range []struct {
		body []ast.Stmt
		env  env
	}{{s.Body, yes}, {s.Else, no}} {
		c.enterBranch(branch.body, branch.env.unreachable)
		c.env = branch.env
		if branch.env.unreachable {
			c.checkDead(branch.body)
			continue
		}
		c.checkBlock(branch.body)
		out = append(out, c.env)
	}
	c.env = joinEnvs(c.ctx, out...)
}

// checkDead checks a branch which no execution reaches. Narrowed references have type Never, and
// no errors are reported.
func (c *checker) checkDead(body []ast.Stmt) {
	if len(body) == 0 {
		c.env = unreachableEnv()
		return
	}
	c.dead++
	c.env.unreachable = false
	c.checkBlock(body)
	c.dead--
	c.env = unreachableEnv()
}

// checkWhile checks a loop. The loop entry state is widened by joining the states at the end of the
// body until it is stable (or the pass limit is reached); the passes before the final one are trials.
func (c *checker) checkWhile(s *ast.While) {
	entry := c.env
	head := entry
	for pass := 0; pass < c.cfg.MaxLoopPasses; pass++ {
		t := c.beginTrial()
		end, loop := c.loopBody(s, head)
		c.rollback(t)
		next := joinEnvs(c.ctx, append([]env{entry, end}, loop.continues...)...)
		next.unreachable = entry.unreachable
		if sameEnv(next, head) {
			break
		}
		head = next
	}

	_, loop := c.loopBody(s, head)
	c.env = head
	_, no := c.narrowCond(s.Cond, head)
	c.enterBranch(s.Else, no.unreachable)
	c.env = no
	if no.unreachable {
		c.checkDead(s.Else)
	} else {
		c.checkBlock(s.Else)
	}
	c.env = joinEnvs(c.ctx, append([]env{c.env}, loop.breaks...)...)
}

func (c *checker) loopBody(s *ast.While, head env) (env, *loopState) {
	c.env = head
	c.checkExpr(s.Cond, nil)
	yes, _ := c.narrowCond(s.Cond, head)
	loop := &loopState{}
	c.loops = append(c.loops, loop)
	c.enterBranch(s.Body, yes.unreachable)
	c.env = yes
	if yes.unreachable {
		c.checkDead(s.Body)
	} else {
		c.checkBlock(s.Body)
	}
	c.loops = c.loops[:len(c.loops)-1]
	return c.env, loop
}

func (c *checker) checkReturn(s *ast.Return) {
	defer func() { c.env = unreachableEnv() }()
	if c.frame.isModule() {
		c.checkExprOpt(s.Value, nil)
		return
	}
	ret := c.frame.ret
	if s.Value == nil {
		if !types.IsAny(ret) && !c.ctx.IsSubtype(types.None, ret) {
			c.errorf(s, IncompatibleReturn, "Return value expected")
		}
		return
	}
	t := c.checkExpr(s.Value, ret)
	if !c.ctx.IsSubtype(t, ret) {
		c.errorf(s.Value, IncompatibleReturn, "Incompatible return value type (got %q, expected %q)",
			types.ShortString(t), types.ShortString(ret))
	}
}
