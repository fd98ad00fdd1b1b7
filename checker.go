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
	"fmt"
	"log/slog"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// checker analyzes one module: it declares the module's symbols into a fresh table, resolves
// annotations, and type-checks every statement.
//
// A checker cannot be used concurrently, or reused for another module.
type checker struct {
	cfg   Config
	log   *slog.Logger
	alloc *symtab.Allocator
	table *symtab.Table
	view  symtab.Lookup
	ctx   *typeutil.Context
	mod   *ast.Module

	diags []Diagnostic
	// quiet suppresses both diagnostics and recorded types.
	quiet int
	// dead suppresses diagnostics while an unreachable branch is checked.
	dead int
	// trials is the depth of nested trial transactions.
	trials int
	undo   []undoRecord

	records   map[ast.Expr]record
	expansion int
	// reachability bookkeeping for the first statement of each branch
	visits, deadVisits map[ast.Stmt]int
	branches           []ast.Stmt
	reveals            []*ast.Call
	revealed           map[*ast.Call]ast.Expr

	// declarations
	defs       map[*symtab.Symbol][]*ast.FuncDef
	funcs      []*symtab.Symbol
	funcSyms   map[*ast.FuncDef]*symtab.Symbol
	sigs       map[*ast.FuncDef]*types.Callable
	owners     map[*ast.FuncDef]*symtab.ClassInfo
	classDefs  map[*symtab.ClassInfo]*ast.ClassDef
	typeVars   []*symtab.Symbol
	aliases    []*symtab.Symbol
	typedDicts map[*symtab.Symbol]*ast.Call
	vars       []*symtab.Symbol
	varOwners  map[*symtab.Symbol]*symtab.ClassInfo
	nested     map[*ast.FuncDef]*symtab.Symbol

	frame    *frame
	env      env
	loops    []*loopState
	deferred []*ast.FuncDef
}

type record struct {
	t         types.Type
	expansion int
}

type undoRecord struct {
	e   ast.Expr
	old record
	had bool
}

// frame is the scope of the function (or module) being checked.
type frame struct {
	parent *frame
	def    *ast.FuncDef
	class  *symtab.ClassInfo
	ret    types.Type
	locals map[string]types.Type
	params map[string]bool
	// mapping instantiates the type variables of the current expansion, including captured variables.
	mapping map[int]types.Type
	scope   *tvScope
}

func (f *frame) isModule() bool { return f.def == nil }

type loopState struct {
	breaks    []env
	continues []env
}

func newChecker(cfg Config, log *slog.Logger, alloc *symtab.Allocator, store *symtab.Store, mod *ast.Module) *checker {
	table := symtab.NewTable(alloc, mod.Name)
	view := store.View(table)
	return &checker{
		cfg:        cfg,
		log:        log,
		alloc:      alloc,
		table:      table,
		view:       view,
		ctx:        typeutil.NewContext(view),
		mod:        mod,
		records:    make(map[ast.Expr]record),
		visits:     make(map[ast.Stmt]int),
		deadVisits: make(map[ast.Stmt]int),
		revealed:   make(map[*ast.Call]ast.Expr),
		defs:       make(map[*symtab.Symbol][]*ast.FuncDef),
		funcSyms:   make(map[*ast.FuncDef]*symtab.Symbol),
		sigs:       make(map[*ast.FuncDef]*types.Callable),
		owners:     make(map[*ast.FuncDef]*symtab.ClassInfo),
		classDefs:  make(map[*symtab.ClassInfo]*ast.ClassDef),
		typedDicts: make(map[*symtab.Symbol]*ast.Call),
		varOwners:  make(map[*symtab.Symbol]*symtab.ClassInfo),
		nested:     make(map[*ast.FuncDef]*symtab.Symbol),
	}
}

// analyze declares and checks the module.
func (c *checker) analyze() *Result {
	c.semanal()
	c.checkModule()
	c.analyzeAlwaysDefined()
	c.finish()

	res := &Result{
		Module:      c.mod.Name,
		Path:        c.mod.Path,
		Diagnostics: sortDiagnostics(c.diags),
		Table:       c.table,
		Types:       make(map[ast.Expr]types.Type, len(c.records)),
		nested:      c.nested,
	}
	for e, r := range c.records {
		res.Types[e] = r.t
	}
	return res
}

// Diagnostics:

func (c *checker) report(n ast.Node, sev Severity, code ErrorCode, msg string) {
	if c.quiet > 0 || (c.dead > 0 && sev == SeverityError) {
		return
	}
	d := Diagnostic{Severity: sev, Code: code, Message: msg}
	if n != nil {
		loc := n.Location()
		d.Pos, d.End = loc.Pos, loc.End
	}
	c.diags = append(c.diags, d)
}

func (c *checker) errorf(n ast.Node, code ErrorCode, format string, args ...interface{}) {
	c.report(n, SeverityError, code, fmt.Sprintf(format, args...))
}

func (c *checker) notef(n ast.Node, code ErrorCode, format string, args ...interface{}) {
	c.report(n, SeverityNote, code, fmt.Sprintf(format, args...))
}

func (c *checker) errorCount() int {
	n := 0
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Recorded types:

// record stores the type of an expression. Within one expansion of a function body a later record
// replaces an earlier one; records from different expansions are combined into a union.
func (c *checker) record(e ast.Expr, t types.Type) types.Type {
	if c.quiet > 0 || t == nil {
		return t
	}
	old, had := c.records[e]
	if c.trials > 0 {
		c.undo = append(c.undo, undoRecord{e: e, old: old, had: had})
	}
	r := record{t: t, expansion: c.expansion}
	if had && old.expansion != c.expansion {
		r.t = types.NewUnion(old.t, t)
	}
	c.records[e] = r
	return t
}

// trial is a non-committing transaction over diagnostics and recorded types. Diagnostics are not
// suppressed within a trial, so that failure can be observed.
type trial struct {
	diags int
	undo  int
	quiet int
	dead  int
}

func (c *checker) beginTrial() trial {
	t := trial{diags: len(c.diags), undo: len(c.undo), quiet: c.quiet, dead: c.dead}
	c.trials++
	c.quiet, c.dead = 0, 0
	return t
}

// rollback discards the diagnostics and recorded types since the trial began.
func (c *checker) rollback(t trial) {
	for i := len(c.undo) - 1; i >= t.undo; i-- {
		u := c.undo[i]
		if u.had {
			c.records[u.e] = u.old
		} else {
			delete(c.records, u.e)
		}
	}
	c.undo = c.undo[:t.undo]
	c.diags = c.diags[:t.diags]
	c.quiet, c.dead = t.quiet, t.dead
	c.trials--
}

// failed returns true if an error has been reported since the trial began.
func (c *checker) failed(t trial) bool {
	for _, d := range c.diags[t.diags:] {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (c *checker) beginExpansion() { c.expansion++ }

// Reachability:

// enterBranch records that the first statement of a branch was reached (or found dead).
func (c *checker) enterBranch(body []ast.Stmt, dead bool) {
	if len(body) == 0 || c.trials > 0 || c.quiet > 0 || c.dead > 0 {
		return
	}
	s := body[0]
	if _, ok := c.visits[s]; !ok {
		c.branches = append(c.branches, s)
	}
	c.visits[s]++
	if dead {
		c.deadVisits[s]++
	}
}

// finish emits the notes which depend on every expansion having been checked.
func (c *checker) finish() {
	if c.cfg.WarnUnreachable {
		for _, s := range c.branches {
			if c.visits[s] > 0 && c.deadVisits[s] == c.visits[s] {
				c.notef(s, UnreachableCode, "Statement is unreachable")
			}
		}
	}
	for _, call := range c.reveals {
		r, ok := c.records[c.revealed[call]]
		if !ok || types.IsNever(r.t) {
			continue
		}
		c.notef(call, RevealedType, "Revealed type is %q", types.TypeString(r.t))
	}
}

// Module and functions:

func (c *checker) checkModule() {
	c.frame = &frame{locals: make(map[string]types.Type)}
	c.env = newEnv()
	c.beginExpansion()
	c.checkBlock(c.mod.Body)
	for i := 0; i < len(c.deferred); i++ {
		c.checkFunction(c.deferred[i])
	}
}

func isUntyped(def *ast.FuncDef) bool {
	if def.Returns != nil {
		return false
	}
	for _, p := range def.Params {
		if p.Annotation != nil {
			return false
		}
	}
	return true
}

func (c *checker) checkFunction(def *ast.FuncDef) {
	sig := c.sigs[def]
	if sig == nil || def.HasDecorator("overload") {
		return
	}
	if isUntyped(def) && !c.cfg.CheckUntypedDefs {
		return
	}
	c.log.Debug("checking function", "module", c.mod.Name, "function", def.Name, "line", def.Pos.Line)
	c.checkBody(def, sig, c.owners[def], nil)
}

// expansions returns the instantiations under which a function body is checked: one per
// combination of values of its value-restricted type variables, or a single empty mapping.
func (c *checker) expansions(vars []*types.TypeVar) []map[int]types.Type {
	out := []map[int]types.Type{{}}
	if !c.cfg.ExpandValueRestrictions {
		return out
	}
	for _, tv := range vars {
		if tv.Kind != types.ValueRestricted {
			continue
		}
		var next []map[int]types.Type
		for _, m := range out {
			for _, value := range tv.Values {
				n := make(map[int]types.Type, len(m)+1)
				for k, v := range m {
					n[k] = v
				}
				n[tv.Id] = value
				next = append(next, n)
			}
		}
		out = next
	}
	return out
}

// checkBody checks a function body once per expansion. Captured type variables of enclosing
// functions are instantiated by the parent frame's mapping.
func (c *checker) checkBody(def *ast.FuncDef, sig *types.Callable, owner *symtab.ClassInfo, parent *frame) {
	savedFrame, savedEnv, savedLoops := c.frame, c.env, c.loops
	defer func() { c.frame, c.env, c.loops = savedFrame, savedEnv, savedLoops }()

	var outer map[int]types.Type
	scope := &tvScope{vars: sig.Vars}
	if parent != nil {
		outer = parent.mapping
		scope.parent = parent.scope
	} else if owner != nil {
		scope.parent = &tvScope{vars: owner.TypeVars}
	}

	for _, m := range c.expansions(sig.Vars) {
		mapping := make(map[int]types.Type, len(outer)+len(m))
		for k, v := range outer {
			mapping[k] = v
		}
		for k, v := range m {
			mapping[k] = v
		}
		c.beginExpansion()
		fr := &frame{
			parent:  parent,
			def:     def,
			class:   owner,
			ret:     types.Substitute(sig.Return, mapping),
			locals:  make(map[string]types.Type),
			params:  make(map[string]bool),
			mapping: mapping,
			scope:   scope,
		}
		c.frame, c.env, c.loops = fr, newEnv(), nil
		for i, p := range def.Params {
			if i >= len(sig.Args) {
				break
			}
			t := types.Substitute(sig.Args[i], mapping)
			switch sig.Kinds[i] {
			case types.ArgStar:
				t = c.builtinInstance("tuple", t)
			case types.ArgStar2:
				t = c.builtinInstance("dict", c.ctx.Builtin("str"), t)
			}
			fr.locals[p.Name] = t
			fr.params[p.Name] = true
			c.env = c.env.define(p.Name)
		}
		c.checkBlock(def.Body)
	}
}

// builtinInstance returns an instance of a builtin class applied to args, or Any if the class is
// not declared.
func (c *checker) builtinInstance(name string, args ...types.Type) types.Type {
	sym := c.view.Lookup(BuiltinsModule + "." + name)
	if sym == nil || sym.Info == nil {
		return types.AnyFrom(types.AnyImplicit)
	}
	if len(args) != sym.Info.Arity() {
		return sym.Info.ErasedType()
	}
	for i, a := range args {
		if a == nil {
			args[i] = types.AnyFrom(types.AnyImplicit)
		}
	}
	return &types.Instance{Class: sym.Info.ID, Name: sym.Info.Fullname, Args: args}
}

func (c *checker) builtinType(name string) types.Type {
	if t := c.ctx.Builtin(name); t != nil {
		return t
	}
	return types.AnyFrom(types.AnyImplicit)
}

// Name resolution:

// owns returns true if sym is declared by the module being checked.
func (c *checker) owns(sym *symtab.Symbol) bool { return sym.Module == c.table.Name() }

// lookupGlobal resolves a name in the module scope, falling back to builtins.
func (c *checker) lookupGlobal(name string) *symtab.Symbol {
	if sym := c.table.Globals.Lookup(name); sym != nil {
		return sym
	}
	if c.mod.Name == BuiltinsModule {
		return nil
	}
	return c.view.Lookup(BuiltinsModule + "." + name)
}

// lookupLocal resolves a name in the enclosing function frames.
func (c *checker) lookupLocal(name string) (types.Type, *frame) {
	for f := c.frame; f != nil && !f.isModule(); f = f.parent {
		if t, ok := f.locals[name]; ok {
			return t, f
		}
	}
	return nil, nil
}

// typeObject returns the constructor type of a class: the signature of its `__init__` method,
// returning an instance of the class.
func (c *checker) typeObject(info *symtab.ClassInfo) types.Type {
	self := info.SelfType()
	init, _ := c.ctx.MemberType(self, "__init__")
	construct := func(item *types.Callable) *types.Callable {
		ct := *item
		ct.Return = self
		ct.Vars = append(append([]*types.TypeVar(nil), info.TypeVars...), item.Vars...)
		ct.TypeObject = info.ID
		ct.Name = info.Name
		return &ct
	}
	switch init := init.(type) {
	case *types.Callable:
		return construct(init)
	case *types.Overload:
		items := make([]*types.Callable, len(init.Items))
		for i, item := range init.Items {
			items[i] = construct(item)
		}
		return &types.Overload{Items: items}
	}
	return construct(&types.Callable{Args: []types.Type{}, Kinds: []types.ArgKind{}, Names: []string{}})
}

// classOfTypeObject returns the class constructed by a class object type.
func (c *checker) classOfTypeObject(t types.Type) *symtab.ClassInfo {
	switch t := t.(type) {
	case *types.Callable:
		if t.TypeObject != 0 {
			return c.ctx.ClassInfo(t.TypeObject)
		}
	case *types.Overload:
		if len(t.Items) > 0 && t.Items[0].TypeObject != 0 {
			return c.ctx.ClassInfo(t.Items[0].TypeObject)
		}
	}
	return nil
}
