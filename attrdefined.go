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
	"github.com/hashicorp/go-set/v3"
	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/symtab"
)

// analyzeAlwaysDefined finds, for each class declared in the module, the instance attributes which
// `__init__` initializes on every path. Inference stops where `__init__` may pass self to other code;
// `super().__init__()` contributes the attributes always defined by the base class. An attribute of
// a class is only always defined if it is always defined in each of its subclasses in the module.
func (c *checker) analyzeAlwaysDefined() {
	classes := make([]*symtab.ClassInfo, 0, len(c.classDefs))
	for info := range c.classDefs {
		classes = append(classes, info)
	}
	slices.SortFunc(classes, func(a, b *symtab.ClassInfo) int {
		return c.classDefs[a].Pos.Compare(c.classDefs[b].Pos)
	})

	done := make(map[*symtab.ClassInfo]bool, len(classes))
	for _, info := range classes {
		c.alwaysDefined(info, done)
	}
	refined := make(map[*symtab.ClassInfo]bool, len(classes))
	for _, info := range classes {
		c.refineAlwaysDefined(info, refined)
	}
}

func (c *checker) alwaysDefined(info *symtab.ClassInfo, done map[*symtab.ClassInfo]bool) *set.Set[string] {
	if info == nil {
		return set.New[string](0)
	}
	if _, local := c.classDefs[info]; !local || done[info] {
		if info.AlwaysDefined == nil {
			return set.New[string](0)
		}
		return info.AlwaysDefined
	}
	done[info] = true
	for _, id := range info.MRO[1:] {
		c.alwaysDefined(c.ctx.ClassInfo(id), done)
	}

	defaults, attrs := set.New[string](0), set.New[string](0)
	for _, id := range info.MRO {
		base := c.ctx.ClassInfo(id)
		if base == nil {
			continue
		}
		for _, sym := range base.Members.Owned() {
			if sym.Kind != symtab.Var {
				continue
			}
			attrs.Insert(sym.Name)
			if assign, ok := sym.Node.(*ast.Assign); ok && !sym.Property && assign.Value != nil {
				defaults.Insert(sym.Name)
			}
		}
	}

	var init *ast.FuncDef
	for _, s := range c.classDefs[info].Body {
		if def, ok := s.(*ast.FuncDef); ok && def.Name == "__init__" && c.funcSyms[def] != nil {
			init = def
		}
	}
	if init == nil || len(init.Params) == 0 {
		always := defaults.Copy()
		// The synthesized initializer of a record assigns every field.
		for _, field := range info.Fields {
			always.Insert(field.Name)
		}
		if len(info.MRO) > 1 {
			for _, name := range c.alwaysDefined(c.ctx.ClassInfo(info.MRO[1]), done).Slice() {
				always.Insert(name)
			}
		}
		info.AlwaysDefined = always
		return always
	}

	f := &initFlow{c: c, info: info, self: init.Params[0].Name, attrs: attrs, done: done, unsafe: set.New[string](0)}
	if end := f.walk(init.Body, defaults.Copy()); end != nil {
		f.exits = append(f.exits, end)
	}
	always := attrs.Copy()
	for _, exit := range f.exits {
		always.RemoveFunc(func(name string) bool { return !exit.Contains(name) })
	}
	always.RemoveFunc(f.unsafe.Contains)
	info.AlwaysDefined = always
	info.InitLeaksSelf = f.leaked
	c.log.Debug("always-defined attributes", "class", info.Fullname, "attrs", always.Size(), "leaks", f.leaked)
	return always
}

func (c *checker) refineAlwaysDefined(info *symtab.ClassInfo, refined map[*symtab.ClassInfo]bool) {
	if refined[info] || info.AlwaysDefined == nil {
		return
	}
	refined[info] = true
	for _, id := range info.Subclasses {
		sub := c.ctx.ClassInfo(id)
		if sub == nil || sub.AlwaysDefined == nil {
			continue
		}
		c.refineAlwaysDefined(sub, refined)
		info.AlwaysDefined.RemoveFunc(func(name string) bool { return !sub.AlwaysDefined.Contains(name) })
	}
}

// initFlow is the state of the definite-assignment analysis of one `__init__` body. A nil set is the
// state after a return, or after self has leaked.
type initFlow struct {
	c     *checker
	info  *symtab.ClassInfo
	self  string
	attrs *set.Set[string]
	done  map[*symtab.ClassInfo]bool

	exits  []*set.Set[string]
	leaked bool
	// unsafe contains the attributes read while possibly undefined.
	unsafe *set.Set[string]
}

func (f *initFlow) walk(stmts []ast.Stmt, defined *set.Set[string]) *set.Set[string] {
	for _, s := range stmts {
		if defined == nil {
			return nil
		}
		switch s := s.(type) {
		case *ast.Assign:
			if f.scan(s.Value, defined) {
				return f.leak(defined)
			}
			if attr, ok := s.Target.(*ast.Attribute); ok && f.isSelf(attr.X) {
				if s.Value != nil {
					defined.Insert(attr.Attr)
				}
				continue
			}
			if f.scan(s.Target, defined) {
				return f.leak(defined)
			}

		case *ast.ExprStmt:
			if f.scan(s.X, defined) {
				return f.leak(defined)
			}

		case *ast.If:
			if f.scan(s.Cond, defined) {
				return f.leak(defined)
			}
			yes := f.walk(s.Body, defined.Copy())
			no := f.walk(s.Else, defined.Copy())
			defined = intersect(yes, no)

		case *ast.While:
			if f.scan(s.Cond, defined) {
				return f.leak(defined)
			}
			// The body may not run, so its assignments are only possible.
			f.walk(s.Body, defined.Copy())
			defined = f.walk(s.Else, defined)

		case *ast.Return:
			if f.scan(s.Value, defined) {
				return f.leak(defined)
			}
			f.exits = append(f.exits, defined)
			return nil

		case *ast.Break, *ast.Continue:
			return nil
		}
	}
	return defined
}

func intersect(a, b *set.Set[string]) *set.Set[string] {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	a.RemoveFunc(func(name string) bool { return !b.Contains(name) })
	return a
}

// leak ends inference on the current path: code which receives self may read any attribute.
func (f *initFlow) leak(defined *set.Set[string]) *set.Set[string] {
	f.leaked = true
	f.exits = append(f.exits, defined)
	return nil
}

func (f *initFlow) isSelf(e ast.Expr) bool {
	name, ok := e.(*ast.Name)
	return ok && name.Id == f.self
}

// scan notes reads of possibly undefined attributes in an expression and applies the effects of
// `super().__init__()` calls. It returns true if the expression may leak self.
func (f *initFlow) scan(e ast.Expr, defined *set.Set[string]) bool {
	leaks := false
	ast.WalkExpr(e, func(e ast.Expr) {
		switch e := e.(type) {
		case *ast.Attribute:
			if !f.isSelf(e.X) || defined.Contains(e.Attr) || !f.attrs.Contains(e.Attr) {
				return
			}
			if sym, _ := symtab.LookupMember(f.c.view, f.info.ID, e.Attr); sym == nil || sym.Kind != symtab.Var {
				return
			}
			f.unsafe.Insert(e.Attr)
			f.c.notef(e, PossiblyUndefined, "Attribute %q may be undefined", e.Attr)

		case *ast.Call:
			if f.isSuperInit(e) {
				if len(f.info.MRO) > 1 {
					base := f.c.alwaysDefined(f.c.ctx.ClassInfo(f.info.MRO[1]), f.done)
					for _, name := range base.Slice() {
						defined.Insert(name)
					}
				}
				return
			}
			if attr, ok := e.Func.(*ast.Attribute); ok && f.isSelf(attr.X) {
				leaks = true
			}
			for _, arg := range e.Args {
				if f.isSelf(arg.Value) {
					leaks = true
				}
			}
		}
	})
	return leaks
}

func (f *initFlow) isSuperInit(call *ast.Call) bool {
	attr, ok := call.Func.(*ast.Attribute)
	if !ok || attr.Attr != "__init__" {
		return false
	}
	inner, ok := attr.X.(*ast.Call)
	if !ok || len(inner.Args) != 0 {
		return false
	}
	fn, ok := inner.Func.(*ast.Name)
	return ok && fn.Id == "super"
}
