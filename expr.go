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

// checkExprOpt checks an optional expression, returning nil for a missing expression.
func (c *checker) checkExprOpt(e ast.Expr, expected types.Type) types.Type {
	if e == nil {
		return nil
	}
	return c.checkExpr(e, expected)
}

// checkExpr infers and records the type of an expression. The expected type, if any, is the type
// the context requires; it guides inference of literals, displays, and generic calls.
func (c *checker) checkExpr(e ast.Expr, expected types.Type) types.Type {
	return c.record(e, c.inferExpr(e, expected))
}

// peek infers the type of an expression without recording types or reporting diagnostics.
func (c *checker) peek(e ast.Expr) types.Type {
	c.quiet++
	defer func() { c.quiet-- }()
	return c.inferExpr(e, nil)
}

func (c *checker) inferExpr(e ast.Expr, expected types.Type) types.Type {
	if expected != nil {
		expected = c.ctx.Expand(expected)
	}
	switch e := e.(type) {
	case *ast.Name:
		return c.checkName(e)

	case *ast.Attribute:
		path := ast.RefPath(e)
		if sym := c.table.Globals.Lookup(path); path != "" && sym != nil && sym.Kind == symtab.MypyFile {
			// import a.b
			return sym.Type
		}
		base := c.checkExpr(e.X, nil)
		if path != "" {
			if t, ok := c.env.lookup(path); ok {
				return t
			}
		}
		return c.checkMember(e, base, e.Attr)

	case *ast.Call:
		return c.checkCall(e, expected)

	case *ast.Subscript:
		return c.checkSubscript(e)

	case *ast.IntLit:
		return c.literal(e, expected, "int")
	case *ast.StrLit:
		return c.literal(e, expected, "str")
	case *ast.BoolLit:
		return c.literal(e, expected, "bool")
	case *ast.FloatLit:
		return c.builtinType("float")
	case *ast.NoneLit:
		return types.None

	case *ast.ListExpr:
		return c.checkDisplay(e.Items, "list", expected)
	case *ast.TupleExpr:
		return c.checkDisplay(e.Items, "tuple", expected)
	case *ast.DictExpr:
		return c.checkDict(e, expected)

	case *ast.BinOp:
		return c.checkBinOp(e)

	case *ast.Compare:
		x := c.checkExpr(e.X, nil)
		y := c.checkExpr(e.Y, nil)
		if e.Op == "<" || e.Op == ">" {
			method := "__lt__"
			if e.Op == ">" {
				method = "__gt__"
			}
			if inst, ok := c.ctx.Expand(x).(*types.Instance); ok {
				if _, sym := c.ctx.MemberType(inst, method); sym != nil {
					c.callWithTypes(e, x, method, []types.Type{y})
				}
			}
		}
		return c.builtinType("bool")

	case *ast.BoolOp:
		x := c.checkExpr(e.X, nil)
		saved := c.env
		yes, no := c.narrowCond(e.X, c.env)
		if e.Op == "and" {
			c.env = yes
		} else {
			c.env = no
		}
		if c.env.unreachable {
			c.dead++
			c.env.unreachable = false
			c.checkExpr(e.Y, nil)
			c.dead--
			c.env = saved
			return x
		}
		y := c.checkExpr(e.Y, expected)
		c.env = saved
		return c.ctx.Join(x, y)

	case *ast.UnaryOp:
		x := c.checkExpr(e.X, nil)
		switch e.Op {
		case "not":
			return c.builtinType("bool")
		case "-":
			if _, ok := e.X.(*ast.IntLit); ok {
				return c.literal(e, expected, "int")
			}
			return c.callWithTypes(e, x, "__neg__", nil)
		}
		return x
	}
	return types.AnyFrom(types.AnyImplicit)
}

func (c *checker) checkName(e *ast.Name) types.Type {
	if t, ok := c.env.lookup(e.Id); ok {
		return t
	}
	if t, owner := c.lookupLocal(e.Id); owner != nil {
		if owner == c.frame && !owner.params[e.Id] && !c.env.isDefined(e.Id) {
			c.notef(e, PossiblyUndefined, "Name %q may be undefined", e.Id)
			return types.AnyFrom(types.AnyFromError)
		}
		return t
	}
	sym := c.lookupGlobal(e.Id)
	if sym == nil {
		if c.isSpecial(e.Id) {
			return types.AnyFrom(types.AnyImplicit)
		}
		c.errorf(e, NameNotDefined, "Name %q is not defined", e.Id)
		return types.AnyFrom(types.AnyFromError)
	}
	return c.symbolType(sym)
}

// symbolType returns the type of a reference to a symbol as a value.
func (c *checker) symbolType(sym *symtab.Symbol) types.Type {
	switch sym.Kind {
	case symtab.TypeInfo:
		return c.typeObject(sym.Info)
	case symtab.Var, symtab.FuncDef, symtab.MypyFile:
		if sym.Type != nil {
			return sym.Type
		}
		return types.AnyFrom(types.AnyUnannotated)
	}
	return types.AnyFrom(types.AnyImplicit)
}

// checkMember returns the type of an attribute of a value, reporting missing attributes.
func (c *checker) checkMember(e ast.Expr, base types.Type, name string) types.Type {
	switch b := c.ctx.Expand(base).(type) {
	case *types.AnyType:
		return types.AnyFrom(types.AnyImplicit)
	case *types.NeverType:
		return types.Never
	case *types.Instance:
		if t, sym := c.ctx.MemberType(b, name); sym != nil {
			return t
		}
	case *types.Literal:
		return c.checkMember(e, b.Base, name)
	case *types.TypeVar:
		return c.checkMember(e, c.ctx.UpperBound(b), name)
	case *types.Union:
		items := make([]types.Type, len(b.Items))
		for i, item := range b.Items {
			items[i] = c.checkMember(e, item, name)
		}
		return types.NewUnion(items...)
	case *types.ModuleType:
		if sym := c.view.Lookup(b.Name + "." + name); sym != nil {
			return c.symbolType(sym)
		}
		c.errorf(e, AttributeNotFound, "Module %q has no attribute %q", b.Name, name)
		return types.AnyFrom(types.AnyFromError)
	case *types.Callable, *types.Overload:
		if info := c.classOfTypeObject(b); info != nil {
			if sym, _ := symtab.LookupMember(c.view, info.ID, name); sym != nil {
				return c.symbolType(sym)
			}
		}
	}
	if obj := c.ctx.Object(); obj != nil {
		if t, sym := c.ctx.MemberType(obj, name); sym != nil {
			return t
		}
	}
	c.errorf(e, AttributeNotFound, "%q has no attribute %q", types.ShortString(base), name)
	return types.AnyFrom(types.AnyFromError)
}

func (c *checker) checkSubscript(e *ast.Subscript) types.Type {
	base := c.ctx.Expand(c.checkExpr(e.X, nil))
	if info := c.classOfTypeObject(base); info != nil {
		// A generic class applied to type arguments is still a class object.
		c.analyzeType(e, c.frame.scope)
		return base
	}
	if m, ok := base.(*types.TypedMapping); ok && len(e.Index) == 1 {
		c.checkExpr(e.Index[0], nil)
		if ft := c.mappingField(m, e.Index[0]); ft != nil {
			return ft
		}
		return types.AnyFrom(types.AnyFromError)
	}
	return c.callMethod(e, base, "__getitem__", e.Index, nil)
}

// mappingField returns the type of a typed mapping field selected by a string literal key.
func (c *checker) mappingField(m *types.TypedMapping, key ast.Expr) types.Type {
	lit, ok := key.(*ast.StrLit)
	if !ok {
		c.errorf(key, AttributeNotFound, "TypedDict key must be a string literal")
		return nil
	}
	if ft, ok := m.Fields.Get(lit.Value); ok {
		return ft
	}
	c.errorf(key, AttributeNotFound, "TypedDict %q has no key %q", types.ShortString(m), lit.Value)
	return nil
}

// literal returns the type of a primitive literal: its literal type where the context expects a
// literal, or else the instance type of its class.
func (c *checker) literal(e ast.Expr, expected types.Type, class string) types.Type {
	if expected != nil {
		lit := c.literalType(e)
		for _, item := range types.UnionItems(expected) {
			if l, ok := item.(*types.Literal); ok && types.IsSameType(l, lit) {
				return l
			}
		}
	}
	return c.builtinType(class)
}

// checkDisplay checks a list or tuple display. The item type comes from the expected type when every
// item is compatible with it, or else from the join of the items.
func (c *checker) checkDisplay(items []ast.Expr, class string, expected types.Type) types.Type {
	var want types.Type
	if inst, ok := expected.(*types.Instance); ok && inst.Name == BuiltinsModule+"."+class && len(inst.Args) == 1 {
		want = inst.Args[0]
	}
	ts := make([]types.Type, len(items))
	ok := true
	for i, item := range items {
		ts[i] = c.checkExpr(item, want)
		if want != nil && !c.ctx.IsSubtype(ts[i], want) {
			ok = false
		}
	}
	switch {
	case want != nil && ok:
		return c.builtinInstance(class, want)
	case len(items) == 0:
		return c.builtinInstance(class, types.AnyFrom(types.AnyImplicit))
	}
	elems := make([]types.Type, len(ts))
	for i, t := range ts {
		elems[i] = widen(t)
	}
	return c.builtinInstance(class, c.ctx.JoinAll(elems))
}

// checkDict checks a dict display. Where a typed mapping is expected and the keys are exactly its
// fields, the display has the typed mapping type.
func (c *checker) checkDict(e *ast.DictExpr, expected types.Type) types.Type {
	if m, ok := expected.(*types.TypedMapping); ok {
		if t := c.checkTypedDict(e, m); t != nil {
			return t
		}
	}
	var kt, vt types.Type
	if inst, ok := expected.(*types.Instance); ok && inst.Name == BuiltinsModule+".dict" && len(inst.Args) == 2 {
		kt, vt = inst.Args[0], inst.Args[1]
	}
	keys := make([]types.Type, len(e.Keys))
	values := make([]types.Type, len(e.Values))
	ok := true
	for i := range e.Keys {
		keys[i] = c.checkExpr(e.Keys[i], kt)
		values[i] = c.checkExpr(e.Values[i], vt)
		if kt != nil && (!c.ctx.IsSubtype(keys[i], kt) || !c.ctx.IsSubtype(values[i], vt)) {
			ok = false
		}
	}
	switch {
	case kt != nil && ok:
		return c.builtinInstance("dict", kt, vt)
	case len(e.Keys) == 0:
		return c.builtinInstance("dict", types.AnyFrom(types.AnyImplicit), types.AnyFrom(types.AnyImplicit))
	}
	for i := range keys {
		keys[i], values[i] = widen(keys[i]), widen(values[i])
	}
	return c.builtinInstance("dict", c.ctx.JoinAll(keys), c.ctx.JoinAll(values))
}

func (c *checker) checkTypedDict(e *ast.DictExpr, m *types.TypedMapping) types.Type {
	if len(e.Keys) != m.Fields.Len() {
		return nil
	}
	for _, k := range e.Keys {
		lit, ok := k.(*ast.StrLit)
		if !ok {
			return nil
		}
		if _, ok := m.Fields.Get(lit.Value); !ok {
			return nil
		}
	}
	ok := true
	for i, k := range e.Keys {
		ft, _ := m.Fields.Get(k.(*ast.StrLit).Value)
		c.checkExpr(k, nil)
		if t := c.checkExpr(e.Values[i], ft); !c.ctx.IsSubtype(t, ft) {
			c.errorf(e.Values[i], IncompatibleAssignment, "Incompatible types (expression has type %q, TypedDict item %q has type %q)",
				types.ShortString(t), k.(*ast.StrLit).Value, types.ShortString(ft))
			ok = false
		}
	}
	if !ok {
		return types.AnyFrom(types.AnyFromError)
	}
	return m
}

var binaryMethods = map[string]string{
	"+":  "__add__",
	"-":  "__sub__",
	"*":  "__mul__",
	"/":  "__truediv__",
	"//": "__floordiv__",
	"%":  "__mod__",
}

// checkBinOp dispatches a binary operator to the dunder method of the left operand.
func (c *checker) checkBinOp(e *ast.BinOp) types.Type {
	x := c.checkExpr(e.X, nil)
	y := c.checkExpr(e.Y, nil)
	method, ok := binaryMethods[e.Op]
	if !ok {
		return types.AnyFrom(types.AnyImplicit)
	}
	return c.binary(e, x, y, method)
}

func (c *checker) binary(e *ast.BinOp, x, y types.Type, method string) types.Type {
	switch xt := c.ctx.Expand(x).(type) {
	case *types.AnyType:
		return types.AnyFrom(types.AnyImplicit)
	case *types.NeverType:
		return types.Never
	case *types.Union:
		items := make([]types.Type, len(xt.Items))
		for i, item := range xt.Items {
			items[i] = c.binary(e, item, y, method)
		}
		return types.NewUnion(items...)
	case *types.TypeVar:
		return c.binary(e, c.ctx.UpperBound(xt), y, method)
	case *types.Literal:
		return c.binary(e, xt.Base, y, method)
	case *types.Instance:
		if _, sym := c.ctx.MemberType(xt, method); sym != nil {
			t := c.beginTrial()
			ret := c.callWithTypes(e, xt, method, []types.Type{y})
			failed := c.failed(t)
			c.rollback(t)
			if !failed {
				return ret
			}
		}
	}
	c.errorf(e, UnsupportedOperand, "Unsupported operand types for %s (%q and %q)", e.Op, types.ShortString(x), types.ShortString(y))
	return types.AnyFrom(types.AnyFromError)
}
