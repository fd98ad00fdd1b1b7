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
	"strings"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// tvScope binds type variables while annotations are analyzed. Class scopes hold the class's type
// parameters (positive ids); function scopes hold the variables bound by a signature (negative
// ids, unique across nested functions).
type tvScope struct {
	parent *tvScope
	vars   []*types.TypeVar
	// binds is set for the signature being analyzed: unbound variables are bound to it.
	binds bool
	// collect is set for a class whose type parameters are inferred from its bases, in order of
	// first occurrence.
	collect bool
}

func (s *tvScope) resolve(decl *types.TypeVar) *types.TypeVar {
	for sc := s; sc != nil; sc = sc.parent {
		for _, v := range sc.vars {
			if v.Fullname == decl.Fullname {
				return v
			}
		}
	}
	for sc := s; sc != nil; sc = sc.parent {
		switch {
		case sc.collect:
			v := decl.WithId(len(sc.vars) + 1)
			sc.vars = append(sc.vars, v)
			return v
		case sc.binds:
			v := decl.WithId(s.nextFunctionId())
			sc.vars = append(sc.vars, v)
			return v
		}
	}
	return nil
}

func (s *tvScope) nextFunctionId() int {
	next := -1
	for sc := s; sc != nil; sc = sc.parent {
		for _, v := range sc.vars {
			if v.Id <= next {
				next = v.Id - 1
			}
		}
	}
	return next
}

// analyzeType resolves an annotation expression into a type. Problems are reported and replaced
// by Any.
func (c *checker) analyzeType(e ast.Expr, scope *tvScope) types.Type {
	switch e := e.(type) {
	case nil:
		return types.AnyFrom(types.AnyUnannotated)

	case *ast.NoneLit:
		return types.None

	case *ast.StrLit:
		// Forward reference
		if ref := parseRef(e); ref != nil {
			return c.analyzeType(ref, scope)
		}

	case *ast.Name:
		if t, ok := c.specialType(e, e.Id); ok {
			return t
		}
		return c.analyzeSymbol(e, c.lookupGlobal(e.Id), e.Id, scope)

	case *ast.Attribute:
		return c.analyzeSymbol(e, c.lookupRef(e), ast.RefPath(e), scope)

	case *ast.Subscript:
		return c.analyzeSubscript(e, scope)

	case *ast.BinOp:
		if e.Op == "|" {
			return types.NewUnion(c.analyzeType(e.X, scope), c.analyzeType(e.Y, scope))
		}
	}
	c.errorf(e, InvalidType, "Invalid type expression %q", ast.ExprString(e))
	return types.AnyFrom(types.AnyFromError)
}

// parseRef parses a string forward reference holding a dotted name.
func parseRef(s *ast.StrLit) ast.Expr {
	parts := strings.Split(strings.TrimSpace(s.Value), ".")
	var ref ast.Expr
	for _, p := range parts {
		if p == "" {
			return nil
		}
		if ref == nil {
			ref = &ast.Name{Loc: s.Loc, Id: p}
		} else {
			ref = &ast.Attribute{Loc: s.Loc, X: ref, Attr: p}
		}
	}
	return ref
}

// lookupRef resolves a dotted reference through module symbols, e.g. `m.C`.
func (c *checker) lookupRef(e ast.Expr) *symtab.Symbol {
	switch e := e.(type) {
	case *ast.Name:
		return c.lookupGlobal(e.Id)
	case *ast.Attribute:
		base := c.lookupRef(e.X)
		switch {
		case base == nil:
			return nil
		case base.Kind == symtab.MypyFile:
			return c.view.Lookup(base.Fullname + "." + e.Attr)
		case base.Info != nil:
			return base.Info.Members.Lookup(e.Attr)
		}
	}
	return nil
}

func (c *checker) isSpecial(name string) bool {
	return specialForms[name] && c.lookupGlobal(name) == nil
}

func (c *checker) specialType(e ast.Expr, name string) (types.Type, bool) {
	if !c.isSpecial(name) {
		return nil, false
	}
	switch name {
	case "Any":
		return types.Any, true
	case "Never", "NoReturn":
		return types.Never, true
	case "Callable":
		return &types.Callable{
			Args:   []types.Type{types.AnyFrom(types.AnyImplicit), types.AnyFrom(types.AnyImplicit)},
			Kinds:  []types.ArgKind{types.ArgStar, types.ArgStar2},
			Names:  []string{"", ""},
			Return: types.AnyFrom(types.AnyImplicit),
		}, true
	}
	c.errorf(e, InvalidType, "%q is not valid as a type", name)
	return types.AnyFrom(types.AnyFromError), true
}

func (c *checker) analyzeSymbol(e ast.Expr, sym *symtab.Symbol, name string, scope *tvScope) types.Type {
	if sym == nil {
		c.errorf(e, NameNotDefined, "Name %q is not defined", name)
		return types.AnyFrom(types.AnyFromError)
	}
	switch sym.Kind {
	case symtab.TypeInfo:
		if sym.Info.Arity() > 0 {
			return sym.Info.ErasedType()
		}
		return sym.Info.SelfType()
	case symtab.TypeVarExpr:
		if sym.TypeVar == nil {
			return types.AnyFrom(types.AnyFromError)
		}
		if tv := scope.resolve(sym.TypeVar); tv != nil {
			return tv
		}
		c.errorf(e, InvalidTypeVar, "Type variable %q is unbound", sym.Fullname)
		return types.AnyFrom(types.AnyFromError)
	case symtab.TypeAlias:
		if sym.Alias == nil {
			return types.AnyFrom(types.AnyFromError)
		}
		return sym.Alias.Target()
	}
	c.errorf(e, InvalidType, "Variable %q is not valid as a type", sym.Fullname)
	return types.AnyFrom(types.AnyFromError)
}

func (c *checker) analyzeSubscript(e *ast.Subscript, scope *tvScope) types.Type {
	if name, ok := e.X.(*ast.Name); ok && c.isSpecial(name.Id) {
		switch name.Id {
		case "Optional":
			if len(e.Index) == 1 {
				return types.NewUnion(c.analyzeType(e.Index[0], scope), types.None)
			}
		case "Union":
			items := make([]types.Type, len(e.Index))
			for i, idx := range e.Index {
				items[i] = c.analyzeType(idx, scope)
			}
			return types.NewUnion(items...)
		case "Literal":
			items := make([]types.Type, 0, len(e.Index))
			for _, idx := range e.Index {
				if lit := c.literalType(idx); lit != nil {
					items = append(items, lit)
				} else {
					c.errorf(idx, InvalidType, "Invalid literal %q", ast.ExprString(idx))
				}
			}
			return types.NewUnion(items...)
		case "Callable":
			if len(e.Index) == 2 {
				if params, ok := e.Index[0].(*ast.ListExpr); ok {
					ct := &types.Callable{Return: c.analyzeType(e.Index[1], scope)}
					for _, p := range params.Items {
						ct.Args = append(ct.Args, c.analyzeType(p, scope))
						ct.Kinds = append(ct.Kinds, types.ArgPos)
						ct.Names = append(ct.Names, "")
					}
					return ct
				}
			}
		}
		c.errorf(e, InvalidType, "Invalid type expression %q", ast.ExprString(e))
		return types.AnyFrom(types.AnyFromError)
	}

	sym := c.lookupRef(e.X)
	if sym == nil || sym.Kind != symtab.TypeInfo {
		if sym == nil {
			c.errorf(e.X, NameNotDefined, "Name %q is not defined", ast.ExprString(e.X))
		} else {
			c.errorf(e, InvalidType, "%q is not a generic class", sym.Fullname)
		}
		return types.AnyFrom(types.AnyFromError)
	}
	info := sym.Info
	args := make([]types.Type, len(e.Index))
	for i, idx := range e.Index {
		args[i] = c.analyzeType(idx, scope)
	}
	inst, err := types.NewInstance(info.ID, info.Fullname, info.Arity(), args...)
	if err != nil {
		c.errorf(e, InvalidTypeArgumentCount, "%q expects %d type argument(s), but %d given", info.Name, info.Arity(), len(args))
		return info.ErasedType()
	}
	for _, i := range c.ctx.CheckTypeArgs(info.TypeVars, args) {
		c.errorf(e.Index[i], ValueRestrictionViolation, "Value of type variable %q of %q cannot be %q",
			info.TypeVars[i].Name, info.Name, types.ShortString(args[i]))
	}
	return inst
}

// literalType returns the literal type of a primitive literal expression, or nil.
func (c *checker) literalType(e ast.Expr) types.Type {
	var base string
	var v types.LiteralValue
	switch e := e.(type) {
	case *ast.IntLit:
		base, v = "int", types.LiteralValue{Kind: types.LiteralInt, Int: e.Value}
	case *ast.UnaryOp:
		lit, ok := e.X.(*ast.IntLit)
		if !ok || e.Op != "-" {
			return nil
		}
		base, v = "int", types.LiteralValue{Kind: types.LiteralInt, Int: -lit.Value}
	case *ast.StrLit:
		base, v = "str", types.LiteralValue{Kind: types.LiteralStr, Str: e.Value}
	case *ast.BoolLit:
		base, v = "bool", types.LiteralValue{Kind: types.LiteralBool, Bool: e.Value}
	case *ast.NoneLit:
		return types.None
	default:
		return nil
	}
	inst := c.ctx.Builtin(base)
	if inst == nil {
		return types.AnyFrom(types.AnyImplicit)
	}
	return &types.Literal{Base: inst, Value: v}
}
