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

	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// argument is an actual argument of a call. Arguments of synthesized calls (operators and
// subscripts) carry a type instead of an expression.
type argument struct {
	kind ast.ArgKind
	name string
	expr ast.Expr
	t    types.Type
}

func (c *checker) argType(a *argument, expected types.Type) types.Type {
	if a.expr == nil {
		return a.t
	}
	a.t = c.checkExpr(a.expr, expected)
	return a.t
}

func (a *argument) node(call ast.Node) ast.Node {
	if a.expr != nil {
		return a.expr
	}
	return call
}

func positional(exprs []ast.Expr) []argument {
	args := make([]argument, len(exprs))
	for i, e := range exprs {
		args[i] = argument{kind: ast.ArgPositional, expr: e}
	}
	return args
}

func typedArgs(ts []types.Type) []argument {
	args := make([]argument, len(ts))
	for i, t := range ts {
		args[i] = argument{kind: ast.ArgPositional, t: t}
	}
	return args
}

func (c *checker) checkCall(e *ast.Call, expected types.Type) types.Type {
	name := ast.ExprString(e.Func)
	var seen []string
	for _, a := range e.Args {
		if a.Kind != ast.ArgKeyword {
			continue
		}
		if slices.Contains(seen, a.Name) {
			c.errorf(a.Value, DuplicateKeywordArgument, "%q gets multiple values for keyword argument %q", name, a.Name)
			continue
		}
		seen = append(seen, a.Name)
	}

	if t, ok := c.specialCall(e, expected); ok {
		return t
	}

	args := make([]argument, len(e.Args))
	for i, a := range e.Args {
		args[i] = argument{kind: a.Kind, name: a.Name, expr: a.Value}
	}
	callee := c.checkExpr(e.Func, nil)
	t := c.callType(e, callee, args, expected, name)
	c.env = c.env.invalidateMembers()
	return t
}

// specialCall checks calls to the functions the checker treats specially.
func (c *checker) specialCall(e *ast.Call, expected types.Type) (types.Type, bool) {
	fn, ok := e.Func.(*ast.Name)
	if !ok {
		return nil, false
	}
	if _, local := c.lookupLocal(fn.Id); local != nil {
		return nil, false
	}
	sym := c.lookupGlobal(fn.Id)

	switch {
	case fn.Id == "reveal_type" && len(e.Args) == 1 && (sym == nil || sym.Module == BuiltinsModule):
		arg := e.Args[0].Value
		c.record(fn, c.symbolTypeOrAny(sym))
		t := c.checkExpr(arg, expected)
		if c.quiet == 0 && c.trials == 0 && c.dead == 0 {
			if _, ok := c.revealed[e]; !ok {
				c.reveals = append(c.reveals, e)
			}
			c.revealed[e] = arg
		}
		return t, true

	case fn.Id == "super" && sym == nil && len(e.Args) == 0:
		var class *symtab.ClassInfo
		for f := c.frame; f != nil && class == nil; f = f.parent {
			class = f.class
		}
		if class == nil || len(class.MRO) < 2 {
			c.errorf(e, NameNotDefined, "\"super()\" used outside a method")
			return types.AnyFrom(types.AnyFromError), true
		}
		if base := c.ctx.MapInstanceToSupertype(class.SelfType(), class.MRO[1]); base != nil {
			return base, true
		}
		return types.AnyFrom(types.AnyImplicit), true

	case fn.Id == "type" && sym != nil && sym.Module == BuiltinsModule && len(e.Args) == 1 && e.Args[0].Kind == ast.ArgPositional:
		c.record(fn, c.symbolType(sym))
		x := c.ctx.Expand(c.checkExpr(e.Args[0].Value, nil))
		if lit, ok := x.(*types.Literal); ok {
			x = lit.Base
		}
		if inst, ok := x.(*types.Instance); ok {
			if info := c.ctx.ClassInfo(inst.Class); info != nil {
				return c.typeObject(info), true
			}
		}
		return c.builtinType("type"), true

	case sym != nil && sym.Kind == symtab.TypeAlias && sym.Alias != nil:
		m, ok := c.ctx.Expand(sym.Alias.Target()).(*types.TypedMapping)
		if !ok {
			return nil, false
		}
		return c.constructMapping(e, m), true
	}
	return nil, false
}

func (c *checker) symbolTypeOrAny(sym *symtab.Symbol) types.Type {
	if sym == nil {
		return types.AnyFrom(types.AnyImplicit)
	}
	return c.symbolType(sym)
}

// constructMapping checks a call to a typed mapping type, which takes each field as a keyword.
func (c *checker) constructMapping(e *ast.Call, m *types.TypedMapping) types.Type {
	var given []string
	for _, a := range e.Args {
		if a.Kind != ast.ArgKeyword {
			c.checkExpr(a.Value, nil)
			c.errorf(a.Value, ArgumentMismatch, "TypedDict %q only accepts keyword arguments", m.Name)
			continue
		}
		ft, ok := m.Fields.Get(a.Name)
		if !ok {
			c.checkExpr(a.Value, nil)
			c.errorf(a.Value, ArgumentMismatch, "Extra key %q for TypedDict %q", a.Name, m.Name)
			continue
		}
		given = append(given, a.Name)
		if t := c.checkExpr(a.Value, ft); !c.ctx.IsSubtype(t, ft) {
			c.errorf(a.Value, IncompatibleArgument, "Incompatible types (expression has type %q, TypedDict item %q has type %q)",
				types.ShortString(t), a.Name, types.ShortString(ft))
		}
	}
	for _, label := range m.Fields.Labels() {
		if !slices.Contains(given, label) {
			c.errorf(e, ArgumentMismatch, "Missing key %q for TypedDict %q", label, m.Name)
		}
	}
	return m
}

// callMethod checks a call to a method of a value with positional argument expressions.
func (c *checker) callMethod(node ast.Expr, base types.Type, name string, args []ast.Expr, expected types.Type) types.Type {
	method := c.checkMember(node, base, name)
	return c.callType(node, method, positional(args), expected, name)
}

// callWithTypes checks a call to a method of a value with arguments of known types.
func (c *checker) callWithTypes(node ast.Expr, base types.Type, name string, argTypes []types.Type) types.Type {
	method := c.checkMember(node, base, name)
	return c.callType(node, method, typedArgs(argTypes), nil, name)
}

// callType checks a call to a value of type callee.
func (c *checker) callType(node ast.Expr, callee types.Type, args []argument, expected types.Type, name string) types.Type {
	switch ct := c.ctx.Expand(callee).(type) {
	case *types.Callable:
		return c.matchCallable(node, ct, args, expected)

	case *types.Overload:
		return c.matchOverload(node, ct, args, expected, name)

	case *types.Instance:
		if call := c.ctx.CallMember(ct); call != nil {
			return c.callType(node, call, args, expected, name)
		}

	case *types.TypeVar:
		return c.callType(node, c.ctx.UpperBound(ct), args, expected, name)

	case *types.Union:
		results := make([]types.Type, len(ct.Items))
		for i, item := range ct.Items {
			results[i] = c.callType(node, item, args, expected, name)
		}
		return c.ctx.JoinAll(results)

	case *types.AnyType:
		c.checkArgs(args)
		return types.AnyFrom(types.AnyImplicit)

	case *types.NeverType:
		c.checkArgs(args)
		return types.Never
	}
	c.checkArgs(args)
	c.errorf(node, NotCallable, "%q not callable", types.ShortString(callee))
	return types.AnyFrom(types.AnyFromError)
}

func (c *checker) checkArgs(args []argument) {
	for i := range args {
		c.argType(&args[i], nil)
	}
}

func callableName(ct *types.Callable) string {
	if ct.Name != "" {
		return ct.Name
	}
	return types.ShortString(ct)
}

// mapArgs maps each actual argument to the index of a formal parameter, or -1. Mismatches are
// reported.
func (c *checker) mapArgs(node ast.Node, ct *types.Callable, args []argument) []int {
	name := callableName(ct)
	formals := make([]int, len(args))
	filled := make([]bool, len(ct.Args))
	byKeyword := make([]bool, len(ct.Args))
	next := 0
	nextPositional := func() int {
		for ; next < len(ct.Kinds); next++ {
			if ct.Kinds[next].IsPositional() && !filled[next] {
				return next
			}
		}
		return ct.StarIndex(types.ArgStar)
	}
	for i, a := range args {
		formals[i] = -1
		switch a.kind {
		case ast.ArgPositional:
			fi := nextPositional()
			if fi < 0 {
				c.errorf(a.node(node), ArgumentMismatch, "Too many arguments for %q", name)
				continue
			}
			formals[i] = fi
			filled[fi] = true

		case ast.ArgStar:
			fi := ct.StarIndex(types.ArgStar)
			if fi < 0 {
				fi = nextPositional()
			}
			if fi < 0 {
				c.errorf(a.node(node), ArgumentMismatch, "Too many arguments for %q", name)
				continue
			}
			formals[i] = fi
			for j, k := range ct.Kinds {
				if k.IsPositional() || k == types.ArgStar {
					filled[j] = true
				}
			}

		case ast.ArgKeyword:
			fi := ct.ArgIndex(a.name)
			if fi < 0 || ct.Names[fi] == "" {
				fi = ct.StarIndex(types.ArgStar2)
				if fi < 0 {
					c.errorf(a.node(node), ArgumentMismatch, "Unexpected keyword argument %q for %q", a.name, name)
					continue
				}
			} else if filled[fi] {
				if !byKeyword[fi] {
					c.errorf(a.node(node), DuplicateKeywordArgument, "%q gets multiple values for keyword argument %q", name, a.name)
				}
				continue
			}
			formals[i] = fi
			filled[fi], byKeyword[fi] = true, true

		case ast.ArgStar2:
			fi := ct.StarIndex(types.ArgStar2)
			for j, k := range ct.Kinds {
				if (k == types.ArgNamed || k == types.ArgNamedOpt || k.IsPositional()) && ct.Names[j] != "" && !filled[j] {
					filled[j] = true
					if fi < 0 {
						fi = j
					}
				}
			}
			if fi < 0 {
				c.errorf(a.node(node), ArgumentMismatch, "Too many arguments for %q", name)
				continue
			}
			formals[i] = fi
		}
	}
	for j, k := range ct.Kinds {
		if filled[j] || k.IsOptional() {
			continue
		}
		switch {
		case ct.Names[j] == "":
			c.errorf(node, ArgumentMismatch, "Too few arguments for %q", name)
		case k == types.ArgPos:
			c.errorf(node, ArgumentMismatch, "Missing positional argument %q in call to %q", ct.Names[j], name)
		default:
			c.errorf(node, ArgumentMismatch, "Missing named argument %q for %q", ct.Names[j], name)
		}
	}
	return formals
}

// actualType returns the type an argument passes to a single formal parameter: the element type of
// an unpacked argument, or the argument's type.
func (c *checker) actualType(a *argument, t types.Type) types.Type {
	switch a.kind {
	case ast.ArgStar:
		if inst, ok := c.ctx.Expand(t).(*types.Instance); ok && len(inst.Args) == 1 {
			return inst.Args[0]
		}
		return types.AnyFrom(types.AnyImplicit)
	case ast.ArgStar2:
		if inst, ok := c.ctx.Expand(t).(*types.Instance); ok && len(inst.Args) == 2 {
			return inst.Args[1]
		}
		return types.AnyFrom(types.AnyImplicit)
	}
	return t
}

// matchCallable checks a call against a callable. Type variables bound by the callable are solved
// from the argument types, guided by the expected result type. An argument which causes a type
// variable violation is not also reported as incompatible.
func (c *checker) matchCallable(node ast.Expr, ct *types.Callable, args []argument, expected types.Type) types.Type {
	formals := c.mapArgs(node, ct, args)
	argTypes := make([]types.Type, len(args))
	for i := range args {
		var want types.Type
		direct := args[i].kind == ast.ArgPositional || args[i].kind == ast.ArgKeyword
		if fi := formals[i]; fi >= 0 && direct && !mentionsVars(ct.Args[fi], ct.Vars) {
			want = ct.Args[fi]
		}
		argTypes[i] = c.actualType(&args[i], c.argType(&args[i], want))
	}

	name := callableName(ct)
	ret := ct.Return
	formalTypes := ct.Args
	bad := make(map[int]bool)
	failed := false
	if len(ct.Vars) > 0 {
		var cs []typeutil.Constraint
		for i, fi := range formals {
			if fi >= 0 {
				cs = append(cs, typeutil.WithOrigin(c.ctx.InferConstraints(ct.Args[fi], argTypes[i], typeutil.SupertypeOf, ct.Vars), i)...)
			}
		}
		var context []typeutil.Constraint
		if expected != nil && !types.IsAny(expected) {
			context = c.ctx.InferConstraints(ct.Return, expected, typeutil.SubtypeOf, ct.Vars)
		}
		sol := c.ctx.Solve(ct.Vars, cs, context)
		for _, v := range sol.Violations {
			at := ast.Node(node)
			if v.Origin >= 0 {
				at = args[v.Origin].node(node)
				bad[v.Origin] = true
			}
			actual := v.Actual
			if actual == nil {
				actual = types.AnyFrom(types.AnyImplicit)
			}
			c.errorf(at, ValueRestrictionViolation, "Value of type variable %q of %q cannot be %q", v.Var.Name, name, types.ShortString(actual))
		}
		mapping := types.VarMapping(ct.Vars, sol.Types)
		formalTypes = make([]types.Type, len(ct.Args))
		for i, t := range ct.Args {
			formalTypes[i] = types.Substitute(t, mapping)
		}
		ret = types.Substitute(ct.Return, mapping)
		failed = sol.Failed
	}

	for i, fi := range formals {
		if fi < 0 || bad[i] {
			continue
		}
		if !c.ctx.IsSubtype(argTypes[i], formalTypes[fi]) {
			c.errorf(args[i].node(node), IncompatibleArgument, "Argument %d to %q has incompatible type %q; expected %q",
				i+1, name, types.ShortString(argTypes[i]), types.ShortString(formalTypes[fi]))
		}
	}
	if failed {
		return types.AnyFrom(types.AnyFromError)
	}
	return ret
}

func mentionsVars(t types.Type, vars []*types.TypeVar) bool {
	if len(vars) == 0 {
		return false
	}
	for _, tv := range types.FreeVars(t) {
		if slices.IndexFunc(vars, func(v *types.TypeVar) bool { return v.Id == tv.Id && v.Fullname == tv.Fullname }) >= 0 {
			return true
		}
	}
	return false
}

// matchOverload checks a call against the items of an overloaded function, in order. The argument
// types are inferred once without context; the first item which accepts them is checked for real.
func (c *checker) matchOverload(node ast.Expr, ov *types.Overload, args []argument, expected types.Type, name string) types.Type {
	inferred := make([]argument, len(args))
	for i, a := range args {
		inferred[i] = argument{kind: a.kind, name: a.name, t: a.t}
		if a.expr != nil {
			inferred[i].t = c.peek(a.expr)
		}
	}
	for _, item := range ov.Items {
		t := c.beginTrial()
		c.matchCallable(node, item, append([]argument(nil), inferred...), expected)
		failed := c.failed(t)
		c.rollback(t)
		if !failed {
			return c.matchCallable(node, item, args, expected)
		}
	}
	c.checkArgs(args)
	if len(ov.Items) > 0 && ov.Items[0].Name != "" {
		name = ov.Items[0].Name
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = "\"" + types.ShortString(c.actualType(&a, a.t)) + "\""
	}
	c.errorf(node, NoMatchingOverload, "No overload variant of %q matches argument types %s", name, strings.Join(quoted, ", "))
	return types.AnyFrom(types.AnyFromError)
}
