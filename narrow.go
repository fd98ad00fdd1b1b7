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

// narrowCond returns the environments in which a condition is true and false. A branch whose
// environment narrows a reference to Never is unreachable.
func (c *checker) narrowCond(cond ast.Expr, e env) (yes, no env) {
	if e.unreachable {
		return e, e
	}
	switch x := cond.(type) {
	case *ast.BoolLit:
		if x.Value {
			return e, unreachableEnv()
		}
		return unreachableEnv(), e

	case *ast.UnaryOp:
		if x.Op == "not" {
			yes, no = c.narrowCond(x.X, e)
			return no, yes
		}

	case *ast.BoolOp:
		leftYes, leftNo := c.narrowCond(x.X, e)
		switch x.Op {
		case "and":
			rightYes, rightNo := c.narrowCond(x.Y, leftYes)
			return rightYes, joinEnvs(c.ctx, leftNo, rightNo)
		case "or":
			rightYes, rightNo := c.narrowCond(x.Y, leftNo)
			return joinEnvs(c.ctx, leftYes, rightYes), rightNo
		}

	case *ast.Compare:
		return c.narrowCompare(x, e)

	case *ast.Call:
		if target, subject, ok := c.isinstanceCall(x, e); ok {
			return c.narrowIsinstance(subject, target, e)
		}
	}
	return c.narrowTruthy(cond, e)
}

// current returns the type of a reference in an environment.
func (c *checker) current(x ast.Expr, e env) types.Type {
	saved := c.env
	c.env = e
	t := c.peek(x)
	c.env = saved
	return t
}

func (c *checker) narrowCompare(x *ast.Compare, e env) (yes, no env) {
	if x.Op != "is" && x.Op != "is not" {
		return e, e
	}
	subject, other := x.X, x.Y
	if _, ok := subject.(*ast.NoneLit); ok {
		subject, other = other, subject
	}
	var yesType, noType types.Type
	var path string

	switch other := other.(type) {
	case *ast.NoneLit:
		path = ast.RefPath(subject)
		if path == "" {
			return e, e
		}
		t := c.current(subject, e)
		if types.IsAny(t) {
			yesType, noType = types.None, t
		} else {
			yesType = c.ctx.Meet(c.expandValues(t), types.None)
			noType = types.RemoveFromUnion(c.expandValues(t), func(item types.Type) bool { return !isNone(item) })
		}

	default:
		// type(x) is C
		call, ok := subject.(*ast.Call)
		if !ok || len(call.Args) != 1 {
			return e, e
		}
		fn, ok := call.Func.(*ast.Name)
		if !ok || fn.Id != "type" {
			return e, e
		}
		target := c.classTargets(other, e)
		path = ast.RefPath(call.Args[0].Value)
		if target == nil || path == "" {
			return e, e
		}
		yesType = c.ctx.Meet(c.current(call.Args[0].Value, e), target)
	}

	yes, no = e, e
	if yesType != nil {
		yes = e.narrow(path, yesType)
	}
	if noType != nil {
		no = e.narrow(path, noType)
	}
	if x.Op == "is not" {
		return no, yes
	}
	return yes, no
}

func isNone(t types.Type) bool {
	_, ok := t.(*types.NoneType)
	return ok
}

// expandValues replaces a value-restricted type variable by the union of its values.
func (c *checker) expandValues(t types.Type) types.Type {
	if tv, ok := t.(*types.TypeVar); ok && tv.Kind == types.ValueRestricted {
		return types.NewUnion(tv.Values...)
	}
	return t
}

// isinstanceCall matches `isinstance(x, C)` or `isinstance(x, (C, D))`, returning the instance
// type (or union of instance types) of the classes and the subject expression.
func (c *checker) isinstanceCall(call *ast.Call, e env) (types.Type, ast.Expr, bool) {
	fn, ok := call.Func.(*ast.Name)
	if !ok || fn.Id != "isinstance" || len(call.Args) != 2 {
		return nil, nil, false
	}
	if sym := c.lookupGlobal(fn.Id); sym == nil || sym.Module != BuiltinsModule {
		return nil, nil, false
	}
	target := c.classTargets(call.Args[1].Value, e)
	if target == nil {
		return nil, nil, false
	}
	return target, call.Args[0].Value, true
}

// classTargets returns the erased instance type of a class reference, or the union for a tuple of
// class references, or nil.
func (c *checker) classTargets(x ast.Expr, e env) types.Type {
	if tuple, ok := x.(*ast.TupleExpr); ok {
		items := make([]types.Type, len(tuple.Items))
		for i, item := range tuple.Items {
			if items[i] = c.classTargets(item, e); items[i] == nil {
				return nil
			}
		}
		return types.NewUnion(items...)
	}
	var info *symtab.ClassInfo
	if info = c.classOfTypeObject(c.ctx.Expand(c.current(x, e))); info == nil {
		return nil
	}
	return info.ErasedType()
}

func (c *checker) narrowIsinstance(subject ast.Expr, target types.Type, e env) (yes, no env) {
	path := ast.RefPath(subject)
	if path == "" {
		return e, e
	}
	t := c.current(subject, e)
	yes = e.narrow(path, c.ctx.Meet(t, target))
	if types.IsAny(t) {
		return yes, e
	}
	rest := types.RemoveFromUnion(c.expandValues(c.ctx.Expand(t)), func(item types.Type) bool {
		return types.IsAny(item) || !c.ctx.IsSubtype(item, target)
	})
	return yes, e.narrow(path, rest)
}

// narrowTruthy narrows a reference tested for truth: None is removed when it is true, and a
// reference of type None makes the true branch unreachable.
func (c *checker) narrowTruthy(x ast.Expr, e env) (yes, no env) {
	path := ast.RefPath(x)
	if path == "" {
		return e, e
	}
	t := c.current(x, e)
	if types.IsAny(t) {
		return e, e
	}
	items := types.UnionItems(c.expandValues(c.ctx.Expand(t)))
	hasNone := false
	for _, item := range items {
		if isNone(item) {
			hasNone = true
		}
	}
	if !hasNone {
		return e, e
	}
	return e.narrow(path, types.RemoveFromUnion(types.NewUnion(items...), func(item types.Type) bool { return !isNone(item) })), e
}
