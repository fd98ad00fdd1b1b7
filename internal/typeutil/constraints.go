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

package typeutil

import (
	"github.com/wdamron/gradual/types"
)

// Direction of a constraint on a type variable.
type Direction uint8

const (
	// The variable must be a subtype of the target.
	SubtypeOf Direction = iota
	// The variable must be a supertype of the target.
	SupertypeOf
)

func (d Direction) flip() Direction {
	if d == SubtypeOf {
		return SupertypeOf
	}
	return SubtypeOf
}

// Constraint on a type variable being solved.
type Constraint struct {
	VarId  int
	Op     Direction
	Target types.Type
	// Origin is the index of the argument which produced the constraint, or -1.
	Origin int
}

// WithOrigin sets the origin of each constraint.
func WithOrigin(cs []Constraint, origin int) []Constraint {
	for i := range cs {
		cs[i].Origin = origin
	}
	return cs
}

// InferConstraints decomposes the relation `actual <: template` (for SupertypeOf) or
// `actual :> template` (for SubtypeOf) structurally into constraints on the variables in solving.
// Type variables not being solved are treated as opaque types.
func (ctx *Context) InferConstraints(template, actual types.Type, dir Direction, solving []*types.TypeVar) []Constraint {
	if template == nil || actual == nil || !mentions(template, solving) {
		return nil
	}
	if tv, ok := template.(*types.TypeVar); ok && isSolving(tv, solving) {
		return []Constraint{{VarId: tv.Id, Op: dir, Target: actual, Origin: -1}}
	}
	template, actual = ctx.Expand(template), ctx.Expand(actual)

	if types.IsAny(actual) {
		var cs []Constraint
		for _, tv := range types.FreeVars(template) {
			if isSolving(tv, solving) {
				cs = append(cs, Constraint{VarId: tv.Id, Op: dir, Target: actual, Origin: -1})
			}
		}
		return cs
	}
	if u, ok := actual.(*types.Union); ok {
		var cs []Constraint
		for _, item := range u.Items {
			cs = append(cs, ctx.InferConstraints(template, item, dir, solving)...)
		}
		return cs
	}
	if tv, ok := actual.(*types.TypeVar); ok && dir == SupertypeOf && tv.Kind != types.Unrestricted {
		if _, isVar := template.(*types.TypeVar); !isVar {
			actual = ctx.UpperBound(tv)
		}
	}

	switch t := template.(type) {
	case *types.Union:
		return ctx.unionConstraints(t, actual, dir, solving)

	case *types.Instance:
		a, ok := simple(actual).(*types.Instance)
		if !ok {
			return nil
		}
		var mapped *types.Instance
		if dir == SupertypeOf {
			mapped = ctx.MapInstanceToSupertype(a, t.Class)
		} else if ctx.MapInstanceToSupertype(t, a.Class) != nil {
			mapped = a
			t = ctx.MapInstanceToSupertype(t, a.Class)
		}
		if mapped == nil || len(mapped.Args) != len(t.Args) {
			return nil
		}
		info := ctx.ClassInfo(t.Class)
		var cs []Constraint
		for i := range t.Args {
			variance := types.Invariant
			if info != nil {
				variance = info.Variance(i)
			}
			switch variance {
			case types.Covariant:
				cs = append(cs, ctx.InferConstraints(t.Args[i], mapped.Args[i], dir, solving)...)
			case types.Contravariant:
				cs = append(cs, ctx.InferConstraints(t.Args[i], mapped.Args[i], dir.flip(), solving)...)
			default:
				cs = append(cs, ctx.InferConstraints(t.Args[i], mapped.Args[i], SubtypeOf, solving)...)
				cs = append(cs, ctx.InferConstraints(t.Args[i], mapped.Args[i], SupertypeOf, solving)...)
			}
		}
		return cs

	case *types.Callable:
		var a *types.Callable
		switch actual := actual.(type) {
		case *types.Callable:
			a = actual
		case *types.Overload:
			for _, item := range actual.Items {
				if len(item.Args) == len(t.Args) {
					a = item
					break
				}
			}
			if a == nil && len(actual.Items) > 0 {
				a = actual.Items[0]
			}
		case *types.Instance:
			if call, ok := ctx.CallMember(actual).(*types.Callable); ok {
				a = call
			}
		}
		if a == nil {
			return nil
		}
		var cs []Constraint
		for i := range t.Args {
			if i < len(a.Args) {
				cs = append(cs, ctx.InferConstraints(t.Args[i], a.Args[i], dir.flip(), solving)...)
			}
		}
		return append(cs, ctx.InferConstraints(t.Return, a.Return, dir, solving)...)

	case *types.Overload:
		if len(t.Items) > 0 {
			return ctx.InferConstraints(t.Items[0], actual, dir, solving)
		}

	case *types.TypedMapping:
		a, ok := actual.(*types.TypedMapping)
		if !ok {
			return nil
		}
		var cs []Constraint
		t.Fields.Range(func(name string, ft types.Type) bool {
			if at, ok := a.Fields.Get(name); ok {
				cs = append(cs, ctx.InferConstraints(ft, at, dir, solving)...)
			}
			return true
		})
		return cs
	}
	return nil
}

// unionConstraints infers constraints against a union template. When the actual type already
// matches a member which needs no solving, no constraints are produced; otherwise structural
// members are preferred over bare type variables.
func (ctx *Context) unionConstraints(t *types.Union, actual types.Type, dir Direction, solving []*types.TypeVar) []Constraint {
	var generic []types.Type
	for _, item := range t.Items {
		if !mentions(item, solving) {
			if dir == SupertypeOf && ctx.IsSubtype(actual, item) {
				return nil
			}
			continue
		}
		generic = append(generic, item)
	}
	var bare types.Type
	for _, item := range generic {
		if tv, ok := item.(*types.TypeVar); ok && isSolving(tv, solving) {
			if bare == nil {
				bare = item
			}
			continue
		}
		if cs := ctx.InferConstraints(item, actual, dir, solving); len(cs) > 0 {
			return cs
		}
	}
	if bare != nil {
		return ctx.InferConstraints(bare, actual, dir, solving)
	}
	return nil
}

func isSolving(tv *types.TypeVar, solving []*types.TypeVar) bool {
	for _, v := range solving {
		if v.Id == tv.Id && v.Fullname == tv.Fullname {
			return true
		}
	}
	return false
}

func mentions(t types.Type, solving []*types.TypeVar) bool {
	for _, tv := range types.FreeVars(t) {
		if isSolving(tv, solving) {
			return true
		}
	}
	return false
}
