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

// Violation records a type variable which could not be instantiated within its restrictions.
type Violation struct {
	Var *types.TypeVar
	// Origin is the index of the argument which caused the violation, or -1.
	Origin int
	// Actual is the offending inferred type.
	Actual types.Type
}

// Solution contains the instantiation of each solved variable, in order.
type Solution struct {
	Types      []types.Type
	Violations []Violation
	// Failed is set when a value-restricted variable had no satisfying value.
	Failed bool
}

// Solve instantiates each variable from its constraints, left to right:
//
//   - an unrestricted variable takes the join of its lower bounds, or failing that the expected type
//     from the context constraints, the meet of its upper bounds, or Any;
//   - a bounded variable is solved the same way and checked against its bound; when the check fails
//     the bound is used and a violation is reported;
//   - a value-restricted variable takes the first declared value under which every constraint is
//     satisfied (preferring values which also satisfy the context); when no value qualifies a
//     violation is reported and Any is used.
//
// Context constraints come from the type expected of the call's result and only guide the choice.
func (ctx *Context) Solve(vars []*types.TypeVar, cs []Constraint, context []Constraint) Solution {
	sol := Solution{Types: make([]types.Type, len(vars))}
	for i, tv := range vars {
		lowers, uppers := bounds(tv, cs)
		ctxLowers, ctxUppers := bounds(tv, context)

		if len(lowers) > 0 && allAny(lowers) {
			sol.Types[i] = lowers[0].Target
			continue
		}

		switch tv.Kind {
		case types.ValueRestricted:
			value, ok := ctx.firstValue(tv, lowers, uppers, ctxLowers, ctxUppers)
			if !ok {
				value, ok = ctx.firstValue(tv, lowers, uppers, nil, nil)
			}
			if !ok {
				sol.Types[i] = types.AnyFrom(types.AnyFromError)
				sol.Violations = append(sol.Violations, ctx.restrictionViolation(tv, lowers, uppers))
				sol.Failed = true
				continue
			}
			sol.Types[i] = value

		default:
			var candidate types.Type
			switch {
			case len(lowers) > 0:
				candidate = ctx.JoinAll(targets(lowers))
			case len(ctxLowers) > 0:
				candidate = ctx.JoinAll(targets(ctxLowers))
			case len(uppers) > 0:
				candidate = ctx.MeetAll(targets(uppers))
			case len(ctxUppers) > 0:
				candidate = ctx.MeetAll(targets(ctxUppers))
			default:
				candidate = types.AnyFrom(types.AnyImplicit)
			}
			if tv.Kind == types.Bounded && !ctx.IsSubtype(candidate, tv.Bound) {
				origin := -1
				if len(lowers) > 0 {
					origin = lowers[0].Origin
				}
				sol.Violations = append(sol.Violations, Violation{Var: tv, Origin: origin, Actual: candidate})
				candidate = tv.Bound
			}
			sol.Types[i] = candidate
		}
	}
	return sol
}

func (ctx *Context) firstValue(tv *types.TypeVar, lowers, uppers, ctxLowers, ctxUppers []Constraint) (types.Type, bool) {
	for _, value := range tv.Values {
		if ctx.satisfies(value, lowers, uppers) && ctx.satisfies(value, ctxLowers, ctxUppers) {
			return value, true
		}
	}
	return nil, false
}

func (ctx *Context) satisfies(value types.Type, lowers, uppers []Constraint) bool {
	for _, c := range lowers {
		if !ctx.IsSubtype(c.Target, value) {
			return false
		}
	}
	for _, c := range uppers {
		if !ctx.IsSubtype(value, c.Target) {
			return false
		}
	}
	return true
}

// restrictionViolation attributes a failed value-restricted variable to the first constraint which
// no declared value satisfies.
func (ctx *Context) restrictionViolation(tv *types.TypeVar, lowers, uppers []Constraint) Violation {
	for _, c := range append(append([]Constraint(nil), lowers...), uppers...) {
		ok := false
		for _, value := range tv.Values {
			if ctx.satisfies(value, []Constraint{c}, nil) && c.Op == SupertypeOf ||
				ctx.satisfies(value, nil, []Constraint{c}) && c.Op == SubtypeOf {
				ok = true
				break
			}
		}
		if !ok {
			return Violation{Var: tv, Origin: c.Origin, Actual: c.Target}
		}
	}
	v := Violation{Var: tv, Origin: -1}
	if len(lowers) > 0 {
		v.Origin, v.Actual = lowers[0].Origin, ctx.JoinAll(targets(lowers))
	}
	return v
}

func bounds(tv *types.TypeVar, cs []Constraint) (lowers, uppers []Constraint) {
	for _, c := range cs {
		if c.VarId != tv.Id {
			continue
		}
		if c.Op == SupertypeOf {
			lowers = append(lowers, c)
		} else {
			uppers = append(uppers, c)
		}
	}
	return lowers, uppers
}

func targets(cs []Constraint) []types.Type {
	ts := make([]types.Type, len(cs))
	for i, c := range cs {
		ts[i] = c.Target
	}
	return ts
}

func allAny(cs []Constraint) bool {
	for _, c := range cs {
		if !types.IsAny(c.Target) {
			return false
		}
	}
	return true
}

// CheckTypeArgs checks explicit type arguments against the restrictions of the corresponding type
// variables, returning the indexes of the arguments which violate them. A value-restricted variable
// accepts exactly one of its values (or Any, or a variable restricted to a subset of the values); a
// bounded variable accepts subtypes of its bound.
func (ctx *Context) CheckTypeArgs(vars []*types.TypeVar, args []types.Type) []int {
	var bad []int
	for i, tv := range vars {
		if i >= len(args) || types.IsAny(args[i]) {
			continue
		}
		arg := args[i]
		switch tv.Kind {
		case types.Bounded:
			if !ctx.IsSubtype(arg, tv.Bound) {
				bad = append(bad, i)
			}
		case types.ValueRestricted:
			if !allowedValue(tv, arg) {
				bad = append(bad, i)
			}
		}
	}
	return bad
}

func allowedValue(tv *types.TypeVar, arg types.Type) bool {
	if av, ok := arg.(*types.TypeVar); ok && av.Kind == types.ValueRestricted {
		for _, v := range av.Values {
			if !allowedValue(tv, v) {
				return false
			}
		}
		return true
	}
	for _, v := range tv.Values {
		if types.IsSameType(v, arg) {
			return true
		}
	}
	return false
}
