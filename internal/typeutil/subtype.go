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

// IsSubtype returns true if a is a subtype of b. The rules are applied in order:
//
//  1. Any is compatible with every type, in both directions.
//  2. Never is a subtype of every type, and only Never (or Any) is a subtype of Never.
//  3. A union is a subtype of b if every member is; a is a subtype of a union if it is a subtype of
//     some member.
//  4. An instance is a subtype of an instance of a base class found in its MRO, when the mapped type
//     arguments match according to each type parameter's variance.
//  5. A type variable is a subtype of b if it is the same variable, or if its upper bound (its bound,
//     or the join of its values) is a subtype of b.
//  6. A callable is a subtype of a callable with contravariant parameters (matched by kind) and a
//     covariant return type.
//
// Typed mappings are width- and depth-structural; aliases are expanded lazily, assuming pairs under
// expansion are related so recursive aliases terminate.
func (ctx *Context) IsSubtype(a, b types.Type) bool {
	if a == nil || b == nil || types.IsSameType(a, b) {
		return true
	}
	_, aliasA := a.(*types.AliasType)
	_, aliasB := b.(*types.AliasType)
	if aliasA || aliasB {
		if ctx.assumed(a, b) {
			return true
		}
		ctx.assume(a, b)
		ok := ctx.IsSubtype(ctx.Expand(a), ctx.Expand(b))
		ctx.unassume()
		return ok
	}

	// 1.
	if types.IsAny(a) || types.IsAny(b) {
		return true
	}
	// 2.
	if types.IsNever(a) {
		return true
	}
	if types.IsNever(b) {
		return false
	}
	// 3.
	if u, ok := a.(*types.Union); ok {
		for _, item := range u.Items {
			if !ctx.IsSubtype(item, b) {
				return false
			}
		}
		return true
	}
	if u, ok := b.(*types.Union); ok {
		for _, item := range u.Items {
			if ctx.IsSubtype(a, item) {
				return true
			}
		}
		if tv, ok := a.(*types.TypeVar); ok {
			return ctx.IsSubtype(ctx.UpperBound(tv), b)
		}
		return false
	}

	switch a := a.(type) {
	case *types.TypeVar:
		// 5.
		if _, ok := b.(*types.TypeVar); ok {
			return false
		}
		return ctx.IsSubtype(ctx.UpperBound(a), b)

	case *types.Instance:
		// 4.
		return ctx.instanceSubtype(a, b)

	case *types.Literal:
		if _, ok := b.(*types.Literal); ok {
			return false
		}
		return ctx.instanceSubtype(a.Base, b)

	case *types.Callable:
		// 6.
		return ctx.callableSubtype(a, b)

	case *types.Overload:
		switch b := b.(type) {
		case *types.Overload:
			for _, bi := range b.Items {
				if !ctx.overloadHasSubtype(a, bi) {
					return false
				}
			}
			return true
		case *types.Callable:
			return ctx.overloadHasSubtype(a, b)
		}
		return ctx.isObject(b) || ctx.isBuiltin(b, "function")

	case *types.TypedMapping:
		if b, ok := b.(*types.TypedMapping); ok {
			sub := true
			b.Fields.Range(func(name string, bt types.Type) bool {
				at, ok := a.Fields.Get(name)
				sub = ok && ctx.IsSubtype(at, bt)
				return sub
			})
			return sub
		}
		return ctx.isObject(b)

	case *types.ModuleType, *types.NoneType:
		return ctx.isObject(b)
	}
	return false
}

// IsEquivalent returns true if a and b are the same type, or are each subtypes of the other.
func (ctx *Context) IsEquivalent(a, b types.Type) bool {
	return types.IsSameType(a, b) || (ctx.IsSubtype(a, b) && ctx.IsSubtype(b, a))
}

func (ctx *Context) instanceSubtype(a *types.Instance, b types.Type) bool {
	switch b := b.(type) {
	case *types.Instance:
		mapped := ctx.MapInstanceToSupertype(a, b.Class)
		if mapped == nil {
			return false
		}
		info := ctx.ClassInfo(b.Class)
		for i := range b.Args {
			if i >= len(mapped.Args) {
				break
			}
			x, y := mapped.Args[i], b.Args[i]
			variance := types.Invariant
			if info != nil {
				variance = info.Variance(i)
			}
			switch variance {
			case types.Covariant:
				if !ctx.IsSubtype(x, y) {
					return false
				}
			case types.Contravariant:
				if !ctx.IsSubtype(y, x) {
					return false
				}
			default:
				if !ctx.IsEquivalent(x, y) {
					return false
				}
			}
		}
		return true

	case *types.Callable, *types.Overload:
		if call := ctx.CallMember(a); call != nil {
			return ctx.IsSubtype(call, b)
		}
	}
	return false
}

func (ctx *Context) overloadHasSubtype(a *types.Overload, b *types.Callable) bool {
	for _, item := range a.Items {
		if ctx.callableSubtype(item, b) {
			return true
		}
	}
	return false
}

func (ctx *Context) callableSubtype(a *types.Callable, b types.Type) bool {
	switch b := b.(type) {
	case *types.Callable:
		return ctx.isCallableCompatible(a, b)
	case *types.Overload:
		for _, item := range b.Items {
			if !ctx.isCallableCompatible(a, item) {
				return false
			}
		}
		return true
	case *types.Instance:
		if a.TypeObject != 0 && ctx.isBuiltin(b, "type") {
			return true
		}
		return ctx.isObject(b) || ctx.isBuiltin(b, "function")
	}
	return false
}

// isCallableCompatible checks that a may be used wherever b is expected. Generic callables on the
// left are instantiated against b first; type variables of b are treated as opaque.
func (ctx *Context) isCallableCompatible(a, b *types.Callable) bool {
	if len(a.Vars) > 0 {
		var cs []Constraint
		for i := range b.Args {
			if i < len(a.Args) {
				cs = append(cs, ctx.InferConstraints(a.Args[i], b.Args[i], SupertypeOf, a.Vars)...)
			}
		}
		cs = append(cs, ctx.InferConstraints(a.Return, b.Return, SubtypeOf, a.Vars)...)
		sol := ctx.Solve(a.Vars, cs, nil)
		if sol.Failed {
			return false
		}
		inst := types.Substitute(&types.Callable{
			Args: a.Args, Kinds: a.Kinds, Names: a.Names, Return: a.Return,
		}, types.VarMapping(a.Vars, sol.Types)).(*types.Callable)
		a = inst
	}

	used := make([]bool, len(a.Args))
	for j, bk := range b.Kinds {
		ai := -1
		switch {
		case bk == types.ArgStar:
			ai = a.StarIndex(types.ArgStar)
		case bk == types.ArgStar2:
			ai = a.StarIndex(types.ArgStar2)
		case bk.IsPositional():
			if j < len(a.Kinds) && a.Kinds[j].IsPositional() {
				ai = j
			} else {
				ai = a.StarIndex(types.ArgStar)
			}
		default:
			if ai = a.ArgIndex(b.Names[j]); ai < 0 {
				ai = a.StarIndex(types.ArgStar2)
			}
		}
		if ai < 0 {
			return false
		}
		if bk.IsOptional() && !a.Kinds[ai].IsOptional() {
			return false
		}
		if !ctx.IsSubtype(b.Args[j], a.Args[ai]) {
			return false
		}
		used[ai] = true
	}
	for i, k := range a.Kinds {
		if !used[i] && !k.IsOptional() {
			return false
		}
	}
	return ctx.IsSubtype(a.Return, b.Return)
}
