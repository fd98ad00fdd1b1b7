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
	"math"

	"github.com/wdamron/gradual/types"
)

// Join returns the most specific common supertype of a and b:
//
//   - the join of identical types is the type itself;
//   - Any absorbs every type, and Never is the identity;
//   - instances join to their nearest common ancestor in the combined MRO, with type arguments
//     joined pointwise according to variance (Any where invariant arguments differ);
//   - callables of equal shape join pointwise (parameters met, return types joined);
//   - when one type is a strict subtype of the other, the supertype;
//   - otherwise the normalized union of a and b.
//
// Join is commutative up to IsSameType.
func (ctx *Context) Join(a, b types.Type) types.Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case types.IsSameType(a, b):
		return a
	case types.IsAny(a):
		return a
	case types.IsAny(b):
		return b
	case types.IsNever(a):
		return b
	case types.IsNever(b):
		return a
	}

	if ia, ok := simple(a).(*types.Instance); ok {
		if ib, ok := simple(b).(*types.Instance); ok {
			if j := ctx.joinInstances(ia, ib); j != nil {
				return j
			}
		}
	}
	if ca, ok := a.(*types.Callable); ok {
		if cb, ok := b.(*types.Callable); ok {
			if j := ctx.joinCallables(ca, cb); j != nil {
				return j
			}
		}
	}
	if ma, ok := a.(*types.TypedMapping); ok {
		if mb, ok := b.(*types.TypedMapping); ok {
			return joinMappings(ma, mb)
		}
	}

	aSub, bSub := ctx.IsSubtype(a, b), ctx.IsSubtype(b, a)
	switch {
	case aSub && !bSub:
		return b
	case bSub && !aSub:
		return a
	}
	return types.NewUnion(a, b)
}

// JoinAll joins a sequence of types. The join of no types is Never.
func (ctx *Context) JoinAll(ts []types.Type) types.Type {
	var j types.Type = types.Never
	for _, t := range ts {
		j = ctx.Join(j, t)
	}
	return j
}

func (ctx *Context) joinInstances(a, b *types.Instance) types.Type {
	if a.Class == b.Class {
		return ctx.joinArgs(a, b)
	}
	ai, bi := ctx.ClassInfo(a.Class), ctx.ClassInfo(b.Class)
	if ai == nil || bi == nil {
		return nil
	}
	// The nearest common ancestor minimizes the summed MRO distance; ties are broken by name so the
	// choice does not depend on argument order.
	var best types.ID
	bestScore, bestName := math.MaxInt, ""
	for i, id := range ai.MRO {
		j := bi.MROIndex(id)
		if j < 0 {
			continue
		}
		name := ""
		if info := ctx.ClassInfo(id); info != nil {
			name = info.Fullname
		}
		if score := i + j; score < bestScore || (score == bestScore && name < bestName) {
			best, bestScore, bestName = id, score, name
		}
	}
	if best == 0 {
		return nil
	}
	ma, mb := ctx.MapInstanceToSupertype(a, best), ctx.MapInstanceToSupertype(b, best)
	if ma == nil || mb == nil {
		return nil
	}
	return ctx.joinArgs(ma, mb)
}

func (ctx *Context) joinArgs(a, b *types.Instance) types.Type {
	if len(a.Args) != len(b.Args) {
		return nil
	}
	info := ctx.ClassInfo(a.Class)
	args := make([]types.Type, len(a.Args))
	for i := range a.Args {
		x, y := a.Args[i], b.Args[i]
		variance := types.Invariant
		if info != nil {
			variance = info.Variance(i)
		}
		switch {
		case variance == types.Covariant:
			args[i] = ctx.Join(x, y)
		case variance == types.Contravariant:
			args[i] = ctx.Meet(x, y)
		case types.IsSameType(x, y):
			args[i] = x
		default:
			args[i] = types.AnyFrom(types.AnyImplicit)
		}
	}
	return &types.Instance{Class: a.Class, Name: a.Name, Args: args}
}

func (ctx *Context) joinCallables(a, b *types.Callable) types.Type {
	if len(a.Args) != len(b.Args) || len(a.Vars) > 0 || len(b.Vars) > 0 {
		return nil
	}
	for i := range a.Kinds {
		if a.Kinds[i] != b.Kinds[i] {
			return nil
		}
	}
	c := &types.Callable{
		Args:   make([]types.Type, len(a.Args)),
		Kinds:  a.Kinds,
		Names:  make([]string, len(a.Names)),
		Return: ctx.Join(a.Return, b.Return),
	}
	for i := range a.Args {
		c.Args[i] = ctx.Meet(a.Args[i], b.Args[i])
		if a.Names[i] == b.Names[i] {
			c.Names[i] = a.Names[i]
		}
	}
	if a.Name == b.Name {
		c.Name = a.Name
	}
	return c
}

// joinMappings keeps the fields present in both mappings with identical types.
func joinMappings(a, b *types.TypedMapping) types.Type {
	fields := types.NewTypeMapBuilder()
	a.Fields.Range(func(name string, at types.Type) bool {
		if bt, ok := b.Fields.Get(name); ok && types.IsSameType(at, bt) {
			fields.Set(name, at)
		}
		return true
	})
	return &types.TypedMapping{Fields: fields.Build()}
}
