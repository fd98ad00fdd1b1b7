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

// Meet returns the greatest common subtype of a and b, as used for narrowing. Instances of
// unrelated classes are disjoint, so their meet is Never. Value-restricted type variables meet as
// the union of their values.
func (ctx *Context) Meet(a, b types.Type) types.Type {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case types.IsSameType(a, b):
		return a
	case types.IsAny(a):
		return b
	case types.IsAny(b):
		return a
	case types.IsNever(a), types.IsNever(b):
		return types.Never
	}
	a, b = ctx.Expand(a), ctx.Expand(b)

	if u, ok := a.(*types.Union); ok {
		items := make([]types.Type, len(u.Items))
		for i, item := range u.Items {
			items[i] = ctx.Meet(item, b)
		}
		return types.NewUnion(items...)
	}
	if u, ok := b.(*types.Union); ok {
		items := make([]types.Type, len(u.Items))
		for i, item := range u.Items {
			items[i] = ctx.Meet(a, item)
		}
		return types.NewUnion(items...)
	}
	if tv, ok := a.(*types.TypeVar); ok && tv.Kind == types.ValueRestricted {
		return ctx.Meet(types.NewUnion(tv.Values...), b)
	}
	if tv, ok := b.(*types.TypeVar); ok && tv.Kind == types.ValueRestricted {
		return ctx.Meet(a, types.NewUnion(tv.Values...))
	}

	switch {
	case ctx.IsSubtype(a, b):
		return a
	case ctx.IsSubtype(b, a):
		return b
	}

	if tv, ok := a.(*types.TypeVar); ok {
		return ctx.meetVar(tv, b)
	}
	if tv, ok := b.(*types.TypeVar); ok {
		return ctx.meetVar(tv, a)
	}
	return types.Never
}

// MeetAll meets a sequence of types. The meet of no types is Any.
func (ctx *Context) MeetAll(ts []types.Type) types.Type {
	var m types.Type = types.AnyFrom(types.AnyImplicit)
	for _, t := range ts {
		m = ctx.Meet(m, t)
	}
	return m
}

func (ctx *Context) meetVar(tv *types.TypeVar, t types.Type) types.Type {
	upper := ctx.UpperBound(tv)
	if ctx.IsSubtype(t, upper) {
		return t
	}
	if m := ctx.Meet(upper, t); !types.IsNever(m) {
		return m
	}
	return types.Never
}

// IsOverlapping returns true if a and b may have values in common.
func (ctx *Context) IsOverlapping(a, b types.Type) bool {
	return !types.IsNever(ctx.Meet(a, b))
}
