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

const maxAliasChain = 32

// Expand dereferences alias references at the top level of t. The targets of recursive aliases are
// resolved lazily and memoized by the alias.
func (ctx *Context) Expand(t types.Type) types.Type {
	for i := 0; i < maxAliasChain; i++ {
		ref, ok := t.(*types.AliasType)
		if !ok {
			return t
		}
		sym := ctx.Lookup.Symbol(ref.Ref)
		if sym == nil || sym.Alias == nil {
			return types.AnyFrom(types.AnyImplicit)
		}
		t = sym.Alias.Target()
	}
	return types.AnyFrom(types.AnyImplicit)
}

// UpperBound returns the most general type a type variable may be instantiated with: its bound, the
// join of its values, or object.
func (ctx *Context) UpperBound(tv *types.TypeVar) types.Type {
	switch tv.Kind {
	case types.Bounded:
		return tv.Bound
	case types.ValueRestricted:
		return ctx.JoinAll(tv.Values)
	}
	if obj := ctx.Object(); obj != nil {
		return obj
	}
	return types.AnyFrom(types.AnyImplicit)
}

// Simple returns the instance underlying t for literals, or t.
func simple(t types.Type) types.Type {
	if lit, ok := t.(*types.Literal); ok {
		return lit.Base
	}
	return t
}
