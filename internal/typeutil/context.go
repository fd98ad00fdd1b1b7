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
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// assumption is a pair of types assumed to be related while a recursive alias is being expanded.
type assumption struct {
	a, b types.Type
}

// Context resolves identity tokens for subtyping, join/meet, and constraint solving.
//
// A Context cannot be used concurrently.
type Context struct {
	Lookup symtab.Lookup

	// stashed pairs for recursive aliases (pushed and popped around each expansion):
	assumptions []assumption
	object      *types.Instance

	// initial space:
	_assumptions [16]assumption
}

func NewContext(lookup symtab.Lookup) *Context {
	ctx := &Context{Lookup: lookup}
	ctx.assumptions = ctx._assumptions[:0]
	return ctx
}

// ClassInfo resolves a class identity.
func (ctx *Context) ClassInfo(id types.ID) *symtab.ClassInfo {
	return symtab.ClassInfoOf(ctx.Lookup, id)
}

// Builtin returns an instance of a builtin class with Any for each type argument, or nil if the
// class is not declared.
func (ctx *Context) Builtin(name string) *types.Instance {
	sym := ctx.Lookup.Lookup("builtins." + name)
	if sym == nil || sym.Info == nil {
		return nil
	}
	return sym.Info.ErasedType()
}

// Object returns the root class instance, `builtins.object`.
func (ctx *Context) Object() *types.Instance {
	if ctx.object == nil {
		ctx.object = ctx.Builtin("object")
	}
	return ctx.object
}

func (ctx *Context) isObject(t types.Type) bool {
	inst, ok := t.(*types.Instance)
	obj := ctx.Object()
	return ok && obj != nil && inst.Class == obj.Class
}

func (ctx *Context) isBuiltin(t types.Type, name string) bool {
	inst, ok := t.(*types.Instance)
	return ok && inst.Name == "builtins."+name
}

func (ctx *Context) assumed(a, b types.Type) bool {
	for _, p := range ctx.assumptions {
		if types.IsSameType(p.a, a) && types.IsSameType(p.b, b) {
			return true
		}
	}
	return false
}

func (ctx *Context) assume(a, b types.Type) {
	ctx.assumptions = append(ctx.assumptions, assumption{a, b})
}

func (ctx *Context) unassume() {
	ctx.assumptions = ctx.assumptions[:len(ctx.assumptions)-1]
}

// Reset clears transient state.
func (ctx *Context) Reset() {
	for i := range ctx._assumptions {
		ctx._assumptions[i] = assumption{}
	}
	ctx.assumptions = ctx._assumptions[:0]
	ctx.object = nil
}
