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

// MapInstanceToSupertype maps an instance to an instance of one of its base classes, substituting
// type arguments through the chain of declared bases. Nil is returned if super is not a base.
func (ctx *Context) MapInstanceToSupertype(inst *types.Instance, super types.ID) *types.Instance {
	if inst.Class == super {
		return inst
	}
	info := ctx.ClassInfo(inst.Class)
	if info == nil || !info.HasBase(super) {
		return nil
	}
	m := types.VarMapping(info.TypeVars, inst.Args)
	for _, base := range info.Bases {
		if base.Class != super {
			bi := ctx.ClassInfo(base.Class)
			if bi == nil || !bi.HasBase(super) {
				continue
			}
		}
		mapped := types.Substitute(base, m).(*types.Instance)
		if r := ctx.MapInstanceToSupertype(mapped, super); r != nil {
			return r
		}
	}
	return nil
}

// MemberType returns the type of a member looked up on an instance through its MRO, with the class's
// type arguments substituted and self bound for methods. The member's symbol is also returned.
func (ctx *Context) MemberType(inst *types.Instance, name string) (types.Type, *symtab.Symbol) {
	sym, decl := symtab.LookupMember(ctx.Lookup, inst.Class, name)
	if sym == nil {
		return nil, nil
	}
	t := sym.Type
	if t == nil {
		return types.AnyFrom(types.AnyUnannotated), sym
	}
	if mapped := ctx.MapInstanceToSupertype(inst, decl.ID); mapped != nil && len(decl.TypeVars) > 0 {
		t = types.Substitute(t, types.VarMapping(decl.TypeVars, mapped.Args))
	}
	if sym.Kind == symtab.FuncDef {
		t = BindSelf(t)
	}
	return t, sym
}

// BindSelf removes the first parameter from a method type or from each item of an overloaded method.
func BindSelf(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Callable:
		return t.WithoutFirst()
	case *types.Overload:
		items := make([]*types.Callable, len(t.Items))
		for i, item := range t.Items {
			items[i] = item.WithoutFirst()
		}
		return &types.Overload{Items: items}
	}
	return t
}

// CallMember returns the bound `__call__` method of an instance, if its class declares one.
func (ctx *Context) CallMember(inst *types.Instance) types.Type {
	t, _ := ctx.MemberType(inst, "__call__")
	return t
}
