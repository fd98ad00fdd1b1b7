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

package merge

import (
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// remapper rewrites the identity tokens held by the symbols of a table.
type remapper struct {
	ids map[types.ID]types.ID
}

func (r *remapper) id(id types.ID) types.ID {
	if old, ok := r.ids[id]; ok {
		return old
	}
	return id
}

func (r *remapper) typ(t types.Type) types.Type {
	if t == nil || len(r.ids) == 0 {
		return t
	}
	return types.RemapIDs(t, r.id)
}

func (r *remapper) instance(inst *types.Instance) *types.Instance {
	if inst == nil {
		return nil
	}
	return r.typ(inst).(*types.Instance)
}

func (r *remapper) typeVar(tv *types.TypeVar) *types.TypeVar {
	if tv == nil {
		return nil
	}
	return r.typ(tv).(*types.TypeVar)
}

func (r *remapper) symbol(sym *symtab.Symbol) {
	sym.ID = r.id(sym.ID)
	sym.Type = r.typ(sym.Type)
	sym.TypeVar = r.typeVar(sym.TypeVar)
	for i, tv := range sym.Captures {
		sym.Captures[i] = r.typeVar(tv)
	}
	if sym.Alias != nil {
		target := sym.Alias.Target()
		sym.Alias.ID = r.id(sym.Alias.ID)
		sym.Alias.SetTarget(r.typ(target))
	}
	if sym.Info != nil {
		r.class(sym.Info)
	}
}

func (r *remapper) class(info *symtab.ClassInfo) {
	info.ID = r.id(info.ID)
	info.Members.Owner = r.id(info.Members.Owner)
	for i, tv := range info.TypeVars {
		info.TypeVars[i] = r.typeVar(tv)
	}
	for i, base := range info.Bases {
		info.Bases[i] = r.instance(base)
	}
	for i, id := range info.MRO {
		info.MRO[i] = r.id(id)
	}
	for i, id := range info.Subclasses {
		info.Subclasses[i] = r.id(id)
	}
	info.Metaclass = r.instance(info.Metaclass)
	for i := range info.Fields {
		info.Fields[i].Type = r.typ(info.Fields[i].Type)
	}
}
