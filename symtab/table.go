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

package symtab

import (
	"github.com/wdamron/gradual/types"
)

// Table is the symbol table of one module: its global scope and the member scopes of its classes.
type Table struct {
	Module  *Symbol
	Globals *Scope
	// Classes declared in the module, in declaration order.
	Classes []*ClassInfo
	byID    map[types.ID]*Symbol
}

// NewTable creates a table for a module, allocating the module's identity.
func NewTable(alloc *Allocator, module string) *Table {
	mod := &Symbol{ID: alloc.Next(), Kind: MypyFile, Name: module, Fullname: module, Module: module}
	mod.Type = &types.ModuleType{Module: mod.ID, Name: module}
	t := &Table{Module: mod, byID: make(map[types.ID]*Symbol)}
	t.Globals = NewScope(mod.ID, module)
	t.byID[mod.ID] = mod
	return t
}

// Name returns the name of the module.
func (t *Table) Name() string { return t.Module.Name }

// Declare declares a symbol in a scope of the table. See Scope.Declare.
func (t *Table) Declare(alloc *Allocator, scope *Scope, sym *Symbol) (types.ID, error) {
	if sym.Module == "" {
		sym.Module = t.Module.Name
	}
	id, err := scope.Declare(alloc, sym)
	if err == nil && id == sym.ID {
		t.byID[id] = sym
		if sym.Kind == TypeInfo && sym.Info != nil {
			sym.Info.ID = id
			sym.Info.Members.Owner = id
			t.Classes = append(t.Classes, sym.Info)
		}
	}
	return id, err
}

// Symbol returns the symbol declared in the table with the given identity.
func (t *Table) Symbol(id types.ID) *Symbol { return t.byID[id] }

// ClassInfo returns the class declared in the table with the given identity.
func (t *Table) ClassInfo(id types.ID) *ClassInfo {
	if sym := t.byID[id]; sym != nil {
		return sym.Info
	}
	return nil
}

// Symbols returns every symbol declared in the table, in lexical order: each global followed by
// the members of the class it declares, if any.
func (t *Table) Symbols() []*Symbol {
	var syms []*Symbol
	var visit func(scope *Scope)
	visit = func(scope *Scope) {
		for _, sym := range scope.Owned() {
			syms = append(syms, sym)
			if sym.Kind == TypeInfo && sym.Info != nil {
				visit(sym.Info.Members)
			}
		}
	}
	visit(t.Globals)
	return syms
}

// Reindex rebuilds the identity index after identities have been reassigned.
func (t *Table) Reindex() {
	t.byID = make(map[types.ID]*Symbol, len(t.byID))
	t.byID[t.Module.ID] = t.Module
	for _, sym := range t.Symbols() {
		t.byID[sym.ID] = sym
	}
}

// Len returns the number of symbols declared in the table, excluding the module itself.
func (t *Table) Len() int { return len(t.byID) - 1 }
