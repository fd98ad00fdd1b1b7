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
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"

	"github.com/wdamron/gradual/types"
)

// Lookup resolves identity tokens and fully-qualified names to symbols.
type Lookup interface {
	// Symbol returns the symbol with the given identity, or nil.
	Symbol(id types.ID) *Symbol
	// Lookup returns the symbol with the given fully-qualified name, or nil.
	Lookup(fullname string) *Symbol
}

// Store is the arena of committed module tables. Its indexes are persistent maps, so a module is
// replaced with a single swap and a failed update leaves the previous version untouched.
type Store struct {
	modules *immutable.SortedMap // name -> *Table
	names   *immutable.SortedMap // fullname -> *Symbol
	ids     *immutable.SortedMap // types.ID -> *Symbol
}

type idComparer struct{}

func (idComparer) Compare(a, b interface{}) int {
	x, y := a.(types.ID), b.(types.ID)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func NewStore() *Store {
	return &Store{
		modules: immutable.NewSortedMap(nil),
		names:   immutable.NewSortedMap(nil),
		ids:     immutable.NewSortedMap(idComparer{}),
	}
}

// Module returns the committed table for a module, or nil.
func (s *Store) Module(name string) *Table {
	t, ok := s.modules.Get(name)
	if !ok {
		return nil
	}
	return t.(*Table)
}

// Modules returns the names of the committed modules, in sorted order.
func (s *Store) Modules() []string {
	names := make([]string, 0, s.modules.Len())
	iter := s.modules.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		names = append(names, k.(string))
	}
	return names
}

func (s *Store) Symbol(id types.ID) *Symbol {
	sym, ok := s.ids.Get(id)
	if !ok {
		return nil
	}
	return sym.(*Symbol)
}

func (s *Store) Lookup(fullname string) *Symbol {
	sym, ok := s.names.Get(fullname)
	if !ok {
		return nil
	}
	return sym.(*Symbol)
}

// Commit installs a module table, replacing any previous version of the module. Entries owned by
// the previous version which are absent from the new table are removed from the indexes.
func (s *Store) Commit(t *Table) error {
	names := immutable.NewSortedMapBuilder(s.names)
	ids := immutable.NewSortedMapBuilder(s.ids)
	if prev := s.Module(t.Name()); prev != nil {
		for _, sym := range append(prev.Symbols(), prev.Module) {
			names.Delete(sym.Fullname)
			ids.Delete(sym.ID)
		}
	}
	for _, sym := range append(t.Symbols(), t.Module) {
		if existing, ok := ids.Get(sym.ID); ok && existing.(*Symbol).Module != t.Name() {
			return errors.Errorf("identity %d of %s is owned by %s", sym.ID, sym.Fullname, existing.(*Symbol).Fullname)
		}
		names.Set(sym.Fullname, sym)
		ids.Set(sym.ID, sym)
	}
	// Swap only once every entry has been validated.
	s.modules = s.modules.Set(t.Name(), t)
	s.names = names.Map()
	s.ids = ids.Map()
	return nil
}

// View returns a Lookup which resolves symbols in the uncommitted table t before the store.
func (s *Store) View(t *Table) *View { return &View{store: s, table: t} }

// View overlays an uncommitted module table on a store.
type View struct {
	store *Store
	table *Table
}

func (v *View) Symbol(id types.ID) *Symbol {
	if sym := v.table.Symbol(id); sym != nil {
		return sym
	}
	sym := v.store.Symbol(id)
	if sym != nil && sym.Module == v.table.Name() {
		// Superseded by the uncommitted version of the module.
		return nil
	}
	return sym
}

func (v *View) Lookup(fullname string) *Symbol {
	name := v.table.Name()
	if fullname == name {
		return v.table.Module
	}
	if strings.HasPrefix(fullname, name+".") {
		if sym := lookupIn(v.table, strings.TrimPrefix(fullname, name+".")); sym != nil {
			return sym
		}
		// Submodules of a package are committed separately.
		if sym := v.store.Lookup(fullname); sym != nil && sym.Module != name {
			return sym
		}
		return nil
	}
	return v.store.Lookup(fullname)
}

func lookupIn(t *Table, rel string) *Symbol {
	parts := strings.Split(rel, ".")
	sym := t.Globals.Lookup(parts[0])
	for _, part := range parts[1:] {
		if sym == nil || sym.Info == nil {
			return nil
		}
		sym = sym.Info.Members.Lookup(part)
	}
	return sym
}

// ClassInfo resolves a class identity through a Lookup.
func ClassInfoOf(l Lookup, id types.ID) *ClassInfo {
	if sym := l.Symbol(id); sym != nil {
		return sym.Info
	}
	return nil
}

// LookupMember finds a member of a class, searching the class's MRO in order. The class which
// declares the member is returned along with the member's symbol.
func LookupMember(l Lookup, class types.ID, name string) (*Symbol, *ClassInfo) {
	info := ClassInfoOf(l, class)
	if info == nil {
		return nil, nil
	}
	mro := info.MRO
	if len(mro) == 0 {
		mro = []types.ID{info.ID}
	}
	for _, id := range mro {
		base := ClassInfoOf(l, id)
		if base == nil {
			continue
		}
		if sym := base.Members.Lookup(name); sym != nil {
			return sym, base
		}
	}
	return nil, nil
}
