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

// Package merge matches the symbols of a new version of a module against the previous version, so
// that unchanged declarations keep their identity across rechecks.
package merge

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// Merge matches the symbols of new against old by kind and fully-qualified name, in lexical order,
// and rewrites new in place so that matched symbols carry their previous identity:
//
//   - functions keep their identity, and keep the previous callable when it is structurally identical;
//   - classes keep their identity, and their members are matched recursively; a class whose members
//     were added or removed is reported as changed;
//   - variables, type variables, and aliases keep their identity and take their new type;
//   - symbols of old without a counterpart are dropped, and their identities are retired;
//   - symbols of new without a counterpart keep their fresh identity.
//
// An *InconsistencyError is returned (and new is left untouched) if the tables cannot be merged.
func Merge(alloc *symtab.Allocator, old, new *symtab.Table) (*Report, error) {
	if old.Name() != new.Name() {
		return nil, &InconsistencyError{Module: new.Name(), Reason: "module renamed from " + old.Name()}
	}
	oldSyms, newSyms := old.Symbols(), new.Symbols()
	oldByKey, err := index(old.Name(), oldSyms)
	if err != nil {
		return nil, err
	}
	if _, err := index(new.Name(), newSyms); err != nil {
		return nil, err
	}

	oldIDs := make(map[types.ID]bool, len(oldSyms)+1)
	oldIDs[old.Module.ID] = true
	for _, sym := range oldSyms {
		oldIDs[sym.ID] = true
	}

	report := &Report{Remap: map[types.ID]types.ID{new.Module.ID: old.Module.ID}}
	matched := make(map[*symtab.Symbol]*symtab.Symbol, len(newSyms))
	for _, sym := range newSyms {
		if !alloc.Issued(sym.ID) || alloc.Retired(sym.ID) {
			return nil, &InconsistencyError{Module: new.Name(), Symbol: sym.Fullname, Reason: "identity was not issued by the allocator"}
		}
		prev, ok := oldByKey[sym.Key()]
		if !ok {
			if oldIDs[sym.ID] {
				return nil, &InconsistencyError{Module: new.Name(), Symbol: sym.Fullname, Reason: "fresh symbol reuses an identity of the previous version"}
			}
			continue
		}
		matched[sym] = prev
		report.Remap[sym.ID] = prev.ID
	}

	// Everything has been validated; rewrite the new table.
	r := &remapper{ids: report.Remap}
	new.Module.ID = old.Module.ID
	new.Module.Type = &types.ModuleType{Module: old.Module.ID, Name: new.Name()}
	new.Globals.Owner = old.Module.ID
	for _, sym := range newSyms {
		r.symbol(sym)
	}
	for _, sym := range newSyms {
		prev, ok := matched[sym]
		switch {
		case !ok:
			report.Added = append(report.Added, sym.ID)
		case same(prev, sym):
			if sym.Kind == symtab.FuncDef {
				sym.Type = prev.Type
			}
			report.Preserved = append(report.Preserved, sym.ID)
		default:
			report.Changed = append(report.Changed, sym.ID)
		}
	}
	seen := make(map[*symtab.Symbol]bool, len(matched))
	for _, prev := range matched {
		seen[prev] = true
	}
	for _, sym := range oldSyms {
		if !seen[sym] {
			report.Removed = append(report.Removed, sym.ID)
			alloc.Retire(sym.ID)
		}
	}
	for fresh, prev := range report.Remap {
		if fresh != prev {
			alloc.Retire(fresh)
		}
	}
	new.Reindex()
	return report, nil
}

func index(module string, syms []*symtab.Symbol) (map[symtab.Key]*symtab.Symbol, error) {
	byKey := make(map[symtab.Key]*symtab.Symbol, len(syms))
	for _, sym := range syms {
		if _, dup := byKey[sym.Key()]; dup {
			return nil, &InconsistencyError{Module: module, Symbol: sym.Fullname, Reason: "declared twice"}
		}
		byKey[sym.Key()] = sym
	}
	return byKey, nil
}

// same returns true if a matched symbol is unchanged after remapping.
func same(prev, sym *symtab.Symbol) bool {
	switch sym.Kind {
	case symtab.TypeInfo:
		return sameClass(prev.Info, sym.Info)
	case symtab.TypeVarExpr:
		return sameOptional(prev.TypeVar, sym.TypeVar)
	case symtab.TypeAlias:
		if prev.Alias == nil || sym.Alias == nil {
			return prev.Alias == sym.Alias
		}
		return types.IsSameType(prev.Alias.Target(), sym.Alias.Target())
	}
	if prev.Type == nil || sym.Type == nil {
		return prev.Type == nil && sym.Type == nil
	}
	return types.IsSameType(prev.Type, sym.Type)
}

func sameOptional(a, b *types.TypeVar) bool {
	if a == nil || b == nil {
		return a == b
	}
	return types.IsSameType(a, b)
}

func sameClass(a, b *symtab.ClassInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.TypeVars) != len(b.TypeVars) || len(a.Bases) != len(b.Bases) || len(a.MRO) != len(b.MRO) || a.IsRecord != b.IsRecord {
		return false
	}
	for i := range a.TypeVars {
		if !types.IsSameType(a.TypeVars[i], b.TypeVars[i]) || a.TypeVars[i].Variance != b.TypeVars[i].Variance {
			return false
		}
	}
	for i := range a.Bases {
		if !types.IsSameType(a.Bases[i], b.Bases[i]) {
			return false
		}
	}
	for i := range a.MRO {
		if a.MRO[i] != b.MRO[i] {
			return false
		}
	}
	if (a.Metaclass == nil) != (b.Metaclass == nil) || a.Metaclass != nil && !types.IsSameType(a.Metaclass, b.Metaclass) {
		return false
	}
	// Members are matched on their own; a class only changes when one is added or removed.
	return set.From(a.Members.Names()).Equal(set.From(b.Members.Names()))
}
