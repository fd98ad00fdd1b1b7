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

// Scope maps names to symbols, preserving lexical declaration order. Module globals and class
// members are scopes.
type Scope struct {
	// Owner is the identity of the module or class which owns the scope.
	Owner types.ID
	// Prefix is prepended to names to form fully-qualified names.
	Prefix string
	names  map[string]*Symbol
	order  []string
	// imported names are bound to symbols owned by other modules
	imported map[string]bool
}

func NewScope(owner types.ID, prefix string) *Scope {
	return &Scope{Owner: owner, Prefix: prefix, names: make(map[string]*Symbol)}
}

// Fullname returns the fully-qualified name for a name declared in the scope.
func (s *Scope) Fullname(name string) string {
	if s.Prefix == "" {
		return name
	}
	return s.Prefix + "." + name
}

// Declare adds a symbol to the scope and allocates its identity, returning the identity.
//
// A *RedeclarationError is returned if the name is already declared, unless the declarations are
// compatible: an `@overload` chain may be extended with further overload items and closed by one
// implementation. When an overload chain is extended, the existing symbol is kept and its identity
// is returned; the caller is responsible for extending its type.
func (s *Scope) Declare(alloc *Allocator, sym *Symbol) (types.ID, error) {
	if prev, ok := s.names[sym.Name]; ok && !s.imported[sym.Name] {
		if compatibleRedeclaration(prev, sym) {
			if !sym.Overloaded {
				prev.Implemented = true
			}
			return prev.ID, nil
		}
		return prev.ID, &RedeclarationError{Name: sym.Name, Previous: prev, Pos: sym.Pos}
	}
	if sym.Fullname == "" {
		sym.Fullname = s.Fullname(sym.Name)
	}
	if sym.ID == 0 {
		sym.ID = alloc.Next()
	}
	s.bind(sym.Name, sym)
	return sym.ID, nil
}

func compatibleRedeclaration(prev, sym *Symbol) bool {
	return prev.Kind == FuncDef && sym.Kind == FuncDef && prev.Overloaded && !prev.Implemented
}

// Import binds a name to a symbol owned by another scope. Imported names may be shadowed by later
// declarations.
func (s *Scope) Import(name string, sym *Symbol) {
	if s.imported == nil {
		s.imported = make(map[string]bool)
	}
	s.bind(name, sym)
	s.imported[name] = true
}

func (s *Scope) bind(name string, sym *Symbol) {
	if _, ok := s.names[name]; !ok {
		s.order = append(s.order, name)
	}
	s.names[name] = sym
	if s.imported != nil {
		delete(s.imported, name)
	}
}

// Lookup finds the symbol bound to a name.
func (s *Scope) Lookup(name string) *Symbol {
	if s == nil {
		return nil
	}
	return s.names[name]
}

// IsImported returns true if the name is bound to a symbol owned by another scope.
func (s *Scope) IsImported(name string) bool { return s.imported[name] }

// Names returns the names bound in the scope, in lexical order.
func (s *Scope) Names() []string { return s.order }

// Len returns the number of names bound in the scope.
func (s *Scope) Len() int { return len(s.order) }

// Owned returns the symbols declared (not imported) in the scope, in lexical order.
func (s *Scope) Owned() []*Symbol {
	owned := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		if !s.imported[name] {
			owned = append(owned, s.names[name])
		}
	}
	return owned
}

// Replace rebinds a declared name to a different symbol, preserving its position in lexical order.
func (s *Scope) Replace(name string, sym *Symbol) {
	if _, ok := s.names[name]; ok {
		s.names[name] = sym
	}
}

// Remove unbinds a name.
func (s *Scope) Remove(name string) {
	if _, ok := s.names[name]; !ok {
		return
	}
	delete(s.names, name)
	delete(s.imported, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}
