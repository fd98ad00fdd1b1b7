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
	"fmt"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/types"
)

// Kind is the kind of entity a symbol declares.
type Kind uint8

const (
	// Module file
	MypyFile Kind = iota
	// Function or method definition
	FuncDef
	// Variable, attribute, or parameter
	Var
	// Type variable declaration: `T = TypeVar('T', ...)`
	TypeVarExpr
	// Type alias
	TypeAlias
	// Class
	TypeInfo
)

func (k Kind) String() string {
	switch k {
	case MypyFile:
		return "module"
	case FuncDef:
		return "function"
	case Var:
		return "variable"
	case TypeVarExpr:
		return "type variable"
	case TypeAlias:
		return "type alias"
	case TypeInfo:
		return "class"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Symbol is an entity declared in a scope. The identity of a symbol is assigned once when it is
// first declared, and is preserved across re-analysis when the entity is matched by the merge.
type Symbol struct {
	ID       types.ID
	Kind     Kind
	Name     string
	Fullname string
	// Module is the name of the declaring module.
	Module string
	Pos    ast.Pos
	// Node is the defining statement, if any.
	Node ast.Stmt

	// Type is the declared type of a FuncDef (*types.Callable or *types.Overload) or Var. The type of
	// an unannotated variable is nil until it is inferred.
	Type types.Type
	// Inferred is set for variables whose type was inferred from an assignment.
	Inferred bool
	// Info is set for TypeInfo symbols.
	Info *ClassInfo
	// TypeVar is set for TypeVarExpr symbols.
	TypeVar *types.TypeVar
	// Alias is set for TypeAlias symbols.
	Alias *types.Alias
	// Captures lists the type variables of enclosing functions referenced by a nested FuncDef.
	Captures []*types.TypeVar
	// Overloaded is set for FuncDef symbols declared through an `@overload` chain.
	Overloaded bool
	// Implemented is set once an overload chain has been closed by an implementation.
	Implemented bool
	// Property is set for instance attributes assigned through self in a method.
	Property bool
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s#%d", s.Kind, s.Fullname, s.ID)
}

// Key identifies a symbol across versions of a module: symbols with the same kind and fully-qualified
// name are the same entity.
type Key struct {
	Kind     Kind
	Fullname string
}

func (s *Symbol) Key() Key { return Key{s.Kind, s.Fullname} }

// RedeclarationError is returned when a name is declared twice in one scope and the declarations
// are not compatible.
type RedeclarationError struct {
	Name     string
	Previous *Symbol
	Pos      ast.Pos
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("Name %q already defined on line %d", e.Name, e.Previous.Pos.Line)
}
