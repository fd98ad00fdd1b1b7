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

package ast

import (
	"github.com/wdamron/gradual/types"
)

// Pos is a source position. Lines and columns start at 1; the zero Pos is unknown.
type Pos struct {
	Line int
	Col  int
}

// Before returns true if p precedes q.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

// Compare returns -1, 0, or +1 as p is before, at, or after q.
func (p Pos) Compare(q Pos) int {
	switch {
	case p.Before(q):
		return -1
	case q.Before(p):
		return 1
	}
	return 0
}

// Loc is the source span of a node. End may be zero when unknown.
type Loc struct {
	Pos Pos
	End Pos
}

// Location returns the span of the node.
func (l *Loc) Location() *Loc { return l }

// Node is the base for all statements and expressions.
type Node interface {
	Location() *Loc
}

// Stmt is the base for all statements.
type Stmt interface {
	Node
	// Name of the syntax-type of the statement.
	StmtName() string
}

var (
	_ Stmt = (*Import)(nil)
	_ Stmt = (*FuncDef)(nil)
	_ Stmt = (*ClassDef)(nil)
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*TypeAliasStmt)(nil)
	_ Stmt = (*If)(nil)
	_ Stmt = (*While)(nil)
	_ Stmt = (*Return)(nil)
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*Pass)(nil)
	_ Stmt = (*Break)(nil)
	_ Stmt = (*Continue)(nil)
)

// Module is a parsed source file.
type Module struct {
	// Name is the fully-qualified module name, e.g. "pkg.mod".
	Name string
	Path string
	Body []Stmt
}

// Imports returns the import statements at the top level of the module.
func (m *Module) Imports() []*Import {
	var imports []*Import
	for _, s := range m.Body {
		if imp, ok := s.(*Import); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

// ImportName is a name imported from a module: `from m import Name as AsName`.
type ImportName struct {
	Name   string
	AsName string
}

// Bound returns the local name bound by the import.
func (n ImportName) Bound() string {
	if n.AsName != "" {
		return n.AsName
	}
	return n.Name
}

// Import: `import m`, `import m as a`, or `from m import x, y as z`
type Import struct {
	Loc
	Module string
	// AsName is the local name for `import m as a`.
	AsName string
	// Names is set for `from m import ...`.
	Names []ImportName
}

// Function definition: `def f(x: int, *args, k: str = "") -> T: ...`
type FuncDef struct {
	Loc
	Name       string
	Params     []*Param
	Returns    Expr
	Body       []Stmt
	Decorators []Expr
}

// HasDecorator returns true if the function is decorated with the given name.
func (s *FuncDef) HasDecorator(name string) bool { return hasDecorator(s.Decorators, name) }

// Param is a formal parameter of a function definition.
type Param struct {
	Loc
	Name       string
	Kind       types.ArgKind
	Annotation Expr
	Default    Expr
}

// Class definition: `class C(Base, metaclass=M): ...`
type ClassDef struct {
	Loc
	Name       string
	Bases      []Expr
	Metaclass  Expr
	Body       []Stmt
	Decorators []Expr
}

// HasDecorator returns true if the class is decorated with the given name.
func (s *ClassDef) HasDecorator(name string) bool { return hasDecorator(s.Decorators, name) }

func hasDecorator(decorators []Expr, name string) bool {
	for _, d := range decorators {
		switch d := d.(type) {
		case *Name:
			if d.Id == name {
				return true
			}
		case *Attribute:
			if d.Attr == name {
				return true
			}
		}
	}
	return false
}

// Assignment: `x = v`, `x: T = v`, `x: T`, or `self.x = v`
type Assign struct {
	Loc
	Target     Expr
	Value      Expr
	Annotation Expr
}

// Type alias statement: `type R = int | list[R]`
type TypeAliasStmt struct {
	Loc
	Name  string
	Value Expr
}

// Conditional: `if cond: ... else: ...`
type If struct {
	Loc
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// Loop: `while cond: ... else: ...`
type While struct {
	Loc
	Cond Expr
	Body []Stmt
	Else []Stmt
}

// Return from a function, with an optional value.
type Return struct {
	Loc
	Value Expr
}

// Expression statement
type ExprStmt struct {
	Loc
	X Expr
}

type Pass struct{ Loc }

type Break struct{ Loc }

type Continue struct{ Loc }

func (*Import) StmtName() string        { return "Import" }
func (*FuncDef) StmtName() string       { return "FuncDef" }
func (*ClassDef) StmtName() string      { return "ClassDef" }
func (*Assign) StmtName() string        { return "Assign" }
func (*TypeAliasStmt) StmtName() string { return "TypeAlias" }
func (*If) StmtName() string            { return "If" }
func (*While) StmtName() string         { return "While" }
func (*Return) StmtName() string        { return "Return" }
func (*ExprStmt) StmtName() string      { return "ExprStmt" }
func (*Pass) StmtName() string          { return "Pass" }
func (*Break) StmtName() string         { return "Break" }
func (*Continue) StmtName() string      { return "Continue" }
