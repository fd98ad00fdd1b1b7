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

// Expr is the base for all expressions.
type Expr interface {
	Node
	// Name of the syntax-type of the expression.
	ExprName() string
}

var (
	_ Expr = (*Name)(nil)
	_ Expr = (*Attribute)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Subscript)(nil)
	_ Expr = (*IntLit)(nil)
	_ Expr = (*FloatLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*NoneLit)(nil)
	_ Expr = (*ListExpr)(nil)
	_ Expr = (*TupleExpr)(nil)
	_ Expr = (*DictExpr)(nil)
	_ Expr = (*BinOp)(nil)
	_ Expr = (*Compare)(nil)
	_ Expr = (*BoolOp)(nil)
	_ Expr = (*UnaryOp)(nil)
)

// Name reference: `x`
type Name struct {
	Loc
	Id string
}

// Attribute access: `x.attr`
type Attribute struct {
	Loc
	X    Expr
	Attr string
}

// ArgKind is the kind of an actual argument in a call.
type ArgKind uint8

const (
	// Positional argument: `f(x)`
	ArgPositional ArgKind = iota
	// Keyword argument: `f(k=x)`
	ArgKeyword
	// Unpacked positional arguments: `f(*xs)`
	ArgStar
	// Unpacked keyword arguments: `f(**kw)`
	ArgStar2
)

// Arg is an actual argument in a call.
type Arg struct {
	Kind ArgKind
	// Name is set for keyword arguments.
	Name  string
	Value Expr
}

// Call: `f(x, k=y)`
type Call struct {
	Loc
	Func Expr
	Args []Arg
}

// Subscript: `x[i]`, or `C[int, str]` within annotations
type Subscript struct {
	Loc
	X     Expr
	Index []Expr
}

type IntLit struct {
	Loc
	Value int64
}

type FloatLit struct {
	Loc
	Value float64
}

type StrLit struct {
	Loc
	Value string
}

type BoolLit struct {
	Loc
	Value bool
}

type NoneLit struct{ Loc }

// List display: `[a, b]`
type ListExpr struct {
	Loc
	Items []Expr
}

// Tuple display: `(a, b)`
type TupleExpr struct {
	Loc
	Items []Expr
}

// Dict display: `{'k': v}`
type DictExpr struct {
	Loc
	Keys   []Expr
	Values []Expr
}

// Binary operation: `x + y`, or `A | B` within annotations
type BinOp struct {
	Loc
	Op string
	X  Expr
	Y  Expr
}

// Comparison: `x is None`, `x == y`, `x < y`, `x in y`
type Compare struct {
	Loc
	Op string
	X  Expr
	Y  Expr
}

// Boolean operation: `x and y`, `x or y`
type BoolOp struct {
	Loc
	Op string
	X  Expr
	Y  Expr
}

// Unary operation: `not x`, `-x`
type UnaryOp struct {
	Loc
	Op string
	X  Expr
}

func (*Name) ExprName() string      { return "Name" }
func (*Attribute) ExprName() string { return "Attribute" }
func (*Call) ExprName() string      { return "Call" }
func (*Subscript) ExprName() string { return "Subscript" }
func (*IntLit) ExprName() string    { return "Int" }
func (*FloatLit) ExprName() string  { return "Float" }
func (*StrLit) ExprName() string    { return "Str" }
func (*BoolLit) ExprName() string   { return "Bool" }
func (*NoneLit) ExprName() string   { return "None" }
func (*ListExpr) ExprName() string  { return "List" }
func (*TupleExpr) ExprName() string { return "Tuple" }
func (*DictExpr) ExprName() string  { return "Dict" }
func (*BinOp) ExprName() string     { return "BinOp" }
func (*Compare) ExprName() string   { return "Compare" }
func (*BoolOp) ExprName() string    { return "BoolOp" }
func (*UnaryOp) ExprName() string   { return "UnaryOp" }

// RefPath returns the reference path of a name or attribute chain, e.g. "self.x", or "" if the
// expression is not a reference.
func RefPath(e Expr) string {
	switch e := e.(type) {
	case *Name:
		return e.Id
	case *Attribute:
		base := RefPath(e.X)
		if base == "" {
			return ""
		}
		return base + "." + e.Attr
	}
	return ""
}
