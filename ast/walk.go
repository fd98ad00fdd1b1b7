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

// WalkStmts calls f for each statement in stmts and every statement nested within them, in
// pre-order, and fe for every expression.
func WalkStmts(stmts []Stmt, f func(Stmt), fe func(Expr)) {
	for _, s := range stmts {
		WalkStmt(s, f, fe)
	}
}

func WalkStmt(s Stmt, f func(Stmt), fe func(Expr)) {
	if f != nil {
		f(s)
	}
	walk := func(e Expr) {
		if fe != nil {
			WalkExpr(e, fe)
		}
	}
	switch s := s.(type) {
	case *FuncDef:
		for _, d := range s.Decorators {
			walk(d)
		}
		for _, p := range s.Params {
			walk(p.Annotation)
			walk(p.Default)
		}
		walk(s.Returns)
		WalkStmts(s.Body, f, fe)

	case *ClassDef:
		for _, d := range s.Decorators {
			walk(d)
		}
		for _, b := range s.Bases {
			walk(b)
		}
		walk(s.Metaclass)
		WalkStmts(s.Body, f, fe)

	case *Assign:
		walk(s.Annotation)
		walk(s.Value)
		walk(s.Target)

	case *TypeAliasStmt:
		walk(s.Value)

	case *If:
		walk(s.Cond)
		WalkStmts(s.Body, f, fe)
		WalkStmts(s.Else, f, fe)

	case *While:
		walk(s.Cond)
		WalkStmts(s.Body, f, fe)
		WalkStmts(s.Else, f, fe)

	case *Return:
		walk(s.Value)

	case *ExprStmt:
		walk(s.X)

	case *Import, *Pass, *Break, *Continue:

	default:
		panic("unknown statement type: " + s.StmtName())
	}
}

// WalkExpr calls f for e and each of its subexpressions, in pre-order.
func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case nil:
		return

	case *Name, *IntLit, *FloatLit, *StrLit, *BoolLit, *NoneLit:
		f(e)

	case *Attribute:
		f(e)
		WalkExpr(e.X, f)

	case *Call:
		f(e)
		WalkExpr(e.Func, f)
		for _, arg := range e.Args {
			WalkExpr(arg.Value, f)
		}

	case *Subscript:
		f(e)
		WalkExpr(e.X, f)
		for _, i := range e.Index {
			WalkExpr(i, f)
		}

	case *ListExpr:
		f(e)
		for _, item := range e.Items {
			WalkExpr(item, f)
		}

	case *TupleExpr:
		f(e)
		for _, item := range e.Items {
			WalkExpr(item, f)
		}

	case *DictExpr:
		f(e)
		for i := range e.Keys {
			WalkExpr(e.Keys[i], f)
			WalkExpr(e.Values[i], f)
		}

	case *BinOp:
		f(e)
		WalkExpr(e.X, f)
		WalkExpr(e.Y, f)

	case *Compare:
		f(e)
		WalkExpr(e.X, f)
		WalkExpr(e.Y, f)

	case *BoolOp:
		f(e)
		WalkExpr(e.X, f)
		WalkExpr(e.Y, f)

	case *UnaryOp:
		f(e)
		WalkExpr(e.X, f)

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}
