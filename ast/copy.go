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

// CopyModule returns a deep copy of m. Copies share no nodes with the original.
func CopyModule(m *Module) *Module {
	return &Module{Name: m.Name, Path: m.Path, Body: CopyStmts(m.Body)}
}

func CopyStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CopyStmt(s)
	}
	return out
}

func CopyStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *Import:
		c := *s
		c.Names = append([]ImportName(nil), s.Names...)
		return &c

	case *FuncDef:
		params := make([]*Param, len(s.Params))
		for i, p := range s.Params {
			params[i] = &Param{p.Loc, p.Name, p.Kind, CopyExpr(p.Annotation), CopyExpr(p.Default)}
		}
		return &FuncDef{s.Loc, s.Name, params, CopyExpr(s.Returns), CopyStmts(s.Body), copyExprs(s.Decorators)}

	case *ClassDef:
		return &ClassDef{s.Loc, s.Name, copyExprs(s.Bases), CopyExpr(s.Metaclass), CopyStmts(s.Body), copyExprs(s.Decorators)}

	case *Assign:
		return &Assign{s.Loc, CopyExpr(s.Target), CopyExpr(s.Value), CopyExpr(s.Annotation)}

	case *TypeAliasStmt:
		return &TypeAliasStmt{s.Loc, s.Name, CopyExpr(s.Value)}

	case *If:
		return &If{s.Loc, CopyExpr(s.Cond), CopyStmts(s.Body), CopyStmts(s.Else)}

	case *While:
		return &While{s.Loc, CopyExpr(s.Cond), CopyStmts(s.Body), CopyStmts(s.Else)}

	case *Return:
		return &Return{s.Loc, CopyExpr(s.Value)}

	case *ExprStmt:
		return &ExprStmt{s.Loc, CopyExpr(s.X)}

	case *Pass:
		return &Pass{s.Loc}

	case *Break:
		return &Break{s.Loc}

	case *Continue:
		return &Continue{s.Loc}
	}
	panic("unknown statement type: " + s.StmtName())
}

func copyExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = CopyExpr(e)
	}
	return out
}

func CopyExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil

	case *Name:
		return &Name{e.Loc, e.Id}

	case *Attribute:
		return &Attribute{e.Loc, CopyExpr(e.X), e.Attr}

	case *Call:
		args := make([]Arg, len(e.Args))
		for i, arg := range e.Args {
			args[i] = Arg{arg.Kind, arg.Name, CopyExpr(arg.Value)}
		}
		return &Call{e.Loc, CopyExpr(e.Func), args}

	case *Subscript:
		return &Subscript{e.Loc, CopyExpr(e.X), copyExprs(e.Index)}

	case *IntLit:
		return &IntLit{e.Loc, e.Value}

	case *FloatLit:
		return &FloatLit{e.Loc, e.Value}

	case *StrLit:
		return &StrLit{e.Loc, e.Value}

	case *BoolLit:
		return &BoolLit{e.Loc, e.Value}

	case *NoneLit:
		return &NoneLit{e.Loc}

	case *ListExpr:
		return &ListExpr{e.Loc, copyExprs(e.Items)}

	case *TupleExpr:
		return &TupleExpr{e.Loc, copyExprs(e.Items)}

	case *DictExpr:
		return &DictExpr{e.Loc, copyExprs(e.Keys), copyExprs(e.Values)}

	case *BinOp:
		return &BinOp{e.Loc, e.Op, CopyExpr(e.X), CopyExpr(e.Y)}

	case *Compare:
		return &Compare{e.Loc, e.Op, CopyExpr(e.X), CopyExpr(e.Y)}

	case *BoolOp:
		return &BoolOp{e.Loc, e.Op, CopyExpr(e.X), CopyExpr(e.Y)}

	case *UnaryOp:
		return &UnaryOp{e.Loc, e.Op, CopyExpr(e.X)}
	}
	panic("unknown expression type: " + e.ExprName())
}
