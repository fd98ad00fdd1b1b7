package ast

import (
	"strconv"
	"strings"
)

// ExprString returns a string representation of an expression.
func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, false, e)
	return sb.String()
}

func exprList(sb *strings.Builder, es []Expr) {
	for i, e := range es {
		if i > 0 {
			sb.WriteString(", ")
		}
		exprString(sb, false, e)
	}
}

// Simple expressions are parenthesized when they appear within operators.
func exprString(sb *strings.Builder, simple bool, e Expr) {
	switch et := e.(type) {
	case nil:

	case *Name:
		sb.WriteString(et.Id)

	case *Attribute:
		exprString(sb, true, et.X)
		sb.WriteByte('.')
		sb.WriteString(et.Attr)

	case *Call:
		exprString(sb, true, et.Func)
		sb.WriteByte('(')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			switch arg.Kind {
			case ArgKeyword:
				sb.WriteString(arg.Name)
				sb.WriteByte('=')
			case ArgStar:
				sb.WriteByte('*')
			case ArgStar2:
				sb.WriteString("**")
			}
			exprString(sb, false, arg.Value)
		}
		sb.WriteByte(')')

	case *Subscript:
		exprString(sb, true, et.X)
		sb.WriteByte('[')
		exprList(sb, et.Index)
		sb.WriteByte(']')

	case *IntLit:
		sb.WriteString(strconv.FormatInt(et.Value, 10))

	case *FloatLit:
		s := strconv.FormatFloat(et.Value, 'g', -1, 64)
		sb.WriteString(s)
		if !strings.ContainsAny(s, ".eE") {
			sb.WriteString(".0")
		}

	case *StrLit:
		sb.WriteByte('\'')
		sb.WriteString(et.Value)
		sb.WriteByte('\'')

	case *BoolLit:
		if et.Value {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}

	case *NoneLit:
		sb.WriteString("None")

	case *ListExpr:
		sb.WriteByte('[')
		exprList(sb, et.Items)
		sb.WriteByte(']')

	case *TupleExpr:
		sb.WriteByte('(')
		exprList(sb, et.Items)
		if len(et.Items) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')

	case *DictExpr:
		sb.WriteByte('{')
		for i := range et.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, false, et.Keys[i])
			sb.WriteString(": ")
			exprString(sb, false, et.Values[i])
		}
		sb.WriteByte('}')

	case *BinOp:
		binary(sb, simple, et.Op, et.X, et.Y)

	case *Compare:
		binary(sb, simple, et.Op, et.X, et.Y)

	case *BoolOp:
		binary(sb, simple, et.Op, et.X, et.Y)

	case *UnaryOp:
		if simple {
			sb.WriteByte('(')
		}
		sb.WriteString(et.Op)
		if et.Op == "not" {
			sb.WriteByte(' ')
		}
		exprString(sb, true, et.X)
		if simple {
			sb.WriteByte(')')
		}
	}
}

func binary(sb *strings.Builder, simple bool, op string, x, y Expr) {
	if simple {
		sb.WriteByte('(')
	}
	exprString(sb, true, x)
	sb.WriteByte(' ')
	sb.WriteString(op)
	sb.WriteByte(' ')
	exprString(sb, true, y)
	if simple {
		sb.WriteByte(')')
	}
}
