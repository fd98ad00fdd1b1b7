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

package construct

import (
	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/types"
)

// Types

// Unrestricted type-variable: `T`
func TVar(name string, id int) *types.TypeVar {
	return types.NewTypeVar(name, id)
}

// Bounded type-variable: `T <: bound`
func TBound(name string, id int, bound types.Type) *types.TypeVar {
	return types.NewBoundedVar(name, id, bound)
}

// Value-restricted type-variable: `T in (int, str)`
func TValues(name string, id int, values ...types.Type) *types.TypeVar {
	return types.NewValueRestrictedVar(name, id, values...)
}

// Union type: `int | str`
func TUnion(items ...types.Type) types.Type {
	return types.NewUnion(items...)
}

// Function type with positional parameters: `def (int, int) -> int`
func TFunc(args []types.Type, ret types.Type, vars ...*types.TypeVar) *types.Callable {
	kinds := make([]types.ArgKind, len(args))
	names := make([]string, len(args))
	return &types.Callable{Args: args, Kinds: kinds, Names: names, Return: ret, Vars: vars}
}

// Function type: `def (int) -> int`
func TFunc1(arg types.Type, ret types.Type, vars ...*types.TypeVar) *types.Callable {
	return TFunc([]types.Type{arg}, ret, vars...)
}

// Typed mapping: `{'a': int, 'b': str}`
func TMapping(fields map[string]types.Type) *types.TypedMapping {
	return &types.TypedMapping{Fields: types.NewFlatTypeMap(fields)}
}

// Modules and statements:

// Module with positions assigned to every node.
func Module(name string, body ...ast.Stmt) *ast.Module {
	return Number(&ast.Module{Name: name, Path: name + ".py", Body: body})
}

// Number assigns positions to the nodes of m which have none. Each statement is placed on its
// own line, in order, and the expressions of a statement are placed on increasing columns.
func Number(m *ast.Module) *ast.Module {
	line, col := 0, 0
	next := func(l *ast.Loc) {
		col++
		if l.Pos == (ast.Pos{}) {
			l.Pos = ast.Pos{Line: line, Col: col}
			l.End = ast.Pos{Line: line, Col: col + 1}
		}
	}
	ast.WalkStmts(m.Body, func(s ast.Stmt) {
		line, col = line+1, 0
		next(s.Location())
		if def, ok := s.(*ast.FuncDef); ok {
			for _, p := range def.Params {
				next(p.Location())
			}
		}
	}, func(e ast.Expr) {
		next(e.Location())
	})
	return m
}

// Import names from a module: `from module import a, b`
func ImportFrom(module string, names ...string) *ast.Import {
	imp := &ast.Import{Module: module}
	for _, n := range names {
		imp.Names = append(imp.Names, ast.ImportName{Name: n})
	}
	return imp
}

// Import a module: `import module`
func ImportModule(module string) *ast.Import {
	return &ast.Import{Module: module}
}

// Function definition: `def name(params) -> returns: body`
func Def(name string, params []*ast.Param, returns ast.Expr, body ...ast.Stmt) *ast.FuncDef {
	return &ast.FuncDef{Name: name, Params: params, Returns: returns, Body: body}
}

// Parameter list
func Params(params ...*ast.Param) []*ast.Param { return params }

// Required positional parameter: `x: ann`
func Param(name string, ann ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Annotation: ann}
}

// Optional positional parameter: `x: ann = def`
func OptParam(name string, ann, def ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Kind: types.ArgOpt, Annotation: ann, Default: def}
}

// Keyword-only parameter: `*, x: ann`
func KwParam(name string, ann ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Kind: types.ArgNamed, Annotation: ann}
}

// Variadic parameter: `*args: ann`
func StarParam(name string, ann ast.Expr) *ast.Param {
	return &ast.Param{Name: name, Kind: types.ArgStar, Annotation: ann}
}

// Decorate a function as an overload item: `@overload`
func Overload(def *ast.FuncDef) *ast.FuncDef {
	def.Decorators = append(def.Decorators, &ast.Name{Id: "overload"})
	return def
}

// Class definition: `class name(bases): body`
func Class(name string, bases []ast.Expr, body ...ast.Stmt) *ast.ClassDef {
	return &ast.ClassDef{Name: name, Bases: bases, Body: body}
}

// Base class list
func Bases(bases ...ast.Expr) []ast.Expr { return bases }

// Decorate a class as a record with synthesized fields: `@dataclass`
func Dataclass(def *ast.ClassDef) *ast.ClassDef {
	def.Decorators = append(def.Decorators, &ast.Name{Id: "dataclass"})
	return def
}

// Assignment: `target = value`
func Assign(target, value ast.Expr) *ast.Assign {
	return &ast.Assign{Target: target, Value: value}
}

// Annotated assignment: `target: ann = value`. The value may be nil.
func AnnAssign(target, ann, value ast.Expr) *ast.Assign {
	return &ast.Assign{Target: target, Annotation: ann, Value: value}
}

// Type variable declaration: `name = TypeVar('name', values...)`
func TypeVarDecl(name string, values ...ast.Expr) *ast.Assign {
	args := []ast.Expr{Str(name)}
	return Assign(Name(name), Call(Name("TypeVar"), append(args, values...)...))
}

// Bounded type variable declaration: `name = TypeVar('name', bound=bound)`
func BoundVarDecl(name string, bound ast.Expr) *ast.Assign {
	return Assign(Name(name), CallArgs(Name("TypeVar"), Pos(Str(name)), Kw("bound", bound)))
}

// Type alias statement: `type name = value`
func Alias(name string, value ast.Expr) *ast.TypeAliasStmt {
	return &ast.TypeAliasStmt{Name: name, Value: value}
}

// Conditional: `if cond: body else: els`
func If(cond ast.Expr, body []ast.Stmt, els []ast.Stmt) *ast.If {
	return &ast.If{Cond: cond, Body: body, Else: els}
}

// Statement list
func Block(stmts ...ast.Stmt) []ast.Stmt { return stmts }

// Loop: `while cond: body`
func While(cond ast.Expr, body ...ast.Stmt) *ast.While {
	return &ast.While{Cond: cond, Body: body}
}

// Return statement. The value may be nil.
func Return(value ast.Expr) *ast.Return { return &ast.Return{Value: value} }

// Expression statement
func Expr(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{X: e} }

func Pass() *ast.Pass         { return &ast.Pass{} }
func Break() *ast.Break       { return &ast.Break{} }
func Continue() *ast.Continue { return &ast.Continue{} }

// Expressions:

// Name reference
func Name(id string) *ast.Name { return &ast.Name{Id: id} }

// Attribute access: `x.attr`
func Attr(x ast.Expr, attr string) *ast.Attribute { return &ast.Attribute{X: x, Attr: attr} }

// Attribute of self: `self.attr`
func Self(attr string) *ast.Attribute { return Attr(Name("self"), attr) }

// Call with positional arguments: `f(args...)`
func Call(f ast.Expr, args ...ast.Expr) *ast.Call {
	call := &ast.Call{Func: f}
	for _, arg := range args {
		call.Args = append(call.Args, ast.Arg{Value: arg})
	}
	return call
}

// Call with arbitrary arguments: `f(x, k=y)`
func CallArgs(f ast.Expr, args ...ast.Arg) *ast.Call {
	return &ast.Call{Func: f, Args: args}
}

// Positional argument
func Pos(value ast.Expr) ast.Arg { return ast.Arg{Kind: ast.ArgPositional, Value: value} }

// Keyword argument: `name=value`
func Kw(name string, value ast.Expr) ast.Arg {
	return ast.Arg{Kind: ast.ArgKeyword, Name: name, Value: value}
}

// Unpacked positional argument: `*value`
func Star(value ast.Expr) ast.Arg { return ast.Arg{Kind: ast.ArgStar, Value: value} }

// Subscript: `x[index...]`
func Sub(x ast.Expr, index ...ast.Expr) *ast.Subscript {
	return &ast.Subscript{X: x, Index: index}
}

func Int(v int64) *ast.IntLit       { return &ast.IntLit{Value: v} }
func Float(v float64) *ast.FloatLit { return &ast.FloatLit{Value: v} }
func Str(v string) *ast.StrLit      { return &ast.StrLit{Value: v} }
func Bool(v bool) *ast.BoolLit      { return &ast.BoolLit{Value: v} }
func None() *ast.NoneLit            { return &ast.NoneLit{} }

// List display: `[items...]`
func List(items ...ast.Expr) *ast.ListExpr { return &ast.ListExpr{Items: items} }

// Tuple display: `(items...)`
func Tuple(items ...ast.Expr) *ast.TupleExpr { return &ast.TupleExpr{Items: items} }

// Dict display with string keys: `{'k': v}`
func Dict(keys []string, values ...ast.Expr) *ast.DictExpr {
	d := &ast.DictExpr{Values: values}
	for _, k := range keys {
		d.Keys = append(d.Keys, Str(k))
	}
	return d
}

// Binary operation: `x op y`
func BinOp(op string, x, y ast.Expr) *ast.BinOp { return &ast.BinOp{Op: op, X: x, Y: y} }

// Union annotation: `x | y`
func Or(x, y ast.Expr) *ast.BinOp { return BinOp("|", x, y) }

// Comparison: `x op y`
func Cmp(op string, x, y ast.Expr) *ast.Compare { return &ast.Compare{Op: op, X: x, Y: y} }

// `x is None`
func IsNone(x ast.Expr) *ast.Compare { return Cmp("is", x, None()) }

// `x is not None`
func IsNotNone(x ast.Expr) *ast.Compare { return Cmp("is not", x, None()) }

// `x and y`
func And(x, y ast.Expr) *ast.BoolOp { return &ast.BoolOp{Op: "and", X: x, Y: y} }

// `x or y`
func OrElse(x, y ast.Expr) *ast.BoolOp { return &ast.BoolOp{Op: "or", X: x, Y: y} }

// `not x`
func Not(x ast.Expr) *ast.UnaryOp { return &ast.UnaryOp{Op: "not", X: x} }

// `isinstance(x, cls)`
func Isinstance(x, cls ast.Expr) *ast.Call { return Call(Name("isinstance"), x, cls) }

// `type(x) is cls`
func TypeIs(x, cls ast.Expr) *ast.Compare { return Cmp("is", Call(Name("type"), x), cls) }

// `reveal_type(x)`
func Reveal(x ast.Expr) *ast.Call { return Call(Name("reveal_type"), x) }
