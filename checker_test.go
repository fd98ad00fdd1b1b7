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

package gradual_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/ast"
	. "github.com/wdamron/gradual/construct"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSession(t *testing.T, opts ...gradual.Option) *gradual.Session {
	t.Helper()
	s, err := gradual.NewSession(append([]gradual.Option{gradual.WithLogger(discard)}, opts...)...)
	require.NoError(t, err)
	return s
}

func checkBody(t *testing.T, body ...ast.Stmt) *gradual.Result {
	t.Helper()
	results, err := newSession(t).Check(Module("m", body...))
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0]
}

func revealed(r *gradual.Result) []string {
	return r.Diagnostics.WithCode(gradual.RevealedType).Messages()
}

func TestValueRestrictedCall(t *testing.T) {
	r := checkBody(t,
		TypeVarDecl("T", Name("int"), Name("str")),
		Def("f", Params(Param("x", Name("T"))), Name("T"),
			Expr(Reveal(Name("x"))),
			Return(Name("x")),
		),
		Expr(Reveal(Call(Name("f"), Int(1)))),
		Expr(Reveal(Call(Name("f"), Str("a")))),
		Expr(Reveal(Call(Name("f"), Float(1.5)))),
	)

	errs := r.Diagnostics.Errors()
	require.Len(t, errs, 1, "%v", r.Diagnostics)
	assert.Equal(t, gradual.ValueRestrictionViolation, errs[0].Code)
	assert.Equal(t, `Value of type variable "T" of "f" cannot be "float"`, errs[0].Message)

	assert.Equal(t, []string{
		`Revealed type is "builtins.int | builtins.str"`,
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
		`Revealed type is "Any"`,
	}, revealed(r))
}

func TestValueRestrictedBodyWithoutExpansion(t *testing.T) {
	cfg := gradual.DefaultConfig()
	cfg.ExpandValueRestrictions = false
	results, err := newSession(t, gradual.WithConfig(cfg)).Check(Module("m",
		TypeVarDecl("T", Name("int"), Name("str")),
		Def("f", Params(Param("x", Name("T"))), Name("T"),
			Expr(Reveal(Name("x"))),
			Return(Name("x")),
		),
	))
	require.NoError(t, err)
	r := results[0]
	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{`Revealed type is "T"`}, revealed(r))
}

func TestNarrowValueRestricted(t *testing.T) {
	r := checkBody(t,
		TypeVarDecl("T", Name("int"), Name("str")),
		Def("f", Params(Param("x", Name("T"))), None(),
			If(Isinstance(Name("x"), Name("int")),
				Block(Expr(Reveal(Name("x")))),
				Block(Expr(Reveal(Name("x")))),
			),
		),
	)
	// Each branch is dead in one expansion only, so neither is reported as unreachable.
	assert.Empty(t, r.Diagnostics.WithCode(gradual.UnreachableCode))
	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
	}, revealed(r))
}

func TestOverloadResolution(t *testing.T) {
	r := checkBody(t,
		Overload(Def("g", Params(Param("x", Name("int"))), Name("int"), Pass())),
		Overload(Def("g", Params(Param("x", Name("object"))), Name("str"), Pass())),
		Def("g", Params(Param("x", nil)), nil, Pass()),

		Overload(Def("h", Params(Param("x", Name("int"))), Name("int"), Pass())),
		Overload(Def("h", Params(Param("x", Name("str"))), Name("str"), Pass())),
		Def("h", Params(Param("x", nil)), nil, Pass()),

		// bool is accepted by both items of g; the earlier item wins
		Expr(Reveal(Call(Name("g"), Bool(true)))),
		Expr(Reveal(Call(Name("g"), Str("a")))),
		Expr(Reveal(Call(Name("h"), Str("a")))),
		Expr(Call(Name("h"), Float(1.5))),
	)

	assert.Equal(t, []string{
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
		`Revealed type is "builtins.str"`,
	}, revealed(r))

	errs := r.Diagnostics.Errors()
	require.Len(t, errs, 1, "%v", r.Diagnostics)
	assert.Equal(t, gradual.NoMatchingOverload, errs[0].Code)
	assert.Equal(t, `No overload variant of "h" matches argument types "float"`, errs[0].Message)
}

func TestArgumentMapping(t *testing.T) {
	r := checkBody(t,
		Def("k", Params(Param("a", Name("int")), KwParam("b", Name("str"))), None(), Pass()),
		Expr(CallArgs(Name("k"), Pos(Int(1)), Kw("b", Str("x")))),
		Expr(CallArgs(Name("k"), Pos(Int(1)), Kw("b", Str("x")), Kw("b", Str("y")))),
		Expr(CallArgs(Name("k"), Pos(Int(1)), Pos(Int(2)), Kw("b", Str("x")))),
		Expr(CallArgs(Name("k"), Pos(Int(1)), Kw("b", Str("x")), Kw("c", Str("y")))),
		Expr(CallArgs(Name("k"))),
		Expr(CallArgs(Name("k"), Pos(Str("x")), Kw("b", Str("y")))),
	)

	assert.Equal(t, []string{`"k" gets multiple values for keyword argument "b"`},
		r.Diagnostics.WithCode(gradual.DuplicateKeywordArgument).Messages())
	assert.ElementsMatch(t, []string{
		`Too many arguments for "k"`,
		`Unexpected keyword argument "c" for "k"`,
		`Missing positional argument "a" in call to "k"`,
		`Missing named argument "b" for "k"`,
	}, r.Diagnostics.WithCode(gradual.ArgumentMismatch).Messages())
	assert.Equal(t, []string{`Argument 1 to "k" has incompatible type "str"; expected "int"`},
		r.Diagnostics.WithCode(gradual.IncompatibleArgument).Messages())
	assert.Len(t, r.Diagnostics.Errors(), 6)
}

func TestOptionalAndUnpackedArguments(t *testing.T) {
	r := checkBody(t,
		Def("k", Params(Param("a", Name("int")), OptParam("b", Name("str"), Str("s"))), Name("int"), Return(Name("a"))),
		Expr(Reveal(Call(Name("k"), Int(1)))),
		Expr(Call(Name("k"), Int(1), Int(2))),
		Expr(CallArgs(Name("k"), Star(List(Int(1), Int(2))))),
		Expr(CallArgs(Name("k"), Star(List(Str("a"))))),
	)

	assert.Empty(t, r.Diagnostics.WithCode(gradual.ArgumentMismatch))
	assert.Equal(t, []string{
		`Argument 2 to "k" has incompatible type "int"; expected "str"`,
		`Argument 1 to "k" has incompatible type "str"; expected "int"`,
	}, r.Diagnostics.WithCode(gradual.IncompatibleArgument).Messages())
	assert.Len(t, r.Diagnostics.Errors(), 2)
	assert.Equal(t, []string{`Revealed type is "builtins.int"`}, revealed(r))
}

func TestBoundedTypeVar(t *testing.T) {
	r := checkBody(t,
		BoundVarDecl("B", Name("int")),
		Def("ident", Params(Param("x", Name("B"))), Name("B"), Return(Name("x"))),
		Expr(Reveal(Call(Name("ident"), Bool(true)))),
		Expr(Reveal(Call(Name("ident"), Str("s")))),
	)

	errs := r.Diagnostics.Errors()
	require.Len(t, errs, 1, "%v", r.Diagnostics)
	assert.Equal(t, gradual.ValueRestrictionViolation, errs[0].Code)
	assert.Equal(t, `Value of type variable "B" of "ident" cannot be "str"`, errs[0].Message)
	// A violated bound instantiates the variable with the bound.
	assert.Equal(t, []string{
		`Revealed type is "builtins.bool"`,
		`Revealed type is "builtins.int"`,
	}, revealed(r))
}

func TestNarrowingConnectives(t *testing.T) {
	x, y := func() *ast.Name { return Name("x") }, func() *ast.Name { return Name("y") }
	params := func() []*ast.Param {
		return Params(Param("x", Or(Name("int"), None())), Param("y", Or(Name("str"), None())))
	}
	r := checkBody(t,
		Def("both", params(), None(),
			If(And(IsNotNone(x()), IsNotNone(y())),
				Block(Expr(Reveal(x())), Expr(Reveal(y()))),
				nil,
			),
		),
		Def("either", params(), None(),
			If(OrElse(IsNone(x()), IsNone(y())), Block(Return(nil)), nil),
			Expr(Reveal(x())),
			Expr(Reveal(y())),
		),
		Def("negated", params(), None(),
			If(Not(IsNone(x())),
				Block(Expr(Reveal(x()))),
				Block(Expr(Reveal(x()))),
			),
		),
		Def("exact", params(), None(),
			If(TypeIs(x(), Name("int")),
				Block(Expr(Reveal(x()))),
				Block(Expr(Reveal(x()))),
			),
		),
	)

	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{
		// both
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
		// either
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
		// negated
		`Revealed type is "builtins.int"`,
		`Revealed type is "None"`,
		// exact: a subclass instance is still possible when the test fails
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.int | None"`,
	}, revealed(r))
}

func TestNarrowing(t *testing.T) {
	x := func() *ast.Name { return Name("x") }
	r := checkBody(t,
		Def("g", Params(Param("x", Or(Or(Name("int"), Name("str")), None()))), None(),
			If(IsNone(x()),
				Block(Expr(Reveal(x()))),
				Block(If(Isinstance(x(), Name("int")),
					Block(Expr(Reveal(x()))),
					Block(Expr(Reveal(x()))),
				)),
			),
		),
		Def("j", Params(Param("x", Or(Name("int"), None()))), None(),
			If(IsNone(x()), Block(Pass()), nil),
			Expr(Reveal(x())),
			If(IsNotNone(x()), Block(Expr(Reveal(x()))), nil),
		),
		Def("a", Params(Param("x", Or(Name("int"), None()))), None(),
			If(IsNone(x()), Block(Assign(x(), Int(0))), nil),
			Expr(Reveal(x())),
		),
		Def("b", Params(Param("x", Or(Name("int"), None())), Param("flag", Name("bool"))), None(),
			If(Name("flag"), Block(Assign(x(), None())), nil),
			Expr(Reveal(x())),
		),
		Def("c", Params(Param("x", Or(Name("int"), None()))), Name("int"),
			If(x(), Block(Return(x())), nil),
			Return(Int(0)),
		),
	)

	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{
		// g
		`Revealed type is "None"`,
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.str"`,
		// j
		`Revealed type is "None | builtins.int"`,
		`Revealed type is "builtins.int"`,
		// a: assignment narrows the declared union
		`Revealed type is "builtins.int"`,
		// b: x is narrowed on one path only
		`Revealed type is "builtins.int | None"`,
	}, revealed(r))
}

func TestUnreachable(t *testing.T) {
	body := func() []ast.Stmt {
		return Block(
			Def("h", Params(Param("x", Name("int"))), None(),
				If(Isinstance(Name("x"), Name("str")),
					Block(Expr(Reveal(Name("x")))),
					nil,
				),
				Return(nil),
				Assign(Name("y"), Int(1)),
			),
		)
	}

	r := checkBody(t, body()...)
	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{"Statement is unreachable", "Statement is unreachable"},
		r.Diagnostics.WithCode(gradual.UnreachableCode).Messages())
	assert.Empty(t, revealed(r))

	cfg := gradual.DefaultConfig()
	cfg.WarnUnreachable = false
	results, err := newSession(t, gradual.WithConfig(cfg)).Check(Module("m", body()...))
	require.NoError(t, err)
	assert.Empty(t, results[0].Diagnostics)
}

func TestPossiblyUndefined(t *testing.T) {
	r := checkBody(t,
		Def("u", Params(Param("flag", Name("bool"))), Name("int"),
			If(Name("flag"), Block(Assign(Name("y"), Int(1))), nil),
			Return(Name("y")),
		),
		Def("v", Params(Param("flag", Name("bool"))), Name("int"),
			If(Name("flag"),
				Block(Assign(Name("y"), Int(1))),
				Block(Assign(Name("y"), Int(2))),
			),
			Return(Name("y")),
		),
	)

	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	notes := r.Diagnostics.WithCode(gradual.PossiblyUndefined)
	require.Len(t, notes, 1)
	assert.Equal(t, gradual.SeverityNote, notes[0].Severity)
	assert.Equal(t, `Name "y" may be undefined`, notes[0].Message)
}

func TestLoopWidening(t *testing.T) {
	r := checkBody(t,
		Def("w", Params(Param("n", Name("int"))), None(),
			AnnAssign(Name("x"), Or(Name("int"), None()), None()),
			While(Cmp(">", Name("n"), Int(0)),
				Expr(Reveal(Name("x"))),
				Assign(Name("x"), Name("n")),
				Assign(Name("n"), BinOp("-", Name("n"), Int(1))),
			),
			Expr(Reveal(Name("x"))),
		),
	)

	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{
		`Revealed type is "None | builtins.int"`,
		`Revealed type is "None | builtins.int"`,
	}, revealed(r))
}

func TestIncompatibleAssignmentAndReturn(t *testing.T) {
	r := checkBody(t,
		Def("r", Params(Param("x", Name("int"))), Name("str"),
			AnnAssign(Name("y"), Name("int"), Str("a")),
			Return(Name("x")),
		),
		Def("s", nil, Name("int"), Return(nil)),
	)

	assert.Equal(t, []string{`Incompatible types in assignment (expression has type "str", variable has type "int")`},
		r.Diagnostics.WithCode(gradual.IncompatibleAssignment).Messages())
	assert.Equal(t, []string{
		`Incompatible return value type (got "int", expected "str")`,
		"Return value expected",
	}, r.Diagnostics.WithCode(gradual.IncompatibleReturn).Messages())
}

func TestErrorRecovery(t *testing.T) {
	r := checkBody(t,
		AnnAssign(Name("x"), Sub(Name("list"), Name("int"), Name("str")), List()),
		Expr(Reveal(Name("x"))),
		Assign(Name("y"), Name("undefined_name")),
		Expr(Reveal(Name("y"))),
		Expr(Reveal(BinOp("+", Int(1), Int(2)))),
	)

	assert.Equal(t, []string{
		`"list" expects 1 type argument(s), but 2 given`,
		`Name "undefined_name" is not defined`,
	}, r.Diagnostics.Errors().Messages())
	assert.Equal(t, gradual.InvalidTypeArgumentCount, r.Diagnostics.Errors()[0].Code)
	assert.Equal(t, []string{
		`Revealed type is "builtins.list[Any]"`,
		`Revealed type is "Any"`,
		`Revealed type is "builtins.int"`,
	}, revealed(r))
}

func TestRedeclaration(t *testing.T) {
	r := checkBody(t,
		Def("g", nil, None(), Pass()),
		Def("g", nil, None(), Pass()),
	)

	errs := r.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, gradual.RedeclarationError, errs[0].Code)
	assert.Equal(t, `Name "g" already defined on line 1`, errs[0].Message)
}

func TestMemberLookupFollowsMRO(t *testing.T) {
	r := checkBody(t,
		Class("A", nil,
			Def("value", Params(Param("self", nil)), Name("str"), Return(Str("a"))),
		),
		Class("B", Bases(Name("A")), Pass()),
		Class("C", Bases(Name("A")),
			Def("value", Params(Param("self", nil)), Name("int"), Return(Int(1))),
			Def("only_c", Params(Param("self", nil)), Name("bool"), Return(Bool(true))),
		),
		Class("D", Bases(Name("B"), Name("C")), Pass()),
		Assign(Name("d"), Call(Name("D"))),
		Expr(Reveal(Call(Attr(Name("d"), "value")))),
		Expr(Reveal(Call(Attr(Name("d"), "only_c")))),
		Expr(Attr(Name("d"), "missing")),
	)

	assert.Equal(t, []string{
		`Revealed type is "builtins.int"`,
		`Revealed type is "builtins.bool"`,
	}, revealed(r))
	assert.Equal(t, []string{`"D" has no attribute "missing"`}, r.Diagnostics.Errors().Messages())

	d := r.Table.Globals.Lookup("D").Info
	var names []string
	for _, id := range d.MRO {
		if sym := r.Table.Symbol(id); sym != nil {
			names = append(names, sym.Name)
		}
	}
	// builtins.object is last, and not declared in the module
	assert.Equal(t, []string{"D", "B", "C", "A"}, names)
	assert.Len(t, d.MRO, 5)
}

func TestDataclass(t *testing.T) {
	r := checkBody(t,
		Dataclass(Class("P", nil,
			AnnAssign(Name("x"), Name("int"), nil),
			AnnAssign(Name("y"), Name("str"), Str("a")),
		)),
		Assign(Name("p"), Call(Name("P"), Int(1))),
		Expr(Call(Name("P"), Int(1), Str("b"))),
		Expr(Call(Name("P"), Int(1), Str("b"), Int(2))),
		Expr(Call(Name("P"))),
		Expr(Reveal(Attr(Name("p"), "x"))),
	)

	assert.Equal(t, []string{
		`Too many arguments for "P"`,
		`Missing positional argument "x" in call to "P"`,
	}, r.Diagnostics.Errors().Messages())
	assert.Equal(t, []string{`Revealed type is "builtins.int"`}, revealed(r))

	info := r.Table.Globals.Lookup("P").Info
	require.Len(t, info.Fields, 2)
	assert.False(t, info.Fields[0].HasDefault)
	assert.True(t, info.Fields[1].HasDefault)
	assert.ElementsMatch(t, []string{"x", "y"}, info.AlwaysDefined.Slice())
}

func TestAlwaysDefinedAttributes(t *testing.T) {
	r := checkBody(t,
		Class("A", nil,
			Def("__init__", Params(Param("self", nil), Param("flag", Name("bool"))), None(),
				Assign(Self("x"), Int(1)),
				If(Name("flag"), Block(Assign(Self("y"), Int(2))), nil),
				Assign(Self("w"), Self("z")),
				Assign(Self("z"), Int(0)),
			),
		),
	)

	notes := r.Diagnostics.WithCode(gradual.PossiblyUndefined)
	require.Len(t, notes, 1)
	assert.Equal(t, `Attribute "z" may be undefined`, notes[0].Message)

	info := r.Table.Globals.Lookup("A").Info
	assert.ElementsMatch(t, []string{"w", "x"}, info.AlwaysDefined.Slice())
	assert.False(t, info.InitLeaksSelf)
}

func TestDisplayContext(t *testing.T) {
	r := checkBody(t,
		Def("l", nil, None(),
			AnnAssign(Name("xs"), Sub(Name("list"), Name("int")), List(Int(1), Int(2))),
			Expr(Reveal(Name("xs"))),
			Assign(Name("ys"), List(Int(1), Str("a"))),
			Expr(Reveal(Name("ys"))),
			AnnAssign(Name("zs"), Sub(Name("list"), Name("int")), List(Str("a"))),
			AnnAssign(Name("os"), Sub(Name("list"), Or(Name("int"), None())), List(None(), Int(1))),
			Expr(Reveal(Name("os"))),
		),
	)

	assert.Equal(t, []string{
		`Revealed type is "builtins.list[builtins.int]"`,
		`Revealed type is "builtins.list[builtins.object]"`,
		`Revealed type is "builtins.list[builtins.int | None]"`,
	}, revealed(r))
	assert.Equal(t, []string{`Incompatible types in assignment (expression has type "list[str]", variable has type "list[int]")`},
		r.Diagnostics.Errors().Messages())
}

func TestTypedDict(t *testing.T) {
	r := checkBody(t,
		Assign(Name("Point"), Call(Name("TypedDict"), Str("Point"), Dict([]string{"x", "y"}, Name("int"), Name("int")))),
		Assign(Name("p"), CallArgs(Name("Point"), Kw("x", Int(1)), Kw("y", Int(2)))),
		Expr(Reveal(Sub(Name("p"), Str("x")))),
		Expr(CallArgs(Name("Point"), Kw("x", Int(1)))),
		Expr(CallArgs(Name("Point"), Kw("x", Int(1)), Kw("y", Int(2)), Kw("z", Int(3)))),
		Expr(CallArgs(Name("Point"), Kw("x", Int(1)), Kw("y", Str("a")))),
		Expr(Sub(Name("p"), Str("z"))),
	)

	assert.Equal(t, []string{`Revealed type is "builtins.int"`}, revealed(r))
	assert.Equal(t, []string{
		`Missing key "y" for TypedDict "m.Point"`,
		`Extra key "z" for TypedDict "m.Point"`,
		`Incompatible types (expression has type "str", TypedDict item "y" has type "int")`,
		`TypedDict "Point({'x': int, 'y': int})" has no key "z"`,
	}, r.Diagnostics.Errors().Messages())
}

func TestImportNotFound(t *testing.T) {
	r := checkBody(t,
		ImportModule("nope"),
		ImportFrom("builtins", "missing"),
	)

	assert.Equal(t, []string{
		`Cannot find module "nope"`,
		`Module "builtins" has no attribute "missing"`,
	}, r.Diagnostics.WithCode(gradual.ImportNotFound).Messages())
}
