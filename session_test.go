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
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/ast"
	. "github.com/wdamron/gradual/construct"
	"github.com/wdamron/gradual/merge"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

func instanceClass(t *testing.T, typ types.Type) types.ID {
	t.Helper()
	inst, ok := typ.(*types.Instance)
	require.True(t, ok, "not an instance: %s", types.ShortString(typ))
	return inst.Class
}

func ids(list []types.ID) []uint64 {
	out := make([]uint64, len(list))
	for i, id := range list {
		out[i] = uint64(id)
	}
	return out
}

func moduleNames(results []*gradual.Result) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Module
	}
	return names
}

func TestCheckDependencyOrder(t *testing.T) {
	s := newSession(t)
	c := Module("c",
		ImportFrom("b", "g"),
		Expr(Reveal(Call(Name("g")))),
	)
	b := Module("b",
		ImportFrom("a", "f"),
		Def("g", nil, Name("str"), Return(Call(Name("repr"), Call(Name("f"))))),
	)
	a := Module("a",
		Def("f", nil, Name("int"), Return(Int(1))),
	)

	results, err := s.Check(c, b, a)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, moduleNames(results))
	for _, r := range results {
		assert.False(t, r.HasErrors(), "%s: %v", r.Module, r.Diagnostics)
	}
	assert.Equal(t, []string{`Revealed type is "builtins.str"`}, revealed(results[2]))
	assert.Same(t, results[2], s.Result("c"))

	assert.Equal(t, []string{"b", "c"}, s.Dependents("a"))
	assert.Equal(t, []string{"c"}, s.Dependents("b"))
	assert.Empty(t, s.Dependents("c"))
}

func TestCheckImportCycle(t *testing.T) {
	s := newSession(t)
	a := Module("a", ImportModule("b"), Def("f", nil, Name("int"), Return(Int(1))))
	b := Module("b", ImportModule("a"), Def("g", nil, Name("int"), Return(Int(2))))

	results, err := s.Check(a, b)
	require.NoError(t, err)
	// Modules in a cycle are checked in the given order, so the first cannot see the second.
	assert.Equal(t, []string{"a", "b"}, moduleNames(results))
	assert.Equal(t, []string{`Cannot find module "b"`}, results[0].Diagnostics.Errors().Messages())
	assert.False(t, results[1].HasErrors())
}

func versionOf(fnReturn string, extra ...ast.Stmt) *ast.Module {
	body := []ast.Stmt{
		Class("A", nil,
			Def("m", Params(Param("self", nil)), Name("int"), Return(Int(1))),
		),
		Def("f", Params(Param("x", Name("A"))), Name(fnReturn), Pass()),
		AnnAssign(Name("v"), Name("A"), nil),
	}
	return Module("m", append(body, extra...)...)
}

func TestRecheckPreservesIdentity(t *testing.T) {
	s := newSession(t)
	results, err := s.Check(versionOf("int"))
	require.NoError(t, err)
	v1 := results[0].Table
	id := func(tab *symtab.Table, name string) uint64 {
		sym := tab.Globals.Lookup(name)
		require.NotNil(t, sym, name)
		return uint64(sym.ID)
	}

	r2, report, err := s.Recheck(versionOf("int", Def("g", nil, None(), Pass())))
	require.NoError(t, err)
	require.NotNil(t, report)
	v2 := r2.Table
	for _, name := range []string{"A", "f", "v"} {
		assert.Equal(t, id(v1, name), id(v2, name), name)
	}
	assert.Equal(t, v1.Module.ID, v2.Module.ID)
	assert.Equal(t, uint64(v1.Globals.Lookup("A").Info.Members.Lookup("m").ID),
		uint64(v2.Globals.Lookup("A").Info.Members.Lookup("m").ID))
	assert.Empty(t, report.Changed, spew.Sdump(report))
	assert.Empty(t, report.Removed, spew.Sdump(report))
	require.Len(t, report.Added, 1)
	assert.Equal(t, id(v2, "g"), uint64(report.Added[0]))
	assert.Same(t, v2, s.Store().Module("m"))

	// The instance type of the variable refers to the preserved class.
	v := v2.Globals.Lookup("v")
	assert.Equal(t, "m.A", types.TypeString(v.Type))
	assert.Equal(t, v2.Globals.Lookup("A").ID, instanceClass(t, v.Type))

	r3, report, err := s.Recheck(versionOf("str"))
	require.NoError(t, err)
	assert.Equal(t, id(v1, "f"), id(r3.Table, "f"))
	assert.Equal(t, []uint64{id(v1, "f")}, ids(report.Changed))
	assert.Equal(t, []uint64{id(v2, "g")}, ids(report.Removed))
	assert.Nil(t, s.Store().Lookup("m.g"))
}

func TestRecheckFailureKeepsPreviousVersion(t *testing.T) {
	alloc := symtab.NewAllocator()
	s := newSession(t, gradual.WithAllocator(alloc))
	results, err := s.Check(versionOf("int"))
	require.NoError(t, err)
	prev := results[0]

	// Identities retired before they are issued can never be merged.
	for k := 0; k < 16; k++ {
		alloc.Retire(alloc.Peek() + types.ID(k))
	}
	res, report, err := s.Recheck(versionOf("str"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, report)
	var inconsistent *merge.InconsistencyError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "m", inconsistent.Module)

	assert.Same(t, prev, s.Result("m"))
	assert.Same(t, prev.Table, s.Store().Module("m"))
	assert.Equal(t, "def (x: A) -> int", types.ShortString(s.Store().Lookup("m.f").Type))
}

func TestRecheckDependents(t *testing.T) {
	s := newSession(t)
	a := func(ret string) *ast.Module {
		return Module("a", Def("f", nil, Name(ret), Pass()))
	}
	b := func() *ast.Module {
		return Module("b", ImportFrom("a", "f"), Expr(Reveal(Call(Name("f")))))
	}
	results, err := s.Check(b(), a("int"))
	require.NoError(t, err)
	assert.Equal(t, []string{`Revealed type is "builtins.int"`}, revealed(results[1]))

	_, _, err = s.Recheck(a("str"))
	require.NoError(t, err)
	deps := s.Dependents("a")
	require.Equal(t, []string{"b"}, deps)

	rb, _, err := s.Recheck(b())
	require.NoError(t, err)
	assert.Equal(t, []string{`Revealed type is "builtins.str"`}, revealed(rb))
}

func TestDumpAndTypeAt(t *testing.T) {
	r := checkBody(t,
		Assign(Name("x"), Int(1)),
		Assign(Name("y"), List(Name("x"))),
	)
	require.False(t, r.HasErrors())

	assert.Equal(t, ""+
		"1:2: 1 -> int\n"+
		"1:3: x -> int\n"+
		"2:2: [x] -> list[int]\n"+
		"2:3: x -> int\n"+
		"2:4: y -> list[int]\n",
		gradual.Dump(r))
	assert.Equal(t, "list[int]", types.ShortString(r.TypeAt(ast.Pos{Line: 2, Col: 2})))
	assert.Nil(t, r.TypeAt(ast.Pos{Line: 9, Col: 9}))
}

func TestNestedFunctionSymbol(t *testing.T) {
	inner := Def("inner", Params(Param("y", Name("T"))), Name("T"), Return(Name("y")))
	r := checkBody(t,
		TypeVarDecl("T"),
		Def("outer", Params(Param("x", Name("T"))), Name("T"),
			inner,
			Return(Call(Name("inner"), Name("x"))),
		),
	)
	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	sym := r.Nested(inner)
	require.NotNil(t, sym)
	assert.Equal(t, "inner", sym.Name)
	assert.Len(t, sym.Captures, 1)
}

func TestCheckDoesNotInferForeignAttributes(t *testing.T) {
	cfg := gradual.DefaultConfig()
	cfg.CheckUntypedDefs = false
	s := newSession(t, gradual.WithConfig(cfg))
	a := Module("a",
		Class("A", nil,
			Def("set", Params(Param("self", nil)), nil, Assign(Self("x"), Int(1))),
		),
	)
	b := Module("b", ImportFrom("a", "A"), Assign(Attr(Call(Name("A")), "x"), Str("s")))
	c := Module("c", ImportFrom("a", "A"), AnnAssign(Name("y"), Name("int"), Attr(Call(Name("A")), "x")))

	for _, m := range []*ast.Module{a, b, c} {
		results, err := s.Check(m)
		require.NoError(t, err)
		assert.False(t, results[0].HasErrors(), "%s: %v", m.Name, results[0].Diagnostics)
	}
	x := s.Store().Lookup("a.A.x")
	require.NotNil(t, x)
	assert.Nil(t, x.Type, spew.Sdump(x.Type))
}

func TestPackageImportsCommittedSubmodule(t *testing.T) {
	s := newSession(t)
	util := Module("pkg.util", Def("helper", nil, Name("int"), Return(Int(1))))
	pkg := Module("pkg", ImportFrom("pkg.util", "helper"), Expr(Reveal(Call(Name("helper")))))
	app := Module("app", ImportFrom("pkg.util", "helper"), Expr(Reveal(Call(Name("helper")))))

	results, err := s.Check(util, pkg, app)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg.util", "pkg", "app"}, moduleNames(results))
	for _, r := range results[1:] {
		assert.False(t, r.HasErrors(), "%s: %v", r.Module, r.Diagnostics)
		assert.Equal(t, []string{`Revealed type is "builtins.int"`}, revealed(r), r.Module)
	}

	// The package sees its submodule on recheck as well.
	r, _, err := s.Recheck(Module("pkg", ImportFrom("pkg.util", "helper"), Expr(Reveal(Call(Name("helper"))))))
	require.NoError(t, err)
	assert.False(t, r.HasErrors(), "%v", r.Diagnostics)
	assert.Equal(t, []string{"app", "pkg.util"}, s.Dependents("pkg"))
}
