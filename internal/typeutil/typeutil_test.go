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

package typeutil_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/wdamron/gradual"
	. "github.com/wdamron/gradual/construct"
	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

type fixture struct {
	ctx *typeutil.Context

	object, int_, bool_, str, float, none types.Type
	a, b, c, intList                    *types.Instance
}

func (f *fixture) instance(t *testing.T, fullname string, args ...types.Type) *types.Instance {
	t.Helper()
	sym := f.ctx.Lookup.Lookup(fullname)
	if sym == nil || sym.Info == nil {
		t.Fatalf("class %s not found", fullname)
	}
	if len(args) == 0 {
		return sym.Info.ErasedType()
	}
	return &types.Instance{Class: sym.Info.ID, Name: sym.Info.Fullname, Args: args}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := gradual.NewSession(gradual.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Check(Module("m",
		Class("A", nil, Pass()),
		Class("B", Bases(Name("A")), Pass()),
		Class("C", Bases(Name("A")), Pass()),
		Class("IntList", Bases(Sub(Name("list"), Name("int"))), Pass()),
	))
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{ctx: typeutil.NewContext(s.Store()), none: types.None}
	f.object = f.instance(t, "builtins.object")
	f.int_ = f.instance(t, "builtins.int")
	f.bool_ = f.instance(t, "builtins.bool")
	f.str = f.instance(t, "builtins.str")
	f.float = f.instance(t, "builtins.float")
	f.a = f.instance(t, "m.A")
	f.b = f.instance(t, "m.B")
	f.c = f.instance(t, "m.C")
	f.intList = f.instance(t, "m.IntList")
	return f
}

func (f *fixture) list(t *testing.T, arg types.Type) *types.Instance {
	return f.instance(t, "builtins.list", arg)
}

func (f *fixture) tuple(t *testing.T, arg types.Type) *types.Instance {
	return f.instance(t, "builtins.tuple", arg)
}

func fn(ret types.Type, args ...types.Type) *types.Callable {
	return TFunc(args, ret)
}

func TestSubtype(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	cases := []struct {
		a, b types.Type
		sub  bool
	}{
		{f.bool_, f.int_, true},
		{f.int_, f.bool_, false},
		{f.int_, f.str, false},
		{f.b, f.a, true},
		{f.b, f.c, false},
		{f.none, f.object, true},
		{f.none, f.int_, false},
		{types.Any, f.int_, true},
		{f.int_, types.Any, true},
		{types.Never, f.none, true},
		{f.int_, types.Never, false},
		{f.int_, TUnion(f.int_, f.none), true},
		{TUnion(f.int_, f.none), f.int_, false},
		{TUnion(f.bool_, f.int_), f.int_, true},
		{&types.Literal{Base: f.int_.(*types.Instance), Value: types.LiteralValue{Int: 1}}, f.int_, true},
		// list is invariant; tuple is covariant.
		{f.list(t, f.bool_), f.list(t, f.int_), false},
		{f.tuple(t, f.bool_), f.tuple(t, f.int_), true},
		{f.intList, f.list(t, f.int_), true},
		{f.intList, f.list(t, f.str), false},
		// Callables: contravariant parameters, covariant return types.
		{fn(f.bool_, f.object), fn(f.int_, f.int_), true},
		{fn(f.int_, f.bool_), fn(f.int_, f.int_), false},
		{fn(f.int_, f.int_), f.object, true},
		// Typed mappings are structural in width and depth.
		{TMapping(map[string]types.Type{"a": f.bool_, "b": f.str}), TMapping(map[string]types.Type{"a": f.int_}), true},
		{TMapping(map[string]types.Type{"a": f.int_}), TMapping(map[string]types.Type{"a": f.int_, "b": f.str}), false},
	}
	for i, c := range cases {
		if ctx.IsSubtype(c.a, c.b) != c.sub {
			t.Fatalf("case %d: IsSubtype(%s, %s) != %v", i, types.TypeString(c.a), types.TypeString(c.b), c.sub)
		}
	}

	// Reflexivity and transitivity over a chain of types:
	chain := []types.Type{types.Never, f.bool_, f.int_, TUnion(f.int_, f.str), f.object}
	for i, x := range chain {
		if !ctx.IsSubtype(x, x) {
			t.Fatalf("IsSubtype(%s, %[1]s) is false", types.TypeString(x))
		}
		for _, y := range chain[i:] {
			if !ctx.IsSubtype(x, y) {
				t.Fatalf("IsSubtype(%s, %s) is false", types.TypeString(x), types.TypeString(y))
			}
		}
	}
}

func TestSubtypeTypeVars(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	T := TBound("T", -1, f.int_)
	V := TValues("V", -2, f.int_, f.str)
	U := TVar("U", -3)

	if !ctx.IsSubtype(T, f.int_) || !ctx.IsSubtype(T, f.object) || ctx.IsSubtype(T, f.bool_) {
		t.Fatalf("unexpected subtyping of a bounded variable")
	}
	if !ctx.IsSubtype(V, f.object) || ctx.IsSubtype(V, f.int_) {
		t.Fatalf("unexpected subtyping of a value-restricted variable")
	}
	if ctx.IsSubtype(U, T) || !ctx.IsSubtype(U, U) {
		t.Fatalf("unexpected subtyping of an unrestricted variable")
	}
}

func TestJoin(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	cases := []struct {
		a, b, join types.Type
	}{
		{f.int_, f.int_, f.int_},
		{f.bool_, f.int_, f.int_},
		{f.b, f.c, f.a},
		{f.int_, f.str, f.object},
		{f.int_, f.none, TUnion(f.int_, f.none)},
		{f.int_, types.Never, f.int_},
		{types.Any, f.int_, types.Any},
		{f.tuple(t, f.bool_), f.tuple(t, f.str), f.tuple(t, f.object)},
		{f.list(t, f.int_), f.list(t, f.str), f.list(t, types.AnyFrom(types.AnyImplicit))},
		{fn(f.bool_, f.int_), fn(f.int_, f.bool_), fn(f.int_, f.bool_)},
		{
			TMapping(map[string]types.Type{"a": f.int_, "b": f.str}),
			TMapping(map[string]types.Type{"a": f.int_, "b": f.int_}),
			TMapping(map[string]types.Type{"a": f.int_}),
		},
	}
	for i, c := range cases {
		ab, ba := ctx.Join(c.a, c.b), ctx.Join(c.b, c.a)
		if !types.IsSameType(ab, c.join) {
			t.Fatalf("case %d: Join(%s, %s) = %s", i, types.TypeString(c.a), types.TypeString(c.b), types.TypeString(ab))
		}
		if !types.IsSameType(ab, ba) {
			t.Fatalf("case %d: join is not commutative: %s, %s", i, types.TypeString(ab), types.TypeString(ba))
		}
		if !ctx.IsSubtype(c.a, ab) || !ctx.IsSubtype(c.b, ab) {
			t.Fatalf("case %d: join %s is not an upper bound", i, types.TypeString(ab))
		}
	}
	if !types.IsNever(ctx.JoinAll(nil)) {
		t.Fatalf("expected the join of no types to be Never")
	}
}

func TestMeet(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	cases := []struct {
		a, b, meet types.Type
	}{
		{f.int_, f.str, types.Never},
		{f.b, f.c, types.Never},
		{f.object, f.int_, f.int_},
		{f.bool_, f.int_, f.bool_},
		{TUnion(f.int_, f.none), f.none, f.none},
		{TUnion(f.int_, f.str, f.none), TUnion(f.str, f.none), TUnion(f.str, f.none)},
		{types.Any, f.str, f.str},
		{TValues("V", -1, f.int_, f.str), f.str, f.str},
	}
	for i, c := range cases {
		if m := ctx.Meet(c.a, c.b); !types.IsSameType(m, c.meet) {
			t.Fatalf("case %d: Meet(%s, %s) = %s", i, types.TypeString(c.a), types.TypeString(c.b), types.TypeString(m))
		}
	}
	if ctx.IsOverlapping(f.int_, f.str) || !ctx.IsOverlapping(f.int_, f.bool_) {
		t.Fatalf("unexpected overlap")
	}
}

func TestMapInstanceToSupertype(t *testing.T) {
	f := newFixture(t)
	list := f.list(t, f.int_)
	mapped := f.ctx.MapInstanceToSupertype(f.intList, list.Class)
	if mapped == nil || !types.IsSameType(mapped, list) {
		t.Fatalf("unexpected mapping: %v", mapped)
	}
	if f.ctx.MapInstanceToSupertype(f.a, list.Class) != nil {
		t.Fatalf("expected no mapping to an unrelated class")
	}

	// Members of generic bases are substituted and bound to self.
	pop, sym := f.ctx.MemberType(f.intList, "pop")
	if sym == nil || types.ShortString(pop) != "def () -> int" {
		t.Fatalf("unexpected member type: %s", types.ShortString(pop))
	}
}

func TestSolve(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	T := TValues("T", -1, f.int_, f.str)
	solving := []*types.TypeVar{T}

	// The first value satisfying every constraint is chosen.
	cs := typeutil.WithOrigin(ctx.InferConstraints(T, f.bool_, typeutil.SupertypeOf, solving), 0)
	sol := ctx.Solve(solving, cs, nil)
	if sol.Failed || !types.IsSameType(sol.Types[0], f.int_) {
		t.Fatalf("unexpected solution: %v", sol)
	}

	// A value which no restriction admits is a violation at the offending argument.
	cs = append(cs, typeutil.WithOrigin(ctx.InferConstraints(T, f.float, typeutil.SupertypeOf, solving), 1)...)
	sol = ctx.Solve(solving, cs, nil)
	if !sol.Failed || len(sol.Violations) != 1 || sol.Violations[0].Origin != 1 {
		t.Fatalf("expected a violation at argument 1: %+v", sol)
	}
	if !types.IsAny(sol.Types[0]) {
		t.Fatalf("expected Any after a violation, found %s", types.TypeString(sol.Types[0]))
	}

	// Values are all-or-nothing: int and str cannot both be satisfied.
	cs = typeutil.WithOrigin(ctx.InferConstraints(T, f.int_, typeutil.SupertypeOf, solving), 0)
	cs = append(cs, typeutil.WithOrigin(ctx.InferConstraints(T, f.str, typeutil.SupertypeOf, solving), 1)...)
	if sol = ctx.Solve(solving, cs, nil); !sol.Failed {
		t.Fatalf("expected failure, found %s", types.TypeString(sol.Types[0]))
	}

	// Unrestricted variables join their lower bounds.
	U := TVar("U", -2)
	cs = ctx.InferConstraints(TUnion(U, f.none), f.bool_, typeutil.SupertypeOf, []*types.TypeVar{U})
	cs = append(cs, ctx.InferConstraints(U, f.int_, typeutil.SupertypeOf, []*types.TypeVar{U})...)
	if sol = ctx.Solve([]*types.TypeVar{U}, cs, nil); !types.IsSameType(sol.Types[0], f.int_) {
		t.Fatalf("unexpected solution: %s", types.TypeString(sol.Types[0]))
	}

	// Without constraints, the context decides.
	context := ctx.InferConstraints(U, f.str, typeutil.SubtypeOf, []*types.TypeVar{U})
	if sol = ctx.Solve([]*types.TypeVar{U}, nil, context); !types.IsSameType(sol.Types[0], f.str) {
		t.Fatalf("unexpected solution: %s", types.TypeString(sol.Types[0]))
	}

	// Bounded variables fall back to their bound.
	B := TBound("B", -3, f.int_)
	cs = typeutil.WithOrigin(ctx.InferConstraints(B, f.str, typeutil.SupertypeOf, []*types.TypeVar{B}), 2)
	sol = ctx.Solve([]*types.TypeVar{B}, cs, nil)
	if len(sol.Violations) != 1 || sol.Violations[0].Origin != 2 || !types.IsSameType(sol.Types[0], f.int_) {
		t.Fatalf("unexpected solution: %+v", sol)
	}
}

func TestInferConstraintsVariance(t *testing.T) {
	f := newFixture(t)
	ctx := f.ctx
	T := TVar("T", -1)
	solving := []*types.TypeVar{T}

	// Invariant arguments constrain in both directions.
	cs := ctx.InferConstraints(f.list(t, T), f.list(t, f.int_), typeutil.SupertypeOf, solving)
	if len(cs) != 2 {
		t.Fatalf("expected 2 constraints, found %d", len(cs))
	}
	// Covariant arguments constrain in the direction of the relation.
	cs = ctx.InferConstraints(f.tuple(t, T), f.tuple(t, f.int_), typeutil.SupertypeOf, solving)
	if len(cs) != 1 || cs[0].Op != typeutil.SupertypeOf {
		t.Fatalf("unexpected constraints: %+v", cs)
	}
	// Base classes are mapped to the template's class.
	cs = ctx.InferConstraints(f.list(t, T), f.intList, typeutil.SupertypeOf, solving)
	sol := ctx.Solve(solving, cs, nil)
	if !types.IsSameType(sol.Types[0], f.int_) {
		t.Fatalf("unexpected solution: %s", types.TypeString(sol.Types[0]))
	}
	// Callable parameters are contravariant.
	cs = ctx.InferConstraints(fn(f.none, T), fn(f.none, f.str), typeutil.SupertypeOf, solving)
	if len(cs) != 1 || cs[0].Op != typeutil.SubtypeOf {
		t.Fatalf("unexpected constraints: %+v", cs)
	}
}

func TestCheckTypeArgs(t *testing.T) {
	f := newFixture(t)
	vars := []*types.TypeVar{
		TValues("T", -1, f.int_, f.str),
		TBound("B", -2, f.int_),
		TVar("U", -3),
	}
	if bad := f.ctx.CheckTypeArgs(vars, []types.Type{f.int_, f.bool_, f.float}); len(bad) != 0 {
		t.Fatalf("unexpected violations: %v", bad)
	}
	bad := f.ctx.CheckTypeArgs(vars, []types.Type{f.bool_, f.str, f.float})
	if len(bad) != 2 || bad[0] != 0 || bad[1] != 1 {
		t.Fatalf("unexpected violations: %v", bad)
	}
	if bad := f.ctx.CheckTypeArgs(vars, []types.Type{types.Any, types.Any}); len(bad) != 0 {
		t.Fatalf("unexpected violations for Any: %v", bad)
	}
}
