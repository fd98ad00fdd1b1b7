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

package types_test

import (
	"testing"

	. "github.com/wdamron/gradual/types"
)

var (
	intT   = &Instance{Class: 1, Name: "builtins.int"}
	strT   = &Instance{Class: 2, Name: "builtins.str"}
	floatT = &Instance{Class: 3, Name: "builtins.float"}
)

func listOf(t Type) *Instance { return &Instance{Class: 4, Name: "builtins.list", Args: []Type{t}} }

func TestUnionNormalization(t *testing.T) {
	u := NewUnion(intT, NewUnion(strT, intT), Never, nil)
	items := UnionItems(u)
	if len(items) != 2 || !IsSameType(items[0], intT) || !IsSameType(items[1], strT) {
		t.Fatalf("unexpected union: %s", TypeString(u))
	}
	if s := TypeString(u); s != "builtins.int | builtins.str" {
		t.Fatalf("unexpected union string: %s", s)
	}
	if single := NewUnion(intT, intT); single != Type(intT) {
		t.Fatalf("expected singleton union to collapse, found %s", TypeString(single))
	}
	if !IsNever(NewUnion()) || !IsNever(NewUnion(Never, Never)) {
		t.Fatalf("expected empty union to be Never")
	}
	if len(UnionItems(Never)) != 0 {
		t.Fatalf("expected no items for Never")
	}

	// Unions are compared as sets.
	if !IsSameType(NewUnion(intT, strT), NewUnion(strT, intT)) {
		t.Fatalf("expected unions with the same items to be the same")
	}
	if IsSameType(NewUnion(intT, strT), NewUnion(intT, floatT)) {
		t.Fatalf("expected unions with different items to differ")
	}

	noNone := RemoveFromUnion(NewUnion(intT, None), func(t Type) bool { _, isNone := t.(*NoneType); return !isNone })
	if !IsSameType(noNone, intT) {
		t.Fatalf("unexpected union after removal: %s", TypeString(noNone))
	}
}

func TestSameType(t *testing.T) {
	T := NewTypeVar("T", -1)
	cases := []struct {
		a, b Type
		same bool
	}{
		{intT, &Instance{Class: 1, Name: "int"}, true},
		{intT, strT, false},
		{listOf(intT), listOf(intT), true},
		{listOf(intT), listOf(strT), false},
		{Any, AnyFrom(AnyFromError), true},
		{None, Never, false},
		{T, NewTypeVar("T", -1), true},
		{T, NewTypeVar("T", -2), false},
		{T, NewValueRestrictedVar("T", -1, intT, strT), false},
		{&Literal{Base: intT, Value: LiteralValue{Int: 1}}, &Literal{Base: intT, Value: LiteralValue{Int: 1}}, true},
		{&Literal{Base: intT, Value: LiteralValue{Int: 1}}, &Literal{Base: intT, Value: LiteralValue{Int: 2}}, false},
		{&ModuleType{Module: 7, Name: "a"}, &ModuleType{Module: 7, Name: "b"}, true},
		{&AliasType{Ref: 9}, &AliasType{Ref: 10}, false},
	}
	for i, c := range cases {
		if IsSameType(c.a, c.b) != c.same {
			t.Fatalf("case %d: IsSameType(%s, %s) != %v", i, TypeString(c.a), TypeString(c.b), c.same)
		}
	}

	f := &Callable{Args: []Type{intT}, Kinds: []ArgKind{ArgPos}, Names: []string{"x"}, Return: strT}
	g := &Callable{Args: []Type{intT}, Kinds: []ArgKind{ArgNamed}, Names: []string{"x"}, Return: strT}
	if IsSameType(f, g) {
		t.Fatalf("expected callables with different parameter kinds to differ")
	}
}

func TestSubstitute(t *testing.T) {
	T := NewTypeVar("T", -1)
	U := NewTypeVar("U", -2)
	mapping := map[int]Type{T.Id: intT, U.Id: strT}

	if s := TypeString(Substitute(listOf(T), mapping)); s != "builtins.list[builtins.int]" {
		t.Fatalf("unexpected substitution: %s", s)
	}
	if s := TypeString(Substitute(NewUnion(T, U, intT), mapping)); s != "builtins.int | builtins.str" {
		t.Fatalf("unexpected union substitution: %s", s)
	}

	// Variables bound by a callable are not substituted.
	f := &Callable{Args: []Type{T, U}, Kinds: []ArgKind{ArgPos, ArgPos}, Names: []string{"a", "b"}, Return: T, Vars: []*TypeVar{T}}
	if s := ShortString(Substitute(f, mapping)); s != "def [T] (a: T, b: str) -> T" {
		t.Fatalf("unexpected callable substitution: %s", s)
	}

	free := FreeVars(f)
	if len(free) != 1 || free[0].Name != "U" {
		t.Fatalf("unexpected free variables: %v", free)
	}
	if !listOf(U).IsGeneric() || listOf(intT).IsGeneric() || !f.IsGeneric() {
		t.Fatalf("unexpected generic flags")
	}

	m := VarMapping([]*TypeVar{T, U}, []Type{floatT})
	if len(m) != 1 || !IsSameType(m[T.Id], floatT) {
		t.Fatalf("unexpected mapping: %v", m)
	}
}

func TestRemapIDs(t *testing.T) {
	remap := func(id ID) ID {
		if id == 1 {
			return 100
		}
		return id
	}
	f := &Callable{Args: []Type{listOf(intT)}, Kinds: []ArgKind{ArgPos}, Names: []string{""}, Return: NewUnion(intT, None)}
	g := RemapIDs(f, remap).(*Callable)
	if g.Args[0].(*Instance).Args[0].(*Instance).Class != 100 {
		t.Fatalf("argument not remapped: %s", TypeString(g))
	}
	if f.Args[0].(*Instance).Args[0].(*Instance).Class != 1 {
		t.Fatalf("original type was modified")
	}
	if !IsSameType(RemapIDs(strT, remap), strT) {
		t.Fatalf("unexpected remapping of an untouched type")
	}
}

func TestPrinting(t *testing.T) {
	mapping := &TypedMapping{Name: "app.Movie", Fields: NewFlatTypeMap(map[string]Type{"year": intT, "name": strT})}
	cases := []struct {
		t        Type
		long     string
		short    string
	}{
		{listOf(NewUnion(intT, None)), "builtins.list[builtins.int | None]", "list[int | None]"},
		{&Literal{Base: strT, Value: LiteralValue{Kind: LiteralStr, Str: "a"}}, `Literal["a"]`, `Literal["a"]`},
		{&Literal{Base: intT, Value: LiteralValue{Kind: LiteralBool, Bool: true}}, "Literal[True]", "Literal[True]"},
		{mapping, "app.Movie({'name': builtins.str, 'year': builtins.int})", "Movie({'name': str, 'year': int})"},
		{&ModuleType{Name: "pkg.mod"}, "Module(pkg.mod)", "Module(pkg.mod)"},
		{
			&Callable{
				Args:   []Type{intT, strT, floatT},
				Kinds:  []ArgKind{ArgPos, ArgOpt, ArgStar},
				Names:  []string{"x", "y", "rest"},
				Return: None,
			},
			"def (x: builtins.int, y: builtins.str =, *rest: builtins.float) -> None",
			"def (x: int, y: str =, *rest: float) -> None",
		},
		{NewUnion(&Callable{Return: intT}, None), "(def () -> builtins.int) | None", "(def () -> int) | None"},
	}
	for i, c := range cases {
		if s := TypeString(c.t); s != c.long {
			t.Fatalf("case %d: unexpected type string: %s", i, s)
		}
		if s := ShortString(c.t); s != c.short {
			t.Fatalf("case %d: unexpected short string: %s", i, s)
		}
	}
}

func TestTypeMap(t *testing.T) {
	m := NewTypeMap().Set("b", intT).Set("a", strT)
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, found %d", m.Len())
	}
	labels := m.Labels()
	if len(labels) != 2 || labels[0] != "a" || labels[1] != "b" {
		t.Fatalf("expected sorted labels, found %v", labels)
	}
	if ft, ok := m.Get("b"); !ok || !IsSameType(ft, intT) {
		t.Fatalf("unexpected entry for b")
	}
	if _, ok := (TypeMap{}).Get("a"); ok {
		t.Fatalf("expected no entries in the zero map")
	}
	b := m.Builder().Delete("a").Set("c", floatT).Build()
	if b.Len() != 2 || m.Len() != 2 {
		t.Fatalf("builder modified the original map")
	}
	if _, ok := b.Get("a"); ok {
		t.Fatalf("expected a to be deleted")
	}
}

func TestAliasResolvesOnce(t *testing.T) {
	calls := 0
	var alias *Alias
	alias = NewAlias(5, "R", "app.R", func() Type {
		calls++
		// A self-reference while resolving yields a lazy reference.
		return NewUnion(intT, listOf(alias.Target()))
	})
	target := alias.Target()
	if calls != 1 || !alias.Resolved() {
		t.Fatalf("expected a single resolution")
	}
	if s := ShortString(target); s != "int | list[R]" {
		t.Fatalf("unexpected alias target: %s", s)
	}
	alias.Target()
	if calls != 1 {
		t.Fatalf("expected memoized target")
	}
}
