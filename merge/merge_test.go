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

package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/wdamron/gradual/construct"
	"github.com/wdamron/gradual/merge"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

var (
	intT = &types.Instance{Class: 1000, Name: "builtins.int"}
	strT = &types.Instance{Class: 1001, Name: "builtins.str"}
)

// version declares a module version:
//
//	class A:
//	    def m(self) -> int: ...
//	    <member>: int
//	def <fn>(x: int) -> int: ...
//	x: <varType>
//	a: A
type version struct {
	fn      string
	varType types.Type
	member  string
}

func (v version) build(t *testing.T, alloc *symtab.Allocator) *symtab.Table {
	t.Helper()
	table := symtab.NewTable(alloc, "m")
	declare := func(scope *symtab.Scope, sym *symtab.Symbol) *symtab.Symbol {
		_, err := table.Declare(alloc, scope, sym)
		require.NoError(t, err)
		return sym
	}

	info := symtab.NewClassInfo(0, "A", "m.A", "m")
	declare(table.Globals, &symtab.Symbol{Kind: symtab.TypeInfo, Name: "A", Info: info})
	info.MRO = []types.ID{info.ID}
	self := info.SelfType()
	declare(info.Members, &symtab.Symbol{
		Kind: symtab.FuncDef,
		Name: "m",
		Type: &types.Callable{Args: []types.Type{self}, Kinds: []types.ArgKind{types.ArgPos}, Names: []string{"self"}, Return: intT},
	})
	if v.member != "" {
		declare(info.Members, &symtab.Symbol{Kind: symtab.Var, Name: v.member, Type: intT})
	}
	declare(table.Globals, &symtab.Symbol{Kind: symtab.FuncDef, Name: v.fn, Type: TFunc1(intT, intT)})
	declare(table.Globals, &symtab.Symbol{Kind: symtab.Var, Name: "x", Type: v.varType})
	declare(table.Globals, &symtab.Symbol{Kind: symtab.Var, Name: "a", Type: self})
	return table
}

func ids(table *symtab.Table) map[string]types.ID {
	m := map[string]types.ID{table.Name(): table.Module.ID}
	for _, sym := range table.Symbols() {
		m[sym.Fullname] = sym.ID
	}
	return m
}

func TestMergePreservesIdentity(t *testing.T) {
	alloc := symtab.NewAllocator()
	v := version{fn: "f", varType: intT}
	old := v.build(t, alloc)
	oldIDs := ids(old)

	next := v.build(t, alloc)
	freshIDs := ids(next)
	report, err := merge.Merge(alloc, old, next)
	require.NoError(t, err)

	assert.True(t, report.Stable(), report.String())
	assert.Len(t, report.Preserved, len(old.Symbols()))
	assert.Equal(t, oldIDs, ids(next))
	for name, fresh := range freshIDs {
		assert.True(t, alloc.Retired(fresh), "fresh identity of %s not retired", name)
		assert.Equal(t, oldIDs[name], report.ID(fresh))
	}

	// Types refer to the previous identities.
	a := next.Globals.Lookup("a")
	assert.Equal(t, oldIDs["m.A"], a.Type.(*types.Instance).Class)
	info := next.Globals.Lookup("A").Info
	assert.Equal(t, oldIDs["m.A"], info.ID)
	assert.Equal(t, []types.ID{oldIDs["m.A"]}, info.MRO)
	assert.Equal(t, oldIDs["m.A"], info.Members.Owner)
	assert.Same(t, info, next.ClassInfo(oldIDs["m.A"]))

	// Preserved functions keep the previous callable.
	assert.Same(t, old.Globals.Lookup("f").Type, next.Globals.Lookup("f").Type)

	// Merging is idempotent.
	again := v.build(t, alloc)
	report, err = merge.Merge(alloc, next, again)
	require.NoError(t, err)
	assert.True(t, report.Stable(), report.String())
	assert.Equal(t, oldIDs, ids(again))
}

func TestMergeRename(t *testing.T) {
	alloc := symtab.NewAllocator()
	old := version{fn: "f", varType: intT}.build(t, alloc)
	oldF := old.Globals.Lookup("f").ID

	next := version{fn: "g", varType: intT}.build(t, alloc)
	freshG := next.Globals.Lookup("g").ID
	report, err := merge.Merge(alloc, old, next)
	require.NoError(t, err)

	assert.Equal(t, []types.ID{oldF}, report.Removed)
	assert.Equal(t, []types.ID{freshG}, report.Added)
	assert.Empty(t, report.Changed)
	assert.True(t, alloc.Retired(oldF))
	assert.False(t, alloc.Retired(freshG))
	assert.Equal(t, freshG, next.Globals.Lookup("g").ID)
	assert.Nil(t, next.Symbol(oldF))
	assert.NotEqual(t, oldF, freshG)
}

func TestMergeChangedType(t *testing.T) {
	alloc := symtab.NewAllocator()
	old := version{fn: "f", varType: intT}.build(t, alloc)
	oldX := old.Globals.Lookup("x").ID

	next := version{fn: "f", varType: strT}.build(t, alloc)
	report, err := merge.Merge(alloc, old, next)
	require.NoError(t, err)

	assert.Equal(t, []types.ID{oldX}, report.Changed)
	assert.Empty(t, report.Added)
	assert.Empty(t, report.Removed)
	x := next.Globals.Lookup("x")
	assert.Equal(t, oldX, x.ID)
	assert.True(t, types.IsSameType(strT, x.Type))
	assert.False(t, report.Stable())
}

func TestMergeClassMembers(t *testing.T) {
	alloc := symtab.NewAllocator()
	old := version{fn: "f", varType: intT}.build(t, alloc)
	oldA := old.Globals.Lookup("A").ID

	next := version{fn: "f", varType: intT, member: "y"}.build(t, alloc)
	freshY := next.Globals.Lookup("A").Info.Members.Lookup("y").ID
	report, err := merge.Merge(alloc, old, next)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{oldA}, report.Changed)
	assert.Equal(t, []types.ID{freshY}, report.Added)
	assert.Empty(t, report.Removed)

	// Removing the member changes the class again.
	again := version{fn: "f", varType: intT}.build(t, alloc)
	report, err = merge.Merge(alloc, next, again)
	require.NoError(t, err)
	assert.Equal(t, []types.ID{oldA}, report.Changed)
	assert.Equal(t, []types.ID{freshY}, report.Removed)
	assert.Empty(t, report.Added)
}

func TestMergeInconsistent(t *testing.T) {
	v := version{fn: "f", varType: intT}
	cases := map[string]func(alloc *symtab.Allocator, old, next *symtab.Table){
		"renamed module": func(alloc *symtab.Allocator, old, next *symtab.Table) {
			next.Module.Name, next.Module.Fullname = "n", "n"
		},
		"declared twice": func(alloc *symtab.Allocator, old, next *symtab.Table) {
			next.Declare(alloc, next.Globals, &symtab.Symbol{Kind: symtab.Var, Name: "y", Fullname: "m.x"})
		},
		"identity not issued": func(alloc *symtab.Allocator, old, next *symtab.Table) {
			next.Declare(alloc, next.Globals, &symtab.Symbol{ID: alloc.Peek() + 10, Kind: symtab.Var, Name: "y"})
		},
		"identity retired": func(alloc *symtab.Allocator, old, next *symtab.Table) {
			alloc.Retire(next.Globals.Lookup("x").ID)
		},
		"fresh symbol reuses identity": func(alloc *symtab.Allocator, old, next *symtab.Table) {
			next.Declare(alloc, next.Globals, &symtab.Symbol{ID: old.Globals.Lookup("x").ID, Kind: symtab.Var, Name: "y"})
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			alloc := symtab.NewAllocator()
			old := v.build(t, alloc)
			next := v.build(t, alloc)
			corrupt(alloc, old, next)
			before := ids(next)

			report, err := merge.Merge(alloc, old, next)
			require.Error(t, err)
			assert.Nil(t, report)
			var inconsistent *merge.InconsistencyError
			require.ErrorAs(t, err, &inconsistent)

			// Neither version was modified.
			assert.Equal(t, before, ids(next))
			assert.False(t, alloc.Retired(old.Globals.Lookup("f").ID))
		})
	}
}
