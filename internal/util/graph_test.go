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

package util_test

import (
	"testing"

	. "github.com/wdamron/gradual/internal/util"
)

func checkInts(t *testing.T, expected, actual []int) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("expected %#+v, found %#+v", expected, actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("expected %#+v, found %#+v", expected, actual)
		}
	}
}

func TestSCCTopologicalOrder(t *testing.T) {
	// 0 -> 1 -> 2 -> 1, 2 -> 3
	g := NewGraph(4)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 1)
	g.AddEdge(2, 3)
	g.AddEdge(2, 3)
	if len(g[2]) != 2 {
		t.Fatalf("duplicate edge added: %#+v", g[2])
	}

	sccs := g.SCC()
	if len(sccs) != 3 {
		t.Fatalf("expected 3 components, found %#+v", sccs)
	}
	checkInts(t, []int{0}, sccs[0])
	if len(sccs[1]) != 2 || !(sccs[1][0] == 1 || sccs[1][1] == 1) || !(sccs[1][0] == 2 || sccs[1][1] == 2) {
		t.Fatalf("expected cycle {1, 2}, found %#+v", sccs[1])
	}
	checkInts(t, []int{3}, sccs[2])
}

func TestTransposeAndCompact(t *testing.T) {
	g := Graph{{2, 1, 2}, {2}, {}}
	g.Compact()
	checkInts(t, []int{1, 2}, g[0])

	tr := g.Transpose()
	checkInts(t, nil, tr[0])
	checkInts(t, []int{0}, tr[1])
	checkInts(t, []int{0, 1}, tr[2])
}

func TestReachable(t *testing.T) {
	// 0 -> 1 -> 3, 0 -> 2, 4 is disconnected
	g := NewGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 3)
	g.AddEdge(0, 2)
	g.AddEdge(3, 0)

	checkInts(t, []int{3, 1, 2}, g.Reachable(0))
	checkInts(t, nil, g.Reachable(4))
	checkInts(t, nil, g.Reachable(9))

	// Cycles back to the entry are not reported.
	checkInts(t, []int{2, 0, 3}, g.Reachable(1))
}

func TestSCCLongChain(t *testing.T) {
	const n = 100000
	g := NewGraph(n)
	for v := 0; v+1 < n; v++ {
		g.AddEdge(v, v+1)
	}
	g.AddEdge(n-1, n-2)

	sccs := g.SCC()
	if len(sccs) != n-1 {
		t.Fatalf("expected %d components, found %d", n-1, len(sccs))
	}
	for i := 0; i < n-2; i++ {
		checkInts(t, []int{i}, sccs[i])
	}
	if last := sccs[n-2]; len(last) != 2 {
		t.Fatalf("expected final cycle of 2 vertices, found %#+v", last)
	}
}
