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

// Package util holds small graph algorithms over dense vertex indexes.
package util

// Graph is an adjacency list. Vertices are indexes; g[v] lists the successors of v.
type Graph [][]int

func NewGraph(numVerts int) Graph { return make(Graph, numVerts) }

// AddEdge adds an edge unless it is already present.
func (g Graph) AddEdge(from, to int) {
	if !g.HasEdge(from, to) {
		g[from] = append(g[from], to)
	}
}

func (g Graph) HasEdge(from, to int) bool {
	for _, succ := range g[from] {
		if succ == to {
			return true
		}
	}
	return false
}

// SCC returns the strongly-connected components of g in topological order: every edge runs from a
// component to the same or a later component. The order of vertices within a component is
// unspecified.
func (g Graph) SCC() [][]int {
	t := tarjan{
		g:       g,
		index:   make([]int, len(g)),
		low:     make([]int, len(g)),
		onStack: make([]bool, len(g)),
	}
	for v := range g {
		if t.index[v] == 0 {
			t.visit(v)
		}
	}
	// Tarjan emits sinks first.
	sccs := t.sccs
	for i, j := 0, len(sccs)-1; i < j; i, j = i+1, j-1 {
		sccs[i], sccs[j] = sccs[j], sccs[i]
	}
	return sccs
}

type tarjan struct {
	g       Graph
	count   int
	index   []int // 1-based discovery index, or 0 if unvisited
	low     []int
	onStack []bool
	stack   []int
	sccs    [][]int
}

// frame is a suspended visit of v, resuming at successor g[v][next].
type frame struct{ v, next int }

// visit runs Tarjan's algorithm from root with an explicit call stack, so long import chains do not
// grow the goroutine stack.
func (t *tarjan) visit(root int) {
	t.push(root)
	calls := []frame{{v: root}}
	for len(calls) > 0 {
		top := &calls[len(calls)-1]
		v := top.v
		if top.next < len(t.g[v]) {
			w := t.g[v][top.next]
			top.next++
			switch {
			case t.index[w] == 0:
				t.push(w)
				calls = append(calls, frame{v: w})
			case t.onStack[w]:
				t.low[v] = min(t.low[v], t.index[w])
			}
			continue
		}
		calls = calls[:len(calls)-1]
		if len(calls) > 0 {
			parent := calls[len(calls)-1].v
			t.low[parent] = min(t.low[parent], t.low[v])
		}
		if t.low[v] == t.index[v] {
			t.popComponent(v)
		}
	}
}

func (t *tarjan) push(v int) {
	t.count++
	t.index[v], t.low[v] = t.count, t.count
	t.stack = append(t.stack, v)
	t.onStack[v] = true
}

func (t *tarjan) popComponent(root int) {
	var c []int
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		c = append(c, w)
		if w == root {
			break
		}
	}
	t.sccs = append(t.sccs, c)
}
