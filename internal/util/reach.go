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

package util

import (
	"sort"
)

// Transpose returns a copy of g with every edge reversed.
func (g Graph) Transpose() Graph {
	t := make(Graph, len(g))
	for pred, succs := range g {
		for _, succ := range succs {
			t[succ] = append(t[succ], pred)
		}
	}
	return t
}

// Compact sorts the successors of each vertex and removes duplicate edges.
func (g Graph) Compact() {
	for v, succs := range g {
		switch len(succs) {
		case 0, 1:
			continue
		case 2:
			if succs[0] > succs[1] {
				succs[0], succs[1] = succs[1], succs[0]
			}
			if succs[0] == succs[1] {
				g[v] = succs[:1:1]
			}
			continue
		}
		sort.Ints(succs)
		last, flat := -1, succs[:0]
		for _, succ := range succs {
			if last != succ {
				flat = append(flat, succ)
			}
			last = succ
		}
		g[v] = flat[:len(flat):len(flat)]
	}
}

// Reachable returns the vertices reachable from entry in post-order, excluding entry itself.
func (g Graph) Reachable(entry int) []int {
	if entry < 0 || entry >= len(g) {
		return nil
	}
	seen := make([]bool, len(g))
	order := g.postOrder(entry, make([]int, 0, len(g)), seen)
	return order[:len(order)-1]
}

func (g Graph) postOrder(curr int, order []int, seen []bool) []int {
	seen[curr] = true
	for _, succ := range g[curr] {
		if !seen[succ] {
			order = g.postOrder(succ, order, seen)
		}
	}
	return append(order, curr)
}
