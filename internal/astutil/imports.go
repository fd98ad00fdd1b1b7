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

// Package astutil analyzes the structure of a set of modules.
package astutil

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/internal/util"
)

// ImportGraph records the imports between a set of modules. Imports of modules outside the set are
// ignored.
type ImportGraph struct {
	Modules []*ast.Module
	index   map[string]int
	// edges run from each module to the modules which import it
	graph util.Graph
	deps  util.Graph
}

// NewImportGraph builds the import graph of a set of modules. `import a.b` depends on both `a.b`
// and its parent package `a`, where they are in the set, and module `a.b` itself depends on `a`.
func NewImportGraph(modules []*ast.Module) *ImportGraph {
	g := &ImportGraph{
		Modules: modules,
		index:   make(map[string]int, len(modules)),
		graph:   util.NewGraph(len(modules)),
	}
	for i, m := range modules {
		g.index[m.Name] = i
	}
	for i, m := range modules {
		for _, dep := range g.imports(m) {
			if j, ok := g.index[dep]; ok && j != i {
				g.graph.AddEdge(j, i)
			}
		}
	}
	g.graph.Compact()
	g.deps = g.graph.Transpose()
	return g
}

func (g *ImportGraph) imports(m *ast.Module) []string {
	var deps []string
	var visit func(stmts []ast.Stmt)
	visit = func(stmts []ast.Stmt) {
		for _, s := range stmts {
			switch s := s.(type) {
			case *ast.Import:
				name := s.Module
				for {
					deps = append(deps, name)
					dot := strings.LastIndexByte(name, '.')
					if dot < 0 {
						break
					}
					name = name[:dot]
				}
			case *ast.If:
				visit(s.Body)
				visit(s.Else)
			}
		}
	}
	visit(m.Body)
	// A submodule is loaded after its parent packages.
	for name := m.Name; ; {
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			break
		}
		name = name[:dot]
		deps = append(deps, name)
	}
	return deps
}

// Imports returns the names of the modules in the set which m imports, in sorted order.
func (g *ImportGraph) Imports(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(g.deps[i]))
	for _, j := range g.deps[i] {
		deps = append(deps, g.Modules[j].Name)
	}
	slices.Sort(deps)
	return deps
}

// Order returns the modules grouped into strongly-connected components (import cycles), with every
// component following the components it imports. Modules within a component keep their input order.
func (g *ImportGraph) Order() [][]*ast.Module {
	sccs := g.graph.SCC()
	order := make([][]*ast.Module, len(sccs))
	for i, scc := range sccs {
		slices.Sort(scc)
		order[i] = make([]*ast.Module, len(scc))
		for j, v := range scc {
			order[i][j] = g.Modules[v]
		}
	}
	return order
}

// Dependents returns the names of the modules which import the named module, directly or
// transitively, in sorted order.
func (g *ImportGraph) Dependents(name string) []string {
	start, ok := g.index[name]
	if !ok {
		return nil
	}
	var names []string
	for _, v := range g.graph.Reachable(start) {
		names = append(names, g.Modules[v].Name)
	}
	slices.Sort(names)
	return names
}
