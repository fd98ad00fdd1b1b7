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

package gradual

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/ast"
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// Result is the outcome of checking one module.
type Result struct {
	Module      string
	Path        string
	Diagnostics Diagnostics
	// Table holds the module's symbols, with their resolved types.
	Table *symtab.Table
	// Types contains the inferred type of each checked expression. The type of an expression within
	// a function checked under several instantiations of its type variables is the union of its types.
	Types map[ast.Expr]types.Type

	nested map[*ast.FuncDef]*symtab.Symbol
}

// HasErrors returns true if any error was reported for the module.
func (r *Result) HasErrors() bool { return len(r.Diagnostics.Errors()) > 0 }

// TypeAt returns the type of the innermost checked expression starting at pos, or nil.
func (r *Result) TypeAt(pos ast.Pos) types.Type {
	var best ast.Expr
	for e := range r.Types {
		loc := e.Location()
		if loc.Pos != pos {
			continue
		}
		if best == nil || loc.End.Before(best.Location().End) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return r.Types[best]
}

// Nested returns the symbol of a function defined within a function body, or nil.
func (r *Result) Nested(def *ast.FuncDef) *symtab.Symbol { return r.nested[def] }

type dumpLine struct {
	pos  ast.Pos
	end  ast.Pos
	text string
}

// Dump renders the type of every checked expression of a result as `line:col: expr -> type`, one per
// line, ordered by position.
func Dump(r *Result) string {
	lines := make([]dumpLine, 0, len(r.Types))
	for e, t := range r.Types {
		loc := e.Location()
		lines = append(lines, dumpLine{
			pos:  loc.Pos,
			end:  loc.End,
			text: fmt.Sprintf("%d:%d: %s -> %s", loc.Pos.Line, loc.Pos.Col, ast.ExprString(e), types.ShortString(t)),
		})
	}
	slices.SortFunc(lines, func(a, b dumpLine) int {
		if c := a.pos.Compare(b.pos); c != 0 {
			return c
		}
		if c := b.end.Compare(a.end); c != 0 {
			return c
		}
		return strings.Compare(a.text, b.text)
	})
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
