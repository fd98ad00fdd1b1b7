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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wdamron/gradual/ast"
)

func TestSortDiagnostics(t *testing.T) {
	at := func(line, col int, msg string) Diagnostic {
		return Diagnostic{Severity: SeverityError, Pos: ast.Pos{Line: line, Col: col}, Message: msg}
	}
	ds := sortDiagnostics([]Diagnostic{
		at(3, 1, "d"),
		at(1, 5, "b"),
		at(1, 5, "a"),
		at(1, 2, "first"),
		at(3, 1, "d"),
		at(1, 5, "b"),
	})
	// Diagnostics at the same position keep their reported order, and duplicates are dropped.
	assert.Equal(t, []string{"first", "b", "a", "d"}, ds.Messages())
}
