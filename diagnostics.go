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
)

// Severity of a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityNote
)

func (s Severity) String() string {
	if s == SeverityNote {
		return "note"
	}
	return "error"
}

// ErrorCode classifies a diagnostic.
type ErrorCode uint8

const (
	// A generic class was applied to the wrong number of type arguments.
	InvalidTypeArgumentCount ErrorCode = iota + 1
	// A type variable was instantiated outside its bound or values.
	ValueRestrictionViolation
	// A name was declared twice in one scope.
	RedeclarationError
	// A call passed the same keyword argument twice.
	DuplicateKeywordArgument
	// No item of an overloaded function accepts the arguments.
	NoMatchingOverload
	// An assigned value is not compatible with the declared type of the target.
	IncompatibleAssignment
	// A statement can never execute.
	UnreachableCode
	// The merge protocol found an inconsistent symbol table.
	InternalInconsistency
	NameNotDefined
	AttributeNotFound
	// Actual arguments could not be mapped onto formal parameters.
	ArgumentMismatch
	IncompatibleArgument
	IncompatibleReturn
	InvalidTypeVar
	// An annotation does not denote a type.
	InvalidType
	InconsistentMRO
	ImportNotFound
	NotCallable
	UnsupportedOperand
	// A name or attribute may be read before it is assigned.
	PossiblyUndefined
	RevealedType
)

var codeNames = [...]string{
	InvalidTypeArgumentCount:  "InvalidTypeArgumentCount",
	ValueRestrictionViolation: "ValueRestrictionViolation",
	RedeclarationError:        "RedeclarationError",
	DuplicateKeywordArgument:  "DuplicateKeywordArgument",
	NoMatchingOverload:        "NoMatchingOverload",
	IncompatibleAssignment:    "IncompatibleAssignment",
	UnreachableCode:           "UnreachableCode",
	InternalInconsistency:     "InternalInconsistency",
	NameNotDefined:            "NameNotDefined",
	AttributeNotFound:         "AttributeNotFound",
	ArgumentMismatch:          "ArgumentMismatch",
	IncompatibleArgument:      "IncompatibleArgument",
	IncompatibleReturn:        "IncompatibleReturn",
	InvalidTypeVar:            "InvalidTypeVar",
	InvalidType:               "InvalidType",
	InconsistentMRO:           "InconsistentMRO",
	ImportNotFound:            "ImportNotFound",
	NotCallable:               "NotCallable",
	UnsupportedOperand:        "UnsupportedOperand",
	PossiblyUndefined:         "PossiblyUndefined",
	RevealedType:              "RevealedType",
}

func (c ErrorCode) String() string {
	if int(c) < len(codeNames) && codeNames[c] != "" {
		return codeNames[c]
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

// Diagnostic is an error or note reported for a source span.
type Diagnostic struct {
	Severity Severity
	Code     ErrorCode
	Pos      ast.Pos
	End      ast.Pos
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Pos.Line, d.Pos.Col, d.Severity, d.Message)
}

// Format renders the diagnostic for display, e.g. `mod.py:3:5: error: message  [Code]`.
func (d Diagnostic) Format(cfg Config, path string) string {
	var sb strings.Builder
	sb.WriteString(path)
	fmt.Fprintf(&sb, ":%d", d.Pos.Line)
	if cfg.ShowColumnNumbers {
		fmt.Fprintf(&sb, ":%d", d.Pos.Col)
	}
	fmt.Fprintf(&sb, ": %s: %s", d.Severity, d.Message)
	if cfg.ShowErrorCodes && d.Severity == SeverityError {
		fmt.Fprintf(&sb, "  [%s]", d.Code)
	}
	return sb.String()
}

// Diagnostics is a list of diagnostics ordered by position.
type Diagnostics []Diagnostic

// Errors returns the error diagnostics, excluding notes.
func (ds Diagnostics) Errors() Diagnostics {
	var errs Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}

// WithCode returns the diagnostics with the given code.
func (ds Diagnostics) WithCode(code ErrorCode) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Messages returns the message of each diagnostic, in order.
func (ds Diagnostics) Messages() []string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Message
	}
	return msgs
}

// sortDiagnostics orders diagnostics by position and removes duplicates. Diagnostics reported at
// the same position keep the order in which they were reported.
func sortDiagnostics(ds []Diagnostic) Diagnostics {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int { return a.Pos.Compare(b.Pos) })
	out := ds[:0]
	seen := make(map[Diagnostic]bool, len(ds))
	for _, d := range ds {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return Diagnostics(out)
}
