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

package merge

import (
	"fmt"

	"github.com/wdamron/gradual/types"
)

// Report describes how the symbols of a new module version were matched against the previous version.
type Report struct {
	// Preserved symbols kept their identity and an identical type.
	Preserved []types.ID
	// Changed symbols kept their identity, but their type differs. A class is also changed when a
	// member was added or removed.
	Changed []types.ID
	// Added symbols have no counterpart in the previous version, and keep their fresh identity.
	Added []types.ID
	// Removed symbols of the previous version have no counterpart; their identities are retired.
	Removed []types.ID
	// Remap maps fresh identities of matched symbols to their previous identities.
	Remap map[types.ID]types.ID
}

// ID returns the identity which replaces a fresh identity, or id itself.
func (r *Report) ID(id types.ID) types.ID {
	if old, ok := r.Remap[id]; ok {
		return old
	}
	return id
}

// Stable returns true if no symbol was changed, added, or removed.
func (r *Report) Stable() bool {
	return len(r.Changed) == 0 && len(r.Added) == 0 && len(r.Removed) == 0
}

func (r *Report) String() string {
	return fmt.Sprintf("preserved=%d changed=%d added=%d removed=%d",
		len(r.Preserved), len(r.Changed), len(r.Added), len(r.Removed))
}

// InconsistencyError is returned when two versions of a module cannot be merged. The previous
// version remains valid.
type InconsistencyError struct {
	Module string
	// Symbol is the fully-qualified name of the offending symbol, if any.
	Symbol string
	Reason string
}

func (e *InconsistencyError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("inconsistent versions of module %s: %s", e.Module, e.Reason)
	}
	return fmt.Sprintf("inconsistent versions of module %s: %s: %s", e.Module, e.Symbol, e.Reason)
}
