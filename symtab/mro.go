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

package symtab

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/wdamron/gradual/types"
)

// MROError is returned when the bases of a class cannot be linearized consistently.
type MROError struct {
	Class string
	Cycle bool
}

func (e *MROError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("Cycle in inheritance hierarchy for %q", e.Class)
	}
	return fmt.Sprintf("Cannot determine consistent method resolution order (MRO) for %q", e.Class)
}

// ComputeMRO computes the C3 linearization of a class: the class itself first, each class before
// its bases, and bases in declaration order where the hierarchy leaves the order open. Base classes
// without an MRO are linearized first.
//
// When no consistent linearization exists, an *MROError is returned along with a depth-first
// linearization which still places each class before its own bases.
func ComputeMRO(c *ClassInfo, lookup func(types.ID) *ClassInfo) ([]types.ID, error) {
	return computeMRO(c, lookup, nil)
}

func computeMRO(c *ClassInfo, lookup func(types.ID) *ClassInfo, visiting []types.ID) ([]types.ID, error) {
	if slices.Contains(visiting, c.ID) {
		return []types.ID{c.ID}, &MROError{Class: c.Fullname, Cycle: true}
	}
	visiting = append(visiting, c.ID)

	var seqs [][]types.ID
	var direct []types.ID
	for _, base := range c.Bases {
		info := lookup(base.Class)
		if info == nil || slices.Contains(direct, base.Class) {
			continue
		}
		if len(info.MRO) == 0 {
			mro, err := computeMRO(info, lookup, visiting)
			if err != nil {
				return append([]types.ID{c.ID}, depthFirst(c, lookup)...), err
			}
			info.MRO = mro
		}
		seqs = append(seqs, slices.Clone(info.MRO))
		direct = append(direct, base.Class)
	}
	seqs = append(seqs, slices.Clone(direct))

	mro := []types.ID{c.ID}
	for {
		seqs = nonEmpty(seqs)
		if len(seqs) == 0 {
			return mro, nil
		}
		var head types.ID
		found := false
		for _, seq := range seqs {
			candidate := seq[0]
			if !inTail(seqs, candidate) {
				head, found = candidate, true
				break
			}
		}
		if !found {
			return append([]types.ID{c.ID}, depthFirst(c, lookup)...), &MROError{Class: c.Fullname}
		}
		mro = append(mro, head)
		for i, seq := range seqs {
			if seq[0] == head {
				seqs[i] = seq[1:]
			}
		}
	}
}

func nonEmpty(seqs [][]types.ID) [][]types.ID {
	out := seqs[:0]
	for _, seq := range seqs {
		if len(seq) > 0 {
			out = append(out, seq)
		}
	}
	return out
}

func inTail(seqs [][]types.ID, id types.ID) bool {
	for _, seq := range seqs {
		if slices.Contains(seq[1:], id) {
			return true
		}
	}
	return false
}

// depthFirst linearizes the bases of c depth-first in declaration order, keeping the first
// occurrence of each class.
func depthFirst(c *ClassInfo, lookup func(types.ID) *ClassInfo) []types.ID {
	var order []types.ID
	seen := map[types.ID]bool{c.ID: true}
	var visit func(info *ClassInfo)
	visit = func(info *ClassInfo) {
		for _, base := range info.Bases {
			if seen[base.Class] {
				continue
			}
			seen[base.Class] = true
			order = append(order, base.Class)
			if b := lookup(base.Class); b != nil {
				visit(b)
			}
		}
	}
	visit(c)
	return order
}
