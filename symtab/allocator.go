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
	"github.com/hashicorp/go-set/v3"

	"github.com/wdamron/gradual/types"
)

// Allocator hands out identity tokens. Tokens are allocated in increasing order and are never
// reused, including tokens which have been retired.
//
// An Allocator must be passed explicitly to every component which creates entities. It cannot be
// used concurrently.
type Allocator struct {
	next    types.ID
	retired *set.Set[types.ID]
}

func NewAllocator() *Allocator {
	return &Allocator{next: 1, retired: set.New[types.ID](0)}
}

// Next allocates a fresh identity token.
func (a *Allocator) Next() types.ID {
	id := a.next
	a.next++
	return id
}

// Peek returns the token which will be allocated next.
func (a *Allocator) Peek() types.ID { return a.next }

// Retire marks a token as belonging to a removed entity.
func (a *Allocator) Retire(id types.ID) {
	if id != 0 {
		a.retired.Insert(id)
	}
}

// Retired returns true if the token belongs to a removed entity.
func (a *Allocator) Retired(id types.ID) bool { return a.retired.Contains(id) }

// Issued returns true if the token has been allocated.
func (a *Allocator) Issued(id types.ID) bool { return id != 0 && id < a.next }

// Reset returns the allocator to its initial state. Reset is intended for tests; a session must not
// reset its allocator while any entity it allocated is still reachable.
func (a *Allocator) Reset() {
	a.next = 1
	a.retired = set.New[types.ID](0)
}
