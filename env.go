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
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/wdamron/gradual/internal/typeutil"
	"github.com/wdamron/gradual/types"
)

var emptyPaths = immutable.NewSortedMap(nil)

// env is the narrowed-type environment at a program point. Environments are persistent: a branch
// environment is a version of its parent, and updates never affect other versions.
type env struct {
	// narrowed maps reference paths ("x", "self.x") to narrowed types.
	narrowed *immutable.SortedMap
	// defined contains the local names which are assigned on every path to this point.
	defined *immutable.SortedMap
	// unreachable is set when no execution reaches this point.
	unreachable bool
}

func newEnv() env { return env{narrowed: emptyPaths, defined: emptyPaths} }

func unreachableEnv() env {
	e := newEnv()
	e.unreachable = true
	return e
}

func (e env) lookup(path string) (types.Type, bool) {
	t, ok := e.narrowed.Get(path)
	if !ok {
		return nil, false
	}
	return t.(types.Type), true
}

// narrow sets the narrowed type of a path. Narrowing a path to Never makes the environment
// unreachable.
func (e env) narrow(path string, t types.Type) env {
	e.narrowed = e.narrowed.Set(path, t)
	if types.IsNever(t) {
		e.unreachable = true
	}
	return e
}

// invalidate removes a path and every path extending it.
func (e env) invalidate(path string) env {
	prefix := path + "."
	b := immutable.NewSortedMapBuilder(e.narrowed)
	iter := e.narrowed.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		if p := k.(string); p == path || strings.HasPrefix(p, prefix) {
			b.Delete(p)
		}
	}
	e.narrowed = b.Map()
	return e
}

// invalidateMembers removes every attribute path, which a call may have reassigned.
func (e env) invalidateMembers() env {
	b := immutable.NewSortedMapBuilder(e.narrowed)
	iter := e.narrowed.Iterator()
	for !iter.Done() {
		k, _ := iter.Next()
		if p := k.(string); strings.Contains(p, ".") {
			b.Delete(p)
		}
	}
	e.narrowed = b.Map()
	return e
}

func (e env) define(name string) env {
	e.defined = e.defined.Set(name, true)
	return e
}

func (e env) isDefined(name string) bool {
	_, ok := e.defined.Get(name)
	return ok
}

// joinEnvs merges the environments flowing into a confluence point. Paths narrowed in every
// reachable environment are joined; paths missing from any of them revert to their declared types.
// Unreachable environments do not contribute.
func joinEnvs(ctx *typeutil.Context, envs ...env) env {
	var live []env
	for _, e := range envs {
		if !e.unreachable {
			live = append(live, e)
		}
	}
	switch len(live) {
	case 0:
		return unreachableEnv()
	case 1:
		return live[0]
	}
	out := newEnv()
	nb := immutable.NewSortedMapBuilder(emptyPaths)
	iter := live[0].narrowed.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		t := v.(types.Type)
		ok := true
		for _, other := range live[1:] {
			ot, found := other.lookup(k.(string))
			if !found {
				ok = false
				break
			}
			t = ctx.Join(t, ot)
		}
		if ok {
			nb.Set(k, t)
		}
	}
	out.narrowed = nb.Map()

	db := immutable.NewSortedMapBuilder(emptyPaths)
	diter := live[0].defined.Iterator()
	for !diter.Done() {
		k, _ := diter.Next()
		ok := true
		for _, other := range live[1:] {
			if !other.isDefined(k.(string)) {
				ok = false
				break
			}
		}
		if ok {
			db.Set(k, true)
		}
	}
	out.defined = db.Map()
	return out
}

// sameEnv returns true if a and b narrow the same paths to the same types.
func sameEnv(a, b env) bool {
	if a.unreachable != b.unreachable || a.narrowed.Len() != b.narrowed.Len() || a.defined.Len() != b.defined.Len() {
		return false
	}
	iter := a.narrowed.Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		t, ok := b.lookup(k.(string))
		if !ok || !types.IsSameType(v.(types.Type), t) {
			return false
		}
	}
	diter := a.defined.Iterator()
	for !diter.Done() {
		k, _ := diter.Next()
		if !b.isDefined(k.(string)) {
			return false
		}
	}
	return true
}
