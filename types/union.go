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

package types

// NewUnion creates a normalized union of items. Nested unions are flattened, duplicate members
// (by IsSameType) are removed, and Never members are dropped. An empty union is Never, and a
// union with a single member is that member.
func NewUnion(items ...Type) Type {
	flat := make([]Type, 0, len(items))
	var add func(t Type)
	add = func(t Type) {
		switch t := t.(type) {
		case nil:
		case *NeverType:
		case *Union:
			for _, item := range t.Items {
				add(item)
			}
		default:
			for _, existing := range flat {
				if IsSameType(existing, t) {
					return
				}
			}
			flat = append(flat, t)
		}
	}
	for _, t := range items {
		add(t)
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	}
	return &Union{Items: flat}
}

// UnionItems returns the members of t if t is a union, or t itself.
func UnionItems(t Type) []Type {
	if u, ok := t.(*Union); ok {
		return u.Items
	}
	if IsNever(t) {
		return nil
	}
	return []Type{t}
}

// RemoveFromUnion returns the union of the members of t for which keep returns true.
func RemoveFromUnion(t Type, keep func(Type) bool) Type {
	items := UnionItems(t)
	kept := make([]Type, 0, len(items))
	for _, item := range items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	return NewUnion(kept...)
}
