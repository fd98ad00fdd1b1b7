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

// Alias is a named type alias. The target of an alias is resolved lazily on first dereference and
// memoized, so an alias may refer to itself (directly or through other aliases) by way of AliasType
// references.
type Alias struct {
	ID       ID
	Name     string
	Fullname string

	resolve   func() Type
	target    Type
	resolving bool
}

// NewAlias creates an alias whose target is computed by resolve on first use.
func NewAlias(id ID, name, fullname string, resolve func() Type) *Alias {
	return &Alias{ID: id, Name: name, Fullname: fullname, resolve: resolve}
}

// NewResolvedAlias creates an alias with a known target.
func NewResolvedAlias(id ID, name, fullname string, target Type) *Alias {
	return &Alias{ID: id, Name: name, Fullname: fullname, target: target}
}

// Target returns the aliased type, resolving it if necessary. While the alias is being resolved,
// Target returns a self-reference, so recursive definitions terminate.
func (a *Alias) Target() Type {
	if a.target != nil {
		return a.target
	}
	if a.resolving || a.resolve == nil {
		return &AliasType{Ref: a.ID, Name: a.Fullname}
	}
	a.resolving = true
	t := a.resolve()
	a.resolving = false
	if t == nil {
		t = AnyFrom(AnyImplicit)
	}
	a.target, a.resolve = t, nil
	return t
}

// Resolved returns true if the target has been computed.
func (a *Alias) Resolved() bool { return a.target != nil }

// SetTarget replaces the memoized target.
func (a *Alias) SetTarget(t Type) { a.target, a.resolve = t, nil }

// Ref returns a lazy reference to the alias.
func (a *Alias) Ref() *AliasType { return &AliasType{Ref: a.ID, Name: a.Fullname} }
