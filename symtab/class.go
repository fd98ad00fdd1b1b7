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

// Field is a synthesized record field of a dataclass-style class, in declaration order.
type Field struct {
	Name       string
	Type       types.Type
	HasDefault bool
}

// ClassInfo describes a nominal class.
type ClassInfo struct {
	ID       types.ID
	Name     string
	Fullname string
	Module   string
	// TypeVars are the class's type parameters, with positive ids in declaration order.
	TypeVars []*types.TypeVar
	// Bases are the declared base classes, in declaration order.
	Bases []*types.Instance
	// MRO is the method resolution order, most-derived first (starting with the class itself).
	MRO []types.ID
	// Members contains methods, class attributes, and instance attributes.
	Members   *Scope
	Metaclass *types.Instance
	// Fields are synthesized for record-style (dataclass) classes.
	Fields   []Field
	IsRecord bool
	// AlwaysDefined contains the instance attributes which are initialized on every path through
	// __init__. It is nil until the analysis has run.
	AlwaysDefined *set.Set[string]
	// InitLeaksSelf is set if __init__ passes self elsewhere before all attributes are initialized.
	InitLeaksSelf bool
	// Subclasses declared in the same module, in declaration order.
	Subclasses []types.ID
}

// NewClassInfo creates a class with an empty member scope.
func NewClassInfo(id types.ID, name, fullname, module string) *ClassInfo {
	return &ClassInfo{ID: id, Name: name, Fullname: fullname, Module: module, Members: NewScope(id, fullname)}
}

// Arity returns the number of type parameters declared by the class.
func (c *ClassInfo) Arity() int { return len(c.TypeVars) }

// SelfType returns the instance type of the class applied to its own type parameters.
func (c *ClassInfo) SelfType() *types.Instance {
	args := make([]types.Type, len(c.TypeVars))
	for i, tv := range c.TypeVars {
		args[i] = tv
	}
	return &types.Instance{Class: c.ID, Name: c.Fullname, Args: args}
}

// ErasedType returns the instance type of the class applied to Any for each type parameter.
func (c *ClassInfo) ErasedType() *types.Instance {
	args := make([]types.Type, len(c.TypeVars))
	for i := range c.TypeVars {
		args[i] = types.AnyFrom(types.AnyImplicit)
	}
	return &types.Instance{Class: c.ID, Name: c.Fullname, Args: args}
}

// HasBase returns true if id is the class itself or appears in its MRO.
func (c *ClassInfo) HasBase(id types.ID) bool {
	for _, base := range c.MRO {
		if base == id {
			return true
		}
	}
	return c.ID == id
}

// MROIndex returns the position of id in the MRO, or -1.
func (c *ClassInfo) MROIndex(id types.ID) int {
	for i, base := range c.MRO {
		if base == id {
			return i
		}
	}
	return -1
}

// Field returns the synthesized field with the given name.
func (c *ClassInfo) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Variance returns the variance of the i-th type parameter.
func (c *ClassInfo) Variance(i int) types.Variance {
	if i < len(c.TypeVars) {
		return c.TypeVars[i].Variance
	}
	return types.Invariant
}
