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

// VarKind is the kind of restriction placed on a type variable.
type VarKind uint8

const (
	// Unrestricted type variables may be instantiated with any type.
	Unrestricted VarKind = iota
	// Bounded type variables may be instantiated with subtypes of the bound.
	Bounded
	// ValueRestricted type variables must be instantiated with exactly one of the declared values.
	ValueRestricted
)

func (k VarKind) String() string {
	switch k {
	case Bounded:
		return "bound"
	case ValueRestricted:
		return "values"
	default:
		return "unrestricted"
	}
}

// Variance of a class type parameter.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeVar is a type variable.
//
// Ids are unique within the binding scope: variables bound by a class have positive ids
// (1, 2, ...) and variables bound by a function have negative ids (-1, -2, ...).
// Two occurrences with the same id but different restrictions are distinct variables.
type TypeVar struct {
	Name string
	// Fullname is the qualified name of the declaring TypeVar expression.
	Fullname string
	Id       int
	Kind     VarKind
	// Bound is set for Bounded variables.
	Bound Type
	// Values are set for ValueRestricted variables, in declaration order.
	Values   []Type
	Variance Variance
}

// NewTypeVar creates an unrestricted type variable.
func NewTypeVar(name string, id int) *TypeVar {
	return &TypeVar{Name: name, Fullname: name, Id: id}
}

// NewBoundedVar creates a type variable with an upper bound.
func NewBoundedVar(name string, id int, bound Type) *TypeVar {
	return &TypeVar{Name: name, Fullname: name, Id: id, Kind: Bounded, Bound: bound}
}

// NewValueRestrictedVar creates a type variable restricted to a set of values.
func NewValueRestrictedVar(name string, id int, values ...Type) *TypeVar {
	return &TypeVar{Name: name, Fullname: name, Id: id, Kind: ValueRestricted, Values: values}
}

// WithId returns a copy of the type variable bound with a new id.
func (tv *TypeVar) WithId(id int) *TypeVar {
	c := *tv
	c.Id = id
	return &c
}

// SameRestrictions returns true if tv and other declare equivalent restrictions.
func (tv *TypeVar) SameRestrictions(other *TypeVar) bool {
	if tv.Kind != other.Kind {
		return false
	}
	switch tv.Kind {
	case Bounded:
		return IsSameType(tv.Bound, other.Bound)
	case ValueRestricted:
		if len(tv.Values) != len(other.Values) {
			return false
		}
		for i := range tv.Values {
			if !IsSameType(tv.Values[i], other.Values[i]) {
				return false
			}
		}
	}
	return true
}
