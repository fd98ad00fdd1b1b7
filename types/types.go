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

import (
	"fmt"
)

// ID is an identity token for an entity in the symbol arena (a class, function, variable,
// type variable declaration, alias, or module). Tokens are allocated once and never reused.
// The zero ID refers to no entity.
type ID uint64

// Type is the closed set of type terms:
//
//	*Instance, *TypeVar, *Union, *Literal, *Callable, *Overload,
//	*TypedMapping, *ModuleType, *AnyType, *NeverType, *NoneType, *AliasType
type Type interface {
	// TypeName returns the name of the variant, e.g. "Instance".
	TypeName() string
	// IsGeneric returns true if the type contains free type variables.
	IsGeneric() bool

	isType()
}

var (
	_ Type = (*Instance)(nil)
	_ Type = (*TypeVar)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Literal)(nil)
	_ Type = (*Callable)(nil)
	_ Type = (*Overload)(nil)
	_ Type = (*TypedMapping)(nil)
	_ Type = (*ModuleType)(nil)
	_ Type = (*AnyType)(nil)
	_ Type = (*NeverType)(nil)
	_ Type = (*NoneType)(nil)
	_ Type = (*AliasType)(nil)
)

// Instance is an instance of a nominal class, with type arguments for the class's type variables.
type Instance struct {
	// Class is the identity of the class.
	Class ID
	// Name is the fully-qualified name of the class, used for printing.
	Name string
	Args []Type
}

// NewInstance creates an instance of a class declaring arity type variables.
// An *ArgCountError is returned if the number of arguments does not match the arity.
func NewInstance(class ID, name string, arity int, args ...Type) (*Instance, error) {
	if len(args) != arity {
		return nil, &ArgCountError{Class: name, Expected: arity, Got: len(args)}
	}
	return &Instance{Class: class, Name: name, Args: args}, nil
}

// ArgCountError is returned when a generic class is applied to the wrong number of type arguments.
type ArgCountError struct {
	Class    string
	Expected int
	Got      int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("%q expects %d type argument(s), but %d given", e.Class, e.Expected, e.Got)
}

// AnyReason records where an Any type came from.
type AnyReason uint8

const (
	// Explicit Any annotation.
	AnyExplicit AnyReason = iota
	// Missing annotation.
	AnyUnannotated
	// Substituted after an error was reported.
	AnyFromError
	// Produced by a special form or an unresolved reference.
	AnyImplicit
)

// AnyType is the dynamic type. It is compatible with every type in both directions.
type AnyType struct{ Reason AnyReason }

// NeverType is the bottom type. It has no values; a narrowed branch of this type is unreachable.
type NeverType struct{}

// NoneType is the type of the None value.
type NoneType struct{}

var (
	// Any is the explicit dynamic type.
	Any = &AnyType{Reason: AnyExplicit}
	// Never is the bottom type.
	Never = &NeverType{}
	// None is the type of the None value.
	None = &NoneType{}
)

// AnyFrom returns an Any type with the given reason.
func AnyFrom(reason AnyReason) *AnyType { return &AnyType{Reason: reason} }

// Union is a normalized union of two or more types. Create unions with NewUnion.
type Union struct {
	Items []Type
}

// LiteralKind is the primitive kind of a literal value.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralStr
	LiteralBool
)

// LiteralValue is a comparable primitive value.
type LiteralValue struct {
	Kind LiteralKind
	Int  int64
	Str  string
	Bool bool
}

func (v LiteralValue) String() string {
	switch v.Kind {
	case LiteralInt:
		return fmt.Sprint(v.Int)
	case LiteralStr:
		return fmt.Sprintf("%q", v.Str)
	default:
		if v.Bool {
			return "True"
		}
		return "False"
	}
}

// Literal is the type of exactly one primitive value. The base is the class of the value.
type Literal struct {
	Base  *Instance
	Value LiteralValue
}

// ArgKind is the kind of a formal parameter of a callable.
type ArgKind uint8

const (
	// Required positional parameter.
	ArgPos ArgKind = iota
	// Optional positional parameter (with a default).
	ArgOpt
	// Variadic positional parameter (*args).
	ArgStar
	// Required keyword-only parameter.
	ArgNamed
	// Optional keyword-only parameter.
	ArgNamedOpt
	// Variadic keyword parameter (**kwargs).
	ArgStar2
)

// IsPositional returns true for parameters which may be passed by position.
func (k ArgKind) IsPositional() bool { return k == ArgPos || k == ArgOpt }

// IsOptional returns true for parameters which need not be passed.
func (k ArgKind) IsOptional() bool { return k != ArgPos && k != ArgNamed }

// IsStar returns true for variadic parameters.
func (k ArgKind) IsStar() bool { return k == ArgStar || k == ArgStar2 }

// Callable is the type of a function, method, or class constructor.
type Callable struct {
	Args  []Type
	Kinds []ArgKind
	// Names contains the name of each parameter, or "" for positional-only parameters.
	Names  []string
	Return Type
	// Vars are the type variables bound by this callable.
	Vars []*TypeVar
	// IsOverloadMember is set for items of an overloaded function.
	IsOverloadMember bool
	// Name is the name of the function, used in messages.
	Name string
	// TypeObject is the identity of the constructed class when the callable is a class object.
	TypeObject ID
}

// ArgIndex returns the index of the parameter with the given name, or -1.
func (t *Callable) ArgIndex(name string) int {
	for i, n := range t.Names {
		if n == name && t.Kinds[i] != ArgStar && t.Kinds[i] != ArgStar2 {
			return i
		}
	}
	return -1
}

// StarIndex returns the index of the parameter with the given star kind, or -1.
func (t *Callable) StarIndex(kind ArgKind) int {
	for i, k := range t.Kinds {
		if k == kind {
			return i
		}
	}
	return -1
}

// MinArgs returns the number of required positional parameters.
func (t *Callable) MinArgs() int {
	n := 0
	for _, k := range t.Kinds {
		if k == ArgPos {
			n++
		}
	}
	return n
}

// WithoutFirst returns a copy of t with the first parameter removed (binding self).
func (t *Callable) WithoutFirst() *Callable {
	if len(t.Args) == 0 {
		return t
	}
	c := *t
	c.Args, c.Kinds, c.Names = t.Args[1:], t.Kinds[1:], t.Names[1:]
	return &c
}

// Overload is an ordered list of callable items. Earlier items take priority during resolution.
type Overload struct {
	Items []*Callable
}

// TypedMapping is a structural mapping type with a fixed set of string keys.
type TypedMapping struct {
	Name   string
	Fields TypeMap
}

// ModuleType is the type of a module object.
type ModuleType struct {
	Module ID
	Name   string
}

// AliasType is a reference to a (possibly recursive) type alias, expanded lazily.
type AliasType struct {
	Ref  ID
	Name string
}

func (*Instance) TypeName() string     { return "Instance" }
func (*TypeVar) TypeName() string      { return "TypeVar" }
func (*Union) TypeName() string        { return "Union" }
func (*Literal) TypeName() string      { return "Literal" }
func (*Callable) TypeName() string     { return "Callable" }
func (*Overload) TypeName() string     { return "Overload" }
func (*TypedMapping) TypeName() string { return "TypedMapping" }
func (*ModuleType) TypeName() string   { return "Module" }
func (*AnyType) TypeName() string      { return "Any" }
func (*NeverType) TypeName() string    { return "Never" }
func (*NoneType) TypeName() string     { return "None" }
func (*AliasType) TypeName() string    { return "Alias" }

func (t *Instance) IsGeneric() bool     { return IsGeneric(t) }
func (t *TypeVar) IsGeneric() bool      { return true }
func (t *Union) IsGeneric() bool        { return IsGeneric(t) }
func (t *Literal) IsGeneric() bool      { return false }
func (t *Callable) IsGeneric() bool     { return IsGeneric(t) }
func (t *Overload) IsGeneric() bool     { return IsGeneric(t) }
func (t *TypedMapping) IsGeneric() bool { return IsGeneric(t) }
func (*ModuleType) IsGeneric() bool     { return false }
func (*AnyType) IsGeneric() bool        { return false }
func (*NeverType) IsGeneric() bool      { return false }
func (*NoneType) IsGeneric() bool       { return false }
func (*AliasType) IsGeneric() bool      { return false }

func (*Instance) isType()     {}
func (*TypeVar) isType()      {}
func (*Union) isType()        {}
func (*Literal) isType()      {}
func (*Callable) isType()     {}
func (*Overload) isType()     {}
func (*TypedMapping) isType() {}
func (*ModuleType) isType()   {}
func (*AnyType) isType()      {}
func (*NeverType) isType()    {}
func (*NoneType) isType()     {}
func (*AliasType) isType()    {}

// IsAny returns true if t is the dynamic type.
func IsAny(t Type) bool {
	_, ok := t.(*AnyType)
	return ok
}

// IsNever returns true if t is the bottom type.
func IsNever(t Type) bool {
	_, ok := t.(*NeverType)
	return ok
}

// IsGeneric returns true if t contains any type variable not bound by an enclosing callable.
func IsGeneric(t Type) bool { return len(FreeVars(t)) > 0 }

// FreeVars returns the type variables in t which are not bound by an enclosing callable, in order
// of first occurrence.
func FreeVars(t Type) []*TypeVar {
	var free []*TypeVar
	var bound []*TypeVar
	var visit func(t Type)
	visit = func(t Type) {
		switch t := t.(type) {
		case *TypeVar:
			for _, b := range bound {
				if b.Id == t.Id && b.Fullname == t.Fullname {
					return
				}
			}
			for _, f := range free {
				if IsSameType(f, t) {
					return
				}
			}
			free = append(free, t)
		case *Instance:
			for _, a := range t.Args {
				visit(a)
			}
		case *Union:
			for _, a := range t.Items {
				visit(a)
			}
		case *Callable:
			n := len(bound)
			bound = append(bound, t.Vars...)
			for _, a := range t.Args {
				visit(a)
			}
			visit(t.Return)
			bound = bound[:n]
		case *Overload:
			for _, item := range t.Items {
				visit(item)
			}
		case *TypedMapping:
			t.Fields.Range(func(_ string, ft Type) bool {
				visit(ft)
				return true
			})
		}
	}
	visit(t)
	return free
}
