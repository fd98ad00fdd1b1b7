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

// Substitute replaces the free type variables of t according to the mapping from variable id.
// Variables bound by a callable within t shadow the mapping for the callable's parameters and
// return type, so substitution never captures a bound variable.
func Substitute(t Type, mapping map[int]Type) Type {
	if len(mapping) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeVar:
		if s, ok := mapping[t.Id]; ok {
			return s
		}
		return t
	case *Instance:
		if len(t.Args) == 0 {
			return t
		}
		return &Instance{Class: t.Class, Name: t.Name, Args: substituteAll(t.Args, mapping)}
	case *Union:
		return NewUnion(substituteAll(t.Items, mapping)...)
	case *Callable:
		return substituteCallable(t, mapping)
	case *Overload:
		items := make([]*Callable, len(t.Items))
		for i, item := range t.Items {
			items[i] = substituteCallable(item, mapping)
		}
		return &Overload{Items: items}
	case *TypedMapping:
		b := t.Fields.Builder()
		t.Fields.Range(func(name string, ft Type) bool {
			b.Set(name, Substitute(ft, mapping))
			return true
		})
		return &TypedMapping{Name: t.Name, Fields: b.Build()}
	}
	return t
}

func substituteAll(ts []Type, mapping map[int]Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Substitute(t, mapping)
	}
	return out
}

func substituteCallable(t *Callable, mapping map[int]Type) *Callable {
	inner := mapping
	if len(t.Vars) > 0 {
		inner = make(map[int]Type, len(mapping))
		for id, s := range mapping {
			inner[id] = s
		}
		for _, v := range t.Vars {
			delete(inner, v.Id)
		}
	}
	c := *t
	c.Args = substituteAll(t.Args, inner)
	c.Return = Substitute(t.Return, inner)
	return &c
}

// VarMapping creates a substitution mapping from variables to the corresponding arguments.
func VarMapping(vars []*TypeVar, args []Type) map[int]Type {
	m := make(map[int]Type, len(vars))
	for i, v := range vars {
		if i < len(args) {
			m[v.Id] = args[i]
		}
	}
	return m
}

// RemapIDs returns a copy of t with every identity token replaced by remap(token).
func RemapIDs(t Type, remap func(ID) ID) Type {
	switch t := t.(type) {
	case *Instance:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = RemapIDs(a, remap)
		}
		return &Instance{Class: remap(t.Class), Name: t.Name, Args: args}
	case *Literal:
		return &Literal{Base: RemapIDs(t.Base, remap).(*Instance), Value: t.Value}
	case *TypeVar:
		c := *t
		if t.Bound != nil {
			c.Bound = RemapIDs(t.Bound, remap)
		}
		if len(t.Values) > 0 {
			c.Values = make([]Type, len(t.Values))
			for i, v := range t.Values {
				c.Values[i] = RemapIDs(v, remap)
			}
		}
		return &c
	case *Union:
		items := make([]Type, len(t.Items))
		for i, item := range t.Items {
			items[i] = RemapIDs(item, remap)
		}
		return &Union{Items: items}
	case *Callable:
		return remapCallable(t, remap)
	case *Overload:
		items := make([]*Callable, len(t.Items))
		for i, item := range t.Items {
			items[i] = remapCallable(item, remap)
		}
		return &Overload{Items: items}
	case *TypedMapping:
		b := t.Fields.Builder()
		t.Fields.Range(func(name string, ft Type) bool {
			b.Set(name, RemapIDs(ft, remap))
			return true
		})
		return &TypedMapping{Name: t.Name, Fields: b.Build()}
	case *ModuleType:
		return &ModuleType{Module: remap(t.Module), Name: t.Name}
	case *AliasType:
		return &AliasType{Ref: remap(t.Ref), Name: t.Name}
	}
	return t
}

func remapCallable(t *Callable, remap func(ID) ID) *Callable {
	c := *t
	c.Args = make([]Type, len(t.Args))
	for i, a := range t.Args {
		c.Args[i] = RemapIDs(a, remap)
	}
	c.Return = RemapIDs(t.Return, remap)
	if len(t.Vars) > 0 {
		c.Vars = make([]*TypeVar, len(t.Vars))
		for i, v := range t.Vars {
			c.Vars[i] = RemapIDs(v, remap).(*TypeVar)
		}
	}
	if t.TypeObject != 0 {
		c.TypeObject = remap(t.TypeObject)
	}
	return &c
}
