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

// IsSameType returns true if a and b are structurally identical. Instances are compared by class
// identity and arguments; unions are compared as sets; callables are compared including their
// parameter kinds, names, and bound variables.
func IsSameType(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch a := a.(type) {
	case *Instance:
		b, ok := b.(*Instance)
		return ok && a.Class == b.Class && sameTypes(a.Args, b.Args)
	case *TypeVar:
		b, ok := b.(*TypeVar)
		return ok && a.Id == b.Id && a.Fullname == b.Fullname && a.SameRestrictions(b)
	case *Union:
		b, ok := b.(*Union)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for _, x := range a.Items {
			found := false
			for _, y := range b.Items {
				if IsSameType(x, y) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Value == b.Value && IsSameType(a.Base, b.Base)
	case *Callable:
		b, ok := b.(*Callable)
		return ok && sameCallables(a, b)
	case *Overload:
		b, ok := b.(*Overload)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !sameCallables(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *TypedMapping:
		b, ok := b.(*TypedMapping)
		if !ok || a.Fields.Len() != b.Fields.Len() {
			return false
		}
		same := true
		a.Fields.Range(func(name string, t Type) bool {
			bt, ok := b.Fields.Get(name)
			same = ok && IsSameType(t, bt)
			return same
		})
		return same
	case *ModuleType:
		b, ok := b.(*ModuleType)
		return ok && a.Module == b.Module
	case *AnyType:
		_, ok := b.(*AnyType)
		return ok
	case *NeverType:
		_, ok := b.(*NeverType)
		return ok
	case *NoneType:
		_, ok := b.(*NoneType)
		return ok
	case *AliasType:
		b, ok := b.(*AliasType)
		return ok && a.Ref == b.Ref
	}
	return false
}

func sameTypes(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsSameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameCallables(a, b *Callable) bool {
	if len(a.Args) != len(b.Args) || len(a.Vars) != len(b.Vars) || a.TypeObject != b.TypeObject {
		return false
	}
	for i := range a.Kinds {
		if a.Kinds[i] != b.Kinds[i] || a.Names[i] != b.Names[i] {
			return false
		}
	}
	for i := range a.Vars {
		if !IsSameType(a.Vars[i], b.Vars[i]) {
			return false
		}
	}
	return sameTypes(a.Args, b.Args) && IsSameType(a.Return, b.Return)
}
