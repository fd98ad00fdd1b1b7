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
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} { return &typePrinter{} },
}

func newTypePrinter(qualified bool) *typePrinter {
	p := printerPool.Get().(*typePrinter)
	p.qualified = qualified
	return p
}

func (p *typePrinter) Release() {
	p.sb.Reset()
	printerPool.Put(p)
}

type typePrinter struct {
	sb        strings.Builder
	qualified bool
}

// TypeString returns a string representation of a Type, with fully-qualified class names.
func TypeString(t Type) string {
	p := newTypePrinter(true)
	typeString(p, t)
	s := p.sb.String()
	p.Release()
	return s
}

// ShortString returns a string representation of a Type, with unqualified class names.
func ShortString(t Type) string {
	p := newTypePrinter(false)
	typeString(p, t)
	s := p.sb.String()
	p.Release()
	return s
}

func (p *typePrinter) name(fullname string) {
	if !p.qualified {
		if i := strings.LastIndexByte(fullname, '.'); i >= 0 {
			fullname = fullname[i+1:]
		}
	}
	p.sb.WriteString(fullname)
}

func typeString(p *typePrinter, t Type) {
	switch t := t.(type) {
	case nil:
		p.sb.WriteString("<nil>")

	case *Instance:
		p.name(t.Name)
		if len(t.Args) == 0 {
			return
		}
		p.sb.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, a)
		}
		p.sb.WriteByte(']')

	case *TypeVar:
		p.sb.WriteString(t.Name)

	case *Union:
		for i, item := range t.Items {
			if i > 0 {
				p.sb.WriteString(" | ")
			}
			if _, ok := item.(*Callable); ok {
				p.sb.WriteByte('(')
				typeString(p, item)
				p.sb.WriteByte(')')
				continue
			}
			typeString(p, item)
		}

	case *Literal:
		p.sb.WriteString("Literal[")
		p.sb.WriteString(t.Value.String())
		p.sb.WriteByte(']')

	case *Callable:
		p.sb.WriteString("def ")
		if len(t.Vars) > 0 {
			p.sb.WriteByte('[')
			for i, v := range t.Vars {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				p.sb.WriteString(v.Name)
			}
			p.sb.WriteString("] ")
		}
		p.sb.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			switch t.Kinds[i] {
			case ArgStar:
				p.sb.WriteByte('*')
			case ArgStar2:
				p.sb.WriteString("**")
			}
			if t.Names[i] != "" {
				p.sb.WriteString(t.Names[i])
				p.sb.WriteString(": ")
			}
			typeString(p, a)
			if t.Kinds[i] == ArgOpt || t.Kinds[i] == ArgNamedOpt {
				p.sb.WriteString(" =")
			}
		}
		p.sb.WriteString(") -> ")
		typeString(p, t.Return)

	case *Overload:
		p.sb.WriteString("Overload(")
		for i, item := range t.Items {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, item)
		}
		p.sb.WriteByte(')')

	case *TypedMapping:
		if t.Name != "" {
			p.name(t.Name)
		} else {
			p.sb.WriteString("TypedMapping")
		}
		p.sb.WriteString("({")
		i := 0
		t.Fields.Range(func(label string, ft Type) bool {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			i++
			p.sb.WriteByte('\'')
			p.sb.WriteString(label)
			p.sb.WriteString("': ")
			typeString(p, ft)
			return true
		})
		p.sb.WriteString("})")

	case *ModuleType:
		p.sb.WriteString("Module(")
		p.sb.WriteString(t.Name)
		p.sb.WriteByte(')')

	case *AnyType:
		p.sb.WriteString("Any")

	case *NeverType:
		p.sb.WriteString("Never")

	case *NoneType:
		p.sb.WriteString("None")

	case *AliasType:
		p.name(t.Name)
	}
}
