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
	"github.com/wdamron/gradual/ast"
	. "github.com/wdamron/gradual/construct"
)

// BuiltinsModule is the name of the module which declares the builtin classes and functions. Names
// which are not declared in a module resolve to builtins.
const BuiltinsModule = "builtins"

// Special forms are recognized by name wherever they are not shadowed by a declaration.
var specialForms = map[string]bool{
	"Any":       true,
	"Callable":  true,
	"Generic":   true,
	"Literal":   true,
	"Never":     true,
	"NoReturn":  true,
	"Optional":  true,
	"TypeVar":   true,
	"TypedDict": true,
	"Union":     true,
	"dataclass": true,
	"overload":  true,
}

func binaryMethod(name string, other, ret ast.Expr) *ast.FuncDef {
	return Def(name, Params(Param("self", nil), Param("other", other)), ret, Pass())
}

// Builtins returns a fresh copy of the builtins module.
func Builtins() *ast.Module {
	int_, float_, str_, bool_, object := Name("int"), Name("float"), Name("str"), Name("bool"), Name("object")
	return Module(BuiltinsModule,
		Class("object", nil,
			Def("__init__", Params(Param("self", nil)), None(), Pass()),
			Def("__eq__", Params(Param("self", nil), Param("other", object)), bool_, Pass()),
		),
		Class("type", nil),
		Class("function", nil),

		TypeVarDecl("T"),
		TypeVarDecl("K"),
		TypeVarDecl("V"),
		Assign(Name("T_co"), CallArgs(Name("TypeVar"), Pos(Str("T_co")), Kw("covariant", Bool(true)))),

		Class("int", nil,
			binaryMethod("__add__", int_, int_),
			binaryMethod("__sub__", int_, int_),
			binaryMethod("__mul__", int_, int_),
			binaryMethod("__floordiv__", int_, int_),
			binaryMethod("__mod__", int_, int_),
			binaryMethod("__truediv__", int_, float_),
			binaryMethod("__lt__", int_, bool_),
			binaryMethod("__gt__", int_, bool_),
			Def("__neg__", Params(Param("self", nil)), int_, Pass()),
		),
		Class("bool", Bases(int_)),
		Class("float", nil,
			binaryMethod("__add__", float_, float_),
			binaryMethod("__sub__", float_, float_),
			binaryMethod("__mul__", float_, float_),
			binaryMethod("__truediv__", float_, float_),
			binaryMethod("__lt__", float_, bool_),
			binaryMethod("__gt__", float_, bool_),
			Def("__neg__", Params(Param("self", nil)), float_, Pass()),
		),
		Class("str", nil,
			binaryMethod("__add__", str_, str_),
			binaryMethod("__mul__", int_, str_),
			binaryMethod("__lt__", str_, bool_),
			binaryMethod("__contains__", str_, bool_),
			Def("__len__", Params(Param("self", nil)), int_, Pass()),
			Def("upper", Params(Param("self", nil)), str_, Pass()),
			Def("lower", Params(Param("self", nil)), str_, Pass()),
			Def("startswith", Params(Param("self", nil), Param("prefix", str_)), bool_, Pass()),
		),
		Class("bytes", nil,
			Def("__len__", Params(Param("self", nil)), int_, Pass()),
		),

		Class("list", Bases(Sub(Name("Generic"), Name("T"))),
			Def("append", Params(Param("self", nil), Param("x", Name("T"))), None(), Pass()),
			Def("pop", Params(Param("self", nil)), Name("T"), Pass()),
			Def("__getitem__", Params(Param("self", nil), Param("i", int_)), Name("T"), Pass()),
			Def("__setitem__", Params(Param("self", nil), Param("i", int_), Param("x", Name("T"))), None(), Pass()),
			Def("__len__", Params(Param("self", nil)), int_, Pass()),
			binaryMethod("__add__", Sub(Name("list"), Name("T")), Sub(Name("list"), Name("T"))),
		),
		Class("dict", Bases(Sub(Name("Generic"), Name("K"), Name("V"))),
			Def("__getitem__", Params(Param("self", nil), Param("k", Name("K"))), Name("V"), Pass()),
			Def("__setitem__", Params(Param("self", nil), Param("k", Name("K")), Param("v", Name("V"))), None(), Pass()),
			Def("__len__", Params(Param("self", nil)), int_, Pass()),
			Def("get", Params(Param("self", nil), Param("k", Name("K"))), Or(Name("V"), None()), Pass()),
			Def("keys", Params(Param("self", nil)), Sub(Name("list"), Name("K")), Pass()),
		),
		Class("tuple", Bases(Sub(Name("Generic"), Name("T_co"))),
			Def("__getitem__", Params(Param("self", nil), Param("i", int_)), Name("T_co"), Pass()),
			Def("__len__", Params(Param("self", nil)), int_, Pass()),
		),

		Def("isinstance", Params(Param("x", object), Param("t", object)), bool_, Pass()),
		Def("len", Params(Param("x", object)), int_, Pass()),
		Def("print", Params(StarParam("args", object)), None(), Pass()),
		Def("repr", Params(Param("x", object)), str_, Pass()),
		Def("reveal_type", Params(Param("x", object)), object, Pass()),
	)
}
