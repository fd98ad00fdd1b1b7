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

// gradual provides flow-sensitive static type checking for a gradually-typed language with nominal
// classes, generics, and unions.
//
// Modules are given as syntax trees (see package ast and the construct helpers). A Session checks
// modules in dependency order against a shared symbol store, and rechecks changed modules
// incrementally: symbols which are unchanged in a new version keep their identity.
//
//
// Supported Features:
//
//   * Nominal classes with multiple inheritance (C3 linearization), metaclasses, and dataclass-style records
//   * Generic classes and functions with unrestricted, bounded, and value-restricted type variables
//   * Bidirectional inference of generic calls, list/dict displays, and typed mappings
//   * Overloaded functions, resolved in declaration order
//   * Unions, literal types, recursive type aliases, and the dynamic type Any
//   * Narrowing by isinstance, type(x) is C, is None, and truthiness, with unreachable code detection
//   * Generic function bodies checked once per value of each value-restricted type variable
//   * Always-defined instance attribute analysis of __init__
//
//
// Links:
//
// PEP 484 (Type Hints): https://peps.python.org/pep-0484/
//
// C3 linearization: https://en.wikipedia.org/wiki/C3_linearization
//
// Gradual typing: https://en.wikipedia.org/wiki/Gradual_typing
package gradual
