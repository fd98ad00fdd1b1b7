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
	"github.com/wdamron/gradual/symtab"
	"github.com/wdamron/gradual/types"
)

// semanal declares the module's symbols and resolves their declared types:
//
//  1. imports, functions, classes, variables, type variables, and aliases are declared in lexical
//     order, allocating fresh identities;
//  2. type variable declarations are resolved;
//  3. class bases, type parameters, and method resolution orders are resolved;
//  4. function signatures, overload chains, annotated variables, and record fields are resolved.
func (c *checker) semanal() {
	c.declareStmts(c.mod.Body)
	for _, sym := range c.typeVars {
		c.resolveTypeVar(sym)
	}
	c.resolveClasses()
	for _, sym := range c.funcs {
		c.resolveFunc(sym)
	}
	for _, sym := range c.vars {
		c.resolveVar(sym)
	}
	for _, info := range c.table.Classes {
		if info.IsRecord {
			c.synthesizeRecord(info)
		}
	}
	// Aliases are resolved eagerly, so their resolvers never outlive the checker.
	for _, sym := range c.aliases {
		sym.Alias.Target()
	}
	c.log.Debug("declared module", "module", c.mod.Name, "symbols", c.table.Len(), "classes", len(c.table.Classes))
}

func (c *checker) declare(n ast.Node, scope *symtab.Scope, sym *symtab.Symbol) *symtab.Symbol {
	sym.Pos = n.Location().Pos
	id, err := c.table.Declare(c.alloc, scope, sym)
	if err != nil {
		if redecl, ok := err.(*symtab.RedeclarationError); ok {
			c.errorf(n, RedeclarationError, "%s", redecl.Error())
		}
		return nil
	}
	if id != sym.ID {
		return c.table.Symbol(id)
	}
	return sym
}

func (c *checker) declareStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.Import:
			c.declareImport(s)
		case *ast.FuncDef:
			c.declareFunc(c.table.Globals, s, nil)
		case *ast.ClassDef:
			c.declareClass(s)
		case *ast.Assign:
			c.declareAssign(c.table.Globals, s, nil)
		case *ast.TypeAliasStmt:
			c.declareAlias(s)
		case *ast.If:
			c.declareStmts(s.Body)
			c.declareStmts(s.Else)
		case *ast.While:
			c.declareStmts(s.Body)
			c.declareStmts(s.Else)
		}
	}
}

func (c *checker) declareImport(s *ast.Import) {
	mod := c.view.Lookup(s.Module)
	if mod == nil || mod.Kind != symtab.MypyFile {
		c.errorf(s, ImportNotFound, "Cannot find module %q", s.Module)
		return
	}
	if len(s.Names) == 0 {
		name := s.AsName
		if name == "" {
			name = s.Module
		}
		c.table.Globals.Import(name, mod)
		return
	}
	for _, n := range s.Names {
		sym := c.view.Lookup(s.Module + "." + n.Name)
		if sym == nil {
			c.errorf(s, ImportNotFound, "Module %q has no attribute %q", s.Module, n.Name)
			continue
		}
		c.table.Globals.Import(n.Bound(), sym)
	}
}

func (c *checker) declareFunc(scope *symtab.Scope, def *ast.FuncDef, owner *symtab.ClassInfo) {
	sym := c.declare(def, scope, &symtab.Symbol{
		Kind:       symtab.FuncDef,
		Name:       def.Name,
		Node:       def,
		Overloaded: def.HasDecorator("overload"),
	})
	if sym == nil {
		return
	}
	if len(c.defs[sym]) == 0 {
		c.funcs = append(c.funcs, sym)
	}
	c.defs[sym] = append(c.defs[sym], def)
	c.funcSyms[def] = sym
	if owner != nil {
		c.owners[def] = owner
	}
}

func (c *checker) declareClass(def *ast.ClassDef) {
	info := symtab.NewClassInfo(0, def.Name, c.table.Globals.Fullname(def.Name), c.mod.Name)
	sym := c.declare(def, c.table.Globals, &symtab.Symbol{Kind: symtab.TypeInfo, Name: def.Name, Node: def, Info: info})
	if sym == nil {
		return
	}
	c.classDefs[info] = def
	for _, s := range def.Body {
		switch s := s.(type) {
		case *ast.FuncDef:
			c.declareFunc(info.Members, s, info)
		case *ast.Assign:
			c.declareAssign(info.Members, s, info)
		}
	}
	// Instance attributes are declared by assignments through self within methods.
	for _, s := range def.Body {
		method, ok := s.(*ast.FuncDef)
		if !ok || len(method.Params) == 0 {
			continue
		}
		self := method.Params[0].Name
		ast.WalkStmts(method.Body, func(s ast.Stmt) {
			assign, ok := s.(*ast.Assign)
			if !ok {
				return
			}
			attr, ok := assign.Target.(*ast.Attribute)
			if !ok {
				return
			}
			if base, ok := attr.X.(*ast.Name); !ok || base.Id != self {
				return
			}
			if prev := info.Members.Lookup(attr.Attr); prev != nil {
				if prev.Kind == symtab.Var && prev.Property && assign.Annotation != nil && annotation(prev) == nil {
					prev.Node = assign
				}
				return
			}
			sym := c.declare(assign, info.Members, &symtab.Symbol{Kind: symtab.Var, Name: attr.Attr, Node: assign, Property: true})
			if sym != nil {
				c.vars = append(c.vars, sym)
				c.varOwners[sym] = info
			}
		}, nil)
	}
}

// annotation returns the annotation of a variable's declaring assignment.
func annotation(sym *symtab.Symbol) ast.Expr {
	if assign, ok := sym.Node.(*ast.Assign); ok {
		return assign.Annotation
	}
	return nil
}

func isCallTo(e ast.Expr, name string) (*ast.Call, bool) {
	call, ok := e.(*ast.Call)
	if !ok {
		return nil, false
	}
	f, ok := call.Func.(*ast.Name)
	return call, ok && f.Id == name
}

func (c *checker) declareAssign(scope *symtab.Scope, s *ast.Assign, owner *symtab.ClassInfo) {
	target, ok := s.Target.(*ast.Name)
	if !ok {
		return
	}
	if owner == nil {
		if _, ok := isCallTo(s.Value, "TypeVar"); ok && c.isSpecial("TypeVar") {
			sym := c.declare(s, scope, &symtab.Symbol{Kind: symtab.TypeVarExpr, Name: target.Id, Node: s})
			if sym != nil {
				c.typeVars = append(c.typeVars, sym)
			}
			return
		}
		if call, ok := isCallTo(s.Value, "TypedDict"); ok && c.isSpecial("TypedDict") {
			sym := c.declare(s, scope, &symtab.Symbol{Kind: symtab.TypeAlias, Name: target.Id, Node: s})
			if sym != nil {
				c.typedDicts[sym] = call
				sym.Alias = types.NewAlias(sym.ID, sym.Name, sym.Fullname, func() types.Type { return c.typedDict(sym, call) })
				c.aliases = append(c.aliases, sym)
			}
			return
		}
	}
	if prev := scope.Lookup(target.Id); prev != nil && !scope.IsImported(target.Id) {
		if prev.Kind == symtab.Var && s.Annotation != nil {
			if annotation(prev) != nil {
				c.errorf(s, RedeclarationError, "Name %q already defined on line %d", target.Id, prev.Pos.Line)
			} else {
				prev.Node = s
			}
		}
		return
	}
	sym := c.declare(s, scope, &symtab.Symbol{Kind: symtab.Var, Name: target.Id, Node: s})
	if sym != nil {
		c.vars = append(c.vars, sym)
		if owner != nil {
			c.varOwners[sym] = owner
		}
	}
}

func (c *checker) declareAlias(s *ast.TypeAliasStmt) {
	sym := c.declare(s, c.table.Globals, &symtab.Symbol{Kind: symtab.TypeAlias, Name: s.Name, Node: s})
	if sym == nil {
		return
	}
	value := s.Value
	sym.Alias = types.NewAlias(sym.ID, sym.Name, sym.Fullname, func() types.Type { return c.analyzeType(value, nil) })
	c.aliases = append(c.aliases, sym)
}

func (c *checker) typedDict(sym *symtab.Symbol, call *ast.Call) types.Type {
	if len(call.Args) != 2 {
		c.errorf(call, InvalidType, "TypedDict() expects a name and a dict of fields")
		return types.AnyFrom(types.AnyFromError)
	}
	fields, ok := call.Args[1].Value.(*ast.DictExpr)
	if !ok {
		c.errorf(call, InvalidType, "TypedDict() expects a dict of fields")
		return types.AnyFrom(types.AnyFromError)
	}
	b := types.NewTypeMapBuilder()
	for i, k := range fields.Keys {
		key, ok := k.(*ast.StrLit)
		if !ok {
			c.errorf(k, InvalidType, "TypedDict() keys must be string literals")
			continue
		}
		b.Set(key.Value, c.analyzeType(fields.Values[i], nil))
	}
	return &types.TypedMapping{Name: sym.Fullname, Fields: b.Build()}
}

// resolveTypeVar resolves `T = TypeVar('T', *values, bound=B, covariant=True)`.
func (c *checker) resolveTypeVar(sym *symtab.Symbol) {
	s := sym.Node.(*ast.Assign)
	call := s.Value.(*ast.Call)
	tv := &types.TypeVar{Name: sym.Name, Fullname: sym.Fullname}
	sym.TypeVar = tv

	for i, arg := range call.Args {
		switch {
		case arg.Kind == ast.ArgPositional && i == 0:
			name, ok := arg.Value.(*ast.StrLit)
			if !ok || name.Value != sym.Name {
				c.errorf(call, InvalidTypeVar, "String argument 1 to TypeVar(...) does not match variable name %q", sym.Name)
			}
		case arg.Kind == ast.ArgPositional:
			tv.Values = append(tv.Values, c.analyzeType(arg.Value, nil))
		case arg.Kind == ast.ArgKeyword && arg.Name == "bound":
			tv.Bound = c.analyzeType(arg.Value, nil)
		case arg.Kind == ast.ArgKeyword && (arg.Name == "covariant" || arg.Name == "contravariant"):
			if b, ok := arg.Value.(*ast.BoolLit); ok && b.Value {
				if arg.Name == "covariant" {
					tv.Variance = types.Covariant
				} else {
					tv.Variance = types.Contravariant
				}
			}
		default:
			c.errorf(call, InvalidTypeVar, "Unexpected argument to TypeVar(): %q", arg.Name)
		}
	}
	switch {
	case len(tv.Values) > 0 && tv.Bound != nil:
		c.errorf(call, InvalidTypeVar, "TypeVar cannot have both values and an upper bound")
		tv.Bound = nil
		tv.Kind = types.ValueRestricted
	case len(tv.Values) == 1:
		c.errorf(call, InvalidTypeVar, "TypeVar cannot have only a single constraint")
		tv.Values = nil
	case len(tv.Values) > 1:
		tv.Kind = types.ValueRestricted
	case tv.Bound != nil:
		tv.Kind = types.Bounded
	}
}

// resolveClasses resolves the bases and type parameters of each class, then computes method
// resolution orders.
func (c *checker) resolveClasses() {
	for _, info := range c.table.Classes {
		def := c.classDefs[info]
		scope := &tvScope{collect: true}
		for _, b := range def.Bases {
			sub, ok := b.(*ast.Subscript)
			if !ok {
				continue
			}
			if name, ok := sub.X.(*ast.Name); ok && name.Id == "Generic" && c.isSpecial("Generic") {
				scope.collect = false
				for _, idx := range sub.Index {
					t := c.analyzeType(idx, &tvScope{collect: true, vars: scope.vars})
					if tv, ok := t.(*types.TypeVar); ok {
						scope.vars = append(scope.vars, tv.WithId(len(scope.vars)+1))
					} else {
						c.errorf(idx, InvalidTypeVar, "Arguments to Generic[...] must all be type variables")
					}
				}
			}
		}
		for _, b := range def.Bases {
			if sub, ok := b.(*ast.Subscript); ok {
				if name, ok := sub.X.(*ast.Name); ok && name.Id == "Generic" && c.isSpecial("Generic") {
					continue
				}
			}
			t := c.analyzeType(b, scope)
			inst, ok := t.(*types.Instance)
			if !ok {
				if !types.IsAny(t) {
					c.errorf(b, InvalidType, "Invalid base class %q", ast.ExprString(b))
				}
				continue
			}
			if inst.Class == info.ID {
				c.errorf(b, InconsistentMRO, "Cycle in inheritance hierarchy for %q", info.Fullname)
				continue
			}
			info.Bases = append(info.Bases, inst)
		}
		info.TypeVars = scope.vars
		if len(info.Bases) == 0 && info.Fullname != BuiltinsModule+".object" {
			if obj := c.ctx.Object(); obj != nil {
				info.Bases = []*types.Instance{obj}
			}
		}
		if def.Metaclass != nil {
			if meta, ok := c.analyzeType(def.Metaclass, nil).(*types.Instance); ok {
				info.Metaclass = meta
			}
		}
		info.IsRecord = def.HasDecorator("dataclass")
	}

	for _, info := range c.table.Classes {
		if len(info.MRO) == 0 {
			mro, err := symtab.ComputeMRO(info, c.ctx.ClassInfo)
			if err != nil {
				c.errorf(c.classDefs[info], InconsistentMRO, "%s", err.Error())
			}
			info.MRO = mro
		}
		for _, base := range info.Bases {
			if bi := c.table.ClassInfo(base.Class); bi != nil {
				bi.Subclasses = append(bi.Subclasses, info.ID)
			}
		}
	}
}

func (c *checker) resolveFunc(sym *symtab.Symbol) {
	defs := c.defs[sym]
	var items []*types.Callable
	for _, def := range defs {
		sig := c.signature(def, c.owners[def], nil)
		c.sigs[def] = sig
		if def.HasDecorator("overload") {
			item := *sig
			item.IsOverloadMember = true
			items = append(items, &item)
		}
	}
	if len(items) > 0 {
		sym.Type = &types.Overload{Items: items}
		return
	}
	sym.Type = c.sigs[defs[len(defs)-1]]
}

// signature resolves the callable type of a function definition. The first parameter of a method
// defaults to the instance type of its class.
func (c *checker) signature(def *ast.FuncDef, owner *symtab.ClassInfo, parent *tvScope) *types.Callable {
	scope := &tvScope{parent: parent, binds: true}
	if parent == nil && owner != nil {
		scope.parent = &tvScope{vars: owner.TypeVars}
	}
	ct := &types.Callable{
		Args:  make([]types.Type, len(def.Params)),
		Kinds: make([]types.ArgKind, len(def.Params)),
		Names: make([]string, len(def.Params)),
		Name:  def.Name,
	}
	for i, p := range def.Params {
		switch {
		case p.Annotation != nil:
			ct.Args[i] = c.analyzeType(p.Annotation, scope)
		case i == 0 && owner != nil:
			ct.Args[i] = owner.SelfType()
		default:
			ct.Args[i] = types.AnyFrom(types.AnyUnannotated)
		}
		kind := p.Kind
		if p.Default != nil {
			switch kind {
			case types.ArgPos:
				kind = types.ArgOpt
			case types.ArgNamed:
				kind = types.ArgNamedOpt
			}
		}
		ct.Kinds[i], ct.Names[i] = kind, p.Name
	}
	switch {
	case def.Returns != nil:
		ct.Return = c.analyzeType(def.Returns, scope)
	case def.Name == "__init__":
		ct.Return = types.None
	default:
		ct.Return = types.AnyFrom(types.AnyUnannotated)
	}
	ct.Vars = scope.vars
	return ct
}

func (c *checker) resolveVar(sym *symtab.Symbol) {
	ann := annotation(sym)
	if ann == nil {
		return
	}
	var scope *tvScope
	if owner := c.varOwners[sym]; owner != nil {
		scope = &tvScope{vars: owner.TypeVars}
	}
	sym.Type = c.analyzeType(ann, scope)
}

// synthesizeRecord collects the fields of a dataclass-style class, including fields inherited from
// record bases, and declares an `__init__` accepting them unless the class declares one.
func (c *checker) synthesizeRecord(info *symtab.ClassInfo) {
	var fields []symtab.Field
	add := func(f symtab.Field) {
		for i := range fields {
			if fields[i].Name == f.Name {
				fields[i] = f
				return
			}
		}
		fields = append(fields, f)
	}
	for i := len(info.MRO) - 1; i > 0; i-- {
		if base := c.ctx.ClassInfo(info.MRO[i]); base != nil && base.IsRecord {
			for _, f := range base.Fields {
				add(f)
			}
		}
	}
	for _, s := range c.classDefs[info].Body {
		assign, ok := s.(*ast.Assign)
		if !ok || assign.Annotation == nil {
			continue
		}
		name, ok := assign.Target.(*ast.Name)
		if !ok {
			continue
		}
		t := types.Type(types.AnyFrom(types.AnyImplicit))
		if sym := info.Members.Lookup(name.Id); sym != nil && sym.Type != nil {
			t = sym.Type
		}
		add(symtab.Field{Name: name.Id, Type: t, HasDefault: assign.Value != nil})
	}
	info.Fields = fields

	if info.Members.Lookup("__init__") != nil {
		return
	}
	init := &types.Callable{
		Args:   []types.Type{info.SelfType()},
		Kinds:  []types.ArgKind{types.ArgPos},
		Names:  []string{"self"},
		Return: types.None,
		Name:   "__init__",
	}
	for _, f := range fields {
		kind := types.ArgPos
		if f.HasDefault {
			kind = types.ArgOpt
		}
		init.Args = append(init.Args, f.Type)
		init.Kinds = append(init.Kinds, kind)
		init.Names = append(init.Names, f.Name)
	}
	c.declare(c.classDefs[info], info.Members, &symtab.Symbol{Kind: symtab.FuncDef, Name: "__init__", Type: init})
}
