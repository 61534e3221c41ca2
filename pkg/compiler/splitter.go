package compiler

import (
	"fmt"

	"github.com/coregx/coregex"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// Debug flag for function extraction tracing
const debugSplitter = false

// useStrict matches the source text of a "use strict" directive. The
// directive must be written without escapes to count.
var useStrict = mustCompileRegex(`^(?:'use strict'|"use strict")$`)

func mustCompileRegex(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("compiler: bad pattern %q: %v", pattern, err))
	}
	return re
}

// extractOpts carries what the site knows about a function that the
// function node itself cannot tell.
type extractOpts struct {
	name    string
	method  bool
	strict  bool
	ctor    bool
	derived bool
}

type splitter struct {
	ctx *Context
	out []*ast.Node
}

// Split wraps the program statements in a pseudo-function and extracts
// every nested function and class into a standalone function node. The
// result is in post-order: each function follows all of its descendants,
// so callers locate the root by its missing parent.
func Split(ctx *Context, program *ast.Node) []*ast.Node {
	s := &splitter{ctx: ctx}

	body := ctx.Arena.New(ast.BlockStatement, program.Start, program.End)
	body.List = program.List
	top := ctx.Arena.New(ast.FunctionExpression, program.Start, program.End)
	top.Body = body
	ast.SetParents(top)

	fn := ast.NewFunction(top, "")
	fn.Program = true
	s.function(fn, extractOpts{})
	return s.out
}

// function finishes a freshly created function record and walks its body.
func (s *splitter) function(fn *ast.Function, opts extractOpts) {
	node := fn.Node
	fn.UniqueID = s.ctx.NextID()
	fn.CName = fmt.Sprintf("func_%s_%d", cIdent(fn.Name), fn.UniqueID)
	fn.Arrow = node.Kind == ast.ArrowFunctionExpression
	fn.Async = node.Async
	fn.Generator = node.Generator
	fn.Method = opts.method
	fn.ClassConstructor = opts.ctor
	fn.Derived = opts.derived
	fn.Strict = opts.strict || (fn.Parent != nil && fn.Parent.Strict)

	if debugSplitter {
		fmt.Printf("// [Splitter] %s (parent %v)\n", fn.CName, fn.Parent != nil)
	}

	if node.ExprBody {
		s.wrapExpressionBody(node)
	}
	if node.Body == nil || node.Body.Kind != ast.BlockStatement {
		s.ctx.NewCompileError(node, "malformed function body")
		return
	}
	if s.stripDirectives(node.Body) {
		fn.Strict = true
	}
	if len(node.Params) > abi.MaxParams {
		s.ctx.NewLimitError(node, abi.MaxParams, "too many parameters (%d, limit %d)", len(node.Params), abi.MaxParams)
		return
	}

	for _, p := range node.Params {
		s.walk(fn, p)
	}
	s.walk(fn, node.Body)
	s.out = append(s.out, node)
}

// wrapExpressionBody turns `(x) => expr` into `(x) => { return expr; }`.
func (s *splitter) wrapExpressionBody(node *ast.Node) {
	expr := node.Body
	ret := s.ctx.Arena.New(ast.ReturnStatement, expr.Start, expr.End)
	ret.Argument = expr
	blk := s.ctx.Arena.New(ast.BlockStatement, expr.Start, expr.End)
	blk.List = []*ast.Node{ret}
	node.Body = blk
	node.ExprBody = false
	ast.SetParents(node)
}

// stripDirectives removes a "use strict" directive from the prologue of
// a function body and reports whether one was present.
func (s *splitter) stripDirectives(body *ast.Node) bool {
	for i, stmt := range body.List {
		if stmt.Kind != ast.ExpressionStatement || stmt.Expression.Kind != ast.Literal ||
			stmt.Expression.LitKind != ast.LitString {
			return false
		}
		if useStrict.MatchString(stmt.Expression.Raw) {
			body.List = append(body.List[:i:i], body.List[i+1:]...)
			return true
		}
	}
	return false
}

// walk visits n within fn, extracting nested functions and classes.
func (s *splitter) walk(fn *ast.Function, n *ast.Node) {
	if n == nil || s.ctx.Failed() {
		return
	}
	switch {
	case n.Kind.IsFunction():
		if !n.Detached() {
			s.extract(fn, n, extractOpts{name: inferName(n)})
		}
		return
	case n.Kind.IsClass():
		s.class(fn, n)
		return
	}

	switch n.Kind {
	case ast.BlockStatement, ast.SwitchCase:
		hoistFunctions(n)
	case ast.Property:
		if (n.Method || n.PropKind == "get" || n.PropKind == "set") && n.Value != nil && n.Value.Kind.IsFunction() {
			s.walk(fn, n.Key)
			s.extract(fn, n.Value, extractOpts{name: keyName(n), method: true})
			return
		}
	}
	for _, c := range ast.Children(n) {
		s.walk(fn, c)
	}
}

// extract moves the body and parameters of a function site into a new
// function node. A declaration keeps its name on the site, where it
// binds in the enclosing scope; an expression's name moves to the new
// node, where it binds inside the function.
func (s *splitter) extract(parent *ast.Function, site *ast.Node, opts extractOpts) *ast.Function {
	clone := s.ctx.Arena.Clone(site)
	clone.Parent = nil
	if site.Kind == ast.FunctionDeclaration {
		clone.Kind = ast.FunctionExpression
		clone.ID = nil
	} else {
		site.ID = nil
	}
	site.Body = nil
	site.Params = nil
	site.Decl = clone
	clone.Decl = site
	ast.SetParents(clone)

	fn := ast.NewFunction(clone, opts.name)
	fn.Site = site
	fn.Parent = parent
	parent.Children = append(parent.Children, fn)
	s.function(fn, opts)
	return fn
}

// class lowers a class site. The constructor, explicit or synthesized,
// becomes the function node linked from the site; each method becomes a
// function node of its own, linked from its method definition. The site
// keeps its name, heritage expression and the method list.
func (s *splitter) class(fn *ast.Function, site *ast.Node) {
	if site.Detached() {
		return
	}
	s.walk(fn, site.SuperClass)

	name := inferName(site)
	var ctorDef *ast.Node
	var members []*ast.Node
	for _, m := range site.Body.List {
		switch {
		case m.Kind == ast.PropertyDefinition:
			s.ctx.NewCompileError(m, "class fields are not supported")
			return
		case m.PropKind == "constructor":
			if ctorDef != nil {
				s.ctx.NewScopeError(m, "a class may only have one constructor")
				return
			}
			ctorDef = m
		default:
			members = append(members, m)
		}
	}
	site.Body.List = members

	var ctor *ast.Node
	if ctorDef != nil {
		ctor = ctorDef.Value
	} else {
		ctor = s.defaultConstructor(site)
	}
	s.extractConstructor(fn, site, ctor, extractOpts{
		name:    name,
		strict:  true,
		ctor:    true,
		derived: site.SuperClass != nil,
	})

	for _, m := range members {
		s.walk(fn, m.Key)
		if m.Value == nil || !m.Value.Kind.IsFunction() {
			s.ctx.NewCompileError(m, "malformed class member")
			return
		}
		s.extract(fn, m.Value, extractOpts{name: keyName(m), method: true, strict: true})
	}
}

// extractConstructor is extract for a constructor whose function node
// is linked from the class site rather than from its own position.
func (s *splitter) extractConstructor(parent *ast.Function, site, ctor *ast.Node, opts extractOpts) *ast.Function {
	clone := s.ctx.Arena.Clone(ctor)
	clone.Kind = ast.FunctionExpression
	clone.Parent = nil
	clone.ID = nil
	site.Decl = clone
	clone.Decl = site
	ast.SetParents(clone)

	fn := ast.NewFunction(clone, opts.name)
	fn.Site = site
	fn.Parent = parent
	parent.Children = append(parent.Children, fn)
	s.function(fn, opts)
	return fn
}

// defaultConstructor builds `constructor() {}` or, for a derived class,
// `constructor(...args) { super(...args); }`.
func (s *splitter) defaultConstructor(site *ast.Node) *ast.Node {
	a := s.ctx.Arena
	fn := a.New(ast.FunctionExpression, site.Start, site.End)
	body := a.New(ast.BlockStatement, site.Start, site.End)
	fn.Body = body
	if site.SuperClass == nil {
		return fn
	}
	param := a.New(ast.Identifier, site.Start, site.Start)
	param.Name = "args"
	rest := a.New(ast.RestElement, site.Start, site.Start)
	rest.Argument = param
	fn.Params = []*ast.Node{rest}

	arg := a.New(ast.Identifier, site.Start, site.Start)
	arg.Name = "args"
	spread := a.New(ast.SpreadElement, site.Start, site.Start)
	spread.Argument = arg
	call := a.New(ast.CallExpression, site.Start, site.End)
	call.Callee = a.New(ast.Super, site.Start, site.Start)
	call.List = []*ast.Node{spread}
	stmt := a.New(ast.ExpressionStatement, site.Start, site.End)
	stmt.Expression = call
	body.List = []*ast.Node{stmt}
	return fn
}

// hoistFunctions moves function declarations to the front of a statement
// list, keeping their relative order.
func hoistFunctions(block *ast.Node) {
	var funcs, rest []*ast.Node
	for _, st := range block.List {
		if st.Kind == ast.FunctionDeclaration {
			funcs = append(funcs, st)
		} else {
			rest = append(rest, st)
		}
	}
	if len(funcs) == 0 {
		return
	}
	block.List = append(funcs, rest...)
}

// inferName picks the name a function or class is known by: its own
// name, else the binding or property it is assigned to.
func inferName(site *ast.Node) string {
	if site.ID != nil {
		return site.ID.Name
	}
	p := site.Parent
	if p == nil {
		return ""
	}
	switch p.Kind {
	case ast.VariableDeclarator:
		if p.Init == site && p.ID.Kind == ast.Identifier {
			return p.ID.Name
		}
	case ast.AssignmentExpression, ast.AssignmentPattern:
		if p.Right != site {
			return ""
		}
		switch p.Left.Kind {
		case ast.Identifier:
			return p.Left.Name
		case ast.MemberExpression:
			if !p.Left.Computed {
				return p.Left.Property.Name
			}
		}
	case ast.Property, ast.MethodDefinition:
		return keyName(p)
	}
	return ""
}

// keyName is the static name of a property or method key, or "".
func keyName(p *ast.Node) string {
	if p.Computed || p.Key == nil || p.Key.Kind != ast.Literal {
		return ""
	}
	return p.Key.Str
}
