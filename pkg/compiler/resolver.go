package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// Debug flag for name resolution tracing
const debugResolver = false

type resolver struct {
	ctx *Context
	fn  *ast.Function
}

// Resolve binds every identifier of every function, parents first. A
// function's declarations are all made before any of its references are
// resolved, and children are visited only after both passes so that the
// scopes of their sites are complete.
func Resolve(ctx *Context, root *ast.Function) {
	r := &resolver{ctx: ctx}
	r.function(root)
}

func (r *resolver) function(fn *ast.Function) {
	if r.ctx.Failed() {
		return
	}
	saved := r.fn
	r.fn = fn
	defer func() { r.fn = saved }()

	node := fn.Node
	var outer *ast.Scope
	if fn.Site != nil {
		outer = fn.Site.Scope
		if fn.Strict && insideWithOf(outer, fn.Parent) {
			r.ctx.NewScopeError(fn.Site, "strict mode function cannot be nested in a with statement")
			return
		}
	}

	// a named function expression sees its own name in a scope of its own
	if node.ID != nil {
		self := ast.NewScope(outer, node, fn)
		id := node.ID
		id.DeclKind = ast.DeclSelf
		id.Owner = fn
		id.Decl = id
		id.Scope = self
		self.Declare(id.Name, id)
		fn.Self = id
		outer = self
	}

	sc := ast.NewScope(outer, node, fn)
	sc.IsFunction = true
	fn.Scope = sc
	node.Scope = sc

	if !fn.Arrow {
		fn.This = r.synthetic("this", ast.DeclThis)
		fn.NewTarget = r.synthetic("new.target", ast.DeclNewTarget)
		fn.FuncValue = r.synthetic("%func", ast.DeclFuncValue)
		if !fn.Program {
			fn.Arguments = r.synthetic("arguments", ast.DeclArguments)
			sc.Declare("arguments", fn.Arguments)
		}
	}

	r.params(fn)
	body := node.Body
	body.Scope = sc
	for _, st := range body.List {
		r.declare(st, sc)
	}
	if r.ctx.Failed() {
		return
	}

	for _, p := range node.Params {
		r.references(p)
	}
	for _, st := range body.List {
		r.references(st)
	}
	if debugResolver {
		fmt.Printf("// [Resolver] %s: %d vars, %d lexicals, %d closures\n",
			fn.CName, len(fn.Vars), len(fn.Lexicals), len(fn.Closures))
	}

	for _, child := range fn.Children {
		r.function(child)
	}
}

// params binds the parameter list.
func (r *resolver) params(fn *ast.Function) {
	params := fn.Node.Params
	seen := make(map[string]bool)
	strictParams := fn.Strict || fn.Arrow || fn.Method || !isSimpleParams(params)
	for _, p := range params {
		r.declare(p, fn.Scope)
		for _, id := range bindingIdentifiers(p) {
			r.declareParam(id, fn.Scope, p.End, seen, strictParams)
		}
	}
}

// declare is the declaration pass: it records the scope in effect at
// every node and declares every binding.
func (r *resolver) declare(n *ast.Node, sc *ast.Scope) {
	if n == nil || r.ctx.Failed() {
		return
	}
	n.Scope = sc
	switch n.Kind {
	case ast.BlockStatement:
		inner := ast.NewScope(sc, n, r.fn)
		n.Scope = inner
		for _, st := range n.List {
			r.declare(st, inner)
		}
		return

	case ast.ForStatement, ast.ForInStatement, ast.ForOfStatement:
		head := n.Init
		if n.Kind != ast.ForStatement {
			head = n.Left
		}
		if head != nil && head.Kind == ast.VariableDeclaration && head.VarKind != ast.DeclVar {
			inner := ast.NewScope(sc, n, r.fn)
			n.Scope = inner
			sc = inner
		}
		for _, c := range ast.Children(n) {
			r.declare(c, sc)
		}
		return

	case ast.SwitchStatement:
		r.declare(n.Discriminant, sc)
		inner := ast.NewScope(sc, n, r.fn)
		n.Scope = inner
		for _, c := range n.List {
			r.declare(c, inner)
		}
		return

	case ast.CatchClause:
		inner := ast.NewScope(sc, n, r.fn)
		n.Scope = inner
		if n.Param != nil {
			r.declare(n.Param, inner)
			kind := ast.DeclCatch
			if n.Param.Kind != ast.Identifier {
				kind = ast.DeclLet
			}
			for _, id := range bindingIdentifiers(n.Param) {
				r.declareLexical(id, inner, kind, n.Param.End)
			}
		}
		// the catch body shares the parameter scope so that redeclaring
		// the parameter with let is caught
		body := n.Body
		body.Scope = inner
		for _, st := range body.List {
			r.declare(st, inner)
		}
		return

	case ast.WithStatement:
		r.declare(n.Object, sc)
		inner := ast.NewScope(sc, n, r.fn)
		inner.IsWith = true
		r.declare(n.Body, inner)
		return

	case ast.VariableDeclaration:
		for _, d := range n.List {
			d.Scope = sc
			r.declare(d.ID, sc)
			for _, id := range bindingIdentifiers(d.ID) {
				if n.VarKind == ast.DeclVar {
					r.declareVar(id, sc, ast.DeclVar, d.End)
				} else {
					r.declareLexical(id, sc, n.VarKind, d.End)
				}
			}
			r.declare(d.Init, sc)
		}
		return

	case ast.FunctionDeclaration:
		r.declareFunction(n, sc)
		return

	case ast.ClassDeclaration, ast.ClassExpression:
		r.declareClass(n, sc)
		return
	}

	for _, c := range ast.Children(n) {
		r.declare(c, sc)
	}
}

// declareFunction binds a function declaration. At the top of a function
// it is var-like. In a block it is block scoped, and outside strict mode
// it also gets a var binding of the same name in the function scope,
// assigned when the block runs.
func (r *resolver) declareFunction(site *ast.Node, sc *ast.Scope) {
	id := site.ID
	id.Scope = sc
	if sc.IsFunction {
		r.declareVar(id, sc, ast.DeclFunction, site.End)
		return
	}
	r.declareLexical(id, sc, ast.DeclFunction, site.Start)
	if r.fn.Strict || r.ctx.Failed() {
		return
	}
	if conflict := lexicalConflict(sc.Parent, id.Name); conflict {
		return
	}
	alias := r.ctx.Arena.New(ast.Identifier, id.Start, id.End)
	alias.Name = id.Name
	alias.Scope = sc.Parent
	r.declareVar(alias, sc.Parent, ast.DeclVar, site.Start)
	r.ctx.blockFuncVars[site] = alias
}

// lexicalConflict reports whether a var named name would collide with a
// lexical binding between sc and the function scope.
func lexicalConflict(sc *ast.Scope, name string) bool {
	for s := sc; s != nil; s = s.Parent {
		if d := s.Lookup(name); d != nil && d.DeclKind.IsLexical() {
			return true
		}
		if s.IsFunction {
			return false
		}
	}
	return false
}

// declareClass binds a class name. A class expression's own name is
// visible only inside the class, in a scope opened by the site.
func (r *resolver) declareClass(site *ast.Node, sc *ast.Scope) {
	inner := sc
	if site.Kind == ast.ClassDeclaration {
		site.ID.Scope = sc
		r.declareLexical(site.ID, sc, ast.DeclClass, site.End)
	} else if site.ID != nil {
		inner = ast.NewScope(sc, site, r.fn)
		site.ID.Scope = inner
		r.declareLexical(site.ID, inner, ast.DeclClass, site.End)
	}
	site.Scope = inner
	r.declare(site.SuperClass, inner)
	if site.Body != nil {
		site.Body.Scope = inner
		for _, m := range site.Body.List {
			m.Scope = inner
			r.declare(m.Key, inner)
			if m.Value != nil {
				m.Value.Scope = inner
			}
		}
	}
}

// references is the reference pass over one function's own nodes.
func (r *resolver) references(n *ast.Node) {
	if n == nil || r.ctx.Failed() {
		return
	}
	switch n.Kind {
	case ast.Identifier:
		if ast.IsReference(n) && n.DeclKind == ast.NotDecl && n.Decl == nil && n.WithDecl == nil {
			r.reference(n)
		}
		return
	case ast.ThisExpression:
		owner := r.fn.NonArrow()
		n.Decl = owner.This
		r.capture(owner.This, n)
		return
	case ast.MetaProperty:
		owner := r.fn.NonArrow()
		if owner.Program {
			r.ctx.NewScopeError(n, "new.target expression is not allowed here")
			return
		}
		n.Decl = owner.NewTarget
		r.capture(owner.NewTarget, n)
		return
	case ast.Super:
		r.super(n)
		return
	}
	for _, c := range ast.Children(n) {
		r.references(c)
	}
}

// reference resolves one identifier use.
func (r *resolver) reference(id *ast.Node) {
	res := id.Scope.Resolve(id.Name)
	if res.Decl == nil {
		if !isWriteTarget(id) {
			switch id.Name {
			case "undefined":
				id.Kind = ast.Literal
				id.LitKind = ast.LitUndefined
				return
			case "NaN":
				id.Kind = ast.Literal
				id.LitKind = ast.LitNaN
				return
			}
		}
		id.GlobalLookup = true
		return
	}

	decl := res.Decl
	if res.ThroughWith {
		id.WithDecl = decl
	} else {
		id.Decl = decl
	}
	// a with object may still supply the name at run time
	if !res.ThroughWith && (decl.DeclKind.IsLexical() || decl.DeclKind == ast.DeclParam) &&
		decl.Owner == r.fn && id.Start < decl.DeclEnd {
		r.ctx.NewScopeError(id, "cannot access '%s' before initialization", id.Name)
		return
	}
	r.capture(decl, id)
}

// capture marks decl as used from fn and, when fn is not its owner,
// registers it in the closure set of every function from fn up to the
// owner, so each level can forward the cell to the next.
func (r *resolver) capture(decl, ref *ast.Node) {
	decl.Referenced = true
	if decl.Owner == r.fn || decl.Owner == nil {
		return
	}
	decl.IsClosure = true
	for f := r.fn; f != nil && f != decl.Owner; f = f.Parent {
		if i, added := f.AddClosure(decl, ref); added && i >= abi.MaxClosures {
			r.ctx.NewLimitError(ref, abi.MaxClosures, "too many closure variables in function (limit %d)", abi.MaxClosures)
			return
		}
	}
}

// super resolves the home function of a super reference. A super call
// also needs the this binding and new.target of the constructor.
func (r *resolver) super(n *ast.Node) {
	owner := r.fn.NonArrow()
	call := n.Parent != nil && n.Parent.Kind == ast.CallExpression && n.Parent.Callee == n
	switch {
	case call && !(owner.ClassConstructor && owner.Derived):
		r.ctx.NewScopeError(n, "'super' keyword unexpected here")
		return
	case !call && !owner.Method && !owner.ClassConstructor:
		r.ctx.NewScopeError(n, "'super' keyword unexpected here")
		return
	}
	n.Decl = owner.FuncValue
	r.capture(owner.FuncValue, n)
	r.capture(owner.This, n)
	if call {
		r.capture(owner.NewTarget, n)
	}
}

// isWriteTarget reports whether an identifier is assigned to.
func isWriteTarget(id *ast.Node) bool {
	p := id.Parent
	if p == nil {
		return false
	}
	switch p.Kind {
	case ast.AssignmentExpression, ast.ForInStatement, ast.ForOfStatement:
		return p.Left == id
	case ast.UpdateExpression:
		return true
	case ast.AssignmentPattern:
		return p.Left == id
	case ast.RestElement, ast.ArrayPattern:
		return true
	case ast.Property:
		return p.Value == id && p.Parent != nil && p.Parent.Kind == ast.ObjectPattern
	}
	return false
}

// insideWithOf reports whether sc lies in a with body of fn.
func insideWithOf(sc *ast.Scope, fn *ast.Function) bool {
	for s := sc; s != nil && s.Func == fn; s = s.Parent {
		if s.IsWith {
			return true
		}
	}
	return false
}
