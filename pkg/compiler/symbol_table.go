package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// The declaration side of the resolver. Every binding is an Identifier
// node carrying DeclKind, Owner and DeclEnd; scopes map names to those
// nodes. A declaring identifier links to itself through Decl, or to the
// declaration it merged with, so writers treat binding sites and
// references alike.

// declareVar binds a var-style name. The walk goes up to the function
// scope, merging with an existing var, function or parameter there and
// refusing to hoist across a lexical binding of the same name.
func (r *resolver) declareVar(id *ast.Node, sc *ast.Scope, kind ast.DeclKind, end int) *ast.Node {
	name := id.Name
	throughWith := false
	for s := sc; s != nil; s = s.Parent {
		if existing := s.Lookup(name); existing != nil {
			switch {
			case s.IsFunction && existing.DeclKind != ast.DeclLet &&
				existing.DeclKind != ast.DeclConst && existing.DeclKind != ast.DeclClass:
				return r.merge(id, existing, kind, throughWith)
			case existing.DeclKind == ast.DeclCatch:
				// var e inside catch (e) is allowed and names the outer var
			default:
				r.ctx.NewScopeError(id, "identifier '%s' has already been declared", name)
				return existing
			}
		}
		if s.IsFunction {
			id.DeclKind = kind
			id.Owner = r.fn
			id.DeclEnd = end
			s.Declare(name, id)
			r.fn.Vars = append(r.fn.Vars, id)
			if throughWith {
				id.WithDecl = id
			} else {
				id.Decl = id
			}
			return id
		}
		if s.IsWith {
			throughWith = true
		}
		s.MarkHoisted(name)
	}
	r.ctx.NewCompileError(id, "declaration of '%s' outside of any function", name)
	return id
}

// merge makes id another declaration site of existing.
func (r *resolver) merge(id, existing *ast.Node, kind ast.DeclKind, throughWith bool) *ast.Node {
	if kind == ast.DeclFunction && existing.DeclKind != ast.DeclParam {
		// a later function declaration wins the initial value
		existing.DeclKind = ast.DeclFunction
	}
	if throughWith {
		id.WithDecl = existing
	} else {
		id.Decl = existing
	}
	return existing
}

// declareLexical binds a let, const, class or block function name in sc.
func (r *resolver) declareLexical(id *ast.Node, sc *ast.Scope, kind ast.DeclKind, end int) *ast.Node {
	name := id.Name
	if existing := sc.Lookup(name); existing != nil {
		switch {
		case existing.DeclKind == ast.DeclArguments:
			// shadows the implicit binding
		case kind == ast.DeclFunction && existing.DeclKind == ast.DeclFunction && !r.fn.Strict:
			id.Decl = existing
			return existing
		case existing.DeclKind == ast.DeclParam:
			r.ctx.NewScopeError(id, "identifier '%s' has already been declared as a parameter", name)
			return existing
		default:
			r.ctx.NewScopeError(id, "identifier '%s' has already been declared", name)
			return existing
		}
	}
	if sc.WasHoisted(name) {
		r.ctx.NewScopeError(id, "identifier '%s' has already been declared", name)
		return id
	}
	id.DeclKind = kind
	id.Owner = r.fn
	id.DeclEnd = end
	id.Decl = id
	sc.Declare(name, id)
	r.fn.Lexicals = append(r.fn.Lexicals, id)
	return id
}

// declareParam binds a parameter name in the function scope.
func (r *resolver) declareParam(id *ast.Node, sc *ast.Scope, end int, seen map[string]bool, strictParams bool) {
	if seen[id.Name] && strictParams {
		r.ctx.NewScopeError(id, "duplicate parameter name '%s' not allowed in this context", id.Name)
		return
	}
	seen[id.Name] = true
	id.DeclKind = ast.DeclParam
	id.Owner = r.fn
	id.DeclEnd = end
	id.Decl = id
	sc.Declare(id.Name, id)
}

// synthetic creates a declaration with no source text.
func (r *resolver) synthetic(name string, kind ast.DeclKind) *ast.Node {
	at := r.fn.Node.Start
	id := r.ctx.Arena.New(ast.Identifier, at, at)
	id.Name = name
	id.DeclKind = kind
	id.Owner = r.fn
	id.Decl = id
	id.Scope = r.fn.Scope
	return id
}

// bindingIdentifiers lists the identifiers a pattern binds, in source
// order. Default values are not descended into.
func bindingIdentifiers(p *ast.Node) []*ast.Node {
	var out []*ast.Node
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case ast.Identifier:
			out = append(out, n)
		case ast.AssignmentPattern:
			visit(n.Left)
		case ast.RestElement:
			visit(n.Argument)
		case ast.ArrayPattern:
			for _, el := range n.List {
				visit(el)
			}
		case ast.ObjectPattern:
			for _, prop := range n.List {
				if prop.Kind == ast.RestElement {
					visit(prop)
				} else {
					visit(prop.Value)
				}
			}
		}
	}
	visit(p)
	return out
}

// isSimpleParams reports whether every parameter is a plain identifier.
func isSimpleParams(params []*ast.Node) bool {
	for _, p := range params {
		if p.Kind != ast.Identifier {
			return false
		}
	}
	return true
}
