package compiler

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// regexpFlags are the flags a regular expression literal may carry.
const regexpFlags = "dgimsuyv"

// collectLiterals interns every string and bigint a function uses and
// validates its regular expression literals.
func collectLiterals(ctx *Context, fn *ast.Function) {
	lits := ctx.Literals
	lits.String(fn.Name, false)

	visit := func(n *ast.Node) bool {
		if ctx.Failed() {
			return false
		}
		switch n.Kind {
		case ast.Literal:
			switch n.LitKind {
			case ast.LitString:
				n.CName = lits.String(n.Str, isKeyPosition(n))
			case ast.LitBigInt:
				n.CName = lits.BigInt(n.Str)
			case ast.LitRegExp:
				validateRegExp(ctx, n)
				lits.String(n.Str, false)
				lits.String(n.Flags, false)
			}
		case ast.MemberExpression:
			if !n.Computed {
				n.Property.CName = lits.String(n.Property.Name, true)
			}
		case ast.Identifier:
			if n.GlobalLookup || n.WithDecl != nil {
				lits.String(n.Name, true)
			}
		case ast.TemplateLiteral:
			for i, q := range n.Quasis {
				if !n.Invalid[i] {
					lits.String(q, false)
				}
			}
			if n.Parent != nil && n.Parent.Kind == ast.TaggedTemplateExpression {
				for _, q := range n.RawQuasis {
					lits.String(q, false)
				}
			}
		case ast.UnaryExpression:
			if n.Operator == "typeof" {
				lits.String("undefined", false)
			}
		}
		return true
	}
	for _, p := range fn.Node.Params {
		ast.Inspect(p, visit)
	}
	ast.Inspect(fn.Node.Body, visit)
	ctx.Stats.Literals = lits.Len()
}

// isKeyPosition reports whether a string literal names a property.
func isKeyPosition(n *ast.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	switch p.Kind {
	case ast.Property, ast.MethodDefinition, ast.PropertyDefinition:
		return p.Key == n
	case ast.MemberExpression:
		return p.Property == n
	case ast.BinaryExpression:
		return p.Operator == "in" && p.Left == n
	}
	return false
}

// validateRegExp checks the flags and, where the ECMAScript dialect of
// regexp2 can express it, the pattern of a regular expression literal.
func validateRegExp(ctx *Context, n *ast.Node) {
	seen := make(map[rune]bool)
	for _, f := range n.Flags {
		if !strings.ContainsRune(regexpFlags, f) || seen[f] {
			ctx.NewSyntaxError(n, nil, "invalid regular expression flags '%s'", n.Flags)
			return
		}
		seen[f] = true
	}
	if seen['u'] && seen['v'] {
		ctx.NewSyntaxError(n, nil, "invalid regular expression flags '%s'", n.Flags)
		return
	}
	if seen['u'] || seen['v'] {
		// unicode-mode syntax is beyond the ECMAScript dialect of regexp2
		return
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if seen['i'] {
		opts |= regexp2.IgnoreCase
	}
	if seen['m'] {
		opts |= regexp2.Multiline
	}
	if _, err := regexp2.Compile(n.Str, opts); err != nil {
		ctx.NewSyntaxError(n, err, "invalid regular expression: /%s/: %v", n.Str, err)
	}
}

// rewriteGlobals turns every unresolved identifier that no with
// statement can intercept into a member access on the global object.
// The node is rewritten in place so its parent needs no update.
func rewriteGlobals(ctx *Context, fn *ast.Function) {
	visit := func(n *ast.Node) bool {
		if n.Kind != ast.Identifier || !n.GlobalLookup {
			return true
		}
		ctx.Stats.GlobalSites++
		if n.Scope != nil && n.Scope.InsideWith() {
			return true
		}
		name := n.Name
		obj := ctx.Arena.New(ast.GlobalObject, n.Start, n.Start)
		obj.Parent = n
		obj.Scope = n.Scope
		prop := ctx.Arena.New(ast.Identifier, n.Start, n.End)
		prop.Name = name
		prop.Parent = n
		prop.Scope = n.Scope
		prop.CName = ctx.Literals.String(name, true)

		n.Kind = ast.MemberExpression
		n.Object = obj
		n.Property = prop
		n.Computed = false
		n.CacheKey = uncacheable
		return false
	}
	for _, p := range fn.Node.Params {
		ast.Inspect(p, visit)
	}
	ast.Inspect(fn.Node.Body, visit)
}

// isGlobalMember reports whether n is a rewritten global reference.
func isGlobalMember(n *ast.Node) bool {
	return n != nil && n.Kind == ast.MemberExpression && n.Object != nil && n.Object.Kind == ast.GlobalObject
}
