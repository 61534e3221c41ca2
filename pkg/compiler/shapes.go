package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// inferShapes gives object literals and constructors a static layout.
func inferShapes(ctx *Context, fn *ast.Function) {
	ast.Inspect(fn.Node.Body, func(n *ast.Node) bool {
		if n.Kind == ast.ObjectExpression {
			if props := literalShapeProps(n); len(props) > 0 {
				n.Shape = ctx.Literals.Shape(props)
				if n.Shape.WellKnown != "" {
					ctx.Stats.WellKnownShape++
				}
			}
		}
		return true
	})
	for _, p := range fn.Node.Params {
		ast.Inspect(p, func(n *ast.Node) bool {
			if n.Kind == ast.ObjectExpression {
				if props := literalShapeProps(n); len(props) > 0 {
					n.Shape = ctx.Literals.Shape(props)
				}
			}
			return true
		})
	}

	if constructorCandidate(fn) {
		if props := constructorShapeProps(fn); len(props) > 0 {
			fn.NewShape = ctx.Literals.Shape(props)
			ctx.Stats.CtorShapes++
		}
	}
	ctx.Stats.Shapes = ctx.Literals.ShapeCount()
}

// literalShapeProps returns the longest prefix of an object literal's
// properties that are plain, statically named and distinct. The object
// is created with that layout and the remaining properties are defined
// one by one.
func literalShapeProps(obj *ast.Node) []string {
	var props []string
	seen := make(map[string]bool)
	for _, p := range obj.List {
		if !isShapeProperty(p) {
			break
		}
		name := p.Key.Str
		if seen[name] {
			break
		}
		seen[name] = true
		props = append(props, name)
	}
	return props
}

func isShapeProperty(p *ast.Node) bool {
	if p.Kind != ast.Property || p.PropKind != "init" || p.Computed || p.Method {
		return false
	}
	if p.Key == nil || p.Key.Kind != ast.Literal || p.Key.LitKind != ast.LitString {
		return false
	}
	if p.Key.Str == "__proto__" && !p.Shorthand {
		return false
	}
	if _, isIndex := abi.ArrayIndex(p.Key.Str); isIndex {
		return false
	}
	return p.Value == nil || p.Value.Kind != ast.AssignmentPattern
}

// constructorCandidate reports whether objects created by calling fn
// with new get their layout from fn's own this-property writes.
func constructorCandidate(fn *ast.Function) bool {
	return fn.Strict && !fn.Arrow && !fn.Method && !fn.Program && !fn.Derived &&
		!fn.Async && !fn.Generator
}

// constructorShapeProps collects `this.name = ...` writes of fn's own
// body in source order.
func constructorShapeProps(fn *ast.Function) []string {
	var props []string
	seen := make(map[string]bool)
	ast.Inspect(fn.Node.Body, func(n *ast.Node) bool {
		if n.Kind != ast.AssignmentExpression || n.Operator != "=" {
			return true
		}
		left := n.Left
		if left.Kind != ast.MemberExpression || left.Object.Kind != ast.ThisExpression {
			return true
		}
		name, ok := staticPropertyName(left)
		if !ok || seen[name] || name == "__proto__" {
			return true
		}
		if _, isIndex := abi.ArrayIndex(name); isIndex {
			return true
		}
		seen[name] = true
		props = append(props, name)
		return true
	})
	return props
}
