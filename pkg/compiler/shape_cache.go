package compiler

import (
	"fmt"
	"strconv"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// Debug flag for shape-cache key tracing
const debugShapeCache = false

// uncacheable is the key of a site whose base is not statically known.
const uncacheable = "?"

// cacheAnalyzer assigns inline-cache slots to the member accesses of one
// function. Sites with equal keys read the same object and property, so
// they share a slot. An identifier's key carries the number of
// assignments to it seen so far in evaluation order; a reassignment
// therefore starts a new key.
type cacheAnalyzer struct {
	ctx *Context
	fn  *ast.Function
	gen map[*ast.Node]int
}

func assignCacheSlots(ctx *Context, fn *ast.Function) {
	a := &cacheAnalyzer{ctx: ctx, fn: fn, gen: make(map[*ast.Node]int)}
	for _, p := range fn.Node.Params {
		a.target(p)
	}
	a.visit(fn.Node.Body)
	if debugShapeCache {
		fmt.Printf("// [ShapeCache] %s: %d slots\n", fn.CName, fn.ShapeCacheCount)
	}
}

// visit walks n in evaluation order.
func (a *cacheAnalyzer) visit(n *ast.Node) {
	if n == nil || a.ctx.Failed() {
		return
	}
	switch n.Kind {
	case ast.AssignmentExpression:
		a.target(n.Left)
		a.visit(n.Right)
		a.bump(n.Left)
		return
	case ast.UpdateExpression:
		a.target(n.Argument)
		a.bump(n.Argument)
		return
	case ast.VariableDeclarator:
		a.target(n.ID)
		a.visit(n.Init)
		if n.Init != nil {
			a.bump(n.ID)
		}
		return
	case ast.ForInStatement, ast.ForOfStatement:
		a.visit(n.Right)
		a.target(n.Left)
		a.bump(n.Left)
		a.visit(n.Body)
		return
	case ast.MemberExpression:
		a.visit(n.Object)
		if n.Computed {
			a.visit(n.Property)
		}
		a.site(n)
		return
	case ast.CallExpression:
		a.visit(n.Callee)
		for _, arg := range n.List {
			a.visit(arg)
		}
		if n.Callee.Kind == ast.Super {
			// super() initializes this
			a.gen[a.fn.NonArrow().This]++
		}
		return
	}
	for _, c := range ast.Children(n) {
		a.visit(c)
	}
}

// target walks an assignment target: member targets are sites, default
// values and computed keys are ordinary expressions.
func (a *cacheAnalyzer) target(p *ast.Node) {
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.Identifier:
	case ast.MemberExpression:
		a.visit(p)
	case ast.AssignmentPattern:
		a.target(p.Left)
		a.visit(p.Right)
	case ast.RestElement:
		a.target(p.Argument)
	case ast.ArrayPattern:
		for _, el := range p.List {
			a.target(el)
		}
	case ast.ObjectPattern:
		for _, prop := range p.List {
			if prop.Kind == ast.RestElement {
				a.target(prop)
				continue
			}
			if prop.Computed {
				a.visit(prop.Key)
			}
			a.target(prop.Value)
		}
	case ast.VariableDeclaration:
		for _, d := range p.List {
			a.target(d.ID)
		}
	default:
		a.visit(p)
	}
}

// bump advances the generation of every variable a target assigns.
func (a *cacheAnalyzer) bump(p *ast.Node) {
	if p == nil {
		return
	}
	if p.Kind == ast.VariableDeclaration {
		for _, d := range p.List {
			a.bump(d.ID)
		}
		return
	}
	for _, id := range bindingIdentifiers(p) {
		if d := id.Resolved(); d != nil {
			a.gen[d]++
		}
	}
}

// site decides whether a member access gets a slot.
func (a *cacheAnalyzer) site(n *ast.Node) {
	stats := a.ctx.Stats
	if n.Object.Kind == ast.Super {
		n.CacheKey = uncacheable
		return
	}
	stats.MemberSites++
	if withAffected(n.Object) {
		stats.WithSites++
		n.CacheKey = uncacheable
		return
	}
	key := a.key(n)
	n.CacheKey = key
	if key == uncacheable {
		stats.UncacheableKey++
		return
	}
	stats.CacheableSites++
	slot, ok := a.fn.ShapeCache[key]
	if !ok {
		slot = a.fn.ShapeCacheCount
		if slot >= abi.MaxShapeCacheSlots {
			a.ctx.NewLimitError(n, abi.MaxShapeCacheSlots, "too many property access sites in function (limit %d)", abi.MaxShapeCacheSlots)
			return
		}
		a.fn.ShapeCache[key] = slot
		a.fn.ShapeCacheCount++
		stats.CacheSlots++
	}
	n.CacheSlot = slot
	if debugShapeCache {
		fmt.Printf("// [ShapeCache] %q -> slot %d\n", key, slot)
	}
}

// key computes the cache key of an expression, or "?".
func (a *cacheAnalyzer) key(n *ast.Node) string {
	switch n.Kind {
	case ast.Identifier:
		d := n.Decl
		if n.GlobalLookup || n.WithDecl != nil || d == nil {
			return uncacheable
		}
		return fmt.Sprintf("%s#%d#%d", d.Name, d.Index, a.gen[d])
	case ast.ThisExpression:
		return "this#" + strconv.Itoa(a.gen[n.Decl])
	case ast.Literal:
		if n.LitKind == ast.LitString {
			return "lit:" + strconv.Quote(n.Str)
		}
		return uncacheable
	case ast.CallExpression, ast.NewExpression:
		return "call@" + strconv.Itoa(n.Index)
	case ast.MemberExpression:
		name, ok := staticPropertyName(n)
		if !ok {
			return uncacheable
		}
		if _, isIndex := abi.ArrayIndex(name); isIndex {
			return uncacheable
		}
		base := a.key(n.Object)
		if base == uncacheable {
			return uncacheable
		}
		return base + "." + name
	}
	return uncacheable
}

// staticPropertyName returns the property name of a member access when
// it does not depend on runtime values.
func staticPropertyName(n *ast.Node) (string, bool) {
	if !n.Computed {
		return n.Property.Name, true
	}
	if p := n.Property; p.Kind == ast.Literal && p.LitKind == ast.LitString {
		return p.Str, true
	}
	return "", false
}

// withAffected reports whether evaluating n may consult a with object.
func withAffected(n *ast.Node) bool {
	for n != nil {
		switch n.Kind {
		case ast.Identifier:
			return n.WithDecl != nil || (n.GlobalLookup && n.Scope != nil && n.Scope.InsideWith())
		case ast.MemberExpression:
			n = n.Object
		default:
			return false
		}
	}
	return false
}
