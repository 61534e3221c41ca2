package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// computeCallDepth finds the deepest value-stack extent any call in fn
// reaches. A call whose area starts at slot b uses b for the callee's
// frame marker and b+1.. for its arguments; a call nested in argument i
// starts its own area at b+1+i, above the arguments already stored.
func computeCallDepth(ctx *Context, fn *ast.Function) {
	depth := 0
	for _, p := range fn.Node.Params {
		depth = max(depth, callDepth(p, 0))
	}
	depth = max(depth, callDepth(fn.Node.Body, 0))
	fn.StackDepth = depth
}

func callDepth(n *ast.Node, base int) int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case ast.CallExpression, ast.NewExpression:
		deepest := callDepth(n.Callee, base)
		if hasSpread(n.List) {
			// spread arguments are collected in an array, not on the stack
			for _, arg := range n.List {
				deepest = max(deepest, callDepth(arg, base))
			}
			return deepest
		}
		deepest = max(deepest, base+1+len(n.List))
		for i, arg := range n.List {
			deepest = max(deepest, callDepth(arg, base+1+i))
		}
		return deepest
	case ast.TaggedTemplateExpression:
		// tag(strings, ...substitutions)
		deepest := callDepth(n.Callee, base)
		subs := n.Argument.List
		deepest = max(deepest, base+2+len(subs))
		for i, s := range subs {
			deepest = max(deepest, callDepth(s, base+2+i))
		}
		return deepest
	}
	deepest := 0
	for _, c := range ast.Children(n) {
		deepest = max(deepest, callDepth(c, base))
	}
	return deepest
}

func hasSpread(list []*ast.Node) bool {
	for _, a := range list {
		if a != nil && a.Kind == ast.SpreadElement {
			return true
		}
	}
	return false
}

// transformCoroutine marks generator and async functions: they cannot be
// constructed, and their body starts with a suspension so the coroutine
// object is returned to the caller before any user code runs.
func transformCoroutine(ctx *Context, fn *ast.Function) {
	kind := abi.CoroutineKind(fn.Async, fn.Generator)
	if kind == 0 {
		return
	}
	fn.CoroutineKind = kind
	fn.InjectYield = true
	fn.NotConstructor = true
}
