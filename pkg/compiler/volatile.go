package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

// Debug flag for volatile scan tracing
const debugVolatile = false

// scanVolatiles flags the locals of fn that must be declared volatile.
// A try is entered with setjmp; a local assigned inside the try body and
// read anywhere outside it could otherwise come back from the longjmp
// with a stale register copy.
func scanVolatiles(ctx *Context, fn *ast.Function) {
	var tries []*ast.Node
	ast.Inspect(fn.Node.Body, func(n *ast.Node) bool {
		if n.Kind == ast.TryStatement {
			tries = append(tries, n)
		}
		return true
	})
	if len(tries) == 0 {
		return
	}
	fn.HasTry = true

	for _, t := range tries {
		candidates := assignedIn(fn, t.Block)
		if len(candidates) == 0 {
			continue
		}
		visit := func(n *ast.Node) bool {
			if within(n, t.Block) {
				return false
			}
			if d := referencedDecl(n); d != nil && candidates[d] && !d.Volatile {
				d.Volatile = true
				ctx.Stats.Volatiles++
				if debugVolatile {
					fmt.Printf("// [Volatile] %s in %s\n", d.Name, fn.CName)
				}
			}
			return true
		}
		for _, p := range fn.Node.Params {
			ast.Inspect(p, visit)
		}
		ast.Inspect(fn.Node.Body, visit)
	}
}

// assignedIn collects the plain locals of fn that block assigns and that
// are declared outside block.
func assignedIn(fn *ast.Function, block *ast.Node) map[*ast.Node]bool {
	out := make(map[*ast.Node]bool)
	add := func(target *ast.Node) {
		ids := bindingIdentifiers(target)
		if target.Kind == ast.VariableDeclaration {
			ids = nil
			for _, d := range target.List {
				ids = append(ids, bindingIdentifiers(d.ID)...)
			}
		}
		for _, id := range ids {
			d := id.Resolved()
			if d == nil || d.Owner != fn || d.IsClosure || d.Volatile || within(d, block) {
				continue
			}
			out[d] = true
		}
	}
	ast.Inspect(block, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.AssignmentExpression:
			add(n.Left)
		case ast.UpdateExpression:
			add(n.Argument)
		case ast.ForInStatement, ast.ForOfStatement:
			add(n.Left)
		case ast.VariableDeclarator:
			if n.Init != nil {
				add(n.ID)
			}
		case ast.CallExpression:
			if n.Callee.Kind == ast.Super {
				if this := fn.NonArrow().This; this.Owner == fn && !this.IsClosure {
					out[this] = true
				}
			}
		}
		return true
	})
	return out
}

// referencedDecl returns the declaration an identifier or this refers
// to, or nil.
func referencedDecl(n *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.Identifier, ast.ThisExpression:
		return n.Resolved()
	}
	return nil
}

// within reports whether n lies inside the source span of block.
func within(n, block *ast.Node) bool {
	return n.Start >= block.Start && n.End <= block.End && n.End > n.Start
}
