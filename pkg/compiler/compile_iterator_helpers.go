package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// destructure binds the value v, which must be reusable, to a binding
// or assignment target. Identifiers and members are stored to directly;
// patterns take the value apart first.
func (w *funcWriter) destructure(target *ast.Node, v cir.Expr, mode refMode) cir.Expr {
	if w.failed() {
		return v
	}
	switch target.Kind {
	case ast.Identifier, ast.MemberExpression:
		lv := w.reference(target, target, mode)
		return lv.with(lv.set(v))
	case ast.AssignmentPattern:
		return w.withDefault(target, v, mode)
	case ast.ArrayPattern:
		return w.arrayPattern(target, v, mode)
	case ast.ObjectPattern:
		return w.objectPattern(target, v, mode)
	}
	return w.fail(target, "unexpected %s in binding pattern", target.Kind)
}

// withDefault applies the default value of `target = expr` when v is
// undefined; the default is evaluated only then.
func (w *funcWriter) withDefault(n *ast.Node, v cir.Expr, mode refMode) cir.Expr {
	t := w.temp()
	set := cir.Set(t, cir.Ternary(rawEquals(v, abi.RawUndefined), w.expr(n.Right), v))
	return cir.Comma(set, w.destructure(n.Left, t, mode))
}

// arrayPattern walks the iterator of v one step per element. A hole
// steps without binding; a rest element collects what is left. An
// iterator that is not exhausted at the end is closed.
func (w *funcWriter) arrayPattern(n *ast.Node, v cir.Expr, mode refMode) cir.Expr {
	it := w.temps.AllocArray("it", 3)
	w.ctx.Stats.Temps++
	list := []cir.Expr{cir.CE(abi.FnGetIter, v, it)}
	for _, el := range n.List {
		switch {
		case el == nil:
			list = append(list, cir.CE(abi.FnNextIter, it))
		case el.Kind == ast.RestElement:
			t := w.temp()
			list = append(list, cir.Set(t, cir.CE(abi.FnRestIter, it)), w.destructure(el.Argument, t, mode))
		default:
			t := w.temp()
			current := &cir.Index{X: it, I: cir.K("2")}
			list = append(list, cir.Set(t, cir.Ternary(cir.CE(abi.FnNextIter, it), current, cir.Undefined)))
			list = append(list, w.destructure(el, t, mode))
		}
	}
	list = append(list, cir.CE(abi.FnCloseIter, it))
	return cir.Comma(list...)
}

// objectPattern reads each named property of v. A rest element copies
// the own enumerable properties whose keys were not named before it.
func (w *funcWriter) objectPattern(n *ast.Node, v cir.Expr, mode refMode) cir.Expr {
	src := w.temp()
	list := []cir.Expr{cir.Set(src, cir.CE(abi.FnRequireObj, v))}
	var keys []cir.Expr
	for _, prop := range n.List {
		if prop.Kind == ast.RestElement {
			args := append([]cir.Expr{src, cir.K(fmt.Sprint(len(keys)))}, keys...)
			t := w.temp()
			list = append(list, cir.Set(t, cir.CE(abi.FnRestObj, args...)), w.destructure(prop.Argument, t, mode))
			continue
		}
		key := w.patternKey(prop)
		if !cir.IsConst(key) {
			k := w.temp()
			list = append(list, cir.Set(k, cir.CE(abi.FnToPropKey, key)))
			key = k
		}
		keys = append(keys, key)
		t := w.temp()
		list = append(list, cir.Set(t, cir.CE(abi.FnGetProp, src, key, cir.K("NULL"))))
		list = append(list, w.destructure(prop.Value, t, mode))
	}
	return cir.Comma(list...)
}

// patternKey writes the key of an object pattern property.
func (w *funcWriter) patternKey(prop *ast.Node) cir.Expr {
	if prop.Computed {
		return w.expr(prop.Key)
	}
	if prop.Key.CName != "" {
		return cir.K(prop.Key.CName)
	}
	return w.lit(prop.Key.Str, true)
}
