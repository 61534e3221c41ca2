package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// template concatenates the strings and substitutions of a template
// literal. Each substitution is converted to a string before the next
// one is evaluated.
func (w *funcWriter) template(n *ast.Node) cir.Expr {
	var parts []cir.Expr
	for i, q := range n.Quasis {
		if q != "" {
			parts = append(parts, w.lit(q, false))
		}
		if i < len(n.List) {
			parts = append(parts, cir.CE(abi.FnToString, w.expr(n.List[i])))
		}
	}
	switch len(parts) {
	case 0:
		return w.lit("", false)
	case 1:
		if cir.IsConst(parts[0]) {
			return parts[0]
		}
	}
	pre, vals := w.ordered(parts...)
	args := append([]cir.Expr{cir.K(fmt.Sprint(len(vals)))}, vals...)
	return cir.Comma(append(pre, cir.CE(abi.FnConcat, args...))...)
}

// array writes an array literal. Holes are stored as deleted slots.
// With a spread element the array is built one element at a time.
func (w *funcWriter) array(n *ast.Node) cir.Expr {
	if hasSpread(n.List) {
		arr := w.temp()
		list := []cir.Expr{cir.Set(arr, cir.CE(abi.FnNewArr, cir.K("0")))}
		for _, el := range n.List {
			switch {
			case el == nil:
				list = append(list, cir.CE(abi.FnArrPush, arr, cir.K(abi.ValDeleted)))
			case el.Kind == ast.SpreadElement:
				list = append(list, cir.CE(abi.FnArrSpread, arr, w.expr(el.Argument)))
			default:
				list = append(list, cir.CE(abi.FnArrPush, arr, w.expr(el)))
			}
		}
		return cir.Comma(append(list, arr)...)
	}
	vals := make([]cir.Expr, len(n.List))
	for i, el := range n.List {
		if el == nil {
			vals[i] = cir.K(abi.ValDeleted)
		} else {
			vals[i] = w.expr(el)
		}
	}
	pre, vals := w.ordered(vals...)
	args := append([]cir.Expr{cir.K(fmt.Sprint(len(vals)))}, vals...)
	return cir.Comma(append(pre, cir.CE(abi.FnNewArr, args...))...)
}

// object writes an object literal. The leading plain properties that
// make up the literal's shape are passed to the constructor in slot
// order; every later property is defined on the new object in source
// order.
func (w *funcWriter) object(n *ast.Node) cir.Expr {
	count := 0
	shape := cir.Expr(cir.Undefined)
	if n.Shape != nil {
		count = len(n.Shape.Props)
		shape = cir.K(n.Shape.CName)
	}
	vals := make([]cir.Expr, count)
	for i := 0; i < count; i++ {
		vals[i] = w.expr(n.List[i].Value)
	}
	pre, vals := w.ordered(vals...)
	obj := w.temp()
	args := append([]cir.Expr{shape, cir.K(fmt.Sprint(count))}, vals...)
	list := append(pre, cir.Set(obj, cir.CE(abi.FnNewObj, args...)))

	for _, p := range n.List[count:] {
		if p.Kind == ast.SpreadElement {
			list = append(list, cir.CE(abi.FnSpreadObj, obj, w.expr(p.Argument)))
			continue
		}
		if !p.Computed && !p.Shorthand && !p.Method && p.PropKind == "init" && p.Key.Str == "__proto__" {
			list = append(list, cir.CE(abi.FnSetProto, obj, w.expr(p.Value)))
			continue
		}
		key, set := w.memberKey(p)
		list = append(list, set)
		switch {
		case p.PropKind == "get":
			list = append(list, cir.CE(abi.FnDefAccessor, obj, key, w.functionValue(p.Value), cir.K(abi.PropGetter)))
		case p.PropKind == "set":
			list = append(list, cir.CE(abi.FnDefAccessor, obj, key, w.functionValue(p.Value), cir.K(abi.PropSetter)))
		case p.Method:
			list = append(list, cir.CE(abi.FnDefMethod, obj, key, w.functionValue(p.Value), cir.K("0")))
		default:
			list = append(list, cir.CE(abi.FnDefProp, obj, key, w.expr(p.Value)))
		}
	}
	return cir.Comma(append(list, obj)...)
}

// memberKey writes the key of an object literal property or class
// member. A computed key is converted to a property key once, into a
// temporary, before the value is evaluated.
func (w *funcWriter) memberKey(p *ast.Node) (cir.Expr, cir.Expr) {
	if !p.Computed {
		if p.Key.CName != "" {
			return cir.K(p.Key.CName), nil
		}
		return w.lit(p.Key.Str, true), nil
	}
	k := w.temp()
	return k, cir.Set(k, cir.CE(abi.FnToPropKey, w.expr(p.Key)))
}

// functionValue creates the function object of a function expression,
// arrow or method site.
func (w *funcWriter) functionValue(site *ast.Node) cir.Expr {
	if !site.Detached() {
		return w.fail(site, "function at this position was not extracted")
	}
	return w.newFunction(site.Decl.Func)
}

// newFunction creates a function object for child. The object carries
// the C function, the closure cells child captures (each taken from
// this function's own bindings or closure array) and the number of
// shape-cache slots to allocate.
func (w *funcWriter) newFunction(child *ast.Function) cir.Expr {
	flags := 0
	if child.Strict {
		flags |= abi.FuncStrict
	}
	if child.Arrow {
		flags |= abi.FuncArrow
	}
	if child.Arrow || (child.Method && !child.ClassConstructor) || child.CoroutineKind != 0 {
		child.NotConstructor = true
		flags |= abi.FuncNotConstructor
	}
	if child.ClassConstructor {
		flags |= abi.FuncClassCtor
	}
	if child.Derived {
		flags |= abi.FuncDerived
	}
	if child.Method {
		flags |= abi.FuncMethod
	}
	child.Length = expectedArgs(child.Node.Params)

	newShape := cir.Expr(cir.Undefined)
	if child.NewShape != nil {
		newShape = cir.K(child.NewShape.CName)
	}
	args := []cir.Expr{
		cir.R(child.CName),
		w.lit(child.Name, false),
		cir.K(abi.FuncFlagsString(flags)),
		cir.K(fmt.Sprint(child.Length)),
		cir.K(fmt.Sprint(child.ShapeCacheCount)),
		newShape,
		cir.K(fmt.Sprint(len(child.Closures))),
	}
	for _, d := range child.Closures {
		args = append(args, w.cell(d))
	}
	f := cir.Expr(cir.CE(abi.FnNewFunc, args...))
	if child.CoroutineKind != 0 {
		f = cir.CE(abi.FnNewCoroutine, f, cir.K(fmt.Sprint(child.CoroutineKind)))
	}
	return f
}

// expectedArgs is the length of a function: the number of plain
// identifier parameters before the first pattern, default or rest.
func expectedArgs(params []*ast.Node) int {
	for i, p := range params {
		if p.Kind != ast.Identifier {
			return i
		}
	}
	return len(params)
}
