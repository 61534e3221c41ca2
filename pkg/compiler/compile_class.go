package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// class writes a class site as an expression yielding the constructor.
// The constructor function links to its parent through js_makeclass,
// which also creates the prototype; methods are then defined on the
// prototype, or on the constructor when static, as non-enumerable
// members whose home object is their target.
func (w *funcWriter) class(site *ast.Node) cir.Expr {
	if !site.Detached() {
		return w.fail(site, "class at this position was not extracted")
	}
	if opensScope(site) {
		// the name of a class expression, visible inside the class
		w.declareScope(site.Scope)
	}

	var list []cir.Expr
	parent := cir.Expr(cir.K(abi.ValDeleted))
	if site.SuperClass != nil {
		s := w.temp()
		list = append(list, cir.Set(s, w.expr(site.SuperClass)))
		parent = s
	}
	c := w.temp()
	list = append(list,
		cir.Set(c, w.newFunction(site.Decl.Func)),
		cir.CE(abi.FnMakeClass, c, parent))

	var proto cir.Expr
	for _, m := range site.Body.List {
		target := cir.Expr(c)
		if !m.Static {
			if proto == nil {
				p := w.temp()
				list = append(list, cir.Set(p, cir.CE(abi.FnGetProp, c, cir.K(abi.WellKnownStrings["prototype"]), cir.K("NULL"))))
				proto = p
			}
			target = proto
		}
		key, set := w.memberKey(m)
		list = append(list, set)
		fn := w.functionValue(m.Value)
		switch m.PropKind {
		case "get":
			list = append(list, cir.CE(abi.FnDefAccessor, target, key, fn, cir.K(abi.PropClass+"|"+abi.PropGetter)))
		case "set":
			list = append(list, cir.CE(abi.FnDefAccessor, target, key, fn, cir.K(abi.PropClass+"|"+abi.PropSetter)))
		default:
			list = append(list, cir.CE(abi.FnDefMethod, target, key, fn, cir.K(abi.PropClass)))
		}
	}

	if site.Kind == ast.ClassExpression && site.ID != nil {
		list = append(list, cir.Set(w.storage(site.ID), c))
	}
	return cir.Comma(append(list, c)...)
}
