package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// refMode says how a reference is going to be used.
type refMode int

const (
	refAssign   refMode = iota // plain assignment: set only
	refCompound                // read, then write back
	refInit                    // initialization of a declaration, const allowed
)

// lvalue is an assignment target whose object and key, if any, have
// already been evaluated by pre.
type lvalue struct {
	pre []cir.Expr
	get func() cir.Expr
	// set stores v and yields it.
	set func(v cir.Expr) cir.Expr
}

func (lv *lvalue) with(e cir.Expr) cir.Expr {
	return cir.Comma(append(append([]cir.Expr(nil), lv.pre...), e)...)
}

// reference evaluates the parts of an assignment target. at is the node
// errors are reported at.
func (w *funcWriter) reference(target, at *ast.Node, mode refMode) *lvalue {
	switch target.Kind {
	case ast.Identifier:
		return w.identifierRef(target, at, mode)
	case ast.MemberExpression:
		return w.memberRef(target, mode)
	}
	w.fail(at, "invalid assignment target")
	return &lvalue{
		get: func() cir.Expr { return cir.Undefined },
		set: func(v cir.Expr) cir.Expr { return v },
	}
}

func (w *funcWriter) identifierRef(id, at *ast.Node, mode refMode) *lvalue {
	if withAffectedIdent(id) {
		name := w.lit(id.Name, true)
		fallback := w.withFallback(id)
		return &lvalue{
			get: func() cir.Expr { return cir.CE(abi.FnWithGet, name, fallback) },
			set: func(v cir.Expr) cir.Expr { return cir.CE(abi.FnWithSet, name, fallback, v) },
		}
	}
	d := id.Decl
	if d == nil {
		w.fail(id, "unresolved identifier '%s'", id.Name)
		d = id
	}
	if mode != refInit {
		switch d.DeclKind {
		case ast.DeclConst:
			w.fail(at, "assignment to constant variable '%s'", id.Name)
		case ast.DeclSelf:
			// the name of a function expression is read-only
			return &lvalue{
				get: func() cir.Expr { return w.load(d) },
				set: func(v cir.Expr) cir.Expr {
					if !w.fn.Strict {
						return v
					}
					msg := w.lit("assignment to constant variable '"+id.Name+"'", false)
					return cir.Comma(cir.CE(abi.FnThrowTyp, msg), v)
				},
			}
		}
	}
	return &lvalue{
		get: func() cir.Expr { return w.load(d) },
		set: func(v cir.Expr) cir.Expr { return cir.Set(w.storage(d), v) },
	}
}

func (w *funcWriter) memberRef(n *ast.Node, mode refMode) *lvalue {
	strict := cir.K("0")
	if w.fn.Strict {
		strict = cir.K("1")
	}
	if isGlobalMember(n) {
		name := cir.K(n.Property.CName)
		return &lvalue{
			get: func() cir.Expr { return cir.CE(abi.FnGetGlobal, name, cir.K("1")) },
			set: func(v cir.Expr) cir.Expr { return cir.CE(abi.FnSetGlobal, name, v, strict) },
		}
	}

	lv := &lvalue{}
	if n.Object.Kind == ast.Super {
		home := w.load(n.Object.Decl)
		key := w.propertyKey(n)
		if !cir.IsConst(key) {
			t := w.temp()
			lv.pre = append(lv.pre, cir.Set(t, key))
			key = t
		}
		this := w.fn.NonArrow().This
		lv.get = func() cir.Expr { return cir.CE(abi.FnGetSuper, home, key, w.load(this)) }
		lv.set = func(v cir.Expr) cir.Expr {
			set, v := w.reusable(v)
			return cir.Comma(set, cir.CE(abi.FnSetSuper, home, key, v, w.load(this)))
		}
		return lv
	}

	o := w.expr(n.Object)
	if !cir.IsConst(o) {
		t := w.temp()
		lv.pre = append(lv.pre, cir.Set(t, o))
		o = t
	}
	if _, named := namedKey(n); named {
		key := w.propertyKey(n)
		lv.get = func() cir.Expr { return w.getFrom(n, o) }
		lv.set = func(v cir.Expr) cir.Expr {
			set, v := w.reusable(v)
			return cir.Comma(set, w.setCached(n, o, key, v))
		}
		return lv
	}

	k := w.propertyKey(n)
	if mode == refCompound && !cir.IsConst(k) {
		// the key is converted once for the read and the write
		k = cir.CE(abi.FnToPropKey, k)
	}
	if !cir.IsConst(k) {
		t := w.temp()
		lv.pre = append(lv.pre, cir.Set(t, k))
		k = t
	}
	lv.get = func() cir.Expr { return w.getIndex(o, k) }
	lv.set = func(v cir.Expr) cir.Expr {
		set, v := w.reusable(v)
		return cir.Comma(set, w.setIndex(o, k, v))
	}
	return lv
}

// assign writes an assignment expression. When want is false the value
// of the expression is not needed.
func (w *funcWriter) assign(n *ast.Node, want bool) cir.Expr {
	op := n.Operator
	left := n.Left
	if op == "=" {
		if left.Kind == ast.ArrayPattern || left.Kind == ast.ObjectPattern {
			t := w.temp()
			return cir.Comma(cir.Set(t, w.expr(n.Right)), w.destructure(left, t, refAssign), t)
		}
		lv := w.reference(left, n, refAssign)
		return lv.with(lv.set(w.expr(n.Right)))
	}

	lv := w.reference(left, n, refCompound)
	switch op {
	case "&&=", "||=", "??=":
		t := w.temp()
		cur := cir.Set(t, lv.get())
		store := lv.set(w.expr(n.Right))
		var out cir.Expr
		switch op {
		case "&&=":
			out = cir.Ternary(cir.CE(abi.FnIsTruthy, cur), store, t)
		case "||=":
			out = cir.Ternary(cir.CE(abi.FnIsTruthy, cur), t, store)
		default:
			out = cir.Ternary(cir.C(abi.FnIsNullish, cur), store, t)
		}
		return lv.with(out)
	}
	binop := op[:len(op)-1]
	return lv.with(lv.set(w.arith(n, binop, lv.get(), w.expr(n.Right))))
}

// update writes ++ and --. The old value is converted to a numeric
// first; a postfix expression whose value is used yields that numeric.
func (w *funcWriter) update(n *ast.Node, want bool) cir.Expr {
	lv := w.reference(n.Argument, n, refCompound)
	delta := "+"
	if n.Operator == "--" {
		delta = "-"
	}
	old, next := w.temp(), w.temp()
	fetch := cir.Set(old, lv.get())
	fast := cir.Set(next, boxNumber(cir.Bin(delta, cir.RawNum(old), cir.K("1.0"))))
	slow := cir.Comma(
		cir.Set(old, cir.CE(abi.FnToNumeric, old)),
		cir.Set(next, cir.CE(abi.FnUnop, cir.K(abi.UnopCodes[n.Operator]), old)))
	compute := cir.Ternary(&cir.Likely{X: cir.IsNumber(fetch)}, fast, slow)
	result := cir.Expr(next)
	if want && !n.Prefix {
		result = old
	}
	return lv.with(cir.Comma(compute, lv.set(next), result))
}
