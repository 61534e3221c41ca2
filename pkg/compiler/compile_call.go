package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// Calls pass their arguments on the value stack. A call whose area
// starts at slot b stores argument i in stk_ptr[b+1+i] and hands
// stk_ptr+b to the callee, which keeps its own function value in slot 0
// of that area. Values held across the argument writes (the function
// and this) live in temporaries.

// call writes a call expression.
func (w *funcWriter) call(n *ast.Node) cir.Expr {
	callee := n.Callee
	if callee.Kind == ast.Super {
		return w.superCall(n)
	}
	if !n.Optional && !hasSpread(n.List) {
		switch {
		case isGlobalMember(callee):
			b := w.stk
			stores := w.pushArgs(n.List, b)
			return cir.Comma(append(stores,
				cir.CE(abi.FnCallGlobal, cir.K(callee.Property.CName), stackArea(b), argCount(len(n.List))))...)
		case withAffectedIdent(callee):
			// a function found in a with object is called with that
			// object as this
			b := w.stk
			stores := w.pushArgs(n.List, b)
			return cir.Comma(append(stores,
				cir.CE(abi.FnCallWith, w.lit(callee.Name, true), w.withFallback(callee),
					stackArea(b), argCount(len(n.List))))...)
		}
	}
	name := w.calleeName(callee)
	return w.withCallee(n, callee, func(f, this cir.Expr) cir.Expr {
		if hasSpread(n.List) {
			set, arr := w.spreadArgs(n.List)
			return cir.Comma(append(set, cir.CE(abi.FnApply, f, this, arr))...)
		}
		b := w.stk
		stores := w.pushArgs(n.List, b)
		return cir.Comma(append(stores, w.invoke(f, this, name, b, len(n.List)))...)
	})
}

// withCallee evaluates a callee and the this value it implies, then
// hands both to invoke. A member callee passes its object as this, and
// so does a name found in a with object. In an optional chain the `?.`
// of n itself tests the function value.
func (w *funcWriter) withCallee(n, callee *ast.Node, invoke func(f, this cir.Expr) cir.Expr) cir.Expr {
	flag := w.chain
	if withAffectedIdent(callee) {
		this := w.temp()
		ref := cir.CE(abi.FnWithRef, w.lit(callee.Name, true), w.withFallback(callee), cir.R("&"+cir.String(this)))
		return cir.Comma(cir.Set(this, cir.Undefined), w.link(n, ref, true, func(f cir.Expr) cir.Expr {
			return invoke(f, this)
		}))
	}
	if callee.Kind != ast.MemberExpression || isGlobalMember(callee) {
		return w.link(n, w.expr(callee), true, func(f cir.Expr) cir.Expr {
			return invoke(f, cir.Undefined)
		})
	}
	if callee.Object.Kind == ast.Super {
		w.chain = nil
		defer func() { w.chain = flag }()
		this, f := w.temp(), w.temp()
		return cir.Comma(
			cir.Set(this, w.load(w.fn.NonArrow().This)),
			cir.Set(f, w.superGet(callee)),
			guard(n, flag, f, invoke(f, this)))
	}
	base := w.expr(callee.Object)
	return w.link(callee, base, true, func(o cir.Expr) cir.Expr {
		f := w.temp()
		return cir.Comma(cir.Set(f, w.getFrom(callee, o)), guard(n, flag, f, invoke(f, o)))
	})
}

// invoke calls f with argc arguments already stored in the area at b.
// A compiled function is entered through its C pointer; anything else
// goes through the runtime, which also reports a callee that is not
// callable by name.
func (w *funcWriter) invoke(f, this, name cir.Expr, b, argc int) cir.Expr {
	n := argCount(argc)
	direct := &cir.CallPtr{
		Fn:   cir.C(abi.FnFuncPtr, f),
		Args: []cir.Expr{cir.Env, f, this, stackArea(b), n},
	}
	slow := cir.CE(abi.FnCallValue, f, this, stackArea(b), n, name)
	return cir.Ternary(&cir.Likely{X: cir.C(abi.FnIsFunc, f)}, direct, slow)
}

func argCount(n int) cir.Expr {
	return cir.K(fmt.Sprint(n))
}

// calleeName is the name a "not a function" error reports.
func (w *funcWriter) calleeName(callee *ast.Node) cir.Expr {
	switch callee.Kind {
	case ast.Identifier:
		return w.lit(callee.Name, true)
	case ast.MemberExpression:
		if !callee.Computed {
			return w.propertyKey(callee)
		}
	}
	return cir.Undefined
}

// pushArgs writes the stores of the arguments of a call whose area
// starts at b. Calls nested in argument i use the area starting at its
// own slot.
func (w *funcWriter) pushArgs(list []*ast.Node, b int) []cir.Expr {
	saved := w.stk
	defer func() { w.stk = saved }()
	stores := make([]cir.Expr, 0, len(list))
	for i, arg := range list {
		w.stk = b + 1 + i
		stores = append(stores, cir.Set(stackSlot(b+1+i), w.expr(arg)))
	}
	return stores
}

// spreadArgs collects arguments that include a spread into an array.
func (w *funcWriter) spreadArgs(list []*ast.Node) ([]cir.Expr, cir.Expr) {
	arr := w.temp()
	out := []cir.Expr{cir.Set(arr, cir.CE(abi.FnNewArr, cir.K("0")))}
	for _, arg := range list {
		if arg.Kind == ast.SpreadElement {
			out = append(out, cir.CE(abi.FnArrSpread, arr, w.expr(arg.Argument)))
		} else {
			out = append(out, cir.CE(abi.FnArrPush, arr, w.expr(arg)))
		}
	}
	return out, arr
}

// construct writes `new C(args)`.
func (w *funcWriter) construct(n *ast.Node) cir.Expr {
	c := w.temp()
	pre := []cir.Expr{cir.Set(c, w.expr(n.Callee))}
	if hasSpread(n.List) {
		set, arr := w.spreadArgs(n.List)
		return cir.Comma(append(append(pre, set...), cir.CE(abi.FnConstructArr, c, arr, c))...)
	}
	b := w.stk
	pre = append(pre, w.pushArgs(n.List, b)...)
	return cir.Comma(append(pre, cir.CE(abi.FnConstruct, c, stackArea(b), argCount(len(n.List)), c))...)
}

// superCall writes super(args) in a derived constructor. The parent
// constructor is looked up before the arguments are evaluated; its
// result becomes this, which may be bound only once.
func (w *funcWriter) superCall(n *ast.Node) cir.Expr {
	owner := w.fn.NonArrow()
	c := w.temp()
	pre := []cir.Expr{cir.Set(c, cir.CE(abi.FnSuperCtor, w.load(n.Callee.Decl)))}
	newTarget := w.load(owner.NewTarget)
	var made cir.Expr
	if hasSpread(n.List) {
		set, arr := w.spreadArgs(n.List)
		pre = append(pre, set...)
		made = cir.CE(abi.FnConstructArr, c, arr, newTarget)
	} else {
		b := w.stk
		pre = append(pre, w.pushArgs(n.List, b)...)
		made = cir.CE(abi.FnConstruct, c, stackArea(b), argCount(len(n.List)), newTarget)
	}
	r := w.temp()
	this := w.storage(owner.This)
	unbound := cir.R("(" + abi.CIsDeleted(cir.String(this)) + ")")
	bind := cir.Ternary(&cir.Likely{X: unbound}, cir.Set(this, r),
		cir.Comma(cir.CE(abi.FnThrowRef, w.lit("this", true)), r))
	return cir.Comma(append(pre, cir.Set(r, made), bind)...)
}

// taggedTemplate calls the tag with the site's strings array followed
// by the substitutions. The strings array is created once per site and
// cached in a static.
func (w *funcWriter) taggedTemplate(n *ast.Node) cir.Expr {
	quasi := n.Argument
	site := fmt.Sprintf("tpl_%d", w.ctx.NextID())
	w.ctx.templates = append(w.ctx.templates, site)

	parts := []cir.Expr{cir.R("&" + site), cir.K(fmt.Sprint(len(quasi.Quasis)))}
	for i, q := range quasi.Quasis {
		if quasi.Invalid[i] {
			parts = append(parts, cir.Undefined)
		} else {
			parts = append(parts, w.lit(q, false))
		}
	}
	for _, q := range quasi.RawQuasis {
		parts = append(parts, w.lit(q, false))
	}

	name := w.calleeName(n.Callee)
	return w.withCallee(n, n.Callee, func(f, this cir.Expr) cir.Expr {
		b := w.stk
		stores := []cir.Expr{cir.Set(stackSlot(b+1), cir.CE(abi.FnTemplate, parts...))}
		saved := w.stk
		for i, sub := range quasi.List {
			w.stk = b + 2 + i
			stores = append(stores, cir.Set(stackSlot(b+2+i), w.expr(sub)))
		}
		w.stk = saved
		return cir.Comma(append(stores, w.invoke(f, this, name, b, 1+len(quasi.List)))...)
	})
}
