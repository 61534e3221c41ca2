package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// Exceptions are C longjmps. A try region registers a js_try with the
// runtime and setjmps on its jump buffer; the runtime's throw unwinds to
// the innermost registered try. Code leaving a region by any other path
// (falling off its end, break, continue or return) must unregister it
// first, and the same holds for the runtime's with stack and for open
// for-of iterators. Those obligations are tracked as exit frames.

type frameKind int

const (
	frameTry     frameKind = iota // try region: leave it
	frameWith                     // with body: pop the with object
	frameIter                     // for-of body: close the iterator
	frameFinally                  // region protected by a finally block
)

type exitFrame struct {
	kind frameKind
	name *cir.Raw // the js_try or iterator
	fin  *finallyState
}

// finallyState tracks the exits routed through one finally block. An
// exit sets pend to its code and jumps to the finalizer; the dispatch
// after the finalizer resumes it. Code 1 rethrows pendv, code 2 returns
// pendv, higher codes are pending jumps.
type finallyState struct {
	label string
	try   *cir.Raw
	pend  *cir.Raw
	pendv *cir.Raw

	returns bool
	exits   []pendingExit
}

type pendingExit struct {
	code   int
	target *jumpTarget
	cont   bool
}

const (
	pendThrow  = 1
	pendReturn = 2
)

// pending returns the code of a jump routed through the finalizer.
func (fin *finallyState) pending(t *jumpTarget, cont bool) int {
	for _, e := range fin.exits {
		if e.target == t && e.cont == cont {
			return e.code
		}
	}
	code := pendReturn + 1 + len(fin.exits)
	fin.exits = append(fin.exits, pendingExit{code: code, target: t, cont: cont})
	return code
}

func leaveTry(try *cir.Raw) cir.Stmt {
	return cir.Stmt1(cir.CE(abi.FnLeaveTry, cir.R("&"+try.Text)))
}

// enterTry is the setjmp of a try region; it is zero on entry and
// nonzero when an exception arrives.
func enterTry(try *cir.Raw) cir.Expr {
	buf := &cir.Unary{Op: "*", X: cir.CE(abi.FnEnterTry, cir.R("&"+try.Text))}
	return cir.C("setjmp", buf)
}

// unwind emits the cleanup of every frame above depth, innermost first.
// When a finally block lies on the way, the exit is handed to it: code
// picks the pending code, and the dispatch after the finalizer continues
// the unwinding. Otherwise done emits the transfer itself.
func (w *funcWriter) unwind(depth int, code func(fin *finallyState) int, done func()) {
	for i := len(w.frames) - 1; i >= depth; i-- {
		f := w.frames[i]
		switch f.kind {
		case frameTry:
			w.emit(leaveTry(f.name))
		case frameWith:
			w.effect(cir.CE(abi.FnPopWith))
		case frameIter:
			w.effect(cir.CE(abi.FnCloseIter, f.name))
		case frameFinally:
			k := code(f.fin)
			w.effect(cir.Set(f.fin.pend, cir.K(fmt.Sprint(k))))
			w.emit(leaveTry(f.fin.try), &cir.Goto{Label: f.fin.label})
			return
		}
	}
	done()
}

// jump writes break or continue to t.
func (w *funcWriter) jump(t *jumpTarget, cont bool) {
	w.unwind(t.depth, func(fin *finallyState) int {
		return fin.pending(t, cont)
	}, func() {
		if cont {
			t.contUsed = true
			w.emit(&cir.Goto{Label: t.cont})
		} else {
			w.emit(w.breakTo(t))
		}
	})
}

// ret writes a return of v.
func (w *funcWriter) ret(v cir.Expr) {
	if len(w.frames) == 0 {
		w.emit(&cir.Return{X: w.returnValue(v)})
		return
	}
	t := w.temp()
	w.effect(cir.Set(t, v))
	w.unwind(0, func(fin *finallyState) int {
		fin.returns = true
		w.effect(cir.Set(fin.pendv, t))
		return pendReturn
	}, func() {
		w.emit(&cir.Return{X: w.returnValue(t)})
	})
}

// returnValue applies the result rule of a derived constructor: an
// object replaces this, undefined yields this, which must be bound by
// then.
func (w *funcWriter) returnValue(v cir.Expr) cir.Expr {
	if w.fn.ClassConstructor && w.fn.Derived {
		return cir.CE(abi.FnDerivedRet, v, w.storage(w.fn.This))
	}
	return v
}

func (w *funcWriter) tryStatement(n *ast.Node) {
	if n.Finalizer == nil {
		w.tryCatch(n)
		return
	}
	id := w.ctx.NextID()
	outer := w.open()
	fin := &finallyState{
		label: fmt.Sprintf("fin_%d", id),
		try:   w.tempOf(abi.TypeTry, "try"),
		pend:  cir.R(fmt.Sprintf("pend_%d", id)),
		pendv: cir.R(fmt.Sprintf("pendv_%d", id)),
	}
	w.temps.Declare(&cir.Decl{Type: "int", Name: fin.pend.Text, Init: cir.K("0"), Volatile: true})
	w.temps.Declare(&cir.Decl{Type: abi.TypeVal, Name: fin.pendv.Text, Volatile: true})

	w.frames = append(w.frames, &exitFrame{kind: frameFinally, fin: fin})
	saved := w.open()
	if n.Handler != nil {
		w.tryCatch(n)
	} else {
		w.stmt(n.Block)
	}
	w.emit(leaveTry(fin.try))
	protected := w.close(saved)
	w.frames = w.frames[:len(w.frames)-1]

	caught := &cir.Block{Body: []cir.Stmt{
		cir.Stmt1(cir.Set(fin.pendv, cir.CE(abi.FnCatch, cir.R("&"+fin.try.Text)))),
		cir.Stmt1(cir.Set(fin.pend, cir.K(fmt.Sprint(pendThrow)))),
	}}
	w.emit(&cir.If{Cond: cir.Not(enterTry(fin.try)), Then: protected, Else: caught})

	w.emit(&cir.Label{Name: fin.label})
	w.emit(w.block(n.Finalizer))

	is := func(code int) cir.Expr { return cir.Bin("==", fin.pend, cir.K(fmt.Sprint(code))) }
	w.emit(&cir.If{Cond: is(pendThrow), Then: cir.Stmt1(cir.CE(abi.FnThrow, fin.pendv))})
	if fin.returns {
		saved := w.open()
		w.ret(fin.pendv)
		w.emit(&cir.If{Cond: is(pendReturn), Then: w.close(saved)})
	}
	for _, e := range fin.exits {
		saved := w.open()
		w.jump(e.target, e.cont)
		w.emit(&cir.If{Cond: is(e.code), Then: w.close(saved)})
	}
	w.emit(w.close(outer))
}

// tryCatch writes the try block and catch clause of n. Without a catch
// clause the block is written as is.
func (w *funcWriter) tryCatch(n *ast.Node) {
	if n.Handler == nil {
		w.stmt(n.Block)
		return
	}
	outer := w.open()
	try := w.tempOf(abi.TypeTry, "try")

	w.frames = append(w.frames, &exitFrame{kind: frameTry, name: try})
	saved := w.open()
	w.stmt(n.Block)
	w.emit(leaveTry(try))
	body := w.close(saved)
	w.frames = w.frames[:len(w.frames)-1]

	h := n.Handler
	saved = w.open()
	if opensScope(h) {
		w.declareScope(h.Scope)
	}
	exc := cir.CE(abi.FnCatch, cir.R("&"+try.Text))
	switch {
	case h.Param == nil:
		w.effect(exc)
	case h.Param.Kind == ast.Identifier:
		w.effect(w.destructure(h.Param, exc, refInit))
	default:
		t := w.temp()
		w.effect(cir.Comma(cir.Set(t, exc), w.destructure(h.Param, t, refInit)))
	}
	for _, st := range h.Body.List {
		w.stmt(st)
	}
	handler := w.close(saved)

	w.emit(&cir.If{Cond: cir.Not(enterTry(try)), Then: body, Else: handler})
	w.emit(w.close(outer))
}
