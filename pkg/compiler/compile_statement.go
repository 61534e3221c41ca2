package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// jumpTarget is a statement that break or continue can leave: a loop,
// a switch or a labeled statement.
type jumpTarget struct {
	labels []string
	loop   bool // continue may target it
	plain  bool // an unlabeled break may target it
	brk    string
	cont   string

	brkUsed  bool
	contUsed bool

	// depth is the number of exit frames open at the target; a jump
	// unwinds the frames above it.
	depth int
}

func (t *jumpTarget) named(label string) bool {
	for _, l := range t.labels {
		if l == label {
			return true
		}
	}
	return false
}

func (w *funcWriter) pushTarget(loop, plain bool) *jumpTarget {
	id := w.ctx.NextID()
	t := &jumpTarget{
		labels: w.takeLabels(),
		loop:   loop,
		plain:  plain,
		brk:    fmt.Sprintf("brk_%d", id),
		cont:   fmt.Sprintf("cont_%d", id),
		depth:  len(w.frames),
	}
	w.targets = append(w.targets, t)
	return t
}

func (w *funcWriter) popTarget() {
	w.targets = w.targets[:len(w.targets)-1]
}

// takeLabels hands the pending source labels to the statement being
// written.
func (w *funcWriter) takeLabels() []string {
	labels := w.labels
	w.labels = nil
	return labels
}

// findTarget resolves the target of break or continue.
func (w *funcWriter) findTarget(n *ast.Node, cont bool) *jumpTarget {
	for i := len(w.targets) - 1; i >= 0; i-- {
		t := w.targets[i]
		switch {
		case n.Name == "":
			if (cont && t.loop) || (!cont && t.plain) {
				return t
			}
		case t.named(n.Name):
			if cont && !t.loop {
				w.fail(n, "continue target '%s' is not a loop", n.Name)
				return nil
			}
			return t
		}
	}
	switch {
	case n.Name != "":
		w.fail(n, "label '%s' not found", n.Name)
	case cont:
		w.fail(n, "continue statement not within a loop")
	default:
		w.fail(n, "break statement not within a loop or switch")
	}
	return nil
}

func (w *funcWriter) breakTo(t *jumpTarget) cir.Stmt {
	t.brkUsed = true
	return &cir.Goto{Label: t.brk}
}

// endLoop closes a loop body: the continue label, if used, goes last.
func (w *funcWriter) endLoop(t *jumpTarget) {
	if t.contUsed {
		w.emit(&cir.Label{Name: t.cont})
	}
}

// exitIf leaves the loop when the condition is false. A condition that
// is constant true needs no test.
func (w *funcWriter) exitIf(test cir.Expr, t *jumpTarget) {
	if r, ok := test.(*cir.Raw); ok && r.Const && r.Text == "1" {
		return
	}
	w.emit(&cir.If{Cond: cir.Not(test), Then: w.breakTo(t)})
}

// stmt writes one statement into the innermost open block.
func (w *funcWriter) stmt(n *ast.Node) {
	if n == nil || w.failed() {
		return
	}
	if n.Kind != ast.LabeledStatement && !n.Kind.IsLoop() && n.Kind != ast.SwitchStatement {
		w.labels = nil
	}
	switch n.Kind {
	case ast.EmptyStatement, ast.DebuggerStatement:
	case ast.ExpressionStatement:
		w.lineComment(n)
		w.effect(w.discard(n.Expression))
	case ast.VariableDeclaration:
		w.lineComment(n)
		w.variableDeclaration(n)
	case ast.FunctionDeclaration:
		w.functionDeclaration(n)
	case ast.ClassDeclaration:
		w.lineComment(n)
		w.effect(cir.Set(w.storage(n.ID.Resolved()), w.class(n)))
	case ast.BlockStatement:
		w.emit(w.block(n))
	case ast.IfStatement:
		w.lineComment(n)
		w.ifStatement(n)
	case ast.WhileStatement:
		w.lineComment(n)
		w.whileStatement(n)
	case ast.DoWhileStatement:
		w.lineComment(n)
		w.doWhileStatement(n)
	case ast.ForStatement:
		w.lineComment(n)
		w.forStatement(n)
	case ast.ForInStatement, ast.ForOfStatement:
		w.lineComment(n)
		w.forEachStatement(n)
	case ast.SwitchStatement:
		w.lineComment(n)
		w.switchStatement(n)
	case ast.LabeledStatement:
		w.labeledStatement(n)
	case ast.BreakStatement:
		w.lineComment(n)
		if t := w.findTarget(n, false); t != nil {
			w.jump(t, false)
		}
	case ast.ContinueStatement:
		w.lineComment(n)
		if t := w.findTarget(n, true); t != nil {
			w.jump(t, true)
		}
	case ast.ReturnStatement:
		w.lineComment(n)
		v := cir.Expr(cir.Undefined)
		if n.Argument != nil {
			v = w.expr(n.Argument)
		}
		w.ret(v)
	case ast.ThrowStatement:
		w.lineComment(n)
		w.effect(cir.CE(abi.FnThrow, w.expr(n.Argument)))
	case ast.TryStatement:
		w.lineComment(n)
		w.tryStatement(n)
	case ast.WithStatement:
		w.lineComment(n)
		w.withStatement(n)
	default:
		w.fail(n, "unexpected %s in statement position", n.Kind)
	}
}

// block writes a statement as a C block of its own, declaring the
// bindings of the scope it opens.
func (w *funcWriter) block(n *ast.Node) *cir.Block {
	saved := w.open()
	if n.Kind == ast.BlockStatement {
		if opensScope(n) {
			w.declareScope(n.Scope)
		}
		for _, st := range n.List {
			w.stmt(st)
		}
	} else {
		w.stmt(n)
	}
	return w.close(saved)
}

func (w *funcWriter) variableDeclaration(n *ast.Node) {
	for _, d := range n.List {
		switch {
		case d.Init != nil:
			if d.ID.Kind == ast.Identifier {
				w.effect(w.destructure(d.ID, w.expr(d.Init), refInit))
				continue
			}
			t := w.temp()
			w.effect(cir.Comma(cir.Set(t, w.expr(d.Init)), w.destructure(d.ID, t, refInit)))
		case n.VarKind != ast.DeclVar:
			// `let x;` ends the dead zone, and resets x each time a loop
			// body runs it again
			w.effect(w.destructure(d.ID, cir.Undefined, refInit))
		}
	}
}

// functionDeclaration stores a hoisted function in its binding. In a
// non-strict block the function-scope var of the same name receives the
// value too.
func (w *funcWriter) functionDeclaration(site *ast.Node) {
	if !site.Detached() {
		w.fail(site, "function at this position was not extracted")
		return
	}
	d := site.ID.Resolved()
	w.effect(cir.Set(w.storage(d), w.newFunction(site.Decl.Func)))
	if alias := w.ctx.blockFuncVars[site]; alias != nil {
		w.effect(cir.Set(w.storage(alias.Resolved()), w.storage(d)))
	}
}

func (w *funcWriter) ifStatement(n *ast.Node) {
	test := w.test(n.Test)
	s := &cir.If{Cond: test, Then: w.block(n.Consequent)}
	if n.Alternate != nil {
		s.Else = w.block(n.Alternate)
	}
	w.emit(s)
}

func (w *funcWriter) whileStatement(n *ast.Node) {
	t := w.pushTarget(true, true)
	saved := w.open()
	w.exitIf(w.test(n.Test), t)
	w.stmt(n.Body)
	w.endLoop(t)
	w.emit(&cir.Loop{Body: w.close(saved)})
	w.popTarget()
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
	}
}

func (w *funcWriter) doWhileStatement(n *ast.Node) {
	t := w.pushTarget(true, true)
	saved := w.open()
	w.stmt(n.Body)
	w.endLoop(t)
	w.exitIf(w.test(n.Test), t)
	w.emit(&cir.Loop{Body: w.close(saved)})
	w.popTarget()
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
	}
}

// forStatement writes a for loop. Captured let bindings of the head get
// a fresh cell for every iteration, holding the value the previous
// iteration ended with, so closures created in different iterations see
// different bindings.
func (w *funcWriter) forStatement(n *ast.Node) {
	labels := w.takeLabels()
	outer := w.open()
	var copies []cir.Stmt
	if opensScope(n) {
		w.declareScope(n.Scope)
		for _, d := range w.scopeDecls[n.Scope] {
			if d.IsClosure {
				cell := cir.R(w.name(d))
				copies = append(copies, cir.Stmt1(cir.Set(cell, cir.CE(abi.FnNewCell, cir.R("*"+w.name(d))))))
			}
		}
	}
	if init := n.Init; init != nil {
		if init.Kind == ast.VariableDeclaration {
			w.variableDeclaration(init)
		} else {
			w.effect(w.discard(init))
		}
	}
	w.emit(copies...)

	w.labels = labels
	t := w.pushTarget(true, true)
	inner := w.open()
	if n.Test != nil {
		w.exitIf(w.test(n.Test), t)
	}
	w.stmt(n.Body)
	w.endLoop(t)
	w.emit(copies...)
	if n.Update != nil {
		w.effect(w.discard(n.Update))
	}
	w.emit(&cir.Loop{Body: w.close(inner)})
	w.popTarget()
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
	}
	w.emit(w.close(outer))
}

// forEachStatement writes for-in and for-of over the three-slot iterator
// protocol. The loop binding is declared inside the body block, so each
// iteration gets its own. Leaving a for-of early closes its iterator;
// running out of values does not.
func (w *funcWriter) forEachStatement(n *ast.Node) {
	labels := w.takeLabels()
	outer := w.open()
	it := w.temps.AllocArray("it", 3)
	w.ctx.Stats.Temps++
	src := w.expr(n.Right)
	ofLoop := n.Kind == ast.ForOfStatement
	if ofLoop {
		w.effect(cir.CE(abi.FnGetIter, src, it))
		w.frames = append(w.frames, &exitFrame{kind: frameIter, name: it})
	} else {
		w.effect(cir.CE(abi.FnGetKeys, src, it))
	}
	done := fmt.Sprintf("done_%d", w.ctx.NextID())

	w.labels = labels
	t := w.pushTarget(true, true)
	inner := w.open()
	if opensScope(n) {
		w.declareScope(n.Scope)
	}
	w.emit(&cir.If{Cond: cir.Not(cir.CE(abi.FnNextIter, it)), Then: &cir.Goto{Label: done}})
	current := cir.R(it.Text + "[2]")
	if left := n.Left; left.Kind == ast.VariableDeclaration {
		w.effect(w.destructure(left.List[0].ID, current, refInit))
	} else {
		w.effect(w.destructure(left, current, refAssign))
	}
	w.stmt(n.Body)
	w.endLoop(t)
	w.emit(&cir.Loop{Body: w.close(inner)})
	w.popTarget()
	if ofLoop {
		w.frames = w.frames[:len(w.frames)-1]
	}
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
		if ofLoop {
			w.effect(cir.CE(abi.FnCloseIter, it))
		}
	}
	w.emit(&cir.Label{Name: done})
	w.emit(w.close(outer))
}

// switchStatement compares the discriminant with each case test in
// order using strict equality, then jumps into the case bodies, which
// follow one another so execution falls through.
func (w *funcWriter) switchStatement(n *ast.Node) {
	labels := w.takeLabels()
	outer := w.open()
	d := w.temp()
	w.effect(cir.Set(d, w.expr(n.Discriminant)))
	if opensScope(n) {
		w.declareScope(n.Scope)
	}
	for _, c := range n.List {
		for _, st := range c.List {
			if st.Kind == ast.FunctionDeclaration {
				w.functionDeclaration(st)
			}
		}
	}

	w.labels = labels
	t := w.pushTarget(false, true)
	id := w.ctx.NextID()
	caseLabel := func(i int) string { return fmt.Sprintf("case_%d_%d", id, i) }
	dflt := ""
	for i, c := range n.List {
		if c.Test == nil {
			dflt = caseLabel(i)
			continue
		}
		w.emit(&cir.If{Cond: w.strictEq(d, w.expr(c.Test)), Then: &cir.Goto{Label: caseLabel(i)}})
	}
	if dflt != "" {
		w.emit(&cir.Goto{Label: dflt})
	} else {
		w.emit(w.breakTo(t))
	}
	for i, c := range n.List {
		w.emit(&cir.Label{Name: caseLabel(i)})
		for _, st := range c.List {
			if st.Kind != ast.FunctionDeclaration {
				w.stmt(st)
			}
		}
	}
	w.popTarget()
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
	}
	w.emit(w.close(outer))
}

// labeledStatement collects the labels of a statement. Loops and
// switches adopt them; any other statement gets a break target of its
// own that only a labeled break reaches.
func (w *funcWriter) labeledStatement(n *ast.Node) {
	w.labels = append(w.labels, n.Name)
	body := n.Body
	if body.Kind == ast.LabeledStatement || body.Kind.IsLoop() || body.Kind == ast.SwitchStatement {
		w.stmt(body)
		return
	}
	t := w.pushTarget(false, false)
	w.stmt(body)
	w.popTarget()
	if t.brkUsed {
		w.emit(&cir.Label{Name: t.brk})
	}
}
