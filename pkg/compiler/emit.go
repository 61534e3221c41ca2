package compiler

import (
	"fmt"
	"strings"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// Debug flag for code generation tracing
const debugEmit = false

// funcWriter writes the C function of one script function. Expression
// writers return cir trees; statement writers append to the innermost
// open block.
type funcWriter struct {
	ctx   *Context
	fn    *ast.Function
	temps *TempAllocator

	body []cir.Stmt // statements of the innermost open block

	// stk is the first free slot of the outgoing call area. A call whose
	// area starts at stk stores argument i at stk+1+i, and a call nested
	// in that argument starts at stk+1+i.
	stk int

	// chain is the short-circuit flag of the optional chain being
	// written, nil outside a chain.
	chain *cir.Raw

	frames  []*exitFrame
	targets []*jumpTarget
	labels  []string // source labels waiting for the statement they name

	scopeDecls map[*ast.Scope][]*ast.Node
	retTemp    *cir.Raw
}

func newFuncWriter(ctx *Context, fn *ast.Function) *funcWriter {
	w := &funcWriter{
		ctx:        ctx,
		fn:         fn,
		temps:      NewTempAllocator(ctx.NextID),
		scopeDecls: make(map[*ast.Scope][]*ast.Node),
	}
	for _, d := range fn.Lexicals {
		if d.Decl == d {
			w.scopeDecls[d.Scope] = append(w.scopeDecls[d.Scope], d)
		}
	}
	return w
}

// fail records an error at n and returns a placeholder so writers can
// unwind normally.
func (w *funcWriter) fail(n *ast.Node, format string, args ...interface{}) cir.Expr {
	w.ctx.NewCompileError(n, format, args...)
	return cir.Undefined
}

func (w *funcWriter) failed() bool {
	return w.ctx.Failed()
}

// --- blocks and temporaries ---

// open starts a C block and returns the statement list of the enclosing
// one, to be handed back to close.
func (w *funcWriter) open() []cir.Stmt {
	w.temps.Push()
	saved := w.body
	w.body = nil
	return saved
}

// close ends the block started by the matching open. Temporaries
// allocated while it was open are declared at its top.
func (w *funcWriter) close(saved []cir.Stmt) *cir.Block {
	b := &cir.Block{Body: w.body}
	b.Decls = w.temps.Pop()
	w.body = saved
	return b
}

func (w *funcWriter) emit(stmts ...cir.Stmt) {
	w.body = append(w.body, stmts...)
}

func (w *funcWriter) effect(e cir.Expr) {
	if e == nil || cir.IsConst(e) {
		return
	}
	if r, ok := e.(*cir.Raw); ok && !strings.Contains(r.Text, "(") {
		// a plain variable read has no effect
		return
	}
	w.emit(cir.Stmt1(e))
}

// temp allocates a js_val temporary in the innermost block.
func (w *funcWriter) temp() *cir.Raw {
	w.ctx.Stats.Temps++
	return w.temps.Alloc()
}

func (w *funcWriter) tempOf(typ, prefix string) *cir.Raw {
	w.ctx.Stats.Temps++
	return w.temps.AllocTyped(typ, prefix)
}

// simple reports whether e is a variable read or constant: reading it
// has no side effects, so it may be evaluated at any point.
func simple(e cir.Expr) bool {
	switch e := e.(type) {
	case *cir.Raw:
		return true
	case *cir.Call:
		return cir.IsConst(e)
	}
	return false
}

// ordered fixes the evaluation order of values that end up as arguments
// of one C call, where argument order is unspecified. Every value but
// the last that is not constant is evaluated into a temporary by the
// returned prefix, unless none of the values has side effects.
func (w *funcWriter) ordered(list ...cir.Expr) ([]cir.Expr, []cir.Expr) {
	allSimple := true
	for _, e := range list {
		if !simple(e) {
			allSimple = false
			break
		}
	}
	if allSimple {
		return nil, list
	}
	var pre []cir.Expr
	vals := make([]cir.Expr, len(list))
	for i, e := range list {
		if i == len(list)-1 || cir.IsConst(e) {
			vals[i] = e
			continue
		}
		t := w.temp()
		pre = append(pre, cir.Set(t, e))
		vals[i] = t
	}
	return pre, vals
}

// operands is ordered for values that a fast path reads more than once:
// every value that is not already a variable or constant gets a
// temporary.
func (w *funcWriter) operands(list ...cir.Expr) ([]cir.Expr, []cir.Expr) {
	pre, vals := w.ordered(list...)
	for i, v := range vals {
		if _, ok := v.(*cir.Raw); ok || cir.IsConst(v) {
			continue
		}
		t := w.temp()
		pre = append(pre, cir.Set(t, v))
		vals[i] = t
	}
	return pre, vals
}

// reusable returns v in a form that can be read twice, with the
// assignment that puts it there, if any.
func (w *funcWriter) reusable(v cir.Expr) (cir.Expr, cir.Expr) {
	if _, ok := v.(*cir.Raw); ok || cir.IsConst(v) {
		return nil, v
	}
	t := w.temp()
	return cir.Set(t, v), t
}

// --- names and storage ---

// cIdent turns a script name into characters a C identifier may hold.
func cIdent(name string) string {
	if name == "" {
		return "anon"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '$':
			b.WriteString("S_")
		default:
			fmt.Fprintf(&b, "u%X_", r)
		}
	}
	return b.String()
}

// name returns the C name of a declaration, assigning it on first use.
// Captured declarations live in heap cells and their names are pointers.
func (w *funcWriter) name(d *ast.Node) string {
	if d.CName != "" {
		return d.CName
	}
	if d.DeclKind == ast.DeclFuncValue && !d.IsClosure {
		return d.SetCName("func_val")
	}
	base := cIdent(d.Name)
	switch d.DeclKind {
	case ast.DeclThis:
		base = "this"
	case ast.DeclNewTarget:
		base = "newtarget"
	case ast.DeclFuncValue:
		base = "func"
	}
	prefix := "j_"
	if d.IsClosure {
		prefix = "c_"
	}
	name := fmt.Sprintf("%s%s_%d", prefix, base, w.ctx.NextID())
	if debugEmit {
		fmt.Printf("// [Emit] %s %q -> %s\n", d.DeclKind, d.Name, name)
	}
	return d.SetCName(name)
}

// storage returns the js_val lvalue holding a declaration.
func (w *funcWriter) storage(d *ast.Node) cir.Expr {
	if d.Owner == w.fn {
		name := w.name(d)
		if d.IsClosure {
			return cir.R("(*" + name + ")")
		}
		return cir.R(name)
	}
	i, ok := w.fn.ClosureIndex(d)
	if !ok {
		return w.fail(d, "'%s' is not captured by %s", d.Name, w.fn.CName)
	}
	return cir.R(fmt.Sprintf("(*closures[%d])", i))
}

// cell returns a js_val pointer to the storage of a declaration.
func (w *funcWriter) cell(d *ast.Node) cir.Expr {
	if d.Owner == w.fn {
		if d.IsClosure {
			return cir.R(w.name(d))
		}
		return cir.R("&" + w.name(d))
	}
	i, ok := w.fn.ClosureIndex(d)
	if !ok {
		return w.fail(d, "'%s' is not captured by %s", d.Name, w.fn.CName)
	}
	return cir.R(fmt.Sprintf("closures[%d]", i))
}

// load reads a declaration. A lexical binding read from a nested
// function may still be uninitialized; this of a derived constructor is
// uninitialized until super() returns.
func (w *funcWriter) load(d *ast.Node) cir.Expr {
	v := w.storage(d)
	switch {
	case d.DeclKind == ast.DeclThis && d.Owner.Derived:
		return cir.CE(abi.FnCheckThis, v)
	case d.Owner != w.fn && d.DeclKind.IsLexical():
		t := w.temp()
		deleted := cir.R("(" + abi.CIsDeleted(cir.String(cir.Set(t, v))) + ")")
		return cir.Ternary(&cir.Likely{X: deleted, Unlikely: true},
			cir.Comma(cir.CE(abi.FnTDZ, w.lit(d.Name, true)), t), t)
	}
	return v
}

// lit returns the literal slot of a string.
func (w *funcWriter) lit(s string, key bool) *cir.Raw {
	return cir.K(w.ctx.Literals.String(s, key))
}

// declare declares a binding in the innermost block. A captured binding
// gets a fresh heap cell each time the block is entered.
func (w *funcWriter) declare(d *ast.Node, init cir.Expr) {
	name := w.name(d)
	if d.IsClosure {
		w.temps.Declare(&cir.Decl{Type: abi.TypeVal + " *", Name: name, Init: cir.CE(abi.FnNewCell, init)})
	} else {
		w.temps.Declare(&cir.Decl{Type: abi.TypeVal, Name: name, Init: init, Volatile: d.Volatile})
	}
	if !d.Referenced {
		w.emit(&cir.RawStmt{Text: "(void)" + name + ";"})
	}
}

// declareScope declares the lexical bindings a scope introduces. They
// start out uninitialized when a nested function could observe them.
func (w *funcWriter) declareScope(sc *ast.Scope) {
	for _, d := range w.scopeDecls[sc] {
		init := cir.Undefined
		if d.IsClosure && d.DeclKind.IsLexical() {
			init = cir.K(abi.ValDeleted)
		}
		w.declare(d, init)
	}
}

// opensScope reports whether n introduced its own scope.
func opensScope(n *ast.Node) bool {
	return n.Scope != nil && n.Scope.Node == n
}

// stackSlot is the value-stack slot k of the outgoing call area.
func stackSlot(k int) cir.Expr {
	return &cir.Index{X: cir.R("stk_ptr"), I: cir.K(fmt.Sprint(k))}
}

// stackArea is the address of the call area starting at slot k.
func stackArea(k int) cir.Expr {
	if k == 0 {
		return cir.R("stk_ptr")
	}
	return cir.Bin("+", cir.R("stk_ptr"), cir.K(fmt.Sprint(k)))
}

// lineComment emits a source line marker before a statement when line
// directives are enabled.
func (w *funcWriter) lineComment(n *ast.Node) {
	if !w.ctx.Config.LineDirectives || n == nil {
		return
	}
	line, _ := w.ctx.Source.LineColumn(n.Start)
	w.emit(&cir.Comment{Text: fmt.Sprintf("line %d", line)})
}
