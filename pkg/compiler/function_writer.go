package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// Every script function becomes a C function of this signature. The
// caller stores the arguments in stk_args[1..stk_argc]; stk_args[0] is
// set by the callee to its own function object, which marks the frame
// for the runtime's stack walks.
const funcParams = "(js_environ *env, js_val func_val, js_val this_val, js_val *stk_args, uint32_t stk_argc)"

func funcSignature(fn *ast.Function) string {
	return fmt.Sprintf("static js_val %s%s", fn.CName, funcParams)
}

// writeFunction writes the C definition of fn.
func writeFunction(ctx *Context, fn *ast.Function) string {
	w := newFuncWriter(ctx, fn)
	saved := w.open()
	w.prologue()
	body := fn.Node.Body
	for _, st := range body.List {
		w.stmt(st)
		if w.failed() {
			return ""
		}
	}
	if !endsInJump(body.List) {
		w.ret(cir.Undefined)
	}
	block := w.close(saved)

	var p cir.Printer
	if fn.Name != "" {
		p.Line("// %s", fn.Name)
	}
	p.Line("%s", funcSignature(fn))
	p.Stmt(block)
	return p.String()
}

func endsInJump(list []*ast.Node) bool {
	if len(list) == 0 {
		return false
	}
	switch list[len(list)-1].Kind {
	case ast.ReturnStatement, ast.ThrowStatement:
		return true
	}
	return false
}

// prologue sets up the frame, binds the synthetic declarations and the
// parameters, and declares the function-scope bindings.
func (w *funcWriter) prologue() {
	fn := w.fn
	if len(fn.Closures) > 0 {
		w.temps.Declare(&cir.Decl{Type: abi.TypeVal + " **", Name: "closures", Init: cir.C(abi.FnClosures, cir.R("func_val"))})
	}
	if fn.ShapeCacheCount > 0 {
		w.temps.Declare(&cir.Decl{Type: abi.TypeShapeCache + " *", Name: "shape_cache", Init: cir.C(abi.FnShapeCache, cir.R("func_val"))})
	}
	w.emit(&cir.RawStmt{Text: "stk_args[0] = func_val;"})
	w.temps.Declare(&cir.Decl{Type: abi.TypeVal + " *", Name: "stk_ptr", Init: cir.R("stk_args + 1 + stk_argc")})
	w.stackCheck()

	if d := fn.This; d != nil && (d.Referenced || fn.Derived) {
		var init cir.Expr
		switch {
		case fn.ClassConstructor && fn.Derived:
			init = cir.K(abi.ValDeleted)
		case fn.Strict:
			init = cir.R("this_val")
		default:
			init = cir.CE(abi.FnBoxThis, cir.R("this_val"))
		}
		w.declare(d, init)
	}
	if d := fn.NewTarget; d != nil && d.Referenced {
		w.declare(d, cir.CE(abi.FnNewTarget))
	}
	if d := fn.FuncValue; d != nil && d.IsClosure {
		w.declare(d, cir.R("func_val"))
	}
	if d := fn.Self; d != nil && d.Referenced {
		w.declare(d, cir.R("func_val"))
	}
	for _, d := range fn.Vars {
		if d.Decl == d || d.WithDecl == d {
			w.declare(d, cir.Undefined)
		}
	}
	w.declareScope(fn.Scope)

	w.params()

	if d := fn.Arguments; d != nil {
		switch {
		case d.Referenced:
			w.declare(d, cir.CE(abi.FnArguments, cir.R("func_val"), cir.R("stk_args + 1"), cir.R("stk_argc"), cir.K(boolFlag(fn.Strict))))
		case !fn.Strict:
			// keeps f.arguments readable while the function runs
			w.effect(cir.CE(abi.FnCurArgs, cir.R("stk_args + 1"), cir.R("stk_argc")))
		}
	}

	if fn.InjectYield {
		// the first resume starts the body on the coroutine's own stack
		w.effect(cir.CE(abi.FnYield, cir.Undefined))
		w.emit(&cir.RawStmt{Text: "stk_ptr = " + abi.FnStackBase + "(env);"})
		w.stackCheck()
	}
}

func (w *funcWriter) stackCheck() {
	limit := w.fn.StackDepth + 1 + w.ctx.Config.StackHeadroom
	w.effect(cir.CE(abi.FnStackCheck, cir.R(fmt.Sprintf("stk_ptr + %d", limit))))
}

// params binds the parameters. A plain parameter is read straight from
// the argument area; a pattern, default or rest parameter first
// declares its names and then binds them in order, so a default value
// sees the parameters to its left.
func (w *funcWriter) params() {
	for i, p := range w.fn.Node.Params {
		arg := cir.R(fmt.Sprintf("(stk_argc > %d ? stk_args[%d] : %s)", i, i+1, abi.ValUndefined))
		if p.Kind == ast.Identifier {
			w.declare(p, arg)
			continue
		}
		for _, id := range bindingIdentifiers(p) {
			if id.Decl == id {
				w.declare(id, cir.Undefined)
			}
		}
		if p.Kind == ast.RestElement {
			rest := cir.CE(abi.FnRestArgs, cir.R("stk_args + 1"), cir.R("stk_argc"), cir.K(fmt.Sprint(i)))
			w.effect(w.destructure(p.Argument, rest, refInit))
			continue
		}
		t := w.temp()
		w.effect(cir.Comma(cir.Set(t, arg), w.destructure(p, t, refInit)))
	}
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// assembleProgram joins the function bodies into one translation unit:
// literal statics, forward declarations, the bodies, the literal
// initializer and the native entry point.
func assembleProgram(ctx *Context, root *ast.Function, bodies []string) string {
	// the root function object is built first so that its literals are
	// part of the initializer
	entry := newFuncWriter(ctx, root)
	entry.temps.Push()
	rootFunc := entry.newFunction(root)
	entry.temps.Pop()
	initName := fmt.Sprintf("literals_%d", ctx.seed)

	var p cir.Printer
	p.Line("// %s", ctx.Source.DisplayPath())
	p.Line("#include %q", ctx.Config.RuntimeHeader)
	p.Line("")

	for _, d := range ctx.Literals.Decls() {
		p.Stmt(d)
	}
	for _, t := range ctx.templates {
		p.Stmt(&cir.Decl{Type: abi.TypeVal, Name: t, Static: true})
	}
	p.Line("")

	for _, fn := range ctx.funcs {
		p.Line("%s;", funcSignature(fn))
	}
	p.Line("")
	for _, b := range bodies {
		p.Text(b)
		p.Line("")
	}

	p.Line("static void %s(js_environ *env)", initName)
	p.Stmt(&cir.Block{Body: ctx.Literals.InitBody()})
	p.Line("")

	p.Line("int %s(int argc, char **argv)", ctx.Config.Entry)
	p.Stmt(&cir.Block{
		Decls: []*cir.Decl{
			{Type: abi.TypeEnv + " *", Name: "env", Init: cir.C(abi.FnInit, cir.R("argc"), cir.R("argv"))},
		},
		Body: []cir.Stmt{
			cir.Stmt1(cir.C(initName, cir.Env)),
			&cir.Decl{Type: abi.TypeVal, Name: "func_val", Init: rootFunc},
			cir.Stmt1(cir.CE(abi.FnCallFunc, cir.R("func_val"), cir.CE(abi.FnGlobalObject), cir.CE(abi.FnStackBase), cir.K("0"))),
			&cir.Return{X: cir.C(abi.FnShutdown, cir.Env)},
		},
	})
	return p.String()
}
