package compiler

import (
	"strings"
	"testing"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/config"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/parser"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

type compiled struct {
	ctx     *Context
	program *ast.Node
	out     string
	err     errors.DelphiniumError
}

func compileFile(t *testing.T, path, src string) compiled {
	t.Helper()
	sf := source.NewSourceFile(path, path, src)
	res, perr := parser.Parse(sf)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	ctx := NewContext(res.Source, res.Arena, config.Default())
	out, err := CompileToC(ctx, res.Program)
	return compiled{ctx: ctx, program: res.Program, out: out, err: err}
}

func mustCompile(t *testing.T, src string) compiled {
	t.Helper()
	c := compileFile(t, "test.js", src)
	if c.err != nil {
		t.Fatalf("unexpected compile error: %v\nsource:\n%s", c.err, src)
	}
	return c
}

func (c compiled) function(t *testing.T, name string) *ast.Function {
	t.Helper()
	for _, fn := range c.ctx.Functions() {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

// find returns the nodes under root that match.
func find(root *ast.Node, match func(*ast.Node) bool) []*ast.Node {
	var out []*ast.Node
	ast.Inspect(root, func(n *ast.Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func identifiers(root *ast.Node, name string) []*ast.Node {
	return find(root, func(n *ast.Node) bool {
		return n.Kind == ast.Identifier && n.Name == name
	})
}

func members(root *ast.Node, prop string) []*ast.Node {
	return find(root, func(n *ast.Node) bool {
		return n.Kind == ast.MemberExpression && !n.Computed && n.Property.Name == prop
	})
}

func TestDeterministicOutput(t *testing.T) {
	src := `
function add(a, b) { return a + b; }
var o = { x: 1, y: "two" };
for (let i = 0; i < 3; i++) o.x = add(o.x, i);
`
	first := compileFile(t, "dir/det.js", src)
	second := compileFile(t, "dir/det.js", src)
	if first.err != nil || second.err != nil {
		t.Fatalf("unexpected errors: %v, %v", first.err, second.err)
	}
	if first.out != second.out {
		t.Error("Expected byte-identical output for the same path")
	}
	if seedFromPath("dir/det.js") != seedFromPath("dir/det.js") {
		t.Error("Expected seed to be a pure function of the path")
	}
}

func TestVarMergesWithParameter(t *testing.T) {
	c := mustCompile(t, `function f(a) { var a; a = 2; return a; }`)
	fn := c.function(t, "f")
	param := fn.Node.Params[0]
	for _, id := range identifiers(fn.Node.Body, "a") {
		if id.Resolved() != param {
			t.Errorf("Expected every 'a' at %d to resolve to the parameter", id.Start)
		}
	}
	if len(fn.Vars) != 0 {
		t.Errorf("Expected no separate var binding, got %d", len(fn.Vars))
	}
}

func TestShadowing(t *testing.T) {
	c := mustCompile(t, `
function f() {
	let x = 1;
	{
		let y = x;
		{ let x = 2; y = x; }
	}
}`)
	fn := c.function(t, "f")
	xs := identifiers(fn.Node.Body, "x")
	// outer declaration, read in y's initializer, inner declaration, inner read
	if len(xs) != 4 {
		t.Fatalf("Expected 4 occurrences of x, got %d", len(xs))
	}
	if xs[1].Resolved() != xs[0] {
		t.Error("Expected the outer read to resolve to the outer declaration")
	}
	if xs[3].Resolved() != xs[2] {
		t.Error("Expected the inner read to resolve to the inner declaration")
	}
}

func TestReferenceBeforeInitialization(t *testing.T) {
	c := compileFile(t, "tdz.js", `{ let x = 1; { x; let x = 2; } }`)
	if c.err == nil {
		t.Fatal("Expected an error")
	}
	if c.err.Kind() != "Scope" || !strings.Contains(c.err.Message(), "cannot access 'x' before initialization") {
		t.Errorf("Unexpected error %v", c.err)
	}
	if c.out != "" {
		t.Error("Expected no output after an error")
	}
}

func TestClosurePassThrough(t *testing.T) {
	c := mustCompile(t, `
function A() {
	var v = 1;
	function B() {
		function C() { return v; }
		return C;
	}
	return B;
}`)
	a, b, cfn := c.function(t, "A"), c.function(t, "B"), c.function(t, "C")
	v := identifiers(a.Node.Body, "v")[0]
	if !v.IsClosure {
		t.Error("Expected v to be captured")
	}
	if _, ok := b.ClosureIndex(v); !ok {
		t.Error("Expected B to forward v even though it never names it")
	}
	if _, ok := cfn.ClosureIndex(v); !ok {
		t.Error("Expected C to capture v")
	}
	if len(a.Closures) != 0 {
		t.Errorf("Expected A to capture nothing, got %d", len(a.Closures))
	}
	if !strings.Contains(c.out, "js_newcell(env, ") {
		t.Error("Expected v to live in a heap cell")
	}
}

func TestCacheKeys(t *testing.T) {
	c := mustCompile(t, `
function f(o, g) {
	o.x;
	o.x;
	o = g();
	o.x;
	o.y;
}`)
	fn := c.function(t, "f")
	xs := members(fn.Node.Body, "x")
	if len(xs) != 3 {
		t.Fatalf("Expected 3 sites, got %d", len(xs))
	}
	if xs[0].CacheKey != xs[1].CacheKey || xs[0].CacheSlot != xs[1].CacheSlot {
		t.Errorf("Expected sites without reassignment to share a slot: %q/%d vs %q/%d",
			xs[0].CacheKey, xs[0].CacheSlot, xs[1].CacheKey, xs[1].CacheSlot)
	}
	if xs[2].CacheKey == xs[1].CacheKey || xs[2].CacheSlot == xs[1].CacheSlot {
		t.Errorf("Expected a reassignment to start a new slot, both got %q", xs[2].CacheKey)
	}
	if fn.ShapeCacheCount != 3 {
		t.Errorf("Expected 3 slots, got %d", fn.ShapeCacheCount)
	}
	if !strings.Contains(c.out, "shape_cache[2]") {
		t.Error("Expected the last site to use slot 2")
	}
}

func TestWithSitesAreNotCached(t *testing.T) {
	c := mustCompile(t, `function f(o) { with (o) { p.q; } }`)
	fn := c.function(t, "f")
	q := members(fn.Node.Body, "q")[0]
	if q.CacheKey != uncacheable {
		t.Errorf("Expected with-affected site to be uncacheable, got %q", q.CacheKey)
	}
	if fn.ShapeCacheCount != 0 {
		t.Errorf("Expected no slots, got %d", fn.ShapeCacheCount)
	}
}

func TestVolatileFlagging(t *testing.T) {
	c := mustCompile(t, `
function f(g) {
	var a = 1, b = 2;
	try {
		a = g(b);
	} catch (e) {
	}
	return a + b;
}`)
	fn := c.function(t, "f")
	var a, b *ast.Node
	for _, d := range fn.Vars {
		switch d.Name {
		case "a":
			a = d
		case "b":
			b = d
		}
	}
	if !a.Volatile {
		t.Error("Expected a, assigned in the try and read after it, to be volatile")
	}
	if b.Volatile {
		t.Error("Expected b, only read in the try, not to be volatile")
	}
	if !fn.HasTry {
		t.Error("Expected HasTry")
	}
	if !strings.Contains(c.out, "volatile js_val "+a.CName) {
		t.Errorf("Expected a volatile declaration of %s", a.CName)
	}
}

func TestScenarioLoop(t *testing.T) {
	c := mustCompile(t, `let n1=0,n2=1; for(let i=1;i<=5;i++){n1=n2; n2=n1+n2;}`)
	for _, want := range []string{"for (;;)", "js_add(env, ", "JS_OP_INC"} {
		if !strings.Contains(c.out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestNumberFastPathWithLiteral(t *testing.T) {
	c := mustCompile(t, `function f(x, i) { return i < 5 ? x + 1 : x; }`)
	if strings.Contains(c.out, "/*nil*/") {
		t.Fatalf("Expected no missing operand in the output:\n%s", c.out)
	}
	for _, want := range []string{".number + 1.0)", ".number < 5.0)", "likely("} {
		if !strings.Contains(c.out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestScenarioParameters(t *testing.T) {
	c := mustCompile(t, `function f(a,{b,...c},...d){}`)
	fn := c.function(t, "f")
	if fn.Length != 1 {
		t.Errorf("Expected length 1, got %d", fn.Length)
	}
	for _, want := range []string{"stk_argc > 0 ? stk_args[1]", "js_restobj(env, ", "js_restargs(env, stk_args + 1, stk_argc, 2)"} {
		if !strings.Contains(c.out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestScenarioWithFallback(t *testing.T) {
	c := mustCompile(t, `function f() { let p = 0; with ({p:1}) { p; } return p; }`)
	fn := c.function(t, "f")
	ps := identifiers(fn.Node.Body, "p")
	decl, inside, after := ps[0], ps[1], ps[2]
	if inside.WithDecl != decl || inside.Decl != nil {
		t.Errorf("Expected p in the with body to fall back to the local, got Decl=%v WithDecl=%v", inside.Decl, inside.WithDecl)
	}
	if after.Decl != decl {
		t.Error("Expected p after the with body to resolve directly")
	}
	if !strings.Contains(c.out, "js_withget(env, ") {
		t.Error("Expected a with lookup")
	}
}

func TestWithReadBeforeLaterLet(t *testing.T) {
	c := mustCompile(t, `function f() { with ({p:1}) { p; } let p = 2; return p; }`)
	fn := c.function(t, "f")
	ps := identifiers(fn.Node.Body, "p")
	inside, decl := ps[0], ps[1]
	if inside.WithDecl != decl {
		t.Errorf("Expected p in the with body to fall back to the later let, got WithDecl=%v", inside.WithDecl)
	}
}

func TestDeleteInsideWith(t *testing.T) {
	tests := []string{
		`function f(o) { with (o) { return delete x; } }`,
		`function f(o) { var x = 1; with (o) { return delete x; } }`,
	}
	for _, src := range tests {
		c := mustCompile(t, src)
		if !strings.Contains(c.out, "js_withdel(env, ") {
			t.Errorf("%s: expected delete to go through the with objects", src)
		}
	}
	c := mustCompile(t, `function f() { var x = 1; return delete x; }`)
	if strings.Contains(c.out, "js_withdel(") {
		t.Error("Expected delete of a plain binding not to consult the with objects")
	}
}

func TestWithCalleePassesReceiver(t *testing.T) {
	tests := []string{
		`function f(o, a) { with (o) { return g(...a); } }`,
		`function f(o) { with (o) { return g?.(1); } }`,
	}
	for _, src := range tests {
		c := mustCompile(t, src)
		i := strings.Index(c.out, "js_withref(env, ")
		if i < 0 {
			t.Errorf("%s: expected the callee to be resolved with its receiver", src)
			continue
		}
		// the receiver temporary is passed by address
		if !strings.Contains(c.out[i:], ", &tmp_") {
			t.Errorf("%s: expected the receiver to be written to a temporary", src)
		}
	}
}

func TestDirectivePrologue(t *testing.T) {
	c := mustCompile(t, `
function a() { "x"; "use strict"; }
function b() { g(); "use strict"; }
function d() { 'use\x20strict'; }
function e() { "use strict" + 1; }
`)
	tests := map[string]bool{"a": true, "b": false, "d": false, "e": false}
	for name, want := range tests {
		if got := c.function(t, name).Strict; got != want {
			t.Errorf("%s: strict = %v, want %v", name, got, want)
		}
	}
}

func TestScenarioGenerator(t *testing.T) {
	c := mustCompile(t, `function* g(){ yield 1; yield 2; }`)
	fn := c.function(t, "g")
	if !fn.InjectYield || !fn.NotConstructor {
		t.Errorf("Expected inject-yield and not-constructor, got %v %v", fn.InjectYield, fn.NotConstructor)
	}
	if fn.CoroutineKind != 2 {
		t.Errorf("Expected coroutine kind 2, got %d", fn.CoroutineKind)
	}
	if !strings.Contains(c.out, "js_newcoroutine(env, js_newfunc(env, "+fn.CName) {
		t.Error("Expected the function object to be wrapped as a coroutine")
	}
}

func TestConstAssignment(t *testing.T) {
	c := compileFile(t, "const.js", `const x = 1; x = 2;`)
	if c.err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(c.err.Message(), "assignment to constant variable") {
		t.Errorf("Unexpected message %q", c.err.Message())
	}
	if pos := c.err.Pos(); pos.Line != 1 || pos.Column != 14 {
		t.Errorf("Expected position 1:14, got %d:%d", pos.Line, pos.Column)
	}
	if c.out != "" {
		t.Error("Expected no output after an error")
	}
	if got := errors.FormatLine("", c.err); !strings.HasPrefix(got, "===> error in const.js:1:14: ") {
		t.Errorf("Unexpected error line %q", got)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"duplicate let", `let a; let a;`, "has already been declared"},
		{"let after var", `var a; let a;`, "has already been declared"},
		{"break outside loop", `break;`, "not within a loop"},
		{"unknown label", `while (1) { break nope; }`, "label 'nope' not found"},
		{"continue to block", `l: { while (1) { continue l; } }`, "is not a loop"},
		{"super outside method", `function f() { super.x; }`, "'super' keyword unexpected here"},
		{"strict function in with", `with ({}) { (function () { "use strict"; }); }`, "cannot be nested in a with statement"},
		{"bad regexp", `var r = /(/;`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := source.NewSourceFile("err.js", "err.js", tt.src)
			res, perr := parser.Parse(sf)
			if perr != nil {
				// some of these are rejected by the parser already
				return
			}
			ctx := NewContext(res.Source, res.Arena, config.Default())
			out, err := CompileToC(ctx, res.Program)
			if err == nil {
				t.Fatalf("Expected an error, got output of %d bytes", len(out))
			}
			if !strings.Contains(err.Message(), tt.want) {
				t.Errorf("Expected %q in %q", tt.want, err.Message())
			}
		})
	}
}

func TestProgramStructure(t *testing.T) {
	c := mustCompile(t, `var s = "hello"; function f() { return s; }`)
	for _, want := range []string{
		`#include "runtime.h"`,
		"static js_val lit_",
		"int main(int argc, char **argv)",
		"js_init(argc, argv)",
		"js_callfunc(env, func_val, js_globalobject(env), js_stackbase(env), 0)",
		"return js_shutdown(env);",
		"stk_args[0] = func_val;",
	} {
		if !strings.Contains(c.out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	f := c.function(t, "f")
	decl := funcSignature(f) + ";"
	if strings.Index(c.out, decl) > strings.Index(c.out, funcSignature(f)+"\n") {
		t.Error("Expected the forward declaration before the definition")
	}
}

func TestTryFinallyRouting(t *testing.T) {
	c := mustCompile(t, `
function f(g) {
	for (;;) {
		try {
			if (g()) break;
			return 1;
		} finally {
			g();
		}
	}
	return 2;
}`)
	for _, want := range []string{"setjmp(", "js_leavetry(env, &try_", "goto fin_", "js_throw(env, pendv_"} {
		if !strings.Contains(c.out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}
