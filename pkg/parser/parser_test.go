package parser

import (
	"strings"
	"testing"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
)

func parseOK(t *testing.T, src string) *ast.Node {
	t.Helper()
	res, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return res.Program
}

func firstExpr(t *testing.T, src string) *ast.Node {
	t.Helper()
	prog := parseOK(t, src)
	if len(prog.List) == 0 || prog.List[0].Kind != ast.ExpressionStatement {
		t.Fatalf("expected expression statement in %q", src)
	}
	return prog.List[0].Expression
}

func TestParseDeclarations(t *testing.T) {
	prog := parseOK(t, "var a = 1; let b; const c = 'x';")
	want := []ast.DeclKind{ast.DeclVar, ast.DeclLet, ast.DeclConst}
	if len(prog.List) != len(want) {
		t.Fatalf("got %d statements, want %d", len(prog.List), len(want))
	}
	for i, s := range prog.List {
		if s.Kind != ast.VariableDeclaration || s.VarKind != want[i] {
			t.Errorf("statement %d: got %s %s, want declaration %s", i, s.Kind, s.VarKind, want[i])
		}
	}
	d := prog.List[2].List[0]
	if d.ID.Name != "c" || d.Init.LitKind != ast.LitString || d.Init.Str != "x" {
		t.Errorf("unexpected declarator %+v", d)
	}
}

func TestParseOffsetsAreZeroBased(t *testing.T) {
	prog := parseOK(t, "x = 1;")
	id := prog.List[0].Expression.Left
	if id.Start != 0 || id.End != 1 {
		t.Errorf("identifier span = [%d,%d), want [0,1)", id.Start, id.End)
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.Kind
		op   string
	}{
		{"a + b", ast.BinaryExpression, "+"},
		{"a ** b", ast.BinaryExpression, "**"},
		{"a === b", ast.BinaryExpression, "==="},
		{"a && b", ast.LogicalExpression, "&&"},
		{"a ?? b", ast.LogicalExpression, "??"},
		{"a += b", ast.AssignmentExpression, "+="},
		{"a ??= b", ast.AssignmentExpression, "??="},
		{"a = b", ast.AssignmentExpression, "="},
		{"!a", ast.UnaryExpression, "!"},
		{"typeof a", ast.UnaryExpression, "typeof"},
		{"a++", ast.UpdateExpression, "++"},
		{"--a", ast.UpdateExpression, "--"},
	}
	for _, tt := range tests {
		e := firstExpr(t, tt.src)
		if e.Kind != tt.kind || e.Operator != tt.op {
			t.Errorf("%q: got %s %q, want %s %q", tt.src, e.Kind, e.Operator, tt.kind, tt.op)
		}
	}
	if e := firstExpr(t, "a++"); e.Prefix {
		t.Errorf("a++ should be postfix")
	}
	if e := firstExpr(t, "--a"); !e.Prefix {
		t.Errorf("--a should be prefix")
	}
}

func TestParseEmptyCaseClauses(t *testing.T) {
	prog := parseOK(t, "switch (x) { case 1: case 2: y(); break; default: }")
	sw := prog.List[0]
	if sw.Kind != ast.SwitchStatement || len(sw.List) != 3 {
		t.Fatalf("expected a switch with 3 clauses, got %s with %d", sw.Kind, len(sw.List))
	}
	first, last := sw.List[0], sw.List[2]
	if len(first.List) != 0 || first.End < first.Test.End {
		t.Errorf("empty case clause span = [%d,%d)", first.Start, first.End)
	}
	if last.Test != nil || len(last.List) != 0 || last.End <= last.Start {
		t.Errorf("empty default clause span = [%d,%d)", last.Start, last.End)
	}
}

func TestParseFunctionForms(t *testing.T) {
	prog := parseOK(t, "function* g(a, {b, ...c}, ...d) { yield 1; }")
	fn := prog.List[0]
	if fn.Kind != ast.FunctionDeclaration || !fn.Generator || fn.ID.Name != "g" {
		t.Fatalf("unexpected function node %s", fn.Kind)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("got %d params, want 3", len(fn.Params))
	}
	if fn.Params[1].Kind != ast.ObjectPattern || fn.Params[2].Kind != ast.RestElement {
		t.Errorf("params kinds = %s, %s", fn.Params[1].Kind, fn.Params[2].Kind)
	}
	pat := fn.Params[1]
	if n := len(pat.List); n != 2 || pat.List[1].Kind != ast.RestElement {
		t.Errorf("object pattern should end with rest element, got %d entries", n)
	}

	arrow := firstExpr(t, "(x = 1) => x * 2")
	if arrow.Kind != ast.ArrowFunctionExpression || !arrow.ExprBody {
		t.Fatalf("expected expression-bodied arrow, got %s", arrow.Kind)
	}
	if arrow.Params[0].Kind != ast.AssignmentPattern {
		t.Errorf("default parameter should be an assignment pattern, got %s", arrow.Params[0].Kind)
	}
}

func TestParseClass(t *testing.T) {
	prog := parseOK(t, "class A extends B { constructor() { super(); } get x() { return 1; } static m() {} }")
	cls := prog.List[0]
	if cls.Kind != ast.ClassDeclaration || cls.SuperClass == nil {
		t.Fatalf("unexpected class node")
	}
	kinds := []string{}
	for _, m := range cls.Body.List {
		kinds = append(kinds, m.PropKind)
	}
	if got := strings.Join(kinds, ","); got != "constructor,get,method" {
		t.Errorf("method kinds = %s", got)
	}
	if !cls.Body.List[2].Static {
		t.Errorf("m should be static")
	}
}

func TestParseOptionalChain(t *testing.T) {
	e := firstExpr(t, "a?.b.c")
	if e.Kind != ast.ChainExpression {
		t.Fatalf("got %s, want ChainExpression", e.Kind)
	}
	outer := e.Expression
	if outer.Kind != ast.MemberExpression || outer.Optional {
		t.Fatalf("outer member should not be optional")
	}
	if inner := outer.Object; inner.Kind != ast.MemberExpression || !inner.Optional {
		t.Errorf("inner member should be optional")
	}
}

func TestParseDestructuringAssignment(t *testing.T) {
	e := firstExpr(t, "[a, , b = 2, ...r] = xs")
	if e.Left.Kind != ast.ArrayPattern {
		t.Fatalf("left side = %s, want ArrayPattern", e.Left.Kind)
	}
	list := e.Left.List
	if len(list) != 4 || list[1] != nil || list[2].Kind != ast.AssignmentPattern || list[3].Kind != ast.RestElement {
		t.Errorf("unexpected pattern elements")
	}
}

func TestParseTemplate(t *testing.T) {
	e := firstExpr(t, "`a${x}b`")
	if e.Kind != ast.TemplateLiteral || len(e.Quasis) != 2 || len(e.List) != 1 {
		t.Fatalf("unexpected template %s", e.Kind)
	}
	if e.Quasis[0] != "a" || e.Quasis[1] != "b" {
		t.Errorf("quasis = %q", e.Quasis)
	}
	tagged := firstExpr(t, "tag`x`")
	if tagged.Kind != ast.TaggedTemplateExpression || tagged.Callee.Name != "tag" {
		t.Errorf("expected tagged template")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"import x from 'y';", "module import declarations are not supported"},
		{"export const a = 1;", "module export declarations are not supported"},
		{"class A { #p = 1 }", "not supported"},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.src)
		if err == nil {
			t.Errorf("%q: expected error", tt.src)
			continue
		}
		if !strings.Contains(err.Message(), tt.want) {
			t.Errorf("%q: error %q does not contain %q", tt.src, err.Message(), tt.want)
		}
	}

	_, err := ParseString("var = ;")
	if err == nil || err.Kind() != "Syntax" {
		t.Fatalf("expected syntax error, got %v", err)
	}
	if err.Pos().Line != 1 {
		t.Errorf("line = %d, want 1", err.Pos().Line)
	}
}
