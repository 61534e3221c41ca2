package cir

import (
	"strings"
	"testing"
)

func TestExprRendering(t *testing.T) {
	x, y := R("x"), R("y")
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"binary", Bin("+", x, y), "(x + y)"},
		{"nested", Bin("*", Bin("+", x, y), x), "((x + y) * x)"},
		{"call", CE("js_add", x, y), "js_add(env, x, y)"},
		{"comma arg", C("f", Comma(x, y)), "f((x, y))"},
		{"flatten", Comma(Comma(x, y), x), "(x, y, x)"},
		{"single", Comma(nil, x), "x"},
		{"cond", Ternary(x, y, Undefined), "(x ? y : js_undefined)"},
		{"assign", Set(x, y), "(x = y)"},
		{"not", Not(x), "(!x)"},
		{"field", RawNum(x), "x.number"},
		{"arrow", &Field{X: R("p"), Name: "shape_id", Arrow: true}, "p->shape_id"},
		{"index", &Index{X: R("stk_ptr"), I: R("1")}, "stk_ptr[1]"},
		{"cast", &Cast{Type: "uint32_t", X: Bin("+", x, y)}, "((uint32_t)(x + y))"},
		{"likely", &Likely{X: x}, "likely(x)"},
		{"number", Num(2), "js_make_number(2.0)"},
		{"is number", IsNumber(x), "(((x).raw >> 48) <= 0xFFF8)"},
		{"and", And(x, y), "(x && y)"},
		{"and known left", And(nil, y), "y"},
		{"and known right", And(x, nil), "x"},
	}
	for _, tt := range tests {
		if got := String(tt.e); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIsConst(t *testing.T) {
	if !IsConst(K("lit_3")) || !IsConst(Num(1)) || !IsConst(Undefined) {
		t.Error("constants not recognized")
	}
	if IsConst(R("j_x_4")) || IsConst(CE("js_add", K("a"), K("b"))) {
		t.Error("variable or call treated as constant")
	}
}

func TestStatementRendering(t *testing.T) {
	blk := &Block{
		Decls: []*Decl{
			{Type: "js_val", Name: "tmp_1"},
			{Type: "js_val", Name: "j_n_2", Init: Undefined, Volatile: true},
			{Type: "js_val *", Name: "c_x_3", Volatile: true},
			{Type: "js_val", Name: "it_4", ArrayLen: 3},
		},
		Body: []Stmt{
			Stmt1(Set(R("tmp_1"), R("j_n_2"))),
			&If{Cond: Bin("==", R("a"), R("b")), Then: &Goto{Label: "brk_5"}, Else: &Return{X: Undefined}},
			&Loop{Body: &Block{Body: []Stmt{&Goto{Label: "brk_5"}}}},
			&Label{Name: "brk_5"},
		},
	}
	got := Render(blk)
	want := strings.Join([]string{
		"{",
		"    js_val tmp_1;",
		"    volatile js_val j_n_2 = js_undefined;",
		"    js_val * volatile c_x_3;",
		"    js_val it_4[3];",
		"    tmp_1 = j_n_2;",
		"    if (a == b)",
		"        goto brk_5;",
		"    else",
		"        return js_undefined;",
		"    for (;;)",
		"    {",
		"        goto brk_5;",
		"    }",
		"    brk_5: ;",
		"}",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered block:\n%s\nwant:\n%s", got, want)
	}
}
