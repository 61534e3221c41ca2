package compiler

import (
	"testing"

	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

func counter(start int) func() int {
	n := start
	return func() int {
		n++
		return n
	}
}

func TestNewTempAllocator(t *testing.T) {
	ta := NewTempAllocator(counter(0))
	if ta.Depth() != 0 {
		t.Errorf("Expected depth 0, got %d", ta.Depth())
	}
	if ta.Total() != 0 {
		t.Errorf("Expected no temporaries, got %d", ta.Total())
	}
}

func TestTempAllocator_Alloc(t *testing.T) {
	ta := NewTempAllocator(counter(100))
	ta.Push()
	t1 := ta.Alloc()
	t2 := ta.Alloc()
	if t1.Text != "tmp_101" || t2.Text != "tmp_102" {
		t.Errorf("Unexpected names %s, %s", t1.Text, t2.Text)
	}
	decls := ta.Pop()
	if len(decls) != 2 {
		t.Fatalf("Expected 2 declarations, got %d", len(decls))
	}
	for _, d := range decls {
		if d.Type != "js_val" {
			t.Errorf("Expected js_val temporary, got %s", d.Type)
		}
	}
	if ta.Total() != 2 {
		t.Errorf("Expected total 2, got %d", ta.Total())
	}
}

func TestTempAllocator_Nesting(t *testing.T) {
	ta := NewTempAllocator(counter(0))
	ta.Push()
	outer := ta.Alloc()
	ta.Push()
	inner := ta.AllocTyped("js_try", "try")
	if ta.Depth() != 2 {
		t.Errorf("Expected depth 2, got %d", ta.Depth())
	}

	innerDecls := ta.Pop()
	if len(innerDecls) != 1 || innerDecls[0].Name != inner.Text || innerDecls[0].Type != "js_try" {
		t.Errorf("Expected inner block to declare only %s, got %+v", inner.Text, innerDecls)
	}
	outerDecls := ta.Pop()
	if len(outerDecls) != 1 || outerDecls[0].Name != outer.Text {
		t.Errorf("Expected outer block to declare only %s, got %+v", outer.Text, outerDecls)
	}
}

func TestTempAllocator_Array(t *testing.T) {
	ta := NewTempAllocator(counter(0))
	ta.Push()
	it := ta.AllocArray("it", 3)
	decls := ta.Pop()
	if got := cir.DeclString(decls[0]); got != "js_val "+it.Text+"[3]" {
		t.Errorf("Unexpected iterator declaration %q", got)
	}
}

func TestTempAllocator_Declare(t *testing.T) {
	ta := NewTempAllocator(counter(0))
	ta.Push()
	ta.Declare(&cir.Decl{Type: "int", Name: "pend_1", Init: cir.K("0"), Volatile: true})
	decls := ta.Pop()
	if got := cir.DeclString(decls[0]); got != "volatile int pend_1 = 0" {
		t.Errorf("Unexpected declaration %q", got)
	}
}

func TestTempAllocator_Underflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected Pop on an empty allocator to panic")
		}
	}()
	NewTempAllocator(counter(0)).Pop()
}
