package compiler

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

func TestHeapAlloc_NewHeapAlloc(t *testing.T) {
	ha := NewHeapAlloc()
	if ha.Len() != 0 {
		t.Errorf("Expected new HeapAlloc to be empty, got %d entries", ha.Len())
	}
	if len(ha.nameToIndex) != 0 {
		t.Errorf("Expected new HeapAlloc to have empty name map, got %d entries", len(ha.nameToIndex))
	}
}

func TestHeapAlloc_GetOrAssignIndex(t *testing.T) {
	ha := NewHeapAlloc()

	index1 := ha.GetOrAssignIndex(litString, "alpha")
	if index1 != 0 {
		t.Errorf("Expected first index to be 0, got %d", index1)
	}
	index2 := ha.GetOrAssignIndex(litString, "beta")
	if index2 != 1 {
		t.Errorf("Expected second index to be 1, got %d", index2)
	}
	if again := ha.GetOrAssignIndex(litString, "alpha"); again != index1 {
		t.Errorf("Expected same value to return same index %d, got %d", index1, again)
	}

	// a bigint with the same text is a different value
	if n := ha.GetOrAssignIndex(litBigInt, "alpha"); n == index1 {
		t.Errorf("Expected bigint and string entries to be distinct, both got %d", n)
	}
	if ha.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", ha.Len())
	}
}

func TestHeapAlloc_GetIndex(t *testing.T) {
	ha := NewHeapAlloc()
	ha.GetOrAssignIndex(litString, "test")

	index, exists := ha.GetIndex(litString, "test")
	if !exists {
		t.Error("Expected 'test' to exist in HeapAlloc")
	}
	if index != 0 {
		t.Errorf("Expected 'test' to have index 0, got %d", index)
	}
	if _, exists = ha.GetIndex(litString, "nonexistent"); exists {
		t.Error("Expected 'nonexistent' to not exist in HeapAlloc")
	}
	if _, exists = ha.GetIndex(litBigInt, "test"); exists {
		t.Error("Expected bigint 'test' to not exist in HeapAlloc")
	}
}

func TestHeapAlloc_WellKnownStrings(t *testing.T) {
	ha := NewHeapAlloc()
	tests := map[string]string{
		"prototype": "env->str_prototype",
		"length":    "env->str_length",
		"":          "env->str_empty",
	}
	for value, want := range tests {
		if got := ha.String(value, true); got != want {
			t.Errorf("String(%q) = %q, want %q", value, got, want)
		}
	}
	if ha.Len() != 0 {
		t.Errorf("Expected well-known strings to allocate nothing, got %d entries", ha.Len())
	}
}

func TestHeapAlloc_KeyMarking(t *testing.T) {
	ha := NewHeapAlloc()
	name := ha.String("foo", false)
	if ha.entries[0].key {
		t.Fatal("Expected value string not to be a key")
	}
	if again := ha.String("foo", true); again != name {
		t.Errorf("Expected same slot %s, got %s", name, again)
	}
	if !ha.entries[0].key {
		t.Error("Expected string used as a key to be interned")
	}
	ha.String("foo", false)
	if !ha.entries[0].key {
		t.Error("Expected key marking to be sticky")
	}
}

func TestHeapAlloc_Shapes(t *testing.T) {
	ha := NewHeapAlloc()
	s1 := ha.Shape([]string{"x", "y"})
	s2 := ha.Shape([]string{"x", "y"})
	if s1 != s2 {
		t.Error("Expected identical layouts to intern to one shape")
	}
	s3 := ha.Shape([]string{"y", "x"})
	if s3 == s1 {
		t.Error("Expected property order to distinguish shapes")
	}
	if ha.ShapeCount() != 2 {
		t.Errorf("Expected 2 shapes, got %d", ha.ShapeCount())
	}

	// the property names precede the shape in the initializer
	init := ha.InitBody()
	var order []string
	for _, st := range init {
		line := strings.TrimSpace(cir.Render(st))
		order = append(order, line[:strings.Index(line, " =")])
	}
	want := []string{"lit_0", "lit_1", "shape_2", "shape_3"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected initializer order %v, got %v", want, order)
	}
}

func TestHeapAlloc_WellKnownShape(t *testing.T) {
	ha := NewHeapAlloc()
	s := ha.Shape([]string{"value", "done"})
	if s.WellKnown == "" || s.CName != "env->shape_value_done" {
		t.Errorf("Expected the runtime's iterator result shape, got %+v", s)
	}
	if ha.ShapeCount() != 0 || ha.Len() != 0 {
		t.Errorf("Expected nothing allocated for a well-known shape, got %d entries", ha.Len())
	}
}

func TestHeapAlloc_InitBody(t *testing.T) {
	ha := NewHeapAlloc()
	ha.String("hi", true)
	ha.BigInt("12345678901234567890")

	var got []string
	for _, st := range ha.InitBody() {
		got = append(got, strings.TrimSpace(cir.Render(st)))
	}
	want := []string{
		`lit_0 = js_newstr(env, u"hi", 2, 1);`,
		`lit_1 = js_newbigint(env, "12345678901234567890");`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InitBody mismatch:\n got: %q\nwant: %q", got, want)
	}
	decls := ha.Decls()
	if len(decls) != 2 || !decls[0].Static || decls[1].Name != "lit_1" {
		t.Errorf("Unexpected declarations %+v", decls)
	}
}

func TestCString16(t *testing.T) {
	tests := []struct {
		in   string
		want string
		n    int
	}{
		{"abc", `u"abc"`, 3},
		{`a"b\c`, `u"a\"b\\c"`, 5},
		{"line\n", `u"line\n"`, 5},
		{"??=", `u"\?\?="`, 3},
		{"é", `u"\x00E9"`, 1},
		{"éa", `u"\x00E9" u"a"`, 2},
		{"éz", `u"\x00E9z"`, 2},
		{"😀", `u"\xD83D\xDE00"`, 2},
	}
	for _, tt := range tests {
		got, n := CString16(tt.in)
		if got != tt.want || n != tt.n {
			t.Errorf("CString16(%q) = %s, %d; want %s, %d", tt.in, got, n, tt.want, tt.n)
		}
	}
}
