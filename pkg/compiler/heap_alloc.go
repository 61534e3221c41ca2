package compiler

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// literalKind distinguishes the values the literal initializer creates.
type literalKind uint8

const (
	litString literalKind = iota
	litBigInt
	litShape
)

var literalPrefix = [...]string{litString: "s:", litBigInt: "n:", litShape: "h:"}

// literalEntry is one value created once by the literal initializer.
type literalEntry struct {
	kind  literalKind
	value string   // string value or bigint decimal digits
	props []string // shape property names
	cname string
	key   bool // used as a property key: interned by the runtime
}

// HeapAlloc is the per-file table of literal values. Every distinct
// string, bigint and shape gets one static slot, in order of first use;
// values the runtime already provides map to its environment fields
// instead.
type HeapAlloc struct {
	nameToIndex map[string]int // kind-prefixed value -> entry index
	entries     []*literalEntry
	shapes      map[string]*ast.Shape
	shapeCount  int
}

// NewHeapAlloc creates an empty literal table.
func NewHeapAlloc() *HeapAlloc {
	return &HeapAlloc{
		nameToIndex: make(map[string]int),
		shapes:      make(map[string]*ast.Shape),
	}
}

// GetOrAssignIndex returns the entry index of a value, allocating an
// entry the first time the value is seen.
func (ha *HeapAlloc) GetOrAssignIndex(kind literalKind, value string) int {
	k := literalPrefix[kind] + value
	if index, exists := ha.nameToIndex[k]; exists {
		return index
	}
	index := len(ha.entries)
	ha.nameToIndex[k] = index
	ha.entries = append(ha.entries, &literalEntry{
		kind:  kind,
		value: value,
		cname: fmt.Sprintf("lit_%d", index),
	})
	return index
}

// GetIndex returns the entry index of a value if it was allocated.
func (ha *HeapAlloc) GetIndex(kind literalKind, value string) (int, bool) {
	index, exists := ha.nameToIndex[literalPrefix[kind]+value]
	return index, exists
}

// String returns the C name of a string value. A key string is marked
// for interning.
func (ha *HeapAlloc) String(value string, key bool) string {
	if name, ok := abi.WellKnownStrings[value]; ok {
		return name
	}
	e := ha.entries[ha.GetOrAssignIndex(litString, value)]
	e.key = e.key || key
	return e.cname
}

// BigInt returns the C name of a bigint value given in decimal.
func (ha *HeapAlloc) BigInt(digits string) string {
	return ha.entries[ha.GetOrAssignIndex(litBigInt, digits)].cname
}

// Shape interns a property layout. Property names are interned as key
// strings first, so the shape initializer can refer to them.
func (ha *HeapAlloc) Shape(props []string) *ast.Shape {
	s := &ast.Shape{Props: props}
	if existing, ok := ha.shapes[s.Key()]; ok {
		return existing
	}
	if wk := abi.LookupWellKnownShape(props); wk != "" {
		s.CName = wk
		s.WellKnown = wk
		ha.shapes[s.Key()] = s
		return s
	}
	for _, p := range props {
		ha.String(p, true)
	}
	index := ha.GetOrAssignIndex(litShape, s.Key())
	e := ha.entries[index]
	e.props = props
	e.cname = fmt.Sprintf("shape_%d", index)
	s.CName = e.cname
	ha.shapes[s.Key()] = s
	ha.shapeCount++
	return s
}

// Len returns the number of entries the initializer creates.
func (ha *HeapAlloc) Len() int {
	return len(ha.entries)
}

// ShapeCount returns the number of shapes the initializer creates.
func (ha *HeapAlloc) ShapeCount() int {
	return ha.shapeCount
}

// GetAllNames returns the C names of all entries, sorted.
func (ha *HeapAlloc) GetAllNames() []string {
	names := make([]string, 0, len(ha.entries))
	for _, e := range ha.entries {
		names = append(names, e.cname)
	}
	sort.Strings(names)
	return names
}

// Decls returns the static declarations of every entry.
func (ha *HeapAlloc) Decls() []*cir.Decl {
	decls := make([]*cir.Decl, 0, len(ha.entries))
	for _, e := range ha.entries {
		decls = append(decls, &cir.Decl{Type: abi.TypeVal, Name: e.cname, Static: true})
	}
	return decls
}

// InitBody returns the statements that create every entry, in entry
// order, which puts each shape after the strings it names.
func (ha *HeapAlloc) InitBody() []cir.Stmt {
	var body []cir.Stmt
	for _, e := range ha.entries {
		var value cir.Expr
		switch e.kind {
		case litString:
			intern := "0"
			if e.key {
				intern = "1"
			}
			text, n := CString16(e.value)
			value = cir.CE(abi.FnNewStr, cir.K(text), cir.K(fmt.Sprint(n)), cir.K(intern))
		case litBigInt:
			value = cir.CE(abi.FnNewBigInt, cir.K(`"`+e.value+`"`))
		case litShape:
			args := []cir.Expr{cir.K(fmt.Sprint(len(e.props)))}
			for _, p := range e.props {
				args = append(args, cir.K(ha.String(p, true)))
			}
			value = cir.CE(abi.FnNewShape, args...)
		}
		body = append(body, cir.Stmt1(cir.Set(cir.R(e.cname), value)))
	}
	return body
}

// Debug returns a string representation for debugging
func (ha *HeapAlloc) Debug() string {
	var b strings.Builder
	fmt.Fprintf(&b, "HeapAlloc(entries=%d, shapes=%d):\n", len(ha.entries), ha.shapeCount)
	for _, e := range ha.entries {
		fmt.Fprintf(&b, "  %s -> %s%q\n", e.cname, literalPrefix[e.kind], e.value)
	}
	return b.String()
}

// CString16 renders a string as a C char16_t literal and returns it with
// its length in UTF-16 code units.
func CString16(s string) (string, int) {
	units := utf16.Encode([]rune(s))
	var b strings.Builder
	b.WriteString(`u"`)
	escaped := false
	for _, u := range units {
		if escaped && isHexDigit(u) {
			// a hex escape would swallow the next character
			b.WriteString(`" u"`)
		}
		escaped = false
		switch {
		case u == '"' || u == '\\':
			b.WriteByte('\\')
			b.WriteByte(byte(u))
		case u == '\n':
			b.WriteString(`\n`)
		case u == '\t':
			b.WriteString(`\t`)
		case u == '?':
			// avoid trigraphs
			b.WriteString(`\?`)
		case u >= 0x20 && u < 0x7F:
			b.WriteByte(byte(u))
		default:
			fmt.Fprintf(&b, `\x%04X`, u)
			escaped = true
		}
	}
	b.WriteByte('"')
	return b.String(), len(units)
}

func isHexDigit(u uint16) bool {
	return (u >= '0' && u <= '9') || (u >= 'a' && u <= 'f') || (u >= 'A' && u <= 'F')
}
