package ast

import "strings"

// Function is the annotation record of a function node: everything the
// passes learn about one function that is compiled into one C function.
type Function struct {
	Node     *Node // the extracted function node
	Site     *Node // the detached original site, nil for the program
	Name     string
	UniqueID int
	CName    string

	Parent   *Function
	Children []*Function // functions originally nested here, in discovery order

	Scope *Scope // top scope: parameters, var declarations, synthetic bindings

	Strict    bool
	Arrow     bool
	Async     bool
	Generator bool
	Program   bool // the pseudo-function wrapping the whole script

	ClassConstructor bool // constructor of a class
	Derived          bool // class has an extends clause
	Method           bool // object/class method, getter or setter: has a home object

	// Synthetic declarations; nil when the function kind has none.
	Arguments *Node
	This      *Node
	NewTarget *Node
	FuncValue *Node
	Self      *Node // name binding of a named function expression

	// Vars lists the function-scope declarations (var, hoisted function
	// declarations) that the prologue declares, in declaration order.
	Vars []*Node
	// Lexicals lists block-scoped declarations, declared at block open.
	Lexicals []*Node

	// Closures is the capture set in slot order. ClosureRefs maps each
	// captured declaration to the first reference that caused the capture.
	Closures     []*Node
	ClosureRefs  map[*Node]*Node
	closureIndex map[*Node]int

	// Shape cache slots, keyed by cache key.
	ShapeCache      map[string]int
	ShapeCacheCount int
	// NewShape is the layout of objects created by calling this function
	// as a constructor, when the body's this-property writes are static.
	NewShape *Shape

	HasTry         bool
	Length         int // value of the function's .length
	StackDepth     int // deepest outgoing call-argument extent
	InjectYield    bool
	NotConstructor bool
	CoroutineKind  int
}

// NewFunction creates the record for node and links it.
func NewFunction(node *Node, name string) *Function {
	fn := &Function{
		Node:         node,
		Name:         name,
		ClosureRefs:  make(map[*Node]*Node),
		closureIndex: make(map[*Node]int),
		ShapeCache:   make(map[string]int),
	}
	node.Func = fn
	return fn
}

// ClosureIndex returns the slot of decl in this function's closure array.
func (f *Function) ClosureIndex(decl *Node) (int, bool) {
	i, ok := f.closureIndex[decl]
	return i, ok
}

// AddClosure records decl in the capture set, allocating the next slot the
// first time. It reports whether a new slot was allocated.
func (f *Function) AddClosure(decl, ref *Node) (int, bool) {
	if i, ok := f.closureIndex[decl]; ok {
		return i, false
	}
	i := len(f.Closures)
	f.Closures = append(f.Closures, decl)
	f.closureIndex[decl] = i
	f.ClosureRefs[decl] = ref
	return i, true
}

// IsAncestorOf reports whether f encloses g (f != g).
func (f *Function) IsAncestorOf(g *Function) bool {
	for p := g.Parent; p != nil; p = p.Parent {
		if p == f {
			return true
		}
	}
	return false
}

// NonArrow returns the nearest function, starting at f, that is not an
// arrow function. That function supplies this, arguments and new.target.
func (f *Function) NonArrow() *Function {
	for fn := f; fn != nil; fn = fn.Parent {
		if !fn.Arrow {
			return fn
		}
	}
	return nil
}

// Shape is a static, ordered, duplicate-free list of property names.
type Shape struct {
	Props []string
	CName string
	// WellKnown names a runtime-provided shape, "" for shapes the
	// literal initializer creates.
	WellKnown string
}

// Key is the interning key of the shape.
func (s *Shape) Key() string {
	return strings.Join(s.Props, "\x00")
}

// IndexOf returns the slot of a property name, or -1.
func (s *Shape) IndexOf(name string) int {
	for i, p := range s.Props {
		if p == name {
			return i
		}
	}
	return -1
}
