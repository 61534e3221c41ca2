// Package ast holds the syntax tree every compiler pass reads and
// annotates. Nodes are allocated from an Arena, which owns them; every
// pointer stored in a node other than its child fields (Parent, Decl,
// WithDecl, Scope, Func) is a non-owning lookup link.
package ast

// Node is one source construct. The shape follows ESTree; the field use per
// kind is listed next to each child field. Annotation fields are filled in
// by the passes, never contradicted once set.
type Node struct {
	Kind  Kind
	Start int // 0-based byte offset of the first character
	End   int // 0-based byte offset past the last character
	Index int // position in the owning arena

	// --- payload ---
	Name      string      // Identifier name, Break/Continue/Labeled label, MetaProperty "new.target"
	Operator  string      // Unary, Update, Binary, Logical, Assignment operator text
	Prefix    bool        // UpdateExpression: ++x rather than x++
	LitKind   LiteralKind // Literal
	Str       string      // string value, regexp pattern, bigint decimal digits
	Flags     string      // regexp flags
	Num       float64     // number value
	Bool      bool        // boolean value
	Raw       string      // literal source text
	Computed  bool        // MemberExpression obj[x], Property/MethodDefinition [key]
	Optional  bool        // MemberExpression/CallExpression reached through `?.`
	Shorthand bool        // Property {a}
	Method    bool        // Property {a() {}}
	PropKind  string      // Property: init/get/set; MethodDefinition: constructor/method/get/set
	Static    bool        // MethodDefinition, PropertyDefinition
	Async     bool        // functions
	Generator bool        // functions
	Delegate  bool        // yield*
	ExprBody  bool        // arrow function whose source body was an expression
	VarKind   DeclKind    // VariableDeclaration: DeclVar, DeclLet or DeclConst
	Quasis    []string    // TemplateLiteral cooked strings ("" for invalid escapes in tagged templates)
	RawQuasis []string    // TemplateLiteral raw strings
	Invalid   []bool      // TemplateLiteral: cooked string is undefined

	// --- children ---
	ID           *Node   // function/class name, VariableDeclarator target
	Params       []*Node // function parameters (patterns, RestElement last)
	Body         *Node   // function body, loop/with/labeled/catch body, class body
	List         []*Node // Program/Block/ClassBody statements, SwitchStatement cases, SwitchCase consequent, array/object elements (nil = hole), call arguments, sequence, template expressions, declarators
	Expression   *Node   // ExpressionStatement, ChainExpression
	Left         *Node   // Binary/Logical/Assignment/AssignmentPattern left, ForIn/ForOf binding
	Right        *Node   // Binary/Logical/Assignment/AssignmentPattern right, ForIn/ForOf source
	Test         *Node   // If/Conditional/loops/SwitchCase test
	Consequent   *Node   // If/Conditional consequent
	Alternate    *Node   // If/Conditional alternate
	Init         *Node   // ForStatement init, VariableDeclarator initializer
	Update       *Node   // ForStatement update
	Object       *Node   // MemberExpression object, WithStatement object
	Property     *Node   // MemberExpression property
	Callee       *Node   // Call/New callee, TaggedTemplate tag
	Argument     *Node   // unary operand, return/throw/spread/rest/yield/await argument, TaggedTemplate quasi
	Key          *Node   // Property/MethodDefinition/PropertyDefinition key
	Value        *Node   // Property value, MethodDefinition function, PropertyDefinition initializer
	SuperClass   *Node   // class heritage
	Block        *Node   // TryStatement block
	Handler      *Node   // TryStatement catch clause
	Finalizer    *Node   // TryStatement finally block
	Param        *Node   // CatchClause parameter
	Discriminant *Node   // SwitchStatement discriminant

	// --- annotations ---
	Parent *Node  // syntactic parent
	Scope  *Scope // scope in effect; shared with the parent unless this node opens one

	// Decl links a reference to its declaring Identifier. On a detached
	// function/class site it points at the extracted function node, and the
	// function node points back at the site.
	Decl *Node
	// WithDecl is set instead of Decl when a `with` statement lies between
	// the reference and its declaration; the with-object is tried first.
	WithDecl *Node
	// GlobalLookup marks an identifier that resolved to nothing and reads
	// or writes a property of the global object.
	GlobalLookup bool

	DeclKind   DeclKind  // on declaring identifiers
	DeclEnd    int       // end offset of the declaration, for use-before-init checks
	Owner      *Function // function owning a declaration
	IsClosure  bool      // declaration captured by a nested function
	Referenced bool      // declaration read or written at least once
	Volatile   bool      // declaration must survive a longjmp out of a try

	// Generation is the number of assignments to the declaration seen
	// before this site; it versions shape-cache keys.
	Generation int

	CacheKey  string // shape-cache key of a member access, "?" if uncacheable
	CacheSlot int    // inline cache slot in the owning function, -1 if none
	Shape     *Shape // static shape of an object literal

	UniqueID int
	CName    string // target-language name/expression, assigned once

	Func *Function // non-nil exactly on function nodes (is_func_node)
}

// IsFuncNode reports whether n is an extracted function node.
func (n *Node) IsFuncNode() bool {
	return n != nil && n.Func != nil
}

// Detached reports whether n is a function or class site whose body was
// moved into a standalone function node.
func (n *Node) Detached() bool {
	return n != nil && n.Func == nil && n.Decl != nil && n.Decl.Func != nil &&
		(n.Kind.IsFunction() || n.Kind.IsClass() || n.Kind == MethodDefinition)
}

// SetCName assigns the target-language name once; later calls keep the
// first value and return it.
func (n *Node) SetCName(name string) string {
	if n.CName == "" {
		n.CName = name
	}
	return n.CName
}

// Resolved returns the declaration a reference binds to, preferring the
// direct declaration over a with-fallback.
func (n *Node) Resolved() *Node {
	if n.Decl != nil {
		return n.Decl
	}
	return n.WithDecl
}

// Arena owns every node of one compilation.
type Arena struct {
	nodes []*Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a node.
func (a *Arena) New(kind Kind, start, end int) *Node {
	n := &Node{Kind: kind, Start: start, End: end, Index: len(a.nodes), CacheSlot: -1}
	a.nodes = append(a.nodes, n)
	return n
}

// Clone allocates a shallow copy of n. Child slices are copied so the
// clone and the original can be edited independently.
func (a *Arena) Clone(n *Node) *Node {
	c := *n
	c.Index = len(a.nodes)
	if n.Params != nil {
		c.Params = append([]*Node(nil), n.Params...)
	}
	if n.List != nil {
		c.List = append([]*Node(nil), n.List...)
	}
	a.nodes = append(a.nodes, &c)
	return &c
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// At returns the node at index i.
func (a *Arena) At(i int) *Node {
	return a.nodes[i]
}
