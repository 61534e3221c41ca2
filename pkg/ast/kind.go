package ast

// Kind identifies the syntactic construct a Node represents. The set is
// closed: every pass switches over it explicitly.
type Kind uint8

const (
	Invalid Kind = iota

	// --- Top level / statements ---
	Program
	BlockStatement
	EmptyStatement
	ExpressionStatement
	IfStatement
	LabeledStatement
	BreakStatement
	ContinueStatement
	WithStatement
	SwitchStatement
	SwitchCase
	ReturnStatement
	ThrowStatement
	TryStatement
	CatchClause
	WhileStatement
	DoWhileStatement
	ForStatement
	ForInStatement
	ForOfStatement
	DebuggerStatement
	VariableDeclaration
	VariableDeclarator
	FunctionDeclaration
	ClassDeclaration

	// --- Expressions ---
	Identifier
	Literal
	ThisExpression
	Super
	ArrayExpression
	ObjectExpression
	Property
	FunctionExpression
	ArrowFunctionExpression
	ClassExpression
	ClassBody
	MethodDefinition
	PropertyDefinition
	TemplateLiteral
	TaggedTemplateExpression
	UnaryExpression
	UpdateExpression
	BinaryExpression
	LogicalExpression
	AssignmentExpression
	ConditionalExpression
	CallExpression
	NewExpression
	MemberExpression
	ChainExpression
	SequenceExpression
	SpreadElement
	YieldExpression
	AwaitExpression
	MetaProperty

	// --- Patterns ---
	ArrayPattern
	ObjectPattern
	RestElement
	AssignmentPattern

	// GlobalObject is synthesized by the literal collector as the object
	// of a member expression that replaced an unresolved identifier.
	GlobalObject

	kindCount
)

var kindNames = [...]string{
	Invalid:                  "Invalid",
	Program:                  "Program",
	BlockStatement:           "BlockStatement",
	EmptyStatement:           "EmptyStatement",
	ExpressionStatement:      "ExpressionStatement",
	IfStatement:              "IfStatement",
	LabeledStatement:         "LabeledStatement",
	BreakStatement:           "BreakStatement",
	ContinueStatement:        "ContinueStatement",
	WithStatement:            "WithStatement",
	SwitchStatement:          "SwitchStatement",
	SwitchCase:               "SwitchCase",
	ReturnStatement:          "ReturnStatement",
	ThrowStatement:           "ThrowStatement",
	TryStatement:             "TryStatement",
	CatchClause:              "CatchClause",
	WhileStatement:           "WhileStatement",
	DoWhileStatement:         "DoWhileStatement",
	ForStatement:             "ForStatement",
	ForInStatement:           "ForInStatement",
	ForOfStatement:           "ForOfStatement",
	DebuggerStatement:        "DebuggerStatement",
	VariableDeclaration:      "VariableDeclaration",
	VariableDeclarator:       "VariableDeclarator",
	FunctionDeclaration:      "FunctionDeclaration",
	ClassDeclaration:         "ClassDeclaration",
	Identifier:               "Identifier",
	Literal:                  "Literal",
	ThisExpression:           "ThisExpression",
	Super:                    "Super",
	ArrayExpression:          "ArrayExpression",
	ObjectExpression:         "ObjectExpression",
	Property:                 "Property",
	FunctionExpression:       "FunctionExpression",
	ArrowFunctionExpression:  "ArrowFunctionExpression",
	ClassExpression:          "ClassExpression",
	ClassBody:                "ClassBody",
	MethodDefinition:         "MethodDefinition",
	PropertyDefinition:       "PropertyDefinition",
	TemplateLiteral:          "TemplateLiteral",
	TaggedTemplateExpression: "TaggedTemplateExpression",
	UnaryExpression:          "UnaryExpression",
	UpdateExpression:         "UpdateExpression",
	BinaryExpression:         "BinaryExpression",
	LogicalExpression:        "LogicalExpression",
	AssignmentExpression:     "AssignmentExpression",
	ConditionalExpression:    "ConditionalExpression",
	CallExpression:           "CallExpression",
	NewExpression:            "NewExpression",
	MemberExpression:         "MemberExpression",
	ChainExpression:          "ChainExpression",
	SequenceExpression:       "SequenceExpression",
	SpreadElement:            "SpreadElement",
	YieldExpression:          "YieldExpression",
	AwaitExpression:          "AwaitExpression",
	MetaProperty:             "MetaProperty",
	ArrayPattern:             "ArrayPattern",
	ObjectPattern:            "ObjectPattern",
	RestElement:              "RestElement",
	AssignmentPattern:        "AssignmentPattern",
	GlobalObject:             "GlobalObject",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsFunction reports whether k is one of the function-like kinds that the
// splitter extracts into standalone function nodes.
func (k Kind) IsFunction() bool {
	switch k {
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression:
		return true
	}
	return false
}

// IsClass reports whether k is a class declaration or expression.
func (k Kind) IsClass() bool {
	return k == ClassDeclaration || k == ClassExpression
}

// IsLoop reports whether k is an iteration statement.
func (k Kind) IsLoop() bool {
	switch k {
	case WhileStatement, DoWhileStatement, ForStatement, ForInStatement, ForOfStatement:
		return true
	}
	return false
}

// LiteralKind distinguishes the value carried by a Literal node.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
	LitBigInt
	LitRegExp
	// LitUndefined and LitNaN are produced by the resolver when it
	// rewrites the non-configurable globals `undefined` and `NaN`.
	LitUndefined
	LitNaN
)

// DeclKind records how an Identifier node introduces a binding.
type DeclKind uint8

const (
	NotDecl DeclKind = iota
	DeclVar
	DeclLet
	DeclConst
	DeclFunction // function declaration binding
	DeclClass    // class declaration binding
	DeclParam
	DeclCatch
	DeclSelf      // name of a named function/class expression, inside itself
	DeclArguments // synthesized `arguments`
	DeclThis      // synthesized `this`
	DeclNewTarget // synthesized `new.target`
	DeclFuncValue // synthesized reference to the running function object
)

func (d DeclKind) String() string {
	switch d {
	case NotDecl:
		return "none"
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	case DeclParam:
		return "param"
	case DeclCatch:
		return "catch"
	case DeclSelf:
		return "self"
	case DeclArguments:
		return "arguments"
	case DeclThis:
		return "this"
	case DeclNewTarget:
		return "new.target"
	case DeclFuncValue:
		return "function value"
	}
	return "?"
}

// IsLexical reports whether the binding is block scoped and subject to the
// temporal dead zone.
func (d DeclKind) IsLexical() bool {
	return d == DeclLet || d == DeclConst || d == DeclClass
}

// IsSynthetic reports whether the binding has no source declaration.
func (d DeclKind) IsSynthetic() bool {
	switch d {
	case DeclArguments, DeclThis, DeclNewTarget, DeclFuncValue:
		return true
	}
	return false
}
