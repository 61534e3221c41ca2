package ast

// Children returns the child nodes of n in source (and evaluation) order.
// Holes in array literals and patterns are skipped.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(c ...*Node) {
		for _, x := range c {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch n.Kind {
	case Program, BlockStatement, ClassBody, SequenceExpression, TemplateLiteral,
		ArrayExpression, ArrayPattern, ObjectExpression, ObjectPattern, VariableDeclaration:
		add(n.List...)
	case ExpressionStatement, ChainExpression:
		add(n.Expression)
	case IfStatement, ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case LabeledStatement:
		add(n.Body)
	case WithStatement:
		add(n.Object, n.Body)
	case SwitchStatement:
		add(n.Discriminant)
		add(n.List...)
	case SwitchCase:
		add(n.Test)
		add(n.List...)
	case ReturnStatement, ThrowStatement, UnaryExpression, UpdateExpression,
		SpreadElement, RestElement, YieldExpression, AwaitExpression:
		add(n.Argument)
	case TryStatement:
		add(n.Block, n.Handler, n.Finalizer)
	case CatchClause:
		add(n.Param, n.Body)
	case WhileStatement:
		add(n.Test, n.Body)
	case DoWhileStatement:
		add(n.Body, n.Test)
	case ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case ForInStatement, ForOfStatement:
		add(n.Left, n.Right, n.Body)
	case VariableDeclarator:
		add(n.ID, n.Init)
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression:
		add(n.ID)
		add(n.Params...)
		add(n.Body)
	case ClassDeclaration, ClassExpression:
		add(n.ID, n.SuperClass, n.Body)
	case MethodDefinition, PropertyDefinition, Property:
		add(n.Key, n.Value)
	case TaggedTemplateExpression:
		add(n.Callee, n.Argument)
	case BinaryExpression, LogicalExpression, AssignmentExpression, AssignmentPattern:
		add(n.Left, n.Right)
	case CallExpression, NewExpression:
		add(n.Callee)
		add(n.List...)
	case MemberExpression:
		add(n.Object, n.Property)
	}
	return out
}

// Inspect walks the tree rooted at n in depth-first pre-order. If f
// returns false the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// SetParents fills in Parent links below root.
func SetParents(root *Node) {
	for _, c := range Children(root) {
		c.Parent = root
		SetParents(c)
	}
}

// IsReference reports whether an Identifier node is a variable reference,
// as opposed to a property name or a label.
func IsReference(n *Node) bool {
	if n.Kind != Identifier {
		return false
	}
	p := n.Parent
	if p == nil {
		return true
	}
	switch p.Kind {
	case MemberExpression:
		return p.Object == n || p.Computed
	case Property, MethodDefinition, PropertyDefinition:
		if p.Key == n {
			return p.Computed
		}
	case MetaProperty, BreakStatement, ContinueStatement, LabeledStatement:
		return false
	}
	return true
}

// EnclosingStatementList returns the statement list that directly contains
// n and n's index in it, or nil.
func EnclosingStatementList(n *Node) ([]*Node, int) {
	p := n.Parent
	if p == nil {
		return nil, -1
	}
	switch p.Kind {
	case Program, BlockStatement, SwitchCase, ClassBody:
		for i, s := range p.List {
			if s == n {
				return p.List, i
			}
		}
	}
	return nil, -1
}
