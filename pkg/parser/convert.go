package parser

import (
	"math/big"

	gojaast "github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/token"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

// converter maps goja's tree onto pkg/ast. goja indexes are 1-based byte
// offsets when no file set is given.
type converter struct {
	sf    *source.SourceFile
	arena *ast.Arena
	err   errors.DelphiniumError
}

func newConverter(sf *source.SourceFile) *converter {
	return &converter{sf: sf, arena: ast.NewArena()}
}

func offset(idx file.Idx) int {
	if idx <= 0 {
		return 0
	}
	return int(idx) - 1
}

func (cv *converter) node(kind ast.Kind, from gojaast.Node) *ast.Node {
	if from == nil {
		return cv.arena.New(kind, 0, 0)
	}
	return cv.arena.New(kind, offset(from.Idx0()), offset(end(from)))
}

// end is from.Idx1, except for a case clause with no statements, whose
// Idx1 indexes past an empty list.
func end(from gojaast.Node) file.Idx {
	if c, ok := from.(*gojaast.CaseStatement); ok && len(c.Consequent) == 0 {
		if c.Test != nil {
			return c.Test.Idx1() + 1
		}
		return c.Case + file.Idx(len("default:"))
	}
	return from.Idx1()
}

func (cv *converter) fail(at gojaast.Node, msg string) {
	if cv.err != nil {
		return
	}
	from, to := 0, 0
	if at != nil {
		from, to = offset(at.Idx0()), offset(end(at))
	}
	cv.err = &errors.SyntaxError{Position: errors.PositionAt(cv.sf, from, to), Msg: msg}
}

func (cv *converter) program(prg *gojaast.Program) *ast.Node {
	root := cv.arena.New(ast.Program, 0, len(cv.sf.Content))
	for _, s := range prg.Body {
		if n := cv.stmt(s); n != nil {
			root.List = append(root.List, n)
		}
	}
	return root
}

// --- Statements ---

func (cv *converter) stmts(list []gojaast.Statement) []*ast.Node {
	out := make([]*ast.Node, 0, len(list))
	for _, s := range list {
		if n := cv.stmt(s); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (cv *converter) block(b *gojaast.BlockStatement) *ast.Node {
	n := cv.node(ast.BlockStatement, b)
	n.List = cv.stmts(b.List)
	return n
}

func (cv *converter) stmt(s gojaast.Statement) *ast.Node {
	if s == nil {
		return nil
	}
	switch s := s.(type) {
	case *gojaast.BlockStatement:
		return cv.block(s)
	case *gojaast.EmptyStatement:
		return cv.node(ast.EmptyStatement, s)
	case *gojaast.DebuggerStatement:
		return cv.node(ast.DebuggerStatement, s)
	case *gojaast.ExpressionStatement:
		n := cv.node(ast.ExpressionStatement, s)
		n.Expression = cv.expr(s.Expression)
		return n
	case *gojaast.IfStatement:
		n := cv.node(ast.IfStatement, s)
		n.Test = cv.expr(s.Test)
		n.Consequent = cv.stmt(s.Consequent)
		n.Alternate = cv.stmt(s.Alternate)
		return n
	case *gojaast.LabelledStatement:
		n := cv.node(ast.LabeledStatement, s)
		n.Name = s.Label.Name.String()
		n.Body = cv.stmt(s.Statement)
		return n
	case *gojaast.BranchStatement:
		kind := ast.BreakStatement
		if s.Token == token.CONTINUE {
			kind = ast.ContinueStatement
		}
		n := cv.node(kind, s)
		if s.Label != nil {
			n.Name = s.Label.Name.String()
		}
		return n
	case *gojaast.WithStatement:
		n := cv.node(ast.WithStatement, s)
		n.Object = cv.expr(s.Object)
		n.Body = cv.stmt(s.Body)
		return n
	case *gojaast.SwitchStatement:
		n := cv.node(ast.SwitchStatement, s)
		n.Discriminant = cv.expr(s.Discriminant)
		for _, c := range s.Body {
			cn := cv.node(ast.SwitchCase, c)
			if c.Test != nil {
				cn.Test = cv.expr(c.Test)
			}
			cn.List = cv.stmts(c.Consequent)
			n.List = append(n.List, cn)
		}
		return n
	case *gojaast.ReturnStatement:
		n := cv.node(ast.ReturnStatement, s)
		n.Argument = cv.expr(s.Argument)
		return n
	case *gojaast.ThrowStatement:
		n := cv.node(ast.ThrowStatement, s)
		n.Argument = cv.expr(s.Argument)
		return n
	case *gojaast.TryStatement:
		n := cv.node(ast.TryStatement, s)
		n.Block = cv.block(s.Body)
		if s.Catch != nil {
			h := cv.node(ast.CatchClause, s.Catch)
			if s.Catch.Parameter != nil {
				h.Param = cv.pattern(s.Catch.Parameter)
			}
			h.Body = cv.block(s.Catch.Body)
			n.Handler = h
		}
		if s.Finally != nil {
			n.Finalizer = cv.block(s.Finally)
		}
		return n
	case *gojaast.WhileStatement:
		n := cv.node(ast.WhileStatement, s)
		n.Test = cv.expr(s.Test)
		n.Body = cv.stmt(s.Body)
		return n
	case *gojaast.DoWhileStatement:
		n := cv.node(ast.DoWhileStatement, s)
		n.Body = cv.stmt(s.Body)
		n.Test = cv.expr(s.Test)
		return n
	case *gojaast.ForStatement:
		n := cv.node(ast.ForStatement, s)
		switch init := s.Initializer.(type) {
		case nil:
		case *gojaast.ForLoopInitializerExpression:
			n.Init = cv.expr(init.Expression)
		case *gojaast.ForLoopInitializerVarDeclList:
			n.Init = cv.declaration(ast.DeclVar, init, init.List)
		case *gojaast.ForLoopInitializerLexicalDecl:
			n.Init = cv.lexical(&init.LexicalDeclaration)
		default:
			cv.fail(s, "unexpected for-loop initializer")
		}
		n.Test = cv.expr(s.Test)
		n.Update = cv.expr(s.Update)
		n.Body = cv.stmt(s.Body)
		return n
	case *gojaast.ForInStatement:
		n := cv.node(ast.ForInStatement, s)
		n.Left = cv.forInto(s.Into)
		n.Right = cv.expr(s.Source)
		n.Body = cv.stmt(s.Body)
		return n
	case *gojaast.ForOfStatement:
		n := cv.node(ast.ForOfStatement, s)
		n.Left = cv.forInto(s.Into)
		n.Right = cv.expr(s.Source)
		n.Body = cv.stmt(s.Body)
		return n
	case *gojaast.VariableStatement:
		return cv.declaration(ast.DeclVar, s, s.List)
	case *gojaast.LexicalDeclaration:
		return cv.lexical(s)
	case *gojaast.FunctionDeclaration:
		return cv.function(ast.FunctionDeclaration, s.Function)
	case *gojaast.ClassDeclaration:
		return cv.class(ast.ClassDeclaration, s.Class)
	case *gojaast.BadStatement:
		cv.fail(s, "invalid statement")
		return cv.node(ast.EmptyStatement, s)
	}
	cv.fail(s, "unsupported statement")
	return cv.node(ast.EmptyStatement, s)
}

func (cv *converter) lexical(d *gojaast.LexicalDeclaration) *ast.Node {
	kind := ast.DeclLet
	if d.Token == token.CONST {
		kind = ast.DeclConst
	}
	return cv.declaration(kind, d, d.List)
}

func (cv *converter) declaration(kind ast.DeclKind, at gojaast.Node, list []*gojaast.Binding) *ast.Node {
	n := cv.node(ast.VariableDeclaration, at)
	n.VarKind = kind
	for _, b := range list {
		d := cv.arena.New(ast.VariableDeclarator, offset(b.Target.Idx0()), offset(b.Target.Idx1()))
		d.ID = cv.pattern(b.Target)
		if b.Initializer != nil {
			d.Init = cv.expr(b.Initializer)
			d.End = offset(b.Initializer.Idx1())
		}
		n.List = append(n.List, d)
	}
	return n
}

func (cv *converter) forInto(into gojaast.ForInto) *ast.Node {
	switch into := into.(type) {
	case *gojaast.ForIntoVar:
		return cv.declaration(ast.DeclVar, into.Binding.Target, []*gojaast.Binding{into.Binding})
	case *gojaast.ForDeclaration:
		kind := ast.DeclLet
		if into.IsConst {
			kind = ast.DeclConst
		}
		n := cv.node(ast.VariableDeclaration, into)
		n.VarKind = kind
		d := cv.arena.New(ast.VariableDeclarator, offset(into.Target.Idx0()), offset(into.Target.Idx1()))
		d.ID = cv.pattern(into.Target)
		n.List = []*ast.Node{d}
		return n
	case *gojaast.ForIntoExpression:
		return cv.pattern(into.Expression)
	}
	cv.fail(nil, "unexpected for-in/of binding")
	return cv.arena.New(ast.Identifier, 0, 0)
}

// --- Functions and classes ---

func (cv *converter) params(pl *gojaast.ParameterList) []*ast.Node {
	if pl == nil {
		return nil
	}
	var out []*ast.Node
	for _, b := range pl.List {
		out = append(out, cv.binding(b))
	}
	if pl.Rest != nil {
		r := cv.node(ast.RestElement, pl.Rest)
		r.Argument = cv.pattern(pl.Rest)
		out = append(out, r)
	}
	return out
}

func (cv *converter) binding(b *gojaast.Binding) *ast.Node {
	target := cv.pattern(b.Target)
	if b.Initializer == nil {
		return target
	}
	n := cv.arena.New(ast.AssignmentPattern, target.Start, offset(b.Initializer.Idx1()))
	n.Left = target
	n.Right = cv.expr(b.Initializer)
	return n
}

func (cv *converter) function(kind ast.Kind, fl *gojaast.FunctionLiteral) *ast.Node {
	n := cv.node(kind, fl)
	if fl.Name != nil {
		n.ID = cv.ident(fl.Name)
	}
	n.Params = cv.params(fl.ParameterList)
	n.Body = cv.block(fl.Body)
	n.Async = fl.Async
	n.Generator = fl.Generator
	return n
}

func (cv *converter) arrow(al *gojaast.ArrowFunctionLiteral) *ast.Node {
	n := cv.node(ast.ArrowFunctionExpression, al)
	n.Params = cv.params(al.ParameterList)
	n.Async = al.Async
	switch body := al.Body.(type) {
	case *gojaast.BlockStatement:
		n.Body = cv.block(body)
	case *gojaast.ExpressionBody:
		n.Body = cv.expr(body.Expression)
		n.ExprBody = true
	default:
		cv.fail(al, "unexpected arrow function body")
	}
	return n
}

func (cv *converter) class(kind ast.Kind, cl *gojaast.ClassLiteral) *ast.Node {
	n := cv.node(kind, cl)
	if cl.Name != nil {
		n.ID = cv.ident(cl.Name)
	}
	if cl.SuperClass != nil {
		n.SuperClass = cv.expr(cl.SuperClass)
	}
	body := cv.node(ast.ClassBody, cl)
	for _, el := range cl.Body {
		switch el := el.(type) {
		case *gojaast.MethodDefinition:
			m := cv.node(ast.MethodDefinition, el)
			m.Static = el.Static
			m.Computed = el.Computed
			m.Key = cv.propertyKey(el.Key, el.Computed)
			m.Value = cv.function(ast.FunctionExpression, el.Body)
			switch el.Kind {
			case gojaast.PropertyKindGet:
				m.PropKind = "get"
			case gojaast.PropertyKindSet:
				m.PropKind = "set"
			default:
				m.PropKind = "method"
				if !el.Static && !el.Computed && m.Key.Kind == ast.Literal && m.Key.Str == "constructor" {
					m.PropKind = "constructor"
				}
			}
			body.List = append(body.List, m)
		case *gojaast.FieldDefinition:
			f := cv.node(ast.PropertyDefinition, el)
			f.Static = el.Static
			f.Computed = el.Computed
			f.Key = cv.propertyKey(el.Key, el.Computed)
			if el.Initializer != nil {
				f.Value = cv.expr(el.Initializer)
			}
			body.List = append(body.List, f)
		default:
			f := cv.node(ast.PropertyDefinition, el)
			f.Static = true
			body.List = append(body.List, f)
		}
	}
	n.Body = body
	return n
}

// propertyKey converts an object/class key. Non-computed keys become
// string literals holding the canonical property name.
func (cv *converter) propertyKey(key gojaast.Expression, computed bool) *ast.Node {
	if computed {
		return cv.expr(key)
	}
	n := cv.node(ast.Literal, key)
	n.LitKind = ast.LitString
	switch k := key.(type) {
	case *gojaast.StringLiteral:
		n.Str = k.Value.String()
	case *gojaast.Identifier:
		n.Str = k.Name.String()
	case *gojaast.NumberLiteral:
		switch v := k.Value.(type) {
		case int64:
			n.Str = abi.NumberToString(float64(v))
		case float64:
			n.Str = abi.NumberToString(v)
		default:
			n.Str = k.Literal
		}
	case *gojaast.PrivateIdentifier:
		cv.fail(key, "private names are not supported")
	default:
		cv.fail(key, "unexpected property key")
	}
	n.Raw = n.Str
	return n
}

// --- Expressions ---

func (cv *converter) ident(id *gojaast.Identifier) *ast.Node {
	n := cv.node(ast.Identifier, id)
	n.Name = id.Name.String()
	return n
}

func (cv *converter) exprs(list []gojaast.Expression) []*ast.Node {
	out := make([]*ast.Node, 0, len(list))
	for _, e := range list {
		out = append(out, cv.expr(e))
	}
	return out
}

// unwrapOptional strips goja's Optional marker from the head of a `?.`
// link and reports whether it was there.
func unwrapOptional(e gojaast.Expression) (gojaast.Expression, bool) {
	if opt, ok := e.(*gojaast.Optional); ok {
		return opt.Expression, true
	}
	return e, false
}

func (cv *converter) expr(e gojaast.Expression) *ast.Node {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *gojaast.Identifier:
		return cv.ident(e)
	case *gojaast.StringLiteral:
		n := cv.node(ast.Literal, e)
		n.LitKind = ast.LitString
		n.Str = e.Value.String()
		n.Raw = e.Literal
		return n
	case *gojaast.NumberLiteral:
		n := cv.node(ast.Literal, e)
		n.Raw = e.Literal
		n.LitKind = ast.LitNumber
		switch v := e.Value.(type) {
		case int64:
			n.Num = float64(v)
		case float64:
			n.Num = v
		case *big.Int:
			n.LitKind = ast.LitBigInt
			n.Str = v.String()
		default:
			cv.fail(e, "unexpected numeric literal")
		}
		return n
	case *gojaast.BooleanLiteral:
		n := cv.node(ast.Literal, e)
		n.LitKind = ast.LitBoolean
		n.Bool = e.Value
		n.Raw = e.Literal
		return n
	case *gojaast.NullLiteral:
		n := cv.node(ast.Literal, e)
		n.LitKind = ast.LitNull
		n.Raw = "null"
		return n
	case *gojaast.RegExpLiteral:
		n := cv.node(ast.Literal, e)
		n.LitKind = ast.LitRegExp
		n.Str = e.Pattern
		n.Flags = e.Flags
		n.Raw = e.Literal
		return n
	case *gojaast.TemplateLiteral:
		n := cv.template(e)
		if e.Tag == nil {
			return n
		}
		t := cv.node(ast.TaggedTemplateExpression, e)
		t.Callee = cv.expr(e.Tag)
		t.Argument = n
		return t
	case *gojaast.ThisExpression:
		return cv.node(ast.ThisExpression, e)
	case *gojaast.SuperExpression:
		return cv.node(ast.Super, e)
	case *gojaast.ArrayLiteral:
		n := cv.node(ast.ArrayExpression, e)
		for _, v := range e.Value {
			if v == nil {
				n.List = append(n.List, nil)
				continue
			}
			n.List = append(n.List, cv.expr(v))
		}
		return n
	case *gojaast.ObjectLiteral:
		n := cv.node(ast.ObjectExpression, e)
		for _, p := range e.Value {
			n.List = append(n.List, cv.property(p))
		}
		return n
	case *gojaast.FunctionLiteral:
		return cv.function(ast.FunctionExpression, e)
	case *gojaast.ArrowFunctionLiteral:
		return cv.arrow(e)
	case *gojaast.ClassLiteral:
		return cv.class(ast.ClassExpression, e)
	case *gojaast.UnaryExpression:
		if e.Operator == token.INCREMENT || e.Operator == token.DECREMENT {
			n := cv.node(ast.UpdateExpression, e)
			n.Operator = e.Operator.String()
			n.Prefix = !e.Postfix
			n.Argument = cv.expr(e.Operand)
			return n
		}
		n := cv.node(ast.UnaryExpression, e)
		n.Operator = e.Operator.String()
		n.Argument = cv.expr(e.Operand)
		return n
	case *gojaast.BinaryExpression:
		kind := ast.BinaryExpression
		switch e.Operator {
		case token.LOGICAL_AND, token.LOGICAL_OR, token.COALESCE:
			kind = ast.LogicalExpression
		}
		n := cv.node(kind, e)
		n.Operator = e.Operator.String()
		n.Left = cv.expr(e.Left)
		n.Right = cv.expr(e.Right)
		return n
	case *gojaast.AssignExpression:
		n := cv.node(ast.AssignmentExpression, e)
		if e.Operator == token.ASSIGN {
			n.Operator = "="
		} else {
			n.Operator = e.Operator.String() + "="
		}
		n.Left = cv.pattern(e.Left)
		n.Right = cv.expr(e.Right)
		return n
	case *gojaast.ConditionalExpression:
		n := cv.node(ast.ConditionalExpression, e)
		n.Test = cv.expr(e.Test)
		n.Consequent = cv.expr(e.Consequent)
		n.Alternate = cv.expr(e.Alternate)
		return n
	case *gojaast.CallExpression:
		n := cv.node(ast.CallExpression, e)
		callee, opt := unwrapOptional(e.Callee)
		n.Optional = opt
		n.Callee = cv.expr(callee)
		n.List = cv.exprs(e.ArgumentList)
		return n
	case *gojaast.NewExpression:
		n := cv.node(ast.NewExpression, e)
		n.Callee = cv.expr(e.Callee)
		n.List = cv.exprs(e.ArgumentList)
		return n
	case *gojaast.DotExpression:
		n := cv.node(ast.MemberExpression, e)
		obj, opt := unwrapOptional(e.Left)
		n.Optional = opt
		n.Object = cv.expr(obj)
		n.Property = cv.ident(&e.Identifier)
		return n
	case *gojaast.BracketExpression:
		n := cv.node(ast.MemberExpression, e)
		obj, opt := unwrapOptional(e.Left)
		n.Optional = opt
		n.Computed = true
		n.Object = cv.expr(obj)
		n.Property = cv.expr(e.Member)
		return n
	case *gojaast.PrivateDotExpression:
		cv.fail(e, "private names are not supported")
		return cv.node(ast.Identifier, e)
	case *gojaast.OptionalChain:
		n := cv.node(ast.ChainExpression, e)
		n.Expression = cv.expr(e.Expression)
		return n
	case *gojaast.Optional:
		// a bare Optional outside a member/call link: the marker carries
		// no meaning of its own
		return cv.expr(e.Expression)
	case *gojaast.SequenceExpression:
		n := cv.node(ast.SequenceExpression, e)
		n.List = cv.exprs(e.Sequence)
		return n
	case *gojaast.SpreadElement:
		n := cv.node(ast.SpreadElement, e)
		n.Argument = cv.expr(e.Expression)
		return n
	case *gojaast.YieldExpression:
		n := cv.node(ast.YieldExpression, e)
		n.Argument = cv.expr(e.Argument)
		n.Delegate = e.Delegate
		return n
	case *gojaast.AwaitExpression:
		n := cv.node(ast.AwaitExpression, e)
		n.Argument = cv.expr(e.Argument)
		return n
	case *gojaast.MetaProperty:
		n := cv.node(ast.MetaProperty, e)
		n.Name = e.Meta.Name.String() + "." + e.Property.Name.String()
		return n
	case *gojaast.ArrayPattern, *gojaast.ObjectPattern:
		return cv.pattern(e)
	case *gojaast.BadExpression:
		cv.fail(e, "invalid expression")
		return cv.node(ast.Identifier, e)
	}
	cv.fail(e, "unsupported expression")
	return cv.node(ast.Identifier, e)
}

func (cv *converter) template(t *gojaast.TemplateLiteral) *ast.Node {
	n := cv.node(ast.TemplateLiteral, t)
	for _, el := range t.Elements {
		n.Quasis = append(n.Quasis, el.Parsed.String())
		n.RawQuasis = append(n.RawQuasis, el.Literal)
		n.Invalid = append(n.Invalid, !el.Valid)
	}
	n.List = cv.exprs(t.Expressions)
	return n
}

func (cv *converter) property(p gojaast.Property) *ast.Node {
	switch p := p.(type) {
	case *gojaast.PropertyShort:
		n := cv.node(ast.Property, p)
		n.Shorthand = true
		n.PropKind = "init"
		n.Key = cv.propertyKey(&p.Name, false)
		n.Value = cv.ident(&p.Name)
		if p.Initializer != nil {
			d := cv.node(ast.AssignmentPattern, p)
			d.Left = n.Value
			d.Right = cv.expr(p.Initializer)
			n.Value = d
		}
		return n
	case *gojaast.PropertyKeyed:
		n := cv.node(ast.Property, p)
		n.Computed = p.Computed
		n.Key = cv.propertyKey(p.Key, p.Computed)
		switch p.Kind {
		case gojaast.PropertyKindGet:
			n.PropKind = "get"
		case gojaast.PropertyKindSet:
			n.PropKind = "set"
		case gojaast.PropertyKindMethod:
			n.PropKind = "init"
			n.Method = true
		default:
			n.PropKind = "init"
		}
		n.Value = cv.expr(p.Value)
		return n
	case *gojaast.SpreadElement:
		n := cv.node(ast.SpreadElement, p)
		n.Argument = cv.expr(p.Expression)
		return n
	}
	cv.fail(p, "unexpected property in object literal")
	return cv.node(ast.Property, p)
}

// --- Patterns ---

// pattern converts a binding or assignment target.
func (cv *converter) pattern(e gojaast.Expression) *ast.Node {
	switch e := e.(type) {
	case *gojaast.Identifier:
		return cv.ident(e)
	case *gojaast.ArrayPattern:
		n := cv.node(ast.ArrayPattern, e)
		for _, el := range e.Elements {
			if el == nil {
				n.List = append(n.List, nil)
				continue
			}
			n.List = append(n.List, cv.patternElement(el))
		}
		if e.Rest != nil {
			r := cv.node(ast.RestElement, e.Rest)
			r.Argument = cv.pattern(e.Rest)
			n.List = append(n.List, r)
		}
		return n
	case *gojaast.ObjectPattern:
		n := cv.node(ast.ObjectPattern, e)
		for _, p := range e.Properties {
			prop := cv.property(p)
			if prop.Kind == ast.Property && !prop.Shorthand && prop.Value != nil {
				if kp, ok := p.(*gojaast.PropertyKeyed); ok {
					prop.Value = cv.patternElement(kp.Value)
				}
			}
			n.List = append(n.List, prop)
		}
		if e.Rest != nil {
			r := cv.node(ast.RestElement, e.Rest)
			r.Argument = cv.pattern(e.Rest)
			n.List = append(n.List, r)
		}
		return n
	case *gojaast.DotExpression, *gojaast.BracketExpression, *gojaast.PrivateDotExpression:
		return cv.expr(e)
	case *gojaast.AssignExpression:
		return cv.patternElement(e)
	case *gojaast.ObjectLiteral, *gojaast.ArrayLiteral:
		cv.fail(e, "invalid destructuring target")
		return cv.node(ast.Identifier, e)
	}
	cv.fail(e, "invalid assignment target")
	return cv.node(ast.Identifier, e)
}

// patternElement converts an element of a pattern; `target = default`
// arrives as an assignment expression.
func (cv *converter) patternElement(e gojaast.Expression) *ast.Node {
	if a, ok := e.(*gojaast.AssignExpression); ok && a.Operator == token.ASSIGN {
		n := cv.node(ast.AssignmentPattern, a)
		n.Left = cv.pattern(a.Left)
		n.Right = cv.expr(a.Right)
		return n
	}
	return cv.pattern(e)
}
