package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// expr writes n as an expression yielding a js_val.
func (w *funcWriter) expr(n *ast.Node) cir.Expr {
	if n == nil || w.failed() {
		return cir.Undefined
	}
	if w.chain != nil && n.Kind != ast.MemberExpression && n.Kind != ast.CallExpression {
		// only members and calls form the spine of an optional chain
		saved := w.chain
		w.chain = nil
		defer func() { w.chain = saved }()
	}

	switch n.Kind {
	case ast.Literal:
		return w.literal(n)
	case ast.Identifier:
		return w.identifier(n)
	case ast.ThisExpression, ast.MetaProperty:
		if n.Decl == nil {
			return w.fail(n, "unresolved %s", n.Kind)
		}
		return w.load(n.Decl)
	case ast.TemplateLiteral:
		return w.template(n)
	case ast.TaggedTemplateExpression:
		return w.taggedTemplate(n)
	case ast.ArrayExpression:
		return w.array(n)
	case ast.ObjectExpression:
		return w.object(n)
	case ast.FunctionExpression, ast.ArrowFunctionExpression:
		return w.functionValue(n)
	case ast.ClassExpression:
		return w.class(n)
	case ast.UnaryExpression:
		return w.unary(n)
	case ast.UpdateExpression:
		return w.update(n, true)
	case ast.BinaryExpression:
		return w.binary(n)
	case ast.LogicalExpression:
		return w.logical(n)
	case ast.AssignmentExpression:
		return w.assign(n, true)
	case ast.ConditionalExpression:
		return cir.Ternary(w.test(n.Test), w.expr(n.Consequent), w.expr(n.Alternate))
	case ast.CallExpression:
		return w.call(n)
	case ast.NewExpression:
		return w.construct(n)
	case ast.MemberExpression:
		return w.member(n)
	case ast.ChainExpression:
		return w.optionalChain(n)
	case ast.SequenceExpression:
		list := make([]cir.Expr, 0, len(n.List))
		for i, e := range n.List {
			if i < len(n.List)-1 {
				list = append(list, w.discard(e))
			} else {
				list = append(list, w.expr(e))
			}
		}
		return cir.Comma(list...)
	case ast.YieldExpression, ast.AwaitExpression:
		return w.suspend(n)
	}
	return w.fail(n, "unexpected %s in expression", n.Kind)
}

// discard writes n for its effects only, which lets updates and
// assignments skip keeping their result.
func (w *funcWriter) discard(n *ast.Node) cir.Expr {
	switch n.Kind {
	case ast.UpdateExpression:
		return w.update(n, false)
	case ast.AssignmentExpression:
		return w.assign(n, false)
	}
	return w.expr(n)
}

func (w *funcWriter) literal(n *ast.Node) cir.Expr {
	switch n.LitKind {
	case ast.LitString:
		if n.CName == "" {
			return w.lit(n.Str, isKeyPosition(n))
		}
		return cir.K(n.CName)
	case ast.LitBigInt:
		if n.CName == "" {
			n.CName = w.ctx.Literals.BigInt(n.Str)
		}
		return cir.K(n.CName)
	case ast.LitNumber:
		return cir.Num(n.Num)
	case ast.LitBoolean:
		if n.Bool {
			return cir.K(abi.ValTrue)
		}
		return cir.K(abi.ValFalse)
	case ast.LitNull:
		return cir.K(abi.ValNull)
	case ast.LitUndefined:
		return cir.Undefined
	case ast.LitNaN:
		return cir.K(abi.ValNaN)
	case ast.LitRegExp:
		return cir.CE(abi.FnNewRegExp, w.lit(n.Str, false), w.lit(n.Flags, false))
	}
	return w.fail(n, "unexpected literal")
}

// identifier reads a variable. Names a with statement may intercept
// are looked up in the with objects first, then in the fallback
// binding, if there is one.
func (w *funcWriter) identifier(n *ast.Node) cir.Expr {
	switch {
	case n.GlobalLookup:
		return cir.CE(abi.FnWithGet, w.lit(n.Name, true), cir.K("NULL"))
	case n.WithDecl != nil:
		return cir.CE(abi.FnWithGet, w.lit(n.Name, true), w.cell(n.WithDecl))
	case n.Decl == nil:
		return w.fail(n, "unresolved identifier '%s'", n.Name)
	}
	return w.load(n.Decl)
}

// withAffectedIdent reports whether reading identifier n goes through
// the with machinery.
func withAffectedIdent(n *ast.Node) bool {
	return n.Kind == ast.Identifier && (n.GlobalLookup || n.WithDecl != nil)
}

// withFallback is the fallback cell argument of the with helpers.
func (w *funcWriter) withFallback(n *ast.Node) cir.Expr {
	if n.WithDecl != nil {
		return w.cell(n.WithDecl)
	}
	return cir.K("NULL")
}

// numberParts splits a value into its number test and its double. A
// boxed constant needs no test.
func numberParts(e cir.Expr) (cir.Expr, cir.Expr) {
	if c, ok := e.(*cir.Call); ok && c.Fn == abi.FnMakeNumber && cir.IsConst(c) {
		return nil, c.Args[0]
	}
	return cir.IsNumber(e), cir.RawNum(e)
}

func boxNumber(x cir.Expr) cir.Expr {
	return cir.C(abi.FnMakeNumber, x)
}

// fastOrSlow picks the fast expression when the test holds. A nil test
// means the fast path always applies.
func fastOrSlow(test, fast, slow cir.Expr) cir.Expr {
	if test == nil {
		return fast
	}
	return cir.Ternary(&cir.Likely{X: test}, fast, slow)
}

func (w *funcWriter) binary(n *ast.Node) cir.Expr {
	switch n.Operator {
	case "==", "!=", "===", "!==", "<", "<=", ">", ">=", "instanceof", "in":
		return cir.Boxed(w.test(n))
	}
	return w.arith(n, n.Operator, w.expr(n.Left), w.expr(n.Right))
}

// arith applies a binary arithmetic operator. When both operands are
// numbers the operation is done on doubles; C arithmetic and the int32
// conversions give the same results as the runtime for every number,
// including NaN and signed zeros.
func (w *funcWriter) arith(n *ast.Node, op string, a, b cir.Expr) cir.Expr {
	pre, v := w.operands(a, b)
	x, y := v[0], v[1]
	xt, xn := numberParts(x)
	yt, yn := numberParts(y)
	both := cir.And(xt, yt)

	shift := func(e cir.Expr) cir.Expr {
		return cir.Bin("&", cir.C(abi.FnToUint32, e), cir.K("31"))
	}
	var fast, slow cir.Expr
	switch op {
	case "+":
		fast = boxNumber(cir.Bin("+", xn, yn))
		slow = cir.CE(abi.FnAdd, x, y)
	case "-", "*", "/":
		fast = boxNumber(cir.Bin(op, xn, yn))
	case "%":
		fast = boxNumber(cir.C("fmod", xn, yn))
	case "&", "|", "^":
		fast = boxNumber(&cir.Cast{Type: "double", X: cir.Bin(op, cir.C(abi.FnToInt32, xn), cir.C(abi.FnToInt32, yn))})
	case "<<":
		shifted := cir.Bin("<<", &cir.Cast{Type: "uint32_t", X: cir.C(abi.FnToInt32, xn)}, shift(yn))
		fast = boxNumber(&cir.Cast{Type: "double", X: &cir.Cast{Type: "int32_t", X: shifted}})
	case ">>":
		fast = boxNumber(&cir.Cast{Type: "double", X: cir.Bin(">>", cir.C(abi.FnToInt32, xn), shift(yn))})
	case ">>>":
		fast = boxNumber(&cir.Cast{Type: "double", X: cir.Bin(">>", cir.C(abi.FnToUint32, xn), shift(yn))})
	case "**":
		// C pow differs for a base of 1 and a NaN exponent
		return cir.Comma(append(pre, cir.CE(abi.FnBinop, cir.K(abi.BinopCodes[op]), x, y))...)
	default:
		return w.fail(n, "unsupported operator '%s'", op)
	}
	if slow == nil {
		slow = cir.CE(abi.FnBinop, cir.K(abi.BinopCodes[op]), x, y)
	}
	return cir.Comma(append(pre, fastOrSlow(both, fast, slow))...)
}

func (w *funcWriter) logical(n *ast.Node) cir.Expr {
	t := w.temp()
	first := cir.Set(t, w.expr(n.Left))
	second := w.expr(n.Right)
	switch n.Operator {
	case "&&":
		return cir.Ternary(cir.CE(abi.FnIsTruthy, first), second, t)
	case "||":
		return cir.Ternary(cir.CE(abi.FnIsTruthy, first), t, second)
	case "??":
		return cir.Ternary(cir.C(abi.FnIsNullish, first), second, t)
	}
	return w.fail(n, "unsupported logical operator '%s'", n.Operator)
}

func (w *funcWriter) unary(n *ast.Node) cir.Expr {
	switch n.Operator {
	case "!":
		return cir.Boxed(w.test(n))
	case "typeof":
		return w.typeofValue(n.Argument)
	case "void":
		return cir.Comma(w.discard(n.Argument), cir.Undefined)
	case "delete":
		return w.delete(n)
	}

	set, v := w.reusable(w.expr(n.Argument))
	test, num := numberParts(v)
	var out cir.Expr
	switch n.Operator {
	case "-":
		out = fastOrSlow(test, boxNumber(&cir.Unary{Op: "-", X: num}),
			cir.CE(abi.FnUnop, cir.K(abi.UnopCodes["-"]), v))
	case "+":
		out = fastOrSlow(test, v, cir.CE(abi.FnToNumber, v))
	case "~":
		out = fastOrSlow(test,
			boxNumber(&cir.Cast{Type: "double", X: &cir.Unary{Op: "~", X: cir.C(abi.FnToInt32, num)}}),
			cir.CE(abi.FnUnop, cir.K(abi.UnopCodes["~"]), v))
	default:
		return w.fail(n, "unsupported unary operator '%s'", n.Operator)
	}
	return cir.Comma(set, out)
}

// typeofOperand reads the operand of typeof, where an undeclared global
// yields undefined instead of throwing.
func (w *funcWriter) typeofOperand(arg *ast.Node) cir.Expr {
	if isGlobalMember(arg) {
		return cir.CE(abi.FnGetGlobal, cir.K(arg.Property.CName), cir.K("0"))
	}
	return w.expr(arg)
}

func (w *funcWriter) typeofValue(arg *ast.Node) cir.Expr {
	if withAffectedIdent(arg) {
		return cir.CE(abi.FnWithTypeof, w.lit(arg.Name, true), w.withFallback(arg))
	}
	return cir.CE(abi.FnTypeof, w.typeofOperand(arg))
}

func (w *funcWriter) delete(n *ast.Node) cir.Expr {
	arg := n.Argument
	strict := "0"
	if w.fn.Strict {
		strict = "1"
	}
	switch {
	case isGlobalMember(arg):
		if w.fn.Strict {
			return w.fail(n, "delete of an unqualified identifier in strict mode")
		}
		return cir.Boxed(cir.CE(abi.FnDelGlobal, cir.K(arg.Property.CName)))
	case arg.Kind == ast.MemberExpression:
		if arg.Object.Kind == ast.Super {
			return w.fail(n, "delete of a super property is not supported")
		}
		obj := w.expr(arg.Object)
		key := w.propertyKey(arg)
		pre, v := w.ordered(obj, key)
		return cir.Comma(append(pre, cir.Boxed(cir.CE(abi.FnDelProp, v[0], v[1], cir.K(strict))))...)
	case arg.Kind == ast.Identifier:
		if w.fn.Strict {
			return w.fail(n, "delete of an unqualified identifier in strict mode")
		}
		if withAffectedIdent(arg) {
			// deletes from the with object that has the name; a
			// binding found through the fallback is not deletable
			return cir.CE(abi.FnWithDelete, w.lit(arg.Name, true), w.withFallback(arg))
		}
		// declared bindings cannot be deleted
		return cir.K(abi.ValFalse)
	}
	return cir.Comma(w.discard(arg), cir.K(abi.ValTrue))
}

// suspend writes yield, yield* and await.
func (w *funcWriter) suspend(n *ast.Node) cir.Expr {
	v := w.expr(n.Argument)
	switch {
	case n.Kind == ast.AwaitExpression:
		return cir.CE(abi.FnAwait, v)
	case n.Delegate:
		return cir.CE(abi.FnYieldStar, v)
	}
	return cir.CE(abi.FnYield, v)
}
