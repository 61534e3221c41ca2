package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// test writes n as a C truth value. Comparisons and logical operators
// produce C truth values directly, so a condition never boxes a boolean
// only to test it again.
func (w *funcWriter) test(n *ast.Node) cir.Expr {
	if n == nil || w.failed() {
		return cir.K("0")
	}
	switch n.Kind {
	case ast.Literal:
		if truth, ok := literalTruth(n); ok {
			if truth {
				return cir.K("1")
			}
			return cir.K("0")
		}
	case ast.UnaryExpression:
		if n.Operator == "!" {
			return cir.Not(w.test(n.Argument))
		}
	case ast.LogicalExpression:
		if x, negated, ok := nullishPair(n); ok {
			nullish := cir.C(abi.FnIsNullish, w.expr(x))
			if negated {
				return cir.Not(nullish)
			}
			return nullish
		}
		switch n.Operator {
		case "&&":
			return cir.Bin("&&", w.test(n.Left), w.test(n.Right))
		case "||":
			return cir.Bin("||", w.test(n.Left), w.test(n.Right))
		}
	case ast.BinaryExpression:
		if c := w.compare(n); c != nil {
			return c
		}
	case ast.SequenceExpression:
		list := make([]cir.Expr, 0, len(n.List))
		for _, e := range n.List[:len(n.List)-1] {
			list = append(list, w.discard(e))
		}
		return cir.Comma(append(list, w.test(n.List[len(n.List)-1]))...)
	}
	return w.truthy(w.expr(n))
}

// truthy converts a js_val to a C truth value, unwrapping a value that
// was itself boxed from one.
func (w *funcWriter) truthy(v cir.Expr) cir.Expr {
	if c, ok := v.(*cir.Cond); ok && isBoolConst(c.Then, abi.ValTrue) && isBoolConst(c.Else, abi.ValFalse) {
		return c.Test
	}
	return cir.CE(abi.FnIsTruthy, v)
}

func isBoolConst(e cir.Expr, name string) bool {
	r, ok := e.(*cir.Raw)
	return ok && r.Const && r.Text == name
}

// literalTruth is the truth value of a literal known at compile time.
func literalTruth(n *ast.Node) (bool, bool) {
	switch n.LitKind {
	case ast.LitBoolean:
		return n.Bool, true
	case ast.LitNull, ast.LitUndefined, ast.LitNaN:
		return false, true
	case ast.LitNumber:
		return n.Num != 0 && n.Num == n.Num, true
	case ast.LitString:
		return n.Str != "", true
	}
	return false, false
}

// specialRaw returns the bit pattern of a null, undefined or boolean
// literal.
func specialRaw(n *ast.Node) (uint64, bool) {
	if n.Kind != ast.Literal {
		return 0, false
	}
	switch n.LitKind {
	case ast.LitNull:
		return abi.RawNull, true
	case ast.LitUndefined:
		return abi.RawUndefined, true
	case ast.LitBoolean:
		if n.Bool {
			return abi.RawTrue, true
		}
		return abi.RawFalse, true
	}
	return 0, false
}

func isNullOrUndefined(n *ast.Node) bool {
	return n.Kind == ast.Literal && (n.LitKind == ast.LitNull || n.LitKind == ast.LitUndefined)
}

// nullishPair recognizes `x === null || x === undefined` and
// `x !== null && x !== undefined` over one plain local, in either order
// and with the literal on either side.
func nullishPair(n *ast.Node) (x *ast.Node, negated, ok bool) {
	want := "==="
	switch n.Operator {
	case "||":
	case "&&":
		want, negated = "!==", true
	default:
		return nil, false, false
	}
	operand := func(c *ast.Node) (*ast.Node, ast.LiteralKind) {
		if c.Kind != ast.BinaryExpression || c.Operator != want {
			return nil, 0
		}
		switch {
		case isNullOrUndefined(c.Right) && c.Left.Kind == ast.Identifier:
			return c.Left, c.Right.LitKind
		case isNullOrUndefined(c.Left) && c.Right.Kind == ast.Identifier:
			return c.Right, c.Left.LitKind
		}
		return nil, 0
	}
	a, ka := operand(n.Left)
	b, kb := operand(n.Right)
	if a == nil || b == nil || ka == kb || a.Decl == nil || a.Decl != b.Decl {
		return nil, false, false
	}
	return a, negated, true
}

// compare writes a comparison operator as a C truth value, or returns
// nil for operators that are not comparisons.
func (w *funcWriter) compare(n *ast.Node) cir.Expr {
	op := n.Operator
	switch op {
	case "===", "!==", "==", "!=":
		eq := w.equality(n)
		if op == "!==" || op == "!=" {
			return cir.Not(eq)
		}
		return eq
	case "<", "<=", ">", ">=":
		pre, v := w.operands(w.expr(n.Left), w.expr(n.Right))
		x, y := v[0], v[1]
		xt, xn := numberParts(x)
		yt, yn := numberParts(y)
		slow := cir.CE(abi.FnCompare, x, y, cir.K(abi.CompareCodes[op]))
		return cir.Comma(append(pre, fastOrSlow(cir.And(xt, yt), cir.Bin(op, xn, yn), slow))...)
	case "instanceof":
		pre, v := w.ordered(w.expr(n.Left), w.expr(n.Right))
		return cir.Comma(append(pre, cir.CE(abi.FnInstanceof, v[0], v[1]))...)
	case "in":
		pre, v := w.ordered(w.expr(n.Left), w.expr(n.Right))
		return cir.Comma(append(pre, cir.CE(abi.FnHasProp, v[1], v[0]))...)
	}
	return nil
}

// equality writes == or === without the negation.
func (w *funcWriter) equality(n *ast.Node) cir.Expr {
	strict := n.Operator == "===" || n.Operator == "!=="
	left, right := n.Left, n.Right

	if t := w.typeofEquality(left, right); t != nil {
		return t
	}
	if !strict {
		switch {
		case isNullOrUndefined(right):
			return cir.C(abi.FnIsNullish, w.expr(left))
		case isNullOrUndefined(left):
			return cir.C(abi.FnIsNullish, w.expr(right))
		}
		return w.looseEq(w.expr(left), w.expr(right))
	}
	if raw, ok := specialRaw(right); ok {
		return rawEquals(w.expr(left), raw)
	}
	if raw, ok := specialRaw(left); ok {
		return rawEquals(w.expr(right), raw)
	}
	return w.strictEq(w.expr(left), w.expr(right))
}

// rawEquals compares a value to a special constant bit for bit.
func rawEquals(v cir.Expr, raw uint64) cir.Expr {
	return cir.Bin("==", cir.RawBits(v), cir.K(fmt.Sprintf("0x%016XULL", raw)))
}

// typeofEquality recognizes `typeof x === "name"`.
func (w *funcWriter) typeofEquality(left, right *ast.Node) cir.Expr {
	if right.Kind == ast.UnaryExpression && right.Operator == "typeof" {
		left, right = right, left
	}
	if left.Kind != ast.UnaryExpression || left.Operator != "typeof" {
		return nil
	}
	if right.Kind != ast.Literal || right.LitKind != ast.LitString || !abi.TypeofNames[right.Str] {
		return nil
	}
	if withAffectedIdent(left.Argument) {
		return nil
	}
	return cir.CE(abi.FnTypeofIs, w.typeofOperand(left.Argument), w.lit(right.Str, false))
}

// strictEq is === with the number fast path: double comparison already
// has NaN unequal to itself and +0 equal to -0.
func (w *funcWriter) strictEq(a, b cir.Expr) cir.Expr {
	pre, v := w.operands(a, b)
	x, y := v[0], v[1]
	xt, xn := numberParts(x)
	yt, yn := numberParts(y)
	fast := cir.Bin("==", xn, yn)
	return cir.Comma(append(pre, fastOrSlow(cir.And(xt, yt), fast, cir.CE(abi.FnStrictEq, x, y)))...)
}

func (w *funcWriter) looseEq(a, b cir.Expr) cir.Expr {
	pre, v := w.operands(a, b)
	x, y := v[0], v[1]
	xt, xn := numberParts(x)
	yt, yn := numberParts(y)
	fast := cir.Bin("==", xn, yn)
	return cir.Comma(append(pre, fastOrSlow(cir.And(xt, yt), fast, cir.CE(abi.FnLooseEq, x, y)))...)
}
