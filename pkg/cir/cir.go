// Package cir is the small C intermediate representation the code
// generator builds. Writers produce trees of Expr and Stmt values that
// record sequencing and temporaries explicitly; rendering to text is the
// last step and fully parenthesizes every compound expression.
package cir

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
)

// Expr is a C expression.
type Expr interface {
	expr()
}

// Raw is C text used as is. It must already be a primary expression or be
// parenthesized by whoever built it. Const marks text whose value cannot
// change while the function runs (literal slots, runtime constants).
type Raw struct {
	Text  string
	Const bool
}

// Call is fn(args...).
type Call struct {
	Fn   string
	Args []Expr
}

// CallPtr calls through a function-valued expression: (fn)(args...).
type CallPtr struct {
	Fn   Expr
	Args []Expr
}

// Seq is a comma expression; its value is the last element.
type Seq struct{ List []Expr }

// Cond is test ? then : else.
type Cond struct{ Test, Then, Else Expr }

// Assign is target op value, op being "=" or a C compound operator.
type Assign struct {
	Target Expr
	Op     string
	Value  Expr
}

// Binary is x op y.
type Binary struct {
	Op   string
	X, Y Expr
}

// Unary is a prefix operator applied to X.
type Unary struct {
	Op string
	X  Expr
}

// Index is x[i].
type Index struct{ X, I Expr }

// Field selects a struct member, through a pointer when Arrow is set.
type Field struct {
	X     Expr
	Name  string
	Arrow bool
}

// Likely wraps a branch condition with a prediction hint.
type Likely struct {
	X        Expr
	Unlikely bool
}

// Cast is (typ)x.
type Cast struct {
	Type string
	X    Expr
}

func (*Raw) expr()     {}
func (*Call) expr()    {}
func (*CallPtr) expr() {}
func (*Seq) expr()     {}
func (*Cond) expr()    {}
func (*Assign) expr()  {}
func (*Binary) expr()  {}
func (*Unary) expr()   {}
func (*Index) expr()   {}
func (*Field) expr()   {}
func (*Likely) expr()  {}
func (*Cast) expr()    {}

// Stmt is a C statement.
type Stmt interface {
	stmt()
}

// ExprStmt evaluates X for its effects.
type ExprStmt struct{ X Expr }

// Block is a braced statement list. Decls are emitted at the top, which
// is where temporaries allocated while writing the body end up.
type Block struct {
	Decls []*Decl
	Body  []Stmt
}

// If is if (cond) then else.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// Label is name: ; a label always carries an empty statement so it can
// close a block.
type Label struct{ Name string }

// Goto is goto label.
type Goto struct{ Label string }

// Return returns X, or nothing when X is nil.
type Return struct{ X Expr }

// Loop is for (;;) body.
type Loop struct{ Body *Block }

// RawStmt is a line of C used as is.
type RawStmt struct{ Text string }

// Comment is a one-line comment.
type Comment struct{ Text string }

// Decl declares a variable. ArrayLen > 0 declares an array.
type Decl struct {
	Type     string
	Name     string
	Init     Expr
	Static   bool
	Volatile bool
	ArrayLen int
}

func (*ExprStmt) stmt() {}
func (*Block) stmt()    {}
func (*If) stmt()       {}
func (*Label) stmt()    {}
func (*Goto) stmt()     {}
func (*Return) stmt()   {}
func (*Loop) stmt()     {}
func (*RawStmt) stmt()  {}
func (*Comment) stmt()  {}
func (*Decl) stmt()     {}

// --- constructors ---

func R(text string) *Raw { return &Raw{Text: text} }

// K is constant C text.
func K(text string) *Raw { return &Raw{Text: text, Const: true} }

func C(fn string, args ...Expr) *Call { return &Call{Fn: fn, Args: args} }

// Env is the first argument of most runtime calls.
var Env = R("env")

// CE calls a runtime entry point that takes the environment first.
func CE(fn string, args ...Expr) *Call {
	return &Call{Fn: fn, Args: append([]Expr{Env}, args...)}
}

func Comma(list ...Expr) Expr {
	var flat []Expr
	for _, e := range list {
		if e == nil {
			continue
		}
		if s, ok := e.(*Seq); ok {
			flat = append(flat, s.List...)
			continue
		}
		flat = append(flat, e)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Seq{List: flat}
}

func Set(target, value Expr) *Assign { return &Assign{Target: target, Op: "=", Value: value} }

func Bin(op string, x, y Expr) *Binary { return &Binary{Op: op, X: x, Y: y} }

// And joins two conditions. A nil operand is a condition known to hold.
func And(x, y Expr) Expr {
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}
	return &Binary{Op: "&&", X: x, Y: y}
}

func Or(x, y Expr) *Binary { return &Binary{Op: "||", X: x, Y: y} }

func Not(x Expr) *Unary { return &Unary{Op: "!", X: x} }

func Ternary(test, then, els Expr) *Cond { return &Cond{Test: test, Then: then, Else: els} }

func Stmt1(e Expr) *ExprStmt { return &ExprStmt{X: e} }

// Num is a boxed number constant.
func Num(f float64) *Call { return C(abi.FnMakeNumber, K(abi.CDouble(f))) }

// Double is an unboxed C double constant.
func Double(f float64) *Raw { return K(abi.CDouble(f)) }

// RawNum reads the double of a js_val expression.
func RawNum(v Expr) *Field { return &Field{X: v, Name: "number"} }

// RawBits reads the bits of a js_val expression.
func RawBits(v Expr) *Field { return &Field{X: v, Name: "raw"} }

// IsNumber is the tag test for a double.
func IsNumber(v Expr) *Raw { return R("(" + abi.CIsNumber(String(v)) + ")") }

// IsObject is the tag test for an object pointer.
func IsObject(v Expr) *Raw { return R("(" + abi.CIsObject(String(v)) + ")") }

// Boxed converts a C truth value into js_true/js_false.
func Boxed(cond Expr) *Cond {
	return Ternary(cond, K(abi.ValTrue), K(abi.ValFalse))
}

// Undefined is the undefined value.
var Undefined = K(abi.ValUndefined)

// IsConst reports whether e has no side effects and yields the same
// value wherever it is evaluated, so it may be reordered or duplicated.
func IsConst(e Expr) bool {
	switch e := e.(type) {
	case *Raw:
		return e.Const
	case *Call:
		if e.Fn != abi.FnMakeNumber {
			return false
		}
		for _, a := range e.Args {
			if !IsConst(a) {
				return false
			}
		}
		return true
	case *Unary:
		return IsConst(e.X)
	case *Binary:
		return IsConst(e.X) && IsConst(e.Y)
	case *Cast:
		return IsConst(e.X)
	}
	return false
}
