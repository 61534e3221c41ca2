package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented outline of the tree, one node per line, with
// the resolver annotations that are present.
func Dump(w io.Writer, n *Node) {
	dump(w, n, 0)
}

func dump(w io.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case Identifier:
		b.WriteString(" " + n.Name)
		if n.DeclKind != NotDecl {
			b.WriteString(" decl=" + n.DeclKind.String())
		}
		if n.Decl != nil && n.Decl != n {
			fmt.Fprintf(&b, " ->#%d", n.Decl.Index)
		}
		if n.WithDecl != nil {
			fmt.Fprintf(&b, " with->#%d", n.WithDecl.Index)
		}
		if n.GlobalLookup {
			b.WriteString(" global")
		}
		if n.IsClosure {
			b.WriteString(" closure")
		}
	case Literal:
		b.WriteString(" " + literalText(n))
	case UnaryExpression, UpdateExpression, BinaryExpression, LogicalExpression, AssignmentExpression:
		b.WriteString(" " + n.Operator)
	case VariableDeclaration:
		b.WriteString(" " + n.VarKind.String())
	case BreakStatement, ContinueStatement, LabeledStatement:
		if n.Name != "" {
			b.WriteString(" " + n.Name)
		}
	}
	if n.Func != nil {
		fmt.Fprintf(&b, " func=%q", n.Func.Name)
		if n.Func.Strict {
			b.WriteString(" strict")
		}
	} else if n.Detached() {
		fmt.Fprintf(&b, " site->#%d", n.Decl.Index)
	}
	if n.CacheSlot >= 0 {
		fmt.Fprintf(&b, " cache=%d", n.CacheSlot)
	}
	fmt.Fprintf(&b, " #%d\n", n.Index)
	io.WriteString(w, b.String())
	for _, c := range Children(n) {
		dump(w, c, depth+1)
	}
}

func literalText(n *Node) string {
	switch n.LitKind {
	case LitString:
		return strconv.Quote(n.Str)
	case LitNumber:
		return strconv.FormatFloat(n.Num, 'g', -1, 64)
	case LitBoolean:
		return strconv.FormatBool(n.Bool)
	case LitNull:
		return "null"
	case LitBigInt:
		return n.Str + "n"
	case LitRegExp:
		return "/" + n.Str + "/" + n.Flags
	case LitUndefined:
		return "undefined"
	case LitNaN:
		return "NaN"
	}
	return "?"
}
