package cir

import (
	"fmt"
	"strings"
)

// String renders an expression.
func String(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeList(b *strings.Builder, list []Expr) {
	for i, a := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, a)
	}
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case nil:
		b.WriteString("/*nil*/0")
	case *Raw:
		b.WriteString(e.Text)
	case *Call:
		b.WriteString(e.Fn)
		b.WriteByte('(')
		writeList(b, e.Args)
		b.WriteByte(')')
	case *CallPtr:
		b.WriteByte('(')
		writeExpr(b, e.Fn)
		b.WriteString(")(")
		writeList(b, e.Args)
		b.WriteByte(')')
	case *Seq:
		b.WriteByte('(')
		for i, x := range e.List {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, x)
		}
		b.WriteByte(')')
	case *Cond:
		b.WriteByte('(')
		writeExpr(b, e.Test)
		b.WriteString(" ? ")
		writeExpr(b, e.Then)
		b.WriteString(" : ")
		writeExpr(b, e.Else)
		b.WriteByte(')')
	case *Assign:
		b.WriteByte('(')
		writeExpr(b, e.Target)
		b.WriteString(" " + e.Op + " ")
		writeExpr(b, e.Value)
		b.WriteByte(')')
	case *Binary:
		b.WriteByte('(')
		writeExpr(b, e.X)
		b.WriteString(" " + e.Op + " ")
		writeExpr(b, e.Y)
		b.WriteByte(')')
	case *Unary:
		b.WriteByte('(')
		b.WriteString(e.Op)
		writeExpr(b, e.X)
		b.WriteByte(')')
	case *Index:
		writeExpr(b, e.X)
		b.WriteByte('[')
		writeExpr(b, e.I)
		b.WriteByte(']')
	case *Field:
		writeExpr(b, e.X)
		if e.Arrow {
			b.WriteString("->")
		} else {
			b.WriteByte('.')
		}
		b.WriteString(e.Name)
	case *Likely:
		if e.Unlikely {
			b.WriteString("unlikely(")
		} else {
			b.WriteString("likely(")
		}
		writeExpr(b, e.X)
		b.WriteByte(')')
	case *Cast:
		b.WriteString("((" + e.Type + ")")
		writeExpr(b, e.X)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("cir: unknown expression %T", e))
	}
}

// Printer renders statements with indentation.
type Printer struct {
	b      strings.Builder
	indent int
}

func (p *Printer) String() string { return p.b.String() }

// Line writes one indented line.
func (p *Printer) Line(format string, args ...any) {
	p.b.WriteString(strings.Repeat("    ", p.indent))
	if len(args) == 0 {
		p.b.WriteString(format)
	} else {
		fmt.Fprintf(&p.b, format, args...)
	}
	p.b.WriteByte('\n')
}

// Text writes text unindented.
func (p *Printer) Text(s string) { p.b.WriteString(s) }

// Indent adjusts the indentation level.
func (p *Printer) Indent(delta int) { p.indent += delta }

// DeclString renders a declaration without the trailing semicolon.
func DeclString(d *Decl) string {
	var b strings.Builder
	if d.Static {
		b.WriteString("static ")
	}
	if d.Volatile {
		// the qualifier applies to the variable, after the pointer star
		typ := d.Type
		if strings.HasSuffix(typ, "*") {
			b.WriteString(typ + " volatile ")
		} else {
			b.WriteString("volatile " + typ + " ")
		}
	} else {
		b.WriteString(d.Type)
		if !strings.HasSuffix(d.Type, "*") {
			b.WriteByte(' ')
		}
	}
	b.WriteString(d.Name)
	if d.ArrayLen > 0 {
		fmt.Fprintf(&b, "[%d]", d.ArrayLen)
	}
	if d.Init != nil {
		b.WriteString(" = ")
		writeExpr(&b, d.Init)
	}
	return b.String()
}

// Stmt renders s.
func (p *Printer) Stmt(s Stmt) {
	switch s := s.(type) {
	case nil:
	case *ExprStmt:
		text := String(s.X)
		// drop the outer parentheses of an assignment or comma statement
		switch s.X.(type) {
		case *Assign, *Seq:
			text = text[1 : len(text)-1]
		}
		p.Line("%s;", text)
	case *Block:
		p.Line("{")
		p.Indent(1)
		p.blockBody(s)
		p.Indent(-1)
		p.Line("}")
	case *If:
		p.Line("if (%s)", condText(s.Cond))
		p.nested(s.Then)
		if s.Else != nil {
			p.Line("else")
			p.nested(s.Else)
		}
	case *Label:
		p.Line("%s: ;", s.Name)
	case *Goto:
		p.Line("goto %s;", s.Label)
	case *Return:
		if s.X == nil {
			p.Line("return;")
		} else {
			p.Line("return %s;", String(s.X))
		}
	case *Loop:
		p.Line("for (;;)")
		p.Stmt(s.Body)
	case *RawStmt:
		p.Line("%s", s.Text)
	case *Comment:
		p.Line("// %s", s.Text)
	case *Decl:
		p.Line("%s;", DeclString(s))
	default:
		panic(fmt.Sprintf("cir: unknown statement %T", s))
	}
}

func (p *Printer) blockBody(b *Block) {
	for _, d := range b.Decls {
		p.Line("%s;", DeclString(d))
	}
	for _, s := range b.Body {
		p.Stmt(s)
	}
}

// BlockBody renders the statements of b without the enclosing braces.
func (p *Printer) BlockBody(b *Block) { p.blockBody(b) }

func (p *Printer) nested(s Stmt) {
	if blk, ok := s.(*Block); ok {
		p.Stmt(blk)
		return
	}
	p.Indent(1)
	p.Stmt(s)
	p.Indent(-1)
}

// condText drops one redundant level of parentheses around an if
// condition.
func condText(e Expr) string {
	text := String(e)
	switch e.(type) {
	case *Binary, *Seq, *Assign, *Cond, *Unary:
		return text[1 : len(text)-1]
	}
	return text
}

// Render renders one statement to a string.
func Render(s Stmt) string {
	var p Printer
	p.Stmt(s)
	return p.String()
}
