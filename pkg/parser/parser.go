// Package parser turns script text into the compiler's syntax tree. The
// ECMAScript grammar itself is handled by goja's parser; this package owns
// the conversion of goja's tree into pkg/ast and the mapping of parse
// failures onto positioned diagnostics.
package parser

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex"
	gojaparser "github.com/dop251/goja/parser"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

// moduleDecl matches a line that starts an import or export declaration.
// goja parses scripts only, so such a line surfaces as a syntax error.
var moduleDecl = mustCompile(`^[ \t]*(import[ \t]*[\w{*'"]|export[ \t]+[\w{*])`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("parser: bad pattern %q: %v", pattern, err))
	}
	return re
}

// Result is a parsed program plus the arena that owns its nodes.
type Result struct {
	Program *ast.Node
	Arena   *ast.Arena
	Source  *source.SourceFile
}

// Parse parses sf as a script.
func Parse(sf *source.SourceFile) (*Result, errors.DelphiniumError) {
	prg, err := gojaparser.ParseFile(nil, sf.DisplayPath(), sf.Content, gojaparser.IgnoreRegExpErrors)
	if err != nil {
		return nil, syntaxError(sf, err)
	}

	cv := newConverter(sf)
	root := cv.program(prg)
	if cv.err != nil {
		return nil, cv.err
	}
	ast.SetParents(root)
	return &Result{Program: root, Arena: cv.arena, Source: sf}, nil
}

// ParseString is a convenience wrapper used by tests.
func ParseString(text string) (*Result, errors.DelphiniumError) {
	return Parse(source.NewEvalSource(text))
}

func syntaxError(sf *source.SourceFile, err error) errors.DelphiniumError {
	line, col, msg := 1, 1, err.Error()
	if list, ok := err.(gojaparser.ErrorList); ok && len(list) > 0 {
		first := list[0]
		line, col, msg = first.Position.Line, first.Position.Column, first.Message
	}
	pos := errors.Position{Line: line, Column: col, Source: sf}
	if line-1 >= 0 && line-1 < len(sf.Lines()) {
		if text := sf.Lines()[line-1]; moduleDecl.MatchString(text) {
			keyword := "import"
			if strings.HasPrefix(strings.TrimSpace(text), "export") {
				keyword = "export"
			}
			pos.Column = strings.Index(text, keyword) + 1
			return &errors.SyntaxError{
				Position: pos,
				Msg:      "module " + keyword + " declarations are not supported",
				Cause:    err,
			}
		}
	}
	return &errors.SyntaxError{Position: pos, Msg: msg, Cause: err}
}
