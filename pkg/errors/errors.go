package errors

import (
	"fmt"
	"io"
	"strings"
)

// DelphiniumError is the interface implemented by all compiler diagnostics.
type DelphiniumError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // "Syntax", "Scope", "Limit" or "Compile"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Concrete Error Types ---

// SyntaxError represents an error reported by the parser, or a literal
// the parser accepted but the compiler could not validate (regexps).
type SyntaxError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *SyntaxError) Pos() Position   { return e.Position }
func (e *SyntaxError) Kind() string    { return "Syntax" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// ScopeError represents a declaration or scoping error: duplicate
// bindings, references before initialization, unsupported nesting.
type ScopeError struct {
	Position
	Msg   string
	Cause error
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("Scope Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *ScopeError) Pos() Position   { return e.Position }
func (e *ScopeError) Kind() string    { return "Scope" }
func (e *ScopeError) Message() string { return e.Msg }
func (e *ScopeError) Unwrap() error   { return e.Cause }

// LimitError is raised when a function exceeds a fixed-width field of the
// runtime encoding (parameters, closure slots, shape-cache slots).
type LimitError struct {
	Position
	Msg   string
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("Limit Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *LimitError) Pos() Position   { return e.Position }
func (e *LimitError) Kind() string    { return "Limit" }
func (e *LimitError) Message() string { return e.Msg }
func (e *LimitError) Unwrap() error   { return nil }

// CompileError represents an error during code generation: a node shape
// the generator cannot lower, an invalid assignment target and similar.
type CompileError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("Compile Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *CompileError) Pos() Position   { return e.Position }
func (e *CompileError) Kind() string    { return "Compile" }
func (e *CompileError) Message() string { return e.Msg }
func (e *CompileError) Unwrap() error   { return e.Cause }
func (e *CompileError) CausedBy(cause error) *CompileError {
	e.Cause = cause
	return e
}

// --- Error Reporting ---

// FormatLine renders the single-line form used by the command line tool:
//
//	===> error in <path>:<line>:<col>: <message>
func FormatLine(path string, err DelphiniumError) string {
	pos := err.Pos()
	if path == "" && pos.Source != nil {
		path = pos.Source.DisplayPath()
	}
	return fmt.Sprintf("===> error in %s:%d:%d: %s", path, pos.Line, pos.Column, err.Message())
}

// DisplayErrors prints diagnostics to w in a user-friendly format,
// including the source line and a position marker.
func DisplayErrors(w io.Writer, source string, errs []DelphiniumError) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(source, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := strings.TrimRight(lines[lineIdx], "\r\n\t ")

		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", sourceLine)

		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", col))
		fmt.Fprintln(w)
	}
}
