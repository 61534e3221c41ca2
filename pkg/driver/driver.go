// Package driver runs one compilation: read and decode the script,
// parse it, lower it to C and hand back the text or the first
// diagnostic.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/compiler"
	"github.com/spaceflint7/delphinium-sub000/pkg/config"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/parser"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// Session compiles scripts with one configuration. Each compilation
// gets a fresh compiler context, so a session may be reused for any
// number of files, one at a time.
type Session struct {
	Config *config.Config
	// Diag receives the pass trace and the tree dump; it defaults to
	// standard error so neither mixes with generated C.
	Diag io.Writer
}

// NewSession creates a session. A nil cfg means config.FromEnv.
func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.FromEnv()
	}
	return &Session{Config: cfg, Diag: os.Stderr}
}

// Result is the output of a successful compilation.
type Result struct {
	C         string
	Stats     *compiler.Stats
	Functions []*ast.Function
}

// CompileFile reads, decodes and compiles the script at path.
func (s *Session) CompileFile(path string) (*Result, errors.DelphiniumError) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(path, "cannot read file", err)
	}
	sf, err := source.FromFile(path, raw)
	if err != nil {
		return nil, ioError(path, "cannot decode file", err)
	}
	return s.CompileSource(sf)
}

// CompileSource compiles an already loaded script.
func (s *Session) CompileSource(sf *source.SourceFile) (*Result, errors.DelphiniumError) {
	debugPrintf("// [Driver] compiling %s (%d bytes)\n", sf.DisplayPath(), len(sf.Content))
	res, perr := parser.Parse(sf)
	if perr != nil {
		return nil, perr
	}
	if s.Config.DumpAST {
		ast.Dump(s.Diag, res.Program)
	}

	ctx := compiler.NewContext(res.Source, res.Arena, s.Config)
	if s.Config.Debug {
		ctx.Trace = func(format string, args ...interface{}) {
			fmt.Fprintf(s.Diag, "[delphinium] "+format+"\n", args...)
		}
	}
	text, cerr := compiler.CompileToC(ctx, res.Program)
	if cerr != nil {
		return nil, cerr
	}
	return &Result{C: text, Stats: ctx.Stats, Functions: ctx.Functions()}, nil
}

// CompileString compiles script text with a default session.
func CompileString(text string) (*Result, errors.DelphiniumError) {
	s := NewSession(config.Default())
	s.Diag = io.Discard
	return s.CompileSource(source.NewEvalSource(text))
}

func ioError(path, msg string, cause error) errors.DelphiniumError {
	sf := source.NewSourceFile(path, path, "")
	return (&errors.CompileError{
		Position: errors.Position{Line: 1, Column: 1, Source: sf},
		Msg:      fmt.Sprintf("%s: %v", msg, cause),
	}).CausedBy(cause)
}
