// Package compiler lowers a parsed script to C source for the native
// runtime. The pipeline is: split nested functions into a flat list,
// resolve every identifier, analyze each function (shape-cache keys,
// literals, shapes, volatile locals, call depth, coroutine flags) and
// finally write one C function per script function.
package compiler

import (
	"fmt"
	"hash/fnv"

	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/config"
	"github.com/spaceflint7/delphinium-sub000/pkg/errors"
	"github.com/spaceflint7/delphinium-sub000/pkg/source"
)

const debugCompiler = false

func debugPrintf(format string, args ...interface{}) {
	if debugCompiler {
		fmt.Printf(format, args...)
	}
}

// Context is the state of one compilation. It is not safe for concurrent
// use; compile different files with different contexts.
type Context struct {
	Source *source.SourceFile
	Arena  *ast.Arena
	Config *config.Config
	Stats  *Stats

	// Literals is the per-file table of string, bigint and shape values
	// created once by the literal initializer.
	Literals *HeapAlloc

	// Trace receives one line per pass when set.
	Trace func(format string, args ...interface{})

	seed   int
	nextID int
	err    errors.DelphiniumError

	funcs     []*ast.Function // parents before children
	templates []string        // tagged-template site statics

	// blockFuncVars maps a function declaration in a non-strict block
	// to the function-scope var that receives its value.
	blockFuncVars map[*ast.Node]*ast.Node
}

// NewContext creates a context whose unique-id counter is seeded from
// the source path, so the same file always yields the same C names.
func NewContext(sf *source.SourceFile, arena *ast.Arena, cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	seed := seedFromPath(sf.DisplayPath())
	return &Context{
		Source:   sf,
		Arena:    arena,
		Config:   cfg,
		Stats:    &Stats{},
		Literals: NewHeapAlloc(),
		seed:     seed,
		nextID:   seed,

		blockFuncVars: make(map[*ast.Node]*ast.Node),
	}
}

func seedFromPath(path string) int {
	h := fnv.New32a()
	h.Write([]byte(path))
	return int(h.Sum32()%10000) * 100
}

// NextID returns the next unique id.
func (c *Context) NextID() int {
	c.nextID++
	return c.nextID
}

// Err returns the first error recorded, if any.
func (c *Context) Err() errors.DelphiniumError {
	return c.err
}

// Failed reports whether an error has been recorded.
func (c *Context) Failed() bool {
	return c.err != nil
}

// Fail records err unless an earlier error exists. Only the first error
// of a compilation is ever reported.
func (c *Context) Fail(err errors.DelphiniumError) {
	if c.err == nil {
		debugPrintf("// [Compiler] first error: %v\n", err)
		c.err = err
	}
}

func (c *Context) trace(format string, args ...interface{}) {
	if c.Trace != nil {
		c.Trace(format, args...)
	}
}

func (c *Context) pos(n *ast.Node) errors.Position {
	if n == nil {
		return errors.Position{Line: 1, Column: 1, Source: c.Source}
	}
	return errors.PositionAt(c.Source, n.Start, n.End)
}

// NewCompileError records an unexpected-node or code generation error.
func (c *Context) NewCompileError(n *ast.Node, format string, args ...interface{}) {
	c.Fail(&errors.CompileError{Position: c.pos(n), Msg: fmt.Sprintf(format, args...)})
}

// NewScopeError records a declaration or scoping error.
func (c *Context) NewScopeError(n *ast.Node, format string, args ...interface{}) {
	c.Fail(&errors.ScopeError{Position: c.pos(n), Msg: fmt.Sprintf(format, args...)})
}

// NewLimitError records that a fixed-width runtime field overflowed.
func (c *Context) NewLimitError(n *ast.Node, limit int, format string, args ...interface{}) {
	c.Fail(&errors.LimitError{Position: c.pos(n), Msg: fmt.Sprintf(format, args...), Limit: limit})
}

// NewSyntaxError records a literal the parser accepted but the compiler
// could not validate.
func (c *Context) NewSyntaxError(n *ast.Node, cause error, format string, args ...interface{}) {
	c.Fail((&errors.SyntaxError{Position: c.pos(n), Msg: fmt.Sprintf(format, args...)}).CausedBy(cause))
}

// Functions returns the function records in parent-before-child order.
// It is filled in by CompileToC.
func (c *Context) Functions() []*ast.Function {
	return c.funcs
}

// CompileToC runs the whole pipeline over a parsed program. On error no
// C text is returned.
func CompileToC(ctx *Context, program *ast.Node) (string, errors.DelphiniumError) {
	nodes := Split(ctx, program)
	if ctx.Failed() {
		return "", ctx.err
	}
	root := findRoot(nodes)
	ctx.funcs = preorder(root)
	ctx.trace("split: %d functions", len(ctx.funcs))

	Resolve(ctx, root)
	if ctx.Failed() {
		return "", ctx.err
	}
	ctx.trace("resolve: done")

	for _, fn := range ctx.funcs {
		analyzeFunction(ctx, fn)
		if ctx.Failed() {
			return "", ctx.err
		}
	}
	ctx.trace("analyze: %d literals, %d shapes", ctx.Literals.Len(), ctx.Literals.ShapeCount())

	bodies := make([]string, 0, len(ctx.funcs))
	for _, fn := range ctx.funcs {
		text := writeFunction(ctx, fn)
		if ctx.Failed() {
			return "", ctx.err
		}
		bodies = append(bodies, text)
	}
	ctx.trace("write: %d functions", len(bodies))

	return assembleProgram(ctx, root, bodies), nil
}

// analyzeFunction runs the per-function analyses, in dependency order:
// literal names must exist before shapes are interned and before
// unresolved globals are rewritten into global-object members.
func analyzeFunction(ctx *Context, fn *ast.Function) {
	assignCacheSlots(ctx, fn)
	collectLiterals(ctx, fn)
	inferShapes(ctx, fn)
	rewriteGlobals(ctx, fn)
	scanVolatiles(ctx, fn)
	computeCallDepth(ctx, fn)
	transformCoroutine(ctx, fn)
	ctx.Stats.Functions++
}

func findRoot(nodes []*ast.Node) *ast.Function {
	for _, n := range nodes {
		if n.Func.Parent == nil {
			return n.Func
		}
	}
	return nil
}

// preorder lists fn and its descendants, parents first, following the
// child lists rather than the splitter's output order.
func preorder(fn *ast.Function) []*ast.Function {
	out := []*ast.Function{fn}
	for _, child := range fn.Children {
		out = append(out, preorder(child)...)
	}
	return out
}
