package compiler

import (
	"fmt"

	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// Debug flag for temporary allocation tracing
const debugTempAlloc = false

// blockFrame collects the declarations of one C block: temporaries
// allocated while its statements were written, plus locals.
type blockFrame struct {
	decls []*cir.Decl
}

// TempAllocator hands out uniquely named temporaries and scopes each to
// the innermost open block. A block's declarations are flushed to its
// top when the block is closed, so a temporary never outlives its block
// and is declared before first use.
type TempAllocator struct {
	nextID func() int
	frames []*blockFrame
	total  int
}

// NewTempAllocator creates an allocator drawing names from nextID.
func NewTempAllocator(nextID func() int) *TempAllocator {
	return &TempAllocator{nextID: nextID}
}

// Push opens a block.
func (ta *TempAllocator) Push() {
	ta.frames = append(ta.frames, &blockFrame{})
}

// Pop closes the innermost block and returns its declarations.
func (ta *TempAllocator) Pop() []*cir.Decl {
	if len(ta.frames) == 0 {
		panic("Compiler Error: temp allocator block underflow")
	}
	top := ta.frames[len(ta.frames)-1]
	ta.frames = ta.frames[:len(ta.frames)-1]
	return top.decls
}

// Depth returns the number of open blocks.
func (ta *TempAllocator) Depth() int {
	return len(ta.frames)
}

// Declare adds a declaration to the innermost block.
func (ta *TempAllocator) Declare(d *cir.Decl) {
	if len(ta.frames) == 0 {
		panic("Compiler Error: declaration outside of any block")
	}
	top := ta.frames[len(ta.frames)-1]
	top.decls = append(top.decls, d)
}

// Alloc allocates a js_val temporary.
func (ta *TempAllocator) Alloc() *cir.Raw {
	return ta.AllocTyped(abi.TypeVal, "tmp")
}

// AllocTyped allocates a temporary of a given C type.
func (ta *TempAllocator) AllocTyped(typ, prefix string) *cir.Raw {
	name := fmt.Sprintf("%s_%d", prefix, ta.nextID())
	ta.Declare(&cir.Decl{Type: typ, Name: name})
	ta.total++
	if debugTempAlloc {
		fmt.Printf("[TEMPALLOC] %s %s at depth %d\n", typ, name, len(ta.frames))
	}
	return cir.R(name)
}

// AllocArray allocates a js_val array temporary, such as the three-slot
// iterator state.
func (ta *TempAllocator) AllocArray(prefix string, n int) *cir.Raw {
	name := fmt.Sprintf("%s_%d", prefix, ta.nextID())
	ta.Declare(&cir.Decl{Type: abi.TypeVal, Name: name, ArrayLen: n})
	ta.total++
	return cir.R(name)
}

// Total returns the number of temporaries allocated so far.
func (ta *TempAllocator) Total() int {
	return ta.total
}
