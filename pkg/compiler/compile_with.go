package compiler

import (
	"github.com/spaceflint7/delphinium-sub000/pkg/abi"
	"github.com/spaceflint7/delphinium-sub000/pkg/ast"
	"github.com/spaceflint7/delphinium-sub000/pkg/cir"
)

// withStatement pushes the object on the runtime's with stack for the
// duration of the body. Names inside the body that the resolver marked
// as with-affected are looked up through that stack first. Every exit
// from the body pops it; a thrown exception is handled by js_catch,
// which restores the with depth of its try.
func (w *funcWriter) withStatement(n *ast.Node) {
	w.effect(cir.CE(abi.FnPushWith, w.expr(n.Object)))
	w.frames = append(w.frames, &exitFrame{kind: frameWith})
	w.emit(w.block(n.Body))
	w.frames = w.frames[:len(w.frames)-1]
	w.effect(cir.CE(abi.FnPopWith))
}
