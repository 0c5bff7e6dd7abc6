// Package instruction implements spec.md §4.6's instruction set (46 types): the
// Resource, Stack, Frame, Heap, Cast, Math/Logic, Struct, I/O, and Flow
// categories a Compiler lowers a Tree into, each executed against a
// runtime.Memory.
package instruction

import (
	"strings"

	"jamplate/internal/region"
	"jamplate/internal/runtime"
	"jamplate/internal/tree"
)

// Context is the per-execution environment an instruction's Exec needs
// beyond the Memory itself: the Document it was compiled from (for
// diagnostics) and the Serr sink (spec.md §4.6's "diagnostic error
// stream", kept separate from console output).
type Context struct {
	Document region.Document
	Stderr   *strings.Builder
}

// NewContext returns a Context with a fresh Stderr buffer.
func NewContext(doc region.Document) *Context {
	return &Context{Document: doc, Stderr: &strings.Builder{}}
}

// Instruction is the common interface every variant implements (spec.md
// §4.6: "each instruction holds an optional source Tree for diagnostics
// and implements exec(env, memory)").
type Instruction interface {
	Exec(ctx *Context, m *runtime.Memory) error
	Source() tree.Tree
}

// base carries the optional source Tree every concrete instruction
// embeds, the way the teacher's bytecode ops carry an optional line
// number for error reporting.
type base struct {
	source tree.Tree
}

func (b base) Source() tree.Tree    { return b.source }
func (b *base) setSource(t tree.Tree) { b.source = t }

// WithSource sets i's diagnostic source tree and returns it, for compiler
// combinators that build an instruction then attach the Tree it came
// from.
func WithSource(i Instruction, t tree.Tree) Instruction {
	switch v := i.(type) {
	case interface{ setSource(tree.Tree) }:
		v.setSource(t)
	}
	return i
}
