// Package compilation implements spec.md §3's Compilation and
// Environment: the per-document tree root plus diagnostics, and the
// per-run set of compilations.
package compilation

import (
	"jamplate/internal/diagnostic"
	"jamplate/internal/region"
	"jamplate/internal/tree"
)

// Compilation owns one root Tree plus a back-reference to its owning
// Environment.
type Compilation struct {
	document region.Document
	arena    *tree.Arena
	root     tree.Tree
	env      *Environment
}

func (c *Compilation) Document() region.Document { return c.document }
func (c *Compilation) Arena() *tree.Arena         { return c.arena }
func (c *Compilation) Root() tree.Tree            { return c.root }
func (c *Compilation) Environment() *Environment  { return c.env }

// Environment is the single process-wide handle spec.md §9 calls for: a
// Document -> Compilation mapping plus a Diagnostic sink. Created at unit
// start, disposed at the end; the Heap is deliberately not part of this
// (it lives on execution Frames, per spec.md §5's shared-resource
// policy).
type Environment struct {
	order        []region.Document
	compilations map[string]*Compilation
	diagnostics  *diagnostic.Sink
}

// NewEnvironment returns an empty Environment with a fresh Diagnostic
// sink.
func NewEnvironment() *Environment {
	return &Environment{
		compilations: make(map[string]*Compilation),
		diagnostics:  diagnostic.NewSink(),
	}
}

// Diagnostics exposes the Environment's sink.
func (e *Environment) Diagnostics() *diagnostic.Sink { return e.diagnostics }

// Initialize wraps document in a fresh Compilation rooted over its whole
// content, the "initialize" pipeline action from spec.md §2. Calling it
// twice for the same document name returns the existing Compilation
// unchanged (initialize is idempotent per document identity).
func (e *Environment) Initialize(document region.Document) *Compilation {
	if existing, ok := e.compilations[document.Name()]; ok {
		return existing
	}
	arena := tree.NewArena()
	root := tree.New(arena, document, region.Whole(document), 0)
	comp := &Compilation{document: document, arena: arena, root: root, env: e}
	e.compilations[document.Name()] = comp
	e.order = append(e.order, document)
	return comp
}

// Lookup returns the Compilation for document, if initialized.
func (e *Environment) Lookup(document region.Document) (*Compilation, bool) {
	c, ok := e.compilations[document.Name()]
	return c, ok
}

// Compilations returns every Compilation in the stable order Initialize
// was called (spec.md §3: "iteration order over compilations is
// stable").
func (e *Environment) Compilations() []*Compilation {
	out := make([]*Compilation, 0, len(e.order))
	for _, d := range e.order {
		out = append(out, e.compilations[d.Name()])
	}
	return out
}
