package analysis

import "jamplate/internal/compilation"
import "jamplate/internal/tree"

// Analyzer mutates a Compilation's tree in place, starting from one Tree
// node, and reports whether it changed anything — the signal the driver
// in Run uses to detect the fixed point.
type Analyzer interface {
	Analyze(comp *compilation.Compilation, t tree.Tree) bool
}

// Run drives analyzers to the fixed point spec.md §4.4 calls for: loop
// over every analyzer against the compilation's root until a full pass
// changes nothing. Each analyzer is responsible for its own traversal
// (Hierarchy/Children below provide that), since the combinators
// themselves decide how far under t they reach.
func Run(comp *compilation.Compilation, analyzers []Analyzer) {
	for {
		changed := false
		for _, a := range analyzers {
			if a.Analyze(comp, comp.Root()) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// Hierarchy applies Inner to t and every descendant, depth-first,
// OR-ing their changed results.
type Hierarchy struct {
	Inner Analyzer
}

func (h Hierarchy) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	changed := h.Inner.Analyze(comp, t)
	for _, d := range t.Descendants() {
		if h.Inner.Analyze(comp, d) {
			changed = true
		}
	}
	return changed
}

// Children applies Inner to t's direct children only.
type Children struct {
	Inner Analyzer
}

func (c Children) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	changed := false
	for _, child := range t.Children() {
		if c.Inner.Analyze(comp, child) {
			changed = true
		}
	}
	return changed
}

// Filter gates Inner behind Query, so Inner only runs against Trees
// matching the predicate.
type Filter struct {
	Inner Analyzer
	Query Query
}

func (f Filter) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if !f.Query(t) {
		return false
	}
	return f.Inner.Analyze(comp, t)
}
