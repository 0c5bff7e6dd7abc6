package parsing

import (
	"jamplate/internal/compilation"
	"jamplate/internal/tree"
)

// Run drives parsers to the fixed point spec.md §4.3 calls for: every
// pass walks the compilation's current tree (root plus every descendant),
// asks each Parser for new Trees, and offers them in; it stops once a
// full pass offers nothing.
func Run(comp *compilation.Compilation, env *compilation.Environment, parsers []Parser) {
	for {
		changed := false
		nodes := append([]tree.Tree{comp.Root()}, comp.Root().Descendants()...)
		for _, n := range nodes {
			for _, p := range parsers {
				for _, nt := range p.Parse(comp, n) {
					if err := tree.Offer(n, nt); err != nil {
						if err2 := tree.Offer(comp.Root(), nt); err2 != nil {
							// An IllegalTree here is "no progress", not a
							// parse failure: the candidate is dropped.
							continue
						}
					}
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
