// Package analysis implements spec.md §4.4's Analyzer framework: in-place
// tree reshaping combinators (Hierarchy, Children, Filter, BinaryOperator,
// BinaryFlow, Separators) driven to a fixed point by their changed-or-not
// return value, gated by a small Query predicate algebra.
package analysis

import "jamplate/internal/tree"

// Query is a predicate over a Tree, composed with And/Or/Not the way
// spec.md §4.4's Filter combinator needs ("is(kind)", "parent(q)",
// "child(q)", "and", "or", "not").
type Query func(t tree.Tree) bool

// Is matches a Tree whose Sketch.Kind equals kind.
func Is(kind string) Query {
	return func(t tree.Tree) bool { return t.Sketch().Is(kind) }
}

// ParentIs matches a Tree whose structural parent satisfies q.
func ParentIs(q Query) Query {
	return func(t tree.Tree) bool {
		p, ok := t.StructuralParent()
		return ok && q(p)
	}
}

// ChildIs matches a Tree with at least one direct child satisfying q.
func ChildIs(q Query) Query {
	return func(t tree.Tree) bool {
		for _, c := range t.Children() {
			if q(c) {
				return true
			}
		}
		return false
	}
}

// And matches a Tree satisfying every given Query.
func And(qs ...Query) Query {
	return func(t tree.Tree) bool {
		for _, q := range qs {
			if !q(t) {
				return false
			}
		}
		return true
	}
}

// Or matches a Tree satisfying any given Query.
func Or(qs ...Query) Query {
	return func(t tree.Tree) bool {
		for _, q := range qs {
			if q(t) {
				return true
			}
		}
		return false
	}
}

// Not negates q.
func Not(q Query) Query {
	return func(t tree.Tree) bool { return !q(t) }
}
