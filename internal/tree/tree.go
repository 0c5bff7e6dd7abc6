// Package tree implements the Ordered Interval Tree: the self-organizing
// hierarchy of nodes over Document ranges that every Jamplate pass grows
// or reshapes. Per spec.md §9's design notes, nodes live in an arena (a
// growable slice of node records) and parent/previous/next/child links are
// indices rather than pointers, so the natural cyclic back-references
// between siblings and parents never need an owning-pointer cycle.
package tree

import (
	"jamplate/internal/region"
)

// id indexes a node inside an Arena (0 is the first node created);
// nilID marks "no link" the way a nil pointer would in a pointer-based tree.
type id int

const nilID id = -1

type node struct {
	document  region.Document
	reference region.Reference
	weight    int32
	sketch    *Sketch

	parent, previous, next, child id
}

// Arena owns every Tree node created for one Compilation. Trees from
// different Arenas must never be linked together.
type Arena struct {
	nodes []node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) at(i id) *node {
	if i == nilID {
		return nil
	}
	return &a.nodes[i]
}

// Tree is a lightweight handle into an Arena: a (arena pointer, index)
// pair. Handles are cheap to copy and compare; the actual mutable node
// data lives in the arena, so every copy of a handle observes the same
// mutations.
type Tree struct {
	arena *Arena
	id    id
}

// Zero is the invalid Tree handle, used the way a nil pointer would be.
var Zero = Tree{}

// IsZero reports whether t is the invalid handle.
func (t Tree) IsZero() bool { return t.arena == nil || t.id == nilID }

// New creates a free-standing node (no links to any structure) and
// returns its handle. weight is the tie-breaker used when another node
// is offered with an EXACT-coinciding range: lower weight nests outer.
func New(arena *Arena, document region.Document, reference region.Reference, weight int32) Tree {
	arena.nodes = append(arena.nodes, node{
		document:  document,
		reference: reference,
		weight:    weight,
		sketch:    NewSketch(""),
		parent:    nilID,
		previous:  nilID,
		next:      nilID,
		child:     nilID,
	})
	return Tree{arena: arena, id: id(len(arena.nodes) - 1)}
}

func (t Tree) n() *node { return t.arena.at(t.id) }

func (t Tree) Document() region.Document    { return t.n().document }
func (t Tree) Reference() region.Reference  { return t.n().reference }
func (t Tree) Weight() int32                { return t.n().weight }
func (t Tree) Sketch() *Sketch              { return t.n().sketch }

// Arena exposes the owning arena, used by algorithms that need to build
// new sibling/parent Tree handles for the same structure (e.g. analyzers
// constructing a wrapper node).
func (t Tree) Arena() *Arena { return t.arena }

func wrap(a *Arena, i id) (Tree, bool) {
	if i == nilID {
		return Zero, false
	}
	return Tree{arena: a, id: i}, true
}

func (t Tree) Parent() (Tree, bool)   { return wrap(t.arena, t.n().parent) }
func (t Tree) Previous() (Tree, bool) { return wrap(t.arena, t.n().previous) }
func (t Tree) Next() (Tree, bool)     { return wrap(t.arena, t.n().next) }
func (t Tree) Child() (Tree, bool)    { return wrap(t.arena, t.n().child) }

// Head returns the start position of t's reference; used by analyzers
// building a wrapper spanning head(a)..tail(b).
func (t Tree) Head() int { return t.Reference().Position() }

// Tail returns the end position of t's reference.
func (t Tree) Tail() int { return t.Reference().End() }

// FirstChild walks to the first (leftmost) child of t, equivalent to
// Child() — kept as a descriptively named alias used by the offer
// algorithm when it talks about "the first child".
func (t Tree) FirstChild() (Tree, bool) { return t.Child() }

// LastSibling walks forward through Next() links to the last sibling
// (inclusive of t itself if t has no next).
func (t Tree) LastSibling() Tree {
	cur := t
	for {
		next, ok := cur.Next()
		if !ok {
			return cur
		}
		cur = next
	}
}

// FirstSibling walks backward through Previous() links to the first
// sibling (inclusive of t itself if t has no previous).
func (t Tree) FirstSibling() Tree {
	cur := t
	for {
		prev, ok := cur.Previous()
		if !ok {
			return cur
		}
		cur = prev
	}
}

// StructuralParent returns the parent of the sibling-chain t belongs to —
// i.e. FirstSibling().Parent(). Exactly one of Parent()/Previous() is set
// on any node (§3's invariant), so reaching "the parent" from a node deep
// in a sibling chain requires walking back to the first sibling first.
func (t Tree) StructuralParent() (Tree, bool) {
	return t.FirstSibling().Parent()
}

// Root walks up through StructuralParent until there is none.
func (t Tree) Root() Tree {
	cur := t
	for {
		p, ok := cur.StructuralParent()
		if !ok {
			return cur
		}
		cur = p
	}
}

// Children returns every direct child of t, in sibling order.
func (t Tree) Children() []Tree {
	var out []Tree
	c, ok := t.Child()
	for ok {
		out = append(out, c)
		c, ok = c.Next()
	}
	return out
}

// Descendants returns every node under t (not including t), depth-first,
// parent before children, in sibling order — the order Hierarchy analyzers
// (spec.md §4.4) require.
func (t Tree) Descendants() []Tree {
	var out []Tree
	var walk func(Tree)
	walk = func(n Tree) {
		c, ok := n.Child()
		for ok {
			out = append(out, c)
			walk(c)
			c, ok = c.Next()
		}
	}
	walk(t)
	return out
}

// setParent links child as the first child of parent, clearing any
// previous sibling link (the parent/previous invariant in spec.md §3:
// exactly one of the two is non-nil).
func setParent(child, parent Tree) {
	cn := child.n()
	cn.parent = parent.id
	cn.previous = nilID
}

// setPrevious links next after previous as siblings, clearing next's
// parent link.
func setPrevious(next, previous Tree) {
	nn := next.n()
	nn.previous = previous.id
	nn.parent = nilID
	previous.n().next = next.id
}

func clearLink(t Tree) {
	n := t.n()
	n.parent, n.previous, n.next, n.child = nilID, nilID, nilID, nilID
}
