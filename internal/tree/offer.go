package tree

import (
	"fmt"

	"jamplate/internal/region"
)

// link makes next immediately follow prev as ordered siblings, clearing
// next's parent link (exactly one of parent/previous may be set).
func link(prev, next Tree) {
	prev.n().next = next.id
	next.n().previous = prev.id
	next.n().parent = nilID
}

// attachChild makes child the first (and so far only) child of parent.
func attachChild(parent, child Tree) {
	parent.n().child = child.id
	child.n().parent = parent.id
	child.n().previous = nilID
}

func clashErr(a, b Tree) error {
	return fmt.Errorf("%w: %s and %s overlap without either enclosing the other", ErrTreeClash, a.Reference(), b.Reference())
}

// Offer is the sole mutation operation on the tree (spec.md §4.2). It
// first detaches incoming from any prior structure (Pop — a no-op if
// incoming is already free-standing), then places it relative to self
// according to their Dominance. Every fatal failure (TreeTakeover,
// TreeClash, TreeOutOfBounds) leaves the tree unchanged.
func Offer(self, incoming Tree) error {
	Pop(incoming)
	return place(self, incoming)
}

func place(self, incoming Tree) error {
	d, err := region.DominanceOfReference(self.Reference(), incoming.Reference())
	if err != nil {
		return err
	}
	switch d {
	case region.Exact:
		return offerSame(self, incoming)
	case region.Contain:
		return offerChild(self, incoming)
	case region.Part:
		return offerParent(self, incoming)
	case region.Share:
		return clashErr(self, incoming)
	default: // region.None
		return offerIrrelative(self, incoming)
	}
}

// offerSame handles self and incoming having identical ranges. Equal
// weight is a fatal TreeTakeover. Otherwise the lower-weight node stays
// outer and the higher-weight node is spliced in as the sole layer
// directly beneath it, taking over whichever side's prior structural
// links and child list belonged to the node moving inward.
func offerSame(self, incoming Tree) error {
	if self.Weight() == incoming.Weight() {
		return fmt.Errorf("%w: %s", ErrTreeTakeover, self.Reference())
	}
	if self.Weight() < incoming.Weight() {
		// incoming nests inside self, inheriting self's old children.
		oldChild, hadChild := self.Child()
		attachChild(self, incoming)
		if hadChild {
			attachChild(incoming, oldChild)
		}
		return nil
	}
	// incoming becomes the new outer layer; self moves inside it,
	// keeping self's own children right where they were.
	prevSib, hasPrev := self.Previous()
	nextSib, hasNext := self.Next()
	parent, hasParent := self.Parent()

	switch {
	case hasPrev:
		link(prevSib, incoming)
	case hasParent:
		attachChild(parent, incoming)
	default:
		incoming.n().parent, incoming.n().previous = nilID, nilID
	}
	if hasNext {
		link(incoming, nextSib)
	} else {
		incoming.n().next = nilID
	}
	attachChild(incoming, self)
	self.n().next = nilID
	return nil
}

// offerChild handles self strictly CONTAIN-ing incoming: find incoming's
// place among self's children, recursing deeper wherever a child itself
// contains, is contained by, or exactly coincides with incoming.
func offerChild(self, incoming Tree) error {
	c, ok := self.Child()
	if !ok {
		attachChild(self, incoming)
		incoming.n().next = nilID
		return nil
	}
	for {
		d, err := region.DominanceOfReference(c.Reference(), incoming.Reference())
		if err != nil {
			return err
		}
		switch d {
		case region.Exact:
			return offerSame(c, incoming)
		case region.Contain:
			return offerChild(c, incoming)
		case region.Part:
			return offerParent(c, incoming)
		case region.Share:
			return clashErr(c, incoming)
		default: // None
			if incoming.Reference().End() <= c.Reference().Position() {
				insertBefore(self, c, incoming)
				return nil
			}
			next, ok := c.Next()
			if !ok {
				link(c, incoming)
				return nil
			}
			c = next
		}
	}
}

func insertBefore(parent, c, incoming Tree) {
	if prev, ok := c.Previous(); ok {
		link(prev, incoming)
	} else {
		attachChild(parent, incoming)
	}
	link(incoming, c)
}

// offerParent handles self strictly PART-of incoming: incoming must
// become a new ancestor layer. It first collects the contiguous run of
// self's siblings that incoming also encloses (stopping at the first
// non-enclosed sibling, failing on any SHARE along the way), then either
// splices incoming in directly or — if that run reached the head of its
// parent's children — checks whether incoming swallows the parent too.
func offerParent(self, incoming Tree) error {
	leftmost := self
	for {
		prev, ok := leftmost.Previous()
		if !ok {
			break
		}
		d, err := region.DominanceOfReference(prev.Reference(), incoming.Reference())
		if err != nil {
			return err
		}
		if d == region.Share {
			return clashErr(prev, incoming)
		}
		if d != region.Part {
			break
		}
		leftmost = prev
	}
	rightmost := self
	for {
		next, ok := rightmost.Next()
		if !ok {
			break
		}
		d, err := region.DominanceOfReference(next.Reference(), incoming.Reference())
		if err != nil {
			return err
		}
		if d == region.Share {
			return clashErr(next, incoming)
		}
		if d != region.Part {
			break
		}
		rightmost = next
	}

	beforeBlock, hasBefore := leftmost.Previous()
	afterBlock, hasAfter := rightmost.Next()
	origParent, hasOrigParent := leftmost.StructuralParent()

	if !hasBefore && hasOrigParent {
		d, err := region.DominanceOfReference(origParent.Reference(), incoming.Reference())
		if err != nil {
			return err
		}
		switch d {
		case region.Share:
			return clashErr(origParent, incoming)
		case region.Exact:
			return offerSame(origParent, incoming)
		case region.Part:
			return offerParent(origParent, incoming)
		case region.None:
			return fmt.Errorf("%w: %s does not enclose %s", ErrTreeOutOfBounds, incoming.Reference(), origParent.Reference())
		}
		// region.Contain falls through to the ordinary splice below.
	}

	leftmost.n().previous, leftmost.n().parent = nilID, nilID
	rightmost.n().next = nilID
	attachChild(incoming, leftmost)

	switch {
	case hasBefore:
		link(beforeBlock, incoming)
	case hasOrigParent:
		attachChild(origParent, incoming)
	default:
		incoming.n().parent, incoming.n().previous = nilID, nilID
	}
	if hasAfter {
		link(incoming, afterBlock)
	} else {
		incoming.n().next = nilID
	}
	return nil
}

// offerIrrelative handles self NONE-dominant to incoming: walk up the
// structural-parent chain until an ancestor encloses incoming (or fail).
func offerIrrelative(self, incoming Tree) error {
	cur := self
	for {
		p, ok := cur.StructuralParent()
		if !ok {
			return fmt.Errorf("%w: no ancestor of %s encloses %s", ErrTreeOutOfBounds, self.Reference(), incoming.Reference())
		}
		d, err := region.DominanceOfReference(p.Reference(), incoming.Reference())
		if err != nil {
			return err
		}
		switch d {
		case region.Share:
			return clashErr(p, incoming)
		case region.Exact:
			return offerSame(p, incoming)
		case region.Contain:
			return offerChild(p, incoming)
		case region.Part:
			return offerParent(p, incoming)
		default: // None: keep climbing
			cur = p
		}
	}
}

// Pop detaches t from its structure, re-linking its children into the
// gap where t used to be. A no-op if t is already free-standing.
func Pop(t Tree) {
	prevSib, hasPrev := t.Previous()
	nextSib, hasNext := t.Next()
	parent, hasParent := t.Parent()
	child, hasChild := t.Child()

	if !hasPrev && !hasNext && !hasParent && !hasChild {
		return
	}

	if hasChild {
		first := child
		last := first.LastSibling()
		switch {
		case hasPrev:
			link(prevSib, first)
		case hasParent:
			attachChild(parent, first)
		default:
			first.n().parent, first.n().previous = nilID, nilID
		}
		if hasNext {
			link(last, nextSib)
		} else {
			last.n().next = nilID
		}
	} else {
		switch {
		case hasPrev && hasNext:
			link(prevSib, nextSib)
		case hasPrev:
			prevSib.n().next = nilID
		case hasNext:
			if hasParent {
				attachChild(parent, nextSib)
			} else {
				nextSib.n().parent, nextSib.n().previous = nilID, nilID
			}
		case hasParent:
			parent.n().child = nilID
		}
	}
	clearLink(t)
}

// Remove detaches t without re-parenting its children: the child subtree
// is dropped from the structure entirely.
func Remove(t Tree) {
	prevSib, hasPrev := t.Previous()
	nextSib, hasNext := t.Next()
	parent, hasParent := t.Parent()

	switch {
	case hasPrev && hasNext:
		link(prevSib, nextSib)
	case hasPrev:
		prevSib.n().next = nilID
	case hasNext:
		if hasParent {
			attachChild(parent, nextSib)
		} else {
			nextSib.n().parent, nextSib.n().previous = nilID, nilID
		}
	case hasParent:
		parent.n().child = nilID
	}
	if child, ok := t.Child(); ok {
		child.n().parent = nilID
	}
	clearLink(t)
}
