package analysis

import (
	"jamplate/internal/compilation"
	"jamplate/internal/region"
	"jamplate/internal/tree"
)

// BinaryOperator matches a symbol Tree (spec.md §4.4) that has both a
// previous and a next sibling, wraps the three into a new Tree spanning
// head(previous)..tail(next), and annotates "operator"/"left"/"right"
// component sketches. Left-associativity falls out of the fixed-point
// driver: each pass wraps the leftmost eligible symbol first, so by the
// time a later pass reaches the next operator its left operand is
// already the previous pass's wrapper.
type BinaryOperator struct {
	Query     Query
	WrapCtor  func(t tree.Tree)
	OpCtor    func(t tree.Tree)
	LeftCtor  func(t tree.Tree)
	RightCtor func(t tree.Tree)
}

func (b BinaryOperator) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if !b.Query(t) {
		return false
	}
	prev, ok := t.Previous()
	if !ok {
		return false
	}
	next, ok := t.Next()
	if !ok {
		return false
	}
	start, end := prev.Head(), next.Tail()
	wrapper := tree.New(t.Arena(), t.Document(), region.NewReference(start, end-start), t.Weight())
	if err := tree.Offer(t, wrapper); err != nil {
		return false
	}
	if b.WrapCtor != nil {
		b.WrapCtor(wrapper)
	}
	if b.OpCtor != nil {
		b.OpCtor(t)
	}
	if b.LeftCtor != nil {
		b.LeftCtor(prev)
	}
	if b.RightCtor != nil {
		b.RightCtor(next)
	}
	wrapper.Sketch().SetComponentTree("operator", t)
	wrapper.Sketch().SetComponentTree("left", prev)
	wrapper.Sketch().SetComponentTree("right", next)
	return true
}

// BinaryFlow matches a "start" Tree (spec.md §4.4) and walks forward
// through sibling Next links for the nearest sibling matching EndQuery,
// wraps the whole span, and annotates "start"/"end"/"body" components —
// the shape an `#if ... #endif` or `#for ... #endfor` pair compiles from.
type BinaryFlow struct {
	StartQuery Query
	EndQuery   Query
	WrapCtor   func(t tree.Tree)
	BodyCtor   func(t tree.Tree)
}

func (b BinaryFlow) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if !b.StartQuery(t) {
		return false
	}
	cur, ok := t.Next()
	for ok && !b.EndQuery(cur) {
		cur, ok = cur.Next()
	}
	if !ok {
		return false
	}
	end := cur
	start, stop := t.Head(), end.Tail()
	wrapper := tree.New(t.Arena(), t.Document(), region.NewReference(start, stop-start), t.Weight())
	if err := tree.Offer(t, wrapper); err != nil {
		return false
	}
	if b.WrapCtor != nil {
		b.WrapCtor(wrapper)
	}
	wrapper.Sketch().SetComponentTree("start", t)
	wrapper.Sketch().SetComponentTree("end", end)

	bodyStart, bodyEnd := t.Tail(), end.Head()
	if bodyEnd < bodyStart {
		bodyEnd = bodyStart
	}
	bodyTree := tree.New(t.Arena(), t.Document(), region.NewReference(bodyStart, bodyEnd-bodyStart), t.Weight())
	if b.BodyCtor != nil {
		b.BodyCtor(bodyTree)
	}
	wrapper.Sketch().SetComponentTree("body", bodyTree)
	_ = tree.Offer(wrapper, bodyTree)
	return true
}

// Separators splits t's span into SLOT sub-trees between every direct
// child matching SepQuery (spec.md §4.4) — the shape a comma-separated
// argument list or array literal compiles its elements from. Runs once
// per Tree: a "slotted" marker component stops it from re-slicing a body
// it already processed on a later fixed-point pass.
type Separators struct {
	SepQuery Query
	SlotCtor func(t tree.Tree)
}

func (s Separators) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if _, ok := t.Sketch().ComponentTree("slotted"); ok {
		return false
	}
	var seps []tree.Tree
	for _, c := range t.Children() {
		if s.SepQuery(c) {
			seps = append(seps, c)
		}
	}
	if len(seps) == 0 {
		return false
	}

	ref := t.Reference()
	bounds := []int{ref.Position()}
	for _, sep := range seps {
		bounds = append(bounds, sep.Head(), sep.Tail())
	}
	bounds = append(bounds, ref.End())

	changed := false
	for i := 0; i+1 < len(bounds); i += 2 {
		start, end := bounds[i], bounds[i+1]
		if end <= start {
			continue
		}
		slot := tree.New(t.Arena(), t.Document(), region.NewReference(start, end-start), t.Weight())
		if s.SlotCtor != nil {
			s.SlotCtor(slot)
		}
		if err := tree.Offer(t, slot); err == nil {
			changed = true
		}
	}
	t.Sketch().SetComponentTree("slotted", t)
	return changed
}
