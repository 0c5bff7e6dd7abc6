// Package parsing implements spec.md §4.3's Parser framework: each Parser
// consumes a (Compilation, Tree) pair and returns the new Trees it found,
// which the driver offers into the structure and re-runs to a fixed
// point.
package parsing

import (
	"regexp"

	"jamplate/internal/compilation"
	"jamplate/internal/region"
	"jamplate/internal/tree"
)

// Parser grows a Compilation's tree from one existing node. Returned
// Trees are free-standing (not yet linked); the driver offers them.
type Parser interface {
	Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree
}

// Idle never produces a new Tree — the parsing equivalent of a no-op
// Spec contribution.
type Idle struct{}

func (Idle) Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree { return nil }

// coveredRanges returns the [start,end) spans already claimed by t's
// direct children, so Term/Pattern/Group don't re-match text a previous
// pass already carved out.
func coveredRanges(t tree.Tree) [][2]int {
	children := t.Children()
	out := make([][2]int, 0, len(children))
	for _, c := range children {
		ref := c.Reference()
		out = append(out, [2]int{ref.Position(), ref.End()})
	}
	return out
}

func overlapsAny(start, end int, covered [][2]int) bool {
	for _, c := range covered {
		if start < c[1] && c[0] < end {
			return true
		}
	}
	return false
}

// findFirstUncovered returns the first match of re within content's
// window [from,to) that doesn't overlap any covered range, or nil.
func findFirstUncovered(re *regexp.Regexp, content string, from, to int, covered [][2]int) []int {
	window := content[from:to]
	for _, loc := range re.FindAllStringIndex(window, -1) {
		start, end := loc[0]+from, loc[1]+from
		if !overlapsAny(start, end, covered) {
			return []int{start, end}
		}
	}
	return nil
}

// Term finds the first uncovered match of Pattern inside t's reference
// and emits a single Tree at Weight, handed to Ctor for sketch setup.
type Term struct {
	Pattern *regexp.Regexp
	Weight  int32
	Ctor    func(t tree.Tree, matched string)
}

func (p *Term) Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree {
	ref := t.Reference()
	content := t.Document().Content()
	loc := findFirstUncovered(p.Pattern, content, ref.Position(), ref.End(), coveredRanges(t))
	if loc == nil {
		return nil
	}
	nref := region.NewReference(loc[0], loc[1]-loc[0])
	nt := tree.New(t.Arena(), t.Document(), nref, p.Weight)
	if p.Ctor != nil {
		p.Ctor(nt, content[loc[0]:loc[1]])
	}
	return []tree.Tree{nt}
}

// GroupCtor binds sketch metadata onto a named capture group's Tree.
type GroupCtor func(t tree.Tree, text string)

// Pattern matches Regex, wraps the whole match with Ctor, and builds one
// child Tree per named capture group present in the match, publishing
// each as a component sketch on the wrapper keyed by the group's name
// (spec.md §4.3: "the outer ctor builds the wrapper, each group ctor
// binds a sub-sketch").
type Pattern struct {
	Regex      *regexp.Regexp
	Weight     int32
	Ctor       func(t tree.Tree, matched string)
	GroupCtors map[string]GroupCtor
}

func (p *Pattern) Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree {
	ref := t.Reference()
	content := t.Document().Content()
	window := content[ref.Position():ref.End()]
	covered := coveredRanges(t)

	names := p.Regex.SubexpNames()
	for _, m := range p.Regex.FindAllStringSubmatchIndex(window, -1) {
		start, end := m[0]+ref.Position(), m[1]+ref.Position()
		if overlapsAny(start, end, covered) {
			continue
		}
		wrapper := tree.New(t.Arena(), t.Document(), region.NewReference(start, end-start), p.Weight)
		if p.Ctor != nil {
			p.Ctor(wrapper, window[m[0]:m[1]])
		}
		out := []tree.Tree{wrapper}
		for gi := 1; gi*2 < len(m); gi++ {
			name := names[gi]
			if name == "" || m[gi*2] < 0 {
				continue
			}
			gstart, gend := m[gi*2]+ref.Position(), m[gi*2+1]+ref.Position()
			gt := tree.New(t.Arena(), t.Document(), region.NewReference(gstart, gend-gstart), p.Weight)
			if ctor, ok := p.GroupCtors[name]; ok {
				ctor(gt, content[gstart:gend])
			}
			wrapper.Sketch().SetComponentTree(name, gt)
			out = append(out, gt)
		}
		return out
	}
	return nil
}

// Group is Pattern specialized for anchored directives (Regex is expected
// to start with "^" against its search window) — same mechanics as
// Pattern, named separately because spec.md §4.3 lists it as a distinct
// combinator for anchored forms.
type Group struct {
	Pattern
}

// DoublePattern scans for a balanced Open/Close pair: the nearest Close
// after an Open match that has no further Open between them (a greedy,
// non-recursive well-nested match). Emits a wrapper plus "open", "close",
// and "body" component Trees.
type DoublePattern struct {
	Open, Close *regexp.Regexp
	Weight      int32
	Ctor        func(t tree.Tree)
}

func (p *DoublePattern) Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree {
	ref := t.Reference()
	content := t.Document().Content()
	covered := coveredRanges(t)

	openLoc := findFirstUncovered(p.Open, content, ref.Position(), ref.End(), covered)
	if openLoc == nil {
		return nil
	}
	openStart, openEnd := openLoc[0], openLoc[1]

	base := openEnd
	closes := p.Close.FindAllStringIndex(content[base:ref.End()], -1)
	opens := p.Open.FindAllStringIndex(content[base:ref.End()], -1)

	var closeStart, closeEnd int
	found := false
	for _, c := range closes {
		cStart, cEnd := c[0]+base, c[1]+base
		if overlapsAny(cStart, cEnd, covered) {
			continue
		}
		// Move the Open forward to the last uncovered Open before this
		// Close, so no other Open sits between the pair.
		for _, o := range opens {
			oStart, oEnd := o[0]+base, o[1]+base
			if oStart >= openEnd && oEnd <= cStart && !overlapsAny(oStart, oEnd, covered) {
				openStart, openEnd = oStart, oEnd
			}
		}
		closeStart, closeEnd = cStart, cEnd
		found = true
		break
	}
	if !found {
		return nil
	}

	wrapper := tree.New(t.Arena(), t.Document(), region.NewReference(openStart, closeEnd-openStart), p.Weight)
	openTree := tree.New(t.Arena(), t.Document(), region.NewReference(openStart, openEnd-openStart), p.Weight)
	closeTree := tree.New(t.Arena(), t.Document(), region.NewReference(closeStart, closeEnd-closeStart), p.Weight)
	bodyTree := tree.New(t.Arena(), t.Document(), region.NewReference(openEnd, closeStart-openEnd), p.Weight)

	wrapper.Sketch().SetComponentTree("open", openTree)
	wrapper.Sketch().SetComponentTree("close", closeTree)
	wrapper.Sketch().SetComponentTree("body", bodyTree)
	if p.Ctor != nil {
		p.Ctor(wrapper)
	}
	return []tree.Tree{wrapper, openTree, closeTree, bodyTree}
}
