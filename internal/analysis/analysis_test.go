package analysis

import (
	"testing"

	"jamplate/internal/compilation"
	"jamplate/internal/docsource"
	"jamplate/internal/region"
	"jamplate/internal/tree"
)

func offerLeaf(comp *compilation.Compilation, start, end int, kind string) tree.Tree {
	t := tree.New(comp.Arena(), comp.Document(), region.NewReference(start, end-start), 1)
	t.Sketch().SetKind(kind)
	if err := tree.Offer(comp.Root(), t); err != nil {
		panic(err)
	}
	return t
}

func TestBinaryOperatorLeftAssociates(t *testing.T) {
	doc := docsource.NewPseudo("t", "1+2+3")
	env := compilation.NewEnvironment()
	comp := env.Initialize(doc)

	offerLeaf(comp, 0, 1, "number")
	offerLeaf(comp, 1, 2, "op")
	offerLeaf(comp, 2, 3, "number")
	offerLeaf(comp, 3, 4, "op")
	offerLeaf(comp, 4, 5, "number")

	binOp := Hierarchy{Inner: Filter{
		Query: Is("op"),
		Inner: BinaryOperator{
			Query:    Is("op"),
			WrapCtor: func(w tree.Tree) { w.Sketch().SetKind("sum") },
		},
	}}
	Run(comp, []Analyzer{binOp})

	children := comp.Root().Children()
	if len(children) != 1 {
		t.Fatalf("expected root to fold down to 1 child, got %d", len(children))
	}
	top := children[0]
	if top.Sketch().Kind() != "sum" {
		t.Fatalf("expected top kind 'sum', got %q", top.Sketch().Kind())
	}
	left, ok := top.Sketch().ComponentTree("left")
	if !ok {
		t.Fatalf("expected a 'left' component")
	}
	if left.Sketch().Kind() != "sum" {
		t.Fatalf("expected left-associative nesting: left child should itself be 'sum', got %q", left.Sketch().Kind())
	}
	right, ok := top.Sketch().ComponentTree("right")
	if !ok || doc.Read(right.Reference()) != "3" {
		t.Fatalf("expected right component covering the final operand")
	}
}

func TestSeparatorsSlicesIntoSlots(t *testing.T) {
	doc := docsource.NewPseudo("t", "a,b,c")
	env := compilation.NewEnvironment()
	comp := env.Initialize(doc)

	offerLeaf(comp, 1, 2, "comma")
	offerLeaf(comp, 3, 4, "comma")

	sep := Separators{
		SepQuery: Is("comma"),
		SlotCtor: func(s tree.Tree) { s.Sketch().SetKind("slot") },
	}
	Run(comp, []Analyzer{sep})

	var slots int
	for _, c := range comp.Root().Children() {
		if c.Sketch().Kind() == "slot" {
			slots++
		}
	}
	if slots != 3 {
		t.Fatalf("expected 3 slots around 2 separators, got %d", slots)
	}
}
