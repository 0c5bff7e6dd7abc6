package compiling

import (
	"testing"

	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/docsource"
	"jamplate/internal/instruction"
	"jamplate/internal/region"
	"jamplate/internal/tree"
)

// numberCompiler and stringCompiler stand in for two Specs' worth of
// Compiler, keyed on Sketch kind the way root.go's real Subs are.
func numberCompiler(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	if !analysis.Is("number")(t) {
		return nil
	}
	return &instruction.Idle{}
}

func stringCompiler(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	if !analysis.Is("string")(t) {
		return nil
	}
	return &instruction.Idle{}
}

func newKindTree(kind string) (*compilation.Compilation, tree.Tree) {
	env := compilation.NewEnvironment()
	doc := docsource.NewPseudo("t", "x")
	comp := env.Initialize(doc)
	child := tree.New(comp.Arena(), doc, region.NewReference(0, 1), 1)
	child.Sketch().SetKind(kind)
	_ = tree.Offer(comp.Root(), child)
	return comp, child
}

func TestFilterOnlyRunsOnMatchingKind(t *testing.T) {
	comp, numTree := newKindTree("number")
	c := Filter(numberCompiler, analysis.Is("number"))
	if instr := c(c, comp, numTree); instr == nil {
		t.Fatalf("expected Filter to run Inner on a matching kind")
	}

	_, strTree := newKindTree("string")
	if instr := c(c, comp, strTree); instr != nil {
		t.Fatalf("expected Filter to skip Inner on a non-matching kind")
	}
}

func TestFirstReturnsFirstNonNil(t *testing.T) {
	comp, strTree := newKindTree("string")
	c := First(numberCompiler, stringCompiler)
	if instr := c(c, comp, strTree); instr == nil {
		t.Fatalf("expected First to fall through to stringCompiler")
	}
}

func TestFirstReturnsNilWhenNoneMatch(t *testing.T) {
	comp, boolTree := newKindTree("boolean")
	c := First(numberCompiler, stringCompiler)
	if instr := c(c, comp, boolTree); instr != nil {
		t.Fatalf("expected First to return nil when nothing matches")
	}
}

func TestCombineBuildsBlockOfEveryNonNilResult(t *testing.T) {
	comp, numTree := newKindTree("number")
	always := func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		return &instruction.Idle{}
	}
	c := Combine(numberCompiler, always)
	instr := c(c, comp, numTree)
	block, ok := instr.(*instruction.Block)
	if !ok {
		t.Fatalf("expected a *instruction.Block, got %T", instr)
	}
	if len(block.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(block.Children))
	}
}

func TestCombineReturnsNilWhenEveryComponentDeclines(t *testing.T) {
	comp, boolTree := newKindTree("boolean")
	c := Combine(numberCompiler, stringCompiler)
	if instr := c(c, comp, boolTree); instr != nil {
		t.Fatalf("expected nil when every inner Compiler declines")
	}
}

func TestFlattenAppliesInnerToEachChild(t *testing.T) {
	env := compilation.NewEnvironment()
	doc := docsource.NewPseudo("t", "ab")
	comp := env.Initialize(doc)

	a := tree.New(comp.Arena(), doc, region.NewReference(0, 1), 1)
	a.Sketch().SetKind("number")
	b := tree.New(comp.Arena(), doc, region.NewReference(1, 1), 1)
	b.Sketch().SetKind("number")
	_ = tree.Offer(comp.Root(), a)
	_ = tree.Offer(comp.Root(), b)

	c := Flatten(numberCompiler)
	instr := c(c, comp, comp.Root())
	block, ok := instr.(*instruction.Block)
	if !ok {
		t.Fatalf("expected a *instruction.Block, got %T", instr)
	}
	if len(block.Children) != 2 {
		t.Fatalf("expected 2 children (one per offered sibling), got %d", len(block.Children))
	}
}

func TestFallbackReentersRoot(t *testing.T) {
	comp, numTree := newKindTree("number")
	root := First(numberCompiler, stringCompiler)
	wrapped := func(r Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		return Fallback(root, comp, t)
	}
	if instr := wrapped(wrapped, comp, numTree); instr == nil {
		t.Fatalf("expected Fallback to re-enter root and find numberCompiler's result")
	}
}
