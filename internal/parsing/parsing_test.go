package parsing

import (
	"regexp"
	"testing"

	"jamplate/internal/compilation"
	"jamplate/internal/docsource"
	"jamplate/internal/tree"
)

func TestTermEmitsFirstUncoveredMatch(t *testing.T) {
	doc := docsource.NewPseudo("t", "ab 12 cd 34")
	env := compilation.NewEnvironment()
	comp := env.Initialize(doc)

	number := &Term{
		Pattern: regexp.MustCompile(`\d+`),
		Weight:  1,
		Ctor:    func(nt tree.Tree, s string) { nt.Sketch().SetKind("number") },
	}
	Run(comp, env, []Parser{number})

	var kinds []string
	for _, c := range comp.Root().Descendants() {
		kinds = append(kinds, c.Sketch().Kind())
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 number trees offered, got %d (%v)", len(kinds), kinds)
	}
	for _, k := range kinds {
		if k != "number" {
			t.Fatalf("expected kind 'number', got %q", k)
		}
	}
}

func TestDoublePatternFindsNearestWellNestedClose(t *testing.T) {
	doc := docsource.NewPseudo("t", "(a(b)c)")
	env := compilation.NewEnvironment()
	comp := env.Initialize(doc)

	paren := &DoublePattern{
		Open:  regexp.MustCompile(`\(`),
		Close: regexp.MustCompile(`\)`),
		Weight: 1,
		Ctor:  func(nt tree.Tree) { nt.Sketch().SetKind("paren") },
	}
	Run(comp, env, []Parser{paren})

	var found bool
	for _, c := range comp.Root().Descendants() {
		if c.Sketch().Kind() == "paren" {
			found = true
			open, ok := c.Sketch().ComponentTree("open")
			if !ok {
				t.Fatalf("expected an 'open' component")
			}
			if doc.Read(open.Reference()) != "(" {
				t.Fatalf("expected open component text '(', got %q", doc.Read(open.Reference()))
			}
		}
	}
	if !found {
		t.Fatalf("expected at least one paren tree")
	}
}
