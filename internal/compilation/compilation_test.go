package compilation

import (
	"testing"

	"jamplate/internal/docsource"
)

func TestInitializeIsIdempotentPerDocumentName(t *testing.T) {
	env := NewEnvironment()
	doc := docsource.NewPseudo("a", "hello")

	first := env.Initialize(doc)
	second := env.Initialize(docsource.NewPseudo("a", "hello"))

	if first != second {
		t.Fatalf("expected the same Compilation for repeated initialize of the same document name")
	}
}

func TestInitializeRootSpansWholeDocument(t *testing.T) {
	env := NewEnvironment()
	doc := docsource.NewPseudo("a", "hello world")

	comp := env.Initialize(doc)
	ref := comp.Root().Reference()
	if ref.Position() != 0 || ref.Length() != len(doc.Content()) {
		t.Fatalf("expected root to span [0,%d), got [%d,%d)", len(doc.Content()), ref.Position(), ref.End())
	}
}

func TestLookupReturnsFalseForUninitializedDocument(t *testing.T) {
	env := NewEnvironment()
	doc := docsource.NewPseudo("missing", "")

	if _, ok := env.Lookup(doc); ok {
		t.Fatalf("expected Lookup to report not-found for a document never passed to Initialize")
	}
}

func TestCompilationsPreservesInitializeOrder(t *testing.T) {
	env := NewEnvironment()
	a := docsource.NewPseudo("a", "")
	b := docsource.NewPseudo("b", "")
	c := docsource.NewPseudo("c", "")

	env.Initialize(b)
	env.Initialize(a)
	env.Initialize(c)
	env.Initialize(b) // repeat: must not reorder or duplicate

	names := make([]string, 0, 3)
	for _, comp := range env.Compilations() {
		names = append(names, comp.Document().Name())
	}
	want := []string{"b", "a", "c"}
	if len(names) != len(want) {
		t.Fatalf("expected %d compilations, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}
