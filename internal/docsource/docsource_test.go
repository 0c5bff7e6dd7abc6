package docsource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"jamplate/internal/region"
)

func TestPseudoReadSlicesContent(t *testing.T) {
	p := NewPseudo("t", "hello world")
	got := p.Read(region.NewReference(6, 5))
	if got != "world" {
		t.Fatalf("expected %q, got %q", "world", got)
	}
	if p.Name() != "t" {
		t.Fatalf("expected name %q, got %q", "t", p.Name())
	}
}

func TestNewFileReadsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.jpl")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if f.Content() != "abc" {
		t.Fatalf("expected content %q, got %q", "abc", f.Content())
	}
	if f.Name() != path {
		t.Fatalf("expected name %q, got %q", path, f.Name())
	}
	if f.Read(region.NewReference(1, 2)) != "bc" {
		t.Fatalf("expected slice %q, got %q", "bc", f.Read(region.NewReference(1, 2)))
	}
}

func TestNewFileMissingWrapsErrDocumentNotFound(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "does-not-exist.jpl"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected error to wrap ErrDocumentNotFound, got %v", err)
	}
}
