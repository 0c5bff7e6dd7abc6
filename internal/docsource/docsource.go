// Package docsource provides the two Document implementations spec.md §6
// asks for: an in-memory ("pseudo") document and a file-backed one. Both
// are thin — Document identity, loading, and colored/IDE-facing reporting
// are explicitly external-collaborator concerns (spec.md §1), so this
// package stops at "read the bytes", nothing more.
package docsource

import (
	"fmt"
	"os"

	"jamplate/internal/region"
)

// Pseudo is an in-memory Document: identity is its Name, content is
// whatever string it was built with. Grounded on the teacher's pattern of
// keeping a "pseudo" stand-in alongside the file-backed module loader
// (internal/module/module.go's ModuleLoader distinguishes built-in /
// cached / on-disk sources the same way).
type Pseudo struct {
	name    string
	content string
}

// NewPseudo builds an in-memory document.
func NewPseudo(name, content string) *Pseudo {
	return &Pseudo{name: name, content: content}
}

func (p *Pseudo) Name() string    { return p.name }
func (p *Pseudo) Content() string { return p.content }

func (p *Pseudo) Read(ref region.Reference) string {
	return p.content[ref.Position():ref.End()]
}

// File is a Document backed by a path on disk. Content is read once, at
// construction time; Jamplate does not support incremental reparsing
// (spec.md §1 Non-goals), so there is no reason to re-stat the file on
// every Read.
type File struct {
	path    string
	content string
}

// NewFile reads path and wraps it as a Document identified by its path.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentNotFound, path, err)
	}
	return &File{path: path, content: string(data)}, nil
}

func (f *File) Name() string    { return f.path }
func (f *File) Content() string { return f.content }

func (f *File) Read(ref region.Reference) string {
	return f.content[ref.Position():ref.End()]
}
