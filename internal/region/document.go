package region

// Document is an identifiable text blob. Identity is by Name alone: two
// documents with identical content and different names are distinct, and
// two documents with the same name are considered the same document even
// if their content has since diverged (the caller's responsibility).
type Document interface {
	Name() string
	Content() string
	// Read returns the substring covered by ref. Read panics if ref
	// overruns the content; callers are expected to have validated ref
	// against Content() length before constructing it.
	Read(ref Reference) string
}

// Equal reports whether two documents share identity.
func Equal(a, b Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name() == b.Name()
}

// Whole returns a Reference covering an entire document's content.
func Whole(d Document) Reference {
	return NewReference(0, len(d.Content()))
}
