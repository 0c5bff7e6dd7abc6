package docsource

import "errors"

// ErrDocumentNotFound mirrors spec.md §7's DocumentNotFound error kind:
// an I/O failure while reading a Document.
var ErrDocumentNotFound = errors.New("docsource: document not found")
