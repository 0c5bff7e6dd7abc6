package tree

import "errors"

// IllegalTree is the error kind spec.md §7 names for any attempted
// placement that violates the tree's structural contract. Every fatal
// offer failure wraps one of the three sentinels below; the tree is left
// unchanged whenever one is returned.
var (
	// ErrTreeOutOfBounds: incoming doesn't fit inside any ancestor while
	// walking up from an unrelated (NONE-dominant) starting point.
	ErrTreeOutOfBounds = errors.New("tree: out of bounds")
	// ErrTreeTakeover: two EXACT-coinciding nodes were offered with equal
	// weight — there is no way to decide which nests inside which.
	ErrTreeTakeover = errors.New("tree: takeover")
	// ErrTreeClash: a SHARE relationship was found, either directly
	// between the two nodes or between incoming and a NONE-dominant
	// ancestor encountered while walking up.
	ErrTreeClash = errors.New("tree: clash")
)
