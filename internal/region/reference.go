// Package region implements the geometric substrate every other Jamplate
// pass builds on: half-open character ranges over a Document, and the
// Intersection/Dominance algebra used to classify how two ranges relate.
package region

import "fmt"

// Reference is an immutable half-open range [Position, Position+Length)
// into some Document. Two references are only meaningfully comparable when
// drawn from the same Document.
type Reference struct {
	position uint32
	length   uint32
}

// NewReference builds a Reference, panicking on a negative-length range.
// Position and Length arrive as plain ints at call sites (line/column
// arithmetic, regexp match indices); the invariant position >= 0 && length
// >= 0 is enforced here once rather than re-checked by every caller.
func NewReference(position, length int) Reference {
	if position < 0 || length < 0 {
		panic(fmt.Sprintf("region: invalid reference (position=%d, length=%d)", position, length))
	}
	return Reference{position: uint32(position), length: uint32(length)}
}

func (r Reference) Position() int { return int(r.position) }
func (r Reference) Length() int   { return int(r.length) }
func (r Reference) End() int      { return int(r.position) + int(r.length) }

// With returns a Reference covering [Position()+shift, End()+shift).
func (r Reference) With(shift int) Reference {
	return NewReference(r.Position()+shift, r.Length())
}

// Between returns the Reference spanning from the start of a to the end of b.
func Between(a, b Reference) Reference {
	start := a.Position()
	end := b.End()
	if end < start {
		start, end = end, start
	}
	return NewReference(start, end-start)
}

func (r Reference) String() string {
	return fmt.Sprintf("[%d, %d)", r.Position(), r.End())
}
