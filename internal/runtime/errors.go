package runtime

import "errors"

var (
	// ErrStackUnderflow is returned when an operand-stack pop/peek finds
	// the top frame empty.
	ErrStackUnderflow = errors.New("runtime: operand stack underflow")
	// ErrFrameUnderflow is returned when a frame-stack pop/dump/glue/join
	// would leave Memory with no frames at all.
	ErrFrameUnderflow = errors.New("runtime: frame stack underflow")
)
