package instruction

import "errors"

var (
	// ErrTypeMismatch is an ExecutionError (spec.md §7): an instruction
	// popped a Value of the wrong variant for its operation.
	ErrTypeMismatch = errors.New("instruction: operand has the wrong value kind")
	// ErrDivideByZero guards Quotient/Modulo.
	ErrDivideByZero = errors.New("instruction: division by zero")
	// ErrRaised is Raise's ExecutionError (spec.md §7): a document
	// deliberately asked the run to stop, as opposed to an instruction
	// being misused.
	ErrRaised = errors.New("instruction: raised")
)
