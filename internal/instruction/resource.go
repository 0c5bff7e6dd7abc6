package instruction

import (
	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// PushConst pushes a fixed Value, compiled directly from a literal Tree
// (a number, string, or boolean token).
type PushConst struct {
	base
	Value value.Value
}

func NewPushConst(v value.Value) *PushConst { return &PushConst{Value: v} }

func (i *PushConst) Exec(ctx *Context, m *runtime.Memory) error {
	m.Push(i.Value)
	return nil
}

// Idle does nothing — the compiled form of a Tree that contributes no
// runtime behavior (whitespace, comments).
type Idle struct{ base }

func (i *Idle) Exec(ctx *Context, m *runtime.Memory) error { return nil }
