package instruction

import (
	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// Pop discards the top operand.
type Pop struct{ base }

func (i *Pop) Exec(ctx *Context, m *runtime.Memory) error {
	_, err := m.Pop()
	return err
}

// Dup duplicates the top operand.
type Dup struct{ base }

func (i *Dup) Exec(ctx *Context, m *runtime.Memory) error { return m.Dup() }

// Swap exchanges the top two operands.
type Swap struct{ base }

func (i *Swap) Exec(ctx *Context, m *runtime.Memory) error { return m.Swap() }

// Eval pops the top operand and pushes its evaluated form: a Quote
// unwraps one level without evaluating (spec.md §4.6: "push as Text or
// Quote-unwrap"), anything else is rendered to Text.
type Eval struct{ base }

func (i *Eval) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if q, ok := v.(*value.Quote); ok {
		m.Push(value.Unquote(q))
		return nil
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	m.Push(value.Text(s))
	return nil
}
