package instruction

import (
	"strconv"

	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// CastText pops a value and pushes its evaluated text form. Idempotent:
// CastText(CastText(v)).eval = CastText(v).eval, since the result is
// already a Text whose Eval is a no-op.
type CastText struct{ base }

func (i *CastText) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	m.Push(value.Text(s))
	return nil
}

// CastNumber pops a value, parses its evaluated text as a float, and
// pushes the Number. CastNumber(CastText(n)).eval = n.eval for numeric n,
// since FormatNumber/ParseFloat round-trip any value FormatNumber itself
// produced.
type CastNumber struct{ base }

func (i *CastNumber) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if n, ok := v.(value.Number); ok {
		m.Push(n)
		return nil
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ErrTypeMismatch
	}
	m.Push(value.Number(f))
	return nil
}

// CastBoolean pops a value and pushes true/false, matching the exact
// "true"/"false" text Boolean.Eval renders.
type CastBoolean struct{ base }

func (i *CastBoolean) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if b, ok := v.(value.Boolean); ok {
		m.Push(b)
		return nil
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	switch s {
	case "true":
		m.Push(value.Boolean(true))
	case "false":
		m.Push(value.Boolean(false))
	default:
		return ErrTypeMismatch
	}
	return nil
}

// CastArray pops a value and pushes it unchanged if already an Array, or
// a single-element Array wrapping it otherwise.
type CastArray struct{ base }

func (i *CastArray) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if a, ok := v.(*value.Array); ok {
		m.Push(a)
		return nil
	}
	m.Push(value.NewArray(v))
	return nil
}

// CastObject pops a value and pushes it unchanged if already an Object,
// or a single-pair Object wrapping a bare Pair (keeping the Pair's own
// key); any other variant is a type mismatch.
type CastObject struct{ base }

func (i *CastObject) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *value.Object:
		m.Push(t)
	case *value.Pair:
		m.Push(value.NewObject(t))
	default:
		return ErrTypeMismatch
	}
	return nil
}

// CastPair pops a value and pushes it unchanged if already a Pair, or
// turns a two-element Array into a (key, value) Pair.
type CastPair struct{ base }

func (i *CastPair) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case *value.Pair:
		m.Push(t)
	case *value.Array:
		if len(t.Elements) != 2 {
			return ErrTypeMismatch
		}
		m.Push(value.NewPair(t.Elements[0], t.Elements[1]))
	default:
		return ErrTypeMismatch
	}
	return nil
}

// CastQuote pops a value and pushes it wrapped in a Quote — every Value
// can be quoted, so this never fails.
type CastQuote struct{ base }

func (i *CastQuote) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	m.Push(value.NewQuote(v))
	return nil
}

// CastGlue pops a value and pushes it unchanged if already a Glue, or a
// single-part Glue wrapping it otherwise.
type CastGlue struct{ base }

func (i *CastGlue) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if g, ok := v.(*value.Glue); ok {
		m.Push(g)
		return nil
	}
	m.Push(value.NewGlue(v))
	return nil
}

// BuildObject pops Count Pairs off the operand stack and folds them into
// a single Object, restoring insertion order (the pairs come off the
// stack last-pushed-first).
type BuildObject struct {
	base
	Count int
}

func NewBuildObject(count int) *BuildObject { return &BuildObject{Count: count} }

func (i *BuildObject) Exec(ctx *Context, m *runtime.Memory) error {
	pairs := make([]*value.Pair, i.Count)
	for k := i.Count - 1; k >= 0; k-- {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		p, ok := v.(*value.Pair)
		if !ok {
			return ErrTypeMismatch
		}
		pairs[k] = p
	}
	obj := &value.Object{}
	for _, p := range pairs {
		obj.Pairs = append(obj.Pairs, p)
	}
	m.Push(obj)
	return nil
}
