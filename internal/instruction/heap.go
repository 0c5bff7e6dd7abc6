package instruction

import "jamplate/internal/runtime"

// Alloc pops a value then a name-text Value, evaluates the name, and
// stores the binding in the root frame's heap (spec.md §4.6/§5).
type Alloc struct{ base }

func (i *Alloc) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	nameVal, err := m.Pop()
	if err != nil {
		return err
	}
	name, err := nameVal.Eval(m)
	if err != nil {
		return err
	}
	m.Alloc(name, v)
	return nil
}

// Set is Alloc's top-frame-only counterpart.
type Set struct{ base }

func (i *Set) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	nameVal, err := m.Pop()
	if err != nil {
		return err
	}
	name, err := nameVal.Eval(m)
	if err != nil {
		return err
	}
	m.Set(name, v)
	return nil
}

// Access pops a name-text Value and pushes its heap binding (the
// designated Null value if unbound), walking frames innermost-out.
type Access struct{ base }

func (i *Access) Exec(ctx *Context, m *runtime.Memory) error {
	nameVal, err := m.Pop()
	if err != nil {
		return err
	}
	name, err := nameVal.Eval(m)
	if err != nil {
		return err
	}
	v, _ := m.Lookup(name)
	m.Push(v)
	return nil
}
