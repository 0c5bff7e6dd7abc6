package instruction

import (
	"fmt"
	"strings"

	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// Print pops a value, evaluates it, and appends the text to the
// innermost Frame's console.
type Print struct{ base }

func (i *Print) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	m.Print(s)
	return nil
}

// FPrint pops (value, replacements) and prints value's evaluated text
// with every "{key}" placeholder substituted from the replacements
// Object's evaluated entries.
type FPrint struct{ base }

func (i *FPrint) Exec(ctx *Context, m *runtime.Memory) error {
	replVal, err := m.Pop()
	if err != nil {
		return err
	}
	v, err := m.Pop()
	if err != nil {
		return err
	}
	repl, ok := replVal.(*value.Object)
	if !ok {
		return ErrTypeMismatch
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	for _, p := range repl.Pairs {
		key, err := p.Key.Eval(m)
		if err != nil {
			return err
		}
		val, err := p.Value.Eval(m)
		if err != nil {
			return err
		}
		s = strings.ReplaceAll(s, "{"+key+"}", val)
	}
	m.Print(s)
	return nil
}

// Serr pops a value, evaluates it, and writes the text to the Context's
// diagnostic error stream rather than the Frame console.
type Serr struct{ base }

func (i *Serr) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	ctx.Stderr.WriteString(s)
	return nil
}

// Raise pops a value, evaluates it, writes it to the diagnostic error
// stream the same way Serr does, and then returns an ExecutionError
// (spec.md §7) carrying that text — the run stops here rather than
// continuing, unlike Serr/#message which only report.
type Raise struct{ base }

func (i *Raise) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	s, err := v.Eval(m)
	if err != nil {
		return err
	}
	ctx.Stderr.WriteString(s)
	return fmt.Errorf("%w: %s", ErrRaised, s)
}
