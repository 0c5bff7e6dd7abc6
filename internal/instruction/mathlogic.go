package instruction

import (
	"math"
	"strings"

	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

func popNumbers(m *runtime.Memory) (a, b value.Number, err error) {
	bv, err := m.Pop()
	if err != nil {
		return 0, 0, err
	}
	av, err := m.Pop()
	if err != nil {
		return 0, 0, err
	}
	an, ok := av.(value.Number)
	if !ok {
		return 0, 0, ErrTypeMismatch
	}
	bn, ok := bv.(value.Number)
	if !ok {
		return 0, 0, ErrTypeMismatch
	}
	return an, bn, nil
}

func popBooleans(m *runtime.Memory) (a, b value.Boolean, err error) {
	bv, err := m.Pop()
	if err != nil {
		return false, false, err
	}
	av, err := m.Pop()
	if err != nil {
		return false, false, err
	}
	ab, ok := av.(value.Boolean)
	if !ok {
		return false, false, ErrTypeMismatch
	}
	bb, ok := bv.(value.Boolean)
	if !ok {
		return false, false, ErrTypeMismatch
	}
	return ab, bb, nil
}

// Sum pops (a, b): if both Number, pushes a+b; otherwise pushes the
// concatenation of their evaluated text (spec.md §4.6: "numeric-or-
// concat").
type Sum struct{ base }

func (i *Sum) Exec(ctx *Context, m *runtime.Memory) error {
	bv, err := m.Pop()
	if err != nil {
		return err
	}
	av, err := m.Pop()
	if err != nil {
		return err
	}
	an, aok := av.(value.Number)
	bn, bok := bv.(value.Number)
	if aok && bok {
		m.Push(an + bn)
		return nil
	}
	as, err := av.Eval(m)
	if err != nil {
		return err
	}
	bs, err := bv.Eval(m)
	if err != nil {
		return err
	}
	m.Push(value.Text(as + bs))
	return nil
}

// Difference pops (a, b) Numbers and pushes a-b.
type Difference struct{ base }

func (i *Difference) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popNumbers(m)
	if err != nil {
		return err
	}
	m.Push(a - b)
	return nil
}

// Multiply pops (a, b) Numbers and pushes a*b.
type Multiply struct{ base }

func (i *Multiply) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popNumbers(m)
	if err != nil {
		return err
	}
	m.Push(a * b)
	return nil
}

// Quotient pops (a, b) Numbers and pushes a/b.
type Quotient struct{ base }

func (i *Quotient) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popNumbers(m)
	if err != nil {
		return err
	}
	if b == 0 {
		return ErrDivideByZero
	}
	m.Push(a / b)
	return nil
}

// Modulo pops (a, b) Numbers and pushes a mod b.
type Modulo struct{ base }

func (i *Modulo) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popNumbers(m)
	if err != nil {
		return err
	}
	if b == 0 {
		return ErrDivideByZero
	}
	m.Push(value.Number(math.Mod(float64(a), float64(b))))
	return nil
}

// Negate pops a Boolean and pushes its inverse.
type Negate struct{ base }

func (i *Negate) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	b, ok := v.(value.Boolean)
	if !ok {
		return ErrTypeMismatch
	}
	m.Push(!b)
	return nil
}

// And pops (a, b) Booleans and pushes a&&b.
type And struct{ base }

func (i *And) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popBooleans(m)
	if err != nil {
		return err
	}
	m.Push(a && b)
	return nil
}

// Or pops (a, b) Booleans and pushes a||b.
type Or struct{ base }

func (i *Or) Exec(ctx *Context, m *runtime.Memory) error {
	a, b, err := popBooleans(m)
	if err != nil {
		return err
	}
	m.Push(a || b)
	return nil
}

// Compare pops (a, b) and pushes -1/0/+1 as a Number: numeric comparison
// if both are Number, lexical comparison of evaluated text otherwise.
// The relational operators (<, <=, >=, >) are compiled as Compare
// followed by a cast of the sign to Boolean.
type Compare struct{ base }

func (i *Compare) Exec(ctx *Context, m *runtime.Memory) error {
	bv, err := m.Pop()
	if err != nil {
		return err
	}
	av, err := m.Pop()
	if err != nil {
		return err
	}
	an, aok := av.(value.Number)
	bn, bok := bv.(value.Number)
	if aok && bok {
		m.Push(value.Number(signOf(float64(an) - float64(bn))))
		return nil
	}
	as, err := av.Eval(m)
	if err != nil {
		return err
	}
	bs, err := bv.Eval(m)
	if err != nil {
		return err
	}
	m.Push(value.Number(signOf(float64(strings.Compare(as, bs)))))
	return nil
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Defined pops a value and pushes true unless it is the designated NULL
// value.
type Defined struct{ base }

func (i *Defined) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	m.Push(value.Boolean(!value.IsNull(v)))
	return nil
}
