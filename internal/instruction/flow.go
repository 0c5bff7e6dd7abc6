package instruction

import (
	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

// Block executes each child in sequence on the current Frame (spec.md
// §4.6: "children execute left-to-right"), so operands one child pushes
// are visible to the next — binary operators, member access, and every
// other multi-instruction emission depend on this. Explicit frame
// isolation is opt-in, not implicit per child: Capture.Exec and the
// directive package's loop/branch compilers push their own Frame only
// where the spec calls for a scoped console or heap.
type Block struct {
	base
	Children []Instruction
}

func NewBlock(children ...Instruction) *Block { return &Block{Children: children} }

func (i *Block) Exec(ctx *Context, m *runtime.Memory) error {
	for _, child := range i.Children {
		if err := child.Exec(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Branch pops a Boolean and runs Then or Else accordingly.
type Branch struct {
	base
	Then Instruction
	Else Instruction
}

func NewBranch(then, els Instruction) *Branch { return &Branch{Then: then, Else: els} }

func (i *Branch) Exec(ctx *Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	b, ok := v.(value.Boolean)
	if !ok {
		return ErrTypeMismatch
	}
	if b {
		if i.Then != nil {
			return i.Then.Exec(ctx, m)
		}
		return nil
	}
	if i.Else != nil {
		return i.Else.Exec(ctx, m)
	}
	return nil
}

// Repeat runs Body, then pops a Boolean Body must have re-pushed — top
// means "continue" — looping until it is false.
type Repeat struct {
	base
	Body Instruction
}

func NewRepeat(body Instruction) *Repeat { return &Repeat{Body: body} }

func (i *Repeat) Exec(ctx *Context, m *runtime.Memory) error {
	for {
		if err := i.Body.Exec(ctx, m); err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			return err
		}
		b, ok := v.(value.Boolean)
		if !ok {
			return ErrTypeMismatch
		}
		if !b {
			return nil
		}
	}
}

// Capture runs Body under its own Frame, then pushes the Frame's
// accumulated console as a single Text value instead of letting it merge
// upward — redirecting console output onto the value stack (spec.md
// §4.6).
type Capture struct {
	base
	Body Instruction
}

func NewCapture(body Instruction) *Capture { return &Capture{Body: body} }

func (i *Capture) Exec(ctx *Context, m *runtime.Memory) error {
	m.PushFrame()
	if err := i.Body.Exec(ctx, m); err != nil {
		return err
	}
	popped, err := m.PopFrame()
	if err != nil {
		return err
	}
	m.Push(value.Text(popped.Console()))
	return nil
}
