package instruction

import "jamplate/internal/runtime"

// PushFrame opens a new innermost Frame.
type PushFrame struct{ base }

func (i *PushFrame) Exec(ctx *Context, m *runtime.Memory) error {
	m.PushFrame()
	return nil
}

// PopFrame closes the innermost Frame, discarding its console and
// operand stack.
type PopFrame struct{ base }

func (i *PopFrame) Exec(ctx *Context, m *runtime.Memory) error {
	_, err := m.PopFrame()
	return err
}

// DumpFrame closes the innermost Frame and merges its console into the
// Frame below.
type DumpFrame struct{ base }

func (i *DumpFrame) Exec(ctx *Context, m *runtime.Memory) error { return m.DumpFrame() }

// GlueFrame closes the innermost Frame and pushes a single Glue of its
// operand stack onto the Frame below.
type GlueFrame struct{ base }

func (i *GlueFrame) Exec(ctx *Context, m *runtime.Memory) error { return m.GlueFrame() }

// JoinFrame closes the innermost Frame and pushes the concatenated,
// evaluated text of its operand stack onto the Frame below.
type JoinFrame struct{ base }

func (i *JoinFrame) Exec(ctx *Context, m *runtime.Memory) error { return m.JoinFrame() }
