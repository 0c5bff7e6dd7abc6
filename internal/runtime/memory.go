package runtime

import "jamplate/internal/value"

// Memory is a stack of Frames (spec.md §3). It implements value.Memory so
// the value package can Eval against it without importing this package.
//
// The root frame (frames[0]) never pops past the floor a caller pushed at
// construction: Alloc always targets frames[0], giving directives like
// #declare a place to publish globals that every nested Frame can still
// see via Lookup's innermost-out walk.
type Memory struct {
	frames []*Frame
	depth  int
}

// New returns a Memory with a single root Frame.
func New() *Memory {
	return &Memory{frames: []*Frame{newFrame()}}
}

// Top returns the innermost (current) Frame.
func (m *Memory) Top() *Frame { return m.frames[len(m.frames)-1] }

// Root returns the outermost Frame.
func (m *Memory) Root() *Frame { return m.frames[0] }

// Depth reports how many frames are on the stack.
func (m *Memory) Depth() int { return len(m.frames) }

// PushFrame opens a new innermost Frame and returns it.
func (m *Memory) PushFrame() *Frame {
	f := newFrame()
	m.frames = append(m.frames, f)
	return f
}

// PopFrame closes the innermost Frame and discards it, returning it to the
// caller. Returns ErrFrameUnderflow if only the root frame remains.
func (m *Memory) PopFrame() (*Frame, error) {
	if len(m.frames) <= 1 {
		return nil, ErrFrameUnderflow
	}
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	return f, nil
}

// DumpFrame pops the innermost Frame and merges its console text into the
// Frame now exposed below it (spec.md §3's DumpFrame instruction).
func (m *Memory) DumpFrame() error {
	popped, err := m.PopFrame()
	if err != nil {
		return err
	}
	m.Top().print(popped.Console())
	return nil
}

// GlueFrame pops the innermost Frame and pushes a single value.Glue of its
// operand stack onto the Frame now exposed below it. The popped frame's
// console is merged too, the same way DumpFrame does it, since a glued
// frame is finished contributing output of its own.
func (m *Memory) GlueFrame() error {
	popped, err := m.PopFrame()
	if err != nil {
		return err
	}
	g := value.NewGlue(popped.operands...)
	top := m.Top()
	top.push(g)
	top.print(popped.Console())
	return nil
}

// JoinFrame pops the innermost Frame, evaluates each of its operands
// against m and concatenates the results into a single value.Text pushed
// onto the Frame now exposed below it (spec.md §3's JoinFrame: "like Glue
// but the parts are evaluated to text first, not kept lazy").
func (m *Memory) JoinFrame() error {
	popped, err := m.PopFrame()
	if err != nil {
		return err
	}
	var joined string
	for _, v := range popped.operands {
		s, err := v.Eval(m)
		if err != nil {
			return err
		}
		joined += s
	}
	top := m.Top()
	top.push(value.Text(joined))
	top.print(popped.Console())
	return nil
}

// Print appends to the innermost Frame's console buffer.
func (m *Memory) Print(s string) { m.Top().print(s) }

// Push pushes v onto the innermost Frame's operand stack.
func (m *Memory) Push(v value.Value) { m.Top().push(v) }

// Pop pops the innermost Frame's operand stack.
func (m *Memory) Pop() (value.Value, error) { return m.Top().pop() }

// Peek reads without removing the innermost Frame's top operand.
func (m *Memory) Peek() (value.Value, error) { return m.Top().peek() }

// Dup duplicates the innermost Frame's top operand.
func (m *Memory) Dup() error {
	v, err := m.Top().peek()
	if err != nil {
		return err
	}
	m.Top().push(v)
	return nil
}

// Swap exchanges the innermost Frame's top two operands.
func (m *Memory) Swap() error {
	top := m.Top()
	a, err := top.pop()
	if err != nil {
		return err
	}
	b, err := top.pop()
	if err != nil {
		top.push(a)
		return err
	}
	top.push(a)
	top.push(b)
	return nil
}

// Alloc binds name in the root Frame's heap (spec.md §5: Alloc always
// targets the outermost frame, so a declaration is visible for the rest
// of the run regardless of how many frames have opened since).
func (m *Memory) Alloc(name string, v value.Value) { m.Root().heap[name] = v }

// Set binds name in the innermost Frame's heap only (spec.md §5: Set never
// reaches past the current frame — a loop body rebinding its own iteration
// variable must not leak into the frame it was called from).
func (m *Memory) Set(name string, v value.Value) { m.Top().heap[name] = v }

// Lookup implements value.Memory: walk frames innermost-out, so a name
// bound by an inner Frame shadows the same name bound by an outer one.
func (m *Memory) Lookup(name string) (value.Value, bool) {
	for i := len(m.frames) - 1; i >= 0; i-- {
		if v, ok := m.frames[i].heap[name]; ok {
			return v, true
		}
	}
	return value.Null, false
}

// Nest implements value.Memory's recursion guard: it returns a Memory
// sharing the same frame stack but with an incremented depth counter, so
// nested Eval calls see the same heap/operand state while still being
// bounded by value.MaxEvalDepth.
func (m *Memory) Nest() (value.Memory, error) {
	if m.depth+1 > value.MaxEvalDepth {
		return nil, value.ErrEvalTooDeep
	}
	return &Memory{frames: m.frames, depth: m.depth + 1}, nil
}
