package runtime

import (
	"testing"

	"jamplate/internal/value"
)

func TestAllocTargetsRootAcrossFrames(t *testing.T) {
	m := New()
	m.Alloc("x", value.Number(1))
	m.PushFrame()
	m.PushFrame()
	v, ok := m.Lookup("x")
	if !ok {
		t.Fatalf("expected x visible from nested frames")
	}
	if n, ok := v.(value.Number); !ok || n != 1 {
		t.Fatalf("expected x=1, got %v", v)
	}
}

func TestSetDoesNotEscapeFrame(t *testing.T) {
	m := New()
	m.PushFrame()
	m.Set("y", value.Number(2))
	if _, err := m.PopFrame(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, ok := m.Lookup("y"); ok {
		t.Fatalf("expected y not visible after its frame popped")
	}
}

func TestLookupShadowsInnerOverOuter(t *testing.T) {
	m := New()
	m.Alloc("z", value.Text("outer"))
	m.PushFrame()
	m.Set("z", value.Text("inner"))
	v, ok := m.Lookup("z")
	if !ok {
		t.Fatalf("expected z present")
	}
	if v != value.Text("inner") {
		t.Fatalf("expected inner shadowing binding, got %v", v)
	}
}

func TestPopFrameUnderflow(t *testing.T) {
	m := New()
	if _, err := m.PopFrame(); err != ErrFrameUnderflow {
		t.Fatalf("expected ErrFrameUnderflow popping the root frame, got %v", err)
	}
}

func TestStackUnderflow(t *testing.T) {
	m := New()
	if _, err := m.Pop(); err != ErrStackUnderflow {
		t.Fatalf("expected ErrStackUnderflow, got %v", err)
	}
}

func TestDupAndSwap(t *testing.T) {
	m := New()
	m.Push(value.Number(1))
	m.Push(value.Number(2))
	if err := m.Swap(); err != nil {
		t.Fatalf("swap: %v", err)
	}
	top, _ := m.Pop()
	if top != value.Number(1) {
		t.Fatalf("expected 1 on top after swap, got %v", top)
	}

	m.Push(value.Text("a"))
	if err := m.Dup(); err != nil {
		t.Fatalf("dup: %v", err)
	}
	a, _ := m.Pop()
	b, _ := m.Pop()
	if a != value.Text("a") || b != value.Text("a") {
		t.Fatalf("expected dup to duplicate top, got %v, %v", a, b)
	}
}

func TestDumpFrameMergesConsole(t *testing.T) {
	m := New()
	m.Print("outer:")
	m.PushFrame()
	m.Print("inner")
	if err := m.DumpFrame(); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got := m.Top().Console(); got != "outer:inner" {
		t.Fatalf("console = %q, want %q", got, "outer:inner")
	}
}

func TestGlueFrameProducesSingleGlueValue(t *testing.T) {
	m := New()
	m.PushFrame()
	m.Push(value.Text("a"))
	m.Push(value.Text("b"))
	if err := m.GlueFrame(); err != nil {
		t.Fatalf("glue: %v", err)
	}
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	g, ok := v.(*value.Glue)
	if !ok {
		t.Fatalf("expected *value.Glue, got %T", v)
	}
	if len(g.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(g.Parts))
	}
}

func TestJoinFrameConcatenatesEvaluatedText(t *testing.T) {
	m := New()
	m.PushFrame()
	m.Push(value.Text("foo"))
	m.Push(value.Number(1))
	if err := m.JoinFrame(); err != nil {
		t.Fatalf("join: %v", err)
	}
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Text("foo1") {
		t.Fatalf("expected joined text foo1, got %v", v)
	}
}

func TestNestRespectsDepthLimit(t *testing.T) {
	var m value.Memory = New()
	var err error
	for i := 0; i < value.MaxEvalDepth; i++ {
		m, err = m.Nest()
		if err != nil {
			t.Fatalf("nest %d: %v", i, err)
		}
	}
	if _, err := m.Nest(); err != value.ErrEvalTooDeep {
		t.Fatalf("expected ErrEvalTooDeep at the limit, got %v", err)
	}
}
