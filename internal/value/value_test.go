package value

import "testing"

type testMemory struct {
	heap  map[string]Value
	depth int
}

func newTestMemory() *testMemory { return &testMemory{heap: map[string]Value{}} }

func (m *testMemory) Lookup(name string) (Value, bool) {
	v, ok := m.heap[name]
	return v, ok
}

func (m *testMemory) Nest() (Memory, error) {
	if m.depth+1 > MaxEvalDepth {
		return nil, ErrEvalTooDeep
	}
	return &testMemory{heap: m.heap, depth: m.depth + 1}, nil
}

func TestNumberFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{17, "17"},
		{-3, "-3"},
		{0, "0"},
		{2.5, "2.5"},
		{0.1, "0.1"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteUnquoteRoundTrip(t *testing.T) {
	m := newTestMemory()
	inner := Text("hello")
	q := NewQuote(inner)

	// Quote(Unquote(v)).eval = Quote(v).eval
	rt := NewQuote(Unquote(q))
	want, err := q.Eval(m)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got, err := rt.Eval(m)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != want {
		t.Fatalf("Quote(Unquote(v)).eval = %q, want %q", got, want)
	}
}

func TestGlueFlattensNested(t *testing.T) {
	m := newTestMemory()
	g := NewGlue(Text("a"), NewGlue(Text("b"), Text("c")), Text("d"))
	if len(g.Parts) != 4 {
		t.Fatalf("expected flattened glue to have 4 parts, got %d", len(g.Parts))
	}
	got, err := g.Eval(m)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "abcd" {
		t.Fatalf("glue eval = %q, want %q", got, "abcd")
	}
}

func TestObjectPutReplacesInPlace(t *testing.T) {
	m := newTestMemory()
	obj := NewObject(NewPair(Text("a"), Number(1)), NewPair(Text("b"), Number(2)))
	updated, err := obj.Put(m, "a", Number(9))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(updated.Pairs) != 2 {
		t.Fatalf("expected Put to replace in place, got %d pairs", len(updated.Pairs))
	}
	v, ok := updated.Get(m, "a")
	if !ok {
		t.Fatalf("expected key 'a' present")
	}
	if n, ok := v.(Number); !ok || n != 9 {
		t.Fatalf("expected a=9, got %v", v)
	}
}

func TestApplyComposesTransform(t *testing.T) {
	m := newTestMemory()
	v := Text("hi").Apply(func(s string) string { return s + "!" })
	got, err := v.Eval(m)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "hi!" {
		t.Fatalf("apply result = %q, want %q", got, "hi!")
	}
}

func TestIsNull(t *testing.T) {
	if !IsNull(Null) {
		t.Fatalf("Null must report IsNull")
	}
	if IsNull(Text("")) {
		t.Fatalf("empty text must not report IsNull")
	}
}
