package instruction

import (
	"testing"

	"jamplate/internal/runtime"
	"jamplate/internal/value"
)

func run(t *testing.T, m *runtime.Memory, instrs ...Instruction) {
	t.Helper()
	ctx := NewContext(nil)
	for _, instr := range instrs {
		if err := instr.Exec(ctx, m); err != nil {
			t.Fatalf("exec %T: %v", instr, err)
		}
	}
}

func TestArithmeticExpression(t *testing.T) {
	// 1 + 2 * (3 + 5) -> 17
	m := runtime.New()
	run(t, m,
		&PushConst{Value: value.Number(1)},
		&PushConst{Value: value.Number(2)},
		&PushConst{Value: value.Number(3)},
		&PushConst{Value: value.Number(5)},
		&Sum{},
		&Multiply{},
		&Sum{},
	)
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Number(17) {
		t.Fatalf("expected 17, got %v", v)
	}
}

func TestNegateChain(t *testing.T) {
	// !!!false + !!!true -> "truefalse"
	m := runtime.New()
	run(t, m,
		&PushConst{Value: value.Boolean(false)},
		&Negate{}, &Negate{}, &Negate{},
		&PushConst{Value: value.Boolean(true)},
		&Negate{}, &Negate{}, &Negate{},
		&Sum{},
	)
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Text("truefalse") {
		t.Fatalf("expected truefalse, got %v", v)
	}
}

func TestCastTextIdempotent(t *testing.T) {
	m := runtime.New()
	run(t, m, &PushConst{Value: value.Number(42)}, &CastText{}, &CastText{})
	v, _ := m.Pop()
	if v != value.Text("42") {
		t.Fatalf("expected \"42\", got %v", v)
	}
}

func TestCastNumberRoundTripsCastText(t *testing.T) {
	m := runtime.New()
	run(t, m, &PushConst{Value: value.Number(3.5)}, &CastText{}, &CastNumber{})
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	n, ok := v.(value.Number)
	if !ok {
		t.Fatalf("expected Number, got %T", v)
	}
	got, _ := n.Eval(m)
	want, _ := value.Number(3.5).Eval(m)
	if got != want {
		t.Fatalf("CastNumber(CastText(n)).eval = %q, want %q", got, want)
	}
}

func TestSplitAndBuildObjectRoundTrip(t *testing.T) {
	m := runtime.New()
	arr := value.NewArray(
		value.NewPair(value.Text("a"), value.Number(1)),
		value.NewPair(value.Text("b"), value.Number(2)),
	)
	run(t, m, &PushConst{Value: arr}, &Split{}, &BuildObject{Count: 2})
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	obj, ok := v.(*value.Object)
	if !ok {
		t.Fatalf("expected *Object, got %T", v)
	}
	got, ok := obj.Get(m, "a")
	if !ok || got != value.Number(1) {
		t.Fatalf("expected a=1, got %v", got)
	}
}

func TestBranchSelectsThenOrElse(t *testing.T) {
	m := runtime.New()
	b := NewBranch(&PushConst{Value: value.Text("then")}, &PushConst{Value: value.Text("else")})
	run(t, m, &PushConst{Value: value.Boolean(true)}, b)
	v, _ := m.Pop()
	if v != value.Text("then") {
		t.Fatalf("expected then branch, got %v", v)
	}
}

func TestRepeatLoopsUntilConditionFalse(t *testing.T) {
	m := runtime.New()
	count := 0
	loopBody := &countingBody{count: &count}
	r := NewRepeat(loopBody)
	ctx := NewContext(nil)
	if err := r.Exec(ctx, m); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected loop to run 3 times, got %d", count)
	}
}

// countingBody is a hand-written Instruction (not compiled from a Tree)
// used to drive TestRepeatLoopsUntilConditionFalse's continue condition
// without depending on the comparison-to-boolean cast chain.
type countingBody struct {
	base
	count *int
}

func (b *countingBody) Exec(ctx *Context, m *runtime.Memory) error {
	*b.count++
	m.Push(value.Boolean(*b.count < 3))
	return nil
}

func TestCaptureRedirectsConsoleToStack(t *testing.T) {
	m := runtime.New()
	capture := NewCapture(NewBlock(NewPushConst(value.Text("hello")), &Print{}))
	ctx := NewContext(nil)
	if err := capture.Exec(ctx, m); err != nil {
		t.Fatalf("capture: %v", err)
	}
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Text("hello") {
		t.Fatalf("expected captured console \"hello\", got %v", v)
	}
}

func TestBlockSequencesOperandProducingChildren(t *testing.T) {
	// Mirrors how the directive package lowers a binary operator:
	// NewBlock(left, right, emit()) — each child must see the operand
	// stack its predecessor left behind, not a fresh empty frame (a Block
	// only isolates a Frame where an instruction explicitly asks for one,
	// e.g. Capture or a loop body).
	m := runtime.New()
	block := NewBlock(&PushConst{Value: value.Number(1)}, &PushConst{Value: value.Number(2)}, &Sum{})
	ctx := NewContext(nil)
	if err := block.Exec(ctx, m); err != nil {
		t.Fatalf("block exec: %v", err)
	}
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Number(3) {
		t.Fatalf("expected 3, got %v", v)
	}
}

func TestBlockNestedChildrenShareOperandStack(t *testing.T) {
	// A nested Block (e.g. the left operand of a binary expression being
	// itself a compiled sub-expression) must leave its result on the same
	// stack the outer Block's later children consume.
	m := runtime.New()
	left := NewBlock(&PushConst{Value: value.Number(2)}, &PushConst{Value: value.Number(3)}, &Multiply{})
	outer := NewBlock(left, &PushConst{Value: value.Number(1)}, &Sum{})
	ctx := NewContext(nil)
	if err := outer.Exec(ctx, m); err != nil {
		t.Fatalf("block exec: %v", err)
	}
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Number(7) {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestRaiseHaltsWithExecutionError(t *testing.T) {
	m := runtime.New()
	ctx := NewContext(nil)
	err := (&Raise{}).Exec(ctx, m)
	if err == nil {
		t.Fatalf("expected an error from an empty stack, got nil")
	}
	m.Push(value.Text("boom"))
	if err := (&Raise{}).Exec(ctx, m); err == nil {
		t.Fatalf("expected Raise to return an error")
	} else if ctx.Stderr.String() != "boom" {
		t.Fatalf("expected Raise to also write to Stderr, got %q", ctx.Stderr.String())
	}
}

func TestGetPutStruct(t *testing.T) {
	m := runtime.New()
	obj := value.NewObject(value.NewPair(value.Text("x"), value.Number(1)))
	run(t, m,
		&PushConst{Value: obj}, &PushConst{Value: value.Text("x")}, &PushConst{Value: value.Number(9)}, &Put{},
	)
	updated, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	run(t, m, &PushConst{Value: updated}, &PushConst{Value: value.Text("x")}, &Get{})
	v, err := m.Pop()
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if v != value.Number(9) {
		t.Fatalf("expected x=9 after Put, got %v", v)
	}
}
