package directive

import (
	"testing"

	"jamplate/internal/compilation"
	"jamplate/internal/docsource"
	"jamplate/internal/runtime"
	"jamplate/internal/spec"
)

// render runs src through the full five-action pipeline with the builtin
// Root() catalog and returns the root frame's rendered console — the
// spec.md §6 "console contract" — plus whether every action succeeded.
func render(t *testing.T, src string) (string, bool) {
	t.Helper()
	env := compilation.NewEnvironment()
	u := spec.NewUnit(env, Root())
	doc := docsource.NewPseudo("t", src)

	comp, _ := u.Initialize(doc)
	if !u.Parse(comp) {
		t.Logf("parse diagnostics: %s", u.Diagnostic(comp))
		return "", false
	}
	if !u.Analyze(comp) {
		t.Logf("analyze diagnostics: %s", u.Diagnostic(comp))
		return "", false
	}
	instr, ok := u.Compile(comp)
	if !ok {
		t.Logf("compile diagnostics: %s", u.Diagnostic(comp))
		return "", false
	}
	mem := runtime.New()
	ok = u.Execute(comp, instr, mem)
	if !ok {
		t.Logf("execute diagnostics: %s", u.Diagnostic(comp))
	}
	return mem.Root().Console(), ok
}

// The following scenarios are spec.md §8's literal end-to-end test
// inputs, reproduced verbatim against the full builtin catalog.

func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, ok := render(t, "1 + 2 * (3 + 5)")
	if !ok {
		t.Fatalf("pipeline failed")
	}
	if out != "17" {
		t.Fatalf("expected %q, got %q", "17", out)
	}
}

func TestScenarioTripleNegation(t *testing.T) {
	out, ok := render(t, "!!!false + !!!true")
	if !ok {
		t.Fatalf("pipeline failed")
	}
	if out != "truefalse" {
		t.Fatalf("expected %q, got %q", "truefalse", out)
	}
}

func TestScenarioComparison(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"5>3", "true"},
		{"3>5", "false"},
		{"3>3", "false"},
	}
	for _, c := range cases {
		out, ok := render(t, c.src)
		if !ok {
			t.Fatalf("%s: pipeline failed", c.src)
		}
		if out != c.want {
			t.Fatalf("%s: expected %q, got %q", c.src, c.want, out)
		}
	}
}

func TestScenarioForLoop(t *testing.T) {
	out, ok := render(t, "#for X [1,2,3]\nx=#{X}#\n#endfor")
	if !ok {
		t.Fatalf("pipeline failed")
	}
	if out != "x=1\nx=2\nx=3\n" {
		t.Fatalf("expected %q, got %q", "x=1\nx=2\nx=3\n", out)
	}
}

func TestScenarioDeclareObjectMember(t *testing.T) {
	out, ok := render(t, "#declare A {k:'v'}\n#{A.k}#")
	if !ok {
		t.Fatalf("pipeline failed")
	}
	if out != "v" {
		t.Fatalf("expected %q, got %q", "v", out)
	}
}

func TestErrorDirectiveHaltsExecution(t *testing.T) {
	out, ok := render(t, "before\n#error boom\nafter")
	if ok {
		t.Fatalf("expected #error to halt execution")
	}
	if out != "before\n" {
		t.Fatalf("expected console to stop at the #error, got %q", out)
	}
}

func TestMessageDirectiveDoesNotHaltExecution(t *testing.T) {
	out, ok := render(t, "before\n#message note\nafter")
	if !ok {
		t.Fatalf("expected #message to let execution continue")
	}
	if out != "before\nafter" {
		t.Fatalf("expected both literal spans rendered, got %q", out)
	}
}

func TestScenarioCapture(t *testing.T) {
	out, ok := render(t, "#capture X\nhello\n#endcapture\n#{X}#")
	if !ok {
		t.Fatalf("pipeline failed")
	}
	if out != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", out)
	}
}
