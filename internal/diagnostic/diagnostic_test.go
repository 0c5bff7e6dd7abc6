package diagnostic

import (
	"strings"
	"testing"

	"jamplate/internal/docsource"
	"jamplate/internal/region"
)

func TestNewComputesLineAndColumn(t *testing.T) {
	doc := docsource.NewPseudo("t", "ab\ncd\nef")
	ref := region.NewReference(6, 1) // 'e', third line, first column

	d := New(ParseError, "bad token", doc, ref)

	if d.Location.Line != 3 {
		t.Fatalf("expected line 3, got %d", d.Location.Line)
	}
	if d.Location.Column != 1 {
		t.Fatalf("expected column 1, got %d", d.Location.Column)
	}
}

func TestNewWithNilDocumentDefaultsToOrigin(t *testing.T) {
	ref := region.NewReference(0, 0)
	d := New(Info, "no document", nil, ref)

	if d.Location.Line != 1 || d.Location.Column != 1 {
		t.Fatalf("expected 1:1, got %d:%d", d.Location.Line, d.Location.Column)
	}
	if !strings.HasPrefix(d.Error(), "Info: no document\n") {
		t.Fatalf("unexpected Error() output: %q", d.Error())
	}
}

func TestErrorRendersCaretUnderColumn(t *testing.T) {
	doc := docsource.NewPseudo("t", "x = y")
	ref := region.NewReference(4, 1)
	d := New(CompileError, "undefined name", doc, ref).WithSource("x = y")

	out := d.Error()
	if !strings.Contains(out, "x = y") {
		t.Fatalf("expected source line in output, got %q", out)
	}
	lines := strings.Split(out, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	if caretLine == "" {
		t.Fatalf("expected a caret line, got %q", out)
	}
	if strings.Index(caretLine, "^") == 0 {
		t.Fatalf("caret should be indented past the line-number gutter, got %q", caretLine)
	}
}

func TestSinkHasErrorsIgnoresInfo(t *testing.T) {
	sink := NewSink()
	doc := docsource.NewPseudo("t", "")
	ref := region.NewReference(0, 0)

	sink.Report(New(Info, "just fyi", doc, ref))
	if sink.HasErrors() {
		t.Fatalf("Info-only sink should not report HasErrors")
	}

	sink.Report(New(ParseError, "broke", doc, ref))
	if !sink.HasErrors() {
		t.Fatalf("expected HasErrors once a non-Info entry is reported")
	}
	if len(sink.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sink.Entries()))
	}
}

func TestSinkStringConcatenatesEntries(t *testing.T) {
	sink := NewSink()
	doc := docsource.NewPseudo("t", "")
	ref := region.NewReference(0, 0)
	sink.Report(New(ParseError, "first", doc, ref))
	sink.Report(New(CompileError, "second", doc, ref))

	out := sink.String()
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected both messages present, got %q", out)
	}
}
