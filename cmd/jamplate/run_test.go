package main

import "testing"

func TestParseFlagsFile(t *testing.T) {
	f, err := parseFlags([]string{"doc.jpl"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.file != "doc.jpl" || f.output != "" || f.trace || f.searchDir != "" {
		t.Fatalf("unexpected flags: %+v", f)
	}
}

func TestParseFlagsAllOptions(t *testing.T) {
	f, err := parseFlags([]string{"--search-dir", "src", "-o", "out.txt", "--trace", "doc.jpl"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if f.file != "doc.jpl" {
		t.Fatalf("expected file %q, got %q", "doc.jpl", f.file)
	}
	if f.output != "out.txt" {
		t.Fatalf("expected output %q, got %q", "out.txt", f.output)
	}
	if !f.trace {
		t.Fatalf("expected trace to be set")
	}
	if f.searchDir != "src" {
		t.Fatalf("expected search dir %q, got %q", "src", f.searchDir)
	}
}

func TestParseFlagsMissingOutputArgument(t *testing.T) {
	if _, err := parseFlags([]string{"-o"}); err == nil {
		t.Fatalf("expected an error when -o has no following path")
	}
}

func TestParseFlagsRejectsExtraPositional(t *testing.T) {
	if _, err := parseFlags([]string{"a.jpl", "b.jpl"}); err == nil {
		t.Fatalf("expected an error for a second positional argument")
	}
}

func TestResolvedPathJoinsRelativeFileWithSearchDir(t *testing.T) {
	f := &flags{searchDir: "templates", file: "doc.jpl"}
	if got, want := f.resolvedPath(), "templates/doc.jpl"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolvedPathLeavesAbsoluteFileAlone(t *testing.T) {
	f := &flags{searchDir: "templates", file: "/etc/doc.jpl"}
	if got, want := f.resolvedPath(), "/etc/doc.jpl"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
