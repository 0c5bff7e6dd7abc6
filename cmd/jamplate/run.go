package main

import (
	"fmt"
	"os"
	"path/filepath"

	"jamplate/internal/compilation"
	"jamplate/internal/directive"
	"jamplate/internal/docsource"
	"jamplate/internal/region"
	"jamplate/internal/runtime"
	"jamplate/internal/spec"
	"jamplate/internal/tree"
)

// flags is the hand-rolled os.Args parser spec.md's expanded §4.10
// calls for: no flags library appears anywhere in the retrieved corpus
// as a direct import, so this follows the teacher's pattern of scanning
// args by hand (cmd/sentra/main.go's run command filters optimization
// flags out of its args the same way).
type flags struct {
	output    string
	trace     bool
	searchDir string
	file      string
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a path argument", args[i])
			}
			i++
			f.output = args[i]
		case "--trace":
			f.trace = true
		case "--search-dir":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("--search-dir requires a directory argument")
			}
			i++
			f.searchDir = args[i]
		default:
			if f.file != "" {
				return nil, fmt.Errorf("unexpected extra argument %q", args[i])
			}
			f.file = args[i]
		}
	}
	return f, nil
}

func (f *flags) resolvedPath() string {
	if f.searchDir == "" || filepath.IsAbs(f.file) {
		return f.file
	}
	return filepath.Join(f.searchDir, f.file)
}

func newUnit() *spec.Unit {
	return spec.NewUnit(compilation.NewEnvironment(), directive.Root())
}

// pipeline runs every action through Execute, stopping at the first
// failing stage (spec.md §7: compile/execute failures are global to the
// action). Once Execute has run it returns the root frame's console — the
// rendered document, per spec.md §6 — whether or not execution succeeded,
// so callers can inspect partial output alongside the diagnostic report;
// if parse, analyze or compile fails it returns an empty console and a
// nil Memory.
func pipeline(u *spec.Unit, comp *compilation.Compilation) (console string, mem *runtime.Memory, ok bool) {
	if !u.Parse(comp) {
		return "", nil, false
	}
	if !u.Analyze(comp) {
		return "", nil, false
	}
	instr, ok := u.Compile(comp)
	if !ok {
		return "", nil, false
	}
	mem = runtime.New()
	success := u.Execute(comp, instr, mem)
	return mem.Root().Console(), mem, success
}

func loadDocument(path string) (region.Document, error) {
	doc, err := docsource.NewFile(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func runCommand(args []string) {
	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if f.file == "" {
		fmt.Fprintln(os.Stderr, "Error: run requires a file argument")
		os.Exit(1)
	}

	doc, err := loadDocument(f.resolvedPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	u := newUnit()
	if f.trace {
		spec.AttachTrace(u, os.Stderr)
	}
	comp, _ := u.Initialize(doc)

	console, _, ok := pipeline(u, comp)
	if report := u.Diagnostic(comp); report != "" {
		fmt.Fprint(os.Stderr, report)
	}

	if f.output != "" {
		if err := os.WriteFile(f.output, []byte(console), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not write %s: %v\n", f.output, err)
			os.Exit(1)
		}
	} else {
		fmt.Print(console)
	}

	if !ok {
		os.Exit(1)
	}
}

// tokensCommand dumps the parsed/analyzed tree for debugging, grounded
// on the teacher's "debug" command family (check/lint both parse a file
// and report on its structure rather than running it).
func tokensCommand(args []string) {
	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if f.file == "" {
		fmt.Fprintln(os.Stderr, "Error: tokens requires a file argument")
		os.Exit(1)
	}

	doc, err := loadDocument(f.resolvedPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	u := newUnit()
	if f.trace {
		spec.AttachTrace(u, os.Stderr)
	}
	comp, _ := u.Initialize(doc)
	u.Parse(comp)
	u.Analyze(comp)

	dumpTree(os.Stdout, comp.Root(), 0)

	if report := u.Diagnostic(comp); report != "" {
		fmt.Fprint(os.Stderr, report)
	}
}

func dumpTree(w *os.File, t tree.Tree, depth int) {
	kind := t.Sketch().Kind()
	if kind == "" {
		kind = "(unnamed)"
	}
	fmt.Fprintf(w, "%*s[%d,%d) %s\n", depth*2, "", t.Reference().Position(), t.Reference().End(), kind)
	for _, child := range t.Children() {
		dumpTree(w, child, depth+1)
	}
}
