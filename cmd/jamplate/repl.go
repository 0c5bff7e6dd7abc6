package main

import (
	"bufio"
	"fmt"
	"os"

	"jamplate/internal/docsource"
)

// startREPL is grounded on the teacher's internal/repl/repl.go: a
// bufio.Scanner line loop, re-lexing/re-parsing/re-compiling each line
// from scratch rather than incrementally (Jamplate has no incremental
// reparsing, per spec.md §1's Non-goals). Unlike the teacher, each line
// gets a fresh Unit and Environment: Jamplate's Memory has no notion of
// "the same VM instance" to reset a chunk into, since heap state lives
// on runtime.Frame, not on the Unit.
func startREPL() {
	fmt.Println("Jamplate REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)

	for line := 1; ; line++ {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		text := scanner.Text()
		if text == "exit" {
			break
		}
		if text == "" {
			continue
		}

		u := newUnit()
		doc := docsource.NewPseudo(fmt.Sprintf("<repl:%d>", line), text)
		comp, _ := u.Initialize(doc)

		console, _, ok := pipeline(u, comp)
		if console != "" {
			fmt.Print(console)
			if console[len(console)-1] != '\n' {
				fmt.Println()
			}
		}
		if !ok {
			fmt.Fprint(os.Stderr, u.Diagnostic(comp))
		}
	}
}
