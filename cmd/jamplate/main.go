// cmd/jamplate/main.go
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

// commandAliases mirrors the teacher's cmd/sentra/main.go single-letter
// dispatch table.
var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"t": "tokens",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		showVersion()
	case "run":
		runCommand(args[1:])
	case "repl":
		startREPL()
	case "tokens":
		tokensCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("Jamplate - a template/preprocessor language toolchain")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  jamplate run <file>        Render a Jamplate document       (alias: r)")
	fmt.Println("  jamplate repl              Start an interactive REPL        (alias: i)")
	fmt.Println("  jamplate tokens <file>     Dump the parsed/analyzed tree    (alias: t)")
	fmt.Println()
	fmt.Println("Options for run/tokens:")
	fmt.Println("  -o <file>                 Write rendered output to <file> instead of stdout")
	fmt.Println("  --trace                   Print PRE_*/POST_* pipeline events to stderr")
	fmt.Println("  --search-dir <dir>        Directory a relative <file> path is resolved against")
	fmt.Println()
	fmt.Println("Help:")
	fmt.Println("  jamplate help              Show this message")
	fmt.Println("  jamplate --version         Show version")
}

func showVersion() {
	fmt.Printf("Jamplate %s\n", version)
}
