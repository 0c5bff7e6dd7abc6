// Package compiling implements spec.md §4.5's Compiler framework: a
// Compiler lowers one annotated Tree to an optional Instruction, and the
// combinators here (Filter, First, Combine, Flatten, Fallback) compose
// many Compilers — one per Spec — into the single dispatcher a Unit
// drives.
package compiling

import (
	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/instruction"
	"jamplate/internal/tree"
)

// Compiler is "(rootCompiler, Compilation, Tree) -> Option<Instruction>"
// (spec.md §4.5), passed its own root dispatcher so nested combinators
// (Flatten, Fallback) can re-enter the top level instead of only ever
// calling themselves.
type Compiler func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction

// Filter only invokes Inner when t matches Query.
func Filter(inner Compiler, query analysis.Query) Compiler {
	return func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if !query(t) {
			return nil
		}
		return inner(root, comp, t)
	}
}

// First returns the first non-nil result among cs, in order.
func First(cs ...Compiler) Compiler {
	return func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		for _, c := range cs {
			if instr := c(root, comp, t); instr != nil {
				return instr
			}
		}
		return nil
	}
}

// Combine runs every c and emits a Block of every non-nil result.
func Combine(cs ...Compiler) Compiler {
	return func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		var children []instruction.Instruction
		for _, c := range cs {
			if instr := c(root, comp, t); instr != nil {
				children = append(children, instr)
			}
		}
		if len(children) == 0 {
			return nil
		}
		return instruction.NewBlock(children...)
	}
}

// Flatten applies Inner to each direct child of t (not t itself) and
// returns their Block — "compile the body with the outer dispatcher".
func Flatten(inner Compiler) Compiler {
	return func(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		var children []instruction.Instruction
		for _, c := range t.Children() {
			if instr := inner(root, comp, c); instr != nil {
				children = append(children, instr)
			}
		}
		if len(children) == 0 {
			return nil
		}
		return instruction.NewBlock(children...)
	}
}

// Fallback re-enters the root dispatcher — used inside nested
// Flatten/First chains so a sub-compiler can hand an unrecognized Tree
// back to the top level instead of failing outright.
func Fallback(root Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	return root(root, comp, t)
}
