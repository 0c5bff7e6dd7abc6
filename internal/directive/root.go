package directive

import (
	"path"

	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/spec"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// containerCompiler handles any tree with no Sketch kind of its own: the
// document root, and any directive body that is reused directly rather
// than wrapped (see ifBranchSplit). Every other Spec's Compiler only
// claims trees carrying its own kind, so this one has to come last.
var containerCompiler = &spec.Spec{
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "" {
			return nil
		}
		body := compileChildrenWithLiterals(root, comp, t)
		if !(t == comp.Root()) {
			return body
		}
		return instruction.NewBlock(append(builtinSeeds(comp), body)...)
	},
}

// builtinSeeds pushes the document-derived constants spec.md §6 names
// (__FILE__/__PATH__/__DIR__/__LINE__) into the root frame's heap before
// anything else runs. Initializer only ever sees the Compilation, never
// a runtime.Memory, so seeding has to ride along in the compiled
// instruction stream instead.
func builtinSeeds(comp *compilation.Compilation) []instruction.Instruction {
	name := comp.Document().Name()
	seed := func(key string, v value.Value) instruction.Instruction {
		return instruction.NewBlock(instruction.NewPushConst(value.Text(key)), instruction.NewPushConst(v), &instruction.Alloc{})
	}
	return []instruction.Instruction{
		seed("__FILE__", value.Text(name)),
		seed("__PATH__", value.Text(name)),
		seed("__DIR__", value.Text(path.Dir(name))),
		seed("__LINE__", value.Number(1)),
	}
}

// eqNeCount is how many leading entries of operatorSpecs sit at or
// before the "!=" equality operator — mul, div, mod, add, sub, le, ge,
// lt, gt, eq, ne (see the ordering comment on operatorSpecs itself).
// notSpec's bare "!" Term has to be tried after "!=" or it would steal
// the "!" off the front of every "!=" it meets (the same reasoning
// operatorSpecs applies to "<=" vs "<"), so it is spliced in right after
// that point rather than listed as a normal entry.
const eqNeCount = 11

// Root assembles the full builtin catalog (spec.md §9) into one Spec.
// Subs order encodes two different things at once: parsing priority
// (symbols that are a prefix of another symbol must be tried after it,
// e.g. "=" after "=="/"!=", "!" after "!="; keyword directives before
// referenceSpec's bare-identifier fallback; injectionSpec's "#{" before
// objectSpec's bare "{") and, for the operator family, analysis binding
// order (operatorSpecs is already tightest-to-loosest; notSpec is
// spliced in right after equality so unary "!" still binds tighter than
// "&&"/"||" without contesting "!=").
func Root() *spec.Spec {
	subs := []*spec.Spec{
		commentSpec,
		numberSpec,
		stringSpec,
		booleanSpec,

		ifSpec,
		forSpec,
		whileSpec,
		captureSpec,
		declareSpec,
		makeSpec,
		defineSpec,
		errorSpec,
		messageSpec,
		consoleSpec,
		spreadSpec,
		includeSpec,

		injectionSpec,
		arraySpec,
		objectSpec,
		parenSpec,

		memberSpec,
	}
	subs = append(subs, operatorSpecs[:eqNeCount]...)
	subs = append(subs, notSpec)
	subs = append(subs, operatorSpecs[eqNeCount:]...)
	subs = append(subs, assignSpec, referenceSpec, containerCompiler)
	return &spec.Spec{Subs: subs}
}
