// Package spec implements spec.md §4.7's Spec composition and Unit
// driver: a Spec contributes one Parser/Analyzer/Compiler/Initializer
// plus pre-analyze/pre-compile processors and an ordered list of
// sub-specs, and the Unit drives the five pipeline actions over an
// Environment.
package spec

import (
	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/parsing"
	"jamplate/internal/tree"
)

// Spec is a composable contribution to every pipeline phase. Every field
// is optional; Subs lets one Spec (e.g. "the #if family") bundle several
// narrower Specs (the #if/#elseif/#else/#endif directives themselves).
type Spec struct {
	Initializer func(comp *compilation.Compilation)
	Parser      parsing.Parser
	Analyzer    analysis.Analyzer
	Compiler    compiling.Compiler
	PreAnalyze  func(comp *compilation.Compilation)
	PreCompile  func(comp *compilation.Compilation)
	Subs        []*Spec
}

// Composition is ordered-fallback everywhere (spec.md §4.7): a Spec's own
// contribution runs first; a sub-spec is only consulted if the Spec's own
// contribution for that phase was absent or produced nothing. This is
// the literal First semantics spec.md §4.5 states for Compiler, extended
// uniformly to every other phase.

type fallbackParser struct{ spec *Spec }

func (f fallbackParser) Parse(comp *compilation.Compilation, t tree.Tree) []tree.Tree {
	if f.spec.Parser != nil {
		if out := f.spec.Parser.Parse(comp, t); len(out) > 0 {
			return out
		}
	}
	for _, sub := range f.spec.Subs {
		if out := EffectiveParser(sub).Parse(comp, t); len(out) > 0 {
			return out
		}
	}
	return nil
}

// EffectiveParser returns s's fallback-composed Parser.
func EffectiveParser(s *Spec) parsing.Parser { return fallbackParser{spec: s} }

type fallbackAnalyzer struct{ spec *Spec }

func (f fallbackAnalyzer) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if f.spec.Analyzer != nil && f.spec.Analyzer.Analyze(comp, t) {
		return true
	}
	for _, sub := range f.spec.Subs {
		if EffectiveAnalyzer(sub).Analyze(comp, t) {
			return true
		}
	}
	return false
}

// EffectiveAnalyzer returns s's fallback-composed Analyzer.
func EffectiveAnalyzer(s *Spec) analysis.Analyzer { return fallbackAnalyzer{spec: s} }

// EffectiveCompiler returns s's fallback-composed Compiler: its own
// Compiler first, then each sub-spec's effective Compiler in order —
// exactly the First combinator applied over [s.Compiler, subs...].
func EffectiveCompiler(s *Spec) compiling.Compiler {
	return func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if s.Compiler != nil {
			if instr := s.Compiler(root, comp, t); instr != nil {
				return instr
			}
		}
		for _, sub := range s.Subs {
			if instr := EffectiveCompiler(sub)(root, comp, t); instr != nil {
				return instr
			}
		}
		return nil
	}
}

// EffectiveInitializer returns s's own Initializer, or the first sub's
// effective Initializer that is non-nil.
func EffectiveInitializer(s *Spec) func(comp *compilation.Compilation) {
	if s.Initializer != nil {
		return s.Initializer
	}
	for _, sub := range s.Subs {
		if init := EffectiveInitializer(sub); init != nil {
			return init
		}
	}
	return nil
}

// EffectivePreAnalyze returns s's own PreAnalyze processor, or the first
// sub's that is non-nil.
func EffectivePreAnalyze(s *Spec) func(comp *compilation.Compilation) {
	if s.PreAnalyze != nil {
		return s.PreAnalyze
	}
	for _, sub := range s.Subs {
		if p := EffectivePreAnalyze(sub); p != nil {
			return p
		}
	}
	return nil
}

// EffectivePreCompile returns s's own PreCompile processor, or the first
// sub's that is non-nil.
func EffectivePreCompile(s *Spec) func(comp *compilation.Compilation) {
	if s.PreCompile != nil {
		return s.PreCompile
	}
	for _, sub := range s.Subs {
		if p := EffectivePreCompile(sub); p != nil {
			return p
		}
	}
	return nil
}
