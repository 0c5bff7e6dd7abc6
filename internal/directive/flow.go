package directive

import (
	"regexp"

	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/parsing"
	"jamplate/internal/region"
	"jamplate/internal/runtime"
	"jamplate/internal/spec"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

var namePattern = `[A-Za-z_][A-Za-z0-9_]*`

// --- #if / #elif / #else / #endif ---

// Trailing `\n?` on every line-anchored directive pattern below folds the
// directive's own line terminator into its matched span, so the literal
// text surrounding it (emitted verbatim by compileChildrenWithLiterals)
// doesn't carry a stray blank line where the directive used to sit.
var ifStartPattern = regexp.MustCompile(`#if\b(?P<cond>[^\n]*)\n?`)

var ifStartSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  ifStartPattern,
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:if-start") },
	},
}

var elifSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  regexp.MustCompile(`#elif\b(?P<cond>[^\n]*)\n?`),
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:elif") },
	},
}

var elseSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(`#else\b\n?`),
		Weight:  4,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("directive:else") },
	},
}

var endifSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(`#endif\b\n?`),
		Weight:  4,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("directive:endif") },
	},
}

// ifBranchSplit turns a wrapped "directive:if" tree's body into a "then"
// slot plus, if present, an "otherwise" slot: a plain body tail for
// #else, or a synthetic nested "directive:if" tree for #elif — the same
// tree this Compiler already knows how to lower, so an #elif chain of
// any length compiles by recursing through the ordinary #if Compiler.
type ifBranchSplit struct{}

func (ifBranchSplit) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if t.Sketch().Kind() != "directive:if" {
		return false
	}
	if _, already := t.Sketch().ComponentTree("then"); already {
		return false
	}
	body, ok := t.Sketch().ComponentTree("body")
	if !ok {
		return false
	}
	if _, hasCond := t.Sketch().ComponentTree("cond"); !hasCond {
		start, ok := t.Sketch().ComponentTree("start")
		if !ok {
			return false
		}
		cond, ok := start.Sketch().ComponentTree("cond")
		if !ok {
			return false
		}
		t.Sketch().SetComponentTree("cond", cond)
	}

	var marker tree.Tree
	found := false
	for _, c := range body.Children() {
		if c.Sketch().Is("directive:else") || c.Sketch().Is("directive:elif") {
			marker = c
			found = true
			break
		}
	}

	bodyRef := body.Reference()
	if !found {
		// No #else/#elif: the whole body is the then-branch, so body
		// itself is reused directly rather than wrapped in a same-span
		// slot tree (would collide exactly with body, see slotTrees in
		// collections.go for the same situation with array/object bodies).
		t.Sketch().SetComponentTree("then", body)
		return true
	}

	thenRef := region.NewReference(bodyRef.Position(), marker.Head()-bodyRef.Position())
	thenTree := tree.New(body.Arena(), body.Document(), thenRef, slotWeight)
	if err := tree.Offer(body, thenTree); err != nil {
		return false
	}
	t.Sketch().SetComponentTree("then", thenTree)

	if marker.Sketch().Is("directive:else") {
		otherRef := region.NewReference(marker.Tail(), bodyRef.End()-marker.Tail())
		otherTree := tree.New(body.Arena(), body.Document(), otherRef, slotWeight)
		if err := tree.Offer(body, otherTree); err == nil {
			t.Sketch().SetComponentTree("otherwise", otherTree)
		}
		return true
	}

	elifCond, ok := marker.Sketch().ComponentTree("cond")
	if !ok {
		return true
	}
	nestedRef := region.NewReference(marker.Head(), bodyRef.End()-marker.Head())
	nested := tree.New(body.Arena(), body.Document(), nestedRef, slotWeight)
	nested.Sketch().SetKind("directive:if")
	nested.Sketch().SetComponentTree("cond", elifCond)
	nestedBodyRef := region.NewReference(marker.Tail(), bodyRef.End()-marker.Tail())
	nestedBody := tree.New(body.Arena(), body.Document(), nestedBodyRef, slotWeight)
	nested.Sketch().SetComponentTree("body", nestedBody)
	if err := tree.Offer(body, nested); err != nil {
		return true
	}
	_ = tree.Offer(nested, nestedBody)
	t.Sketch().SetComponentTree("otherwise", nested)
	return true
}

func compileIf(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	if t.Sketch().Kind() != "directive:if" {
		return nil
	}
	cond, hasCond := t.Sketch().ComponentTree("cond")
	then, hasThen := t.Sketch().ComponentTree("then")
	if !hasCond || !hasThen {
		return &instruction.Idle{}
	}
	thenInstr := compileChildrenWithLiterals(root, comp, then)
	var elseInstr instruction.Instruction = &instruction.Idle{}
	if otherwise, ok := t.Sketch().ComponentTree("otherwise"); ok {
		if otherwise.Sketch().Kind() == "directive:if" {
			elseInstr = compileIf(root, comp, otherwise)
		} else {
			elseInstr = compileChildrenWithLiterals(root, comp, otherwise)
		}
	}
	return instruction.NewBlock(
		compileExpr(root, comp, cond),
		&instruction.CastBoolean{},
		instruction.NewBranch(thenInstr, elseInstr),
	)
}

var ifSpec = &spec.Spec{
	Analyzer: analysis.Hierarchy{Inner: analyzerFunc(func(comp *compilation.Compilation, t tree.Tree) bool {
		flow := analysis.BinaryFlow{
			StartQuery: analysis.Is("directive:if-start"),
			EndQuery:   analysis.Is("directive:endif"),
			WrapCtor:   func(w tree.Tree) { w.Sketch().SetKind("directive:if") },
		}
		if flow.Analyze(comp, t) {
			return true
		}
		return ifBranchSplit{}.Analyze(comp, t)
	})},
	Compiler: compileIf,
	Subs:     []*spec.Spec{ifStartSpec, elifSpec, elseSpec, endifSpec},
}

// --- #for / #endfor ---

var forStartPattern = regexp.MustCompile(`#for\b\s*(?P<var>` + namePattern + `)(?P<iter>[^\n]*)\n?`)

var forStartSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  forStartPattern,
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:for-start") },
	},
}

var endforSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(`#endfor\b\n?`),
		Weight:  4,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("directive:endfor") },
	},
}

// forLoop pops an Array, running Body once per element under its own
// Frame with Var bound to that element — the #for counterpart to a
// core-set Repeat, local to this package since nothing lower-level binds
// a fresh heap name per iteration of an externally supplied Array.
type forLoop struct {
	Var  string
	Body instruction.Instruction
}

func (forLoop) Source() tree.Tree { return tree.Zero }

func (f forLoop) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return instruction.ErrTypeMismatch
	}
	for _, el := range arr.Elements {
		m.PushFrame()
		m.Set(f.Var, el)
		if err := f.Body.Exec(ctx, m); err != nil {
			return err
		}
		if err := m.DumpFrame(); err != nil {
			return err
		}
	}
	return nil
}

var forSpec = &spec.Spec{
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("directive:for-start"),
		Inner: analysis.BinaryFlow{
			StartQuery: analysis.Is("directive:for-start"),
			EndQuery:   analysis.Is("directive:endfor"),
			WrapCtor:   func(w tree.Tree) { w.Sketch().SetKind("directive:for") },
		},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "directive:for" {
			return nil
		}
		start, ok := t.Sketch().ComponentTree("start")
		if !ok {
			return &instruction.Idle{}
		}
		varName, ok := start.Sketch().ComponentTree("var")
		iter, hasIter := start.Sketch().ComponentTree("iter")
		body, hasBody := t.Sketch().ComponentTree("body")
		if !ok || !hasIter || !hasBody {
			return &instruction.Idle{}
		}
		bodyInstr := compileChildrenWithLiterals(root, comp, body)
		return instruction.NewBlock(
			compileExpr(root, comp, iter),
			&instruction.CastArray{},
			forLoop{Var: rawText(varName), Body: bodyInstr},
		)
	},
	Subs: []*spec.Spec{forStartSpec, endforSpec},
}

// --- #while / #endwhile ---

var whileStartPattern = regexp.MustCompile(`#while\b(?P<cond>[^\n]*)\n?`)

var whileStartSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  whileStartPattern,
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:while-start") },
	},
}

var endwhileSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(`#endwhile\b\n?`),
		Weight:  4,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("directive:endwhile") },
	},
}

var whileSpec = &spec.Spec{
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("directive:while-start"),
		Inner: analysis.BinaryFlow{
			StartQuery: analysis.Is("directive:while-start"),
			EndQuery:   analysis.Is("directive:endwhile"),
			WrapCtor:   func(w tree.Tree) { w.Sketch().SetKind("directive:while") },
		},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "directive:while" {
			return nil
		}
		start, ok := t.Sketch().ComponentTree("start")
		if !ok {
			return &instruction.Idle{}
		}
		cond, hasCond := start.Sketch().ComponentTree("cond")
		body, hasBody := t.Sketch().ComponentTree("body")
		if !hasCond || !hasBody {
			return &instruction.Idle{}
		}
		condInstr := compileExpr(root, comp, cond)
		bodyInstr := compileChildrenWithLiterals(root, comp, body)
		// Pre-test: check once before entering, then Repeat re-checks at
		// the tail of every iteration (Repeat itself is do-while shaped).
		loop := instruction.NewRepeat(instruction.NewBlock(bodyInstr, condInstr, &instruction.CastBoolean{}))
		return instruction.NewBlock(
			condInstr,
			&instruction.CastBoolean{},
			instruction.NewBranch(loop, &instruction.Idle{}),
		)
	},
	Subs: []*spec.Spec{whileStartSpec, endwhileSpec},
}

// --- #capture / #endcapture ---

var captureStartPattern = regexp.MustCompile(`#capture\b\s*(?P<name>` + namePattern + `)\n?`)

var captureStartSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  captureStartPattern,
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:capture-start") },
	},
}

var endcaptureSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(`#endcapture\b\n?`),
		Weight:  4,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("directive:endcapture") },
	},
}

var captureSpec = &spec.Spec{
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("directive:capture-start"),
		Inner: analysis.BinaryFlow{
			StartQuery: analysis.Is("directive:capture-start"),
			EndQuery:   analysis.Is("directive:endcapture"),
			WrapCtor:   func(w tree.Tree) { w.Sketch().SetKind("directive:capture") },
		},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "directive:capture" {
			return nil
		}
		start, ok := t.Sketch().ComponentTree("start")
		if !ok {
			return &instruction.Idle{}
		}
		name, ok := start.Sketch().ComponentTree("name")
		body, hasBody := t.Sketch().ComponentTree("body")
		if !ok || !hasBody {
			return &instruction.Idle{}
		}
		bodyInstr := compileChildrenWithLiterals(root, comp, body)
		return instruction.NewBlock(
			instruction.NewPushConst(value.Text(rawText(name))),
			instruction.NewCapture(bodyInstr),
			&instruction.Alloc{},
		)
	},
	Subs: []*spec.Spec{captureStartSpec, endcaptureSpec},
}

// --- single-line statement directives ---

// declareOrDefine compiles "#declare name value" / "#define name value":
// push name, compile value, bind — Alloc for #declare (global, spec.md
// §5's root-frame binding), Set for #define (current frame only).
func declareOrDefine(kind string, bind instruction.Instruction) *spec.Spec {
	return &spec.Spec{
		Parser: &parsing.Pattern{
			Regex:  regexp.MustCompile(`#` + kind[len("directive:"):] + `\b\s*(?P<name>` + namePattern + `)(?P<value>[^\n]*)\n?`),
			Weight: 4,
			Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind(kind) },
		},
		Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
			if t.Sketch().Kind() != kind {
				return nil
			}
			name, ok := t.Sketch().ComponentTree("name")
			val, hasVal := t.Sketch().ComponentTree("value")
			if !ok || !hasVal {
				return &instruction.Idle{}
			}
			return instruction.NewBlock(
				instruction.NewPushConst(value.Text(rawText(name))),
				compileExpr(root, comp, val),
				bind,
			)
		},
	}
}

var declareSpec = declareOrDefine("directive:declare", &instruction.Alloc{})
var makeSpec = declareOrDefine("directive:make", &instruction.Alloc{})
var defineSpec = declareOrDefine("directive:define", &instruction.Set{})

// singleLineExprDirective compiles "#name expr" to compileExpr(expr)
// followed by emit — the shape #error/#message/#console/#spread share.
func singleLineExprDirective(name, kind string, emit func() instruction.Instruction) *spec.Spec {
	return &spec.Spec{
		Parser: &parsing.Pattern{
			Regex:  regexp.MustCompile(`#` + name + `\b(?P<expr>[^\n]*)\n?`),
			Weight: 4,
			Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind(kind) },
		},
		Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
			if t.Sketch().Kind() != kind {
				return nil
			}
			expr, ok := t.Sketch().ComponentTree("expr")
			if !ok {
				return &instruction.Idle{}
			}
			return instruction.NewBlock(compileExpr(root, comp, expr), emit())
		},
	}
}

// #error halts the run with an ExecutionError (spec.md §7); #message only
// reports to the diagnostic stream and lets execution continue — the two
// names would otherwise be indistinguishable.
var errorSpec = singleLineExprDirective("error", "directive:error", func() instruction.Instruction {
	return instruction.NewBlock(&instruction.CastText{}, &instruction.Raise{})
})

var messageSpec = singleLineExprDirective("message", "directive:message", func() instruction.Instruction {
	return instruction.NewBlock(&instruction.CastText{}, &instruction.Serr{})
})

var consoleSpec = singleLineExprDirective("console", "directive:console", func() instruction.Instruction {
	return instruction.NewBlock(&instruction.CastText{}, &instruction.Print{})
})

// spread compiles its expression to an Array and splits it onto the
// operand stack: useful nested inside a collection literal's slot, a
// no-op (its pushed elements are simply discarded) as a bare statement.
var spreadSpec = singleLineExprDirective("spread", "directive:spread", func() instruction.Instruction {
	return instruction.NewBlock(&instruction.CastArray{}, &instruction.Split{})
})

var includeSpec = &spec.Spec{
	Parser: &parsing.Pattern{
		Regex:  regexp.MustCompile(`#include\b(?P<path>[^\n]*)\n?`),
		Weight: 4,
		Ctor:   func(t tree.Tree, s string) { t.Sketch().SetKind("directive:include") },
	},
	// Resolving and re-parsing another document is a CLI/docsource
	// collaborator's job, not the compiler's — recognized syntactically
	// so it doesn't leak into surrounding text, compiled to nothing.
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "directive:include" {
			return nil
		}
		return &instruction.Idle{}
	},
}

// --- #{ ... }# injection ---

var injectionSpec = &spec.Spec{
	Parser: &parsing.DoublePattern{
		Open:   regexp.MustCompile(`#\{`),
		Close:  regexp.MustCompile(`\}#`),
		Weight: 4,
		Ctor:   func(t tree.Tree) { t.Sketch().SetKind("directive:injection") },
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "directive:injection" {
			return nil
		}
		body, ok := t.Sketch().ComponentTree("body")
		if !ok {
			return &instruction.Idle{}
		}
		return instruction.NewBlock(compileExpr(root, comp, body), &instruction.CastText{}, &instruction.Print{})
	},
}
