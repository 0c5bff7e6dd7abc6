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

// compareSign is a small directive-local Instruction lowering the
// relational operators from Compare's -1/0/+1 result — spec.md §4.6's
// "sum-of-comparison cast to Boolean is used for <,≤,≥,>" describes a
// composition, not a distinct core opcode, so it is implemented here
// rather than added to internal/instruction's set.
type compareSign struct {
	less, orEqual bool
}

func (compareSign) Source() tree.Tree { return tree.Zero }

func (c compareSign) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	n, ok := v.(value.Number)
	if !ok {
		return instruction.ErrTypeMismatch
	}
	var result bool
	switch {
	case c.less && c.orEqual:
		result = n <= 0
	case c.less && !c.orEqual:
		result = n < 0
	case !c.less && c.orEqual:
		result = n >= 0
	default:
		result = n > 0
	}
	m.Push(value.Boolean(result))
	return nil
}

// binarySpec wires one infix operator symbol end to end: a Term Parser
// for the literal symbol, a BinaryOperator Analyzer that wraps it with
// its neighbours (spec.md §4.4's left-associativity), and a Compiler
// that lowers the wrapper to [left, right, emit()].
func binarySpec(symbol, kind string, weight int32, emit func() instruction.Instruction) *spec.Spec {
	wrapKind := kind + ":wrap"
	return &spec.Spec{
		Parser: &parsing.Term{
			Pattern: regexp.MustCompile(regexp.QuoteMeta(symbol)),
			Weight:  weight,
			Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind(kind) },
		},
		Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
			Query: analysis.Is(kind),
			Inner: analysis.BinaryOperator{
				Query:    analysis.Is(kind),
				WrapCtor: func(w tree.Tree) { w.Sketch().SetKind(wrapKind) },
			},
		}},
		Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
			if t.Sketch().Kind() != wrapKind {
				return nil
			}
			left, _ := t.Sketch().ComponentTree("left")
			right, _ := t.Sketch().ComponentTree("right")
			return instruction.NewBlock(root(root, comp, left), root(root, comp, right), emit())
		},
	}
}

func relational(symbol, kind string, weight int32, less, orEqual bool) *spec.Spec {
	return binarySpec(symbol, kind, weight, func() instruction.Instruction {
		return instruction.NewBlock(&instruction.Compare{}, compareSign{less: less, orEqual: orEqual})
	})
}

func equality(symbol, kind string, weight int32, negate bool) *spec.Spec {
	return binarySpec(symbol, kind, weight, func() instruction.Instruction {
		return instruction.NewBlock(&instruction.Compare{}, equalityCheck{negate: negate})
	})
}

// equalityCheck reads Compare's -1/0/+1 result as equal-or-not, the
// zero case rather than compareSign's sign case.
type equalityCheck struct{ negate bool }

func (equalityCheck) Source() tree.Tree { return tree.Zero }

func (e equalityCheck) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	n, ok := v.(value.Number)
	if !ok {
		return instruction.ErrTypeMismatch
	}
	result := n == 0
	if e.negate {
		result = !result
	}
	m.Push(value.Boolean(result))
	return nil
}

// operatorSpecs lists every operator Spec in BINDING-TIGHTNESS order, not
// match-priority order: analysis.Run iterates analyzers in list order
// within a single fixed-point pass, and BinaryOperator wraps greedily off
// sibling adjacency rather than textual precedence, so whichever
// operator's Analyzer runs first in a pass is the one that gets to wrap
// its operands before a looser operator (running later in the same
// pass) ever sees them as a single already-wrapped sibling. Multiplicative
// must therefore run before additive, additive before relational, and so
// on, down to logical && / || which bind loosest and so run last. Within
// each precedence tier, two-character symbols are still matched ahead of
// the single-character symbol that would otherwise steal their first
// half ("<=" before "<").
var operatorSpecs = []*spec.Spec{
	binarySpec("*", "op:mul", 1, func() instruction.Instruction { return &instruction.Multiply{} }),
	binarySpec("/", "op:div", 1, func() instruction.Instruction { return &instruction.Quotient{} }),
	binarySpec("%", "op:mod", 1, func() instruction.Instruction { return &instruction.Modulo{} }),
	binarySpec("+", "op:add", 1, func() instruction.Instruction { return &instruction.Sum{} }),
	binarySpec("-", "op:sub", 1, func() instruction.Instruction { return &instruction.Difference{} }),
	relational("<=", "op:le", 2, true, true),
	relational(">=", "op:ge", 2, false, true),
	relational("<", "op:lt", 1, true, false),
	relational(">", "op:gt", 1, false, false),
	equality("==", "op:eq", 2, false),
	equality("!=", "op:ne", 2, true),
	binarySpec("&&", "op:and", 2, func() instruction.Instruction { return &instruction.And{} }),
	binarySpec("||", "op:or", 2, func() instruction.Instruction { return &instruction.Or{} }),
}

var notPattern = regexp.MustCompile(`!`)

// notSpec is prefix "!": unlike the infix table above it has no left
// operand, so it is driven by a dedicated local Analyzer rather than
// analysis.BinaryOperator (which requires both neighbours). Negate
// only accepts Boolean operands (internal/instruction/mathlogic.go).
var notSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: notPattern,
		Weight:  1,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("op:not") },
	},
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("op:not"),
		Inner: prefixOperator{Query: analysis.Is("op:not"), WrapKind: "op:not:wrap"},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "op:not:wrap" {
			return nil
		}
		operand, _ := t.Sketch().ComponentTree("operand")
		return instruction.NewBlock(root(root, comp, operand), &instruction.Negate{})
	},
}

// prefixOperator wraps a Query-matching Tree t with its own next
// sibling, the prefix-unary counterpart to analysis.BinaryOperator:
// same shape, but only a next operand is required, not both neighbours.
type prefixOperator struct {
	Query    analysis.Query
	WrapKind string
}

func (p prefixOperator) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if !p.Query(t) {
		return false
	}
	next, ok := t.Next()
	if !ok {
		return false
	}
	start, end := t.Head(), next.Tail()
	wrapper := tree.New(t.Arena(), t.Document(), region.NewReference(start, end-start), t.Weight())
	if err := tree.Offer(t, wrapper); err != nil {
		return false
	}
	wrapper.Sketch().SetKind(p.WrapKind)
	wrapper.Sketch().SetComponentTree("operand", next)
	return true
}
