package directive

import (
	"strings"

	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/region"
	"jamplate/internal/runtime"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// bumpLine keeps __LINE__ current as literal text streams past a
// newline, the per-escaped-newline bookkeeping spec.md §6 calls for.
// There is no core instruction for it (it is one directive-local
// read-modify-write of a single heap cell), the same way compareSign and
// equalityCheck in operators.go supplement the core set locally instead
// of widening it.
type bumpLine struct {
	delta int
}

func (b bumpLine) Source() tree.Tree { return tree.Zero }

func (b bumpLine) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	if b.delta == 0 {
		return nil
	}
	cur, _ := m.Lookup("__LINE__")
	n, _ := cur.(value.Number)
	m.Alloc("__LINE__", n+value.Number(b.delta))
	return nil
}

// leavesValue reports whether a compiled child's Kind leaves exactly one
// Value behind on the operand stack rather than consuming everything it
// pushed. Every "directive:*" kind (including "directive:injection",
// which already emits its own CastText+Print) and a bare comment net to
// zero stack effect by the time their Compiler's Block finishes, and
// "op:assign:wrap" ends in a Set that consumes its right-hand value
// instead of leaving it — those are the only kinds compileChildrenWithLiterals
// sees that do not need an implicit emit. Everything else (literals,
// references, binary/unary operators, member access, collections) does.
func leavesValue(kind string) bool {
	if kind == "" || kind == kindComment || kind == "op:assign:wrap" {
		return false
	}
	return !strings.HasPrefix(kind, "directive:")
}

// compileChildrenWithLiterals compiles every direct child of t in
// document order and, between children (and before the first / after the
// last), emits the raw source text as a Print — the uncovered spans of a
// template document are its literal output, not dead text. A
// value-producing child (a bare expression statement, not wrapped in its
// own `#{ }#` injection) is followed by an injection-style CastText+Print
// so its result reaches the console instead of being left on the operand
// stack for the next sibling to trip over. Used for the document root and
// for every directive body (if/for/while/capture).
func compileChildrenWithLiterals(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	doc := t.Document()
	content := doc.Content()
	ref := t.Reference()

	var instrs []instruction.Instruction
	pos := ref.Position()

	emitGap := func(end int) {
		if end <= pos {
			return
		}
		gap := content[pos:end]
		instrs = append(instrs, instruction.NewPushConst(value.Text(gap)), &instruction.Print{})
		if n := strings.Count(gap, "\n"); n > 0 {
			instrs = append(instrs, bumpLine{delta: n})
		}
	}

	for _, c := range t.Children() {
		emitGap(c.Head())
		if instr := root(root, comp, c); instr != nil {
			instrs = append(instrs, instr)
			if leavesValue(c.Sketch().Kind()) {
				instrs = append(instrs, &instruction.CastText{}, &instruction.Print{})
			}
		}
		pos = c.Tail()
	}
	emitGap(ref.End())

	if len(instrs) == 0 {
		return &instruction.Idle{}
	}
	return instruction.NewBlock(instrs...)
}

// compileExpr compiles t as a single expression slot: analyzers fold a
// slot's raw text down to exactly one top-level child (the fully wrapped
// expression tree), so compiling that child is compiling the slot.
// Falls back to the full dispatcher over t itself, then to flattening t's
// children, for slots analysis hasn't finished folding yet (a literal
// leaf already carries its own Sketch kind directly on t in that case).
func compileExpr(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
	children := t.Children()
	if len(children) == 1 {
		return root(root, comp, children[0])
	}
	if instr := root(root, comp, t); instr != nil {
		return instr
	}
	return compiling.Flatten(root)(root, comp, t)
}

// rawText reads t's source text directly — used for directive components
// that are names rather than expressions (a #declare's target name, a
// #for loop's iteration variable), which are never meant to be parsed and
// compiled as sub-expressions.
func rawText(t tree.Tree) string {
	doc := t.Document()
	return strings.TrimSpace(doc.Read(t.Reference()))
}

// topLevelSplit splits s on every occurrence of sep that is not nested
// inside (), [], {}, or a quoted string — the depth-aware comma/colon
// split array and object literals need so a nested "[1,2]" element
// doesn't get sliced on its own inner comma. Returns the [start,end)
// byte offsets of each segment, trimmed of surrounding whitespace.
func topLevelSplit(s string, sep byte) [][2]int {
	var spans [][2]int
	depth := 0
	var quote byte
	start := 0
	trim := func(a, b int) (int, int) {
		for a < b && (s[a] == ' ' || s[a] == '\t' || s[a] == '\n' || s[a] == '\r') {
			a++
		}
		for b > a && (s[b-1] == ' ' || s[b-1] == '\t' || s[b-1] == '\n' || s[b-1] == '\r') {
			b--
		}
		return a, b
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			a, b := trim(start, i)
			spans = append(spans, [2]int{a, b})
			start = i + 1
		}
	}
	a, b := trim(start, len(s))
	if b > a || len(spans) > 0 {
		spans = append(spans, [2]int{a, b})
	}
	return spans
}

// regionOf builds a region.Reference for the [a,b) byte offsets
// topLevelSplit found within body's window, shifted to body's absolute
// document position.
func regionOf(body tree.Tree, a, b int) region.Reference {
	base := body.Reference().Position()
	return region.NewReference(base+a, b-a)
}
