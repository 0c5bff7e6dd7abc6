package directive

import (
	"regexp"

	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/parsing"
	"jamplate/internal/runtime"
	"jamplate/internal/spec"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

// buildCollection pops Count values and pushes them as an Array, in the
// order they were pushed — the array-literal counterpart to
// instruction.BuildObject, kept local to this package the way
// compareSign/equalityCheck in operators.go supplement the core
// instruction set rather than widen it for one directive's sake.
type buildCollection struct{ count int }

func (buildCollection) Source() tree.Tree { return tree.Zero }

func (b buildCollection) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	elems := make([]value.Value, b.count)
	for i := b.count - 1; i >= 0; i-- {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		elems[i] = v
	}
	m.Push(value.NewArray(elems...))
	return nil
}

// slotWeight is deliberately lower than every literal/operator weight in
// this package (all >= 1): a slot tree is offered around content that is
// frequently already parsed and in place (a lone number, an already-built
// nested collection), so an EXACT coincidence between a slot and that
// existing content must resolve with the slot staying outermost per
// offer.go's offerSame rule (lower weight nests outer).
const slotWeight int32 = 0

// slotTrees splits body's raw text on top-level commas and offers one
// Tree per resulting span into the structure, so subsequent parser
// rounds grow each span into a full expression the way any other region
// does — the same "offer what you found, let the driver place it" shape
// spec.md §4.3 describes for every Parser. A single span spanning body's
// entire reference (one element, no surrounding padding) is skipped here
// and left for the caller to retag body itself: offering a same-weight
// wrapper with a range IDENTICAL to body's own would hit offerSame at the
// body level instead of the leaf level, inverting the nesting this
// function relies on.
func slotTrees(body tree.Tree, kind string) []tree.Tree {
	text := body.Document().Read(body.Reference())
	spans := topLevelSplit(text, ',')
	var out []tree.Tree
	for _, span := range spans {
		if span[1] <= span[0] {
			continue
		}
		ref := regionOf(body, span[0], span[1])
		if len(spans) == 1 && ref == body.Reference() {
			continue
		}
		slot := tree.New(body.Arena(), body.Document(), ref, slotWeight)
		slot.Sketch().SetKind(kind)
		out = append(out, slot)
	}
	return out
}

// collectionSlotsOnce offers body's comma-separated spans exactly once:
// a "sliced" marker component on body itself guards against re-slicing on
// every later fixed-point analyzer pass.
type collectionSlotsOnce struct {
	Kind string
}

func (c collectionSlotsOnce) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	body, ok := t.Sketch().ComponentTree("body")
	if !ok {
		return false
	}
	if _, already := body.Sketch().ComponentTree("sliced"); already {
		return false
	}
	defer body.Sketch().SetComponentTree("sliced", body)

	text := body.Document().Read(body.Reference())
	spans := topLevelSplit(text, ',')
	if len(spans) == 1 {
		ref := regionOf(body, spans[0][0], spans[0][1])
		if ref == body.Reference() {
			body.Sketch().SetKind(c.Kind)
			return true
		}
	}

	changed := false
	for _, slot := range slotTrees(body, c.Kind) {
		if err := tree.Offer(body, slot); err == nil {
			changed = true
		}
	}
	return changed
}

var arraySpec = &spec.Spec{
	Parser: &parsing.DoublePattern{
		Open:   regexp.MustCompile(`\[`),
		Close:  regexp.MustCompile(`\]`),
		Weight: 3,
		Ctor:   func(t tree.Tree) { t.Sketch().SetKind("collection:array") },
	},
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("collection:array"),
		Inner: collectionSlotsOnce{Kind: "collection:array:slot"},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "collection:array" {
			return nil
		}
		body, ok := t.Sketch().ComponentTree("body")
		if !ok {
			return instruction.NewPushConst(value.NewArray())
		}
		// A single element with no surrounding padding is retagged
		// directly onto body by collectionSlotsOnce rather than
		// wrapped in a separate child tree (see slotTrees).
		if body.Sketch().Kind() == "collection:array:slot" {
			return instruction.NewBlock(compileExpr(root, comp, body), buildCollection{count: 1})
		}
		var instrs []instruction.Instruction
		count := 0
		for _, slot := range body.Children() {
			if slot.Sketch().Kind() != "collection:array:slot" {
				continue
			}
			instrs = append(instrs, compileExpr(root, comp, slot))
			count++
		}
		if count == 0 {
			return instruction.NewPushConst(value.NewArray())
		}
		instrs = append(instrs, buildCollection{count: count})
		return instruction.NewBlock(instrs...)
	},
}

// objectEntrySlots splits an entry slot's raw text on the first top-level
// colon into a key half and a value half, offering both as Trees the way
// slotTrees does for the outer comma split.
func objectEntrySlots(entry tree.Tree) (key, val tree.Tree, ok bool) {
	text := entry.Document().Read(entry.Reference())
	spans := topLevelSplit(text, ':')
	if len(spans) < 2 {
		return tree.Zero, tree.Zero, false
	}
	keySpan := spans[0]
	// Re-join every remaining span with ':' so a value containing its own
	// colon (e.g. a nested "k2:'v2'" inside a bracketed sub-expression)
	// only loses its FIRST colon to the key split, not every one.
	valStart := spans[1][0]
	valEnd := spans[len(spans)-1][1]
	keyRef := regionOf(entry, keySpan[0], keySpan[1])
	valRef := regionOf(entry, valStart, valEnd)
	k := tree.New(entry.Arena(), entry.Document(), keyRef, slotWeight)
	k.Sketch().SetKind("collection:object:key")
	v := tree.New(entry.Arena(), entry.Document(), valRef, slotWeight)
	v.Sketch().SetKind("collection:object:value")
	return k, v, true
}

// makePair pops (value, then key-text) and pushes a Pair — the object-
// literal-entry counterpart to buildCollection, since the core
// instruction set's BuildObject expects Pairs already on the stack and
// nothing lower-level builds one from a bare key/value pushed in turn.
type makePair struct{}

func (makePair) Source() tree.Tree { return tree.Zero }

func (makePair) Exec(ctx *instruction.Context, m *runtime.Memory) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	k, err := m.Pop()
	if err != nil {
		return err
	}
	m.Push(value.NewPair(k, v))
	return nil
}

// analyzerFunc adapts a plain function to the Analyzer interface, the
// functional-option shape query.go's combinators already use for Query.
type analyzerFunc func(comp *compilation.Compilation, t tree.Tree) bool

func (f analyzerFunc) Analyze(comp *compilation.Compilation, t tree.Tree) bool { return f(comp, t) }

type objectEntriesOnce struct{}

func (objectEntriesOnce) Analyze(comp *compilation.Compilation, t tree.Tree) bool {
	if t.Sketch().Kind() != "collection:object:entry" {
		return false
	}
	if _, already := t.Sketch().ComponentTree("key"); already {
		return false
	}
	key, val, ok := objectEntrySlots(t)
	if !ok {
		return false
	}
	if err := tree.Offer(t, key); err != nil {
		return false
	}
	if err := tree.Offer(t, val); err != nil {
		return false
	}
	t.Sketch().SetComponentTree("key", key)
	t.Sketch().SetComponentTree("value", val)
	return true
}

var objectSpec = &spec.Spec{
	Parser: &parsing.DoublePattern{
		Open:   regexp.MustCompile(`\{`),
		Close:  regexp.MustCompile(`\}`),
		Weight: 3,
		Ctor:   func(t tree.Tree) { t.Sketch().SetKind("collection:object") },
	},
	Analyzer: analysis.Hierarchy{Inner: analyzerFunc(objectAnalyzeStep)},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "collection:object" {
			return nil
		}
		body, ok := t.Sketch().ComponentTree("body")
		if !ok {
			return instruction.NewPushConst(value.NewObject())
		}
		entryInstrs := func(entry tree.Tree) ([]instruction.Instruction, bool) {
			key, hasKey := entry.Sketch().ComponentTree("key")
			val, hasVal := entry.Sketch().ComponentTree("value")
			if !hasKey || !hasVal {
				return nil, false
			}
			return []instruction.Instruction{
				instruction.NewPushConst(value.Text(objectKeyText(key))),
				compileExpr(root, comp, val),
				makePair{},
			}, true
		}
		// A single "key: value" entry with no surrounding padding is
		// retagged directly onto body rather than wrapped in a separate
		// child tree (see slotTrees / collectionSlotsOnce).
		if body.Sketch().Kind() == "collection:object:entry" {
			if is, ok := entryInstrs(body); ok {
				is = append(is, instruction.NewBuildObject(1))
				return instruction.NewBlock(is...)
			}
			return instruction.NewPushConst(value.NewObject())
		}
		var instrs []instruction.Instruction
		count := 0
		for _, entry := range body.Children() {
			if entry.Sketch().Kind() != "collection:object:entry" {
				continue
			}
			is, ok := entryInstrs(entry)
			if !ok {
				continue
			}
			instrs = append(instrs, is...)
			count++
		}
		if count == 0 {
			return instruction.NewPushConst(value.NewObject())
		}
		instrs = append(instrs, instruction.NewBuildObject(count))
		return instruction.NewBlock(instrs...)
	},
}

// objectKeyText reads an object literal key as a bare name: quoted keys
// are unescaped the same way a string literal is, bare identifier keys
// are used verbatim — neither is looked up as a heap reference, since an
// object literal key names a slot, not a value.
func objectKeyText(key tree.Tree) string {
	raw := rawText(key)
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		return unescapeString(raw)
	}
	return raw
}

func objectAnalyzeStep(comp *compilation.Compilation, t tree.Tree) bool {
	if t.Sketch().Is("collection:object") {
		return collectionSlotsOnce{Kind: "collection:object:entry"}.Analyze(comp, t)
	}
	return objectEntriesOnce{}.Analyze(comp, t)
}

var parenSpec = &spec.Spec{
	Parser: &parsing.DoublePattern{
		Open:   regexp.MustCompile(`\(`),
		Close:  regexp.MustCompile(`\)`),
		Weight: 3,
		Ctor:   func(t tree.Tree) { t.Sketch().SetKind("collection:group") },
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "collection:group" {
			return nil
		}
		body, ok := t.Sketch().ComponentTree("body")
		if !ok {
			return nil
		}
		return compileExpr(root, comp, body)
	},
}

// memberSpec compiles "a.b" as a lookup of literal key "b" on value a —
// the right operand is never compiled as a heap Access the way a bare
// reference normally would be, since "b" here names a slot, not a
// variable.
var memberPattern = regexp.MustCompile(`\.`)

var memberSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: memberPattern,
		Weight:  1,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("op:member") },
	},
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("op:member"),
		Inner: analysis.BinaryOperator{
			Query:    analysis.Is("op:member"),
			WrapCtor: func(w tree.Tree) { w.Sketch().SetKind("op:member:wrap") },
		},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "op:member:wrap" {
			return nil
		}
		left, _ := t.Sketch().ComponentTree("left")
		right, _ := t.Sketch().ComponentTree("right")
		return instruction.NewBlock(
			root(root, comp, left),
			instruction.NewPushConst(value.Text(rawText(right))),
			&instruction.Get{},
		)
	},
}

// assignSpec compiles "name = expr" as a Set of name's raw text (never a
// heap Access) to expr's compiled value.
var assignPattern = regexp.MustCompile(`=`)

var assignSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: assignPattern,
		Weight:  1,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind("op:assign") },
	},
	Analyzer: analysis.Hierarchy{Inner: analysis.Filter{
		Query: analysis.Is("op:assign"),
		Inner: analysis.BinaryOperator{
			Query:    analysis.Is("op:assign"),
			WrapCtor: func(w tree.Tree) { w.Sketch().SetKind("op:assign:wrap") },
		},
	}},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != "op:assign:wrap" {
			return nil
		}
		left, _ := t.Sketch().ComponentTree("left")
		right, _ := t.Sketch().ComponentTree("right")
		return instruction.NewBlock(
			instruction.NewPushConst(value.Text(rawText(left))),
			compileExpr(root, comp, right),
			&instruction.Set{},
		)
	},
}
