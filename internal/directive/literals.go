// Package directive assembles spec.md §9's representative builtin Spec
// catalog: literals, references, operators, comments, and the command
// family, as one root Spec built from nested sub-Specs (spec.md §4.7).
package directive

import (
	"regexp"
	"strconv"
	"strings"

	"jamplate/internal/compilation"
	"jamplate/internal/compiling"
	"jamplate/internal/instruction"
	"jamplate/internal/parsing"
	"jamplate/internal/spec"
	"jamplate/internal/tree"
	"jamplate/internal/value"
)

const (
	kindNumber    = "literal:number"
	kindString    = "literal:string"
	kindBoolean   = "literal:boolean"
	kindReference = "reference"
	kindComment   = "comment"
)

var numberPattern = regexp.MustCompile(`0[xX][0-9a-fA-F]+[lLuU]*|0[bB][01]+[lLuU]*|0[0-7]+[lLuU]*|\d+\.\d+[fFdD]?|\d+[lLuU]*`)

// numberSpec recognizes decimal, octal (0-prefixed), binary (0b), and hex
// (0x) integers plus decimal floats, ignoring trailing type suffixes the
// way C-family literal grammars do (spec.md §9: "ignored suffixes").
var numberSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: numberPattern,
		Weight:  1,
		Ctor: func(t tree.Tree, s string) {
			t.Sketch().SetKind(kindNumber)
			t.Sketch().SetName(s)
		},
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != kindNumber {
			return nil
		}
		n, ok := parseNumberLiteral(t.Sketch().Name())
		if !ok {
			return nil
		}
		return instruction.NewPushConst(value.Number(n))
	},
}

func parseNumberLiteral(s string) (float64, bool) {
	trimmed := strings.TrimRight(s, "lLuUfFdD")
	switch {
	case strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X"):
		n, err := strconv.ParseInt(trimmed[2:], 16, 64)
		return float64(n), err == nil
	case strings.HasPrefix(trimmed, "0b") || strings.HasPrefix(trimmed, "0B"):
		n, err := strconv.ParseInt(trimmed[2:], 2, 64)
		return float64(n), err == nil
	case strings.Contains(trimmed, "."):
		n, err := strconv.ParseFloat(trimmed, 64)
		return n, err == nil
	case len(trimmed) > 1 && trimmed[0] == '0':
		n, err := strconv.ParseInt(trimmed, 8, 64)
		return float64(n), err == nil
	default:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		return float64(n), err == nil
	}
}

var stringPattern = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`)

var stringSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: stringPattern,
		Weight:  1,
		Ctor: func(t tree.Tree, s string) {
			t.Sketch().SetKind(kindString)
			t.Sketch().SetName(s)
		},
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != kindString {
			return nil
		}
		return instruction.NewPushConst(value.Text(unescapeString(t.Sketch().Name())))
	},
}

// unescapeString resolves \n, \t, \\, \xHH, and \uHHHH the way a
// C-family string literal grammar does, dropping the surrounding quotes.
func unescapeString(raw string) string {
	inner := raw[1 : len(raw)-1]
	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteByte(inner[i])
		case 'x':
			if i+2 < len(inner) {
				if n, err := strconv.ParseInt(inner[i+1:i+3], 16, 32); err == nil {
					sb.WriteByte(byte(n))
					i += 2
					continue
				}
			}
			sb.WriteByte('x')
		default:
			sb.WriteByte(inner[i])
		}
	}
	return sb.String()
}

var booleanPattern = regexp.MustCompile(`\btrue\b|\bfalse\b`)

var booleanSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: booleanPattern,
		Weight:  1,
		Ctor: func(t tree.Tree, s string) {
			t.Sketch().SetKind(kindBoolean)
			t.Sketch().SetName(s)
		},
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != kindBoolean {
			return nil
		}
		return instruction.NewPushConst(value.Boolean(t.Sketch().Name() == "true"))
	},
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// referenceSpec compiles a bare identifier to a heap Access. Its weight
// (5) is higher than the keyword-bearing directive Specs' (4), so a
// reference that coincides exactly with a directive's group tree nests
// inside it. "if"/"for" aren't matched as bare references first (Term finds the *first* uncovered
// match regardless of weight, but directive Specs parse their own
// anchored keyword forms before reference's looser identifier pattern
// gets a chance, since coveredRanges already claims that span).
var referenceSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: identifierPattern,
		Weight:  5,
		Ctor: func(t tree.Tree, s string) {
			t.Sketch().SetKind(kindReference)
			t.Sketch().SetName(s)
		},
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != kindReference {
			return nil
		}
		return instruction.NewBlock(
			instruction.NewPushConst(value.Text(t.Sketch().Name())),
			&instruction.Access{},
		)
	},
}

var (
	lineCommentPattern  = regexp.MustCompile(`//[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

var commentSpec = &spec.Spec{
	Parser: &parsing.Term{
		Pattern: regexp.MustCompile(lineCommentPattern.String() + `|` + blockCommentPattern.String()),
		Weight:  0,
		Ctor:    func(t tree.Tree, s string) { t.Sketch().SetKind(kindComment) },
	},
	Compiler: func(root compiling.Compiler, comp *compilation.Compilation, t tree.Tree) instruction.Instruction {
		if t.Sketch().Kind() != kindComment {
			return nil
		}
		return &instruction.Idle{}
	},
}
