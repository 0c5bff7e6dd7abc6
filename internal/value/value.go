// Package value implements spec.md §3's Value sum type and the lazy
// "pipe" evaluation protocol: every Value exposes Eval(memory) -> text and
// can be composed with Apply(transform) into another lazy Value.
package value

import (
	"errors"
	"strconv"
	"strings"
)

// MaxEvalDepth bounds recursive Eval nesting. spec.md §9 flags the pipe
// protocol's cycle risk ("the source does not guard; specify a depth
// limit or a visited-set") — Jamplate picks a depth limit, since Memory
// lookups are by name and a cheap monotonically increasing counter is
// enough to catch a self-referential heap entry without the bookkeeping
// of a visited-set.
const MaxEvalDepth = 256

var ErrEvalTooDeep = errors.New("value: eval recursion exceeded MaxEvalDepth")

// Memory is the minimal contract a Value needs from its evaluation
// context: named lookups (heap access), and a way to track recursion
// depth. internal/runtime.Memory implements this; Value does not import
// internal/runtime, avoiding a cycle (runtime.Frame stores Values).
type Memory interface {
	Lookup(name string) (Value, bool)
	Nest() (Memory, error)
}

// Value is the common interface every variant implements.
type Value interface {
	// Eval is the pipe: lazily render this value to text against memory.
	Eval(m Memory) (string, error)
	// Apply composes this value with a text transform, producing another
	// lazy Value — evaluating the result evaluates this value first, then
	// runs transform over the text.
	Apply(transform func(string) string) Value
	// Kind names the variant, for instructions that need to type-switch
	// without a full Go type assertion (casts, struct ops).
	Kind() string
}

// pipe is the generic Apply result: evaluate inner, then transform.
type pipe struct {
	inner     Value
	transform func(string) string
}

func (p *pipe) Eval(m Memory) (string, error) {
	s, err := p.inner.Eval(m)
	if err != nil {
		return "", err
	}
	return p.transform(s), nil
}

func (p *pipe) Apply(transform func(string) string) Value {
	return &pipe{inner: p, transform: transform}
}

func (p *pipe) Kind() string { return p.inner.Kind() }

func applyPipe(v Value, transform func(string) string) Value {
	return &pipe{inner: v, transform: transform}
}

// Null is the designated absence-of-value singleton.
type nullValue struct{}

// Null is the single NULL value every Memory/heap read that misses
// resolves to.
var Null Value = nullValue{}

func (nullValue) Eval(Memory) (string, error)            { return "", nil }
func (n nullValue) Apply(t func(string) string) Value     { return applyPipe(n, t) }
func (nullValue) Kind() string                            { return "null" }

// IsNull reports whether v is the NULL value (spec.md's Defined
// instruction needs exactly this non-NULL test).
func IsNull(v Value) bool {
	_, ok := v.(nullValue)
	return ok || v == nil
}

// Text is a literal string value.
type Text string

func (t Text) Eval(Memory) (string, error)        { return string(t), nil }
func (t Text) Apply(fn func(string) string) Value { return applyPipe(t, fn) }
func (t Text) Kind() string                       { return "text" }

// Number is a double with the integer-preservation rendering rule from
// spec.md §4.6: a whole-valued result prints without a decimal point.
type Number float64

func (n Number) Eval(Memory) (string, error)        { return FormatNumber(float64(n)), nil }
func (n Number) Apply(fn func(string) string) Value { return applyPipe(n, fn) }
func (n Number) Kind() string                       { return "number" }

// FormatNumber implements the exact rule spec.md §4.6 asks for.
func FormatNumber(x float64) string {
	if x == float64(int64(x)) {
		return strconv.FormatInt(int64(x), 10)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Boolean is a true/false value.
type Boolean bool

func (b Boolean) Eval(Memory) (string, error) {
	if b {
		return "true", nil
	}
	return "false", nil
}
func (b Boolean) Apply(fn func(string) string) Value { return applyPipe(b, fn) }
func (b Boolean) Kind() string                       { return "boolean" }

// Array is an ordered list of Values.
type Array struct {
	Elements []Value
}

func NewArray(elements ...Value) *Array { return &Array{Elements: elements} }

func (a *Array) Eval(m Memory) (string, error) {
	m2, err := m.Nest()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		s, err := el.Eval(m2)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (a *Array) Apply(fn func(string) string) Value { return applyPipe(a, fn) }
func (a *Array) Kind() string                        { return "array" }

// Pair is a key/value association, the element type of Object and the
// unit Split/BuildObject move between Array and Object forms.
type Pair struct {
	Key   Value
	Value Value
}

func NewPair(key, val Value) *Pair { return &Pair{Key: key, Value: val} }

func (p *Pair) Eval(m Memory) (string, error) {
	m2, err := m.Nest()
	if err != nil {
		return "", err
	}
	k, err := p.Key.Eval(m2)
	if err != nil {
		return "", err
	}
	v, err := p.Value.Eval(m2)
	if err != nil {
		return "", err
	}
	return k + ":" + v, nil
}

func (p *Pair) Apply(fn func(string) string) Value { return applyPipe(p, fn) }
func (p *Pair) Kind() string                        { return "pair" }

// Object is an ordered list of Pairs (insertion order is preserved —
// spec.md §8's BuildObject/Split round-trip is only guaranteed "modulo
// ordering rules", and insertion order is the simplest rule to hold).
type Object struct {
	Pairs []*Pair
}

func NewObject(pairs ...*Pair) *Object { return &Object{Pairs: pairs} }

// Get returns the value bound to key's text form, if present.
func (o *Object) Get(m Memory, key string) (Value, bool) {
	for _, p := range o.Pairs {
		k, err := p.Key.Eval(m)
		if err == nil && k == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Put returns a new Object with key bound to val, replacing any existing
// binding in place (insertion order otherwise preserved) or appending.
func (o *Object) Put(m Memory, key string, val Value) (*Object, error) {
	pairs := make([]*Pair, len(o.Pairs))
	copy(pairs, o.Pairs)
	for i, p := range pairs {
		k, err := p.Key.Eval(m)
		if err != nil {
			return nil, err
		}
		if k == key {
			pairs[i] = NewPair(Text(key), val)
			return &Object{Pairs: pairs}, nil
		}
	}
	pairs = append(pairs, NewPair(Text(key), val))
	return &Object{Pairs: pairs}, nil
}

func (o *Object) Eval(m Memory) (string, error) {
	m2, err := m.Nest()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(o.Pairs))
	for i, p := range o.Pairs {
		s, err := p.Eval(m2)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (o *Object) Apply(fn func(string) string) Value { return applyPipe(o, fn) }
func (o *Object) Kind() string                        { return "object" }

// Quote wraps a Value as a stringification barrier: Glue/Cast treat a
// Quote as an opaque unit instead of flattening through it, the way a
// single-quoted literal in the source text is never itself re-scanned for
// directives.
type Quote struct {
	Inner Value
}

func NewQuote(v Value) *Quote { return &Quote{Inner: v} }

func (q *Quote) Eval(m Memory) (string, error) { return q.Inner.Eval(m) }
func (q *Quote) Apply(fn func(string) string) Value { return applyPipe(q, fn) }
func (q *Quote) Kind() string                        { return "quote" }

// Unquote returns the Value a Quote wraps, or v itself if v is not a
// Quote (used by the Quote(Unquote(v)).Eval = Quote(v).Eval round-trip
// property in spec.md §8).
func Unquote(v Value) Value {
	if q, ok := v.(*Quote); ok {
		return q.Inner
	}
	return v
}

// Glue is the fused value of a frame's operand stack: concatenating the
// Eval of each element in order, flattening nested Glues so repeated
// GlueFrame/JoinFrame folding doesn't nest nodes nested arbitrarily deep.
type Glue struct {
	Parts []Value
}

func NewGlue(parts ...Value) *Glue {
	flat := make([]Value, 0, len(parts))
	for _, p := range parts {
		if g, ok := p.(*Glue); ok {
			flat = append(flat, g.Parts...)
		} else {
			flat = append(flat, p)
		}
	}
	return &Glue{Parts: flat}
}

func (g *Glue) Eval(m Memory) (string, error) {
	m2, err := m.Nest()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, p := range g.Parts {
		s, err := p.Eval(m2)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (g *Glue) Apply(fn func(string) string) Value { return applyPipe(g, fn) }
func (g *Glue) Kind() string                        { return "glue" }
