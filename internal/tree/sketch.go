package tree

// Sketch is the mutable metadata record attached one-to-one to a Tree
// node: a dotted Kind tag ("operator:adder"), an optional Name, and a map
// from component keys ("open", "close", "left", "right", "body", "type",
// "value", "key", ...) to child sketches. Parsers publish named
// sub-regions here so analyzers and compilers can retrieve them by key
// instead of re-scanning the source text.
//
// A child Sketch may exist before any real Tree node backs it — SetTree
// binds one later, once the corresponding region has actually been
// offered into the structure.
type Sketch struct {
	kind     string
	name     string
	parent   *Sketch
	tree     Tree
	hasTree  bool
	children map[string]*Sketch
}

// NewSketch creates a root sketch with the given kind and no bound tree.
func NewSketch(kind string) *Sketch {
	return &Sketch{kind: kind, children: make(map[string]*Sketch)}
}

func (s *Sketch) Kind() string { return s.kind }
func (s *Sketch) SetKind(kind string) { s.kind = kind }

func (s *Sketch) Name() string { return s.name }
func (s *Sketch) SetName(name string) { s.name = name }

func (s *Sketch) Parent() (*Sketch, bool) { return s.parent, s.parent != nil }

// Tree returns the Tree node this sketch is bound to, if any.
func (s *Sketch) Tree() (Tree, bool) { return s.tree, s.hasTree }

// SetTree binds this sketch to a real Tree node, and mirrors the binding
// onto the node's own Sketch field so tree.Sketch() and sketch.Tree() stay
// consistent with each other.
func (s *Sketch) SetTree(t Tree) {
	s.tree = t
	s.hasTree = true
	t.n().sketch = s
}

// Component returns the child sketch bound to key, creating an unbound one
// if none exists yet — this is what lets a parser publish a component key
// before the region it names has been offered into the tree.
func (s *Sketch) Component(key string) *Sketch {
	if child, ok := s.children[key]; ok {
		return child
	}
	child := NewSketch("")
	child.parent = s
	s.children[key] = child
	return child
}

// ComponentTree is a convenience: Component(key).Tree().
func (s *Sketch) ComponentTree(key string) (Tree, bool) {
	if child, ok := s.children[key]; ok {
		return child.Tree()
	}
	return Zero, false
}

// SetComponentTree publishes key -> t directly, adopting t's own Sketch
// as the component so the kind, name and components t already carries
// stay visible through both t.Sketch() and ComponentTree(key).
func (s *Sketch) SetComponentTree(key string, t Tree) {
	child := t.Sketch()
	child.parent = s
	child.tree, child.hasTree = t, true
	s.children[key] = child
}

// Keys returns every published component key, in no particular order.
func (s *Sketch) Keys() []string {
	keys := make([]string, 0, len(s.children))
	for k := range s.children {
		keys = append(keys, k)
	}
	return keys
}

// Is reports whether this sketch's kind equals kind.
func (s *Sketch) Is(kind string) bool { return s.kind == kind }
