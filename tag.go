package tagsanitizer

// Decision is what happens to an element once its Decider returns.
type Decision int

const (
	// Keep renders the element with its allowed attributes and visits its
	// children. It is the default.
	Keep Decision = iota
	// DropSelf removes the element's own tags; its children are rendered in
	// its place.
	DropSelf
	// DropSelfAndChildren removes the element and its whole subtree.
	DropSelfAndChildren
	// Replace emits the replacement literal verbatim instead of the element
	// and its subtree.
	Replace
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case DropSelf:
		return "drop-self"
	case DropSelfAndChildren:
		return "drop-self-and-children"
	case Replace:
		return "replace"
	}
	return "unknown"
}

// Attribute is a single attribute of a parsed element. Namespace is set for
// foreign content attributes such as xlink:href.
type Attribute struct {
	Namespace string
	Key       string
	Val       string
}

// Decider inspects one element and records what to do with it. It must not
// keep the *Tag after it returns.
type Decider func(t *Tag)

// Chain returns a Decider that runs each of ds on the same Tag, in order.
// Nil entries are skipped.
func Chain(ds ...Decider) Decider {
	return func(t *Tag) {
		for _, d := range ds {
			if d != nil {
				d(t)
			}
		}
	}
}

// Tag is the view of one element handed to a Decider. The name and the
// attribute snapshot are read-only; the decision and the attribute
// allow-list are what the Decider changes.
//
// By default an element is kept and every attribute is removed. Attributes
// survive only when allowed by name.
type Tag struct {
	name    string
	attrs   []Attribute
	depth   int
	allowed map[string]struct{}

	decision    Decision
	replacement string
}

func newTag(name string, attrs []Attribute, depth int) *Tag {
	return &Tag{name: name, attrs: attrs, depth: depth}
}

// Name returns the element's tag name as produced by the parser, e.g. "div".
func (t *Tag) Name() string { return t.name }

// Depth returns the nesting depth of the element in the parsed tree;
// top-level elements have depth 1.
func (t *Tag) Depth() int { return t.depth }

// Attrs returns a copy of the element's original attributes in document
// order.
func (t *Tag) Attrs() []Attribute {
	out := make([]Attribute, len(t.attrs))
	copy(out, t.attrs)
	return out
}

// Attr returns the original value of the named attribute.
func (t *Tag) Attr(name string) (string, bool) {
	for _, a := range t.attrs {
		if attrName(a) == name {
			return a.Val, true
		}
	}
	return "", false
}

// AllowAttribute keeps the named attribute, with its original value, when
// the element is rendered. The attribute does not have to exist. Allowing
// the same name twice has no further effect.
func (t *Tag) AllowAttribute(name string) {
	if t.allowed == nil {
		t.allowed = make(map[string]struct{})
	}
	t.allowed[name] = struct{}{}
}

// AllowAttributes is AllowAttribute for several names.
func (t *Tag) AllowAttributes(names ...string) {
	for _, n := range names {
		t.AllowAttribute(n)
	}
}

// IgnoreSelf drops the element's own tags but still visits and renders its
// children in its place.
func (t *Tag) IgnoreSelf() {
	t.decision = DropSelf
	t.replacement = ""
}

// IgnoreSelfAndContents drops the element together with all of its
// children and text.
func (t *Tag) IgnoreSelfAndContents() {
	t.decision = DropSelfAndChildren
	t.replacement = ""
}

// RewriteAs replaces the element and all of its children with literal.
// The literal is written to the output as is, without escaping, so it must
// already be valid markup.
func (t *Tag) RewriteAs(literal string) {
	t.decision = Replace
	t.replacement = literal
}

// Decision returns the decision recorded so far.
func (t *Tag) Decision() Decision { return t.decision }

// Replacement returns the literal set by RewriteAs, if that is the current
// decision.
func (t *Tag) Replacement() string { return t.replacement }

// allowedAttrs filters the original attributes down to the allow-list,
// keeping document order.
func (t *Tag) allowedAttrs() []Attribute {
	if len(t.allowed) == 0 {
		return nil
	}
	var out []Attribute
	for _, a := range t.attrs {
		if _, ok := t.allowed[attrName(a)]; ok {
			out = append(out, a)
		}
	}
	return out
}

func attrName(a Attribute) string {
	if a.Namespace == "" {
		return a.Key
	}
	return a.Namespace + ":" + a.Key
}
