package tagsanitizer

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"text/template"

	"github.com/naoina/toml"
	"golang.org/x/net/html"
)

//go:embed default_policy.toml
var defaultPolicyTOML []byte

//go:embed strict_policy.toml
var strictPolicyTOML []byte

// Policy is a declarative Decider. For each element the first matching rule
// wins, in this order: DropTags, Rewrites, UnwrapTags, AllowedTags, and
// finally the StripDisallowed fallback.
type Policy struct {
	// AllowedTags is the list of tag names that are kept in output.
	AllowedTags []string `toml:"allowed_tags,omitempty"`

	// AllowedAttributes maps tag names to the list of attribute names
	// that are kept on that tag. Use "*" as a key to allow attributes
	// on every tag.
	AllowedAttributes map[string][]string `toml:"allowed_attributes,omitempty"`

	// AllowedSchemes lists the URL schemes (e.g. "http", "https",
	// "mailto") permitted in URL attributes such as href and src. An
	// attribute whose URL uses another scheme is not allowed. Empty
	// means URLs are not checked.
	AllowedSchemes []string `toml:"allowed_schemes,omitempty"`

	// UnwrapTags are removed while their children are kept.
	UnwrapTags []string `toml:"unwrap_tags,omitempty"`

	// DropTags are removed together with everything inside them.
	DropTags []string `toml:"drop_tags,omitempty"`

	// Rewrites maps a tag name to a text/template whose output replaces
	// the element and its children. Dot has .Name and .Attr "name", the
	// HTML escaped attribute value; the basename function returns the last
	// path element of a URL.
	Rewrites map[string]string `toml:"rewrites,omitempty"`

	// StripDisallowed controls behavior for tags matched by no rule.
	// When true the element and all its descendants are removed.
	// When false (default) only the element is removed and its
	// children are kept.
	StripDisallowed bool `toml:"strip_disallowed,omitempty"`

	// MaxDepth limits how deeply nested elements may be. Elements at
	// a depth greater than MaxDepth are unwrapped (children promoted).
	// Zero means unlimited.
	MaxDepth int `toml:"max_depth,omitempty"`
}

// DefaultPolicy returns a Policy that allows a common safe subset of
// HTML used in content: headings, paragraphs, formatting, lists, links,
// images, code and blockquotes. script, style and other dangerous tags are
// dropped with their contents. Links and image sources must use http,
// https, or mailto.
func DefaultPolicy() *Policy {
	return mustLoadPolicy(defaultPolicyTOML)
}

// StrictPolicy returns a Policy that allows only the most basic inline
// formatting tags with no attributes at all, suitable for comment
// sections and user-generated content where you want minimal markup.
func StrictPolicy() *Policy {
	return mustLoadPolicy(strictPolicyTOML)
}

func mustLoadPolicy(src []byte) *Policy {
	p, err := LoadPolicy(bytes.NewReader(src))
	if err != nil {
		panic("bad embedded policy: " + err.Error())
	}
	return p
}

// LoadPolicy reads a TOML encoded Policy from r.
func LoadPolicy(r io.Reader) (*Policy, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &Policy{}
	if err := toml.Unmarshal(src, p); err != nil {
		return nil, fmt.Errorf("tagsanitizer: decode policy: %w", err)
	}
	return p, nil
}

// LoadPolicyFile reads a TOML encoded Policy from the named file.
func LoadPolicyFile(name string) (*Policy, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := LoadPolicy(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// MarshalTOML encodes p as TOML.
func (p *Policy) MarshalTOML() ([]byte, error) {
	type raw Policy
	return toml.Marshal((*raw)(p))
}

// urlAttributes hold URLs and are checked against AllowedSchemes.
var urlAttributes = map[string]bool{
	"action":     true,
	"background": true,
	"cite":       true,
	"formaction": true,
	"href":       true,
	"poster":     true,
	"src":        true,
	"xlink:href": true,
}

// compiledPolicy is a Policy with its lists turned into sets and its
// rewrite templates parsed.
type compiledPolicy struct {
	allowedTags    map[string]bool
	unwrapTags     map[string]bool
	dropTags       map[string]bool
	allowedAttrs   map[string]map[string]bool
	allowedSchemes map[string]bool
	rewrites       map[string]*template.Template
	strip          bool
	maxDepth       int
}

// Decider compiles p. It fails only if a rewrite template does not parse.
// Later changes to p do not affect the returned Decider.
func (p *Policy) Decider() (Decider, error) {
	c := &compiledPolicy{
		allowedTags:    sliceToSet(p.AllowedTags),
		unwrapTags:     sliceToSet(p.UnwrapTags),
		dropTags:       sliceToSet(p.DropTags),
		allowedAttrs:   make(map[string]map[string]bool, len(p.AllowedAttributes)),
		allowedSchemes: sliceToSet(p.AllowedSchemes),
		rewrites:       make(map[string]*template.Template, len(p.Rewrites)),
		strip:          p.StripDisallowed,
		maxDepth:       p.MaxDepth,
	}
	for tag, attrs := range p.AllowedAttributes {
		c.allowedAttrs[strings.ToLower(tag)] = sliceToSet(attrs)
	}
	for tag, text := range p.Rewrites {
		tmpl, err := template.New(tag).Funcs(rewriteFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("tagsanitizer: rewrite for <%s>: %w", tag, err)
		}
		c.rewrites[strings.ToLower(tag)] = tmpl
	}
	return c.decide, nil
}

// MustDecider is like Decider but panics on error.
func (p *Policy) MustDecider() Decider {
	d, err := p.Decider()
	if err != nil {
		panic(err)
	}
	return d
}

func (c *compiledPolicy) decide(t *Tag) {
	tag := strings.ToLower(t.Name())

	if c.dropTags[tag] {
		t.IgnoreSelfAndContents()
		return
	}
	if tmpl, ok := c.rewrites[tag]; ok {
		c.rewrite(t, tmpl)
		return
	}
	if c.unwrapTags[tag] {
		t.IgnoreSelf()
		return
	}
	if !c.allowedTags[tag] {
		if c.strip {
			t.IgnoreSelfAndContents()
		} else {
			t.IgnoreSelf()
		}
		return
	}
	if c.maxDepth > 0 && t.Depth() > c.maxDepth {
		t.IgnoreSelf()
		return
	}

	for _, a := range t.attrs {
		name := attrName(a)
		if !c.attrAllowed(strings.ToLower(name), tag) {
			continue
		}
		if urlAttributes[strings.ToLower(name)] && len(c.allowedSchemes) > 0 && !schemeAllowed(a.Val, c.allowedSchemes) {
			continue
		}
		t.AllowAttribute(name)
	}
}

func (c *compiledPolicy) attrAllowed(attr, tag string) bool {
	return c.allowedAttrs["*"][attr] || c.allowedAttrs[tag][attr]
}

func (c *compiledPolicy) rewrite(t *Tag, tmpl *template.Template) {
	var b strings.Builder
	if err := tmpl.Execute(&b, rewriteData{t}); err != nil {
		// A template that fails at run time drops the element.
		t.IgnoreSelfAndContents()
		return
	}
	t.RewriteAs(b.String())
}

// rewriteData is what a rewrite template sees as dot.
type rewriteData struct{ t *Tag }

func (d rewriteData) Name() string { return d.t.Name() }

// Attr returns the HTML escaped value of the named attribute, or "".
func (d rewriteData) Attr(name string) string {
	v, _ := d.t.Attr(name)
	return html.EscapeString(v)
}

var rewriteFuncs = template.FuncMap{
	"basename": basename,
}

// basename returns the last path element of a URL, without its query.
func basename(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	return path.Base(raw)
}

func schemeAllowed(raw string, schemes map[string]bool) bool {
	decoded := html.UnescapeString(strings.TrimSpace(raw))

	// Strip control chars that browsers ignore inside schemes.
	decoded = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, decoded)
	decoded = strings.ToLower(strings.TrimSpace(decoded))

	u, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		// Relative URL.
		return true
	}
	return schemes[u.Scheme]
}

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[strings.ToLower(v)] = true
	}
	return m
}
