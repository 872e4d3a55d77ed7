package tagsanitizer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrRead is wrapped by every error caused by reading the input.
var ErrRead = errors.New("tagsanitizer: read input")

// Option configures a TagParser.
type Option func(*options)

type options struct {
	document   bool
	trimText   bool
	noComments bool
	logger     *slog.Logger
}

// WithDocument parses the input as a complete HTML document. The implied
// html, head and body elements, and any doctype, are then part of the tree
// and are presented to the Decider like any other element.
//
// Without it the input is parsed as the contents of a <body> element.
func WithDocument() Option {
	return func(o *options) { o.document = true }
}

// WithTrimText trims surrounding whitespace from text and drops text that
// is only whitespace.
func WithTrimText() Option {
	return func(o *options) { o.trimText = true }
}

// WithoutComments leaves comments out of the output.
func WithoutComments() Option {
	return func(o *options) { o.noComments = true }
}

// WithLogger logs every decision at debug level to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// TagParser holds a parsed HTML tree that can be walked any number of times.
// The tree is never modified by a walk.
type TagParser struct {
	nodes []*html.Node
	opts  options
}

// New reads all of r and parses it. Malformed markup is repaired the way a
// browser would; the only error is failing to read r, which wraps ErrRead.
func New(r io.Reader, opts ...Option) (*TagParser, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	nodes, err := parse(bytes.NewReader(src), o.document)
	if err != nil {
		return nil, fmt.Errorf("tagsanitizer: parse: %w", err)
	}
	return &TagParser{nodes: nodes, opts: o}, nil
}

// NewString is New for an in-memory string.
func NewString(s string, opts ...Option) (*TagParser, error) {
	return New(strings.NewReader(s), opts...)
}

func parse(r io.Reader, document bool) ([]*html.Node, error) {
	// Scripting is off so that <noscript> contents are parsed as markup and
	// reach the Decider.
	noScript := html.ParseOptionEnableScripting(false)

	if document {
		doc, err := html.ParseWithOptions(r, noScript)
		if err != nil {
			return nil, err
		}
		var nodes []*html.Node
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			nodes = append(nodes, c)
		}
		return nodes, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragmentWithOptions(r, body, noScript)
}

// Walk visits every element in document order, asks fn what to do with it,
// and returns the resulting HTML. A nil fn keeps every element and drops
// every attribute.
func (p *TagParser) Walk(fn Decider) string {
	w := &walker{decide: fn, opts: &p.opts}
	for _, n := range p.nodes {
		w.walk(n, 1, false)
	}
	return w.buf.String()
}

// Sanitize parses r and walks it with fn.
func Sanitize(r io.Reader, fn Decider, opts ...Option) (string, error) {
	p, err := New(r, opts...)
	if err != nil {
		return "", err
	}
	return p.Walk(fn), nil
}

// SanitizeString is Sanitize for an in-memory string.
func SanitizeString(s string, fn Decider, opts ...Option) (string, error) {
	return Sanitize(strings.NewReader(s), fn, opts...)
}
