package tagsanitizer

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
)

// walker is the state of one Walk: the output buffer and the decider.
type walker struct {
	buf    strings.Builder
	decide Decider
	opts   *options
}

// walk renders n. depth is the tree depth an element at n would have; raw
// reports whether n's parent is a kept raw text element such as <script>.
func (w *walker) walk(n *html.Node, depth int, raw bool) {
	switch n.Type {
	case html.ElementNode:
		w.element(n, depth)

	case html.TextNode:
		text := n.Data
		if w.opts.trimText {
			if text = strings.TrimSpace(text); text == "" {
				return
			}
		}
		if raw {
			w.buf.WriteString(text)
		} else {
			writeText(&w.buf, text)
		}

	case html.CommentNode:
		if !w.opts.noComments {
			writeComment(&w.buf, n.Data)
		}

	case html.DoctypeNode:
		writeDoctype(&w.buf, n)

	case html.DocumentNode:
		w.children(n, depth, false)
	}
}

func (w *walker) element(n *html.Node, depth int) {
	t := newTag(n.Data, snapshotAttrs(n.Attr), depth)
	if w.decide != nil {
		w.decide(t)
	}
	if l := w.opts.logger; l != nil {
		l.LogAttrs(context.Background(), slog.LevelDebug, "tag decided",
			slog.String("tag", t.name),
			slog.Int("depth", depth),
			slog.String("decision", t.decision.String()),
		)
	}

	switch t.decision {
	case DropSelfAndChildren:
		return

	case Replace:
		w.buf.WriteString(t.replacement)
		return

	case DropSelf:
		// Children take this element's place; they are no longer inside a
		// rendered raw text element, so their text is escaped.
		w.children(n, depth+1, false)
		return
	}

	writeStartTag(&w.buf, n.Data, t.allowedAttrs())
	if isVoid(n) {
		return
	}
	if dropsLeadingNewline(n) {
		// The parser eats one newline after <pre>, <textarea> and
		// <listing>; write one back so the text survives reparsing.
		w.buf.WriteByte('\n')
	}
	w.children(n, depth+1, isRawText(n))
	writeEndTag(&w.buf, n.Data)
}

func (w *walker) children(n *html.Node, depth int, raw bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, depth, raw)
	}
}

func snapshotAttrs(attrs []html.Attribute) []Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = Attribute{Namespace: a.Namespace, Key: a.Key, Val: a.Val}
	}
	return out
}
