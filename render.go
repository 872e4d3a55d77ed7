package tagsanitizer

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

// voidElements cannot have children and are written without an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
}

func isVoid(n *html.Node) bool {
	return n.Namespace == "" && voidElements[n.DataAtom]
}

func isRawText(n *html.Node) bool {
	return n.Namespace == "" && rawTextElements[n.DataAtom]
}

// dropsLeadingNewline reports whether n is an element whose first newline
// would be dropped by the parser.
func dropsLeadingNewline(n *html.Node) bool {
	if n.Namespace != "" {
		return false
	}
	switch n.DataAtom {
	case atom.Pre, atom.Textarea, atom.Listing:
	default:
		return false
	}
	c := n.FirstChild
	return c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n")
}

func writeStartTag(b *strings.Builder, name string, attrs []Attribute) {
	b.WriteByte('<')
	b.WriteString(name)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(attrName(a))
		b.WriteString(`="`)
		attrEscaper.WriteString(b, a.Val)
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

func writeEndTag(b *strings.Builder, name string) {
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
}

func writeText(b *strings.Builder, s string) {
	textEscaper.WriteString(b, s)
}

func writeComment(b *strings.Builder, s string) {
	b.WriteString("<!--")
	b.WriteString(s)
	b.WriteString("-->")
}

// writeDoctype writes n the way the parser read it: the name followed by
// the public and system identifiers, if any.
func writeDoctype(b *strings.Builder, n *html.Node) {
	b.WriteString("<!DOCTYPE ")
	b.WriteString(n.Data)

	var public, system string
	for _, a := range n.Attr {
		switch a.Key {
		case "public":
			public = a.Val
		case "system":
			system = a.Val
		}
	}
	switch {
	case public != "":
		b.WriteString(" PUBLIC ")
		writeQuoted(b, public)
		if system != "" {
			b.WriteByte(' ')
			writeQuoted(b, system)
		}
	case system != "":
		b.WriteString(" SYSTEM ")
		writeQuoted(b, system)
	}
	b.WriteByte('>')
}

// writeQuoted quotes s with double quotes, or single quotes when s itself
// contains a double quote.
func writeQuoted(b *strings.Builder, s string) {
	q := byte('"')
	if strings.IndexByte(s, '"') >= 0 {
		q = '\''
	}
	b.WriteByte(q)
	b.WriteString(s)
	b.WriteByte(q)
}
