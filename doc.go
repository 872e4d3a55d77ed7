// Package tagsanitizer rewrites HTML one tag at a time under the control of
// a caller supplied function.
//
// # Overview
//
// The input is parsed with the golang.org/x/net/html parser, which repairs
// malformed markup the way browsers do. [TagParser.Walk] then visits every
// element in document order and hands a [Tag] to a [Decider]. The Decider
// looks at the tag name and attributes and chooses one of:
//   - keep the element (the default), with only the attributes it allows
//     through [Tag.AllowAttribute]
//   - [Tag.IgnoreSelf]: drop the element but keep its children in its place
//   - [Tag.IgnoreSelfAndContents]: drop the element and everything in it
//   - [Tag.RewriteAs]: replace the element and everything in it with
//     literal markup
//
// If the Decider calls several of these the last call wins. Children of a
// dropped or rewritten element are never visited.
//
// Attributes are removed unless allowed; there is no "allow all".
//
// # Example
//
//	out, err := tagsanitizer.SanitizeString(input, func(t *tagsanitizer.Tag) {
//		switch t.Name() {
//		case "script", "style":
//			t.IgnoreSelfAndContents()
//		case "img":
//			t.RewriteAs("<b>Images not allowed</b>")
//		case "a":
//			t.AllowAttribute("href")
//		}
//	})
//
// # Policies
//
// A [Policy] describes a Decider as data and can be loaded from TOML with
// [LoadPolicy]. [DefaultPolicy] and [StrictPolicy] are ready-made starting
// points.
//
// # Fragments and documents
//
// By default the input is treated as the contents of a <body> element, so
// the html, head and body wrappers the parser would add never show up. Use
// [WithDocument] to sanitize whole documents.
//
// # Security
//
// The package itself enforces nothing: what is safe is up to the Decider.
// Text is escaped and attribute values are quoted and escaped, but the
// literal passed to [Tag.RewriteAs] is written exactly as given.
//
// # Thread Safety
//
// A TagParser may be walked by several goroutines at once. A Decider
// returned by [Policy.Decider] is safe for concurrent use.
package tagsanitizer
