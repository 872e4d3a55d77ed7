package tagsanitizer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/njchilds90/tagsanitizer"
)

func sanitizePolicy(t *testing.T, input string, p *tagsanitizer.Policy, opts ...tagsanitizer.Option) string {
	t.Helper()
	d, err := p.Decider()
	if err != nil {
		t.Fatal(err)
	}
	return walkString(t, input, d, opts...)
}

func TestPolicy_ScriptStripped(t *testing.T) {
	got := sanitizePolicy(t, `<p>Hello</p><script>alert('xss')</script>`, tagsanitizer.DefaultPolicy())
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Errorf("script found in output: %s", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("expected Hello in output: %s", got)
	}
}

func TestPolicy_JavascriptHrefBlocked(t *testing.T) {
	for _, input := range []string{
		`<a href="javascript:alert(1)">click</a>`,
		`<a href="&#106;avascript:alert(1)">click</a>`,
		`<a href="java&#x09;script:alert(1)">click</a>`,
		`<a href=" JAVASCRIPT:alert(1)">click</a>`,
	} {
		got := sanitizePolicy(t, input, tagsanitizer.DefaultPolicy())
		if got != `<a>click</a>` {
			t.Errorf("javascript href survived sanitization of %s: %s", input, got)
		}
	}
}

func TestPolicy_DataUriBlocked(t *testing.T) {
	got := sanitizePolicy(t, `<img src="data:text/html,<script>alert(1)</script>">`, tagsanitizer.DefaultPolicy())
	if strings.Contains(got, "data:") {
		t.Errorf("data URI survived sanitization: %s", got)
	}
}

func TestPolicy_AllowedTagPreserved(t *testing.T) {
	got := sanitizePolicy(t, `<p><b>bold</b> and <i>italic</i></p>`, tagsanitizer.DefaultPolicy())
	if got != `<p><b>bold</b> and <i>italic</i></p>` {
		t.Errorf("got %s", got)
	}
}

func TestPolicy_RelativeURLAllowed(t *testing.T) {
	got := sanitizePolicy(t, `<a href="/about" onclick="x()">About</a>`, tagsanitizer.DefaultPolicy())
	if got != `<a href="/about">About</a>` {
		t.Errorf("got %s", got)
	}
}

func TestPolicy_GlobalAttributes(t *testing.T) {
	got := sanitizePolicy(t, `<span id="s" class="c" style="color:red">x</span>`, tagsanitizer.DefaultPolicy())
	if got != `<span id="s" class="c">x</span>` {
		t.Errorf("got %s", got)
	}
}

func TestPolicy_StripDisallowed(t *testing.T) {
	p := &tagsanitizer.Policy{
		AllowedTags:     []string{"p"},
		StripDisallowed: true,
	}
	got := sanitizePolicy(t, `<p>keep</p><div>gone</div>`, p)
	if got != `<p>keep</p>` {
		t.Errorf("div should be stripped: %s", got)
	}
}

func TestPolicy_UnwrapDisallowed(t *testing.T) {
	p := &tagsanitizer.Policy{
		AllowedTags: []string{"p"},
	}
	got := sanitizePolicy(t, `<p>keep</p><div>unwrapped</div>`, p)
	if got != `<p>keep</p>unwrapped` {
		t.Errorf("div should be unwrapped: %s", got)
	}
}

func TestPolicy_Precedence(t *testing.T) {
	p := &tagsanitizer.Policy{
		AllowedTags: []string{"b", "i", "u"},
		DropTags:    []string{"b"},
		Rewrites:    map[string]string{"b": "B", "i": "I"},
		UnwrapTags:  []string{"i", "u"},
	}
	got := sanitizePolicy(t, `<b>1</b><i>2</i><u>3</u>`, p)
	if got != `I3` {
		t.Errorf("got %s", got)
	}
}

func TestPolicy_MaxDepth(t *testing.T) {
	p := tagsanitizer.DefaultPolicy()
	p.MaxDepth = 2
	got := sanitizePolicy(t, `<div><div><div><b>deep</b></div></div></div>`, p)
	if got != `<div><div>deep</div></div>` {
		t.Errorf("nodes beyond MaxDepth should be unwrapped: %s", got)
	}
}

func TestPolicy_Rewrite(t *testing.T) {
	p := &tagsanitizer.Policy{
		Rewrites: map[string]string{
			"img": `<a href="{{.Attr "src"}}">{{basename (.Attr "src")}}</a>`,
		},
	}
	got := sanitizePolicy(t, `<p><img src="https://example.com/p/cat.png?s=1" onerror="x()"></p>`, p)
	want := `<a href="https://example.com/p/cat.png?s=1">cat.png</a>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPolicy_RewriteEscapesAttributes(t *testing.T) {
	p := &tagsanitizer.Policy{
		AllowedTags: []string{"p"},
		Rewrites:    map[string]string{"img": `<i title="{{.Attr "alt"}}">{{.Name}}</i>`},
	}
	got := sanitizePolicy(t, `<p><img alt='"><script>'></p>`, p)
	want := `<p><i title="&#34;&gt;&lt;script&gt;">img</i></p>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestPolicy_BadRewriteTemplate(t *testing.T) {
	p := &tagsanitizer.Policy{Rewrites: map[string]string{"img": "{{.Attr"}}
	if _, err := p.Decider(); err == nil {
		t.Fatal("expected template error")
	} else if !strings.Contains(err.Error(), "<img>") {
		t.Errorf("error should name the tag: %v", err)
	}
}

func TestPolicy_EndToEnd(t *testing.T) {
	p := &tagsanitizer.Policy{
		AllowedTags:       []string{"p"},
		AllowedAttributes: map[string][]string{"*": {"style"}},
		UnwrapTags:        []string{"html", "body"},
		Rewrites:          map[string]string{"img": "<b>Images not allowed</b>"},
	}
	got := sanitizePolicy(t, `<html><body><p style="x">hi</p><img src="a.png"></body></html>`, p, tagsanitizer.WithDocument())
	if got != `<p style="x">hi</p><b>Images not allowed</b>` {
		t.Errorf("got %s", got)
	}
}

func TestDefaultPolicy_Document(t *testing.T) {
	input := `<!DOCTYPE html><html><head><title>x</title><style>p{}</style></head><body><p>hi</p></body></html>`
	got := sanitizePolicy(t, input, tagsanitizer.DefaultPolicy(), tagsanitizer.WithDocument())
	if got != `<!DOCTYPE html><p>hi</p>` {
		t.Errorf("got %s", got)
	}
}

func TestStrictPolicy_StripsDivs(t *testing.T) {
	got := sanitizePolicy(t, `<b>ok</b><div>gone</div>`, tagsanitizer.StrictPolicy())
	if got != `<b>ok</b>` {
		t.Errorf("StrictPolicy should strip div: %s", got)
	}
}

func TestStrictPolicy_NoAttributes(t *testing.T) {
	got := sanitizePolicy(t, `<p class="x"><b id="y">ok</b></p>`, tagsanitizer.StrictPolicy())
	if got != `<p><b>ok</b></p>` {
		t.Errorf("got %s", got)
	}
}

func TestLoadPolicy(t *testing.T) {
	src := `
allowed_tags = ["a", "p"]
allowed_schemes = ["https"]
drop_tags = ["script"]
strip_disallowed = true
max_depth = 8

[allowed_attributes]
a = ["href"]

[rewrites]
img = "[image]"
`
	p, err := tagsanitizer.LoadPolicy(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if !p.StripDisallowed || p.MaxDepth != 8 || len(p.AllowedTags) != 2 {
		t.Errorf("unexpected policy %+v", p)
	}
	got := sanitizePolicy(t, `<p><a href="https://x.io" title="t">x</a><img><script>s</script><span>d</span></p>`, p)
	if got != `<p><a href="https://x.io">x</a>[image]</p>` {
		t.Errorf("got %s", got)
	}
}

func TestLoadPolicy_UnknownField(t *testing.T) {
	if _, err := tagsanitizer.LoadPolicy(strings.NewReader(`allow_everything = true`)); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadPolicyFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(name, []byte(`allowed_tags = ["b"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := tagsanitizer.LoadPolicyFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.AllowedTags) != 1 || p.AllowedTags[0] != "b" {
		t.Errorf("unexpected policy %+v", p)
	}

	if _, err := tagsanitizer.LoadPolicyFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPolicy_MarshalTOML(t *testing.T) {
	out, err := tagsanitizer.StrictPolicy().MarshalTOML()
	if err != nil {
		t.Fatal(err)
	}
	p, err := tagsanitizer.LoadPolicy(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("re-reading marshaled policy: %v\n%s", err, out)
	}
	got := sanitizePolicy(t, `<b>ok</b><div>gone</div>`, p)
	if got != `<b>ok</b>` {
		t.Errorf("got %s", got)
	}
}
