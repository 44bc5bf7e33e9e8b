package richtext

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/httpjpg/httpjpg/storyblok"
)

func mustParse(t *testing.T, v map[string]any) Node {
	t.Helper()
	n, ok := Parse(v)
	if !ok {
		t.Fatalf("Parse failed for %v", v)
	}
	return n
}

func render(t *testing.T, doc Node, opts Options) string {
	t.Helper()
	got, err := RenderString(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("RenderString: %v", err)
	}
	return got
}

func text(s string, marks ...Mark) Node {
	return Node{Type: "text", Text: s, Marks: marks}
}

func TestParseRejectsNonDocuments(t *testing.T) {
	if _, ok := Parse(nil); ok {
		t.Error("nil should not parse")
	}
	if _, ok := Parse("plain string"); ok {
		t.Error("string should not parse")
	}
	if _, ok := Parse(map[string]any{"type": "paragraph"}); ok {
		t.Error("non-doc root should not parse")
	}
}

func TestRenderParagraphAndHeading(t *testing.T) {
	doc := mustParse(t, map[string]any{
		"type": "doc",
		"content": []any{
			map[string]any{"type": "heading", "attrs": map[string]any{"level": float64(3)},
				"content": []any{map[string]any{"type": "text", "text": "Title"}}},
			map[string]any{"type": "paragraph",
				"content": []any{map[string]any{"type": "text", "text": "Hello <world>"}}},
		},
	})
	got := render(t, doc, Options{})
	want := "<h3>Title</h3><p>Hello &lt;world&gt;</p>"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderMarksNestInOrder(t *testing.T) {
	doc := Node{Type: "doc", Content: []Node{{Type: "paragraph", Content: []Node{
		text("x", Mark{Type: "bold"}, Mark{Type: "italic"}),
	}}}}
	got := render(t, doc, Options{})
	if got != "<p><strong><em>x</em></strong></p>" {
		t.Errorf("marks = %q", got)
	}
}

func TestRenderLinks(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		want  string
	}{
		{"story", map[string]any{"linktype": "story", "href": "/portfolio/about"}, `<a href="/about/">`},
		{"url blank", map[string]any{"linktype": "url", "href": "https://x.test", "target": "_blank"}, `<a href="https://x.test" target="_blank" rel="noopener noreferrer">`},
		{"email", map[string]any{"linktype": "email", "href": "hi@x.test"}, `<a href="mailto:hi@x.test">`},
		{"anchor", map[string]any{"linktype": "url", "href": "/a", "anchor": "top"}, `<a href="/a#top">`},
		{"javascript", map[string]any{"linktype": "url", "href": "JavaScript:alert(1)"}, `<a href="#">`},
	}
	opts := Options{ResolveLink: func(linkType, href string) string {
		if linkType == storyblok.LinkTypeStory {
			return strings.Replace(href, "/portfolio/", "/", 1) + "/"
		}
		return href
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Node{Type: "doc", Content: []Node{text("go", Mark{Type: "link", Attrs: tt.attrs})}}
			got := render(t, doc, opts)
			if !strings.HasPrefix(got, tt.want) || !strings.HasSuffix(got, "go</a>") {
				t.Errorf("link = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestRenderListsAndBlocks(t *testing.T) {
	doc := Node{Type: "doc", Content: []Node{
		{Type: "bullet_list", Content: []Node{
			{Type: "list_item", Content: []Node{{Type: "paragraph", Content: []Node{text("a")}}}},
		}},
		{Type: "code_block", Attrs: map[string]any{"class": "language-go"}, Content: []Node{text("x := 1 < 2")}},
		{Type: "horizontal_rule"},
		{Type: "paragraph", Content: []Node{text("a"), {Type: "hard_break"}, text("b")}},
	}}
	got := render(t, doc, Options{})
	want := `<ul><li><p>a</p></li></ul><pre><code class="language-go">x := 1 &lt; 2</code></pre><hr><p>a<br>b</p>`
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderImageAndBlok(t *testing.T) {
	doc := Node{Type: "doc", Content: []Node{
		{Type: "image", Attrs: map[string]any{"src": "https://a.storyblok.com/f/1/a.jpg", "alt": "A \"quote\""}},
		{Type: "blok", Attrs: map[string]any{"body": []any{
			map[string]any{"component": "divider", "_uid": "1"},
		}}},
	}}
	opts := Options{
		ImageSrc: func(src string) string { return src + "/m/" },
		RenderBlok: func(b storyblok.Blok) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<"+b.Component()+"/>")
				return err
			})
		},
	}
	got := render(t, doc, opts)
	want := `<img src="https://a.storyblok.com/f/1/a.jpg/m/" alt="A &#34;quote&#34;" loading="lazy"><divider/>`
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestSafeHref(t *testing.T) {
	for in, want := range map[string]string{
		"https://x.test":     "https://x.test",
		" javascript:void 0": "#",
		"data:text/html,hi":  "#",
		"/about/":            "/about/",
	} {
		if got := SafeHref(in); got != want {
			t.Errorf("SafeHref(%q) = %q, want %q", in, got, want)
		}
	}
}
