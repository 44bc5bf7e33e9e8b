// Package richtext renders Storyblok rich-text documents to HTML as a templ
// component.
package richtext

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/httpjpg/httpjpg/storyblok"
)

// Node is one element of a rich-text document tree.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark is an inline formatting annotation on a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Options hooks the renderer into the rest of the site.
type Options struct {
	// ResolveLink maps a link mark to an href. linkType is Storyblok's
	// "story", "url", "email" or "asset".
	ResolveLink func(linkType, href string) string
	// ImageSrc rewrites inline image sources.
	ImageSrc func(src string) string
	// RenderBlok renders a block embedded in the document.
	RenderBlok func(b storyblok.Blok) templ.Component
}

// Parse converts a decoded JSON field into a document. It reports false when
// v is not a rich-text document.
func Parse(v any) (Node, bool) {
	if v == nil {
		return Node{}, false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return Node{}, false
	}
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil || n.Type != "doc" {
		return Node{}, false
	}
	return n, true
}

// Render returns a templ.Component that writes doc as HTML.
func Render(doc Node, opts Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		r := renderer{ctx: ctx, buf: &buf, opts: opts}
		if err := r.node(doc); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderString renders doc to a string.
func RenderString(ctx context.Context, doc Node, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := Render(doc, opts).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type renderer struct {
	ctx  context.Context
	buf  *bytes.Buffer
	opts Options
}

var simpleTags = map[string]string{
	"paragraph":    "p",
	"bullet_list":  "ul",
	"ordered_list": "ol",
	"list_item":    "li",
	"blockquote":   "blockquote",
}

func (r *renderer) node(n Node) error {
	switch n.Type {
	case "doc":
		return r.children(n)
	case "text":
		r.text(n)
		return nil
	case "heading":
		level := attrInt(n.Attrs, "level")
		if level < 1 || level > 6 {
			level = 2
		}
		tag := "h" + strconv.Itoa(level)
		r.buf.WriteString("<" + tag + ">")
		if err := r.children(n); err != nil {
			return err
		}
		r.buf.WriteString("</" + tag + ">")
		return nil
	case "code_block":
		r.buf.WriteString("<pre><code")
		if class := attrString(n.Attrs, "class"); class != "" {
			r.buf.WriteString(` class="` + html.EscapeString(class) + `"`)
		}
		r.buf.WriteString(">")
		for _, c := range n.Content {
			r.buf.WriteString(html.EscapeString(c.Text))
		}
		r.buf.WriteString("</code></pre>")
		return nil
	case "horizontal_rule":
		r.buf.WriteString("<hr>")
		return nil
	case "hard_break":
		r.buf.WriteString("<br>")
		return nil
	case "image":
		src := attrString(n.Attrs, "src")
		if r.opts.ImageSrc != nil {
			src = r.opts.ImageSrc(src)
		}
		r.buf.WriteString(`<img src="` + html.EscapeString(src) + `" alt="` +
			html.EscapeString(attrString(n.Attrs, "alt")) + `" loading="lazy">`)
		return nil
	case "blok":
		return r.bloks(n)
	}
	if tag, ok := simpleTags[n.Type]; ok {
		r.buf.WriteString("<" + tag + ">")
		if err := r.children(n); err != nil {
			return err
		}
		r.buf.WriteString("</" + tag + ">")
		return nil
	}
	// Unknown node types keep their text content.
	return r.children(n)
}

func (r *renderer) children(n Node) error {
	for _, c := range n.Content {
		if err := r.node(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) bloks(n Node) error {
	if r.opts.RenderBlok == nil {
		return nil
	}
	body, _ := n.Attrs["body"].([]any)
	for _, item := range body {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if err := r.opts.RenderBlok(storyblok.Blok(m)).Render(r.ctx, r.buf); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) text(n Node) {
	closing := make([]string, 0, len(n.Marks))
	for _, m := range n.Marks {
		o, c := r.mark(m)
		r.buf.WriteString(o)
		closing = append(closing, c)
	}
	r.buf.WriteString(html.EscapeString(n.Text))
	for i := len(closing) - 1; i >= 0; i-- {
		r.buf.WriteString(closing[i])
	}
}

func (r *renderer) mark(m Mark) (string, string) {
	switch m.Type {
	case "bold":
		return "<strong>", "</strong>"
	case "italic":
		return "<em>", "</em>"
	case "strike":
		return "<s>", "</s>"
	case "underline":
		return "<u>", "</u>"
	case "code":
		return "<code>", "</code>"
	case "superscript":
		return "<sup>", "</sup>"
	case "subscript":
		return "<sub>", "</sub>"
	case "link":
		href := r.href(m.Attrs)
		open := `<a href="` + html.EscapeString(href) + `"`
		if attrString(m.Attrs, "target") == "_blank" {
			open += ` target="_blank" rel="noopener noreferrer"`
		}
		return open + ">", "</a>"
	}
	return "", ""
}

func (r *renderer) href(attrs map[string]any) string {
	linkType := attrString(attrs, "linktype")
	href := attrString(attrs, "href")
	switch {
	case linkType == storyblok.LinkTypeEmail && !strings.HasPrefix(href, "mailto:"):
		href = "mailto:" + href
	case r.opts.ResolveLink != nil:
		href = r.opts.ResolveLink(linkType, href)
	}
	if anchor := attrString(attrs, "anchor"); anchor != "" {
		href += "#" + anchor
	}
	return SafeHref(href)
}

// SafeHref replaces hrefs with a script-capable scheme by "#".
func SafeHref(href string) string {
	trimmed := strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range []string{"javascript:", "vbscript:", "data:"} {
		if strings.HasPrefix(trimmed, scheme) {
			return "#"
		}
	}
	return href
}

func attrString(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func attrInt(attrs map[string]any, key string) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
