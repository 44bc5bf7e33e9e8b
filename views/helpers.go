package views

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

// CreativeWorkJsonLD produces a Schema.org CreativeWork block for a
// portfolio page.
func CreativeWorkJsonLD(cfg SiteConfig, meta PageMeta) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "CreativeWork",
		"name":     meta.Title,
		"url":      meta.URL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   meta.URL,
		},
	}
	if meta.Description != "" {
		data["description"] = meta.Description
	}
	if meta.Image != "" {
		data["image"] = meta.Image
	}
	if !meta.Published.IsZero() {
		data["datePublished"] = meta.Published.UTC().Format(time.RFC3339)
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	// json.Marshal already escapes <, > and &, so the result is safe
	// inside a <script> element.
	return string(b)
}

func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return fn(w)
	})
}

type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(parts ...string) {
	for _, p := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.w, p)
	}
}

func (w *writer) render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

func esc(s string) string { return html.EscapeString(s) }
