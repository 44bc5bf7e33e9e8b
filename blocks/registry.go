// Package blocks turns a story's component tree into HTML. Each Storyblok
// component name maps to a Renderer in a Registry; names without a renderer
// fall back to a visible placeholder.
package blocks

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/httpjpg/httpjpg/imageservice"
	"github.com/httpjpg/httpjpg/richtext"
	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
)

// Renderer renders one block. Container renderers use env to render their
// children through the same registry.
type Renderer func(env Env, b storyblok.Blok) templ.Component

// Registry maps component names to renderers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Default returns a registry with every built-in component registered.
func Default() *Registry {
	r := NewRegistry()
	for name, fn := range builtins() {
		r.Register(name, fn)
	}
	return r
}

// Register adds or replaces the renderer for name.
func (r *Registry) Register(name string, fn Renderer) {
	r.mu.Lock()
	r.renderers[name] = fn
	r.mu.Unlock()
}

// Lookup returns the renderer registered for name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.renderers[name]
	return fn, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for n := range r.renderers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Env carries what renderers need besides the block itself.
type Env struct {
	Registry *Registry
	Resolver slugs.Resolver
	Images   imageservice.Transformer
	Draft    bool // draft mode adds Visual Editor attributes
}

// Render dispatches b to its renderer, or to Missing when the component
// name is unknown.
func (e Env) Render(b storyblok.Blok) templ.Component {
	if e.Registry != nil {
		if fn, ok := e.Registry.Lookup(b.Component()); ok {
			return fn(e, b)
		}
	}
	return Missing(b.Component())
}

// RenderAll renders bs in order.
func (e Env) RenderAll(bs []storyblok.Blok) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, b := range bs {
			if err := e.Render(b).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Href turns a multilink into a safe href. Story links are mapped from
// their full slug to the public path.
func (e Env) Href(l storyblok.Link) string {
	var href string
	switch l.LinkType {
	case storyblok.LinkTypeStory:
		if l.CachedURL == "" && l.URL == "" {
			return ""
		}
		target := l.CachedURL
		if target == "" {
			target = l.URL
		}
		href = e.Resolver.PublicPath(target)
	case storyblok.LinkTypeEmail:
		addr := l.Email
		if addr == "" {
			addr = l.URL
		}
		if addr == "" {
			return ""
		}
		href = "mailto:" + addr
	default:
		href = l.URL
		if href == "" {
			href = l.CachedURL
		}
	}
	if href == "" {
		return ""
	}
	if l.Anchor != "" {
		href += "#" + l.Anchor
	}
	return richtext.SafeHref(href)
}

// RichTextOptions wires the rich-text renderer to this environment.
func (e Env) RichTextOptions() richtext.Options {
	return richtext.Options{
		ResolveLink: func(linkType, href string) string {
			if linkType == storyblok.LinkTypeStory {
				return e.Resolver.PublicPath(href)
			}
			return href
		},
		ImageSrc: func(src string) string {
			return e.Images.ProcessedImage(src, "", "", "")
		},
		RenderBlok: e.Render,
	}
}

// Missing renders the placeholder for a component without a renderer.
func Missing(name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if name == "" {
			name = "(unnamed)"
		}
		esc := html.EscapeString(name)
		_, err := io.WriteString(w, `<div class="missing-component" data-component="`+esc+
			`">The component <code>`+esc+`</code> has not been created yet.</div>`)
		return err
	})
}

// editable returns the Visual Editor attributes for b in draft mode.
// Storyblok marks editable blocks with an "_editable" HTML comment
// holding JSON: <!--#storyblok#{"name":...,"space":...,"uid":...,"id":...}-->.
func (e Env) editable(b storyblok.Blok) string {
	if !e.Draft {
		return ""
	}
	raw := b.String("_editable")
	if raw == "" {
		return ""
	}
	raw = strings.TrimPrefix(raw, "<!--#storyblok#")
	raw = strings.TrimSuffix(raw, "-->")
	var meta struct {
		ID  string `json:"id"`
		UID string `json:"uid"`
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return ""
	}
	return ` data-blok-c="` + html.EscapeString(raw) + `" data-blok-uid="` +
		html.EscapeString(meta.ID+"-"+meta.UID) + `"`
}
