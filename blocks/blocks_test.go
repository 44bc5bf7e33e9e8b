package blocks

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/httpjpg/httpjpg/imageservice"
	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
)

func testEnv() Env {
	return Env{
		Registry: Default(),
		Resolver: slugs.New("portfolio"),
		Images:   imageservice.Transformer{Hosts: imageservice.DefaultHosts, Quality: imageservice.DefaultQuality},
	}
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDefaultRegistryNames(t *testing.T) {
	names := Default().Names()
	for _, want := range []string{"page", "section", "grid", "headline", "text", "richtext", "image", "button", "video", "divider", "spacer"} {
		assert.Contains(t, names, want)
	}
}

func TestUnknownComponentRendersPlaceholder(t *testing.T) {
	env := testEnv()
	got := renderString(t, env.Render(storyblok.Blok{"component": "carousel<x>"}))
	assert.Contains(t, got, `class="missing-component"`)
	assert.Contains(t, got, "carousel&lt;x&gt;")

	got = renderString(t, Env{}.Render(storyblok.Blok{"component": "page"}))
	assert.Contains(t, got, "missing-component", "nil registry falls back to placeholder")
}

func TestRegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register("headline", func(env Env, b storyblok.Blok) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "custom:"+b.String("text"))
			return err
		})
	})
	env := Env{Registry: r}
	assert.Equal(t, "custom:hi", renderString(t, env.Render(storyblok.Blok{"component": "headline", "text": "hi"})))
}

func TestRenderPageTree(t *testing.T) {
	page := storyblok.Blok{
		"component": "page",
		"body": []any{
			map[string]any{"component": "headline", "text": "Hello & welcome", "level": "h1"},
			map[string]any{"component": "grid", "columns": "3", "items": []any{
				map[string]any{"component": "text", "text": "one\ntwo\n\nthree"},
				map[string]any{"component": "divider"},
			}},
		},
	}
	got := renderString(t, testEnv().Render(page))
	want := `<main class="page"><h1 class="headline">Hello &amp; welcome</h1>` +
		`<div class="grid" style="--grid-columns:3">` +
		`<div class="grid__item"><div class="text"><p>one<br>two</p><p>three</p></div></div>` +
		`<div class="grid__item"><hr class="divider"></div></div></main>`
	assert.Equal(t, want, got)
}

func TestRenderImage(t *testing.T) {
	b := storyblok.Blok{
		"component":    "image",
		"aspect_ratio": "16:9",
		"width":        float64(1600),
		"image": map[string]any{
			"filename": "https://a.storyblok.com/f/1/pic.jpg",
			"alt":      "Pic",
			"focus":    "300x200:301x201",
		},
	}
	got := renderString(t, testEnv().Render(b))
	assert.Contains(t, got, `src="https://a.storyblok.com/f/1/pic.jpg/m/1600x900/filters:quality(75):focal(300x200:1600x900)"`)
	assert.Contains(t, got, `width="1600" height="900"`)
	assert.Contains(t, got, "640w")
	assert.Contains(t, got, `alt="Pic"`)
}

func TestRenderExternalImageUntouched(t *testing.T) {
	b := storyblok.Blok{
		"component": "image",
		"image":     map[string]any{"filename": "https://images.example.com/p.jpg"},
	}
	got := renderString(t, testEnv().Render(b))
	assert.Contains(t, got, `src="https://images.example.com/p.jpg"`)
	assert.NotContains(t, got, "srcset")
}

func TestRenderImageWithoutAsset(t *testing.T) {
	got := renderString(t, testEnv().Render(storyblok.Blok{"component": "image"}))
	assert.Empty(t, got)
}

func TestButtonStoryLink(t *testing.T) {
	b := storyblok.Blok{
		"component": "button",
		"label":     "About",
		"variant":   "Primary",
		"link":      map[string]any{"linktype": "story", "cached_url": "portfolio/about", "anchor": "team"},
	}
	got := renderString(t, testEnv().Render(b))
	assert.Equal(t, `<a class="button button--primary" href="/about/#team">About</a>`, got)

	b["link"] = map[string]any{"linktype": "url", "url": "javascript:alert(1)"}
	got = renderString(t, testEnv().Render(b))
	assert.Contains(t, got, `href="#"`)

	delete(b, "link")
	got = renderString(t, testEnv().Render(b))
	assert.True(t, strings.HasPrefix(got, "<span"), got)
}

func TestEmbedURL(t *testing.T) {
	tests := map[string]string{
		"https://www.youtube.com/watch?v=abc123": "https://www.youtube-nocookie.com/embed/abc123",
		"https://youtu.be/abc123":                "https://www.youtube-nocookie.com/embed/abc123",
		"https://youtube.com/shorts/xyz":         "https://www.youtube-nocookie.com/embed/xyz",
		"https://vimeo.com/76979871":             "https://player.vimeo.com/video/76979871?dnt=1",
		"https://vimeo.com/channels/staff":       "",
		"https://example.com/video.mp4":          "",
		"not a url":                              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, EmbedURL(in), in)
	}
}

func TestRenderVideoFile(t *testing.T) {
	got := renderString(t, testEnv().Render(storyblok.Blok{"component": "video", "url": "https://cdn.example.com/v.mp4"}))
	assert.Contains(t, got, `<video src="https://cdn.example.com/v.mp4" title="Video" controls preload="metadata">`)
}

func TestRichTextBlockDelegatesEmbeddedBloks(t *testing.T) {
	b := storyblok.Blok{
		"component": "richtext",
		"content": map[string]any{
			"type": "doc",
			"content": []any{
				map[string]any{"type": "paragraph", "content": []any{
					map[string]any{"type": "text", "text": "see", "marks": []any{
						map[string]any{"type": "link", "attrs": map[string]any{"linktype": "story", "href": "portfolio/work"}},
					}},
				}},
				map[string]any{"type": "blok", "attrs": map[string]any{"body": []any{
					map[string]any{"component": "spacer", "size": "lg"},
				}}},
			},
		},
	}
	got := renderString(t, testEnv().Render(b))
	assert.Equal(t, `<div class="richtext"><p><a href="/work/">see</a></p><div class="spacer spacer--lg" aria-hidden="true"></div></div>`, got)
}

func TestEditableAttributesOnlyInDraft(t *testing.T) {
	b := storyblok.Blok{
		"component": "divider",
		"_editable": `<!--#storyblok#{"name": "divider", "space": "1", "uid": "u-1", "id": "42"}-->`,
	}
	env := testEnv()
	assert.Equal(t, `<hr class="divider">`, renderString(t, env.Render(b)))

	env.Draft = true
	got := renderString(t, env.Render(b))
	assert.Contains(t, got, `data-blok-uid="42-u-1"`)
	assert.Contains(t, got, `data-blok-c="{&#34;name&#34;: &#34;divider&#34;`)
}
