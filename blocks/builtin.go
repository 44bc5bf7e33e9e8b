package blocks

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/httpjpg/httpjpg/imageservice"
	"github.com/httpjpg/httpjpg/richtext"
	"github.com/httpjpg/httpjpg/storyblok"
)

const defaultImageWidth = 1280

var srcSetWidths = []int{640, 960, 1280, 1920}

func builtins() map[string]Renderer {
	return map[string]Renderer{
		"page":     renderPage,
		"section":  renderSection,
		"grid":     renderGrid,
		"headline": renderHeadline,
		"text":     renderText,
		"richtext": renderRichText,
		"image":    renderImage,
		"button":   renderButton,
		"video":    renderVideo,
		"divider":  renderDivider,
		"spacer":   renderSpacer,
	}
}

// component adapts a write function to templ.Component.
func component(fn func(ctx context.Context, w io.Writer) error) templ.Component {
	return templ.ComponentFunc(fn)
}

func write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func attr(name, value string) string {
	if value == "" {
		return ""
	}
	return " " + name + `="` + html.EscapeString(value) + `"`
}

// modifier builds a BEM-style modifier class from a CMS option value.
func modifier(base, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return base
	}
	return base + " " + base + "--" + strings.ReplaceAll(strings.ToLower(value), " ", "-")
}

func renderPage(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<main class="page"`, env.editable(b), ">"); err != nil {
			return err
		}
		if err := env.RenderAll(b.Bloks("body")).Render(ctx, w); err != nil {
			return err
		}
		return write(w, "</main>")
	})
}

func renderSection(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := write(w, "<section", attr("class", modifier("section", b.String("theme"))),
			attr("id", b.String("anchor")), env.editable(b), ">"); err != nil {
			return err
		}
		if title := b.String("title"); title != "" {
			if err := write(w, `<h2 class="section__title">`, html.EscapeString(title), "</h2>"); err != nil {
				return err
			}
		}
		if err := env.RenderAll(b.Bloks("body")).Render(ctx, w); err != nil {
			return err
		}
		return write(w, "</section>")
	})
}

func renderGrid(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		cols := b.Int("columns")
		if cols <= 0 {
			if n, err := strconv.Atoi(b.String("columns")); err == nil && n > 0 {
				cols = n
			} else {
				cols = 2
			}
		}
		items := b.Bloks("items")
		if items == nil {
			items = b.Bloks("body")
		}
		if err := write(w, `<div class="grid" style="--grid-columns:`, strconv.Itoa(cols), `"`, env.editable(b), ">"); err != nil {
			return err
		}
		for _, item := range items {
			if err := write(w, `<div class="grid__item">`); err != nil {
				return err
			}
			if err := env.Render(item).Render(ctx, w); err != nil {
				return err
			}
			if err := write(w, "</div>"); err != nil {
				return err
			}
		}
		return write(w, "</div>")
	})
}

func headlineTag(level string) string {
	level = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(level)), "h")
	n, err := strconv.Atoi(level)
	if err != nil || n < 1 || n > 6 {
		n = 2
	}
	return "h" + strconv.Itoa(n)
}

func renderHeadline(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		tag := headlineTag(b.String("level"))
		return write(w, "<", tag, attr("class", modifier("headline", b.String("size"))), env.editable(b), ">",
			html.EscapeString(b.String("text")), "</", tag, ">")
	})
}

func renderText(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<div class="text"`, env.editable(b), ">"); err != nil {
			return err
		}
		for _, para := range strings.Split(strings.ReplaceAll(b.String("text"), "\r\n", "\n"), "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			lines := strings.Split(para, "\n")
			for i := range lines {
				lines[i] = html.EscapeString(lines[i])
			}
			if err := write(w, "<p>", strings.Join(lines, "<br>"), "</p>"); err != nil {
				return err
			}
		}
		return write(w, "</div>")
	})
}

func renderRichText(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		doc, ok := richtext.Parse(b["content"])
		if !ok {
			doc, ok = richtext.Parse(b["text"])
		}
		if err := write(w, `<div class="richtext"`, env.editable(b), ">"); err != nil {
			return err
		}
		if ok {
			if err := richtext.Render(doc, env.RichTextOptions()).Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, "</div>")
	})
}

func renderImage(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		asset := b.Asset("image")
		if asset.Filename == "" {
			return nil
		}
		width := b.Int("width")
		if width <= 0 {
			width = defaultImageWidth
		}
		ratio := imageservice.ParseAspectRatio(b.String("aspect_ratio"))
		crop := ratio.Crop(width)
		src := env.Images.ProcessedImage(asset.Filename, crop, asset.Focus, b.String("filters"))
		srcset := env.Images.SrcSet(asset.Filename, ratio, srcSetWidths, asset.Focus, b.String("filters"))
		if src == asset.Filename {
			// External images are served as-is.
			srcset = ""
		}

		alt := asset.Alt
		if alt == "" {
			alt = b.String("alt")
		}
		dims := ""
		if cw, ch, ok := imageservice.ParseCrop(crop); ok {
			dims = attr("width", strconv.Itoa(cw)) + attr("height", strconv.Itoa(ch))
		}
		loading := "lazy"
		if b.Bool("priority") {
			loading = "eager"
		}

		if err := write(w, `<figure class="image"`, env.editable(b), "><img",
			attr("src", src), attr("srcset", srcset), attr("sizes", sizesFor(srcset)),
			` alt="`, html.EscapeString(alt), `"`, dims, attr("loading", loading), ` decoding="async">`); err != nil {
			return err
		}
		if caption := b.String("caption"); caption != "" {
			if err := write(w, "<figcaption>", html.EscapeString(caption), "</figcaption>"); err != nil {
				return err
			}
		}
		return write(w, "</figure>")
	})
}

func sizesFor(srcset string) string {
	if srcset == "" {
		return ""
	}
	return "(min-width: 1280px) 1280px, 100vw"
}

func renderButton(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		link := b.Link("link")
		href := env.Href(link)
		label := html.EscapeString(b.String("label"))
		class := modifier("button", b.String("variant"))
		if href == "" {
			return write(w, "<span", attr("class", class), env.editable(b), ">", label, "</span>")
		}
		extra := ""
		if link.Target == "_blank" {
			extra = ` target="_blank" rel="noopener noreferrer"`
		}
		return write(w, "<a", attr("class", class), attr("href", href), extra, env.editable(b), ">", label, "</a>")
	})
}

// EmbedURL converts YouTube and Vimeo page URLs into privacy-friendly embed
// URLs. Other URLs yield "".
func EmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
		}
		if id, ok := strings.CutPrefix(u.Path, "/shorts/"); ok && id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return "https://www.youtube-nocookie.com/embed/" + url.PathEscape(id)
		}
	case "vimeo.com":
		id := strings.Trim(u.Path, "/")
		if _, err := strconv.Atoi(id); err == nil {
			return "https://player.vimeo.com/video/" + id + "?dnt=1"
		}
	}
	return ""
}

func renderVideo(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		raw := b.String("url")
		if raw == "" {
			raw = b.Asset("video").Filename
		}
		if raw == "" {
			return nil
		}
		title := b.String("title")
		if title == "" {
			title = "Video"
		}
		if embed := EmbedURL(raw); embed != "" {
			return write(w, `<div class="video video--embed"`, env.editable(b), "><iframe",
				attr("src", embed), attr("title", title),
				` loading="lazy" allow="autoplay; fullscreen; picture-in-picture" allowfullscreen></iframe></div>`)
		}
		flags := " controls"
		if b.Bool("autoplay") {
			flags = " autoplay muted loop playsinline"
		}
		return write(w, `<div class="video"`, env.editable(b), "><video", attr("src", richtext.SafeHref(raw)),
			attr("title", title), flags, ` preload="metadata"></video></div>`)
	})
}

func renderDivider(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		return write(w, "<hr", attr("class", modifier("divider", b.String("style"))), env.editable(b), ">")
	})
}

func renderSpacer(env Env, b storyblok.Blok) templ.Component {
	return component(func(ctx context.Context, w io.Writer) error {
		size := b.String("size")
		if size == "" {
			size = "md"
		}
		return write(w, fmt.Sprintf(`<div class="spacer spacer--%s" aria-hidden="true"%s></div>`,
			html.EscapeString(size), env.editable(b)))
	})
}
