package httpjpg

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/httpjpg/httpjpg/blocks"
	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
	"github.com/httpjpg/httpjpg/views"
)

// homeSlug is the story served at "/" when no main folder is configured.
const homeSlug = "home"

// fullSlugFor maps a request path to the story to load. ok is false for
// paths that must not be routed.
func (a *App) fullSlugFor(requestPath string) (string, bool) {
	public := slugs.FromRequestPath(requestPath)
	if slugs.IsExcludedFromRouting(public) {
		return "", false
	}
	full := a.Resolver.WithFolderPrefix(public)
	if full == "" {
		full = homeSlug
	}
	return full, true
}

func (a *App) handlePage(c echo.Context) error {
	fullSlug, ok := a.fullSlugFor(c.Request().URL.Path)
	if !ok {
		return echo.ErrNotFound
	}

	ctx := c.Request().Context()
	draft := IsDraft(c)
	var story *storyblok.Story
	if draft {
		story = a.CMS.GetStory(ctx, storyblok.StoryParams{Slug: fullSlug, ResolveLinks: "url"}, true)
	} else {
		story = a.Cache.GetStory(ctx, fullSlug)
	}
	if story == nil {
		return echo.ErrNotFound
	}

	env := blocks.Env{
		Registry: a.Registry,
		Resolver: a.Resolver,
		Images:   a.Images,
		Draft:    draft,
	}
	return a.renderPage(c, http.StatusOK, a.storyMeta(story), env.Render(story.Content))
}

// storyMeta derives the page head from the story's SEO fields.
func (a *App) storyMeta(story *storyblok.Story) views.PageMeta {
	content := story.Content
	meta := views.PageMeta{
		Title:       firstNonEmpty(content.String("seo_title"), content.String("title"), story.Name),
		Description: firstNonEmpty(content.String("seo_description"), content.String("description")),
		URL:         a.Config.URL + a.Resolver.PublicPath(story.FullSlug),
		OGType:      "article",
		Published:   story.Date(),
	}
	if story.IsStartpage || a.Resolver.PublicPath(story.FullSlug) == "/" {
		meta.OGType = "website"
	}
	if img := content.Asset("og_image"); img.Filename != "" {
		meta.Image = a.Images.ProcessedImage(img.Filename, "1200x630", img.Focus, "")
	}
	return meta
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if a.Config.Environment != "production" {
		b.WriteString("Disallow: /\n")
	} else {
		b.WriteString("Allow: /\nDisallow: /api/\nDisallow: /admin/\nDisallow: /_img\n")
	}
	b.WriteString("\nSitemap: " + a.Config.URL + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error",
			zap.Error(err),
			zap.String("uri", c.Request().RequestURI),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		msg := http.StatusText(code)
		if he != nil && code < 500 {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		_ = c.JSON(code, map[string]string{"error": msg})
		return
	}

	switch {
	case code == http.StatusNotFound:
		_ = a.renderPage(c, code, views.PageMeta{Title: "Not found", NoIndex: true}, views.NotFound())
	case code >= 500:
		_ = a.renderPage(c, code, views.PageMeta{Title: "Error", NoIndex: true}, views.ServerError())
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
