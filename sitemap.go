package httpjpg

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// routablePaths returns the public path of every routable story in the
// link tree, in slug order, without duplicates.
func (a *App) routablePaths(entries []storyblok.SlugEntry) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, e := range entries {
		if e.IsFolder || slugs.IsExcludedFromRouting(e.Slug) {
			continue
		}
		if a.Resolver.MainFolder != "" && e.Slug != a.Resolver.MainFolder &&
			a.Resolver.WithoutFolderPrefix(e.Slug) == e.Slug {
			continue // outside the main folder
		}
		p := a.Resolver.PublicPath(e.Slug)
		if a.Resolver.MainFolder == "" && e.Slug == homeSlug {
			p = "/"
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths
}

func (a *App) handleSitemap(c echo.Context) error {
	paths := a.routablePaths(a.Cache.AllSlugs(c.Request().Context()))
	return a.renderSitemap(c, paths, time.Now())
}

func (a *App) renderSitemap(c echo.Context, paths []string, now time.Time) error {
	urls := []sitemapURL{{Loc: BuildURL(a.Config.URL), LastMod: now.UTC().Format("2006-01-02")}}
	for _, p := range paths {
		if p == "/" {
			continue
		}
		urls = append(urls, sitemapURL{Loc: a.Config.URL + p})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
