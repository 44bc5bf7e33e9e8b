package httpjpg

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
)

const feedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	startsWith := ""
	if a.Resolver.MainFolder != "" {
		startsWith = a.Resolver.MainFolder + "/"
	}
	res := a.CMS.GetStories(c.Request().Context(), storyblok.StoriesParams{
		StartsWith: startsWith,
		SortBy:     "first_published_at:desc",
		PerPage:    feedSize,
	}, false)
	return a.renderRSS(c, res.Stories)
}

func (a *App) renderRSS(c echo.Context, stories []storyblok.Story) error {
	items := make([]rssItem, 0, len(stories))
	for _, s := range stories {
		if slugs.IsExcludedFromRouting(s.FullSlug) {
			continue
		}
		link := a.Config.URL + a.Resolver.PublicPath(s.FullSlug)
		pubDate := ""
		if d := s.Date(); !d.IsZero() {
			pubDate = d.UTC().Format(time.RFC1123Z)
		}
		items = append(items, rssItem{
			Title:       firstNonEmpty(s.Content.String("title"), s.Name),
			Link:        link,
			Description: firstNonEmpty(s.Content.String("seo_description"), s.Content.String("description")),
			PubDate:     pubDate,
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(a.Config.URL),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
