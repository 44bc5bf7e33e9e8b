package storyblok

import (
	"encoding/json"
	"time"
)

// Story is a single CMS content entry.
type Story struct {
	ID               int64      `json:"id"`
	UUID             string     `json:"uuid"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	FullSlug         string     `json:"full_slug"`
	Content          Blok       `json:"content"`
	CreatedAt        time.Time  `json:"created_at"`
	PublishedAt      *time.Time `json:"published_at"`
	FirstPublishedAt *time.Time `json:"first_published_at"`
	TagList          []string   `json:"tag_list"`
	IsStartpage      bool       `json:"is_startpage"`
	ParentID         int64      `json:"parent_id"`
	Lang             string     `json:"lang"`
}

// Date returns the first publication date, falling back to creation.
func (s Story) Date() time.Time {
	if s.FirstPublishedAt != nil {
		return *s.FirstPublishedAt
	}
	if s.PublishedAt != nil {
		return *s.PublishedAt
	}
	return s.CreatedAt
}

// Blok is one node of a story's component tree. Fields vary per component
// so the node is kept as decoded JSON and read through typed accessors.
type Blok map[string]any

// Component returns the Storyblok component (block type) name.
func (b Blok) Component() string { return b.String("component") }

// UID returns the block's unique id within its story.
func (b Blok) UID() string { return b.String("_uid") }

// String returns the string field key, or "" when absent or not a string.
func (b Blok) String(key string) string {
	s, _ := b[key].(string)
	return s
}

// Bool returns the boolean field key.
func (b Blok) Bool(key string) bool {
	v, _ := b[key].(bool)
	return v
}

// Int returns a numeric field, accepting the float64 that JSON decodes to.
func (b Blok) Int(key string) int {
	switch v := b[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

// Bloks returns the nested block list stored under key.
func (b Blok) Bloks(key string) []Blok {
	raw, ok := b[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Blok, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Blok(m))
		}
	}
	return out
}

// Map returns the nested object stored under key.
func (b Blok) Map(key string) map[string]any {
	m, _ := b[key].(map[string]any)
	return m
}

// Asset returns the asset field stored under key.
func (b Blok) Asset(key string) Asset {
	m := b.Map(key)
	if m == nil {
		return Asset{}
	}
	a := Asset{}
	a.ID = int64(Blok(m).Int("id"))
	a.Filename = Blok(m).String("filename")
	a.Alt = Blok(m).String("alt")
	a.Title = Blok(m).String("title")
	a.Focus = Blok(m).String("focus")
	a.Name = Blok(m).String("name")
	return a
}

// Link returns the multilink field stored under key.
func (b Blok) Link(key string) Link {
	m := b.Map(key)
	if m == nil {
		return Link{}
	}
	l := Blok(m)
	return Link{
		LinkType:  l.String("linktype"),
		URL:       l.String("url"),
		CachedURL: l.String("cached_url"),
		Anchor:    l.String("anchor"),
		Target:    l.String("target"),
		Email:     l.String("email"),
	}
}

// Asset is an image or file reference as delivered by the CMS. Focus is
// the editor-chosen focal rectangle "x1xy1:x2xy2".
type Asset struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Alt      string `json:"alt"`
	Title    string `json:"title"`
	Focus    string `json:"focus"`
	Name     string `json:"name"`
}

// Link types of a Storyblok multilink field.
const (
	LinkTypeStory = "story"
	LinkTypeURL   = "url"
	LinkTypeEmail = "email"
	LinkTypeAsset = "asset"
)

// Link is a Storyblok multilink value. For story links CachedURL holds the
// target's full slug.
type Link struct {
	LinkType  string `json:"linktype"`
	URL       string `json:"url"`
	CachedURL string `json:"cached_url"`
	Anchor    string `json:"anchor"`
	Target    string `json:"target"`
	Email     string `json:"email"`
}

// SlugEntry is one row of the link tree used for routing and sitemaps.
type SlugEntry struct {
	Slug     string `json:"slug"`
	ID       int64  `json:"id"`
	IsFolder bool   `json:"isFolder"`
}

// StoriesResult is a page of stories plus the pagination headers.
type StoriesResult struct {
	Stories []Story `json:"stories"`
	Total   int     `json:"total"`
	PerPage int     `json:"perPage"`
}

// StoryParams selects a single story.
type StoryParams struct {
	Slug             string
	ResolveRelations string
	ResolveLinks     string
	Language         string
}

// StoriesParams filters a story listing.
type StoriesParams struct {
	StartsWith       string
	ContentType      string
	SortBy           string
	ExcludingSlugs   string
	ResolveRelations string
	Page             int
	PerPage          int
}

// LinksParams filters the link tree.
type LinksParams struct {
	StartsWith string
}

type storyEnvelope struct {
	Story Story `json:"story"`
}

type storiesEnvelope struct {
	Stories []Story `json:"stories"`
}

type linkEntry struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	IsFolder  bool   `json:"is_folder"`
	Published bool   `json:"published"`
}

type linksEnvelope struct {
	Links map[string]linkEntry `json:"links"`
}
