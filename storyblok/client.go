// Package storyblok is a thin client for the Storyblok Content Delivery API.
//
// Every read picks its token and content version from the caller's draft
// flag and degrades to an empty result on failure: a failed story lookup is
// reported as nil and logged, never returned as an error. There are no
// retries.
package storyblok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned by fetch when the API answers 404.
var ErrNotFound = errors.New("storyblok: not found")

// Content versions understood by the API.
const (
	VersionDraft     = "draft"
	VersionPublished = "published"
)

const linksPerPage = 1000

var regionHosts = map[string]string{
	"eu": "https://api.storyblok.com/v2/cdn",
	"us": "https://api-us.storyblok.com/v2/cdn",
	"ap": "https://api-ap.storyblok.com/v2/cdn",
	"ca": "https://api-ca.storyblok.com/v2/cdn",
	"cn": "https://app.storyblokchina.cn/v2/cdn",
}

// Config holds the API credentials and endpoint selection.
type Config struct {
	PublicToken  string        // published content
	PreviewToken string        // draft content
	Region       string        // eu (default), us, ap, ca, cn
	BaseURL      string        // overrides Region when set
	Timeout      time.Duration // per-request timeout (default 10s)
}

// Client reads stories, story listings and the link tree.
type Client struct {
	cfg  Config
	base string
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a Client. A nil logger disables logging.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		var ok bool
		base, ok = regionHosts[strings.ToLower(cfg.Region)]
		if !ok {
			base = regionHosts["eu"]
		}
	}
	return &Client{
		cfg:  cfg,
		base: base,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger.Named("storyblok"),
	}
}

// VersionAndToken returns the content version and access token for a
// request in draft or published mode.
func (c *Client) VersionAndToken(draft bool) (version, token string) {
	if draft {
		return VersionDraft, c.cfg.PreviewToken
	}
	return VersionPublished, c.cfg.PublicToken
}

// GetStory returns the story at p.Slug (a full slug), or nil when it cannot
// be loaded for any reason.
func (c *Client) GetStory(ctx context.Context, p StoryParams, draft bool) *Story {
	q := c.query(draft)
	setIf(q, "resolve_relations", p.ResolveRelations)
	setIf(q, "resolve_links", p.ResolveLinks)
	setIf(q, "language", p.Language)

	var env storyEnvelope
	if _, err := c.fetch(ctx, "/stories/"+escapeSlug(p.Slug), q, &env); err != nil {
		c.logFailure("get story", err, zap.String("slug", p.Slug), zap.Bool("draft", draft))
		return nil
	}
	if env.Story.ID == 0 && env.Story.FullSlug == "" {
		c.logFailure("get story", errors.New("response has no story"), zap.String("slug", p.Slug), zap.Bool("draft", draft))
		return nil
	}
	return &env.Story
}

// GetStories returns one page of stories. On failure the result is empty
// with zero totals.
func (c *Client) GetStories(ctx context.Context, p StoriesParams, draft bool) StoriesResult {
	q := c.query(draft)
	setIf(q, "starts_with", p.StartsWith)
	setIf(q, "content_type", p.ContentType)
	setIf(q, "sort_by", p.SortBy)
	setIf(q, "excluding_slugs", p.ExcludingSlugs)
	setIf(q, "resolve_relations", p.ResolveRelations)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}

	var env storiesEnvelope
	header, err := c.fetch(ctx, "/stories", q, &env)
	if err != nil {
		c.logFailure("get stories", err, zap.String("starts_with", p.StartsWith), zap.Bool("draft", draft))
		return StoriesResult{Stories: []Story{}}
	}
	stories := env.Stories
	if stories == nil {
		stories = []Story{}
	}
	return StoriesResult{
		Stories: stories,
		Total:   headerInt(header, "Total"),
		PerPage: headerInt(header, "Per-Page"),
	}
}

// GetAllSlugs walks the paginated link tree and returns every entry sorted
// by slug. On failure it returns an empty slice.
func (c *Client) GetAllSlugs(ctx context.Context, p LinksParams, draft bool) []SlugEntry {
	entries := []SlugEntry{}
	for page := 1; ; page++ {
		q := c.query(draft)
		setIf(q, "starts_with", p.StartsWith)
		q.Set("per_page", strconv.Itoa(linksPerPage))
		q.Set("page", strconv.Itoa(page))

		var env linksEnvelope
		header, err := c.fetch(ctx, "/links", q, &env)
		if err != nil {
			c.logFailure("get links", err, zap.String("starts_with", p.StartsWith), zap.Int("page", page))
			return []SlugEntry{}
		}
		for _, l := range env.Links {
			entries = append(entries, SlugEntry{Slug: l.Slug, ID: l.ID, IsFolder: l.IsFolder})
		}
		total := headerInt(header, "Total")
		if len(env.Links) < linksPerPage || (total > 0 && len(entries) >= total) {
			break
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Slug < entries[j].Slug })
	return entries
}

func (c *Client) query(draft bool) url.Values {
	version, token := c.VersionAndToken(draft)
	q := url.Values{}
	q.Set("token", token)
	q.Set("version", version)
	return q
}

// fetch performs one GET against the API and decodes the JSON body into out.
func (c *Client) fetch(ctx context.Context, path string, q url.Values, out any) (http.Header, error) {
	if q.Get("token") == "" {
		return nil, fmt.Errorf("storyblok: %s: access token is not configured", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("storyblok: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storyblok: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.Header, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, fmt.Errorf("storyblok: %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("storyblok: %s: decode: %w", path, err)
	}
	return resp.Header, nil
}

func (c *Client) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if errors.Is(err, ErrNotFound) {
		c.log.Debug(op+" not found", fields...)
		return
	}
	c.log.Warn(op+" failed", fields...)
}

func escapeSlug(slug string) string {
	parts := strings.Split(strings.Trim(slug, "/"), "/")
	for i := range parts {
		parts[i] = url.PathEscape(parts[i])
	}
	return strings.Join(parts, "/")
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func headerInt(h http.Header, key string) int {
	if h == nil {
		return 0
	}
	n, _ := strconv.Atoi(h.Get(key))
	return n
}
