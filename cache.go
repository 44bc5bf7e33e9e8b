package httpjpg

import (
	"context"
	"sync"
	"time"

	"github.com/httpjpg/httpjpg/storyblok"
)

// ContentSource reads CMS content. *storyblok.Client implements it.
type ContentSource interface {
	GetStory(ctx context.Context, p storyblok.StoryParams, draft bool) *storyblok.Story
	GetStories(ctx context.Context, p storyblok.StoriesParams, draft bool) storyblok.StoriesResult
	GetAllSlugs(ctx context.Context, p storyblok.LinksParams, draft bool) []storyblok.SlugEntry
}

type cachedStory struct {
	story   *storyblok.Story
	fetched time.Time
}

// StoryCache is an in-memory TTL cache of published stories and the link
// tree. Misses are not cached, so a story published after a 404 shows up
// on the next request. Draft reads bypass the cache entirely.
type StoryCache struct {
	mu      sync.RWMutex
	stories map[string]cachedStory
	links   []storyblok.SlugEntry
	linksAt time.Time
	ttl     time.Duration
	src     ContentSource
	now     func() time.Time
}

// NewStoryCache creates a StoryCache backed by src.
func NewStoryCache(src ContentSource, ttl time.Duration) *StoryCache {
	return &StoryCache{
		stories: make(map[string]cachedStory),
		ttl:     ttl,
		src:     src,
		now:     time.Now,
	}
}

func (c *StoryCache) fresh(t time.Time) bool {
	return !t.IsZero() && c.now().Sub(t) < c.ttl
}

// GetStory returns the published story at fullSlug, or nil.
func (c *StoryCache) GetStory(ctx context.Context, fullSlug string) *storyblok.Story {
	c.mu.RLock()
	entry, ok := c.stories[fullSlug]
	c.mu.RUnlock()
	if ok && c.fresh(entry.fetched) {
		return entry.story
	}

	story := c.src.GetStory(ctx, storyblok.StoryParams{Slug: fullSlug, ResolveLinks: "url"}, false)
	if story == nil {
		return nil
	}
	c.mu.Lock()
	c.stories[fullSlug] = cachedStory{story: story, fetched: c.now()}
	c.mu.Unlock()
	return story
}

// AllSlugs returns the whole published link tree. An empty tree is not
// cached.
func (c *StoryCache) AllSlugs(ctx context.Context) []storyblok.SlugEntry {
	c.mu.RLock()
	if c.fresh(c.linksAt) {
		links := c.links
		c.mu.RUnlock()
		return links
	}
	c.mu.RUnlock()

	links := c.src.GetAllSlugs(ctx, storyblok.LinksParams{}, false)
	if len(links) == 0 {
		return links
	}
	c.mu.Lock()
	c.links = links
	c.linksAt = c.now()
	c.mu.Unlock()
	return links
}

// Invalidate drops the cached story at fullSlug and the link tree.
func (c *StoryCache) Invalidate(fullSlug string) {
	c.mu.Lock()
	delete(c.stories, fullSlug)
	c.links = nil
	c.linksAt = time.Time{}
	c.mu.Unlock()
}

// InvalidateAll clears the cache so the next read triggers a fresh load.
func (c *StoryCache) InvalidateAll() {
	c.mu.Lock()
	c.stories = make(map[string]cachedStory)
	c.links = nil
	c.linksAt = time.Time{}
	c.mu.Unlock()
}

// Len returns the number of cached stories.
func (c *StoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stories)
}
