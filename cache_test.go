package httpjpg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/httpjpg/httpjpg/storyblok"
)

func newTestCache(cms *fakeCMS) (*StoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewStoryCache(cms, time.Minute)
	c.now = clock.now
	return c, clock
}

func TestStoryCacheExpires(t *testing.T) {
	cms := newFakeCMS()
	c, clock := newTestCache(cms)
	ctx := context.Background()

	assert.Equal(t, "About me", c.GetStory(ctx, "portfolio/about").Name)
	clock.advance(59 * time.Second)
	c.GetStory(ctx, "portfolio/about")
	assert.Len(t, cms.storyCalls(), 1)

	clock.advance(time.Second)
	c.GetStory(ctx, "portfolio/about")
	assert.Len(t, cms.storyCalls(), 2)
}

func TestStoryCacheDoesNotCacheMisses(t *testing.T) {
	cms := newFakeCMS()
	c, _ := newTestCache(cms)
	ctx := context.Background()

	assert.Nil(t, c.GetStory(ctx, "portfolio/new"))
	cms.mu.Lock()
	cms.stories["portfolio/new"] = pageStory("portfolio/new", "New")
	cms.mu.Unlock()

	assert.NotNil(t, c.GetStory(ctx, "portfolio/new"))
	assert.Equal(t, 1, c.Len())
}

func TestStoryCacheInvalidate(t *testing.T) {
	cms := newFakeCMS()
	cms.links = []storyblok.SlugEntry{{Slug: "portfolio/about"}}
	c, _ := newTestCache(cms)
	ctx := context.Background()

	c.GetStory(ctx, "portfolio")
	c.GetStory(ctx, "portfolio/about")
	assert.Len(t, c.AllSlugs(ctx), 1)

	c.Invalidate("portfolio/about")
	assert.Equal(t, 1, c.Len())
	c.GetStory(ctx, "portfolio")
	assert.Len(t, cms.storyCalls(), 2)

	cms.links = append(cms.links, storyblok.SlugEntry{Slug: "portfolio/work"})
	assert.Len(t, c.AllSlugs(ctx), 2)
}
