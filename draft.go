package httpjpg

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/httpjpg/httpjpg/slugs"
)

func secretsEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// handleDraftEnable is the Visual Editor preview entry point:
// /api/draft?secret=...&slug=<full slug>.
func (a *App) handleDraftEnable(c echo.Context) error {
	want := a.Config.Storyblok.PreviewSecret
	if want == "" {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "STORYBLOK_PREVIEW_SECRET is not configured"})
	}
	if !secretsEqual(c.QueryParam("secret"), want) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
	}
	raw := c.QueryParam("slug")
	if !safeSlug(raw) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid slug"})
	}
	slug := strings.Trim(raw, "/")
	if slugs.IsExcludedFromRouting(slug) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not routable"})
	}
	if err := setDraftSession(c, a.Config.CookieSecure); err != nil {
		return err
	}
	a.Log.Info("draft mode enabled", zap.String("slug", slug), zap.String("ip", c.RealIP()))
	return c.Redirect(http.StatusTemporaryRedirect, a.Resolver.PublicPath(slug))
}

func (a *App) handleDraftDisable(c echo.Context) error {
	if err := clearDraftSession(c); err != nil {
		return err
	}
	target := "/"
	if raw := c.QueryParam("slug"); safeSlug(raw) {
		target = a.Resolver.PublicPath(raw)
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

// safeSlug rejects slugs whose public path a browser could read as
// another origin.
func safeSlug(slug string) bool {
	return !strings.HasPrefix(slug, "/") && !strings.Contains(slug, `\`)
}

// revalidatePayload is the part of the Storyblok webhook body we use.
type revalidatePayload struct {
	Action   string `json:"action"`
	StoryID  int64  `json:"story_id"`
	FullSlug string `json:"full_slug"`
}

// RevalidateResponse is the JSON answer of /api/revalidate.
type RevalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Slug        string `json:"slug,omitempty"`
	Now         int64  `json:"now"`
}

// handleRevalidate drops cached stories when content is published.
func (a *App) handleRevalidate(c echo.Context) error {
	want := a.Config.Storyblok.RevalidateSecret
	if want == "" {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "STORYBLOK_REVALIDATE_SECRET is not configured"})
	}
	if !secretsEqual(c.QueryParam("secret"), want) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
	}

	var payload revalidatePayload
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&payload); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payload"})
		}
	}

	slug := strings.Trim(payload.FullSlug, "/")
	if slug != "" {
		a.Cache.Invalidate(slug)
	} else {
		a.Cache.InvalidateAll()
	}
	a.Log.Info("revalidated",
		zap.String("slug", slug),
		zap.String("action", payload.Action),
		zap.Int64("story_id", payload.StoryID))

	return c.JSON(http.StatusOK, RevalidateResponse{
		Revalidated: true,
		Slug:        slug,
		Now:         time.Now().UnixMilli(),
	})
}
