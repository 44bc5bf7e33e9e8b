package console

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler serves console data as JSON.
type Handler struct {
	svc *Service
}

// NewHandler creates a console handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the console endpoints on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Overview)
	g.GET("/github", h.GitHub)
	g.GET("/sentry", h.Sentry)
	g.GET("/datadog", h.Datadog)
	g.GET("/uptime", h.Uptime)
}

// GitHub returns recent workflow runs.
func (h *Handler) GitHub(c echo.Context) error {
	return respond(c, h.svc, "github", h.svc.GitHubRuns, func(p *GitHubPayload) { *p = MockGitHub() })
}

// Sentry returns unresolved issues.
func (h *Handler) Sentry(c echo.Context) error {
	return respond(c, h.svc, "sentry", h.svc.SentryIssues, func(p *SentryPayload) { *p = MockSentry() })
}

// Datadog returns RUM counts.
func (h *Handler) Datadog(c echo.Context) error {
	return respond(c, h.svc, "datadog", h.svc.DatadogRUM, func(p *DatadogPayload) { *p = MockDatadog() })
}

// Uptime returns status page monitors.
func (h *Handler) Uptime(c echo.Context) error {
	return respond(c, h.svc, "uptime", h.svc.UptimeMonitors, func(p *UptimePayload) { *p = MockUptime() })
}

// respond writes a source payload. Missing credentials are a 500; any
// other failure is logged and answered with the mock payload.
func respond[T any](c echo.Context, svc *Service, source string, fetch func(context.Context) (T, error), mock func(*T)) error {
	out, err := fetch(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		svc.log.Warn("upstream failed, serving mock", zap.String("source", source), zap.Error(err))
		mock(&out)
	}
	return c.JSON(http.StatusOK, out)
}

// OverviewResponse combines every source. A source that is not
// configured is nil and its reason is listed in Errors.
type OverviewResponse struct {
	GitHub      *GitHubPayload    `json:"github"`
	Sentry      *SentryPayload    `json:"sentry"`
	Datadog     *DatadogPayload   `json:"datadog"`
	Uptime      *UptimePayload    `json:"uptime"`
	Errors      map[string]string `json:"errors,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Overview fetches all sources concurrently.
func (h *Handler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Overview(c.Request().Context()))
}

// Overview fetches all sources concurrently. It never fails as a whole.
func (s *Service) Overview(ctx context.Context) OverviewResponse {
	var (
		mu  sync.Mutex
		out = OverviewResponse{GeneratedAt: s.now().UTC()}
	)
	fail := func(source string, err error) bool {
		if err == nil {
			return false
		}
		if errors.Is(err, ErrNotConfigured) {
			mu.Lock()
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[source] = err.Error()
			mu.Unlock()
			return true
		}
		s.log.Warn("upstream failed, serving mock", zap.String("source", source), zap.Error(err))
		return false
	}

	var g errgroup.Group
	g.Go(func() error {
		p, err := s.GitHubRuns(ctx)
		if fail("github", err) {
			return nil
		}
		if err != nil {
			p = MockGitHub()
		}
		mu.Lock()
		out.GitHub = &p
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		p, err := s.SentryIssues(ctx)
		if fail("sentry", err) {
			return nil
		}
		if err != nil {
			p = MockSentry()
		}
		mu.Lock()
		out.Sentry = &p
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		p, err := s.DatadogRUM(ctx)
		if fail("datadog", err) {
			return nil
		}
		if err != nil {
			p = MockDatadog()
		}
		mu.Lock()
		out.Datadog = &p
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		p, err := s.UptimeMonitors(ctx)
		if fail("uptime", err) {
			return nil
		}
		if err != nil {
			p = MockUptime()
		}
		mu.Lock()
		out.Uptime = &p
		mu.Unlock()
		return nil
	})
	_ = g.Wait()
	return out
}
