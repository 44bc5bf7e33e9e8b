// Package httpjpg serves a Storyblok-backed portfolio site with Go, Echo,
// and templ.
//
// Public paths are mapped to stories under a configured main folder and
// rendered through the blocks registry. Draft previews, revalidation
// webhooks, sitemap, feed, a local image optimizer and the admin console
// are wired in by New.
package httpjpg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/httpjpg/httpjpg/blocks"
	"github.com/httpjpg/httpjpg/console"
	"github.com/httpjpg/httpjpg/imageservice"
	"github.com/httpjpg/httpjpg/observability"
	"github.com/httpjpg/httpjpg/slugs"
	"github.com/httpjpg/httpjpg/storyblok"
)

// App is the central application. It wires together the CMS client,
// cache, component registry, handlers and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	CMS      ContentSource
	Cache    *StoryCache
	Registry *blocks.Registry
	Resolver slugs.Resolver
	Images   imageservice.Transformer
	Obs      *observability.Provider
	Log      *zap.Logger

	loginLimiter *RateLimiter
	apiLimiter   *RateLimiter
	consoleSvc   *console.Service
	customRoutes []func(*App)
	initialized  bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		Resolver: slugs.New(cfg.MainFolder),
		Images: imageservice.Transformer{
			Hosts:   imageservice.DefaultHosts,
			Quality: imageservice.DefaultQuality,
		},
		Obs: observability.NewProvider(cfg.observabilityConfig()),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	if a.Log == nil {
		a.Log = a.Obs.EnsureInitialized()
	}
	if a.CMS == nil {
		a.CMS = storyblok.NewClient(cfg.storyblokConfig(), a.Log)
	}
	if a.Registry == nil {
		a.Registry = blocks.Default()
	}
	if a.consoleSvc == nil {
		a.consoleSvc = console.NewService(cfg.consoleConfig(), a.Log)
	}
	a.Cache = NewStoryCache(a.CMS, cfg.StoryCacheTTL)
	return a
}

// Init validates the configuration and installs middleware and routes.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	a.loginLimiter = NewRateLimiter(a.Config.LoginAttempts, time.Minute)
	a.apiLimiter = NewRateLimiter(a.Config.APIRateLimit, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("site", a.Config.URL))
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpjpg: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpjpg: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/styles.css", a.embeddedAsset("styles.css"))
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.embeddedAsset("favicon.svg"))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/_img", a.handleImage)

	api := e.Group("/api", a.shield)
	api.GET("/draft", a.handleDraftEnable)
	api.GET("/draft/disable", a.handleDraftDisable)
	api.POST("/revalidate", a.handleRevalidate)
	api.POST("/consent", a.handleConsent)
	console.NewHandler(a.consoleSvc).RegisterRoutes(api.Group("/console", requireAdminJSON))

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	e.GET("/", a.handlePage)
	e.GET("/*", a.handlePage)
}

// Close stops background work and flushes the logger. Call this when the
// app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.apiLimiter != nil {
		a.apiLimiter.Stop()
	}
	_ = a.Log.Sync()
	return nil
}
