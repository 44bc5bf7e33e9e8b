package httpjpg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/httpjpg/httpjpg/blocks"
	"github.com/httpjpg/httpjpg/console"
	"github.com/httpjpg/httpjpg/observability"
	"github.com/httpjpg/httpjpg/storyblok"
	"github.com/httpjpg/httpjpg/views"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "httpjpg")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for the feed and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr        string `yaml:"addr"`        // Listen address (default ":3000")
	StaticDir   string `yaml:"static_dir"`  // Static assets served under /public (default "public")
	Environment string `yaml:"environment"` // "production" switches to JSON logs and secure cookies
	Debug       bool   `yaml:"debug"`

	MainFolder string          `yaml:"main_folder"` // CMS folder holding the public pages
	Storyblok  StoryblokConfig `yaml:"storyblok"`

	AdminPassword string `yaml:"admin_password"` // Required: console login password
	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS

	StoryCacheTTL time.Duration `yaml:"story_cache_ttl"` // Published story cache TTL (default 5m)
	APIRateLimit  int           `yaml:"api_rate_limit"`  // Requests per IP per minute on /api/* (default 60)
	LoginAttempts int           `yaml:"login_attempts"`  // Failed logins per IP per minute (default 5)
	ImageMaxWidth int           `yaml:"image_max_width"` // Upper bound for /_img?w= (default 2560)

	Console    ConsoleConfig    `yaml:"console"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// StoryblokConfig selects the CMS space and the webhook secrets.
type StoryblokConfig struct {
	PublicToken      string `yaml:"public_token"`
	PreviewToken     string `yaml:"preview_token"`
	Region           string `yaml:"region"`
	PreviewSecret    string `yaml:"preview_secret"`    // ?secret= for /api/draft
	RevalidateSecret string `yaml:"revalidate_secret"` // ?secret= for /api/revalidate
}

// ConsoleConfig holds credentials for the admin console sources.
type ConsoleConfig struct {
	GitHubToken      string `yaml:"github_token"`
	GitHubRepository string `yaml:"github_repository"` // owner/repo
	SentryAuthToken  string `yaml:"sentry_auth_token"`
	SentryOrg        string `yaml:"sentry_org"`
	SentryProject    string `yaml:"sentry_project"`
	DatadogAPIKey    string `yaml:"datadog_api_key"`
	DatadogAppKey    string `yaml:"datadog_app_key"`
	UptimeKumaURL    string `yaml:"uptime_kuma_url"`
	UptimeStatusPage string `yaml:"uptime_kuma_status_page"`
}

// MonitoringConfig holds the browser-side monitoring settings.
type MonitoringConfig struct {
	SentryDSN            string `yaml:"sentry_dsn"`
	DatadogSite          string `yaml:"datadog_site"`
	DatadogClientToken   string `yaml:"datadog_client_token"`
	DatadogApplicationID string `yaml:"datadog_application_id"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "httpjpg"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.StoryCacheTTL == 0 {
		c.StoryCacheTTL = 5 * time.Minute
	}
	if c.APIRateLimit == 0 {
		c.APIRateLimit = 60
	}
	if c.LoginAttempts == 0 {
		c.LoginAttempts = 5
	}
	if c.ImageMaxWidth == 0 {
		c.ImageMaxWidth = 2560
	}
	if c.Monitoring.DatadogSite == "" {
		c.Monitoring.DatadogSite = "datadoghq.eu"
	}
}

// LoadConfig reads path (if it exists) and applies environment overrides.
// An empty path reads the environment only.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("httpjpg: read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("httpjpg: parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnvOverrides() error {
	strs := map[string]*string{
		"SITE_NAME":                   &c.Name,
		"SITE_URL":                    &c.URL,
		"SITE_DESCRIPTION":            &c.Description,
		"SITE_AUTHOR":                 &c.Author,
		"ADDR":                        &c.Addr,
		"STATIC_DIR":                  &c.StaticDir,
		"APP_ENV":                     &c.Environment,
		"MAIN_FOLDER":                 &c.MainFolder,
		"STORYBLOK_PUBLIC_TOKEN":      &c.Storyblok.PublicToken,
		"STORYBLOK_PREVIEW_TOKEN":     &c.Storyblok.PreviewToken,
		"STORYBLOK_REGION":            &c.Storyblok.Region,
		"STORYBLOK_PREVIEW_SECRET":    &c.Storyblok.PreviewSecret,
		"STORYBLOK_REVALIDATE_SECRET": &c.Storyblok.RevalidateSecret,
		"ADMIN_PASSWORD":              &c.AdminPassword,
		"SESSION_SECRET":              &c.SessionSecret,
		"GITHUB_TOKEN":                &c.Console.GitHubToken,
		"GITHUB_REPOSITORY":           &c.Console.GitHubRepository,
		"SENTRY_AUTH_TOKEN":           &c.Console.SentryAuthToken,
		"SENTRY_ORG":                  &c.Console.SentryOrg,
		"SENTRY_PROJECT":              &c.Console.SentryProject,
		"SENTRY_DSN":                  &c.Monitoring.SentryDSN,
		"DATADOG_API_KEY":             &c.Console.DatadogAPIKey,
		"DATADOG_APP_KEY":             &c.Console.DatadogAppKey,
		"DATADOG_SITE":                &c.Monitoring.DatadogSite,
		"DATADOG_CLIENT_TOKEN":        &c.Monitoring.DatadogClientToken,
		"DATADOG_APPLICATION_ID":      &c.Monitoring.DatadogApplicationID,
		"UPTIME_KUMA_URL":             &c.Console.UptimeKumaURL,
		"UPTIME_KUMA_STATUS_PAGE":     &c.Console.UptimeStatusPage,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"DEBUG":         &c.Debug,
		"COOKIE_SECURE": &c.CookieSecure,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("httpjpg: %s: %w", key, err)
			}
			*dst = b
		}
	}

	ints := map[string]*int{
		"API_RATE_LIMIT":  &c.APIRateLimit,
		"LOGIN_ATTEMPTS":  &c.LoginAttempts,
		"IMAGE_MAX_WIDTH": &c.ImageMaxWidth,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("httpjpg: %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("STORY_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("httpjpg: STORY_CACHE_TTL: %w", err)
		}
		c.StoryCacheTTL = d
	}
	return nil
}

// Validate reports settings the server cannot start without.
func (c SiteConfig) Validate() error {
	if c.AdminPassword == "" {
		return fmt.Errorf("httpjpg: AdminPassword is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("httpjpg: SessionSecret is required")
	}
	if c.Storyblok.PublicToken == "" && c.Storyblok.PreviewToken == "" {
		return fmt.Errorf("httpjpg: a Storyblok public or preview token is required")
	}
	return nil
}

func (c SiteConfig) storyblokConfig() storyblok.Config {
	return storyblok.Config{
		PublicToken:  c.Storyblok.PublicToken,
		PreviewToken: c.Storyblok.PreviewToken,
		Region:       c.Storyblok.Region,
	}
}

func (c SiteConfig) consoleConfig() console.Config {
	owner, repo, _ := strings.Cut(c.Console.GitHubRepository, "/")
	return console.Config{
		GitHub: console.GitHubConfig{Token: c.Console.GitHubToken, Owner: owner, Repo: repo},
		Sentry: console.SentryConfig{
			Token:   c.Console.SentryAuthToken,
			Org:     c.Console.SentryOrg,
			Project: c.Console.SentryProject,
		},
		Datadog: console.DatadogConfig{
			APIKey: c.Console.DatadogAPIKey,
			AppKey: c.Console.DatadogAppKey,
			Site:   c.Monitoring.DatadogSite,
		},
		UptimeKuma: console.UptimeKumaConfig{
			BaseURL:    c.Console.UptimeKumaURL,
			StatusPage: c.Console.UptimeStatusPage,
		},
	}
}

func (c SiteConfig) observabilityConfig() observability.Config {
	return observability.Config{
		Environment:          c.Environment,
		Debug:                c.Debug,
		Service:              c.Name,
		SentryDSN:            c.Monitoring.SentryDSN,
		DatadogClientToken:   c.Monitoring.DatadogClientToken,
		DatadogApplicationID: c.Monitoring.DatadogApplicationID,
		DatadogSite:          c.Monitoring.DatadogSite,
	}
}

func (c SiteConfig) viewSite() views.SiteConfig {
	return views.SiteConfig{Name: c.Name, URL: c.URL, Description: c.Description, Author: c.Author}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithContentSource replaces the Storyblok client, mainly for tests.
func WithContentSource(src ContentSource) Option {
	return func(a *App) {
		a.CMS = src
	}
}

// WithRegistry replaces the default component registry.
func WithRegistry(r *blocks.Registry) Option {
	return func(a *App) {
		a.Registry = r
	}
}

// WithLogger uses logger instead of the one built by the observability
// provider.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.Log = logger
	}
}

// WithConsole replaces the console service, mainly for tests.
func WithConsole(svc *console.Service) Option {
	return func(a *App) {
		a.consoleSvc = svc
	}
}
