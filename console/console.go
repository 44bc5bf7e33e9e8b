// Package console proxies the third-party monitoring APIs shown on the
// admin console: GitHub Actions, Sentry, Datadog RUM and Uptime Kuma.
//
// Each source reshapes the upstream JSON into a small payload. A source
// without credentials reports ErrNotConfigured; any upstream failure is
// replaced by a fixed mock payload so the console always renders.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrNotConfigured marks a source whose credentials are missing.
var ErrNotConfigured = errors.New("not configured")

// Config holds credentials for every console source.
type Config struct {
	GitHub     GitHubConfig
	Sentry     SentryConfig
	Datadog    DatadogConfig
	UptimeKuma UptimeKumaConfig

	Timeout time.Duration // per upstream request (default 8s)
}

// GitHubConfig selects the repository whose workflow runs are listed.
type GitHubConfig struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // default https://api.github.com
}

// SentryConfig selects the Sentry project whose issues are listed.
type SentryConfig struct {
	Token   string
	Org     string
	Project string
	BaseURL string // default https://sentry.io
}

// DatadogConfig holds API credentials for RUM analytics.
type DatadogConfig struct {
	APIKey  string
	AppKey  string
	Site    string // default datadoghq.eu
	BaseURL string // overrides Site
}

// UptimeKumaConfig points at a public Uptime Kuma status page.
type UptimeKumaConfig struct {
	BaseURL    string
	StatusPage string
}

// Service fetches and reshapes console data.
type Service struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
	now  func() time.Time
}

// NewService creates a Service. A nil logger disables logging.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.GitHub.BaseURL == "" {
		cfg.GitHub.BaseURL = "https://api.github.com"
	}
	if cfg.Sentry.BaseURL == "" {
		cfg.Sentry.BaseURL = "https://sentry.io"
	}
	if cfg.Datadog.Site == "" {
		cfg.Datadog.Site = "datadoghq.eu"
	}
	if cfg.Datadog.BaseURL == "" {
		cfg.Datadog.BaseURL = "https://api." + cfg.Datadog.Site
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger.Named("console"),
		now:  time.Now,
	}
}

// StatusError is an unexpected upstream HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.Code)
}

// doJSON sends req and decodes a 2xx JSON response into out.
func (s *Service) doJSON(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return &StatusError{URL: req.URL.Redacted(), Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func (s *Service) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.doJSON(req, out)
}

func (s *Service) postJSON(ctx context.Context, url string, headers map[string]string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.doJSON(req, out)
}

func notConfigured(source, setting string) error {
	return fmt.Errorf("%s: %s is %w", source, setting, ErrNotConfigured)
}
