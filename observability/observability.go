// Package observability owns the process logger and the client-side
// monitoring settings handed to the page layout.
package observability

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logger flavour and the browser monitoring snippets.
type Config struct {
	Environment string // "production" switches to JSON logs
	Debug       bool
	Service     string

	SentryDSN string

	DatadogClientToken   string
	DatadogApplicationID string
	DatadogSite          string
}

// RUM is the browser monitoring configuration rendered into the layout.
type RUM struct {
	Enabled       bool
	ClientToken   string
	ApplicationID string
	Site          string
	Service       string
	Env           string
	SentryDSN     string
}

// Provider initializes observability once per value. The zero value is
// ready to use; pass the same *Provider wherever a logger is needed.
type Provider struct {
	cfg Config

	once   sync.Once
	logger *zap.Logger
	err    error
}

// NewProvider returns an uninitialized Provider for cfg.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// EnsureInitialized builds the logger on first call and returns the same
// logger on every later call. If the configured logger cannot be built a
// no-op logger is returned and Err reports why.
func (p *Provider) EnsureInitialized() *zap.Logger {
	p.once.Do(func() {
		var zc zap.Config
		if p.cfg.Environment == "production" {
			zc = zap.NewProductionConfig()
		} else {
			zc = zap.NewDevelopmentConfig()
			zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		if p.cfg.Debug {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zc.Build()
		if err != nil {
			p.err = err
			p.logger = zap.NewNop()
			return
		}
		if p.cfg.Service != "" {
			logger = logger.With(zap.String("service", p.cfg.Service))
		}
		p.logger = logger
	})
	return p.logger
}

// Err returns the logger construction error, if any.
func (p *Provider) Err() error {
	p.EnsureInitialized()
	return p.err
}

// Logger is shorthand for EnsureInitialized.
func (p *Provider) Logger() *zap.Logger {
	return p.EnsureInitialized()
}

// RUM returns the browser monitoring settings. Monitoring is enabled only
// when both Datadog browser credentials are present.
func (p *Provider) RUM() RUM {
	site := p.cfg.DatadogSite
	if site == "" {
		site = "datadoghq.eu"
	}
	return RUM{
		Enabled:       p.cfg.DatadogClientToken != "" && p.cfg.DatadogApplicationID != "",
		ClientToken:   p.cfg.DatadogClientToken,
		ApplicationID: p.cfg.DatadogApplicationID,
		Site:          site,
		Service:       p.cfg.Service,
		Env:           p.cfg.Environment,
		SentryDSN:     p.cfg.SentryDSN,
	}
}

// Sync flushes buffered log entries. Safe to call before initialization.
func (p *Provider) Sync() error {
	if p.logger == nil {
		return nil
	}
	return p.logger.Sync()
}
