package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	p := NewProvider(Config{Service: "httpjpg"})

	var wg sync.WaitGroup
	loggers := make(chan any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loggers <- p.EnsureInitialized()
		}()
	}
	wg.Wait()
	close(loggers)

	first := p.EnsureInitialized()
	require.NotNil(t, first)
	for l := range loggers {
		assert.Same(t, first, l)
	}
	assert.NoError(t, p.Err())
}

func TestProvidersAreIndependent(t *testing.T) {
	a := NewProvider(Config{})
	b := NewProvider(Config{Environment: "production"})
	assert.NotSame(t, a.EnsureInitialized(), b.EnsureInitialized())
}

func TestSyncBeforeInit(t *testing.T) {
	p := &Provider{}
	assert.NoError(t, p.Sync())
}

func TestRUM(t *testing.T) {
	p := NewProvider(Config{DatadogClientToken: "pub", Environment: "production", Service: "site"})
	rum := p.RUM()
	assert.False(t, rum.Enabled, "application id missing")
	assert.Equal(t, "datadoghq.eu", rum.Site)

	p = NewProvider(Config{DatadogClientToken: "pub", DatadogApplicationID: "app", DatadogSite: "datadoghq.com"})
	rum = p.RUM()
	assert.True(t, rum.Enabled)
	assert.Equal(t, "datadoghq.com", rum.Site)
}
