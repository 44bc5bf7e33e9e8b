package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/httpjpg/httpjpg/observability"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func baseData() LayoutData {
	return LayoutData{
		Site: SiteConfig{Name: "httpjpg", URL: "https://httpjpg.com", Description: "Portfolio"},
		RUM: observability.RUM{
			Enabled:       true,
			ClientToken:   "pub123",
			ApplicationID: "app-1",
			Site:          "datadoghq.eu",
		},
	}
}

func TestLayoutTitleAndEscaping(t *testing.T) {
	d := baseData()
	d.Meta = PageMeta{Title: `Work <"2025">`, URL: "https://httpjpg.com/work/"}
	got := render(t, Layout(d, NotFound()))

	assert.Contains(t, got, "<title>Work &lt;&#34;2025&#34;&gt; | httpjpg</title>")
	assert.Contains(t, got, `<link rel="canonical" href="https://httpjpg.com/work/">`)
	assert.Contains(t, got, "Page not found")
	assert.True(t, strings.HasSuffix(got, "</body></html>"))
}

func TestLayoutRUMRequiresConsent(t *testing.T) {
	d := baseData()
	got := render(t, Layout(d, NotFound()))
	assert.NotContains(t, got, "datadog-rum.js")
	assert.Contains(t, got, `id="consent"`)

	d.Consent = Consent{Decided: true, Analytics: true}
	got = render(t, Layout(d, NotFound()))
	assert.Contains(t, got, "datadog-rum.js")
	assert.Contains(t, got, `"clientToken":"pub123"`)
	assert.NotContains(t, got, `id="consent"`)

	d.RUM.Enabled = false
	got = render(t, Layout(d, NotFound()))
	assert.NotContains(t, got, "datadog-rum.js")
}

func TestLayoutDraft(t *testing.T) {
	d := baseData()
	d.Draft = true
	d.Consent = Consent{Decided: true, Analytics: true}
	got := render(t, Layout(d, NotFound()))

	assert.Contains(t, got, "draft-banner")
	assert.Contains(t, got, storyblokBridgeSrc)
	assert.Contains(t, got, `content="noindex, nofollow"`)
	assert.NotContains(t, got, "datadog-rum.js")
}

func TestCreativeWorkJsonLD(t *testing.T) {
	published := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	raw := CreativeWorkJsonLD(SiteConfig{Author: "Jane"}, PageMeta{
		Title:     "</script>",
		URL:       "https://httpjpg.com/a/",
		Published: published,
	})
	assert.NotContains(t, raw, "</script>")

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	assert.Equal(t, "CreativeWork", data["@type"])
	assert.Equal(t, "</script>", data["name"])
	assert.Equal(t, "2025-02-03T04:05:06Z", data["datePublished"])
}

func TestAdminLogin(t *testing.T) {
	got := render(t, AdminLogin(true, `tok"en`))
	assert.Contains(t, got, "Invalid password.")
	assert.Contains(t, got, `value="tok&#34;en"`)
	assert.NotContains(t, render(t, AdminLogin(false, "x")), "Invalid password.")
}

func TestConsoleDashboardPanels(t *testing.T) {
	got := render(t, ConsoleDashboard("tok"))
	for _, id := range []string{"github", "sentry", "datadog", "uptime"} {
		assert.Contains(t, got, `data-source="`+id+`"`)
	}
}
