package httpjpg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name: Jane Doe
url: https://jane.example/
main_folder: portfolio
admin_password: from-file
session_secret: s3cret
storyblok:
  public_token: pub
  region: us
  preview_secret: p
console:
  github_repository: jane/site
monitoring:
  datadog_client_token: tok
  datadog_application_id: app
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "httpjpg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", cfg.Name)
	assert.Equal(t, "https://jane.example", cfg.URL)
	assert.Equal(t, "portfolio", cfg.MainFolder)
	assert.Equal(t, "from-file", cfg.AdminPassword)
	assert.Equal(t, "us", cfg.Storyblok.Region)
	assert.Equal(t, 5*time.Minute, cfg.StoryCacheTTL)
	assert.Equal(t, 60, cfg.APIRateLimit)
	assert.Equal(t, "datadoghq.eu", cfg.Monitoring.DatadogSite)
	require.NoError(t, cfg.Validate())

	cc := cfg.consoleConfig()
	assert.Equal(t, "jane", cc.GitHub.Owner)
	assert.Equal(t, "site", cc.GitHub.Repo)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("API_RATE_LIMIT", "10")
	t.Setenv("STORY_CACHE_TTL", "30s")
	t.Setenv("DATADOG_SITE", "datadoghq.com")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AdminPassword)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 10, cfg.APIRateLimit)
	assert.Equal(t, 30*time.Second, cfg.StoryCacheTTL)
	assert.Equal(t, "datadoghq.com", cfg.consoleConfig().Datadog.Site)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, 2560, cfg.ImageMaxWidth)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"DEBUG":           "maybe",
		"LOGIN_ATTEMPTS":  "five",
		"STORY_CACHE_TTL": "soon",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "name: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := SiteConfig{AdminPassword: "a", SessionSecret: "b", Storyblok: StoryblokConfig{PreviewToken: "c"}}
	assert.NoError(t, ok.Validate())

	noPassword := ok
	noPassword.AdminPassword = ""
	assert.ErrorContains(t, noPassword.Validate(), "AdminPassword")

	noToken := ok
	noToken.Storyblok.PreviewToken = ""
	assert.ErrorContains(t, noToken.Validate(), "token")
}
