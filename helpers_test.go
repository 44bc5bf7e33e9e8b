package httpjpg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("HTTPJPG_CONFIG", "")
	assert.Equal(t, "httpjpg.yaml", EnvOr("HTTPJPG_CONFIG", "httpjpg.yaml"))
	t.Setenv("HTTPJPG_CONFIG", "/etc/httpjpg.yaml")
	assert.Equal(t, "/etc/httpjpg.yaml", EnvOr("HTTPJPG_CONFIG", "httpjpg.yaml"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://httpjpg.example/", BuildURL("https://httpjpg.example"))
	assert.Equal(t, "https://httpjpg.example/work/one/", BuildURL("https://httpjpg.example", "work", "one"))
}
