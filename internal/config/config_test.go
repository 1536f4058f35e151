package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/daylog.db", cfg.SQLitePath)
	assert.Equal(t, "data/uploads", cfg.UploadDir)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("DAYLOG_HTTP_PORT", "9999")
	t.Setenv("DAYLOG_AUTH_TOKENS", "tok1:alice@example.com,tok2:bob@example.com")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, "alice@example.com", cfg.AuthTokens["tok1"])
	assert.Equal(t, "bob@example.com", cfg.AuthTokens["tok2"])
}

func TestResolveDefaults(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", UploadDir: "up"}
	assert.Error(t, cfg.ResolveDefaults(), "postgres driver requires a DSN")

	cfg.PostgresDSN = "postgres://localhost/daylog"
	assert.NoError(t, cfg.ResolveDefaults())

	cfg = &Config{DBDriver: "mysql", UploadDir: "up"}
	assert.Error(t, cfg.ResolveDefaults(), "unknown driver is rejected")

	cfg = &Config{DBDriver: "sqlite", SQLitePath: "x.db"}
	assert.Error(t, cfg.ResolveDefaults(), "empty upload dir is rejected")
}
