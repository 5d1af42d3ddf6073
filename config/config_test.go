package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://api.vlm.run/v1", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadFromMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_key: key-from-file\nbase_url: https://staging.vlm.run/v1\ntimeout: 45s\n",
	), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "key-from-file", cfg.APIKey)
	assert.Equal(t, "https://staging.vlm.run/v1", cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: key-from-file\n"), 0o600))

	t.Setenv("VLMRUN_API_KEY", "key-from-env")
	t.Setenv("VLMRUN_MAX_RETRIES", "3")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.APIKey)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadFromRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unterminated\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSanitizeGuardrails(t *testing.T) {
	cfg := Config{
		BaseURL:    "https://api.vlm.run/v1///",
		Timeout:    -1,
		MaxRetries: 0,
	}
	cfg.Sanitize()

	assert.Equal(t, "https://api.vlm.run/v1", cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}
