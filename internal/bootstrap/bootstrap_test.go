package bootstrap

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlm-run/vlmrun-go/config"
)

func TestInitLoggerParsesLevel(t *testing.T) {
	logger := InitLogger(config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestInitLoggerDefaultsToInfo(t *testing.T) {
	logger := InitLogger(config.LogConfig{Level: "chatty", Format: "console"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestLoadConfigWithoutDotenv(t *testing.T) {
	// Running from a directory with no .env must not fail.
	t.Chdir(t.TempDir())
	t.Setenv("VLMRUN_API_KEY", "sk-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, config.DefaultBaseURL, cfg.BaseURL)
}
