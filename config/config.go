// Package config loads SDK and CLI configuration.
//
// Values are resolved with a single, documented precedence:
//
//	explicit value (constructor / flag) > environment variable > config file > default
//
// Environment variables are parsed with github.com/caarlos0/env; the optional
// config file is YAML at ~/.vlmrun/config.yaml. Explicit values are applied by
// the caller after Load, so this package only handles the lower three tiers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the hosted VLM Run API endpoint.
const DefaultBaseURL = "https://api.vlm.run/v1"

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the total attempt budget for transient failures.
	DefaultMaxRetries = 5
)

// Config carries everything the client and CLI need to talk to the platform.
type Config struct {
	// APIKey authenticates every request as a bearer token.
	APIKey string `env:"VLMRUN_API_KEY" yaml:"api_key"`

	// BaseURL is the API endpoint, without a trailing slash.
	BaseURL string `env:"VLMRUN_BASE_URL" yaml:"base_url"`

	// Timeout bounds a single HTTP request, not a whole Wait.
	Timeout time.Duration `env:"VLMRUN_TIMEOUT" yaml:"timeout"`

	// MaxRetries bounds attempts for transient transport failures.
	MaxRetries int `env:"VLMRUN_MAX_RETRIES" yaml:"max_retries"`

	// WebhookSecret is the shared secret used by the CLI webhook listener.
	WebhookSecret string `env:"VLMRUN_WEBHOOK_SECRET" yaml:"webhook_secret"`

	Log LogConfig `yaml:"log"`
}

// LogConfig controls SDK logging output.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `env:"VLMRUN_LOG_LEVEL" yaml:"level"`
	// Format is "json" or "console".
	Format string `env:"VLMRUN_LOG_FORMAT" yaml:"format"`
}

// Default returns the built-in configuration with no key set.
func Default() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the per-user state directory (~/.vlmrun), or "" when the home
// directory cannot be determined.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vlmrun")
}

// FilePath returns the default config file location inside Dir.
func FilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load resolves configuration from the default file location and the
// environment. A missing config file is not an error.
func Load() (Config, error) {
	return LoadFrom(FilePath())
}

// LoadFrom resolves configuration using the given config file path. File values
// override defaults; environment values override the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// No file, lower tier only.
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to loaded values.
func (c *Config) Sanitize() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	for len(c.BaseURL) > 1 && c.BaseURL[len(c.BaseURL)-1] == '/' {
		c.BaseURL = c.BaseURL[:len(c.BaseURL)-1]
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}
