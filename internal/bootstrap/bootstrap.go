// Package bootstrap wires configuration and logging for the CLI entrypoint.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vlm-run/vlmrun-go/config"
)

// InitLogger builds the structured logger from log configuration. Console
// format writes human-readable lines to stderr; json writes one event per
// line for log shippers.
func InitLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// LoadConfig loads configuration with the documented precedence. A .env file
// in the working directory is loaded first (development convenience); a
// missing .env is not an error.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}
	return config.Load()
}
