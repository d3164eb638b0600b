// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Environment variables consulted when the matching flag is not given.
const (
	EnvLogLevel  = "MATRIX_LOG_LEVEL"
	EnvLogFormat = "MATRIX_LOG_FORMAT"
)

const (
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

// logLevels lists the accepted --log-level values.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Config holds the settings that shape a single invocation.
type Config struct {
	LogLevel  string // debug, info, warn or error
	LogFormat string // text or json

	// TempDir is where standard input is spooled; "" means os.TempDir.
	TempDir string
}

// NewConfig normalises and validates cfg, filling defaults for empty fields.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}

// SlogLevel returns the slog level for a validated config.
func (c *Config) SlogLevel() slog.Level {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}

	return slog.LevelWarn
}

// NewLogger builds the diagnostic logger for one invocation. It never touches
// slog.Default, so concurrent invocations in tests stay isolated.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
