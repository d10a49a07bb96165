package logging

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/jeedom-status/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Level      zapcore.Level     `koanf:"level"`
	Format     string            `koanf:"format"`
	Caller     CallerConfig      `koanf:"caller"`
	Stacktrace StacktraceConfig  `koanf:"stacktrace"`
	Fields     map[string]string `koanf:"fields"`
	Redaction  RedactionConfig   `koanf:"redaction"`

	// Output receives encoded entries. Defaults to stderr when nil.
	Output io.Writer `koanf:"-"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled"`
	Skip    int  `koanf:"skip"`
}

// StacktraceConfig controls stacktrace inclusion.
type StacktraceConfig struct {
	Level zapcore.Level `koanf:"level"`
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Fields   []string `koanf:"fields"`
	Patterns []string `koanf:"patterns"`
}

// NewDefaultConfig returns config for an unattended status-bar run:
// only warnings and errors, JSON on stderr.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.WarnLevel,
		Format: "json",
		Caller: CallerConfig{
			Enabled: false,
			Skip:    1,
		},
		Stacktrace: StacktraceConfig{
			Level: zapcore.FatalLevel,
		},
		Fields: map[string]string{
			"service": "jeedom-status",
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"apikey", "api_key", "password", "secret", "token", "authorization",
			},
			Patterns: []string{
				`(?i)"apikey"\s*:\s*"[^"]+"`,
				`(?i)api[_-]?key[=:]\s*\S+`,
			},
		},
	}
}

// NewDebugConfig returns config for interactive troubleshooting:
// debug level, human-readable console output with callers.
func NewDebugConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Level = zapcore.DebugLevel
	cfg.Format = "console"
	cfg.Caller.Enabled = true
	return cfg
}

// FromAppConfig derives the logging config from the application config.
// Debug mode wins over the configured level and format.
func FromAppConfig(app *config.Config) (*Config, error) {
	if app.Debug {
		return NewDebugConfig(), nil
	}

	cfg := NewDefaultConfig()
	if app.Log.Level != "" {
		level, err := LevelFromString(app.Log.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = level
	}
	if app.Log.Format != "" {
		cfg.Format = app.Log.Format
	}
	return cfg, nil
}

// writer returns the configured output, stderr by default.
func (c *Config) writer() io.Writer {
	if c.Output == nil {
		return os.Stderr
	}
	return c.Output
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}

	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}

	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if len(pattern) > 200 {
				return fmt.Errorf("redaction pattern too long (max 200 chars): %q", pattern)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
			}
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}
