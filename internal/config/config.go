// Package config provides configuration loading for jeedom-status.
//
// Configuration is layered from built-in defaults, an optional YAML file,
// an optional .env file and the process environment. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fyrsmithlabs/jeedom-status/internal/alerts"
	"github.com/fyrsmithlabs/jeedom-status/internal/bar"
	"github.com/fyrsmithlabs/jeedom-status/internal/glyph"
)

// Validation errors.
var (
	ErrMissingURL    = errors.New("jeedom url is required")
	ErrMissingAPIKey = errors.New("jeedom api key is required")
)

// Config holds the complete jeedom-status configuration.
type Config struct {
	Jeedom  JeedomConfig  `koanf:"jeedom"`
	Bar     BarConfig     `koanf:"bar"`
	Battery BatteryConfig `koanf:"battery"`
	Log     LogConfig     `koanf:"log"`
	GitHub  GitHubConfig  `koanf:"github"`

	// Debug switches logging to debug level and console format.
	Debug bool `koanf:"debug"`

	// Fake renders embedded sample responses instead of calling a controller.
	Fake bool `koanf:"fake"`
}

// JeedomConfig holds controller connection settings.
type JeedomConfig struct {
	URL          string   `koanf:"url"`
	AlternateURL string   `koanf:"alternate_url"`
	APIKey       Secret   `koanf:"api_key"`
	Timeout      Duration `koanf:"timeout"`
}

// BarConfig selects how the status line is rendered.
type BarConfig struct {
	Type                 string `koanf:"type"`
	Style                string `koanf:"style"`
	IgnoreBatteryWarning bool   `koanf:"ignore_battery_warning"`
}

// BatteryConfig holds the battery percentage thresholds, used only when a
// device does not raise the matching flag itself.
type BatteryConfig struct {
	DangerThreshold  uint32 `koanf:"danger_threshold"`
	WarningThreshold uint32 `koanf:"warning_threshold"`
}

// Thresholds returns the thresholds in the form the aggregator takes.
func (c BatteryConfig) Thresholds() alerts.Thresholds {
	return alerts.Thresholds{Danger: c.DangerThreshold, Warning: c.WarningThreshold}
}

// GitHubConfig holds settings for the release check.
type GitHubConfig struct {
	// Token is optional and only raises the API rate limit.
	Token Secret `koanf:"token"`

	// ReleaseRepository is the owner/name repository whose releases are checked.
	ReleaseRepository string `koanf:"release_repository"`

	// APIURL overrides the GitHub API endpoint. Empty means api.github.com.
	APIURL string `koanf:"api_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// URLs returns the controller URLs to probe, primary first.
func (c *JeedomConfig) URLs() []string {
	urls := []string{c.URL}
	if c.AlternateURL != "" {
		urls = append(urls, c.AlternateURL)
	}
	return urls
}

// TimeoutOrDefault returns the HTTP timeout, 10s when unset.
func (c *JeedomConfig) TimeoutOrDefault() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout.Duration()
}

// Validate validates the configuration.
//
// Returns an error if:
//   - URL or API key is missing outside fake mode
//   - a URL is not absolute http(s)
//   - bar type or style is unknown
//   - thresholds are above 100 or danger exceeds warning
func (c *Config) Validate() error {
	if !c.Fake {
		if c.Jeedom.URL == "" {
			return ErrMissingURL
		}
		if !c.Jeedom.APIKey.IsSet() {
			return ErrMissingAPIKey
		}
	}

	for _, raw := range []string{c.Jeedom.URL, c.Jeedom.AlternateURL} {
		if raw == "" {
			continue
		}
		if err := validateURL(raw); err != nil {
			return err
		}
	}

	if _, err := bar.ParseFormat(c.Bar.Type); err != nil {
		return fmt.Errorf("invalid bar type: %w", err)
	}
	if _, err := glyph.ParseTheme(c.Bar.Style); err != nil {
		return fmt.Errorf("invalid bar style: %w", err)
	}

	if err := c.Battery.Thresholds().Validate(); err != nil {
		return fmt.Errorf("battery: %w", err)
	}

	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Log.Format)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", raw)
	}
	return nil
}

// Normalize trims and lowercases values after flags have been applied.
func (c *Config) Normalize() {
	normalize(c)
}

// normalize trims values the controller is sensitive to.
func normalize(cfg *Config) {
	cfg.Jeedom.URL = strings.TrimRight(strings.TrimSpace(cfg.Jeedom.URL), "/")
	cfg.Jeedom.AlternateURL = strings.TrimRight(strings.TrimSpace(cfg.Jeedom.AlternateURL), "/")
	cfg.Bar.Type = strings.ToLower(strings.TrimSpace(cfg.Bar.Type))
	cfg.Bar.Style = strings.ToLower(strings.TrimSpace(cfg.Bar.Style))
}
