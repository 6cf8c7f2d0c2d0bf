package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// StandardValidator validates the fields the widgets depend on.
type StandardValidator struct{}

// NewStandardValidator creates a new standard validator
func NewStandardValidator() *StandardValidator {
	return &StandardValidator{}
}

// Validate checks the configuration for invalid values
func (v *StandardValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	switch strings.ToLower(cfg.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", cfg.App.LogLevel)
	}

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base URL: %s", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %v", cfg.API.Timeout)
	}

	switch strings.ToLower(cfg.Browser.Browser) {
	case "auto", "chrome", "chromium", "firefox":
	default:
		return fmt.Errorf("invalid browser: %s (valid: auto, chrome, chromium, firefox)", cfg.Browser.Browser)
	}

	if cfg.Browser.Domain == "" {
		return fmt.Errorf("browser domain cannot be empty")
	}

	if cfg.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh interval too small: %v (minimum: 1s)", cfg.Refresh.Interval)
	}
	if cfg.Refresh.Interval > time.Hour {
		return fmt.Errorf("refresh interval too large: %v (maximum: 1h)", cfg.Refresh.Interval)
	}

	switch strings.ToLower(cfg.UI.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid theme: %s (valid: dark, light)", cfg.UI.Theme)
	}

	if cfg.UI.ProgressWidth < 10 {
		return fmt.Errorf("progress width too small: %d (minimum: 10)", cfg.UI.ProgressWidth)
	}

	if cfg.Monitor.Command == "" {
		return fmt.Errorf("monitor command cannot be empty")
	}

	return nil
}
