package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads configuration from file and environment on top of defaults.
type Loader struct {
	paths      []string
	validators []Validator
}

// Validator validates configuration
type Validator interface {
	Validate(cfg *Config) error
}

// NewLoader creates a loader over the default search paths.
func NewLoader() *Loader {
	return &Loader{
		paths:      ConfigPaths(),
		validators: []Validator{NewStandardValidator()},
	}
}

// SetPath replaces the search paths with a single explicit config file.
func (l *Loader) SetPath(path string) {
	l.paths = []string{path}
}

// AddValidator adds a configuration validator
func (l *Loader) AddValidator(v Validator) {
	l.validators = append(l.validators, v)
}

// Load builds the effective configuration: defaults, then the first config
// file found, then CLAWDECK_* environment variables, then validation. The
// second return value is the config file that was used, empty when the
// configuration came from defaults and environment only.
func (l *Loader) Load() (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CLAWDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var usedPath string
	for _, path := range l.paths {
		expanded := os.ExpandEnv(path)
		if _, err := os.Stat(expanded); err != nil {
			continue
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", expanded, err)
		}
		usedPath = expanded
		break
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("unmarshal config: %w", err)
	}

	for _, validator := range l.validators {
		if err := validator.Validate(cfg); err != nil {
			return nil, "", fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, usedPath, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.log_level", def.App.LogLevel)
	v.SetDefault("app.log_file", def.App.LogFile)

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.org_id", def.API.OrgID)
	v.SetDefault("api.timeout", def.API.Timeout)

	v.SetDefault("browser.browser", def.Browser.Browser)
	v.SetDefault("browser.profile", def.Browser.Profile)
	v.SetDefault("browser.domain", def.Browser.Domain)

	v.SetDefault("refresh.interval", def.Refresh.Interval)

	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("ui.compact_mode", def.UI.CompactMode)
	v.SetDefault("ui.progress_width", def.UI.ProgressWidth)
	v.SetDefault("ui.show_spinner", def.UI.ShowSpinner)

	v.SetDefault("monitor.command", def.Monitor.Command)
	v.SetDefault("monitor.args", def.Monitor.Args)
	v.SetDefault("monitor.fallback", def.Monitor.Fallback)

	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.dir", def.Cache.Dir)
}
