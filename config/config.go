package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	// Application
	App AppConfig `yaml:"app" json:"app" mapstructure:"app"`

	// Usage API
	API APIConfig `yaml:"api" json:"api" mapstructure:"api"`

	// Browser credential resolution
	Browser BrowserConfig `yaml:"browser" json:"browser" mapstructure:"browser"`

	// Refresh scheduling
	Refresh RefreshConfig `yaml:"refresh" json:"refresh" mapstructure:"refresh"`

	// User interface
	UI UIConfig `yaml:"ui" json:"ui" mapstructure:"ui"`

	// Embedded monitor process
	Monitor MonitorConfig `yaml:"monitor" json:"monitor" mapstructure:"monitor"`

	// Snapshot cache
	Cache CacheConfig `yaml:"cache" json:"cache" mapstructure:"cache"`
}

// AppConfig contains general application settings
type AppConfig struct {
	Name     string `yaml:"name" json:"name" mapstructure:"name"`
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file" mapstructure:"log_file"`
}

// APIConfig contains usage endpoint settings. OrgID may be empty, in which
// case it is discovered from /api/organizations at startup.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	OrgID   string        `yaml:"org_id" json:"org_id" mapstructure:"org_id"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
}

// BrowserConfig controls where session cookies are read from.
type BrowserConfig struct {
	// Browser is "chrome", "firefox" or "auto" (try chrome then firefox).
	Browser string `yaml:"browser" json:"browser" mapstructure:"browser"`
	// Profile overrides the deterministic default-profile choice.
	Profile string `yaml:"profile" json:"profile" mapstructure:"profile"`
	// Domain the cookies are scoped to.
	Domain string `yaml:"domain" json:"domain" mapstructure:"domain"`
}

// RefreshConfig contains polling settings
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	Theme         string `yaml:"theme" json:"theme" mapstructure:"theme"`
	CompactMode   bool   `yaml:"compact_mode" json:"compact_mode" mapstructure:"compact_mode"`
	ProgressWidth int    `yaml:"progress_width" json:"progress_width" mapstructure:"progress_width"`
	ShowSpinner   bool   `yaml:"show_spinner" json:"show_spinner" mapstructure:"show_spinner"`
}

// MonitorConfig configures the embedded monitor process
type MonitorConfig struct {
	Command  string   `yaml:"command" json:"command" mapstructure:"command"`
	Args     []string `yaml:"args" json:"args" mapstructure:"args"`
	Fallback []string `yaml:"fallback" json:"fallback" mapstructure:"fallback"`
}

// CacheConfig configures the last-known-snapshot cache
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" json:"dir" mapstructure:"dir"`
}

// ConfigPaths returns the default configuration file paths in order of precedence
func ConfigPaths() []string {
	return []string{
		"./clawdeck.yaml",
		"$HOME/.config/clawdeck/config.yaml",
		"$HOME/.clawdeck.yaml",
	}
}

// Validate checks the configuration against the standard rules. Useful after
// mutating a loaded configuration, e.g. from command line flags.
func (c *Config) Validate() error {
	return NewStandardValidator().Validate(c)
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cacheDir, _ := os.UserCacheDir()
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}

	return &Config{
		App: AppConfig{
			Name:     "clawdeck",
			LogLevel: "info",
			LogFile:  filepath.Join(cacheDir, "clawdeck", "clawdeck.log"),
		},
		API: APIConfig{
			BaseURL: "https://claude.ai",
			Timeout: 10 * time.Second,
		},
		Browser: BrowserConfig{
			Browser: "auto",
			Domain:  "claude.ai",
		},
		Refresh: RefreshConfig{
			Interval: 30 * time.Second,
		},
		UI: UIConfig{
			Theme:         "dark",
			CompactMode:   false,
			ProgressWidth: 30,
			ShowSpinner:   true,
		},
		Monitor: MonitorConfig{
			Command:  "claude-code-monitor",
			Args:     []string{"--plan", "max5"},
			Fallback: []string{"htop", "top"},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     filepath.Join(cacheDir, "clawdeck", "snapshots"),
		},
	}
}
