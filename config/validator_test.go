package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStandardValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{"defaults", func(cfg *Config) {}, false},
		{"nil config handled separately", nil, true},
		{"bad log level", func(cfg *Config) { cfg.App.LogLevel = "loud" }, true},
		{"warn is accepted", func(cfg *Config) { cfg.App.LogLevel = "warn" }, false},
		{"bad base url", func(cfg *Config) { cfg.API.BaseURL = "not a url" }, true},
		{"url without scheme", func(cfg *Config) { cfg.API.BaseURL = "claude.ai" }, true},
		{"zero timeout", func(cfg *Config) { cfg.API.Timeout = 0 }, true},
		{"bad browser", func(cfg *Config) { cfg.Browser.Browser = "safari" }, true},
		{"firefox is accepted", func(cfg *Config) { cfg.Browser.Browser = "firefox" }, false},
		{"empty domain", func(cfg *Config) { cfg.Browser.Domain = "" }, true},
		{"interval below 1s", func(cfg *Config) { cfg.Refresh.Interval = 500 * time.Millisecond }, true},
		{"interval above 1h", func(cfg *Config) { cfg.Refresh.Interval = 2 * time.Hour }, true},
		{"interval at 1s", func(cfg *Config) { cfg.Refresh.Interval = time.Second }, false},
		{"bad theme", func(cfg *Config) { cfg.UI.Theme = "solarized" }, true},
		{"narrow progress bar", func(cfg *Config) { cfg.UI.ProgressWidth = 5 }, true},
		{"empty monitor command", func(cfg *Config) { cfg.Monitor.Command = "" }, true},
	}

	v := NewStandardValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mutate == nil {
				assert.Error(t, v.Validate(nil))
				return
			}
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := v.Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
