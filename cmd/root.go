package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/internal"
	"github.com/clawdeck/clawdeck/logging"
)

var (
	cfgFile  string
	logLevel string
	debug    bool

	// Usage widget flags, applied on top of the loaded config.
	flagBrowser string
	flagProfile string
	flagOrgID   string
	flagRefresh time.Duration
	flagTheme   string
	flagCompact bool
	flagNoCache bool
)

var rootCmd = &cobra.Command{
	Use:   "clawdeck",
	Short: "Claude usage widget for the desktop",
	Long: `clawdeck renders your Claude.ai rate-limit usage in the terminal.

It reads the session cookies from your browser's cookie store, polls the
Claude.ai usage endpoint every 30 seconds and shows the five-hour and
seven-day windows as color-coded progress bars. A companion monitor
subcommand embeds an external monitoring CLI in the same surface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUsage()
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the usage widget (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUsage()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Accept underscore spellings of flag names, e.g. --log_level.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/clawdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Flags().StringVar(&flagBrowser, "browser", "", "browser to read cookies from (auto, chrome, chromium, firefox)")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "browser profile name override")
	rootCmd.Flags().StringVar(&flagOrgID, "org", "", "organization UUID (skips discovery)")
	rootCmd.Flags().DurationVarP(&flagRefresh, "refresh", "r", 0, "refresh interval (e.g. 30s, 1m)")
	rootCmd.Flags().StringVarP(&flagTheme, "theme", "t", "", "UI theme (dark, light)")
	rootCmd.Flags().BoolVarP(&flagCompact, "compact", "c", false, "start in compact single-line mode")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the on-disk snapshot cache")

	usageCmd.Flags().AddFlagSet(rootCmd.Flags())

	rootCmd.AddCommand(usageCmd)
}

// loadConfiguration loads the config file, then layers command line flags on
// top of it.
func loadConfiguration() (*config.Config, string, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetPath(cfgFile)
	}

	cfg, path, err := loader.Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	if flagBrowser != "" {
		cfg.Browser.Browser = flagBrowser
	}
	if flagProfile != "" {
		cfg.Browser.Profile = flagProfile
	}
	if flagOrgID != "" {
		cfg.API.OrgID = flagOrgID
	}
	if flagRefresh > 0 {
		cfg.Refresh.Interval = flagRefresh
	}
	if flagTheme != "" {
		cfg.UI.Theme = flagTheme
	}
	if flagCompact {
		cfg.UI.CompactMode = true
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if debug {
		cfg.App.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

func runUsage() error {
	cfg, path, err := loadConfiguration()
	if err != nil {
		return err
	}

	logging.InitLogger(cfg.App.LogLevel, cfg.App.LogFile)

	app, err := internal.NewApplication(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return app.Run()
}
