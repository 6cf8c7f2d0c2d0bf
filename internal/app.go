// Package internal wires the configuration, credential resolver, API client,
// snapshot cache and UI together into runnable applications.
package internal

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawdeck/clawdeck/api"
	"github.com/clawdeck/clawdeck/browser"
	"github.com/clawdeck/clawdeck/cache"
	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/logging"
	"github.com/clawdeck/clawdeck/runner"
	"github.com/clawdeck/clawdeck/ui"
)

// Application is the usage-widget front end.
type Application struct {
	config  *config.Config
	store   *cache.SnapshotStore
	program *tea.Program
	watcher *config.Watcher
	cfgPath string
}

// NewApplication builds the usage widget. Startup credential resolution is
// allowed to fail: the widget comes up anyway and re-resolves lazily on the
// first fetch cycle.
func NewApplication(cfg *config.Config, cfgPath string) (*Application, error) {
	logger := logging.GetLogger()

	resolver := browser.NewResolver(cfg.Browser.Browser, cfg.Browser.Profile, cfg.Browser.Domain)

	creds, resolveErr := resolver.Resolve()
	if resolveErr != nil {
		logger.Warnf("startup credential resolution failed: %v", resolveErr)
		creds = browser.CredentialSet{}
	}

	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		OrgID:   cfg.API.OrgID,
		Timeout: cfg.API.Timeout,
	}, creds)

	var store *cache.SnapshotStore
	if cfg.Cache.Enabled {
		s, err := cache.NewSnapshotStore(cache.StoreConfig{
			Dir: cfg.Cache.Dir,
			TTL: 24 * time.Hour,
		})
		if err != nil {
			logger.Warnf("snapshot cache unavailable: %v", err)
		} else {
			store = s
		}
	}

	model := ui.NewModel(cfg, client, resolver, store)
	if resolveErr != nil {
		model = model.RequireReauth()
	}

	app := &Application{
		config:  cfg,
		store:   store,
		cfgPath: cfgPath,
	}
	app.program = tea.NewProgram(model, tea.WithAltScreen())

	return app, nil
}

// Run starts the widget and blocks until it exits.
func (a *Application) Run() error {
	if a.cfgPath != "" {
		watcher, err := config.NewWatcher(a.cfgPath, func(cfg *config.Config) {
			a.program.Send(ui.ConfigUpdateMsg{Config: cfg})
		})
		if err != nil {
			logging.GetLogger().Warnf("config watcher unavailable: %v", err)
		} else if err := watcher.Start(); err != nil {
			logging.GetLogger().Warnf("config watcher failed to start: %v", err)
		} else {
			a.watcher = watcher
		}
	}

	logging.GetLogger().Info("starting usage widget")
	_, err := a.program.Run()

	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	logging.Sync()

	if err != nil {
		return fmt.Errorf("widget exited with error: %w", err)
	}
	return nil
}

// MonitorApplication is the process-embedding front end.
type MonitorApplication struct {
	config  *config.Config
	program *tea.Program
	runner  *runner.Runner
}

// NewMonitorApplication builds the monitor widget around the configured
// external CLI.
func NewMonitorApplication(cfg *config.Config) (*MonitorApplication, error) {
	app := &MonitorApplication{config: cfg}

	r := runner.New(runner.Config{
		Command:  cfg.Monitor.Command,
		Args:     cfg.Monitor.Args,
		Fallback: cfg.Monitor.Fallback,
	}, func(ev runner.Event) {
		// program.Send is the thread-safe hand-off from the runner's
		// goroutines into the update loop.
		app.program.Send(ui.RunnerEventMsg{Event: ev})
	})
	app.runner = r

	model := ui.NewMonitorModel(cfg, r)
	app.program = tea.NewProgram(model, tea.WithAltScreen())

	return app, nil
}

// Run starts the monitor widget and blocks until it exits.
func (a *MonitorApplication) Run() error {
	logging.GetLogger().Info("starting monitor widget")
	_, err := a.program.Run()
	a.runner.Stop()
	logging.Sync()

	if err != nil {
		return fmt.Errorf("monitor exited with error: %w", err)
	}
	return nil
}
