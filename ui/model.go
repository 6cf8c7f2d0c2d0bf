package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawdeck/clawdeck/api"
	"github.com/clawdeck/clawdeck/browser"
	"github.com/clawdeck/clawdeck/cache"
	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/models"
)

// Model is the usage-widget state. All mutation happens on the bubbletea
// update loop; fetches run as commands on worker goroutines and hand their
// result back as a FetchResultMsg.
type Model struct {
	cfg      *config.Config
	client   *api.Client
	resolver *browser.Resolver
	store    *cache.SnapshotStore // nil when the cache is disabled

	// Reconciler state. snapshot is the last-good data and is never cleared
	// by a failure; stale marks it as outdated.
	snapshot *models.UsageSnapshot
	stale    bool
	lastErr  error
	// resetNote is shown once after the five-hour window rolls over.
	resetNote string

	// Scheduler state. cycle is the monotonic id of the last issued fetch,
	// applied the id of the last accepted result. A tick while fetching is
	// skipped; a result with a non-current id is dropped.
	cycle       uint64
	applied     uint64
	fetching    bool
	needsReauth bool

	width   int
	height  int
	compact bool

	keys    KeyMap
	styles  Styles
	spinner spinner.Model

	// now is swappable for deterministic rendering in tests.
	now func() time.Time
}

// NewModel creates the usage-widget model. A cached snapshot, when present,
// is preloaded and marked stale so the widget never opens empty.
func NewModel(cfg *config.Config, client *api.Client, resolver *browser.Resolver, store *cache.SnapshotStore) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = NewStyles(GetThemeByName(cfg.UI.Theme)).Normal

	m := Model{
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		store:    store,
		compact:  cfg.UI.CompactMode,
		keys:     DefaultKeyMap(),
		styles:   NewStyles(GetThemeByName(cfg.UI.Theme)),
		spinner:  s,
		now:      time.Now,
	}

	if store != nil {
		if snap, err := store.Get(); err == nil && snap != nil {
			m.snapshot = snap
			m.stale = true
		}
	}

	return m
}

// Init schedules an immediate first tick; the update loop owns all fetch
// state, so even the cold-start fetch goes through it.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg { return TickMsg(time.Now()) })
}

// RequireReauth marks credentials as needing re-resolution before the next
// fetch. Used when startup resolution failed.
func (m Model) RequireReauth() Model {
	m.needsReauth = true
	return m
}

// Snapshot returns the currently displayed snapshot, if any.
func (m Model) Snapshot() *models.UsageSnapshot {
	return m.snapshot
}

// Stale reports whether the displayed snapshot is marked stale.
func (m Model) Stale() bool {
	return m.stale
}

// startFetch issues a new fetch cycle unless one is already outstanding.
func (m Model) startFetch() (Model, tea.Cmd) {
	if m.fetching {
		return m, nil
	}
	m.cycle++
	m.fetching = true
	return m, fetchCmd(m.client, m.resolver, m.cfg.API.Timeout, m.cycle, m.needsReauth)
}
