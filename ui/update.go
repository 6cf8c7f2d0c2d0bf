package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawdeck/clawdeck/errors"
	"github.com/clawdeck/clawdeck/logging"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case TickMsg:
		// Scheduler tick. Skipped while a fetch from a previous cycle is
		// still outstanding; the next tick is always rescheduled.
		var cmds []tea.Cmd
		var fetch tea.Cmd
		m, fetch = m.startFetch()
		if fetch != nil {
			cmds = append(cmds, fetch)
		}
		cmds = append(cmds, tickCmd(m.cfg.Refresh.Interval))
		return m, tea.Batch(cmds...)

	case RefreshRequestMsg:
		var fetch tea.Cmd
		m, fetch = m.startFetch()
		return m, fetch

	case FetchResultMsg:
		return m.applyFetchResult(msg)

	case ConfigUpdateMsg:
		m.cfg = msg.Config
		m.styles = NewStyles(GetThemeByName(msg.Config.UI.Theme))
		m.compact = msg.Config.UI.CompactMode
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

// applyFetchResult reconciles one fetch outcome onto the display state.
// Applying the same result twice yields identical visible state, and a
// failure never erases the previous snapshot.
func (m Model) applyFetchResult(msg FetchResultMsg) (tea.Model, tea.Cmd) {
	// Result for a cycle already superseded by a newer applied one: drop.
	if msg.Cycle <= m.applied {
		return m, nil
	}
	if msg.Cycle == m.cycle {
		m.fetching = false
	}

	if msg.Err != nil {
		m.lastErr = msg.Err
		if m.snapshot != nil {
			m.stale = true
		}
		if errors.IsAuth(msg.Err) {
			// Re-resolve browser credentials on the next cycle.
			m.needsReauth = true
		}
		logging.GetLogger().Warnf("fetch cycle %d failed: %v", msg.Cycle, msg.Err)
		return m, nil
	}

	if m.snapshot != nil && !m.snapshot.FiveHour.ResetsAt.IsZero() &&
		!m.snapshot.FiveHour.ResetsAt.Equal(msg.Snapshot.FiveHour.ResetsAt) {
		m.resetNote = "five-hour window reset"
	}

	m.snapshot = msg.Snapshot
	m.applied = msg.Cycle
	m.stale = false
	m.lastErr = nil
	m.needsReauth = false

	return m, persistCmd(m.store, msg.Snapshot)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		var fetch tea.Cmd
		m, fetch = m.startFetch()
		return m, fetch

	case key.Matches(msg, m.keys.Compact):
		m.compact = !m.compact
		return m, nil
	}
	return m, nil
}
