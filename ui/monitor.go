package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clawdeck/clawdeck/config"
	"github.com/clawdeck/clawdeck/runner"
)

// maxScrollback bounds the retained output lines.
const maxScrollback = 5000

// RunnerEventMsg wraps a runner event for delivery into the update loop.
// The bridge (program.Send) is the thread-safe hand-off; the runner never
// mutates widget state.
type RunnerEventMsg struct {
	Event runner.Event
}

// MonitorModel is the process-embedding widget: an embedded terminal surface
// showing the output of an external CLI, with start/restart/stop controls.
type MonitorModel struct {
	cfg    *config.Config
	runner *runner.Runner

	viewport viewport.Model
	lines    []string
	follow   bool

	status string
	pid    int

	width  int
	height int
	ready  bool

	keys   MonitorKeyMap
	styles Styles
}

// NewMonitorModel creates the monitor-widget model. The runner is started by
// the caller once the program is running, so its events have somewhere to go.
func NewMonitorModel(cfg *config.Config, r *runner.Runner) MonitorModel {
	return MonitorModel{
		cfg:    cfg,
		runner: r,
		follow: true,
		status: "Starting...",
		keys:   DefaultMonitorKeyMap(),
		styles: NewStyles(GetThemeByName(cfg.UI.Theme)),
	}
}

// Init spawns the embedded process once the program is running, so its
// events have a live update loop to land in.
func (m MonitorModel) Init() tea.Cmd {
	return func() tea.Msg {
		m.runner.Start()
		return nil
	}
}

// Update handles incoming messages
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 3 // title and status lines
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case RunnerEventMsg:
		return m.applyRunnerEvent(msg.Event)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m MonitorModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.runner.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Restart):
		m.status = "Restarting..."
		m.appendLine("-- restart --")
		go m.runner.Restart()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if m.runner.Running() {
			m.status = "Stopping..."
			go m.runner.Stop()
		}
		return m, nil
	}

	// Scrolling detaches follow mode until the user returns to the bottom.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.follow = m.viewport.AtBottom()
	return m, cmd
}

// applyRunnerEvent folds one process event into the display.
func (m MonitorModel) applyRunnerEvent(ev runner.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case runner.Started:
		m.pid = ev.PID
		m.status = fmt.Sprintf("Running (PID: %d)", ev.PID)

	case runner.Line:
		m.appendLine(ev.Text)

	case runner.Exited:
		if ev.Err != nil {
			m.status = fmt.Sprintf("Process error: %v", ev.Err)
		} else {
			m.status = fmt.Sprintf("Process exited (code: %d)", ev.Code)
		}
		m.pid = 0

	case runner.SpawnFailed:
		m.status = "Spawn failed"
		m.appendLine("Error: " + ev.Err.Error())
		m.appendLine("Install " + m.cfg.Monitor.Command + " or adjust monitor.command in the config.")
	}
	return m, nil
}

func (m *MonitorModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxScrollback {
		m.lines = m.lines[len(m.lines)-maxScrollback:]
	}
	m.refreshViewport()
}

func (m *MonitorModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View renders the monitor widget
func (m MonitorModel) View() string {
	if !m.ready {
		return "Starting monitor..."
	}

	title := m.styles.Title.Render("Claude Monitor")
	status := m.styles.StatusBar.Render(
		m.status + " · r restart · s stop · q quit")

	return title + "\n" + m.viewport.View() + "\n" + status
}

// Lines returns the retained scrollback, for tests.
func (m MonitorModel) Lines() []string {
	return m.lines
}

// Status returns the current status line text, for tests.
func (m MonitorModel) Status() string {
	return m.status
}
