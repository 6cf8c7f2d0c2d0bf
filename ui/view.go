package ui

import (
	"fmt"
	"strings"

	"github.com/clawdeck/clawdeck/models"
	"github.com/clawdeck/clawdeck/ui/components"
)

// View renders the usage widget. Rendering is a pure function of the model
// state (plus the injected clock), so reconciling the same snapshot twice
// produces identical output.
func (m Model) View() string {
	if m.compact {
		return m.renderCompact()
	}
	return m.renderFull()
}

func (m Model) renderFull() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Claude Usage"))
	b.WriteString("\n\n")

	if m.snapshot == nil {
		if m.lastErr != nil {
			b.WriteString(m.styles.Error.Render("Error: " + m.lastErr.Error()))
		} else {
			loading := "Loading..."
			if m.cfg.UI.ShowSpinner {
				loading = m.spinner.View() + " " + loading
			}
			b.WriteString(m.styles.Normal.Render(loading))
		}
		b.WriteString("\n")
		b.WriteString(m.renderStatusLine())
		return b.String()
	}

	m.renderWindow(&b, "5-Hour Usage", m.snapshot.FiveHour)
	m.renderWindow(&b, "7-Day Usage", m.snapshot.SevenDay)
	if m.snapshot.SevenDayOpus != nil {
		m.renderWindow(&b, "Opus (7-Day)", *m.snapshot.SevenDayOpus)
	}
	if m.snapshot.SevenDaySonnet != nil {
		m.renderWindow(&b, "Sonnet (7-Day)", *m.snapshot.SevenDaySonnet)
	}

	if extra := m.snapshot.Extra; extra != nil && extra.IsEnabled {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
			"Extra Usage  $%.2f / $%.2f (%.0f%%)",
			extra.UsedCredits/100, extra.MonthlyLimit/100, extra.Utilization)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m Model) renderWindow(b *strings.Builder, label string, w models.UsageWindow) {
	bar := components.NewProgressBar(label, w.Utilization)
	bar.SetWidth(m.cfg.UI.ProgressWidth)
	b.WriteString(bar.Render())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(
		"  Resets in " + components.FormatResetCountdown(w.ResetsAt, m.now())))
	b.WriteString("\n\n")
}

func (m Model) renderCompact() string {
	if m.snapshot == nil {
		return m.styles.Normal.Render("Loading...")
	}
	line := components.SummaryLine(
		m.snapshot.FiveHour.Utilization,
		m.snapshot.FiveHour.ResetsAt,
		m.snapshot.SevenDay.Utilization,
		m.now())
	if m.stale {
		line += " " + m.styles.Stale.Render("[stale]")
	}
	return m.styles.Normal.Render(line)
}

// renderStatusLine shows freshness, errors and the reset note.
func (m Model) renderStatusLine() string {
	var parts []string

	if m.fetching && m.cfg.UI.ShowSpinner {
		parts = append(parts, m.spinner.View())
	}

	if m.snapshot != nil {
		updated := "Updated " + components.FormatUpdatedAgo(m.snapshot.FetchedAt, m.now())
		if m.stale {
			parts = append(parts, m.styles.Stale.Render("[stale] "+updated))
		} else {
			parts = append(parts, m.styles.StatusBar.Render(updated))
		}
	}

	if m.lastErr != nil {
		parts = append(parts, m.styles.Error.Render(m.lastErr.Error()))
	}

	if m.resetNote != "" {
		parts = append(parts, m.styles.Warning.Render(m.resetNote))
	}

	parts = append(parts, m.styles.StatusBar.Render(
		fmt.Sprintf("refresh %s · r refresh · c compact · q quit", m.cfg.Refresh.Interval)))

	return strings.Join(parts, "  ")
}
