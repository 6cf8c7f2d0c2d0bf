package components

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatResetCountdown renders the time until a window reset as "1h23m" or
// "42m". A zero or past timestamp renders as "unknown".
func FormatResetCountdown(resetsAt time.Time, now time.Time) string {
	if resetsAt.IsZero() || !resetsAt.After(now) {
		return "unknown"
	}
	diff := resetsAt.Sub(now)
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatUpdatedAgo renders how long ago a snapshot was fetched.
func FormatUpdatedAgo(fetchedAt, now time.Time) string {
	if fetchedAt.IsZero() {
		return "never"
	}
	return humanize.RelTime(fetchedAt, now, "ago", "from now")
}

// SummaryLine builds the compact-mode one-liner, e.g.
// "5h: 42% (1h23m) | 7d: 10%".
func SummaryLine(fiveHourUtil float64, fiveHourReset time.Time, sevenDayUtil float64, now time.Time) string {
	return fmt.Sprintf("5h: %.0f%% (%s) | 7d: %.0f%%",
		clampPercent(fiveHourUtil),
		FormatResetCountdown(fiveHourReset, now),
		clampPercent(sevenDayUtil))
}
