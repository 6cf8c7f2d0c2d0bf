package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestFormatResetCountdown(t *testing.T) {
	tests := []struct {
		name     string
		resetsAt time.Time
		expected string
	}{
		{"hours and minutes", now.Add(83 * time.Minute), "1h23m"},
		{"minutes only", now.Add(42 * time.Minute), "42m"},
		{"on the hour", now.Add(2 * time.Hour), "2h0m"},
		{"under a minute", now.Add(30 * time.Second), "0m"},
		{"zero time", time.Time{}, "unknown"},
		{"already past", now.Add(-time.Minute), "unknown"},
		{"exactly now", now, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatResetCountdown(tt.resetsAt, now))
		})
	}
}

func TestFormatUpdatedAgo(t *testing.T) {
	assert.Equal(t, "never", FormatUpdatedAgo(time.Time{}, now))

	got := FormatUpdatedAgo(now.Add(-30*time.Second), now)
	assert.Contains(t, got, "ago")
}

func TestSummaryLine(t *testing.T) {
	line := SummaryLine(42.5, now.Add(83*time.Minute), 10, now)
	assert.Equal(t, "5h: 42% (1h23m) | 7d: 10%", line)

	// Out-of-range values are clamped for display.
	line = SummaryLine(150, time.Time{}, -3, now)
	assert.Equal(t, "5h: 100% (unknown) | 7d: 0%", line)
}
