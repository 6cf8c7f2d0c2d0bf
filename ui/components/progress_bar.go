package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders one usage window as a labeled bar with a percentage.
type ProgressBar struct {
	Label       string
	Percentage  float64 // 0-100
	Width       int
	ShowPercent bool
	Style       ProgressBarStyle
	Scheme      ColorScheme
}

// ProgressBarStyle configures the bar glyphs and label styling.
type ProgressBarStyle struct {
	BarChar      string
	EmptyChar    string
	BracketStart string
	BracketEnd   string
	LabelStyle   lipgloss.Style
	PercentStyle lipgloss.Style
}

// ColorThreshold maps a lower bound percentage to a bar color.
type ColorThreshold struct {
	Value float64
	Color lipgloss.Color
}

// ColorScheme picks the bar color from utilization thresholds.
type ColorScheme struct {
	Thresholds []ColorThreshold
	Default    lipgloss.Color
}

// DefaultColorScheme matches the usage bands: green below 50%, yellow from
// 50%, orange from 75%, red from 90%.
var DefaultColorScheme = ColorScheme{
	Thresholds: []ColorThreshold{
		{Value: 0, Color: "#A6E3A1"},
		{Value: 50, Color: "#F9E2AF"},
		{Value: 75, Color: "#FAB387"},
		{Value: 90, Color: "#F38BA8"},
	},
	Default: "#A6E3A1",
}

// ColorFor returns the color for a given percentage.
func (cs ColorScheme) ColorFor(percentage float64) lipgloss.Color {
	for i := len(cs.Thresholds) - 1; i >= 0; i-- {
		if percentage >= cs.Thresholds[i].Value {
			return cs.Thresholds[i].Color
		}
	}
	return cs.Default
}

// NewProgressBar creates a bar for a utilization percentage. The value is
// clamped into [0,100] for display; range validation happens at parse time.
func NewProgressBar(label string, percentage float64) *ProgressBar {
	return &ProgressBar{
		Label:       label,
		Percentage:  clampPercent(percentage),
		Width:       30,
		ShowPercent: true,
		Style:       DefaultProgressBarStyle(),
		Scheme:      DefaultColorScheme,
	}
}

// DefaultProgressBarStyle returns the default bar glyphs.
func DefaultProgressBarStyle() ProgressBarStyle {
	return ProgressBarStyle{
		BarChar:      "█",
		EmptyChar:    "░",
		BracketStart: "[",
		BracketEnd:   "]",
		LabelStyle:   lipgloss.NewStyle().Bold(true),
		PercentStyle: lipgloss.NewStyle().Faint(true),
	}
}

// SetWidth sets the bar width, with a sane floor.
func (pb *ProgressBar) SetWidth(width int) {
	if width < 10 {
		width = 10
	}
	pb.Width = width
}

// Render renders the bar as a single line.
func (pb *ProgressBar) Render() string {
	fillLength := int(math.Round(float64(pb.Width) * pb.Percentage / 100))
	if fillLength > pb.Width {
		fillLength = pb.Width
	}
	if fillLength < 0 {
		fillLength = 0
	}

	barContent := strings.Repeat(pb.Style.BarChar, fillLength) +
		strings.Repeat(pb.Style.EmptyChar, pb.Width-fillLength)
	bar := pb.Style.BracketStart + barContent + pb.Style.BracketEnd

	color := pb.Scheme.ColorFor(pb.Percentage)
	bar = lipgloss.NewStyle().Foreground(color).Render(bar)

	parts := []string{pb.Style.LabelStyle.Render(pb.Label), bar}
	if pb.ShowPercent {
		parts = append(parts, pb.Style.PercentStyle.Render(fmt.Sprintf("%.1f%%", pb.Percentage)))
	}
	return strings.Join(parts, " ")
}

// Status classifies the current percentage into a named band.
func (pb *ProgressBar) Status() string {
	switch {
	case pb.Percentage >= 90:
		return "critical"
	case pb.Percentage >= 75:
		return "warning"
	case pb.Percentage >= 50:
		return "moderate"
	default:
		return "normal"
	}
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
