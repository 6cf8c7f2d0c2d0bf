package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the widgets
type Theme struct {
	Primary    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
}

// Styles contains the styled components shared by both front ends
type Styles struct {
	Title     lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Stale     lipgloss.Style
	Border    lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return DarkTheme()
}

// DarkTheme returns a dark color theme
func DarkTheme() Theme {
	return Theme{
		Primary:    lipgloss.Color("#89B4FA"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#A6ADC8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// LightTheme returns a light color theme
func LightTheme() Theme {
	return Theme{
		Primary:    lipgloss.Color("#1E66F5"),
		Success:    lipgloss.Color("#40A02B"),
		Warning:    lipgloss.Color("#DF8E1D"),
		Error:      lipgloss.Color("#D20F39"),
		Foreground: lipgloss.Color("#4C4F69"),
		Muted:      lipgloss.Color("#6C6F85"),
		Border:     lipgloss.Color("#BCC0CC"),
	}
}

// NewStyles builds the style set for a theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Normal:  lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Stale:   lipgloss.NewStyle().Foreground(theme.Warning).Bold(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		StatusBar: lipgloss.NewStyle().Foreground(theme.Muted).Faint(true),
	}
}

// GetThemeByName returns a theme by name
func GetThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DefaultTheme()
	}
}
