package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

// Theme holds the styles used for command output.
type Theme struct {
	Name    string
	Accent  lipgloss.Style
	Dim     lipgloss.Style
	Text    lipgloss.Style
	Title   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
}

var themeRegistry = map[string]func() Theme{
	"rainbow": Rainbow,
	"mono":    Monochrome,
	"nocolor": NoColor,
}

// ThemeNames returns the list of available theme names.
func ThemeNames() []string {
	return []string{"rainbow", "mono", "nocolor"}
}

// GetTheme returns a theme by name, falling back to Rainbow.
// noColor forces the NoColor theme.
func GetTheme(name string, noColor bool) Theme {
	if noColor {
		return NoColor()
	}
	if fn, ok := themeRegistry[name]; ok {
		return fn()
	}
	return Rainbow()
}

// ValidTheme returns true if the theme name is valid.
func ValidTheme(name string) bool {
	_, ok := themeRegistry[name]
	return ok
}

// Rainbow is the default colorful theme.
func Rainbow() Theme {
	return Theme{
		Name:    "rainbow",
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6FF7")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6F93")),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6FA")),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8EEBFF")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#5CFF5C")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7C7CFF")),
	}
}

// Monochrome is a grayscale theme.
func Monochrome() Theme {
	return Theme{
		Name:    "mono",
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")),
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Underline(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Bold(true),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// NoColor uses only bold and underline, for NO_COLOR environments.
func NoColor() Theme {
	reset := lipgloss.NewStyle()
	return Theme{
		Name:    "nocolor",
		Accent:  reset.Bold(true),
		Dim:     reset,
		Text:    reset,
		Title:   reset.Bold(true),
		Error:   reset.Bold(true).Underline(true),
		Success: reset.Bold(true),
		Warning: reset.Bold(true),
		Border:  reset,
	}
}

// OutcomeStyle picks the style an outcome is rendered with.
func (t Theme) OutcomeStyle(o scrobble.Outcome) lipgloss.Style {
	switch o {
	case scrobble.OutcomeOK:
		return t.Success
	case scrobble.OutcomeAuthMissing:
		return t.Warning
	default:
		return t.Error
	}
}
