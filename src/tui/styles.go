package tui

import (
	"github.com/charmbracelet/lipgloss"

	"runselect/src/provider"
)

// StyleConfig holds all customizable style colors for the history browser.
type StyleConfig struct {
	// Primary colors
	PrimaryBlue    lipgloss.Color
	AccentBlue     lipgloss.Color
	DarkBackground lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color
	SelectedColor  lipgloss.Color

	// Highlight for the run the policy picked
	PickedColor lipgloss.Color

	// Result colors
	StatusColors  map[provider.Status]lipgloss.Color
	BuildingColor lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		AccentBlue:     lipgloss.Color("#4285F4"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		SelectedColor:  lipgloss.Color("#303134"),
		PickedColor:    lipgloss.Color("#A142F4"),
		StatusColors: map[provider.Status]lipgloss.Color{
			provider.StatusSuccess:  lipgloss.Color("#34A853"), // Green
			provider.StatusUnstable: lipgloss.Color("#FBBC04"), // Yellow
			provider.StatusFailure:  lipgloss.Color("#EA4335"), // Red
			provider.StatusNotBuilt: lipgloss.Color("#9AA0A6"),
			provider.StatusAborted:  lipgloss.Color("#9AA0A6"),
		},
		BuildingColor: lipgloss.Color("#24C1E0"), // Cyan
	}
}

// StatusColor returns the color a run's result is drawn in.
func (s *StyleConfig) StatusColor(run provider.Run) lipgloss.Color {
	if run.Building {
		return s.BuildingColor
	}
	if c, ok := s.StatusColors[run.Status]; ok {
		return c
	}
	return s.TextSecondary
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// PanelStyle returns a bordered panel style, highlighted when focused.
func (s *StyleConfig) PanelStyle(focused bool) lipgloss.Style {
	border := s.BorderColor
	if focused {
		border = s.AccentBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
