package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// panelDimensions holds calculated layout dimensions
type panelDimensions struct {
	availableHeight int
	leftPanelWidth  int
	rightPanelWidth int
}

// calculateDimensions computes panel sizes based on terminal dimensions.
func (m MainModel) calculateDimensions() panelDimensions {
	headerHeight := lipgloss.Height(m.header.Render(m.width))
	// header + help line (1) + panel column header row (1) + panel borders (2)
	availableHeight := max(m.height-headerHeight-1-1-2, 1)

	// Run list (55%) | Run detail (45%)
	leftPanelWidth := int(float64(m.width) * 0.55)
	rightPanelWidth := m.width - leftPanelWidth

	return panelDimensions{
		availableHeight: availableHeight,
		leftPanelWidth:  leftPanelWidth,
		rightPanelWidth: rightPanelWidth,
	}
}

// View renders the complete TUI layout
func (m MainModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	header := m.header.Render(m.width)

	if len(m.items) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			PaddingTop(2).
			Foreground(m.styles.TextSecondary).
			Render("No runs recorded for this job.")
		return lipgloss.JoinVertical(lipgloss.Left, header, empty)
	}

	dims := m.calculateDimensions()
	leftPanel := m.renderListPanel(dims.leftPanelWidth, dims.availableHeight)
	rightPanel := m.renderDetailPanel(dims.rightPanelWidth, dims.availableHeight)
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, mainContent, m.renderHelpText())
}

// renderHelpText renders context-aware help text at the bottom
func (m MainModel) renderHelpText() string {
	keyStyle := lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Bold(true)
	sepStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary)

	var helpText string
	switch {
	case m.searchMode:
		helpText = fmt.Sprintf("%s: Apply %s %s: Clear",
			keyStyle.Render("Enter"), sepStyle.Render("•"),
			keyStyle.Render("Esc"))
	case m.detailFocused:
		helpText = fmt.Sprintf("%s: Scroll %s %s: Back %s %s: Quit",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("Esc"), sepStyle.Render("•"),
			keyStyle.Render("q"))
	default:
		helpText = fmt.Sprintf("%s: Nav %s %s: Picked %s %s: Detail %s %s: Filter %s %s %s",
			keyStyle.Render("j/k"), sepStyle.Render("•"),
			keyStyle.Render("p"), sepStyle.Render("•"),
			keyStyle.Render("Enter"), sepStyle.Render("•"),
			keyStyle.Render("Tab"), sepStyle.Render("•"),
			keyStyle.Render("/"), keyStyle.Render("q"))
	}

	return m.styles.HelpStyle().MaxWidth(m.width).Render(helpText)
}

// resizeComponents handles window resize events
func (m *MainModel) resizeComponents() {
	dims := m.calculateDimensions()

	// panel borders
	m.listView.SetSize(dims.leftPanelWidth-2, dims.availableHeight)

	// borders and the run header row
	m.detailViewport.Width = dims.rightPanelWidth - 2
	m.detailViewport.Height = dims.availableHeight - 1

	m.refreshDetail()
}
