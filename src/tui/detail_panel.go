package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail renders the detail content for a run
func (m MainModel) renderDetail(item Item, maxWidth int) string {
	content := strings.Builder{}
	label := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true)
	value := lipgloss.NewStyle().Foreground(m.styles.TextPrimary)

	header := lipgloss.NewStyle().
		Foreground(m.styles.StatusColor(item.Run)).
		Bold(true).
		Render(Wrap(fmt.Sprintf("%s | %s", runNumber(item.Run), statusText(item.Run)), maxWidth))
	fmt.Fprintf(&content, "%s\n", header)

	if item.Picked {
		fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(m.styles.PickedColor).Bold(true).Render("Picked by the selection policy"))
	}
	if item.Run.KeepForever {
		fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(m.styles.PrimaryBlue).Render("Kept forever"))
	}
	fmt.Fprintln(&content)

	field := func(name, v string) {
		if v == "" {
			return
		}
		fmt.Fprintf(&content, "%s %s\n", label.Render(name+":"), value.Render(Wrap(v, max(maxWidth-len(name)-2, 1))))
	}

	field("Number", fmt.Sprintf("%d", item.Run.Number))
	field("ID", item.Run.ID)
	field("Name", CleanText(item.Run.DisplayName))
	field("URL", item.Run.URL)
	field("Started", formatTime(item.Run.StartedAt))
	field("Finished", formatTime(item.Run.FinishedAt))
	if d := item.Duration(); d > 0 {
		field("Duration", d.Round(time.Second).String())
	}

	if params := item.SortedParameters(); len(params) > 0 {
		fmt.Fprintln(&content)
		fmt.Fprintln(&content, label.Render("Parameters:"))
		for _, p := range params {
			fmt.Fprintln(&content, lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Render(Wrap(CleanText(p), maxWidth)))
		}
	}

	return content.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

// updateDetailContent updates the viewport with content from the selected item
func (m *MainModel) updateDetailContent(item Item) {
	maxWidth := m.detailViewport.Width - 2 // 1 char padding on each side
	if maxWidth <= 0 {
		return
	}
	m.detailViewport.SetContent(m.renderDetail(item, maxWidth))
}

// renderDetailPanel renders the right panel with detail viewport
func (m MainModel) renderDetailPanel(width, height int) string {
	if selectedItem, ok := m.listView.GetSelectedItem(); ok {
		headerRow := lipgloss.NewStyle().
			Foreground(m.styles.PrimaryBlue).
			Bold(true).
			Padding(0, 1).
			Render(Truncate(fmt.Sprintf("Run: %s", runNumber(selectedItem.Run)), width-2, true))

		panel := m.styles.PanelStyle(m.detailFocused).
			Width(width - 2).
			Height(height).
			Render(m.detailViewport.View())

		return lipgloss.JoinVertical(lipgloss.Left, headerRow, panel)
	}

	placeholderRow := lipgloss.NewStyle().
		Foreground(m.styles.TextSecondary).
		Padding(0, 1).
		Render(" ")

	emptyStyle := m.styles.PanelStyle(false).
		Width(width-2).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(m.styles.TextSecondary).
		Faint(true)

	return lipgloss.JoinVertical(lipgloss.Left, placeholderRow, emptyStyle.Render("No runs match"))
}
