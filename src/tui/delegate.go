package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list and panel borders.
	listRenderingOverhead = 10

	statusWidth  = 9 // len("NOT_BUILT")
	startedWidth = 16
	markerWidth  = 2
)

// Delegate renders runs as table rows.
type Delegate struct {
	NumberWidth int
	styles      *StyleConfig
}

// NewDelegate creates a new run table delegate with default styles
func NewDelegate() Delegate {
	return NewDelegateWithStyles(DefaultStyles())
}

// NewDelegateWithStyles creates a new delegate with custom styles
func NewDelegateWithStyles(styles *StyleConfig) Delegate {
	return Delegate{
		NumberWidth: 2, // default minimum
		styles:      styles,
	}
}

// SetNumberWidth sizes the run number column for maxNumber.
func (d *Delegate) SetNumberWidth(maxNumber int) {
	d.NumberWidth = max(len(strconv.Itoa(maxNumber))+1, 2) // "#" prefix
}

// Height returns the height of a list item
func (d Delegate) Height() int {
	return 1
}

// Spacing returns spacing between items
func (d Delegate) Spacing() int {
	return 0
}

// Update handles item updates
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Row formats an item as plain text for the given list width.
func (d Delegate) Row(entry Item, width int) string {
	marker := "  "
	if entry.Picked {
		marker = "▶ "
	}
	kept := " "
	if entry.Run.KeepForever {
		kept = "K"
	}

	started := "-"
	if !entry.Run.StartedAt.IsZero() {
		started = entry.Run.StartedAt.Local().Format("2006-01-02 15:04")
	}

	numberCol := fmt.Sprintf("%*s", d.NumberWidth, "#"+strconv.Itoa(entry.Run.Number))
	statusCol := TruncateAndPad(statusText(entry.Run), statusWidth, false)
	startedCol := TruncateAndPad(started, startedWidth, false)

	// Fixed columns: marker + number + status + kept + started + separators (12)
	fixedWidth := markerWidth + d.NumberWidth + statusWidth + 1 + startedWidth + 12
	available := width - fixedWidth - listRenderingOverhead

	var name string
	if available > 0 {
		name = TruncateAndPad(CleanText(entry.Run.DisplayName), available, true)
	}

	return fmt.Sprintf("%s%s │ %s │ %s │ %s │ %s", marker, numberCol, statusCol, kept, startedCol, name)
}

// Render renders a list item
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	line := d.Row(entry, m.Width())

	style := lipgloss.NewStyle().Foreground(d.styles.StatusColor(entry.Run))
	if entry.Picked {
		style = style.Foreground(d.styles.PickedColor)
	}
	if index == m.Index() {
		style = style.Bold(true).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
