package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"runselect/src/selector"
)

const (
	filterAll  = "ALL"
	filterKept = "KEPT"
)

// headerFilters are the list filters Tab cycles through.
var headerFilters = []string{
	filterAll,
	filterKept,
	string(selector.BuildStable),
	string(selector.BuildSuccessful),
	string(selector.BuildUnstable),
	string(selector.BuildFailed),
	string(selector.BuildCompleted),
}

// Header represents the top status bar component.
type Header struct {
	job            string
	policy         string
	picked         string
	selectedFilter string
	searchQuery    string
	searchMode     bool
	styles         *StyleConfig
}

// NewHeader creates a header for job. policy describes the selection
// policy and picked the run it chose, or "" when nothing matched.
func NewHeader(job, policy, picked string, styles *StyleConfig) Header {
	return Header{
		job:            job,
		policy:         policy,
		picked:         picked,
		selectedFilter: filterAll,
		styles:         styles,
	}
}

// SetFilter sets the current filter
func (h *Header) SetFilter(filter string) {
	h.selectedFilter = filter
}

// GetFilter returns the current filter
func (h Header) GetFilter() string {
	return h.selectedFilter
}

// CycleFilter cycles to the next filter
func (h *Header) CycleFilter() {
	currentIndex := 0
	for i, f := range headerFilters {
		if f == h.selectedFilter {
			currentIndex = i
			break
		}
	}
	h.selectedFilter = headerFilters[(currentIndex+1)%len(headerFilters)]
}

// SetSearch updates the search state
func (h *Header) SetSearch(query string, mode bool) {
	h.searchQuery = query
	h.searchMode = mode
}

// Render renders the header
func (h Header) Render(width int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(h.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 2)

	job := titleStyle.Render(Truncate(h.job, max(width/3, 10), true))

	pickedText := "no candidate"
	if h.picked != "" {
		pickedText = "picked " + h.picked
	}
	policy := lipgloss.NewStyle().
		Foreground(h.styles.PickedColor).
		Padding(0, 2).
		Render(Truncate(fmt.Sprintf("%s → %s", h.policy, pickedText), max(width/3, 10), true))

	filter := titleStyle.Render(fmt.Sprintf("Filter: %s", h.selectedFilter))

	var searchText string
	switch {
	case h.searchMode:
		searchText = fmt.Sprintf("Search: %s█", h.searchQuery)
	case h.searchQuery != "":
		searchText = fmt.Sprintf("Search: %s", h.searchQuery)
	default:
		searchText = "[/] to search"
	}

	searchStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)
	if h.searchMode {
		searchStyle = searchStyle.Foreground(h.styles.PrimaryBlue)
	}
	search := searchStyle.Render(searchText)

	content := lipgloss.JoinHorizontal(lipgloss.Left, job, policy, filter, search)
	if lipgloss.Width(content) > width {
		content = lipgloss.JoinHorizontal(lipgloss.Left, job, policy)
	}

	headerStyle := lipgloss.NewStyle().
		Background(h.styles.DarkBackground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor).
		MaxWidth(width).
		Width(width)

	return headerStyle.Render(content)
}
