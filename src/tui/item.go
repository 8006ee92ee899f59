package tui

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"runselect/src/provider"
)

// Item is one run in the history list. It implements bubbles/list.Item.
type Item struct {
	Run provider.Run
	// Picked marks the run the selection policy chose.
	Picked bool
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Title() }

// Title returns the run number, e.g. "#42".
func (i Item) Title() string { return runNumber(i.Run) }

// Description returns the result, or "BUILDING" for runs still in progress.
func (i Item) Description() string { return statusText(i.Run) }

// Matches reports whether query appears in the run's number, name, ID or
// parameters. Matching is case-insensitive.
func (i Item) Matches(query string) bool {
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	if strings.Contains(runNumber(i.Run), query) ||
		strings.Contains(strings.ToLower(i.Run.DisplayName), query) ||
		strings.Contains(strings.ToLower(i.Run.ID), query) {
		return true
	}
	for k, v := range i.Run.Parameters {
		if strings.Contains(strings.ToLower(k+"="+v), query) {
			return true
		}
	}
	return false
}

// SortedParameters returns the run's parameters as NAME=value, by name.
func (i Item) SortedParameters() []string {
	params := make([]string, 0, len(i.Run.Parameters))
	for k, v := range i.Run.Parameters {
		params = append(params, k+"="+v)
	}
	sort.Strings(params)
	return params
}

// Duration is how long the run took, zero when unknown or still running.
func (i Item) Duration() time.Duration {
	if i.Run.Building || i.Run.StartedAt.IsZero() || i.Run.FinishedAt.IsZero() {
		return 0
	}
	return i.Run.FinishedAt.Sub(i.Run.StartedAt)
}

// NewItems wraps runs, marking the one numbered picked. A picked value of
// zero marks nothing.
func NewItems(runs []provider.Run, picked int) []Item {
	items := make([]Item, len(runs))
	for i, r := range runs {
		items[i] = Item{Run: r, Picked: picked != 0 && r.Number == picked}
	}
	return items
}

func runNumber(run provider.Run) string {
	return "#" + strconv.Itoa(run.Number)
}

func statusText(run provider.Run) string {
	if run.Building {
		return "BUILDING"
	}
	if run.Status == "" {
		return "-"
	}
	return string(run.Status)
}
