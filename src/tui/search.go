package tui

import (
	"runselect/src/selector"
)

// matchesFilter reports whether item passes a header filter.
func matchesFilter(item Item, filter string) bool {
	switch filter {
	case filterAll:
		return true
	case filterKept:
		return selector.SavedFilter{}.IsSelectable(item.Run, nil)
	default:
		return selector.BuildStatus(filter).Matches(item.Run)
	}
}

// applyFilter filters items based on the header filter and search query
func (m *MainModel) applyFilter() {
	filter := m.header.GetFilter()

	var filtered []Item
	for _, item := range m.items {
		if matchesFilter(item, filter) && item.Matches(m.searchQuery) {
			filtered = append(filtered, item)
		}
	}

	m.listView.SetItems(filtered)
	m.refreshDetail()
}
