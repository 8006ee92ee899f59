package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// View manages the list of runs.
type View struct {
	list     list.Model
	delegate *Delegate
}

// NewView creates a new run list view
func NewView(styles *StyleConfig) View {
	delegate := NewDelegateWithStyles(styles)
	l := list.New([]list.Item{}, &delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return View{
		list:     l,
		delegate: &delegate,
	}
}

// Update handles list updates
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// SetSize sets the list dimensions
func (v *View) SetSize(width, height int) {
	v.list.SetSize(width, height)
}

// SetItems sets the list items
func (v *View) SetItems(items []Item) {
	maxNumber := 0
	for _, item := range items {
		maxNumber = max(maxNumber, item.Run.Number)
	}
	v.delegate.SetNumberWidth(maxNumber)

	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}
	v.list.SetItems(listItems)
}

// Len returns the number of visible items.
func (v View) Len() int {
	return len(v.list.Items())
}

// Select moves the cursor to index.
func (v *View) Select(index int) {
	v.list.Select(index)
}

// GetSelectedItem returns the item under the cursor
func (v View) GetSelectedItem() (Item, bool) {
	if len(v.list.Items()) == 0 {
		return Item{}, false
	}
	item, ok := v.list.SelectedItem().(Item)
	return item, ok
}

// GetDelegate returns the row delegate.
func (v View) GetDelegate() *Delegate {
	return v.delegate
}

// Render returns the string representation of the view
func (v View) Render() string {
	return v.list.View()
}
