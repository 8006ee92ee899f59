// Package tui provides the terminal history browser: a job's runs, newest
// first, with the run the selection policy picked highlighted.
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"runselect/src/provider"
)

// MainModel is the Bubble Tea model for the history browser.
type MainModel struct {
	items  []Item
	picked int

	header         Header
	listView       View
	detailViewport viewport.Model
	styles         *StyleConfig

	searchQuery   string
	searchMode    bool
	detailFocused bool

	width  int
	height int
	ready  bool
}

// Browse holds what the browser shows.
type Browse struct {
	Job    string
	Policy string
	Runs   []provider.Run // newest first
	Picked *provider.Run  // nil when nothing matched
}

// NewModel creates the browser model with the cursor on the picked run.
func NewModel(b Browse) MainModel {
	styles := DefaultStyles()

	picked, pickedLabel := 0, ""
	if b.Picked != nil {
		picked, pickedLabel = b.Picked.Number, runNumber(*b.Picked)
	}

	m := MainModel{
		items:          NewItems(b.Runs, picked),
		picked:         picked,
		header:         NewHeader(b.Job, b.Policy, pickedLabel, styles),
		listView:       NewView(styles),
		detailViewport: viewport.New(0, 0),
		styles:         styles,
	}
	m.listView.SetItems(m.items)
	m.jumpToPicked()
	return m
}

// Start runs the browser until the user quits.
func Start(b Browse) error {
	p := tea.NewProgram(NewModel(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model. Required by tea.Model interface.
func (m MainModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			return m.updateSearch(msg)
		}
		if m.detailFocused {
			return m.updateDetail(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			// the list would treat esc as quit
			return m, nil
		case "enter":
			if _, ok := m.listView.GetSelectedItem(); ok {
				m.detailFocused = true
			}
			return m, nil
		case "tab":
			m.header.CycleFilter()
			m.applyFilter()
			return m, nil
		case "/":
			m.searchMode = true
			m.header.SetSearch(m.searchQuery, true)
			return m, nil
		case "p":
			m.jumpToPicked()
			m.refreshDetail()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.listView, cmd = m.listView.Update(msg)
	m.refreshDetail()
	return m, cmd
}

func (m MainModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.searchMode = false
	case tea.KeyEsc:
		m.searchMode = false
		m.searchQuery = ""
	case tea.KeyBackspace:
		if r := []rune(m.searchQuery); len(r) > 0 {
			m.searchQuery = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.searchQuery += string(msg.Runes)
	}
	m.header.SetSearch(m.searchQuery, m.searchMode)
	m.applyFilter()
	return m, nil
}

func (m MainModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.detailFocused = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// jumpToPicked moves the cursor to the picked run if it is visible.
func (m *MainModel) jumpToPicked() {
	for i, item := range m.listView.list.Items() {
		if it, ok := item.(Item); ok && it.Picked {
			m.listView.Select(i)
			return
		}
	}
}

// refreshDetail shows the run under the cursor in the detail viewport.
func (m *MainModel) refreshDetail() {
	if item, ok := m.listView.GetSelectedItem(); ok {
		m.updateDetailContent(item)
		return
	}
	m.detailViewport.SetContent("")
}
