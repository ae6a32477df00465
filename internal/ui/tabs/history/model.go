// Package history provides the history tab: daily charts for a chosen month
// and the persisted month-by-month rollups.
package history

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/claude-usage-tui/internal/app"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
)

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	Current   key.Binding
	Up        key.Binding
	Down      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "h"),
			key.WithHelp("[", "older month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "l"),
			key.WithHelp("]", "newer month"),
		),
		Current: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "current month"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	// selected is the month being charted. Empty follows the current month.
	selected string
}

// New creates a new history model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.step(1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.step(-1)
	case key.Matches(keyMsg, m.keys.Current):
		m.selected = ""
		m.viewport.GotoTop()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(keyMsg)
		return m, cmd
	}

	return m, nil
}

// Month returns the month currently charted.
func (m *Model) Month() string {
	if m.selected != "" {
		return m.selected
	}
	return m.state.CurrentMonth()
}

// months lists the selectable months, newest first. The current month is
// always selectable even before anything is recorded for it.
func (m *Model) months() []string {
	months := stats.Months(m.state.GetSnapshot())
	if current := m.state.CurrentMonth(); current != "" && !slices.Contains(months, current) {
		months = append(months, current)
		slices.Sort(months)
		slices.Reverse(months)
	}
	return months
}

// step moves the selection by delta positions in the newest-first month list.
// Positive deltas go back in time.
func (m *Model) step(delta int) {
	months := m.months()
	if len(months) == 0 {
		return
	}

	idx := slices.Index(months, m.Month())
	if idx < 0 {
		idx = 0
	}
	idx = min(max(idx+delta, 0), len(months)-1)

	m.selected = months[idx]
	if m.selected == m.state.CurrentMonth() {
		m.selected = ""
	}
	m.viewport.GotoTop()
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 0)
	m.viewport.Height = max(height-2, 0)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.PrevMonth, m.keys.NextMonth, m.keys.Current}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevMonth, m.keys.NextMonth, m.keys.Current},
		{m.keys.Up, m.keys.Down},
	}
}
