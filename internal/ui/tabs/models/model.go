// Package models provides the models tab: per-model token and cost breakdown.
package models

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/claude-usage-tui/internal/app"
	"github.com/j-veylop/claude-usage-tui/internal/format"
	domain "github.com/j-veylop/claude-usage-tui/internal/models"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

// sortMode orders the table rows.
type sortMode int

const (
	sortByTokens sortMode = iota
	sortByCost
	sortByName
)

var sortNames = []string{"tokens", "cost", "name"}

func (s sortMode) String() string {
	return sortNames[s]
}

func (s sortMode) next() sortMode {
	return (s + 1) % sortMode(len(sortNames))
}

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Sort key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
	}
}

// maxTableRows caps the visible table body.
const maxTableRows = 10

// Model represents the models tab state.
type Model struct {
	state  *app.State
	table  table.Model
	keys   keyMap
	width  int
	height int

	sort      sortMode
	summaries []domain.ModelSummary
	synced    uint64
	hasSynced bool
}

// New creates a new models tab.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "Model", Width: 20},
		{Title: "Input", Width: 8},
		{Title: "Output", Width: 8},
		{Title: "Cache R", Width: 8},
		{Title: "Cache W", Width: 8},
		{Title: "Total", Width: 8},
		{Title: "Share", Width: 6},
		{Title: "Cost", Width: 9},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(maxTableRows),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgLight).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state: state,
		table: t,
		keys:  defaultKeyMap(),
	}
}

// Init initializes the models tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the models tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.sync()
	if key.Matches(keyMsg, m.keys.Sort) {
		m.sort = m.sort.next()
		m.rebuild()
		m.table.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(keyMsg)
	return m, cmd
}

// sync rebuilds the rows when a new snapshot has been stored.
func (m *Model) sync() {
	if m.hasSynced && m.synced == m.state.Version() {
		return
	}
	m.synced = m.state.Version()
	m.hasSynced = true
	m.rebuild()
}

func (m *Model) rebuild() {
	cache := m.state.GetSnapshot()
	if cache == nil {
		m.summaries = nil
		m.table.SetRows(nil)
		return
	}

	m.summaries = sortSummaries(stats.ModelSummaries(cache.ModelUsage), cache.ModelUsage, m.sort)
	total := stats.TotalTokens(cache.ModelUsage)

	rows := make([]table.Row, 0, len(m.summaries))
	for _, s := range m.summaries {
		rows = append(rows, table.Row{
			format.ModelName(s.Model),
			format.Tokens(s.InputTokens),
			format.Tokens(s.OutputTokens),
			format.Tokens(s.CacheReadTokens),
			format.Tokens(s.CacheCreationTokens),
			format.Tokens(s.TotalTokens),
			fmt.Sprintf("%.0f%%", share(s.TotalTokens, total)),
			format.CostCents(stats.ModelCostCents(cache.ModelUsage[s.Model])),
		})
	}

	m.table.SetRows(rows)
	m.table.SetHeight(min(len(rows), maxTableRows) + 2)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// sortSummaries reorders summaries, which arrive sorted by tokens.
func sortSummaries(summaries []domain.ModelSummary, usage domain.UsageBySource, mode sortMode) []domain.ModelSummary {
	switch mode {
	case sortByCost:
		slices.SortStableFunc(summaries, func(a, b domain.ModelSummary) int {
			return cmp.Compare(usage[b.Model].CostUSD, usage[a.Model].CostUSD)
		})
	case sortByName:
		slices.SortStableFunc(summaries, func(a, b domain.ModelSummary) int {
			return cmp.Compare(a.Model, b.Model)
		})
	}
	return summaries
}

// share returns part as a percentage of total.
func share(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// selected returns the summary under the cursor.
func (m *Model) selected() (domain.ModelSummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.summaries) {
		return domain.ModelSummary{}, false
	}
	return m.summaries[i], true
}

// SetSize sets the available size for the models tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Sort}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Up, m.keys.Down}, {m.keys.Sort}}
}
