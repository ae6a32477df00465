package models

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/claude-usage-tui/internal/format"
	domain "github.com/j-veylop/claude-usage-tui/internal/models"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
	"github.com/j-veylop/claude-usage-tui/internal/ui/components"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

// View renders the models tab.
func (m *Model) View() string {
	m.sync()

	cache := m.state.GetSnapshot()
	if cache == nil || len(m.summaries) == 0 {
		return m.renderEmptyState()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(cache.ModelUsage),
		m.renderTable(),
		m.renderDetail(cache.ModelUsage),
	)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 60)
}

func (m *Model) renderTitle(usage domain.UsageBySource) string {
	title := styles.TitleStyle.Render("Models")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d models · %s tokens · %s estimated · sorted by %s",
		len(m.summaries),
		format.Tokens(stats.TotalTokens(usage)),
		format.CostCents(stats.TotalCostCents(usage)),
		m.sort,
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Width(m.cardWidth()).Render(m.table.View())
}

func (m *Model) renderEmptyState() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Models"),
		"",
		styles.HelpStyle.Render("No model usage recorded yet."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderDetail shows the token mix of the selected model next to every
// model's total.
func (m *Model) renderDetail(usage domain.UsageBySource) string {
	s, ok := m.selected()
	if !ok {
		return ""
	}

	width := m.cardWidth()
	if width >= 100 {
		half := (width - 2) / 2
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderBreakdown(s, usage[s.Model], half),
			"  ",
			m.renderTotals(half),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderBreakdown(s, usage[s.Model], width),
		m.renderTotals(width),
	)
}

func (m *Model) renderBreakdown(s domain.ModelSummary, u domain.ModelUsage, width int) string {
	inner := width - 8
	rows := []string{
		styles.CardTitleStyle.Render(format.ModelName(s.Model)),
		styles.HelpStyle.Render(s.Model),
		"",
		components.ShareLine("Input      ", share(s.InputTokens, s.TotalTokens), inner),
		components.ShareLine("Output     ", share(s.OutputTokens, s.TotalTokens), inner),
		components.ShareLine("Cache read ", share(s.CacheReadTokens, s.TotalTokens), inner),
		components.ShareLine("Cache write", share(s.CacheCreationTokens, s.TotalTokens), inner),
		"",
		fmt.Sprintf("%s %s   %s %s",
			styles.StatLabelStyle.Render("Cost"),
			styles.StatValueStyle.Render(format.CostCents(stats.ModelCostCents(u))),
			styles.StatLabelStyle.Render("Web searches"),
			styles.StatValueStyle.Render(format.Number(u.WebSearchRequests)),
		),
	}

	return styles.CardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderTotals(width int) string {
	values := lo.Map(m.summaries, func(s domain.ModelSummary, _ int) int64 { return s.TotalTokens })
	labels := lo.Map(m.summaries, func(s domain.ModelSummary, _ int) string { return format.ModelName(s.Model) })

	rows := []string{
		styles.CardTitleStyle.Render("Total tokens"),
		"",
		components.RenderBarChart(values, labels, width-8, format.Tokens),
	}

	return styles.CardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
