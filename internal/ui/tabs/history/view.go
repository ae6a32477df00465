package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/models"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
	"github.com/j-veylop/claude-usage-tui/internal/ui/components"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

const chartHeight = 8

// View renders the history tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("Loading history..."))
	}

	cache := m.state.GetSnapshot()
	rollups := m.state.GetHistory()
	if cache == nil && len(rollups) == 0 {
		return m.renderEmpty()
	}

	sections := []string{m.renderHeader()}
	if cache != nil {
		sections = append(sections,
			m.renderTokenChart(cache),
			m.renderActivityChart(cache),
		)
	}
	sections = append(sections, m.renderRollups(rollups))

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No history available yet."),
		styles.HelpStyle.Render("Months are recorded each time the stats file changes."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("History")

	monthStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	month := m.Month()
	if month == "" {
		month = "no month"
	}
	indicator := monthStyle.Render("[ " + month + " ]")
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", indicator)

	subtitle := ""
	if months := m.months(); len(months) > 0 {
		subtitle = styles.HelpStyle.Render(fmt.Sprintf("%d months on record · %s → %s",
			len(months), months[len(months)-1], months[0]))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(m.viewport.Width-2, 40)
}

func cardTitle(icon, title string) string {
	return lipgloss.NewStyle().Foreground(styles.Primary).Render(icon) + " " +
		styles.CardTitleStyle.Render(title)
}

func indent(block string) []string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return lines
}

func byDate[T any](items []T, date func(T) string) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(date(a), date(b))
	})
	return sorted
}

func (m *Model) renderTokenChart(cache *models.StatsCache) string {
	cardWidth := m.cardWidth()
	rows := []string{cardTitle("▲", "Daily tokens"), ""}

	days := byDate(stats.DailyTokens(cache.DailyModelTokens, m.Month()), func(d models.DailyTokens) string {
		return d.Date
	})
	if len(days) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No token usage recorded this month"))
	} else {
		data := lo.Map(days, func(d models.DailyTokens, _ int) float64 { return float64(d.Tokens) })
		caption := fmt.Sprintf("%d days · %s tokens", len(days),
			format.Tokens(stats.MonthTokens(cache.DailyModelTokens, m.Month())))
		rows = append(rows, indent(components.RenderLineChart(data, cardWidth-18, chartHeight, caption))...)

		busiest := lo.MaxBy(days, func(a, b models.DailyTokens) bool { return a.Tokens > b.Tokens })
		rows = append(rows, "", fmt.Sprintf("  Busiest day: %s (%s tokens)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(busiest.Date),
			format.Tokens(busiest.Tokens)))
	}

	rows = append(rows, "")
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderActivityChart(cache *models.StatsCache) string {
	cardWidth := m.cardWidth()
	rows := []string{cardTitle("◇", "Messages and tool calls"), ""}

	days := byDate(stats.DailyMessages(cache.DailyActivity, m.Month()), func(d models.DailyMessages) string {
		return d.Date
	})
	if len(days) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No activity recorded this month"))
	} else {
		messages := lo.Map(days, func(d models.DailyMessages, _ int) float64 { return float64(d.Messages) })
		tools := lo.Map(days, func(d models.DailyMessages, _ int) float64 { return float64(d.ToolCalls) })
		caption := fmt.Sprintf("%d days · %s messages · %s tool calls", len(days),
			format.Number(stats.MonthMessages(cache.DailyActivity, m.Month())),
			format.Number(stats.MonthToolCalls(cache.DailyActivity, m.Month())))

		rows = append(rows, indent(components.RenderDualLineChart(messages, tools, cardWidth-18, chartHeight, caption))...)
		rows = append(rows, "", "  "+components.RenderLegend([]components.LegendItem{
			{Label: "Messages", Color: lipgloss.Color("4")},
			{Label: "Tool calls", Color: lipgloss.Color("2")},
		}))
	}

	rows = append(rows, "")
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRollups(rollups []models.MonthRollup) string {
	cardWidth := m.cardWidth()
	rows := []string{cardTitle("▦", "Monthly totals"), ""}

	active := lo.Filter(rollups, func(r models.MonthRollup, _ int) bool { return r.HasActivity() })
	if len(active) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No months recorded yet"))
	} else {
		// Oldest at the top so the bars read chronologically.
		slices.SortFunc(active, func(a, b models.MonthRollup) int { return cmp.Compare(a.Month, b.Month) })

		tokens := lo.Map(active, func(r models.MonthRollup, _ int) int64 { return r.Tokens })
		labels := lo.Map(active, func(r models.MonthRollup, _ int) string { return r.Month })
		rows = append(rows, indent(components.RenderBarChart(tokens, labels, cardWidth-6, format.Tokens))...)

		rows = append(rows, "")
		header := fmt.Sprintf("  %-8s %10s %10s %10s", "Month", "Messages", "Sessions", "Tools")
		rows = append(rows, styles.TableHeaderStyle.Render(header))
		for _, r := range slices.Backward(active) {
			line := fmt.Sprintf("  %-8s %10s %10s %10s", r.Month,
				format.Number(r.Messages), format.Number(r.Sessions), format.Number(r.ToolCalls))
			if r.Month == m.Month() {
				line = styles.TableSelectedStyle.Render(line)
			}
			rows = append(rows, line)
		}
	}

	rows = append(rows, "")
	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
