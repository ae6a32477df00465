package overview

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/models"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
	"github.com/j-veylop/claude-usage-tui/internal/ui/components"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

// sideBySideWidth is the narrowest content width that fits two cards per row.
const sideBySideWidth = 84

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	cache := m.state.GetSnapshot()
	width := max(m.viewport.Width, 40)

	sections := []string{m.renderTitle(cache)}
	if cache == nil {
		sections = append(sections, m.renderEmpty(width))
	} else {
		sections = append(sections,
			m.renderCards(cache, width),
			m.renderActivity(cache, width),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(cache *models.StatsCache) string {
	title := styles.TitleStyle.Render("Claude Usage")

	var subtitle string
	switch {
	case cache == nil:
		subtitle = "Waiting for a stats snapshot"
	case cache.LastComputedDate != "":
		subtitle = fmt.Sprintf("Stats computed %s · read %s",
			cache.LastComputedDate, m.state.GetLastUpdated().Format("15:04:05"))
	default:
		subtitle = "Read " + m.state.GetLastUpdated().Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, styles.HelpStyle.Render(subtitle), "")
}

func (m *Model) renderEmpty(width int) string {
	rows := []string{
		styles.CardTitleStyle.Render("No usage recorded yet"),
		"",
		styles.HelpStyle.Render("Claude writes ~/.claude/stats-cache.json after your first session."),
		styles.HelpStyle.Render("This view updates as soon as the file appears."),
	}
	if err := m.state.LastError(); err != nil {
		rows = append(rows, "", styles.WarningTextStyle.Render(err.Error()))
	}

	return styles.CardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderCards(cache *models.StatsCache, width int) string {
	if width < sideBySideWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			monthCard(m.state.GetSummary(), cache, m.state.GetLastUpdated()).View(width),
			allTimeCard(cache).View(width),
		)
	}

	cardWidth := (width - 2) / 2
	return lipgloss.JoinHorizontal(lipgloss.Top,
		monthCard(m.state.GetSummary(), cache, m.state.GetLastUpdated()).View(cardWidth),
		"  ",
		allTimeCard(cache).View(cardWidth),
	)
}

// countValue renders a count as "1.5K (1,523)", or just the grouped number
// when the suffixed form would repeat it.
func countValue(n int64) string {
	short, exact := format.Tokens(n), format.Number(n)
	if n < 1_000 {
		return exact
	}
	return fmt.Sprintf("%s (%s)", short, exact)
}

func monthCard(summary models.MonthSummary, cache *models.StatsCache, now time.Time) components.StatCard {
	days := stats.DailyTokens(cache.DailyModelTokens, summary.Month)
	slices.SortStableFunc(days, func(a, b models.DailyTokens) int {
		return strings.Compare(a.Date, b.Date)
	})
	trend := components.RenderSparkline(lo.Map(days, func(d models.DailyTokens, _ int) int64 {
		return d.Tokens
	}), 31)

	card := components.StatCard{
		Title: "This month · " + summary.Month,
		Icon:  "◈",
		Stats: []components.Stat{
			{Label: "Tokens", Value: countValue(summary.Tokens)},
			{Label: "Messages", Value: format.Number(summary.Messages)},
			{Label: "Sessions", Value: format.Number(summary.Sessions)},
			{Label: "Tool calls", Value: format.Number(summary.ToolCalls)},
		},
	}
	if trend != "" {
		card.Stats = append(card.Stats, components.Stat{Label: "Daily tokens", Value: trend})
	}
	if p, ok := stats.Project(cache, now); ok && p.Month == summary.Month && p.Tokens > 0 {
		card.Stats = append(card.Stats,
			components.Stat{Label: "Projected", Value: fmt.Sprintf("≈ %s by %s", format.Tokens(p.Projected), p.MonthEnd())},
			components.Stat{Label: "Pace", Value: p.VsLastMonth()},
		)
	}
	return card
}

func allTimeCard(cache *models.StatsCache) components.StatCard {
	usage := cache.ModelUsage

	card := components.StatCard{
		Title: "All time",
		Icon:  "◆",
		Stats: []components.Stat{
			{Label: "Total tokens", Value: countValue(stats.TotalTokens(usage))},
			{Label: "Input", Value: format.Tokens(stats.InputTokens(usage))},
			{Label: "Output", Value: format.Tokens(stats.OutputTokens(usage))},
			{Label: "Cache", Value: format.Tokens(stats.CacheTokens(usage))},
			{Label: "Est. cost", Value: format.CostCents(stats.TotalCostCents(usage))},
			{Label: "Sessions", Value: format.Number(cache.TotalSessions)},
			{Label: "Messages", Value: format.Number(cache.TotalMessages)},
		},
	}

	if first := cache.FirstSession(); first != "" {
		card.Stats = append(card.Stats, components.Stat{Label: "First session", Value: displayDate(first)})
	}
	if ls := cache.LongestSession; ls != nil && ls.Duration > 0 {
		value := fmt.Sprintf("%s · %s messages", format.Duration(ls.Length()), format.Number(ls.MessageCount))
		card.Stats = append(card.Stats, components.Stat{Label: "Longest session", Value: value})
	}

	return card
}

// displayDate renders an RFC 3339 timestamp or a bare date as "Jan 2, 2006".
// Anything else is shown as-is.
func displayDate(s string) string {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

func (m *Model) renderActivity(cache *models.StatsCache, width int) string {
	counts := stats.HourlyCounts(cache.HourCounts)

	rows := []string{
		lipgloss.NewStyle().Foreground(styles.Primary).Render("◷") + " " +
			styles.CardTitleStyle.Render("Activity by hour"),
		"",
		"  " + components.RenderHourlyHeatmap(counts),
		"",
	}

	if hour, count, ok := models.PeakHour(counts); ok {
		rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("  Peak at %02d:00 with %s sessions started",
			hour, format.Number(count))))
	} else {
		rows = append(rows, styles.HelpStyle.Render("  No hourly activity recorded"))
	}

	return styles.CardStyle.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
