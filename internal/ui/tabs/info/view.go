package info

import (
	"cmp"
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
	"github.com/j-veylop/claude-usage-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-8, 50), 80)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		threshold := "off"
		if m.config.TokenAlertThreshold > 0 {
			threshold = format.Number(m.config.TokenAlertThreshold) + " tokens"
		}

		rows = append(rows,
			renderRow("Stats File", m.config.StatsPath),
			renderRow("Database", m.config.DatabasePath),
			renderRow("Log File", m.config.LogPath),
			renderRow("Log Level", m.config.LogLevel),
			renderRow("Refresh", "every "+m.config.RefreshInterval.String()),
			renderRow("Alert Threshold", threshold),
		)
	}
	rows = append(rows, renderRow("Number Locale", format.Locale().String()))

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderDataCard() string {
	rows := []string{styles.CardTitleStyle.Render("Data"), ""}

	cache := m.state.GetSnapshot()
	if cache == nil {
		rows = append(rows, styles.HelpStyle.Render("No snapshot loaded"))
	} else {
		rows = append(rows,
			renderRow("Last Read", m.state.GetLastUpdated().Format("2006-01-02 15:04:05")),
			renderRow("Computed", cmp.Or(cache.LastComputedDate, "unknown")),
			renderRow("Format Version", fmt.Sprintf("%d", cache.Version)),
			renderRow("Models", fmt.Sprintf("%d", len(cache.ModelUsage))),
		)
	}
	rows = append(rows, renderRow("Months Stored", fmt.Sprintf("%d", len(m.state.GetHistory()))))

	if err := m.state.LastError(); err != nil {
		rows = append(rows, "", styles.WarningTextStyle.Render(err.Error()))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Claude Usage TUI"),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
