package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/claude-usage-tui/internal/logger"
	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

// Stat is one labelled value inside a StatCard.
type Stat struct {
	Label string
	Value string
}

// StatCard renders a titled card of aligned label/value rows.
type StatCard struct {
	Title string
	Icon  string
	Stats []Stat
}

// View renders the card at the given outer width, border included.
func (c StatCard) View(width int) string {
	labelWidth := 0
	for _, s := range c.Stats {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}

	rows := make([]string, 0, len(c.Stats)+2)
	rows = append(rows, c.header(), "")

	if len(c.Stats) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Nothing recorded yet"))
	}
	for _, s := range c.Stats {
		label := styles.StatLabelStyle.Width(labelWidth).Render(s.Label)
		rows = append(rows, fmt.Sprintf("  %s  %s", label, styles.StatValueStyle.Render(s.Value)))
	}

	return styles.CardStyle.Width(max(width, 24) - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (c StatCard) header() string {
	title := styles.CardTitleStyle.Render(c.Title)
	if c.Icon == "" {
		return title
	}
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render(c.Icon)
	return icon + " " + title
}

// Share bar gradient endpoints.
const (
	shareFrom = "#e8b29a"
	shareTo   = "#c15f3c"
)

// RenderShareBar renders the percent share of a total as a gradient bar.
func RenderShareBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(shareFrom, shareTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return b.String()
}

// ShareLine renders "label [bar] 42%" sized to width.
func ShareLine(label string, percent float64, width int) string {
	const percentWidth = 5
	barWidth := max(width-lipgloss.Width(label)-percentWidth-4, 5)

	percentStr := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", styles.StatLabelStyle.Render(label), RenderShareBar(percent, barWidth), percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
