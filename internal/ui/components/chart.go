// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/claude-usage-tui/internal/ui/styles"
)

const (
	minChartWidth  = 20
	minChartHeight = 3
)

// NoData is rendered in place of a chart without values.
var NoData = styles.HelpStyle.Render("No data available")

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return NoData
	}

	return asciigraph.Plot(data,
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	)
}

// RenderDualLineChart plots two series on the same axes. The shorter series
// is padded with zeros.
func RenderDualLineChart(first, second []float64, width, height int, caption string) string {
	if len(first) == 0 && len(second) == 0 {
		return NoData
	}

	n := max(len(first), len(second))
	a := make([]float64, n)
	b := make([]float64, n)
	copy(a, first)
	copy(b, second)

	return asciigraph.PlotMany([][]float64{a, b},
		asciigraph.Height(max(height, minChartHeight)),
		asciigraph.Width(max(width, minChartWidth)),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
	)
}

// RenderBarChart creates a horizontal bar chart. format renders the value
// printed after each bar.
func RenderBarChart(values []int64, labels []string, width int, format func(int64) string) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := max(lo.Max(values), 1)
	maxLabelLen := lo.Max(lo.Map(labels, func(l string, _ int) int { return lipgloss.Width(l) }))
	barWidth := max(width-maxLabelLen-12, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int(float64(v)/float64(maxVal)*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %s", maxLabelLen, label, bar, format(v)))
	}

	return strings.Join(lines, "\n")
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// heatLevel maps v onto 0..len(HeatmapBlocks)-1 relative to maxVal.
func heatLevel(v, maxVal int64) int {
	if v <= 0 || maxVal <= 0 {
		return 0
	}
	top := len(HeatmapBlocks) - 1
	return min(max(int(float64(v)/float64(maxVal)*float64(top)+0.5), 1), top)
}

// RenderHourlyHeatmap creates a 24-hour activity heatmap. Any hour with
// activity renders at least the second block so it stands out from idle hours.
func RenderHourlyHeatmap(counts []int64) string {
	hours := make([]int64, 24)
	copy(hours, counts)

	maxVal := lo.Max(hours)

	var result strings.Builder
	result.WriteString("00 ")

	for i, v := range hours {
		level := heatLevel(v, maxVal)
		result.WriteString(styles.HeatStyle(level).Render(string(HeatmapBlocks[level])))

		if i == 11 {
			result.WriteString(" ")
		}
	}

	result.WriteString(" 23")
	return result.String()
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart. Values are
// sampled down to width when there are more of them.
func RenderSparkline(values []int64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := max(lo.Max(values), 1)
	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		idx := int(float64(v) / float64(maxVal) * float64(len(sparkChars)-1))
		result.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := lo.Map(items, func(item LegendItem, _ int) string {
		return lipgloss.NewStyle().Foreground(item.Color).Render("■") + " " + item.Label
	})
	return strings.Join(parts, "  ")
}
