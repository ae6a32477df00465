package main

import (
	"fmt"

	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// onceLine renders the month summary printed by --once, for example
// "2025-10: 1.5K tokens · 30 messages · 4 sessions · 11 tool calls".
func onceLine(s models.MonthSummary) string {
	return fmt.Sprintf("%s: %s tokens · %s messages · %s sessions · %s tool calls",
		s.Month,
		s.TokensLabel,
		format.Number(s.Messages),
		format.Number(s.Sessions),
		format.Number(s.ToolCalls),
	)
}
