// Package models defines data structures and domain types.
package models

import "time"

// MonthRollup holds the scalar totals for a single YYYY-MM month.
type MonthRollup struct {
	UpdatedAt time.Time
	Month     string
	Tokens    int64
	Messages  int64
	Sessions  int64
	ToolCalls int64
}

// HasActivity returns true if anything was recorded for the month.
func (r *MonthRollup) HasActivity() bool {
	return r.Tokens > 0 || r.Messages > 0 || r.Sessions > 0 || r.ToolCalls > 0
}

// MonthSummary is the compact current-month view used for the header line
// and the --once output.
type MonthSummary struct {
	Month       string
	TokensLabel string
	Tokens      int64
	Messages    int64
	Sessions    int64
	ToolCalls   int64
}

// PeakHour returns the hour with the highest count. Ties resolve to the
// earliest hour. ok is false when every count is zero.
func PeakHour(counts []int64) (hour int, count int64, ok bool) {
	for h, c := range counts {
		if c > count {
			hour, count, ok = h, c, true
		}
	}
	return hour, count, ok
}
