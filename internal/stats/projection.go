package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// similarBand is the relative difference, in percent, reported as "similar".
const similarBand = 10

// Projection extrapolates a month's token total from its pace so far.
type Projection struct {
	Month       string
	Tokens      int64
	DaysElapsed int
	DaysInMonth int
	DailyRate   float64
	Projected   int64
	// LastMonth is the previous month's recorded total.
	LastMonth int64
}

// Project estimates the token total for the month containing now, assuming
// the rest of the month keeps the average daily pace of the days so far.
// ok is false when cache is nil.
func Project(cache *models.StatsCache, now time.Time) (p Projection, ok bool) {
	if cache == nil {
		return Projection{}, false
	}

	year, month, day := now.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())

	p = Projection{
		Month:       MonthPrefix(now),
		DaysElapsed: day,
		DaysInMonth: first.AddDate(0, 1, -1).Day(),
		Tokens:      MonthTokens(cache.DailyModelTokens, MonthPrefix(now)),
		LastMonth:   MonthTokens(cache.DailyModelTokens, MonthPrefix(first.AddDate(0, -1, 0))),
	}
	p.DailyRate = float64(p.Tokens) / float64(p.DaysElapsed)
	p.Projected = int64(math.Round(p.DailyRate * float64(p.DaysInMonth)))

	return p, true
}

// MonthEnd returns the last day of the projected month.
func (p Projection) MonthEnd() string {
	return fmt.Sprintf("%s-%02d", p.Month, p.DaysInMonth)
}

// VsLastMonth describes the projected total relative to last month's.
func (p Projection) VsLastMonth() string {
	if p.LastMonth <= 0 {
		return "No prior data"
	}
	diff := (float64(p.Projected) - float64(p.LastMonth)) / float64(p.LastMonth) * 100
	switch {
	case math.Abs(diff) < similarBand:
		return "Similar to last month"
	case diff > 0:
		return fmt.Sprintf("%.0f%% higher than last month", diff)
	default:
		return fmt.Sprintf("%.0f%% lower than last month", -diff)
	}
}
