// Package stats derives display-ready aggregates from a usage snapshot.
//
// Every function here is pure: it reads its arguments, never mutates them and
// keeps no state between calls. Month filters are literal string prefixes
// over YYYY-MM-DD dates.
package stats

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// TotalTokens sums input, output, cache read and cache creation tokens over
// every model.
func TotalTokens(usage models.UsageBySource) int64 {
	return lo.SumBy(lo.Values(usage), func(m models.ModelUsage) int64 {
		return m.Total()
	})
}

// InputTokens sums input tokens over every model.
func InputTokens(usage models.UsageBySource) int64 {
	return lo.SumBy(lo.Values(usage), func(m models.ModelUsage) int64 {
		return m.InputTokens
	})
}

// OutputTokens sums output tokens over every model.
func OutputTokens(usage models.UsageBySource) int64 {
	return lo.SumBy(lo.Values(usage), func(m models.ModelUsage) int64 {
		return m.OutputTokens
	})
}

// CacheTokens sums cache read and cache creation tokens over every model.
func CacheTokens(usage models.UsageBySource) int64 {
	return lo.SumBy(lo.Values(usage), func(m models.ModelUsage) int64 {
		return m.CacheReadInputTokens + m.CacheCreationInputTokens
	})
}

// ModelSummaries returns one summary per model sorted by total tokens,
// largest first. Equal totals are ordered by model id so the result does not
// depend on map iteration order.
func ModelSummaries(usage models.UsageBySource) []models.ModelSummary {
	summaries := make([]models.ModelSummary, 0, len(usage))
	for model, u := range usage {
		summaries = append(summaries, models.ModelSummary{
			Model:               model,
			InputTokens:         u.InputTokens,
			OutputTokens:        u.OutputTokens,
			CacheReadTokens:     u.CacheReadInputTokens,
			CacheCreationTokens: u.CacheCreationInputTokens,
			TotalTokens:         u.Total(),
		})
	}

	slices.SortStableFunc(summaries, func(a, b models.ModelSummary) int {
		if c := cmp.Compare(b.TotalTokens, a.TotalTokens); c != 0 {
			return c
		}
		return cmp.Compare(a.Model, b.Model)
	})
	return summaries
}

// DailyTokens keeps the entries dated within monthPrefix, in input order, and
// collapses each entry's per-model counts into one total. Entries sharing a
// date are not merged.
func DailyTokens(entries []models.DailyModelTokens, monthPrefix string) []models.DailyTokens {
	matching := lo.Filter(entries, func(d models.DailyModelTokens, _ int) bool {
		return strings.HasPrefix(d.Date, monthPrefix)
	})
	return lo.Map(matching, func(d models.DailyModelTokens, _ int) models.DailyTokens {
		return models.DailyTokens{
			Date:   d.Date,
			Tokens: lo.Sum(lo.Values(d.TokensByModel)),
		}
	})
}

// MonthMessages sums message counts for the days within monthPrefix.
func MonthMessages(entries []models.DailyActivity, monthPrefix string) int64 {
	return sumActivity(entries, monthPrefix, func(d models.DailyActivity) int64 {
		return d.MessageCount
	})
}

// MonthSessions sums session counts for the days within monthPrefix.
func MonthSessions(entries []models.DailyActivity, monthPrefix string) int64 {
	return sumActivity(entries, monthPrefix, func(d models.DailyActivity) int64 {
		return d.SessionCount
	})
}

// MonthToolCalls sums tool call counts for the days within monthPrefix.
func MonthToolCalls(entries []models.DailyActivity, monthPrefix string) int64 {
	return sumActivity(entries, monthPrefix, func(d models.DailyActivity) int64 {
		return d.ToolCallCount
	})
}

func sumActivity(entries []models.DailyActivity, monthPrefix string, field func(models.DailyActivity) int64) int64 {
	return lo.SumBy(inMonth(entries, monthPrefix), field)
}

func inMonth(entries []models.DailyActivity, monthPrefix string) []models.DailyActivity {
	return lo.Filter(entries, func(d models.DailyActivity, _ int) bool {
		return strings.HasPrefix(d.Date, monthPrefix)
	})
}

// MonthTokens sums every model's tokens over the days within monthPrefix.
// This is the figure shown in the header line.
func MonthTokens(entries []models.DailyModelTokens, monthPrefix string) int64 {
	return lo.SumBy(DailyTokens(entries, monthPrefix), func(d models.DailyTokens) int64 {
		return d.Tokens
	})
}

// DailyMessages returns per-day message and tool call counts for the days
// within monthPrefix, in input order.
func DailyMessages(entries []models.DailyActivity, monthPrefix string) []models.DailyMessages {
	return lo.Map(inMonth(entries, monthPrefix), func(d models.DailyActivity, _ int) models.DailyMessages {
		return models.DailyMessages{
			Date:      d.Date,
			Messages:  d.MessageCount,
			ToolCalls: d.ToolCallCount,
		}
	})
}

// ModelCostCents converts a model's fractional dollar cost to whole cents.
func ModelCostCents(u models.ModelUsage) int64 {
	return int64(math.Round(u.CostUSD * 100))
}

// TotalCostCents sums every model's cost and converts it to whole cents.
// Rounding happens once, after summing.
func TotalCostCents(usage models.UsageBySource) int64 {
	dollars := lo.SumBy(lo.Values(usage), func(m models.ModelUsage) float64 {
		return m.CostUSD
	})
	return int64(math.Round(dollars * 100))
}

// HourlyCounts expands the snapshot's hour-of-day map into a 24-slot slice.
// Keys that are not hours 0-23 are ignored.
func HourlyCounts(hourCounts map[string]int64) []int64 {
	counts := make([]int64, 24)
	for k, v := range hourCounts {
		h, ok := parseHour(k)
		if !ok {
			continue
		}
		counts[h] += v
	}
	return counts
}

func parseHour(s string) (int, bool) {
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// Months returns the distinct month prefixes present in the snapshot's daily
// series, newest first.
func Months(cache *models.StatsCache) []string {
	if cache == nil {
		return nil
	}
	var dates []string
	for _, d := range cache.DailyModelTokens {
		dates = append(dates, d.Date)
	}
	for _, d := range cache.DailyActivity {
		dates = append(dates, d.Date)
	}

	months := lo.Uniq(lo.FilterMap(dates, func(date string, _ int) (string, bool) {
		if len(date) < len("2006-01") {
			return "", false
		}
		return date[:len("2006-01")], true
	}))
	slices.Sort(months)
	slices.Reverse(months)
	return months
}

// Rollup computes the scalar totals for a single month of the snapshot.
func Rollup(cache *models.StatsCache, monthPrefix string) models.MonthRollup {
	r := models.MonthRollup{Month: monthPrefix}
	if cache == nil {
		return r
	}

	r.Tokens = MonthTokens(cache.DailyModelTokens, monthPrefix)
	r.Messages = MonthMessages(cache.DailyActivity, monthPrefix)
	r.Sessions = MonthSessions(cache.DailyActivity, monthPrefix)
	r.ToolCalls = MonthToolCalls(cache.DailyActivity, monthPrefix)
	return r
}
