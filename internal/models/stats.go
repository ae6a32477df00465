// Package models defines data structures and domain types.
package models

import "time"

// StatsCache mirrors the usage statistics snapshot Claude writes to
// ~/.claude/stats-cache.json.
type StatsCache struct {
	ModelUsage       UsageBySource      `json:"modelUsage"`
	HourCounts       map[string]int64   `json:"hourCounts"`
	LongestSession   *LongestSession    `json:"longestSession"`
	FirstSessionDate *string            `json:"firstSessionDate"`
	LastComputedDate string             `json:"lastComputedDate"`
	DailyActivity    []DailyActivity    `json:"dailyActivity"`
	DailyModelTokens []DailyModelTokens `json:"dailyModelTokens"`
	Version          int                `json:"version"`
	TotalSessions    int64              `json:"totalSessions"`
	TotalMessages    int64              `json:"totalMessages"`
}

// UsageBySource maps a model identifier to its cumulative usage.
type UsageBySource map[string]ModelUsage

// ModelUsage holds cumulative token counters for a single model.
type ModelUsage struct {
	InputTokens              int64   `json:"inputTokens"`
	OutputTokens             int64   `json:"outputTokens"`
	CacheReadInputTokens     int64   `json:"cacheReadInputTokens"`
	CacheCreationInputTokens int64   `json:"cacheCreationInputTokens"`
	WebSearchRequests        int64   `json:"webSearchRequests"`
	CostUSD                  float64 `json:"costUSD"`
}

// Total returns the sum of all four token categories.
func (u ModelUsage) Total() int64 {
	return u.InputTokens + u.OutputTokens + u.CacheReadInputTokens + u.CacheCreationInputTokens
}

// DailyModelTokens holds per-model token counts for a single YYYY-MM-DD date.
type DailyModelTokens struct {
	TokensByModel map[string]int64 `json:"tokensByModel"`
	Date          string           `json:"date"`
}

// DailyActivity holds message, session and tool call counts for a single date.
type DailyActivity struct {
	Date          string `json:"date"`
	MessageCount  int64  `json:"messageCount"`
	SessionCount  int64  `json:"sessionCount"`
	ToolCallCount int64  `json:"toolCallCount"`
}

// LongestSession describes the longest recorded session.
type LongestSession struct {
	SessionID    string `json:"sessionId"`
	Timestamp    string `json:"timestamp"`
	Duration     int64  `json:"duration"` // milliseconds
	MessageCount int64  `json:"messageCount"`
}

// Length returns the session duration as a time.Duration.
func (l *LongestSession) Length() time.Duration {
	if l == nil {
		return 0
	}
	return time.Duration(l.Duration) * time.Millisecond
}

// StartedAt parses the session timestamp. ok is false when it is missing or
// not RFC 3339.
func (l *LongestSession) StartedAt() (t time.Time, ok bool) {
	if l == nil || l.Timestamp == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, l.Timestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FirstSession returns the first session date, or "" when none is recorded.
func (s *StatsCache) FirstSession() string {
	if s == nil || s.FirstSessionDate == nil {
		return ""
	}
	return *s.FirstSessionDate
}

// ModelSummary is the per-model breakdown shown in the models table.
type ModelSummary struct {
	Model               string
	InputTokens         int64
	OutputTokens        int64
	CacheReadTokens     int64
	CacheCreationTokens int64
	TotalTokens         int64
}

// DailyTokens is the token total across all models for one date.
type DailyTokens struct {
	Date   string
	Tokens int64
}

// DailyMessages is the message and tool call activity for one date.
type DailyMessages struct {
	Date      string
	Messages  int64
	ToolCalls int64
}
