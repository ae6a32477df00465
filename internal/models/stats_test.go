package models

import (
	"encoding/json"
	"testing"
	"time"
)

const sampleSnapshot = `{
  "version": 2,
  "lastComputedDate": "2026-01-14",
  "dailyActivity": [
    {"date": "2026-01-14", "messageCount": 12, "sessionCount": 2, "toolCallCount": 30}
  ],
  "dailyModelTokens": [
    {"date": "2026-01-14", "tokensByModel": {"claude-opus-4-6": 1500}}
  ],
  "modelUsage": {
    "claude-opus-4-6": {
      "inputTokens": 100,
      "outputTokens": 200,
      "cacheReadInputTokens": 1000,
      "cacheCreationInputTokens": 50,
      "webSearchRequests": 1,
      "costUSD": 0.42
    }
  },
  "totalSessions": 2,
  "totalMessages": 12,
  "longestSession": {
    "sessionId": "abc",
    "duration": 90000,
    "messageCount": 8,
    "timestamp": "2026-01-14T10:00:00.000Z"
  },
  "firstSessionDate": "2025-11-02T08:00:00.000Z",
  "hourCounts": {"10": 4, "22": 1}
}`

func TestStatsCache_Decode(t *testing.T) {
	var s StatsCache
	if err := json.Unmarshal([]byte(sampleSnapshot), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if s.Version != 2 || s.TotalSessions != 2 || s.TotalMessages != 12 {
		t.Errorf("scalars = %+v", s)
	}
	u, ok := s.ModelUsage["claude-opus-4-6"]
	if !ok {
		t.Fatal("model usage missing claude-opus-4-6")
	}
	if u.Total() != 1350 {
		t.Errorf("ModelUsage.Total() = %d, want 1350", u.Total())
	}
	if u.CostUSD != 0.42 {
		t.Errorf("CostUSD = %v, want 0.42", u.CostUSD)
	}
	if got := s.DailyModelTokens[0].TokensByModel["claude-opus-4-6"]; got != 1500 {
		t.Errorf("TokensByModel = %d, want 1500", got)
	}
	if s.HourCounts["10"] != 4 {
		t.Errorf("HourCounts[10] = %d, want 4", s.HourCounts["10"])
	}
	if s.FirstSession() != "2025-11-02T08:00:00.000Z" {
		t.Errorf("FirstSession() = %q", s.FirstSession())
	}
}

func TestStatsCache_DecodeMissingFields(t *testing.T) {
	var s StatsCache
	if err := json.Unmarshal([]byte(`{"version": 1}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.ModelUsage != nil || s.LongestSession != nil {
		t.Errorf("expected nil optional fields, got %+v", s)
	}
	if s.FirstSession() != "" {
		t.Errorf("FirstSession() = %q, want empty", s.FirstSession())
	}
}

func TestLongestSession(t *testing.T) {
	l := &LongestSession{Duration: 90_000, Timestamp: "2026-01-14T10:00:00.000Z"}
	if got := l.Length(); got != 90*time.Second {
		t.Errorf("Length() = %v, want 1m30s", got)
	}
	started, ok := l.StartedAt()
	if !ok {
		t.Fatal("StartedAt() ok = false")
	}
	if started.Hour() != 10 || started.Day() != 14 {
		t.Errorf("StartedAt() = %v", started)
	}

	var missing *LongestSession
	if missing.Length() != 0 {
		t.Error("nil Length() should be 0")
	}
	if _, ok := missing.StartedAt(); ok {
		t.Error("nil StartedAt() should not be ok")
	}
	if _, ok := (&LongestSession{Timestamp: "yesterday"}).StartedAt(); ok {
		t.Error("bad timestamp should not be ok")
	}
}
