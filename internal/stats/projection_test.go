package stats

import (
	"testing"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

func projectionCache() *models.StatsCache {
	return &models.StatsCache{
		DailyModelTokens: []models.DailyModelTokens{
			{Date: "2025-01-20", TokensByModel: map[string]int64{"claude-opus-4-6": 9000}},
			{Date: "2025-02-03", TokensByModel: map[string]int64{"claude-opus-4-6": 4000}},
			{Date: "2025-02-09", TokensByModel: map[string]int64{"claude-sonnet-4-5": 3000}},
		},
	}
}

func TestProject(t *testing.T) {
	now := time.Date(2025, time.February, 10, 18, 0, 0, 0, time.UTC)

	p, ok := Project(projectionCache(), now)
	if !ok {
		t.Fatal("Project() ok = false")
	}

	want := Projection{
		Month:       "2025-02",
		Tokens:      7000,
		DaysElapsed: 10,
		DaysInMonth: 28,
		DailyRate:   700,
		Projected:   19600,
		LastMonth:   9000,
	}
	if p != want {
		t.Errorf("Project() = %+v, want %+v", p, want)
	}
	if got := p.MonthEnd(); got != "2025-02-28" {
		t.Errorf("MonthEnd() = %q, want 2025-02-28", got)
	}
}

func TestProject_NilCache(t *testing.T) {
	if _, ok := Project(nil, time.Now()); ok {
		t.Error("Project(nil) ok = true, want false")
	}
}

func TestProject_JanuaryLooksAtDecember(t *testing.T) {
	cache := &models.StatsCache{
		DailyModelTokens: []models.DailyModelTokens{
			{Date: "2024-12-31", TokensByModel: map[string]int64{"claude-opus-4-6": 500}},
		},
	}

	p, _ := Project(cache, time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC))
	if p.LastMonth != 500 || p.Projected != 0 || p.DaysInMonth != 31 {
		t.Errorf("Project() = %+v", p)
	}
}

func TestProjection_VsLastMonth(t *testing.T) {
	tests := []struct {
		projected, last int64
		want            string
	}{
		{100, 0, "No prior data"},
		{105, 100, "Similar to last month"},
		{95, 100, "Similar to last month"},
		{150, 100, "50% higher than last month"},
		{40, 100, "60% lower than last month"},
	}

	for _, tt := range tests {
		p := Projection{Projected: tt.projected, LastMonth: tt.last}
		if got := p.VsLastMonth(); got != tt.want {
			t.Errorf("VsLastMonth(%d vs %d) = %q, want %q", tt.projected, tt.last, got, tt.want)
		}
	}
}
