package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

func TestUpsertRollup(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	r := models.MonthRollup{Month: "2026-01", Tokens: 1_500_000, Messages: 40, Sessions: 6, ToolCalls: 90}
	if err := db.UpsertRollup(ctx, r); err != nil {
		t.Fatalf("UpsertRollup() failed: %v", err)
	}

	got, err := db.GetRollup(ctx, "2026-01")
	if err != nil {
		t.Fatalf("GetRollup() failed: %v", err)
	}
	if got.Tokens != r.Tokens || got.Messages != r.Messages || got.Sessions != r.Sessions || got.ToolCalls != r.ToolCalls {
		t.Errorf("GetRollup() = %+v, want %+v", got, r)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpsertRollup() should stamp UpdatedAt")
	}
}

func TestUpsertRollup_Replaces(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.UpsertRollup(ctx, models.MonthRollup{Month: "2026-01", Tokens: 10}); err != nil {
		t.Fatalf("UpsertRollup() failed: %v", err)
	}
	stamp := time.Date(2026, time.January, 20, 8, 30, 0, 0, time.UTC)
	if err := db.UpsertRollup(ctx, models.MonthRollup{Month: "2026-01", Tokens: 25, UpdatedAt: stamp}); err != nil {
		t.Fatalf("UpsertRollup() failed: %v", err)
	}

	got, err := db.GetRollup(ctx, "2026-01")
	if err != nil {
		t.Fatalf("GetRollup() failed: %v", err)
	}
	if got.Tokens != 25 {
		t.Errorf("Tokens = %d, want 25", got.Tokens)
	}
	if !got.UpdatedAt.Equal(stamp) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, stamp)
	}

	rollups, err := db.GetRollups(ctx, 0)
	if err != nil {
		t.Fatalf("GetRollups() failed: %v", err)
	}
	if len(rollups) != 1 {
		t.Errorf("len(GetRollups()) = %d, want 1", len(rollups))
	}
}

func TestUpsertRollup_RequiresMonth(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.UpsertRollup(context.Background(), models.MonthRollup{Tokens: 1}); err == nil {
		t.Error("UpsertRollup() should reject an empty month")
	}
}

func TestGetRollup_NotFound(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.GetRollup(context.Background(), "1999-01")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRollup() error = %v, want ErrNotFound", err)
	}
}

func seedRollups(t *testing.T, db *DB) {
	t.Helper()
	rollups := []models.MonthRollup{
		{Month: "2025-11", Tokens: 1},
		{Month: "2026-01", Tokens: 3},
		{Month: "2025-12", Tokens: 2},
		{Month: "2026-02", Tokens: 4},
	}
	if err := db.UpsertRollups(context.Background(), rollups); err != nil {
		t.Fatalf("UpsertRollups() failed: %v", err)
	}
}

func TestGetRollups_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedRollups(t, db)

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"All", 0, []string{"2026-02", "2026-01", "2025-12", "2025-11"}},
		{"Negative", -3, []string{"2026-02", "2026-01", "2025-12", "2025-11"}},
		{"Limited", 2, []string{"2026-02", "2026-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.GetRollups(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("GetRollups() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(GetRollups()) = %d, want %d", len(got), len(tt.want))
			}
			for i, month := range tt.want {
				if got[i].Month != month {
					t.Errorf("GetRollups()[%d].Month = %q, want %q", i, got[i].Month, month)
				}
			}
		})
	}
}

func TestGetRollups_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	got, err := db.GetRollups(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRollups() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetRollups() = %v, want empty", got)
	}
}

func TestUpsertRollups_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.UpsertRollups(context.Background(), nil); err != nil {
		t.Errorf("UpsertRollups(nil) failed: %v", err)
	}
}

func TestDeleteRollupsBefore(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedRollups(t, db)
	ctx := context.Background()

	n, err := db.DeleteRollupsBefore(ctx, "2026-01")
	if err != nil {
		t.Fatalf("DeleteRollupsBefore() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteRollupsBefore() removed %d rows, want 2", n)
	}

	got, err := db.GetRollups(ctx, 0)
	if err != nil {
		t.Fatalf("GetRollups() failed: %v", err)
	}
	if len(got) != 2 || got[1].Month != "2026-01" {
		t.Errorf("GetRollups() after delete = %+v", got)
	}
}

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
	}{
		{"2026-01-20 08:30:00", true},
		{"2026-01-20T08:30:00Z", true},
		{"2026-01-20T08:30:00", true},
		{"yesterday", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := parseTimeString(tt.in); ok != tt.wantOK {
			t.Errorf("parseTimeString(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}
	}
}
