package format

import (
	"testing"
	"time"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"Zero", 0, "0"},
		{"Small", 42, "42"},
		{"JustUnderK", 999, "999"},
		{"ExactK", 1_000, "1.0K"},
		{"RoundsHalfUp", 1_050, "1.1K"},
		{"Thousands", 12_345, "12.3K"},
		{"JustUnderM", 999_999, "1000.0K"},
		{"ExactM", 1_000_000, "1.0M"},
		{"Millions", 2_560_000, "2.6M"},
		{"JustUnderB", 999_999_999, "1000.0M"},
		{"ExactB", 1_000_000_000, "1.0B"},
		{"Billions", 12_340_000_000, "12.3B"},
		{"Negative", -5, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokens(tt.in); got != tt.want {
				t.Errorf("Tokens(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCostCents(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{99, "$0.99"},
		{100, "$1.00"},
		{12345, "$123.45"},
		{-500, "$-5.00"},
		{-1, "$-0.01"},
		{123456789, "$1234567.89"},
	}

	for _, tt := range tests {
		if got := CostCents(tt.in); got != tt.want {
			t.Errorf("CostCents(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude-opus-4-6", "Opus 4 6"},
		{"claude-sonnet-4-5-20250929", "Sonnet 4 5 20250929"},
		{"gpt-4", "Gpt 4"},
		{"claude-opus", "Opus"},
		{"opus", "Opus"},
		{"claude-", ""},
		{"", ""},
		{"my-claude-model", "My Claude Model"},
		{"claude-claude-x", "Claude X"},
		{"claude-3-5-haiku", "3 5 Haiku"},
		{"claude-über-fast", "Über Fast"},
		{"claude-mIxEd", "MIxEd"},
	}

	for _, tt := range tests {
		if got := ModelName(tt.in); got != tt.want {
			t.Errorf("ModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Minute, "0s"},
		{42 * time.Second, "42s"},
		{1500 * time.Millisecond, "2s"},
		{14*time.Minute + 3*time.Second, "14m 03s"},
		{2*time.Hour + 5*time.Minute + 59*time.Second, "2h 05m"},
		{49 * time.Hour, "49h 00m"},
	}

	for _, tt := range tests {
		if got := Duration(tt.in); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
