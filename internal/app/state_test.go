package app

import (
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetSnapshot() != nil {
		t.Error("Snapshot should be nil before the first load")
	}
	if !s.Loading.Initial {
		t.Error("Initial loading should be true")
	}
	if s.Version() != 0 {
		t.Errorf("Version() = %d, want 0", s.Version())
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("snapshot", true)
	if !s.Loading.Snapshot {
		t.Error("Snapshot loading should be true")
	}

	s.SetLoading("snapshot", false)
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}
	if resources := s.GetLoadingResources(); len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading("history", true)
	resources := s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != "history" {
		t.Errorf("GetLoadingResources should contain history, got %v", resources)
	}

	s.SetLoading("unknown", true)
	if len(s.GetLoadingResources()) != 1 {
		t.Error("unknown resources should be ignored")
	}
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()
	s.SetLastError(errors.New("boom"))

	cache := &models.StatsCache{TotalSessions: 3}
	summary := models.MonthSummary{Month: "2026-01", Tokens: 1500, TokensLabel: "1.5K"}
	loadedAt := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	s.SetSnapshot(cache, summary, loadedAt)

	if s.GetSnapshot() != cache {
		t.Error("GetSnapshot should return the stored snapshot")
	}
	if s.GetSummary() != summary {
		t.Errorf("GetSummary() = %+v, want %+v", s.GetSummary(), summary)
	}
	if s.CurrentMonth() != "2026-01" {
		t.Errorf("CurrentMonth() = %q, want 2026-01", s.CurrentMonth())
	}
	if !s.GetLastUpdated().Equal(loadedAt) {
		t.Errorf("GetLastUpdated() = %v, want %v", s.GetLastUpdated(), loadedAt)
	}
	if s.LastError() != nil {
		t.Errorf("SetSnapshot should clear the last error, got %v", s.LastError())
	}
	if s.TimeSinceUpdate() <= 0 {
		t.Error("TimeSinceUpdate should be > 0")
	}

	s.SetSnapshot(cache, summary, loadedAt)
	if s.Version() != 2 {
		t.Errorf("Version() = %d, want 2", s.Version())
	}
}

func TestState_SetSummary(t *testing.T) {
	s := NewState()
	s.SetSummary(models.MonthSummary{Month: "2026-02"})

	if s.CurrentMonth() != "2026-02" {
		t.Errorf("CurrentMonth() = %q, want 2026-02", s.CurrentMonth())
	}
	if s.Version() != 0 {
		t.Error("SetSummary should not bump the version")
	}
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before the first snapshot")
	}
}

func TestState_History(t *testing.T) {
	s := NewState()
	rollups := []models.MonthRollup{
		{Month: "2026-02", Tokens: 10},
		{Month: "2026-01", Tokens: 20},
	}

	s.SetHistory(rollups)
	rollups[0].Tokens = 999

	got := s.GetHistory()
	if len(got) != 2 {
		t.Fatalf("GetHistory() len = %d, want 2", len(got))
	}
	if got[0].Tokens != 10 {
		t.Error("SetHistory should copy its input")
	}

	got[1].Month = "changed"
	if s.GetHistory()[1].Month != "2026-01" {
		t.Error("GetHistory should return a copy")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_NotificationLimit(t *testing.T) {
	s := NewState()

	ids := make(map[string]bool)
	for range maxNotifications + 5 {
		ids[s.AddNotification(NotificationInfo, "n", 0)] = true
	}

	if len(ids) != maxNotifications+5 {
		t.Errorf("notification IDs should be unique, got %d distinct", len(ids))
	}
	if got := len(s.GetNotifications()); got != maxNotifications {
		t.Errorf("GetNotifications len = %d, want %d", got, maxNotifications)
	}

	s.ClearAllNotifications()
	if len(s.GetNotifications()) != 0 {
		t.Error("ClearAllNotifications should empty the list")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.notifications = append(s.notifications,
		Notification{
			ID:        "expired",
			CreatedAt: time.Now().Add(-2 * time.Minute),
			Duration:  time.Minute,
		},
		Notification{
			ID:        "active",
			CreatedAt: time.Now(),
			Duration:  time.Minute,
		},
	)

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}

	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatal("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
