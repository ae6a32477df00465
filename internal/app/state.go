// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Snapshot bool
	History  bool
}

// State is the data shared between the root model and the tabs.
type State struct {
	loadedAt time.Time
	snapshot *models.StatsCache
	lastErr  error

	summary models.MonthSummary
	rollups []models.MonthRollup

	notifications []Notification
	Loading       LoadingState

	version         uint64
	notificationSeq int
	mu              sync.RWMutex
}

// NewState creates an empty state that is still in its initial load.
func NewState() *State {
	return &State{
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "snapshot":
		s.Loading.Snapshot = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Snapshot || s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Snapshot {
		resources = append(resources, "snapshot")
	}
	if s.Loading.History {
		resources = append(resources, "history")
	}
	return resources
}

// SetSnapshot stores a freshly loaded snapshot together with its summary.
// Every call bumps Version so tabs know to rebuild derived rows.
func (s *State) SetSnapshot(cache *models.StatsCache, summary models.MonthSummary, loadedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cache
	s.summary = summary
	s.loadedAt = loadedAt
	s.lastErr = nil
	s.version++
}

// GetSnapshot returns the latest snapshot, or nil before the first load.
func (s *State) GetSnapshot() *models.StatsCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetSummary replaces the current-month summary.
func (s *State) SetSummary(summary models.MonthSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

// GetSummary returns the current-month summary.
func (s *State) GetSummary() models.MonthSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// CurrentMonth returns the YYYY-MM key the summary was computed for.
func (s *State) CurrentMonth() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary.Month
}

// Version increases every time a snapshot is stored.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetHistory replaces the stored month rollups.
func (s *State) SetHistory(rollups []models.MonthRollup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollups = make([]models.MonthRollup, len(rollups))
	copy(s.rollups, rollups)
}

// GetHistory returns a copy of the stored month rollups, newest first.
func (s *State) GetHistory() []models.MonthRollup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rollups := make([]models.MonthRollup, len(s.rollups))
	copy(rollups, s.rollups)
	return rollups
}

// SetLastError records the latest snapshot error. A nil error clears it.
func (s *State) SetLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// LastError returns the latest snapshot error.
func (s *State) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := fmt.Sprintf("%s-%d", time.Now().Format("20060102150405"), s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns when the latest snapshot was read.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// TimeSinceUpdate returns the duration since the last snapshot load.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loadedAt.IsZero() {
		return 0
	}
	return time.Since(s.loadedAt)
}
