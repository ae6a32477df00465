package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/claude-usage-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// HistoryLimit caps the number of month rollups loaded into the UI.
	HistoryLimit = 24
)

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData loads the snapshot the manager already holds plus stored history.
func loadInitialData(mgr *services.Manager) tea.Cmd {
	return tea.Batch(
		loadSnapshotCmd(mgr),
		loadHistoryCmd(mgr),
	)
}

func loadSnapshotCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return SnapshotLoadedMsg{
			Snapshot: mgr.Snapshot(),
			Summary:  mgr.Summary(),
			LoadedAt: mgr.LoadedAt(),
		}
	}
}

func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		rollups, err := mgr.History(HistoryLimit)
		return HistoryLoadedMsg{Rollups: rollups, Error: err}
	}
}

// refreshCmd rereads the stats file. The new snapshot arrives as a service event.
func refreshCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return RefreshResultMsg{Error: mgr.Refresh()}
	}
}

func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands exposes the command constructors to tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// LoadSnapshot returns a command that reads the manager's current snapshot.
// It is nil when no manager is attached.
func (c *Commands) LoadSnapshot() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return loadSnapshotCmd(c.manager)
}

// LoadHistory returns a command that loads stored month rollups.
// It is nil when no manager is attached.
func (c *Commands) LoadHistory() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return loadHistoryCmd(c.manager)
}

// Refresh returns a command that rereads the stats file.
// It is nil when no manager is attached.
func (c *Commands) Refresh() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return refreshCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}
