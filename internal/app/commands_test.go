package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/claude-usage-tui/internal/services"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.Tick(time.Millisecond) == nil {
		t.Error("Tick returned nil")
	}
}

func TestCommands_WithoutManager(t *testing.T) {
	cmds := NewCommands(nil)

	if cmds.LoadSnapshot() != nil {
		t.Error("LoadSnapshot should be nil without a manager")
	}
	if cmds.LoadHistory() != nil {
		t.Error("LoadHistory should be nil without a manager")
	}
	if cmds.Refresh() != nil {
		t.Error("Refresh should be nil without a manager")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name     string
		fn       func(string) tea.Cmd
		want     NotificationType
		duration time.Duration
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess, DefaultNotificationDuration},
		{"Error", cmds.NotifyError, NotificationError, LongNotificationDuration},
		{"Warning", cmds.NotifyWarning, NotificationWarning, DefaultNotificationDuration},
		{"Info", cmds.NotifyInfo, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", addMsg.Duration, tt.duration)
			}
		})
	}
}

func TestCommands_ClearNotification(t *testing.T) {
	cmds := NewCommands(nil)
	if cmds.ClearNotification("id", time.Millisecond) == nil {
		t.Error("ClearNotification returned nil")
	}
}

func TestWaitForServiceEventCmd(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.SummaryEvent{}

	msg := waitForServiceEventCmd(ch)()
	wrapped, ok := msg.(ServiceEventMsg)
	if !ok {
		t.Fatalf("Expected ServiceEventMsg, got %T", msg)
	}
	if _, ok := wrapped.Event.(services.SummaryEvent); !ok {
		t.Errorf("Event = %T, want SummaryEvent", wrapped.Event)
	}

	close(ch)
	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %T", msg)
	}
}
