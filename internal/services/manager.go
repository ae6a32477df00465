// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/claude-usage-tui/internal/config"
	"github.com/j-veylop/claude-usage-tui/internal/db"
	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/logger"
	"github.com/j-veylop/claude-usage-tui/internal/models"
	"github.com/j-veylop/claude-usage-tui/internal/services/snapshot"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
)

type (
	// SnapshotUpdatedEvent is emitted when a new stats snapshot has loaded.
	SnapshotUpdatedEvent struct {
		LoadedAt time.Time
		Snapshot *models.StatsCache
		Summary  models.MonthSummary
	}

	// SummaryEvent is emitted when the current-month summary changes.
	SummaryEvent struct {
		Summary models.MonthSummary
	}

	// HistoryUpdatedEvent is emitted after month rollups were stored.
	HistoryUpdatedEvent struct {
		Rollups []models.MonthRollup
	}

	// AlertEvent is emitted when current-month tokens cross the alert threshold.
	AlertEvent struct {
		Month     string
		Tokens    int64
		Threshold int64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SnapshotUpdatedEvent) isServiceEvent() {}
func (SummaryEvent) isServiceEvent()         {}
func (HistoryUpdatedEvent) isServiceEvent()  {}
func (AlertEvent) isServiceEvent()           {}
func (ErrorEvent) isServiceEvent()           {}

// Notifier shows a desktop notification.
type Notifier func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used to pick the current month.
func WithClock(c stats.Clock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notify = n
	}
}

// Manager orchestrates services and event routing.
type Manager struct {
	clock       stats.Clock
	snapshot    *snapshot.Service
	database    *db.DB
	notify      Notifier
	stopChan    chan struct{}
	done        chan struct{}
	subscribers []chan<- ServiceEvent
	lastSummary models.MonthSummary
	alertMonth  string
	alertTokens int64
	threshold   int64
	mu          sync.RWMutex
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		clock:     stats.SystemClock,
		notify:    beeepNotify,
		threshold: cfg.TokenAlertThreshold,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.snapshot, err = snapshot.New(cfg.StatsPath, cfg.RefreshInterval)
	if err != nil {
		_ = m.database.Close()
		return nil, fmt.Errorf("failed to start snapshot service: %w", err)
	}
	m.lastSummary = m.summarize(m.snapshot.Current())

	go m.routeEvents(cfg.RefreshInterval)

	return m, nil
}

// routeEvents routes events from individual services to subscribers and
// checks every interval whether the calendar month has rolled over.
func (m *Manager) routeEvents(interval time.Duration) {
	defer close(m.done)

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case event := <-m.snapshot.Events():
			m.handleSnapshotEvent(event)

		case <-tick:
			m.checkMonth()

		case <-m.stopChan:
			return
		}
	}
}

// checkMonth broadcasts a fresh summary once the clock has moved into a
// month other than the one last reported, whether or not the file changed.
func (m *Manager) checkMonth() {
	summary := m.summarize(m.snapshot.Current())

	m.mu.Lock()
	rolled := summary.Month != m.lastSummary.Month
	if rolled {
		m.lastSummary = summary
	}
	m.mu.Unlock()
	if !rolled {
		return
	}

	logger.Info("month rolled over", "month", summary.Month)
	m.checkThreshold(summary)
	m.broadcast(SummaryEvent{Summary: summary})
}

// handleSnapshotEvent records history, checks the alert threshold and
// broadcasts the new snapshot.
func (m *Manager) handleSnapshotEvent(event snapshot.Event) {
	switch event.Type {
	case snapshot.EventLoaded, snapshot.EventChanged:
		cache := event.Snapshot
		summary := m.summarize(cache)

		if rollups, err := m.recordHistory(cache); err != nil {
			m.broadcast(ErrorEvent{Service: "history", Error: err})
		} else if len(rollups) > 0 {
			m.broadcast(HistoryUpdatedEvent{Rollups: rollups})
		}

		m.checkThreshold(summary)

		m.broadcast(SnapshotUpdatedEvent{
			LoadedAt: m.snapshot.LoadedAt(),
			Snapshot: cache,
			Summary:  summary,
		})

		m.mu.Lock()
		changed := summary != m.lastSummary
		m.lastSummary = summary
		m.mu.Unlock()
		if changed {
			m.broadcast(SummaryEvent{Summary: summary})
		}

	case snapshot.EventError:
		m.broadcast(ErrorEvent{
			Service: "snapshot",
			Error:   event.Error,
		})
	}
}

// recordHistory stores a rollup for every month present in the snapshot.
func (m *Manager) recordHistory(cache *models.StatsCache) ([]models.MonthRollup, error) {
	months := stats.Months(cache)
	if len(months) == 0 {
		return nil, nil
	}

	now := time.Now()
	rollups := make([]models.MonthRollup, 0, len(months))
	for _, month := range months {
		r := stats.Rollup(cache, month)
		r.UpdatedAt = now
		rollups = append(rollups, r)
	}

	if err := m.database.UpsertRollups(context.Background(), rollups); err != nil {
		return nil, err
	}
	logger.Debug("recorded month rollups", "count", len(rollups))
	return rollups, nil
}

// checkThreshold notifies once when current-month tokens rise across the
// configured threshold. The first reading of a month only sets the baseline.
func (m *Manager) checkThreshold(summary models.MonthSummary) {
	if m.threshold <= 0 {
		return
	}

	m.mu.Lock()
	prevMonth, prevTokens := m.alertMonth, m.alertTokens
	m.alertMonth, m.alertTokens = summary.Month, summary.Tokens
	m.mu.Unlock()

	if prevMonth != summary.Month {
		return
	}
	if prevTokens >= m.threshold || summary.Tokens < m.threshold {
		return
	}

	title := fmt.Sprintf("Claude usage: %s tokens this month", summary.TokensLabel)
	body := fmt.Sprintf("%s passed your alert threshold of %s tokens.",
		summary.Month, format.Tokens(m.threshold))
	if err := m.notify(title, body); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}

	m.broadcast(AlertEvent{
		Month:     summary.Month,
		Tokens:    summary.Tokens,
		Threshold: m.threshold,
	})
}

func (m *Manager) summarize(cache *models.StatsCache) models.MonthSummary {
	return SummaryFor(cache, m.clock)
}

// SummaryFor computes the current-month summary of cache as seen by clock.
// A nil cache yields zero counts for the month.
func SummaryFor(cache *models.StatsCache, clock stats.Clock) models.MonthSummary {
	month := stats.CurrentMonthPrefix(clock)
	r := stats.Rollup(cache, month)
	return models.MonthSummary{
		Month:       month,
		Tokens:      r.Tokens,
		TokensLabel: format.Tokens(r.Tokens),
		Messages:    r.Messages,
		Sessions:    r.Sessions,
		ToolCalls:   r.ToolCalls,
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
// A closed channel yields a nil message.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Snapshot returns the latest stats snapshot, or nil before the first load.
func (m *Manager) Snapshot() *models.StatsCache {
	return m.snapshot.Current()
}

// LoadedAt returns when the latest snapshot was read.
func (m *Manager) LoadedAt() time.Time {
	return m.snapshot.LoadedAt()
}

// Summary returns the current-month totals of the latest snapshot.
func (m *Manager) Summary() models.MonthSummary {
	return m.summarize(m.snapshot.Current())
}

// CurrentMonth returns the YYYY-MM key of the manager's clock.
func (m *Manager) CurrentMonth() string {
	return stats.CurrentMonthPrefix(m.clock)
}

// History returns up to limit stored month rollups, newest first.
func (m *Manager) History(limit int) ([]models.MonthRollup, error) {
	return m.database.GetRollups(context.Background(), limit)
}

// Refresh reloads the snapshot now. The result also arrives as an event.
func (m *Manager) Refresh() error {
	_, err := m.snapshot.Reload()
	return err
}

// StatsPath returns the path of the watched stats file.
func (m *Manager) StatsPath() string {
	return m.snapshot.Path()
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)
		<-m.done

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		err = errors.Join(m.snapshot.Close(), m.database.Close())
	})
	return err
}
