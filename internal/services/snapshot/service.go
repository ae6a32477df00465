package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/j-veylop/claude-usage-tui/internal/logger"
	"github.com/j-veylop/claude-usage-tui/internal/models"
)

// Event represents a snapshot service event.
type Event struct {
	Snapshot *models.StatsCache
	Error    error
	Type     EventType
}

// EventType defines the type of snapshot event.
type EventType int

const (
	// EventLoaded is sent for the first successful load.
	EventLoaded EventType = iota
	// EventChanged is sent whenever a later load produced a new snapshot.
	EventChanged
	// EventError is sent when the file is missing or cannot be parsed.
	// The previous snapshot stays current.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventChanged:
		return "changed"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

const debounceInterval = 100 * time.Millisecond

// Service keeps the latest snapshot in memory. Snapshots handed out by the
// service are shared and must not be modified.
type Service struct {
	loadedAt      time.Time
	current       *models.StatsCache
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	path          string
	lastErr       string
	raw           []byte
	loads         singleflight.Group
	wg            sync.WaitGroup
	interval      time.Duration
	mu            sync.RWMutex
	timerMu       sync.Mutex
	closeOnce     sync.Once
}

// New loads the snapshot at path, starts watching it and reloads it every
// interval. A missing or unreadable file is reported as an EventError rather
// than failing construction, so the service can pick the file up later.
func New(path string, interval time.Duration) (*Service, error) {
	if path == "" {
		return nil, errors.New("stats path is required")
	}

	s := &Service{
		path:      path,
		interval:  interval,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	_, _ = s.load(false)

	if err := s.startWatcher(); err != nil {
		// Polling still picks the file up once its directory exists.
		logger.Warn("stats watcher unavailable, polling only", "path", path, "error", err)
	}

	if interval > 0 {
		s.wg.Add(1)
		go s.pollLoop()
	}

	return s, nil
}

// Events returns the event channel for subscribing to snapshot changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Current returns the latest snapshot, or nil if none has loaded yet.
func (s *Service) Current() *models.StatsCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LoadedAt returns when the current snapshot was read.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Path returns the watched stats file path.
func (s *Service) Path() string {
	return s.path
}

// Interval returns the polling interval.
func (s *Service) Interval() time.Duration {
	return s.interval
}

// Reload reads the file now and always reports the outcome as an event.
func (s *Service) Reload() (*models.StatsCache, error) {
	return s.load(true)
}

// load reads and parses the file. Concurrent callers with the same force
// share one read. Unless force is set, an unchanged file and a repeated error
// produce no event.
func (s *Service) load(force bool) (*models.StatsCache, error) {
	key := "load"
	if force {
		key = "reload"
	}
	v, err, _ := s.loads.Do(key, func() (any, error) {
		return s.loadOnce(force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.StatsCache), nil
}

func (s *Service) loadOnce(force bool) (*models.StatsCache, error) {
	data, err := readFile(s.path)
	if err == nil {
		s.mu.RLock()
		unchanged := s.current != nil && bytes.Equal(data, s.raw)
		current := s.current
		s.mu.RUnlock()

		if unchanged && !force {
			return current, nil
		}

		var cache *models.StatsCache
		if cache, err = Parse(data); err == nil {
			s.mu.Lock()
			first := s.current == nil
			s.current = cache
			s.raw = data
			s.loadedAt = time.Now()
			s.lastErr = ""
			s.mu.Unlock()

			eventType := EventChanged
			if first {
				eventType = EventLoaded
			}
			logger.Debug("stats snapshot loaded", "path", s.path, "event", eventType.String())
			s.sendEvent(Event{Type: eventType, Snapshot: cache})
			return cache, nil
		}
	}

	s.mu.Lock()
	repeated := s.lastErr == err.Error()
	s.lastErr = err.Error()
	s.mu.Unlock()

	if force || !repeated {
		logger.Warn("stats snapshot load failed", "path", s.path, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
	}
	return nil, err
}

// startWatcher watches the snapshot's directory so that the file being
// created or replaced is noticed.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.debounce()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

func (s *Service) debounce() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(debounceInterval, func() {
		select {
		case <-s.stopChan:
			return
		default:
		}
		_, _ = s.load(false)
	})
}

// pollLoop reloads on a fixed interval in case file events are missed.
func (s *Service) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.load(false)
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops watching and polling. It is safe to call more than once.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.timerMu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.timerMu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}
