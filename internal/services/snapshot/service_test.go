package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const waitTimeout = 3 * time.Second

func newTestService(t *testing.T, path string, interval time.Duration) *Service {
	t.Helper()

	svc, err := New(path, interval)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return svc
}

// waitFor drains events until one of the wanted type arrives.
func waitFor(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case ev := <-svc.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", want)
			return Event{}
		}
	}
}

func TestNew_RequiresPath(t *testing.T) {
	if _, err := New("", time.Minute); err == nil {
		t.Error("New(\"\") should fail")
	}
}

func TestNew_LoadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, time.Hour)

	if svc.Current() == nil {
		t.Fatal("Current() should be set after New()")
	}
	if svc.LoadedAt().IsZero() {
		t.Error("LoadedAt() should be set after New()")
	}
	if svc.Path() != path {
		t.Errorf("Path() = %q, want %q", svc.Path(), path)
	}

	ev := waitFor(t, svc, EventLoaded)
	if ev.Snapshot != svc.Current() {
		t.Error("loaded event should carry the current snapshot")
	}
}

func TestNew_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")

	svc := newTestService(t, path, time.Hour)

	if svc.Current() != nil {
		t.Error("Current() should be nil without a file")
	}
	ev := waitFor(t, svc, EventError)
	if !errors.Is(ev.Error, ErrNoSnapshot) {
		t.Errorf("event error = %v, want ErrNoSnapshot", ev.Error)
	}

	writeSnapshot(t, path, validSnapshot)
	waitFor(t, svc, EventLoaded)

	if svc.Current() == nil {
		t.Error("Current() should be set once the file appears")
	}
}

func TestWatch_Change(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, time.Hour)
	waitFor(t, svc, EventLoaded)

	writeSnapshot(t, path, `{"totalMessages": 42}`)
	ev := waitFor(t, svc, EventChanged)

	if ev.Snapshot.TotalMessages != 42 {
		t.Errorf("TotalMessages = %d, want 42", ev.Snapshot.TotalMessages)
	}
	if svc.Current().TotalMessages != 42 {
		t.Errorf("Current().TotalMessages = %d, want 42", svc.Current().TotalMessages)
	}
}

func TestWatch_ParseErrorKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, time.Hour)
	waitFor(t, svc, EventLoaded)
	before := svc.Current()

	writeSnapshot(t, path, `{"modelUsage": `)
	ev := waitFor(t, svc, EventError)

	if ev.Error == nil || errors.Is(ev.Error, ErrNoSnapshot) {
		t.Errorf("event error = %v, want a parse error", ev.Error)
	}
	if svc.Current() != before {
		t.Error("a parse failure should keep the previous snapshot")
	}
}

func TestPoll_PicksUpFileWithoutWatcher(t *testing.T) {
	// The directory does not exist yet, so only polling can find the file.
	dir := filepath.Join(t.TempDir(), "later")
	path := filepath.Join(dir, "stats-cache.json")

	svc := newTestService(t, path, 50*time.Millisecond)
	if svc.watcher != nil {
		t.Fatal("watcher should not start on a missing directory")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	writeSnapshot(t, path, validSnapshot)

	waitFor(t, svc, EventLoaded)
}

func TestPoll_UnchangedIsQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, 20*time.Millisecond)
	waitFor(t, svc, EventLoaded)

	time.Sleep(200 * time.Millisecond)
	select {
	case ev := <-svc.Events():
		t.Errorf("unexpected %s event for an unchanged file", ev.Type)
	default:
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, time.Hour)
	waitFor(t, svc, EventLoaded)

	cache, err := svc.Reload()
	if err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if cache == nil {
		t.Fatal("Reload() returned nil snapshot")
	}
	waitFor(t, svc, EventChanged)
}

func TestReload_DuringPendingPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	writeSnapshot(t, path, validSnapshot)

	svc := newTestService(t, path, time.Hour)
	waitFor(t, svc, EventLoaded)

	// The next read blocks, standing in for a slow poll of an unchanged file.
	started := make(chan struct{})
	release := make(chan struct{})
	var reads atomic.Int32
	osReadFile = func(name string) ([]byte, error) {
		if reads.Add(1) == 1 {
			close(started)
			<-release
		}
		return os.ReadFile(name)
	}
	t.Cleanup(func() { osReadFile = os.ReadFile })

	polled := make(chan struct{})
	go func() {
		defer close(polled)
		_, _ = svc.load(false)
	}()
	<-started

	if _, err := svc.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if got := reads.Load(); got != 2 {
		t.Errorf("reads = %d, want Reload to read the file itself", got)
	}
	waitFor(t, svc, EventChanged)

	close(release)
	<-polled
}

func TestReload_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	svc := newTestService(t, path, time.Hour)

	if _, err := svc.Reload(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Reload() error = %v, want ErrNoSnapshot", err)
	}
}

func TestClose_Twice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	svc, err := New(path, time.Minute)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := svc.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		in   EventType
		want string
	}{
		{EventLoaded, "loaded"},
		{EventChanged, "changed"},
		{EventError, "error"},
		{EventType(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
