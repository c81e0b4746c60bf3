package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func startWatcher(t *testing.T, dir string, cfg Config) (chan string, context.CancelFunc, chan error) {
	t.Helper()

	handled := make(chan string, 16)
	handler := func(ctx context.Context, path string) error {
		handled <- path
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := New(dir, cfg, handler, zerolog.Nop())
	go func() { done <- w.Run(ctx) }()

	// Give the fsnotify watch time to attach before the test writes files.
	time.Sleep(100 * time.Millisecond)
	return handled, cancel, done
}

func TestWatchHandlesSettledJSON(t *testing.T) {
	dir := t.TempDir()
	handled, cancel, done := startWatcher(t, dir, Config{DebounceDelay: 50 * time.Millisecond})
	defer cancel()

	path := filepath.Join(dir, "drop.json")
	if err := os.WriteFile(path, []byte(`{"general": {"model": "A"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-handled:
		if got != path {
			t.Errorf("handled %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler never ran")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestWatchIgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	handled, cancel, _ := startWatcher(t, dir, Config{DebounceDelay: 50 * time.Millisecond})
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-handled:
		t.Errorf("handler ran for %q", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchDebouncesRewrites(t *testing.T) {
	dir := t.TempDir()
	handled, cancel, _ := startWatcher(t, dir, Config{DebounceDelay: 200 * time.Millisecond})
	defer cancel()

	path := filepath.Join(dir, "drop.json")
	// Several writes in quick succession must collapse into one handling.
	for i := 0; i < 4; i++ {
		if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	select {
	case <-handled:
	case <-time.After(3 * time.Second):
		t.Fatal("handler never ran")
	}

	select {
	case <-handled:
		t.Error("rapid writes should be handled once")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestArmedTimerReleasedOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := New(t.TempDir(), Config{DebounceDelay: 10 * time.Millisecond},
		func(context.Context, string) error { return nil }, zerolog.Nop())

	// Nobody ever receives on ready, as after Run has returned. The fired
	// callback must fall through to done instead of blocking forever.
	ready := make(chan string)
	done := make(chan struct{})
	w.arm("orphan.json", ready, done)
	close(done)

	time.Sleep(100 * time.Millisecond)

	w.mu.Lock()
	pending := len(w.timers)
	w.mu.Unlock()
	if pending != 0 {
		t.Errorf("%d timers still armed", pending)
	}
}

func TestWatchMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), DefaultConfig(), func(context.Context, string) error { return nil }, zerolog.Nop())
	if err := w.Run(context.Background()); err == nil {
		t.Error("watching a missing directory should fail")
	}
}
