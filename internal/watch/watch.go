// Package watch monitors a drop directory and triggers a handler for each
// JSON file that appears or changes. Events are debounced so a file still
// being written is processed once, after it settles.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Config holds watcher settings.
type Config struct {
	// DebounceDelay is how long a file must stay quiet before it is handled.
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{DebounceDelay: 500 * time.Millisecond}
}

// Watcher runs a Handler for settled JSON files in one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	log      zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a Watcher for dir.
func New(dir string, cfg Config, handler Handler, log zerolog.Logger) *Watcher {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 500 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		debounce: cfg.DebounceDelay,
		handler:  handler,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches until the context is canceled. The handler runs on the
// watcher goroutine; a slow handler delays later files, which is fine for a
// drop-directory workflow.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info().Str("dir", w.dir).Msg("watching for catalog files")

	ready := make(chan string)
	done := make(chan struct{})
	defer close(done)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
				continue
			}
			w.arm(ev.Name, ready, done)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case path := <-ready:
			w.log.Info().Str("file", filepath.Base(path)).Msg("file settled, processing")
			if err := w.handler(ctx, path); err != nil {
				w.log.Error().Err(err).Str("file", filepath.Base(path)).Msg("processing failed")
			}
		}
	}
}

// arm starts or extends the debounce timer for a path. The fired callback
// gives up the send once done closes, so a timer racing shutdown cannot
// strand its goroutine.
func (w *Watcher) arm(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
