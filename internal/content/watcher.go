package content

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lorebench/internal/bus"
	"lorebench/internal/store"
)

// DefaultDebounce batches bursts of filesystem events (editors often write
// a temp file and rename it) into a single reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher observes a workspace for external edits and bumps the content
// revision so open panels know their data is stale.
type Watcher struct {
	fsw      *fsnotify.Watcher
	st       *store.Store
	pub      *bus.Bus
	debounce time.Duration
	logf     func(format string, v ...any)

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewWatcher creates a watcher that reports through the given store and bus.
func NewWatcher(st *store.Store, pub *bus.Bus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		st:       st,
		pub:      pub,
		debounce: DefaultDebounce,
		logf:     log.Printf,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides the event coalescing window. Tests use a short one.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.debounce = d
	}
}

// SetLogger redirects warning output.
func (w *Watcher) SetLogger(logf func(format string, v ...any)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if logf != nil {
		w.logf = logf
	}
}

// Start begins watching the workspace content directories and launches the
// event loop.
func (w *Watcher) Start(workspace string) error {
	if err := w.fsw.Add(workspace); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}
	for _, sub := range []string{ScriptsDir, QuestsDir, ProjectilesDir, PropertiesDir, NotesDir} {
		dir := filepath.Join(workspace, sub)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", sub, err)
		}
	}
	go w.run()
	return nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.mu.Lock()
			d := w.debounce
			w.mu.Unlock()
			if timer == nil {
				timer = time.NewTimer(d)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logf("workspace watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".lua", ".yaml", ".yml":
		return true
	}
	return false
}

func (w *Watcher) reload() {
	rev := w.st.Get().ContentRevision + 1
	w.st.Set(store.Patch{ContentRevision: &rev})
	w.pub.Publish(bus.TopicContentReloaded, rev)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()
	return w.fsw.Close()
}
