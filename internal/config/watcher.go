package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay between a file event and the reload,
// coalescing editor write bursts into a single reload.
const DefaultDebounce = 250 * time.Millisecond

// Handler is called with the re-resolved configuration after the watched
// file changes.
type Handler func(Config)

// Watcher monitors a configuration file and reloads it on change.
type Watcher struct {
	mu sync.Mutex

	// fsnotify watcher
	watcher *fsnotify.Watcher

	// Watched file (absolute path)
	path string

	// Reload callback
	handler Handler

	// Output channel for watch and reload errors
	errors chan error

	// Debounce delay
	debounce time.Duration

	// Lifecycle
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher starts watching the configuration file at path. The handler
// is invoked with the freshly resolved configuration after each change.
//
// The parent directory is watched rather than the file itself, so
// rename-and-replace saves (the common editor pattern) are detected.
func NewWatcher(path string, handler Handler, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     absPath,
		handler:  handler,
		errors:   make(chan error, 16),
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Errors returns the error channel. Reload and watch errors are sent here;
// the channel is closed when the watcher is closed.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	// Wait for processLoop to finish
	w.closedWg.Wait()

	close(w.errors)
	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	var pending <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(fsEvent) {
				continue
			}
			// Debounce: restart the delay on every burst event
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)

		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

// relevant reports whether the event concerns the watched file with an
// operation that warrants a reload.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// reload re-resolves the configuration and invokes the handler.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.sendError(err)
		return
	}
	if w.handler != nil {
		w.handler(cfg)
	}
}

// sendError sends an error to the output channel, dropping it if full.
func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
