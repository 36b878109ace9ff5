package confloader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before callbacks run.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches configuration files for changes.
//
// Directories are watched rather than files so that editors replacing
// the file through a rename are still observed. Events for other files
// in the same directory are ignored. Bursts of events are collapsed into
// one notification once the file has been quiet for the debounce period,
// and a file that is empty at that point is skipped.
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]struct{}
	pending   map[string]*time.Timer
	callbacks []func(string)
	debounce  time.Duration
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period after the last event.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		files:    make(map[string]struct{}),
		pending:  make(map[string]*time.Timer),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(watcher)
	}

	return watcher, nil
}

// Watch adds a configuration file to watch.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory",
			"path", dir,
			"error", err,
		)
		return err
	}

	w.mu.Lock()
	w.files[path] = struct{}{}
	w.mu.Unlock()

	w.logger.Debug("watching configuration file",
		"dir", dir,
		"file", filepath.Base(path),
	)
	return nil
}

// OnChange registers a callback to be called when a watched file changes.
// The callback receives the path of the changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start starts watching for changes.
// This function blocks until Stop() is called.
func (w *Watcher) Start() {
	w.logger.Info("configuration watcher started")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.watching(event.Name) {
				continue
			}
			w.logger.Debug("configuration file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)
			w.schedule(filepath.Clean(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("configuration watcher error",
				"error", err,
			)

		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		for name, t := range w.pending {
			t.Stop()
			delete(w.pending, name)
		}
		w.mu.Unlock()
		if err = w.watcher.Close(); err != nil {
			w.logger.Error("failed to close watcher",
				"error", err,
			)
			return
		}
		w.logger.Info("configuration watcher stopped")
	})
	return err
}

func (w *Watcher) watching(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[filepath.Clean(name)]
	return ok
}

// schedule (re)starts the quiet timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() { w.settled(path) })
}

// settled runs once path has seen no events for the debounce period.
func (w *Watcher) settled(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		w.logger.Debug("configuration file not readable, skipping",
			"file", path,
			"error", err,
		)
		return
	}
	if info.Size() == 0 {
		w.logger.Debug("configuration file is empty, skipping",
			"file", path,
		)
		return
	}
	w.notifyCallbacks(path)
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
