package preview

import (
	"context"
	"os"
	"sync"
	"time"
)

// WatcherConfig configures the document watcher.
type WatcherConfig struct {
	// Path is the file to watch.
	Path string

	// Interval is the polling interval (default: 200ms).
	Interval time.Duration
}

// Watcher polls a document file and reports modifications.
type Watcher struct {
	config   WatcherConfig
	onChange func(path string)

	mu      sync.Mutex
	modTime time.Time
	size    int64
}

// NewWatcher creates a new document watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 200 * time.Millisecond
	}
	return &Watcher{config: config}
}

// OnChange sets the callback for modifications.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.scanInitial()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) scanInitial() {
	info, err := os.Stat(w.config.Path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.modTime = info.ModTime()
	w.size = info.Size()
	w.mu.Unlock()
}

// check reports whether the file changed since the last check and calls
// the callback if so. A missing file is not a change; editors often
// replace files by rename.
func (w *Watcher) check() bool {
	info, err := os.Stat(w.config.Path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	changed := info.ModTime().After(w.modTime) || info.Size() != w.size
	if changed {
		w.modTime = info.ModTime()
		w.size = info.Size()
	}
	callback := w.onChange
	w.mu.Unlock()

	if changed && callback != nil {
		callback(w.config.Path)
	}
	return changed
}
