package repository

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher is the fsnotify-backed Watcher implementation. It watches
// the tracked file's parent directory so that editors that replace the
// file on save (write to temp, rename over) are still observed, and
// debounces rapid event bursts into a single notification.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *debouncer
	onChange func(path string)

	mu     sync.Mutex
	target string // absolute path of the watched file, empty when idle
	dir    string // directory currently added to the fsnotify watcher
	closed bool
}

// DefaultDebounceInterval is the quiet period required before a file
// change notification fires.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewFileWatcher creates a FileWatcher that invokes onChange with the
// watched file's absolute path after each (debounced) change. The event
// loop runs until Close.
func NewFileWatcher(debounceInterval time.Duration, onChange func(path string), logger *slog.Logger) (*FileWatcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange callback cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "rules.watcher"),
		debounce: newDebouncer(debounceInterval),
		onChange: onChange,
	}

	go fw.run()

	return fw, nil
}

// StartWatching begins watching the file at absolutePath, replacing any
// previously watched file.
func (fw *FileWatcher) StartWatching(absolutePath string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return fmt.Errorf("file watcher is closed")
	}

	dir := filepath.Dir(absolutePath)

	if fw.dir != dir {
		if fw.dir != "" {
			if err := fw.watcher.Remove(fw.dir); err != nil {
				fw.logger.Debug("failed to remove watched directory", "dir", fw.dir, "error", err)
			}
		}
		if err := fw.watcher.Add(dir); err != nil {
			fw.dir = ""
			fw.target = ""
			return fmt.Errorf("failed to watch directory %q: %w", dir, err)
		}
		fw.dir = dir
	}

	fw.target = absolutePath
	fw.logger.Debug("watching rules file", "path", absolutePath)

	return nil
}

// StopWatching stops watching the current file. Calling it while idle is
// a no-op.
func (fw *FileWatcher) StopWatching() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed || fw.target == "" {
		return nil
	}

	if fw.dir != "" {
		if err := fw.watcher.Remove(fw.dir); err != nil {
			fw.logger.Debug("failed to remove watched directory", "dir", fw.dir, "error", err)
		}
	}

	fw.target = ""
	fw.dir = ""

	return nil
}

// Close stops the event loop and releases the fsnotify watcher. It is
// idempotent.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	fw.target = ""
	fw.dir = ""
	fw.mu.Unlock()

	fw.debounce.stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}

	return nil
}

// run is the fsnotify event loop. It exits when the fsnotify watcher is
// closed.
func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			target := fw.matchTarget(event)
			if target == "" {
				continue
			}

			fw.logger.Debug("rules file event",
				"path", event.Name,
				"op", event.Op.String(),
			)

			fw.debounce.trigger(func() {
				fw.onChange(target)
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Keep watching despite transient errors.
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// matchTarget returns the watched file path when the event concerns it,
// or "" when the event should be ignored.
func (fw *FileWatcher) matchTarget(event fsnotify.Event) string {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return ""
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.target == "" || event.Name != fw.target {
		return ""
	}
	return fw.target
}

// debouncer collapses rapid event bursts: the callback runs only after a
// quiet period of the configured interval.
type debouncer struct {
	interval time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		stopped := d.stopped
		d.mu.Unlock()

		if cb != nil && !stopped {
			cb()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
