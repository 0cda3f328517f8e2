package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"facelink/hermes/pkg/rules"
)

// Watcher observes a single file for external changes. The Repository
// owns its Watcher exclusively and releases it exactly once via Close.
// Stop-before-start is always safe: StopWatching on a watcher that is
// not watching anything is a no-op.
type Watcher interface {
	StartWatching(absolutePath string) error
	StopWatching() error
	Close() error
}

// noopWatcher is the fallback when no watcher is injected.
type noopWatcher struct{}

func (noopWatcher) StartWatching(string) error { return nil }
func (noopWatcher) StopWatching() error        { return nil }
func (noopWatcher) Close() error               { return nil }

// snapshot is the last successfully validated rule set. Replaced
// atomically on a successful load, read-only once published.
type snapshot struct {
	valid   []*rules.CompiledRule
	invalid []rules.InvalidRule
}

// Repository loads and caches transformation rules from a JSON file.
// All methods are safe for concurrent use; loads for the same instance
// are mutually exclusive.
type Repository struct {
	logger  *slog.Logger
	watcher Watcher

	mu          sync.Mutex
	path        string // absolute path of the tracked file
	upToDate    bool
	lastLoad    time.Time
	snap        *snapshot
	subscribers []func(RulesChangedEvent)
	closed      bool
}

// New creates a Repository. watcher may be nil, in which case file
// changes are only observed through explicit OnFileChanged calls.
func New(watcher Watcher, logger *slog.Logger) *Repository {
	if watcher == nil {
		watcher = noopWatcher{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		logger:  logger.With("component", "rules.repository"),
		watcher: watcher,
	}
}

// LoadRules reads, validates, and caches the rule file at path.
//
// File-level failures (missing file, read error, malformed JSON) do not
// return an error: they produce a degraded LoadResult backed by the last
// successful snapshot when one exists, or an empty flagged result
// otherwise. The returned error is non-nil only for a closed repository
// or a cancelled context.
func (r *Repository) LoadRules(ctx context.Context, path string) (*LoadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRepositoryClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return r.failedLoadLocked(fmt.Sprintf("invalid rules file path %q: %v", path, err)), nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return r.failedLoadLocked(fmt.Sprintf("rules file not found: %s", absPath)), nil
		}
		return r.failedLoadLocked(fmt.Sprintf("failed to read rules file %s: %v", absPath, err)), nil
	}

	entries, err := rules.Decode(data)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return r.failedLoadLocked(fmt.Sprintf("JSON parsing error in %s: %v", absPath, err)), nil
		}
		return r.failedLoadLocked(fmt.Sprintf("%v in %s", err, absPath)), nil
	}

	valid, invalid := rules.ValidateAll(entries)

	validationErrors := make([]string, 0, len(invalid))
	for _, inv := range invalid {
		validationErrors = append(validationErrors, inv.Err)
	}

	// Replace the snapshot and retarget the watcher. Stop-before-start
	// is idempotent, including on the very first load.
	r.snap = &snapshot{valid: valid, invalid: invalid}
	r.path = absPath
	r.upToDate = true
	r.lastLoad = time.Now()

	if err := r.watcher.StopWatching(); err != nil {
		r.logger.Warn("failed to stop previous file watch", "error", err)
	}
	if err := r.watcher.StartWatching(absPath); err != nil {
		r.logger.Warn("failed to watch rules file", "path", absPath, "error", err)
	}

	r.logger.Info("rules loaded",
		"path", absPath,
		"valid_rules", len(valid),
		"invalid_rules", len(invalid),
	)

	return &LoadResult{
		ValidRules:       valid,
		InvalidRules:     invalid,
		ValidationErrors: validationErrors,
	}, nil
}

// failedLoadLocked builds the degraded result for a file-level failure.
// The caller must hold r.mu.
func (r *Repository) failedLoadLocked(loadError string) *LoadResult {
	r.upToDate = false

	r.logger.Error("rules load failed",
		"error", loadError,
		"cached_snapshot", r.snap != nil,
	)

	if r.snap != nil {
		// Serve the last good snapshot. lastLoad is deliberately left
		// at the previous successful load's time.
		return &LoadResult{
			ValidRules:      r.snap.valid,
			InvalidRules:    r.snap.invalid,
			LoadedFromCache: true,
			LoadError:       loadError,
		}
	}

	return &LoadResult{LoadError: loadError}
}

// OnFileChanged handles an external change notification. If path refers
// to the tracked file, the repository is marked stale and subscribers
// are notified; otherwise the call is a no-op. It never blocks on a
// load and never reloads by itself.
func (r *Repository) OnFileChanged(path string) {
	r.mu.Lock()

	if r.closed || r.path == "" || path != r.path {
		r.mu.Unlock()
		return
	}

	r.upToDate = false
	subscribers := make([]func(RulesChangedEvent), len(r.subscribers))
	copy(subscribers, r.subscribers)
	r.mu.Unlock()

	r.logger.Info("rules file changed on disk", "path", path)

	event := RulesChangedEvent{Path: path}
	for _, subscriber := range subscribers {
		subscriber(event)
	}
}

// Subscribe registers a handler for RulesChanged events. Handlers run on
// the notification path and must not block.
func (r *Repository) Subscribe(handler func(RulesChangedEvent)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subscribers = append(r.subscribers, handler)
}

// State reports the current tracking state.
func (r *Repository) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return State{
		CurrentFilePath: r.path,
		IsUpToDate:      r.upToDate,
		LastLoadTime:    r.lastLoad,
	}
}

// Close releases the watcher. It is idempotent; loading after Close
// fails with ErrRepositoryClosed.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close rules watcher: %w", err)
	}

	return nil
}
