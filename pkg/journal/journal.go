package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// schema is the journal's table layout, applied on open.
const schema = `
CREATE TABLE IF NOT EXISTS sync_cycles (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL,
	desired     INTEGER NOT NULL,
	created     INTEGER NOT NULL,
	updated     INTEGER NOT NULL,
	error       TEXT
);

CREATE INDEX IF NOT EXISTS idx_sync_cycles_started_at
	ON sync_cycles(started_at);
`

// Entry is one recorded synchronization cycle.
type Entry struct {
	// ID is a unique record identifier; Record assigns one when empty.
	ID string

	// StartedAt is when the cycle began.
	StartedAt time.Time

	// Duration is the cycle's wall-clock duration.
	Duration time.Duration

	// Desired, Created, and Updated count the cycle's parameters.
	Desired int
	Created int
	Updated int

	// Error is the failure message of an aborted cycle, empty on
	// success.
	Error string
}

// Config contains configuration for the Journal.
type Config struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// Journal is the SQLite-backed sync-history store.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (and if necessary initializes) the journal database.
func Open(config Config, logger *slog.Logger) (*Journal, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	j := &Journal{
		db:     db,
		logger: logger.With("component", "journal"),
	}

	if err := j.initialize(config); err != nil {
		db.Close()
		return nil, err
	}

	j.logger.Info("sync journal opened", "path", config.Path)

	return j, nil
}

// initialize enables WAL mode, sets the busy timeout, and applies the
// schema.
func (j *Journal) initialize(config Config) error {
	if _, err := j.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	busyTimeoutMs := config.BusyTimeout.Milliseconds()
	if _, err := j.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}

	return nil
}

// Record persists one cycle entry.
func (j *Journal) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	var errorVal any
	if entry.Error != "" {
		errorVal = entry.Error
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sync_cycles (id, started_at, duration_ms, desired, created, updated, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.StartedAt.UTC(),
		entry.Duration.Milliseconds(),
		entry.Desired,
		entry.Created,
		entry.Updated,
		errorVal,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync cycle: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, desired, created, updated, error
		FROM sync_cycles
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync cycles: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var durationMs int64
		var errorVal sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.StartedAt,
			&durationMs,
			&entry.Desired,
			&entry.Created,
			&entry.Updated,
			&errorVal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sync cycle: %w", err)
		}

		entry.Duration = time.Duration(durationMs) * time.Millisecond
		entry.Error = errorVal.String

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync cycles: %w", err)
	}

	return entries, nil
}

// Ping verifies the database is reachable. Used by readiness checks.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
