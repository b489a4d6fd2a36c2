package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"ytdlx/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the history database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrLocked indicates another ytdlx process holds the history database.
var ErrLocked = errors.New("history database is locked by another ytdlx process")

// Store manages download history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
	max  int
}

// Open initializes or connects to the history database, guarding it with a
// file lock so concurrent ytdlx invocations do not interleave writes.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.HistoryDir, "history.db")
	lock := flock.New(dbPath + ".lock")
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire history lock: %w", err)
	}
	if !acquired {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath, max: cfg.History.MaxEntries}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the directory lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'ytdlx history clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Record inserts an entry and prunes the table to the configured maximum.
// A missing ID is generated.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}
	if entry.FinishedAt.IsZero() {
		entry.FinishedAt = time.Now().UTC()
	}
	switch entry.Status {
	case StatusSucceeded, StatusFailed:
	default:
		return Entry{}, fmt.Errorf("invalid history status %q", entry.Status)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history_entries (
            id, query, operation, title, output_path, format_note,
            size_bytes, duration_seconds, status, error, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Query,
		entry.Operation,
		entry.Title,
		entry.OutputPath,
		entry.FormatNote,
		entry.SizeBytes,
		entry.DurationSeconds,
		entry.Status,
		entry.Error,
		entry.StartedAt.Format(time.RFC3339Nano),
		entry.FinishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history entry: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, operation, title, output_path, format_note,
                size_bytes, duration_seconds, status, error, started_at, finished_at
         FROM history_entries ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var startedAt, finishedAt string
		if err := rows.Scan(
			&entry.ID, &entry.Query, &entry.Operation, &entry.Title,
			&entry.OutputPath, &entry.FormatNote, &entry.SizeBytes,
			&entry.DurationSeconds, &entry.Status, &entry.Error,
			&startedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		entry.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM history_entries")
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func (s *Store) prune(ctx context.Context) error {
	if s.max <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history_entries WHERE id NOT IN (
            SELECT id FROM history_entries ORDER BY finished_at DESC, id LIMIT ?
        )`, s.max)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}
