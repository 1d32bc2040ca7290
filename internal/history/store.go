// Package history persists run summaries to a SQLite database so past
// searches can be reviewed with the history subcommand. Recording is
// best-effort: a failure here never affects the search result.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/textseek/internal/filelock"
)

//go:embed schema.sql
var schemaSQL string

// ErrBusy is returned when another run holds the history lock.
var ErrBusy = errors.New("history database is locked by another run")

// Run is one recorded search run.
type Run struct {
	ID           string
	Root         string
	Term         string
	MaxDepth     int
	Directories  int
	FilesMatched int
	Duration     time.Duration
	StartedAt    time.Time
}

// Store manages the SQLite history database.
type Store struct {
	db   *sql.DB
	lock *filelock.FileLock
}

// NewStore opens (creating if needed) the database at dbPath and applies
// the schema. ":memory:" is supported for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise history schema: %w", err)
	}

	var lock *filelock.FileLock
	if dbPath != ":memory:" {
		lock = filelock.New(dbPath + ".lock")
	}
	return &Store{db: db, lock: lock}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run. Writes are guarded by a file lock so concurrent
// runs finishing together do not contend on the database; if the lock is
// held the write is skipped with ErrBusy rather than blocking the exit of
// the search.
func (s *Store) Record(ctx context.Context, run Run) error {
	if s.lock != nil {
		acquired, err := s.lock.TryLock()
		if err != nil {
			return err
		}
		if !acquired {
			return ErrBusy
		}
		defer func() { _ = s.lock.Unlock() }()
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, term, max_depth, directories, files_matched, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Term, run.MaxDepth, run.Directories,
		run.FilesMatched, run.Duration.Milliseconds(), run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, term, max_depth, directories, files_matched, duration_ms, started_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Root, &run.Term, &run.MaxDepth,
			&run.Directories, &run.FilesMatched, &durationMS, &run.StartedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return runs, nil
}
