// Package executor fans scans out across a bounded worker pool and
// aggregates results as they complete. The pool kind is chosen once per run
// from the workload character: regex searches are CPU-bound and get
// isolated process workers, literal searches are I/O-bound and get
// goroutine workers.
package executor

import (
	"context"
	"errors"
	"time"

	"github.com/harrison/textseek/internal/models"
)

// ErrCancelled is returned when an operator interrupt stops the scan phase.
var ErrCancelled = errors.New("search cancelled")

// ScanFunc scans a single file and returns its match records. Concurrent
// invocations must not share mutable state.
type ScanFunc func(path string) ([]models.Match, error)

// FileResult is the outcome of scanning one file. Exactly one of Matches
// and Err is meaningful; a failed file contributes zero matches.
type FileResult struct {
	Path    string
	Matches []models.Match
	Err     error
}

// Pool executes one scan per eligible file across a bounded set of workers.
// All work is submitted up front; results arrive on the returned channel in
// completion order, which is non-deterministic. The channel is closed once
// every dispatched unit has reported or the context is cancelled.
type Pool interface {
	Run(ctx context.Context, files []string) <-chan FileResult
	// Kind names the concurrency primitive, for the startup notice.
	Kind() string
	// Workers is the pool size.
	Workers() int
}

// Logger is the subset of the console logger the scheduler needs.
type Logger interface {
	Warnf(format string, args ...any)
}

// WorkerSpec carries everything a scan worker needs to rebuild the matcher
// and filter on its side of a process boundary. The compiled pattern itself
// never crosses; it is reconstructed from (Term, CaseSensitive).
type WorkerSpec struct {
	Term          string     `json:"term"`
	CaseSensitive bool       `json:"case_sensitive"`
	MaxLine       int        `json:"max_line"`
	Extensions    []string   `json:"extensions"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	SizeLimit     int64      `json:"size_limit"`
}

// WorkerJob is one unit of work sent to a scan worker.
type WorkerJob struct {
	Path string `json:"path"`
}

// WorkerResponse is one JSON line written by a scan worker per job.
type WorkerResponse struct {
	Path    string         `json:"path"`
	Matches []models.Match `json:"matches,omitempty"`
	Error   string         `json:"error,omitempty"`
}
