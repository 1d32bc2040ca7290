package executor

import (
	"context"
	"runtime"

	"github.com/harrison/textseek/internal/models"
	"github.com/harrison/textseek/internal/pattern"
)

// Worker pool sizing factors, per logical core. Process workers carry spawn
// overhead so the CPU-bound pool is narrower than the I/O-bound one.
const (
	processWorkersPerCore   = 3
	goroutineWorkersPerCore = 5
)

// Scheduler picks an execution strategy from the matcher's workload
// classification and aggregates completion-ordered results. It tolerates
// per-file failures: a failed unit is logged and contributes zero matches
// without cancelling its siblings.
type Scheduler struct {
	pool Pool
	log  Logger
}

// NewScheduler selects the pool for the given pattern: process workers for
// regex terms, goroutine workers for literal terms.
func NewScheduler(pat *pattern.Pattern, spec WorkerSpec, scan ScanFunc, log Logger) (*Scheduler, error) {
	cores := runtime.NumCPU()
	var pool Pool
	if pat.IsRegex {
		pp, err := NewProcessPool(processWorkersPerCore*cores, spec)
		if err != nil {
			return nil, err
		}
		pool = pp
	} else {
		pool = NewGoroutinePool(goroutineWorkersPerCore*cores, scan)
	}
	return &Scheduler{pool: pool, log: log}, nil
}

// NewSchedulerWithPool wires an explicit pool. Tests use this with a
// deterministic in-process pool.
func NewSchedulerWithPool(pool Pool, log Logger) *Scheduler {
	return &Scheduler{pool: pool, log: log}
}

// Pool exposes the selected pool, for the startup notice.
func (s *Scheduler) Pool() Pool { return s.pool }

// Search runs one scan per file and returns all match records in completion
// order plus the count of distinct files with at least one match. On
// cancellation it returns the partial results together with ErrCancelled.
func (s *Scheduler) Search(ctx context.Context, files []string) ([]models.Match, int, error) {
	var records []models.Match
	matched := 0

	for res := range s.pool.Run(ctx, files) {
		if res.Err != nil {
			if res.Path != "" {
				s.log.Warnf("%s: %v", res.Path, res.Err)
			} else {
				s.log.Warnf("%v", res.Err)
			}
			continue
		}
		if len(res.Matches) > 0 {
			matched++
			records = append(records, res.Matches...)
		}
	}

	if ctx.Err() != nil {
		return records, matched, ErrCancelled
	}
	return records, matched, nil
}
