package executor

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// GoroutinePool runs scans on goroutines sharing the parent's memory.
// Literal searches are I/O-bound: the bottleneck is file-read latency, so a
// wide pool of lightweight workers wins and process-spawn overhead would
// dominate.
type GoroutinePool struct {
	workers int
	scan    ScanFunc
}

// NewGoroutinePool builds a goroutine-backed pool of the given size.
func NewGoroutinePool(workers int, scan ScanFunc) *GoroutinePool {
	if workers < 1 {
		workers = 1
	}
	return &GoroutinePool{workers: workers, scan: scan}
}

// Kind implements Pool.
func (p *GoroutinePool) Kind() string { return "goroutine" }

// Workers implements Pool.
func (p *GoroutinePool) Workers() int { return p.workers }

// Run dispatches one scan per file, at most Workers at a time. Cancellation
// stops further submission; units already running finish and their results
// are still delivered before the channel closes.
func (p *GoroutinePool) Run(ctx context.Context, files []string) <-chan FileResult {
	// Buffered to the full set so in-flight sends never block collection.
	results := make(chan FileResult, len(files))
	sem := semaphore.NewWeighted(int64(p.workers))

	go func() {
		defer close(results)
		var wg sync.WaitGroup
		for _, path := range files {
			if err := sem.Acquire(ctx, 1); err != nil {
				break // cancelled: abandon the not-yet-submitted remainder
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer sem.Release(1)
				matches, err := p.scan(path)
				results <- FileResult{Path: path, Matches: matches, Err: err}
			}(path)
		}
		wg.Wait()
	}()

	return results
}
