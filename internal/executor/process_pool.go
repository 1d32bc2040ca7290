package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// workerCommand is the hidden subcommand the pool spawns; it must match the
// cobra command registered in internal/cmd.
const workerCommand = "scan-worker"

// ProcessPool fans scans out to isolated worker processes running the
// scan-worker subcommand of this binary. Regex evaluation is CPU-bound, so
// full process isolation keeps workers from serialising on shared state.
// Each worker speaks JSON lines over stdin/stdout: a WorkerSpec header,
// then one WorkerJob per file, answered by one WorkerResponse each.
type ProcessPool struct {
	workers int
	spec    WorkerSpec
	exe     string
}

// NewProcessPool builds a process-backed pool of the given size.
func NewProcessPool(workers int, spec WorkerSpec) (*ProcessPool, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate worker executable: %w", err)
	}
	if workers < 1 {
		workers = 1
	}
	return &ProcessPool{workers: workers, spec: spec, exe: exe}, nil
}

// Kind implements Pool.
func (p *ProcessPool) Kind() string { return "process" }

// Workers implements Pool.
func (p *ProcessPool) Workers() int { return p.workers }

// Run starts the worker processes and distributes files across them.
// Cancellation kills the workers via their command context; a worker that
// dies mid-run fails only its current file, and the remaining jobs drain
// to the surviving workers.
func (p *ProcessPool) Run(ctx context.Context, files []string) <-chan FileResult {
	results := make(chan FileResult, len(files)+p.workers)
	jobs := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx, jobs, results)
		}()
	}

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			case <-workersDone:
				return
			}
		}
	}()

	go func() {
		<-workersDone
		close(results)
	}()

	return results
}

// runWorker owns one scan-worker subprocess, feeding it jobs until the job
// channel drains, the subprocess dies or the context is cancelled.
func (p *ProcessPool) runWorker(ctx context.Context, jobs <-chan string, results chan<- FileResult) {
	cmd := exec.CommandContext(ctx, p.exe, workerCommand)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		results <- FileResult{Err: fmt.Errorf("start scan worker: %w", err)}
		return
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		results <- FileResult{Err: fmt.Errorf("start scan worker: %w", err)}
		return
	}
	if err := cmd.Start(); err != nil {
		results <- FileResult{Err: fmt.Errorf("start scan worker: %w", err)}
		return
	}
	defer func() {
		stdin.Close()
		_ = cmd.Wait()
	}()

	enc := json.NewEncoder(stdin)
	dec := json.NewDecoder(stdout)

	if err := enc.Encode(p.spec); err != nil {
		results <- FileResult{Err: fmt.Errorf("send worker spec: %w", err)}
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-jobs:
			if !ok {
				return
			}
			if err := enc.Encode(WorkerJob{Path: path}); err != nil {
				results <- FileResult{Path: path, Err: fmt.Errorf("write to scan worker: %w", err)}
				return
			}
			var resp WorkerResponse
			if err := dec.Decode(&resp); err != nil {
				results <- FileResult{Path: path, Err: fmt.Errorf("read from scan worker: %w", err)}
				return
			}
			res := FileResult{Path: resp.Path, Matches: resp.Matches}
			if resp.Error != "" {
				res.Err = errors.New(resp.Error)
			}
			results <- res
		}
	}
}
