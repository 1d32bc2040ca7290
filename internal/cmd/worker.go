package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/textseek/internal/executor"
	"github.com/harrison/textseek/internal/filter"
	"github.com/harrison/textseek/internal/pattern"
	"github.com/harrison/textseek/internal/scanner"
)

// NewScanWorkerCommand creates the hidden subprocess entry point used by the
// process pool. It speaks newline-delimited JSON on stdin/stdout: one
// WorkerSpec header, then one WorkerJob per file, answered by one
// WorkerResponse each.
func NewScanWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "scan-worker",
		Short:  "Internal scan worker (spawned by the process pool)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScanWorker(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runScanWorker rebuilds the matcher and filter from the spec header and
// answers jobs until stdin closes. Per-file scan failures travel back in the
// response; only protocol failures end the worker.
func runScanWorker(in io.Reader, out io.Writer) error {
	dec := json.NewDecoder(in)
	enc := json.NewEncoder(out)

	var spec executor.WorkerSpec
	if err := dec.Decode(&spec); err != nil {
		return fmt.Errorf("read worker spec: %w", err)
	}

	pat, err := pattern.Compile(spec.Term, spec.CaseSensitive)
	if err != nil {
		return fmt.Errorf("compile pattern: %w", err)
	}
	fl := filter.New(spec.Extensions, spec.StartDate, spec.EndDate, spec.SizeLimit)
	sc := scanner.New(pat, fl, spec.MaxLine)

	for {
		var job executor.WorkerJob
		if err := dec.Decode(&job); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read job: %w", err)
		}

		resp := executor.WorkerResponse{Path: job.Path}
		matches, err := sc.ScanFile(job.Path)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Matches = matches
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}
