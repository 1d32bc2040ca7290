package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/textseek/internal/models"
	"github.com/harrison/textseek/internal/pattern"
)

// recordingLogger captures warnings emitted by the scheduler.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func fakeFiles(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("/fake/file-%d.txt", i)
	}
	return files
}

func oneMatchPerFile(path string) ([]models.Match, error) {
	return []models.Match{{Path: path, Line: 1, Text: "needle", Spans: [][2]int{{0, 6}}}}, nil
}

func TestGoroutinePoolCompletesAllFiles(t *testing.T) {
	files := fakeFiles(50)
	pool := NewGoroutinePool(4, oneMatchPerFile)

	seen := make(map[string]bool)
	for res := range pool.Run(context.Background(), files) {
		require.NoError(t, res.Err)
		require.Len(t, res.Matches, 1)
		seen[res.Path] = true
	}
	assert.Len(t, seen, 50, "every file reports exactly once")
}

func TestSchedulerCountsMatchingFiles(t *testing.T) {
	// Files with unique matches each count once toward the files-with-matches
	// total, independent of completion order.
	files := fakeFiles(20)
	scan := func(path string) ([]models.Match, error) {
		if path == files[3] || path == files[11] {
			return nil, nil // no matches
		}
		return oneMatchPerFile(path)
	}

	log := &recordingLogger{}
	sched := NewSchedulerWithPool(NewGoroutinePool(8, scan), log)

	records, matched, err := sched.Search(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 18, matched)
	assert.Len(t, records, 18)
	assert.Empty(t, log.warnings)
}

func TestSchedulerIsolatesPerFileFailures(t *testing.T) {
	files := fakeFiles(10)
	scan := func(path string) ([]models.Match, error) {
		if path == files[5] {
			return nil, errors.New("permission denied")
		}
		return oneMatchPerFile(path)
	}

	log := &recordingLogger{}
	sched := NewSchedulerWithPool(NewGoroutinePool(4, scan), log)

	records, matched, err := sched.Search(context.Background(), files)
	require.NoError(t, err, "a failed file never aborts the run")
	assert.Equal(t, 9, matched)
	assert.Len(t, records, 9)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], files[5])
	assert.Contains(t, log.warnings[0], "permission denied")
}

func TestSchedulerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before any work is submitted

	log := &recordingLogger{}
	sched := NewSchedulerWithPool(NewGoroutinePool(4, oneMatchPerFile), log)

	_, _, err := sched.Search(ctx, fakeFiles(100))
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestSchedulerCancellationMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started sync.Once
	firstStarted := make(chan struct{})
	scan := func(path string) ([]models.Match, error) {
		started.Do(func() { close(firstStarted) })
		time.Sleep(5 * time.Millisecond)
		return oneMatchPerFile(path)
	}

	sched := NewSchedulerWithPool(NewGoroutinePool(2, scan), &recordingLogger{})

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, _, err = sched.Search(ctx, fakeFiles(500))
	}()

	<-firstStarted
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("search did not unwind after cancellation")
	}
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestNewSchedulerSelectsPoolByWorkload(t *testing.T) {
	log := &recordingLogger{}
	spec := WorkerSpec{Term: "ca.", MaxLine: 1000, Extensions: []string{".txt"}, SizeLimit: -1}

	regex, err := pattern.Compile("ca.", false)
	require.NoError(t, err)
	require.True(t, regex.IsRegex)

	sched, err := NewScheduler(regex, spec, nil, log)
	require.NoError(t, err)
	assert.Equal(t, "process", sched.Pool().Kind())
	assert.Equal(t, 3*runtime.NumCPU(), sched.Pool().Workers())

	literal, err := pattern.Compile("cat", false)
	require.NoError(t, err)
	require.False(t, literal.IsRegex)

	sched, err = NewScheduler(literal, spec, oneMatchPerFile, log)
	require.NoError(t, err)
	assert.Equal(t, "goroutine", sched.Pool().Kind())
	assert.Equal(t, 5*runtime.NumCPU(), sched.Pool().Workers())
}

func TestGoroutinePoolMinimumSize(t *testing.T) {
	pool := NewGoroutinePool(0, oneMatchPerFile)
	assert.Equal(t, 1, pool.Workers())
}
