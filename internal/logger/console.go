// Package logger provides the level-filtered console logger used for
// traversal and scan diagnostics. Output is timestamped and thread-safe;
// warnings from concurrent scan workers are serialised through it.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering.
const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes level-filtered messages to a writer, each prefixed
// with an [HH:MM:SS] timestamp. Warnings and errors are coloured when the
// writer is a terminal. Safe for concurrent use; a nil logger or nil writer
// discards everything.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	colorOutput bool
	mu          sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to w. level is one of
// debug, info, warn or error (case-insensitive); anything else defaults to
// info.
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		level:       parseLevel(level),
		colorOutput: isTerminal(w),
	}
}

// isTerminal reports whether w is a TTY that should receive colour.
// Respects NO_COLOR via the color library's global flag.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Debugf logs a debug-level message.
func (cl *ConsoleLogger) Debugf(format string, args ...any) {
	cl.logf(levelDebug, "DEBUG", format, args...)
}

// Infof logs an info-level message.
func (cl *ConsoleLogger) Infof(format string, args ...any) {
	cl.logf(levelInfo, "INFO", format, args...)
}

// Warnf logs a warning. Recoverable per-file and per-subtree failures
// surface here.
func (cl *ConsoleLogger) Warnf(format string, args ...any) {
	cl.logf(levelWarn, "WARN", format, args...)
}

// Errorf logs an error-level message.
func (cl *ConsoleLogger) Errorf(format string, args ...any) {
	cl.logf(levelError, "ERROR", format, args...)
}

func (cl *ConsoleLogger) logf(level int, tag, format string, args ...any) {
	if cl == nil || cl.writer == nil || level < cl.level {
		return
	}
	line := fmt.Sprintf("[%s] [%s] %s", time.Now().Format("15:04:05"), tag, fmt.Sprintf(format, args...))
	if cl.colorOutput {
		switch level {
		case levelWarn:
			line = color.YellowString(line)
		case levelError:
			line = color.RedString(line)
		}
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()
	fmt.Fprintln(cl.writer, line)
}
