// Package models defines the shared data types passed between the walker,
// scanner, executor and reporter.
package models

import "time"

// Match is one reported line from one file. All match spans found on the
// line are merged into this single record; a line never produces more than
// one Match.
type Match struct {
	// Path is the file the line was found in.
	Path string `json:"path"`
	// Line is the 1-based line number, contiguous across chunk boundaries.
	Line int `json:"line"`
	// ModTime is the file's modification time at scan time.
	ModTime time.Time `json:"mod_time"`
	// Text is the line as displayed, possibly truncated.
	Text string `json:"text"`
	// Spans are [start, end) byte offsets into Text for each match,
	// in ascending order.
	Spans [][2]int `json:"spans"`
	// Truncated reports whether Text was cut to the display limit.
	Truncated bool `json:"truncated,omitempty"`
}

// Summary describes one completed search run.
type Summary struct {
	// Directories is the number of directories entered during the walk.
	Directories int
	// FilesMatched is the number of distinct files with at least one match.
	FilesMatched int
	// MaxDepth is the configured recursion bound (-1 = unbounded).
	MaxDepth int
	// Term is the literal search term as supplied by the user.
	Term string
}
