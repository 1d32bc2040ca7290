// Package scanner streams one file at a time in fixed-size chunks,
// reassembles logical lines across chunk boundaries and applies the
// compiled pattern per line.
package scanner

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harrison/textseek/internal/filter"
	"github.com/harrison/textseek/internal/models"
	"github.com/harrison/textseek/internal/pattern"
)

// chunkSize is the fixed read size. Logical lines are carried across chunk
// boundaries, so a line may be arbitrarily longer than one chunk.
const chunkSize = 8192

// Scanner searches file contents line by line. It holds only read-only
// state and is safe to share across concurrent scans.
type Scanner struct {
	pattern *pattern.Pattern
	filter  *filter.Filter
	maxLine int
}

// New builds a Scanner. maxLine is the display truncation threshold in
// runes; matching always runs on the full line regardless.
func New(p *pattern.Pattern, f *filter.Filter, maxLine int) *Scanner {
	return &Scanner{pattern: p, filter: f, maxLine: maxLine}
}

// ScanFile returns the ordered match records for one file. Eligibility is
// re-checked first: the file may have changed or disappeared between
// listing and scanning, in which case it contributes no matches and no
// error. Content is decoded as UTF-8 with invalid sequences replaced;
// decoding never fails a scan.
func (s *Scanner) ScanFile(path string) ([]models.Match, error) {
	info, err := os.Stat(path)
	if err != nil || !s.filter.ValidInfo(path, info) {
		return nil, nil
	}
	modTime := info.ModTime()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		matches []models.Match
		carry   []byte
		lineNum int
	)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			data := append(carry, buf[:n]...)
			lines := bytes.Split(data, []byte{'\n'})
			// The trailing fragment has no newline yet; prefix it to the
			// next chunk so lines are never split by a read boundary.
			carry = append([]byte(nil), lines[len(lines)-1]...)
			for _, raw := range lines[:len(lines)-1] {
				lineNum++
				if m, ok := s.matchLine(path, lineNum, modTime, raw); ok {
					matches = append(matches, m)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return matches, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	// A file that does not end in a newline still has a final line.
	if len(carry) > 0 {
		lineNum++
		if m, ok := s.matchLine(path, lineNum, modTime, carry); ok {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// matchLine applies the pattern to one reassembled line and builds the
// single record for it. All spans on the line are merged into one record.
func (s *Scanner) matchLine(path string, lineNum int, modTime time.Time, raw []byte) (models.Match, bool) {
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	line := strings.ToValidUTF8(string(raw), string(utf8.RuneError))

	spans := s.pattern.FindSpans(line)
	if len(spans) == 0 {
		return models.Match{}, false
	}

	text, spans, truncated := truncate(line, spans, s.maxLine)
	return models.Match{
		Path:      path,
		Line:      lineNum,
		ModTime:   modTime,
		Text:      text,
		Spans:     spans,
		Truncated: truncated,
	}, true
}

// truncate shortens line to at most maxLine runes for display. The match
// search has already run on the full line, so a match beyond the cut still
// produces a record; its span is dropped from display, and a span crossing
// the cut is clamped to it.
func truncate(line string, spans [][2]int, maxLine int) (string, [][2]int, bool) {
	if maxLine <= 0 || utf8.RuneCountInString(line) <= maxLine {
		return line, spans, false
	}

	cut := 0
	for i := 0; i < maxLine; i++ {
		_, size := utf8.DecodeRuneInString(line[cut:])
		cut += size
	}

	kept := make([][2]int, 0, len(spans))
	for _, sp := range spans {
		if sp[0] >= cut {
			continue
		}
		if sp[1] > cut {
			sp[1] = cut
		}
		kept = append(kept, sp)
	}
	return line[:cut], kept, true
}
