// Package filter decides which files are eligible for scanning.
package filter

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Filter is a predicate over a file's path and metadata. It is built once
// per run from the validated configuration and shared read-only by all
// workers.
type Filter struct {
	extensions map[string]struct{}
	startDate  *time.Time
	endDate    *time.Time
	sizeLimit  int64 // bytes; negative means no limit
}

// New builds a Filter. Extensions are normalised to lower-cased,
// dot-prefixed form. start and end are inclusive modification-time bounds;
// nil disables a bound. sizeLimit is a byte ceiling; pass a negative value
// for no limit.
func New(extensions []string, start, end *time.Time, sizeLimit int64) *Filter {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return &Filter{
		extensions: set,
		startDate:  start,
		endDate:    end,
		sizeLimit:  sizeLimit,
	}
}

// Valid stats path and reports whether it is eligible. Stat failures count
// as ineligible: the file may have disappeared since it was listed.
func (f *Filter) Valid(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return f.ValidInfo(path, info)
}

// ValidInfo reports whether path with the given metadata is a regular file
// whose extension is in the allow-set and whose modification time and size
// are within bounds.
func (f *Filter) ValidInfo(path string, info fs.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := f.extensions[ext]; !ok {
		return false
	}
	mod := info.ModTime()
	if f.startDate != nil && mod.Before(*f.startDate) {
		return false
	}
	if f.endDate != nil && mod.After(*f.endDate) {
		return false
	}
	if f.sizeLimit >= 0 && info.Size() > f.sizeLimit {
		return false
	}
	return true
}
