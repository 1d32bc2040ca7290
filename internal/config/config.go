// Package config validates run options into the immutable search
// configuration and loads persisted user settings. Every failure here is a
// configuration error: it is reported once and the process exits before any
// traversal begins.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/textseek/internal/extensions"
)

// Options are the raw run parameters as supplied on the command line,
// before validation.
type Options struct {
	Directory     string
	SearchTerm    string
	MaxDepth      int
	Extensions    string
	MaxLine       int
	CaseSensitive bool
	StartDate     string
	EndDate       string
	SizeLimitKB   float64 // negative means no limit
	NoHistory     bool
	LogLevel      string
}

// Search is the validated, immutable configuration for one run. It is
// constructed once and never mutated.
type Search struct {
	Directory     string
	Term          string
	MaxDepth      int
	Extensions    []string
	MaxLine       int
	CaseSensitive bool
	StartDate     *time.Time
	EndDate       *time.Time
	SizeLimit     int64 // bytes; -1 means no limit
}

// NewSearch validates opts against the reference extension set and builds
// the run configuration. The extension list falls back to the reference set
// when unset; a user-supplied list with no overlap against the reference
// set rejects the whole run, suggesting near misses when any score above
// the similarity threshold.
func NewSearch(opts Options, reference []string) (*Search, error) {
	if opts.SearchTerm == "" {
		return nil, errors.New("search term is empty; if your term includes special characters like $, enclose it in single quotes (e.g. '$search')")
	}

	exts := reference
	if strings.TrimSpace(opts.Extensions) != "" {
		exts = extensions.Normalize(opts.Extensions)
		if !intersects(exts, reference) {
			if suggested := extensions.Suggest(exts, reference); len(suggested) > 0 {
				return nil, fmt.Errorf("no known text extensions in %q; did you mean: %s",
					opts.Extensions, strings.Join(suggested, ", "))
			}
			return nil, fmt.Errorf("invalid extensions %q: none are known text-based extensions", opts.Extensions)
		}
	}

	start, err := parseDate(opts.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(opts.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if end != nil {
		// The bound is inclusive of the whole named day.
		e := end.Add(24*time.Hour - time.Nanosecond)
		end = &e
	}

	// The CLI expresses the ceiling in kilobytes; converted to bytes once.
	sizeLimit := int64(-1)
	if opts.SizeLimitKB >= 0 {
		sizeLimit = int64(opts.SizeLimitKB * 1024)
	}

	return &Search{
		Directory:     opts.Directory,
		Term:          opts.SearchTerm,
		MaxDepth:      opts.MaxDepth,
		Extensions:    exts,
		MaxLine:       opts.MaxLine,
		CaseSensitive: opts.CaseSensitive,
		StartDate:     start,
		EndDate:       end,
		SizeLimit:     sizeLimit,
	}, nil
}

// parseDate strictly parses a YYYY-MM-DD date in local time. A round-trip
// format check rejects shorthand inputs the layout parser would accept.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil || t.Format("2006-01-02") != s {
		return nil, fmt.Errorf("%q is not a valid date; use format YYYY-MM-DD", s)
	}
	return &t, nil
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
