// Package pattern compiles a raw search term into a matcher. A term
// containing regex metacharacters is compiled verbatim as a pattern; anything
// else is matched as a whole word.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// metaChars matches any character that promotes a search term to regex mode.
var metaChars = regexp.MustCompile(`[.*+?^$%{}()|[\]\\]`)

// Pattern is a compiled search matcher. It is fully reconstructible from
// (Source, CaseSensitive), so it can be shipped across a process boundary
// and recompiled on the other side.
type Pattern struct {
	// Source is the raw term as typed by the user.
	Source string
	// CaseSensitive disables the default case folding.
	CaseSensitive bool
	// IsRegex reports whether Source was treated as a regex. The scheduler
	// uses it to classify the workload as CPU-bound or I/O-bound.
	IsRegex bool

	re *regexp.Regexp
}

// Compile builds a Pattern from a raw search term. An empty term or an
// unparseable regex is a configuration error.
func Compile(term string, caseSensitive bool) (*Pattern, error) {
	if term == "" {
		return nil, errors.New("search term is empty; if your term includes special characters like $, enclose it in single quotes (e.g. '$search')")
	}

	isRegex := metaChars.MatchString(term)
	expr := term
	if !isRegex {
		expr = regexp.QuoteMeta(term)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", term, err)
	}

	return &Pattern{
		Source:        term,
		CaseSensitive: caseSensitive,
		IsRegex:       isRegex,
		re:            re,
	}, nil
}

// FindSpans returns all non-overlapping match spans in line as [start, end)
// byte offsets, in ascending order. In literal mode only whole-word hits are
// kept: the rune immediately before and after a span must not be a word
// character, so "cat" never matches inside "concatenate". RE2 has no
// lookaround assertions, so the boundary check runs as a post-filter over
// the raw hits instead of living in the pattern itself.
func (p *Pattern) FindSpans(line string) [][2]int {
	hits := p.re.FindAllStringIndex(line, -1)
	if len(hits) == 0 {
		return nil
	}

	spans := make([][2]int, 0, len(hits))
	for _, h := range hits {
		if !p.IsRegex && !wordBounded(line, h[0], h[1]) {
			continue
		}
		spans = append(spans, [2]int{h[0], h[1]})
	}
	if len(spans) == 0 {
		return nil
	}
	return spans
}

// wordBounded reports whether the span [start, end) is not immediately
// preceded or followed by a word character.
func wordBounded(line string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(line[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(line) {
		r, _ := utf8.DecodeRuneInString(line[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
