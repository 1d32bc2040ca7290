// Package extensions holds the reference set of known text-file extensions
// and the "did you mean" suggestion logic used when a user-supplied list has
// no overlap with it.
package extensions

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed extensions.yaml
var referenceYAML []byte

// Reference returns the embedded reference set of text-file extensions,
// lower-cased and dot-prefixed. It is loaded once at startup and injected
// into the configuration rather than read as ambient state.
func Reference() ([]string, error) {
	var exts []string
	if err := yaml.Unmarshal(referenceYAML, &exts); err != nil {
		return nil, fmt.Errorf("parse embedded extension list: %w", err)
	}
	return exts, nil
}

// Normalize splits a comma-separated extension list into lower-cased,
// dot-prefixed tokens. Empty tokens are dropped.
func Normalize(list string) []string {
	var out []string
	for _, tok := range strings.Split(list, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if !strings.HasPrefix(tok, ".") {
			tok = "." + tok
		}
		out = append(out, tok)
	}
	return out
}

// Suggest ranks reference extensions by similarity to the provided ones and
// returns the top three scoring above 0.25. Used to offer near-miss
// suggestions when the configured set is rejected.
func Suggest(provided, reference []string) []string {
	type scored struct {
		score float64
		ext   string
	}
	candidates := make([]scored, 0, len(reference))
	for _, ref := range reference {
		var best float64
		for _, p := range provided {
			if s := similarity(p, ref); s > best {
				best = s
			}
		}
		candidates = append(candidates, scored{score: best, ext: ref})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].ext < candidates[j].ext
	})

	var out []string
	for _, c := range candidates {
		if c.score <= 0.25 {
			break
		}
		out = append(out, c.ext)
		if len(out) == 3 {
			break
		}
	}
	return out
}

// similarity scores two strings as the length of their longest common
// substring divided by the length of the longer string.
func similarity(a, b string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	longest := 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > longest {
					longest = cur[j]
				}
			}
		}
		prev = cur
	}
	denom := len(a)
	if len(b) > denom {
		denom = len(b)
	}
	return float64(longest) / float64(denom)
}
