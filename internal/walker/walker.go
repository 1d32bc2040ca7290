// Package walker performs bounded-depth recursive directory traversal,
// producing the eligible-file set and a count of directories entered.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
)

// Result is the outcome of one walk. Errors holds non-fatal per-directory
// failures: an unreadable subtree is skipped, never aborting the walk.
type Result struct {
	// Directories is the number of directories actually entered,
	// including the root.
	Directories int
	// Files are the paths for which the eligibility predicate returned true
	// at walk time.
	Files []string
	// Errors are per-directory enumeration failures.
	Errors []error
}

// Walker recurses through a directory tree up to a fixed depth ceiling.
type Walker struct {
	maxDepth int
	valid    func(string) bool
}

// New builds a Walker. maxDepth is a hard recursion ceiling: the root is
// depth 0, maxDepth 0 checks only files directly in the root, and -1
// disables the bound. valid is the file eligibility predicate.
func New(maxDepth int, valid func(string) bool) *Walker {
	return &Walker{maxDepth: maxDepth, valid: valid}
}

// Walk traverses root and returns the directory count, eligible files and
// any per-directory errors. A missing or non-directory root yields an empty
// result with zero directories.
func (w *Walker) Walk(root string) *Result {
	res := &Result{}
	info, err := os.Stat(root)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("access %s: %w", root, err))
		return res
	}
	if !info.IsDir() {
		return res
	}
	res.Directories = w.walk(root, 0, res)
	return res
}

// walk returns the number of directories entered under (and including)
// path. A directory is counted after its children so the count reflects
// directories actually enumerated.
func (w *Walker) walk(path string, depth int, res *Result) int {
	entries, err := os.ReadDir(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("read directory %s: %w", path, err))
		return 0
	}

	count := 0
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if w.valid(full) {
			res.Files = append(res.Files, full)
		} else if entry.IsDir() && (w.maxDepth == -1 || depth < w.maxDepth) {
			count += w.walk(full, depth+1, res)
		}
	}
	return count + 1
}
