package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and the
// error. History is left to the caller.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	// Point at a missing settings file so host configuration never leaks in.
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootFlagDefaults(t *testing.T) {
	cmd := NewRootCommand()

	maxDepth, err := cmd.Flags().GetInt("maxdepth")
	require.NoError(t, err)
	assert.Equal(t, 1, maxDepth)

	maxLine, err := cmd.Flags().GetInt("maxline")
	require.NoError(t, err)
	assert.Equal(t, 1000, maxLine)

	sizeLimit, err := cmd.Flags().GetFloat64("size-limit")
	require.NoError(t, err)
	assert.Equal(t, float64(-1), sizeLimit)

	caseSensitive, err := cmd.Flags().GetBool("case-sensitive")
	require.NoError(t, err)
	assert.False(t, caseSensitive)
}

func TestSearchLiteralTerm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"),
		[]byte("the needle is here\nno match\nanother needle line\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"),
		[]byte("nothing relevant\n"), 0o644))

	out, errOut, err := execute(t, dir, "needle", "--no-history", "--log-level", "error")
	require.NoError(t, err, "stderr: %s", errOut)

	assert.Contains(t, out, "goroutine workers")
	assert.Contains(t, out, "a.txt - Line 1")
	assert.Contains(t, out, "a.txt - Line 3")
	assert.NotContains(t, out, "b.txt")
	assert.Contains(t, out, "Found results in 1 files for search term 'needle'.")
	assert.Contains(t, out, "Elapsed time:")
}

func TestSearchZeroMatchesSucceeds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0o644))

	out, _, err := execute(t, dir, "absent", "--no-history", "--log-level", "error")
	require.NoError(t, err, "a search with no matches is not an error")
	assert.Contains(t, out, "Found results in 0 files")
}

func TestSearchRespectsMaxDepth(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "sub", "subsub")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, "deep.txt"), []byte("needle\n"), 0o644))

	out, _, err := execute(t, dir, "needle", "--maxdepth", "0", "--no-history", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Found results in 0 files")

	out, _, err = execute(t, dir, "needle", "--maxdepth", "-1", "--no-history", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "deep.txt - Line 1")
}

func TestSearchInvalidDateRejected(t *testing.T) {
	_, errOut, err := execute(t, t.TempDir(), "needle",
		"--start-date", "2024-13-01", "--no-history")
	require.Error(t, err)
	assert.Contains(t, errOut, "[ERROR]")
	assert.Contains(t, errOut, "invalid start date")
}

func TestSearchUnknownExtensionsSuggest(t *testing.T) {
	_, errOut, err := execute(t, t.TempDir(), "needle",
		"-e", ".tx", "--no-history")
	require.Error(t, err)
	assert.Contains(t, errOut, "did you mean")
}

func TestSearchRecordsHistory(t *testing.T) {
	color.NoColor = true

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("needle\n"), 0o644))

	cfgDir := t.TempDir()
	dbPath := filepath.Join(cfgDir, "history.db")
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath,
		[]byte("history:\n  enabled: true\n  path: "+dbPath+"\n"), 0o644))

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{dir, "needle", "--log-level", "error", "--config", cfgPath})
	require.NoError(t, cmd.Execute())

	// The run shows up in the history listing.
	cmd = NewRootCommand()
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"history", "--db", dbPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "'needle'")
	assert.Contains(t, out.String(), dir)
	assert.Contains(t, out.String(), "1 files")
}

func TestHistoryEmpty(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"history", "--db", filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "No recorded searches.")
}
