package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/textseek/internal/executor"
)

func TestScanWorkerProtocol(t *testing.T) {
	dir := t.TempDir()
	hit := filepath.Join(dir, "hit.txt")
	miss := filepath.Join(dir, "miss.txt")
	require.NoError(t, os.WriteFile(hit, []byte("a needle here\nplain line\n"), 0o644))
	require.NoError(t, os.WriteFile(miss, []byte("nothing\n"), 0o644))

	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	require.NoError(t, enc.Encode(executor.WorkerSpec{
		Term:       "needle",
		MaxLine:    1000,
		Extensions: []string{".txt"},
		SizeLimit:  -1,
	}))
	require.NoError(t, enc.Encode(executor.WorkerJob{Path: hit}))
	require.NoError(t, enc.Encode(executor.WorkerJob{Path: miss}))
	require.NoError(t, enc.Encode(executor.WorkerJob{Path: filepath.Join(dir, "gone.txt")}))

	var out bytes.Buffer
	require.NoError(t, runScanWorker(&in, &out))

	dec := json.NewDecoder(&out)
	var responses []executor.WorkerResponse
	for dec.More() {
		var resp executor.WorkerResponse
		require.NoError(t, dec.Decode(&resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 3, "one response per job, in order")

	assert.Equal(t, hit, responses[0].Path)
	require.Len(t, responses[0].Matches, 1)
	assert.Equal(t, 1, responses[0].Matches[0].Line)
	assert.Equal(t, "a needle here", responses[0].Matches[0].Text)
	assert.Equal(t, [][2]int{{2, 8}}, responses[0].Matches[0].Spans)

	assert.Empty(t, responses[1].Matches)
	assert.Empty(t, responses[1].Error)

	// A vanished file is re-checked and skipped, not an error.
	assert.Empty(t, responses[2].Matches)
	assert.Empty(t, responses[2].Error)
}

func TestScanWorkerCaseSensitiveSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("Needle\nneedle\n"), 0o644))

	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	require.NoError(t, enc.Encode(executor.WorkerSpec{
		Term:          "needle",
		CaseSensitive: true,
		MaxLine:       1000,
		Extensions:    []string{".txt"},
		SizeLimit:     -1,
	}))
	require.NoError(t, enc.Encode(executor.WorkerJob{Path: path}))

	var out bytes.Buffer
	require.NoError(t, runScanWorker(&in, &out))

	var resp executor.WorkerResponse
	require.NoError(t, json.NewDecoder(&out).Decode(&resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 2, resp.Matches[0].Line)
}

func TestScanWorkerBadSpec(t *testing.T) {
	in := bytes.NewBufferString(`{"term":""}` + "\n")
	var out bytes.Buffer

	err := runScanWorker(in, &out)
	assert.Error(t, err, "an uncompilable spec ends the worker")
}

func TestScanWorkerEmptyInput(t *testing.T) {
	var out bytes.Buffer
	err := runScanWorker(bytes.NewBuffer(nil), &out)
	assert.Error(t, err, "a missing spec header is a protocol error")
}
