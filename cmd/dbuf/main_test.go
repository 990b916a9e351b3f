package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/dbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "../../testdata/sample.txt"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"dbuf"}, args...))
	return out.String(), err
}

func TestRead(t *testing.T) {
	out, err := run(t, "--capacity", "4", "read", sample)
	require.NoError(t, err)
	assert.Contains(t, out, "characters: 41\n")
	assert.Contains(t, out, "lines: 3\n")
	assert.Contains(t, out, "longest line: 28\n")
	assert.Contains(t, out, "switches: 10\n")
}

func TestRead_encoding(t *testing.T) {
	for _, enc := range []string{"auto", "latin1", "utf-8"} {
		out, err := run(t, "-e", enc, "read", "--echo", sample)
		require.NoError(t, err, enc)
		assert.True(t, strings.HasPrefix(out, "x = 42 + y1\n"), enc)
	}
	_, err := run(t, "-e", "klingon", "read", sample)
	assert.Error(t, err)
}

func TestRead_missing(t *testing.T) {
	_, err := run(t, "read", "does-not-exist")
	assert.ErrorIs(t, err, dbuf.ErrSourceUnavailable)

	_, err = run(t, "read")
	assert.Error(t, err)
}

func TestShare(t *testing.T) {
	out, err := run(t, "-c", "8", "share", "--trace", sample)
	require.NoError(t, err)
	assert.Contains(t, out, "total: 41\n")
	assert.Contains(t, out, "state: finished\n")
	assert.Equal(t, 41, strings.Count(out, "producer ")+strings.Count(out, "consumer "))
}

func TestScan(t *testing.T) {
	out, err := run(t, "-c", "3", "scan", sample)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "../../testdata/sample.txt:1:1\tIDENT:x\n"))
	assert.Contains(t, out, "sample.txt:2:1\tIDENT:result\n")
	assert.True(t, strings.HasSuffix(out, "\tEOF\n"))
}

func TestBench(t *testing.T) {
	out, err := run(t, "bench", "--capacities", "2", "--capacities", "64", "--dump", sample)
	require.NoError(t, err)
	assert.Contains(t, out, "Double buffering: ../../testdata/sample.txt (41 B)")
	assert.Contains(t, out, "capacity")     // report header
	assert.Contains(t, out, "Capacity: 64") // litter dump
}

func TestBench_encoding(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ete.txt")
	require.NoError(t, os.WriteFile(name, []byte("été\n"), 0o644))

	for _, tt := range []struct {
		enc   string
		chars int
	}{
		{"", 4},
		{"auto", 4},
		{"latin1", 6},
	} {
		out, err := run(t, "-e", tt.enc, "bench", "--capacities", "4", "--dump", name)
		require.NoError(t, err, tt.enc)
		assert.Contains(t, out, fmt.Sprintf("Chars: %d,", tt.chars), tt.enc)
	}
	_, err := run(t, "-e", "klingon", "bench", name)
	assert.Error(t, err)
}
