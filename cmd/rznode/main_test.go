package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag must print usage and return a nil error.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error for -h")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
}

func TestRun_ValidateEmptyGraphSucceeds(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(graphPath, []byte(`{"nodes":{}}`), 0o600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"validate", "--graph", graphPath})

	// --- Assert ---
	require.NoError(t, err, "an empty graph document has no cycle and no unknown kinds")
	require.Contains(t, out.String(), "ok: 0 nodes, 0 links")
}

func TestRun_ValidateMissingGraphFlagFails(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"validate"})

	// --- Assert ---
	require.Error(t, err, "--graph is a required flag")
}

func TestRun_RunUnreadableGraphReturnsExitError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	missing := filepath.Join(dir, "does-not-exist.json")
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, []string{"run", "--graph", missing})

	// --- Assert ---
	require.Error(t, err)
}
