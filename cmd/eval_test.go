package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputArg_ScalarAndVector(t *testing.T) {
	s, err := parseInputArg("5")
	require.NoError(t, err)
	assert.True(t, s.IsScalar())

	v, err := parseInputArg("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{3}, v.Shape())
	assert.Equal(t, []float64{1, 2, 3}, v.Data())

	_, err = parseInputArg("1,two")
	require.Error(t, err)
}

func writeBundle(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestDescribeCommand_PrintsSummary(t *testing.T) {
	path := writeBundle(t, "family: shift\nparameters:\n  offset: 2\n")

	out := runCommand(t, "describe", "-f", path)
	assert.Contains(t, out, "Model: shift")
	assert.Contains(t, out, "offset")
	assert.Contains(t, out, "2")
}

func TestEvalCommand_PrintsOutputs(t *testing.T) {
	path := writeBundle(t, "family: scale\nparameters:\n  factor: 10\n")

	out := runCommand(t, "eval", "-f", path, "1,2,3")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "30")
}

func TestFamiliesCommand_ListsRegistered(t *testing.T) {
	out := runCommand(t, "families")
	assert.Contains(t, out, "shift (1 in, 1 out): offset")
	assert.Contains(t, out, "scale (1 in, 1 out): factor")
}
