package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLayout(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newCLI()
	app.Writer = &out
	err := app.Run(append([]string{"plateqc", "layout"}, args...))
	return out.String(), err
}

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLayoutCommandDefault(t *testing.T) {
	out, err := runLayout(t)
	require.NoError(t, err)
	assert.Contains(t, out, "positive_control_col: 10")
}

func TestLayoutCommandUsesEnvLayoutFile(t *testing.T) {
	t.Setenv("PLATEQC_LAYOUT_FILE", writeLayout(t, "positive_control_col: 9\n"))

	out, err := runLayout(t)
	require.NoError(t, err)
	assert.Contains(t, out, "positive_control_col: 9")
}

func TestLayoutCommandFlagOverridesEnv(t *testing.T) {
	t.Setenv("PLATEQC_LAYOUT_FILE", writeLayout(t, "positive_control_col: 9\n"))
	flagFile := writeLayout(t, "positive_control_col: 8\n")

	out, err := runLayout(t, "--layout", flagFile)
	require.NoError(t, err)
	assert.Contains(t, out, "positive_control_col: 8")
}

func TestLayoutCommandRejectsBadFile(t *testing.T) {
	_, err := runLayout(t, "--layout", writeLayout(t, "positive_control_col: 12\n"))
	assert.Error(t, err)
}
