package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TempPath returns a path named name inside a per-test temporary directory.
// The file itself is not created.
func TempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// WriteFile creates name in a per-test temporary directory with the given
// content and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := TempPath(t, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// WriteJSON marshals v into name in a per-test temporary directory and
// returns its path.
func WriteJSON(t *testing.T, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "failed to marshal fixture")
	return WriteFile(t, name, string(data))
}

// ReadJSON decodes the file at path into a generic value.
func ReadJSON(t *testing.T, path string) any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
