package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupContentDir creates a temporary data directory holding files, keyed by slash-separated
// relative path. It returns the absolute path of the directory.
// It fails the test immediately on error.
func SetupContentDir(t *testing.T, files map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for rel, content := range files {
		path := filepath.Join(absPath, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", rel)
	}
	return absPath
}

// ContractFixture is the on-disk layout expected by ports.RunLocationRepositoryContract.
func ContractFixture() map[string]string {
	return map[string]string{
		"Alpha/intro.txt": "Welcome to Alpha",
		"Alpha/1.jpg":     "jpg",
		"Alpha/2.png":     "png",
		"Alpha/guide.mp3": "mp3",
		"Beta/only.jpg":   "jpg",
		"Gamma/notes.txt": "Gamma is the last stop",
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", path)
}
