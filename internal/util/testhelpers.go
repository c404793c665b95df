package util

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// UpdateGoldenEnv names the variable that makes GoldenFile rewrite its
// fixtures instead of comparing against them.
const UpdateGoldenEnv = "DOCSYNC_UPDATE_GOLDEN"

// CreateTempDir creates a temporary directory removed when the test ends.
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "docsync-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// DocsTree writes files, keyed by slash-separated relative path, into a new
// temporary directory and returns its root.
func DocsTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := CreateTempDir(t)
	for rel, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root
}

// ReadFile returns the content of the slash-separated path rel under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	// #nosec G304 - path is built by test code
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// AssertNoError fails the test immediately if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertEqual reports got != want.
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// GoldenFile compares got with testdata/<name>.golden under dir. With
// UpdateGoldenEnv set to a true value the file is rewritten instead.
func GoldenFile(t *testing.T, dir, name, got string) {
	t.Helper()
	goldenPath := filepath.Join(dir, name+".golden")

	if update, _ := strconv.ParseBool(os.Getenv(UpdateGoldenEnv)); update {
		WriteFile(t, goldenPath, got)
		return
	}

	// #nosec G304 - goldenPath is built from the test's testdata directory
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nset %s=1 to create it", goldenPath, err, UpdateGoldenEnv)
	}
	if got != string(want) {
		t.Errorf("output mismatch for %s\n--- got ---\n%s\n--- want ---\n%s", name, got, want)
	}
}
