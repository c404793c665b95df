package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture provides helpers for creating test fixtures in E2E tests.
type Fixture struct {
	t       *testing.T
	baseDir string
}

// NewFixture creates a new fixture helper rooted at the given directory.
func NewFixture(t *testing.T, baseDir string) *Fixture {
	t.Helper()
	return &Fixture{
		t:       t,
		baseDir: baseDir,
	}
}

// Root returns the fixture base directory.
func (f *Fixture) Root() string {
	return f.baseDir
}

// WriteFile writes content to a file relative to the fixture base directory.
// It creates parent directories as needed.
func (f *Fixture) WriteFile(relPath, content string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		f.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		f.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}

	return fullPath
}

// WriteDoc writes a docs page with a title in its front matter.
func (f *Fixture) WriteDoc(relPath, title, body string) string {
	f.t.Helper()
	return f.WriteFile(relPath, "---\ntitle: "+title+"\n---\n"+body)
}

// WriteMapping writes a repository mapping for org with one repository whose
// rules map source paths to destination paths.
func (f *Fixture) WriteMapping(relPath, org, repo string, rules map[string]string) string {
	f.t.Helper()

	var sb strings.Builder
	sb.WriteString("organization: " + org + "\n")
	sb.WriteString("repositories:\n")
	sb.WriteString("  - name: " + repo + "\n")
	sb.WriteString("    paths:\n")
	for src, dest := range rules {
		sb.WriteString("      " + src + ": " + dest + "\n")
	}
	return f.WriteFile(relPath, sb.String())
}

// WriteSidebar writes a sidebars.ts listing ids in order.
func (f *Fixture) WriteSidebar(relPath string, ids ...string) string {
	f.t.Helper()

	var sb strings.Builder
	sb.WriteString("const sidebars = {\n  docs: [\n")
	for _, id := range ids {
		sb.WriteString("    '" + id + "',\n")
	}
	sb.WriteString("  ],\n};\n\nexport default sidebars;\n")
	return f.WriteFile(relPath, sb.String())
}

// Path returns the full path for a relative path.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.baseDir, filepath.FromSlash(relPath))
}

// Exists returns true if the file or directory exists.
func (f *Fixture) Exists(relPath string) bool {
	f.t.Helper()
	_, err := os.Stat(f.Path(relPath))
	return err == nil
}

// ReadFile reads and returns the content of a file.
func (f *Fixture) ReadFile(relPath string) string {
	f.t.Helper()
	fullPath := f.Path(relPath)

	// #nosec G304 - fullPath is constructed from trusted test fixture base and test-provided path
	data, err := os.ReadFile(fullPath)
	if err != nil {
		f.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}

	return string(data)
}
