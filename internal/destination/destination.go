// Package destination reads and writes the docs tree that synced files land in.
package destination

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauern/docsync/internal/logging"
)

// Destination is the write side of a sync. Paths are slash separated and
// relative to the destination root.
type Destination interface {
	// ReadFile returns the current content and whether the file exists.
	ReadFile(p string) (string, bool, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// WriteFile replaces the file content.
	WriteFile(p, content string) error
}

// WriteError reports a failed destination operation.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// ErrOutsideRoot is returned for paths that would escape the root directory.
var ErrOutsideRoot = errors.New("path escapes destination root")

// Dir is a Destination rooted at a local directory.
type Dir struct {
	Root string
	// FileMode is applied to newly written files. Zero means 0o644.
	FileMode fs.FileMode
}

// NewDir creates a Destination rooted at root.
func NewDir(root string) *Dir {
	return &Dir{Root: root, FileMode: 0o644}
}

func (d *Dir) resolve(op, p string) (string, error) {
	slashed := filepath.ToSlash(p)
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", &WriteError{Path: p, Op: op, Err: ErrOutsideRoot}
		}
	}
	clean := path.Clean("/" + slashed)
	if clean == "/" {
		return "", &WriteError{Path: p, Op: op, Err: errors.New("empty path")}
	}
	return filepath.Join(d.Root, filepath.FromSlash(clean[1:])), nil
}

// ReadFile implements Destination.
func (d *Dir) ReadFile(p string) (string, bool, error) {
	full, err := d.resolve("read", p)
	if err != nil {
		return "", false, err
	}
	// #nosec G304 - path is confined to the destination root
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &WriteError{Path: p, Op: "read", Err: err}
	}
	return string(data), true, nil
}

// MkdirAll implements Destination. Existing directories are not an error.
func (d *Dir) MkdirAll(dir string) error {
	if dir == "" || dir == "." {
		return os.MkdirAll(d.Root, 0o750)
	}
	full, err := d.resolve("mkdir", dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o750); err != nil {
		return &WriteError{Path: dir, Op: "mkdir", Err: err}
	}
	return nil
}

// WriteFile implements Destination. Content is written to a temporary file in
// the target directory and renamed into place, so readers never observe a
// partial file.
func (d *Dir) WriteFile(p, content string) error {
	full, err := d.resolve("write", p)
	if err != nil {
		return err
	}

	mode := d.FileMode
	if mode == 0 {
		mode = 0o644
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*.tmp")
	if err != nil {
		return &WriteError{Path: p, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: p, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: p, Op: "write", Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return &WriteError{Path: p, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, full); err != nil {
		return &WriteError{Path: p, Op: "rename", Err: err}
	}
	success = true

	logging.Debug("wrote file", logging.Dest(p), logging.Count(len(content)))
	return nil
}

// DryRun wraps a Destination, passing reads through and recording writes
// instead of performing them.
type DryRun struct {
	Destination

	mu      sync.Mutex
	planned []string
}

// NewDryRun wraps d.
func NewDryRun(d Destination) *DryRun {
	return &DryRun{Destination: d}
}

// MkdirAll does nothing.
func (d *DryRun) MkdirAll(string) error {
	return nil
}

// WriteFile records p as a planned write.
func (d *DryRun) WriteFile(p, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.planned = append(d.planned, p)
	logging.Info("dry run: would write", logging.Dest(p))
	return nil
}

// Planned returns the recorded writes in call order.
func (d *DryRun) Planned() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.planned...)
}
