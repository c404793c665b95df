// Package source defines the read interface to upstream repositories.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EntryType distinguishes files from directories.
type EntryType string

const (
	// TypeFile is a regular file.
	TypeFile EntryType = "file"
	// TypeDir is a directory.
	TypeDir EntryType = "dir"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Path string
	Type EntryType
}

// Content is the result of reading a path: a file's text or a directory listing.
type Content struct {
	Type EntryType
	Path string
	// Text holds the file content when Type is TypeFile.
	Text string
	// Entries holds the flat listing when Type is TypeDir.
	Entries []Entry
}

// Source reads files and directory listings from a repository at a ref.
type Source interface {
	Get(ctx context.Context, repo, path, ref string) (*Content, error)
}

// Sentinel fetch failures.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrRateLimited  = errors.New("rate limited")
)

// FetchError reports a failed read of path in repo at ref.
type FetchError struct {
	Repo string
	Path string
	Ref  string
	Err  error
}

// Error returns a formatted fetch error message.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s@%s: %v", e.Repo, e.Path, e.Ref, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the path does not exist at the ref.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// GetWithTimeout bounds a single Get. A timeout is reported as not found so
// callers treat it like a missing file.
func GetWithTimeout(ctx context.Context, src Source, repo, path, ref string, timeout time.Duration) (*Content, error) {
	if timeout <= 0 {
		return src.Get(ctx, repo, path, ref)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	content, err := src.Get(ctx, repo, path, ref)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !IsNotFound(err) {
		return nil, &FetchError{
			Repo: repo,
			Path: path,
			Ref:  ref,
			Err:  fmt.Errorf("%w: timed out after %s", ErrNotFound, timeout),
		}
	}
	return content, err
}
