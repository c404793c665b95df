// Package mock provides an in-memory source for testing.
package mock

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/klauern/docsync/internal/source"
)

// Source serves files from memory. Directories are implied by file paths.
// Refs are ignored unless files were added with AddAt.
type Source struct {
	mu    sync.Mutex
	files map[string]map[string]string // repo -> "ref:path" -> text
	errs  map[string]error             // repo or repo/path -> forced error
	calls []string
}

// New creates an empty mock source.
func New() *Source {
	return &Source{
		files: make(map[string]map[string]string),
		errs:  make(map[string]error),
	}
}

// Add registers a file for every ref.
func (s *Source) Add(repo, filePath, text string) *Source {
	return s.AddAt(repo, filePath, "", text)
}

// AddAt registers a file for a single ref.
func (s *Source) AddAt(repo, filePath, ref, text string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files[repo] == nil {
		s.files[repo] = make(map[string]string)
	}
	s.files[repo][key(ref, filePath)] = text
	return s
}

// Fail makes every read of repo (when filePath is empty) or of repo/filePath
// return err.
func (s *Source) Fail(repo, filePath string, err error) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[path.Join(repo, filePath)] = err
	return s
}

// Calls returns the "repo/path@ref" strings requested so far, in order.
func (s *Source) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Get implements source.Source.
func (s *Source) Get(ctx context.Context, repo, filePath, ref string) (*source.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, &source.FetchError{Repo: repo, Path: filePath, Ref: ref, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, repo+"/"+filePath+"@"+ref)

	for _, k := range []string{repo, path.Join(repo, filePath)} {
		if err, ok := s.errs[k]; ok {
			return nil, &source.FetchError{Repo: repo, Path: filePath, Ref: ref, Err: err}
		}
	}

	files := s.files[repo]
	for _, k := range []string{key(ref, filePath), key("", filePath)} {
		if text, ok := files[k]; ok {
			return &source.Content{Type: source.TypeFile, Path: filePath, Text: text}, nil
		}
	}

	entries := s.list(files, ref, filePath)
	if len(entries) == 0 {
		return nil, &source.FetchError{Repo: repo, Path: filePath, Ref: ref, Err: source.ErrNotFound}
	}
	return &source.Content{Type: source.TypeDir, Path: filePath, Entries: entries}, nil
}

// list returns the direct children of dir, files and subdirectories alike.
func (s *Source) list(files map[string]string, ref, dir string) []source.Entry {
	prefix := strings.Trim(dir, "/")
	if prefix != "" {
		prefix += "/"
	}

	seen := make(map[string]source.EntryType)
	for k := range files {
		kref, p, _ := strings.Cut(k, ":")
		if kref != "" && kref != ref {
			continue
		}
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if nested {
			seen[name] = source.TypeDir
		} else if _, ok := seen[name]; !ok {
			seen[name] = source.TypeFile
		}
	}

	entries := make([]source.Entry, 0, len(seen))
	for name, typ := range seen {
		entries = append(entries, source.Entry{Name: name, Path: prefix + name, Type: typ})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func key(ref, filePath string) string {
	return ref + ":" + strings.Trim(filePath, "/")
}
