// Package resolve expands mapping rules into concrete file tasks.
package resolve

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/mapping"
	"github.com/klauern/docsync/internal/source"
)

// MarkdownExtensions are the file suffixes mirrored from wildcard rules.
var MarkdownExtensions = []string{".md", ".mdx", ".markdown"}

// Task is one concrete source file to fetch, transform and write.
type Task struct {
	Repo       string
	SourcePath string
	DestPath   string
	Ref        string
}

// Resolver enumerates tasks for mapping rules.
type Resolver struct {
	source  source.Source
	timeout time.Duration
}

// New creates a resolver. A positive timeout bounds each directory listing.
func New(src source.Source, timeout time.Duration) *Resolver {
	return &Resolver{source: src, timeout: timeout}
}

// Resolve returns the tasks for one rule. Literal rules produce exactly one
// task without touching the source. Wildcard rules list the rule's directory
// once, without descending into subdirectories.
func (r *Resolver) Resolve(ctx context.Context, repo string, rule mapping.Rule, ref string) ([]Task, error) {
	if !rule.IsWildcard() {
		return []Task{{
			Repo:       repo,
			SourcePath: rule.Source,
			DestPath:   rule.Dest,
			Ref:        ref,
		}}, nil
	}

	dir := rule.Dir()
	content, err := source.GetWithTimeout(ctx, r.source, repo, dir, ref, r.timeout)
	if err != nil {
		return nil, err
	}
	if content.Type != source.TypeDir {
		return nil, &source.FetchError{
			Repo: repo,
			Path: dir,
			Ref:  ref,
			Err:  fmt.Errorf("%w: %q is not a directory", source.ErrNotFound, dir),
		}
	}

	namePattern := rule.NamePattern()
	var tasks []Task
	for _, entry := range content.Entries {
		if entry.Type != source.TypeFile || !IsMarkdown(entry.Name) {
			continue
		}
		ok, err := doublestar.Match(namePattern, entry.Name)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", rule.Source, err)
		}
		if !ok {
			continue
		}

		srcPath := entry.Path
		if srcPath == "" {
			srcPath = path.Join(dir, entry.Name)
		}
		tasks = append(tasks, Task{
			Repo:       repo,
			SourcePath: srcPath,
			DestPath:   path.Join(rule.Dest, entry.Name),
			Ref:        ref,
		})
	}

	logging.Debug("resolved wildcard rule",
		logging.Repo(repo),
		logging.Path(rule.Source),
		logging.Count(len(tasks)),
	)
	return tasks, nil
}

// IsMarkdown reports whether name carries a markdown suffix.
func IsMarkdown(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range MarkdownExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
