// Package navigation checks a Docusaurus-style sidebar file against the docs
// tree it points into.
package navigation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/util"
)

// DocExtensions are the file extensions a doc ID may resolve to.
var DocExtensions = []string{".md", ".mdx"}

var (
	idField     = regexp.MustCompile(`\bid:\s*['"]([^'"\n]+)['"]`)
	quotedPath  = regexp.MustCompile(`['"]([a-zA-Z0-9_-]+(?:/[a-zA-Z0-9_.-]+)+)['"]`)
	standalone  = regexp.MustCompile(`^\s*['"]([a-zA-Z0-9_-]+)['"],?\s*$`)
	nonDocWords = []string{"doc", "category", "link", "autogenerated", "html", "ref"}
)

// Ref is one doc ID reference in the sidebar file.
type Ref struct {
	ID string
	// Line is one-based.
	Line int
}

// Extract returns the doc ID references in sidebar source, in order and with
// repeats. Three shapes are recognized: id fields, quoted path-like literals
// containing a slash, and a bare quoted word alone on its line (a root-level
// item). Line comments are skipped.
func Extract(src string) []Ref {
	var refs []Ref
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "import ") {
			continue
		}

		var taken [][]int
		for _, m := range idField.FindAllStringSubmatchIndex(line, -1) {
			taken = append(taken, m[:2])
			refs = append(refs, Ref{ID: line[m[2]:m[3]], Line: i + 1})
		}
		for _, m := range quotedPath.FindAllStringSubmatchIndex(line, -1) {
			if overlaps(taken, m[0], m[1]) {
				continue
			}
			refs = append(refs, Ref{ID: line[m[2]:m[3]], Line: i + 1})
		}
		if m := standalone.FindStringSubmatch(line); m != nil && !slices.Contains(nonDocWords, m[1]) {
			refs = append(refs, Ref{ID: m[1], Line: i + 1})
		}
	}
	return refs
}

func overlaps(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

// ExtractFile reads and extracts a sidebar file.
func ExtractFile(path string) ([]Ref, error) {
	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data)), nil
}

// Duplicate is a doc ID referenced more than once.
type Duplicate struct {
	ID    string
	Count int
}

// Report is the outcome of Verify. All lists are sorted.
type Report struct {
	// Referenced holds the unique doc IDs found in the sidebar.
	Referenced []string
	// Missing holds referenced IDs with no matching file.
	Missing []string
	// Duplicates holds IDs referenced more than once.
	Duplicates []Duplicate
	// Orphans holds doc files the sidebar never references.
	Orphans []string
	// Files is the number of doc files under the docs root.
	Files int
}

// ErrInvalid is returned by Report.Err when the sidebar is broken.
var ErrInvalid = errors.New("navigation has errors")

// Err reports missing or duplicate references. Orphans alone are not errors.
func (r *Report) Err() error {
	if len(r.Missing) == 0 && len(r.Duplicates) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d missing, %d duplicate", ErrInvalid, len(r.Missing), len(r.Duplicates))
}

// Verify checks refs against the doc files under docsRoot.
func Verify(docsRoot string, refs []Ref) (*Report, error) {
	docs, err := DocIDs(docsRoot)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(refs))
	for _, ref := range refs {
		counts[ref.ID]++
	}

	r := &Report{Files: len(docs)}
	for id, n := range counts {
		r.Referenced = append(r.Referenced, id)
		if _, ok := docs[id]; !ok {
			r.Missing = append(r.Missing, id)
		}
		if n > 1 {
			r.Duplicates = append(r.Duplicates, Duplicate{ID: id, Count: n})
		}
	}
	for id := range docs {
		if _, ok := counts[id]; !ok {
			r.Orphans = append(r.Orphans, id)
		}
	}

	slices.Sort(r.Referenced)
	slices.Sort(r.Missing)
	slices.Sort(r.Orphans)
	slices.SortFunc(r.Duplicates, func(a, b Duplicate) int { return strings.Compare(a.ID, b.ID) })

	logging.Debug("navigation verified",
		logging.Count(len(r.Referenced)),
		"missing", len(r.Missing),
		"orphans", len(r.Orphans))
	return r, nil
}

// DocIDs returns the doc IDs under root: slash-separated relative paths of
// doc files without their extension.
func DocIDs(root string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !util.HasExt(d.Name(), DocExtensions...) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ids[strings.TrimSuffix(rel, filepath.Ext(rel))] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return ids, nil
}
