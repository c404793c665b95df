// Package sweep applies repository-wide fixes to an existing docs tree:
// missing and duplicate H1 headings, placeholder angle brackets and bare
// curly braces that break the site's MDX build.
package sweep

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/klauern/docsync/internal/destination"
	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/progress"
)

// DefaultPattern selects the markdown files a sweep visits.
const DefaultPattern = "**/*.{md,mdx}"

// Fixer rewrites the content of one file. Returning the input unchanged
// leaves the file alone.
type Fixer func(content string) string

// Result describes what happened to a single file.
type Result struct {
	// Path is slash-separated and relative to the sweep root.
	Path    string
	Changed bool
	Err     error
}

// Summary totals a sweep.
type Summary struct {
	Scanned int
	Changed int
	Failed  int
}

// Options configures Run.
type Options struct {
	// Pattern is a doublestar glob relative to the root. Defaults to DefaultPattern.
	Pattern string
	// DryRun reports changes without writing.
	DryRun bool
	// Description labels the progress bar.
	Description string
	// Report is called for every file, in walk order.
	Report func(Result)
}

// Files lists the files under root matching pattern, sorted.
func Files(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, err
	} else if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	files, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

// Run applies fix to every matching file under root and writes the files it
// changed. Per-file errors are reported and counted; the walk continues.
func Run(ctx context.Context, root string, fix Fixer, opts Options) (Summary, error) {
	files, err := Files(root, opts.Pattern)
	if err != nil {
		return Summary{}, err
	}

	var dest destination.Destination = destination.NewDir(root)
	if opts.DryRun {
		dest = destination.NewDryRun(dest)
	}

	desc := opts.Description
	if desc == "" {
		desc = "Sweeping"
	}
	bar := progress.Simple(int64(len(files)), desc)
	defer func() { _ = bar.Finish() }()
	defer logging.Timer(desc)()

	var sum Summary
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := apply(dest, f, fix)
		sum.Scanned++
		switch {
		case res.Err != nil:
			sum.Failed++
			logging.Warn("sweep failed", logging.Path(f), logging.Err(res.Err))
		case res.Changed:
			sum.Changed++
			logging.Debug("sweep changed file", logging.Path(f))
		}
		if opts.Report != nil {
			opts.Report(res)
		}
		_ = bar.Add(1)
	}
	return sum, nil
}

func apply(dest destination.Destination, p string, fix Fixer) Result {
	res := Result{Path: p}
	content, _, err := dest.ReadFile(p)
	if err != nil {
		res.Err = err
		return res
	}

	fixed := fix(content)
	if fixed == content {
		return res
	}
	if err := dest.WriteFile(p, fixed); err != nil {
		res.Err = err
		return res
	}
	res.Changed = true
	return res
}
