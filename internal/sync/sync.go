package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/klauern/docsync/internal/destination"
	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/mapping"
	"github.com/klauern/docsync/internal/metrics"
	"github.com/klauern/docsync/internal/resolve"
	"github.com/klauern/docsync/internal/source"
	"github.com/klauern/docsync/internal/transform"
)

// FallbackRef is used when neither the caller, the repository nor the options
// name a ref.
const FallbackRef = "main"

// DefaultFetchTimeout bounds a single upstream fetch.
const DefaultFetchTimeout = 30 * time.Second

// Options configures synchronization behavior.
type Options struct {
	// DefaultRef is used for repositories that declare no ref.
	DefaultRef string

	// Concurrency is the number of files of one repository processed at once.
	// Values below 2 process files sequentially.
	Concurrency int

	// FetchTimeout bounds each fetch. A timeout is reported as not found.
	FetchTimeout time.Duration

	// Policy selects how existing destination content is compared.
	Policy ComparePolicy

	// DryRun reports would-be writes without touching the destination.
	DryRun bool

	// Report, if set, is called once per result. Calls are serialized.
	Report func(FileResult)

	// Metrics, if set, receives per-file and per-repository observations.
	Metrics *metrics.Metrics
}

// DefaultOptions returns the default sync options.
func DefaultOptions() Options {
	return Options{
		DefaultRef:   FallbackRef,
		Concurrency:  1,
		FetchTimeout: DefaultFetchTimeout,
		Policy:       DefaultPolicy,
	}
}

// Synchronizer mirrors the files named by a mapping table from a source into
// a destination.
type Synchronizer struct {
	table       *mapping.Table
	source      source.Source
	dest        destination.Destination
	resolver    *resolve.Resolver
	transformer *transform.Transformer
	detector    *ChangeDetector
	opts        Options

	changes ChangeLog

	mu      sync.Mutex
	results []FileResult
}

// New creates a Synchronizer. When opts.DryRun is set, dest is wrapped so
// nothing is written.
func New(table *mapping.Table, src source.Source, dest destination.Destination, tr *transform.Transformer, opts Options) *Synchronizer {
	if opts.DryRun {
		if _, ok := dest.(*destination.DryRun); !ok {
			dest = destination.NewDryRun(dest)
		}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if tr == nil {
		tr = transform.NewForTable(table)
	}
	return &Synchronizer{
		table:       table,
		source:      src,
		dest:        dest,
		resolver:    resolve.New(src, opts.FetchTimeout),
		transformer: tr,
		detector:    NewChangeDetector(opts.Policy),
		opts:        opts,
	}
}

// SyncAll syncs every repository in the table. One repository's failure never
// stops the rest. It returns true if any file changed.
func (s *Synchronizer) SyncAll(ctx context.Context) bool {
	defer logging.Timer("sync_all")()

	changed := false
	for _, name := range s.table.Names() {
		if err := ctx.Err(); err != nil {
			logging.Warn("sync cancelled", logging.Err(err))
			break
		}
		if s.SyncRepository(ctx, name, "") {
			changed = true
		}
	}
	return changed
}

// SyncRepository syncs one repository at ref. An empty ref falls back to the
// repository's ref, then Options.DefaultRef. It returns true if any file
// changed.
func (s *Synchronizer) SyncRepository(ctx context.Context, name, ref string) bool {
	defer logging.Timer("sync_repository")()

	repo, err := s.table.Lookup(name)
	if err != nil {
		logging.Error("unknown repository", logging.Repo(name), logging.Err(err))
		s.record(FileResult{Task: resolve.Task{Repo: name, Ref: ref}, Status: StatusFailed, Error: err})
		return false
	}
	ref = s.refFor(repo, ref)

	logging.Info("syncing repository",
		logging.Repo(name),
		logging.Ref(ref),
		logging.Operation("sync"),
		slog.Bool("dry_run", s.opts.DryRun),
	)

	var tasks []resolve.Task
	for _, rule := range repo.Rules {
		ts, err := s.resolver.Resolve(ctx, name, rule, ref)
		if err != nil {
			logging.Warn("could not resolve rule",
				logging.Repo(name),
				logging.Path(rule.Source),
				logging.Err(err),
			)
			s.record(FileResult{
				Task:   resolve.Task{Repo: name, SourcePath: rule.Source, DestPath: rule.Dest, Ref: ref},
				Status: StatusFailed,
				Error:  err,
			})
			continue
		}
		tasks = append(tasks, ts...)
	}

	changed := s.run(ctx, tasks)
	s.opts.Metrics.ObserveRepository(changed)

	logging.Debug("repository sync completed",
		logging.Repo(name),
		logging.Count(len(tasks)),
		slog.Bool("changed", changed),
	)
	return changed
}

func (s *Synchronizer) refFor(repo mapping.Repository, ref string) string {
	switch {
	case ref != "":
		return ref
	case repo.Ref != "":
		return repo.Ref
	case s.opts.DefaultRef != "":
		return s.opts.DefaultRef
	default:
		return FallbackRef
	}
}

// run processes tasks, fanning out when Concurrency allows. A failing task
// never cancels its siblings.
func (s *Synchronizer) run(ctx context.Context, tasks []resolve.Task) bool {
	if s.opts.Concurrency <= 1 || len(tasks) <= 1 {
		changed := false
		for _, t := range tasks {
			if s.syncFile(ctx, t) {
				changed = true
			}
		}
		return changed
	}

	var changed atomic.Bool
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for _, t := range tasks {
		g.Go(func() error {
			if s.syncFile(ctx, t) {
				changed.Store(true)
			}
			return nil
		})
	}
	_ = g.Wait()
	return changed.Load()
}

// syncFile fetches, transforms, compares and conditionally writes one file.
func (s *Synchronizer) syncFile(ctx context.Context, task resolve.Task) bool {
	fail := func(err error) bool {
		logging.Warn("could not sync file",
			logging.Repo(task.Repo),
			logging.Path(task.SourcePath),
			logging.Dest(task.DestPath),
			logging.Err(err),
		)
		s.record(FileResult{Task: task, Status: StatusFailed, Error: err})
		return false
	}

	start := time.Now()
	content, err := source.GetWithTimeout(ctx, s.source, task.Repo, task.SourcePath, task.Ref, s.opts.FetchTimeout)
	s.opts.Metrics.ObserveFetch(task.Repo, time.Since(start), err)
	if err != nil {
		return fail(err)
	}
	if content.Type != source.TypeFile {
		return fail(&source.FetchError{
			Repo: task.Repo,
			Path: task.SourcePath,
			Ref:  task.Ref,
			Err:  fmt.Errorf("%w: not a file", source.ErrNotFound),
		})
	}

	out, err := s.transformer.Transform(content.Text, task)
	if err != nil {
		return fail(err)
	}

	write, err := s.detector.Check(s.dest, task.DestPath, out)
	if err != nil {
		return fail(err)
	}
	if !write {
		s.record(FileResult{Task: task, Status: StatusUnchanged})
		return false
	}

	if err := s.dest.WriteFile(task.DestPath, out); err != nil {
		return fail(err)
	}

	s.changes.Append(ChangeRecord{DestPath: task.DestPath, Repo: task.Repo, SourcePath: task.SourcePath})
	s.opts.Metrics.ObserveChange(task.Repo)

	status := StatusSynced
	if s.opts.DryRun {
		status = StatusWouldSync
	}
	s.record(FileResult{Task: task, Status: status})
	return true
}

func (s *Synchronizer) record(r FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	s.opts.Metrics.ObserveFile(r.Task.Repo, string(r.Status))
	if s.opts.Report != nil {
		s.opts.Report(r)
	}
}

// Changes returns the change records in write order.
func (s *Synchronizer) Changes() []ChangeRecord {
	return s.changes.Records()
}

// Summary returns the newline-joined change descriptions.
func (s *Synchronizer) Summary() string {
	return s.changes.Summary()
}

// Results returns every per-file result recorded so far.
func (s *Synchronizer) Results() []FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FileResult(nil), s.results...)
}

// Failed returns true if any result failed.
func (s *Synchronizer) Failed() bool {
	return CountResults(s.Results()).Failed > 0
}
