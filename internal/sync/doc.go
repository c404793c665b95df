// Package sync mirrors documentation files from upstream repositories into a
// local docs tree.
//
// # Pipeline
//
// For each repository in a mapping.Table, every rule is resolved into tasks
// (one per file), and each task is fetched, transformed, compared with the
// existing destination file and written only when it differs:
//
//	syncer := sync.New(table, src, destination.NewDir("docs"), nil, sync.DefaultOptions())
//	if syncer.SyncAll(ctx) {
//	    fmt.Println(syncer.Summary())
//	}
//
// Failures are per file. A rule that cannot be resolved or a file that cannot
// be fetched is logged, recorded as StatusFailed in Results, and the run
// continues with the next rule, file or repository.
//
// # Change Detection
//
// ChangeDetector compares the candidate with the existing file under a
// ComparePolicy:
//   - PolicyExact: byte equality
//   - PolicyNormalizeEOL: equality after folding CRLF and CR to LF (default)
//
// # Concurrency
//
// With Options.Concurrency above 1, the files of one repository are processed
// through a bounded errgroup. Destination paths within a repository are
// distinct, and the change log and result list are mutex guarded.
//
// # Dry Run
//
// With Options.DryRun, the destination is wrapped in destination.DryRun.
// Would-be writes are recorded with StatusWouldSync and still appear in the
// change log.
package sync
