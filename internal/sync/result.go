package sync

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauern/docsync/internal/resolve"
)

// Status is the outcome of processing one file.
type Status string

const (
	// StatusSynced indicates the destination file was written.
	StatusSynced Status = "synced"

	// StatusUnchanged indicates the destination already matched.
	StatusUnchanged Status = "unchanged"

	// StatusFailed indicates an error occurred resolving, fetching or writing.
	StatusFailed Status = "failed"

	// StatusWouldSync indicates a dry run skipped a needed write.
	StatusWouldSync Status = "would-sync"
)

// Changed returns true for statuses that represent a write.
func (s Status) Changed() bool {
	return s == StatusSynced || s == StatusWouldSync
}

// FileResult represents the outcome of syncing a single file.
type FileResult struct {
	// Task is the file that was processed. For rule or repository failures
	// only the fields known at that point are set.
	Task resolve.Task

	// Status is the outcome.
	Status Status

	// Error contains any error that occurred during processing.
	Error error
}

// Success returns true if the file was processed without error.
func (fr FileResult) Success() bool {
	return fr.Status != StatusFailed
}

// ChangeRecord describes one confirmed destination write.
type ChangeRecord struct {
	DestPath   string
	Repo       string
	SourcePath string
}

// String renders the record for the run summary.
func (c ChangeRecord) String() string {
	return fmt.Sprintf("Updated %s from %s/%s", c.DestPath, c.Repo, c.SourcePath)
}

// ChangeLog is an append-only list of change records, safe for concurrent use.
type ChangeLog struct {
	mu      sync.Mutex
	records []ChangeRecord
}

// Append adds a record.
func (l *ChangeLog) Append(r ChangeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the records in append order.
func (l *ChangeLog) Records() []ChangeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ChangeRecord(nil), l.records...)
}

// Len returns the number of records.
func (l *ChangeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// NoChanges is the summary of a run that wrote nothing.
const NoChanges = "No changes were made."

// Summary returns the records as a newline-joined list of
// "- Updated <dest> from <repo>/<source>" lines, or NoChanges.
func (l *ChangeLog) Summary() string {
	records := l.Records()
	if len(records) == 0 {
		return NoChanges
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = "- " + r.String()
	}
	return strings.Join(lines, "\n")
}

// Counts tallies results by status.
type Counts struct {
	Synced    int
	Unchanged int
	Failed    int
	WouldSync int
}

// Total returns the number of results counted.
func (c Counts) Total() int {
	return c.Synced + c.Unchanged + c.Failed + c.WouldSync
}

// CountResults tallies rs by status.
func CountResults(rs []FileResult) Counts {
	var c Counts
	for _, r := range rs {
		switch r.Status {
		case StatusSynced:
			c.Synced++
		case StatusUnchanged:
			c.Unchanged++
		case StatusFailed:
			c.Failed++
		case StatusWouldSync:
			c.WouldSync++
		}
	}
	return c
}
