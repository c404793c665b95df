package sync

import (
	"fmt"
	"path"
	"regexp"

	"github.com/klauern/docsync/internal/destination"
	"github.com/klauern/docsync/internal/logging"
)

// ComparePolicy defines how existing destination content is compared with a
// freshly transformed candidate.
type ComparePolicy string

const (
	// PolicyExact compares bytes.
	PolicyExact ComparePolicy = "exact"

	// PolicyNormalizeEOL folds CRLF and CR to LF on both sides before comparing.
	PolicyNormalizeEOL ComparePolicy = "normalize-eol"
)

// DefaultPolicy is used when no policy is configured.
const DefaultPolicy = PolicyNormalizeEOL

// IsValid returns true if the policy is recognized.
func (p ComparePolicy) IsValid() bool {
	switch p {
	case PolicyExact, PolicyNormalizeEOL:
		return true
	default:
		return false
	}
}

// AllPolicies returns all supported comparison policies.
func AllPolicies() []ComparePolicy {
	return []ComparePolicy{PolicyExact, PolicyNormalizeEOL}
}

// String returns the string representation of the policy.
func (p ComparePolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p ComparePolicy) Description() string {
	switch p {
	case PolicyExact:
		return "Write when bytes differ"
	case PolicyNormalizeEOL:
		return "Write when content differs after normalizing line endings"
	default:
		return "Unknown policy"
	}
}

// ParsePolicy converts s to a ComparePolicy. An empty string yields DefaultPolicy.
func ParsePolicy(s string) (ComparePolicy, error) {
	if s == "" {
		return DefaultPolicy, nil
	}
	p := ComparePolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid compare policy %q (valid: %v)", s, AllPolicies())
	}
	return p, nil
}

var crlfOrCR = regexp.MustCompile(`\r\n?`)

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// ChangeDetector decides whether a destination file needs to be written.
type ChangeDetector struct {
	policy ComparePolicy
}

// NewChangeDetector creates a detector using policy, or DefaultPolicy when
// policy is empty or unknown.
func NewChangeDetector(policy ComparePolicy) *ChangeDetector {
	if !policy.IsValid() {
		policy = DefaultPolicy
	}
	return &ChangeDetector{policy: policy}
}

// Policy returns the comparison policy in use.
func (d *ChangeDetector) Policy() ComparePolicy {
	return d.policy
}

// ShouldWrite reports whether candidate must be written given the existing
// destination content. A missing file is always written.
func (d *ChangeDetector) ShouldWrite(existing string, exists bool, candidate string) bool {
	if !exists {
		return true
	}
	if d.policy == PolicyNormalizeEOL {
		return normalizeLineEndings(existing) != normalizeLineEndings(candidate)
	}
	return existing != candidate
}

// Check reads the destination file at p and reports whether candidate should
// be written. When it should, missing parent directories are created first.
func (d *ChangeDetector) Check(dest destination.Destination, p, candidate string) (bool, error) {
	existing, exists, err := dest.ReadFile(p)
	if err != nil {
		return false, err
	}
	if !d.ShouldWrite(existing, exists, candidate) {
		logging.Debug("destination up to date",
			logging.Dest(p),
			logging.Operation("check"),
		)
		return false, nil
	}

	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := dest.MkdirAll(dir); err != nil {
			return false, err
		}
	}
	return true, nil
}
