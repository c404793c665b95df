package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports an invalid or unknown mapping entry.
type ConfigError struct {
	// Repo is the repository name the error concerns, if any.
	Repo string
	// Field is the mapping field that failed validation.
	Field string
	// Rule is the offending source pattern, if any.
	Rule string
	// Message describes the failure.
	Message string
}

// Error returns a formatted configuration error message.
func (e *ConfigError) Error() string {
	var sb strings.Builder
	sb.WriteString("mapping")
	if e.Repo != "" {
		fmt.Fprintf(&sb, " %q", e.Repo)
	}
	if e.Rule != "" {
		fmt.Fprintf(&sb, " rule %q", e.Rule)
	} else if e.Field != "" {
		fmt.Fprintf(&sb, " field %q", e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

// Errors collects multiple configuration errors.
type Errors []error

// Error returns a formatted message for all collected errors.
func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%d mapping errors:\n%s", len(es), errors.Join(es...))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	return es
}
