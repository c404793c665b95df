// Package ui provides terminal output helpers for docsync.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Color function types for styled output.
var (
	// Success is used for files written or would-be written (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and dry-run notes (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis.
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for unchanged files and secondary detail.
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for section headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolPending = "○"
)

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	if msg == "" {
		return Success(SymbolSuccess)
	}
	return Success(SymbolSuccess) + " " + msg
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	if msg == "" {
		return Error(SymbolError)
	}
	return Error(SymbolError) + " " + msg
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	if msg == "" {
		return Warning(SymbolWarning)
	}
	return Warning(SymbolWarning) + " " + msg
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	if msg == "" {
		return Dim(SymbolSkipped)
	}
	return Dim(SymbolSkipped) + " " + msg
}

// StatusPending returns a cyan circle with optional message.
func StatusPending(msg string) string {
	if msg == "" {
		return Info(SymbolPending)
	}
	return Info(SymbolPending) + " " + msg
}

// FileLine renders one per-file outcome. status is one of synced, unchanged,
// would-sync or failed; detail is appended in parentheses when non-empty.
func FileLine(status, dest, detail string) string {
	msg := dest
	if detail != "" {
		msg += " " + Dim("("+detail+")")
	}
	switch status {
	case "synced":
		return StatusSuccess(msg)
	case "would-sync":
		return StatusPending(msg + " " + Warning("[dry run]"))
	case "failed":
		return StatusError(msg)
	default:
		return StatusSkipped(msg)
	}
}

// Totals renders the closing counts line of a run.
func Totals(synced, unchanged, failed, wouldSync int) string {
	s := fmt.Sprintf("%s synced, %s unchanged, %s failed",
		Success(synced), Dim(unchanged), failedCount(failed))
	if wouldSync > 0 {
		s += fmt.Sprintf(", %s would sync", Warning(wouldSync))
	}
	return s
}

func failedCount(n int) string {
	if n == 0 {
		return fmt.Sprint(n)
	}
	return Error(n)
}

// ConfigureColor applies a color mode (auto, always, never). noColor forces
// colors off, as does the NO_COLOR environment variable in auto mode.
func ConfigureColor(mode string, noColor bool) {
	switch {
	case noColor || mode == "never":
		DisableColors()
	case mode == "always":
		EnableColors()
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			DisableColors()
		}
	}
}

// DisableColors disables all color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
