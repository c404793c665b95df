package ui

import (
	"testing"
)

func TestStatusFunctions(t *testing.T) {
	// Disable colors for consistent test output
	DisableColors()
	defer EnableColors()

	tests := []struct {
		name     string
		fn       func(string) string
		input    string
		contains string
	}{
		{"StatusSuccess empty", StatusSuccess, "", SymbolSuccess},
		{"StatusSuccess with msg", StatusSuccess, "done", SymbolSuccess + " done"},
		{"StatusError empty", StatusError, "", SymbolError},
		{"StatusError with msg", StatusError, "failed", SymbolError + " failed"},
		{"StatusWarning empty", StatusWarning, "", SymbolWarning},
		{"StatusWarning with msg", StatusWarning, "caution", SymbolWarning + " caution"},
		{"StatusSkipped empty", StatusSkipped, "", SymbolSkipped},
		{"StatusSkipped with msg", StatusSkipped, "skip", SymbolSkipped + " skip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.input)
			if got != tt.contains {
				t.Errorf("got %q, want %q", got, tt.contains)
			}
		})
	}
}

func TestColorToggle(t *testing.T) {
	// Save initial state
	initial := IsColorEnabled()

	DisableColors()
	if IsColorEnabled() {
		t.Error("expected colors to be disabled")
	}

	EnableColors()
	if !IsColorEnabled() {
		t.Error("expected colors to be enabled")
	}

	// Restore initial state
	if !initial {
		DisableColors()
	}
}

func TestColorFunctions(t *testing.T) {
	// Disable colors for consistent test output
	DisableColors()
	defer EnableColors()

	// When colors are disabled, these should return the plain text
	if got := Success("test"); got != "test" {
		t.Errorf("Success() = %q, want %q", got, "test")
	}
	if got := Error("test"); got != "test" {
		t.Errorf("Error() = %q, want %q", got, "test")
	}
	if got := Warning("test"); got != "test" {
		t.Errorf("Warning() = %q, want %q", got, "test")
	}
	if got := Info("test"); got != "test" {
		t.Errorf("Info() = %q, want %q", got, "test")
	}
	if got := Bold("test"); got != "test" {
		t.Errorf("Bold() = %q, want %q", got, "test")
	}
	if got := Dim("test"); got != "test" {
		t.Errorf("Dim() = %q, want %q", got, "test")
	}
	if got := Header("test"); got != "test" {
		t.Errorf("Header() = %q, want %q", got, "test")
	}
}

func TestStatusPending(t *testing.T) {
	DisableColors()
	defer EnableColors()

	if got := StatusPending("queued"); got != SymbolPending+" queued" {
		t.Errorf("StatusPending() = %q", got)
	}
}

func TestFileLine(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := []struct {
		status string
		detail string
		want   string
	}{
		{"synced", "", SymbolSuccess + " docs/a.md"},
		{"unchanged", "", SymbolSkipped + " docs/a.md"},
		{"would-sync", "", SymbolPending + " docs/a.md [dry run]"},
		{"failed", "not found", SymbolError + " docs/a.md (not found)"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := FileLine(tt.status, "docs/a.md", tt.detail); got != tt.want {
				t.Errorf("FileLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	DisableColors()
	defer EnableColors()

	if got := Totals(2, 3, 0, 0); got != "2 synced, 3 unchanged, 0 failed" {
		t.Errorf("Totals() = %q", got)
	}
	if got := Totals(0, 0, 1, 4); got != "0 synced, 0 unchanged, 1 failed, 4 would sync" {
		t.Errorf("Totals() = %q", got)
	}
}

func TestConfigureColor(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	ConfigureColor("always", false)
	if !IsColorEnabled() {
		t.Error("always should enable colors")
	}

	ConfigureColor("always", true)
	if IsColorEnabled() {
		t.Error("--no-color should win over always")
	}

	EnableColors()
	ConfigureColor("never", false)
	if IsColorEnabled() {
		t.Error("never should disable colors")
	}

	EnableColors()
	t.Setenv("NO_COLOR", "1")
	ConfigureColor("auto", false)
	if IsColorEnabled() {
		t.Error("NO_COLOR should disable colors in auto mode")
	}
}
