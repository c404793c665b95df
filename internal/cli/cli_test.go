package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/docsync/internal/config"
	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/ui"
)

// captureRun runs the CLI with stdout redirected and returns what it printed.
func captureRun(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := Run(context.Background(), args)

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	os.Stdout = old
	output := <-done
	_ = r.Close()

	return output, runErr
}

func TestVersionVariables(t *testing.T) {
	// Version should be set (even if to "dev")
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Commit and BuildDate should have defaults
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestConfigureLogging(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantDebug bool
		wantInfo  bool
	}{
		"no flags logs warnings only": {
			args: []string{"docsync", "version"},
		},
		"verbose flag enables info level": {
			args:     []string{"docsync", "--verbose", "version"},
			wantInfo: true,
		},
		"debug flag enables debug level": {
			args:      []string{"docsync", "--debug", "version"},
			wantDebug: true,
			wantInfo:  true,
		},
		"json logs": {
			args: []string{"docsync", "--log-json", "version"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// Logs go to stderr; keep them out of the test output.
			oldStderr := os.Stderr
			devnull, err := os.Open(os.DevNull)
			if err != nil {
				t.Fatal(err)
			}
			os.Stderr = devnull
			t.Cleanup(func() {
				os.Stderr = oldStderr
				_ = devnull.Close()
				logging.SetDefault(logging.New(logging.DefaultOptions()))
			})

			if _, err := captureRun(t, tt.args...); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			logger := slog.Default()
			ctx := context.Background()
			if got := logger.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := logger.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("info enabled = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestGlobalFlagsRecognized(t *testing.T) {
	tests := map[string][]string{
		"verbose flag":   {"docsync", "--verbose", "version"},
		"no-color flag":  {"docsync", "--no-color", "version"},
		"combined flags": {"docsync", "--verbose", "--no-color", "version"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(ui.EnableColors)
			if _, err := captureRun(t, args...); err != nil {
				t.Errorf("Run() error = %v", err)
			}
		})
	}
}

func TestAllCommandsRegistered(t *testing.T) {
	output, err := captureRun(t, "docsync", "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	for _, cmd := range []string{"version", "sync", "validate", "h1", "escape", "nav"} {
		if !strings.Contains(output, cmd) {
			t.Errorf("expected command %q to be registered, help output: %q", cmd, output)
		}
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := captureRun(t, "docsync", "--config", filepath.Join(dir, "nope.yaml"), "version")
		if err == nil || !strings.Contains(err.Error(), "failed to load config") {
			t.Errorf("Run() error = %v, want load failure", err)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		p := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(p, []byte("sync:\n  compare_policy: fuzzy\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		_, err := captureRun(t, "docsync", "--config", p, "version")
		if err == nil || !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("Run() error = %v, want invalid config", err)
		}
	})

	t.Run("valid file", func(t *testing.T) {
		p := filepath.Join(dir, "good.yaml")
		if err := os.WriteFile(p, []byte("output:\n  color: never\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(ui.EnableColors)
		if _, err := captureRun(t, "docsync", "--config", p, "version"); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if ui.IsColorEnabled() {
			t.Error("output.color never should disable colors")
		}
	})
}

func TestConfigFrom_Default(t *testing.T) {
	cfg := configFrom(context.Background())
	if cfg.Sync.DefaultRef != config.Default().Sync.DefaultRef {
		t.Errorf("configFrom() without a stored config should return defaults, got %+v", cfg.Sync)
	}

	stored := config.Default()
	stored.Docs.Root = "elsewhere"
	if got := configFrom(withConfig(context.Background(), stored)); got != stored {
		t.Error("configFrom() should return the stored config")
	}
}
