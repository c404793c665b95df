package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/klauern/docsync/internal/config"
	"github.com/klauern/docsync/internal/destination"
	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/mapping"
	"github.com/klauern/docsync/internal/metrics"
	"github.com/klauern/docsync/internal/source"
	"github.com/klauern/docsync/internal/source/github"
	"github.com/klauern/docsync/internal/sync"
	"github.com/klauern/docsync/internal/transform"
	"github.com/klauern/docsync/internal/ui"
)

// errFailures is returned when --fail-on-error is set and some file failed.
var errFailures = errors.New("one or more files failed")

// errNoToken is the startup precondition failure for a missing token.
var errNoToken = errors.New("no GitHub token: set GITHUB_TOKEN or github.token_env")

// allRepositories selects every mapped repository.
const allRepositories = "all"

// newSource builds the upstream source. Tests replace it.
var newSource = func(cfg *config.Config, owner string) (source.Source, error) {
	token := cfg.Token()
	if token == "" {
		return nil, errNoToken
	}
	return github.New(github.Options{
		Owner:             owner,
		Token:             token,
		BaseURL:           cfg.GitHub.BaseURL,
		RequestsPerSecond: cfg.GitHub.RequestsPerSecond,
	})
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Mirror upstream documentation into the docs tree",
		UsageText: "docsync sync [options]",
		Description: `Fetch the files named by the repository mapping, add front matter and
   attribution, and write the ones whose content changed.

   Examples:
     docsync sync
     docsync sync --repo falkordb-py --ref v1.2.0
     docsync sync --dry-run --summary-file summary.md`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Repository to sync (repeatable); \"all\" syncs every mapped repository",
				Sources: cli.EnvVars("SOURCE_REPO"),
			},
			&cli.StringFlag{
				Name:    "ref",
				Usage:   "Git ref to read, overriding the mapping",
				Sources: cli.EnvVars("SOURCE_REF"),
			},
			&cli.StringFlag{
				Name:  "mapping",
				Usage: "Repository mapping file (.yaml or .toml)",
			},
			&cli.StringFlag{
				Name:  "dest",
				Usage: "Destination root directory",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Files of one repository processed at once",
			},
			&cli.StringFlag{
				Name:  "compare-policy",
				Usage: "How existing files are compared (exact, normalize-eol)",
			},
			&cli.BoolFlag{
				Name:  "rewrite-links",
				Usage: "Rewrite relative links to absolute repository URLs",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without modifying files",
			},
			&cli.StringFlag{
				Name:  "summary-file",
				Usage: "Write the change summary to this file",
			},
			&cli.StringFlag{
				Name:    "github-output",
				Usage:   "Append the change summary as a step output to this file",
				Sources: cli.EnvVars("GITHUB_OUTPUT"),
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write run metrics in Prometheus text format to this file",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit non-zero when any file failed",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)
			applySyncFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runSync(ctx, cmd, cfg)
		},
	}
}

// applySyncFlags overlays flags the user set onto cfg.
func applySyncFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("mapping") {
		cfg.Sync.MappingFile = cmd.String("mapping")
	}
	if cmd.IsSet("dest") {
		cfg.Sync.DestRoot = cmd.String("dest")
	}
	if cmd.IsSet("concurrency") {
		cfg.Sync.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("compare-policy") {
		cfg.Sync.ComparePolicy = cmd.String("compare-policy")
	}
	if cmd.IsSet("rewrite-links") {
		cfg.Sync.RewriteLinks = cmd.Bool("rewrite-links")
	}
	if cmd.IsSet("dry-run") {
		cfg.Sync.DryRun = cmd.Bool("dry-run")
	}
}

// loadMapping returns the mapping named by cfg, or the embedded default.
func loadMapping(cfg *config.Config) (*mapping.Table, error) {
	if cfg.Sync.MappingFile == "" {
		return mapping.Default()
	}
	return mapping.LoadFile(cfg.Sync.MappingFile)
}

func runSync(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	table, err := loadMapping(cfg)
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}

	src, err := newSource(cfg, table.Organization)
	if err != nil {
		return err
	}

	var trOpts []transform.Option
	if cfg.Sync.RewriteLinks {
		trOpts = append(trOpts, transform.WithLinkRewriter(transform.RepoLinks{}))
	}

	m := metrics.New(Version, runtime.Version())
	opts := sync.Options{
		DefaultRef:   cfg.Sync.DefaultRef,
		Concurrency:  cfg.Sync.Concurrency,
		FetchTimeout: cfg.Sync.FetchTimeout,
		Policy:       cfg.GetComparePolicy(),
		DryRun:       cfg.Sync.DryRun,
		Metrics:      m,
		Report:       printResult,
	}
	s := sync.New(table, src, destination.NewDir(cfg.Sync.DestRoot), transform.NewForTable(table, trOpts...), opts)

	if cfg.Sync.DryRun {
		fmt.Println(ui.Warning("Dry run: no files will be written"))
	}

	repos := selectedRepos(cmd.StringSlice("repo"))
	changed := false
	if len(repos) == 0 {
		changed = s.SyncAll(ctx)
	} else {
		for _, name := range repos {
			if s.SyncRepository(ctx, name, cmd.String("ref")) {
				changed = true
			}
		}
	}
	m.Finish(time.Now())

	summary := s.Summary()
	c := sync.CountResults(s.Results())
	fmt.Println()
	fmt.Println(ui.Header("Summary:"))
	fmt.Println(summary)
	fmt.Println()
	fmt.Println(ui.Totals(c.Synced, c.Unchanged, c.Failed, c.WouldSync))
	if changed {
		fmt.Println(ui.StatusSuccess("Sync completed with changes"))
	} else {
		fmt.Println(ui.StatusSkipped("Sync completed with no changes"))
	}

	if err := writeOutputs(cmd, summary, m); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd.Bool("fail-on-error") && s.Failed() {
		return fmt.Errorf("%w: %d of %d", errFailures, c.Failed, c.Total())
	}
	return nil
}

// selectedRepos drops empty names; "all" anywhere selects every repository.
func selectedRepos(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == allRepositories {
			return nil
		}
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func printResult(r sync.FileResult) {
	detail := ""
	if r.Error != nil {
		detail = r.Error.Error()
	}
	dest := r.Task.DestPath
	if dest == "" {
		dest = r.Task.Repo
	}
	fmt.Println(ui.FileLine(string(r.Status), dest, detail))
}

// writeOutputs writes the summary and metrics files that were asked for.
func writeOutputs(cmd *cli.Command, summary string, m *metrics.Metrics) error {
	if p := cmd.String("summary-file"); p != "" {
		if err := writeFileAtomic(p, summary+"\n"); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if p := cmd.String("github-output"); p != "" {
		if err := appendStepOutput(p, "changes_summary", summary); err != nil {
			return fmt.Errorf("failed to write step output: %w", err)
		}
	}
	if p := cmd.String("metrics-file"); p != "" {
		if err := m.WriteTextfile(p); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func writeFileAtomic(p, content string) error {
	abs, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	dir := destination.NewDir(filepath.Dir(abs))
	if err := dir.MkdirAll("."); err != nil {
		return err
	}
	return dir.WriteFile(filepath.Base(abs), content)
}

// newDelimiter returns a heredoc delimiter that cannot occur in the value.
var newDelimiter = func() string {
	return "ghadelimiter_" + uuid.NewString()
}

// appendStepOutput appends a multi-line step output in heredoc form.
func appendStepOutput(p, name, value string) error {
	delim := newDelimiter()
	if strings.Contains(value, delim) {
		return fmt.Errorf("step output %s contains its delimiter", name)
	}

	// #nosec G304 G302 - path comes from the runner environment
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delim, value, delim)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check the repository mapping without fetching anything",
		UsageText: "docsync validate [--mapping file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mapping",
				Usage: "Repository mapping file (.yaml or .toml)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)
			if cmd.IsSet("mapping") {
				cfg.Sync.MappingFile = cmd.String("mapping")
			}

			table, err := loadMapping(cfg)
			if err != nil {
				fmt.Println(ui.StatusError("Mapping is invalid"))
				var errs mapping.Errors
				if errors.As(err, &errs) {
					for _, e := range errs {
						fmt.Printf("  %s\n", e)
					}
				}
				return err
			}

			rules := 0
			for _, repo := range table.Repositories {
				rules += len(repo.Rules)
				ref := repo.Ref
				if ref == "" {
					ref = cfg.Sync.DefaultRef
				}
				fmt.Printf("  %s %s\n", ui.Bold(repo.Name), ui.Dim(fmt.Sprintf("(%d rules, ref %s)", len(repo.Rules), ref)))
			}
			fmt.Println(ui.StatusSuccess(fmt.Sprintf("Mapping is valid: %d repositories, %d rules", len(table.Repositories), rules)))
			logging.Debug("mapping validated", logging.Count(rules))
			return nil
		},
	}
}
