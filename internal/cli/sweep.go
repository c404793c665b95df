package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/docsync/internal/markdown"
	"github.com/klauern/docsync/internal/sweep"
	"github.com/klauern/docsync/internal/ui"
)

func rootFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "root",
		Usage: "Docs directory to sweep (default: docs.root from config)",
	}
}

func sweepFlags() []cli.Flag {
	return []cli.Flag{
		rootFlag(),
		&cli.StringFlag{
			Name:  "pattern",
			Usage: "Glob of files to visit, relative to the root",
			Value: sweep.DefaultPattern,
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"d"},
			Usage:   "Report files that would change without writing them",
		},
	}
}

func docsRoot(ctx context.Context, cmd *cli.Command) string {
	if cmd.IsSet("root") {
		return cmd.String("root")
	}
	return configFrom(ctx).Docs.Root
}

func matchMode(cmd *cli.Command) sweep.MatchMode {
	if cmd.Bool("loose") {
		return sweep.MatchLoose
	}
	return sweep.MatchStrict
}

// fixAction returns an Action that runs fix over the docs tree.
func fixAction(desc string, fixFor func(*cli.Command) sweep.Fixer) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		dryRun := cmd.Bool("dry-run")
		sum, err := sweep.Run(ctx, docsRoot(ctx, cmd), fixFor(cmd), sweep.Options{
			Pattern:     cmd.String("pattern"),
			DryRun:      dryRun,
			Description: desc,
			Report:      printSweepResult(dryRun),
		})
		if err != nil {
			return err
		}

		verb := "Fixed"
		if dryRun {
			verb = "Would fix"
		}
		fmt.Printf("\n%s %d of %d files\n", verb, sum.Changed, sum.Scanned)
		if sum.Failed > 0 {
			return fmt.Errorf("%d files could not be processed", sum.Failed)
		}
		return nil
	}
}

func printSweepResult(dryRun bool) func(sweep.Result) {
	return func(r sweep.Result) {
		switch {
		case r.Err != nil:
			fmt.Println(ui.StatusError(r.Path + " " + ui.Dim("("+r.Err.Error()+")")))
		case r.Changed && dryRun:
			fmt.Println(ui.StatusPending(r.Path))
		case r.Changed:
			fmt.Println(ui.StatusSuccess(r.Path))
		}
	}
}

func fixer(f sweep.Fixer) func(*cli.Command) sweep.Fixer {
	return func(*cli.Command) sweep.Fixer { return f }
}

func h1Command() *cli.Command {
	looseFlag := &cli.BoolFlag{
		Name:  "loose",
		Usage: "Also treat headings containing (or contained in) the title as duplicates",
	}

	return &cli.Command{
		Name:  "h1",
		Usage: "Check and fix level-one headings in the docs tree",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add an H1 from the front matter title where none exists",
				Flags:  sweepFlags(),
				Action: fixAction("Adding H1 headings", fixer(sweep.AddMissingH1)),
			},
			{
				Name:   "check",
				Usage:  "List files with a missing or duplicate H1",
				Flags:  append(sweepFlags(), looseFlag),
				Action: h1Check,
			},
			{
				Name:  "dedupe",
				Usage: "Remove H1 headings that repeat the front matter title",
				Flags: append(sweepFlags(), looseFlag),
				Action: fixAction("Removing duplicate H1 headings", func(cmd *cli.Command) sweep.Fixer {
					mode := matchMode(cmd)
					return func(content string) string { return sweep.RemoveDuplicateH1(content, mode) }
				}),
			},
		},
	}
}

func h1Check(ctx context.Context, cmd *cli.Command) error {
	root := docsRoot(ctx, cmd)
	files, err := sweep.Files(root, cmd.String("pattern"))
	if err != nil {
		return err
	}

	mode := matchMode(cmd)
	var missing, duplicate int
	for _, f := range files {
		// #nosec G304 - path comes from walking the docs root
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			return err
		}
		content := string(data)
		doc := markdown.Split(content)
		if doc.Title() == "" {
			continue
		}
		if !sweep.HasH1(doc.Body) {
			missing++
			fmt.Println(ui.StatusWarning(f + " " + ui.Dim("(missing H1)")))
		}
		if dup, ok := sweep.FindDuplicateH1(content, mode); ok {
			duplicate++
			fmt.Println(ui.StatusWarning(fmt.Sprintf("%s:%d %s", f, dup.Line, ui.Dim(fmt.Sprintf("(H1 %q repeats title %q)", dup.Heading, dup.Title)))))
		}
	}

	fmt.Printf("\nChecked %d files: %d missing H1, %d duplicate H1\n", len(files), missing, duplicate)
	if missing+duplicate > 0 {
		return fmt.Errorf("%d heading problems found", missing+duplicate)
	}
	return nil
}

func escapeCommand() *cli.Command {
	return &cli.Command{
		Name:  "escape",
		Usage: "Escape text the site's MDX parser would misread",
		Commands: []*cli.Command{
			{
				Name:   "angle",
				Usage:  "Wrap placeholder tokens like <name> in inline code",
				Flags:  sweepFlags(),
				Action: fixAction("Escaping angle brackets", fixer(sweep.EscapeAngleBrackets)),
			},
			{
				Name:   "braces",
				Usage:  "Escape bare {identifier} tokens outside code fences",
				Flags:  sweepFlags(),
				Action: fixAction("Escaping curly braces", fixer(sweep.EscapeCurlyBraces)),
			},
		},
	}
}
