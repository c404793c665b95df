package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/klauern/docsync/internal/navigation"
	"github.com/klauern/docsync/internal/ui"
)

func navCommand() *cli.Command {
	return &cli.Command{
		Name:  "nav",
		Usage: "Check the sidebar against the docs tree",
		Commands: []*cli.Command{
			{
				Name:  "verify",
				Usage: "Report missing, duplicate and unreferenced docs",
				Flags: []cli.Flag{
					rootFlag(),
					&cli.StringFlag{
						Name:  "sidebar",
						Usage: "Sidebar file (default: docs.sidebar from config)",
					},
				},
				Action: navVerify,
			},
		},
	}
}

func navVerify(ctx context.Context, cmd *cli.Command) error {
	sidebar := configFrom(ctx).Docs.Sidebar
	if cmd.IsSet("sidebar") {
		sidebar = cmd.String("sidebar")
	}

	refs, err := navigation.ExtractFile(sidebar)
	if err != nil {
		return fmt.Errorf("failed to read sidebar: %w", err)
	}
	r, err := navigation.Verify(docsRoot(ctx, cmd), refs)
	if err != nil {
		return err
	}

	fmt.Println(ui.Header("Navigation"))
	fmt.Printf("  %d references, %d unique, %d doc files\n", len(refs), len(r.Referenced), r.Files)

	for _, id := range r.Missing {
		fmt.Println(ui.StatusError(id + " " + ui.Dim("(missing)")))
	}
	for _, d := range r.Duplicates {
		fmt.Println(ui.StatusError(fmt.Sprintf("%s %s", d.ID, ui.Dim(fmt.Sprintf("(referenced %d times)", d.Count)))))
	}
	for _, id := range r.Orphans {
		fmt.Println(ui.StatusWarning(id + " " + ui.Dim("(not in sidebar)")))
	}

	if err := r.Err(); err != nil {
		return err
	}
	if len(r.Orphans) > 0 {
		fmt.Println(ui.StatusWarning(fmt.Sprintf("Navigation is incomplete: %d docs not in sidebar", len(r.Orphans))))
		return nil
	}
	fmt.Println(ui.StatusSuccess("Navigation is fully verified"))
	return nil
}
