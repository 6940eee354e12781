package main

import (
	"fmt"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the reports due in a month",
		Long: `List every report due in the month: catalog deadlines merged with
the recorded status of each report and any incidental reports added.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	addPeriodFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	p, err := periodFromFlags(cmd)
	if err != nil {
		return err
	}

	tr, closeLedger, err := initTracker(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	view, err := tr.View(ctx, p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle(p.String()))

	if len(view) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No reports due in "+p.String()))
		return nil
	}

	return cli.WriteView(out, view, tr.Today())
}
