package main

import (
	"fmt"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/spf13/cobra"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the month calendar colored by deadline urgency",
		Long: `Show a month grid where each day is colored by the nearest deadline
within the next three days: red while not started, yellow in progress,
green when completed, fading toward white the further away it is.`,
		Args: cobra.NoArgs,
		RunE: runCalendar,
	}

	addPeriodFlags(cmd)

	return cmd
}

func runCalendar(cmd *cobra.Command, _ []string) error {
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

	month, err := tr.Month(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to build calendar: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderCalendar(month))
	fmt.Fprintln(out)

	if len(month.View) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No reports due in "+p.String()))
		return nil
	}
	return cli.WriteView(out, month.View, tr.Today())
}
