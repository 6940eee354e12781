package main

import (
	"github.com/Veraticus/duecal/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the calendar interactively",
		Long: `Open the interactive calendar. Use ←/→ to change month, ↑/↓ to pick
a report, s to cycle its status and Ctrl+S to save. Press ? for all keys.`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}

	addPeriodFlags(cmd)

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
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

	return tui.Run(ctx, tr, tui.WithStart(p))
}
