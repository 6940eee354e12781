package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <report>",
		Short: "Add an incidental report",
		Long: `Add a one-off report that the catalog marks as Incidental. The report
is recorded immediately and the person in charge is notified by email.`,
		Example: `  duecal add "Regulator Request" --deadline 2024-04-22 --from 2024-04-01`,
		Args:    cobra.ExactArgs(1),
		RunE:    runAdd,
	}

	cmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD)")
	cmd.Flags().String("from", "", "start of the reporting period (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("deadline")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rawDeadline, _ := cmd.Flags().GetString("deadline")
	deadline, err := parseDateArg("deadline", rawDeadline)
	if err != nil {
		return err
	}

	var from time.Time
	if rawFrom, _ := cmd.Flags().GetString("from"); rawFrom != "" {
		if from, err = parseDateArg("from", rawFrom); err != nil {
			return err
		}
	}

	tr, closeLedger, err := initTracker(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	inst, err := tr.AddIncidental(ctx, args[0], from, deadline)
	switch {
	case errors.Is(err, common.ErrUnknownReport), errors.Is(err, common.ErrNotIncidental):
		msg := fmt.Sprintf("%q cannot be added as an incidental report", args[0])
		if names := tr.Catalog().Incidental(); len(names) > 0 {
			msg += "; choose one of: " + strings.Join(names, ", ")
		}
		return common.NewUserError(msg, err)
	case err != nil:
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s due %s",
		inst.ReportName, model.FormatDate(inst.Deadline))))
	return nil
}
