package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	statuses := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		statuses[i] = string(s)
	}

	return &cobra.Command{
		Use:   "status <report> <deadline> <status>",
		Short: "Set the status of a report",
		Long: fmt.Sprintf(`Set the status of one report in the month of its deadline and save
that month.

Status is one of: %s.`, strings.Join(statuses, ", ")),
		Example: `  duecal status "Monthly Tax Filing" 2024-04-10 Completed`,
		Args:    cobra.ExactArgs(3),
		RunE:    runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	name := args[0]
	deadline, err := parseDateArg("deadline", args[1])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(args[2])
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidInput)
	}

	tr, closeLedger, err := initTracker(ctx)
	if err != nil {
		return err
	}
	defer closeLedger()

	p := tracker.PeriodOf(deadline)
	inst, err := tr.SetStatus(ctx, p, name, deadline, status)
	if errors.Is(err, tracker.ErrNoSuchInstance) {
		return common.NewUserError(
			fmt.Sprintf("%q is not due on %s; run 'duecal list --month %d --year %d' to see what is",
				name, model.FormatDate(deadline), p.Month, p.Year), err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s due %s is now %s",
		inst.ReportName, model.FormatDate(inst.Deadline), cli.StatusStyle(inst.Status).Render(string(inst.Status)))))
	return nil
}

func saveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record the month's reports in the ledger",
		Long: `Write every report due in the month to the ledger as it currently
stands, so generated deadlines are recorded even before their status changes.`,
		Args: cobra.NoArgs,
		RunE: runSave,
	}

	addPeriodFlags(cmd)

	return cmd
}

func runSave(cmd *cobra.Command, _ []string) error {
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
	if err := tr.Save(ctx, view); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %d reports for %s", len(view), p)))
	return nil
}
