package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/Veraticus/duecal/internal/config"
	"github.com/Veraticus/duecal/internal/service"
	"github.com/Veraticus/duecal/internal/sheets"
	"github.com/spf13/cobra"
)

// newSheetsWriter is replaced in tests.
var newSheetsWriter = func(ctx context.Context, cfg sheets.Config) (service.ReportWriter, error) {
	w, err := sheets.NewWriter(ctx, cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return w, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the month's reports",
	}

	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write the month's reports to Google Sheets",
		Long: `Write the month's reports to a tab named after the month in the
configured spreadsheet, creating the spreadsheet and tab when needed.

Credentials come from sheets.* in the config file or GOOGLE_SHEETS_*
environment variables. Run 'duecal auth sheets' to obtain a refresh token.`,
		Args: cobra.NoArgs,
		RunE: runExportSheets,
	}

	addPeriodFlags(cmd)

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	p, err := periodFromFlags(cmd)
	if err != nil {
		return err
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("google sheets is not configured: %w", err)
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

	writer, err := newSheetsWriter(ctx, *sheetsConfig)
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	slog.Info("Exporting to Google Sheets", "period", p.String(), "reports", len(view))
	if err := writer.Write(ctx, p.Month, p.Year, view); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d reports to tab %q",
		len(view), sheets.TabTitle(p.Month, p.Year))))
	return nil
}
