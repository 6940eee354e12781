package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/duecal/internal/cli"
	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/config"
	"github.com/Veraticus/duecal/internal/ledger"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const importBatchSize = 50

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Move the ledger between CSV and SQLite",
	}

	cmd.AddCommand(ledgerImportCmd())
	cmd.AddCommand(ledgerExportCmd())

	return cmd
}

func ledgerImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Copy a CSV ledger into the SQLite ledger",
		Long: `Copy every entry of a CSV ledger into the SQLite database at
database.path. Entries already in the database with the same report name and
deadline are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: runLedgerImport,
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask before writing into a non-empty database")

	return cmd
}

func runLedgerImport(cmd *cobra.Command, args []string) error {
	entries, err := readLedgerFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Nothing to import: "+args[0]+" has no entries"))
		return nil
	}

	handler := cli.NewInterruptHandler(out, "Entries imported so far are kept. Run the import again to finish.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	dbPath := config.ExpandPath(viper.GetString("database.path"))
	store, err := initStorage(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	existing, err := store.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := cli.Confirm(ctx, cmd.InOrStdin(), out,
				fmt.Sprintf("%s already holds %d entries. Merge %d more into it?", dbPath, len(existing), len(entries)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.FormatInfo("Import canceled"))
				return nil
			}
		}
	}

	imported, err := importEntries(ctx, store, entries, cli.NewProgressBar(out, len(entries), "Importing"))
	if errors.Is(err, context.Canceled) && handler.WasInterrupted() {
		slog.Info("Import interrupted", "imported", imported, "total", len(entries))
		return nil
	}
	if err != nil {
		return fmt.Errorf("import stopped after %d of %d entries: %w", imported, len(entries), err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d entries into %s", imported, dbPath)))
	return nil
}

type progress interface {
	Add(n int) error
}

// importEntries upserts entries in file order, one batch per transaction.
func importEntries(ctx context.Context, l service.Ledger, entries []model.ReportInstance, bar progress) (int, error) {
	imported := 0
	for start := 0; start < len(entries); start += importBatchSize {
		if err := ctx.Err(); err != nil {
			return imported, err
		}

		end := min(start+importBatchSize, len(entries))
		if err := l.Upsert(ctx, entries[start:end]); err != nil {
			return imported, err
		}
		imported = end

		if err := bar.Add(end - start); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}
	return imported, nil
}

func readLedgerFile(path string) ([]model.ReportInstance, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return nil, common.NewUserError("could not open "+path, err)
	}
	defer func() { _ = f.Close() }()

	entries, err := ledger.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return entries, nil
}

func ledgerExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <csv>",
		Short: "Copy the SQLite ledger into a CSV ledger",
		Long: `Copy every entry of the SQLite database at database.path into a CSV
ledger, creating the file if needed. Existing rows with the same report name
and deadline are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: runLedgerExport,
	}
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dbPath := config.ExpandPath(viper.GetString("database.path"))
	store, err := initStorage(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.All(ctx)
	if err != nil {
		return err
	}

	target, err := ledger.Open(config.ExpandPath(args[0]))
	if err != nil {
		return err
	}
	if err := target.Upsert(ctx, entries); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d entries to %s", len(entries), target.Path())))
	return nil
}
