package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/config"
	"github.com/Veraticus/duecal/internal/ledger"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/storage"
	"github.com/Veraticus/duecal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyEntries(n int) []model.ReportInstance {
	entries := make([]model.ReportInstance, n)
	for i := range entries {
		deadline := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		entries[i] = model.ReportInstance{
			ReportName:       "Monthly Tax Filing",
			Month:            deadline.Month(),
			Year:             deadline.Year(),
			Deadline:         deadline,
			Status:           model.StatusCompleted,
			ResponsibleParty: "tax@example.com",
			AddedBy:          model.AddedBySystem,
		}
	}
	return entries
}

func writeHistory(t *testing.T, path string, entries []model.ReportInstance) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.NoError(t, ledger.Write(f, entries))
}

func TestLedgerImport(t *testing.T) {
	env := newTestEnv(t, config.BackendSQLite)
	src := filepath.Join(env.dir, "old_history.csv")
	writeHistory(t, src, historyEntries(120))

	out, err := env.run(t, "ledger", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 120 entries")

	entries := env.ledgerEntries(t, config.BackendSQLite)
	require.Len(t, entries, 120)
	assert.Equal(t, "2023-01-10", model.FormatDate(entries[0].Deadline))
	assert.Equal(t, "2032-12-10", model.FormatDate(entries[119].Deadline))

	// The imported history is what the sqlite backend now serves.
	out, err = env.run(t, "list", "--month", "3", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")
}

func TestLedgerImport_ConfirmsBeforeMerging(t *testing.T) {
	env := newTestEnv(t, config.BackendSQLite)
	src := filepath.Join(env.dir, "old_history.csv")
	writeHistory(t, src, historyEntries(3))

	_, err := env.run(t, "status", "Monthly Tax Filing", "2024-04-10", "In Progress")
	require.NoError(t, err)

	env.stdin = "n\n"
	out, err := env.run(t, "ledger", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "already holds 1 entries")
	assert.Contains(t, out, "Import canceled")
	assert.Len(t, env.ledgerEntries(t, config.BackendSQLite), 1)

	env.stdin = "yes\n"
	_, err = env.run(t, "ledger", "import", src)
	require.NoError(t, err)
	assert.Len(t, env.ledgerEntries(t, config.BackendSQLite), 4)

	env.stdin = ""
	_, err = env.run(t, "ledger", "import", "--yes", src)
	require.NoError(t, err)
	assert.Len(t, env.ledgerEntries(t, config.BackendSQLite), 4)
}

func TestLedgerImport_MalformedFile(t *testing.T) {
	env := newTestEnv(t, config.BackendSQLite)
	src := filepath.Join(env.dir, "broken.csv")
	require.NoError(t, os.WriteFile(src, []byte(
		"Report Name,Month,Year,Deadline,Status,Added By,Added Date\n"+
			"Monthly Tax Filing,April,2024,2024-04-10,Finished,System,\n"), 0600))

	_, err := env.run(t, "ledger", "import", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrMalformedRow)

	_, err = env.run(t, "ledger", "import", filepath.Join(env.dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not open")
}

func TestLedgerExport(t *testing.T) {
	env := newTestEnv(t, config.BackendSQLite)

	_, err := env.run(t, "status", "Monthly Tax Filing", "2024-04-10", "Completed")
	require.NoError(t, err)
	_, err = env.run(t, "add", "Regulator Request", "--deadline", "2024-05-02")
	require.NoError(t, err)

	dst := filepath.Join(env.dir, "exported.csv")
	out, err := env.run(t, "ledger", "export", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 entries")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	entries, err := ledger.Read(f)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.StatusCompleted, entries[0].Status)
	assert.Equal(t, model.AddedByUser, entries[1].AddedBy)
}

type countingBar struct{ added int }

func (b *countingBar) Add(n int) error {
	b.added += n
	return nil
}

func TestImportEntries_Batches(t *testing.T) {
	db := testutil.SetupTestDB(t)

	bar := &countingBar{}
	n, err := importEntries(context.Background(), db.Storage, historyEntries(importBatchSize+7), bar)
	require.NoError(t, err)
	assert.Equal(t, importBatchSize+7, n)
	assert.Equal(t, importBatchSize+7, bar.added)
	assert.Len(t, db.MustAll(), importBatchSize+7)
}

func TestImportEntries_StopsWhenCanceled(t *testing.T) {
	db := testutil.SetupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := importEntries(ctx, db.Storage, historyEntries(3), &countingBar{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, n)
	assert.Empty(t, db.MustAll())
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(t, config.BackendSQLite)

	out, err := env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, fmt.Sprintf("Latest version:  %d", storage.ExpectedSchemaVersion))
	assert.Contains(t, out, "pending migrations")

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("schema version %d", storage.ExpectedSchemaVersion))

	out, err = env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Current version: %d", storage.ExpectedSchemaVersion))
	assert.NotContains(t, out, "pending migrations")
}
