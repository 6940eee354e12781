package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testInstance(name string, deadline time.Time, status model.ReportStatus) model.ReportInstance {
	return model.ReportInstance{
		ReportName:       name,
		Month:            deadline.Month(),
		Year:             deadline.Year(),
		FromDate:         date(deadline.Year(), deadline.Month(), 1),
		Deadline:         deadline,
		Status:           status,
		ResponsibleParty: "ops@example.com",
		AddedBy:          model.AddedBySystem,
		AddedDate:        date(2024, 1, 2),
	}
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	userEntry := testInstance("Regulator Request", date(2024, 4, 12), model.StatusInProgress)
	userEntry.AddedBy = model.AddedByUser
	userEntry.FromDate = time.Time{}
	userEntry.ResponsibleParty = ""

	want := []model.ReportInstance{
		testInstance("Monthly Tax Filing", date(2024, 4, 30), model.StatusCompleted),
		userEntry,
	}
	require.NoError(t, store.Upsert(ctx, want))

	got, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteStorage_UpsertReplacesAndMovesToEnd(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []model.ReportInstance{
		testInstance("A", date(2024, 4, 10), model.StatusNotStarted),
		testInstance("B", date(2024, 4, 11), model.StatusNotStarted),
	}))
	require.NoError(t, store.Upsert(ctx, []model.ReportInstance{
		testInstance("A", date(2024, 4, 10), model.StatusCompleted),
	}))

	got, err := store.ForMonth(ctx, time.April, 2024)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].ReportName)
	assert.Equal(t, "A", got[1].ReportName)
	assert.Equal(t, model.StatusCompleted, got[1].Status)
}

func TestSQLiteStorage_ForMonth(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []model.ReportInstance{
		testInstance("A", date(2024, 4, 10), model.StatusNotStarted),
		testInstance("A", date(2023, 4, 10), model.StatusNotStarted),
		testInstance("A", date(2024, 5, 10), model.StatusNotStarted),
	}))

	got, err := store.ForMonth(ctx, time.April, 2024)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, 4, 10), got[0].Deadline)

	_, err = store.ForMonth(ctx, time.Month(13), 2024)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestSQLiteStorage_UpsertValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.ReportInstance)
	}{
		{name: "empty name", mutate: func(i *model.ReportInstance) { i.ReportName = " " }},
		{name: "no deadline", mutate: func(i *model.ReportInstance) { i.Deadline = time.Time{} }},
		{name: "bad month", mutate: func(i *model.ReportInstance) { i.Month = 0 }},
		{name: "bad status", mutate: func(i *model.ReportInstance) { i.Status = "Done" }},
		{name: "bad origin", mutate: func(i *model.ReportInstance) { i.AddedBy = "Robot" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := testInstance("A", date(2024, 4, 10), model.StatusNotStarted)
			tt.mutate(&inst)
			err := store.Upsert(ctx, []model.ReportInstance{inst})
			assert.ErrorIs(t, err, ErrInvalidInstance)
		})
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStorage_UpsertIsAtomic(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bad := testInstance("B", date(2024, 4, 11), model.StatusNotStarted)
	bad.Status = "Unknown"

	err := store.Upsert(ctx, []model.ReportInstance{
		testInstance("A", date(2024, 4, 10), model.StatusNotStarted),
		bad,
	})
	require.Error(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSQLiteStorage_SavedAtIsStamped(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, []model.ReportInstance{
		testInstance("A", date(2024, 4, 10), model.StatusNotStarted),
	}))

	var missing int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM report_instances WHERE saved_at IS NULL`).Scan(&missing))
	assert.Zero(t, missing)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
}
