// Package testutil provides shared fixtures for tests that need a migrated
// ledger database or a populated report catalog.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/storage"
)

// TestDB is a migrated in-memory SQLite ledger.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory ledger, seeded with entries in order.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.Instance("Monthly Tax Filing", "2024-04-10", model.StatusCompleted),
//	)
func SetupTestDB(t *testing.T, seed ...model.ReportInstance) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(seed) > 0 {
		if err := store.Upsert(ctx, seed); err != nil {
			t.Fatalf("failed to seed ledger: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// MustAll returns every ledger entry or fails the test.
func (db *TestDB) MustAll() []model.ReportInstance {
	db.t.Helper()
	entries, err := db.Storage.All(context.Background())
	if err != nil {
		db.t.Fatalf("failed to read ledger: %v", err)
	}
	return entries
}
