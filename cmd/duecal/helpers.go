package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Veraticus/duecal/internal/catalog"
	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/config"
	"github.com/Veraticus/duecal/internal/ledger"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/notify"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/service"
	"github.com/Veraticus/duecal/internal/storage"
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

// initCatalog loads the report catalog. The tool cannot run without one.
func initCatalog() (*catalog.Catalog, error) {
	path := config.CatalogPath()
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("could not load the report catalog from %s; set catalog.path in your config", path), err)
	}
	return cat, nil
}

// initLedger opens the configured ledger backend.
func initLedger(ctx context.Context) (service.Ledger, error) {
	settings, err := config.Ledger()
	if err != nil {
		return nil, err
	}

	switch settings.Backend {
	case config.BackendSQLite:
		return initStorage(ctx, settings.Path)
	default:
		l, err := ledger.Open(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		return l, nil
	}
}

// initStorage opens the SQLite database and brings its schema up to date.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initNotifier returns the SMTP notifier when mail is configured and a
// logging notifier otherwise.
func initNotifier() (service.Notifier, error) {
	cfg := config.LoadNotifyConfig()
	if !cfg.Enabled() {
		slog.Debug("SMTP not configured, notifications will only be logged")
		return notify.LogNotifier{Logger: slog.Default()}, nil
	}
	n, err := notify.NewSMTPNotifier(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to configure notifications: %w", err)
	}
	return n, nil
}

// initTracker wires the catalog, ledger and notifier together. The returned
// close function releases the ledger.
func initTracker(ctx context.Context) (*tracker.Tracker, func(), error) {
	cat, err := initCatalog()
	if err != nil {
		return nil, nil, err
	}

	policy, err := config.Overflow()
	if err != nil {
		return nil, nil, err
	}

	notifier, err := initNotifier()
	if err != nil {
		return nil, nil, err
	}

	l, err := initLedger(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeLedger := func() {
		if err := l.Close(); err != nil {
			slog.Warn("Failed to close ledger", "error", err)
		}
	}

	expander := schedule.NewExpander(policy)
	expander.Now = now

	tr, err := tracker.New(tracker.Config{
		Catalog:  cat,
		Ledger:   l,
		Expander: expander,
		Notifier: notifier,
		Logger:   slog.Default(),
		Now:      now,
	})
	if err != nil {
		closeLedger()
		return nil, nil, err
	}

	return tr, closeLedger, nil
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "month to show, by name or number (default: current month)")
	cmd.Flags().Int("year", 0, "year to show (default: current year)")
}

// periodFromFlags resolves --month/--year against the current date.
func periodFromFlags(cmd *cobra.Command) (tracker.Period, error) {
	p := tracker.PeriodOf(now())

	if raw, _ := cmd.Flags().GetString("month"); raw != "" {
		month, err := parseMonth(raw)
		if err != nil {
			return tracker.Period{}, common.NewUserError(err.Error(), common.ErrInvalidInput)
		}
		p.Month = month
	}
	if year, _ := cmd.Flags().GetInt("year"); year != 0 {
		p.Year = year
	}

	if err := p.Validate(); err != nil {
		return tracker.Period{}, common.NewUserError(err.Error(), err)
	}
	return p, nil
}

func parseMonth(raw string) (time.Month, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month must be between 1 and 12, got %d", n)
		}
		return time.Month(n), nil
	}
	return model.ParseMonthName(raw)
}

func parseDateArg(name, raw string) (time.Time, error) {
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, common.NewUserError(
			fmt.Sprintf("%s must be a date like 2024-04-10, got %q", name, raw), common.ErrInvalidInput)
	}
	return d, nil
}
