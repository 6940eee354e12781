// Package main runs the calendar TUI against a sample catalog and an
// in-memory ledger, so it can be tried without any files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Veraticus/duecal/internal/catalog"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/storage"
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/Veraticus/duecal/internal/tui"
)

const demoCatalog = `Report Name;Report Type;Report Period;Deadline;PIC
Monthly Tax Filing;Periodical;Every month;Every 10th of month;tax@example.com
Payroll Summary;Periodical;Every month;Every 25th;payroll@example.com
Liquidity Report;Periodical;Every month;last day;treasury@example.com
Quarter Close;Periodical;March, June, September, December;last day;Finance Team
Annual Return;Periodical;March;Every 20th;tax@example.com
Regulator Request;Incidental;;;compliance@example.com
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cat, err := catalog.Read(strings.NewReader(demoCatalog))
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tr, err := tracker.New(tracker.Config{
		Catalog:  cat,
		Ledger:   store,
		Expander: schedule.NewExpander(schedule.OverflowClamp),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if err := seed(ctx, tr); err != nil {
		return err
	}

	return tui.Run(ctx, tr, tui.WithSize(120, 40))
}

// seed gives the current month a mix of statuses.
func seed(ctx context.Context, tr *tracker.Tracker) error {
	p := tracker.PeriodOf(time.Now())
	view, err := tr.View(ctx, p)
	if err != nil {
		return err
	}
	for i := range view {
		view[i].Status = model.Statuses[i%len(model.Statuses)]
	}
	if err := tr.Save(ctx, view); err != nil {
		return err
	}

	_, err = tr.AddIncidental(ctx, "Regulator Request", time.Time{}, time.Now().AddDate(0, 0, 2))
	return err
}
