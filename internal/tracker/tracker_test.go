package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/ledger"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/service"
	"github.com/Veraticus/duecal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	err  error
	sent []service.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg service.Message) error {
	n.sent = append(n.sent, msg)
	return n.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type ledgerFactory func(t *testing.T) service.Ledger

func ledgerBackends() map[string]ledgerFactory {
	return map[string]ledgerFactory{
		"csv": func(t *testing.T) service.Ledger {
			t.Helper()
			l, err := ledger.Open(filepath.Join(t.TempDir(), "history.csv"))
			require.NoError(t, err)
			return l
		},
		"sqlite": func(t *testing.T) service.Ledger {
			t.Helper()
			return testutil.SetupTestDB(t).Storage
		},
	}
}

func newTestTracker(t *testing.T, l service.Ledger, n service.Notifier) *Tracker {
	t.Helper()
	tr, err := New(Config{
		Catalog:  testutil.Catalog(t),
		Ledger:   l,
		Notifier: n,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      testutil.Clock(time.Date(2024, 4, 8, 9, 30, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	return tr
}

func TestNew_RequiresCatalogAndLedger(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = New(Config{Catalog: testutil.Catalog(t)})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestTracker_StatusRoundTrip(t *testing.T) {
	for name, open := range ledgerBackends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			tr := newTestTracker(t, open(t), &recordingNotifier{})
			april := Period{Month: time.April, Year: 2024}

			view, err := tr.View(ctx, april)
			require.NoError(t, err)
			require.Len(t, view, 1)
			assert.Equal(t, "Monthly Tax Filing", view[0].ReportName)
			assert.Equal(t, date(2024, 4, 10), view[0].Deadline)
			assert.Equal(t, model.StatusNotStarted, view[0].Status)

			updated, err := tr.SetStatus(ctx, april, "Monthly Tax Filing", date(2024, 4, 10), model.StatusCompleted)
			require.NoError(t, err)
			assert.Equal(t, model.StatusCompleted, updated.Status)

			view, err = tr.View(ctx, april)
			require.NoError(t, err)
			require.Len(t, view, 1)
			assert.Equal(t, model.StatusCompleted, view[0].Status)
			assert.Equal(t, model.AddedBySystem, view[0].AddedBy)
			assert.Equal(t, date(2024, 4, 8), view[0].AddedDate)

			// Saving twice leaves a single entry.
			require.NoError(t, tr.Save(ctx, view))
			all, err := tr.ledger.All(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestTracker_SetStatusUnknownInstance(t *testing.T) {
	tr := newTestTracker(t, ledgerBackends()["csv"](t), nil)
	april := Period{Month: time.April, Year: 2024}

	_, err := tr.SetStatus(context.Background(), april, "Monthly Tax Filing", date(2024, 4, 11), model.StatusCompleted)
	assert.ErrorIs(t, err, ErrNoSuchInstance)

	_, err = tr.SetStatus(context.Background(), april, "Monthly Tax Filing", date(2024, 4, 10), "Done")
	assert.Error(t, err)
}

func TestTracker_ViewMonths(t *testing.T) {
	tr := newTestTracker(t, ledgerBackends()["csv"](t), nil)

	view, err := tr.View(context.Background(), Period{Month: time.February, Year: 2024})
	require.NoError(t, err)
	require.Len(t, view, 1)

	view, err = tr.View(context.Background(), Period{Month: time.June, Year: 2024})
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "Quarter Close", view[1].ReportName)
	assert.Equal(t, date(2024, 6, 30), view[1].Deadline)

	_, err = tr.View(context.Background(), Period{Month: 13, Year: 2024})
	assert.Error(t, err)
}

func TestTracker_AddIncidental(t *testing.T) {
	for name, open := range ledgerBackends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			notifier := &recordingNotifier{}
			tr := newTestTracker(t, open(t), notifier)

			inst, err := tr.AddIncidental(ctx, "Regulator Request", date(2024, 4, 2), date(2024, 5, 3))
			require.NoError(t, err)
			assert.Equal(t, time.May, inst.Month)
			assert.Equal(t, 2024, inst.Year)
			assert.Equal(t, model.AddedByUser, inst.AddedBy)
			assert.Equal(t, model.StatusNotStarted, inst.Status)
			assert.Equal(t, "compliance@example.com", inst.ResponsibleParty)

			require.Len(t, notifier.sent, 1)
			assert.Equal(t, "compliance@example.com", notifier.sent[0].To)

			view, err := tr.View(ctx, Period{Month: time.May, Year: 2024})
			require.NoError(t, err)
			idx := Find(view, inst.Key())
			require.GreaterOrEqual(t, idx, 0)
			assert.Equal(t, date(2024, 4, 2), view[idx].FromDate)
		})
	}
}

func TestTracker_AddIncidentalNotifyFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{err: errors.New("relay down")}
	tr := newTestTracker(t, ledgerBackends()["csv"](t), notifier)

	_, err := tr.AddIncidental(ctx, "Regulator Request", time.Time{}, date(2024, 4, 20))
	require.NoError(t, err)
	assert.Len(t, notifier.sent, 1)

	all, err := tr.ledger.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].HasFromDate())
}

func TestTracker_AddIncidentalValidation(t *testing.T) {
	notifier := &recordingNotifier{}
	tr := newTestTracker(t, ledgerBackends()["csv"](t), notifier)
	ctx := context.Background()

	_, err := tr.AddIncidental(ctx, "Unknown", time.Time{}, date(2024, 4, 20))
	assert.ErrorIs(t, err, common.ErrUnknownReport)

	_, err = tr.AddIncidental(ctx, "Monthly Tax Filing", time.Time{}, date(2024, 4, 20))
	assert.ErrorIs(t, err, common.ErrNotIncidental)

	_, err = tr.AddIncidental(ctx, "Regulator Request", time.Time{}, time.Time{})
	assert.Error(t, err)

	assert.Empty(t, notifier.sent)
}

func TestTracker_Month(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t, ledgerBackends()["csv"](t), nil)

	m, err := tr.Month(ctx, Period{Month: time.April, Year: 2024})
	require.NoError(t, err)
	require.Len(t, m.Weeks, 5)

	// April 1st 2024 is a Monday.
	assert.Equal(t, date(2024, 4, 1), m.Weeks[0][0].Date)
	assert.True(t, m.Weeks[1][0].Today)

	tenth := m.Weeks[1][2]
	assert.Equal(t, date(2024, 4, 10), tenth.Date)
	assert.True(t, tenth.Active)
	assert.Equal(t, 0, tenth.DiffDays)
	assert.Equal(t, schedule.NotStartedColor, tenth.Color)

	seventh := m.Weeks[0][6]
	assert.Equal(t, date(2024, 4, 7), seventh.Date)
	assert.False(t, seventh.Active)
	assert.Equal(t, schedule.NoReportColor, seventh.Color)
}

func TestTracker_ViewUsesRecordedStatus(t *testing.T) {
	db := testutil.SetupTestDB(t,
		testutil.Instance("Monthly Tax Filing", "2024-03-10", model.StatusCompleted),
		testutil.Instance("Quarter Close", "2024-03-31", model.StatusInProgress),
	)
	tr := newTestTracker(t, db.Storage, &recordingNotifier{})

	view, err := tr.View(context.Background(), Period{Month: time.March, Year: 2024})
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, model.StatusCompleted, view[0].Status)
	assert.Equal(t, model.StatusInProgress, view[1].Status)

	// Viewing does not write.
	assert.Len(t, db.MustAll(), 2)
}
