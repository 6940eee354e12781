// Package tracker runs one recomputation pass per user interaction: expand the
// catalog for the displayed month, merge with the ledger, grade the calendar,
// and write edits back.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/duecal/internal/catalog"
	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/notify"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/service"
)

// ErrNoSuchInstance is returned when an edit names an instance that is not in
// the month view.
var ErrNoSuchInstance = errors.New("report instance not in view")

// Config wires a Tracker.
type Config struct {
	Catalog  *catalog.Catalog
	Ledger   service.Ledger
	Expander *schedule.Expander
	Notifier service.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// Tracker reconciles the report schedule with the ledger.
type Tracker struct {
	catalog  *catalog.Catalog
	ledger   service.Ledger
	expander *schedule.Expander
	notifier service.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a tracker. Catalog and Ledger are required.
func New(cfg Config) (*Tracker, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", common.ErrMissingConfig)
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("%w: ledger is required", common.ErrMissingConfig)
	}

	t := &Tracker{
		catalog:  cfg.Catalog,
		ledger:   cfg.Ledger,
		expander: cfg.Expander,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if t.notifier == nil {
		t.notifier = notify.LogNotifier{Logger: t.logger}
	}
	if t.expander == nil {
		t.expander = schedule.NewExpander(schedule.OverflowClamp)
	}
	if t.expander.Now == nil {
		t.expander.Now = t.now
	}

	return t, nil
}

// Catalog returns the report catalog.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.catalog
}

// Today returns the current calendar date.
func (t *Tracker) Today() time.Time {
	return model.Date(t.now())
}

// View returns the merged schedule for p: generated instances overlaid by
// whatever the ledger holds for the same month.
func (t *Tracker) View(ctx context.Context, p Period) ([]model.ReportInstance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	generated, err := t.expander.Expand(t.catalog.Definitions(), p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to expand schedule for %s: %w", p, err)
	}

	recorded, err := t.ledger.ForMonth(ctx, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for %s: %w", p, err)
	}

	merged := schedule.Merge(generated, recorded)
	t.logger.Debug("Built month view",
		"period", p.String(),
		"generated", len(generated),
		"recorded", len(recorded),
		"merged", len(merged))

	return merged, nil
}

// Save persists the given view, typically one the user has edited. Entries
// with the same identity as existing ledger rows replace them.
func (t *Tracker) Save(ctx context.Context, view []model.ReportInstance) error {
	if err := t.ledger.Upsert(ctx, view); err != nil {
		return fmt.Errorf("failed to save changes: %w", err)
	}
	t.logger.Info("Saved changes", "entries", len(view))
	return nil
}

// SetStatus changes the status of one instance in the view for p and saves
// the whole view, the same as editing the table and pressing save.
func (t *Tracker) SetStatus(ctx context.Context, p Period, reportName string, deadline time.Time, status model.ReportStatus) (model.ReportInstance, error) {
	if _, err := model.ParseStatus(string(status)); err != nil {
		return model.ReportInstance{}, err
	}

	view, err := t.View(ctx, p)
	if err != nil {
		return model.ReportInstance{}, err
	}

	key := model.Identity{ReportName: reportName, Deadline: model.FormatDate(deadline)}
	i := Find(view, key)
	if i < 0 {
		return model.ReportInstance{}, fmt.Errorf("%w: %s due %s", ErrNoSuchInstance, key.ReportName, key.Deadline)
	}
	view[i].Status = status

	if err := t.Save(ctx, view); err != nil {
		return model.ReportInstance{}, err
	}
	return view[i], nil
}

// AddIncidental records a user-entered incidental report and notifies the
// responsible party. The entry is saved before the notification is attempted
// and a failed notification is only logged.
func (t *Tracker) AddIncidental(ctx context.Context, reportName string, from, deadline time.Time) (model.ReportInstance, error) {
	def, ok := t.catalog.Lookup(reportName)
	if !ok {
		return model.ReportInstance{}, fmt.Errorf("%w: %q", common.ErrUnknownReport, reportName)
	}
	if def.Type != model.ReportTypeIncidental {
		return model.ReportInstance{}, fmt.Errorf("%w: %q is %s", common.ErrNotIncidental, reportName, def.Type)
	}
	if deadline.IsZero() {
		return model.ReportInstance{}, fmt.Errorf("deadline is required for %q", reportName)
	}

	deadline = model.Date(deadline)
	inst := model.ReportInstance{
		ReportName:       def.Name,
		Month:            deadline.Month(),
		Year:             deadline.Year(),
		Deadline:         deadline,
		Status:           model.StatusNotStarted,
		ResponsibleParty: def.ResponsibleParty,
		AddedBy:          model.AddedByUser,
		AddedDate:        t.Today(),
	}
	if !from.IsZero() {
		inst.FromDate = model.Date(from)
	}

	if err := t.ledger.Upsert(ctx, []model.ReportInstance{inst}); err != nil {
		return model.ReportInstance{}, fmt.Errorf("failed to record %q: %w", reportName, err)
	}
	t.logger.Info("Added incidental report",
		"report", inst.ReportName,
		"deadline", model.FormatDate(inst.Deadline))

	if err := t.notifier.Notify(ctx, notify.IncidentalAdded(inst)); err != nil {
		common.LogError(err, "Failed to send notification", common.Fields{
			"report":   inst.ReportName,
			"deadline": model.FormatDate(inst.Deadline),
		})
	}

	return inst, nil
}

// Find returns the index of the instance with the given identity, or -1.
func Find(view []model.ReportInstance, key model.Identity) int {
	for i := range view {
		if view[i].Key() == key {
			return i
		}
	}
	return -1
}
