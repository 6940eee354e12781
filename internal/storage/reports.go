package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/duecal/internal/model"
)

const selectInstances = `
	SELECT report_name, month, year, from_date, deadline, status, pic, added_by, added_date
	FROM report_instances
`

// ForMonth returns the entries recorded for month/year in ledger order.
func (s *SQLiteStorage) ForMonth(ctx context.Context, month time.Month, year int) ([]model.ReportInstance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateMonth(int(month)); err != nil {
		return nil, err
	}
	return s.queryInstances(ctx, s.db, selectInstances+` WHERE month = ? AND year = ? ORDER BY id`, int(month), year)
}

// All returns every ledger entry in ledger order.
func (s *SQLiteStorage) All(ctx context.Context) ([]model.ReportInstance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryInstances(ctx, s.db, selectInstances+` ORDER BY id`)
}

// Upsert writes instances in one transaction. An existing entry with the same
// identity is removed first so the new entry moves to the end of the ledger,
// matching the append-then-deduplicate order of the file ledger.
func (s *SQLiteStorage) Upsert(ctx context.Context, instances []model.ReportInstance) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for i := range instances {
		if err := validateInstance(&instances[i]); err != nil {
			return fmt.Errorf("instance at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, inst := range instances {
		if err := s.upsertTx(ctx, tx, inst); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger save: %w", err)
	}

	slog.Debug("Saved ledger", "path", s.dbPath, "upserted", len(instances))
	return nil
}

func (s *SQLiteStorage) upsertTx(ctx context.Context, q queryable, inst model.ReportInstance) error {
	key := inst.Key()

	if _, err := q.ExecContext(ctx, `
		DELETE FROM report_instances WHERE report_name = ? AND deadline = ?
	`, key.ReportName, key.Deadline); err != nil {
		return fmt.Errorf("failed to replace %q: %w", inst.ReportName, err)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO report_instances
			(report_name, month, year, from_date, deadline, status, pic, added_by, added_date, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`,
		inst.ReportName,
		int(inst.Month),
		inst.Year,
		model.FormatDate(inst.FromDate),
		key.Deadline,
		string(inst.Status),
		inst.ResponsibleParty,
		string(inst.AddedBy),
		model.FormatDate(inst.AddedDate),
	)
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", inst.ReportName, err)
	}
	return nil
}

func (s *SQLiteStorage) queryInstances(ctx context.Context, q queryable, query string, args ...any) ([]model.ReportInstance, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var instances []model.ReportInstance
	for rows.Next() {
		var (
			inst                          model.ReportInstance
			month                         int
			fromDate, deadline, addedDate string
			status, addedBy               string
		)
		if err := rows.Scan(
			&inst.ReportName,
			&month,
			&inst.Year,
			&fromDate,
			&deadline,
			&status,
			&inst.ResponsibleParty,
			&addedBy,
			&addedDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		inst.Month = time.Month(month)
		inst.Status = model.ReportStatus(status)
		inst.AddedBy = model.AddedBy(addedBy)
		if inst.Deadline, err = model.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("ledger entry %q has bad deadline: %w", inst.ReportName, err)
		}
		if fromDate != "" {
			if inst.FromDate, err = model.ParseDate(fromDate); err != nil {
				return nil, fmt.Errorf("ledger entry %q has bad from date: %w", inst.ReportName, err)
			}
		}
		if addedDate != "" {
			if inst.AddedDate, err = model.ParseDate(addedDate); err != nil {
				return nil, fmt.Errorf("ledger entry %q has bad added date: %w", inst.ReportName, err)
			}
		}

		instances = append(instances, inst)
	}

	return instances, rows.Err()
}
