package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
)

// FileLedger keeps the ledger in a comma separated file. The whole file is
// read on open and rewritten on every upsert. Calls on one FileLedger are
// serialized; separate processes sharing the file still overwrite each other.
type FileLedger struct {
	path    string
	entries []model.ReportInstance
	mu      sync.RWMutex
}

// Open loads the ledger at path, creating it with a header if it does not
// exist.
func Open(path string) (*FileLedger, error) {
	l := &FileLedger{path: path}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := l.write(nil); err != nil {
			return nil, fmt.Errorf("failed to create ledger: %w", err)
		}
		slog.Info("Created empty ledger", "path", path)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", path, err)
	}
	l.entries = entries

	return l, nil
}

// Read decodes every row of a ledger file. Rows that cannot be decoded fail the
// whole read with an error naming the line.
func Read(r io.Reader) ([]model.ReportInstance, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	row, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header, err := ParseHeader(row)
	if err != nil {
		return nil, err
	}

	var entries []model.ReportInstance
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		inst, err := header.Decode(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, inst)
	}

	return entries, nil
}

// Write encodes entries with the full header.
func Write(w io.Writer, entries []model.ReportInstance) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, inst := range entries {
		if err := writer.Write(Encode(inst)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Path returns the ledger file location.
func (l *FileLedger) Path() string {
	return l.path
}

// ForMonth returns the entries recorded for month/year.
func (l *FileLedger) ForMonth(_ context.Context, month time.Month, year int) ([]model.ReportInstance, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []model.ReportInstance
	for _, inst := range l.entries {
		if inst.Month == month && inst.Year == year {
			out = append(out, inst)
		}
	}
	return out, nil
}

// All returns every entry in file order.
func (l *FileLedger) All(_ context.Context) ([]model.ReportInstance, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ReportInstance, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

// Upsert appends instances to the ledger, dropping older entries with the same
// identity, and rewrites the file.
func (l *FileLedger) Upsert(ctx context.Context, instances []model.ReportInstance) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	merged := schedule.Merge(l.entries, instances)
	if err := l.write(merged); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	l.entries = merged

	slog.Debug("Saved ledger", "path", l.path, "entries", len(merged), "upserted", len(instances))
	return nil
}

// Close is a no-op; every upsert is already on disk.
func (l *FileLedger) Close() error {
	return nil
}

// write replaces the file atomically via a temp file in the same directory.
func (l *FileLedger) write(entries []model.ReportInstance) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, entries); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), l.path)
}
