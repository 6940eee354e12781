// Package ledger stores report instances in the tabular ledger file.
package ledger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/duecal/internal/model"
)

// Ledger column names.
const (
	ColumnReportName = "Report Name"
	ColumnMonth      = "Month"
	ColumnYear       = "Year"
	ColumnFromDate   = "From Date"
	ColumnDeadline   = "Deadline"
	ColumnStatus     = "Status"
	ColumnPIC        = "PIC"
	ColumnAddedBy    = "Added By"
	ColumnAddedDate  = "Added Date"
)

// Columns is the full ledger header in file order.
var Columns = []string{
	ColumnReportName,
	ColumnMonth,
	ColumnYear,
	ColumnFromDate,
	ColumnDeadline,
	ColumnStatus,
	ColumnPIC,
	ColumnAddedBy,
	ColumnAddedDate,
}

// optionalColumns may be missing from older ledger files.
var optionalColumns = map[string]bool{
	ColumnFromDate: true,
	ColumnPIC:      true,
}

// ErrMalformedRow is returned when a ledger row cannot be decoded.
var ErrMalformedRow = errors.New("malformed ledger row")

// Header maps column names to their positions in a ledger file.
type Header map[string]int

// ParseHeader validates a header row. Optional columns may be absent; any
// other missing column is an error.
func ParseHeader(row []string) (Header, error) {
	h := make(Header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range Columns {
		if _, ok := h[col]; !ok && !optionalColumns[col] {
			return nil, fmt.Errorf("ledger header is missing column %q", col)
		}
	}
	return h, nil
}

func (h Header) get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Decode converts a ledger record into a report instance.
func (h Header) Decode(record []string) (model.ReportInstance, error) {
	var inst model.ReportInstance

	inst.ReportName = h.get(record, ColumnReportName)
	if inst.ReportName == "" {
		return inst, fmt.Errorf("%w: empty %s", ErrMalformedRow, ColumnReportName)
	}

	month, err := model.ParseMonthName(h.get(record, ColumnMonth))
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	inst.Month = month

	inst.Year, err = parseYear(h.get(record, ColumnYear))
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	inst.Deadline, err = model.ParseDate(h.get(record, ColumnDeadline))
	if err != nil {
		return inst, fmt.Errorf("%w: bad %s: %v", ErrMalformedRow, ColumnDeadline, err)
	}

	if s := h.get(record, ColumnFromDate); s != "" {
		inst.FromDate, err = model.ParseDate(s)
		if err != nil {
			return inst, fmt.Errorf("%w: bad %s: %v", ErrMalformedRow, ColumnFromDate, err)
		}
	}

	if s := h.get(record, ColumnAddedDate); s != "" {
		inst.AddedDate, err = model.ParseDate(s)
		if err != nil {
			return inst, fmt.Errorf("%w: bad %s: %v", ErrMalformedRow, ColumnAddedDate, err)
		}
	}

	inst.Status, err = model.ParseStatus(h.get(record, ColumnStatus))
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	inst.AddedBy, err = parseAddedBy(h.get(record, ColumnAddedBy))
	if err != nil {
		return inst, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	inst.ResponsibleParty = h.get(record, ColumnPIC)

	return inst, nil
}

// Encode converts a report instance into a record with the full column set.
func Encode(inst model.ReportInstance) []string {
	return []string{
		inst.ReportName,
		inst.Month.String(),
		strconv.Itoa(inst.Year),
		model.FormatDate(inst.FromDate),
		model.FormatDate(inst.Deadline),
		string(inst.Status),
		inst.ResponsibleParty,
		string(inst.AddedBy),
		model.FormatDate(inst.AddedDate),
	}
}

// parseYear accepts integers and the "2024.0" form spreadsheet tools emit.
func parseYear(s string) (int, error) {
	s = strings.TrimSuffix(s, ".0")
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", ColumnYear, s)
	}
	return year, nil
}

func parseAddedBy(s string) (model.AddedBy, error) {
	switch {
	case strings.EqualFold(s, string(model.AddedBySystem)):
		return model.AddedBySystem, nil
	case strings.EqualFold(s, string(model.AddedByUser)):
		return model.AddedByUser, nil
	default:
		return "", fmt.Errorf("unknown %s %q", ColumnAddedBy, s)
	}
}
