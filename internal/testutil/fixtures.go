package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/catalog"
	"github.com/Veraticus/duecal/internal/model"
)

// Definitions is the catalog most tests run against: one monthly report, one
// quarterly report due on the last day, and one incidental report.
func Definitions() []model.ReportDefinition {
	return []model.ReportDefinition{
		{
			Name:             "Monthly Tax Filing",
			Type:             model.ReportTypePeriodical,
			Period:           "Every month",
			DeadlineRule:     "Every 10th of month",
			ResponsibleParty: "tax@example.com",
		},
		{
			Name:             "Quarter Close",
			Type:             model.ReportTypePeriodical,
			Period:           "March, June, September, December",
			DeadlineRule:     "last day",
			ResponsibleParty: "Finance Team",
		},
		{
			Name:             "Regulator Request",
			Type:             model.ReportTypeIncidental,
			ResponsibleParty: "compliance@example.com",
		},
	}
}

// Catalog builds a catalog from Definitions.
func Catalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(Definitions())
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return c
}

// Instance builds a generated ledger entry for the month of deadline, which
// must be YYYY-MM-DD.
func Instance(name, deadline string, status model.ReportStatus) model.ReportInstance {
	d, err := model.ParseDate(deadline)
	if err != nil {
		panic(err)
	}
	return model.ReportInstance{
		ReportName: name,
		Month:      d.Month(),
		Year:       d.Year(),
		Deadline:   d,
		Status:     status,
		AddedBy:    model.AddedBySystem,
	}
}

// Clock returns a Now func pinned to t.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
