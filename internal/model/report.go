// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk format for every date in the catalog and ledger.
const DateLayout = "2006-01-02"

// ReportType distinguishes recurring reports from one-off ones.
type ReportType string

const (
	// ReportTypePeriodical reports are expanded automatically every month they apply to.
	ReportTypePeriodical ReportType = "Periodical"
	// ReportTypeIncidental reports are added manually by a user.
	ReportTypeIncidental ReportType = "Incidental"
)

// ReportStatus tracks how far along a report instance is.
type ReportStatus string

// Report status constants.
const (
	StatusNotStarted ReportStatus = "Not Started"
	StatusInProgress ReportStatus = "In Progress"
	StatusCompleted  ReportStatus = "Completed"
)

// Statuses lists every status in the order the UI cycles through them.
var Statuses = []ReportStatus{StatusNotStarted, StatusInProgress, StatusCompleted}

// ParseStatus converts user or ledger input into a ReportStatus.
func ParseStatus(s string) (ReportStatus, error) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown report status %q", s)
}

// Next returns the status that follows s in the UI cycle.
func (s ReportStatus) Next() ReportStatus {
	for i, status := range Statuses {
		if status == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusNotStarted
}

// AddedBy records whether an instance was generated or entered by hand.
type AddedBy string

const (
	// AddedBySystem marks instances produced by the schedule expander.
	AddedBySystem AddedBy = "System"
	// AddedByUser marks instances entered through the incidental form.
	AddedByUser AddedBy = "User"
)

// ReportDefinition is a single catalog row.
type ReportDefinition struct {
	Name             string     `validate:"required"`
	Type             ReportType `validate:"required,oneof=Periodical Incidental"`
	Period           string
	DeadlineRule     string
	ResponsibleParty string
}

// ReportInstance is one due obligation for a given month.
type ReportInstance struct {
	FromDate         time.Time
	Deadline         time.Time
	AddedDate        time.Time
	ReportName       string
	ResponsibleParty string
	Status           ReportStatus
	AddedBy          AddedBy
	Month            time.Month
	Year             int
}

// Identity is the deduplication key of a report instance.
type Identity struct {
	ReportName string
	Deadline   string
}

// Key returns the (report name, deadline) identity of the instance.
func (r ReportInstance) Key() Identity {
	return Identity{ReportName: r.ReportName, Deadline: r.Deadline.Format(DateLayout)}
}

// HasFromDate reports whether the instance carries a reporting-period start.
func (r ReportInstance) HasFromDate() bool {
	return !r.FromDate.IsZero()
}

// ParseMonthName resolves an English month name such as "April".
func ParseMonthName(name string) (time.Month, error) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", name)
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD, or an empty string for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Date truncates t to midnight UTC of its calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
