package tracker

import (
	"context"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
)

// Day is one calendar cell.
type Day struct {
	Date  time.Time
	Color schedule.Color
	// Report is the instance that decided Color when Active is set.
	Report   model.ReportInstance
	DiffDays int
	Active   bool
	Today    bool
}

// Month is a fully computed month: its merged view and graded calendar.
type Month struct {
	Period Period
	View   []model.ReportInstance
	// Weeks holds Monday-first rows; padding cells have a zero Date.
	Weeks [][7]Day
}

// Month builds the view for p and grades every day of the calendar.
func (t *Tracker) Month(ctx context.Context, p Period) (*Month, error) {
	view, err := t.View(ctx, p)
	if err != nil {
		return nil, err
	}
	return BuildMonth(p, view, t.Today()), nil
}

// BuildMonth grades each day of p against view.
func BuildMonth(p Period, view []model.ReportInstance, today time.Time) *Month {
	m := &Month{Period: p, View: view}
	for _, week := range p.Weeks() {
		var row [7]Day
		for i, d := range week {
			if d.IsZero() {
				continue
			}
			row[i] = GradeDay(d, view)
			row[i].Today = d.Equal(model.Date(today))
		}
		m.Weeks = append(m.Weeks, row)
	}
	return m
}

// GradeDay computes the calendar cell for a single date.
func GradeDay(d time.Time, view []model.ReportInstance) Day {
	day := Day{Date: d, Color: schedule.DayColor(d, view)}
	if inst, diff, ok := schedule.Urgency(d, view); ok {
		day.Report = inst
		day.DiffDays = diff
		day.Active = true
	}
	return day
}
