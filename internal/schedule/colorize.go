package schedule

import (
	"fmt"
	"time"

	"github.com/Veraticus/duecal/internal/model"
)

// LookaheadDays is the size of the urgency window. A day is highlighted when
// a deadline falls on it or up to this many days after it.
const LookaheadDays = 3

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// CSS renders the color as rgb(r,g,b).
func (c Color) CSS() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Calendar palette.
var (
	NoReportColor   = Color{R: 0x2C, G: 0x2C, B: 0x2C}
	NotStartedColor = Color{R: 211, G: 47, B: 47}
	InProgressColor = Color{R: 251, G: 192, B: 45}
	CompletedColor  = Color{R: 56, G: 142, B: 60}
)

// StatusColor returns the undiluted color for a status. Unknown statuses are
// treated as not started.
func StatusColor(status model.ReportStatus) Color {
	switch status {
	case model.StatusCompleted:
		return CompletedColor
	case model.StatusInProgress:
		return InProgressColor
	default:
		return NotStartedColor
	}
}

// DiffDays returns the number of calendar days from day to deadline. Time of
// day and location are ignored.
func DiffDays(deadline, day time.Time) int {
	return int(model.Date(deadline).Sub(model.Date(day)).Hours() / 24)
}

// Urgency finds the first instance in view whose deadline lies within the
// lookahead window of day. It returns the instance and its distance in days.
func Urgency(day time.Time, view []model.ReportInstance) (model.ReportInstance, int, bool) {
	for _, inst := range view {
		diff := DiffDays(inst.Deadline, day)
		if diff >= 0 && diff <= LookaheadDays {
			return inst, diff, true
		}
	}
	return model.ReportInstance{}, 0, false
}

// DayColor grades day by the first active deadline in view. The status color
// fades linearly toward white as the deadline gets further away: the deadline
// day itself gets the pure status color and the far edge of the window gets
// white. Days with no active deadline get NoReportColor.
func DayColor(day time.Time, view []model.ReportInstance) Color {
	inst, diff, ok := Urgency(day, view)
	if !ok {
		return NoReportColor
	}
	return fade(StatusColor(inst.Status), diff)
}

func fade(base Color, diff int) Color {
	factor := 1 - float64(diff)/LookaheadDays
	mix := func(c uint8) uint8 {
		return uint8(float64(c) + float64((255-float64(c))*(1-factor)))
	}
	return Color{R: mix(base.R), G: mix(base.G), B: mix(base.B)}
}
