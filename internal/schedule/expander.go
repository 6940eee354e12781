// Package schedule derives monthly report instances from the catalog, merges
// them with the ledger, and grades calendar days by deadline urgency.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/duecal/internal/model"
)

// DefaultDeadlineDay is used when a deadline rule carries no usable number.
const DefaultDeadlineDay = 15

// ErrDeadlineOverflow is returned under OverflowReject when a rule names a day
// the target month does not have.
var ErrDeadlineOverflow = errors.New("deadline day exceeds days in month")

// OverflowPolicy decides what happens to a deadline day past the end of the month.
type OverflowPolicy string

const (
	// OverflowClamp moves the deadline to the last day of the month.
	OverflowClamp OverflowPolicy = "clamp"
	// OverflowReject fails the expansion with ErrDeadlineOverflow.
	OverflowReject OverflowPolicy = "reject"
)

// ParseOverflowPolicy validates a configured policy name. Empty means clamp.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverflowClamp:
		return OverflowClamp, nil
	case OverflowReject:
		return OverflowReject, nil
	default:
		return "", fmt.Errorf("invalid overflow policy %q (want clamp or reject)", s)
	}
}

// Expander turns catalog definitions into the periodical instances due in a month.
type Expander struct {
	// Now stamps AddedDate. Defaults to time.Now.
	Now      func() time.Time
	Overflow OverflowPolicy
}

// NewExpander creates an expander with the given overflow policy.
func NewExpander(policy OverflowPolicy) *Expander {
	return &Expander{Now: time.Now, Overflow: policy}
}

// Expand returns one instance per periodical definition applicable to
// month/year, in catalog order.
func (e *Expander) Expand(defs []model.ReportDefinition, month time.Month, year int) ([]model.ReportInstance, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	added := model.Date(now())
	lastDay := DaysIn(month, year)

	instances := make([]model.ReportInstance, 0, len(defs))
	for _, def := range defs {
		if def.Type != model.ReportTypePeriodical || !AppliesTo(def.Period, month) {
			continue
		}

		day, last := ParseDeadlineDay(def.DeadlineRule)
		if last {
			day = lastDay
		}
		if day > lastDay {
			if e.Overflow == OverflowReject {
				return nil, fmt.Errorf("%w: %q resolves to day %d of %s %d",
					ErrDeadlineOverflow, def.Name, day, month, year)
			}
			day = lastDay
		}

		instances = append(instances, model.ReportInstance{
			ReportName:       def.Name,
			Month:            month,
			Year:             year,
			FromDate:         time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
			Deadline:         time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			Status:           model.StatusNotStarted,
			ResponsibleParty: def.ResponsibleParty,
			AddedBy:          model.AddedBySystem,
			AddedDate:        added,
		})
	}

	return instances, nil
}

// AppliesTo reports whether a free-text period covers month. A period applies
// when it contains "every month" or the full month name, case-insensitively.
func AppliesTo(period string, month time.Month) bool {
	p := strings.ToLower(period)
	return strings.Contains(p, "every month") || strings.Contains(p, strings.ToLower(month.String()))
}

// ParseDeadlineDay reads a deadline rule.
//
// A rule containing "last" (any case) means the last day of the month and
// last is true. Otherwise every decimal digit in the rule is concatenated in
// order and parsed, so "Every 5th of month" yields 5. Rules without digits, or
// whose digits are all zero, yield DefaultDeadlineDay. A digit run too large
// for an int yields math.MaxInt, which the overflow policy then handles like
// any other day past the end of the month.
func ParseDeadlineDay(rule string) (day int, last bool) {
	if strings.Contains(strings.ToLower(rule), "last") {
		return 0, true
	}

	var digits strings.Builder
	for _, r := range rule {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	n, err := strconv.Atoi(digits.String())
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, false
	}
	if err != nil || n <= 0 {
		return DefaultDeadlineDay, false
	}
	return n, false
}

// DaysIn returns the number of days in month of year, leap years included.
func DaysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
