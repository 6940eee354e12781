package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
)

var tableColumns = []string{"Report Name", "From Date", "Deadline", "Status", "PIC", "Added By", "Added Date", "Due"}

// WriteView writes the month view as an aligned table.
func WriteView(w io.Writer, view []model.ReportInstance, today time.Time) error {
	if len(view) == 0 {
		_, err := fmt.Fprintln(w, InfoStyle.Render("No reports due this month."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(tableColumns, "\t")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	seps := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		seps[i] = strings.Repeat("─", len(col))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(seps, "\t")); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, inst := range view {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inst.ReportName,
			dash(model.FormatDate(inst.FromDate)),
			model.FormatDate(inst.Deadline),
			inst.Status,
			dash(inst.ResponsibleParty),
			inst.AddedBy,
			dash(model.FormatDate(inst.AddedDate)),
			DueIn(schedule.DiffDays(inst.Deadline, today))); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", inst.ReportName, err)
		}
	}

	return tw.Flush()
}

// DueIn describes a day distance relative to today.
func DueIn(diff int) string {
	switch {
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff == -1:
		return "1 day ago"
	case diff < 0:
		return strconv.Itoa(-diff) + " days ago"
	default:
		return "in " + strconv.Itoa(diff) + " days"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
