package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/charmbracelet/lipgloss"
)

const cellWidth = 6

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var (
	cellStyle  = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	todayStyle = cellStyle.Bold(true).Underline(true)
)

// textColor picks black or white text for a background.
func textColor(bg schedule.Color) lipgloss.Color {
	// ITU-R BT.601 luma.
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 140 {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color("#FFFFFF")
}

// DayLabel is the text shown in a calendar cell. Today is bracketed so it
// stays visible without color.
func DayLabel(day tracker.Day) string {
	if day.Date.IsZero() {
		return ""
	}
	if day.Today {
		return fmt.Sprintf("[%2d]", day.Date.Day())
	}
	return fmt.Sprintf("%2d", day.Date.Day())
}

// RenderDay renders one calendar cell with its urgency background.
func RenderDay(day tracker.Day) string {
	if day.Date.IsZero() {
		return cellStyle.Render("")
	}
	style := cellStyle
	if day.Today {
		style = todayStyle
	}
	return style.
		Background(lipgloss.Color(day.Color.Hex())).
		Foreground(textColor(day.Color)).
		Render(DayLabel(day))
}

// RenderCalendar renders a month as a Monday-first grid followed by the legend.
func RenderCalendar(m *tracker.Month) string {
	width := cellWidth * len(weekdays)
	title := lipgloss.NewStyle().Bold(true).Width(width).Align(lipgloss.Center).Render(m.Period.String())

	header := make([]string, len(weekdays))
	for i, name := range weekdays {
		header[i] = HeaderStyle.Width(cellWidth).Align(lipgloss.Center).Render(name)
	}

	rows := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for _, week := range m.Weeks {
		cells := make([]string, len(week))
		for i, day := range week {
			cells[i] = RenderDay(day)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "", RenderLegend())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderLegend explains the calendar colors.
func RenderLegend() string {
	entries := []struct {
		color schedule.Color
		label string
	}{
		{schedule.NotStartedColor, "Not Started"},
		{schedule.InProgressColor, "In Progress"},
		{schedule.CompletedColor, "Completed"},
		{schedule.NoReportColor, "No deadline"},
	}

	parts := make([]string, len(entries))
	for i, e := range entries {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(e.color.Hex())).Render("  ")
		parts[i] = swatch + " " + e.label
	}
	return strings.Join(parts, "   ") + "\n" +
		SubtleStyle.Render(fmt.Sprintf("Colors fade toward white up to %d days before a deadline.", schedule.LookaheadDays))
}
