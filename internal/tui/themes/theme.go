// Package themes holds the TUI color themes.
package themes

import (
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style
	Dirty       lipgloss.Style
	BorderedBox lipgloss.Style
	Table       table.Styles
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Error       lipgloss.Color
	Warning     lipgloss.Color
	Success     lipgloss.Color
}

// Default is the default theme.
var Default = newDefault()

func newDefault() Theme {
	t := Theme{
		Primary: lipgloss.Color("#7c3aed"),
		Muted:   lipgloss.Color("#737373"),
		Border:  lipgloss.Color("#404040"),
		Error:   lipgloss.Color(schedule.NotStartedColor.Hex()),
		Warning: lipgloss.Color(schedule.InProgressColor.Hex()),
		Success: lipgloss.Color(schedule.CompletedColor.Hex()),
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.Subtitle = lipgloss.NewStyle().Foreground(t.Muted)
	t.StatusInfo = lipgloss.NewStyle().Foreground(t.Success)
	t.StatusError = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	t.Dirty = lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
	t.BorderedBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	t.Table = table.DefaultStyles()
	t.Table.Header = t.Table.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Bold(true)
	t.Table.Selected = t.Table.Selected.
		Foreground(lipgloss.Color("#fafafa")).
		Background(t.Primary).
		Bold(true)

	return t
}
