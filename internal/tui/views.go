package tui

import (
	"github.com/Veraticus/duecal/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.theme.Title.Render("duecal · " + m.period.String())
	if m.dirty {
		header += "  " + m.theme.Dirty.Render("● unsaved changes")
	}

	var body string
	switch {
	case m.month == nil && m.lastError != nil:
		body = m.theme.StatusError.Render(m.lastError.Error())
	case m.month == nil || m.loading:
		body = m.theme.Subtitle.Render("Loading " + m.period.String() + "...")
	default:
		table := m.theme.Subtitle.Render("No reports due this month.")
		if len(m.view) > 0 {
			table = m.table.View()
		}
		body = lipgloss.JoinVertical(lipgloss.Left,
			cli.RenderCalendar(m.month),
			"",
			m.theme.BorderedBox.Render(table),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		m.renderStatus(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderStatus() string {
	if m.lastError != nil && m.month != nil {
		return m.theme.StatusError.Render(m.lastError.Error())
	}
	if m.status != "" {
		return m.theme.StatusInfo.Render(m.status)
	}
	return ""
}
