package tui

import (
	"context"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 30 * time.Second

// loadMonth recomputes the month view for p.
func (m Model) loadMonth(p tracker.Period) tea.Cmd {
	tr := m.tracker
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()

		month, err := tr.Month(ctx, p)
		return monthLoadedMsg{period: p, month: month, err: err}
	}
}

// save persists the edited view.
func (m Model) save() tea.Cmd {
	tr := m.tracker
	parent := m.ctx
	p := m.period
	view := make([]model.ReportInstance, len(m.view))
	copy(view, m.view)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()

		return savedMsg{period: p, entries: len(view), err: tr.Save(ctx, view)}
	}
}
