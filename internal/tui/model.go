// Package tui is the interactive month calendar: a colored calendar above an
// editable table of the month's reports.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/Veraticus/duecal/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Tracker is what the TUI needs from the tracker.
type Tracker interface {
	Month(ctx context.Context, p tracker.Period) (*tracker.Month, error)
	Save(ctx context.Context, view []model.ReportInstance) error
	Today() time.Time
}

// Model holds the TUI state. The displayed period lives here and nowhere else.
type Model struct {
	ctx       context.Context
	tracker   Tracker
	lastError error
	month     *tracker.Month
	pending   *tracker.Period
	theme     themes.Theme
	status    string
	view      []model.ReportInstance
	help      help.Model
	keymap    KeyMap
	table     table.Model
	period    tracker.Period
	width     int
	height    int
	dirty     bool
	loading   bool
	saving    bool
	quitting  bool
}

// New creates the TUI model.
func New(ctx context.Context, tr Tracker, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Start.Month == 0 {
		cfg.Start = tracker.PeriodOf(tr.Today())
	}

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	t.SetStyles(cfg.Theme.Table)

	return Model{
		ctx:     ctx,
		tracker: tr,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		table:   t,
		period:  cfg.Start,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
}

// Init loads the first month.
func (m Model) Init() tea.Cmd {
	return m.loadMonth(m.period)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(m.width))
		m.table.SetHeight(tableHeight(m.height))
		m.help.Width = m.width
		return m, nil

	case monthLoadedMsg:
		// A slower load for a month the user already left.
		if msg.period != m.period {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.month = msg.month
		m.view = make([]model.ReportInstance, len(msg.month.View))
		copy(m.view, msg.month.View)
		m.dirty = false
		m.refreshTable()
		return m, nil

	case savedMsg:
		m.saving = false
		pending := m.pending
		m.pending = nil
		if msg.err != nil {
			m.lastError = fmt.Errorf("save failed: %w", msg.err)
			return m, nil
		}
		m.lastError = nil
		m.status = fmt.Sprintf("Saved %d reports for %s", msg.entries, msg.period)
		m.dirty = false
		if pending != nil {
			m.period = *pending
		}
		m.loading = true
		return m, m.loadMonth(m.period)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.PrevMonth):
		return m.goTo(m.target().Prev())

	case key.Matches(msg, m.keymap.NextMonth):
		return m.goTo(m.target().Next())

	case key.Matches(msg, m.keymap.Today):
		return m.goTo(tracker.PeriodOf(m.tracker.Today()))

	case key.Matches(msg, m.keymap.Reload):
		return m.goTo(m.target())

	case key.Matches(msg, m.keymap.NextStatus):
		if m.loading || m.saving || len(m.view) == 0 {
			return m, nil
		}
		i := m.table.Cursor()
		if i < 0 || i >= len(m.view) {
			return m, nil
		}
		m.view[i].Status = m.view[i].Status.Next()
		m.dirty = true
		m.status = ""
		m.regrade()
		return m, nil

	case key.Matches(msg, m.keymap.Save):
		if m.saving || m.loading || m.month == nil {
			return m, nil
		}
		m.saving = true
		m.status = "Saving..."
		return m, m.save()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// goTo switches the displayed period. Unsaved edits are dropped. While a save
// is in flight the switch waits for savedMsg, so the tracker never sees a load
// and a save at the same time.
func (m Model) goTo(p tracker.Period) (tea.Model, tea.Cmd) {
	if m.saving {
		m.pending = &p
		m.status = "Saving... then showing " + p.String()
		return m, nil
	}
	if m.dirty {
		m.status = "Unsaved changes to " + m.period.String() + " discarded"
	} else {
		m.status = ""
	}
	m.period = p
	m.dirty = false
	m.loading = true
	return m, m.loadMonth(p)
}

// target is the period navigation starts from: a queued switch if there is
// one, otherwise the displayed month.
func (m Model) target() tracker.Period {
	if m.pending != nil {
		return *m.pending
	}
	return m.period
}

// regrade recolors the calendar from the edited view.
func (m *Model) regrade() {
	m.month = tracker.BuildMonth(m.period, m.view, m.tracker.Today())
	m.refreshTable()
}

func (m *Model) refreshTable() {
	rows := make([]table.Row, len(m.view))
	for i, inst := range m.view {
		rows[i] = table.Row{
			inst.ReportName,
			model.FormatDate(inst.Deadline),
			string(inst.Status),
			inst.ResponsibleParty,
			string(inst.AddedBy),
		}
	}

	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	switch {
	case len(rows) == 0:
		m.table.SetCursor(0)
	case cursor >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	case cursor < 0:
		m.table.SetCursor(0)
	}
}

// Period returns the displayed month.
func (m Model) Period() tracker.Period {
	return m.period
}

// Dirty reports whether there are unsaved edits.
func (m Model) Dirty() bool {
	return m.dirty
}

func columns(width int) []table.Column {
	name := 28
	pic := 24
	if width > 100 {
		name += (width - 100) / 2
		pic += (width - 100) / 2
	}
	return []table.Column{
		{Title: "Report Name", Width: name},
		{Title: "Deadline", Width: 10},
		{Title: "Status", Width: 11},
		{Title: "PIC", Width: pic},
		{Title: "Added By", Width: 8},
	}
}

// tableHeight leaves room for the calendar, legend and help.
func tableHeight(height int) int {
	return max(height-16, 3)
}
