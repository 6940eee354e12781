package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
	"github.com/Veraticus/duecal/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	saveErr error
	months  map[tracker.Period][]model.ReportInstance
	saved   [][]model.ReportInstance
	today   time.Time
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		today: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC),
		months: map[tracker.Period][]model.ReportInstance{
			{Month: time.April, Year: 2024}: {
				{
					ReportName: "Monthly Tax Filing",
					Month:      time.April,
					Year:       2024,
					Deadline:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
					Status:     model.StatusNotStarted,
					AddedBy:    model.AddedBySystem,
				},
				{
					ReportName: "Payroll Summary",
					Month:      time.April,
					Year:       2024,
					Deadline:   time.Date(2024, 4, 25, 0, 0, 0, 0, time.UTC),
					Status:     model.StatusNotStarted,
					AddedBy:    model.AddedBySystem,
				},
			},
		},
	}
}

func (f *fakeTracker) Month(_ context.Context, p tracker.Period) (*tracker.Month, error) {
	view := make([]model.ReportInstance, len(f.months[p]))
	copy(view, f.months[p])
	return tracker.BuildMonth(p, view, f.today), nil
}

func (f *fakeTracker) Save(_ context.Context, view []model.ReportInstance) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, view)
	if len(view) > 0 {
		f.months[tracker.PeriodOf(view[0].Deadline)] = view
	}
	return nil
}

func (f *fakeTracker) Today() time.Time {
	return f.today
}

// send applies msg and runs any resulting command once, feeding its message
// back into the model.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, f *fakeTracker) Model {
	t.Helper()
	m := New(context.Background(), f)
	require.True(t, m.loading)
	out := m.Init()()
	next, _ := m.Update(out)
	m = next.(Model)
	require.False(t, m.loading)
	return m
}

func TestModel_InitialLoad(t *testing.T) {
	m := loadedModel(t, newFakeTracker())

	assert.Equal(t, tracker.Period{Month: time.April, Year: 2024}, m.Period())
	assert.Len(t, m.view, 2)
	assert.Len(t, m.table.Rows(), 2)
	assert.Contains(t, m.View(), "April 2024")
	assert.Contains(t, m.View(), "Monthly Tax Filing")
}

func TestModel_MonthNavigation(t *testing.T) {
	m := loadedModel(t, newFakeTracker())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tracker.Period{Month: time.May, Year: 2024}, m.Period())
	assert.Empty(t, m.view)
	assert.Contains(t, m.View(), "No reports due this month.")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tracker.Period{Month: time.March, Year: 2024}, m.Period())

	m = send(t, m, keyRunes("t"))
	assert.Equal(t, tracker.Period{Month: time.April, Year: 2024}, m.Period())
}

func TestModel_StaleLoadIgnored(t *testing.T) {
	f := newFakeTracker()
	m := loadedModel(t, f)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)

	stale, err := f.Month(context.Background(), tracker.Period{Month: time.April, Year: 2024})
	require.NoError(t, err)
	next, _ = m.Update(monthLoadedMsg{period: tracker.Period{Month: time.April, Year: 2024}, month: stale})
	m = next.(Model)

	assert.True(t, m.loading)
	assert.Equal(t, time.May, m.Period().Month)
}

func TestModel_CycleStatusAndSave(t *testing.T) {
	f := newFakeTracker()
	m := loadedModel(t, f)

	// Second row: cycle twice to Completed.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, keyRunes("s"))
	m = send(t, m, keyRunes("s"))
	assert.True(t, m.Dirty())
	assert.Equal(t, model.StatusCompleted, m.view[1].Status)
	assert.Equal(t, model.StatusNotStarted, m.view[0].Status)
	assert.Contains(t, m.View(), "unsaved changes")

	// The fake's stored month is untouched until save.
	assert.Equal(t, model.StatusNotStarted, f.months[m.Period()][1].Status)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, f.saved, 1)
	assert.Equal(t, model.StatusCompleted, f.saved[0][1].Status)
	assert.Contains(t, m.status, "Saved 2 reports for April 2024")

	// Saving triggers a reload that shows the persisted state.
	next, cmd := m.Update(savedMsg{period: m.Period(), entries: 2})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.Dirty())
	assert.Equal(t, model.StatusCompleted, m.view[1].Status)
}

func TestModel_StatusRecolorsCalendar(t *testing.T) {
	m := loadedModel(t, newFakeTracker())

	// April 10th: first row, Wednesday of the second week.
	tenth := m.month.Weeks[1][2]
	require.Equal(t, 10, tenth.Date.Day())
	assert.Equal(t, schedule.NotStartedColor, tenth.Color)

	m = send(t, m, keyRunes("s"))
	assert.Equal(t, schedule.InProgressColor, m.month.Weeks[1][2].Color)
}

func TestModel_NavigationDiscardsEdits(t *testing.T) {
	f := newFakeTracker()
	m := loadedModel(t, f)

	m = send(t, m, keyRunes("s"))
	require.True(t, m.Dirty())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.False(t, m.Dirty())
	assert.Contains(t, m.status, "discarded")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, model.StatusNotStarted, m.view[0].Status)
	assert.Empty(t, f.saved)
}

func TestModel_NavigationWaitsForSave(t *testing.T) {
	f := newFakeTracker()
	m := loadedModel(t, f)
	m = send(t, m, keyRunes("s"))

	next, saveCmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)
	require.NotNil(t, saveCmd)
	require.True(t, m.saving)

	// Navigation during the save is queued, not started.
	next, navCmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	assert.Nil(t, navCmd)
	assert.Equal(t, time.April, m.Period().Month)

	next, navCmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	assert.Nil(t, navCmd)
	assert.Contains(t, m.status, "June 2024")

	// Edits are frozen while saving.
	m = send(t, m, keyRunes("s"))
	assert.Equal(t, model.StatusInProgress, m.view[0].Status)

	saved := saveCmd()
	require.IsType(t, savedMsg{}, saved)
	require.Len(t, f.saved, 1)

	next, loadCmd := m.Update(saved)
	m = next.(Model)
	require.NotNil(t, loadCmd)
	assert.Equal(t, tracker.Period{Month: time.June, Year: 2024}, m.Period())
	assert.False(t, m.Dirty())

	loaded := loadCmd()
	require.IsType(t, monthLoadedMsg{}, loaded)
	assert.Equal(t, tracker.Period{Month: time.June, Year: 2024}, loaded.(monthLoadedMsg).period)

	next, _ = m.Update(loaded)
	m = next.(Model)
	assert.False(t, m.loading)
	assert.Empty(t, m.view)
}

func TestModel_SaveError(t *testing.T) {
	f := newFakeTracker()
	f.saveErr = errors.New("disk full")
	m := loadedModel(t, f)

	m = send(t, m, keyRunes("s"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Error(t, m.lastError)
	assert.Contains(t, m.lastError.Error(), "disk full")
	assert.True(t, m.Dirty())
	assert.False(t, m.saving)
	assert.Contains(t, m.View(), "save failed")
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t, newFakeTracker())

	next, cmd := m.Update(keyRunes("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_HelpToggle(t *testing.T) {
	m := loadedModel(t, newFakeTracker())
	assert.False(t, m.help.ShowAll)

	m = send(t, m, keyRunes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "discard edits")
}

func TestModel_Resize(t *testing.T) {
	m := loadedModel(t, newFakeTracker())
	m = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})

	assert.Equal(t, 140, m.width)
	assert.Equal(t, 34, m.table.Height())
	assert.Equal(t, 48, m.table.Columns()[0].Width)
}
