package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected ReportStatus
		wantErr  bool
	}{
		{input: "Not Started", expected: StatusNotStarted},
		{input: "in progress", expected: StatusInProgress},
		{input: " COMPLETED ", expected: StatusCompleted},
		{input: "Done", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestReportStatus_Next(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusNotStarted.Next())
	assert.Equal(t, StatusCompleted, StatusInProgress.Next())
	assert.Equal(t, StatusNotStarted, StatusCompleted.Next())
	assert.Equal(t, StatusNotStarted, ReportStatus("bogus").Next())
}

func TestReportInstance_Key(t *testing.T) {
	a := ReportInstance{
		ReportName: "VAT Return",
		Deadline:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		Status:     StatusNotStarted,
	}
	b := a
	b.Status = StatusCompleted
	b.Deadline = time.Date(2024, 4, 30, 17, 45, 0, 0, time.UTC)

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, Identity{ReportName: "VAT Return", Deadline: "2024-04-30"}, a.Key())
}

func TestParseMonthName(t *testing.T) {
	m, err := ParseMonthName("april")
	require.NoError(t, err)
	assert.Equal(t, time.April, m)

	_, err = ParseMonthName("Apr")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Empty(t, FormatDate(time.Time{}))
	assert.Equal(t, "2024-02-29", FormatDate(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
}
