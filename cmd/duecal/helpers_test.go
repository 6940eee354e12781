package main

import (
	"testing"
	"time"

	"github.com/Veraticus/duecal/internal/tracker"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Month
		wantErr bool
	}{
		{in: "4", want: time.April},
		{in: "12", want: time.December},
		{in: "April", want: time.April},
		{in: "september", want: time.September},
		{in: "0", wantErr: true},
		{in: "13", wantErr: true},
		{in: "Smarch", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMonth(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodFromFlags(t *testing.T) {
	original := now
	now = func() time.Time { return time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = original })

	tests := []struct {
		name string
		args []string
		want tracker.Period
	}{
		{name: "defaults to today", want: tracker.Period{Month: time.December, Year: 2024}},
		{name: "month only", args: []string{"--month", "2"}, want: tracker.Period{Month: time.February, Year: 2024}},
		{name: "year only", args: []string{"--year", "2025"}, want: tracker.Period{Month: time.December, Year: 2025}},
		{name: "both", args: []string{"--month", "July", "--year", "2023"}, want: tracker.Period{Month: time.July, Year: 2023}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			addPeriodFlags(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := periodFromFlags(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
