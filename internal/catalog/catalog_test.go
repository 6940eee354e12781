package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/duecal/internal/common"
	"github.com/Veraticus/duecal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `Report Name;Report Type;Report Period;Deadline;PIC
Monthly Tax Filing;Periodical;every month;last;tax@example.com
Annual Return;Periodical;March;Every 20th;
Regulator Request;Incidental;;;compliance@example.com
`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	defs := c.Definitions()
	assert.Equal(t, model.ReportDefinition{
		Name:             "Monthly Tax Filing",
		Type:             model.ReportTypePeriodical,
		Period:           "every month",
		DeadlineRule:     "last",
		ResponsibleParty: "tax@example.com",
	}, defs[0])
	assert.Empty(t, defs[1].ResponsibleParty)

	assert.Equal(t, []string{"Regulator Request"}, c.Incidental())

	def, ok := c.Lookup("Annual Return")
	require.True(t, ok)
	assert.Equal(t, "Every 20th", def.DeadlineRule)

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
}

func TestRead_WithoutPICColumn(t *testing.T) {
	input := "Report Name;Report Type;Report Period;Deadline\nVAT;Periodical;every month;20\n"
	c, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, c.Definitions()[0].ResponsibleParty)
}

func TestRead_SkipsBlankLines(t *testing.T) {
	input := "Report Name;Report Type;Report Period;Deadline\n;;;\nVAT;Periodical;every month;20\n"
	c, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: common.ErrCatalogUnavailable,
		},
		{
			name:    "missing column",
			input:   "Report Name;Report Type;Deadline\nVAT;Periodical;20\n",
			wantErr: common.ErrCatalogUnavailable,
		},
		{
			name:    "unknown type",
			input:   "Report Name;Report Type;Report Period;Deadline\nVAT;Weekly;every month;20\n",
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "missing name",
			input:   "Report Name;Report Type;Report Period;Deadline\n ;Periodical;every month;20\n",
			wantErr: ErrInvalidDefinition,
		},
		{
			name:    "duplicate name",
			input:   "Report Name;Report Type;Report Period;Deadline\nVAT;Periodical;every month;20\nVAT;Periodical;March;5\n",
			wantErr: common.ErrDuplicateEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
}

func TestDefinitions_ReturnsCopy(t *testing.T) {
	c, err := Read(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	defs := c.Definitions()
	defs[0].Name = "changed"

	assert.Equal(t, "Monthly Tax Filing", c.Definitions()[0].Name)
}
