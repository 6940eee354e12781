package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/duecal/internal/model"
	"github.com/Veraticus/duecal/internal/schedule"
	"google.golang.org/api/sheets/v4"
)

// headerRows is the number of rows above the first report row.
const headerRows = 3

var columns = []any{
	"Report Name",
	"From Date",
	"Deadline",
	"Status",
	"PIC",
	"Added By",
	"Added Date",
	"Days Left",
}

// TabTitle names the tab holding a month, e.g. "April 2024".
func TabTitle(month time.Month, year int) string {
	return fmt.Sprintf("%s %d", month, year)
}

// prepareRows lays out the month view as a title line, a blank line, the
// column header and one row per instance in view order.
func prepareRows(month time.Month, year int, view []model.ReportInstance, today time.Time) [][]any {
	values := make([][]any, 0, headerRows+len(view))
	values = append(values,
		[]any{"Report Calendar", TabTitle(month, year)},
		[]any{},
		columns,
	)

	for _, inst := range view {
		values = append(values, []any{
			inst.ReportName,
			model.FormatDate(inst.FromDate),
			model.FormatDate(inst.Deadline),
			string(inst.Status),
			inst.ResponsibleParty,
			string(inst.AddedBy),
			model.FormatDate(inst.AddedDate),
			schedule.DiffDays(inst.Deadline, today),
		})
	}

	return values
}

// sheetColor converts a calendar color to the API representation.
func sheetColor(c schedule.Color) *sheets.Color {
	return &sheets.Color{
		Red:   float64(c.R) / 255,
		Green: float64(c.G) / 255,
		Blue:  float64(c.B) / 255,
		Alpha: 1.0,
	}
}

// formatRequests bolds the title and header, freezes the header and paints
// each status cell with its status color.
func formatRequests(sheetID int64, view []model.ReportInstance) []*sheets.Request {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 14},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: headerRows - 1,
					EndRowIndex:   headerRows,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9, Alpha: 1.0},
					},
				},
				Fields: "userEnteredFormat.textFormat,userEnteredFormat.backgroundColor",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: headerRows},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	statusCol := int64(3)
	for i, inst := range view {
		row := int64(headerRows + i)
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    row,
					EndRowIndex:      row + 1,
					StartColumnIndex: statusCol,
					EndColumnIndex:   statusCol + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: sheetColor(schedule.StatusColor(inst.Status)),
						TextFormat: &sheets.TextFormat{
							ForegroundColor: &sheets.Color{Red: 1, Green: 1, Blue: 1, Alpha: 1},
						},
					},
				},
				Fields: "userEnteredFormat.backgroundColor,userEnteredFormat.textFormat.foregroundColor",
			},
		})
	}

	requests = append(requests, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   int64(len(columns)),
			},
		},
	})

	return requests
}
