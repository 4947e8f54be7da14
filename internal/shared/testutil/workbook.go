package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TimecardHeader is the header row of the standard payroll export
var TimecardHeader = []any{"Position ID", "Employee Name", "Time", "Time Out", "Timecard Hours (as Time)"}

// ShiftRow describes one data row of a fixture workbook. Values are written
// with their Go type, so float64 dates become numeric cells and string hours
// become text cells. A nil Hours leaves the cell empty.
type ShiftRow struct {
	Employee string
	Time     any
	TimeOut  any
	Hours    any
}

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial converts t to a spreadsheet date serial
func Serial(t time.Time) float64 {
	return float64(t.Sub(excelEpoch).Milliseconds()) / float64(24*time.Hour/time.Millisecond)
}

// At is a shorthand for the serial of a UTC wall time
func At(year int, month time.Month, day, hour, minute int) float64 {
	return Serial(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

// WriteTimecardWorkbook saves a workbook with one sheet holding the standard
// header followed by rows, and returns its path.
func WriteTimecardWorkbook(t *testing.T, dir, name string, rows []ShiftRow) string {
	t.Helper()
	return WriteWorkbook(t, dir, name, "Sheet1", TimecardHeader, rows)
}

// WriteWorkbook saves a workbook whose first sheet is named sheet, with the
// given header row followed by rows. Columns follow TimecardHeader's layout.
func WriteWorkbook(t *testing.T, dir, name, sheet string, header []any, rows []ShiftRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		values := []any{i + 1, r.Employee, r.Time, r.TimeOut, r.Hours}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}
