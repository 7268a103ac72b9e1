package core

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows to the first sheet of a new workbook, the way a
// user would save it from a spreadsheet program: numbers as numeric cells.
func buildWorkbook(t testing.TB, sheet string, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			t.Fatalf("SetSheetName: %v", err)
		}
	}
	name := f.GetSheetName(0)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// salesTable builds a Table with the three required columns.
func salesTable(rows ...[]string) *Table {
	return &Table{
		Columns: []string{ColumnYear, ColumnItem, ColumnQuantity},
		Rows:    rows,
	}
}

// Scenario tables used across the pipeline tests.
var (
	fourYearsA = salesTable(
		[]string{"2019", "A", "10"},
		[]string{"2020", "A", "12"},
		[]string{"2021", "A", "11"},
		[]string{"2022", "A", "13"},
	)
	twoYearsB = salesTable(
		[]string{"2020", "B", "5"},
		[]string{"2021", "B", "6"},
	)
)
