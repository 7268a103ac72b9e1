package core

// workbook.go is the Loader and the Exporter.
//
// Both work on in-memory buffers only. Cells are read with RawCellValue so
// that numbers come back exactly as they were stored, which makes
// ExportWorkbook followed by LoadWorkbook lossless.

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

var errEmptyWorkbook = errors.New("empty file: the first sheet has no header row")

// LoadWorkbook parses an .xlsx payload into a Table built from its first sheet.
// The first row is the header. Fully blank rows are skipped. Data found
// beyond the header, or under a blank header cell, is kept in a column named
// "Unnamed: <index>".
func LoadWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, parseError(fmt.Errorf("open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(errEmptyWorkbook)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseError(fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	if len(rows) == 0 || lo.EveryBy(rows[0], func(c string) bool { return CleanCell(c) == "" }) {
		return nil, parseError(errEmptyWorkbook)
	}

	width := lastFilled(rows[0])
	for _, row := range rows[1:] {
		width = max(width, lastFilled(row))
	}

	t := &Table{Columns: make([]string, width)}
	for i := range t.Columns {
		if i < len(rows[0]) {
			t.Columns[i] = CleanCell(rows[0][i])
		}
		if t.Columns[i] == "" {
			t.Columns[i] = unnamedColumn(i)
		}
	}

	for _, row := range rows[1:] {
		if lastFilled(row) == 0 {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t, nil
}

// lastFilled returns the position after the last non-blank cell of row.
func lastFilled(row []string) int {
	for i := len(row) - 1; i >= 0; i-- {
		if CleanCell(row[i]) != "" {
			return i + 1
		}
	}
	return 0
}

// unnamedColumn names a column without a header cell, counting from 0.
func unnamedColumn(i int) string {
	return "Unnamed: " + strconv.Itoa(i)
}

// ExportWorkbook serialises t to an .xlsx workbook with a single sheet named
// "Prévisions": the header row then every row, without an index column.
// Cells that parse as numbers are written as numeric cells.
func ExportWorkbook(t *Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := lo.Map(t.Columns, func(c string, _ int) any { return c })
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		values := lo.Map(row, func(v string, _ int) any { return cellValue(v) })
		if err := f.SetSheetRow(ExportSheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue picks the stored type of an exported cell. Empty cells stay
// blank so extra columns of forecast rows are left empty. Only canonical
// number text becomes numeric, so labels such as "007" survive a round trip.
func cellValue(v string) any {
	if v == "" {
		return nil
	}
	if !numericRegex.MatchString(v) {
		return v
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && strconv.FormatInt(n, 10) == v {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && FormatQuantity(f) == v {
		return f
	}
	return v
}
