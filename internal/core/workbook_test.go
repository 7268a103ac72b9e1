package core

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestLoadWorkbook(t *testing.T) {
	data := buildWorkbook(t, "Données", [][]any{
		{"Année", "Article", "Ventes"},
		{2019, "Chaise", 10},
		{},
		{2020, "Chaise", 12.5},
		{2021, "Chaise"},
	})

	table, err := LoadWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}

	wantCols := []string{"Année", "Article", "Ventes"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantCols)
	}

	wantRows := [][]string{
		{"2019", "Chaise", "10"},
		{"2020", "Chaise", "12.5"},
		{"2021", "Chaise", ""},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %q, want %q", table.Rows, wantRows)
	}
}

func TestLoadWorkbook_DataBeyondHeader(t *testing.T) {
	data := buildWorkbook(t, "", [][]any{
		{"Année", "", "Article", "Ventes"},
		{2019, "x", "A", 10, nil, "note"},
		{2020, nil, "A", 12},
	})

	table, err := LoadWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}

	wantCols := []string{"Année", "Unnamed: 1", "Article", "Ventes", "Unnamed: 4", "Unnamed: 5"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %q, want %q", table.Columns, wantCols)
	}
	wantRows := [][]string{
		{"2019", "x", "A", "10", "", "note"},
		{"2020", "", "A", "12", "", ""},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Errorf("Rows = %q, want %q", table.Rows, wantRows)
	}

	exported, err := ExportWorkbook(table)
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}
	reloaded, err := LoadWorkbook(bytes.NewReader(exported))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(reloaded, table) {
		t.Errorf("round trip lost cells: %q", reloaded.Rows)
	}
}

func TestLoadWorkbook_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantMsg string
	}{
		{
			name:    "not a workbook",
			data:    []byte("Année;Article;Ventes\n2019;A;10\n"),
			wantMsg: "open workbook",
		},
		{
			name:    "empty sheet",
			data:    buildWorkbook(t, "", nil),
			wantMsg: "empty file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWorkbook(bytes.NewReader(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *Error
			if !errors.As(err, &pe) || pe.Kind != KindParse {
				t.Fatalf("expected KindParse *Error, got %v", err)
			}
			if !strings.HasPrefix(pe.Message, msgReadPrefix) {
				t.Errorf("Message = %q, want prefix %q", pe.Message, msgReadPrefix)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestExportWorkbook_Layout(t *testing.T) {
	data, err := ExportWorkbook(fourYearsA)
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != ExportSheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, ExportSheetName)
	}

	rows, err := f.GetRows(ExportSheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want header + 4", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"Année", "Article", "Ventes"}) {
		t.Errorf("header = %v, no index column expected", rows[0])
	}
	if !reflect.DeepEqual(rows[4], []string{"2022", "A", "13"}) {
		t.Errorf("last row = %v", rows[4])
	}
}

func TestExportWorkbook_RoundTrip(t *testing.T) {
	original := &Table{
		Columns: []string{"Région", "Année", "Article", "Ventes"},
		Rows: [][]string{
			{"Nord", "2019", "Chaise à bascule", "10.25"},
			{"", "2020", "Chaise à bascule", "12"},
			{"Sud", "2021", "007", "0.1"},
			{"Est", "2022", "Table", ""},
		},
	}

	data, err := ExportWorkbook(original)
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}
	loaded, err := LoadWorkbook(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadWorkbook: %v", err)
	}

	if !reflect.DeepEqual(loaded, original) {
		t.Errorf("round trip mismatch:\n got  %q\n want %q", loaded, original)
	}
}

func TestCellValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", nil},
		{"2019", int64(2019)},
		{"12.5", 12.5},
		{"-3", int64(-3)},
		{"007", "007"},
		{"1e3", "1e3"},
		{"Chaise", "Chaise"},
	}

	for _, tt := range tests {
		if got := cellValue(tt.input); got != tt.want {
			t.Errorf("cellValue(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}
