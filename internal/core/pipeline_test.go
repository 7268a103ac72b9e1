package core

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestRun_ForecastsFourYears(t *testing.T) {
	before := fourYearsA.Clone()

	out, err := Run(fourYearsA, Request{Item: "A", Horizon: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Warning != nil {
		t.Fatalf("unexpected warning: %v", out.Warning)
	}
	if !out.Forecasted() {
		t.Fatal("Forecasted() = false")
	}

	if len(out.Forecast) != 2 {
		t.Fatalf("got %d forecast rows, want 2", len(out.Forecast))
	}
	for i, wantYear := range []int{2023, 2024} {
		row := out.Forecast[i]
		if row.Year != wantYear || row.Item != "A" {
			t.Errorf("row %d = %+v, want year %d item A", i, row, wantYear)
		}
		if math.IsNaN(row.Quantity) || math.IsInf(row.Quantity, 0) {
			t.Errorf("row %d quantity not finite: %v", i, row.Quantity)
		}
		if row.Lower > row.Quantity || row.Quantity > row.Upper {
			t.Errorf("row %d bounds [%v, %v] do not contain %v", i, row.Lower, row.Upper, row.Quantity)
		}
	}

	if !reflect.DeepEqual(fourYearsA, before) {
		t.Error("Run modified the input table")
	}
	if out.Combined.Len() != 6 {
		t.Fatalf("Combined has %d rows, want 6", out.Combined.Len())
	}
	if !reflect.DeepEqual(out.Combined.Rows[:4], before.Rows) {
		t.Errorf("historical rows changed: %q", out.Combined.Rows[:4])
	}
	if out.Model == nil {
		t.Error("Model summary missing")
	}

	loaded, err := LoadWorkbook(bytes.NewReader(out.Workbook))
	if err != nil {
		t.Fatalf("exported workbook does not load: %v", err)
	}
	if !reflect.DeepEqual(loaded, out.Combined) {
		t.Errorf("exported workbook differs from combined table")
	}
}

func TestRun_TooFewYears(t *testing.T) {
	out, err := Run(twoYearsB, Request{Item: "B", Horizon: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Warning == nil {
		t.Fatal("expected a warning")
	}
	if out.Warning.Kind != KindInsufficientData {
		t.Errorf("Warning.Kind = %v, want %v", out.Warning.Kind, KindInsufficientData)
	}
	if out.Warning.Message != MsgInsufficientData {
		t.Errorf("Warning.Message = %q", out.Warning.Message)
	}
	if out.Warning.Halts() {
		t.Error("insufficient data must not halt")
	}
	if out.Forecasted() || out.Forecast != nil || out.Workbook != nil || out.Combined != nil {
		t.Error("no forecast or export expected")
	}
	if out.Series.Len() != 2 {
		t.Errorf("history should still be returned, got %d points", out.Series.Len())
	}
}

func TestRun_WrongColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"Year", "Item", "Qty"},
		Rows:    [][]string{{"2019", "A", "10"}},
	}

	out, err := Run(table, Request{})
	if out != nil {
		t.Error("no outcome expected on schema error")
	}
	if KindOf(err) != KindSchema {
		t.Fatalf("KindOf(err) = %v, want %v", KindOf(err), KindSchema)
	}
}

func TestRun_Selection(t *testing.T) {
	table := salesTable(
		[]string{"2019", "A", "10"},
		[]string{"2020", "A", "12"},
		[]string{"2021", "A", "11"},
		[]string{"2022", "A", "13"},
		[]string{"2020", "B", "5"},
	)

	tests := []struct {
		name        string
		req         Request
		wantKind    Kind
		wantItem    string
		wantHorizon int
	}{
		{name: "default item and horizon", req: Request{}, wantItem: "A", wantHorizon: 3},
		{name: "max horizon", req: Request{Item: "A", Horizon: 5}, wantItem: "A", wantHorizon: 5},
		{name: "second item", req: Request{Item: "B", Horizon: 1}, wantItem: "B", wantHorizon: 1},
		{name: "horizon too large", req: Request{Item: "A", Horizon: 6}, wantKind: KindInvalidInput},
		{name: "negative horizon", req: Request{Item: "A", Horizon: -1}, wantKind: KindInvalidInput},
		{name: "unknown item", req: Request{Item: "Z"}, wantKind: KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(table, tt.req)
			if tt.wantKind != 0 {
				if KindOf(err) != tt.wantKind {
					t.Fatalf("KindOf(err) = %v, want %v (err %v)", KindOf(err), tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out.Item != tt.wantItem || out.Horizon != tt.wantHorizon {
				t.Errorf("Item = %q Horizon = %d, want %q %d", out.Item, out.Horizon, tt.wantItem, tt.wantHorizon)
			}
			if !reflect.DeepEqual(out.Items, []string{"A", "B"}) {
				t.Errorf("Items = %v", out.Items)
			}
			if out.Forecasted() && len(out.Forecast) != tt.wantHorizon {
				t.Errorf("got %d forecast rows, want %d", len(out.Forecast), tt.wantHorizon)
			}
		})
	}
}

func TestRun_YearOutOfRange(t *testing.T) {
	table := salesTable(
		[]string{"9223372036854775804", "A", "10"},
		[]string{"9223372036854775805", "A", "12"},
		[]string{"9223372036854775806", "A", "11"},
		[]string{"9223372036854775807", "A", "13"},
	)

	out, err := Run(table, Request{Item: "A", Horizon: 2})
	if err == nil {
		t.Fatalf("Run() = %+v, want error", out.Forecast)
	}
	if KindOf(err) != KindParse {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindParse)
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error %q should mention the range", err)
	}
}

func TestRun_Deterministic(t *testing.T) {
	first, err := Run(fourYearsA, Request{Item: "A", Horizon: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(fourYearsA, Request{Item: "A", Horizon: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(first.Forecast, second.Forecast) {
		t.Errorf("forecasts differ:\n%v\n%v", first.Forecast, second.Forecast)
	}
	if !reflect.DeepEqual(first.Combined, second.Combined) {
		t.Error("combined tables differ")
	}
}

func TestRun_ConstantSeries(t *testing.T) {
	table := salesTable(
		[]string{"2019", "A", "5"},
		[]string{"2020", "A", "5"},
		[]string{"2021", "A", "5"},
		[]string{"2022", "A", "5"},
	)

	_, err := Run(table, Request{Item: "A"})
	var pe *Error
	if !errors.As(err, &pe) || pe.Kind != KindModelFit {
		t.Fatalf("expected KindModelFit *Error, got %v", err)
	}
	if !pe.Halts() {
		t.Error("model fit errors halt the pipeline")
	}
}

func TestRun_HeaderOnly(t *testing.T) {
	out, err := Run(salesTable(), Request{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Warning == nil || out.Warning.Kind != KindInsufficientData {
		t.Fatalf("expected insufficient data warning, got %+v", out.Warning)
	}
	if len(out.Items) != 0 || out.Series.Len() != 0 {
		t.Errorf("expected no items and no history, got %v %v", out.Items, out.Series)
	}
}

func TestPolicy_Run(t *testing.T) {
	policy := Policy{DefaultHorizon: 2, MaxHorizon: 10, MinObservations: 3}
	table := salesTable(
		[]string{"2019", "A", "10"},
		[]string{"2020", "A", "14"},
		[]string{"2021", "A", "13"},
	)

	out, err := policy.Run(table, Request{Item: "A"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Forecasted() || len(out.Forecast) != 2 {
		t.Fatalf("expected 2 forecast rows, got %+v", out.Forecast)
	}

	if _, err := policy.Run(table, Request{Item: "A", Horizon: 10}); err != nil {
		t.Errorf("horizon 10 should be allowed: %v", err)
	}
}

func TestOutcome_CombinedPoints(t *testing.T) {
	out := &Outcome{
		Series:   SalesSeries{Item: "A", Points: []Point{{2020, 1}, {2021, 2}}},
		Forecast: []ForecastRow{{Year: 2022, Item: "A", Quantity: 3}},
	}

	want := []Point{{2020, 1}, {2021, 2}, {2022, 3}}
	if got := out.CombinedPoints(); !reflect.DeepEqual(got, want) {
		t.Errorf("CombinedPoints = %v, want %v", got, want)
	}
	if len(out.Series.Points) != 2 {
		t.Error("CombinedPoints modified the series")
	}
}
