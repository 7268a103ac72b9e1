// Package core provides the sales forecasting pipeline.
// This package has no UI dependencies and can be used by any frontend.
package core

import "github.com/IbrahimaBalde09/Prediction-des-ventes/internal/forecast"

// Column names the workbook must carry.
const (
	ColumnYear     = "Année"
	ColumnItem     = "Article"
	ColumnQuantity = "Ventes"
)

// RequiredColumns lists the required columns in the order they are reported.
var RequiredColumns = []string{ColumnYear, ColumnItem, ColumnQuantity}

// Export settings for the forecast workbook.
const (
	ExportSheetName = "Prévisions"
	ExportFileName  = "previsions_ventes.xlsx"
	ExportMIMEType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Table is a workbook sheet held in memory. Rows are padded to len(Columns)
// and keep the raw stored cell values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// HeaderIndex maps column names to their position in a row.
type HeaderIndex map[string]int

// SalesRecord is one row of the sales table.
type SalesRecord struct {
	Year     int     `json:"year"`
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
}

// Point is one observation of a sales series.
type Point struct {
	Year     int     `json:"year"`
	Quantity float64 `json:"quantity"`
}

// SalesSeries is the history of one item, sorted by ascending year.
type SalesSeries struct {
	Item   string  `json:"item"`
	Points []Point `json:"points"`
}

// Len returns the number of observations.
func (s SalesSeries) Len() int {
	return len(s.Points)
}

// Values returns the quantities in year order.
func (s SalesSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Quantity
	}
	return out
}

// LastYear returns the most recent observed year, or 0 for an empty series.
func (s SalesSeries) LastYear() int {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Year
}

// ForecastRow is a synthesized row appended to the exported table.
type ForecastRow struct {
	Year     int     `json:"year"`
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// Record returns the row as it is written to the combined table.
func (r ForecastRow) Record() SalesRecord {
	return SalesRecord{Year: r.Year, Item: r.Item, Quantity: r.Quantity}
}

// Request selects what to forecast in a loaded table.
type Request struct {
	// Item is the article to forecast. Empty selects the first item.
	Item string
	// Horizon is the number of years to forecast. Zero selects the policy default.
	Horizon int
}

// ModelSummary describes the fitted model.
type ModelSummary struct {
	Phi        float64 `json:"phi"`
	Theta      float64 `json:"theta"`
	Sigma2     float64 `json:"sigma2"`
	LogLik     float64 `json:"log_likelihood"`
	AIC        float64 `json:"aic"`
	Iterations int     `json:"iterations"`
}

// Outcome is everything a pipeline run produces.
//
// When Warning is set the series was too short: Forecast, Model, Combined and
// Workbook are nil and only the history is available for display.
type Outcome struct {
	RunID    string        `json:"run_id,omitempty"`
	Item     string        `json:"item"`
	Items    []string      `json:"items"`
	Horizon  int           `json:"horizon"`
	Series   SalesSeries   `json:"series"`
	Forecast []ForecastRow `json:"forecast,omitempty"`
	Model    *ModelSummary `json:"model,omitempty"`
	Combined *Table        `json:"-"`
	Workbook []byte        `json:"-"`
	Warning  *Error        `json:"-"`
}

// Forecasted reports whether a forecast was produced.
func (o *Outcome) Forecasted() bool {
	return o.Warning == nil && len(o.Forecast) > 0
}

// CombinedPoints returns the history followed by the forecast for the chosen item.
func (o *Outcome) CombinedPoints() []Point {
	points := append([]Point(nil), o.Series.Points...)
	for _, row := range o.Forecast {
		points = append(points, Point{Year: row.Year, Quantity: row.Quantity})
	}
	return points
}

func summarize(m *forecast.Model) *ModelSummary {
	return &ModelSummary{
		Phi:        m.Phi,
		Theta:      m.Theta,
		Sigma2:     m.Sigma2,
		LogLik:     m.LogLik,
		AIC:        m.AIC,
		Iterations: m.Iterations,
	}
}
