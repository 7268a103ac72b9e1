package templates

import "github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"

// IndexParams holds the data for the upload page.
type IndexParams struct {
	DefaultHorizon int
	MaxHorizon     int
	Alerts         []Alert
}

// ResultsParams holds the data for the results page. Forecast and download
// sections are omitted when Forecast is empty.
type ResultsParams struct {
	RunID      string
	FileName   string
	Payload    string // base64 workbook, re-posted when the selection changes
	Items      []string
	Item       string
	Horizon    int
	MaxHorizon int

	History      []core.Point
	HistoryChart string // data URI, empty when no chart could be drawn

	Forecast      []core.ForecastRow
	ForecastChart string

	DownloadURI  string
	DownloadName string

	Alerts []Alert
}
