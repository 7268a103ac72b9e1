package templates

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPage(t *testing.T) {
	var sb strings.Builder
	err := IndexPage(IndexParams{
		DefaultHorizon: 2,
		MaxHorizon:     5,
		Alerts:         []Alert{{Level: LevelError, Message: "<b>KO</b>", Action: "Réessayez", Code: "ERR000"}},
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
	assert.Contains(t, html, "<h1>Prédiction des Ventes par Article</h1>")
	assert.Contains(t, html, `<option value="2" selected>`)
	assert.Contains(t, html, `<option value="5">`)
	assert.NotContains(t, html, `<option value="6">`)
	assert.Contains(t, html, "&lt;b&gt;KO&lt;/b&gt;", "alert text must be escaped")
	assert.Contains(t, html, "(Code : ERR000)")
}

func TestResultsPage(t *testing.T) {
	var sb strings.Builder
	err := ResultsPage(ResultsParams{
		Payload:    "UEsDBA==",
		Items:      []string{"A", `"B"`},
		Item:       "A",
		Horizon:    1,
		MaxHorizon: 5,
		History:    []core.Point{{Year: 2021, Quantity: 10}, {Year: 2022, Quantity: 12.5}},
		Forecast:   []core.ForecastRow{{Year: 2023, Item: "A", Quantity: 13.25, Lower: 10, Upper: 16.5}},
		DownloadURI:  "data:x;base64,AA==",
		DownloadName: core.ExportFileName,
		RunID:        "run-1",
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.Contains(t, html, `name="payload" value="UEsDBA=="`)
	assert.Contains(t, html, `<option value="A" selected>A</option>`)
	assert.Contains(t, html, `<option value="&#34;B&#34;">&#34;B&#34;</option>`)
	assert.Contains(t, html, "<td>2022</td><td>12.50</td>")
	assert.Contains(t, html, "<td>13.25</td><td>10.00</td><td>16.50</td>")
	assert.Contains(t, html, `download="previsions_ventes.xlsx"`)
	assert.Contains(t, html, `href="data:x;base64,AA=="`)
	assert.Contains(t, html, DownloadLabel)
	assert.Contains(t, html, "run-1")
	assert.NotContains(t, html, "<img", "no chart without data URI")
}

func TestResultsPage_NoForecast(t *testing.T) {
	var sb strings.Builder
	err := ResultsPage(ResultsParams{
		Items:        []string{"B"},
		Item:         "B",
		Horizon:      3,
		MaxHorizon:   5,
		History:      []core.Point{{Year: 2020, Quantity: 5}},
		HistoryChart: "data:image/png;base64,AA==",
		Alerts:       []Alert{{Level: LevelWarning, Message: core.MsgInsufficientData}},
	}).Render(context.Background(), &sb)
	require.NoError(t, err)

	html := sb.String()
	assert.Contains(t, html, `class="alert alert-warning"`)
	assert.Contains(t, html, HistoryTitle)
	assert.Contains(t, html, `src="data:image/png;base64,AA=="`)
	assert.NotContains(t, html, `id="forecast"`)
	assert.NotContains(t, html, DownloadLabel)
}

func TestAlertBox_DefaultLevel(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, alertBox(Alert{Message: "KO"}).Render(context.Background(), &sb))

	html := sb.String()
	assert.Contains(t, html, `class="alert alert-error"`)
	assert.Contains(t, html, `role="alert">KO`)
	assert.NotContains(t, html, "<small>")
}

func TestLayout_RendersChildren(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<main>contenu</main>")
		return err
	})

	var sb strings.Builder
	require.NoError(t, Layout("<Titre>").Render(templ.WithChildren(context.Background(), body), &sb))

	html := sb.String()
	assert.Contains(t, html, "<title>&lt;Titre&gt;</title>")
	assert.Contains(t, html, "</h1><main>contenu</main></body></html>")
}
