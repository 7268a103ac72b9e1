package web

import (
	"bytes"
	"encoding/base64"
	"net/http"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/chart"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/logging"
	appmw "github.com/IbrahimaBalde09/Prediction-des-ventes/internal/web/middleware"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/web/templates"
)

// handleIndex renders the upload page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.IndexPage(templates.IndexParams{
		DefaultHorizon: s.cfg.Forecast.DefaultHorizon,
		MaxHorizon:     s.cfg.Forecast.MaxHorizon,
	})
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render index", "error", err)
	}
}

// handleForecastPage runs the pipeline on the posted workbook and renders
// the results page.
func (s *Server) handleForecastPage(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseForecastForm(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	out, err := s.service.Process(r.Context(), bytes.NewReader(form.data), form.req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set(appmw.RunHeader, out.RunID)

	params := templates.ResultsParams{
		RunID:      out.RunID,
		FileName:   form.fileName,
		Payload:    base64.StdEncoding.EncodeToString(form.data),
		Items:      out.Items,
		Item:       out.Item,
		Horizon:    out.Horizon,
		MaxHorizon: s.service.Policy().MaxHorizon,
		History:    out.Series.Points,
		Alerts:     []templates.Alert{{Level: templates.LevelSuccess, Message: core.MsgLoaded}},
	}

	logger := logging.WithFields(r.Context(), "run_id", out.RunID)
	if out.Series.Len() > 0 {
		if img, err := chart.History(out.Series); err != nil {
			logger.Warn("history chart failed", "error", err)
		} else {
			params.HistoryChart = pngDataURI(img)
		}
	}

	if out.Warning != nil {
		msg := core.MapError(out.Warning)
		params.Alerts = append(params.Alerts, templates.Alert{
			Level:   templates.LevelWarning,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	}

	if out.Forecasted() {
		params.Forecast = out.Forecast
		if img, err := chart.Forecast(out.Item, out.CombinedPoints(), out.Series.Len()); err != nil {
			logger.Warn("forecast chart failed", "error", err)
		} else {
			params.ForecastChart = pngDataURI(img)
		}
		params.DownloadURI = dataURI(core.ExportMIMEType, out.Workbook)
		params.DownloadName = core.ExportFileName
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ResultsPage(params).Render(r.Context(), w); err != nil {
		logger.Error("render results", "error", err)
	}
}

// handleHealth reports liveness and the run limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"runs":   s.service.Limiter().Status(),
	})
}

func pngDataURI(img []byte) string {
	return dataURI("image/png", img)
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
