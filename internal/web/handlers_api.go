package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	appmw "github.com/IbrahimaBalde09/Prediction-des-ventes/internal/web/middleware"
)

// forecastResponse is the JSON body of POST /api/forecast.
type forecastResponse struct {
	*core.Outcome
	Message string         `json:"message"`
	Warning *ErrorResponse `json:"warning,omitempty"`
}

// handleAPIItems returns the distinct items of the posted workbook.
func (s *Server) handleAPIItems(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseForecastForm(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	items, err := s.service.ListItems(r.Context(), bytes.NewReader(form.data))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if items == nil {
		items = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleAPIForecast runs the pipeline and returns the outcome as JSON.
// A series too short to forecast is a 200 with a warning and no forecast.
func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	out, ok := s.process(w, r)
	if !ok {
		return
	}

	resp := forecastResponse{Outcome: out, Message: core.MsgLoaded}
	if out.Warning != nil {
		warn := newErrorResponse(out.Warning)
		resp.Warning = &warn
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIExport runs the pipeline and returns the combined workbook.
func (s *Server) handleAPIExport(w http.ResponseWriter, r *http.Request) {
	out, ok := s.process(w, r)
	if !ok {
		return
	}
	if out.Warning != nil {
		s.respondError(w, r, out.Warning, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", core.ExportMIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Workbook)))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Workbook)
}

// process parses the form and runs the pipeline. It writes the error
// response itself and reports whether the caller should continue.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (*core.Outcome, bool) {
	form, err := s.parseForecastForm(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, false
	}

	out, err := s.service.Process(r.Context(), bytes.NewReader(form.data), form.req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return nil, false
	}
	w.Header().Set(appmw.RunHeader, out.RunID)
	return out, true
}
