package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted as JSON for /api routes and as the upload page otherwise
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get the French user message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in the appropriate format for the client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/logging"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code, Kind) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
}

func newErrorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var pe *core.Error
	if errors.As(err, &pe) {
		resp.Kind = pe.Kind.String()
	}
	return resp
}

// respondError logs the technical error server-side and returns the user
// message as JSON or as the upload page with an alert.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	log := logger.Warn
	if statusCode >= http.StatusInternalServerError {
		log = logger.Error
	}
	log("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"kind", core.KindOf(err).String(),
	)

	if wantsJSON(r) {
		respondErrorJSON(w, err, statusCode)
		return
	}
	s.respondErrorPage(w, r, err, statusCode)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, err error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(newErrorResponse(err))
}

// respondErrorPage renders the upload page with the error. When the workbook
// was read but a later step failed, the load confirmation is shown first.
func (s *Server) respondErrorPage(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	var alerts []templates.Alert
	if workbookLoaded(err) {
		alerts = append(alerts, templates.Alert{Level: templates.LevelSuccess, Message: core.MsgLoaded})
	}
	alerts = append(alerts, templates.Alert{
		Level:   templates.LevelError,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	page := templates.IndexPage(templates.IndexParams{
		DefaultHorizon: s.cfg.Forecast.DefaultHorizon,
		MaxHorizon:     s.cfg.Forecast.MaxHorizon,
		Alerts:         alerts,
	})
	if rerr := page.Render(r.Context(), w); rerr != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", rerr)
	}
}

// workbookLoaded reports whether err was raised after the workbook was read.
func workbookLoaded(err error) bool {
	var pe *core.Error
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Kind {
	case core.KindSchema, core.KindInvalidInput, core.KindModelFit:
		return true
	}
	return false
}

// statusFor picks the HTTP status of a pipeline or request error.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errNoFile), errors.Is(err, errBadHorizon), errors.Is(err, errBadPayload):
		return http.StatusBadRequest
	}

	var pe *core.Error
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Kind {
	case core.KindParse, core.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
