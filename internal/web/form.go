package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
)

// multipartMemory is the part of a form kept in memory before spilling
// file parts to disk.
const multipartMemory = 8 << 20

// formOverhead leaves room for the non-file fields of a form.
const formOverhead = 64 << 10

var (
	errNoFile     = errors.New("no file provided")
	errBadHorizon = errors.New("horizon out of range")
	errBadPayload = errors.New("open workbook: invalid payload encoding")
)

// forecastForm is a decoded forecast request.
type forecastForm struct {
	fileName string
	data     []byte
	req      core.Request
}

// parseForecastForm reads a multipart form carrying the workbook either as
// the file part "file" or as the base64 field "payload" written by the
// results page, plus the optional "item" and "horizon" fields. An absent or
// empty horizon selects the default; "0" and negative values are rejected.
func (s *Server) parseForecastForm(w http.ResponseWriter, r *http.Request) (*forecastForm, error) {
	// A base64 payload is a third larger than the file it encodes.
	r.Body = http.MaxBytesReader(w, r.Body, 2*s.cfg.Upload.MaxFileSize+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}

	form := &forecastForm{
		req: core.Request{Item: strings.TrimSpace(r.FormValue("item"))},
	}
	if h := strings.TrimSpace(r.FormValue("horizon")); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errBadHorizon, h)
		}
		// Zero selects the default inside core.Request only; a posted value
		// must name an actual number of years.
		if n < 1 {
			return nil, fmt.Errorf("%w: %d is not a positive number of years", errBadHorizon, n)
		}
		form.req.Horizon = n
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		form.fileName = header.Filename
		if form.data, err = io.ReadAll(file); err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
	case errors.Is(err, http.ErrMissingFile):
		payload := r.FormValue("payload")
		if payload == "" {
			return nil, errNoFile
		}
		if form.data, err = base64.StdEncoding.DecodeString(payload); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadPayload, err)
		}
		form.fileName = r.FormValue("filename")
	default:
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	return form, nil
}
