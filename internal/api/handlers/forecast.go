// Package handlers holds the HTTP handlers of the forecast service.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	forecaster "github.com/electrotech/salesforecaster"
	"github.com/electrotech/salesforecaster/internal/logger"
	"github.com/goccy/go-json"
)

// featureQueryPrefix marks dashboard query parameters that carry feature values
const featureQueryPrefix = "f."

// ForecastHandler handles the forecast endpoints
type ForecastHandler struct {
	forecaster *forecaster.Forecaster
	logger     *logger.Logger
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(f *forecaster.Forecaster, log *logger.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecaster: f,
		logger:     log,
	}
}

// Predict forecasts sales volumes
// POST /predict
func (h *ForecastHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var raw forecaster.RawRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		RespondDetail(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %s", err))
		return
	}

	res, err := h.forecaster.Predict(raw)
	if err != nil {
		h.respondForecastError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, res)
}

// Health reports which artifacts are loaded. The service stays up without them so the
// endpoint always answers 200.
// GET /health
func (h *ForecastHandler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.forecaster.Status()
	status := "ok"
	if !st.Ready() {
		status = "degraded"
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"schema_loaded":  st.SchemaLoaded,
		"schema_columns": st.SchemaColumns,
		"models":         st.Models,
	})
}

// Dashboard renders a forecast chart
// GET /dashboard?lag=M&steps=12&date=2025-12-08&f.Price=499
func (h *ForecastHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	raw, err := ParseQuery(r)
	if err != nil {
		RespondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.forecaster.Plot(&buf, raw); err != nil {
		h.respondForecastError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ParseQuery builds a forecast request from query parameters. Feature values are passed
// as f.<feature>=<value>.
func ParseQuery(r *http.Request) (forecaster.RawRequest, error) {
	q := r.URL.Query()
	raw := forecaster.RawRequest{
		Features: make(map[string]float64),
	}

	if v := q.Get("steps"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil {
			return forecaster.RawRequest{}, fmt.Errorf("Invalid steps: '%s'. Steps must be a positive integer.", v)
		}
		raw.Steps = &steps
	}
	if q.Has("date") {
		date := q.Get("date")
		raw.Date = &date
	}
	if q.Has("lag") {
		lag := q.Get("lag")
		raw.Lag = &lag
	}

	for key, values := range q {
		name, ok := strings.CutPrefix(key, featureQueryPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		val, err := strconv.ParseFloat(values[len(values)-1], 64)
		if err != nil {
			return forecaster.RawRequest{}, fmt.Errorf("Invalid value for feature '%s': '%s'. Feature values must be numbers.", name, values[len(values)-1])
		}
		raw.Features[name] = val
	}
	return raw, nil
}

func (h *ForecastHandler) respondForecastError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Forecast failed")
	}
	RespondDetail(w, status, err.Error())
}

// StatusCode maps a forecaster error onto its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, forecaster.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, forecaster.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
