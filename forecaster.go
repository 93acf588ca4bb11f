// Package forecaster serves sales volume forecasts. A Forecaster validates a request,
// aligns its features to the feature schema, dispatches it to the model of the requested
// cadence and builds the response.
package forecaster

import (
	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/registry"
	"github.com/electrotech/salesforecaster/schema"
)

// Forecaster holds the schema and models loaded at startup. Both are read-only afterwards
// so a Forecaster can serve concurrent requests.
type Forecaster struct {
	schema   *schema.Schema
	registry *registry.Registry
}

// New creates a Forecaster. A nil schema or an empty registry is allowed and results in
// service unavailable errors for the affected requests.
func New(s *schema.Schema, reg *registry.Registry) *Forecaster {
	if reg == nil {
		reg = registry.New()
	}
	return &Forecaster{
		schema:   s,
		registry: reg,
	}
}

// Predict validates the raw request and forecasts it. Errors are of type *Error.
func (f *Forecaster) Predict(raw RawRequest) (*Result, error) {
	req, err := raw.Validate()
	if err != nil {
		return nil, err
	}
	return f.PredictRequest(req)
}

// PredictRequest forecasts an already validated request
func (f *Forecaster) PredictRequest(req Request) (*Result, error) {
	if f.schema == nil {
		return nil, serviceUnavailable(
			"Schema not loaded. Please check that the feature schema file is available.",
			schema.ErrSchemaNotFound,
		)
	}

	exog, err := Align(req, f.schema)
	if err != nil {
		return nil, err
	}

	raw, err := Dispatch(f.registry, req.Cadence, req.Steps, exog)
	if err != nil {
		return nil, err
	}

	return buildResult(req, f.schema, exog, raw)
}

// Status describes what was loaded at startup
type Status struct {
	SchemaLoaded  bool            `json:"schema_loaded"`
	SchemaColumns int             `json:"schema_columns"`
	Models        map[string]bool `json:"models"`
}

// Ready reports whether every cadence can be served
func (s Status) Ready() bool {
	if !s.SchemaLoaded {
		return false
	}
	for _, loaded := range s.Models {
		if !loaded {
			return false
		}
	}
	return true
}

// Status reports the loaded schema and model slots
func (f *Forecaster) Status() Status {
	st := Status{
		SchemaLoaded:  f.schema != nil,
		SchemaColumns: f.schema.Len(),
		Models:        make(map[string]bool),
	}
	for _, c := range cadence.All() {
		st.Models[c.String()] = f.registry.Loaded(c)
	}
	return st
}

// Schema returns the loaded feature schema, nil if none was found
func (f *Forecaster) Schema() *schema.Schema {
	return f.schema
}
