package forecaster

import (
	"fmt"
	"strings"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
)

const (
	DefaultSteps = 1
	DefaultDate  = "2025-12-08"
	DefaultLag   = "Y"

	// DateLayout is the normalised form of every accepted start date
	DateLayout = time.DateOnly
)

// dateLayouts are the accepted spellings of a start date, all year first
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// RawRequest is a forecast request as decoded from the wire. Nil fields take their
// defaults.
type RawRequest struct {
	Steps    *int               `json:"steps"`
	Date     *string            `json:"date"`
	Lag      *string            `json:"lag"`
	Features map[string]float64 `json:"features"`
}

// Request is a validated forecast request
type Request struct {
	Steps    int
	Date     time.Time
	Lag      string
	Cadence  cadence.Cadence
	Features map[string]float64
}

// DateString returns the start date in its normalised form
func (r Request) DateString() string {
	return r.Date.Format(DateLayout)
}

// Validate applies defaults and checks every field of the request. It has no side effects.
func (r RawRequest) Validate() (Request, error) {
	req := Request{
		Steps: DefaultSteps,
		Lag:   DefaultLag,
	}

	if r.Steps != nil {
		req.Steps = *r.Steps
	}
	if req.Steps < 1 {
		return Request{}, invalidInput(
			fmt.Sprintf("Invalid steps: %d. Steps must be a positive integer.", req.Steps),
			cadence.ErrInvalidSteps,
		)
	}

	date := DefaultDate
	if r.Date != nil {
		date = *r.Date
	}
	parsed, err := ParseDate(date)
	if err != nil {
		return Request{}, err
	}
	req.Date = parsed

	if r.Lag != nil {
		req.Lag = *r.Lag
	}
	req.Cadence, err = cadence.Parse(req.Lag)
	if err != nil {
		return Request{}, invalidInput(
			fmt.Sprintf("Invalid lag type: '%s'. Must be 'M' for monthly or 'Q' for quarterly or 'Y' for annually.", req.Lag),
			err,
		)
	}

	if r.Features == nil {
		return Request{}, invalidInput("Field 'features' is required.", nil)
	}
	req.Features = make(map[string]float64, len(r.Features))
	for k, v := range r.Features {
		req.Features[k] = v
	}
	return req, nil
}

// ParseDate parses a start date and truncates it to midnight UTC
func ParseDate(v string) (time.Time, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" || strings.EqualFold(trimmed, "string") {
		return time.Time{}, invalidInput(
			"Date field cannot be empty or 'string'. Please provide a valid date in YYYY-MM-DD format (e.g., 2025-12-08).",
			nil,
		)
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, invalidInput(
		fmt.Sprintf("Invalid date format: '%s'. Expected format: YYYY-MM-DD (e.g., 2025-12-08).", v),
		lastErr,
	)
}
