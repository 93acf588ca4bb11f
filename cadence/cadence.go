// Package cadence defines the forecasting frequencies served by the models and the
// calendar-aware date stepping that goes with each of them.
package cadence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxYear is the last calendar year a generated date range may reach
const MaxYear = 9999

var (
	ErrUnknownCadence   = errors.New("unknown cadence")
	ErrInvalidSteps     = errors.New("steps must be at least 1")
	ErrRangeOutOfBounds = errors.New("date range extends past the supported calendar")
)

// Cadence is the frequency of a forecast, which selects both the model and the date step
type Cadence int

const (
	Unknown Cadence = iota
	Monthly
	Quarterly
	Annual
)

// All returns every servable cadence in a stable order
func All() []Cadence {
	return []Cadence{Monthly, Quarterly, Annual}
}

// Parse converts a lag code into a cadence. Only the exact codes M, Q and Y are accepted.
func Parse(code string) (Cadence, error) {
	switch code {
	case "M":
		return Monthly, nil
	case "Q":
		return Quarterly, nil
	case "Y":
		return Annual, nil
	}
	return Unknown, fmt.Errorf("'%s', %w", code, ErrUnknownCadence)
}

// ParseName accepts either a lag code or the lower case cadence name
func ParseName(name string) (Cadence, error) {
	switch strings.ToLower(name) {
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "annual", "annually", "yearly":
		return Annual, nil
	}
	return Parse(name)
}

// Code returns the single letter lag code
func (c Cadence) Code() string {
	switch c {
	case Monthly:
		return "M"
	case Quarterly:
		return "Q"
	case Annual:
		return "Y"
	}
	return ""
}

func (c Cadence) String() string {
	switch c {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Annual:
		return "annual"
	}
	return "unknown"
}

// Months returns the number of calendar months in a single step
func (c Cadence) Months() int {
	switch c {
	case Monthly:
		return 1
	case Quarterly:
		return 3
	case Annual:
		return 12
	}
	return 0
}

// PeriodsPerYear is the number of steps that make up one calendar year
func (c Cadence) PeriodsPerYear() int {
	if c.Months() == 0 {
		return 0
	}
	return 12 / c.Months()
}

// Valid reports whether the cadence is one of the servable frequencies
func (c Cadence) Valid() bool {
	return c.Months() > 0
}

// MarshalText encodes the cadence as its name
func (c Cadence) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrUnknownCadence
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a cadence name or lag code
func (c *Cadence) UnmarshalText(text []byte) error {
	parsed, err := ParseName(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// endMonth returns the 1-based month that closes the period containing month m
func (c Cadence) endMonth(m time.Month) int {
	k := c.Months()
	return ((int(m)-1)/k + 1) * k
}

// PeriodEnd returns the last day of the period containing t. This is the first period
// end on or after t.
func (c Cadence) PeriodEnd(t time.Time) time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	return time.Date(t.Year(), time.Month(c.endMonth(t.Month())+1), 0, 0, 0, 0, 0, time.UTC)
}

// PeriodStart returns the first day of the period containing t
func (c Cadence) PeriodStart(t time.Time) time.Time {
	if !c.Valid() {
		return time.Time{}
	}
	return time.Date(t.Year(), time.Month(c.endMonth(t.Month())-c.Months()+1), 1, 0, 0, 0, 0, time.UTC)
}

// Dates generates n period end dates starting with the first period end on or after start.
// Stepping is done on calendar months so month lengths and leap years are respected.
func (c Cadence) Dates(start time.Time, n int) ([]time.Time, error) {
	if !c.Valid() {
		return nil, ErrUnknownCadence
	}
	if n < 1 {
		return nil, fmt.Errorf("got %d, %w", n, ErrInvalidSteps)
	}

	k := c.Months()
	first := c.endMonth(start.Month())
	if n > MaxYear*12 {
		return nil, fmt.Errorf("%d steps, %w", n, ErrRangeOutOfBounds)
	}
	lastMonth := first + (n-1)*k
	if lastYear := start.Year() + (lastMonth-1)/12; lastYear > MaxYear {
		return nil, fmt.Errorf("last date falls in year %d, %w", lastYear, ErrRangeOutOfBounds)
	}

	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, time.Date(start.Year(), time.Month(first+i*k+1), 0, 0, 0, 0, 0, time.UTC))
	}
	return dates, nil
}
