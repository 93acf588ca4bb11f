package feature

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/goccy/go-json"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const (
	EventHolidays = "holidays"
	EventWorkdays = "workdays"
)

var ErrUnknownEvent = errors.New("unknown calendar event")

// Event counts the days of a kind, observed US federal holidays or working days, that fall
// into each forecast period
type Event struct {
	Name string `json:"name"`
}

func NewEvent(name string) *Event {
	return &Event{Name: name}
}

func (e Event) String() string {
	return "event_" + e.Name
}

func (e Event) Get(label string) (string, bool) {
	if strings.ToLower(label) == "name" {
		return e.Name, true
	}
	return "", false
}

func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

func (e Event) Decode() map[string]string {
	return map[string]string{"name": e.Name}
}

// Values counts the event days in the period of cadence c that ends at each date
func (e Event) Values(c cadence.Cadence, t []time.Time) ([]float64, error) {
	holidays, workdays := CalendarCounts(c, t)
	switch e.Name {
	case EventHolidays:
		return holidays, nil
	case EventWorkdays:
		return workdays, nil
	}
	return nil, fmt.Errorf("%s, %w", e.Name, ErrUnknownEvent)
}

// UnmarshalJSON reads the label map of an event weight
func (e *Event) UnmarshalJSON(data []byte) error {
	var labels map[string]string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	name, exists := labels["name"]
	if !exists || name == "" {
		return fmt.Errorf("event, %w", ErrMissingLabel)
	}
	e.Name = name
	return nil
}

func newBusinessCalendar() *cal.BusinessCalendar {
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(us.Holidays...)
	return bc
}

// CalendarCounts returns the number of observed holidays and of working days in the period
// of cadence c that ends at each date
func CalendarCounts(c cadence.Cadence, t []time.Time) ([]float64, []float64) {
	bc := newBusinessCalendar()
	holidays := make([]float64, len(t))
	workdays := make([]float64, len(t))
	for i, end := range t {
		for day := c.PeriodStart(end); !day.After(end); day = day.AddDate(0, 0, 1) {
			if _, observed, _ := bc.IsHoliday(day); observed {
				holidays[i]++
			}
			if bc.IsWorkday(day) {
				workdays[i]++
			}
		}
	}
	return holidays, workdays
}
