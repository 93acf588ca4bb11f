package feature

import (
	"math"
	"testing"
	"time"

	"github.com/electrotech/salesforecaster/cadence"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureLabels(t *testing.T) {
	testData := map[string]struct {
		f        Feature
		str      string
		typ      FeatureType
		label    string
		value    string
		expected map[string]string
	}{
		"growth": {
			f:        Linear(),
			str:      "growth_linear",
			typ:      FeatureTypeGrowth,
			label:    "name",
			value:    "linear",
			expected: map[string]string{"name": "linear"},
		},
		"seasonality": {
			f:        NewSeasonality("annual", FourierCompCos, 2),
			str:      "seas_annual_02_cos",
			typ:      FeatureTypeSeasonality,
			label:    "order",
			value:    "2",
			expected: map[string]string{"name": "annual", "fourier_component": "cos", "order": "2"},
		},
		"event": {
			f:        NewEvent("holidays"),
			str:      "event_holidays",
			typ:      FeatureTypeEvent,
			label:    "Name",
			value:    "holidays",
			expected: map[string]string{"name": "holidays"},
		},
		"exogenous": {
			f:        NewExogenous("Category_Laptop"),
			str:      "exog_Category_Laptop",
			typ:      FeatureTypeExogenous,
			label:    "name",
			value:    "Category_Laptop",
			expected: map[string]string{"name": "Category_Laptop"},
		},
		"autoregressive": {
			f:        NewAutoregressive(1),
			str:      "ar_lag_01",
			typ:      FeatureTypeAutoregressive,
			label:    "lag",
			value:    "1",
			expected: map[string]string{"lag": "1"},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.str, td.f.String())
			assert.Equal(t, td.typ, td.f.Type())
			assert.Equal(t, td.expected, td.f.Decode())

			val, exists := td.f.Get(td.label)
			require.True(t, exists)
			assert.Equal(t, td.value, val)

			_, exists = td.f.Get("missing")
			assert.False(t, exists)
		})
	}
}

func TestFeatureUnmarshalJSON(t *testing.T) {
	testData := map[string]struct {
		input    string
		output   Feature
		expected Feature
		err      bool
	}{
		"seasonality": {
			input:    `{"name":"annual","fourier_component":"sin","order":"3"}`,
			output:   new(Seasonality),
			expected: NewSeasonality("annual", FourierCompSin, 3),
		},
		"seasonality bad order": {
			input:  `{"name":"annual","fourier_component":"sin","order":"x"}`,
			output: new(Seasonality),
			err:    true,
		},
		"seasonality bad component": {
			input:  `{"name":"annual","fourier_component":"tan","order":"1"}`,
			output: new(Seasonality),
			err:    true,
		},
		"autoregressive": {
			input:    `{"lag":"2"}`,
			output:   new(Autoregressive),
			expected: NewAutoregressive(2),
		},
		"exogenous": {
			input:    `{"name":"Price"}`,
			output:   new(Exogenous),
			expected: NewExogenous("Price"),
		},
		"growth": {
			input:    `{"name":"linear"}`,
			output:   new(Growth),
			expected: Linear(),
		},
		"event": {
			input:    `{"name":"workdays"}`,
			output:   new(Event),
			expected: NewEvent("workdays"),
		},
		"event without name": {
			input:  `{}`,
			output: new(Event),
			err:    true,
		},
		"growth without name": {
			input:  `{"name":""}`,
			output: new(Growth),
			err:    true,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			err := json.Unmarshal([]byte(td.input), td.output)
			if td.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, td.output)
		})
	}
}

func TestFeatureTypeString(t *testing.T) {
	assert.Equal(t, "exogenous", FeatureTypeExogenous.String())
	assert.Equal(t, "unknown", FeatureType(99).String())
}

func TestGrowthValues(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3}, Linear().Values(3))
	assert.Empty(t, Linear().Values(0))
}

func TestSeasonalityValues(t *testing.T) {
	pos := []float64{0, 3, 6, 9}

	sin := NewSeasonality("annual", FourierCompSin, 1).Values(pos, 12)
	cos := NewSeasonality("annual", FourierCompCos, 1).Values(pos, 12)
	expSin := []float64{0, 1, 0, -1}
	expCos := []float64{1, 0, -1, 0}
	for i := range pos {
		assert.InDelta(t, expSin[i], sin[i], 1e-9)
		assert.InDelta(t, expCos[i], cos[i], 1e-9)
	}

	second := NewSeasonality("annual", FourierCompCos, 2).Values([]float64{3}, 12)
	assert.InDelta(t, math.Cos(math.Pi), second[0], 1e-9)
}

func TestEventValues(t *testing.T) {
	ends := []time.Time{
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
	}

	testData := map[string]struct {
		event    *Event
		expected []float64
		err      error
	}{
		"holidays": {
			event:    NewEvent(EventHolidays),
			expected: []float64{2, 1},
		},
		"workdays": {
			event:    NewEvent(EventWorkdays),
			expected: []float64{21, 22},
		},
		"unknown": {
			event: NewEvent("festivals"),
			err:   ErrUnknownEvent,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			vals, err := td.event.Values(cadence.Monthly, ends)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, vals)
		})
	}
}
