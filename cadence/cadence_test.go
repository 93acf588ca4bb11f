package cadence

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	testData := map[string]struct {
		code     string
		expected Cadence
		err      error
	}{
		"monthly":    {code: "M", expected: Monthly},
		"quarterly":  {code: "Q", expected: Quarterly},
		"annual":     {code: "Y", expected: Annual},
		"lower case": {code: "m", err: ErrUnknownCadence},
		"weekly":     {code: "W", err: ErrUnknownCadence},
		"empty":      {code: "", err: ErrUnknownCadence},
		"full name":  {code: "Monthly", err: ErrUnknownCadence},
		"padded":     {code: " M", err: ErrUnknownCadence},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c, err := Parse(td.code)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, c)
			assert.Equal(t, td.code, c.Code())
		})
	}
}

func TestDates(t *testing.T) {
	testData := map[string]struct {
		c        Cadence
		start    time.Time
		n        int
		expected []time.Time
		err      error
	}{
		"monthly from first of month": {
			c:     Monthly,
			start: date(2025, time.January, 1),
			n:     3,
			expected: []time.Time{
				date(2025, time.January, 31),
				date(2025, time.February, 28),
				date(2025, time.March, 31),
			},
		},
		"monthly across leap february": {
			c:     Monthly,
			start: date(2024, time.January, 31),
			n:     2,
			expected: []time.Time{
				date(2024, time.January, 31),
				date(2024, time.February, 29),
			},
		},
		"quarterly mid quarter": {
			c:     Quarterly,
			start: date(2025, time.December, 8),
			n:     3,
			expected: []time.Time{
				date(2025, time.December, 31),
				date(2026, time.March, 31),
				date(2026, time.June, 30),
			},
		},
		"annual": {
			c:     Annual,
			start: date(2025, time.December, 8),
			n:     2,
			expected: []time.Time{
				date(2025, time.December, 31),
				date(2026, time.December, 31),
			},
		},
		"zero steps": {
			c:     Monthly,
			start: date(2025, time.January, 1),
			n:     0,
			err:   ErrInvalidSteps,
		},
		"unknown cadence": {
			c:     Unknown,
			start: date(2025, time.January, 1),
			n:     1,
			err:   ErrUnknownCadence,
		},
		"past max year": {
			c:     Annual,
			start: date(9990, time.January, 1),
			n:     20,
			err:   ErrRangeOutOfBounds,
		},
		"huge step count": {
			c:     Monthly,
			start: date(2025, time.January, 1),
			n:     1 << 40,
			err:   ErrRangeOutOfBounds,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := td.c.Dates(td.start, td.n)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestPeriodStart(t *testing.T) {
	assert.Equal(t, date(2025, time.October, 1), Quarterly.PeriodStart(date(2025, time.December, 31)))
	assert.Equal(t, date(2025, time.January, 1), Annual.PeriodStart(date(2025, time.June, 15)))
	assert.Equal(t, date(2025, time.February, 1), Monthly.PeriodStart(date(2025, time.February, 28)))
}

func TestTextRoundTrip(t *testing.T) {
	type wrapper struct {
		C Cadence `json:"cadence"`
	}
	out, err := json.Marshal(wrapper{C: Quarterly})
	require.NoError(t, err)
	assert.Equal(t, `{"cadence":"quarterly"}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"cadence":"Y"}`), &w))
	assert.Equal(t, Annual, w.C)

	_, err = json.Marshal(wrapper{})
	assert.Error(t, err)
}
