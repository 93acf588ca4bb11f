package forecaster

import (
	"testing"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	s := newTestSchema(t, "Price", "Category_Laptop")

	testData := map[string]struct {
		req      Request
		expDates []time.Time
		expRows  [][]float64
		err      error
	}{
		"monthly broadcast": {
			req: Request{
				Steps:    3,
				Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Lag:      "M",
				Cadence:  cadence.Monthly,
				Features: map[string]float64{"Price": 200},
			},
			expDates: []time.Time{
				time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			},
			expRows: [][]float64{{200, 0}, {200, 0}, {200, 0}},
		},
		"quarterly drops unknown columns": {
			req: Request{
				Steps:    2,
				Date:     time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
				Lag:      "Q",
				Cadence:  cadence.Quarterly,
				Features: map[string]float64{"Category_Laptop": 1, "Colour": 3},
			},
			expDates: []time.Time{
				time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			},
			expRows: [][]float64{{0, 1}, {0, 1}},
		},
		"annual": {
			req: Request{
				Steps:    2,
				Date:     time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
				Lag:      "Y",
				Cadence:  cadence.Annual,
				Features: map[string]float64{},
			},
			expDates: []time.Time{
				time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			},
			expRows: [][]float64{{0, 0}, {0, 0}},
		},
		"range past supported calendar": {
			req: Request{
				Steps:    3,
				Date:     time.Date(9998, 6, 1, 0, 0, 0, 0, time.UTC),
				Lag:      "Y",
				Cadence:  cadence.Annual,
				Features: map[string]float64{},
			},
			err: ErrInvalidInput,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := Align(td.req, s)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expDates, tbl.T)
			assert.Equal(t, []string{"Price", "Category_Laptop"}, tbl.Columns())
			for i, exp := range td.expRows {
				row, err := tbl.Row(i)
				require.Nil(t, err)
				assert.Equal(t, exp, row)
			}
		})
	}
}

func TestAlignWithoutSchema(t *testing.T) {
	_, err := Align(Request{Steps: 1, Cadence: cadence.Annual}, nil)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}
