package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthEnds() []time.Time {
	return []time.Time{
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewExogenousTable(t *testing.T) {
	testData := map[string]struct {
		t       []time.Time
		columns []string
		err     error
	}{
		"no time":          {columns: []string{"Price"}, err: ErrNoObservations},
		"no columns":       {t: monthEnds(), err: ErrNoColumns},
		"duplicate column": {t: monthEnds(), columns: []string{"Price", "Price"}, err: ErrDuplicateColumn},
		"valid":            {t: monthEnds(), columns: []string{"Price", "Category_Laptop"}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := NewExogenousTable(td.t, td.columns)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(td.t), tbl.Len())
			assert.Equal(t, len(td.columns), tbl.Width())
			assert.Equal(t, td.columns, tbl.Columns())
			for i := 0; i < tbl.Len(); i++ {
				row, err := tbl.Row(i)
				require.NoError(t, err)
				assert.Equal(t, make([]float64, len(td.columns)), row)
			}
		})
	}
}

func TestExogenousTableBroadcast(t *testing.T) {
	tbl, err := NewExogenousTable(monthEnds(), []string{"Price", "Category_Laptop"})
	require.NoError(t, err)

	dropped := tbl.Broadcast(map[string]float64{"Price": 200, "Unknown": 3})
	assert.Equal(t, []string{"Unknown"}, dropped)

	price, exists := tbl.Column("Price")
	require.True(t, exists)
	assert.Equal(t, []float64{200, 200, 200}, price)

	laptop, exists := tbl.Column("Category_Laptop")
	require.True(t, exists)
	assert.Equal(t, []float64{0, 0, 0}, laptop)

	_, exists = tbl.Column("Unknown")
	assert.False(t, exists)

	mx, err := tbl.Matrix()
	require.NoError(t, err)
	m, n := mx.Dims()
	assert.Equal(t, 3, m)
	assert.Equal(t, 2, n)
	assert.Equal(t, 200.0, mx.At(2, 0))
}

func TestExogenousTableSet(t *testing.T) {
	tbl, err := NewExogenousTable(monthEnds(), []string{"Price"})
	require.NoError(t, err)

	require.NoError(t, tbl.Set(1, "Price", 5))
	price, _ := tbl.Column("Price")
	assert.Equal(t, []float64{0, 5, 0}, price)

	assert.ErrorIs(t, tbl.Set(3, "Price", 1), ErrRowOutOfBounds)
	assert.ErrorIs(t, tbl.Set(0, "Other", 1), ErrUnknownColumn)

	_, err = tbl.Row(-1)
	assert.ErrorIs(t, err, ErrRowOutOfBounds)
}
