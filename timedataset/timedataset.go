package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoObservations     = errors.New("no observations")
	ErrNonMonotonic       = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoObservations
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// Validate runs the same checks as NewUnivariateDataset against an already populated
// dataset, e.g. one decoded from a model artifact.
func (td *TimeDataset) Validate() error {
	if td == nil {
		return ErrNoObservations
	}
	_, err := NewUnivariateDataset(td.T, td.Y)
	return err
}

func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.Y))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// DropNan returns a copy of the dataset without the points that have NaN values
func (td *TimeDataset) DropNan() *TimeDataset {
	if td == nil {
		return nil
	}

	t := make([]time.Time, 0, len(td.T))
	y := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.T); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		t = append(t, td.T[i])
		y = append(y, td.Y[i])
	}
	return &TimeDataset{
		T: t,
		Y: y,
	}
}

// Tail returns a copy of the last n values in time order. If the dataset holds fewer than
// n values all of them are returned.
func (td *TimeDataset) Tail(n int) []float64 {
	if td == nil || n <= 0 {
		return nil
	}
	if n > len(td.Y) {
		n = len(td.Y)
	}
	out := make([]float64, n)
	copy(out, td.Y[len(td.Y)-n:])
	return out
}

// EndTime returns the last time point or the zero time if the dataset is empty
func (td *TimeDataset) EndTime() time.Time {
	if td == nil || len(td.T) == 0 {
		return time.Time{}
	}
	return td.T[len(td.T)-1]
}
