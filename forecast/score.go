package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoActuals      = errors.New("no actual values to score against")
)

// Scores tracks the fit scores of a model against observed sales
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAE  float64 `json:"mean_absolute_error"`
	MAPE float64 `json:"mean_average_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values.
// Pairs where either side is NaN are skipped.
func NewScores(predicted, actual []float64) (*Scores, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return nil, err
	}

	return &Scores{
		MSE:  mse(p, a),
		MAE:  mae(p, a),
		MAPE: mape(p, a),
		R2:   rSquared(p, a),
	}, nil
}

// pairs drops any position where either series is NaN
func pairs(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	p := make([]float64, 0, len(predicted))
	a := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		p = append(p, predicted[i])
		a = append(a, actual[i])
	}
	if len(a) == 0 {
		return nil, nil, ErrNoActuals
	}
	return p, a, nil
}

// MSE computes the mean squared error. A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mse(p, a), nil
}

func mse(p, a []float64) float64 {
	res := 0.0
	for i := range a {
		res += math.Pow(a[i]-p[i], 2.0)
	}
	return res / float64(len(a))
}

// MAE computes the mean absolute error in units of sales
func MAE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mae(p, a), nil
}

func mae(p, a []float64) float64 {
	res := 0.0
	for i := range a {
		res += math.Abs(a[i] - p[i])
	}
	return res / float64(len(a))
}

// MAPE calculates the mean average percent error. Periods with zero actual sales are
// skipped. A score of 0 means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return mape(p, a), nil
}

func mape(p, a []float64) float64 {
	res := 0.0
	n := 0
	for i := range a {
		if a[i] == 0 {
			continue
		}
		res += math.Abs((a[i] - p[i]) / a[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return res / float64(n)
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship
func RSquared(predicted, actual []float64) (float64, error) {
	p, a, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}
	return rSquared(p, a), nil
}

func rSquared(p, a []float64) float64 {
	r2 := stat.RSquaredFrom(p, a, nil)
	if math.IsNaN(r2) {
		return 1.0
	}
	return r2
}
