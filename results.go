package forecaster

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/schema"
	"github.com/electrotech/salesforecaster/timedataset"
)

var (
	ErrNonFinitePrediction = errors.New("non finite prediction")
	ErrPredictionOverflow  = errors.New("prediction exceeds the integer range")
)

// Result is the response of a successful forecast
type Result struct {
	Predictions      []int    `json:"predictions"`
	Steps            int      `json:"steps"`
	FeaturesUsed     []string `json:"features_used"`
	FeaturesProvided []string `json:"features_provided"`
	MissingFeatures  []string `json:"missing_features"`
	Note             string   `json:"note"`

	// period end date and unrounded model output of each prediction
	T       []time.Time     `json:"-"`
	Raw     []float64       `json:"-"`
	Cadence cadence.Cadence `json:"-"`
}

// buildResult rounds the raw model output and reports how the request features mapped onto
// the schema. Missing features are computed from the request map, not from the table.
func buildResult(req Request, s *schema.Schema, exog *timedataset.ExogenousTable, raw []float64) (*Result, error) {
	predictions := make([]int, len(raw))
	for i, v := range raw {
		p, err := roundSales(v)
		if err != nil {
			cause := fmt.Errorf("step %d, %w", i+1, err)
			return nil, inferenceError(fmt.Sprintf("Prediction error: %s", cause), cause)
		}
		predictions[i] = p
	}

	provided := make([]string, 0, len(req.Features))
	for k := range req.Features {
		provided = append(provided, k)
	}
	sort.Strings(provided)

	missing := schema.Missing(s, req.Features)

	rawCopy := make([]float64, len(raw))
	copy(rawCopy, raw)
	t := make([]time.Time, len(exog.T))
	copy(t, exog.T)

	return &Result{
		Predictions:      predictions,
		Steps:            req.Steps,
		FeaturesUsed:     exog.Columns(),
		FeaturesProvided: provided,
		MissingFeatures:  missing,
		Note:             fmt.Sprintf("%d features were auto-filled with 0", len(missing)),
		T:                t,
		Raw:              rawCopy,
		Cadence:          req.Cadence,
	}, nil
}

// roundSales rounds half away from zero and floors the result at zero sales
func roundSales(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v, %w", v, ErrNonFinitePrediction)
	}
	r := math.Round(v)
	if r < 0 {
		return 0, nil
	}
	if r >= math.MaxInt64 {
		return 0, fmt.Errorf("%v, %w", v, ErrPredictionOverflow)
	}
	return int(r), nil
}
