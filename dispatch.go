package forecaster

import (
	"errors"
	"fmt"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/registry"
	"github.com/electrotech/salesforecaster/timedataset"
)

var ErrPredictionLength = errors.New("model returned a different number of predictions than steps")

// Dispatch runs the model registered for the cadence. There is no fallback to another
// cadence. Model errors and panics are reported as inference errors.
func Dispatch(reg *registry.Registry, c cadence.Cadence, steps int, exog *timedataset.ExogenousTable) ([]float64, error) {
	model, err := reg.Get(c)
	if err != nil {
		return nil, serviceUnavailable(
			fmt.Sprintf("Model for lag '%s' is not loaded. Please check your configuration and ensure model files are accessible.", c.Code()),
			err,
		)
	}
	return invoke(model, steps, exog)
}

func invoke(model registry.Model, steps int, exog *timedataset.ExogenousTable) (res []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := fmt.Errorf("panic: %v", r)
			res, err = nil, inferenceError(fmt.Sprintf("Prediction error: %s", cause), cause)
		}
	}()

	res, err = model.Forecast(steps, exog)
	if err != nil {
		return nil, inferenceError(fmt.Sprintf("Prediction error: %s", err), err)
	}
	if len(res) != steps {
		cause := fmt.Errorf("got %d for %d steps, %w", len(res), steps, ErrPredictionLength)
		return nil, inferenceError(fmt.Sprintf("Prediction error: %s", cause), cause)
	}
	return res, nil
}
