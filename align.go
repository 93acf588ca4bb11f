package forecaster

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/schema"
	"github.com/electrotech/salesforecaster/timedataset"
)

// Align builds the exogenous table of a request: one row per forecast period with the
// request features broadcast to every row and reindexed to the schema column order.
// Schema columns absent from the request are 0 and unknown request keys are dropped.
func Align(req Request, s *schema.Schema) (*timedataset.ExogenousTable, error) {
	if s == nil {
		return nil, serviceUnavailable("Schema not loaded. Please check that the feature schema file is available.", schema.ErrSchemaNotFound)
	}

	dates, err := req.Cadence.Dates(req.Date, req.Steps)
	if err != nil {
		if errors.Is(err, cadence.ErrRangeOutOfBounds) || errors.Is(err, cadence.ErrInvalidSteps) {
			return nil, invalidInput(
				fmt.Sprintf("Invalid date range parameters. Steps: %d, Lag: %s. Error: %s", req.Steps, req.Lag, err),
				err,
			)
		}
		return nil, inferenceError(fmt.Sprintf("Prediction error: %s", err), err)
	}

	tbl, err := timedataset.NewExogenousTable(dates, s.Names())
	if err != nil {
		return nil, inferenceError(fmt.Sprintf("Prediction error: %s", err), err)
	}

	if dropped := tbl.Broadcast(req.Features); len(dropped) > 0 {
		slog.Debug("dropping features outside of schema", "features", dropped)
	}
	return tbl, nil
}
