package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/electrotech/salesforecaster/forecast"
	"github.com/electrotech/salesforecaster/timedataset"
	"github.com/spf13/cobra"
)

var ErrInvalidFeatureValue = errors.New("invalid feature value")

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <artifact>",
	Short: "Print a model artifact summary",
	Long: `Prints the cadence, options, history and weights of a model artifact.

With --actuals the model forecasts as many periods as values are given,
starting after its training end, and the forecast is scored against them.
Exogenous features are held constant at the values given with --feature.

Example:
  salesforecast inspect model/monthly_sales_model.json
  salesforecast inspect model/monthly_sales_model.json --actuals 120,131,118 --feature Price=499`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectActuals  []float64
	inspectFeatures map[string]string
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Float64SliceVar(&inspectActuals, "actuals", nil, "observed values to score a forecast against")
	inspectCmd.Flags().StringToStringVar(&inspectFeatures, "feature", nil, "exogenous feature value, name=value")
}

func runInspect(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	m, err := forecast.ReadModel(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if err := m.TablePrint(out, "", "  "); err != nil {
		return err
	}

	if len(inspectActuals) == 0 {
		return nil
	}
	return scoreForecast(out, m, inspectActuals, inspectFeatures)
}

func scoreForecast(w io.Writer, m forecast.Model, actuals []float64, features map[string]string) error {
	f, err := forecast.NewFromModel(m)
	if err != nil {
		return err
	}

	values := make(map[string]float64, len(features))
	for name, v := range features {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%s, %w", name, v, ErrInvalidFeatureValue)
		}
		values[name] = val
	}

	var exog *timedataset.ExogenousTable
	if names := f.ExogenousNames(); len(names) > 0 {
		cad := f.Cadence()
		t, err := cad.Dates(cad.PeriodEnd(f.TrainEndTime()).AddDate(0, 0, 1), len(actuals))
		if err != nil {
			return err
		}
		exog, err = timedataset.NewExogenousTable(t, names)
		if err != nil {
			return err
		}
		exog.Broadcast(values)
	}

	predicted, err := f.Forecast(len(actuals), exog)
	if err != nil {
		return err
	}

	scores, err := forecast.NewScores(predicted, actuals)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Forecast Scores (%d periods):\n", len(actuals)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  MAPE: %.3f    MSE: %.3f    MAE: %.3f    R2: %.3f\n",
		scores.MAPE, scores.MSE, scores.MAE, scores.R2)
	return err
}
