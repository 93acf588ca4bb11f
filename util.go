package forecaster

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/electrotech/salesforecaster/forecast"
	"github.com/electrotech/salesforecaster/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// decomposer is implemented by models that can split predictions by feature family
type decomposer interface {
	Predict(steps int, exog *timedataset.ExogenousTable) ([]float64, forecast.Components, error)
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are
// left as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	line = line.SetXAxis(dateLabels(t))
	for i, series := range seriesName {
		if i >= len(y) {
			break
		}
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			if math.IsNaN(v) {
				lineData = append(lineData, opts.LineData{Value: "-"})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(series, lineData)
	}

	return line
}

// LineForecast generates an echart line chart of a forecast plotting the rounded predictions
// along with the unrounded model output.
func LineForecast(res *Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    fmt.Sprintf("%s Sales Forecast", res.Cadence),
				Subtitle: res.Note,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	lineDataForecast := make([]opts.LineData, 0, len(res.Predictions))
	lineDataRaw := make([]opts.LineData, 0, len(res.Raw))
	for i := 0; i < len(res.Predictions); i++ {
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: res.Predictions[i]})
		lineDataRaw = append(lineDataRaw, opts.LineData{Value: res.Raw[i]})
	}

	line.SetXAxis(dateLabels(res.T)).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Model Output", lineDataRaw)
	return line
}

func dateLabels(t []time.Time) []string {
	labels := make([]string, len(t))
	for i, tPnt := range t {
		labels[i] = tPnt.Format(DateLayout)
	}
	return labels
}

// Plot forecasts the request and renders an html page with the forecast and, when the model
// supports it, the contribution of each feature family.
func (f *Forecaster) Plot(w io.Writer, raw RawRequest) error {
	req, err := raw.Validate()
	if err != nil {
		return err
	}
	res, err := f.PredictRequest(req)
	if err != nil {
		return err
	}

	page := components.NewPage()
	page.AddCharts(LineForecast(res))

	if comp, ok := f.components(req); ok {
		page.AddCharts(
			LineTSeries(
				"Forecast Components",
				[]string{"Trend", "Seasonality", "Event", "Exogenous", "Autoregressive"},
				res.T,
				[][]float64{
					comp.Trend,
					comp.Seasonality,
					comp.Event,
					comp.Exogenous,
					comp.Autoregressive,
				},
			),
		)
	}
	return page.Render(w)
}

// components decomposes the forecast of a request if its model supports it
func (f *Forecaster) components(req Request) (forecast.Components, bool) {
	model, err := f.registry.Get(req.Cadence)
	if err != nil {
		return forecast.Components{}, false
	}
	d, ok := model.(decomposer)
	if !ok {
		return forecast.Components{}, false
	}

	exog, err := Align(req, f.schema)
	if err != nil {
		return forecast.Components{}, false
	}
	_, comp, err := d.Predict(req.Steps, exog)
	if err != nil {
		return forecast.Components{}, false
	}
	return comp, true
}
