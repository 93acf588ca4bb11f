package forecast

import (
	"fmt"
	"io"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/feature"
	"github.com/electrotech/salesforecaster/forecast/util"
)

const (
	LabelSeasAnnual = "annual"

	LabelEventHolidays = feature.EventHolidays
	LabelEventWorkdays = feature.EventWorkdays
)

// Options configures which deterministic features a forecast generates for every
// forecast row in addition to the caller supplied exogenous columns.
type Options struct {
	// GrowthType adds a trend term when set to feature.GrowthLinear
	GrowthType string `json:"growth_type"`

	// SeasonalityOrders is the number of fourier orders of the within-year pattern. It
	// can be at most half the number of periods per year of the model cadence.
	SeasonalityOrders int `json:"seasonality_orders"`

	// Holidays adds the number of observed US federal holidays per period
	Holidays bool `json:"holidays"`

	// Workdays adds the number of US working days per period
	Workdays bool `json:"workdays"`
}

// NewDefaultOptions returns options that generate no deterministic features
func NewDefaultOptions() *Options {
	return &Options{}
}

// Validate checks the options against the cadence of the model
func (o *Options) Validate(c cadence.Cadence) error {
	if o == nil {
		return nil
	}
	switch o.GrowthType {
	case "", feature.GrowthLinear:
	default:
		return fmt.Errorf("growth type %q, %w", o.GrowthType, ErrInvalidOptions)
	}
	if o.SeasonalityOrders < 0 || o.SeasonalityOrders > c.PeriodsPerYear()/2 {
		return fmt.Errorf(
			"%d seasonality orders for %s cadence with %d periods per year, %w",
			o.SeasonalityOrders, c, c.PeriodsPerYear(), ErrInvalidOptions,
		)
	}
	return nil
}

// Labels returns the deterministic features generated by these options in generation order
func (o *Options) Labels() []feature.Feature {
	if o == nil {
		return nil
	}
	var labels []feature.Feature
	if o.GrowthType == feature.GrowthLinear {
		labels = append(labels, feature.Linear())
	}
	for order := 1; order <= o.SeasonalityOrders; order++ {
		labels = append(labels,
			feature.NewSeasonality(LabelSeasAnnual, feature.FourierCompSin, order),
			feature.NewSeasonality(LabelSeasAnnual, feature.FourierCompCos, order),
		)
	}
	if o.Holidays {
		labels = append(labels, feature.NewEvent(LabelEventHolidays))
	}
	if o.Workdays {
		labels = append(labels, feature.NewEvent(LabelEventWorkdays))
	}
	return labels
}

// generateFeatures fills x with the deterministic features for the period end dates t
func (o *Options) generateFeatures(c cadence.Cadence, t []time.Time, x *feature.Set) error {
	if o == nil {
		return nil
	}

	pos := make([]float64, len(t))
	for i, tPnt := range t {
		pos[i] = float64((int(tPnt.Month()) - 1) / c.Months())
	}
	periods := float64(c.PeriodsPerYear())

	var holidays, workdays []float64
	if o.Holidays || o.Workdays {
		holidays, workdays = feature.CalendarCounts(c, t)
	}

	for _, label := range o.Labels() {
		var vals []float64
		switch f := label.(type) {
		case *feature.Growth:
			vals = f.Values(len(t))
		case *feature.Seasonality:
			vals = f.Values(pos, periods)
		case *feature.Event:
			vals = holidays
			if f.Name == LabelEventWorkdays {
				vals = workdays
			}
		default:
			return fmt.Errorf("%s, %w", label, ErrInvalidOptions)
		}
		if err := x.Set(label, vals); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) tablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if o == nil {
		return nil
	}
	growth := o.GrowthType
	if growth == "" {
		growth = "None"
	}
	if _, err := fmt.Fprintf(w, "%s%sGrowth: %s\n", prefix, util.IndentExpand(indent, indentGrowth), growth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sSeasonality Orders: %d\n", prefix, util.IndentExpand(indent, indentGrowth), o.SeasonalityOrders); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sHolidays: %t    Workdays: %t\n", prefix, util.IndentExpand(indent, indentGrowth), o.Holidays, o.Workdays); err != nil {
		return err
	}
	return nil
}
