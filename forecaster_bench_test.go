package forecaster

import (
	"testing"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/feature"
	"github.com/electrotech/salesforecaster/forecast"
	"github.com/electrotech/salesforecaster/registry"
	"github.com/electrotech/salesforecaster/schema"
	"github.com/pkg/profile"
)

var benchPredictRes *Result

func setupBenchForecaster(b *testing.B) *Forecaster {
	names := []string{"Price", "Discount", "Category_Laptop", "Category_Phone", "Category_Tablet"}
	s, err := schema.New(names)
	if err != nil {
		b.Fatal(err)
	}

	coef := []forecast.FeatureWeight{
		forecast.NewFeatureWeight(feature.Linear(), 1.5),
	}
	for order := 1; order <= 6; order++ {
		coef = append(coef,
			forecast.NewFeatureWeight(feature.NewSeasonality(forecast.LabelSeasAnnual, feature.FourierCompSin, order), float64(order)),
			forecast.NewFeatureWeight(feature.NewSeasonality(forecast.LabelSeasAnnual, feature.FourierCompCos, order), float64(-order)),
		)
	}
	coef = append(coef,
		forecast.NewFeatureWeight(feature.NewEvent(forecast.LabelEventHolidays), -20),
		forecast.NewFeatureWeight(feature.NewEvent(forecast.LabelEventWorkdays), 3),
	)
	for i, name := range names {
		coef = append(coef, forecast.NewFeatureWeight(feature.NewExogenous(name), float64(i)))
	}

	m, err := forecast.NewFromModel(forecast.Model{
		Cadence: cadence.Monthly,
		Options: &forecast.Options{
			GrowthType:        feature.GrowthLinear,
			SeasonalityOrders: 6,
			Holidays:          true,
			Workdays:          true,
		},
		Weights: forecast.Weights{Intercept: 500, Coef: coef},
	})
	if err != nil {
		b.Fatal(err)
	}

	reg := registry.New()
	if err := reg.Set(cadence.Monthly, m, "bench"); err != nil {
		b.Fatal(err)
	}
	return New(s, reg)
}

func BenchmarkPredict(b *testing.B) {
	f := setupBenchForecaster(b)
	steps := 24
	lag := "M"
	raw := RawRequest{
		Steps:    &steps,
		Lag:      &lag,
		Features: map[string]float64{"Price": 899, "Category_Laptop": 1},
	}

	var err error
	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(b.TempDir()), profile.Quiet).Stop()
	for i := 0; i < b.N; i++ {
		benchPredictRes, err = f.Predict(raw)
		if err != nil {
			b.Fatal(err)
		}
	}
}
