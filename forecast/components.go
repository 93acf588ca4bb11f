package forecast

// Components splits every prediction into the contribution of each feature family.
// Trend includes the intercept.
type Components struct {
	Trend          []float64 `json:"trend"`
	Seasonality    []float64 `json:"seasonality"`
	Event          []float64 `json:"event"`
	Exogenous      []float64 `json:"exogenous"`
	Autoregressive []float64 `json:"autoregressive"`
}

// Sum adds all components back into the predictions
func (c Components) Sum() []float64 {
	res := make([]float64, len(c.Trend))
	for _, comp := range [][]float64{c.Trend, c.Seasonality, c.Event, c.Exogenous, c.Autoregressive} {
		for i := 0; i < len(res) && i < len(comp); i++ {
			res[i] += comp[i]
		}
	}
	return res
}
