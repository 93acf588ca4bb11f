// Package forecast holds the serializeable linear sales model and its inference. A model
// combines an intercept, an optional linear trend, annual fourier seasonality, calendar
// event counts, caller supplied exogenous columns and autoregressive terms over the tail
// of the training series.
package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/feature"
	"github.com/electrotech/salesforecaster/timedataset"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedForecast = errors.New("uninitialized forecast")
	ErrInvalidOptions        = errors.New("invalid forecast options")
	ErrNoModelCoefficients   = errors.New("no model coefficients")
	ErrStepsMismatch         = errors.New("steps do not match exogenous table rows")
	ErrMissingFeature        = errors.New("weighted feature missing from forecast input")
	ErrInsufficientHistory   = errors.New("insufficient history for autoregressive lags")
)

// Forecast represents a single loaded forecast model of a sales series at one cadence.
// Once built it is never mutated, so a Forecast can serve concurrent callers.
type Forecast struct {
	cad    cadence.Cadence
	opt    *Options
	scores *Scores

	// model coefficients
	fLabels   *feature.Labels
	coef      []float64
	intercept float64

	// autoregressive coefficients indexed by lag - 1 and the tail of the observed series
	// needed to seed them
	arCoef  []float64
	history []float64

	trainEndTime time.Time
	model        Model
}

// NewFromModel creates a new forecast instance given a forecast Model to initialize. This
// instance can be used for inference immediately.
func NewFromModel(model Model) (*Forecast, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	fLabels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, err
	}

	opt := model.Options
	if opt == nil {
		opt = NewDefaultOptions()
	}

	f := &Forecast{
		cad:          model.Cadence,
		opt:          opt,
		fLabels:      fLabels,
		trainEndTime: model.TrainEndTime,
		intercept:    model.Weights.Intercept,
		coef:         model.Weights.Coefficients(),
		scores:       model.Scores,
		model:        model,
	}

	maxLag := 0
	for i, feat := range fLabels.Labels() {
		ar, ok := feat.(*feature.Autoregressive)
		if !ok {
			continue
		}
		if ar.Lag > maxLag {
			maxLag = ar.Lag
			grown := make([]float64, maxLag)
			copy(grown, f.arCoef)
			f.arCoef = grown
		}
		f.arCoef[ar.Lag-1] = f.coef[i]
	}

	if maxLag > 0 {
		var observed []float64
		if model.History != nil {
			observed = model.History.DropNan().Tail(maxLag)
		}
		if len(observed) < maxLag {
			return nil, fmt.Errorf(
				"lag %d needs %d observations but history has %d, %w",
				maxLag, maxLag, len(observed), ErrInsufficientHistory,
			)
		}
		f.history = observed
	}
	return f, nil
}

// Cadence returns the period length of each forecast step
func (f *Forecast) Cadence() cadence.Cadence {
	if f == nil {
		return cadence.Unknown
	}
	return f.cad
}

// TrainEndTime returns the last observed period of the training series
func (f *Forecast) TrainEndTime() time.Time {
	if f == nil {
		return time.Time{}
	}
	return f.trainEndTime
}

// ConcurrencySafe reports that inference only reads the loaded model
func (f *Forecast) ConcurrencySafe() bool {
	return true
}

// Forecast produces steps predictions. The exogenous table supplies both the period end
// dates of each row and the caller provided columns. A nil table forecasts the periods
// directly following the end of training with no exogenous input.
func (f *Forecast) Forecast(steps int, exog *timedataset.ExogenousTable) ([]float64, error) {
	res, _, err := f.Predict(steps, exog)
	return res, err
}

// Predict is Forecast with the per family decomposition of every prediction
func (f *Forecast) Predict(steps int, exog *timedataset.ExogenousTable) ([]float64, Components, error) {
	if f == nil {
		return nil, Components{}, ErrUninitializedForecast
	}
	if steps < 1 {
		return nil, Components{}, fmt.Errorf("got %d, %w", steps, cadence.ErrInvalidSteps)
	}

	t, err := f.forecastTimes(steps, exog)
	if err != nil {
		return nil, Components{}, err
	}

	x, err := f.generateFeatures(t, exog)
	if err != nil {
		return nil, Components{}, err
	}

	base, err := f.runInference(x, steps, true)
	if err != nil {
		return nil, Components{}, err
	}
	res := f.applyAutoregression(base)

	comp, err := f.decompose(x, steps)
	if err != nil {
		return nil, Components{}, err
	}
	comp.Autoregressive = make([]float64, steps)
	for i := range res {
		comp.Autoregressive[i] = res[i] - base[i]
	}
	return res, comp, nil
}

func (f *Forecast) forecastTimes(steps int, exog *timedataset.ExogenousTable) ([]time.Time, error) {
	if exog == nil {
		return f.cad.Dates(f.cad.PeriodEnd(f.trainEndTime).AddDate(0, 0, 1), steps)
	}
	if exog.Len() != steps {
		return nil, fmt.Errorf("%d steps with %d rows, %w", steps, exog.Len(), ErrStepsMismatch)
	}
	t := make([]time.Time, len(exog.T))
	copy(t, exog.T)
	return t, nil
}

// generateFeatures builds the deterministic features of the options followed by the
// exogenous columns in table order, and checks that every weighted feature is present
func (f *Forecast) generateFeatures(t []time.Time, exog *timedataset.ExogenousTable) (*feature.Set, error) {
	x := feature.NewSet()
	if err := f.opt.generateFeatures(f.cad, t, x); err != nil {
		return nil, err
	}

	if exog != nil {
		for _, col := range exog.Columns() {
			data, _ := exog.Column(col)
			if err := x.Set(feature.NewExogenous(col), data); err != nil {
				return nil, err
			}
		}
	}

	var missing []string
	for _, label := range f.fLabels.Labels() {
		if label.Type() == feature.FeatureTypeAutoregressive {
			continue
		}
		if _, exists := x.Get(label); !exists {
			missing = append(missing, label.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s, %w", strings.Join(missing, ", "), ErrMissingFeature)
	}
	return x, nil
}

// runInference multiplies the feature matrix by the model weights aligned to the feature
// set columns. Features without a weight contribute nothing.
func (f *Forecast) runInference(x *feature.Set, rows int, withIntercept bool) ([]float64, error) {
	featMx, err := x.Matrix(withIntercept)
	if errors.Is(err, feature.ErrEmptySet) {
		res := make([]float64, rows)
		if withIntercept {
			for i := range res {
				res[i] = f.intercept
			}
		}
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	m, n := featMx.Dims()
	xWeights := make([]float64, 0, n)
	if withIntercept {
		xWeights = append(xWeights, f.intercept)
	}
	for _, xFeat := range x.Labels().Labels() {
		w := 0.0
		if wIdx, exists := f.fLabels.Index(xFeat); exists {
			w = f.coef[wIdx]
		}
		xWeights = append(xWeights, w)
	}

	wVec := mat.NewVecDense(n, xWeights)
	resVec := mat.NewVecDense(m, nil)
	resVec.MulVec(featMx, wVec)

	return mat.Col(nil, 0, resVec), nil
}

// applyAutoregression feeds each prediction back as the input of the following steps
func (f *Forecast) applyAutoregression(base []float64) []float64 {
	res := make([]float64, len(base))
	copy(res, base)
	if len(f.arCoef) == 0 {
		return res
	}

	series := make([]float64, 0, len(f.history)+len(base))
	series = append(series, f.history...)
	for i := range res {
		for lag, phi := range f.arCoef {
			res[i] += phi * series[len(series)-lag-1]
		}
		series = append(series, res[i])
	}
	return res
}

func (f *Forecast) decompose(x *feature.Set, rows int) (Components, error) {
	trend, err := f.runInference(x.Filter(feature.FeatureTypeGrowth), rows, true)
	if err != nil {
		return Components{}, err
	}
	seas, err := f.runInference(x.Filter(feature.FeatureTypeSeasonality), rows, false)
	if err != nil {
		return Components{}, err
	}
	event, err := f.runInference(x.Filter(feature.FeatureTypeEvent), rows, false)
	if err != nil {
		return Components{}, err
	}
	exog, err := f.runInference(x.Filter(feature.FeatureTypeExogenous), rows, false)
	if err != nil {
		return Components{}, err
	}
	return Components{
		Trend:       trend,
		Seasonality: seas,
		Event:       event,
		Exogenous:   exog,
	}, nil
}

// FeatureLabels returns the slice of feature labels in the order of the coefficients
func (f *Forecast) FeatureLabels() []feature.Feature {
	if f == nil {
		return nil
	}
	return f.fLabels.Labels()
}

// ExogenousNames returns the sorted names of the exogenous columns the model weighs
func (f *Forecast) ExogenousNames() []string {
	if f == nil {
		return nil
	}
	var names []string
	for _, label := range f.fLabels.Labels() {
		if exog, ok := label.(*feature.Exogenous); ok {
			names = append(names, exog.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Coefficients returns a forecast model map of coefficients keyed by the string
// representation of each feature label
func (f *Forecast) Coefficients() (map[string]float64, error) {
	if f == nil {
		return nil, ErrUninitializedForecast
	}

	labels := f.fLabels.Labels()
	if len(labels) == 0 || len(f.coef) == 0 {
		return nil, ErrNoModelCoefficients
	}
	coef := make(map[string]float64)
	for i := 0; i < len(f.coef); i++ {
		coef[labels[i].String()] = f.coef[i]
	}
	return coef, nil
}

// Intercept returns the intercept of the forecast model
func (f *Forecast) Intercept() float64 {
	if f == nil {
		return 0
	}
	return f.intercept
}

// Model returns the serializeable format the forecast was loaded from
func (f *Forecast) Model() (Model, error) {
	if f == nil {
		return Model{}, ErrUninitializedForecast
	}
	return f.model, nil
}

// ModelEq returns a string representation of the model linear equation in the format of
// y ~ b + m1x1 + m2x2 + ...
func (f *Forecast) ModelEq() (string, error) {
	if f == nil {
		return "", ErrUninitializedForecast
	}

	eq := "y ~ "

	coef, err := f.Coefficients()
	if err != nil {
		return "", err
	}

	eq += fmt.Sprintf("%.2f", f.Intercept())
	for _, label := range f.fLabels.Labels() {
		w := coef[label.String()]
		if w == 0 {
			continue
		}
		eq += fmt.Sprintf("+%.2f*%s", w, label)
	}
	return eq, nil
}

// Scores returns the fit scores recorded when the model was trained
func (f *Forecast) Scores() Scores {
	if f == nil {
		return Scores{}
	}
	if f.scores == nil {
		return Scores{}
	}
	return *f.scores
}
