package forecast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/feature"
	"github.com/electrotech/salesforecaster/forecast/util"
	"github.com/electrotech/salesforecaster/timedataset"
	"github.com/goccy/go-json"
)

var (
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrDuplicateWeight    = errors.New("duplicate feature weight")
	ErrUnexpectedWeight   = errors.New("weight references a feature the options do not generate")
	ErrNonFiniteWeight    = errors.New("non finite weight")
	ErrInvalidLag         = errors.New("autoregressive lag must be at least 1")
)

// Model represents a serializeable format of a forecast storing the cadence, options,
// the tail of the training series needed for autoregressive terms, fit scores, and
// coefficients. It is the artifact that gets published to and loaded from the model store.
type Model struct {
	Cadence      cadence.Cadence          `json:"cadence"`
	TrainEndTime time.Time                `json:"train_end_time"`
	Options      *Options                 `json:"options"`
	History      *timedataset.TimeDataset `json:"history,omitempty"`
	Scores       *Scores                  `json:"scores,omitempty"`
	Weights      Weights                  `json:"weights"`
}

// ReadModel decodes a JSON model artifact and validates it
func ReadModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// WriteModel encodes a model artifact as indented JSON
func WriteModel(w io.Writer, m Model) error {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// Validate checks that the model can be used for inference
func (m Model) Validate() error {
	if !m.Cadence.Valid() {
		return cadence.ErrUnknownCadence
	}
	if err := m.Options.Validate(m.Cadence); err != nil {
		return err
	}
	if m.History != nil {
		if err := m.History.Validate(); err != nil {
			return fmt.Errorf("invalid history, %w", err)
		}
	}
	if math.IsNaN(m.Weights.Intercept) || math.IsInf(m.Weights.Intercept, 0) {
		return fmt.Errorf("intercept, %w", ErrNonFiniteWeight)
	}

	generated := make(map[string]struct{})
	for _, f := range m.Options.Labels() {
		generated[f.String()] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, fw := range m.Weights.Coef {
		feat, err := fw.ToFeature()
		if err != nil {
			return err
		}
		label := feat.String()
		if _, exists := seen[label]; exists {
			return fmt.Errorf("%s, %w", label, ErrDuplicateWeight)
		}
		seen[label] = struct{}{}

		if math.IsNaN(fw.Value) || math.IsInf(fw.Value, 0) {
			return fmt.Errorf("%s, %w", label, ErrNonFiniteWeight)
		}

		switch f := feat.(type) {
		case *feature.Exogenous:
		case *feature.Autoregressive:
			if f.Lag < 1 {
				return fmt.Errorf("%s, %w", label, ErrInvalidLag)
			}
		default:
			if _, exists := generated[label]; !exists {
				return fmt.Errorf("%s, %w", label, ErrUnexpectedWeight)
			}
		}
	}
	return nil
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sForecast:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sCadence: %s\n", prefix, util.IndentExpand(indent, 1), m.Cadence); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sTraining End Time: %s\n", prefix, util.IndentExpand(indent, 1), m.TrainEndTime); err != nil {
		return err
	}

	if err := m.Options.tablePrint(w, prefix, indent, 1); err != nil {
		return err
	}

	if m.History != nil {
		if _, err := fmt.Fprintf(w, "%s%sHistory: %d points ending %s\n",
			prefix, util.IndentExpand(indent, 1),
			len(m.History.Y), m.History.EndTime().Format(time.DateOnly)); err != nil {
			return err
		}
	}

	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, util.IndentExpand(indent, 1),
			m.Scores.MAPE,
			m.Scores.MSE,
			m.Scores.R2,
		); err != nil {
			return err
		}
	}

	return m.Weights.tablePrint(w, prefix, indent, 0)
}

// Weights stores the intercept and coefficients for the forecast model
type Weights struct {
	Intercept float64         `json:"intercept"`
	Coef      []FeatureWeight `json:"coefficients"`
}

// FeatureLabels returns all of the feature labels in the same order as the coefficients
func (w *Weights) FeatureLabels() (*feature.Labels, error) {
	labels := make([]feature.Feature, 0, len(w.Coef))
	for _, fw := range w.Coef {
		feat, err := fw.ToFeature()
		if err != nil {
			return nil, err
		}
		labels = append(labels, feat)
	}
	return feature.NewLabels(labels), nil
}

// Coefficients returns a slice copy of the coefficients ignoring the intercept.
func (w *Weights) Coefficients() []float64 {
	coef := make([]float64, 0, len(w.Coef))
	for _, fw := range w.Coef {
		coef = append(coef, fw.Value)
	}
	return coef
}

func (w Weights) tablePrint(wr io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(wr, "%s%sWeights:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(wr, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sType\tLabels\tValue\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tbl, "%s%sIntercept\t\t%.3f\t\n", prefix, util.IndentExpand(indent, indentGrowth+1), w.Intercept); err != nil {
		return err
	}
	for _, fw := range w.Coef {
		labelOut, err := json.Marshal(fw.Labels)
		if err != nil {
			return err
		}
		val := fmt.Sprintf("%.3f", fw.Value)
		if fw.Value == 0 {
			val = "..."
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			fw.Type, string(labelOut), val); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

// FeatureWeight represents a feature described with a type e.g. exogenous, labels and the value
type FeatureWeight struct {
	Labels map[string]string   `json:"labels"`
	Type   feature.FeatureType `json:"type"`
	Value  float64             `json:"value"`
}

func NewFeatureWeight(f feature.Feature, val float64) FeatureWeight {
	return FeatureWeight{
		Labels: f.Decode(),
		Type:   f.Type(),
		Value:  val,
	}
}

// ToFeature transforms the Type and Labels into a feature type
func (fw *FeatureWeight) ToFeature() (feature.Feature, error) {
	if fw == nil {
		return nil, ErrUnknownFeatureType
	}

	bytes, err := json.Marshal(fw.Labels)
	if err != nil {
		return nil, err
	}

	var feat feature.Feature
	switch fw.Type {
	case feature.FeatureTypeGrowth:
		feat = new(feature.Growth)
	case feature.FeatureTypeSeasonality:
		feat = new(feature.Seasonality)
	case feature.FeatureTypeEvent:
		feat = new(feature.Event)
	case feature.FeatureTypeExogenous:
		feat = new(feature.Exogenous)
	case feature.FeatureTypeAutoregressive:
		feat = new(feature.Autoregressive)
	default:
		return nil, fmt.Errorf("type %d, %w", fw.Type, ErrUnknownFeatureType)
	}
	if err := json.Unmarshal(bytes, feat); err != nil {
		return nil, err
	}
	return feat, nil
}
