// Package feature describes the labelled inputs of a forecast model. Every coefficient of a
// model is tied to one Feature, and a Set holds the per-row values of those features.
package feature

import "errors"

var ErrMissingLabel = errors.New("feature label is missing")

// FeatureType is the family a feature belongs to
type FeatureType int

const (
	FeatureTypeGrowth FeatureType = iota
	FeatureTypeSeasonality
	FeatureTypeEvent
	FeatureTypeExogenous
	FeatureTypeAutoregressive
)

func (f FeatureType) String() string {
	switch f {
	case FeatureTypeGrowth:
		return "growth"
	case FeatureTypeSeasonality:
		return "seasonality"
	case FeatureTypeEvent:
		return "event"
	case FeatureTypeExogenous:
		return "exogenous"
	case FeatureTypeAutoregressive:
		return "autoregressive"
	}
	return "unknown"
}

// Feature is a labelled model input. String must be unique across all features of a model.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}
