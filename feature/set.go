package feature

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptySet    = errors.New("feature set has no features")
	ErrRowMismatch = errors.New("feature data length does not match feature set rows")
)

// Set represents an ordered mapping to each feature data keyed by the string representation
// of the feature. Features keep the order in which they were first set.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

// NewSet returns an empty feature set
func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Set stores the data of a feature. All features of a set must have the same number of
// rows. Setting an existing feature replaces its data in place.
func (s *Set) Set(f Feature, data []float64) error {
	if len(s.labels) > 0 && len(data) != s.m {
		return fmt.Errorf("%s has %d rows, expected %d, %w", f, len(data), s.m, ErrRowMismatch)
	}
	s.m = len(data)

	label := f.String()
	if _, exists := s.set[label]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[label] = data
	return nil
}

// Get returns the data of a feature if it exists
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.set[f.String()]
	return data, exists
}

// Len returns the number of features in the set
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Rows returns the number of observations per feature
func (s *Set) Rows() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Labels returns the ordered labels of all tracked features in the Set
func (s *Set) Labels() *Labels {
	if s == nil {
		return NewLabels(nil)
	}
	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	return NewLabels(labels)
}

// Filter returns a new set, sharing data, with only the features of the given types
func (s *Set) Filter(types ...FeatureType) *Set {
	out := NewSet()
	if s == nil {
		return out
	}
	for _, f := range s.labels {
		for _, t := range types {
			if f.Type() == t {
				out.labels = append(out.labels, f)
				out.set[f.String()] = s.set[f.String()]
				out.m = s.m
				break
			}
		}
	}
	return out
}

// Matrix returns a matrix representation of the Set to be used with matrix methods.
// The matrix has m rows representing the number of observations and n columns representing
// the number of features, plus a leading column of ones if intercept is set.
func (s *Set) Matrix(intercept bool) (*mat.Dense, error) {
	if s.Len() == 0 || s.m == 0 {
		return nil, ErrEmptySet
	}

	m := s.m
	n := len(s.labels)
	if intercept {
		n += 1
	}

	mx := mat.NewDense(m, n, nil)
	featNum := 0
	if intercept {
		ones := make([]float64, m)
		floats.AddConst(1.0, ones)
		mx.SetCol(featNum, ones)
		featNum++
	}

	for _, label := range s.labels {
		mx.SetCol(featNum, s.set[label.String()])
		featNum++
	}
	return mx, nil
}
