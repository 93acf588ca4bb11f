// Package registry holds the loaded forecast model of each servable cadence. Slots are
// filled once at startup and only read afterwards.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/timedataset"
)

var (
	ErrModelNotLoaded = errors.New("model not loaded")
	ErrSlotFilled     = errors.New("model slot already filled")
	ErrNilModel       = errors.New("nil model")
)

// Model produces steps predictions from a table of exogenous features
type Model interface {
	Forecast(steps int, exog *timedataset.ExogenousTable) ([]float64, error)
}

// ConcurrencySafe is implemented by models that can serve concurrent callers. Models that
// do not implement it, or report false, are called under the lock of their cadence.
type ConcurrencySafe interface {
	ConcurrencySafe() bool
}

type slot struct {
	mu     sync.Mutex
	model  Model
	source string
}

// Forecast serializes calls into the slot's model
func (s *slot) Forecast(steps int, exog *timedataset.ExogenousTable) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Forecast(steps, exog)
}

// Registry maps every servable cadence to at most one model
type Registry struct {
	mu    sync.RWMutex
	slots map[cadence.Cadence]*slot
}

// New returns a registry with every slot unset
func New() *Registry {
	return &Registry{
		slots: make(map[cadence.Cadence]*slot),
	}
}

// Set fills the slot of a cadence. Source describes where the model came from and is only
// used for reporting.
func (r *Registry) Set(c cadence.Cadence, m Model, source string) error {
	if !c.Valid() {
		return fmt.Errorf("%d, %w", c, cadence.ErrUnknownCadence)
	}
	if m == nil {
		return fmt.Errorf("%s, %w", c, ErrNilModel)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.slots[c]; exists {
		return fmt.Errorf("%s, %w", c, ErrSlotFilled)
	}
	r.slots[c] = &slot{model: m, source: source}
	return nil
}

// Get returns the model of a cadence. Models that are not safe for concurrent use are
// returned wrapped so every call holds the lock of that cadence.
func (r *Registry) Get(c cadence.Cadence) (Model, error) {
	if r == nil {
		return nil, fmt.Errorf("%s, %w", c, ErrModelNotLoaded)
	}

	r.mu.RLock()
	s, exists := r.slots[c]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%s, %w", c, ErrModelNotLoaded)
	}

	if cs, ok := s.model.(ConcurrencySafe); ok && cs.ConcurrencySafe() {
		return s.model, nil
	}
	return s, nil
}

// Loaded reports whether the slot of a cadence is filled
func (r *Registry) Loaded(c cadence.Cadence) bool {
	_, err := r.Get(c)
	return err == nil
}

// Source returns where the model of a cadence was loaded from
func (r *Registry) Source(c cadence.Cadence) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, exists := r.slots[c]
	if !exists {
		return "", false
	}
	return s.source, true
}

// Missing returns the servable cadences without a model in declaration order
func (r *Registry) Missing() []cadence.Cadence {
	var missing []cadence.Cadence
	for _, c := range cadence.All() {
		if !r.Loaded(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
