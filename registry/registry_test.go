package registry

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constModel struct {
	val  float64
	safe bool

	active    atomic.Int32
	maxActive atomic.Int32
}

func (m *constModel) Forecast(steps int, exog *timedataset.ExogenousTable) ([]float64, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxActive.Load()
		if n <= cur || m.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	res := make([]float64, steps)
	for i := range res {
		res[i] = m.val
	}
	return res, nil
}

func (m *constModel) ConcurrencySafe() bool {
	return m.safe
}

func TestRegistrySet(t *testing.T) {
	testData := map[string]struct {
		init    func() *Registry
		cadence cadence.Cadence
		model   Model
		err     error
	}{
		"empty slot": {
			init:    New,
			cadence: cadence.Monthly,
			model:   &constModel{},
		},
		"unknown cadence": {
			init:    New,
			cadence: cadence.Unknown,
			model:   &constModel{},
			err:     cadence.ErrUnknownCadence,
		},
		"nil model": {
			init:    New,
			cadence: cadence.Annual,
			err:     ErrNilModel,
		},
		"filled slot": {
			init: func() *Registry {
				r := New()
				_ = r.Set(cadence.Quarterly, &constModel{}, "first")
				return r
			},
			cadence: cadence.Quarterly,
			model:   &constModel{},
			err:     ErrSlotFilled,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r := td.init()
			err := r.Set(td.cadence, td.model, "test")
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.True(t, r.Loaded(td.cadence))
		})
	}
}

func TestRegistryGet(t *testing.T) {
	r := New()
	require.Nil(t, r.Set(cadence.Annual, &constModel{val: 3, safe: true}, "annual.json"))
	require.Nil(t, r.Set(cadence.Quarterly, &constModel{val: 2}, "quarterly.json"))

	_, err := r.Get(cadence.Monthly)
	assert.ErrorIs(t, err, ErrModelNotLoaded)

	m, err := r.Get(cadence.Annual)
	require.Nil(t, err)
	res, err := m.Forecast(2, nil)
	require.Nil(t, err)
	assert.Equal(t, []float64{3, 3}, res)

	m, err = r.Get(cadence.Quarterly)
	require.Nil(t, err)
	_, wrapped := m.(*slot)
	assert.True(t, wrapped)

	src, exists := r.Source(cadence.Quarterly)
	assert.True(t, exists)
	assert.Equal(t, "quarterly.json", src)

	assert.Equal(t, []cadence.Cadence{cadence.Monthly}, r.Missing())

	var nilReg *Registry
	_, err = nilReg.Get(cadence.Annual)
	assert.ErrorIs(t, err, ErrModelNotLoaded)
}

func TestRegistryLocksUnsafeModels(t *testing.T) {
	testData := map[string]struct {
		safe        bool
		maxParallel int32
	}{
		"unsafe model is serialized": {
			safe:        false,
			maxParallel: 1,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			model := &constModel{val: 1, safe: td.safe}
			r := New()
			require.Nil(t, r.Set(cadence.Monthly, model, "test"))

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					m, err := r.Get(cadence.Monthly)
					if err != nil {
						return
					}
					_, _ = m.Forecast(1, nil)
				}()
			}
			wg.Wait()
			assert.Equal(t, td.maxParallel, model.maxActive.Load())
		})
	}
}
