// Package engine owns the tracked signals: one Kalman filter and one raw
// variance window per signal, persistence of readings, and the periodic
// bookkeeping around them.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/lazypower/steady/internal/kalman"
	"github.com/lazypower/steady/internal/store"
)

// ErrUnknownSignal is returned for operations on a signal that is not tracked.
var ErrUnknownSignal = errors.New("unknown signal")

const (
	// recalibrateEvery is the observation cadence for adaptive noise
	// recalibration. The filter wants this caller-driven at every 10-20
	// observations.
	recalibrateEvery = 16

	// rawWindowSize is the variance window kept over raw measurements.
	rawWindowSize = 32
)

// tracked bundles everything the engine holds for one signal.
type tracked struct {
	name    string
	preset  string
	target  float64
	feature string
	filter  *kalman.Filter
	window  *kalman.VarianceWindow
}

// Engine orchestrates signal tracking, filtering, and persistence.
type Engine struct {
	DB    *store.DB
	Flags kalman.FlagSource

	// retention is how many readings to keep per signal when pruning.
	retention int

	mu      sync.RWMutex
	signals map[string]*tracked

	stopCh chan struct{}
}

// New creates an Engine. flags gates whether filtering is applied per
// signal feature; a nil flags disables filtering everywhere.
func New(db *store.DB, flags kalman.FlagSource, retention int) *Engine {
	return &Engine{
		DB:        db,
		Flags:     flags,
		retention: retention,
		signals:   make(map[string]*tracked),
		stopCh:    make(chan struct{}),
	}
}

// Track registers a signal under a named preset with an optional target
// setpoint and gating feature. Re-tracking an existing signal updates its
// registry row; the running filter is kept unless the preset changed.
func (e *Engine) Track(name, preset string, target float64, feature string) error {
	if name == "" {
		return fmt.Errorf("signal name required")
	}
	cfg, ok := kalman.Preset(preset)
	if !ok {
		return fmt.Errorf("unknown preset %q (have %v)", preset, kalman.PresetNames())
	}
	if preset == "" {
		preset = "default"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if t, exists := e.signals[name]; exists {
		t.target = target
		t.feature = feature
		// A preset change means different tuning; restart the filter.
		if t.preset != preset {
			t.preset = preset
			t.filter = kalman.New(cfg)
		}
	} else {
		window, err := kalman.NewVarianceWindow(rawWindowSize)
		if err != nil {
			return fmt.Errorf("variance window: %w", err)
		}
		e.signals[name] = &tracked{
			name:    name,
			preset:  preset,
			target:  target,
			feature: feature,
			filter:  kalman.New(cfg),
			window:  window,
		}
	}

	if err := e.DB.UpsertSignal(name, preset, target, feature); err != nil {
		return err
	}
	return nil
}

// LoadTracked re-registers signals from the registry table. Filters start
// fresh; state is never restored across restarts.
func (e *Engine) LoadTracked() (int, error) {
	signals, err := e.DB.ListSignals()
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, s := range signals {
		if err := e.Track(s.Name, s.Preset, s.Target, s.Feature); err != nil {
			log.Printf("load tracked: %s: %v", s.Name, err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Untrack removes a signal and its stored readings and snapshots.
func (e *Engine) Untrack(name string) error {
	e.mu.Lock()
	_, exists := e.signals[name]
	delete(e.signals, name)
	e.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownSignal, name)
	}
	return e.DB.DeleteSignal(name)
}

// Tracked returns the names of all tracked signals.
func (e *Engine) Tracked() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.signals))
	for name := range e.signals {
		names = append(names, name)
	}
	return names
}

// lookup returns a copy of the signal's entry taken under the read lock.
// Track may rewrite the registry entry at any time; callers work against
// the copy so a concurrent re-track cannot tear their fields mid-operation.
// The filter and window pointers carry their own locks.
func (e *Engine) lookup(name string) (tracked, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.signals[name]
	if !ok {
		return tracked{}, fmt.Errorf("%w: %s", ErrUnknownSignal, name)
	}
	return *t, nil
}

// Observe feeds one measurement into a signal's filter (gated by the
// signal's feature), records the reading, and recalibrates measurement
// noise on the configured cadence.
func (e *Engine) Observe(name string, value float64) (kalman.FilteredValue, error) {
	t, err := e.lookup(name)
	if err != nil {
		return kalman.FilteredValue{}, err
	}

	result := t.filter.ProcessIfEnabled(e.Flags, t.feature, value, t.target)
	t.window.Update(value)

	if result.WasFiltered && t.filter.Observations()%recalibrateEvery == 0 {
		t.filter.UpdateAdaptiveNoise()
	}

	snap := t.filter.Snapshot()
	if err := e.DB.AddReading(store.Reading{
		Signal:      name,
		Raw:         result.Raw,
		Filtered:    result.Filtered,
		Gain:        snap.Gain,
		Uncertainty: snap.Uncertainty,
		WasFiltered: result.WasFiltered,
	}); err != nil {
		log.Printf("observe %s: record reading: %v", name, err)
	}

	return result, nil
}

// ObserveBatch feeds a sequence of measurements through a signal's filter,
// returning one result per input. When the signal's feature is disabled the
// raw values pass through untouched.
func (e *Engine) ObserveBatch(name string, values []float64) ([]kalman.FilteredValue, error) {
	t, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	results := make([]kalman.FilteredValue, len(values))
	enabled := e.Flags != nil && e.Flags.Enabled(t.feature)

	if enabled {
		filtered := t.filter.ProcessBatch(values, t.target)
		for i := range values {
			results[i] = kalman.FilteredValue{
				Raw:         values[i],
				Filtered:    filtered[i],
				Feature:     t.feature,
				WasFiltered: true,
			}
		}
		// Recalibrate if the batch crossed a cadence boundary.
		obs := t.filter.Observations()
		if obs/recalibrateEvery != (obs-uint64(len(values)))/recalibrateEvery {
			t.filter.UpdateAdaptiveNoise()
		}
	} else {
		for i := range values {
			results[i] = kalman.FilteredValue{
				Raw:      values[i],
				Filtered: values[i],
				Feature:  t.feature,
			}
		}
	}

	snap := t.filter.Snapshot()
	for _, r := range results {
		t.window.Update(r.Raw)
		if err := e.DB.AddReading(store.Reading{
			Signal:      name,
			Raw:         r.Raw,
			Filtered:    r.Filtered,
			Gain:        snap.Gain,
			Uncertainty: snap.Uncertainty,
			WasFiltered: r.WasFiltered,
		}); err != nil {
			log.Printf("observe batch %s: record reading: %v", name, err)
		}
	}

	return results, nil
}

// Forecast extrapolates a signal steps ahead (gated by its feature).
func (e *Engine) Forecast(name string, steps int) (kalman.FilteredValue, error) {
	t, err := e.lookup(name)
	if err != nil {
		return kalman.FilteredValue{}, err
	}
	return t.filter.PredictIfEnabled(e.Flags, t.feature, steps), nil
}

// ForecastWithUncertainty extrapolates a signal steps ahead and reports the
// projected uncertainty. Not gated: it is a pure read of filter state.
func (e *Engine) ForecastWithUncertainty(name string, steps int) (value, uncertainty float64, err error) {
	t, err := e.lookup(name)
	if err != nil {
		return 0, 0, err
	}
	value, uncertainty = t.filter.PredictWithUncertainty(steps)
	return value, uncertainty, nil
}

// ResetSignal returns a signal's filter to its startup state.
func (e *Engine) ResetSignal(name string) error {
	t, err := e.lookup(name)
	if err != nil {
		return err
	}
	t.filter.Reset()
	return nil
}
