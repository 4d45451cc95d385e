// Package kalman implements the scalar adaptive Kalman filter that steady
// uses to smooth tracked signals.
//
// The filter is deliberately scalar: no matrices, O(1) per measurement.
// Three things distinguish it from a textbook single-variable filter:
//
//   - Velocity projection: each cycle projects the estimate forward by the
//     last observed rate of change, so the filter follows trends instead of
//     assuming a static signal.
//   - Setpoint error boosting: when the projection sits proportionally far
//     from a caller-supplied target, uncertainty grows faster and new
//     measurements get trusted more.
//   - Adaptive measurement noise: recent innovations (residuals) are kept in
//     a bounded history, and measurement noise can be periodically re-derived
//     from their variance.
package kalman

import (
	"math"
	"sync"
)

// Config holds filter tuning parameters. All four values are expected to be
// positive; the constructor does not validate them (see the preset
// constructors for known-good tuples).
type Config struct {
	// ProcessNoise is how much the true signal is expected to move between
	// measurements. Scaled by 0.001 internally.
	ProcessNoise float64

	// MeasurementNoise is how much individual observations are distrusted.
	// Higher values smooth harder but respond slower.
	MeasurementNoise float64

	// InitialUncertainty seeds the estimate covariance.
	InitialUncertainty float64

	// VarianceScale multiplies innovation standard deviation when deriving
	// adaptive measurement noise.
	VarianceScale float64
}

const (
	// maxInnovations bounds the innovation history used for noise adaptation.
	maxInnovations = 32

	// minInnovations is the fewest samples UpdateAdaptiveNoise will work with.
	minInnovations = 5

	// resetUncertainty is the covariance installed by Reset. This is the
	// default seed value, not the configured one: a filter constructed with a
	// non-default preset comes back from Reset with covariance 30.
	resetUncertainty = 30.0

	// noiseFloor keeps adaptive measurement noise from collapsing to zero.
	noiseFloor = 1.0

	// processNoiseScale shrinks the configured process noise to per-step size.
	processNoiseScale = 0.001
)

// Filter is a scalar Kalman filter with velocity projection and adaptive
// measurement noise. Safe for concurrent use; one instance per signal.
type Filter struct {
	mu sync.RWMutex

	estimate     float64 // current state estimate
	lastEstimate float64 // post-projection estimate from the previous cycle
	covariance   float64 // estimate uncertainty
	gain         float64 // last computed Kalman gain
	errFactor    float64 // last setpoint error factor

	processNoise     float64 // pre-scaled
	measurementNoise float64
	varianceScale    float64

	observations uint64
	innovations  []float64
}

// New creates a filter from cfg. Inputs are not validated: the filter is
// total over float64, and NaN or Inf inputs propagate through the recurrence
// rather than being rejected.
func New(cfg Config) *Filter {
	return &Filter{
		covariance:       cfg.InitialUncertainty,
		errFactor:        1.0,
		processNoise:     cfg.ProcessNoise * processNoiseScale,
		measurementNoise: cfg.MeasurementNoise,
		varianceScale:    cfg.VarianceScale,
		innovations:      make([]float64, 0, maxInnovations),
	}
}

// NewWithInitial creates a filter seeded with an initial state estimate.
func NewWithInitial(cfg Config, initial float64) *Filter {
	f := New(cfg)
	f.estimate = initial
	f.lastEstimate = initial
	return f
}

// Process feeds one measurement through the filter and returns the smoothed
// estimate. target is an optional setpoint: when nonzero, the filter boosts
// uncertainty growth in proportion to how far the projection is from it,
// making the filter more responsive when off-target. Pass 0 for no target.
func (f *Filter) Process(measurement, target float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.step(measurement, target)
}

// ProcessBatch runs each measurement through the filter in order under a
// single lock acquisition, returning one estimate per input.
func (f *Filter) ProcessBatch(measurements []float64, target float64) []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]float64, len(measurements))
	for i, m := range measurements {
		out[i] = f.step(m, target)
	}
	return out
}

// step is the core recurrence. Callers must hold the write lock.
func (f *Filter) step(measurement, target float64) float64 {
	// Project the estimate forward by the last observed rate of change.
	velocity := f.estimate - f.lastEstimate
	f.estimate += velocity

	// The projected (pre-correction) value is next cycle's velocity baseline.
	f.lastEstimate = f.estimate

	// Setpoint error boosting: proportional distance from the target
	// amplifies uncertainty growth below.
	if target != 0.0 && f.lastEstimate != 0.0 {
		f.errFactor = math.Abs(1.0 - target/f.lastEstimate)
	} else {
		f.errFactor = 1.0
	}

	// Prediction grows uncertainty.
	f.covariance += f.processNoise * f.errFactor

	// Correction shrinks it.
	f.gain = f.covariance / (f.covariance + f.measurementNoise)

	innovation := measurement - f.estimate
	f.estimate += f.gain * innovation
	f.covariance = (1.0 - f.gain) * f.covariance

	f.recordInnovation(innovation)
	f.observations++
	return f.estimate
}

// recordInnovation appends to the bounded history, evicting the oldest entry
// once full. Callers must hold the write lock.
func (f *Filter) recordInnovation(innovation float64) {
	f.innovations = append(f.innovations, innovation)
	if len(f.innovations) > maxInnovations {
		f.innovations = f.innovations[1:]
	}
}

// Predict extrapolates the state n steps ahead using the current velocity.
// Pure read; filter state is unchanged.
func (f *Filter) Predict(steps int) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	velocity := f.estimate - f.lastEstimate
	return f.estimate + float64(steps)*velocity
}

// PredictWithUncertainty returns the extrapolated value plus an uncertainty
// estimate, assuming each of the n prediction-only steps would grow
// covariance by the same increment Process last used.
func (f *Filter) PredictWithUncertainty(steps int) (value, uncertainty float64) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	velocity := f.estimate - f.lastEstimate
	value = f.estimate + float64(steps)*velocity

	uncertainty = f.covariance
	for i := 0; i < steps; i++ {
		uncertainty += f.processNoise * f.errFactor
	}
	uncertainty = math.Sqrt(uncertainty)

	return value, uncertainty
}

// UpdateAdaptiveNoise re-derives measurement noise from the variance of the
// recorded innovations. No-op until at least five innovations exist. Callers
// decide the cadence; every 10-20 observations works well.
func (f *Filter) UpdateAdaptiveNoise() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.innovations) < minInnovations {
		return
	}

	var sum, sumSq float64
	n := float64(len(f.innovations))
	for _, inn := range f.innovations {
		sum += inn
		sumSq += inn * inn
	}
	mean := sum / n
	// Abs guards against tiny negative results from cancellation.
	variance := math.Abs(sumSq/n - mean*mean)

	f.measurementNoise = math.Sqrt(variance) * f.varianceScale
	if f.measurementNoise < noiseFloor {
		f.measurementNoise = noiseFloor
	}
}

// Reset returns the filter to its startup state. Covariance goes back to the
// default seed of 30, regardless of the configured InitialUncertainty.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.estimate = 0
	f.lastEstimate = 0
	f.covariance = resetUncertainty
	f.gain = 0
	f.errFactor = 1.0
	f.observations = 0
	f.innovations = f.innovations[:0]
}

// SetState overwrites the estimate directly, seeding the filter without a
// measurement. Velocity becomes zero.
func (f *Filter) SetState(state float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estimate = state
	f.lastEstimate = state
}

// State returns the current estimate.
func (f *Filter) State() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.estimate
}

// Velocity returns the current rate of change.
func (f *Filter) Velocity() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.estimate - f.lastEstimate
}

// Uncertainty returns the current estimate covariance.
func (f *Filter) Uncertainty() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.covariance
}

// Gain returns the last computed Kalman gain. In (0,1) once a measurement
// has been processed with positive covariance and noise.
func (f *Filter) Gain() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gain
}

// Observations returns the number of measurements processed.
func (f *Filter) Observations() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.observations
}

// Snapshot is a point-in-time copy of the filter's observable state.
type Snapshot struct {
	State            float64 `json:"state"`
	Velocity         float64 `json:"velocity"`
	Uncertainty      float64 `json:"uncertainty"`
	Gain             float64 `json:"gain"`
	MeasurementNoise float64 `json:"measurement_noise"`
	Observations     uint64  `json:"observations"`
}

// Snapshot returns a consistent copy of all observable fields.
func (f *Filter) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return Snapshot{
		State:            f.estimate,
		Velocity:         f.estimate - f.lastEstimate,
		Uncertainty:      f.covariance,
		Gain:             f.gain,
		MeasurementNoise: f.measurementNoise,
		Observations:     f.observations,
	}
}
