package config

import "sync"

// Feature names for the filtering gates. Each tracked signal type gets its
// own switch so filtering can be rolled out per signal.
const (
	FeatureKalmanDecay      = "kalman_decay"
	FeatureKalmanCoAccess   = "kalman_coaccess"
	FeatureKalmanLatency    = "kalman_latency"
	FeatureKalmanSimilarity = "kalman_similarity"
	FeatureKalmanTemporal   = "kalman_temporal"
)

// KalmanFeatures lists every filtering feature name.
func KalmanFeatures() []string {
	return []string{
		FeatureKalmanDecay,
		FeatureKalmanCoAccess,
		FeatureKalmanLatency,
		FeatureKalmanSimilarity,
		FeatureKalmanTemporal,
	}
}

// Features is a concurrent feature-flag set. It satisfies kalman.FlagSource
// and is passed explicitly to whatever consults it; there is no package
// global.
type Features struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewFeatures creates a flag set with the given features enabled.
func NewFeatures(enabled ...string) *Features {
	f := &Features{flags: make(map[string]bool)}
	for _, name := range enabled {
		f.flags[name] = true
	}
	return f
}

// Enabled reports whether a feature is on. Unknown names are off.
func (f *Features) Enabled(feature string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[feature]
}

// Enable turns a feature on.
func (f *Features) Enable(feature string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[feature] = true
}

// Disable turns a feature off.
func (f *Features) Disable(feature string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.flags, feature)
}

// EnableAllKalman turns on every filtering feature.
func (f *Features) EnableAllKalman() {
	for _, name := range KalmanFeatures() {
		f.Enable(name)
	}
}

// DisableAllKalman turns off every filtering feature.
func (f *Features) DisableAllKalman() {
	for _, name := range KalmanFeatures() {
		f.Disable(name)
	}
}

// List returns the state of every known filtering feature.
func (f *Features) List() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]bool, len(f.flags))
	for _, name := range KalmanFeatures() {
		out[name] = f.flags[name]
	}
	return out
}
