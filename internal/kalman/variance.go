package kalman

import (
	"fmt"
	"math"
	"sync"
)

// VarianceWindow maintains mean and variance over the most recent N samples
// in O(1) per update, using running sums over a fixed circular buffer.
//
// Until N samples have been written, unwritten slots count as zeros, biasing
// early statistics toward zero. That is an accepted initial-condition
// artifact of the running-sum scheme, kept for parity with the filter's own
// warm-up behavior.
type VarianceWindow struct {
	mu sync.Mutex

	window []float64
	idx    int

	sum      float64
	sumSq    float64
	mean     float64
	variance float64

	inverseN float64
}

// NewVarianceWindow creates a tracker over the last size samples.
// size must be positive.
func NewVarianceWindow(size int) (*VarianceWindow, error) {
	if size <= 0 {
		return nil, fmt.Errorf("variance window size must be positive, got %d", size)
	}
	return &VarianceWindow{
		window:   make([]float64, size),
		inverseN: 1.0 / float64(size),
	}, nil
}

// Update inserts a sample, evicting the oldest, and refreshes the statistics.
func (v *VarianceWindow) Update(sample float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	old := v.window[v.idx]
	v.window[v.idx] = sample

	v.sum += sample - old
	v.sumSq += sample*sample - old*old

	v.idx++
	if v.idx >= len(v.window) {
		v.idx = 0
	}

	v.mean = v.sum * v.inverseN
	v.variance = math.Abs(v.sumSq*v.inverseN - v.mean*v.mean)
}

// Mean returns the current window mean.
func (v *VarianceWindow) Mean() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mean
}

// Variance returns the current window variance.
func (v *VarianceWindow) Variance() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.variance
}

// StdDev returns the current window standard deviation.
func (v *VarianceWindow) StdDev() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return math.Sqrt(v.variance)
}

// AdaptiveNoise returns sqrt(variance) * scale, the same form the filter
// uses when re-deriving measurement noise. Usable standalone.
func (v *VarianceWindow) AdaptiveNoise(scale float64) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return math.Sqrt(v.variance) * scale
}
