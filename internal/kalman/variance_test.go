package kalman

import (
	"math"
	"testing"
)

func TestVarianceWindowRejectsBadSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		if _, err := NewVarianceWindow(size); err == nil {
			t.Errorf("NewVarianceWindow(%d): expected error", size)
		}
	}
}

func TestVarianceWindowConstantInput(t *testing.T) {
	const n = 8
	v, err := NewVarianceWindow(n)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	for i := 0; i < n; i++ {
		v.Update(42.0)
	}

	if got := v.Mean(); got != 42.0 {
		t.Errorf("Mean = %v, want 42.0", got)
	}
	if got := v.Variance(); got != 0 {
		t.Errorf("Variance = %v, want 0", got)
	}
	if got := v.StdDev(); got != 0 {
		t.Errorf("StdDev = %v, want 0", got)
	}
}

func TestVarianceWindowKnownValues(t *testing.T) {
	v, err := NewVarianceWindow(4)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	for _, s := range []float64{1, 2, 3, 4} {
		v.Update(s)
	}

	if got := v.Mean(); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
	// Population variance of {1,2,3,4}.
	if got := v.Variance(); !almostEqual(got, 1.25, 1e-12) {
		t.Errorf("Variance = %v, want 1.25", got)
	}
}

func TestVarianceWindowEviction(t *testing.T) {
	v, err := NewVarianceWindow(3)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	for _, s := range []float64{1, 2, 3, 4} {
		v.Update(s)
	}

	// Window now holds {2,3,4}.
	if got := v.Mean(); !almostEqual(got, 3.0, 1e-12) {
		t.Errorf("Mean = %v, want 3.0", got)
	}
	if got := v.Variance(); !almostEqual(got, 2.0/3.0, 1e-12) {
		t.Errorf("Variance = %v, want %v", got, 2.0/3.0)
	}
}

func TestVarianceWindowWarmupBiasTowardZero(t *testing.T) {
	// Unwritten slots count as zeros until the window fills. This is the
	// documented warm-up behavior, not a defect.
	v, err := NewVarianceWindow(4)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	v.Update(8.0)

	if got := v.Mean(); got != 2.0 {
		t.Errorf("Mean after one sample = %v, want 2.0 (8/4)", got)
	}
}

func TestVarianceWindowAdaptiveNoise(t *testing.T) {
	v, err := NewVarianceWindow(4)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	for _, s := range []float64{1, 2, 3, 4} {
		v.Update(s)
	}

	want := math.Sqrt(1.25) * 10.0
	if got := v.AdaptiveNoise(10.0); !almostEqual(got, want, 1e-12) {
		t.Errorf("AdaptiveNoise(10) = %v, want %v", got, want)
	}
}

func TestVarianceWindowLongStream(t *testing.T) {
	// After many wraps the running sums must still agree with a direct
	// computation over the window contents.
	const size = 16
	v, err := NewVarianceWindow(size)
	if err != nil {
		t.Fatalf("NewVarianceWindow: %v", err)
	}

	var last [size]float64
	for i := 0; i < 1000; i++ {
		s := math.Sin(float64(i)) * 100
		v.Update(s)
		last[i%size] = s
	}

	var sum, sumSq float64
	for _, s := range last {
		sum += s
		sumSq += s * s
	}
	mean := sum / size
	variance := sumSq/size - mean*mean

	if got := v.Mean(); !almostEqual(got, mean, 1e-6) {
		t.Errorf("Mean = %v, want %v", got, mean)
	}
	if got := v.Variance(); !almostEqual(got, variance, 1e-6) {
		t.Errorf("Variance = %v, want %v", got, variance)
	}
}
