package kalman

// DefaultConfig returns general-purpose tuning.
func DefaultConfig() Config {
	return Config{
		ProcessNoise:       0.1,
		MeasurementNoise:   88.0,
		InitialUncertainty: 30.0,
		VarianceScale:      10.0,
	}
}

// DecayConfig returns tuning for memory decay score prediction: the
// underlying score moves slowly but access patterns make readings noisy.
func DecayConfig() Config {
	return Config{
		ProcessNoise:       0.05,
		MeasurementNoise:   50.0,
		InitialUncertainty: 20.0,
		VarianceScale:      8.0,
	}
}

// CoAccessConfig returns tuning for co-access pattern confidence: the
// pattern itself shifts, and individual accesses are very noisy.
func CoAccessConfig() Config {
	return Config{
		ProcessNoise:       0.2,
		MeasurementNoise:   100.0,
		InitialUncertainty: 40.0,
		VarianceScale:      12.0,
	}
}

// LatencyConfig returns tuning for query latency prediction.
func LatencyConfig() Config {
	return Config{
		ProcessNoise:       0.15,
		MeasurementNoise:   60.0,
		InitialUncertainty: 25.0,
		VarianceScale:      10.0,
	}
}

// Preset looks up a named preset config. Recognized names: "default",
// "decay", "coaccess", "latency". Unknown names fall back to DefaultConfig
// with ok=false.
func Preset(name string) (Config, bool) {
	switch name {
	case "default", "":
		return DefaultConfig(), true
	case "decay":
		return DecayConfig(), true
	case "coaccess":
		return CoAccessConfig(), true
	case "latency":
		return LatencyConfig(), true
	default:
		return DefaultConfig(), false
	}
}

// PresetNames lists the recognized preset names.
func PresetNames() []string {
	return []string{"default", "decay", "coaccess", "latency"}
}
