package kalman

// FlagSource answers whether a named feature is enabled. Injected into the
// gated wrappers so filters stay testable without process-wide flag state.
type FlagSource interface {
	Enabled(feature string) bool
}

// FilteredValue is the result of a gated filter call: the raw input, the
// (possibly pass-through) output, and whether filtering actually ran.
type FilteredValue struct {
	Raw         float64 `json:"raw"`
	Filtered    float64 `json:"filtered"`
	Feature     string  `json:"feature"`
	WasFiltered bool    `json:"was_filtered"`
}

// ProcessIfEnabled runs Process when flags enables feature; otherwise the
// raw measurement passes through untouched and the filter state is left
// alone.
func (f *Filter) ProcessIfEnabled(flags FlagSource, feature string, measurement, target float64) FilteredValue {
	result := FilteredValue{
		Raw:     measurement,
		Feature: feature,
	}

	if flags != nil && flags.Enabled(feature) {
		result.Filtered = f.Process(measurement, target)
		result.WasFiltered = true
	} else {
		result.Filtered = measurement
	}

	return result
}

// PredictIfEnabled runs Predict when flags enables feature; otherwise the
// current state is returned unchanged.
func (f *Filter) PredictIfEnabled(flags FlagSource, feature string, steps int) FilteredValue {
	state := f.State()
	result := FilteredValue{
		Raw:     state,
		Feature: feature,
	}

	if flags != nil && flags.Enabled(feature) {
		result.Filtered = f.Predict(steps)
		result.WasFiltered = true
	} else {
		result.Filtered = state
	}

	return result
}
