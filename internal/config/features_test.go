package config

import "testing"

func TestFeaturesDefaultOff(t *testing.T) {
	f := NewFeatures()
	for _, name := range KalmanFeatures() {
		if f.Enabled(name) {
			t.Errorf("feature %q enabled by default", name)
		}
	}
}

func TestFeaturesEnableDisable(t *testing.T) {
	f := NewFeatures(FeatureKalmanLatency)

	if !f.Enabled(FeatureKalmanLatency) {
		t.Error("constructor-enabled feature is off")
	}

	f.Enable(FeatureKalmanDecay)
	if !f.Enabled(FeatureKalmanDecay) {
		t.Error("Enable did not turn feature on")
	}

	f.Disable(FeatureKalmanDecay)
	if f.Enabled(FeatureKalmanDecay) {
		t.Error("Disable did not turn feature off")
	}
}

func TestFeaturesEnableAll(t *testing.T) {
	f := NewFeatures()
	f.EnableAllKalman()
	for _, name := range KalmanFeatures() {
		if !f.Enabled(name) {
			t.Errorf("feature %q off after EnableAllKalman", name)
		}
	}

	f.DisableAllKalman()
	for _, name := range KalmanFeatures() {
		if f.Enabled(name) {
			t.Errorf("feature %q on after DisableAllKalman", name)
		}
	}
}

func TestFeaturesList(t *testing.T) {
	f := NewFeatures(FeatureKalmanSimilarity)
	list := f.List()

	if len(list) != len(KalmanFeatures()) {
		t.Fatalf("List returned %d entries, want %d", len(list), len(KalmanFeatures()))
	}
	if !list[FeatureKalmanSimilarity] {
		t.Error("enabled feature not reported in List")
	}
	if list[FeatureKalmanDecay] {
		t.Error("disabled feature reported enabled in List")
	}
}

func TestUnknownFeatureOff(t *testing.T) {
	f := NewFeatures()
	if f.Enabled("no_such_feature") {
		t.Error("unknown feature reported enabled")
	}
}
