package store

import (
	"testing"
)

func TestAddAndRecentReadings(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 5; i++ {
		r := Reading{
			Signal:      "lat",
			Raw:         float64(10 + i),
			Filtered:    float64(10+i) * 0.9,
			Gain:        0.25,
			Uncertainty: 22.0,
			WasFiltered: true,
		}
		if err := db.AddReading(r); err != nil {
			t.Fatalf("AddReading %d: %v", i, err)
		}
	}

	readings, err := db.RecentReadings("lat", 3)
	if err != nil {
		t.Fatalf("RecentReadings: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("RecentReadings returned %d, want 3", len(readings))
	}
	// Newest first.
	if readings[0].Raw != 14 {
		t.Errorf("newest raw = %v, want 14", readings[0].Raw)
	}
	if !readings[0].WasFiltered {
		t.Error("WasFiltered not round-tripped")
	}

	n, err := db.CountReadings("lat")
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if n != 5 {
		t.Errorf("CountReadings = %d, want 5", n)
	}
}

func TestPruneReadings(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 10; i++ {
		if err := db.AddReading(Reading{Signal: "s", Raw: float64(i), Filtered: float64(i)}); err != nil {
			t.Fatalf("AddReading: %v", err)
		}
	}

	removed, err := db.PruneReadings("s", 4)
	if err != nil {
		t.Fatalf("PruneReadings: %v", err)
	}
	if removed != 6 {
		t.Errorf("removed = %d, want 6", removed)
	}

	readings, err := db.RecentReadings("s", 100)
	if err != nil {
		t.Fatalf("RecentReadings: %v", err)
	}
	if len(readings) != 4 {
		t.Fatalf("readings remaining = %d, want 4", len(readings))
	}
	if readings[0].Raw != 9 {
		t.Errorf("newest surviving raw = %v, want 9", readings[0].Raw)
	}
}

func TestPruneReadingsDisabled(t *testing.T) {
	db := testDB(t)

	if err := db.AddReading(Reading{Signal: "s", Raw: 1, Filtered: 1}); err != nil {
		t.Fatalf("AddReading: %v", err)
	}

	removed, err := db.PruneReadings("s", 0)
	if err != nil {
		t.Fatalf("PruneReadings: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 for keep=0", removed)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := testDB(t)

	if snap, err := db.LatestSnapshot("s"); err != nil || snap != nil {
		t.Fatalf("LatestSnapshot empty = %+v, %v; want nil, nil", snap, err)
	}

	s := FilterSnapshot{
		Signal:           "s",
		State:            42.5,
		Velocity:         -0.25,
		Uncertainty:      12.0,
		Gain:             0.3,
		MeasurementNoise: 88.0,
		Observations:     17,
	}
	if err := db.AddSnapshot(s); err != nil {
		t.Fatalf("AddSnapshot: %v", err)
	}

	got, err := db.LatestSnapshot("s")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("LatestSnapshot returned nil")
	}
	if got.State != 42.5 || got.Velocity != -0.25 || got.Observations != 17 {
		t.Errorf("snapshot round-trip mismatch: %+v", got)
	}
}
