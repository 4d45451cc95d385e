package engine

import (
	"log"
	"time"

	"github.com/lazypower/steady/internal/kalman"
	"github.com/lazypower/steady/internal/store"
)

// SignalStats is the observable state of one tracked signal.
type SignalStats struct {
	Name      string          `json:"name"`
	Preset    string          `json:"preset"`
	Target    float64         `json:"target"`
	Feature   string          `json:"feature"`
	Filter    kalman.Snapshot `json:"filter"`
	RawMean   float64         `json:"raw_mean"`
	RawStdDev float64         `json:"raw_stddev"`
	Readings  int             `json:"readings"`
}

// Stats returns the current statistics for a signal.
func (e *Engine) Stats(name string) (SignalStats, error) {
	t, err := e.lookup(name)
	if err != nil {
		return SignalStats{}, err
	}

	count, err := e.DB.CountReadings(name)
	if err != nil {
		return SignalStats{}, err
	}

	return SignalStats{
		Name:      t.name,
		Preset:    t.preset,
		Target:    t.target,
		Feature:   t.feature,
		Filter:    t.filter.Snapshot(),
		RawMean:   t.window.Mean(),
		RawStdDev: t.window.StdDev(),
		Readings:  count,
	}, nil
}

// Rising returns the signals whose velocity is at least minVelocity.
func (e *Engine) Rising(minVelocity float64) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var rising []string
	for name, t := range e.signals {
		if t.filter.Velocity() >= minVelocity {
			rising = append(rising, name)
		}
	}
	return rising
}

// Falling returns the signals whose velocity is at most maxVelocity.
func (e *Engine) Falling(maxVelocity float64) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var falling []string
	for name, t := range e.signals {
		if t.filter.Velocity() <= maxVelocity {
			falling = append(falling, name)
		}
	}
	return falling
}

// StartSnapshotTimer persists filter snapshots once at startup and then on
// the given interval, pruning old readings as it goes.
func (e *Engine) StartSnapshotTimer(interval time.Duration) {
	e.snapshotAll()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.snapshotAll()
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	close(e.stopCh)
}

func (e *Engine) snapshotAll() {
	e.mu.RLock()
	signals := make([]tracked, 0, len(e.signals))
	for _, t := range e.signals {
		signals = append(signals, *t)
	}
	e.mu.RUnlock()

	for _, t := range signals {
		snap := t.filter.Snapshot()
		// Nothing processed since start; skip the empty capture.
		if snap.Observations == 0 {
			continue
		}
		if err := e.DB.AddSnapshot(store.FilterSnapshot{
			Signal:           t.name,
			State:            snap.State,
			Velocity:         snap.Velocity,
			Uncertainty:      snap.Uncertainty,
			Gain:             snap.Gain,
			MeasurementNoise: snap.MeasurementNoise,
			Observations:     int64(snap.Observations),
		}); err != nil {
			log.Printf("snapshot %s: %v", t.name, err)
			continue
		}
		if removed, err := e.DB.PruneReadings(t.name, e.retention); err != nil {
			log.Printf("prune %s: %v", t.name, err)
		} else if removed > 0 {
			log.Printf("prune %s: removed %d readings", t.name, removed)
		}
	}
}
