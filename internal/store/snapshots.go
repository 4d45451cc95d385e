package store

import (
	"database/sql"
	"fmt"
	"time"
)

// FilterSnapshot is a persisted capture of a filter's observable state,
// written periodically by the engine for inspection. Filters are never
// restored from snapshots; they start fresh with the process.
type FilterSnapshot struct {
	ID               int64
	Signal           string
	State            float64
	Velocity         float64
	Uncertainty      float64
	Gain             float64
	MeasurementNoise float64
	Observations     int64
	CreatedAt        int64
}

// AddSnapshot stores a filter state capture.
func (db *DB) AddSnapshot(s FilterSnapshot) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO snapshots (signal, state, velocity, uncertainty, gain, measurement_noise, observations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Signal, s.State, s.Velocity, s.Uncertainty, s.Gain, s.MeasurementNoise, s.Observations, now)
	if err != nil {
		return fmt.Errorf("add snapshot for %s: %w", s.Signal, err)
	}
	return nil
}

// LatestSnapshot returns the newest snapshot for a signal, or nil if none.
func (db *DB) LatestSnapshot(signal string) (*FilterSnapshot, error) {
	var s FilterSnapshot
	err := db.QueryRow(`
		SELECT id, signal, state, velocity, uncertainty, gain, measurement_noise, observations, created_at
		FROM snapshots WHERE signal = ? ORDER BY created_at DESC, id DESC LIMIT 1
	`, signal).Scan(&s.ID, &s.Signal, &s.State, &s.Velocity, &s.Uncertainty, &s.Gain, &s.MeasurementNoise, &s.Observations, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot for %s: %w", signal, err)
	}
	return &s, nil
}
