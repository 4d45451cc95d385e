package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Signal is a tracked signal's registry row.
type Signal struct {
	ID        int64
	Name      string
	Preset    string
	Target    float64
	Feature   string
	CreatedAt int64
	UpdatedAt int64
}

// UpsertSignal creates or updates a tracked signal.
func (db *DB) UpsertSignal(name, preset string, target float64, feature string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO signals (name, preset, target, feature, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			preset = excluded.preset,
			target = excluded.target,
			feature = excluded.feature,
			updated_at = excluded.updated_at
	`, name, preset, target, feature, now, now)
	if err != nil {
		return fmt.Errorf("upsert signal %s: %w", name, err)
	}
	return nil
}

// GetSignal returns a signal by name, or nil if not tracked.
func (db *DB) GetSignal(name string) (*Signal, error) {
	var s Signal
	err := db.QueryRow(`
		SELECT id, name, preset, target, feature, created_at, updated_at
		FROM signals WHERE name = ?
	`, name).Scan(&s.ID, &s.Name, &s.Preset, &s.Target, &s.Feature, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get signal %s: %w", name, err)
	}
	return &s, nil
}

// ListSignals returns all tracked signals ordered by name.
func (db *DB) ListSignals() ([]Signal, error) {
	rows, err := db.Query(`
		SELECT id, name, preset, target, feature, created_at, updated_at
		FROM signals ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var signals []Signal
	for rows.Next() {
		var s Signal
		if err := rows.Scan(&s.ID, &s.Name, &s.Preset, &s.Target, &s.Feature, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

// DeleteSignal removes a signal and its readings and snapshots.
func (db *DB) DeleteSignal(name string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete signal: %w", err)
	}

	for _, stmt := range []string{
		"DELETE FROM readings WHERE signal = ?",
		"DELETE FROM snapshots WHERE signal = ?",
		"DELETE FROM signals WHERE name = ?",
	} {
		if _, err := tx.Exec(stmt, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("delete signal %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete signal: %w", err)
	}
	return nil
}
