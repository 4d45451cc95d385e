package store

import (
	"fmt"
	"time"
)

// Reading is one processed observation: the raw measurement alongside what
// the filter made of it.
type Reading struct {
	ID          int64
	Signal      string
	Raw         float64
	Filtered    float64
	Gain        float64
	Uncertainty float64
	WasFiltered bool
	CreatedAt   int64
}

// AddReading stores a processed observation.
func (db *DB) AddReading(r Reading) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO readings (signal, raw, filtered, gain, uncertainty, was_filtered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Signal, r.Raw, r.Filtered, r.Gain, r.Uncertainty, r.WasFiltered, now)
	if err != nil {
		return fmt.Errorf("add reading for %s: %w", r.Signal, err)
	}
	return nil
}

// RecentReadings returns the most recent readings for a signal, newest first.
func (db *DB) RecentReadings(signal string, limit int) ([]Reading, error) {
	rows, err := db.Query(`
		SELECT id, signal, raw, filtered, gain, uncertainty, was_filtered, created_at
		FROM readings WHERE signal = ? ORDER BY created_at DESC, id DESC LIMIT ?
	`, signal, limit)
	if err != nil {
		return nil, fmt.Errorf("recent readings for %s: %w", signal, err)
	}
	defer rows.Close()

	var readings []Reading
	for rows.Next() {
		var r Reading
		if err := rows.Scan(&r.ID, &r.Signal, &r.Raw, &r.Filtered, &r.Gain, &r.Uncertainty, &r.WasFiltered, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// CountReadings returns the number of stored readings for a signal.
func (db *DB) CountReadings(signal string) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM readings WHERE signal = ?
	`, signal).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count readings for %s: %w", signal, err)
	}
	return count, nil
}

// PruneReadings deletes all but the most recent keep readings for a signal.
// Returns the number of rows removed. keep <= 0 is a no-op.
func (db *DB) PruneReadings(signal string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	res, err := db.Exec(`
		DELETE FROM readings WHERE signal = ? AND id NOT IN (
			SELECT id FROM readings WHERE signal = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		)
	`, signal, signal, keep)
	if err != nil {
		return 0, fmt.Errorf("prune readings for %s: %w", signal, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune readings rows affected: %w", err)
	}
	return n, nil
}
