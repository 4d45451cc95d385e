package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "signals: tracked signal registry",
		SQL: `
CREATE TABLE signals (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    preset     TEXT NOT NULL DEFAULT 'default' CHECK (preset IN ('default', 'decay', 'coaccess', 'latency')),
    target     REAL NOT NULL DEFAULT 0,
    feature    TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX idx_signals_preset ON signals(preset);
`,
	},
	{
		Version:     2,
		Description: "readings: raw and filtered observations per signal",
		SQL: `
CREATE TABLE readings (
    id           INTEGER PRIMARY KEY,
    signal       TEXT NOT NULL,
    raw          REAL NOT NULL,
    filtered     REAL NOT NULL,
    gain         REAL NOT NULL DEFAULT 0,
    uncertainty  REAL NOT NULL DEFAULT 0,
    was_filtered INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL
);

CREATE INDEX idx_readings_signal  ON readings(signal, created_at DESC);
CREATE INDEX idx_readings_created ON readings(created_at DESC);
`,
	},
	{
		Version:     3,
		Description: "snapshots: periodic filter state captures",
		SQL: `
CREATE TABLE snapshots (
    id                INTEGER PRIMARY KEY,
    signal            TEXT NOT NULL,
    state             REAL NOT NULL,
    velocity          REAL NOT NULL,
    uncertainty       REAL NOT NULL,
    gain              REAL NOT NULL,
    measurement_noise REAL NOT NULL,
    observations      INTEGER NOT NULL,
    created_at        INTEGER NOT NULL
);

CREATE INDEX idx_snapshots_signal ON snapshots(signal, created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
