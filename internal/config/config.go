package config

import "fmt"

// Config holds all steady configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Engine   EngineConfig   `toml:"engine"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type EngineConfig struct {
	// SnapshotIntervalSec is how often filter state snapshots are persisted.
	SnapshotIntervalSec int `toml:"snapshot_interval_sec"`

	// ReadingRetention is how many readings to keep per signal; older rows
	// are pruned by the snapshot timer. 0 disables pruning.
	ReadingRetention int `toml:"reading_retention"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37911,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Engine: EngineConfig{
			SnapshotIntervalSec: 60,
			ReadingRetention:    10000,
		},
	}
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
