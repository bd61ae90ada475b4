package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default slimeboard data directory name (relative to home).
	DefaultDataDir = ".slimeboard"
	// ConfigFile is the optional YAML configuration filename inside the data directory.
	ConfigFile = "config.yaml"
	// SQLiteFile is the SQLite storage filename.
	SQLiteFile = "slimeboard.db"
	// DiskvDir is the subdirectory for the on-disk key value storage.
	DiskvDir = "kv"
	// RedisPrefix is the default key namespace on Redis.
	RedisPrefix = "slimeboard:"
)

// ConfigPath returns the path to the configuration file of a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFile)
}

// SQLitePath returns the path to the SQLite database of a data directory.
func SQLitePath(dataDir string) string {
	return filepath.Join(dataDir, SQLiteFile)
}

// DiskvPath returns the base path of the on-disk key value storage of a data directory.
func DiskvPath(dataDir string) string {
	return filepath.Join(dataDir, DiskvDir)
}
