package model

import (
	"fmt"
	"time"
)

// StorageBackend is the kind of storage the board data is kept on.
type StorageBackend string

const (
	// StorageBackendMemory keeps the data in memory, it's lost on exit.
	StorageBackendMemory StorageBackend = "memory"
	// StorageBackendDiskv keeps every key as a file in a directory.
	StorageBackendDiskv StorageBackend = "diskv"
	// StorageBackendSQLite keeps the data in a SQLite database file.
	StorageBackendSQLite StorageBackend = "sqlite"
	// StorageBackendRedis keeps the data on a Redis server.
	StorageBackendRedis StorageBackend = "redis"
)

// StorageBackends are all the supported storage backends.
var StorageBackends = []StorageBackend{StorageBackendMemory, StorageBackendDiskv, StorageBackendSQLite, StorageBackendRedis}

// AppConfig is the application configuration.
type AppConfig struct {
	Storage StorageConfig
	// SaveDebounce is the idle time after the last board change before saving.
	SaveDebounce time.Duration
}

// StorageConfig is the storage backend configuration.
type StorageConfig struct {
	Backend StorageBackend
	// DataDir is the base directory for the file based backends.
	DataDir    string
	SQLitePath string
	DiskvPath  string
	Redis      RedisConfig
	// QuotaBytes limits the memory backend size, 0 means unlimited.
	QuotaBytes int
}

// RedisConfig is the Redis backend configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Validate validates the application configuration.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case StorageBackendMemory:
	case StorageBackendDiskv:
		if c.Storage.DiskvPath == "" {
			return fmt.Errorf("diskv path is required: %w", ErrNotValid)
		}
	case StorageBackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required: %w", ErrNotValid)
		}
	case StorageBackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("redis address is required: %w", ErrNotValid)
		}
		if c.Storage.Redis.DB < 0 {
			return fmt.Errorf("redis db can't be negative: %w", ErrNotValid)
		}
	default:
		return fmt.Errorf("unknown storage backend %q: %w", c.Storage.Backend, ErrNotValid)
	}

	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("quota can't be negative: %w", ErrNotValid)
	}
	if c.SaveDebounce < 0 {
		return fmt.Errorf("save debounce can't be negative: %w", ErrNotValid)
	}

	return nil
}
