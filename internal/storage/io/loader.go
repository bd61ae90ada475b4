package io

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/slimeboard/internal/model"
)

// ConfigYAMLRepository loads the application configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads the application configuration from a YAML file. Missing fields are
// left empty so they can be filled by flags and defaults.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.AppConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.AppConfig{}, ctx.Err()
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.AppConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg.toModel(), nil
}

// AppConfig represents the YAML structure for the application configuration.
type AppConfig struct {
	Storage      StorageConfig `yaml:"storage"`
	SaveDebounce string        `yaml:"save_debounce"`
}

// StorageConfig represents the YAML structure for the storage configuration.
type StorageConfig struct {
	Backend    string      `yaml:"backend"`
	DataDir    string      `yaml:"data_dir"`
	SQLitePath string      `yaml:"sqlite_path"`
	DiskvPath  string      `yaml:"diskv_path"`
	QuotaBytes int         `yaml:"quota_bytes"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig represents the YAML structure for the Redis backend configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

func (c AppConfig) validate() error {
	if c.Storage.Backend != "" && !slices.Contains(model.StorageBackends, model.StorageBackend(c.Storage.Backend)) {
		return fmt.Errorf("unknown storage backend %q (must be: memory, diskv, sqlite, redis)", c.Storage.Backend)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes can't be negative, got: %d", c.Storage.QuotaBytes)
	}
	if c.Storage.Redis.DB < 0 {
		return fmt.Errorf("redis db can't be negative, got: %d", c.Storage.Redis.DB)
	}
	if c.SaveDebounce != "" {
		d, err := time.ParseDuration(c.SaveDebounce)
		if err != nil {
			return fmt.Errorf("invalid save_debounce: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("save_debounce can't be negative, got: %s", d)
		}
	}
	return nil
}

func (c AppConfig) toModel() model.AppConfig {
	cfg := model.AppConfig{
		Storage: model.StorageConfig{
			Backend:    model.StorageBackend(c.Storage.Backend),
			DataDir:    c.Storage.DataDir,
			SQLitePath: c.Storage.SQLitePath,
			DiskvPath:  c.Storage.DiskvPath,
			QuotaBytes: c.Storage.QuotaBytes,
			Redis: model.RedisConfig{
				Addr:     c.Storage.Redis.Addr,
				Password: c.Storage.Redis.Password,
				DB:       c.Storage.Redis.DB,
				Prefix:   c.Storage.Redis.Prefix,
			},
		},
	}

	// Already validated.
	if c.SaveDebounce != "" {
		cfg.SaveDebounce, _ = time.ParseDuration(c.SaveDebounce)
	}

	return cfg
}
