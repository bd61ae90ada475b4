package diskv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
)

const defaultCacheSizeMax = 1024 * 1024 // 1MB.

// RepositoryConfig is the configuration for the diskv repository.
type RepositoryConfig struct {
	BasePath     string
	CacheSizeMax uint64
	Logger       log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.BasePath == "" {
		return fmt.Errorf("base path is required")
	}
	if c.CacheSizeMax == 0 {
		c.CacheSizeMax = defaultCacheSizeMax
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Diskv"})
	return nil
}

// Repository is a storage.KV that stores every key as a file.
type Repository struct {
	d      *diskv.Diskv
	logger log.Logger
}

// NewRepository creates a new diskv repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	d := diskv.New(diskv.Options{
		BasePath:     cfg.BasePath,
		Transform:    flatTransform,
		CacheSizeMax: cfg.CacheSizeMax,
	})

	return &Repository{d: d, logger: cfg.Logger}, nil
}

// All the keys live at the base path.
func flatTransform(string) []string { return []string{} }

// Get returns the value of a key.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("key %s: %w", key, model.ErrNotFound)
		}
		return "", fmt.Errorf("could not read key: %w", err)
	}

	return string(v), nil
}

// Set stores the value of a key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	if err := r.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("could not write key: %w", err)
	}

	r.logger.Debugf("Stored key in repository: %s", key)
	return nil
}

// Remove deletes a key.
func (r *Repository) Remove(ctx context.Context, key string) error {
	if !r.d.Has(key) {
		return nil
	}

	if err := r.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not erase key: %w", err)
	}

	r.logger.Debugf("Removed key from repository: %s", key)
	return nil
}

// Keys returns all the stored keys sorted.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	for k := range r.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)

	return keys, nil
}
