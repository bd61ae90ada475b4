package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// QuotaBytes limits the total size of keys and values, 0 means unlimited.
	QuotaBytes int
	Logger     log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.QuotaBytes < 0 {
		return fmt.Errorf("quota can't be negative")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.KV.
type Repository struct {
	items  map[string]string
	used   int
	quota  int
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		items:  make(map[string]string),
		quota:  cfg.QuotaBytes,
		logger: cfg.Logger,
	}, nil
}

// Get returns the value of a key.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[key]
	if !ok {
		return "", fmt.Errorf("key %s: %w", key, model.ErrNotFound)
	}

	return v, nil
}

// Set stores the value of a key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	used := r.used + len(key) + len(value)
	if old, ok := r.items[key]; ok {
		used -= len(key) + len(old)
	}
	if r.quota > 0 && used > r.quota {
		return fmt.Errorf("writing %d bytes on key %s: %w", len(value), key, model.ErrQuotaExceeded)
	}

	r.items[key] = value
	r.used = used
	r.logger.Debugf("Stored key in repository: %s", key)

	return nil
}

// Remove deletes a key.
func (r *Repository) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.items[key]
	if !ok {
		return nil
	}

	delete(r.items, key)
	r.used -= len(key) + len(old)
	r.logger.Debugf("Removed key from repository: %s", key)

	return nil
}

// Keys returns all the stored keys sorted.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys, nil
}

// Used returns the bytes used by keys and values.
func (r *Repository) Used() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.used
}
