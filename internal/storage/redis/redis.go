package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
)

const defaultPrefix = "slimeboard:"

// RepositoryConfig is the configuration for the Redis repository.
type RepositoryConfig struct {
	Client *redis.Client
	// Prefix namespaces every key, defaults to "slimeboard:".
	Prefix string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("redis client is required")
	}
	if c.Prefix == "" {
		c.Prefix = defaultPrefix
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Redis"})
	return nil
}

// Repository is a Redis implementation of storage.KV.
type Repository struct {
	client *redis.Client
	prefix string
	logger log.Logger
}

// NewRepository creates a new Redis repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		client: cfg.Client,
		prefix: cfg.Prefix,
		logger: cfg.Logger,
	}, nil
}

func (r *Repository) key(k string) string { return r.prefix + k }

// Get returns the value of a key.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("key %s: %w", key, model.ErrNotFound)
		}
		return "", fmt.Errorf("could not get key: %w", err)
	}

	return v, nil
}

// Set stores the value of a key without expiration.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("could not set key: %w", err)
	}

	r.logger.Debugf("Stored key in repository: %s", key)
	return nil
}

// Remove deletes a key.
func (r *Repository) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("could not delete key: %w", err)
	}

	r.logger.Debugf("Removed key from repository: %s", key)
	return nil
}

// globEscaper quotes the SCAN pattern metacharacters of a literal prefix.
var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Keys returns all the stored keys sorted, without the prefix.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	iter := r.client.Scan(ctx, 0, globEscaper.Replace(r.prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		k, ok := strings.CutPrefix(iter.Val(), r.prefix)
		if !ok {
			continue
		}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("could not scan keys: %w", err)
	}
	sort.Strings(keys)

	return keys, nil
}
