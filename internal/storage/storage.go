package storage

import "context"

// KV is a string keyed storage slot.
//
// Get returns model.ErrNotFound when the key is missing, removing a missing key is not an error.
// Implementations with a capacity limit return model.ErrQuotaExceeded from Set.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
