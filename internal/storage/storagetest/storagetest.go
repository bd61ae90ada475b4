// Package storagetest has the behaviour tests every storage.KV implementation must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage"
)

// TestKV runs the storage.KV behaviour tests using a fresh repository per case.
func TestKV(t *testing.T, newKV func(t *testing.T) storage.KV) {
	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, kv storage.KV) error
		expErr  bool
	}{
		"Setting a key should be readable": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				require.NoError(t, kv.Set(ctx, "kanban-board", `{"tasks":{}}`))

				v, err := kv.Get(ctx, "kanban-board")
				require.NoError(t, err)
				assert.Equal(t, `{"tasks":{}}`, v)
				return nil
			},
		},

		"Overwriting a key should return the last value": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				require.NoError(t, kv.Set(ctx, "k", "v1"))
				require.NoError(t, kv.Set(ctx, "k", "v2"))

				v, err := kv.Get(ctx, "k")
				require.NoError(t, err)
				assert.Equal(t, "v2", v)
				return nil
			},
		},

		"Empty and unicode values should be preserved": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				require.NoError(t, kv.Set(ctx, "empty", ""))
				require.NoError(t, kv.Set(ctx, "unicode", "日報 👑\n- なし"))

				v, err := kv.Get(ctx, "empty")
				require.NoError(t, err)
				assert.Equal(t, "", v)

				v, err = kv.Get(ctx, "unicode")
				require.NoError(t, err)
				assert.Equal(t, "日報 👑\n- なし", v)
				return nil
			},
		},

		"Getting a missing key should fail with not found": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				_, err := kv.Get(ctx, "missing")
				assert.True(t, errors.Is(err, model.ErrNotFound))
				return err
			},
			expErr: true,
		},

		"Removing a key should make it missing": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				require.NoError(t, kv.Set(ctx, "k", "v"))
				require.NoError(t, kv.Remove(ctx, "k"))

				_, err := kv.Get(ctx, "k")
				assert.True(t, errors.Is(err, model.ErrNotFound))
				return nil
			},
		},

		"Removing a missing key should not fail": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				return kv.Remove(ctx, "missing")
			},
		},

		"Listing keys should return the stored keys": {
			actions: func(ctx context.Context, t *testing.T, kv storage.KV) error {
				require.NoError(t, kv.Set(ctx, "kanban-journey", "{}"))
				require.NoError(t, kv.Set(ctx, "kanban-board", "{}"))
				require.NoError(t, kv.Set(ctx, "__test_kanban-board", "{}"))
				require.NoError(t, kv.Remove(ctx, "__test_kanban-board"))

				keys, err := kv.Keys(ctx)
				require.NoError(t, err)
				assert.ElementsMatch(t, []string{"kanban-board", "kanban-journey"}, keys)
				return nil
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			kv := newKV(t)

			err := test.actions(context.Background(), t, kv)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
