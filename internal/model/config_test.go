package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slimeboard/internal/model"
)

func TestAppConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg    model.AppConfig
		expErr bool
	}{
		"A memory backend should be valid without paths.": {
			cfg: model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendMemory}},
		},
		"A sqlite backend with a path should be valid.": {
			cfg: model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendSQLite, SQLitePath: "/tmp/b.db"}},
		},
		"A sqlite backend without a path should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendSQLite}},
			expErr: true,
		},
		"A diskv backend without a path should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendDiskv}},
			expErr: true,
		},
		"A redis backend without an address should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendRedis}},
			expErr: true,
		},
		"A redis backend with a negative db should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendRedis, Redis: model.RedisConfig{Addr: "localhost:6379", DB: -1}}},
			expErr: true,
		},
		"An unknown backend should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: "s3"}},
			expErr: true,
		},
		"A negative quota should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendMemory, QuotaBytes: -1}},
			expErr: true,
		},
		"A negative debounce should fail.": {
			cfg:    model.AppConfig{Storage: model.StorageConfig{Backend: model.StorageBackendMemory}, SaveDebounce: -time.Second},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.cfg.Validate()
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
