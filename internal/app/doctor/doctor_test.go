package doctor_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/slimeboard/internal/app/doctor"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage/memory"
	"github.com/slok/slimeboard/internal/storage/storagemock"
)

const validBoard = `{"tasks":{"t1":{"id":"t1","title":"Task","description":"","createdAt":1748873915983,"status":"doing","expClaimed":false}},"columnOrder":{"backlog":[],"doing":["t1"],"done":[]}}`

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		config doctor.ServiceConfig
		expErr bool
	}{
		"valid config should create service": {
			config: doctor.ServiceConfig{KV: &storagemock.MockKV{}},
		},
		"missing storage should fail": {
			config: doctor.ServiceConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			svc, err := doctor.NewService(test.config)

			if test.expErr {
				require.Error(err)
				require.Nil(svc)
			} else {
				require.NoError(err)
				require.NotNil(svc)
			}
		})
	}
}

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		stored     map[string]string
		expResults []model.CheckResult
	}{
		"An empty storage should pass every check.": {
			stored: map[string]string{},
			expResults: []model.CheckResult{
				{ID: "storage", Message: "0 keys stored", Status: model.CheckStatusOK},
				{ID: "board_data", Message: "no board saved yet", Status: model.CheckStatusOK},
				{ID: "journey_data", Message: "no progress recorded yet", Status: model.CheckStatusOK},
				{ID: "report_template", Message: "using the default template", Status: model.CheckStatusOK},
				{ID: "audio_settings", Message: "using the default volume", Status: model.CheckStatusOK},
				{ID: "quota_probes", Message: "no leftover capacity probes", Status: model.CheckStatusOK},
			},
		},
		"Stored data should be summarized.": {
			stored: map[string]string{
				"kanban-board":           validBoard,
				"kanban-journey":         `{"2025-06-01":{"count":2,"tasks":[]},"2025-06-02":3}`,
				"kanban-report-template": "{{date}}",
				"kanban-audio-settings":  `{"volumeLevel":"high"}`,
			},
			expResults: []model.CheckResult{
				{ID: "storage", Message: "4 keys stored", Status: model.CheckStatusOK},
				{ID: "board_data", Message: "1 tasks (0 backlog, 1 doing, 0 done)", Status: model.CheckStatusOK},
				{ID: "journey_data", Message: "5 claimed tasks over 2 days", Status: model.CheckStatusOK},
				{ID: "report_template", Message: "custom template (8 characters)", Status: model.CheckStatusOK},
				{ID: "audio_settings", Message: "volume high", Status: model.CheckStatusOK},
				{ID: "quota_probes", Message: "no leftover capacity probes", Status: model.CheckStatusOK},
			},
		},
		"Broken data, legacy keys and leftover probes should be reported.": {
			stored: map[string]string{
				"kanban-board":          "{nope",
				"kanban-journey":        "[]",
				"kanban-audio-settings": `{"volumeLevel":"loud"}`,
				"kanban-tasks":          `{"tasks":{"t1":{}},"columnOrder":{"backlog":["t1"],"doing":[],"done":[]}}`,
				"task-store":            `{"version":1}`,
				"__test_kanban-board":   "x",
			},
			expResults: []model.CheckResult{
				{ID: "storage", Message: "6 keys stored", Status: model.CheckStatusOK},
				{ID: "board_data", Status: model.CheckStatusError},
				{ID: "journey_data", Status: model.CheckStatusError},
				{ID: "report_template", Message: "using the default template", Status: model.CheckStatusOK},
				{ID: "audio_settings", Message: `invalid volume "loud", the default volume will be used`, Status: model.CheckStatusWarning},
				{ID: "legacy:kanban-tasks", Message: "1 legacy tasks pending migration", Status: model.CheckStatusWarning},
				{ID: "legacy:task-store", Message: "legacy data with unknown shape, it will be ignored", Status: model.CheckStatusWarning},
				{ID: "quota_probes", Message: "leftover capacity probes: __test_kanban-board", Status: model.CheckStatusWarning},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx := context.Background()

			kv, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(err)
			for k, v := range test.stored {
				require.NoError(kv.Set(ctx, k, v))
			}

			svc, err := doctor.NewService(doctor.ServiceConfig{
				KV:  kv,
				Now: func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) },
			})
			require.NoError(err)

			results := svc.Run(ctx)

			require.Len(results, len(test.expResults))
			for i, exp := range test.expResults {
				assert.Equal(exp.ID, results[i].ID)
				assert.Equal(exp.Status, results[i].Status, results[i].Message)
				if exp.Message != "" {
					assert.Equal(exp.Message, results[i].Message)
				}
			}

			// The doctor never modifies the storage.
			keys, err := kv.Keys(ctx)
			require.NoError(err)
			assert.Len(keys, len(test.stored))
		})
	}
}

func TestServiceRunStorageFailure(t *testing.T) {
	kv := storagemock.NewMockKV(t)
	kv.On("Keys", mock.Anything).Once().Return(nil, fmt.Errorf("connection refused"))

	svc, err := doctor.NewService(doctor.ServiceConfig{KV: kv})
	require.NoError(t, err)

	results := svc.Run(context.Background())

	require.Len(t, results, 1)
	assert.Equal(t, "storage", results[0].ID)
	assert.Equal(t, model.CheckStatusError, results[0].Status)
	assert.Contains(t, results[0].Message, "connection refused")
}

func TestServiceUsage(t *testing.T) {
	tests := map[string]struct {
		stored   map[string]string
		expKeys  int
		expBytes int64
	}{
		"An empty storage should have no usage.": {
			stored: map[string]string{},
		},
		"Usage should count keys and values.": {
			stored: map[string]string{
				"kanban-board":          validBoard,
				"kanban-audio-settings": `{"volumeLevel":"low"}`,
			},
			expKeys:  2,
			expBytes: int64(len("kanban-board") + len(validBoard) + len("kanban-audio-settings") + len(`{"volumeLevel":"low"}`)),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)
			ctx := context.Background()

			kv, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(err)
			for k, v := range test.stored {
				require.NoError(kv.Set(ctx, k, v))
			}

			svc, err := doctor.NewService(doctor.ServiceConfig{KV: kv})
			require.NoError(err)

			keys, bytes, err := svc.Usage(ctx)
			require.NoError(err)
			assert.Equal(test.expKeys, keys)
			assert.Equal(test.expBytes, bytes)
		})
	}
}
