package lib_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/slimeboard/pkg/lib"
)

// newTestClient creates a client with a memory backend for test isolation.
func newTestClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{Backend: lib.BackendMemory})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestNewInvalidConfig(t *testing.T) {
	tests := map[string]struct {
		cfg lib.Config
	}{
		"An unknown backend should fail.": {
			cfg: lib.Config{Backend: "s3"},
		},
		"A redis backend without address should fail.": {
			cfg: lib.Config{Backend: lib.BackendRedis},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := lib.New(context.Background(), test.cfg)
			assert.True(t, errors.Is(err, lib.ErrNotValid), "expected not valid error, got: %v", err)
		})
	}
}

func TestAddTask(t *testing.T) {
	tests := map[string]struct {
		opts      lib.AddTaskOpts
		expStatus lib.Status
		expIs     error
	}{
		"Adding a task without status should use the backlog.": {
			opts:      lib.AddTaskOpts{Title: "Write docs"},
			expStatus: lib.StatusBacklog,
		},
		"Adding a task with status should use that column.": {
			opts:      lib.AddTaskOpts{Title: "Write docs", Status: lib.StatusDoing},
			expStatus: lib.StatusDoing,
		},
		"Adding a task without title should fail.": {
			opts:  lib.AddTaskOpts{Title: "  "},
			expIs: lib.ErrNotValid,
		},
		"Adding a task with an unknown status should fail.": {
			opts:  lib.AddTaskOpts{Title: "Write docs", Status: "later"},
			expIs: lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			client := newTestClient(t)

			task, err := client.AddTask(test.opts)

			if test.expIs != nil {
				assert.True(errors.Is(err, test.expIs), "expected error %v, got: %v", test.expIs, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(test.expStatus, task.Status)
			assert.NotEmpty(task.ID)

			got, err := client.GetTask(task.ID)
			require.NoError(t, err)
			assert.Equal(task, got)
		})
	}
}

func TestTaskNotFound(t *testing.T) {
	tests := map[string]struct {
		call func(c *lib.Client) error
	}{
		"Get": {call: func(c *lib.Client) error { _, err := c.GetTask("nope"); return err }},
		"Update": {call: func(c *lib.Client) error {
			title := "x"
			_, err := c.UpdateTask("nope", lib.UpdateTaskOpts{Title: &title})
			return err
		}},
		"Remove": {call: func(c *lib.Client) error { return c.RemoveTask("nope") }},
		"Move":   {call: func(c *lib.Client) error { return c.MoveTask("nope", lib.StatusDone, 0) }},
		"Copy":   {call: func(c *lib.Client) error { _, err := c.CopyTask("nope"); return err }},
		"Claim":  {call: func(c *lib.Client) error { return c.ClaimTask(context.Background(), "nope") }},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.call(newTestClient(t))
			assert.True(t, errors.Is(err, lib.ErrNotFound), "expected not found error, got: %v", err)
		})
	}
}

func TestBoardOperations(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()
	client := newTestClient(t)

	a, err := client.AddTask(lib.AddTaskOpts{Title: "A"})
	require.NoError(err)
	b, err := client.AddTask(lib.AddTaskOpts{Title: "B", Description: "desc"})
	require.NoError(err)

	require.NoError(client.ReorderColumn(lib.StatusBacklog, []string{b.ID, a.ID}))
	err = client.ReorderColumn(lib.StatusBacklog, []string{a.ID})
	assert.True(errors.Is(err, lib.ErrNotValid))

	c, err := client.CopyTask(b.ID)
	require.NoError(err)
	assert.Equal("B (copy)", c.Title)
	assert.Equal("desc", c.Description)

	newTitle := "A2"
	updated, err := client.UpdateTask(a.ID, lib.UpdateTaskOpts{Title: &newTitle})
	require.NoError(err)
	assert.Equal("A2", updated.Title)

	err = client.MoveTask(a.ID, "later", 0)
	assert.True(errors.Is(err, lib.ErrNotValid))
	require.NoError(client.MoveTask(a.ID, lib.StatusDone, 0))

	// Claiming a task that is not done is not valid.
	err = client.ClaimTask(ctx, b.ID)
	assert.True(errors.Is(err, lib.ErrNotValid))

	require.NoError(client.ClaimTask(ctx, a.ID))
	got, err := client.GetTask(a.ID)
	require.NoError(err)
	assert.True(got.Claimed)

	// Claimed tasks are not claimed again.
	assert.Equal(0, client.ClaimAllTasks(ctx))

	board := client.Board()
	assert.Len(board.Backlog, 2)
	assert.Empty(board.Doing)
	assert.Len(board.Done, 1)
	assert.Len(client.History(), 3)

	require.NoError(client.RemoveTask(c.ID))
	assert.Len(client.Board().Backlog, 1)

	j := client.Journey(1)
	assert.Equal(1, j.Total)
	assert.Equal(1, j.Level)
	require.NotNil(j.NextGoal)
	assert.Equal(10, *j.NextGoal)
	require.Len(j.Days, 1)
	assert.Equal(1, j.Days[0].Count)

	client.ResetJourney(ctx)
	assert.Equal(0, client.Journey(0).Total)
}

func TestReportTemplate(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.AddTask(lib.AddTaskOpts{Title: "Ship", Status: lib.StatusDoing})
	require.NoError(err)

	require.NoError(client.SetReportTemplate(ctx, "{{#doing}}- {{title}}{{/doing}}"))
	assert.Equal("- Ship", client.Report())

	err = client.SetReportTemplate(ctx, "")
	assert.True(errors.Is(err, lib.ErrNotValid))

	client.ResetReportTemplate(ctx)
	assert.NotEqual("{{#doing}}- {{title}}{{/doing}}", client.ReportTemplate())
}

func TestVolume(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	assert.Equal(t, lib.VolumeMedium, client.Volume())
	require.NoError(t, client.SetVolume(ctx, lib.VolumeOff))
	assert.Equal(t, lib.VolumeOff, client.Volume())

	err := client.SetVolume(ctx, "loud")
	assert.True(t, errors.Is(err, lib.ErrNotValid), "expected not valid error, got: %v", err)
}

func TestPersistence(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	cfg := lib.Config{
		Backend:      lib.BackendSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "board.db"),
		SaveDebounce: time.Hour,
	}

	client, err := lib.New(ctx, cfg)
	require.NoError(err)
	task, err := client.AddTask(lib.AddTaskOpts{Title: "Persist me"})
	require.NoError(err)
	require.NoError(client.Close())

	client, err = lib.New(ctx, cfg)
	require.NoError(err)
	defer client.Close()

	got, err := client.GetTask(task.ID)
	require.NoError(err)
	assert.Equal("Persist me", got.Title)

	results, err := client.Doctor(ctx)
	require.NoError(err)
	for _, r := range results {
		assert.NotEqual(lib.CheckStatusError, r.Status, r.Message)
	}
}
