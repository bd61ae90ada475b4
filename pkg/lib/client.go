package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/app/doctor"
	"github.com/slok/slimeboard/internal/audio"
	"github.com/slok/slimeboard/internal/board"
	"github.com/slok/slimeboard/internal/conventions"
	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/pkg/lib/log"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.slimeboard/slimeboard.db for storage.
type Config struct {
	// Backend is the storage backend.
	// Default: [BackendSQLite].
	Backend Backend

	// DataDir is the base directory for the file based backends.
	// Default: ~/.slimeboard.
	DataDir string

	// SQLitePath is the SQLite database path.
	// Default: <DataDir>/slimeboard.db.
	SQLitePath string

	// RedisAddr is the Redis server address, required by [BackendRedis].
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SaveDebounce is the inactivity time before the board changes are saved.
	// Default: 300ms.
	SaveDebounce time.Duration

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}

	if c.DataDir == "" && (c.Backend == BackendSQLite || c.Backend == BackendDiskv) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, conventions.DefaultDataDir)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

func (c Config) toInternal() model.AppConfig {
	return model.AppConfig{
		Storage: model.StorageConfig{
			Backend:    model.StorageBackend(c.Backend),
			DataDir:    c.DataDir,
			SQLitePath: c.SQLitePath,
			Redis: model.RedisConfig{
				Addr:     c.RedisAddr,
				Password: c.RedisPassword,
				DB:       c.RedisDB,
			},
		},
		SaveDebounce: c.SaveDebounce,
	}
}

// Client is the main SDK entry point for managing the board programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	app    *app.App
	logger log.Logger
}

// New creates a new SDK client and loads the board, migrating any legacy data.
//
// The caller must call [Client.Close] when done to save the pending changes:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a, err := app.New(ctx, app.Config{
		App:    cfg.toInternal(),
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &Client{app: a, logger: cfg.Logger}, nil
}

// Close saves the pending changes and releases the storage.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	return c.app.Close()
}

// Flush saves the pending board changes now.
func (c *Client) Flush() {
	c.app.Board.Flush()
}

// Board returns every column with its tasks in display order.
func (c *Client) Board() Board {
	return fromInternalBoard(c.app.Board.Snapshot())
}

// GetTask returns a task.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) GetTask(id string) (*Task, error) {
	t, ok := c.app.Board.Task(id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	out := fromInternalTask(t)
	return &out, nil
}

// AddTask creates a task at the end of a column.
//
// Returns [ErrNotValid] if the title is empty or the status unknown.
func (c *Client) AddTask(opts AddTaskOpts) (*Task, error) {
	status := opts.Status
	if status == "" {
		status = StatusBacklog
	}

	t, ok := c.app.Board.AddTask(opts.Title, opts.Description, model.TaskStatus(status))
	if !ok {
		return nil, fmt.Errorf("a title and a known status are required: %w", ErrNotValid)
	}

	out := fromInternalTask(t)
	return &out, nil
}

// UpdateTask edits the title or the description of a task. An empty title
// keeps the current one.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) UpdateTask(id string, opts UpdateTaskOpts) (*Task, error) {
	t, ok := c.app.Board.UpdateTask(id, board.TaskPatch{Title: opts.Title, Description: opts.Description})
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	out := fromInternalTask(t)
	return &out, nil
}

// RemoveTask deletes a task from the board.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) RemoveTask(id string) error {
	if !c.app.Board.RemoveTask(id) {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// MoveTask places a task at an index of a column. Indexes past the end append
// the task.
//
// Returns [ErrNotValid] if the status is unknown or [ErrNotFound] if the task
// does not exist.
func (c *Client) MoveTask(id string, status Status, index int) error {
	s := model.TaskStatus(status)
	if !s.Valid() {
		return fmt.Errorf("unknown status %q: %w", status, ErrNotValid)
	}
	if !c.app.Board.MoveTask(id, s, index) {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReorderColumn sets the order of a column.
//
// Returns [ErrNotValid] if ids are not exactly the tasks of the column.
func (c *Client) ReorderColumn(status Status, ids []string) error {
	if !c.app.Board.ReorderColumn(model.TaskStatus(status), ids) {
		return fmt.Errorf("ids must be the tasks of the %s column: %w", status, ErrNotValid)
	}
	return nil
}

// CopyTask duplicates a task in the same column.
//
// Returns [ErrNotFound] if the task does not exist.
func (c *Client) CopyTask(id string) (*Task, error) {
	t, ok := c.app.Board.CopyTask(id)
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	out := fromInternalTask(t)
	return &out, nil
}

// ClaimTask claims the experience of a done task, the task stays on the board.
//
// Returns [ErrNotFound] if the task does not exist or [ErrNotValid] if it's not
// done or already claimed.
func (c *Client) ClaimTask(ctx context.Context, id string) error {
	if _, ok := c.app.Board.Task(id); !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if !c.app.Board.ClaimExp(ctx, id) {
		return fmt.Errorf("task %s is not an unclaimed done task: %w", id, ErrNotValid)
	}
	return nil
}

// ClaimAllTasks claims every unclaimed done task and removes them from the
// board. It returns the number of claimed tasks.
func (c *Client) ClaimAllTasks(ctx context.Context) int {
	return c.app.Board.ClaimAllExp(ctx)
}

// History returns every task on the board, newest first.
func (c *Client) History() []Task {
	return fromInternalTaskList(c.app.Board.History())
}

// Report renders the daily report with the current template.
func (c *Client) Report() string {
	return c.app.Report()
}

// ReportTemplate returns the current report template.
func (c *Client) ReportTemplate() string {
	return c.app.Template.Template()
}

// SetReportTemplate replaces and saves the report template.
//
// Returns [ErrNotValid] if the template is empty.
func (c *Client) SetReportTemplate(ctx context.Context, tmpl string) error {
	if tmpl == "" {
		return fmt.Errorf("template can't be empty: %w", ErrNotValid)
	}
	c.app.Template.Set(tmpl)
	c.app.Template.Save(ctx)
	return nil
}

// ResetReportTemplate restores and saves the default report template.
func (c *Client) ResetReportTemplate(ctx context.Context) {
	c.app.Template.Reset()
	c.app.Template.Save(ctx)
}

// Journey returns the slime progress with the claimed tasks of the last days.
func (c *Client) Journey(days int) Journey {
	total := c.app.Journey.Total()
	j := Journey{
		Total: total,
		Level: journey.Level(total),
		Days:  fromInternalDays(c.app.Journey.LastDays(max(days, 0))),
	}
	if next, ok := journey.NextGoal(total); ok {
		j.NextGoal = &next
	}

	return j
}

// ResetJourney removes all the progress.
func (c *Client) ResetJourney(ctx context.Context) {
	c.app.Journey.Reset(ctx)
}

// Volume returns the cue volume.
func (c *Client) Volume() Volume {
	return Volume(c.app.Audio.Level())
}

// SetVolume sets and saves the cue volume.
//
// Returns [ErrNotValid] if the level is unknown.
func (c *Client) SetVolume(ctx context.Context, v Volume) error {
	level, err := audio.ParseVolumeLevel(string(v))
	if err != nil {
		return mapError(err)
	}
	return mapError(c.app.Audio.Set(ctx, level))
}

// Doctor checks the storage and the stored data.
func (c *Client) Doctor(ctx context.Context) ([]CheckResult, error) {
	svc, err := doctor.NewService(doctor.ServiceConfig{KV: c.app.KV, Logger: c.logger})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	return fromInternalCheckResults(svc.Run(ctx)), nil
}
