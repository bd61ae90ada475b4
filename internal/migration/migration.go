// Package migration upgrades board data persisted with older schemas.
package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/sanitize"
	"github.com/slok/slimeboard/internal/storage"
)

// Legacy storage keys.
const (
	LegacyTasksKey     = "kanban-tasks"
	LegacyTaskStoreKey = "task-store"
)

// Strategy detects and extracts one historical board shape.
type Strategy struct {
	// Key is the legacy storage key holding the data.
	Key string
	// Extract returns the raw tasks and column order when the document has the
	// expected shape.
	Extract func(doc map[string]any) (tasks map[string]any, order map[string]any, ok bool)
}

// DefaultStrategies are the known legacy shapes in the order they are tried.
var DefaultStrategies = []Strategy{
	{Key: LegacyTasksKey, Extract: flatShape},
	{Key: LegacyTaskStoreKey, Extract: wrappedShape},
}

// `{tasks:{}, columnOrder:{backlog:[],doing:[],done:[]}}`.
func flatShape(doc map[string]any) (map[string]any, map[string]any, bool) {
	tasks, ok := doc["tasks"].(map[string]any)
	if !ok {
		return nil, nil, false
	}
	order, ok := doc["columnOrder"].(map[string]any)
	if !ok {
		return nil, nil, false
	}
	for _, s := range model.TaskStatuses {
		if _, ok := order[string(s)].([]any); !ok {
			return nil, nil, false
		}
	}

	return tasks, order, true
}

// `{state:{tasks, columnOrder}, version?}`.
func wrappedShape(doc map[string]any) (map[string]any, map[string]any, bool) {
	state, ok := doc["state"].(map[string]any)
	if !ok {
		return nil, nil, false
	}
	return flatShape(state)
}

// Result is a performed migration.
type Result struct {
	// Key is the legacy key the data was migrated from.
	Key   string
	Board model.Board
}

// MigratorConfig is the configuration for the migrator.
type MigratorConfig struct {
	KV         storage.KV
	Strategies []Strategy
	// Now is used to default missing creation times.
	Now    func() time.Time
	Logger log.Logger
}

func (c *MigratorConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Strategies == nil {
		c.Strategies = DefaultStrategies
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "migration.Migrator"})
	return nil
}

// Migrator upgrades legacy board data.
type Migrator struct {
	kv         storage.KV
	strategies []Strategy
	now        func() time.Time
	logger     log.Logger
}

// NewMigrator returns a new migrator.
func NewMigrator(cfg MigratorConfig) (*Migrator, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Migrator{
		kv:         cfg.KV,
		strategies: cfg.Strategies,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}, nil
}

// Migrate tries every strategy in order and migrates the first legacy document
// that matches. It returns false when no migration was performed, legacy data
// that doesn't match any shape is left untouched.
func (m *Migrator) Migrate(ctx context.Context) (*Result, bool) {
	for _, st := range m.strategies {
		data, err := m.kv.Get(ctx, st.Key)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				m.logger.Warningf("Could not read legacy key %s: %s", st.Key, err)
			}
			continue
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			m.logger.Warningf("Ignoring unparseable legacy data on %s: %s", st.Key, err)
			continue
		}

		rawTasks, rawOrder, ok := st.Extract(doc)
		if !ok {
			m.logger.Warningf("Ignoring legacy data with unknown shape on %s", st.Key)
			continue
		}

		board := m.transform(rawTasks, rawOrder)

		if err := m.kv.Remove(ctx, st.Key); err != nil {
			m.logger.Warningf("Could not remove migrated legacy key %s: %s", st.Key, err)
		}

		m.logger.Infof("Migrated %d tasks from legacy key %s", len(board.Tasks), st.Key)
		return &Result{Key: st.Key, Board: board}, true
	}

	m.logger.Debugf("No migration performed")
	return nil, false
}

// transform maps the legacy tasks to the current shape. Columns are copied as
// they are, the caller normalizes the board when adopting it.
func (m *Migrator) transform(rawTasks, rawOrder map[string]any) model.Board {
	order := sanitize.ColumnOrder(rawOrder)
	now := m.now()

	tasks := make(map[string]model.Task, len(rawTasks))
	for key, v := range rawTasks {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}

		fields := make(map[string]any, len(obj))
		for k, v := range obj {
			fields[k] = v
		}
		if id, ok := fields["id"].(string); !ok || id == "" {
			fields["id"] = key
		}
		if s, ok := fields["status"].(string); !ok || !model.TaskStatus(s).Valid() {
			fields["status"] = string(model.TaskStatusBacklog)
			if s, _, ok := order.Find(sanitize.StripTagsValue(fields["id"])); ok {
				fields["status"] = string(s)
			}
		}

		t, ok := sanitize.Task(fields, now)
		if !ok {
			continue
		}
		tasks[t.ID] = t
	}

	return model.Board{Tasks: tasks, ColumnOrder: order}
}
