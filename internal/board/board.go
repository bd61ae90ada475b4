// Package board is the task store: it owns the tasks and the order of every
// column, persists them with a debounced writer and publishes board events.
package board

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/slimeboard/internal/codec"
	"github.com/slok/slimeboard/internal/debounce"
	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/migration"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/notify"
	"github.com/slok/slimeboard/internal/sanitize"
	"github.com/slok/slimeboard/internal/storage"
)

// StorageKey is the key the board is persisted under.
const StorageKey = "kanban-board"

// CopySuffix is appended to the title of copied tasks.
const CopySuffix = " (copy)"

// Journal records claimed tasks.
type Journal interface {
	RecordToday(ctx context.Context, snaps ...model.TaskSnapshot) error
}

// Notifier publishes board events without blocking.
type Notifier interface {
	Publish(e notify.Event)
}

// Migrator upgrades legacy board data.
type Migrator interface {
	Migrate(ctx context.Context) (*migration.Result, bool)
}

type noopNotifier struct{}

func (noopNotifier) Publish(notify.Event) {}

// StoreConfig is the configuration for the task store.
type StoreConfig struct {
	KV      storage.KV
	Journal Journal
	// Notifier is optional.
	Notifier Notifier
	// Migrator is optional, it runs on Load before reading the board.
	Migrator Migrator
	// SaveWait is the idle time after the last change before saving.
	SaveWait time.Duration
	NewID    func() string
	Now      func() time.Time
	Logger   log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Journal == nil {
		return fmt.Errorf("journal is required")
	}
	if c.Notifier == nil {
		c.Notifier = noopNotifier{}
	}
	if c.SaveWait == 0 {
		c.SaveWait = debounce.DefaultWait
	}
	if c.NewID == nil {
		c.NewID = func() string { return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String() }
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "board.Store"})
	return nil
}

// Store is the task store. All the operations are safe for concurrent use,
// unknown ids and invalid input are no-ops reported with the return values.
type Store struct {
	mu    sync.RWMutex
	board model.Board

	kv       storage.KV
	journal  Journal
	notifier Notifier
	migrator Migrator
	saver    *debounce.Debouncer
	newID    func() string
	now      func() time.Time
	logger   log.Logger

	subsMu  sync.Mutex
	subs    map[int]func(model.Board)
	nextSub int
}

// NewStore returns an empty task store, use Load to read the persisted board.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Store{
		board:    model.NewBoard(),
		kv:       cfg.KV,
		journal:  cfg.Journal,
		notifier: cfg.Notifier,
		migrator: cfg.Migrator,
		newID:    cfg.NewID,
		now:      cfg.Now,
		logger:   cfg.Logger,
		subs:     map[int]func(model.Board){},
	}

	saver, err := debounce.New(debounce.Config{
		Wait:  cfg.SaveWait,
		Flush: func() { s.Save(context.Background()) },
	})
	if err != nil {
		return nil, fmt.Errorf("could not create debounced saver: %w", err)
	}
	s.saver = saver

	return s, nil
}

// Subscribe registers a listener called with a copy of the board after every
// change. Listeners run synchronously on the goroutine that made the change.
func (s *Store) Subscribe(fn func(model.Board)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// changed schedules the save, publishes the events and notifies the listeners.
// It must be called without the board lock held.
func (s *Store) changed(events ...notify.Event) {
	s.saver.Schedule()

	for _, e := range events {
		s.notifier.Publish(e)
	}

	s.subsMu.Lock()
	fns := make([]func(model.Board), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	if len(fns) == 0 {
		return
	}
	snapshot := s.Snapshot()
	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}

func (s *Store) event(t notify.EventType, task model.Task) notify.Event {
	return notify.Event{Type: t, TaskID: task.ID, Title: task.Title, At: s.now()}
}

// AddTask creates a task at the end of a column. A title that is empty after
// sanitizing or an unknown status creates nothing.
func (s *Store) AddTask(title, description string, status model.TaskStatus) (model.Task, bool) {
	title = sanitize.ForXSS(title)
	if strings.TrimSpace(title) == "" || !status.Valid() {
		return model.Task{}, false
	}

	s.mu.Lock()
	t := model.Task{
		ID:          s.newID(),
		Title:       title,
		Description: sanitize.ForXSS(description),
		CreatedAt:   s.now().UnixMilli(),
		Status:      status,
	}
	s.board.Tasks[t.ID] = t
	s.board.ColumnOrder.SetColumn(status, append(s.board.ColumnOrder.Column(status), t.ID))
	s.mu.Unlock()

	s.logger.Debugf("Task added: %s", t.ID)
	s.changed(s.event(notify.EventAdd, t))

	return t, true
}

// TaskPatch are the editable task fields, nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
}

// UpdateTask edits the title and description of a task. A title that is empty
// after sanitizing keeps the current one.
func (s *Store) UpdateTask(id string, patch TaskPatch) (model.Task, bool) {
	s.mu.Lock()
	t, ok := s.board.Tasks[id]
	if !ok {
		s.mu.Unlock()
		return model.Task{}, false
	}

	if patch.Title != nil {
		if title := sanitize.ForXSS(*patch.Title); strings.TrimSpace(title) != "" {
			t.Title = title
		}
	}
	if patch.Description != nil {
		t.Description = sanitize.ForXSS(*patch.Description)
	}
	s.board.Tasks[id] = t
	s.mu.Unlock()

	s.changed()

	return t, true
}

// RemoveTask deletes a task.
func (s *Store) RemoveTask(id string) bool {
	s.mu.Lock()
	t, ok := s.board.Tasks[id]
	if !ok {
		s.mu.Unlock()
		return false
	}

	delete(s.board.Tasks, id)
	s.removeFromColumns(id)
	s.mu.Unlock()

	s.logger.Debugf("Task removed: %s", id)
	s.changed(s.event(notify.EventDelete, t))

	return true
}

func (s *Store) removeFromColumns(id string) {
	for _, st := range model.TaskStatuses {
		col := s.board.ColumnOrder.Column(st)
		if i := slices.Index(col, id); i >= 0 {
			s.board.ColumnOrder.SetColumn(st, slices.Delete(slices.Clone(col), i, i+1))
		}
	}
}

// MoveTask moves a task to a position of a column. The index is clamped, a
// negative one inserts first and one past the end appends. Moving a task to
// where it already is does nothing and returns false.
func (s *Store) MoveTask(id string, status model.TaskStatus, index int) bool {
	if !status.Valid() {
		return false
	}

	s.mu.Lock()
	t, ok := s.board.Tasks[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	from, fromIdx, _ := s.board.ColumnOrder.Find(id)

	dst := slices.DeleteFunc(slices.Clone(s.board.ColumnOrder.Column(status)), func(v string) bool { return v == id })
	index = min(max(index, 0), len(dst))
	if from == status && fromIdx == index {
		s.mu.Unlock()
		return false
	}

	s.removeFromColumns(id)
	s.board.ColumnOrder.SetColumn(status, slices.Insert(dst, index, id))
	t.Status = status
	s.board.Tasks[id] = t
	s.mu.Unlock()

	var events []notify.Event
	switch {
	case from == status:
	case status == model.TaskStatusDone:
		events = append(events, s.event(notify.EventCelebrate, t))
	default:
		events = append(events, s.event(notify.EventMove, t))
	}
	s.logger.Debugf("Task moved: %s (%s -> %s:%d)", id, from, status, index)
	s.changed(events...)

	return true
}

// ReorderColumn replaces the order of a column. The ids must be a permutation of
// the current ones, otherwise nothing changes and it returns false.
func (s *Store) ReorderColumn(status model.TaskStatus, ids []string) bool {
	if !status.Valid() {
		return false
	}

	s.mu.Lock()
	current := s.board.ColumnOrder.Column(status)
	if !isPermutation(current, ids) {
		s.mu.Unlock()
		return false
	}
	s.board.ColumnOrder.SetColumn(status, slices.Clone(ids))
	s.mu.Unlock()

	s.changed()

	return true
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// CopyTask duplicates a task right after the original one.
func (s *Store) CopyTask(id string) (model.Task, bool) {
	s.mu.Lock()
	orig, ok := s.board.Tasks[id]
	if !ok {
		s.mu.Unlock()
		return model.Task{}, false
	}

	t := model.Task{
		ID:          s.newID(),
		Title:       sanitize.ForXSS(orig.Title + CopySuffix),
		Description: orig.Description,
		CreatedAt:   s.now().UnixMilli(),
		Status:      orig.Status,
	}
	col := s.board.ColumnOrder.Column(orig.Status)
	i := slices.Index(col, id)
	s.board.Tasks[t.ID] = t
	s.board.ColumnOrder.SetColumn(orig.Status, slices.Insert(slices.Clone(col), i+1, t.ID))
	s.mu.Unlock()

	s.logger.Debugf("Task copied: %s -> %s", id, t.ID)
	s.changed(s.event(notify.EventAdd, t))

	return t, true
}

// ClaimExp marks a done task as claimed and records it on today's journey.
// Claiming an already claimed task does nothing.
func (s *Store) ClaimExp(ctx context.Context, id string) bool {
	s.mu.Lock()
	t, ok := s.board.Tasks[id]
	if !ok || t.Status != model.TaskStatusDone || t.ExpClaimed {
		s.mu.Unlock()
		return false
	}
	t.ExpClaimed = true
	s.board.Tasks[id] = t
	s.mu.Unlock()

	if err := s.journal.RecordToday(ctx, t.Snapshot()); err != nil {
		s.logger.Errorf("Could not record claimed task %s: %s", id, err)
	}
	s.changed()

	return true
}

// ClaimAllExp records every unclaimed done task on today's journey and removes
// them from the board. It returns how many were claimed.
func (s *Store) ClaimAllExp(ctx context.Context) int {
	s.mu.Lock()
	claimed := []model.Task{}
	kept := []string{}
	for _, id := range s.board.ColumnOrder.Done {
		t, ok := s.board.Tasks[id]
		if ok && !t.ExpClaimed {
			claimed = append(claimed, t)
			delete(s.board.Tasks, id)
			continue
		}
		kept = append(kept, id)
	}
	if len(claimed) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.board.ColumnOrder.Done = kept
	s.mu.Unlock()

	snaps := make([]model.TaskSnapshot, 0, len(claimed))
	for _, t := range claimed {
		snaps = append(snaps, t.Snapshot())
	}
	if err := s.journal.RecordToday(ctx, snaps...); err != nil {
		s.logger.Errorf("Could not record %d claimed tasks: %s", len(snaps), err)
	}

	s.logger.Infof("Claimed %d tasks", len(claimed))
	s.changed()

	return len(claimed)
}

// Save persists the board now. Failures, including not enough storage
// capacity, are logged and the board stays in memory.
func (s *Store) Save(ctx context.Context) {
	data, err := codec.EncodeBoard(s.Snapshot())
	if err != nil {
		s.logger.Errorf("Could not encode board: %s", err)
		return
	}

	if err := codec.CheckQuota(ctx, s.kv, StorageKey, data); err != nil {
		s.logger.Errorf("Not saving board: %s", err)
		return
	}

	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.logger.Errorf("Could not save board: %s", err)
		return
	}

	s.logger.Debugf("Board saved (%d bytes)", len(data))
}

// Load replaces the board with the migrated legacy data when there is any, or
// with the persisted board. Unreadable data results in an empty board.
func (s *Store) Load(ctx context.Context) {
	if s.migrator != nil {
		if res, ok := s.migrator.Migrate(ctx); ok {
			b := codec.Normalize(res.Board.Tasks, res.Board.ColumnOrder)
			s.setBoard(b)
			s.logger.Infof("Adopted %d tasks migrated from %s", len(b.Tasks), res.Key)
			s.Save(ctx)
			return
		}
	}

	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Errorf("Could not read board: %s", err)
		}
		s.setBoard(model.NewBoard())
		return
	}

	b, err := codec.DecodeBoard(data, s.now())
	if err != nil {
		s.logger.Errorf("Ignoring stored board: %s", err)
	}
	s.setBoard(b)
}

func (s *Store) setBoard(b model.Board) {
	s.mu.Lock()
	s.board = b
	s.mu.Unlock()
}

// Flush runs a pending debounced save now.
func (s *Store) Flush() bool {
	return s.saver.FlushNow()
}

// Close saves any pending change and stops the debounced saver.
func (s *Store) Close() {
	s.saver.FlushNow()
	s.saver.Stop()
}

// Snapshot returns a copy of the board.
func (s *Store) Snapshot() model.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.board.Clone()
}

// Task returns a task.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.board.Tasks[id]
	return t, ok
}

// Column returns the tasks of a column in display order.
func (s *Store) Column(status model.TaskStatus) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.board.ColumnTasks(status)
}

// UnclaimedDone returns the done tasks not claimed yet.
func (s *Store) UnclaimedDone() []model.Task {
	tasks := []model.Task{}
	for _, t := range s.Column(model.TaskStatusDone) {
		if !t.ExpClaimed {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// History returns all the tasks, newest first.
func (s *Store) History() []model.Task {
	s.mu.RLock()
	tasks := make([]model.Task, 0, len(s.board.Tasks))
	for _, t := range s.board.Tasks {
		tasks = append(tasks, t)
	}
	s.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt == tasks[j].CreatedAt {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})

	return tasks
}
