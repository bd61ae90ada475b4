// Package journey keeps the history of claimed tasks by day and the slime
// progress derived from it.
package journey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slok/slimeboard/internal/codec"
	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage"
)

// StorageKey is the key the journey is persisted under.
const StorageKey = "kanban-journey"

// StoreConfig is the configuration for the journey store.
type StoreConfig struct {
	KV     storage.KV
	Now    func() time.Time
	Logger log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "journey.Store"})
	return nil
}

// Store owns the daily progress records. Every change is persisted right away.
type Store struct {
	mu      sync.RWMutex
	records model.Journey
	kv      storage.KV
	now     func() time.Time
	logger  log.Logger
}

// NewStore returns a new empty journey store, use Load to read the persisted records.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		records: model.Journey{},
		kv:      cfg.KV,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}, nil
}

// Load replaces the records with the persisted ones. Missing or malformed data
// results in an empty journey.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = model.Journey{}

	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Errorf("Could not read journey: %s", err)
		}
		return
	}

	j, err := codec.DecodeJourney(data)
	if err != nil {
		s.logger.Errorf("Ignoring stored journey: %s", err)
	}
	s.records = j
}

func (s *Store) save(ctx context.Context) {
	data, err := codec.EncodeJourney(s.records)
	if err != nil {
		s.logger.Errorf("Could not encode journey: %s", err)
		return
	}

	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.logger.Errorf("Could not save journey: %s", err)
	}
}

// Record appends task snapshots to the record of a date (YYYY-MM-DD).
func (s *Store) Record(ctx context.Context, date string, snaps ...model.TaskSnapshot) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, model.ErrNotValid)
	}
	if len(snaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.records[date]
	r.Tasks = append(append([]model.TaskSnapshot{}, r.Tasks...), snaps...)
	r.Count += len(snaps)
	s.records[date] = r
	s.save(ctx)

	return nil
}

// RecordToday appends task snapshots to the record of the current local date.
func (s *Store) RecordToday(ctx context.Context, snaps ...model.TaskSnapshot) error {
	return s.Record(ctx, s.now().Format(model.DateLayout), snaps...)
}

// Records returns a copy of all the records.
func (s *Store) Records() model.Journey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records.Clone()
}

// Reset removes every record.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = model.Journey{}
	s.save(ctx)
}

// Remove deletes the record of a date, it returns false if there was none.
func (s *Store) Remove(ctx context.Context, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[date]; !ok {
		return false
	}
	delete(s.records, date)
	s.save(ctx)

	return true
}

// Total returns the number of claimed tasks.
func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records.Total()
}

// DayCount is the number of tasks claimed on a date.
type DayCount struct {
	Date  string
	Count int
}

// LastDays returns the claimed counts of the last n days, oldest first and
// ending today.
func (s *Store) LastDays(n int) []DayCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := s.now()
	days := make([]DayCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format(model.DateLayout)
		days = append(days, DayCount{Date: date, Count: s.records[date].Count})
	}

	return days
}

// ClaimedTask is a claimed task snapshot with its claim date.
type ClaimedTask struct {
	Date string
	model.TaskSnapshot
}

// ClaimedTasks returns every claimed task, newest date first keeping the claim
// order inside a day.
func (s *Store) ClaimedTasks() []ClaimedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.records))
	for d := range s.records {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	tasks := []ClaimedTask{}
	for _, d := range dates {
		for _, t := range s.records[d].Tasks {
			tasks = append(tasks, ClaimedTask{Date: d, TaskSnapshot: t})
		}
	}

	return tasks
}
