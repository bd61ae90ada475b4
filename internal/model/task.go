package model

import (
	"fmt"
	"slices"
	"time"
)

// TaskStatus is the column a task lives in.
type TaskStatus string

const (
	// TaskStatusBacklog is the column for tasks not started yet.
	TaskStatusBacklog TaskStatus = "backlog"
	// TaskStatusDoing is the column for tasks in progress.
	TaskStatusDoing TaskStatus = "doing"
	// TaskStatusDone is the column for finished tasks.
	TaskStatusDone TaskStatus = "done"
)

// TaskStatuses are the board columns in display order.
var TaskStatuses = []TaskStatus{TaskStatusBacklog, TaskStatusDoing, TaskStatusDone}

// Valid reports whether the status is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusDoing, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus parses a column name.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q (must be: backlog, doing, done): %w", s, ErrNotValid)
	}
	return status, nil
}

// Task is a single card on the board.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt  int64      `json:"createdAt"`
	Status     TaskStatus `json:"status"`
	ExpClaimed bool       `json:"expClaimed"`
}

// Created returns the creation time.
func (t Task) Created() time.Time { return time.UnixMilli(t.CreatedAt) }

// Snapshot returns the journey snapshot of the task.
func (t Task) Snapshot() TaskSnapshot {
	return TaskSnapshot{Title: t.Title, Description: t.Description}
}

// ColumnOrder holds the ordered task ids of every column.
type ColumnOrder struct {
	Backlog []string `json:"backlog"`
	Doing   []string `json:"doing"`
	Done    []string `json:"done"`
}

// NewColumnOrder returns a column order with empty (non nil) columns.
func NewColumnOrder() ColumnOrder {
	return ColumnOrder{Backlog: []string{}, Doing: []string{}, Done: []string{}}
}

// Column returns the ids of a column. Unknown statuses return nil.
func (c ColumnOrder) Column(s TaskStatus) []string {
	switch s {
	case TaskStatusBacklog:
		return c.Backlog
	case TaskStatusDoing:
		return c.Doing
	case TaskStatusDone:
		return c.Done
	}
	return nil
}

// SetColumn replaces the ids of a column. Unknown statuses are ignored.
func (c *ColumnOrder) SetColumn(s TaskStatus, ids []string) {
	switch s {
	case TaskStatusBacklog:
		c.Backlog = ids
	case TaskStatusDoing:
		c.Doing = ids
	case TaskStatusDone:
		c.Done = ids
	}
}

// Find returns the column and position of a task id.
func (c ColumnOrder) Find(id string) (TaskStatus, int, bool) {
	for _, s := range TaskStatuses {
		if i := slices.Index(c.Column(s), id); i >= 0 {
			return s, i, true
		}
	}
	return "", -1, false
}

// Len returns the number of ids in all the columns.
func (c ColumnOrder) Len() int {
	return len(c.Backlog) + len(c.Doing) + len(c.Done)
}

// Clone returns a deep copy with non nil columns.
func (c ColumnOrder) Clone() ColumnOrder {
	return ColumnOrder{
		Backlog: append([]string{}, c.Backlog...),
		Doing:   append([]string{}, c.Doing...),
		Done:    append([]string{}, c.Done...),
	}
}

// Board is the whole persisted board state.
type Board struct {
	Tasks       map[string]Task `json:"tasks"`
	ColumnOrder ColumnOrder     `json:"columnOrder"`
}

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{
		Tasks:       map[string]Task{},
		ColumnOrder: NewColumnOrder(),
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	tasks := make(map[string]Task, len(b.Tasks))
	for id, t := range b.Tasks {
		tasks[id] = t
	}
	return Board{Tasks: tasks, ColumnOrder: b.ColumnOrder.Clone()}
}

// ColumnTasks returns the tasks of a column in display order, skipping dangling ids.
func (b Board) ColumnTasks(s TaskStatus) []Task {
	ids := b.ColumnOrder.Column(s)
	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := b.Tasks[id]; ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Validate checks the board invariants: every column id is a known task, ids appear
// once across all the columns, every task is placed and its status matches its column.
func (b Board) Validate() error {
	seen := make(map[string]TaskStatus, len(b.Tasks))
	for _, s := range TaskStatuses {
		for _, id := range b.ColumnOrder.Column(s) {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("task %s is in %s and %s: %w", id, prev, s, ErrNotValid)
			}
			seen[id] = s

			t, ok := b.Tasks[id]
			if !ok {
				return fmt.Errorf("column %s references unknown task %s: %w", s, id, ErrNotValid)
			}
			if t.Status != s {
				return fmt.Errorf("task %s has status %s but is in %s: %w", id, t.Status, s, ErrNotValid)
			}
		}
	}

	for id := range b.Tasks {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("task %s is not in any column: %w", id, ErrNotValid)
		}
	}

	return nil
}
