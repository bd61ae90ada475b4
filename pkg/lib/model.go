package lib

import (
	"time"

	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/model"
)

// Backend identifies where the board is stored.
type Backend string

const (
	// BackendSQLite stores the board in a SQLite database file.
	BackendSQLite Backend = "sqlite"
	// BackendDiskv stores every key as a file inside a directory.
	BackendDiskv Backend = "diskv"
	// BackendRedis stores the board on a Redis server.
	BackendRedis Backend = "redis"
	// BackendMemory keeps the board in memory, it's lost on Close.
	// Use this for unit testing.
	BackendMemory Backend = "memory"
)

// Status is the board column a task lives in.
type Status string

const (
	// StatusBacklog is the column for tasks not started yet.
	StatusBacklog Status = "backlog"
	// StatusDoing is the column for tasks in progress.
	StatusDoing Status = "doing"
	// StatusDone is the column for finished tasks.
	StatusDone Status = "done"
)

// Task is a card on the board.
//
// This is a read-only snapshot at the time of the API call.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	// Claimed is true when the task experience was already claimed.
	Claimed   bool
	CreatedAt time.Time
}

// Board is the whole board with the tasks of every column in display order.
type Board struct {
	Backlog []Task
	Doing   []Task
	Done    []Task
}

// AddTaskOpts are the options for [Client.AddTask].
type AddTaskOpts struct {
	// Title is required.
	Title       string
	Description string
	// Status is the column of the new task.
	// Default: [StatusBacklog].
	Status Status
}

// UpdateTaskOpts are the options for [Client.UpdateTask], nil fields are not changed.
type UpdateTaskOpts struct {
	Title       *string
	Description *string
}

// Journey is the slime progress.
type Journey struct {
	// Total is the number of claimed tasks.
	Total int
	// Level is the slime level (1 to 5).
	Level int
	// NextGoal is the total that evolves the slime. Nil at the last level.
	NextGoal *int
	// Days are the claimed tasks per day, oldest first and ending today.
	Days []DayCount
}

// DayCount is the number of tasks claimed on a date (YYYY-MM-DD).
type DayCount struct {
	Date  string
	Count int
}

// Volume is the cue volume level.
type Volume string

const (
	VolumeOff    Volume = "off"
	VolumeLow    Volume = "low"
	VolumeMedium Volume = "medium"
	VolumeHigh   Volume = "high"
)

// --- Doctor types ---

// CheckStatus represents the status of a storage check.
type CheckStatus string

const (
	// CheckStatusOK indicates the check passed.
	CheckStatusOK CheckStatus = "ok"
	// CheckStatusWarning indicates the check passed with a warning.
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError indicates the check failed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult represents the result of a single storage check.
type CheckResult struct {
	// ID is a unique identifier for the check (e.g. "board_data").
	ID string
	// Message is a human-readable description of the result.
	Message string
	// Status is the check status.
	Status CheckStatus
}

// --- Internal conversion helpers ---

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      Status(t.Status),
		Claimed:     t.ExpClaimed,
		CreatedAt:   t.Created(),
	}
}

func fromInternalTaskList(ts []model.Task) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		out = append(out, fromInternalTask(t))
	}
	return out
}

func fromInternalBoard(b model.Board) Board {
	return Board{
		Backlog: fromInternalTaskList(b.ColumnTasks(model.TaskStatusBacklog)),
		Doing:   fromInternalTaskList(b.ColumnTasks(model.TaskStatusDoing)),
		Done:    fromInternalTaskList(b.ColumnTasks(model.TaskStatusDone)),
	}
}

func fromInternalDays(ds []journey.DayCount) []DayCount {
	out := make([]DayCount, 0, len(ds))
	for _, d := range ds {
		out = append(out, DayCount{Date: d.Date, Count: d.Count})
	}
	return out
}

func fromInternalCheckResults(results []model.CheckResult) []CheckResult {
	out := make([]CheckResult, 0, len(results))
	for _, r := range results {
		out = append(out, CheckResult{
			ID:      r.ID,
			Message: r.Message,
			Status:  CheckStatus(r.Status),
		})
	}
	return out
}
