package printer

import (
	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/model"
)

// Printer knows how to print board information in different formats.
type Printer interface {
	PrintBoard(b model.Board) error
	PrintTask(t model.Task) error
	PrintTasks(tasks []model.Task) error
	PrintJourney(j Journey) error
	PrintMessage(msg string) error
}

// Journey is the progress summary printed by the journey command.
type Journey struct {
	Total    int
	Level    int
	NextGoal int
	// HasNextGoal is false when the slime reached the last level.
	HasNextGoal bool
	LastDays    []journey.DayCount
	Claimed     []journey.ClaimedTask
}
