package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slimeboard/internal/model"
)

func TestParseTaskStatus(t *testing.T) {
	tests := map[string]struct {
		status    string
		expStatus model.TaskStatus
		expErr    bool
	}{
		"Backlog should parse":       {status: "backlog", expStatus: model.TaskStatusBacklog},
		"Doing should parse":         {status: "doing", expStatus: model.TaskStatusDoing},
		"Done should parse":          {status: "done", expStatus: model.TaskStatusDone},
		"Unknown status should fail": {status: "archived", expErr: true},
		"Status is case sensitive":   {status: "Done", expErr: true},
		"Empty status should fail":   {status: "", expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			status, err := model.ParseTaskStatus(test.status)
			if test.expErr {
				assert.True(errors.Is(err, model.ErrNotValid))
			} else if assert.NoError(err) {
				assert.Equal(test.expStatus, status)
			}
		})
	}
}

func TestBoardValidate(t *testing.T) {
	task := func(id string, s model.TaskStatus) model.Task {
		return model.Task{ID: id, Title: id, Status: s}
	}

	tests := map[string]struct {
		board  model.Board
		expErr bool
	}{
		"An empty board should be valid": {
			board: model.NewBoard(),
		},

		"A consistent board should be valid": {
			board: model.Board{
				Tasks: map[string]model.Task{
					"a": task("a", model.TaskStatusBacklog),
					"b": task("b", model.TaskStatusDone),
				},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"a"}, Done: []string{"b"}},
			},
		},

		"An orphan column id should fail": {
			board: model.Board{
				Tasks:       map[string]model.Task{},
				ColumnOrder: model.ColumnOrder{Doing: []string{"ghost"}},
			},
			expErr: true,
		},

		"An id in two columns should fail": {
			board: model.Board{
				Tasks:       map[string]model.Task{"a": task("a", model.TaskStatusBacklog)},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"a"}, Doing: []string{"a"}},
			},
			expErr: true,
		},

		"A duplicated id in the same column should fail": {
			board: model.Board{
				Tasks:       map[string]model.Task{"a": task("a", model.TaskStatusBacklog)},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"a", "a"}},
			},
			expErr: true,
		},

		"A status that doesn't match the column should fail": {
			board: model.Board{
				Tasks:       map[string]model.Task{"a": task("a", model.TaskStatusDone)},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"a"}},
			},
			expErr: true,
		},

		"A task without column should fail": {
			board: model.Board{
				Tasks:       map[string]model.Task{"a": task("a", model.TaskStatusDone)},
				ColumnOrder: model.NewColumnOrder(),
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := test.board.Validate()
			if test.expErr {
				assert.ErrorIs(t, err, model.ErrNotValid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoardCloneIsDeep(t *testing.T) {
	assert := assert.New(t)

	b := model.NewBoard()
	b.Tasks["a"] = model.Task{ID: "a", Title: "A", Status: model.TaskStatusBacklog}
	b.ColumnOrder.Backlog = append(b.ColumnOrder.Backlog, "a")

	c := b.Clone()
	c.Tasks["a"] = model.Task{ID: "a", Title: "changed", Status: model.TaskStatusBacklog}
	c.ColumnOrder.Backlog[0] = "z"

	assert.Equal("A", b.Tasks["a"].Title)
	assert.Equal([]string{"a"}, b.ColumnOrder.Backlog)
}

func TestColumnOrderFind(t *testing.T) {
	assert := assert.New(t)

	c := model.ColumnOrder{Backlog: []string{"a"}, Done: []string{"b", "c"}}

	s, i, ok := c.Find("c")
	assert.True(ok)
	assert.Equal(model.TaskStatusDone, s)
	assert.Equal(1, i)

	_, i, ok = c.Find("missing")
	assert.False(ok)
	assert.Equal(-1, i)
	assert.Equal(3, c.Len())
}

func TestJourneyTotal(t *testing.T) {
	j := model.Journey{
		"2025-06-01": {Count: 2},
		"2025-06-02": {Count: 3},
	}
	assert.Equal(t, 5, j.Total())
}
