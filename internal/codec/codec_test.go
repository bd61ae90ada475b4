package codec_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/slimeboard/internal/codec"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage/memory"
	"github.com/slok/slimeboard/internal/storage/storagemock"
)

var now = time.UnixMilli(1748873915983)

func TestDecodeBoard(t *testing.T) {
	tests := map[string]struct {
		data     string
		expBoard model.Board
		expErr   bool
	}{
		"Malformed JSON should return an empty board and an error": {
			data:     `{"tasks":`,
			expBoard: model.NewBoard(),
			expErr:   true,
		},

		"Missing fields should return an empty board": {
			data:     `{}`,
			expBoard: model.NewBoard(),
		},

		"A valid board should be decoded": {
			data: `{"tasks":{"t1":{"id":"t1","title":"Test","description":"d","createdAt":10,"status":"doing","expClaimed":true}},"columnOrder":{"backlog":[],"doing":["t1"],"done":[]}}`,
			expBoard: model.Board{
				Tasks: map[string]model.Task{
					"t1": {ID: "t1", Title: "Test", Description: "d", CreatedAt: 10, Status: model.TaskStatusDoing, ExpClaimed: true},
				},
				ColumnOrder: model.ColumnOrder{Backlog: []string{}, Doing: []string{"t1"}, Done: []string{}},
			},
		},

		"Tasks should be sanitized and defaulted": {
			data: `{"tasks":{"t1":{"id":"<b>t1</b>","title":"<script>x()</script>Hi","createdAt":"bad","status":"weird"}},"columnOrder":{"backlog":["t1"]}}`,
			expBoard: model.Board{
				Tasks: map[string]model.Task{
					"t1": {ID: "t1", Title: "Hi", CreatedAt: now.UnixMilli(), Status: model.TaskStatusBacklog},
				},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"t1"}, Doing: []string{}, Done: []string{}},
			},
		},

		"Invalid tasks should be dropped with their column ids": {
			data: `{"tasks":{"t1":{"id":"t1","title":"   "},"t2":"nope","t3":{"id":"t3","title":"ok","createdAt":1}},"columnOrder":{"backlog":["t1","t2","t3",7]}}`,
			expBoard: model.Board{
				Tasks: map[string]model.Task{
					"t3": {ID: "t3", Title: "ok", CreatedAt: 1, Status: model.TaskStatusBacklog},
				},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"t3"}, Doing: []string{}, Done: []string{}},
			},
		},

		"Column invariants should be restored": {
			data: `{"tasks":{
				"a":{"id":"a","title":"A","createdAt":1,"status":"backlog"},
				"b":{"id":"b","title":"B","createdAt":2,"status":"doing"},
				"c":{"id":"c","title":"C","createdAt":3,"status":"done"}
			},"columnOrder":{"backlog":["a","b"],"doing":["b","ghost"],"done":["a"]}}`,
			expBoard: model.Board{
				Tasks: map[string]model.Task{
					"a": {ID: "a", Title: "A", CreatedAt: 1, Status: model.TaskStatusBacklog},
					"b": {ID: "b", Title: "B", CreatedAt: 2, Status: model.TaskStatusBacklog},
					"c": {ID: "c", Title: "C", CreatedAt: 3, Status: model.TaskStatusDone},
				},
				ColumnOrder: model.ColumnOrder{Backlog: []string{"a", "b"}, Doing: []string{}, Done: []string{"c"}},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gotBoard, err := codec.DecodeBoard(test.data, now)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expBoard, gotBoard)
			assert.NoError(gotBoard.Validate())
		})
	}
}

func TestBoardRoundTrip(t *testing.T) {
	require := require.New(t)

	board := model.Board{
		Tasks: map[string]model.Task{
			"t1": {ID: "t1", Title: "Buy milk", CreatedAt: 1, Status: model.TaskStatusBacklog},
			"t2": {ID: "t2", Title: "Write", Description: "docs", CreatedAt: 2, Status: model.TaskStatusDone, ExpClaimed: true},
		},
		ColumnOrder: model.ColumnOrder{Backlog: []string{"t1"}, Doing: []string{}, Done: []string{"t2"}},
	}

	data, err := codec.EncodeBoard(board)
	require.NoError(err)
	got, err := codec.DecodeBoard(data, now)
	require.NoError(err)
	assert.Equal(t, board, got)
}

func TestEncodeBoardEmpty(t *testing.T) {
	data, err := codec.EncodeBoard(model.Board{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":{},"columnOrder":{"backlog":[],"doing":[],"done":[]}}`, data)
}

func TestDecodeJourney(t *testing.T) {
	tests := map[string]struct {
		data       string
		expJourney model.Journey
		expErr     bool
	}{
		"Malformed JSON should return an empty journey and an error": {
			data:       `[`,
			expJourney: model.Journey{},
			expErr:     true,
		},

		"Current shape should be decoded": {
			data: `{"2025-06-02":{"count":1,"tasks":[{"title":"A","description":"<script>x</script>d"}]}}`,
			expJourney: model.Journey{
				"2025-06-02": {Count: 1, Tasks: []model.TaskSnapshot{{Title: "A", Description: "d"}}},
			},
		},

		"Older count shape should be decoded": {
			data: `{"2025-06-02":3}`,
			expJourney: model.Journey{
				"2025-06-02": {Count: 3, Tasks: []model.TaskSnapshot{}},
			},
		},

		"Invalid entries should be dropped or fixed": {
			data: `{"not-a-date":1,"2025-06-03":{"count":-4,"tasks":[{"title":"A"},"x"]},"2025-06-04":"x"}`,
			expJourney: model.Journey{
				"2025-06-03": {Count: 1, Tasks: []model.TaskSnapshot{{Title: "A"}}},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			got, err := codec.DecodeJourney(test.data)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expJourney, got)
		})
	}
}

func TestEncodeJourney(t *testing.T) {
	data, err := codec.EncodeJourney(model.Journey{"2025-06-02": {Count: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-06-02":{"count":2,"tasks":[]}}`, data)
}

func TestCheckQuota(t *testing.T) {
	tests := map[string]struct {
		mock   func(m *storagemock.MockKV)
		expErr bool
	}{
		"A successful probe should pass": {
			mock: func(m *storagemock.MockKV) {
				m.On("Set", mock.Anything, "__test_kanban-board", "data").Once().Return(nil)
				m.On("Remove", mock.Anything, "__test_kanban-board").Once().Return(nil)
			},
		},

		"A failing write should fail": {
			mock: func(m *storagemock.MockKV) {
				m.On("Set", mock.Anything, "__test_kanban-board", "data").Once().Return(model.ErrQuotaExceeded)
			},
			expErr: true,
		},

		"A failing cleanup should fail": {
			mock: func(m *storagemock.MockKV) {
				m.On("Set", mock.Anything, "__test_kanban-board", "data").Once().Return(nil)
				m.On("Remove", mock.Anything, "__test_kanban-board").Once().Return(errors.New("boom"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m := storagemock.NewMockKV(t)
			test.mock(m)

			err := codec.CheckQuota(context.Background(), m, "kanban-board", "data")

			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckQuotaWithMemoryQuota(t *testing.T) {
	ctx := context.Background()
	kv, err := memory.NewRepository(memory.RepositoryConfig{QuotaBytes: 64})
	require.NoError(t, err)

	assert.NoError(t, codec.CheckQuota(ctx, kv, "k", "small"))
	assert.Equal(t, 0, kv.Used())

	err = codec.CheckQuota(ctx, kv, "k", string(make([]byte, 128)))
	assert.ErrorIs(t, err, model.ErrQuotaExceeded)
}
