// Package codec converts the board and journey state to and from their
// persisted JSON form.
//
// Every decoded entry is validated and sanitized. Entries that can't be used are
// dropped instead of failing the whole document.
package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/sanitize"
	"github.com/slok/slimeboard/internal/storage"
)

// QuotaProbePrefix is prepended to a key to probe the storage capacity.
const QuotaProbePrefix = "__test_"

type boardJSON struct {
	Tasks       map[string]model.Task `json:"tasks"`
	ColumnOrder model.ColumnOrder     `json:"columnOrder"`
}

// EncodeBoard encodes the board.
func EncodeBoard(b model.Board) (string, error) {
	doc := boardJSON{Tasks: b.Tasks, ColumnOrder: b.ColumnOrder.Clone()}
	if doc.Tasks == nil {
		doc.Tasks = map[string]model.Task{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("could not encode board: %w", err)
	}

	return string(data), nil
}

// DecodeBoard decodes a board. It always returns a valid board, the error is
// only set when the document is malformed, in that case the board is empty.
func DecodeBoard(data string, now time.Time) (model.Board, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return model.NewBoard(), fmt.Errorf("could not decode board: %w", err)
	}

	return BoardFromRaw(raw["tasks"], raw["columnOrder"], now), nil
}

// BoardFromRaw builds a valid board from decoded JSON values.
func BoardFromRaw(rawTasks, rawOrder any, now time.Time) model.Board {
	tasks := map[string]model.Task{}
	if obj, ok := rawTasks.(map[string]any); ok {
		for _, v := range obj {
			t, ok := sanitize.Task(v, now)
			if !ok {
				continue
			}
			tasks[t.ID] = t
		}
	}

	return Normalize(tasks, sanitize.ColumnOrder(rawOrder))
}

// Normalize returns a board that satisfies the column invariants. Ids without a
// task are dropped, repeated ids keep their first position, tasks in no column are
// appended to their status column by creation time and every task status is set
// to the column holding it.
func Normalize(tasks map[string]model.Task, order model.ColumnOrder) model.Board {
	board := model.NewBoard()
	for _, s := range model.TaskStatuses {
		ids := []string{}
		for _, id := range order.Column(s) {
			t, ok := tasks[id]
			if !ok {
				continue
			}
			if _, ok := board.Tasks[id]; ok {
				continue
			}
			t.Status = s
			board.Tasks[id] = t
			ids = append(ids, id)
		}
		board.ColumnOrder.SetColumn(s, ids)
	}

	unplaced := []model.Task{}
	for id, t := range tasks {
		if _, ok := board.Tasks[id]; !ok {
			unplaced = append(unplaced, t)
		}
	}
	sort.Slice(unplaced, func(i, j int) bool {
		if unplaced[i].CreatedAt == unplaced[j].CreatedAt {
			return unplaced[i].ID < unplaced[j].ID
		}
		return unplaced[i].CreatedAt < unplaced[j].CreatedAt
	})
	for _, t := range unplaced {
		board.Tasks[t.ID] = t
		board.ColumnOrder.SetColumn(t.Status, append(board.ColumnOrder.Column(t.Status), t.ID))
	}

	return board
}

// EncodeJourney encodes the daily progress records.
func EncodeJourney(j model.Journey) (string, error) {
	doc := make(model.Journey, len(j))
	for date, r := range j {
		if r.Tasks == nil {
			r.Tasks = []model.TaskSnapshot{}
		}
		doc[date] = r
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("could not encode journey: %w", err)
	}

	return string(data), nil
}

// DecodeJourney decodes the daily progress records. Entries with an invalid date
// are dropped, the older `date -> count` shape is accepted. Like DecodeBoard, a
// malformed document returns an empty journey and an error.
func DecodeJourney(data string) (model.Journey, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return model.Journey{}, fmt.Errorf("could not decode journey: %w", err)
	}

	j := model.Journey{}
	for date, v := range raw {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			continue
		}

		switch v := v.(type) {
		case float64:
			j[date] = model.DailyRecord{Count: nonNegative(v), Tasks: []model.TaskSnapshot{}}
		case map[string]any:
			r := model.DailyRecord{Tasks: decodeSnapshots(v["tasks"])}
			if c, ok := v["count"].(float64); ok {
				r.Count = nonNegative(c)
			}
			if r.Count < len(r.Tasks) {
				r.Count = len(r.Tasks)
			}
			j[date] = r
		}
	}

	return j, nil
}

func decodeSnapshots(raw any) []model.TaskSnapshot {
	snaps := []model.TaskSnapshot{}
	list, ok := raw.([]any)
	if !ok {
		return snaps
	}

	for _, v := range list {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		snaps = append(snaps, model.TaskSnapshot{
			Title:       sanitize.ForXSSValue(obj["title"]),
			Description: sanitize.ForXSSValue(obj["description"]),
		})
	}

	return snaps
}

func nonNegative(f float64) int {
	if f < 0 || f != f {
		return 0
	}
	return int(f)
}

// CheckQuota probes if the storage can hold data for the key by writing and
// removing a test entry.
func CheckQuota(ctx context.Context, kv storage.KV, key, data string) error {
	probe := QuotaProbePrefix + key
	if err := kv.Set(ctx, probe, data); err != nil {
		return fmt.Errorf("storage can't hold %d bytes for %s: %w", len(data), key, err)
	}
	if err := kv.Remove(ctx, probe); err != nil {
		return fmt.Errorf("could not remove quota probe: %w", err)
	}

	return nil
}
