package sanitize

import (
	"math"
	"strings"
	"time"

	"github.com/slok/slimeboard/internal/model"
)

// Task validates and sanitizes a decoded JSON task. It returns false when the value
// can't be used as a task (not an object, no id or no title).
func Task(raw any, now time.Time) (model.Task, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Task{}, false
	}

	t := model.Task{
		ID:          StripTagsValue(obj["id"]),
		Title:       ForXSSValue(obj["title"]),
		Description: ForXSSValue(obj["description"]),
		CreatedAt:   now.UnixMilli(),
		Status:      model.TaskStatusBacklog,
	}

	if ms, ok := obj["createdAt"].(float64); ok && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
		t.CreatedAt = int64(ms)
	}
	if s, ok := obj["status"].(string); ok && model.TaskStatus(s).Valid() {
		t.Status = model.TaskStatus(s)
	}
	if claimed, ok := obj["expClaimed"].(bool); ok {
		t.ExpClaimed = claimed
	}

	if strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Title) == "" {
		return model.Task{}, false
	}

	return t, true
}

// ColumnOrder validates and sanitizes a decoded JSON column order. Missing or
// malformed columns become empty and non string ids are dropped.
func ColumnOrder(raw any) model.ColumnOrder {
	order := model.NewColumnOrder()

	obj, ok := raw.(map[string]any)
	if !ok {
		return order
	}

	for _, s := range model.TaskStatuses {
		list, ok := obj[string(s)].([]any)
		if !ok {
			continue
		}
		ids := make([]string, 0, len(list))
		for _, v := range list {
			id, ok := v.(string)
			if !ok {
				continue
			}
			if id = StripTags(id); id != "" {
				ids = append(ids, id)
			}
		}
		order.SetColumn(s, ids)
	}

	return order
}

// Template sanitizes a report template, anything that is not a string yields "".
func Template(raw any) string {
	return ForXSSValue(raw)
}
