package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/report"
)

var now = time.Date(2025, 6, 2, 9, 30, 0, 0, time.Local)

func board(cols map[model.TaskStatus][]model.Task) (map[string]model.Task, model.ColumnOrder) {
	tasks := map[string]model.Task{}
	order := model.NewColumnOrder()
	for s, ts := range cols {
		ids := []string{}
		for _, t := range ts {
			t.Status = s
			tasks[t.ID] = t
			ids = append(ids, t.ID)
		}
		order.SetColumn(s, ids)
	}
	return tasks, order
}

func TestGenerate(t *testing.T) {
	tests := map[string]struct {
		columns   map[model.TaskStatus][]model.Task
		template  string
		expReport string
	}{
		"A section with one task should render it": {
			columns: map[model.TaskStatus][]model.Task{
				model.TaskStatusBacklog: {{ID: "t1", Title: "Buy milk"}},
			},
			template:  "{{#backlog}}- {{title}}\n{{/backlog}}{{^backlog}}none\n{{/backlog}}",
			expReport: "- Buy milk\n",
		},

		"An empty section should render the inverted block": {
			template:  "{{#backlog}}- {{title}}\n{{/backlog}}{{^backlog}}none\n{{/backlog}}",
			expReport: "none\n",
		},

		"Repetitions should be newline joined in column order": {
			columns: map[model.TaskStatus][]model.Task{
				model.TaskStatusDoing: {{ID: "b", Title: "B"}, {ID: "a", Title: "A"}, {ID: "c", Title: "C"}},
			},
			template:  "Doing:\n{{#doing}}* {{title}}{{/doing}}\nEnd",
			expReport: "Doing:\n* B\n* A\n* C\nEnd",
		},

		"Date should be replaced everywhere": {
			template:  "{{date}} / {{date}}",
			expReport: "2025-06-02 / 2025-06-02",
		},

		"Description block should only render with a description": {
			columns: map[model.TaskStatus][]model.Task{
				model.TaskStatusDone: {{ID: "a", Title: "A", Description: "first"}, {ID: "b", Title: "B"}},
			},
			template:  "{{#done}}{{title}}{{#description}} ({{description}}){{/description}}{{/done}}",
			expReport: "A (first)\nB",
		},

		"Task values should have their tags stripped": {
			columns: map[model.TaskStatus][]model.Task{
				model.TaskStatusBacklog: {{ID: "a", Title: "<b>Bold</b>", Description: "<i>x</i>"}},
			},
			template:  "{{#backlog}}{{title}}:{{description}}{{/backlog}}",
			expReport: "Bold:x",
		},

		"Task values should not be interpreted as tags": {
			columns: map[model.TaskStatus][]model.Task{
				model.TaskStatusBacklog: {{ID: "a", Title: "{{date}} {{#doing}}x{{/doing}}", Description: "{{title}}"}},
				model.TaskStatusDoing:   {{ID: "b", Title: "B"}},
			},
			template:  "{{#backlog}}{{title}}|{{description}}{{/backlog}}",
			expReport: "{{date}} {{#doing}}x{{/doing}}|{{title}}",
		},

		"Dangling column ids should be skipped": {
			template:  "{{#backlog}}{{title}}{{/backlog}}{{^backlog}}empty{{/backlog}}",
			expReport: "empty",
		},

		"Unknown tags should be kept": {
			template:  "{{unknown}} {{#other}}x{{/other}}",
			expReport: "{{unknown}} {{#other}}x{{/other}}",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tasks, order := board(test.columns)

			got := report.Generate(tasks, order, test.template, now)
			assert.Equal(t, test.expReport, got)
		})
	}
}

func TestGenerateDanglingIDs(t *testing.T) {
	order := model.NewColumnOrder()
	order.Backlog = []string{"ghost"}

	got := report.Generate(map[string]model.Task{}, order, "{{#backlog}}{{title}}{{/backlog}}{{^backlog}}empty{{/backlog}}", now)
	assert.Equal(t, "empty", got)
}

func TestGenerateTemplateWithNUL(t *testing.T) {
	tasks, order := board(map[model.TaskStatus][]model.Task{
		model.TaskStatusDone: {{ID: "a", Title: "Ship"}},
	})

	tests := map[string]struct {
		template  string
		expReport string
	}{
		"NUL delimited numbers should be kept as text.": {
			template:  "x\x000\x00y",
			expReport: "x0y",
		},
		"NUL around sections should not break the rendering.": {
			template:  "\x001\x00{{#done}}{{title}}{{/done}}",
			expReport: "1Ship",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expReport, report.Generate(tasks, order, test.template, now))
		})
	}
}

func TestGenerateDefaultTemplate(t *testing.T) {
	tasks, order := board(map[model.TaskStatus][]model.Task{
		model.TaskStatusBacklog: {{ID: "a", Title: "Plan", Description: "next sprint"}, {ID: "b", Title: "Review"}},
		model.TaskStatusDone:    {{ID: "c", Title: "Ship"}},
	})

	exp := `# Daily report 2025-06-02

## 🗺 Quests (backlog)
- Plan - next sprint
- Review

## ⚔ Adventuring (doing)
- None

## 👑 Cleared (done)
- Ship

### Plans for tomorrow
- 
`
	assert.Equal(t, exp, report.Generate(tasks, order, report.DefaultTemplate, now))
}
