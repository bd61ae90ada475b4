package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/slimeboard/internal/model"
)

// JSONPrinter prints board information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type taskOutput struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ExpClaimed  bool      `json:"exp_claimed"`
	CreatedAt   time.Time `json:"created_at"`
}

type boardOutput struct {
	Backlog []taskOutput `json:"backlog"`
	Doing   []taskOutput `json:"doing"`
	Done    []taskOutput `json:"done"`
}

type dayOutput struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type claimedOutput struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type journeyOutput struct {
	Total    int             `json:"total"`
	Level    int             `json:"level"`
	NextGoal *int            `json:"next_goal"`
	LastDays []dayOutput     `json:"last_days"`
	Claimed  []claimedOutput `json:"claimed"`
}

type messageOutput struct {
	Message string `json:"message"`
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toTaskOutput(t model.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		ExpClaimed:  t.ExpClaimed,
		CreatedAt:   t.Created().UTC(),
	}
}

func toTaskOutputs(tasks []model.Task) []taskOutput {
	out := make([]taskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskOutput(t))
	}
	return out
}

// PrintBoard prints the columns with their tasks in display order.
func (j *JSONPrinter) PrintBoard(b model.Board) error {
	return j.encode(boardOutput{
		Backlog: toTaskOutputs(b.ColumnTasks(model.TaskStatusBacklog)),
		Doing:   toTaskOutputs(b.ColumnTasks(model.TaskStatusDoing)),
		Done:    toTaskOutputs(b.ColumnTasks(model.TaskStatusDone)),
	})
}

// PrintTask prints a task.
func (j *JSONPrinter) PrintTask(t model.Task) error {
	return j.encode(toTaskOutput(t))
}

// PrintTasks prints a task list.
func (j *JSONPrinter) PrintTasks(tasks []model.Task) error {
	return j.encode(toTaskOutputs(tasks))
}

// PrintJourney prints the slime progress and the claimed tasks.
func (j *JSONPrinter) PrintJourney(jr Journey) error {
	out := journeyOutput{
		Total:    jr.Total,
		Level:    jr.Level,
		LastDays: []dayOutput{},
		Claimed:  []claimedOutput{},
	}
	if jr.HasNextGoal {
		goal := jr.NextGoal
		out.NextGoal = &goal
	}
	for _, d := range jr.LastDays {
		out.LastDays = append(out.LastDays, dayOutput{Date: d.Date, Count: d.Count})
	}
	for _, c := range jr.Claimed {
		out.Claimed = append(out.Claimed, claimedOutput{Date: c.Date, Title: c.Title, Description: c.Description})
	}

	return j.encode(out)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}
