package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/slok/slimeboard/internal/model"
)

const maxColWidth = 60

// TablePrinter prints board information for humans.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time

	title *color.Color
	faint *color.Color
	done  *color.Color
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer, noColor bool) *TablePrinter {
	p := &TablePrinter{
		writer: w,
		now:    time.Now,
		title:  color.New(color.Bold, color.Underline),
		faint:  color.New(color.Faint),
		done:   color.New(color.FgGreen),
	}

	if noColor {
		p.title.DisableColor()
		p.faint.DisableColor()
		p.done.DisableColor()
	}

	return p
}

func (t *TablePrinter) newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = maxColWidth
	tbl.Wrap = true
	return tbl
}

// PrintBoard prints every column with its tasks in display order.
func (t *TablePrinter) PrintBoard(b model.Board) error {
	for i, s := range model.TaskStatuses {
		if i > 0 {
			fmt.Fprintln(t.writer)
		}

		tasks := b.ColumnTasks(s)
		_, _ = t.title.Fprint(t.writer, strings.ToUpper(string(s)))
		_, _ = t.faint.Fprintf(t.writer, " (%d)\n", len(tasks))

		if len(tasks) == 0 {
			_, _ = t.faint.Fprintln(t.writer, "  none")
			continue
		}

		tbl := t.newTable()
		for pos, task := range tasks {
			tbl.AddRow(fmt.Sprintf("  %d", pos), task.ID, t.taskTitle(task), t.faint.Sprint(TimeAgo(task.Created(), t.now())))
		}
		fmt.Fprintln(t.writer, tbl)
	}

	return nil
}

func (t *TablePrinter) taskTitle(task model.Task) string {
	title := task.Title
	if task.ExpClaimed {
		title = t.done.Sprint("★ ") + title
	}
	return title
}

// PrintTask prints the details of a task.
func (t *TablePrinter) PrintTask(task model.Task) error {
	tbl := t.newTable()
	tbl.AddRow("ID:", task.ID)
	tbl.AddRow("Title:", task.Title)
	tbl.AddRow("Description:", task.Description)
	tbl.AddRow("Status:", string(task.Status))
	tbl.AddRow("Claimed:", fmt.Sprintf("%t", task.ExpClaimed))
	tbl.AddRow("Created:", FormatTimestamp(task.Created()))

	fmt.Fprintln(t.writer, tbl)
	return nil
}

// PrintTasks prints a task list.
func (t *TablePrinter) PrintTasks(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tbl := t.newTable()
	tbl.AddRow(t.title.Sprint("ID"), t.title.Sprint("STATUS"), t.title.Sprint("TITLE"), t.title.Sprint("CREATED"))
	for _, task := range tasks {
		tbl.AddRow(task.ID, string(task.Status), t.taskTitle(task), FormatTimestamp(task.Created()))
	}

	fmt.Fprintln(t.writer, tbl)
	return nil
}

// PrintJourney prints the slime progress and the claimed tasks.
func (t *TablePrinter) PrintJourney(j Journey) error {
	tbl := t.newTable()
	tbl.AddRow("Slime level:", fmt.Sprintf("%d", j.Level))
	tbl.AddRow("Claimed tasks:", fmt.Sprintf("%d", j.Total))
	if j.HasNextGoal {
		tbl.AddRow("Next evolution:", fmt.Sprintf("%d more tasks (goal %d)", j.NextGoal-j.Total, j.NextGoal))
	} else {
		tbl.AddRow("Next evolution:", "max level reached")
	}
	fmt.Fprintln(t.writer, tbl)

	if len(j.LastDays) > 0 {
		fmt.Fprintln(t.writer)
		_, _ = t.title.Fprintln(t.writer, "LAST DAYS")
		days := t.newTable()
		for _, d := range j.LastDays {
			days.AddRow("  "+d.Date, strings.Repeat("■", d.Count), fmt.Sprintf("%d", d.Count))
		}
		fmt.Fprintln(t.writer, days)
	}

	if len(j.Claimed) > 0 {
		fmt.Fprintln(t.writer)
		_, _ = t.title.Fprintln(t.writer, "CLAIMED")
		claimed := t.newTable()
		for _, c := range j.Claimed {
			claimed.AddRow("  "+c.Date, c.Title, t.faint.Sprint(c.Description))
		}
		fmt.Fprintln(t.writer, claimed)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
