package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/model"
)

type AddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	title       string
	description string
	status      string
	format      string
}

// NewAddCommand returns the add command.
func NewAddCommand(rootCmd *RootCommand, app *kingpin.Application) *AddCommand {
	c := &AddCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("add", "Add a task to the board.")
	c.Cmd.Arg("title", "Task title.").Required().StringVar(&c.title)
	c.Cmd.Flag("description", "Task description.").Short('d').StringVar(&c.description)
	c.Cmd.Flag("status", "Column of the task (backlog, doing, done).").Default(string(model.TaskStatusBacklog)).StringVar(&c.status)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c AddCommand) Name() string { return c.Cmd.FullCommand() }

func (c AddCommand) Run(ctx context.Context) error {
	status, err := parseStatus(c.status)
	if err != nil {
		return err
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		task, ok := a.Board.AddTask(c.title, c.description, status)
		if !ok {
			return fmt.Errorf("task title can't be empty: %w", model.ErrNotValid)
		}

		return c.rootCmd.newPrinter(c.format).PrintTask(task)
	})
}
