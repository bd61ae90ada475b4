package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
)

type MoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id       string
	status   string
	index    int
	indexSet bool
	format   string
}

// NewMoveCommand returns the move command.
func NewMoveCommand(rootCmd *RootCommand, app *kingpin.Application) *MoveCommand {
	c := &MoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("mv", "Move a task to a column position.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Arg("status", "Target column (backlog, doing, done).").Required().StringVar(&c.status)
	c.Cmd.Flag("index", "Position in the target column (defaults to the end).").Short('i').IsSetByUser(&c.indexSet).IntVar(&c.index)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c MoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c MoveCommand) Run(ctx context.Context) error {
	status, err := parseStatus(c.status)
	if err != nil {
		return err
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		index := c.index
		if !c.indexSet {
			index = len(a.Board.Column(status))
		}

		if !a.Board.MoveTask(c.id, status, index) {
			return taskNotFound(c.id)
		}

		task, _ := a.Board.Task(c.id)
		return c.rootCmd.newPrinter(c.format).PrintTask(task)
	})
}
