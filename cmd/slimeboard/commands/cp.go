package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
)

type CopyCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
}

// NewCopyCommand returns the copy command.
func NewCopyCommand(rootCmd *RootCommand, app *kingpin.Application) *CopyCommand {
	c := &CopyCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("cp", "Duplicate a task in the same column.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c CopyCommand) Name() string { return c.Cmd.FullCommand() }

func (c CopyCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		task, ok := a.Board.CopyTask(c.id)
		if !ok {
			return taskNotFound(c.id)
		}
		return c.rootCmd.newPrinter(c.format).PrintTask(task)
	})
}
