package commands

import (
	"context"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
)

type HistoryCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewHistoryCommand returns the history command.
func NewHistoryCommand(rootCmd *RootCommand, app *kingpin.Application) *HistoryCommand {
	c := &HistoryCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("history", "List every task on the board, newest first.")
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c HistoryCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		return c.rootCmd.newPrinter(c.format).PrintTasks(a.Board.History())
	})
}
