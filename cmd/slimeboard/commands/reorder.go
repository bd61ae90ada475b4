package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/model"
)

type ReorderCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	status string
	ids    []string
	format string
}

// NewReorderCommand returns the reorder command.
func NewReorderCommand(rootCmd *RootCommand, app *kingpin.Application) *ReorderCommand {
	c := &ReorderCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("reorder", "Set the order of all the tasks of a column.")
	c.Cmd.Arg("status", "Column (backlog, doing, done).").Required().StringVar(&c.status)
	c.Cmd.Arg("ids", "Every task ID of the column in the new order.").Required().StringsVar(&c.ids)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c ReorderCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReorderCommand) Run(ctx context.Context) error {
	status, err := parseStatus(c.status)
	if err != nil {
		return err
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		if !a.Board.ReorderColumn(status, c.ids) {
			return fmt.Errorf("ids must be exactly the tasks of the %s column: %w", status, model.ErrNotValid)
		}
		return c.rootCmd.newPrinter(c.format).PrintTasks(a.Board.Column(status))
	})
}
