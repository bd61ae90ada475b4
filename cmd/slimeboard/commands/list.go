package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	status string
	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "Show the board.").Alias("ls")
	c.Cmd.Flag("status", "Only show a column (backlog, doing, done).").StringVar(&c.status)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		p := c.rootCmd.newPrinter(c.format)

		if c.status == "" {
			if err := p.PrintBoard(a.Board.Snapshot()); err != nil {
				return fmt.Errorf("could not print board: %w", err)
			}
			if n := len(a.Board.UnclaimedDone()); n > 0 && c.format == formatTable {
				fmt.Fprintf(c.rootCmd.Stdout, "\n%d done tasks with EXP to claim, run \"claim-all\" to feed the slime.\n", n)
			}
			return nil
		}

		status, err := parseStatus(c.status)
		if err != nil {
			return err
		}
		if err := p.PrintTasks(a.Board.Column(status)); err != nil {
			return fmt.Errorf("could not print tasks: %w", err)
		}
		return nil
	})
}
