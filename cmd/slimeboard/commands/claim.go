package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/model"
)

type ClaimCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewClaimCommand returns the claim command.
func NewClaimCommand(rootCmd *RootCommand, app *kingpin.Application) *ClaimCommand {
	c := &ClaimCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("claim", "Claim the experience of a done task, the task stays on the board.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)

	return c
}

func (c ClaimCommand) Name() string { return c.Cmd.FullCommand() }

func (c ClaimCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		task, ok := a.Board.Task(c.id)
		if !ok {
			return taskNotFound(c.id)
		}
		if !a.Board.ClaimExp(ctx, c.id) {
			return fmt.Errorf("only unclaimed done tasks can be claimed: %w", model.ErrNotValid)
		}

		return c.rootCmd.newPrinter(formatTable).PrintMessage(fmt.Sprintf("Claimed task: %s", task.Title))
	})
}

type ClaimAllCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewClaimAllCommand returns the claim-all command.
func NewClaimAllCommand(rootCmd *RootCommand, app *kingpin.Application) *ClaimAllCommand {
	c := &ClaimAllCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("claim-all", "Claim every unclaimed done task and remove them from the board.")

	return c
}

func (c ClaimAllCommand) Name() string { return c.Cmd.FullCommand() }

func (c ClaimAllCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		n := a.Board.ClaimAllExp(ctx)
		return c.rootCmd.newPrinter(formatTable).PrintMessage(fmt.Sprintf("Claimed %d tasks", n))
	})
}
