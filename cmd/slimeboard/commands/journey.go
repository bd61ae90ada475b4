package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/printer"
)

// JourneyCommand is the parent command for the slime progress subcommands.
type JourneyCommand struct {
	Cmd *kingpin.CmdClause
}

// NewJourneyCommand returns the journey parent command.
func NewJourneyCommand(app *kingpin.Application) *JourneyCommand {
	return &JourneyCommand{Cmd: app.Command("journey", "Manage the slime progress.")}
}

type JourneyShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	days    int
	claimed bool
	format  string
}

// NewJourneyShowCommand returns the journey show command.
func NewJourneyShowCommand(rootCmd *RootCommand, jCmd *JourneyCommand) *JourneyShowCommand {
	c := &JourneyShowCommand{rootCmd: rootCmd}

	c.Cmd = jCmd.Cmd.Command("show", "Show the slime level and the claimed tasks.").Default()
	c.Cmd.Flag("days", "Number of days of activity to show.").Default("7").IntVar(&c.days)
	c.Cmd.Flag("claimed", "List every claimed task.").BoolVar(&c.claimed)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c JourneyShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c JourneyShowCommand) Run(ctx context.Context) error {
	if c.days < 0 {
		return fmt.Errorf("days can't be negative: %w", model.ErrNotValid)
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		total := a.Journey.Total()
		next, hasNext := journey.NextGoal(total)

		j := printer.Journey{
			Total:       total,
			Level:       journey.Level(total),
			NextGoal:    next,
			HasNextGoal: hasNext,
			LastDays:    a.Journey.LastDays(c.days),
		}
		if c.claimed {
			j.Claimed = a.Journey.ClaimedTasks()
		}

		return c.rootCmd.newPrinter(c.format).PrintJourney(j)
	})
}

type JourneyResetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewJourneyResetCommand returns the journey reset command.
func NewJourneyResetCommand(rootCmd *RootCommand, jCmd *JourneyCommand) *JourneyResetCommand {
	c := &JourneyResetCommand{rootCmd: rootCmd}
	c.Cmd = jCmd.Cmd.Command("reset", "Remove all the progress.")
	return c
}

func (c JourneyResetCommand) Name() string { return c.Cmd.FullCommand() }

func (c JourneyResetCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		a.Journey.Reset(ctx)
		return c.rootCmd.newPrinter(formatTable).PrintMessage("Journey reset")
	})
}

type JourneyRemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	date string
}

// NewJourneyRemoveCommand returns the journey remove command.
func NewJourneyRemoveCommand(rootCmd *RootCommand, jCmd *JourneyCommand) *JourneyRemoveCommand {
	c := &JourneyRemoveCommand{rootCmd: rootCmd}
	c.Cmd = jCmd.Cmd.Command("remove", "Remove the progress of a day.")
	c.Cmd.Arg("date", "Day to remove (YYYY-MM-DD).").Required().StringVar(&c.date)
	return c
}

func (c JourneyRemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c JourneyRemoveCommand) Run(ctx context.Context) error {
	if _, err := time.Parse(model.DateLayout, c.date); err != nil {
		return fmt.Errorf("invalid date %q: %w", c.date, model.ErrNotValid)
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		if !a.Journey.Remove(ctx, c.date) {
			return fmt.Errorf("no progress on %s: %w", c.date, model.ErrNotFound)
		}
		return c.rootCmd.newPrinter(formatTable).PrintMessage(fmt.Sprintf("Removed progress of %s", c.date))
	})
}
