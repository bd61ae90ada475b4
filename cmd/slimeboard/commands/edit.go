package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/board"
	"github.com/slok/slimeboard/internal/model"
)

type EditCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id             string
	title          string
	titleSet       bool
	description    string
	descriptionSet bool
	format         string
}

// NewEditCommand returns the edit command.
func NewEditCommand(rootCmd *RootCommand, app *kingpin.Application) *EditCommand {
	c := &EditCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("edit", "Edit the title or description of a task.")
	c.Cmd.Arg("id", "Task ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("title", "New task title.").Short('t').IsSetByUser(&c.titleSet).StringVar(&c.title)
	c.Cmd.Flag("description", "New task description.").Short('d').IsSetByUser(&c.descriptionSet).StringVar(&c.description)
	formatFlag(c.Cmd, &c.format)

	return c
}

func (c EditCommand) Name() string { return c.Cmd.FullCommand() }

func (c EditCommand) Run(ctx context.Context) error {
	var patch board.TaskPatch
	if c.titleSet {
		patch.Title = &c.title
	}
	if c.descriptionSet {
		patch.Description = &c.description
	}
	if patch.Title == nil && patch.Description == nil {
		return fmt.Errorf("nothing to edit, use --title or --description: %w", model.ErrNotValid)
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		task, ok := a.Board.UpdateTask(c.id, patch)
		if !ok {
			return taskNotFound(c.id)
		}
		return c.rootCmd.newPrinter(c.format).PrintTask(task)
	})
}
