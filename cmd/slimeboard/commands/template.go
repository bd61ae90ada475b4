package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/model"
)

// TemplateCommand is the parent command for report template subcommands.
type TemplateCommand struct {
	Cmd *kingpin.CmdClause
}

// NewTemplateCommand returns the template parent command.
func NewTemplateCommand(app *kingpin.Application) *TemplateCommand {
	return &TemplateCommand{Cmd: app.Command("template", "Manage the report template.")}
}

type TemplateShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewTemplateShowCommand returns the template show command.
func NewTemplateShowCommand(rootCmd *RootCommand, tmplCmd *TemplateCommand) *TemplateShowCommand {
	c := &TemplateShowCommand{rootCmd: rootCmd}
	c.Cmd = tmplCmd.Cmd.Command("show", "Print the active report template.")
	return c
}

func (c TemplateShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c TemplateShowCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		if a.Template.IsDefault() {
			fmt.Fprintln(c.rootCmd.Stderr, "Using the default template.")
		}
		_, err := fmt.Fprintln(c.rootCmd.Stdout, a.Template.Template())
		return err
	})
}

type TemplateSetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	template string
}

// NewTemplateSetCommand returns the template set command.
func NewTemplateSetCommand(rootCmd *RootCommand, tmplCmd *TemplateCommand) *TemplateSetCommand {
	c := &TemplateSetCommand{rootCmd: rootCmd}
	c.Cmd = tmplCmd.Cmd.Command("set", "Replace the report template.")
	c.Cmd.Arg("template", "Template text, read from stdin when missing.").StringVar(&c.template)
	return c
}

func (c TemplateSetCommand) Name() string { return c.Cmd.FullCommand() }

func (c TemplateSetCommand) Run(ctx context.Context) error {
	tmpl := c.template
	if tmpl == "" {
		data, err := io.ReadAll(c.rootCmd.Stdin)
		if err != nil {
			return fmt.Errorf("could not read template from stdin: %w", err)
		}
		tmpl = string(data)
	}
	if strings.TrimSpace(tmpl) == "" {
		return fmt.Errorf("template can't be empty: %w", model.ErrNotValid)
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		a.Template.Set(tmpl)
		a.Template.Save(ctx)
		return c.rootCmd.newPrinter(formatTable).PrintMessage("Report template updated")
	})
}

type TemplateResetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewTemplateResetCommand returns the template reset command.
func NewTemplateResetCommand(rootCmd *RootCommand, tmplCmd *TemplateCommand) *TemplateResetCommand {
	c := &TemplateResetCommand{rootCmd: rootCmd}
	c.Cmd = tmplCmd.Cmd.Command("reset", "Restore the default report template.")
	return c
}

func (c TemplateResetCommand) Name() string { return c.Cmd.FullCommand() }

func (c TemplateResetCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		a.Template.Reset()
		a.Template.Save(ctx)
		return c.rootCmd.newPrinter(formatTable).PrintMessage("Report template restored to the default")
	})
}
