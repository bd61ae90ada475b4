package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/sanitize"
)

type ReportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	html bool
}

// NewReportCommand returns the report command.
func NewReportCommand(rootCmd *RootCommand, app *kingpin.Application) *ReportCommand {
	c := &ReportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("report", "Render the daily report with the current template.")
	c.Cmd.Flag("html", "Escape the report and wrap it in a <pre> block, ready to paste in HTML.").BoolVar(&c.html)

	return c
}

func (c ReportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReportCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		report := a.Report()
		if c.html {
			report = "<pre>" + sanitize.EscapeHTML(report) + "</pre>"
		}
		_, err := fmt.Fprintln(c.rootCmd.Stdout, report)
		return err
	})
}
