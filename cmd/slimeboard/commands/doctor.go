package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/app/doctor"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/printer"
)

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Check the configured storage and the stored board data.")

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger.WithCtxValues(ctx)
	out := c.rootCmd.Stdout

	cfg, err := c.rootCmd.AppConfig(ctx)
	if err != nil {
		return err
	}

	// The board is not loaded, loading would migrate the legacy data.
	storageCfg, err := app.StorageConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	kv, closeKV, err := app.NewKV(ctx, storageCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeKV() }()

	svc, err := doctor.NewService(doctor.ServiceConfig{KV: kv, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	results := svc.Run(ctx)

	fmt.Fprintf(out, "\nChecking %s storage...\n", storageCfg.Backend)
	if keys, bytes, err := svc.Usage(ctx); err == nil {
		fmt.Fprintf(out, "  %d keys, %s stored\n", keys, printer.FormatBytes(bytes))
	}
	for _, r := range results {
		fmt.Fprintf(out, "  %s %-24s %s\n", getStatusIcon(r.Status), r.ID, r.Message)
	}

	// Summary
	_, warnings, errors := model.CountByStatus(results)
	fmt.Fprintln(out)
	if errors == 0 && warnings == 0 {
		fmt.Fprintln(out, "All checks passed!")
	} else {
		var summary []string
		if errors > 0 {
			summary = append(summary, fmt.Sprintf("%d error(s)", errors))
		}
		if warnings > 0 {
			summary = append(summary, fmt.Sprintf("%d warning(s)", warnings))
		}
		fmt.Fprintln(out, strings.Join(summary, ", "))
	}

	if errors > 0 {
		return fmt.Errorf("checks failed with %d error(s)", errors)
	}

	return nil
}

func getStatusIcon(status model.CheckStatus) string {
	switch status {
	case model.CheckStatusOK:
		return "OK"
	case model.CheckStatusWarning:
		return "!!"
	case model.CheckStatusError:
		return "XX"
	default:
		return "??"
	}
}
