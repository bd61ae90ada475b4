package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/slimeboard/cmd/slimeboard/commands"
	"github.com/slok/slimeboard/internal/log"
	loglogrus "github.com/slok/slimeboard/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("slimeboard", "Kanban board that feeds a slime.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	addCmd := commands.NewAddCommand(rootCmd, app)
	listCmd := commands.NewListCommand(rootCmd, app)
	showCmd := commands.NewShowCommand(rootCmd, app)
	editCmd := commands.NewEditCommand(rootCmd, app)
	removeCmd := commands.NewRemoveCommand(rootCmd, app)
	moveCmd := commands.NewMoveCommand(rootCmd, app)
	reorderCmd := commands.NewReorderCommand(rootCmd, app)
	copyCmd := commands.NewCopyCommand(rootCmd, app)
	claimCmd := commands.NewClaimCommand(rootCmd, app)
	claimAllCmd := commands.NewClaimAllCommand(rootCmd, app)
	historyCmd := commands.NewHistoryCommand(rootCmd, app)
	reportCmd := commands.NewReportCommand(rootCmd, app)
	doctorCmd := commands.NewDoctorCommand(rootCmd, app)

	// Template subcommands share a parent command.
	tmplCmd := commands.NewTemplateCommand(app)
	tmplShowCmd := commands.NewTemplateShowCommand(rootCmd, tmplCmd)
	tmplSetCmd := commands.NewTemplateSetCommand(rootCmd, tmplCmd)
	tmplResetCmd := commands.NewTemplateResetCommand(rootCmd, tmplCmd)

	// Journey subcommands share a parent command.
	journeyCmd := commands.NewJourneyCommand(app)
	journeyShowCmd := commands.NewJourneyShowCommand(rootCmd, journeyCmd)
	journeyResetCmd := commands.NewJourneyResetCommand(rootCmd, journeyCmd)
	journeyRemoveCmd := commands.NewJourneyRemoveCommand(rootCmd, journeyCmd)

	// Volume subcommands share a parent command.
	volumeCmd := commands.NewVolumeCommand(app)
	volumeShowCmd := commands.NewVolumeShowCommand(rootCmd, volumeCmd)
	volumeSetCmd := commands.NewVolumeSetCommand(rootCmd, volumeCmd)
	volumeCycleCmd := commands.NewVolumeCycleCommand(rootCmd, volumeCmd)

	cmds := map[string]commands.Command{
		addCmd.Name():           addCmd,
		listCmd.Name():          listCmd,
		showCmd.Name():          showCmd,
		editCmd.Name():          editCmd,
		removeCmd.Name():        removeCmd,
		moveCmd.Name():          moveCmd,
		reorderCmd.Name():       reorderCmd,
		copyCmd.Name():          copyCmd,
		claimCmd.Name():         claimCmd,
		claimAllCmd.Name():      claimAllCmd,
		historyCmd.Name():       historyCmd,
		reportCmd.Name():        reportCmd,
		doctorCmd.Name():        doctorCmd,
		tmplShowCmd.Name():      tmplShowCmd,
		tmplSetCmd.Name():       tmplSetCmd,
		tmplResetCmd.Name():     tmplResetCmd,
		journeyShowCmd.Name():   journeyShowCmd,
		journeyResetCmd.Name():  journeyResetCmd,
		journeyRemoveCmd.Name(): journeyRemoveCmd,
		volumeShowCmd.Name():    volumeShowCmd,
		volumeSetCmd.Name():     volumeSetCmd,
		volumeCycleCmd.Name():   volumeCycleCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	if rootCmd.NoColor {
		color.NoColor = true
	}

	// Auto-suppress logging for commands that produce structured output (table/JSON)
	// to prevent log noise from mixing with printer output in the terminal.
	// Users can still enable logging with --debug.
	printerCommands := map[string]bool{
		"list":          true,
		"show":          true,
		"history":       true,
		"report":        true,
		"template show": true,
		"journey show":  true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ctx = rootCmd.Logger.SetValuesOnCtx(ctx, log.Kv{"cmd": cmdName})

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // By default logger goes to stderr (so it can split stdout prints).
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
