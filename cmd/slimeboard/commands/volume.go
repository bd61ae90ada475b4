package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/audio"
)

// VolumeCommand is the parent command for the cue volume subcommands.
type VolumeCommand struct {
	Cmd *kingpin.CmdClause
}

// NewVolumeCommand returns the volume parent command.
func NewVolumeCommand(app *kingpin.Application) *VolumeCommand {
	return &VolumeCommand{Cmd: app.Command("volume", "Manage the cue volume.")}
}

type VolumeShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewVolumeShowCommand returns the volume show command.
func NewVolumeShowCommand(rootCmd *RootCommand, vCmd *VolumeCommand) *VolumeShowCommand {
	c := &VolumeShowCommand{rootCmd: rootCmd}
	c.Cmd = vCmd.Cmd.Command("show", "Print the cue volume.").Default()
	return c
}

func (c VolumeShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c VolumeShowCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		return c.rootCmd.newPrinter(formatTable).PrintMessage(volumeMessage(a.Audio.Level()))
	})
}

type VolumeSetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	level string
}

// NewVolumeSetCommand returns the volume set command.
func NewVolumeSetCommand(rootCmd *RootCommand, vCmd *VolumeCommand) *VolumeSetCommand {
	c := &VolumeSetCommand{rootCmd: rootCmd}
	c.Cmd = vCmd.Cmd.Command("set", "Set the cue volume.")
	c.Cmd.Arg("level", "Volume level (off, low, medium, high).").Required().StringVar(&c.level)
	return c
}

func (c VolumeSetCommand) Name() string { return c.Cmd.FullCommand() }

func (c VolumeSetCommand) Run(ctx context.Context) error {
	level, err := audio.ParseVolumeLevel(c.level)
	if err != nil {
		return err
	}

	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		if err := a.Audio.Set(ctx, level); err != nil {
			return fmt.Errorf("could not set volume: %w", err)
		}
		return c.rootCmd.newPrinter(formatTable).PrintMessage(volumeMessage(a.Audio.Level()))
	})
}

type VolumeCycleCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewVolumeCycleCommand returns the volume cycle command.
func NewVolumeCycleCommand(rootCmd *RootCommand, vCmd *VolumeCommand) *VolumeCycleCommand {
	c := &VolumeCycleCommand{rootCmd: rootCmd}
	c.Cmd = vCmd.Cmd.Command("cycle", "Switch to the next volume level.")
	return c
}

func (c VolumeCycleCommand) Name() string { return c.Cmd.FullCommand() }

func (c VolumeCycleCommand) Run(ctx context.Context) error {
	return c.rootCmd.withApp(ctx, func(a *app.App) error {
		return c.rootCmd.newPrinter(formatTable).PrintMessage(volumeMessage(a.Audio.Cycle(ctx)))
	})
}

func volumeMessage(level audio.VolumeLevel) string {
	return fmt.Sprintf("Volume: %s (%.0f%%)", level, level.Value()*100)
}
