package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/slimeboard/internal/app"
	"github.com/slok/slimeboard/internal/conventions"
	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/printer"
	storageio "github.com/slok/slimeboard/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug        bool
	NoLog        bool
	NoColor      bool
	LoggerType   string
	ConfigPath   string
	DataDir      string
	Backend      string
	RedisAddr    string
	SaveDebounce time.Duration

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger and output color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	app.Flag("config", "Path to the YAML configuration file (defaults to config.yaml inside the data dir).").StringVar(&c.ConfigPath)
	app.Flag("data-dir", "Directory for the board data (defaults to ~/"+conventions.DefaultDataDir+").").StringVar(&c.DataDir)
	app.Flag("backend", "Storage backend (memory, diskv, sqlite, redis).").EnumVar(&c.Backend,
		string(model.StorageBackendMemory), string(model.StorageBackendDiskv), string(model.StorageBackendSQLite), string(model.StorageBackendRedis))
	app.Flag("redis-addr", "Redis server address for the redis backend.").StringVar(&c.RedisAddr)
	app.Flag("save-debounce", "Idle time after the last change before saving the board.").DurationVar(&c.SaveDebounce)

	return c
}

func defaultDataDir() string {
	return filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
}

// AppConfig returns the application configuration. Flags override the config
// file and missing values use the defaults.
func (r *RootCommand) AppConfig(ctx context.Context) (model.AppConfig, error) {
	dataDir := r.DataDir
	if dataDir == "" {
		dataDir = defaultDataDir()
	}

	path, explicit := r.ConfigPath, true
	if path == "" {
		path, explicit = conventions.ConfigPath(dataDir), false
	}

	fileCfg, err := loadConfigFile(ctx, path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return model.AppConfig{}, fmt.Errorf("could not load config: %w", err)
		}
		r.Logger.Debugf("No config file at %s, using defaults", path)
	}

	flagsCfg := model.AppConfig{
		Storage: model.StorageConfig{
			Backend: model.StorageBackend(r.Backend),
			DataDir: r.DataDir,
			Redis:   model.RedisConfig{Addr: r.RedisAddr},
		},
		SaveDebounce: r.SaveDebounce,
	}

	return mergeAppConfig(fileCfg, flagsCfg, defaultDataDir()), nil
}

func loadConfigFile(ctx context.Context, path string) (model.AppConfig, error) {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return model.AppConfig{}, fmt.Errorf("could not resolve config path: %w", err)
		}
		path = absPath
	}

	configRepo := storageio.NewConfigYAMLRepository(os.DirFS("/"))
	return configRepo.GetConfig(ctx, path[1:])
}

// mergeAppConfig overrides the file configuration with the flags that are set.
func mergeAppConfig(file, flags model.AppConfig, dataDir string) model.AppConfig {
	cfg := file
	if flags.Storage.Backend != "" {
		cfg.Storage.Backend = flags.Storage.Backend
	}
	if flags.Storage.DataDir != "" {
		cfg.Storage.DataDir = flags.Storage.DataDir
	}
	if flags.Storage.Redis.Addr != "" {
		cfg.Storage.Redis.Addr = flags.Storage.Redis.Addr
	}
	if flags.SaveDebounce != 0 {
		cfg.SaveDebounce = flags.SaveDebounce
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = dataDir
	}

	return cfg
}

// newApp loads the board application, the caller must close it.
func (r *RootCommand) newApp(ctx context.Context) (*app.App, error) {
	cfg, err := r.AppConfig(ctx)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, app.Config{
		App:    cfg,
		Bell:   r.Stderr,
		Logger: r.Logger.WithCtxValues(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("could not load board: %w", err)
	}

	return a, nil
}

// withApp runs fn with a loaded application and closes it afterwards so pending
// changes are saved.
func (r *RootCommand) withApp(ctx context.Context, fn func(a *app.App) error) (err error) {
	a, err := r.newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(a)
}

func (r *RootCommand) newPrinter(format string) printer.Printer {
	switch format {
	case formatJSON:
		return printer.NewJSONPrinter(r.Stdout)
	default:
		return printer.NewTablePrinter(r.Stdout, r.NoColor)
	}
}

func formatFlag(cmd *kingpin.CmdClause, format *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(format, formatTable, formatJSON)
}

func parseStatus(s string) (model.TaskStatus, error) {
	status, err := model.ParseTaskStatus(s)
	if err != nil {
		return "", fmt.Errorf("invalid status: %w", err)
	}
	return status, nil
}

func taskNotFound(id string) error {
	return fmt.Errorf("task %s: %w", id, model.ErrNotFound)
}
