// Package app wires the board stores together and owns their lifetime.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/slok/slimeboard/internal/audio"
	"github.com/slok/slimeboard/internal/board"
	"github.com/slok/slimeboard/internal/conventions"
	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/migration"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/notify"
	"github.com/slok/slimeboard/internal/report"
	"github.com/slok/slimeboard/internal/storage"
)

// Config is the configuration of the application.
type Config struct {
	App model.AppConfig
	// KV overrides the storage backend selected by App.Storage, the caller owns it.
	KV storage.KV
	// Bell is where the celebration cue is written, nil disables the cues.
	Bell   io.Writer
	Now    func() time.Time
	Logger log.Logger
}

func (c *Config) defaults() error {
	st := &c.App.Storage
	if st.Backend == "" {
		st.Backend = model.StorageBackendSQLite
	}
	if st.DataDir != "" {
		if st.SQLitePath == "" {
			st.SQLitePath = conventions.SQLitePath(st.DataDir)
		}
		if st.DiskvPath == "" {
			st.DiskvPath = conventions.DiskvPath(st.DataDir)
		}
	}
	if st.Redis.Prefix == "" {
		st.Redis.Prefix = conventions.RedisPrefix
	}

	if c.KV == nil {
		if err := c.App.Validate(); err != nil {
			return err
		}
	}

	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// StorageConfig returns the validated storage configuration with the defaults applied.
func StorageConfig(cfg model.AppConfig) (model.StorageConfig, error) {
	c := Config{App: cfg}
	if err := c.defaults(); err != nil {
		return model.StorageConfig{}, err
	}
	return c.App.Storage, nil
}

// App is a loaded board with all its satellite stores.
type App struct {
	Board    *board.Store
	Journey  *journey.Store
	Template *report.TemplateStore
	Audio    *audio.Settings
	KV       storage.KV

	hub     *notify.Hub
	closeKV func() error
	now     func() time.Time
	logger  log.Logger
}

// New creates the stores on the configured storage and loads their data, running
// the legacy migration first.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.Logger

	kv, closeKV := cfg.KV, func() error { return nil }
	if kv == nil {
		var err error
		kv, closeKV, err = NewKV(ctx, cfg.App.Storage, logger)
		if err != nil {
			return nil, err
		}
		logger.Debugf("Using %s storage", cfg.App.Storage.Backend)
	}

	a, err := newApp(cfg, kv)
	if err != nil {
		_ = closeKV()
		return nil, err
	}
	a.closeKV = closeKV

	a.Audio.Load(ctx)
	a.Template.Load(ctx)
	a.Journey.Load(ctx)
	a.Board.Load(ctx)

	return a, nil
}

func newApp(cfg Config, kv storage.KV) (_ *App, err error) {
	logger := cfg.Logger

	hub, err := notify.NewHub(notify.HubConfig{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create notification hub: %w", err)
	}
	// Stop the sink workers if the app can't be built.
	defer func() {
		if err != nil {
			hub.Close()
		}
	}()

	settings, err := audio.NewSettings(audio.SettingsConfig{KV: kv, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create audio settings: %w", err)
	}

	hub.Subscribe(notify.NewLogSink(logger))
	if cfg.Bell != nil {
		cues, err := audio.NewCueSink(audio.CueSinkConfig{Volume: settings, Out: cfg.Bell, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("could not create cue sink: %w", err)
		}
		hub.Subscribe(cues)
	}

	tmpl, err := report.NewTemplateStore(report.TemplateStoreConfig{KV: kv, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create template store: %w", err)
	}

	jr, err := journey.NewStore(journey.StoreConfig{KV: kv, Now: cfg.Now, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("could not create journey store: %w", err)
	}

	migrator, err := migration.NewMigrator(migration.MigratorConfig{
		KV:         kv,
		Strategies: migration.DefaultStrategies,
		Now:        cfg.Now,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}

	b, err := board.NewStore(board.StoreConfig{
		KV:       kv,
		Journal:  jr,
		Notifier: hub,
		Migrator: migrator,
		SaveWait: cfg.App.SaveDebounce,
		Now:      cfg.Now,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create board store: %w", err)
	}

	return &App{
		Board:    b,
		Journey:  jr,
		Template: tmpl,
		Audio:    settings,
		KV:       kv,
		hub:      hub,
		now:      cfg.Now,
		logger:   logger,
	}, nil
}

// Report renders the current board with the active template.
func (a *App) Report() string {
	b := a.Board.Snapshot()
	return report.Generate(b.Tasks, b.ColumnOrder, a.Template.Template(), a.now())
}

// Close saves the pending changes, waits for the queued notifications and
// releases the storage.
func (a *App) Close() error {
	a.Board.Close()
	a.hub.Close()

	if err := a.closeKV(); err != nil {
		return fmt.Errorf("could not close storage: %w", err)
	}

	return nil
}
