package audio

import (
	"fmt"
	"io"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/notify"
)

// Cue sounds by event.
var cueSounds = map[notify.EventType]string{
	notify.EventAdd:       "add-task",
	notify.EventDelete:    "delete",
	notify.EventMove:      "move",
	notify.EventCelebrate: "fanfare",
}

const bell = "\a"

// VolumeGetter returns the current volume level.
type VolumeGetter interface {
	Level() VolumeLevel
}

// CueSinkConfig is the configuration for the cue sink.
type CueSinkConfig struct {
	Volume VolumeGetter
	// Out is where the terminal bell is written.
	Out    io.Writer
	Logger log.Logger
}

func (c *CueSinkConfig) defaults() error {
	if c.Volume == nil {
		return fmt.Errorf("volume is required")
	}
	if c.Out == nil {
		c.Out = io.Discard
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "audio.CueSink"})
	return nil
}

// CueSink is a notify.Sink that plays the event cues. A terminal has no
// sound files, the fanfare rings the bell and the rest are only logged.
type CueSink struct {
	volume VolumeGetter
	out    io.Writer
	logger log.Logger
}

// NewCueSink returns a new cue sink.
func NewCueSink(cfg CueSinkConfig) (*CueSink, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &CueSink{
		volume: cfg.Volume,
		out:    cfg.Out,
		logger: cfg.Logger,
	}, nil
}

var _ notify.Sink = &CueSink{}

// Handle satisfies notify.Sink.
func (c *CueSink) Handle(e notify.Event) {
	level := c.volume.Level()
	if level.Value() == 0 {
		return
	}

	sound, ok := cueSounds[e.Type]
	if !ok {
		return
	}

	c.logger.Debugf("Playing %s cue at volume %.1f", sound, level.Value())
	if e.Type != notify.EventCelebrate {
		return
	}

	if _, err := io.WriteString(c.out, bell); err != nil {
		c.logger.Warningf("Could not play %s cue: %s", sound, err)
	}
}
