// Package audio holds the sound settings and the sink that plays board event cues.
package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/storage"
)

// StorageKey is the key the settings are persisted under.
const StorageKey = "kanban-audio-settings"

// VolumeLevel is the cue volume.
type VolumeLevel string

const (
	VolumeOff    VolumeLevel = "off"
	VolumeLow    VolumeLevel = "low"
	VolumeMedium VolumeLevel = "medium"
	VolumeHigh   VolumeLevel = "high"
)

// VolumeLevels are the volume levels in cycle order.
var VolumeLevels = []VolumeLevel{VolumeOff, VolumeLow, VolumeMedium, VolumeHigh}

// Valid reports whether the level is known.
func (v VolumeLevel) Valid() bool { return slices.Contains(VolumeLevels, v) }

// Value returns the playback volume between 0 and 1.
func (v VolumeLevel) Value() float64 {
	switch v {
	case VolumeOff:
		return 0
	case VolumeLow:
		return 0.2
	case VolumeHigh:
		return 0.6
	}
	return 0.4
}

// Next returns the following level in cycle order.
func (v VolumeLevel) Next() VolumeLevel {
	i := slices.Index(VolumeLevels, v)
	return VolumeLevels[(i+1)%len(VolumeLevels)]
}

// ParseVolumeLevel parses a volume level.
func ParseVolumeLevel(s string) (VolumeLevel, error) {
	v := VolumeLevel(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown volume %q (must be: off, low, medium, high): %w", s, model.ErrNotValid)
	}
	return v, nil
}

// SettingsConfig is the configuration for the audio settings.
type SettingsConfig struct {
	KV     storage.KV
	Logger log.Logger
}

func (c *SettingsConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "audio.Settings"})
	return nil
}

// Settings owns the volume level, every change is persisted right away.
type Settings struct {
	mu     sync.RWMutex
	level  VolumeLevel
	kv     storage.KV
	logger log.Logger
}

// NewSettings returns settings with the medium volume.
func NewSettings(cfg SettingsConfig) (*Settings, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Settings{
		level:  VolumeMedium,
		kv:     cfg.KV,
		logger: cfg.Logger,
	}, nil
}

type settingsJSON struct {
	VolumeLevel VolumeLevel `json:"volumeLevel"`
}

// Level returns the current volume level.
func (s *Settings) Level() VolumeLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.level
}

// Set changes the volume level.
func (s *Settings) Set(ctx context.Context, level VolumeLevel) error {
	if !level.Valid() {
		return fmt.Errorf("unknown volume %q: %w", level, model.ErrNotValid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = level
	s.save(ctx)

	return nil
}

// Cycle moves to the next volume level and returns it.
func (s *Settings) Cycle(ctx context.Context) VolumeLevel {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = s.level.Next()
	s.save(ctx)

	return s.level
}

func (s *Settings) save(ctx context.Context) {
	data, err := json.Marshal(settingsJSON{VolumeLevel: s.level})
	if err != nil {
		s.logger.Errorf("Could not encode audio settings: %s", err)
		return
	}

	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Errorf("Could not save audio settings: %s", err)
	}
}

// Load reads the persisted settings, invalid data is ignored.
func (s *Settings) Load(ctx context.Context) {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			s.logger.Errorf("Could not read audio settings: %s", err)
		}
		return
	}

	var doc settingsJSON
	if err := json.Unmarshal([]byte(data), &doc); err != nil || !doc.VolumeLevel.Valid() {
		s.logger.Warningf("Ignoring invalid audio settings")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = doc.VolumeLevel
}
