package audio_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/slimeboard/internal/audio"
	"github.com/slok/slimeboard/internal/notify"
	"github.com/slok/slimeboard/internal/storage/memory"
)

func newSettings(t *testing.T) (*audio.Settings, *memory.Repository) {
	t.Helper()
	kv, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	s, err := audio.NewSettings(audio.SettingsConfig{KV: kv})
	require.NoError(t, err)
	return s, kv
}

func TestVolumeLevel(t *testing.T) {
	tests := map[string]struct {
		level    audio.VolumeLevel
		expValue float64
		expNext  audio.VolumeLevel
	}{
		"Off":    {level: audio.VolumeOff, expValue: 0, expNext: audio.VolumeLow},
		"Low":    {level: audio.VolumeLow, expValue: 0.2, expNext: audio.VolumeMedium},
		"Medium": {level: audio.VolumeMedium, expValue: 0.4, expNext: audio.VolumeHigh},
		"High":   {level: audio.VolumeHigh, expValue: 0.6, expNext: audio.VolumeOff},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(test.expValue, test.level.Value())
			assert.Equal(test.expNext, test.level.Next())

			got, err := audio.ParseVolumeLevel(string(test.level))
			assert.NoError(err)
			assert.Equal(test.level, got)
		})
	}

	_, err := audio.ParseVolumeLevel("loud")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	tests := map[string]struct {
		stored    string
		actions   func(ctx context.Context, s *audio.Settings) error
		expLevel  audio.VolumeLevel
		expStored string
		expErr    bool
	}{
		"Without stored settings should use medium": {
			actions:  func(ctx context.Context, s *audio.Settings) error { return nil },
			expLevel: audio.VolumeMedium,
		},

		"Stored settings should be loaded": {
			stored:    `{"volumeLevel":"high"}`,
			actions:   func(ctx context.Context, s *audio.Settings) error { return nil },
			expLevel:  audio.VolumeHigh,
			expStored: `{"volumeLevel":"high"}`,
		},

		"Invalid stored settings should be ignored": {
			stored:    `{"volumeLevel":"loud"}`,
			actions:   func(ctx context.Context, s *audio.Settings) error { return nil },
			expLevel:  audio.VolumeMedium,
			expStored: `{"volumeLevel":"loud"}`,
		},

		"Malformed stored settings should be ignored": {
			stored:    `{`,
			actions:   func(ctx context.Context, s *audio.Settings) error { return nil },
			expLevel:  audio.VolumeMedium,
			expStored: `{`,
		},

		"Setting a level should persist it": {
			actions: func(ctx context.Context, s *audio.Settings) error {
				return s.Set(ctx, audio.VolumeOff)
			},
			expLevel:  audio.VolumeOff,
			expStored: `{"volumeLevel":"off"}`,
		},

		"Setting an invalid level should fail": {
			actions: func(ctx context.Context, s *audio.Settings) error {
				return s.Set(ctx, "loud")
			},
			expLevel: audio.VolumeMedium,
			expErr:   true,
		},

		"Cycling should wrap around": {
			stored: `{"volumeLevel":"high"}`,
			actions: func(ctx context.Context, s *audio.Settings) error {
				if got := s.Cycle(ctx); got != audio.VolumeOff {
					return assert.AnError
				}
				return nil
			},
			expLevel:  audio.VolumeOff,
			expStored: `{"volumeLevel":"off"}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			s, kv := newSettings(t)
			if test.stored != "" {
				require.NoError(kv.Set(ctx, audio.StorageKey, test.stored))
			}

			s.Load(ctx)
			err := test.actions(ctx, s)

			if test.expErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
			assert.Equal(test.expLevel, s.Level())
			stored, _ := kv.Get(ctx, audio.StorageKey)
			assert.Equal(test.expStored, stored)
		})
	}
}

type fixedVolume audio.VolumeLevel

func (f fixedVolume) Level() audio.VolumeLevel { return audio.VolumeLevel(f) }

func TestCueSink(t *testing.T) {
	tests := map[string]struct {
		volume audio.VolumeLevel
		events []notify.EventType
		expOut string
	}{
		"Celebrations should ring the bell": {
			volume: audio.VolumeLow,
			events: []notify.EventType{notify.EventCelebrate, notify.EventCelebrate},
			expOut: "\a\a",
		},

		"Other events should not ring the bell": {
			volume: audio.VolumeHigh,
			events: []notify.EventType{notify.EventAdd, notify.EventMove, notify.EventDelete},
			expOut: "",
		},

		"Volume off should be silent": {
			volume: audio.VolumeOff,
			events: []notify.EventType{notify.EventCelebrate},
			expOut: "",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			sink, err := audio.NewCueSink(audio.CueSinkConfig{Volume: fixedVolume(test.volume), Out: &out})
			require.NoError(t, err)

			for _, e := range test.events {
				sink.Handle(notify.Event{Type: e})
			}

			assert.Equal(t, test.expOut, out.String())
		})
	}
}
