package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slok/slimeboard/internal/audio"
	"github.com/slok/slimeboard/internal/board"
	"github.com/slok/slimeboard/internal/codec"
	"github.com/slok/slimeboard/internal/journey"
	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/migration"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/report"
	"github.com/slok/slimeboard/internal/storage"
)

// ServiceConfig is the configuration for the doctor service.
type ServiceConfig struct {
	KV         storage.KV
	Strategies []migration.Strategy
	Now        func() time.Time
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Strategies == nil {
		c.Strategies = migration.DefaultStrategies
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Service inspects the stored data without modifying it.
type Service struct {
	kv         storage.KV
	strategies []migration.Strategy
	now        func() time.Time
	logger     log.Logger
}

// NewService creates a new doctor service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		kv:         cfg.KV,
		strategies: cfg.Strategies,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}, nil
}

// Run checks the storage and every stored document.
func (s *Service) Run(ctx context.Context) []model.CheckResult {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return []model.CheckResult{{
			ID:      "storage",
			Message: fmt.Sprintf("could not list keys: %s", err),
			Status:  model.CheckStatusError,
		}}
	}
	s.logger.Debugf("found %d stored keys", len(keys))

	results := []model.CheckResult{{
		ID:      "storage",
		Message: fmt.Sprintf("%d keys stored", len(keys)),
		Status:  model.CheckStatusOK,
	}}
	results = append(results,
		s.checkBoard(ctx),
		s.checkJourney(ctx),
		s.checkTemplate(ctx),
		s.checkAudio(ctx),
	)
	results = append(results, s.checkLegacy(ctx)...)
	results = append(results, checkProbes(keys))

	return results
}

// Usage returns the number of stored keys and the total size of their values.
func (s *Service) Usage(ctx context.Context) (keys int, bytes int64, err error) {
	all, err := s.kv.Keys(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("could not list keys: %w", err)
	}

	for _, k := range all {
		v, err := s.kv.Get(ctx, k)
		if err != nil {
			return 0, 0, fmt.Errorf("could not read key %s: %w", k, err)
		}
		bytes += int64(len(k) + len(v))
	}

	return len(all), bytes, nil
}

// get returns the value of a key, ok is false when the key is missing.
func (s *Service) get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return data, true, nil
}

func (s *Service) checkBoard(ctx context.Context) model.CheckResult {
	r := model.CheckResult{ID: "board_data"}

	data, ok, err := s.get(ctx, board.StorageKey)
	switch {
	case err != nil:
		r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("could not read: %s", err)
	case !ok:
		r.Status, r.Message = model.CheckStatusOK, "no board saved yet"
	default:
		b, err := codec.DecodeBoard(data, s.now())
		if err != nil {
			r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("unreadable, an empty board will be used: %s", err)
			break
		}
		r.Status, r.Message = model.CheckStatusOK, fmt.Sprintf("%d tasks (%d backlog, %d doing, %d done)",
			len(b.Tasks), len(b.ColumnOrder.Backlog), len(b.ColumnOrder.Doing), len(b.ColumnOrder.Done))
	}

	return r
}

func (s *Service) checkJourney(ctx context.Context) model.CheckResult {
	r := model.CheckResult{ID: "journey_data"}

	data, ok, err := s.get(ctx, journey.StorageKey)
	switch {
	case err != nil:
		r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("could not read: %s", err)
	case !ok:
		r.Status, r.Message = model.CheckStatusOK, "no progress recorded yet"
	default:
		j, err := codec.DecodeJourney(data)
		if err != nil {
			r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("unreadable, progress will start from zero: %s", err)
			break
		}
		r.Status, r.Message = model.CheckStatusOK, fmt.Sprintf("%d claimed tasks over %d days", j.Total(), len(j))
	}

	return r
}

func (s *Service) checkTemplate(ctx context.Context) model.CheckResult {
	r := model.CheckResult{ID: "report_template", Status: model.CheckStatusOK}

	data, ok, err := s.get(ctx, report.StorageKey)
	switch {
	case err != nil:
		r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("could not read: %s", err)
	case !ok || data == "":
		r.Message = "using the default template"
	default:
		r.Message = fmt.Sprintf("custom template (%d characters)", len(data))
	}

	return r
}

func (s *Service) checkAudio(ctx context.Context) model.CheckResult {
	r := model.CheckResult{ID: "audio_settings", Status: model.CheckStatusOK}

	data, ok, err := s.get(ctx, audio.StorageKey)
	switch {
	case err != nil:
		r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("could not read: %s", err)
	case !ok:
		r.Message = "using the default volume"
	default:
		var doc struct {
			VolumeLevel string `json:"volumeLevel"`
		}
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			r.Status, r.Message = model.CheckStatusWarning, "unreadable, the default volume will be used"
			break
		}
		level, err := audio.ParseVolumeLevel(doc.VolumeLevel)
		if err != nil {
			r.Status, r.Message = model.CheckStatusWarning, fmt.Sprintf("invalid volume %q, the default volume will be used", doc.VolumeLevel)
			break
		}
		r.Message = fmt.Sprintf("volume %s", level)
	}

	return r
}

// checkLegacy reports the legacy keys still present, they are migrated on the next load.
func (s *Service) checkLegacy(ctx context.Context) []model.CheckResult {
	var results []model.CheckResult
	for _, st := range s.strategies {
		r := model.CheckResult{ID: "legacy:" + st.Key}

		data, ok, err := s.get(ctx, st.Key)
		if err != nil {
			r.Status, r.Message = model.CheckStatusError, fmt.Sprintf("could not read: %s", err)
			results = append(results, r)
			continue
		}
		if !ok {
			continue
		}

		var doc map[string]any
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			r.Status, r.Message = model.CheckStatusWarning, "unparseable legacy data, it will be ignored"
			results = append(results, r)
			continue
		}

		rawTasks, _, ok := st.Extract(doc)
		if !ok {
			r.Status, r.Message = model.CheckStatusWarning, "legacy data with unknown shape, it will be ignored"
			results = append(results, r)
			continue
		}

		r.Status, r.Message = model.CheckStatusWarning, fmt.Sprintf("%d legacy tasks pending migration", len(rawTasks))
		results = append(results, r)
	}

	return results
}

func checkProbes(keys []string) model.CheckResult {
	var leftovers []string
	for _, k := range keys {
		if strings.HasPrefix(k, codec.QuotaProbePrefix) {
			leftovers = append(leftovers, k)
		}
	}

	if len(leftovers) > 0 {
		return model.CheckResult{
			ID:      "quota_probes",
			Message: fmt.Sprintf("leftover capacity probes: %s", strings.Join(leftovers, ", ")),
			Status:  model.CheckStatusWarning,
		}
	}

	return model.CheckResult{ID: "quota_probes", Message: "no leftover capacity probes", Status: model.CheckStatusOK}
}
