package report

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/slok/slimeboard/internal/log"
	"github.com/slok/slimeboard/internal/model"
	"github.com/slok/slimeboard/internal/sanitize"
	"github.com/slok/slimeboard/internal/storage"
)

// StorageKey is the key the user template is persisted under.
const StorageKey = "kanban-report-template"

// DefaultTemplate is the built-in report template.
const DefaultTemplate = `# Daily report {{date}}

## 🗺 Quests (backlog)
{{#backlog}}- {{title}}{{#description}} - {{description}}{{/description}}{{/backlog}}{{^backlog}}- None{{/backlog}}

## ⚔ Adventuring (doing)
{{#doing}}- {{title}}{{#description}} - {{description}}{{/description}}{{/doing}}{{^doing}}- None{{/doing}}

## 👑 Cleared (done)
{{#done}}- {{title}}{{#description}} - {{description}}{{/description}}{{/done}}{{^done}}- None{{/done}}

### Plans for tomorrow
- 
`

// TemplateStoreConfig is the configuration for the template store.
type TemplateStoreConfig struct {
	KV     storage.KV
	Logger log.Logger
}

func (c *TemplateStoreConfig) defaults() error {
	if c.KV == nil {
		return fmt.Errorf("storage is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "report.TemplateStore"})
	return nil
}

// TemplateStore owns the report template.
type TemplateStore struct {
	mu       sync.RWMutex
	template string
	kv       storage.KV
	logger   log.Logger
}

// NewTemplateStore returns a template store using the default template.
func NewTemplateStore(cfg TemplateStoreConfig) (*TemplateStore, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &TemplateStore{
		template: DefaultTemplate,
		kv:       cfg.KV,
		logger:   cfg.Logger,
	}, nil
}

// Template returns the current template.
func (t *TemplateStore) Template() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.template
}

// IsDefault reports whether the current template is the built-in one.
func (t *TemplateStore) IsDefault() bool {
	return t.Template() == DefaultTemplate
}

// Set sanitizes and sets the template, it's not persisted until Save.
func (t *TemplateStore) Set(tmpl string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.template = sanitize.Template(tmpl)
}

// Reset restores the default template, it's not persisted until Save.
func (t *TemplateStore) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.template = DefaultTemplate
}

// Save persists the current template. Failures are logged.
func (t *TemplateStore) Save(ctx context.Context) {
	tmpl := t.Template()
	if err := t.kv.Set(ctx, StorageKey, tmpl); err != nil {
		t.logger.Errorf("Could not save report template: %s", err)
	}
}

// Load reads the persisted template, missing or empty data uses the default one.
func (t *TemplateStore) Load(ctx context.Context) {
	tmpl, err := t.kv.Get(ctx, StorageKey)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		t.logger.Errorf("Could not read report template: %s", err)
	}
	tmpl = sanitize.Template(tmpl)

	t.mu.Lock()
	defer t.mu.Unlock()

	if tmpl == "" {
		t.template = DefaultTemplate
		return
	}
	t.template = tmpl
}
