// Package notify fans out board events to fire-and-forget sinks.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/slok/slimeboard/internal/log"
)

// EventType is the tag of a board event.
type EventType string

const (
	// EventAdd is published when a task is created or copied.
	EventAdd EventType = "add"
	// EventDelete is published when a task is removed.
	EventDelete EventType = "delete"
	// EventMove is published when a task changes column, except into done.
	EventMove EventType = "move"
	// EventCelebrate is published when a task moves into done.
	EventCelebrate EventType = "celebrate"
)

// Event is a board event.
type Event struct {
	Type   EventType
	TaskID string
	Title  string
	At     time.Time
}

// Sink receives events. Handle runs on the sink's own goroutine.
type Sink interface {
	Handle(Event)
}

// SinkFunc is a helper to create a Sink from a function.
type SinkFunc func(Event)

// Handle satisfies Sink.
func (f SinkFunc) Handle(e Event) { f(e) }

const defaultBufferSize = 64

// HubConfig is the configuration for the hub.
type HubConfig struct {
	// BufferSize is the per sink queue size, events are dropped when full.
	BufferSize int
	Logger     log.Logger
}

func (c *HubConfig) defaults() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer size can't be negative")
	}
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "notify.Hub"})
	return nil
}

type subscriber struct {
	events chan Event
	sink   Sink
}

// Hub delivers every published event to all the subscribed sinks without
// blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	closed bool
	wg     sync.WaitGroup
	size   int
	logger log.Logger
}

// NewHub returns a new hub.
func NewHub(cfg HubConfig) (*Hub, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Hub{
		subs:   map[int]*subscriber{},
		size:   cfg.BufferSize,
		logger: cfg.Logger,
	}, nil
}

// Subscribe starts delivering events to the sink. The returned function
// unsubscribes it after the queued events are handled.
func (h *Hub) Subscribe(s Sink) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return func() {}
	}

	id := h.nextID
	h.nextID++
	sub := &subscriber{events: make(chan Event, h.size), sink: s}
	h.subs[id] = sub

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for e := range sub.events {
			h.handle(sub.sink, e)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub.events)
			}
		})
	}
}

func (h *Hub) handle(s Sink, e Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Errorf("Sink panicked handling %s event: %v", e.Type, r)
		}
	}()
	s.Handle(e)
}

// Publish queues the event on every sink. Full queues drop the event.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.events <- e:
		default:
			h.logger.Warningf("Dropping %s event, sink queue is full", e.Type)
		}
	}
}

// Close stops accepting subscriptions and waits until queued events are handled.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.events)
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// NewLogSink returns a sink that logs every event.
func NewLogSink(logger log.Logger) Sink {
	if logger == nil {
		logger = log.Noop
	}
	logger = logger.WithValues(log.Kv{"svc": "notify.LogSink"})

	return SinkFunc(func(e Event) {
		logger.WithValues(log.Kv{"event": string(e.Type), "task-id": e.TaskID}).Debugf("Board event: %q", e.Title)
	})
}
