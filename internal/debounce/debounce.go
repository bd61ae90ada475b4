// Package debounce coalesces bursts of calls into a single delayed flush.
package debounce

import (
	"fmt"
	"sync"
	"time"
)

// DefaultWait is the idle window used when none is configured.
const DefaultWait = 300 * time.Millisecond

// Config is the debouncer configuration.
type Config struct {
	// Wait is the idle time after the last Schedule call before flushing.
	Wait time.Duration
	// Flush is called at most once per idle window.
	Flush func()
}

func (c *Config) defaults() error {
	if c.Flush == nil {
		return fmt.Errorf("flush function is required")
	}
	if c.Wait < 0 {
		return fmt.Errorf("wait can't be negative")
	}
	if c.Wait == 0 {
		c.Wait = DefaultWait
	}
	return nil
}

// Debouncer schedules-or-replaces a single pending flush.
//
// Flush always runs without the debouncer lock held, so it can call back
// into Schedule safely. FlushNow and Stop wait for a running flush.
type Debouncer struct {
	mu      sync.Mutex
	idle    *sync.Cond
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
	running int
	wait    time.Duration
	flush   func()
}

// New returns a new debouncer.
func New(cfg Config) (*Debouncer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	d := &Debouncer{
		wait:  cfg.Wait,
		flush: cfg.Flush,
	}
	d.idle = sync.NewCond(&d.mu)

	return d, nil
}

// Schedule (re)starts the idle window. After Stop it does nothing.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A stopped timer can still fire if it raced with Stop, the generation discards it.
	if !d.pending || d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.running++
	d.mu.Unlock()

	d.run()
}

// run calls flush and marks it finished, the caller must have counted it in running.
func (d *Debouncer) run() {
	defer func() {
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()

	d.flush()
}

// waitIdle blocks until no flush is running, d.mu must be held.
func (d *Debouncer) waitIdle() {
	for d.running > 0 {
		d.idle.Wait()
	}
}

// FlushNow runs the pending flush synchronously, it returns false when there
// was nothing pending. A flush already running is waited for first.
func (d *Debouncer) FlushNow() bool {
	d.mu.Lock()
	d.waitIdle()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.pending = false
	d.running++
	d.mu.Unlock()

	d.run()
	return true
}

// Pending reports whether a flush is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}

// Stop cancels any pending flush and ignores further schedules. It returns
// once a flush already running has finished.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.stopped = true
	d.pending = false
	d.waitIdle()
}
