package sanitize

import "sync"

// DefaultCacheSize is the number of memoized ForXSS results.
const DefaultCacheSize = 1000

// fifoCache is a bounded map that evicts the oldest inserted key.
type fifoCache struct {
	mu    sync.Mutex
	max   int
	items map[string]string
	order []string
}

func newFIFOCache(max int) *fifoCache {
	return &fifoCache{
		max:   max,
		items: make(map[string]string, max),
		order: make([]string, 0, max),
	}
}

func (c *fifoCache) get(k string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[k]
	return v, ok
}

func (c *fifoCache) put(k, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[k]; ok {
		c.items[k] = v
		return
	}

	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}

	c.items[k] = v
	c.order = append(c.order, k)
}

func (c *fifoCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}
