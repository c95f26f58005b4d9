package cache

import (
	"container/list"
	"sync"
	"time"

	"agendo/pkg/model"
)

// AvailabilityCache memoizes availability results keyed by professional and
// date. Entries expire after a fixed TTL and the population is bounded: when
// full, the least-recently-used entry is evicted. All methods are safe for
// concurrent use.
type AvailabilityCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	ttl        time.Duration
	maxEntries int
	stopCh     chan struct{}
}

type cacheEntry struct {
	key      string
	value    *model.AvailabilityResponse
	storedAt time.Time
}

func NewAvailabilityCache(ttl time.Duration, maxEntries int) *AvailabilityCache {
	c := &AvailabilityCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Key builds the cache key for a professional/date pair. Date uses the
// 2006-01-02 layout.
func Key(professionalID, date string) string {
	return professionalID + "_" + date
}

func (c *AvailabilityCache) Get(professionalID, date string) (*model.AvailabilityResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[Key(professionalID, date)]
	if !exists {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if time.Since(entry.storedAt) > c.ttl {
		c.removeLocked(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.value, true
}

func (c *AvailabilityCache) Set(professionalID, date string, value *model.AvailabilityResponse) {
	key := Key(professionalID, date)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.storedAt = time.Now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry{
		key:      key,
		value:    value,
		storedAt: time.Now(),
	})
	c.entries[key] = elem

	if c.order.Len() > c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
}

// Evict drops the entry for exactly one professional/date key. Writes call
// this before returning so a completed create or delete is never followed by
// a stale availability read.
func (c *AvailabilityCache) Evict(professionalID, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[Key(professionalID, date)]; exists {
		c.removeLocked(elem)
	}
}

// Len reports the current entry population.
func (c *AvailabilityCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *AvailabilityCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

// cleanup purges expired entries in the background so abandoned keys do not
// linger until the LRU bound pushes them out.
func (c *AvailabilityCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for elem := c.order.Back(); elem != nil; {
				prev := elem.Prev()
				if time.Since(elem.Value.(*cacheEntry).storedAt) > c.ttl {
					c.removeLocked(elem)
				}
				elem = prev
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

func (c *AvailabilityCache) Stop() {
	close(c.stopCh)
}
