package utils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// DefaultPendingTTL bounds how long a moderator may keep a modal open.
const DefaultPendingTTL = 5 * time.Minute

// Cache holds pending actions keyed by a random token that travels in the
// modal custom id. Each token can be taken once.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]model.PendingAction
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &Cache{
		entries: make(map[string]model.PendingAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Add stores data and returns its token.
func (c *Cache) Add(data model.PendingAction) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New().String()
	data.CreatedAt = c.now()
	c.entries[id] = data
	return id
}

// Take removes and returns the entry for id if it exists and has not expired.
func (c *Cache) Take(id string) (model.PendingAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, found := c.entries[id]
	if !found {
		return model.PendingAction{}, false
	}
	delete(c.entries, id)
	if c.now().Sub(data.CreatedAt) > c.ttl {
		return model.PendingAction{}, false
	}
	return data, true
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Run evicts expired entries until ctx is done.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, data := range c.entries {
		if c.now().Sub(data.CreatedAt) > c.ttl {
			delete(c.entries, id)
		}
	}
}
