package geocode

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	Entry
	expires time.Time
}

// MemoryCache keeps lookup outcomes in process, partitioned by session.
// A zero ttl keeps entries for the life of the process.
type MemoryCache struct {
	mu       sync.RWMutex
	sessions map[string]map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		sessions: make(map[string]map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, session, sellerID string) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.sessions[session][sellerID]
	if !ok {
		return Entry{}, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		return Entry{}, false, nil
	}
	return e.Entry, true, nil
}

func (c *MemoryCache) Set(_ context.Context, session, sellerID string, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, ok := c.sessions[session]
	if !ok {
		entries = make(map[string]memoryEntry)
		c.sessions[session] = entries
	}

	me := memoryEntry{Entry: e}
	if c.ttl > 0 {
		me.expires = c.now().Add(c.ttl)
	}
	entries[sellerID] = me
	return nil
}

// Forget drops everything cached for a session.
func (c *MemoryCache) Forget(session string) {
	c.mu.Lock()
	delete(c.sessions, session)
	c.mu.Unlock()
}
