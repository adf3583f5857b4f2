package capability

import (
	"context"
	"sync"
	"time"
)

// HandleCache stores resolved capability endpoint handles so repeated runs do
// not re-derive them. Entries expire after a TTL so endpoint moves are picked
// up without a restart. A Get miss is ("", nil); errors are reserved for
// backend failures.
type HandleCache interface {
	Get(ctx context.Context, capability string) (string, error)
	Set(ctx context.Context, capability, endpoint string) error
}

type memoryEntry struct {
	endpoint  string
	expiresAt time.Time
}

// MemoryHandleCache is the in-process default, suitable for single-instance
// deployments.
type MemoryHandleCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryHandleCache(ttl time.Duration) *MemoryHandleCache {
	return &MemoryHandleCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryHandleCache) Get(_ context.Context, capability string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[capability]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, capability)
		return "", nil
	}
	return entry.endpoint, nil
}

func (c *MemoryHandleCache) Set(_ context.Context, capability, endpoint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[capability] = memoryEntry{
		endpoint:  endpoint,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}
