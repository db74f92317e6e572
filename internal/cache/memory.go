package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
)

type memoryEntry struct {
	rows      []*models.RolePermission
	expiresAt time.Time
}

// MemoryPermissionCache is a process-local PermissionCache.
type MemoryPermissionCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     Clock
}

type MemoryOption func(*MemoryPermissionCache)

func WithClock(now Clock) MemoryOption {
	return func(c *MemoryPermissionCache) {
		c.now = now
	}
}

func NewMemoryPermissionCache(ttl time.Duration, opts ...MemoryOption) *MemoryPermissionCache {
	c := &MemoryPermissionCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryPermissionCache) Get(_ context.Context, role string) ([]*models.RolePermission, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[role]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[role]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, role)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	return entry.rows, true, nil
}

func (c *MemoryPermissionCache) Set(_ context.Context, role string, rows []*models.RolePermission) error {
	c.mu.Lock()
	c.entries[role] = memoryEntry{rows: rows, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryPermissionCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryPermissionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartJanitor evicts expired entries every interval until ctx is done.
func (c *MemoryPermissionCache) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.evictExpired()
			}
		}
	}()
}

func (c *MemoryPermissionCache) evictExpired() {
	now := c.now()
	c.mu.Lock()
	for role, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, role)
		}
	}
	c.mu.Unlock()
}
