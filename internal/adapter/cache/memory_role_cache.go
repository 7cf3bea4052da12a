package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/domain/repository"
)

type entry struct {
	role    entity.Role
	expires time.Time
}

// MemoryRoleCache is the in-process fallback when no Redis is configured.
type MemoryRoleCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryRoleCache() *MemoryRoleCache {
	return &MemoryRoleCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *MemoryRoleCache) Get(_ context.Context, email string) (entity.Role, error) {
	c.mu.RLock()
	e, ok := c.entries[strings.ToLower(email)]
	c.mu.RUnlock()

	if !ok || (!e.expires.IsZero() && c.now().After(e.expires)) {
		return "", repository.ErrCacheMiss
	}
	return e.role, nil
}

func (c *MemoryRoleCache) Set(_ context.Context, email string, role entity.Role, ttl time.Duration) error {
	e := entry{role: role}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[strings.ToLower(email)] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryRoleCache) Delete(_ context.Context, email string) error {
	c.mu.Lock()
	delete(c.entries, strings.ToLower(email))
	c.mu.Unlock()
	return nil
}
