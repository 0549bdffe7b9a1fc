package state

import (
	"sync"

	"github.com/kshehadeh/pyfluence/internal/confluence"
)

// Cache holds lightweight shared state for an MCP session. The Confluence
// client itself stays stateless; only session conveniences live here.
type Cache struct {
	mu      sync.RWMutex
	spaces  []confluence.Space
	lastCQL string
}

// NewCache creates a Cache.
func NewCache() *Cache {
	return &Cache{}
}

// SetSpaces stores the list of Confluence spaces.
func (c *Cache) SetSpaces(spaces []confluence.Space) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spaces = append([]confluence.Space(nil), spaces...)
}

// Spaces returns the cached Confluence spaces.
func (c *Cache) Spaces() []confluence.Space {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]confluence.Space(nil), c.spaces...)
}

// SetLastCQL stores the last executed CQL query string.
func (c *Cache) SetLastCQL(cql string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCQL = cql
}

// LastCQL retrieves the previous CQL query.
func (c *Cache) LastCQL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCQL
}
