// Package cache memoizes the two read endpoints that back the main screens:
// the paginated receipt list and the spending-by-category aggregate.
//
// Each family holds at most one entry, keyed by the request parameters that
// produced it. Entries never expire by time; they are replaced by a fetch
// with a different key, or cleared wholesale when any receipt mutation
// succeeds. Clearing both families on every mutation is deliberately coarse:
// correctness over precision.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Family identifies one independently cached endpoint.
type Family int

const (
	FamilyReceipts Family = iota
	FamilySpending
	familyCount
)

type entry struct {
	key       string
	data      any
	createdAt time.Time
}

// Cache is a single-slot-per-family memoization layer. The zero value is
// not usable; call New.
type Cache struct {
	mu    sync.Mutex
	slots [familyCount]*entry
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// Get returns the cached payload for family if a live entry exists and its
// key exactly matches. A mismatched key is a miss; the caller fetches.
func (c *Cache) Get(family Family, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.slots[family]
	if e == nil || e.key != key {
		return nil, false
	}
	return e.data, true
}

// Put replaces the family's slot with the given key/data pair.
func (c *Cache) Put(family Family, key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slots[family] = &entry{key: key, data: data, createdAt: time.Now()}
}

// InvalidateAll clears every family. Called after any successful receipt
// mutation, regardless of which family it logically affects.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.slots {
		c.slots[i] = nil
	}
}

// ReceiptsKey derives the list-cache key from pagination parameters.
// Field order is fixed so equal parameters always produce equal keys.
func ReceiptsKey(page, limit int) string {
	return fmt.Sprintf("page=%d&limit=%d", page, limit)
}

// SpendingKey derives the aggregate-cache key from the optional date range.
func SpendingKey(startDate, endDate string) string {
	return fmt.Sprintf("start=%s&end=%s", startDate, endDate)
}
