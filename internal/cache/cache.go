package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/methodmatch/internal/analysis"
)

// Store caches serialized score results by key
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Stats() map[string]interface{}
	Close() error
}

// Key derives the cache key for one answer vector under one weight table.
// Keys are trimmed so that whitespace variants share an entry.
func Key(fingerprint string, answers analysis.AnswerVector) string {
	questions := make([]int, 0, len(answers))
	for q := range answers {
		questions = append(questions, q)
	}
	sort.Ints(questions)

	type pair struct {
		Q int    `json:"q"`
		K string `json:"k"`
	}
	pairs := make([]pair, len(questions))
	for i, q := range questions {
		pairs[i] = pair{Q: q, K: strings.TrimSpace(answers[q])}
	}

	body, _ := json.Marshal(pairs)
	hash := md5.Sum(append([]byte(fingerprint+":"), body...))
	return fmt.Sprintf("%x", hash)
}

// CacheItem represents a cached item with expiration
type CacheItem struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired checks if the cache item has expired
func (c *CacheItem) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// MemoryStore provides thread-safe caching with TTL
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*CacheItem
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-process cache with the specified TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	c := &MemoryStore{
		items: make(map[string]*CacheItem),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go c.cleanup(5 * time.Minute)

	return c
}

// cleanup removes expired items periodically
func (c *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryStore) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if item.IsExpired() {
			delete(c.items, key)
		}
	}
}

// Get retrieves an item from the cache
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}
	if item.IsExpired() {
		c.Delete(key)
		return nil, false
	}

	return item.Data, true
}

// Set stores an item in the cache
func (c *MemoryStore) Set(_ context.Context, key string, data []byte) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes an item from the cache
func (c *MemoryStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *MemoryStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*CacheItem)
}

// Size returns the number of items in the cache
func (c *MemoryStore) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stats returns cache statistics
func (c *MemoryStore) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	totalItems := len(c.items)
	expiredItems := 0
	for _, item := range c.items {
		if item.IsExpired() {
			expiredItems++
		}
	}

	return map[string]interface{}{
		"backend":       "memory",
		"total_items":   totalItems,
		"expired_items": expiredItems,
		"active_items":  totalItems - expiredItems,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// Close stops the cleanup goroutine
func (c *MemoryStore) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}
