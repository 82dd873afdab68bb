package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lysyi3m/prop-comb/app/proposal"
)

// DefaultTTL matches the upstream refresh cadence; proposal indexes
// change on the scale of hours, not seconds.
const DefaultTTL = 300 * time.Second

type entry struct {
	result    *proposal.FetchResult
	expiresAt time.Time
}

// Cache holds assembled fetch results keyed by the full request
// identity. Entries expire after a fixed TTL; expired entries are
// dropped lazily on read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Key builds the cache identity for a request. Standards are
// order-sensitive on purpose: the response preserves request order.
func Key(standards []string, limit int, filter proposal.Status) string {
	var b strings.Builder
	for i, s := range standards {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strings.ToUpper(strings.TrimSpace(s)))
	}
	b.WriteByte('|')
	b.WriteString(string(filter))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(limit))
	return b.String()
}

func (c *Cache) Get(key string) (*proposal.FetchResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.result, true
}

func (c *Cache) Set(key string, result *proposal.FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops every entry touching the given standard. Used by the
// refresh endpoint to force the next read through the cascade.
func (c *Cache) Invalidate(standard string) {
	needle := strings.ToUpper(strings.TrimSpace(standard))

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		list, _, _ := strings.Cut(key, "|")
		for _, s := range strings.Split(list, ",") {
			if s == needle {
				delete(c.entries, key)
				break
			}
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
