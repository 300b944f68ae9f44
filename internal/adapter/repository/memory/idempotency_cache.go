package memory

import (
	"sync"
	"time"

	"github.com/simaogato/ledger-engine/internal/domain"
)

type idempotencyRecord struct {
	receipt   domain.TransferReceipt
	expiresAt time.Time
}

// idempotencyCache implements domain.IdempotencyCache.
// Expiry is lazy: stale records are dropped when they are looked up.
type idempotencyCache struct {
	mu      sync.RWMutex
	records map[string]idempotencyRecord
	ttl     time.Duration
	clock   domain.Clock
}

// NewIdempotencyCache creates a cache whose records live for ttl
func NewIdempotencyCache(ttl time.Duration, clock domain.Clock) domain.IdempotencyCache {
	return &idempotencyCache{
		records: make(map[string]idempotencyRecord),
		ttl:     ttl,
		clock:   clock,
	}
}

// Lookup returns the cached receipt if present and not expired
func (c *idempotencyCache) Lookup(key string) (domain.TransferReceipt, bool) {
	now := c.clock.Now()

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()

	if !ok {
		return domain.TransferReceipt{}, false
	}
	if now.Before(rec.expiresAt) {
		return rec.receipt, true
	}

	c.mu.Lock()
	// A concurrent Store may have refreshed the key since the read above
	if cur, ok := c.records[key]; ok && !now.Before(cur.expiresAt) {
		delete(c.records, key)
	}
	c.mu.Unlock()

	return domain.TransferReceipt{}, false
}

// Store records the receipt with expiry now + ttl
func (c *idempotencyCache) Store(key string, receipt domain.TransferReceipt) {
	expiresAt := c.clock.Now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.records[key] = idempotencyRecord{receipt: receipt, expiresAt: expiresAt}
}
