package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/ledger-engine/internal/domain"
)

func TestIdempotencyCache_LookupAndExpiry(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	cache := NewIdempotencyCache(domain.IdempotencyTTL, clock)

	_, ok := cache.Lookup("key-1")
	assert.False(t, ok)

	receipt := domain.TransferReceipt{TxID: "tx-1", Status: domain.TransferStatusSuccess}
	cache.Store("key-1", receipt)

	got, ok := cache.Lookup("key-1")
	assert.True(t, ok)
	assert.Equal(t, receipt, got)

	// Still valid just before the window closes
	clock.Advance(domain.IdempotencyTTL - time.Second)
	_, ok = cache.Lookup("key-1")
	assert.True(t, ok)

	// Expired at exactly now + ttl
	clock.Advance(time.Second)
	_, ok = cache.Lookup("key-1")
	assert.False(t, ok)

	// Key is reusable after expiry
	next := domain.TransferReceipt{TxID: "tx-2", Status: domain.TransferStatusSuccess}
	cache.Store("key-1", next)
	got, ok = cache.Lookup("key-1")
	assert.True(t, ok)
	assert.Equal(t, "tx-2", got.TxID)
}

func TestIdempotencyCache_ConcurrentKeys(t *testing.T) {
	cache := NewIdempotencyCache(time.Hour, domain.SystemClock{})

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			cache.Store(key, domain.TransferReceipt{TxID: fmt.Sprintf("tx-%d", i), Status: domain.TransferStatusSuccess})
			got, ok := cache.Lookup(key)
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprintf("tx-%d", i), got.TxID)
		}(i)
	}
	wg.Wait()
}
