package memory

import (
	"sync"
	"time"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// slidingWindow holds the recent attempt timestamps of one account
type slidingWindow struct {
	mu       sync.Mutex
	attempts []time.Time
}

// cleanup drops attempts that fell out of the trailing window
func (w *slidingWindow) cleanup(now time.Time, window time.Duration) {
	idx := 0
	for idx < len(w.attempts) && now.Sub(w.attempts[idx]) >= window {
		idx++
	}
	if idx > 0 {
		w.attempts = w.attempts[idx:]
	}
}

// rateLimiter implements domain.RateLimiter with one window per account.
// Windows are pruned on every call; there is no background eviction.
type rateLimiter struct {
	windows sync.Map // string -> *slidingWindow
	limit   int
	window  time.Duration
	clock   domain.Clock
}

// NewRateLimiter allows limit attempts per account within window
func NewRateLimiter(limit int, window time.Duration, clock domain.Clock) domain.RateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		clock:  clock,
	}
}

func (r *rateLimiter) windowFor(accountID string) *slidingWindow {
	if w, ok := r.windows.Load(accountID); ok {
		return w.(*slidingWindow)
	}
	w, _ := r.windows.LoadOrStore(accountID, &slidingWindow{})
	return w.(*slidingWindow)
}

// TryConsume records an attempt unless the window already holds limit attempts
func (r *rateLimiter) TryConsume(accountID string) bool {
	w := r.windowFor(accountID)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := r.clock.Now()
	w.cleanup(now, r.window)
	if len(w.attempts) >= r.limit {
		return false
	}
	w.attempts = append(w.attempts, now)
	return true
}

// Remaining returns how many attempts the account has left in the window
func (r *rateLimiter) Remaining(accountID string) int {
	w := r.windowFor(accountID)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.cleanup(r.clock.Now(), r.window)
	if left := r.limit - len(w.attempts); left > 0 {
		return left
	}
	return 0
}
