package domain

import "time"

const (
	// PerTransferLimit is the largest amount a single transfer may move
	PerTransferLimit int64 = 10_000
	// DailyTransferLimit caps cumulative outbound transfers per UTC day
	DailyTransferLimit int64 = 25_000
	// IdempotencyTTL is how long a transfer receipt is replayed for its key
	IdempotencyTTL = 24 * time.Hour
	// RateLimitPerWindow is the number of transfers a source account may
	// start within RateLimitWindow
	RateLimitPerWindow = 10
	// RateLimitWindow is the trailing window used by the rate limiter
	RateLimitWindow = 60 * time.Second
)

// Limits groups the engine's ceilings so deployments and tests can tune them
type Limits struct {
	PerTransfer    int64
	DailyOutbound  int64
	RatePerWindow  int
	RateWindow     time.Duration
	IdempotencyTTL time.Duration
}

// DefaultLimits returns the production ceilings
func DefaultLimits() Limits {
	return Limits{
		PerTransfer:    PerTransferLimit,
		DailyOutbound:  DailyTransferLimit,
		RatePerWindow:  RateLimitPerWindow,
		RateWindow:     RateLimitWindow,
		IdempotencyTTL: IdempotencyTTL,
	}
}

// Clock is the time source of the engine.
// The system clock carries Go's monotonic reading, which is all the rate
// window needs within one process.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// DayKey returns the UTC calendar date of t, the unit daily limits reset on
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
