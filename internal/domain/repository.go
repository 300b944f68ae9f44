package domain

import (
	"sync"
	"time"
)

// AccountStore owns every Account instance of the process
type AccountStore interface {
	// GetOrCreate returns the account for id, creating it with a zero
	// balance on first reference. Concurrent first access never creates
	// two accounts for one id.
	GetOrCreate(id string) *Account

	// Get returns the account without creating it
	Get(id string) (*Account, bool)

	// LockFor returns the lock bound to the account identity
	LockFor(id string) sync.Locker

	// Len returns the number of known accounts
	Len() int
}

// Ledger is the append-only per-account transaction history
type Ledger interface {
	// Append adds entry to the end of the account's history
	Append(accountID string, entry LedgerEntry)

	// History returns at most limit entries starting at offset, in append
	// order, along with the total number of entries for the account.
	// An offset past the end yields an empty slice.
	History(accountID string, offset, limit int) ([]LedgerEntry, int)

	// DailyOutboundTotal sums the absolute amounts of transfer_out entries
	// whose UTC calendar date matches asOf
	DailyOutboundTotal(accountID string, asOf time.Time) int64

	// Count returns the number of entries recorded for the account
	Count(accountID string) int
}

// IdempotencyCache maps caller-supplied keys to transfer receipts
type IdempotencyCache interface {
	// Lookup returns the receipt only while it has not expired
	Lookup(key string) (TransferReceipt, bool)

	// Store records the receipt with a fresh expiry, overwriting any
	// previous record for the key
	Store(key string, receipt TransferReceipt)
}

// RateLimiter caps how often a source account may start transfers
type RateLimiter interface {
	// TryConsume records an attempt and returns true, or returns false
	// without recording when the window is already full
	TryConsume(accountID string) bool

	// Remaining returns how many attempts the window still allows
	Remaining(accountID string) int
}
