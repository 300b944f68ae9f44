package memory

import (
	"sync"
	"time"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// accountHistory is the ledger tail of one account
type accountHistory struct {
	mu       sync.RWMutex
	entries  []domain.LedgerEntry
	outbound map[string]int64 // UTC day -> sum of transfer_out magnitudes
}

// ledger implements domain.Ledger
type ledger struct {
	histories sync.Map // string -> *accountHistory
}

// NewLedger creates an empty ledger
func NewLedger() domain.Ledger {
	return &ledger{}
}

func (l *ledger) history(accountID string) *accountHistory {
	if h, ok := l.histories.Load(accountID); ok {
		return h.(*accountHistory)
	}
	h, _ := l.histories.LoadOrStore(accountID, &accountHistory{outbound: make(map[string]int64)})
	return h.(*accountHistory)
}

// Append adds the entry to the end of the account's history and keeps the
// running daily outbound total in step
func (l *ledger) Append(accountID string, entry domain.LedgerEntry) {
	h := l.history(accountID)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if entry.Kind == domain.EntryKindTransferOut {
		h.outbound[domain.DayKey(entry.Timestamp)] += abs(entry.Amount)
	}
}

// History returns a copy of the requested page of entries and the total count
func (l *ledger) History(accountID string, offset, limit int) ([]domain.LedgerEntry, int) {
	h := l.history(accountID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	total := len(h.entries)
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []domain.LedgerEntry{}, total
	}

	// Clamp without adding so a huge limit cannot wrap
	if limit > total-offset {
		limit = total - offset
	}

	page := make([]domain.LedgerEntry, limit)
	copy(page, h.entries[offset:offset+limit])
	return page, total
}

// DailyOutboundTotal returns the outbound transfer volume of asOf's UTC day
func (l *ledger) DailyOutboundTotal(accountID string, asOf time.Time) int64 {
	h := l.history(accountID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.outbound[domain.DayKey(asOf)]
}

// Count returns the number of entries for the account
func (l *ledger) Count(accountID string) int {
	h := l.history(accountID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
