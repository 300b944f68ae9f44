package memory

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/ledger-engine/internal/domain"
)

func TestLedger_AppendAndHistory(t *testing.T) {
	l := NewLedger()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 14; i++ {
		l.Append("alice", domain.LedgerEntry{
			TxID:         fmt.Sprintf("tx-%d", i),
			Kind:         domain.EntryKindDeposit,
			Amount:       10,
			BalanceAfter: int64(10 * (i + 1)),
			Timestamp:    now.Add(time.Duration(i) * time.Second),
		})
	}

	tests := []struct {
		name      string
		offset    int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{"first page", 0, 5, 5, "tx-0"},
		{"middle page", 5, 5, 5, "tx-5"},
		{"last partial page", 10, 5, 4, "tx-10"},
		{"offset at end", 14, 5, 0, ""},
		{"offset past end", 100, 5, 0, ""},
		{"zero limit", 0, 0, 0, ""},
		{"max int limit", 1, math.MaxInt, 13, "tx-1"},
		{"max int limit from start", 0, math.MaxInt, 14, "tx-0"},
		{"max int offset", math.MaxInt, math.MaxInt, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := l.History("alice", tt.offset, tt.limit)
			assert.Equal(t, 14, total)
			assert.NotNil(t, page)
			assert.Len(t, page, tt.wantLen)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, page[0].TxID)
			}
		})
	}

	assert.Equal(t, 14, l.Count("alice"))
}

func TestLedger_HistoryReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Append("alice", domain.LedgerEntry{TxID: "tx-1", Kind: domain.EntryKindDeposit, Amount: 5})

	page, _ := l.History("alice", 0, 10)
	page[0].Amount = 999

	again, _ := l.History("alice", 0, 10)
	assert.Equal(t, int64(5), again[0].Amount)
}

func TestLedger_DailyOutboundTotal(t *testing.T) {
	l := NewLedger()
	day := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	l.Append("alice", domain.LedgerEntry{TxID: "d", Kind: domain.EntryKindDeposit, Amount: 50_000, Timestamp: day})
	l.Append("alice", domain.LedgerEntry{TxID: "t1", Kind: domain.EntryKindTransferOut, Amount: -3_000, Timestamp: day})
	l.Append("alice", domain.LedgerEntry{TxID: "w", Kind: domain.EntryKindWithdrawal, Amount: -1_000, Timestamp: day})
	l.Append("alice", domain.LedgerEntry{TxID: "t2", Kind: domain.EntryKindTransferIn, Amount: 7_000, Timestamp: day})
	l.Append("alice", domain.LedgerEntry{TxID: "t3", Kind: domain.EntryKindTransferOut, Amount: -2_000, Timestamp: day.Add(time.Hour)})
	// Next UTC day
	l.Append("alice", domain.LedgerEntry{TxID: "t4", Kind: domain.EntryKindTransferOut, Amount: -500, Timestamp: day.Add(15 * time.Hour)})

	assert.Equal(t, int64(5_000), l.DailyOutboundTotal("alice", day))
	assert.Equal(t, int64(500), l.DailyOutboundTotal("alice", day.Add(24*time.Hour)))
	assert.Equal(t, int64(0), l.DailyOutboundTotal("alice", day.Add(-24*time.Hour)))
	assert.Equal(t, int64(0), l.DailyOutboundTotal("bob", day))

	// Same instant expressed in another zone maps to the same UTC day
	loc := time.FixedZone("UTC+9", 9*60*60)
	assert.Equal(t, int64(5_000), l.DailyOutboundTotal("alice", day.In(loc)))
}

func TestLedger_ConcurrentAppendsAcrossAccounts(t *testing.T) {
	l := NewLedger()

	const accounts = 8
	const perAccount = 200
	var wg sync.WaitGroup
	for a := 0; a < accounts; a++ {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			id := fmt.Sprintf("acc-%d", a)
			for i := 0; i < perAccount; i++ {
				l.Append(id, domain.LedgerEntry{TxID: fmt.Sprintf("%d", i), Kind: domain.EntryKindDeposit, Amount: 1})
			}
		}(a)
	}
	wg.Wait()

	for a := 0; a < accounts; a++ {
		id := fmt.Sprintf("acc-%d", a)
		page, total := l.History(id, 0, perAccount)
		assert.Equal(t, perAccount, total)
		for i, e := range page {
			assert.Equal(t, fmt.Sprintf("%d", i), e.TxID, "append order must be preserved")
		}
	}
}
