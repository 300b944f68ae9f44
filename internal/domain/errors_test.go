package domain

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     ErrorKind
	}{
		{"per-transfer", PerTransferExceeded(PerTransferLimit), ErrPerTransferExceeded, KindPerTransferExceeded},
		{"daily", DailyLimitExceeded(DailyTransferLimit), ErrDailyLimitExceeded, KindDailyLimitExceeded},
		{"rate", RateLimited(RateLimitPerWindow), ErrRateLimited, KindRateLimited},
		{"validation", NewValidationError("amount must be > 0"), ErrValidation, KindValidation},
		{"overflow", fmt.Errorf("deposit: %w", ErrBalanceOverflow), ErrBalanceOverflow, KindBalanceOverflow},
		{"wrapped funds", fmt.Errorf("withdraw: %w", ErrInsufficientFunds), ErrInsufficientFunds, KindInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}

	assert.False(t, errors.Is(ErrRateLimited, ErrInsufficientFunds))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
}

func TestError_DetailText(t *testing.T) {
	assert.Equal(t, "Per-transfer limit exceeded: max 10000", PerTransferExceeded(10_000).Error())
	assert.Equal(t, "Daily transfer limit exceeded: max 25000", DailyLimitExceeded(25_000).Error())
	assert.Equal(t, "Rate limit exceeded: max 10 transfers per minute", RateLimited(10).Error())
}

func TestAccount_ConcurrentCreditUnderLock(t *testing.T) {
	acc := NewAccount("alice")

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			acc.Lock()
			acc.Credit(1)
			acc.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers), acc.Snapshot())
}
