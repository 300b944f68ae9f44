package seeder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// MockDepositor is a mock implementation of Depositor
type MockDepositor struct {
	mock.Mock
}

func (m *MockDepositor) Deposit(ctx context.Context, accountID string, amount int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func TestBalanceSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	mockDepositor := new(MockDepositor)
	seeder := NewBalanceSeeder(mockDepositor, nil)

	mockDepositor.On("Deposit", ctx, "alice", int64(1000)).
		Return(&domain.LedgerEntry{Kind: domain.EntryKindDeposit, Amount: 1000, BalanceAfter: 1000}, nil).Once()
	mockDepositor.On("Deposit", ctx, "bob", int64(500)).
		Return(&domain.LedgerEntry{Kind: domain.EntryKindDeposit, Amount: 500, BalanceAfter: 500}, nil).Once()

	err := seeder.Seed(ctx, map[string]int64{"bob": 500, "alice": 1000, "empty": 0})

	assert.NoError(t, err)
	mockDepositor.AssertExpectations(t)
	mockDepositor.AssertNumberOfCalls(t, "Deposit", 2)
	mockDepositor.AssertNotCalled(t, "Deposit", ctx, "empty", mock.Anything)
}

func TestBalanceSeeder_Seed_Empty(t *testing.T) {
	mockDepositor := new(MockDepositor)
	seeder := NewBalanceSeeder(mockDepositor, nil)

	assert.NoError(t, seeder.Seed(context.Background(), nil))
	mockDepositor.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func TestBalanceSeeder_Seed_DepositFails(t *testing.T) {
	ctx := context.Background()
	mockDepositor := new(MockDepositor)
	seeder := NewBalanceSeeder(mockDepositor, nil)

	mockDepositor.On("Deposit", ctx, "alice", int64(-5)).
		Return(nil, domain.NewValidationError("amount must be greater than 0"))

	err := seeder.Seed(ctx, map[string]int64{"alice": -5, "zed": 10})

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "failed to seed account alice")
	// Seeding stops at the first failure
	mockDepositor.AssertNotCalled(t, "Deposit", ctx, "zed", mock.Anything)
}
