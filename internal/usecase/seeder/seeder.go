package seeder

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// Depositor credits an account; satisfied by transfer.TransferService
type Depositor interface {
	Deposit(ctx context.Context, accountID string, amount int64) (*domain.LedgerEntry, error)
}

// BalanceSeeder handles seeding of opening balances at startup
type BalanceSeeder struct {
	depositor Depositor
	logger    *zap.Logger
}

// NewBalanceSeeder creates a new BalanceSeeder instance
func NewBalanceSeeder(depositor Depositor, logger *zap.Logger) *BalanceSeeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceSeeder{
		depositor: depositor,
		logger:    logger,
	}
}

// Seed deposits each opening balance through the engine, so every seeded
// account starts with a deposit entry in its ledger. Accounts are seeded in
// id order; zero balances are skipped.
func (s *BalanceSeeder) Seed(ctx context.Context, balances map[string]int64) error {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		amount := balances[id]
		if amount == 0 {
			continue
		}
		entry, err := s.depositor.Deposit(ctx, id, amount)
		if err != nil {
			return fmt.Errorf("failed to seed account %s: %w", id, err)
		}
		s.logger.Info("Seeded opening balance",
			zap.String("account_id", id),
			zap.Int64("balance", entry.BalanceAfter),
		)
	}

	return nil
}
