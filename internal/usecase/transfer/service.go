package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/metrics"
)

// TransferInput represents the input for moving funds between two accounts
type TransferInput struct {
	From           string
	To             string
	Amount         int64
	IdempotencyKey string // Optional
}

// TransferService is the accounting engine: it owns the locking discipline
// and the ordering of checks for every balance mutation.
type TransferService struct {
	Accounts    domain.AccountStore
	Ledger      domain.Ledger
	Idempotency domain.IdempotencyCache
	RateLimiter domain.RateLimiter
	Clock       domain.Clock
	Limits      domain.Limits

	logger  *zap.Logger
	flights singleflight.Group
}

// NewTransferService creates a new TransferService instance
func NewTransferService(
	accounts domain.AccountStore,
	ledger domain.Ledger,
	idempotency domain.IdempotencyCache,
	rateLimiter domain.RateLimiter,
	clock domain.Clock,
	limits domain.Limits,
	logger *zap.Logger,
) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		Accounts:    accounts,
		Ledger:      ledger,
		Idempotency: idempotency,
		RateLimiter: rateLimiter,
		Clock:       clock,
		Limits:      limits,
		logger:      logger,
	}
}

// Deposit credits the account. It only fails on an invalid amount.
func (s *TransferService) Deposit(ctx context.Context, accountID string, amount int64) (*domain.LedgerEntry, error) {
	if err := validateAccount(accountID, "account_id"); err != nil {
		return nil, s.reject("deposit", err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, s.reject("deposit", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := s.account(accountID)
	acc.Lock()
	defer acc.Unlock()

	if !acc.CanCredit(amount) {
		return nil, s.reject("deposit", domain.ErrBalanceOverflow)
	}

	entry := domain.LedgerEntry{
		TxID:         uuid.NewString(),
		Kind:         domain.EntryKindDeposit,
		Amount:       amount,
		BalanceAfter: acc.Credit(amount),
		Timestamp:    s.Clock.Now().UTC(),
	}
	s.Ledger.Append(accountID, entry)

	metrics.ObserveOperation("deposit", "success")
	s.logger.Info("Deposit applied",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.String("tx_id", entry.TxID),
	)
	return &entry, nil
}

// Withdraw debits the account if it holds at least amount
func (s *TransferService) Withdraw(ctx context.Context, accountID string, amount int64) (*domain.LedgerEntry, error) {
	if err := validateAccount(accountID, "account_id"); err != nil {
		return nil, s.reject("withdraw", err)
	}
	if err := validateAmount(amount); err != nil {
		return nil, s.reject("withdraw", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := s.account(accountID)
	acc.Lock()
	defer acc.Unlock()

	if acc.Balance() < amount {
		return nil, s.reject("withdraw", domain.ErrInsufficientFunds)
	}

	entry := domain.LedgerEntry{
		TxID:         uuid.NewString(),
		Kind:         domain.EntryKindWithdrawal,
		Amount:       -amount,
		BalanceAfter: acc.Debit(amount),
		Timestamp:    s.Clock.Now().UTC(),
	}
	s.Ledger.Append(accountID, entry)

	metrics.ObserveOperation("withdraw", "success")
	s.logger.Info("Withdrawal applied",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
		zap.String("tx_id", entry.TxID),
	)
	return &entry, nil
}

// Transfer moves funds between two accounts.
// Logic:
//  1. Reject amounts above the per-transfer ceiling before touching state
//  2. Replay a fresh cached receipt for the idempotency key, lock-free
//  3. Create both accounts lazily
//  4. Consume one rate-limit slot of the source account
//  5. Lock both accounts in account-id order
//  6. Under the locks, check the daily ceiling, the source balance and
//     the destination's headroom
//  7. Debit, credit and append both legs with one tx id and timestamp
//  8. Unlock, then cache the receipt under the key
func (s *TransferService) Transfer(ctx context.Context, input TransferInput) (*domain.TransferReceipt, error) {
	if err := validateAccount(input.From, "from_account"); err != nil {
		return nil, s.reject("transfer", err)
	}
	if err := validateAccount(input.To, "to_account"); err != nil {
		return nil, s.reject("transfer", err)
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, s.reject("transfer", err)
	}

	// 1. Per-transfer ceiling; exactly at the ceiling is allowed
	if input.Amount > s.Limits.PerTransfer {
		return nil, s.reject("transfer", domain.PerTransferExceeded(s.Limits.PerTransfer))
	}

	if input.IdempotencyKey == "" {
		return s.execute(ctx, input)
	}

	// 2. Cached receipt: a pure read, no locks and no side effects
	if receipt, ok := s.replay(input.IdempotencyKey); ok {
		return receipt, nil
	}

	// Concurrent calls presenting the same fresh key share one execution.
	// The cache is consulted again inside the flight because a previous
	// flight for the key may have completed since the check above.
	v, err, _ := s.flights.Do(input.IdempotencyKey, func() (any, error) {
		if receipt, ok := s.replay(input.IdempotencyKey); ok {
			return receipt, nil
		}
		receipt, err := s.execute(ctx, input)
		if err != nil {
			return nil, err
		}
		// 8. Stored outside the account locks; rejections are never cached
		s.Idempotency.Store(input.IdempotencyKey, *receipt)
		return receipt, nil
	})
	if err != nil {
		return nil, err
	}

	receipt := *v.(*domain.TransferReceipt)
	return &receipt, nil
}

// execute runs steps 3-7 of a transfer
func (s *TransferService) execute(ctx context.Context, input TransferInput) (*domain.TransferReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Lazy account creation
	from := s.account(input.From)
	to := s.account(input.To)

	// 4. Exactly one rate-limit check per attempt, source account only
	if !s.RateLimiter.TryConsume(input.From) {
		return nil, s.reject("transfer", domain.RateLimited(s.Limits.RatePerWindow))
	}

	// 5. Canonical lock order
	unlock := lockPair(from, to)
	defer unlock()

	now := s.Clock.Now().UTC()

	// 6. Limit and funds checks, atomic with respect to other operations
	// on the source account because its lock is held
	if input.Amount > s.Limits.DailyOutbound-s.Ledger.DailyOutboundTotal(input.From, now) {
		return nil, s.reject("transfer", domain.DailyLimitExceeded(s.Limits.DailyOutbound))
	}
	if from.Balance() < input.Amount {
		return nil, s.reject("transfer", domain.ErrInsufficientFunds)
	}
	// A self-transfer restores the balance it debits, so only a distinct
	// destination can overflow
	if from != to && !to.CanCredit(input.Amount) {
		return nil, s.reject("transfer", domain.ErrBalanceOverflow)
	}

	// 7. Mutation. Both legs record the balances after the whole transfer,
	// so for a self-transfer each leg carries the unchanged balance.
	t := domain.Transfer{
		TxID:      uuid.NewString(),
		From:      input.From,
		To:        input.To,
		Amount:    input.Amount,
		Timestamp: now,
	}
	fromAfter := from.Balance() - input.Amount
	toAfter := to.Balance() + input.Amount
	if from == to {
		fromAfter = from.Balance()
		toAfter = fromAfter
	}
	out, in := t.Legs(fromAfter, toAfter)
	if err := domain.ValidateLegs(out, in); err != nil {
		return nil, fmt.Errorf("failed to build transfer legs: %w", err)
	}

	from.Debit(input.Amount)
	to.Credit(input.Amount)
	s.Ledger.Append(input.From, out)
	s.Ledger.Append(input.To, in)

	metrics.ObserveOperation("transfer", "success")
	metrics.TransferVolume.Observe(float64(input.Amount))
	s.logger.Info("Transfer applied",
		zap.String("from_account", input.From),
		zap.String("to_account", input.To),
		zap.Int64("amount", input.Amount),
		zap.String("tx_id", t.TxID),
	)

	return &domain.TransferReceipt{TxID: t.TxID, Status: domain.TransferStatusSuccess}, nil
}

func (s *TransferService) replay(key string) (*domain.TransferReceipt, bool) {
	receipt, ok := s.Idempotency.Lookup(key)
	if !ok {
		return nil, false
	}
	metrics.IdempotentReplays.Inc()
	s.logger.Debug("Transfer replayed from idempotency cache",
		zap.String("idempotency_key", key),
		zap.String("tx_id", receipt.TxID),
	)
	return &receipt, true
}

// account returns the account for id, creating it on first reference
func (s *TransferService) account(id string) *domain.Account {
	acc := s.Accounts.GetOrCreate(id)
	metrics.Accounts.Set(float64(s.Accounts.Len()))
	return acc
}

// reject records a rejection and returns err unchanged
func (s *TransferService) reject(operation string, err error) error {
	metrics.ObserveOperation(operation, string(domain.KindOf(err)))
	s.logger.Debug("Operation rejected",
		zap.String("operation", operation),
		zap.String("kind", string(domain.KindOf(err))),
		zap.Error(err),
	)
	return err
}

// lockPair locks both accounts in a total order derived from their ids,
// so two transfers over the same pair can never wait on each other in a
// cycle, whichever direction they move money. A self-transfer takes the
// single lock once.
func lockPair(a, b *domain.Account) (unlock func()) {
	if a.ID == b.ID {
		a.Lock()
		return a.Unlock
	}

	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}
	first.Lock()
	second.Lock()

	return func() {
		second.Unlock()
		first.Unlock()
	}
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return domain.NewValidationError("amount must be greater than 0")
	}
	return nil
}

func validateAccount(id, field string) error {
	if id == "" {
		return domain.NewValidationError("%s is required", field)
	}
	return nil
}
