package account

import (
	"context"

	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/metrics"
)

const (
	// DefaultPageSize is used when a history request does not name a limit
	DefaultPageSize = 10
	// MaxPageSize caps the entries returned by one history request
	MaxPageSize = 100
)

// Balance is the current balance of one account
type Balance struct {
	AccountID string
	Balance   int64
}

// Page is one offset-based slice of an account's history
type Page struct {
	AccountID  string
	Items      []domain.LedgerEntry
	Total      int
	Cursor     int
	NextCursor *int
	HasMore    bool
}

// Summary represents the calculated state of an account for today
type Summary struct {
	AccountID        string
	Balance          int64
	DailyTotal       int64
	DailyLimit       int64
	DailyRemaining   int64
	TransactionCount int
	// RateRemaining is how many transfers the account may still start in
	// the current rate window
	RateRemaining int
}

// AccountService handles read-side account operations
type AccountService struct {
	Accounts    domain.AccountStore
	Ledger      domain.Ledger
	RateLimiter domain.RateLimiter
	Clock       domain.Clock
	Limits      domain.Limits
}

// NewAccountService creates a new AccountService instance
func NewAccountService(
	accounts domain.AccountStore,
	ledger domain.Ledger,
	rateLimiter domain.RateLimiter,
	clock domain.Clock,
	limits domain.Limits,
) *AccountService {
	return &AccountService{
		Accounts:    accounts,
		Ledger:      ledger,
		RateLimiter: rateLimiter,
		Clock:       clock,
		Limits:      limits,
	}
}

// GetBalance returns the balance, creating the account if it is unknown
func (s *AccountService) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &Balance{AccountID: accountID, Balance: acc.Snapshot()}, nil
}

// GetHistory returns limit entries starting at cursor.
// Logic:
//   - cursor is an offset into the append-ordered history
//   - NextCursor is cursor+limit while entries remain past the page, else nil
func (s *AccountService) GetHistory(ctx context.Context, accountID string, cursor, limit int) (*Page, error) {
	if cursor < 0 {
		return nil, domain.NewValidationError("cursor must be greater than or equal to 0")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, domain.NewValidationError("limit must be between 1 and %d", MaxPageSize)
	}
	if _, err := s.account(ctx, accountID); err != nil {
		return nil, err
	}

	items, total := s.Ledger.History(accountID, cursor, limit)
	page := &Page{
		AccountID: accountID,
		Items:     items,
		Total:     total,
		Cursor:    cursor,
		HasMore:   limit < total-cursor,
	}
	if page.HasMore {
		next := cursor + limit
		page.NextCursor = &next
	}
	return page, nil
}

// GetSummary returns balance, today's outbound transfer usage and the
// rate window's remaining slots. The remaining allowance never goes below
// zero. Reading the rate window does not consume a slot.
func (s *AccountService) GetSummary(ctx context.Context, accountID string) (*Summary, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	dailyTotal := s.Ledger.DailyOutboundTotal(accountID, s.Clock.Now())
	remaining := s.Limits.DailyOutbound - dailyTotal
	if remaining < 0 {
		remaining = 0
	}

	return &Summary{
		AccountID:        accountID,
		Balance:          acc.Snapshot(),
		DailyTotal:       dailyTotal,
		DailyLimit:       s.Limits.DailyOutbound,
		DailyRemaining:   remaining,
		TransactionCount: s.Ledger.Count(accountID),
		RateRemaining:    s.RateLimiter.Remaining(accountID),
	}, nil
}

func (s *AccountService) account(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, domain.NewValidationError("account_id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acc := s.Accounts.GetOrCreate(accountID)
	metrics.Accounts.Set(float64(s.Accounts.Len()))
	return acc, nil
}
