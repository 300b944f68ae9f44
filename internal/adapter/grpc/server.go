package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/usecase/account"
	"github.com/simaogato/ledger-engine/internal/usecase/transfer"
)

// IdempotencyKeyMetadata is the metadata key carrying a transfer's idempotency key
const IdempotencyKeyMetadata = "idempotency-key"

// Server implements the LedgerService gRPC server
type Server struct {
	TransferService *transfer.TransferService
	AccountService  *account.AccountService
}

// NewServer creates a new gRPC server instance
func NewServer(
	transferService *transfer.TransferService,
	accountService *account.AccountService,
) *Server {
	return &Server{
		TransferService: transferService,
		AccountService:  accountService,
	}
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *AccountAmountRequest) (*Entry, error) {
	amount, err := domain.ParseAmountString(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	entry, err := s.TransferService.Deposit(ctx, req.AccountID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return toEntry(*entry), nil
}

// Withdraw handles the Withdraw RPC
func (s *Server) Withdraw(ctx context.Context, req *AccountAmountRequest) (*Entry, error) {
	amount, err := domain.ParseAmountString(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	entry, err := s.TransferService.Withdraw(ctx, req.AccountID, amount)
	if err != nil {
		return nil, mapError(err)
	}
	return toEntry(*entry), nil
}

// Transfer handles the Transfer RPC.
// The idempotency key is read from request metadata, mirroring the HTTP header.
func (s *Server) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	amount, err := domain.ParseAmountString(req.Amount)
	if err != nil {
		return nil, mapError(err)
	}

	var key string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(IdempotencyKeyMetadata); len(values) > 0 {
			key = values[0]
		}
	}

	receipt, err := s.TransferService.Transfer(ctx, transfer.TransferInput{
		From:           req.FromAccount,
		To:             req.ToAccount,
		Amount:         amount,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &TransferResponse{TxID: receipt.TxID, Status: receipt.Status}, nil
}

// GetBalance handles the GetBalance RPC
func (s *Server) GetBalance(ctx context.Context, req *AccountRequest) (*BalanceResponse, error) {
	result, err := s.AccountService.GetBalance(ctx, req.AccountID)
	if err != nil {
		return nil, mapError(err)
	}
	return &BalanceResponse{AccountID: result.AccountID, Balance: result.Balance}, nil
}

// ListTransactions handles the ListTransactions RPC.
// An unset limit means the default page size.
func (s *Server) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	limit := int(req.Limit)
	if limit == 0 {
		limit = account.DefaultPageSize
	}

	page, err := s.AccountService.GetHistory(ctx, req.AccountID, int(req.Cursor), limit)
	if err != nil {
		return nil, mapError(err)
	}

	items := make([]Entry, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, *toEntry(e))
	}

	resp := &ListTransactionsResponse{
		AccountID:         page.AccountID,
		Items:             items,
		TotalTransactions: int32(page.Total),
		CurrentCursor:     int32(page.Cursor),
		HasMore:           page.HasMore,
	}
	if page.NextCursor != nil {
		next := int32(*page.NextCursor)
		resp.NextCursor = &next
	}
	return resp, nil
}

// GetSummary handles the GetSummary RPC
func (s *Server) GetSummary(ctx context.Context, req *AccountRequest) (*SummaryResponse, error) {
	summary, err := s.AccountService.GetSummary(ctx, req.AccountID)
	if err != nil {
		return nil, mapError(err)
	}

	return &SummaryResponse{
		AccountID:              summary.AccountID,
		Balance:                summary.Balance,
		DailyTransferTotal:     summary.DailyTotal,
		DailyTransferLimit:     summary.DailyLimit,
		DailyTransferRemaining: summary.DailyRemaining,
		TransactionCount:       int32(summary.TransactionCount),
		RateLimitRemaining:     int32(summary.RateRemaining),
	}, nil
}

func toEntry(e domain.LedgerEntry) *Entry {
	return &Entry{
		TxID:         e.TxID,
		Type:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Timestamp:    e.Timestamp,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.KindInsufficientFunds, domain.KindPerTransferExceeded, domain.KindDailyLimitExceeded,
		domain.KindBalanceOverflow:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.KindRateLimited:
		return status.Error(codes.ResourceExhausted, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}

var _ LedgerServiceServer = (*Server)(nil)
