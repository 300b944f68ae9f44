package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/simaogato/ledger-engine/internal/adapter/repository/memory"
	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/usecase/account"
	"github.com/simaogato/ledger-engine/internal/usecase/transfer"
)

// startServer serves the ledger over an in-memory listener and returns a client
func startServer(t *testing.T) *LedgerServiceClient {
	t.Helper()

	clock := domain.SystemClock{}
	limits := domain.DefaultLimits()
	accounts := memory.NewAccountStore()
	ledger := memory.NewLedger()
	rateLimiter := memory.NewRateLimiter(limits.RatePerWindow, limits.RateWindow, clock)
	transferService := transfer.NewTransferService(
		accounts,
		ledger,
		memory.NewIdempotencyCache(limits.IdempotencyTTL, clock),
		rateLimiter,
		clock,
		limits,
		nil,
	)
	accountService := account.NewAccountService(accounts, ledger, rateLimiter, clock, limits)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterLedgerServiceServer(srv, NewServer(transferService, accountService))
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			t.Logf("grpc server stopped: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return NewLedgerServiceClient(conn)
}

func TestLedgerService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	client := startServer(t)

	dep, err := client.Deposit(ctx, &AccountAmountRequest{AccountID: "alice", Amount: "1000"})
	require.NoError(t, err)
	assert.Equal(t, "deposit", dep.Type)
	assert.Equal(t, int64(1000), dep.BalanceAfter)
	assert.False(t, dep.Timestamp.IsZero())
	assert.Equal(t, time.UTC, dep.Timestamp.Location())

	tr, err := client.Transfer(ctx, &TransferRequest{FromAccount: "alice", ToAccount: "bob", Amount: "250"})
	require.NoError(t, err)
	assert.Equal(t, "success", tr.Status)
	assert.NotEmpty(t, tr.TxID)

	wd, err := client.Withdraw(ctx, &AccountAmountRequest{AccountID: "bob", Amount: "50"})
	require.NoError(t, err)
	assert.Equal(t, int64(-50), wd.Amount)
	assert.Equal(t, int64(200), wd.BalanceAfter)

	bal, err := client.GetBalance(ctx, &AccountRequest{AccountID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(750), bal.Balance)

	list, err := client.ListTransactions(ctx, &ListTransactionsRequest{AccountID: "alice", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int32(2), list.TotalTransactions)
	require.NotNil(t, list.NextCursor)
	assert.Equal(t, int32(1), *list.NextCursor)
	assert.True(t, list.HasMore)

	list, err = client.ListTransactions(ctx, &ListTransactionsRequest{AccountID: "alice", Cursor: 1})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, "transfer_out", list.Items[0].Type)
	assert.Nil(t, list.NextCursor)

	summary, err := client.GetSummary(ctx, &AccountRequest{AccountID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(250), summary.DailyTransferTotal)
	assert.Equal(t, domain.DailyTransferLimit-250, summary.DailyTransferRemaining)
	assert.Equal(t, int32(2), summary.TransactionCount)
	assert.Equal(t, int32(domain.RateLimitPerWindow-1), summary.RateLimitRemaining)
}

func TestLedgerService_IdempotencyKeyMetadata(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.Deposit(ctx, &AccountAmountRequest{AccountID: "alice", Amount: "1000"})
	require.NoError(t, err)

	keyed := metadata.AppendToOutgoingContext(ctx, IdempotencyKeyMetadata, "grpc-key")
	req := &TransferRequest{FromAccount: "alice", ToAccount: "bob", Amount: "100"}

	first, err := client.Transfer(keyed, req)
	require.NoError(t, err)
	second, err := client.Transfer(keyed, req)
	require.NoError(t, err)
	assert.Equal(t, first.TxID, second.TxID)

	bal, err := client.GetBalance(ctx, &AccountRequest{AccountID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), bal.Balance)
}

func TestLedgerService_ErrorCodes(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	_, err := client.Deposit(ctx, &AccountAmountRequest{AccountID: "alice", Amount: "20000"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		call         func() error
		expectedCode codes.Code
		expectedMsg  string
	}{
		{
			name: "Invalid amount format",
			call: func() error {
				_, err := client.Deposit(ctx, &AccountAmountRequest{AccountID: "alice", Amount: "abc"})
				return err
			},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "invalid amount format",
		},
		{
			name: "Non-positive amount",
			call: func() error {
				_, err := client.Withdraw(ctx, &AccountAmountRequest{AccountID: "alice", Amount: "0"})
				return err
			},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "greater than 0",
		},
		{
			name: "Insufficient funds",
			call: func() error {
				_, err := client.Withdraw(ctx, &AccountAmountRequest{AccountID: "bob", Amount: "1"})
				return err
			},
			expectedCode: codes.FailedPrecondition,
			expectedMsg:  "Insufficient funds",
		},
		{
			name: "Per-transfer limit",
			call: func() error {
				_, err := client.Transfer(ctx, &TransferRequest{FromAccount: "alice", ToAccount: "bob", Amount: "10001"})
				return err
			},
			expectedCode: codes.FailedPrecondition,
			expectedMsg:  "Per-transfer limit exceeded",
		},
		{
			name: "Negative cursor",
			call: func() error {
				_, err := client.ListTransactions(ctx, &ListTransactionsRequest{AccountID: "alice", Cursor: -1})
				return err
			},
			expectedCode: codes.InvalidArgument,
			expectedMsg:  "cursor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			assert.Error(t, err)
			st, ok := status.FromError(err)
			assert.True(t, ok, "error should be a gRPC status")
			assert.Equal(t, tt.expectedCode, st.Code())
			assert.Contains(t, st.Message(), tt.expectedMsg)
		})
	}
}

func TestLedgerService_RateLimited(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	for i := 0; i < domain.RateLimitPerWindow; i++ {
		_, err := client.Transfer(ctx, &TransferRequest{FromAccount: "alice", ToAccount: "bob", Amount: "1"})
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	}

	_, err := client.Transfer(ctx, &TransferRequest{FromAccount: "alice", ToAccount: "bob", Amount: "1"})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{name: "Nil", err: nil, expectedCode: codes.OK},
		{name: "Validation", err: domain.NewValidationError("bad"), expectedCode: codes.InvalidArgument},
		{name: "Daily limit", err: domain.DailyLimitExceeded(25000), expectedCode: codes.FailedPrecondition},
		{name: "Rate limited", err: domain.RateLimited(10), expectedCode: codes.ResourceExhausted},
		{name: "Balance overflow", err: domain.ErrBalanceOverflow, expectedCode: codes.FailedPrecondition},
		{name: "Canceled", err: context.Canceled, expectedCode: codes.Canceled},
		{name: "Unknown", err: errors.New("disk on fire"), expectedCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, status.Code(mapError(tt.err)))
		})
	}
}
