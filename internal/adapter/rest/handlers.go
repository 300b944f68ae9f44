package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledger-engine/internal/domain"
	"github.com/simaogato/ledger-engine/internal/usecase/account"
	"github.com/simaogato/ledger-engine/internal/usecase/transfer"
)

// IdempotencyKeyHeader carries the optional transfer deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// AccountAmountRequest is the body of POST /deposit and POST /withdraw
type AccountAmountRequest struct {
	AccountID string           `json:"account_id" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest is the body of POST /transfer
type TransferRequest struct {
	FromAccount string           `json:"from_account" binding:"required"`
	ToAccount   string           `json:"to_account" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
}

// HistoryQuery holds the pagination parameters of the transactions listing
type HistoryQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Cursor int `form:"cursor,default=0" binding:"min=0"`
}

// EntryResponse is the wire form of a ledger entry
type EntryResponse struct {
	TxID         string    `json:"tx_id"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Timestamp    time.Time `json:"timestamp"`
}

// TransferResponse is returned for executed and replayed transfers alike
type TransferResponse struct {
	TxID   string `json:"tx_id"`
	Status string `json:"status"`
}

// BalanceResponse is the body of GET /balance/:account_id
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// HistoryResponse is one page of an account's transactions
type HistoryResponse struct {
	AccountID         string          `json:"account_id"`
	Items             []EntryResponse `json:"items"`
	TotalTransactions int             `json:"total_transactions"`
	CurrentCursor     int             `json:"current_cursor"`
	NextCursor        *int            `json:"next_cursor"`
	HasMore           bool            `json:"has_more"`
}

// SummaryResponse is the body of GET /accounts/:account_id/summary
type SummaryResponse struct {
	AccountID              string `json:"account_id"`
	Balance                int64  `json:"balance"`
	DailyTransferTotal     int64  `json:"daily_transfer_total"`
	DailyTransferLimit     int64  `json:"daily_transfer_limit"`
	DailyTransferRemaining int64  `json:"daily_transfer_remaining"`
	TransactionCount       int    `json:"transaction_count"`
	RateLimitRemaining     int    `json:"rate_limit_remaining"`
}

// GET /health
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /balance/:account_id
func (s *Server) getBalance(c *gin.Context) {
	result, err := s.AccountService.GetBalance(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{AccountID: result.AccountID, Balance: result.Balance})
}

// POST /deposit
func (s *Server) deposit(c *gin.Context) {
	accountID, amount, ok := s.bindAccountAmount(c)
	if !ok {
		return
	}
	entry, err := s.TransferService.Deposit(c.Request.Context(), accountID, amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(*entry))
}

// POST /withdraw
func (s *Server) withdraw(c *gin.Context) {
	accountID, amount, ok := s.bindAccountAmount(c)
	if !ok {
		return
	}
	entry, err := s.TransferService.Withdraw(c.Request.Context(), accountID, amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEntryResponse(*entry))
}

// POST /transfer
func (s *Server) transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}
	amount, err := domain.ParseAmount(*req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}

	receipt, err := s.TransferService.Transfer(c.Request.Context(), transfer.TransferInput{
		From:           req.FromAccount,
		To:             req.ToAccount,
		Amount:         amount,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransferResponse{TxID: receipt.TxID, Status: receipt.Status})
}

// GET /accounts/:account_id/transactions
func (s *Server) listTransactions(c *gin.Context) {
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.writeError(c, bindError(err))
		return
	}

	page, err := s.AccountService.GetHistory(c.Request.Context(), c.Param("account_id"), query.Cursor, query.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHistoryResponse(page))
}

// GET /accounts/:account_id/summary
func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.AccountService.GetSummary(c.Request.Context(), c.Param("account_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{
		AccountID:              summary.AccountID,
		Balance:                summary.Balance,
		DailyTransferTotal:     summary.DailyTotal,
		DailyTransferLimit:     summary.DailyLimit,
		DailyTransferRemaining: summary.DailyRemaining,
		TransactionCount:       summary.TransactionCount,
		RateLimitRemaining:     summary.RateRemaining,
	})
}

func (s *Server) bindAccountAmount(c *gin.Context) (string, int64, bool) {
	var req AccountAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return "", 0, false
	}
	amount, err := domain.ParseAmount(*req.Amount)
	if err != nil {
		s.writeError(c, err)
		return "", 0, false
	}
	return req.AccountID, amount, true
}

func toEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		TxID:         e.TxID,
		Type:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Timestamp:    e.Timestamp,
	}
}

func toHistoryResponse(page *account.Page) HistoryResponse {
	items := make([]EntryResponse, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, toEntryResponse(e))
	}
	return HistoryResponse{
		AccountID:         page.AccountID,
		Items:             items,
		TotalTransactions: page.Total,
		CurrentCursor:     page.Cursor,
		NextCursor:        page.NextCursor,
		HasMore:           page.HasMore,
	}
}
