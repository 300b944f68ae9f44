package domain

import (
	"errors"
	"time"
)

// EntryKind represents the kind of balance change recorded by a ledger entry
type EntryKind string

const (
	EntryKindDeposit     EntryKind = "deposit"
	EntryKindWithdrawal  EntryKind = "withdrawal"
	EntryKindTransferOut EntryKind = "transfer_out"
	EntryKindTransferIn  EntryKind = "transfer_in"
)

// TransferStatusSuccess is the only status a completed transfer reports
const TransferStatusSuccess = "success"

// LedgerEntry represents one immutable balance change of a single account
type LedgerEntry struct {
	TxID         string
	Kind         EntryKind
	Amount       int64 // SIGNED: positive for credits, negative for debits
	BalanceAfter int64
	Timestamp    time.Time
}

// IsDebit reports whether the entry removed funds from the account
func (e LedgerEntry) IsDebit() bool {
	return e.Amount < 0
}

// TransferReceipt is the response of a successful transfer.
// It is what the idempotency cache replays for a repeated key.
type TransferReceipt struct {
	TxID   string
	Status string
}

// Transfer represents a money movement between two accounts.
// It is never stored; it produces a pair of ledger entries.
type Transfer struct {
	TxID      string
	From      string
	To        string
	Amount    int64
	Timestamp time.Time
}

// Legs builds the debit and credit entries for the transfer.
// fromBalance and toBalance are the balances after the transfer applies.
func (t Transfer) Legs(fromBalance, toBalance int64) (out LedgerEntry, in LedgerEntry) {
	out = LedgerEntry{
		TxID:         t.TxID,
		Kind:         EntryKindTransferOut,
		Amount:       -t.Amount,
		BalanceAfter: fromBalance,
		Timestamp:    t.Timestamp,
	}
	in = LedgerEntry{
		TxID:         t.TxID,
		Kind:         EntryKindTransferIn,
		Amount:       t.Amount,
		BalanceAfter: toBalance,
		Timestamp:    t.Timestamp,
	}
	return out, in
}

// ValidateLegs ensures a transfer pair is balanced.
// CRITICAL: both legs share a transaction id and timestamp, and the debit
// equals the credit so transfers net to zero across the ledger.
func ValidateLegs(out, in LedgerEntry) error {
	if out.Kind != EntryKindTransferOut || in.Kind != EntryKindTransferIn {
		return errors.New("transfer legs must be transfer_out and transfer_in")
	}
	if out.TxID == "" || out.TxID != in.TxID {
		return errors.New("transfer legs must share one transaction id")
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		return errors.New("transfer legs must share one timestamp")
	}
	if in.Amount <= 0 {
		return errors.New("transfer amount must be positive")
	}
	if out.Amount+in.Amount != 0 {
		return errors.New("sum of debits must equal sum of credits for transfer")
	}
	return nil
}
