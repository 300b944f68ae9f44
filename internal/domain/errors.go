package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, machine-checkable class of a rejection
type ErrorKind string

const (
	KindValidation          ErrorKind = "validation_error"
	KindInsufficientFunds   ErrorKind = "insufficient_funds"
	KindPerTransferExceeded ErrorKind = "per_transfer_limit_exceeded"
	KindDailyLimitExceeded  ErrorKind = "daily_limit_exceeded"
	KindRateLimited         ErrorKind = "rate_limited"
	KindBalanceOverflow     ErrorKind = "balance_overflow"
)

// Error is a rejection returned by the engine.
// Every rejection is terminal for the call and leaves no balance or
// ledger mutation behind.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is
// whatever the detail text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors, one per kind.
var (
	ErrValidation          = &Error{Kind: KindValidation, Detail: "invalid request"}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds, Detail: "Insufficient funds"}
	ErrPerTransferExceeded = &Error{Kind: KindPerTransferExceeded, Detail: "Per-transfer limit exceeded"}
	ErrDailyLimitExceeded  = &Error{Kind: KindDailyLimitExceeded, Detail: "Daily transfer limit exceeded"}
	ErrRateLimited         = &Error{Kind: KindRateLimited, Detail: "Rate limit exceeded"}
	ErrBalanceOverflow     = &Error{Kind: KindBalanceOverflow, Detail: "Balance would exceed the maximum supported amount"}
)

// NewValidationError builds a validation rejection with a formatted detail
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// PerTransferExceeded reports the ceiling that was crossed
func PerTransferExceeded(limit int64) *Error {
	return &Error{Kind: KindPerTransferExceeded, Detail: fmt.Sprintf("Per-transfer limit exceeded: max %d", limit)}
}

// DailyLimitExceeded reports the daily ceiling that was crossed
func DailyLimitExceeded(limit int64) *Error {
	return &Error{Kind: KindDailyLimitExceeded, Detail: fmt.Sprintf("Daily transfer limit exceeded: max %d", limit)}
}

// RateLimited reports the per-window transfer allowance
func RateLimited(limit int) *Error {
	return &Error{Kind: KindRateLimited, Detail: fmt.Sprintf("Rate limit exceeded: max %d transfers per minute", limit)}
}

// KindOf returns the kind of a domain rejection, or "" for other errors
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return ""
}
