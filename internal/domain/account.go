package domain

import (
	"math"
	"sync"
)

// Account represents a ledger account in the domain layer.
// Balance is held in the smallest currency unit.
// The account is its own lock: callers acquire it before reading or
// mutating the balance, the store never does.
type Account struct {
	ID string

	mu      sync.Mutex
	balance int64
}

// NewAccount creates an account with a zero balance
func NewAccount(id string) *Account {
	return &Account{ID: id}
}

// Lock acquires the account's exclusive lock
func (a *Account) Lock() { a.mu.Lock() }

// Unlock releases the account's exclusive lock
func (a *Account) Unlock() { a.mu.Unlock() }

// Balance returns the current balance. Caller must hold the lock.
func (a *Account) Balance() int64 {
	return a.balance
}

// CanCredit reports whether amount can be added without overflowing the
// balance. Caller must hold the lock.
func (a *Account) CanCredit(amount int64) bool {
	return amount <= math.MaxInt64-a.balance
}

// Credit increases the balance. Caller must hold the lock and must have
// checked CanCredit beforehand.
func (a *Account) Credit(amount int64) int64 {
	a.balance += amount
	return a.balance
}

// Debit decreases the balance. Caller must hold the lock and must have
// checked funds beforehand.
func (a *Account) Debit(amount int64) int64 {
	a.balance -= amount
	return a.balance
}

// Snapshot returns the balance, taking the lock for the duration of the read
func (a *Account) Snapshot() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}
