package memory

import (
	"sync"
	"sync/atomic"

	"github.com/simaogato/ledger-engine/internal/domain"
)

// accountStore implements domain.AccountStore
type accountStore struct {
	accounts sync.Map // string -> *domain.Account
	count    atomic.Int64
}

// NewAccountStore creates an empty account store
func NewAccountStore() domain.AccountStore {
	return &accountStore{}
}

// GetOrCreate returns the existing account or inserts a new one.
// LoadOrStore is the atomic insert-if-absent: when two goroutines race on
// first touch, exactly one account wins and both get it.
func (s *accountStore) GetOrCreate(id string) *domain.Account {
	if acc, ok := s.accounts.Load(id); ok {
		return acc.(*domain.Account)
	}

	acc, loaded := s.accounts.LoadOrStore(id, domain.NewAccount(id))
	if !loaded {
		s.count.Add(1)
	}
	return acc.(*domain.Account)
}

// Get returns the account if it exists
func (s *accountStore) Get(id string) (*domain.Account, bool) {
	acc, ok := s.accounts.Load(id)
	if !ok {
		return nil, false
	}
	return acc.(*domain.Account), true
}

// LockFor returns the lock bound to the account, creating the account if needed
func (s *accountStore) LockFor(id string) sync.Locker {
	return s.GetOrCreate(id)
}

// Len returns the number of accounts
func (s *accountStore) Len() int {
	return int(s.count.Load())
}
