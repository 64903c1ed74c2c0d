package memory

import (
	"sync"

	"github.com/LevBernstein/BeardlessBot-sub000/models"
)

// Store is an in-process ledger. Nothing survives a restart; it backs
// LEDGER_BACKEND=memory and the concurrency tests.
type Store struct {
	mu            sync.RWMutex
	accounts      map[int64]*models.Account
	history       []*models.BalanceHistory
	nextAccountID int64
	nextHistoryID int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*models.Account),
	}
}

// Len returns the number of registered accounts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *Store) account(discordID int64) *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[discordID]; ok {
		return copyAccount(account)
	}
	return nil
}

func (s *Store) allocateAccountID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAccountID++
	return s.nextAccountID
}

func (s *Store) allocateHistoryID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHistoryID++
	return s.nextHistoryID
}

// apply writes a committed unit of work in one critical section
func (s *Store) apply(accounts map[int64]*models.Account, history []*models.BalanceHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, account := range accounts {
		s.accounts[id] = copyAccount(account)
	}
	for _, entry := range history {
		s.history = append(s.history, copyHistory(entry))
	}
}

func copyAccount(a *models.Account) *models.Account {
	c := *a
	return &c
}

func copyHistory(h *models.BalanceHistory) *models.BalanceHistory {
	c := *h
	if h.TransactionMetadata != nil {
		c.TransactionMetadata = make(map[string]any, len(h.TransactionMetadata))
		for k, v := range h.TransactionMetadata {
			c.TransactionMetadata[k] = v
		}
	}
	return &c
}
