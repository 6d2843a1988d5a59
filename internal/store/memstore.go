package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// MemStore is an in-memory Store for local development and tests. It mimics
// the backing tier's per-request atomicity: every call either fully applies
// or fully fails, and there is no coordination across calls.
type MemStore struct {
	mu           sync.RWMutex
	accounts     map[string]models.Account
	transactions map[string][]models.Transaction
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts:     make(map[string]models.Account),
		transactions: make(map[string][]models.Transaction),
	}
}

func (s *MemStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return models.ErrAccountExists
	}
	s.accounts[account.AccountID] = *account
	return nil
}

func (s *MemStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, models.ErrAccountNotFound
	}
	return &account, nil
}

func (s *MemStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].AccountID < accounts[j].AccountID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *MemStore) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return models.ErrAccountNotFound
	}
	account.Balance = balance
	s.accounts[accountID] = account
	return nil
}

func (s *MemStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.AccountID] = append(s.transactions[tx.AccountID], *tx)
	return nil
}

// ListTransactions returns an account's records in append order, which is
// chronological for a single store instance.
func (s *MemStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := make([]models.Transaction, len(s.transactions[accountID]))
	copy(txs, s.transactions[accountID])
	return txs, nil
}
