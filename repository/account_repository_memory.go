package repository

import (
	"context"
	"sync"

	"loan-eligibility/domain"
)

type AccountRepositoryMemory struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	transactions map[string][]domain.Transaction
}

func NewAccountRepositoryMemory() *AccountRepositoryMemory {
	return &AccountRepositoryMemory{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string][]domain.Transaction),
	}
}

// AddAccount seeds an account, keyed by account number.
func (r *AccountRepositoryMemory) AddAccount(a domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[a.AccountNumber] = a
}

func (r *AccountRepositoryMemory) AddTransactions(accountID string, txs ...domain.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[accountID] = append(r.transactions[accountID], txs...)
}

func (r *AccountRepositoryMemory) FindByNumber(_ context.Context, userID, accountNumber string) (domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[accountNumber]
	if !ok || a.UserID != userID {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *AccountRepositoryMemory) ListTransactions(_ context.Context, accountID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txs := r.transactions[accountID]
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}
