package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-eligibility/domain"
)

func TestAccountRepositoryMemory_ScopedToOwner(t *testing.T) {
	repo := NewAccountRepositoryMemory()
	repo.AddAccount(domain.Account{ID: "a1", UserID: "u1", AccountNumber: "111", Balance: decimal.NewFromInt(10)})
	ctx := context.Background()

	got, err := repo.FindByNumber(ctx, "u1", "111")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = repo.FindByNumber(ctx, "u2", "111")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.FindByNumber(ctx, "u1", "222")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepositoryMemory_TransactionsAreCopied(t *testing.T) {
	repo := NewAccountRepositoryMemory()
	repo.AddTransactions("a1", domain.Transaction{ID: "t1", Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(5)})

	txs, err := repo.ListTransactions(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	txs[0].ID = "changed"

	again, _ := repo.ListTransactions(context.Background(), "a1")
	assert.Equal(t, "t1", again[0].ID)
}
