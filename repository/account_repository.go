package repository

import (
	"context"

	"loan-eligibility/domain"
)

// AccountRepository is read-only from the engine's point of view.
type AccountRepository interface {
	// FindByNumber returns domain.ErrAccountNotFound unless the account
	// exists and belongs to userID.
	FindByNumber(ctx context.Context, userID, accountNumber string) (domain.Account, error)
	ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
}
