package repository

import (
	"context"

	"loan-eligibility/domain"
)

type LoanRepository interface {
	// Save stores a confirmed loan. A second loan for the same decision
	// fails with domain.ErrDuplicateLoan.
	Save(ctx context.Context, loan domain.Loan) error
	ListByUser(ctx context.Context, userID string) ([]domain.Loan, error)
}
