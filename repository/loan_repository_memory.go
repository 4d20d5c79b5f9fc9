package repository

import (
	"context"
	"sort"
	"sync"

	"loan-eligibility/domain"
)

// LoanRepositoryMemory is an in-memory implementation of LoanRepository.
type LoanRepositoryMemory struct {
	mu         sync.RWMutex
	data       []domain.Loan
	byDecision map[string]struct{}
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{
		data:       []domain.Loan{},
		byDecision: make(map[string]struct{}),
	}
}

// Save stores the loan in memory.
func (r *LoanRepositoryMemory) Save(_ context.Context, loan domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byDecision[loan.DecisionID]; dup {
		return domain.ErrDuplicateLoan
	}
	r.byDecision[loan.DecisionID] = struct{}{}
	r.data = append(r.data, loan)
	return nil
}

func (r *LoanRepositoryMemory) ListByUser(_ context.Context, userID string) ([]domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loans := []domain.Loan{}
	for _, l := range r.data {
		if l.UserID == userID {
			loans = append(loans, l)
		}
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].CreatedAt.After(loans[j].CreatedAt)
	})
	return loans, nil
}
