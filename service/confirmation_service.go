package service

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
	"loan-eligibility/events"
	"loan-eligibility/observability"
	"loan-eligibility/repository"
)

// ConfirmationService turns an eligible decision into a stored loan.
type ConfirmationService struct {
	decisions *DecisionStore
	loans     repository.LoanRepository
	publisher events.Publisher
	metrics   *observability.Metrics
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewConfirmationService(
	decisions *DecisionStore,
	loans repository.LoanRepository,
	publisher events.Publisher,
	metrics *observability.Metrics,
	logger logrus.FieldLogger,
) *ConfirmationService {
	return &ConfirmationService{
		decisions: decisions,
		loans:     loans,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Confirm books the loan for a cached decision. The loan amount is the
// smaller of the requested and the approved maximum. Confirming the same
// decision twice fails with domain.ErrDuplicateLoan.
func (s *ConfirmationService) Confirm(ctx context.Context, userID, decisionID string) (domain.Loan, error) {
	r, err := s.decisions.Load(ctx, decisionID)
	if err != nil {
		return domain.Loan{}, err
	}
	if r.UserID != userID {
		return domain.Loan{}, domain.ErrDecisionNotFound
	}
	if !r.Analysis.Eligible {
		return domain.Loan{}, domain.ErrDecisionNotEligible
	}

	amount := r.ApprovedAmount()
	payment, err := CalculatePayment(amount, r.Analysis.SuggestedInterestRate, r.Request.TermMonths)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("price loan: %w", err)
	}
	analysis, err := json.Marshal(r.Analysis)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("encode analysis: %w", err)
	}

	now := s.now().UTC()
	loan := domain.Loan{
		ID:             uuid.NewString(),
		DecisionID:     r.DecisionID,
		UserID:         userID,
		AccountID:      r.AccountID,
		LoanAmount:     amount,
		LoanPurpose:    r.Request.Purpose,
		LoanTermMonths: r.Request.TermMonths,
		InterestRate:   r.Analysis.SuggestedInterestRate,
		MonthlyPayment: payment.MonthlyPayment,
		TotalRepayment: payment.TotalRepayment,
		Status:         domain.LoanStatusApproved,
		AIAnalysis:     analysis,
		RequestedAt:    r.AssessedAt,
		DecisionAt:     now,
		CreatedAt:      now,
	}
	if err := s.loans.Save(ctx, loan); err != nil {
		return domain.Loan{}, err
	}

	log := s.logger.WithFields(logrus.Fields{"decision_id": decisionID, "loan_id": loan.ID})
	if err := s.decisions.Delete(ctx, decisionID); err != nil {
		log.WithError(err).Warn("Failed to evict confirmed decision")
	}
	if err := s.publisher.Publish(ctx, events.NewLoanApproved(loan)); err != nil {
		log.WithError(err).Warn("Failed to publish approval event")
	}
	s.metrics.Confirmation()
	log.Info("Loan confirmed")

	return loan, nil
}

func (s *ConfirmationService) History(ctx context.Context, userID string) ([]domain.Loan, error) {
	loans, err := s.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}
