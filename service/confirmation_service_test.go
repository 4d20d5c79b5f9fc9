package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-eligibility/domain"
	"loan-eligibility/events"
	"loan-eligibility/repository"
)

func newConfirmation(h *harness) *ConfirmationService {
	logger, _ := newNullLogger()
	svc := NewConfirmationService(h.decisions, repository.NewLoanRepositoryMemory(), h.publisher, nil, logger)
	svc.now = func() time.Time { return fixedNow.Add(time.Minute) }
	return svc
}

func TestConfirm_BooksApprovedAmount(t *testing.T) {
	h := newHarness(staticOracle(approval))
	confirm := newConfirmation(h)

	result, err := h.svc.Assess(context.Background(), "user-1", loanRequest("50000", 12))
	require.NoError(t, err)

	loan, err := confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	require.NoError(t, err)

	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, result.DecisionID, loan.DecisionID)
	assert.Equal(t, "acc-1", loan.AccountID)
	assert.Equal(t, domain.LoanStatusApproved, loan.Status)
	assertDecimal(t, "50000", loan.LoanAmount)
	assertDecimal(t, "18", loan.InterestRate)
	assertDecimal(t, "4584", loan.MonthlyPayment)
	assertDecimal(t, "55008", loan.TotalRepayment)
	assert.True(t, fixedNow.Equal(loan.RequestedAt))
	assert.NotEmpty(t, loan.AIAnalysis)

	assert.Equal(t, []string{events.TypeLoanAssessed, events.TypeLoanApproved}, h.publisher.types())

	history, err := confirm.History(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, loan.ID, history[0].ID)
}

func TestConfirm_ApprovedAmountCappedByMaximum(t *testing.T) {
	h := newHarness(staticOracle(`{"eligible": true, "max_loan_amount": 30000, "suggested_interest_rate": 20}`))
	confirm := newConfirmation(h)

	result, err := h.svc.Assess(context.Background(), "user-1", loanRequest("50000", 12))
	require.NoError(t, err)

	loan, err := confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	require.NoError(t, err)
	assertDecimal(t, "30000", loan.LoanAmount)
}

func TestConfirm_DecisionIsSingleUse(t *testing.T) {
	h := newHarness(NewRuleBasedOracle())
	confirm := newConfirmation(h)

	result, err := h.svc.Assess(context.Background(), "user-1", loanRequest("50000", 12))
	require.NoError(t, err)

	_, err = confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	require.NoError(t, err)

	_, err = confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)
}

func TestConfirm_DuplicateLoanIsRejected(t *testing.T) {
	h := newHarness(NewRuleBasedOracle())
	confirm := newConfirmation(h)

	result, err := h.svc.Assess(context.Background(), "user-1", loanRequest("50000", 12))
	require.NoError(t, err)
	_, err = confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	require.NoError(t, err)

	// Simulate a replica that still has the decision cached.
	require.NoError(t, h.decisions.Save(context.Background(), result))
	_, err = confirm.Confirm(context.Background(), "user-1", result.DecisionID)
	assert.ErrorIs(t, err, domain.ErrDuplicateLoan)
}

func TestConfirm_Rejections(t *testing.T) {
	h := newHarness(staticOracle(`{"eligible": false, "max_loan_amount": 0, "suggested_interest_rate": 20}`))
	confirm := newConfirmation(h)

	declined, err := h.svc.Assess(context.Background(), "user-1", loanRequest("50000", 12))
	require.NoError(t, err)

	_, err = confirm.Confirm(context.Background(), "user-1", declined.DecisionID)
	assert.ErrorIs(t, err, domain.ErrDecisionNotEligible)

	_, err = confirm.Confirm(context.Background(), "user-2", declined.DecisionID)
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)

	_, err = confirm.Confirm(context.Background(), "user-1", "no-such-decision")
	assert.ErrorIs(t, err, domain.ErrDecisionNotFound)
}

func TestHistory_EmptyForNewUser(t *testing.T) {
	confirm := newConfirmation(newHarness(NewRuleBasedOracle()))

	history, err := confirm.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, history)
}
