package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
	"loan-eligibility/events"
	"loan-eligibility/observability"
	"loan-eligibility/repository"
)

type EligibilityService struct {
	accounts      repository.AccountRepository
	oracle        ScoringOracle
	decisions     *DecisionStore
	publisher     events.Publisher
	metrics       *observability.Metrics
	logger        logrus.FieldLogger
	oracleTimeout time.Duration
	now           func() time.Time
}

func NewEligibilityService(
	accounts repository.AccountRepository,
	oracle ScoringOracle,
	decisions *DecisionStore,
	publisher events.Publisher,
	metrics *observability.Metrics,
	logger logrus.FieldLogger,
	oracleTimeout time.Duration,
) *EligibilityService {
	return &EligibilityService{
		accounts:      accounts,
		oracle:        oracle,
		decisions:     decisions,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
		oracleTimeout: oracleTimeout,
		now:           time.Now,
	}
}

// Assess produces a loan decision for one request. Every failure is
// returned to the caller; nothing is retried and no decision is invented
// when the data or the oracle's answer is unusable.
func (s *EligibilityService) Assess(
	ctx context.Context,
	userID string,
	req domain.LoanRequest,
) (domain.EligibilityResult, error) {
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)
	req.Purpose = strings.TrimSpace(req.Purpose)
	if req.Purpose == "" {
		req.Purpose = DefaultPurpose
	}
	if req.AccountNumber == "" {
		return domain.EligibilityResult{}, fmt.Errorf("%w: account number is required", domain.ErrAccountNotFound)
	}
	if req.TermMonths <= 0 || req.TermMonths > MaxTermMonths {
		return domain.EligibilityResult{}, domain.ErrInvalidTerm
	}
	if !req.Amount.IsPositive() {
		return domain.EligibilityResult{}, domain.ErrInvalidAmount
	}

	log := s.logger.WithFields(logrus.Fields{
		"account_number": req.AccountNumber,
		"loan_amount":    req.Amount.String(),
		"term_months":    req.TermMonths,
	})

	account, err := s.accounts.FindByNumber(ctx, userID, req.AccountNumber)
	if err != nil {
		return domain.EligibilityResult{}, err
	}
	txs, err := s.accounts.ListTransactions(ctx, account.ID)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("load transactions: %w", err)
	}

	now := s.now().UTC()
	summary, err := BuildFinancialSummary(account, txs, now)
	if err != nil {
		log.WithError(err).Error("Cannot summarise account history")
		return domain.EligibilityResult{}, err
	}
	if summary.IgnoredTransactions > 0 {
		log.WithField("ignored", summary.IgnoredTransactions).Debug("Transactions of other types left out of income and expenses")
	}
	ceiling := CeilingFor(summary)

	result := domain.EligibilityResult{
		DecisionID: uuid.NewString(),
		UserID:     userID,
		AccountID:  account.ID,
		Request:    req,
		AccountDetails: domain.AccountDetails{
			AccountNumber:  account.AccountNumber,
			AccountType:    account.AccountType,
			CurrentBalance: account.Balance,
		},
		Ceiling:    ceiling,
		AssessedAt: now,
	}
	log = log.WithFields(logrus.Fields{"decision_id": result.DecisionID, "tier": ceiling.Tier})

	clamped := false
	if account.Status != "" && account.Status != domain.AccountStatusActive {
		result.Analysis = inactiveAccountDecision(account.Status)
	} else {
		outcome, err := s.consultOracle(ctx, OracleContext{
			Account: account,
			Summary: summary,
			Ceiling: ceiling,
			Request: req,
		})
		if err != nil {
			log.WithError(err).Error("Scoring oracle gave no usable decision")
			s.metrics.Assessment("oracle_error", string(ceiling.Tier))
			return domain.EligibilityResult{}, err
		}
		if outcome.Clamped {
			log.Warn("Oracle proposed more than the ceiling; amount clamped")
			s.metrics.PolicyCorrection("clamp")
		}
		if outcome.Downgraded {
			log.Warn("Oracle approved without an amount; treated as ineligible")
			s.metrics.PolicyCorrection("downgrade")
		}
		clamped = outcome.Clamped
		result.Analysis = withAffordability(outcome.Decision, summary, req)
	}

	if err := s.decisions.Save(ctx, result); err != nil {
		log.WithError(err).Warn("Failed to cache decision; it cannot be confirmed later")
	}
	if err := s.publisher.Publish(ctx, events.NewLoanAssessed(result, clamped)); err != nil {
		log.WithError(err).Warn("Failed to publish assessment event")
	}

	outcome := "ineligible"
	if result.Analysis.Eligible {
		outcome = "eligible"
	}
	s.metrics.Assessment(outcome, string(ceiling.Tier))
	log.WithFields(logrus.Fields{
		"eligible":   result.Analysis.Eligible,
		"max_amount": result.Analysis.MaxLoanAmount.String(),
	}).Info("Loan assessment complete")

	return result, nil
}

func (s *EligibilityService) consultOracle(ctx context.Context, in OracleContext) (PolicyOutcome, error) {
	octx, cancel := context.WithTimeout(ctx, s.oracleTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.oracle.Assess(octx, in)
	s.metrics.OracleCall(time.Since(start), err)
	if err != nil {
		if !errors.Is(err, domain.ErrOracleResponse) {
			err = fmt.Errorf("%w: %v", domain.ErrOracleResponse, err)
		}
		return PolicyOutcome{}, err
	}

	proposal, err := ParseOracleResponse(raw)
	if err != nil {
		return PolicyOutcome{}, err
	}
	return ApplyPolicy(proposal, in.Ceiling, in.Request)
}

func inactiveAccountDecision(status string) domain.LoanDecision {
	return domain.LoanDecision{
		Reasoning:       fmt.Sprintf("Loans are only available on active accounts; this account is %s.", status),
		RiskFactors:     []string{"Account is not active"},
		Recommendations: []string{"Contact support to reactivate the account before applying"},
	}
}

// withAffordability flags approvals whose payment the account's cash flow
// does not cover with enough headroom, and suggests a longer term that does.
func withAffordability(d domain.LoanDecision, summary domain.FinancialSummary, req domain.LoanRequest) domain.LoanDecision {
	if !d.Eligible || CoversPayment(summary.NetMonthlyCashFlow, d.MonthlyPayment) {
		return d
	}

	principal := d.MaxLoanAmount
	if req.Amount.LessThan(principal) {
		principal = req.Amount
	}
	risks := append([]string{}, d.RiskFactors...)
	risks = append(risks, "Net monthly cash flow covers less than 1.5x the monthly payment")
	recs := append([]string{}, d.Recommendations...)

	options := AffordableTerms(principal, d.SuggestedInterestRate, summary.NetMonthlyCashFlow,
		req.TermMonths+1, req.TermMonths*3, 1)
	if len(options) > 0 {
		o := options[0]
		recs = append(recs, fmt.Sprintf("A %d-month term lowers the monthly payment to %s, which your cash flow covers %sx",
			o.TermMonths, o.MonthlyPayment.StringFixed(2), o.Coverage.StringFixed(2)))
	}

	d.RiskFactors = risks
	d.Recommendations = recs
	return d
}
