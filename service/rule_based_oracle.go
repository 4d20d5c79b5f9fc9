package service

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

var tierRates = map[domain.CeilingTier]decimal.Decimal{
	domain.TierNewLowIncome:  decimal.NewFromInt(24),
	domain.TierNewHighIncome: decimal.NewFromInt(20),
	domain.TierEstablishing:  decimal.NewFromInt(18),
	domain.TierEstablished:   decimal.NewFromInt(15),
}

// RuleBasedOracle answers without any network call. It stands in for the
// language model when no API key is configured and gives tests a
// deterministic oracle.
type RuleBasedOracle struct{}

func NewRuleBasedOracle() *RuleBasedOracle {
	return &RuleBasedOracle{}
}

func (RuleBasedOracle) Assess(_ context.Context, in OracleContext) (string, error) {
	rate, ok := tierRates[in.Ceiling.Tier]
	if !ok {
		rate = tierRates[domain.TierNewLowIncome]
	}

	risks := []string{}
	if in.Summary.AccountAgeMonths < 1 {
		risks = append(risks, "Account history is shorter than one month")
	}
	if in.Summary.TransactionCount < 3 {
		risks = append(risks, "Fewer than three transactions on record")
	}
	if !in.Summary.NetMonthlyCashFlow.IsPositive() {
		risks = append(risks, "Monthly expenses meet or exceed monthly income")
	}
	if in.Request.Amount.GreaterThan(in.Ceiling.Amount) {
		risks = append(risks, fmt.Sprintf("Requested amount exceeds the %s limit for this account", in.Ceiling.Amount.StringFixed(2)))
	}

	eligible := in.Ceiling.Amount.IsPositive() && in.Summary.CurrentBalance.IsPositive()
	maxAmount := decimal.Zero
	reasoning := "The account has no positive balance to support a loan."
	if eligible {
		maxAmount = decimal.Min(in.Request.Amount, in.Ceiling.Amount)
		reasoning = fmt.Sprintf("Account is %d months old with a balance of %s; tier %s allows up to %s.",
			in.Summary.AccountAgeMonths, in.Summary.CurrentBalance.StringFixed(2), in.Ceiling.Tier, in.Ceiling.Amount.StringFixed(2))
	}

	confidence := float64(max(90-15*len(risks), 10))
	recommendations := []string{"Keep regular deposits flowing into this account to raise your limit"}

	body, err := json.Marshal(OracleProposal{
		Eligible:              &eligible,
		MaxLoanAmount:         &maxAmount,
		SuggestedInterestRate: &rate,
		Reasoning:             reasoning,
		RiskFactors:           risks,
		ApprovalConfidence:    &confidence,
		Recommendations:       recommendations,
	})
	if err != nil {
		return "", fmt.Errorf("encode rule-based proposal: %w", err)
	}
	return string(body), nil
}
