package service

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")
	bareObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// OracleProposal is the oracle's answer before policy is applied. Pointer
// fields distinguish "absent" from zero.
type OracleProposal struct {
	Eligible              *bool            `json:"eligible"`
	MaxLoanAmount         *decimal.Decimal `json:"max_loan_amount"`
	SuggestedInterestRate *decimal.Decimal `json:"suggested_interest_rate"`
	MonthlyPayment        *decimal.Decimal `json:"monthly_payment,omitempty"`
	Reasoning             string           `json:"reasoning"`
	RiskFactors           []string         `json:"risk_factors"`
	ApprovalConfidence    *float64         `json:"approval_confidence"`
	Recommendations       []string         `json:"recommendations"`
}

// ParseOracleResponse pulls the JSON object out of raw oracle text, which
// may be wrapped in a markdown code fence.
func ParseOracleResponse(raw string) (OracleProposal, error) {
	body := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(body); m != nil {
		body = m[1]
	} else if m := bareObject.FindString(body); m != "" {
		body = m
	}
	if body == "" {
		return OracleProposal{}, fmt.Errorf("%w: empty response", domain.ErrOracleResponse)
	}

	var p OracleProposal
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return OracleProposal{}, fmt.Errorf("%w: %v", domain.ErrOracleResponse, err)
	}

	switch {
	case p.Eligible == nil:
		return OracleProposal{}, fmt.Errorf("%w: missing eligible", domain.ErrOracleResponse)
	case p.MaxLoanAmount == nil:
		return OracleProposal{}, fmt.Errorf("%w: missing max_loan_amount", domain.ErrOracleResponse)
	case p.SuggestedInterestRate == nil:
		return OracleProposal{}, fmt.Errorf("%w: missing suggested_interest_rate", domain.ErrOracleResponse)
	case !p.SuggestedInterestRate.IsPositive():
		return OracleProposal{}, fmt.Errorf("%w: suggested_interest_rate %s is not positive", domain.ErrOracleResponse, p.SuggestedInterestRate)
	case p.SuggestedInterestRate.GreaterThan(maxInterestRate):
		return OracleProposal{}, fmt.Errorf("%w: suggested_interest_rate %s exceeds %s", domain.ErrOracleResponse, p.SuggestedInterestRate, maxInterestRate)
	}
	return p, nil
}

// PolicyOutcome is a decision plus what policy had to correct to reach it.
type PolicyOutcome struct {
	Decision domain.LoanDecision
	// Clamped is set when the oracle proposed more than the ceiling allows.
	Clamped bool
	// Downgraded is set when an eligible proposal carried no usable amount.
	Downgraded bool
}

// ApplyPolicy bounds an oracle proposal by the ceiling. The oracle never
// decides the amount on its own: max_loan_amount is clamped to
// [0, ceiling], an approval without an amount becomes a decline, and the
// monthly payment is recomputed rather than taken from the oracle.
func ApplyPolicy(
	p OracleProposal,
	ceiling domain.EligibilityCeiling,
	req domain.LoanRequest,
) (PolicyOutcome, error) {
	var out PolicyOutcome

	maxAmount := *p.MaxLoanAmount
	if maxAmount.GreaterThan(ceiling.Amount) {
		maxAmount = ceiling.Amount
		out.Clamped = true
	}
	if maxAmount.IsNegative() {
		maxAmount = decimal.Zero
	}

	eligible := *p.Eligible
	if eligible && !maxAmount.IsPositive() {
		eligible = false
		out.Downgraded = true
	}

	confidence := 0
	if p.ApprovalConfidence != nil && !math.IsNaN(*p.ApprovalConfidence) {
		confidence = int(math.Round(math.Max(0, math.Min(MaxConfidence, *p.ApprovalConfidence))))
	}

	payment := decimal.Zero
	if eligible {
		summary, err := CalculatePayment(decimal.Min(req.Amount, maxAmount), *p.SuggestedInterestRate, req.TermMonths)
		if err != nil {
			return PolicyOutcome{}, fmt.Errorf("%w: price approved amount: %v", domain.ErrOracleResponse, err)
		}
		payment = summary.MonthlyPayment
	}

	out.Decision = domain.LoanDecision{
		Eligible:              eligible,
		MaxLoanAmount:         maxAmount,
		SuggestedInterestRate: *p.SuggestedInterestRate,
		MonthlyPayment:        payment,
		Reasoning:             p.Reasoning,
		RiskFactors:           nonNil(p.RiskFactors),
		ApprovalConfidence:    confidence,
		Recommendations:       nonNil(p.Recommendations),
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
