package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"loanAmount"`
	Purpose       string          `json:"loanPurpose"`
	TermMonths    int             `json:"loanTermMonths"`
}

type LoanDecision struct {
	Eligible              bool            `json:"eligible"`
	MaxLoanAmount         decimal.Decimal `json:"max_loan_amount"`
	SuggestedInterestRate decimal.Decimal `json:"suggested_interest_rate"`
	MonthlyPayment        decimal.Decimal `json:"monthly_payment"`
	Reasoning             string          `json:"reasoning"`
	RiskFactors           []string        `json:"risk_factors"`
	ApprovalConfidence    int             `json:"approval_confidence"`
	Recommendations       []string        `json:"recommendations"`
}

// EligibilityResult is what an assessment hands back to the caller.
type EligibilityResult struct {
	DecisionID     string             `json:"decisionId"`
	UserID         string             `json:"-"`
	AccountID      string             `json:"-"`
	Request        LoanRequest        `json:"request"`
	Analysis       LoanDecision       `json:"analysis"`
	AccountDetails AccountDetails     `json:"accountDetails"`
	Ceiling        EligibilityCeiling `json:"ceiling"`
	AssessedAt     time.Time          `json:"assessedAt"`
}

// ApprovedAmount is the smaller of what was asked for and what the decision allows.
func (r EligibilityResult) ApprovedAmount() decimal.Decimal {
	if !r.Analysis.Eligible {
		return decimal.Zero
	}
	return decimal.Min(r.Request.Amount, r.Analysis.MaxLoanAmount)
}

type PaymentInput struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`
}

type PaymentSummary struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalRepayment decimal.Decimal `json:"totalRepayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
}

type ScheduleEntry struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"dueDate"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

const LoanStatusApproved = "approved"

// Loan is a confirmed decision as stored in the loans table.
type Loan struct {
	ID             string          `json:"id"`
	DecisionID     string          `json:"decision_id"`
	UserID         string          `json:"user_id"`
	AccountID      string          `json:"account_id"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	LoanPurpose    string          `json:"loan_purpose"`
	LoanTermMonths int             `json:"loan_term_months"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	Status         string          `json:"status"`
	AIAnalysis     []byte          `json:"-"`
	RequestedAt    time.Time       `json:"requested_at"`
	DecisionAt     time.Time       `json:"decision_at"`
	CreatedAt      time.Time       `json:"created_at"`
}
