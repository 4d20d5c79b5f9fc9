package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

const (
	TypeLoanAssessed = "loan.assessed"
	TypeLoanApproved = "loan.approved"
)

// Event is the envelope written to the event stream.
type Event struct {
	ID         string    `json:"eventId"`
	Type       string    `json:"eventType"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evts ...Event) error
}

type LoanAssessed struct {
	DecisionID      string          `json:"decisionId"`
	AccountNumber   string          `json:"accountNumber"`
	Eligible        bool            `json:"eligible"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	MaxLoanAmount   decimal.Decimal `json:"maxLoanAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	Tier            string          `json:"tier"`
	Ceiling         decimal.Decimal `json:"ceiling"`
	Clamped         bool            `json:"clamped"`
}

type LoanApproved struct {
	LoanID         string          `json:"loanId"`
	DecisionID     string          `json:"decisionId"`
	AccountID      string          `json:"accountId"`
	LoanAmount     decimal.Decimal `json:"loanAmount"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	TermMonths     int             `json:"termMonths"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
}

func NewLoanAssessed(r domain.EligibilityResult, clamped bool) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeLoanAssessed,
		Key:        r.Request.AccountNumber,
		OccurredAt: r.AssessedAt,
		Payload: LoanAssessed{
			DecisionID:      r.DecisionID,
			AccountNumber:   r.Request.AccountNumber,
			Eligible:        r.Analysis.Eligible,
			RequestedAmount: r.Request.Amount,
			MaxLoanAmount:   r.Analysis.MaxLoanAmount,
			InterestRate:    r.Analysis.SuggestedInterestRate,
			Tier:            string(r.Ceiling.Tier),
			Ceiling:         r.Ceiling.Amount,
			Clamped:         clamped,
		},
	}
}

func NewLoanApproved(l domain.Loan) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeLoanApproved,
		Key:        l.AccountID,
		OccurredAt: l.DecisionAt,
		Payload: LoanApproved{
			LoanID:         l.ID,
			DecisionID:     l.DecisionID,
			AccountID:      l.AccountID,
			LoanAmount:     l.LoanAmount,
			InterestRate:   l.InterestRate,
			TermMonths:     l.LoanTermMonths,
			MonthlyPayment: l.MonthlyPayment,
		},
	}
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
