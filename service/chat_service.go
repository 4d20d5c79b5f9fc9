package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

const amountPrompt = "I couldn't understand the loan amount. Please specify the amount you need. For example: 'I need ₦20,000 for business'"

type ChatTurn struct {
	AccountNumber string             `json:"accountNumber"`
	Message       string             `json:"message"`
	State         domain.IntentState `json:"state"`
}

type ChatReply struct {
	Reply  string                    `json:"reply"`
	State  domain.IntentState        `json:"state"`
	Result *domain.EligibilityResult `json:"result,omitempty"`
}

// ChatService runs the conversational front end. It keeps no session of
// its own: the caller sends back the state returned by the previous turn.
type ChatService struct {
	eligibility *EligibilityService
}

func NewChatService(eligibility *EligibilityService) *ChatService {
	return &ChatService{eligibility: eligibility}
}

func (s *ChatService) HandleTurn(ctx context.Context, userID string, turn ChatTurn) (ChatReply, error) {
	state := FoldIntent(turn.State, turn.Message)

	intent, err := IntentFromState(state)
	if errors.Is(err, domain.ErrAmountNotUnderstood) {
		return ChatReply{Reply: amountPrompt, State: state}, nil
	}
	if err != nil {
		return ChatReply{State: state}, err
	}

	result, err := s.eligibility.Assess(ctx, userID, domain.LoanRequest{
		AccountNumber: turn.AccountNumber,
		Amount:        intent.Amount,
		Purpose:       intent.Purpose,
		TermMonths:    intent.TermMonths,
	})
	if err != nil {
		return ChatReply{State: state}, err
	}
	return ChatReply{Reply: DecisionReply(result), State: state, Result: &result}, nil
}

// DecisionReply phrases a decision for the borrower.
func DecisionReply(r domain.EligibilityResult) string {
	a := r.Analysis
	if !a.Eligible {
		return "I've reviewed your application. Unfortunately, I cannot approve the requested loan amount at this time.\n\n" + a.Reasoning
	}
	return fmt.Sprintf(
		"Great news! You're eligible for a loan. Based on your account history, I can approve up to %s at %s%% annual interest rate.\n\n%s\n\nYour monthly payment would be approximately %s.",
		formatMoney(a.MaxLoanAmount), a.SuggestedInterestRate.String(), a.Reasoning, formatMoney(a.MonthlyPayment.Round(0)),
	)
}

// formatMoney renders whole naira with thousands separators, e.g. ₦20,000.
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).Abs().String()
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	sign := ""
	if d.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "₦" + b.String()
}
