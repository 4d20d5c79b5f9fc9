package domain

import "github.com/shopspring/decimal"

type LoanIntent struct {
	Amount     decimal.Decimal `json:"loanAmount"`
	Purpose    string          `json:"loanPurpose"`
	TermMonths int             `json:"loanTermMonths"`
}

// IntentState accumulates what a borrower has said across chat turns.
// It is passed in and returned by value on every turn.
type IntentState struct {
	Amount     decimal.Decimal `json:"loanAmount"`
	HasAmount  bool            `json:"hasAmount"`
	Purpose    string          `json:"loanPurpose,omitempty"`
	TermMonths int             `json:"loanTermMonths,omitempty"`
	Turns      int             `json:"turns"`
}
