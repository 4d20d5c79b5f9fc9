package domain

import "github.com/shopspring/decimal"

// TermOption is a repayment term whose payment the account's cash flow can carry.
type TermOption struct {
	TermMonths     int             `json:"termMonths"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	Coverage       decimal.Decimal `json:"coverage"`
}
