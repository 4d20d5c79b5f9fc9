package domain

import "github.com/shopspring/decimal"

// FinancialSummary is derived from an account snapshot on every request.
// It is never persisted or cached.
type FinancialSummary struct {
	AccountAgeMonths    int             `json:"accountAgeMonths"`
	CurrentBalance      decimal.Decimal `json:"currentBalance"`
	TotalDeposits       decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals    decimal.Decimal `json:"totalWithdrawals"`
	AvgMonthlyIncome    decimal.Decimal `json:"avgMonthlyIncome"`
	AvgMonthlyExpenses  decimal.Decimal `json:"avgMonthlyExpenses"`
	NetMonthlyCashFlow  decimal.Decimal `json:"netMonthlyCashFlow"`
	TransactionCount    int             `json:"transactionCount"`
	IgnoredTransactions int             `json:"ignoredTransactions"`
}

type CeilingTier string

const (
	TierNewLowIncome  CeilingTier = "A"
	TierNewHighIncome CeilingTier = "B"
	TierEstablishing  CeilingTier = "C"
	TierEstablished   CeilingTier = "D"
)

// EligibilityCeiling is the hard upper bound on any approved amount.
type EligibilityCeiling struct {
	Tier   CeilingTier     `json:"tier"`
	Amount decimal.Decimal `json:"amount"`
}
