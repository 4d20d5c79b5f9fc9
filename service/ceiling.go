package service

import (
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

type CeilingInput struct {
	AccountAgeMonths int
	CurrentBalance   decimal.Decimal
	AvgMonthlyIncome decimal.Decimal
}

type ceilingRule struct {
	tier    domain.CeilingTier
	applies func(CeilingInput) bool
	limit   func(CeilingInput) decimal.Decimal
}

// ceilingRules are evaluated top to bottom; the first rule that applies wins.
// Only the youngest accounts look at income, later tiers look at balance alone.
var ceilingRules = []ceilingRule{
	{
		tier: domain.TierNewLowIncome,
		applies: func(in CeilingInput) bool {
			return in.AccountAgeMonths < newAccountMonths && in.AvgMonthlyIncome.LessThan(highIncomeThreshold)
		},
		limit: func(CeilingInput) decimal.Decimal { return newLowIncomeCeiling },
	},
	{
		tier: domain.TierNewHighIncome,
		applies: func(in CeilingInput) bool {
			return in.AccountAgeMonths < newAccountMonths
		},
		limit: func(in CeilingInput) decimal.Decimal {
			return decimal.Min(in.CurrentBalance.Mul(newHighIncomeBalanceRate), newHighIncomeCap)
		},
	},
	{
		tier: domain.TierEstablishing,
		applies: func(in CeilingInput) bool {
			return in.AccountAgeMonths < establishingMonths
		},
		limit: func(in CeilingInput) decimal.Decimal {
			return decimal.Min(in.CurrentBalance.Mul(establishingBalanceRate), establishingCap)
		},
	},
	{
		tier:    domain.TierEstablished,
		applies: func(CeilingInput) bool { return true },
		limit: func(in CeilingInput) decimal.Decimal {
			return decimal.Min(in.CurrentBalance.Mul(establishedBalanceRate), establishedCap)
		},
	},
}

// CalculateCeiling returns the deterministic maximum loan amount for an
// account. No scoring output may exceed it.
func CalculateCeiling(in CeilingInput) domain.EligibilityCeiling {
	for _, rule := range ceilingRules {
		if !rule.applies(in) {
			continue
		}
		amount := rule.limit(in)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		return domain.EligibilityCeiling{Tier: rule.tier, Amount: amount}
	}
	return domain.EligibilityCeiling{Tier: domain.TierEstablished, Amount: decimal.Zero}
}

// CeilingFor is CalculateCeiling over a financial summary.
func CeilingFor(summary domain.FinancialSummary) domain.EligibilityCeiling {
	return CalculateCeiling(CeilingInput{
		AccountAgeMonths: summary.AccountAgeMonths,
		CurrentBalance:   summary.CurrentBalance,
		AvgMonthlyIncome: summary.AvgMonthlyIncome,
	})
}
