package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

// AffordableTerms lists terms between minTerm and maxTerm whose payment is
// covered debtServiceCoverage times by the monthly net cash flow, cheapest
// total interest first.
func AffordableTerms(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	netMonthlyCashFlow decimal.Decimal,
	minTerm, maxTerm, limit int,
) []domain.TermOption {
	if !netMonthlyCashFlow.IsPositive() || minTerm <= 0 || maxTerm < minTerm || limit <= 0 {
		return nil
	}
	maxTerm = min(maxTerm, MaxTermMonths)

	options := []domain.TermOption{}
	for term := minTerm; term <= maxTerm; term++ {
		payment, err := CalculatePayment(principal, annualRatePercent, term)
		if err != nil || !payment.MonthlyPayment.IsPositive() {
			continue
		}
		coverage := netMonthlyCashFlow.Div(payment.MonthlyPayment)
		if coverage.LessThan(debtServiceCoverage) {
			continue
		}
		options = append(options, domain.TermOption{
			TermMonths:     term,
			MonthlyPayment: payment.MonthlyPayment,
			TotalInterest:  payment.TotalInterest,
			Coverage:       coverage.Round(2),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalInterest.LessThan(options[j].TotalInterest)
	})

	if len(options) > limit {
		options = options[:limit]
	}
	return options
}

// CoversPayment reports whether net cash flow carries a payment with the
// required headroom.
func CoversPayment(netMonthlyCashFlow, monthlyPayment decimal.Decimal) bool {
	if !monthlyPayment.IsPositive() {
		return true
	}
	return netMonthlyCashFlow.GreaterThanOrEqual(monthlyPayment.Mul(debtServiceCoverage))
}
