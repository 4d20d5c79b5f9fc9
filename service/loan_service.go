package service

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

var hundred = decimal.NewFromInt(100)

// CalculatePayment returns the level monthly payment for a fully amortizing
// loan: P = L*c*(1+c)^n / ((1+c)^n - 1) with c the monthly rate. A zero rate
// splits the principal evenly instead.
func CalculatePayment(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
) (domain.PaymentSummary, error) {
	if termMonths <= 0 {
		return domain.PaymentSummary{}, domain.ErrInvalidTerm
	}
	if !principal.IsPositive() {
		return domain.PaymentSummary{}, domain.ErrInvalidAmount
	}
	if annualRatePercent.IsNegative() {
		return domain.PaymentSummary{}, domain.ErrInvalidRate
	}

	n := decimal.NewFromInt(int64(termMonths))

	var payment decimal.Decimal
	if annualRatePercent.IsZero() {
		payment = principal.Div(n)
	} else {
		c := annualRatePercent.InexactFloat64() / 100 / 12
		factor := math.Pow(1+c, float64(termMonths))
		p := principal.InexactFloat64() * c * factor / (factor - 1)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return domain.PaymentSummary{}, fmt.Errorf("%w: %s%% over %d months", domain.ErrInvalidRate, annualRatePercent, termMonths)
		}
		payment = decimal.NewFromFloat(p).Round(2)
	}

	total := payment.Mul(n)
	return domain.PaymentSummary{
		MonthlyPayment: payment,
		TotalRepayment: total,
		TotalInterest:  total.Sub(principal),
	}, nil
}

// AmortizationSchedule breaks a loan into its monthly installments, the first
// due one month after start. The final period absorbs rounding so the
// balance ends at exactly zero.
func AmortizationSchedule(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	start time.Time,
) ([]domain.ScheduleEntry, error) {
	if termMonths > MaxTermMonths {
		return nil, fmt.Errorf("%w: at most %d months", domain.ErrInvalidTerm, MaxTermMonths)
	}
	summary, err := CalculatePayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return nil, err
	}

	monthlyRate := annualRatePercent.Div(hundred).Div(decimal.NewFromInt(12))
	payment := summary.MonthlyPayment.Round(2)
	remaining := principal

	schedule := make([]domain.ScheduleEntry, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)
		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, domain.ScheduleEntry{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}
	return schedule, nil
}
