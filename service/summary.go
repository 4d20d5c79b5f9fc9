package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

// BuildFinancialSummary aggregates an account snapshot and its full
// transaction history. Transactions of types other than deposit,
// withdrawal and transfer are left out of both sums.
func BuildFinancialSummary(
	account domain.Account,
	transactions []domain.Transaction,
	now time.Time,
) (domain.FinancialSummary, error) {
	if account.CreatedAt.IsZero() {
		return domain.FinancialSummary{}, fmt.Errorf("%w: account %q has no creation time", domain.ErrData, account.AccountNumber)
	}
	if account.CreatedAt.After(now) {
		return domain.FinancialSummary{}, fmt.Errorf("%w: account %q created in the future", domain.ErrData, account.AccountNumber)
	}

	ageMonths := int(now.Sub(account.CreatedAt) / accountMonth)

	var (
		deposits, debits, ignored int
		totalDeposits             = decimal.Zero
		totalWithdrawals          = decimal.Zero
	)
	for i, t := range transactions {
		switch t.Type {
		case "":
			return domain.FinancialSummary{}, fmt.Errorf("%w: transaction %d has no type", domain.ErrData, i)
		case domain.TransactionDeposit:
			deposits++
			totalDeposits = totalDeposits.Add(t.Amount.Abs())
		case domain.TransactionWithdrawal, domain.TransactionTransfer:
			debits++
			totalWithdrawals = totalWithdrawals.Add(t.Amount.Abs())
		default:
			ignored++
		}
	}

	months := decimal.NewFromInt(int64(max(ageMonths, 1)))
	income := decimal.Zero
	if deposits > 0 {
		income = totalDeposits.Div(months)
	}
	expenses := decimal.Zero
	if debits > 0 {
		expenses = totalWithdrawals.Div(months)
	}

	return domain.FinancialSummary{
		AccountAgeMonths:    ageMonths,
		CurrentBalance:      account.Balance,
		TotalDeposits:       totalDeposits,
		TotalWithdrawals:    totalWithdrawals,
		AvgMonthlyIncome:    income,
		AvgMonthlyExpenses:  expenses,
		NetMonthlyCashFlow:  income.Sub(expenses),
		TransactionCount:    len(transactions),
		IgnoredTransactions: ignored,
	}, nil
}
