package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

// OracleContext is everything a scoring oracle is told about one request.
type OracleContext struct {
	Account domain.Account
	Summary domain.FinancialSummary
	Ceiling domain.EligibilityCeiling
	Request domain.LoanRequest
}

const oracleSystemPrompt = "You are a professional loan assessment AI. Analyze financial data and provide structured loan eligibility decisions in JSON format only."

// BuildAssessmentPrompt renders the financial context sent to the scoring oracle.
func BuildAssessmentPrompt(in OracleContext) string {
	cur := in.Account.Currency
	if cur == "" {
		cur = "NGN"
	}
	money := func(d decimal.Decimal) string {
		return cur + " " + d.StringFixed(2)
	}

	var b strings.Builder
	b.WriteString("Analyze the following financial data and determine loan eligibility.\n\n")

	b.WriteString("ACCOUNT DETAILS:\n")
	fmt.Fprintf(&b, "- Account Number: %s\n", in.Account.AccountNumber)
	fmt.Fprintf(&b, "- Account Type: %s\n", in.Account.AccountType)
	fmt.Fprintf(&b, "- Current Balance: %s\n", money(in.Summary.CurrentBalance))
	fmt.Fprintf(&b, "- Account Age: %d months\n", in.Summary.AccountAgeMonths)
	fmt.Fprintf(&b, "- Account Status: %s\n\n", in.Account.Status)

	b.WriteString("TRANSACTION ANALYSIS:\n")
	fmt.Fprintf(&b, "- Total Transactions: %d\n", in.Summary.TransactionCount)
	fmt.Fprintf(&b, "- Total Deposits: %s\n", money(in.Summary.TotalDeposits))
	fmt.Fprintf(&b, "- Total Withdrawals: %s\n", money(in.Summary.TotalWithdrawals))
	fmt.Fprintf(&b, "- Average Monthly Income: %s\n", money(in.Summary.AvgMonthlyIncome))
	fmt.Fprintf(&b, "- Average Monthly Expenses: %s\n", money(in.Summary.AvgMonthlyExpenses))
	fmt.Fprintf(&b, "- Net Monthly Cash Flow: %s\n\n", money(in.Summary.NetMonthlyCashFlow))

	b.WriteString("LOAN REQUEST:\n")
	fmt.Fprintf(&b, "- Requested Amount: %s\n", money(in.Request.Amount))
	fmt.Fprintf(&b, "- Purpose: %s\n", in.Request.Purpose)
	fmt.Fprintf(&b, "- Requested Term: %d months\n\n", in.Request.TermMonths)

	b.WriteString("LENDING POLICY:\n")
	fmt.Fprintf(&b, "- Maximum loan amount for this account (tier %s): %s. Never propose more.\n\n", in.Ceiling.Tier, money(in.Ceiling.Amount))

	b.WriteString(`ASSESSMENT CRITERIA:
1. Loan-to-Balance Ratio: Requested amount should not exceed 60% of current balance
2. Debt Service Coverage: Net monthly cash flow should cover at least 1.5x the monthly payment
3. Account Age: Minimum 1 month history preferred
4. Transaction History: At least 3 transactions showing regular activity
5. Balance Stability: Current balance should be positive and stable

Respond with a single JSON object:
{
  "eligible": boolean,
  "max_loan_amount": number,
  "suggested_interest_rate": number (annual percentage rate, typically 12-24 based on risk),
  "monthly_payment": number,
  "reasoning": string,
  "risk_factors": array of strings,
  "approval_confidence": number (0-100),
  "recommendations": array of strings
}
`)
	return b.String()
}
