package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

const uniqueViolation = "23505"

type LoanRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewLoanRepositoryPostgres(pool *pgxpool.Pool) *LoanRepositoryPostgres {
	return &LoanRepositoryPostgres{pool: pool}
}

func (r *LoanRepositoryPostgres) Save(ctx context.Context, loan domain.Loan) error {
	const query = `
		INSERT INTO loans (
			id, decision_id, user_id, account_id, loan_amount, loan_purpose,
			loan_term_months, interest_rate, monthly_payment, total_repayment,
			status, ai_analysis, requested_at, decision_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err := r.pool.Exec(ctx, query,
		loan.ID, loan.DecisionID, loan.UserID, loan.AccountID,
		loan.LoanAmount, loan.LoanPurpose, loan.LoanTermMonths,
		loan.InterestRate, loan.MonthlyPayment, loan.TotalRepayment,
		loan.Status, loan.AIAnalysis, loan.RequestedAt, loan.DecisionAt, loan.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateLoan
	}
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

func (r *LoanRepositoryPostgres) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	const query = `
		SELECT id::text, decision_id::text, user_id::text, account_id::text,
		       loan_amount::text, loan_purpose, loan_term_months, interest_rate::text,
		       monthly_payment::text, total_repayment::text, status,
		       requested_at, decision_at, created_at
		FROM loans
		WHERE user_id::text = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func scanLoan(s scannable) (domain.Loan, error) {
	var (
		l                                  domain.Loan
		amount, rate, payment, repayment   string
		requestedAt, decisionAt, createdAt time.Time
	)
	err := s.Scan(
		&l.ID, &l.DecisionID, &l.UserID, &l.AccountID,
		&amount, &l.LoanPurpose, &l.LoanTermMonths, &rate,
		&payment, &repayment, &l.Status,
		&requestedAt, &decisionAt, &createdAt,
	)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{
		{amount, &l.LoanAmount},
		{rate, &l.InterestRate},
		{payment, &l.MonthlyPayment},
		{repayment, &l.TotalRepayment},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return domain.Loan{}, fmt.Errorf("%w: loan %s value %q", domain.ErrData, l.ID, f.raw)
		}
		*f.dst = d
	}
	l.RequestedAt, l.DecisionAt, l.CreatedAt = requestedAt.UTC(), decisionAt.UTC(), createdAt.UTC()
	return l, nil
}
