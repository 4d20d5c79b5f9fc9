package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"loan-eligibility/domain"
)

type AccountRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewAccountRepositoryPostgres(pool *pgxpool.Pool) *AccountRepositoryPostgres {
	return &AccountRepositoryPostgres{pool: pool}
}

func (r *AccountRepositoryPostgres) FindByNumber(ctx context.Context, userID, accountNumber string) (domain.Account, error) {
	const query = `
		SELECT id::text, user_id::text, account_number, account_type,
		       COALESCE(balance, 0)::text, COALESCE(currency, 'NGN'),
		       COALESCE(status, ''), created_at
		FROM bank_accounts
		WHERE account_number = $1 AND user_id::text = $2
	`
	var (
		a         domain.Account
		balance   string
		createdAt *time.Time
	)
	err := r.pool.QueryRow(ctx, query, accountNumber, userID).Scan(
		&a.ID, &a.UserID, &a.AccountNumber, &a.AccountType,
		&balance, &a.Currency, &a.Status, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("find account %s: %w", accountNumber, err)
	}

	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: account %s balance %q", domain.ErrData, accountNumber, balance)
	}
	if createdAt != nil {
		a.CreatedAt = createdAt.UTC()
	}
	return a, nil
}

func (r *AccountRepositoryPostgres) ListTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	const query = `
		SELECT id::text, account_id::text, transaction_type, amount::text, created_at
		FROM transactions
		WHERE account_id::text = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(s scannable) (domain.Transaction, error) {
	var (
		t         domain.Transaction
		txType    string
		amount    string
		createdAt time.Time
	)
	if err := s.Scan(&t.ID, &t.AccountID, &txType, &amount, &createdAt); err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: scan transaction: %v", domain.ErrData, err)
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: transaction %s amount %q", domain.ErrData, t.ID, amount)
	}
	t.Type = domain.TransactionType(txType)
	t.Amount = parsed
	t.CreatedAt = createdAt.UTC()
	return t, nil
}
