package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"loan-eligibility/domain"
	"loan-eligibility/events"
	"loan-eligibility/repository"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

type oracleFunc func(ctx context.Context, in OracleContext) (string, error)

func (f oracleFunc) Assess(ctx context.Context, in OracleContext) (string, error) {
	return f(ctx, in)
}

func staticOracle(raw string) oracleFunc {
	return func(context.Context, OracleContext) (string, error) { return raw, nil }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// seededAccounts holds one established account (age 6 months, balance
// 100,000, income 100,000/month, expenses 40,000/month) for user-1.
func seededAccounts() *repository.AccountRepositoryMemory {
	repo := repository.NewAccountRepositoryMemory()
	repo.AddAccount(domain.Account{
		ID:            "acc-1",
		UserID:        "user-1",
		AccountNumber: "0123456789",
		AccountType:   "savings",
		Balance:       dec("100000"),
		Currency:      "NGN",
		Status:        domain.AccountStatusActive,
		CreatedAt:     fixedNow.AddDate(0, 0, -200),
	})
	repo.AddTransactions("acc-1",
		domain.Transaction{Type: domain.TransactionDeposit, Amount: dec("400000")},
		domain.Transaction{Type: domain.TransactionDeposit, Amount: dec("200000")},
		domain.Transaction{Type: domain.TransactionWithdrawal, Amount: dec("-140000")},
		domain.Transaction{Type: domain.TransactionTransfer, Amount: dec("100000")},
	)
	return repo
}

type harness struct {
	svc       *EligibilityService
	accounts  *repository.AccountRepositoryMemory
	cache     *repository.MemoryCache
	decisions *DecisionStore
	publisher *recordingPublisher
	logs      *test.Hook
}

func newNullLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func newHarness(oracle ScoringOracle) *harness {
	logger, hook := newNullLogger()

	h := &harness{
		accounts:  seededAccounts(),
		cache:     repository.NewMemoryCache(),
		publisher: &recordingPublisher{},
		logs:      hook,
	}
	h.decisions = NewDecisionStore(h.cache, time.Hour)
	h.svc = NewEligibilityService(h.accounts, oracle, h.decisions, h.publisher, nil, logger, 50*time.Millisecond)
	h.svc.now = func() time.Time { return fixedNow }
	return h
}

func loanRequest(amount string, term int) domain.LoanRequest {
	return domain.LoanRequest{
		AccountNumber: "0123456789",
		Amount:        dec(amount),
		Purpose:       "business inventory",
		TermMonths:    term,
	}
}

func logged(hook *test.Hook, level logrus.Level, msg string) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
