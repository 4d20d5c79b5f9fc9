package http

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"loan-eligibility/domain"
	"loan-eligibility/events"
	"loan-eligibility/repository"
	"loan-eligibility/service"
)

var testSecret = []byte("test-secret-test-secret-test-secret")

type testAPI struct {
	router  *mux.Router
	limiter *RateLimiter
}

func newTestAPI(t *testing.T, oracle service.ScoringOracle, capacity int) *testAPI {
	t.Helper()
	logger, _ := test.NewNullLogger()

	accounts := repository.NewAccountRepositoryMemory()
	accounts.AddAccount(domain.Account{
		ID:            "acc-1",
		UserID:        "user-1",
		AccountNumber: "0123456789",
		AccountType:   "savings",
		Balance:       decimal.NewFromInt(100_000),
		Status:        domain.AccountStatusActive,
		CreatedAt:     time.Now().AddDate(-1, 0, 0),
	})
	accounts.AddTransactions("acc-1",
		domain.Transaction{Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(1_200_000)},
		domain.Transaction{Type: domain.TransactionWithdrawal, Amount: decimal.NewFromInt(300_000)},
		domain.Transaction{Type: domain.TransactionTransfer, Amount: decimal.NewFromInt(60_000)},
	)

	decisions := service.NewDecisionStore(repository.NewMemoryCache(), time.Hour)
	publisher := events.NopPublisher{}
	eligibility := service.NewEligibilityService(accounts, oracle, decisions, publisher, nil, logger, time.Second)
	confirmation := service.NewConfirmationService(decisions, repository.NewLoanRepositoryMemory(), publisher, nil, logger)

	limiter, err := NewRateLimiter(capacity, time.Minute)
	require.NoError(t, err)
	t.Cleanup(limiter.Stop)

	return &testAPI{
		router: NewRouter(RouterConfig{
			Loans:        NewLoanHandler(eligibility, service.NewChatService(eligibility), logger),
			Confirmation: NewConfirmationHandler(confirmation, logger),
			Terms:        NewTermRecommendationHandler(logger),
			RateLimiter:  limiter,
			JWTSecret:    testSecret,
			Logger:       logger,
		}),
		limiter: limiter,
	}
}

func signToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type staticOracle string

func (o staticOracle) Assess(context.Context, service.OracleContext) (string, error) {
	return string(o), nil
}

func assertStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
