package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Loans        *LoanHandler
	Confirmation *ConfirmationHandler
	Terms        *TermRecommendationHandler
	RateLimiter  *RateLimiter
	JWTSecret    []byte
	Metrics      http.Handler
	Logger       logrus.FieldLogger
}

// NewRouter mounts every endpoint. All /loan routes are rate limited; the
// ones that touch an account also require a bearer token.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, cfg.Logger, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	loans := router.PathPrefix("/loan").Subrouter()
	loans.Use(RateLimitMiddleware(cfg.RateLimiter, cfg.Logger))

	loans.HandleFunc("/calculate", cfg.Loans.CalculateLoan).Methods(http.MethodPost)
	loans.HandleFunc("/schedule", cfg.Loans.PaymentSchedule).Methods(http.MethodPost)
	loans.HandleFunc("/recommend-term", cfg.Terms.RecommendTerm).Methods(http.MethodPost)

	private := loans.NewRoute().Subrouter()
	private.Use(AuthMiddleware(cfg.JWTSecret, cfg.Logger))
	private.HandleFunc("/eligibility", cfg.Loans.CheckEligibility).Methods(http.MethodPost)
	private.HandleFunc("/chat", cfg.Loans.Chat).Methods(http.MethodPost)
	private.HandleFunc("/confirm", cfg.Confirmation.Confirm).Methods(http.MethodPost)
	private.HandleFunc("/history", cfg.Confirmation.History).Methods(http.MethodGet)

	return router
}
