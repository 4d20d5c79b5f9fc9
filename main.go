package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-eligibility/config"
	"loan-eligibility/domain"
	"loan-eligibility/events"
	httpLayer "loan-eligibility/http"
	"loan-eligibility/observability"
	"loan-eligibility/repository"
	"loan-eligibility/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logger := observability.NewLogger(observability.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	ctx := context.Background()

	var (
		accountRepo repository.AccountRepository
		loanRepo    repository.LoanRepository
	)
	if cfg.DatabaseURL != "" {
		if cfg.RunMigrations {
			if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
				logger.WithError(err).Fatal("Failed to run migrations")
			}
		}
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to postgres")
		}
		defer pool.Close()
		accountRepo = repository.NewAccountRepositoryPostgres(pool)
		loanRepo = repository.NewLoanRepositoryPostgres(pool)
		logger.Info("Using postgres repositories")
	} else {
		memAccounts := repository.NewAccountRepositoryMemory()
		seedDemoAccount(memAccounts)
		accountRepo = memAccounts
		loanRepo = repository.NewLoanRepositoryMemory()
		logger.Warn("DATABASE_URL not set; using in-memory repositories with a demo account")
	}

	var cache repository.CacheRepository
	if cfg.Redis.Addr != "" {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		cache = repository.NewMemoryCache()
		logger.Warn("REDIS_ADDR not set; decisions are cached in process memory")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer kafka.Close()
		publisher = kafka
	}

	var oracle service.ScoringOracle
	if cfg.Oracle.APIKey != "" {
		oracle = service.NewLLMOracle(service.LLMOracleConfig{
			APIURL:      cfg.Oracle.APIURL,
			APIKey:      cfg.Oracle.APIKey,
			Model:       cfg.Oracle.Model,
			Temperature: cfg.Oracle.Temperature,
			Timeout:     cfg.Oracle.Timeout,
		})
	} else {
		oracle = service.NewRuleBasedOracle()
		logger.Warn("ORACLE_API_KEY not set; using the rule-based scoring oracle")
	}

	decisions := service.NewDecisionStore(cache, cfg.DecisionTTL)
	eligibilityService := service.NewEligibilityService(accountRepo, oracle, decisions, publisher, metrics, logger, cfg.Oracle.Timeout)
	confirmationService := service.NewConfirmationService(decisions, loanRepo, publisher, metrics, logger)
	chatService := service.NewChatService(eligibilityService)

	rateLimiter, err := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	if err != nil {
		logger.WithError(err).Fatal("Failed to start rate limiter")
	}
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		Loans:        httpLayer.NewLoanHandler(eligibilityService, chatService, logger),
		Confirmation: httpLayer.NewConfirmationHandler(confirmationService, logger),
		Terms:        httpLayer.NewTermRecommendationHandler(logger),
		RateLimiter:  rateLimiter,
		JWTSecret:    []byte(cfg.JWTSecret),
		Metrics:      metrics.Handler(),
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("Loan eligibility API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.WithError(err).Error("Error starting server")
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	logger.Info("Server exited")
}

// seedDemoAccount gives the in-memory store one account so the API can be
// exercised without a database. Tokens for it need sub "demo-user".
func seedDemoAccount(repo *repository.AccountRepositoryMemory) {
	now := time.Now().UTC()
	repo.AddAccount(domain.Account{
		ID:            "demo-account",
		UserID:        "demo-user",
		AccountNumber: "0000000001",
		AccountType:   "savings",
		Balance:       decimal.NewFromInt(250_000),
		Currency:      "NGN",
		Status:        domain.AccountStatusActive,
		CreatedAt:     now.AddDate(0, -8, 0),
	})
	repo.AddTransactions("demo-account",
		domain.Transaction{ID: "demo-1", AccountID: "demo-account", Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(480_000), CreatedAt: now.AddDate(0, -6, 0)},
		domain.Transaction{ID: "demo-2", AccountID: "demo-account", Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(480_000), CreatedAt: now.AddDate(0, -2, 0)},
		domain.Transaction{ID: "demo-3", AccountID: "demo-account", Type: domain.TransactionWithdrawal, Amount: decimal.NewFromInt(-310_000), CreatedAt: now.AddDate(0, -1, 0)},
		domain.Transaction{ID: "demo-4", AccountID: "demo-account", Type: domain.TransactionTransfer, Amount: decimal.NewFromInt(-150_000), CreatedAt: now.AddDate(0, 0, -10)},
	)
}
