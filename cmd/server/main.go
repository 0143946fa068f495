package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/covebank/loancore/internal/adapter/http"
	"github.com/covebank/loancore/internal/adapter/http/handler"
	postgresRepo "github.com/covebank/loancore/internal/adapter/repository/postgres"
	redisRepo "github.com/covebank/loancore/internal/adapter/repository/redis"
	"github.com/covebank/loancore/internal/infrastructure/auth"
	"github.com/covebank/loancore/internal/infrastructure/config"
	"github.com/covebank/loancore/internal/infrastructure/logger"
	"github.com/covebank/loancore/internal/infrastructure/metrics"
	"github.com/covebank/loancore/internal/infrastructure/notify"
	"github.com/covebank/loancore/internal/infrastructure/postgres"
	"github.com/covebank/loancore/internal/infrastructure/redis"
	"github.com/covebank/loancore/internal/usecase"
)

const migrationsPath = "file://migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	paymentRepo := postgresRepo.NewLoanPaymentRepository(pool)
	penaltyRepo := postgresRepo.NewLoanPenaltyRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	var scheduleCache usecase.Cache
	if cfg.ScheduleCacheEnabled {
		scheduleCache = redisRepo.NewCache(redisClient)
	}

	// Notifications go to a webhook when configured, otherwise to the log.
	var notifier usecase.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, cfg.NotifyWebhookTimeout, m)
	} else {
		notifier = notify.NewLogNotifier(log, m)
	}

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Initialize use cases
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, penaltyRepo, accountRepo, txnRepo, userRepo, notifier, idGen, m)
	scheduleUC := usecase.NewScheduleUseCase(loanRepo, paymentRepo, userRepo, scheduleCache)
	tellerUC := usecase.NewTellerUseCase(txManager, accountRepo, txnRepo, userRepo, notifier, idGen, m)
	dashboardUC := usecase.NewDashboardUseCase(loanRepo)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanUC, scheduleUC)
	tellerHandler := handler.NewTellerHandler(tellerUC)
	dashboardHandler := handler.NewDashboardHandler(dashboardUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:      loanHandler,
		TellerHandler:    tellerHandler,
		DashboardHandler: dashboardHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		JWTManager:       jwtManager,
		AuthEnabled:      cfg.AuthEnabled,
		Logger:           log,
		Metrics:          m,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
