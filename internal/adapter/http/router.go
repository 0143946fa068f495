package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/covebank/loancore/internal/adapter/http/handler"
	"github.com/covebank/loancore/internal/adapter/http/middleware"
	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/infrastructure/auth"
	"github.com/covebank/loancore/internal/infrastructure/metrics"
	"github.com/covebank/loancore/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler      *handler.LoanHandler
	TellerHandler    *handler.TellerHandler
	DashboardHandler *handler.DashboardHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	JWTManager       *auth.JWTManager
	AuthEnabled      bool
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(cfg.Logger))
	r.Use(middleware.RecoveryMiddleware(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Staff-only routes require an authenticated STAFF (or higher) user
	// when auth is enabled; otherwise they pass through unguarded.
	staffOnly := func(next http.Handler) http.Handler { return next }
	if cfg.AuthEnabled && cfg.JWTManager != nil {
		authn := middleware.AuthMiddleware(cfg.JWTManager)
		requireStaff := middleware.RequireRole(domain.RoleStaff)
		staffOnly = func(next http.Handler) http.Handler {
			return authn(requireStaff(next))
		}
	} else if cfg.JWTManager != nil {
		optional := middleware.OptionalAuth(cfg.JWTManager)
		staffOnly = optional
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idem := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idem.Wrap)
		}

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/overdue", cfg.LoanHandler.ListOverdue)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.With(staffOnly).Post("/{id}/approve", cfg.LoanHandler.Approve)
			r.With(staffOnly).Post("/{id}/reject", cfg.LoanHandler.Reject)
			r.Post("/{id}/payments", cfg.LoanHandler.Pay)
			r.With(staffOnly).Put("/{id}/schedule", cfg.LoanHandler.UpdateSchedule)
			r.Get("/{id}/schedule", cfg.LoanHandler.GetSchedule)
			r.Get("/{id}/penalties", cfg.LoanHandler.ListPenalties)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(staffOnly).Post("/", cfg.TellerHandler.CreateAccount)
			r.Get("/", cfg.TellerHandler.ListAccounts)
			r.Get("/{id}", cfg.TellerHandler.GetAccount)
			r.With(staffOnly).Post("/{id}/deposit", cfg.TellerHandler.Deposit)
			r.With(staffOnly).Post("/{id}/withdraw", cfg.TellerHandler.Withdraw)
			r.With(staffOnly).Post("/{id}/freeze", cfg.TellerHandler.Freeze)
			r.With(staffOnly).Post("/{id}/unfreeze", cfg.TellerHandler.Unfreeze)
			r.With(staffOnly).Put("/{id}/limits", cfg.TellerHandler.UpdateLimits)
			r.Get("/{id}/transactions", cfg.TellerHandler.ListTransactions)
		})

		// Transfers
		r.With(staffOnly).Post("/transfers", cfg.TellerHandler.Transfer)

		// Dashboard
		r.With(staffOnly).Get("/dashboard", cfg.DashboardHandler.Summary)
	})

	return r
}
