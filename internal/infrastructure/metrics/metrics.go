package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan lifecycle metrics
	LoansCreated    prometheus.Counter
	LoansApproved   prometheus.Counter
	LoansRejected   prometheus.Counter
	LoansClosed     prometheus.Counter
	DisbursedAmount prometheus.Histogram

	// Payment metrics
	PaymentsProcessed prometheus.Counter
	PaymentAmount     prometheus.Histogram
	PaymentErrors     *prometheus.CounterVec

	// Teller metrics
	TellerOperations *prometheus.CounterVec
	AccountsCreated  prometheus.Counter
	AccountsFrozen   prometheus.Counter

	// Schedule metrics
	SchedulesComputed   prometheus.Counter
	OverdueInstallments prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Notification metrics
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Loan lifecycle metrics
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_loans_created_total",
			Help: "Total number of loan applications created",
		}),
		LoansApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_loans_approved_total",
			Help: "Total number of loans approved",
		}),
		LoansRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_loans_rejected_total",
			Help: "Total number of loans rejected",
		}),
		LoansClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_loans_closed_total",
			Help: "Total number of loans fully repaid and closed",
		}),
		DisbursedAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loancore_disbursed_amount",
			Help:    "Disbursed loan principal amounts",
			Buckets: []float64{1000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		}),

		// Payment metrics
		PaymentsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_payments_processed_total",
			Help: "Total number of EMI payments processed",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loancore_payment_amount",
			Help:    "EMI payment amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		PaymentErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_payment_errors_total",
				Help: "Total number of payment errors by type",
			},
			[]string{"error_type"},
		),

		// Teller metrics
		TellerOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_teller_operations_total",
				Help: "Total teller operations by type",
			},
			[]string{"operation"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_accounts_created_total",
			Help: "Total number of accounts opened",
		}),
		AccountsFrozen: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_accounts_frozen_total",
			Help: "Total number of account freezes",
		}),

		// Schedule metrics
		SchedulesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loancore_schedules_computed_total",
			Help: "Total number of amortization schedules computed",
		}),
		OverdueInstallments: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loancore_overdue_installments",
			Help: "Overdue installments found by the last portfolio scan",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loancore_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loancore_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loancore_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Notification metrics
		NotificationsSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_notifications_sent_total",
				Help: "Total notifications dispatched",
			},
			[]string{"event"},
		),
		NotificationsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loancore_notifications_failed_total",
				Help: "Total notification delivery failures",
			},
			[]string{"event"},
		),
	}
}
