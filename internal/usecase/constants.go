package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. This prevents long-running transactions from holding
	// row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// NotifyTimeout bounds a single fire-and-forget notification attempt.
	NotifyTimeout = 5 * time.Second

	// ScheduleCacheTTL is how long computed schedules are cached. The
	// cache key includes all schedule inputs, so a stale entry is never
	// served for changed terms.
	ScheduleCacheTTL = 15 * time.Minute
)
