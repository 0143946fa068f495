package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
)

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	Update(ctx context.Context, tx Transaction, loan *domain.Loan) error
	List(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error)
	ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)
	Stats(ctx context.Context) (*domain.LoanStats, error)
}

// LoanPaymentRepository defines data access for the payment ledger.
// Payments are append-only; there is no update or delete.
type LoanPaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.LoanPayment) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error)
}

// LoanPenaltyRepository defines read access to penalty records.
type LoanPenaltyRepository interface {
	ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error)
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	ListByUserForUpdate(ctx context.Context, tx Transaction, userID string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateFreezeState(ctx context.Context, tx Transaction, id string, frozen bool, frozenAt *time.Time, reason string, updatedAt time.Time) error
	UpdateLimits(ctx context.Context, tx Transaction, id string, withdrawalLimit, transferLimit decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines data access for the transaction ledger.
// Rows are immutable once created.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Notifier delivers outbound customer notifications. Implementations are
// best-effort; callers never let a notification failure affect the
// underlying operation.
type Notifier interface {
	Notify(ctx context.Context, userID, email, name string, kind domain.EventKind, details map[string]string) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
