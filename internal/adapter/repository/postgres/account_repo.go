package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

const accountColumns = `id, user_id, balance, status, frozen, frozen_at, freeze_reason,
	withdrawal_limit, transfer_limit, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var frozenAt pgtype.Timestamptz
	if account.FrozenAt != nil {
		frozenAt = timeToPgTimestamptz(*account.FrozenAt)
	}

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.UserID,
		decimalToNumeric(account.Balance),
		account.Status,
		account.Frozen,
		frozenAt,
		account.FreezeReason,
		decimalToNumeric(account.WithdrawalLimit),
		decimalToNumeric(account.TransferLimit),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	return scanAccount(txQuerier(tx).QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows lock in ascending id order regardless of input order, which keeps
// concurrent multi-account operations deadlock free.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := txQuerier(tx).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListByUser lists a user's accounts, oldest first.
func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ListByUserForUpdate lists a user's accounts with FOR UPDATE locks.
func (r *AccountRepository) ListByUserForUpdate(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
		FOR UPDATE
	`

	rows, err := txQuerier(tx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateBalance updates the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`

	tag, err := txQuerier(tx).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateFreezeState sets or clears the freeze flag, timestamp and reason.
func (r *AccountRepository) UpdateFreezeState(ctx context.Context, tx usecase.Transaction, id string, frozen bool, frozenAt *time.Time, reason string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET frozen = $2, frozen_at = $3, freeze_reason = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	var at pgtype.Timestamptz
	if frozenAt != nil {
		at = timeToPgTimestamptz(*frozenAt)
	}

	status := domain.AccountStatusActive
	if frozen {
		status = domain.AccountStatusFrozen
	}

	tag, err := txQuerier(tx).Exec(ctx, query, id, frozen, at, reason, status, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// UpdateLimits sets the per-operation withdrawal and transfer limits.
func (r *AccountRepository) UpdateLimits(ctx context.Context, tx usecase.Transaction, id string, withdrawalLimit, transferLimit decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET withdrawal_limit = $2, transfer_limit = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := txQuerier(tx).Exec(ctx, query, id,
		decimalToNumeric(withdrawalLimit),
		decimalToNumeric(transferLimit),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var balance, withdrawalLimit, transferLimit pgtype.Numeric
	var frozenAt, createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&account.ID,
		&account.UserID,
		&balance,
		&account.Status,
		&account.Frozen,
		&frozenAt,
		&account.FreezeReason,
		&withdrawalLimit,
		&transferLimit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.WithdrawalLimit = numericToDecimal(withdrawalLimit)
	account.TransferLimit = numericToDecimal(transferLimit)
	if frozenAt.Valid {
		t := frozenAt.Time
		account.FrozenAt = &t
	}
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
