package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Rows
// are immutable once written; there is no update or delete.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction row within the caller's transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, from_account_id, to_account_id, amount, type, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		txn.ID,
		txn.FromAccountID,
		txn.ToAccountID,
		decimalToNumeric(txn.Amount),
		txn.Type,
		txn.Status,
		txn.Description,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, type, status, description, created_at
		FROM transactions
		WHERE id = $1
	`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByAccount lists transactions touching an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, type, status, description, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var amount pgtype.Numeric
	var createdAt pgtype.Timestamptz

	err := row.Scan(
		&txn.ID,
		&txn.FromAccountID,
		&txn.ToAccountID,
		&amount,
		&txn.Type,
		&txn.Status,
		&txn.Description,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
