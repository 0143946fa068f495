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

const loanColumns = `id, user_id, principal, interest_rate, tenure_months, emi_amount,
	paid_installments, remaining_balance, status, remarks, created_at, updated_at`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create inserts a new loan.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		loan.ID,
		loan.UserID,
		decimalToNumeric(loan.Principal),
		decimalToNumeric(loan.InterestRate),
		loan.TenureMonths,
		decimalToNumeric(loan.EMIAmount),
		loan.PaidInstallments,
		decimalToNumeric(loan.RemainingBalance),
		loan.Status,
		loan.Remarks,
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	return scanLoan(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	return scanLoan(txQuerier(tx).QueryRow(ctx, query, id))
}

// Update persists the mutable loan fields.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET tenure_months = $2, emi_amount = $3, paid_installments = $4,
			remaining_balance = $5, status = $6, remarks = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := txQuerier(tx).Exec(ctx, query,
		loan.ID,
		loan.TenureMonths,
		decimalToNumeric(loan.EMIAmount),
		loan.PaidInstallments,
		decimalToNumeric(loan.RemainingBalance),
		loan.Status,
		loan.Remarks,
		timeToPgTimestamptz(loan.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// List lists loans with pagination, newest first.
func (r *LoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListByUser lists a user's loans with pagination, newest first.
func (r *LoanRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListByStatus lists every loan in the given status.
func (r *LoanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + ` FROM loans
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLoans(rows)
}

// Stats aggregates counts per status plus principal and balance sums
// over all loans.
func (r *LoanRepository) Stats(ctx context.Context) (*domain.LoanStats, error) {
	stats := &domain.LoanStats{
		CountByStatus: make(map[domain.LoanStatus]int64),
	}

	countQuery := `SELECT status, COUNT(*) FROM loans GROUP BY status`

	rows, err := r.pool.Query(ctx, countQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status domain.LoanStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		stats.CountByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sumQuery := `
		SELECT COALESCE(SUM(principal), 0), COALESCE(SUM(remaining_balance), 0)
		FROM loans
	`

	var principal, remaining pgtype.Numeric
	if err := r.pool.QueryRow(ctx, sumQuery).Scan(&principal, &remaining); err != nil {
		return nil, err
	}

	stats.SumPrincipal = numericToDecimal(principal)
	stats.SumRemaining = numericToDecimal(remaining)

	return stats, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	var principal, rate, emi, remaining pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(
		&loan.ID,
		&loan.UserID,
		&principal,
		&rate,
		&loan.TenureMonths,
		&emi,
		&loan.PaidInstallments,
		&remaining,
		&loan.Status,
		&loan.Remarks,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	loan.Principal = numericToDecimal(principal)
	loan.InterestRate = numericToDecimal(rate)
	loan.EMIAmount = numericToDecimal(emi)
	loan.RemainingBalance = numericToDecimal(remaining)
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time

	return &loan, nil
}

func scanLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}

		loans = append(loans, loan)
	}

	return loans, rows.Err()
}
