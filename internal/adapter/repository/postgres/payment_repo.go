package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

// LoanPaymentRepository implements usecase.LoanPaymentRepository. The
// payments table is append-only; there is no update path.
type LoanPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewLoanPaymentRepository creates a new LoanPaymentRepository.
func NewLoanPaymentRepository(pool *pgxpool.Pool) *LoanPaymentRepository {
	return &LoanPaymentRepository{pool: pool}
}

// Create inserts a payment row within the caller's transaction.
func (r *LoanPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.LoanPayment) error {
	query := `
		INSERT INTO loan_payments (id, loan_id, installment_number, amount_paid,
			principal_paid, interest_paid, outstanding_balance, paid_date, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.InstallmentNumber,
		decimalToNumeric(payment.AmountPaid),
		decimalToNumeric(payment.PrincipalPaid),
		decimalToNumeric(payment.InterestPaid),
		decimalToNumeric(payment.OutstandingBalance),
		timeToPgTimestamptz(payment.PaidDate),
		payment.Remarks,
		timeToPgTimestamptz(payment.CreatedAt),
	)

	return err
}

// ListByLoan lists a loan's payments in installment order.
func (r *LoanPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	query := `
		SELECT id, loan_id, installment_number, amount_paid, principal_paid,
			interest_paid, outstanding_balance, paid_date, remarks, created_at
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY installment_number
	`

	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.LoanPayment
	for rows.Next() {
		var p domain.LoanPayment
		var amount, principal, interest, outstanding pgtype.Numeric
		var paidDate, createdAt pgtype.Timestamptz

		err := rows.Scan(
			&p.ID,
			&p.LoanID,
			&p.InstallmentNumber,
			&amount,
			&principal,
			&interest,
			&outstanding,
			&paidDate,
			&p.Remarks,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		p.AmountPaid = numericToDecimal(amount)
		p.PrincipalPaid = numericToDecimal(principal)
		p.InterestPaid = numericToDecimal(interest)
		p.OutstandingBalance = numericToDecimal(outstanding)
		p.PaidDate = paidDate.Time
		p.CreatedAt = createdAt.Time

		payments = append(payments, &p)
	}

	return payments, rows.Err()
}

// LoanPenaltyRepository implements usecase.LoanPenaltyRepository.
// Penalties are recorded by an external collections process; this
// service only reads them.
type LoanPenaltyRepository struct {
	pool *pgxpool.Pool
}

// NewLoanPenaltyRepository creates a new LoanPenaltyRepository.
func NewLoanPenaltyRepository(pool *pgxpool.Pool) *LoanPenaltyRepository {
	return &LoanPenaltyRepository{pool: pool}
}

// ListByLoan lists the penalties recorded against a loan.
func (r *LoanPenaltyRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error) {
	query := `
		SELECT id, loan_id, installment_number, status, created_at
		FROM loan_penalties
		WHERE loan_id = $1
		ORDER BY installment_number
	`

	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []*domain.LoanPenalty
	for rows.Next() {
		var p domain.LoanPenalty
		var createdAt pgtype.Timestamptz

		if err := rows.Scan(&p.ID, &p.LoanID, &p.InstallmentNumber, &p.Status, &createdAt); err != nil {
			return nil, err
		}

		p.CreatedAt = createdAt.Time
		penalties = append(penalties, &p)
	}

	return penalties, rows.Err()
}
