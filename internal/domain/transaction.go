package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger transaction.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable ledger entry. A deposit populates only
// ToAccountID, a withdrawal only FromAccountID, a transfer both. Rows are
// never mutated after creation; they are the audit trail.
type Transaction struct {
	ID            string
	FromAccountID *string
	ToAccountID   *string
	Amount        decimal.Decimal
	Type          TransactionType
	Status        TransactionStatus
	Description   string
	CreatedAt     time.Time
}

// Validate validates the transaction shape before it is written.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Type == TransactionTypeTransfer && t.FromAccountID != nil && t.ToAccountID != nil &&
		*t.FromAccountID == *t.ToAccountID {
		return ErrSameAccount
	}

	return nil
}
