package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the operational state of an account.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
)

// Account represents a customer deposit account. The balance is never
// negative after a committed operation, and a frozen account rejects
// every balance-mutating operation.
type Account struct {
	ID              string
	UserID          string
	Balance         decimal.Decimal
	Status          AccountStatus
	Frozen          bool
	FrozenAt        *time.Time
	FreezeReason    string
	WithdrawalLimit decimal.Decimal // zero means unlimited
	TransferLimit   decimal.Decimal // zero means unlimited
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateDebit checks if amount can be withdrawn from the account.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Frozen {
		return ErrAccountFrozen
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	return nil
}

// ValidateCredit checks if amount can be deposited into the account.
func (a *Account) ValidateCredit(amount decimal.Decimal) error {
	if a.Frozen {
		return ErrAccountFrozen
	}

	return nil
}

// CheckWithdrawalLimit verifies amount against the per-operation
// withdrawal limit. A zero limit disables the check.
func (a *Account) CheckWithdrawalLimit(amount decimal.Decimal) error {
	if !a.WithdrawalLimit.IsZero() && amount.GreaterThan(a.WithdrawalLimit) {
		return ErrLimitExceeded
	}

	return nil
}

// CheckTransferLimit verifies amount against the per-operation transfer
// limit. A zero limit disables the check.
func (a *Account) CheckTransferLimit(amount decimal.Decimal) error {
	if !a.TransferLimit.IsZero() && amount.GreaterThan(a.TransferLimit) {
		return ErrLimitExceeded
	}

	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
