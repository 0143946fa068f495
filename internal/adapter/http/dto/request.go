package dto

import (
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/usecase"
)

// CreateLoanRequest represents a loan application.
type CreateLoanRequest struct {
	UserID       string          `json:"user_id"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure_months"`
	EMIAmount    decimal.Decimal `json:"emi_amount,omitempty"`
	Remarks      string          `json:"remarks,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		UserID:       r.UserID,
		Principal:    r.Principal,
		InterestRate: r.InterestRate,
		TenureMonths: r.TenureMonths,
		EMIAmount:    r.EMIAmount,
		Remarks:      r.Remarks,
	}
}

// ApproveLoanRequest carries the officer's approval notes.
type ApproveLoanRequest struct {
	Notes string `json:"notes,omitempty"`
}

// RejectLoanRequest carries the rejection reason.
type RejectLoanRequest struct {
	Reason string `json:"reason"`
}

// PaymentRequest represents an EMI payment.
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// UpdateScheduleRequest represents a repayment term change.
type UpdateScheduleRequest struct {
	TenureMonths int             `json:"tenure_months"`
	EMIAmount    decimal.Decimal `json:"emi_amount"`
	Reason       string          `json:"reason"`
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	UserID          string          `json:"user_id"`
	WithdrawalLimit decimal.Decimal `json:"withdrawal_limit,omitempty"`
	TransferLimit   decimal.Decimal `json:"transfer_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID:          r.UserID,
		WithdrawalLimit: r.WithdrawalLimit,
		TransferLimit:   r.TransferLimit,
	}
}

// AmountRequest represents a deposit or withdrawal.
type AmountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// TransferRequest represents a transfer between two accounts.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// FreezeRequest carries the freeze reason.
type FreezeRequest struct {
	Reason string `json:"reason"`
}

// LimitsRequest sets the per-operation account limits. A zero limit
// disables the corresponding check.
type LimitsRequest struct {
	WithdrawalLimit decimal.Decimal `json:"withdrawal_limit"`
	TransferLimit   decimal.Decimal `json:"transfer_limit"`
}
