package domain

import "errors"

var (
	// Loan errors
	ErrLoanNotFound         = errors.New("loan not found")
	ErrInvalidLoanState     = errors.New("operation not allowed for current loan status")
	ErrLoanClosed           = errors.New("loan is already closed")
	ErrAmountMismatch       = errors.New("payment amount does not match EMI")
	ErrNoTargetAccount      = errors.New("borrower has no account for disbursement")
	ErrInvalidScheduleInput = errors.New("tenure must be a positive number of months")

	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrAlreadyFrozen       = errors.New("account is already frozen")
	ErrNotFrozen           = errors.New("account is not frozen")
	ErrLimitExceeded       = errors.New("amount exceeds account limit")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Payment errors
	ErrPaymentNotFound = errors.New("payment not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
