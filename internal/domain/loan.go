package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "PENDING"
	LoanStatusApproved LoanStatus = "APPROVED"
	LoanStatusRejected LoanStatus = "REJECTED"
	LoanStatusClosed   LoanStatus = "CLOSED"
)

// Loan represents a customer loan and its repayment terms.
// Status moves along PENDING -> {APPROVED, REJECTED} and APPROVED -> CLOSED;
// no transition reverses these edges.
type Loan struct {
	ID               string
	UserID           string
	Principal        decimal.Decimal
	InterestRate     decimal.Decimal // annual rate in percent
	TenureMonths     int
	EMIAmount        decimal.Decimal
	PaidInstallments int
	RemainingBalance decimal.Decimal
	Status           LoanStatus
	Remarks          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPending reports whether the loan still awaits an approval decision.
func (l *Loan) IsPending() bool {
	return l.Status == LoanStatusPending
}

// IsApproved reports whether the loan is active and repayable.
func (l *Loan) IsApproved() bool {
	return l.Status == LoanStatusApproved
}

// IsTerminal reports whether the loan reached a final state.
func (l *Loan) IsTerminal() bool {
	return l.Status == LoanStatusRejected || l.Status == LoanStatusClosed
}

// AddRemarks appends text to the loan remarks, separated by " | " when
// prior remarks exist. Remarks are append-only.
func (l *Loan) AddRemarks(text string) {
	if text == "" {
		return
	}

	if l.Remarks == "" {
		l.Remarks = text
		return
	}

	l.Remarks = l.Remarks + " | " + text
}

// LoanStats is an aggregate snapshot over the loan table.
type LoanStats struct {
	CountByStatus map[LoanStatus]int64
	SumPrincipal  decimal.Decimal
	SumRemaining  decimal.Decimal
}
