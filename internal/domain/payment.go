package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPayment is one recorded installment payment. Payments form an
// append-only ledger: a row is never mutated after creation, and
// installment numbers are assigned strictly increasing from 1.
type LoanPayment struct {
	ID                 string
	LoanID             string
	InstallmentNumber  int
	AmountPaid         decimal.Decimal
	PrincipalPaid      decimal.Decimal
	InterestPaid       decimal.Decimal
	OutstandingBalance decimal.Decimal
	PaidDate           time.Time
	Remarks            string
	CreatedAt          time.Time
}

// PenaltyStatus is the state of a recorded penalty.
type PenaltyStatus string

const (
	PenaltyStatusPending PenaltyStatus = "PENDING"
	PenaltyStatusPaid    PenaltyStatus = "PAID"
	PenaltyStatusWaived  PenaltyStatus = "WAIVED"
)

// LoanPenalty is a penalty recorded against a specific installment.
// Penalties are read-only in this engine.
type LoanPenalty struct {
	ID                string
	LoanID            string
	InstallmentNumber int
	Status            PenaltyStatus
	CreatedAt         time.Time
}
