package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the computed state of a scheduled installment.
type InstallmentStatus string

const (
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
	InstallmentStatusPending InstallmentStatus = "PENDING"
)

// Installment is one row of a computed amortization schedule. It is
// derived from loan terms on every read and never persisted.
type Installment struct {
	Number           int               `json:"number"`
	DueDate          time.Time         `json:"due_date"`
	EMIAmount        decimal.Decimal   `json:"emi_amount"`
	Principal        decimal.Decimal   `json:"principal"`
	Interest         decimal.Decimal   `json:"interest"`
	RemainingBalance decimal.Decimal   `json:"remaining_balance"`
	Paid             bool              `json:"paid"`
	PaidDate         *time.Time        `json:"paid_date,omitempty"`
	AmountPaid       decimal.Decimal   `json:"amount_paid"`
	PaymentID        string            `json:"payment_id,omitempty"`
	Status           InstallmentStatus `json:"status"`
}

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// AmortizationSchedule computes the declining-balance schedule for a loan
// with a caller-supplied EMI. The EMI is taken as given, not derived, so
// the final installment need not zero the balance exactly.
//
// For installment i in 1..tenure: dueDate = start + i months,
// interest = balance * rate/100/12, principal = emi - interest,
// balance -= principal. Principal, interest and the post-payment balance
// are rounded to 2 decimal places; the displayed remaining balance is
// clamped at zero. Negative principal (EMI below interest) is allowed.
func AmortizationSchedule(principal, annualRate, emi decimal.Decimal, tenureMonths int, start time.Time) ([]Installment, error) {
	if tenureMonths <= 0 {
		return nil, ErrInvalidScheduleInput
	}

	monthlyRate := annualRate.Div(hundred).Div(twelve)
	balance := principal

	schedule := make([]Installment, 0, tenureMonths)
	for i := 1; i <= tenureMonths; i++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest).Round(2)
		balance = balance.Sub(principalPart).Round(2)

		display := balance
		if display.IsNegative() {
			display = decimal.Zero
		}

		schedule = append(schedule, Installment{
			Number:           i,
			DueDate:          start.AddDate(0, i, 0),
			EMIAmount:        emi,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: display,
			AmountPaid:       decimal.Zero,
			Status:           InstallmentStatusPending,
		})
	}

	return schedule, nil
}

// MonthlyPayment derives the EMI that fully amortizes principal over
// tenure months at the given annual percent rate. With a zero rate the
// payment is principal / tenure.
func MonthlyPayment(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if tenureMonths <= 0 {
		return decimal.Zero, ErrInvalidScheduleInput
	}

	months := decimal.NewFromInt(int64(tenureMonths))

	monthlyRate := annualRate.Div(hundred).Div(twelve)
	if monthlyRate.IsZero() {
		return principal.Div(months).Round(2), nil
	}

	// E = P * m * (1+m)^n / ((1+m)^n - 1)
	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(months)
	emi := principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))

	return emi.Round(2), nil
}
