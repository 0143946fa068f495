package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
)

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Principal        decimal.Decimal `json:"principal"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TenureMonths     int             `json:"tenure_months"`
	EMIAmount        decimal.Decimal `json:"emi_amount"`
	PaidInstallments int             `json:"paid_installments"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	Remarks          string          `json:"remarks,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:               l.ID,
		UserID:           l.UserID,
		Principal:        l.Principal,
		InterestRate:     l.InterestRate,
		TenureMonths:     l.TenureMonths,
		EMIAmount:        l.EMIAmount,
		PaidInstallments: l.PaidInstallments,
		RemainingBalance: l.RemainingBalance,
		Status:           string(l.Status),
		Remarks:          l.Remarks,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// ListLoansResponse wraps a loan listing.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// PaymentResponse represents a recorded payment in API responses.
type PaymentResponse struct {
	ID                 string          `json:"id"`
	LoanID             string          `json:"loan_id"`
	InstallmentNumber  int             `json:"installment_number"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	PrincipalPaid      decimal.Decimal `json:"principal_paid"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	PaidDate           time.Time       `json:"paid_date"`
	Remarks            string          `json:"remarks,omitempty"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.LoanPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:                 p.ID,
		LoanID:             p.LoanID,
		InstallmentNumber:  p.InstallmentNumber,
		AmountPaid:         p.AmountPaid,
		PrincipalPaid:      p.PrincipalPaid,
		InterestPaid:       p.InterestPaid,
		OutstandingBalance: p.OutstandingBalance,
		PaidDate:           p.PaidDate,
		Remarks:            p.Remarks,
	}
}

// PenaltyResponse represents a penalty in API responses.
type PenaltyResponse struct {
	ID                string    `json:"id"`
	LoanID            string    `json:"loan_id"`
	InstallmentNumber int       `json:"installment_number"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// PenaltiesFromDomain converts domain penalties to responses.
func PenaltiesFromDomain(penalties []*domain.LoanPenalty) []*PenaltyResponse {
	result := make([]*PenaltyResponse, len(penalties))
	for i, p := range penalties {
		result[i] = &PenaltyResponse{
			ID:                p.ID,
			LoanID:            p.LoanID,
			InstallmentNumber: p.InstallmentNumber,
			Status:            string(p.Status),
			CreatedAt:         p.CreatedAt,
		}
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status"`
	FrozenAt        *time.Time      `json:"frozen_at,omitempty"`
	FreezeReason    string          `json:"freeze_reason,omitempty"`
	WithdrawalLimit decimal.Decimal `json:"withdrawal_limit"`
	TransferLimit   decimal.Decimal `json:"transfer_limit"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		Balance:         a.Balance,
		Status:          string(a.Status),
		FrozenAt:        a.FrozenAt,
		FreezeReason:    a.FreezeReason,
		WithdrawalLimit: a.WithdrawalLimit,
		TransferLimit:   a.TransferLimit,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID            string          `json:"id"`
	FromAccountID *string         `json:"from_account_id,omitempty"`
	ToAccountID   *string         `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Status:        string(t.Status),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
