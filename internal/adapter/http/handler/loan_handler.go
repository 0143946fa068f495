package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/adapter/http/dto"
	"github.com/covebank/loancore/internal/adapter/http/middleware"
	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, input usecase.ListLoansInput) ([]*domain.Loan, error)
	Approve(ctx context.Context, loanID, notes, officerID string) (*domain.Loan, error)
	Reject(ctx context.Context, loanID, reason string) (*domain.Loan, error)
	ProcessPayment(ctx context.Context, loanID string, amount decimal.Decimal, reference string) (*domain.LoanPayment, error)
	UpdateRepaymentSchedule(ctx context.Context, loanID string, newTenure int, newEMI decimal.Decimal, reason string) (*domain.Loan, error)
	ListPenalties(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error)
}

// ScheduleService defines the behavior needed for schedule reads.
type ScheduleService interface {
	GetSchedule(ctx context.Context, loanID string) ([]domain.Installment, error)
	ListOverdue(ctx context.Context) ([]usecase.OverdueEntry, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC     LoanService
	scheduleUC ScheduleService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, scheduleUC ScheduleService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, scheduleUC: scheduleUC}
}

// Create records a new loan application.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans, optionally filtered by user.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanUC.ListLoans(r.Context(), usecase.ListLoansInput{
		UserID: r.URL.Query().Get("user_id"),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans),
		Total: int64(len(loans)),
	})
}

// Approve approves a pending loan and disburses the principal.
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	officerID := ""
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		officerID = user.ID
	}

	loan, err := h.loanUC.Approve(r.Context(), id, req.Notes, officerID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to approve loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Reject rejects a pending loan.
func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RejectLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reject loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Pay applies one EMI payment to a loan.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.loanUC.ProcessPayment(r.Context(), id, req.Amount, req.Reference)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to process payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

// UpdateSchedule overwrites the repayment terms of an active loan.
func (h *LoanHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.UpdateRepaymentSchedule(r.Context(), id, req.TenureMonths, req.EMIAmount, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// GetSchedule returns the computed amortization schedule merged with
// recorded payments.
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	schedule, err := h.scheduleUC.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"loan_id":  id,
		"schedule": schedule,
	})
}

// ListOverdue reports every overdue installment across active loans.
func (h *LoanHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	entries, err := h.scheduleUC.ListOverdue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to scan for overdue installments", err.Error())
		return
	}

	if entries == nil {
		entries = []usecase.OverdueEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overdue": entries,
		"total":   len(entries),
	})
}

// ListPenalties lists penalties recorded against a loan.
func (h *LoanHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	penalties, err := h.loanUC.ListPenalties(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list penalties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"penalties": dto.PenaltiesFromDomain(penalties),
	})
}
