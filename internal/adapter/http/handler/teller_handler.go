package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/adapter/http/dto"
	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

// TellerService defines the behavior needed by TellerHandler.
type TellerService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*domain.Transaction, error)
	Freeze(ctx context.Context, accountID, reason string) (*domain.Account, error)
	Unfreeze(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateLimits(ctx context.Context, accountID string, withdrawalLimit, transferLimit decimal.Decimal) (*domain.Account, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
}

// TellerHandler handles account and transaction HTTP requests.
type TellerHandler struct {
	tellerUC TellerService
}

// NewTellerHandler creates a new TellerHandler.
func NewTellerHandler(tellerUC TellerService) *TellerHandler {
	return &TellerHandler{tellerUC: tellerUC}
}

// CreateAccount opens a new account.
func (h *TellerHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.tellerUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// GetAccount retrieves an account by ID.
func (h *TellerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.tellerUC.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListAccounts lists a user's accounts.
func (h *TellerHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id parameter", "")
		return
	}

	accounts, err := h.tellerUC.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": dto.AccountsFromDomain(accounts),
	})
}

// Deposit credits an account.
func (h *TellerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.tellerUC.Deposit(r.Context(), id, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw debits an account.
func (h *TellerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.tellerUC.Withdraw(r.Context(), id, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Transfer moves funds between two accounts.
func (h *TellerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.tellerUC.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Freeze freezes an account.
func (h *TellerHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.FreezeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.tellerUC.Freeze(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to freeze account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Unfreeze lifts an account freeze.
func (h *TellerHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.tellerUC.Unfreeze(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to unfreeze account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// UpdateLimits sets the per-operation account limits.
func (h *TellerHandler) UpdateLimits(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.LimitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.tellerUC.UpdateLimits(r.Context(), id, req.WithdrawalLimit, req.TransferLimit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update limits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// ListTransactions lists the ledger entries touching an account.
func (h *TellerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transactions, err := h.tellerUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": dto.TransactionsFromDomain(transactions),
	})
}
