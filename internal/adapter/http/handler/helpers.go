package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/covebank/loancore/internal/adapter/http/dto"
	"github.com/covebank/loancore/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLoanState),
		errors.Is(err, domain.ErrLoanClosed),
		errors.Is(err, domain.ErrAlreadyFrozen),
		errors.Is(err, domain.ErrNotFrozen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrNoTargetAccount),
		errors.Is(err, domain.ErrInvalidScheduleInput),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAccountFrozen),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
