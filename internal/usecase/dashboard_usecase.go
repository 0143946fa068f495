package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
)

// DashboardUseCase aggregates portfolio-level figures for the staff
// dashboard. All numbers are computed from live repository state; nothing
// is cached here.
type DashboardUseCase struct {
	loanRepo LoanRepository
}

// NewDashboardUseCase creates a new DashboardUseCase.
func NewDashboardUseCase(loanRepo LoanRepository) *DashboardUseCase {
	return &DashboardUseCase{loanRepo: loanRepo}
}

// DashboardSummary is a portfolio snapshot.
type DashboardSummary struct {
	TotalLoans       int64           `json:"total_loans"`
	PendingLoans     int64           `json:"pending_loans"`
	ApprovedLoans    int64           `json:"approved_loans"`
	RejectedLoans    int64           `json:"rejected_loans"`
	ClosedLoans      int64           `json:"closed_loans"`
	TotalDisbursed   decimal.Decimal `json:"total_disbursed"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	TotalRepaid      decimal.Decimal `json:"total_repaid"`
}

// Summary returns the current portfolio snapshot. Sums run across all
// loans regardless of status; TotalRepaid is derived as total principal
// minus total outstanding.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*DashboardSummary, error) {
	stats, err := uc.loanRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range stats.CountByStatus {
		total += n
	}

	return &DashboardSummary{
		TotalLoans:       total,
		PendingLoans:     stats.CountByStatus[domain.LoanStatusPending],
		ApprovedLoans:    stats.CountByStatus[domain.LoanStatusApproved],
		RejectedLoans:    stats.CountByStatus[domain.LoanStatusRejected],
		ClosedLoans:      stats.CountByStatus[domain.LoanStatusClosed],
		TotalDisbursed:   stats.SumPrincipal,
		TotalOutstanding: stats.SumRemaining,
		TotalRepaid:      stats.SumPrincipal.Sub(stats.SumRemaining),
	}, nil
}
