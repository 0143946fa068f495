package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
	"github.com/covebank/loancore/internal/usecase/mocks"
)

func TestDashboardUseCase_Summary(t *testing.T) {
	loanRepo := mocks.NewMockLoanRepository()
	uc := usecase.NewDashboardUseCase(loanRepo)

	loans := []*domain.Loan{
		{ID: "l1", Status: domain.LoanStatusPending, Principal: decimal.NewFromInt(5000), RemainingBalance: decimal.NewFromInt(5000)},
		{ID: "l2", Status: domain.LoanStatusApproved, Principal: decimal.NewFromInt(10000), RemainingBalance: decimal.NewFromInt(8000)},
		{ID: "l3", Status: domain.LoanStatusApproved, Principal: decimal.NewFromInt(20000), RemainingBalance: decimal.NewFromInt(20000)},
		{ID: "l4", Status: domain.LoanStatusRejected, Principal: decimal.NewFromInt(3000), RemainingBalance: decimal.NewFromInt(3000)},
		{ID: "l5", Status: domain.LoanStatusClosed, Principal: decimal.NewFromInt(7000), RemainingBalance: decimal.Zero},
	}
	for _, l := range loans {
		loanRepo.Create(context.Background(), l)
	}

	summary, err := uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalLoans != 5 {
		t.Errorf("expected 5 loans, got %d", summary.TotalLoans)
	}
	if summary.PendingLoans != 1 || summary.ApprovedLoans != 2 || summary.RejectedLoans != 1 || summary.ClosedLoans != 1 {
		t.Errorf("unexpected status counts: %+v", summary)
	}

	// Disbursed and outstanding sum across all loans regardless of status.
	if !summary.TotalDisbursed.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("expected disbursed 45000, got %s", summary.TotalDisbursed)
	}
	if !summary.TotalOutstanding.Equal(decimal.NewFromInt(36000)) {
		t.Errorf("expected outstanding 36000, got %s", summary.TotalOutstanding)
	}
	if !summary.TotalRepaid.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("expected repaid 9000, got %s", summary.TotalRepaid)
	}
}

func TestDashboardUseCase_SummaryEmpty(t *testing.T) {
	uc := usecase.NewDashboardUseCase(mocks.NewMockLoanRepository())

	summary, err := uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalLoans != 0 {
		t.Errorf("expected empty portfolio, got %d loans", summary.TotalLoans)
	}
	if !summary.TotalRepaid.IsZero() {
		t.Errorf("expected zero repaid, got %s", summary.TotalRepaid)
	}
}
