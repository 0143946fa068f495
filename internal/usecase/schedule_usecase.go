package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
)

// ScheduleUseCase computes amortization schedules and reconciles them
// against recorded payments.
type ScheduleUseCase struct {
	loanRepo    LoanRepository
	paymentRepo LoanPaymentRepository
	userRepo    UserRepository
	cache       Cache
	now         func() time.Time
}

// NewScheduleUseCase creates a new ScheduleUseCase. The cache is optional
// and purely a memoization layer; nil disables it.
func NewScheduleUseCase(loanRepo LoanRepository, paymentRepo LoanPaymentRepository, userRepo UserRepository, cache Cache) *ScheduleUseCase {
	return &ScheduleUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		cache:       cache,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GetSchedule returns the loan's computed schedule merged with its actual
// payment records. Each installment carries a paid flag, the payment
// details when present, and a PAID / OVERDUE / PENDING status.
func (uc *ScheduleUseCase) GetSchedule(ctx context.Context, loanID string) ([]domain.Installment, error) {
	loan, err := uc.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	schedule, err := uc.computeSchedule(ctx, loan)
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]*domain.LoanPayment, len(payments))
	for _, p := range payments {
		byNumber[p.InstallmentNumber] = p
	}

	now := uc.now()
	for i := range schedule {
		inst := &schedule[i]

		if p, ok := byNumber[inst.Number]; ok {
			paidDate := p.PaidDate
			inst.Paid = true
			inst.PaidDate = &paidDate
			inst.AmountPaid = p.AmountPaid
			inst.PaymentID = p.ID
			inst.Status = domain.InstallmentStatusPaid
			continue
		}

		if inst.DueDate.Before(now) {
			inst.Status = domain.InstallmentStatusOverdue
		} else {
			inst.Status = domain.InstallmentStatusPending
		}
	}

	return schedule, nil
}

// OverdueEntry is one overdue installment in the portfolio report.
type OverdueEntry struct {
	LoanID            string          `json:"loan_id"`
	UserID            string          `json:"user_id"`
	UserName          string          `json:"user_name"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	DaysOverdue       int             `json:"days_overdue"`
}

// ListOverdue scans every APPROVED loan, recomputes its schedule and
// reports each installment whose due date has passed without a payment
// covering the EMI. Days overdue truncate toward zero. The scan is
// O(loans x tenure) by design; loan counts are small and schedules are
// memoized per terms.
func (uc *ScheduleUseCase) ListOverdue(ctx context.Context) ([]OverdueEntry, error) {
	loans, err := uc.loanRepo.ListByStatus(ctx, domain.LoanStatusApproved)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	users := make(map[string]*domain.User)

	var entries []OverdueEntry
	for _, loan := range loans {
		schedule, err := uc.computeSchedule(ctx, loan)
		if err != nil {
			return nil, err
		}

		payments, err := uc.paymentRepo.ListByLoan(ctx, loan.ID)
		if err != nil {
			return nil, err
		}

		covered := make(map[int]bool, len(payments))
		for _, p := range payments {
			if p.AmountPaid.GreaterThanOrEqual(loan.EMIAmount) {
				covered[p.InstallmentNumber] = true
			}
		}

		user, ok := users[loan.UserID]
		if !ok {
			user, err = uc.userRepo.GetByID(ctx, loan.UserID)
			if err != nil {
				return nil, err
			}

			users[loan.UserID] = user
		}

		for _, inst := range schedule {
			if covered[inst.Number] || !inst.DueDate.Before(now) {
				continue
			}

			entries = append(entries, OverdueEntry{
				LoanID:            loan.ID,
				UserID:            user.ID,
				UserName:          user.Name,
				InstallmentNumber: inst.Number,
				DueDate:           inst.DueDate,
				Amount:            inst.EMIAmount,
				DaysOverdue:       int(now.Sub(inst.DueDate).Hours() / 24),
			})
		}
	}

	return entries, nil
}

// computeSchedule generates the schedule for the loan's current terms,
// consulting the cache first. Cache failures fall back to recomputation.
func (uc *ScheduleUseCase) computeSchedule(ctx context.Context, loan *domain.Loan) ([]domain.Installment, error) {
	key := scheduleCacheKey(loan)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil {
			var cached []domain.Installment
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	schedule, err := domain.AmortizationSchedule(loan.Principal, loan.InterestRate, loan.EMIAmount, loan.TenureMonths, loan.CreatedAt)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(schedule); err == nil {
			if err := uc.cache.Set(ctx, key, raw, ScheduleCacheTTL); err != nil {
				log.Debug().Err(err).Str("loan_id", loan.ID).Msg("schedule cache write failed")
			}
		}
	}

	return schedule, nil
}

// scheduleCacheKey covers every input of the schedule computation, so a
// term change naturally misses the old entry.
func scheduleCacheKey(loan *domain.Loan) string {
	return fmt.Sprintf("%s:%d:%s:%s:%d",
		loan.ID,
		loan.TenureMonths,
		loan.EMIAmount.String(),
		loan.InterestRate.String(),
		loan.CreatedAt.Unix(),
	)
}
