package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/infrastructure/metrics"
)

// principal share of each recorded payment. The remainder is booked as
// interest. This is a flat approximation and intentionally does not use
// the per-installment split from the amortization calculator; the two
// are reconciled only in reporting.
var paymentPrincipalShare = decimal.RequireFromString("0.9")

// LoanUseCase drives the loan lifecycle: approval, rejection, payment
// application and repayment term changes.
type LoanUseCase struct {
	txManager   TransactionManager
	loanRepo    LoanRepository
	paymentRepo LoanPaymentRepository
	penaltyRepo LoanPenaltyRepository
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	userRepo    UserRepository
	notifier    Notifier
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	paymentRepo LoanPaymentRepository,
	penaltyRepo LoanPenaltyRepository,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	userRepo UserRepository,
	notifier Notifier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:   txManager,
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		penaltyRepo: penaltyRepo,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateLoanInput represents a loan application.
type CreateLoanInput struct {
	UserID       string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
	EMIAmount    decimal.Decimal // derived from the other terms when zero
	Remarks      string
}

// CreateLoan records a loan application in PENDING state. The remaining
// balance starts at the principal; it is drawn down by payments.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	if input.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.TenureMonths <= 0 {
		return nil, domain.ErrInvalidScheduleInput
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	emi := input.EMIAmount
	if emi.IsZero() {
		derived, err := domain.MonthlyPayment(input.Principal, input.InterestRate, input.TenureMonths)
		if err != nil {
			return nil, err
		}

		emi = derived
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:               uc.idGen.Generate(),
		UserID:           input.UserID,
		Principal:        input.Principal,
		InterestRate:     input.InterestRate,
		TenureMonths:     input.TenureMonths,
		EMIAmount:        emi,
		PaidInstallments: 0,
		RemainingBalance: input.Principal,
		Status:           domain.LoanStatusPending,
		Remarks:          input.Remarks,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// Approve transitions a PENDING loan to APPROVED and disburses the
// principal: the borrower's first account is credited and a DEPOSIT
// transaction is appended. All three mutations commit together or not at
// all. The row lock on the loan serializes concurrent approvals; the
// loser observes a non-PENDING status and fails with ErrInvalidLoanState.
func (uc *LoanUseCase) Approve(ctx context.Context, loanID, notes, officerID string) (*domain.Loan, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	if !loan.IsPending() {
		return nil, domain.ErrInvalidLoanState
	}

	accounts, err := uc.accountRepo.ListByUserForUpdate(txCtx, tx, loan.UserID)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, domain.ErrNoTargetAccount
	}

	target := accounts[0]
	if err := target.ValidateCredit(loan.Principal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	loan.Status = domain.LoanStatusApproved
	loan.Remarks = notes
	loan.UpdatedAt = now

	if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
		return nil, err
	}

	newBalance := target.ApplyCredit(loan.Principal)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, target.ID, newBalance, now); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		ToAccountID: &target.ID,
		Amount:      loan.Principal,
		Type:        domain.TransactionTypeDeposit,
		Status:      domain.TransactionStatusCompleted,
		Description: "loan disbursement " + loan.ID,
		CreatedAt:   now,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansApproved.Inc()
		uc.metrics.DisbursedAmount.Observe(loan.Principal.InexactFloat64())
	}

	log.Info().
		Str("loan_id", loan.ID).
		Str("officer_id", officerID).
		Str("account_id", target.ID).
		Msg("loan approved and disbursed")

	uc.notify(loan.UserID, domain.EventLoanApproved, map[string]string{
		"loan_id": loan.ID,
		"amount":  loan.Principal.StringFixed(2),
	})

	return loan, nil
}

// Reject transitions a PENDING loan to REJECTED. No ledger effect.
func (uc *LoanUseCase) Reject(ctx context.Context, loanID, reason string) (*domain.Loan, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	if !loan.IsPending() {
		return nil, domain.ErrInvalidLoanState
	}

	loan.Status = domain.LoanStatusRejected
	loan.Remarks = reason
	loan.UpdatedAt = time.Now().UTC()

	if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansRejected.Inc()
	}

	uc.notify(loan.UserID, domain.EventLoanRejected, map[string]string{
		"loan_id": loan.ID,
		"reason":  reason,
	})

	return loan, nil
}

// ProcessPayment applies one EMI payment to an APPROVED loan. The amount
// must equal the current EMI exactly. The payment row and the loan update
// are written in the same transaction; this path creates no account or
// ledger transaction. When the remaining balance reaches zero the loan
// transitions to CLOSED.
func (uc *LoanUseCase) ProcessPayment(ctx context.Context, loanID string, amount decimal.Decimal, reference string) (*domain.LoanPayment, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	if !loan.IsApproved() {
		return nil, domain.ErrInvalidLoanState
	}

	if loan.RemainingBalance.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrLoanClosed
	}

	if !amount.Equal(loan.EMIAmount) {
		return nil, fmt.Errorf("%w: required amount is %s", domain.ErrAmountMismatch, loan.EMIAmount.StringFixed(2))
	}

	now := time.Now().UTC()

	principalPaid := amount.Mul(paymentPrincipalShare).Round(2)
	interestPaid := amount.Sub(principalPaid)

	// The final EMI usually overshoots what is left; the balance never
	// goes below zero.
	outstanding := loan.RemainingBalance.Sub(amount)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	payment := &domain.LoanPayment{
		ID:                 uc.idGen.Generate(),
		LoanID:             loan.ID,
		InstallmentNumber:  loan.PaidInstallments + 1,
		AmountPaid:         amount,
		PrincipalPaid:      principalPaid,
		InterestPaid:       interestPaid,
		OutstandingBalance: outstanding,
		PaidDate:           now,
		Remarks:            reference,
		CreatedAt:          now,
	}

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, err
	}

	loan.PaidInstallments++
	loan.RemainingBalance = outstanding
	loan.UpdatedAt = now

	closed := false
	if outstanding.LessThanOrEqual(decimal.Zero) {
		loan.Status = domain.LoanStatusClosed
		closed = true
	}

	if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsProcessed.Inc()
		uc.metrics.PaymentAmount.Observe(amount.InexactFloat64())
	}

	uc.notify(loan.UserID, domain.EventLoanPaymentReceived, map[string]string{
		"loan_id":     loan.ID,
		"installment": fmt.Sprintf("%d", payment.InstallmentNumber),
		"amount":      amount.StringFixed(2),
	})

	if closed {
		uc.notify(loan.UserID, domain.EventLoanClosed, map[string]string{
			"loan_id": loan.ID,
		})
	}

	return payment, nil
}

// UpdateRepaymentSchedule overwrites the tenure and EMI of an APPROVED
// loan and appends the reason to its remarks. Already-recorded payments
// are not reconciled against the new terms; future schedule generations
// reflect the new terms from installment 1.
func (uc *LoanUseCase) UpdateRepaymentSchedule(ctx context.Context, loanID string, newTenure int, newEMI decimal.Decimal, reason string) (*domain.Loan, error) {
	if newTenure <= 0 {
		return nil, domain.ErrInvalidScheduleInput
	}

	if newEMI.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, loanID)
	if err != nil {
		return nil, err
	}

	if !loan.IsApproved() {
		return nil, domain.ErrInvalidLoanState
	}

	loan.TenureMonths = newTenure
	loan.EMIAmount = newEMI
	loan.AddRemarks(reason)
	loan.UpdatedAt = time.Now().UTC()

	if err := uc.loanRepo.Update(txCtx, tx, loan); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.notify(loan.UserID, domain.EventScheduleUpdated, map[string]string{
		"loan_id": loan.ID,
		"tenure":  fmt.Sprintf("%d", newTenure),
		"emi":     newEMI.StringFixed(2),
	})

	return loan, nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListLoansInput represents input for listing loans.
type ListLoansInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListLoans lists loans, optionally filtered by owner.
func (uc *LoanUseCase) ListLoans(ctx context.Context, input ListLoansInput) ([]*domain.Loan, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.UserID != "" {
		return uc.loanRepo.ListByUser(ctx, input.UserID, input.Limit, input.Offset)
	}

	return uc.loanRepo.List(ctx, input.Limit, input.Offset)
}

// ListPenalties lists the penalties recorded against a loan.
func (uc *LoanUseCase) ListPenalties(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	return uc.penaltyRepo.ListByLoan(ctx, loanID)
}

// notify dispatches a fire-and-forget notification to the loan owner.
// Failures are logged and discarded; they never affect the caller.
func (uc *LoanUseCase) notify(userID string, kind domain.EventKind, details map[string]string) {
	if uc.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), NotifyTimeout)
		defer cancel()

		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("event", string(kind)).Msg("notification skipped")
			return
		}

		if err := uc.notifier.Notify(ctx, user.ID, user.Email, user.Name, kind, details); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("event", string(kind)).Msg("notification failed")
		}
	}()
}
