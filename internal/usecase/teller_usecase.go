package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/infrastructure/metrics"
)

// TellerUseCase performs deposits, withdrawals and transfers on behalf of
// customers, plus account freeze and limit administration. Every balance
// mutation is committed together with its transaction record.
type TellerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	userRepo    UserRepository
	notifier    Notifier
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewTellerUseCase creates a new TellerUseCase.
func NewTellerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	userRepo UserRepository,
	notifier Notifier,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TellerUseCase {
	return &TellerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for opening an account.
type CreateAccountInput struct {
	UserID          string
	WithdrawalLimit decimal.Decimal
	TransferLimit   decimal.Decimal
}

// CreateAccount opens a new account with a zero balance.
func (uc *TellerUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		UserID:          input.UserID,
		Balance:         decimal.Zero,
		Status:          domain.AccountStatusActive,
		WithdrawalLimit: input.WithdrawalLimit,
		TransferLimit:   input.TransferLimit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *TellerUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccountsByUser lists the accounts owned by a user.
func (uc *TellerUseCase) ListAccountsByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListByUser(ctx, userID)
}

// Deposit credits an account and appends a DEPOSIT transaction.
func (uc *TellerUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateCredit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		ToAccountID: &account.ID,
		Amount:      amount,
		Type:        domain.TransactionTypeDeposit,
		Status:      domain.TransactionStatusCompleted,
		Description: description,
		CreatedAt:   now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyCredit(amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.recordOp("deposit")
	uc.notify(account.UserID, domain.EventDeposit, map[string]string{
		"account_id": account.ID,
		"amount":     amount.StringFixed(2),
	})

	return txn, nil
}

// Withdraw debits an account and appends a WITHDRAW transaction. The
// account must hold at least the amount, be unfrozen, and the amount must
// fall within the account's withdrawal limit.
func (uc *TellerUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(amount); err != nil {
		return nil, err
	}

	if err := account.CheckWithdrawalLimit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		FromAccountID: &account.ID,
		Amount:        amount,
		Type:          domain.TransactionTypeWithdraw,
		Status:        domain.TransactionStatusCompleted,
		Description:   description,
		CreatedAt:     now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyDebit(amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.recordOp("withdraw")
	uc.notify(account.UserID, domain.EventWithdrawal, map[string]string{
		"account_id": account.ID,
		"amount":     amount.StringFixed(2),
	})

	return txn, nil
}

// Transfer moves amount between two accounts and appends a single
// TRANSFER transaction. Both account rows are locked in ascending id
// order to prevent deadlock between concurrent transfers.
func (uc *TellerUseCase) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*domain.Transaction, error) {
	if fromID == toID {
		return nil, domain.ErrSameAccount
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	ids := []string{fromID, toID}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	from := byID[fromID]
	to := byID[toID]

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if err := from.ValidateDebit(amount); err != nil {
		return nil, err
	}

	if err := from.CheckTransferLimit(amount); err != nil {
		return nil, err
	}

	if err := to.ValidateCredit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		FromAccountID: &from.ID,
		ToAccountID:   &to.ID,
		Amount:        amount,
		Type:          domain.TransactionTypeTransfer,
		Status:        domain.TransactionStatusCompleted,
		Description:   description,
		CreatedAt:     now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, from.ID, from.ApplyDebit(amount), now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, to.ID, to.ApplyCredit(amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.recordOp("transfer")
	uc.notify(from.UserID, domain.EventTransferOut, map[string]string{
		"account_id": from.ID,
		"amount":     amount.StringFixed(2),
	})
	uc.notify(to.UserID, domain.EventTransferIn, map[string]string{
		"account_id": to.ID,
		"amount":     amount.StringFixed(2),
	})

	return txn, nil
}

// Freeze marks an account frozen. Freezing an already-frozen account
// fails with ErrAlreadyFrozen and changes nothing.
func (uc *TellerUseCase) Freeze(ctx context.Context, accountID, reason string) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if account.Frozen {
		return nil, domain.ErrAlreadyFrozen
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateFreezeState(txCtx, tx, account.ID, true, &now, reason, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.Frozen = true
	account.FrozenAt = &now
	account.FreezeReason = reason
	account.Status = domain.AccountStatusFrozen
	account.UpdatedAt = now

	uc.recordOp("freeze")
	uc.notify(account.UserID, domain.EventAccountFrozen, map[string]string{
		"account_id": account.ID,
		"reason":     reason,
	})

	return account, nil
}

// Unfreeze lifts a freeze. Unfreezing a non-frozen account fails with
// ErrNotFrozen.
func (uc *TellerUseCase) Unfreeze(ctx context.Context, accountID string) (*domain.Account, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.Frozen {
		return nil, domain.ErrNotFrozen
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateFreezeState(txCtx, tx, account.ID, false, nil, "", now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.Frozen = false
	account.FrozenAt = nil
	account.FreezeReason = ""
	account.Status = domain.AccountStatusActive
	account.UpdatedAt = now

	uc.recordOp("unfreeze")
	uc.notify(account.UserID, domain.EventAccountUnfrozen, map[string]string{
		"account_id": account.ID,
	})

	return account, nil
}

// UpdateLimits sets the per-operation withdrawal and transfer limits.
// A zero limit disables the corresponding check.
func (uc *TellerUseCase) UpdateLimits(ctx context.Context, accountID string, withdrawalLimit, transferLimit decimal.Decimal) (*domain.Account, error) {
	if withdrawalLimit.IsNegative() || transferLimit.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.UpdateLimits(txCtx, tx, account.ID, withdrawalLimit, transferLimit, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	account.WithdrawalLimit = withdrawalLimit
	account.TransferLimit = transferLimit
	account.UpdatedAt = now

	return account, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactions lists the ledger entries touching an account.
func (uc *TellerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.txnRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}

func (uc *TellerUseCase) recordOp(op string) {
	if uc.metrics != nil {
		uc.metrics.TellerOperations.WithLabelValues(op).Inc()
	}
}

// notify dispatches a fire-and-forget notification to the account owner.
func (uc *TellerUseCase) notify(userID string, kind domain.EventKind, details map[string]string) {
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
