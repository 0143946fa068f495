package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
	"github.com/covebank/loancore/internal/usecase/mocks"
)

type tellerFixture struct {
	accountRepo *mocks.MockAccountRepository
	txnRepo     *mocks.MockTransactionRepository
	userRepo    *mocks.MockUserRepository
	notifier    *mocks.MockNotifier
	uc          *usecase.TellerUseCase
}

func newTellerFixture() *tellerFixture {
	f := &tellerFixture{
		accountRepo: mocks.NewMockAccountRepository(),
		txnRepo:     mocks.NewMockTransactionRepository(),
		userRepo:    mocks.NewMockUserRepository(),
		notifier:    mocks.NewMockNotifier(),
	}

	f.userRepo.Add(&domain.User{ID: "user-1", Name: "Ada", Email: "ada@example.com"})
	f.userRepo.Add(&domain.User{ID: "user-2", Name: "Grace", Email: "grace@example.com"})

	f.uc = usecase.NewTellerUseCase(
		mocks.NewMockTransactionManager(),
		f.accountRepo,
		f.txnRepo,
		f.userRepo,
		f.notifier,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return f
}

func (f *tellerFixture) addAccount(id, userID string, balance int64) *domain.Account {
	acc := &domain.Account{
		ID:      id,
		UserID:  userID,
		Balance: decimal.NewFromInt(balance),
		Status:  domain.AccountStatusActive,
	}
	f.accountRepo.Create(context.Background(), acc)
	return acc
}

func TestTellerUseCase_Deposit(t *testing.T) {
	t.Run("credits balance and records transaction", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		txn, err := f.uc.Deposit(context.Background(), "acc-1", decimal.NewFromInt(50), "cash deposit")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if txn.Type != domain.TransactionTypeDeposit {
			t.Errorf("expected DEPOSIT, got %s", txn.Type)
		}
		if txn.ToAccountID == nil || *txn.ToAccountID != "acc-1" {
			t.Errorf("expected to_account acc-1, got %v", txn.ToAccountID)
		}
		if txn.FromAccountID != nil {
			t.Errorf("deposit must not set from_account, got %v", txn.FromAccountID)
		}

		acc, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
		if !acc.Balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected balance 150, got %s", acc.Balance)
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		_, err := f.uc.Deposit(context.Background(), "acc-1", decimal.Zero, "")
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects frozen account", func(t *testing.T) {
		f := newTellerFixture()
		acc := f.addAccount("acc-1", "user-1", 100)
		acc.Frozen = true

		_, err := f.uc.Deposit(context.Background(), "acc-1", decimal.NewFromInt(50), "")
		if !errors.Is(err, domain.ErrAccountFrozen) {
			t.Errorf("expected ErrAccountFrozen, got %v", err)
		}
	})
}

func TestTellerUseCase_Withdraw(t *testing.T) {
	t.Run("debits balance", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		txn, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(40), "atm")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if txn.Type != domain.TransactionTypeWithdraw {
			t.Errorf("expected WITHDRAW, got %s", txn.Type)
		}

		acc, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
		if !acc.Balance.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected balance 60, got %s", acc.Balance)
		}
	})

	t.Run("insufficient balance leaves account untouched", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 30)

		_, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(40), "")
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		acc, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
		if !acc.Balance.Equal(decimal.NewFromInt(30)) {
			t.Errorf("expected balance 30, got %s", acc.Balance)
		}
	})

	t.Run("enforces withdrawal limit", func(t *testing.T) {
		f := newTellerFixture()
		acc := f.addAccount("acc-1", "user-1", 1000)
		acc.WithdrawalLimit = decimal.NewFromInt(200)

		_, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(201), "")
		if !errors.Is(err, domain.ErrLimitExceeded) {
			t.Errorf("expected ErrLimitExceeded, got %v", err)
		}
	})
}

func TestTellerUseCase_Transfer(t *testing.T) {
	t.Run("moves amount between accounts", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)
		f.addAccount("acc-2", "user-2", 10)

		txn, err := f.uc.Transfer(context.Background(), "acc-1", "acc-2", decimal.NewFromInt(60), "rent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if txn.Type != domain.TransactionTypeTransfer {
			t.Errorf("expected TRANSFER, got %s", txn.Type)
		}
		if txn.FromAccountID == nil || *txn.FromAccountID != "acc-1" {
			t.Errorf("expected from acc-1, got %v", txn.FromAccountID)
		}
		if txn.ToAccountID == nil || *txn.ToAccountID != "acc-2" {
			t.Errorf("expected to acc-2, got %v", txn.ToAccountID)
		}

		from, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
		to, _ := f.accountRepo.GetByID(context.Background(), "acc-2")
		if !from.Balance.Equal(decimal.NewFromInt(40)) {
			t.Errorf("expected sender balance 40, got %s", from.Balance)
		}
		if !to.Balance.Equal(decimal.NewFromInt(70)) {
			t.Errorf("expected receiver balance 70, got %s", to.Balance)
		}
	})

	t.Run("same account", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		_, err := f.uc.Transfer(context.Background(), "acc-1", "acc-1", decimal.NewFromInt(10), "")
		if !errors.Is(err, domain.ErrSameAccount) {
			t.Errorf("expected ErrSameAccount, got %v", err)
		}
	})

	t.Run("insufficient balance mutates neither account", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 50)
		f.addAccount("acc-2", "user-2", 10)

		_, err := f.uc.Transfer(context.Background(), "acc-1", "acc-2", decimal.NewFromInt(60), "")
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		from, _ := f.accountRepo.GetByID(context.Background(), "acc-1")
		to, _ := f.accountRepo.GetByID(context.Background(), "acc-2")
		if !from.Balance.Equal(decimal.NewFromInt(50)) || !to.Balance.Equal(decimal.NewFromInt(10)) {
			t.Errorf("balances must be unchanged, got %s and %s", from.Balance, to.Balance)
		}
	})

	t.Run("frozen receiver blocks transfer", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)
		to := f.addAccount("acc-2", "user-2", 10)
		to.Frozen = true

		_, err := f.uc.Transfer(context.Background(), "acc-1", "acc-2", decimal.NewFromInt(10), "")
		if !errors.Is(err, domain.ErrAccountFrozen) {
			t.Errorf("expected ErrAccountFrozen, got %v", err)
		}
	})

	t.Run("enforces transfer limit", func(t *testing.T) {
		f := newTellerFixture()
		from := f.addAccount("acc-1", "user-1", 1000)
		from.TransferLimit = decimal.NewFromInt(100)
		f.addAccount("acc-2", "user-2", 0)

		_, err := f.uc.Transfer(context.Background(), "acc-1", "acc-2", decimal.NewFromInt(101), "")
		if !errors.Is(err, domain.ErrLimitExceeded) {
			t.Errorf("expected ErrLimitExceeded, got %v", err)
		}
	})

	t.Run("unknown counterparty", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		_, err := f.uc.Transfer(context.Background(), "acc-1", "missing", decimal.NewFromInt(10), "")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestTellerUseCase_FreezeUnfreeze(t *testing.T) {
	t.Run("freeze then operate", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		acc, err := f.uc.Freeze(context.Background(), "acc-1", "suspected fraud")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.Frozen || acc.Status != domain.AccountStatusFrozen {
			t.Errorf("expected frozen account, got frozen=%v status=%s", acc.Frozen, acc.Status)
		}
		if acc.FreezeReason != "suspected fraud" {
			t.Errorf("expected reason recorded, got %q", acc.FreezeReason)
		}
		if acc.FrozenAt == nil {
			t.Error("expected FrozenAt set")
		}

		if _, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(10), ""); !errors.Is(err, domain.ErrAccountFrozen) {
			t.Errorf("expected ErrAccountFrozen on withdraw, got %v", err)
		}
	})

	t.Run("double freeze", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		if _, err := f.uc.Freeze(context.Background(), "acc-1", "first"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := f.uc.Freeze(context.Background(), "acc-1", "second")
		if !errors.Is(err, domain.ErrAlreadyFrozen) {
			t.Errorf("expected ErrAlreadyFrozen, got %v", err)
		}
	})

	t.Run("unfreeze restores operation", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		if _, err := f.uc.Freeze(context.Background(), "acc-1", "audit"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		acc, err := f.uc.Unfreeze(context.Background(), "acc-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if acc.Frozen || acc.FrozenAt != nil || acc.FreezeReason != "" {
			t.Errorf("expected freeze state cleared, got %+v", acc)
		}

		if _, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(10), ""); err != nil {
			t.Errorf("expected withdraw to succeed after unfreeze, got %v", err)
		}
	})

	t.Run("unfreeze active account", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 100)

		_, err := f.uc.Unfreeze(context.Background(), "acc-1")
		if !errors.Is(err, domain.ErrNotFrozen) {
			t.Errorf("expected ErrNotFrozen, got %v", err)
		}
	})
}

func TestTellerUseCase_UpdateLimits(t *testing.T) {
	t.Run("sets limits", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 1000)

		acc, err := f.uc.UpdateLimits(context.Background(), "acc-1", decimal.NewFromInt(300), decimal.NewFromInt(500))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.WithdrawalLimit.Equal(decimal.NewFromInt(300)) || !acc.TransferLimit.Equal(decimal.NewFromInt(500)) {
			t.Errorf("limits not applied: %s / %s", acc.WithdrawalLimit, acc.TransferLimit)
		}

		if _, err := f.uc.Withdraw(context.Background(), "acc-1", decimal.NewFromInt(301), ""); !errors.Is(err, domain.ErrLimitExceeded) {
			t.Errorf("expected ErrLimitExceeded after update, got %v", err)
		}
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		f := newTellerFixture()
		f.addAccount("acc-1", "user-1", 1000)

		_, err := f.uc.UpdateLimits(context.Background(), "acc-1", decimal.NewFromInt(-1), decimal.Zero)
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestTellerUseCase_CreateAccount(t *testing.T) {
	f := newTellerFixture()

	acc, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{UserID: "user-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acc.Balance.IsZero() {
		t.Errorf("expected zero opening balance, got %s", acc.Balance)
	}
	if acc.Status != domain.AccountStatusActive {
		t.Errorf("expected ACTIVE, got %s", acc.Status)
	}

	_, err = f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{UserID: "ghost"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
