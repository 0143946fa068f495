package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/adapter/repository/postgres"
	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/infrastructure/logger"
	"github.com/covebank/loancore/internal/infrastructure/notify"
	"github.com/covebank/loancore/internal/usecase"
	"github.com/covebank/loancore/tests/testutil"
)

func TestConcurrentTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	notifier := notify.NewLogNotifier(log, nil)

	tellerUC := usecase.NewTellerUseCase(txManager, accountRepo, txnRepo, userRepo, notifier, idGen, nil)

	t.Run("concurrent transfers drain exactly the balance", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := testDB.CreateTestUser(ctx, "Ada", "ada@example.com", domain.RoleCustomer)
		source := testDB.CreateTestAccount(ctx, owner.ID, decimal.NewFromInt(1000))
		dest := testDB.CreateTestAccount(ctx, owner.ID, decimal.Zero)

		numTransfers := 100
		amount := decimal.NewFromInt(10)

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTransfers)

		for i := 0; i < numTransfers; i++ {
			go func() {
				defer wg.Done()

				_, err := tellerUC.Transfer(ctx, source.ID, dest.ID, amount, "")
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d (errors: %d)", numTransfers, successCount.Load(), errorCount.Load())
		}

		sourceAcc, _ := accountRepo.GetByID(ctx, source.ID)
		destAcc, _ := accountRepo.GetByID(ctx, dest.ID)

		if !sourceAcc.Balance.Equal(decimal.Zero) {
			t.Errorf("expected source balance 0, got %s", sourceAcc.Balance)
		}

		if !destAcc.Balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected dest balance 1000, got %s", destAcc.Balance)
		}
	})

	t.Run("concurrent transfers never overdraft", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := testDB.CreateTestUser(ctx, "Ada", "ada@example.com", domain.RoleCustomer)
		source := testDB.CreateTestAccount(ctx, owner.ID, decimal.NewFromInt(100))
		dest := testDB.CreateTestAccount(ctx, owner.ID, decimal.Zero)

		numTransfers := 20
		amount := decimal.NewFromInt(10) // 20 * 10 = 200 > 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
		)

		wg.Add(numTransfers)

		for i := 0; i < numTransfers; i++ {
			go func() {
				defer wg.Done()

				if _, err := tellerUC.Transfer(ctx, source.ID, dest.ID, amount, ""); err == nil {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 10 {
			t.Errorf("expected 10 successful transfers, got %d", successCount.Load())
		}

		sourceAcc, _ := accountRepo.GetByID(ctx, source.ID)
		if !sourceAcc.Balance.Equal(decimal.Zero) {
			t.Errorf("expected source balance 0, got %s", sourceAcc.Balance)
		}
	})

	t.Run("simultaneous approvals disburse exactly once", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		loanRepo := postgres.NewLoanRepository(pool)
		paymentRepo := postgres.NewLoanPaymentRepository(pool)
		penaltyRepo := postgres.NewLoanPenaltyRepository(pool)
		loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, penaltyRepo, accountRepo, txnRepo, userRepo, notifier, idGen, nil)

		borrower := testDB.CreateTestUser(ctx, "Ada", "ada@example.com", domain.RoleCustomer)
		account := testDB.CreateTestAccount(ctx, borrower.ID, decimal.Zero)

		loan, err := loanUC.CreateLoan(ctx, usecase.CreateLoanInput{
			UserID:       borrower.ID,
			Principal:    decimal.NewFromInt(10000),
			InterestRate: decimal.NewFromInt(12),
			TenureMonths: 12,
			EMIAmount:    decimal.NewFromInt(900),
		})
		if err != nil {
			t.Fatalf("failed to create loan: %v", err)
		}

		var (
			wg            sync.WaitGroup
			successCount  atomic.Int32
			conflictCount atomic.Int32
		)

		wg.Add(2)
		for i := 0; i < 2; i++ {
			go func() {
				defer wg.Done()

				_, err := loanUC.Approve(ctx, loan.ID, "", "")
				switch {
				case err == nil:
					successCount.Add(1)
				case errors.Is(err, domain.ErrInvalidLoanState):
					conflictCount.Add(1)
				default:
					t.Errorf("unexpected approval error: %v", err)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != 1 || conflictCount.Load() != 1 {
			t.Errorf("expected exactly one approval and one state conflict, got %d and %d", successCount.Load(), conflictCount.Load())
		}

		acc, _ := accountRepo.GetByID(ctx, account.ID)
		if !acc.Balance.Equal(decimal.NewFromInt(10000)) {
			t.Errorf("expected one disbursement of 10000, got balance %s", acc.Balance)
		}

		txns, _ := txnRepo.ListByAccount(ctx, account.ID, 10, 0)
		deposits := 0
		for _, txn := range txns {
			if txn.Type == domain.TransactionTypeDeposit {
				deposits++
			}
		}
		if deposits != 1 {
			t.Errorf("expected exactly one deposit row, got %d", deposits)
		}
	})

	t.Run("opposing transfers do not deadlock", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		owner := testDB.CreateTestUser(ctx, "Ada", "ada@example.com", domain.RoleCustomer)
		a := testDB.CreateTestAccount(ctx, owner.ID, decimal.NewFromInt(1000))
		b := testDB.CreateTestAccount(ctx, owner.ID, decimal.NewFromInt(1000))

		numTransfers := 50
		amount := decimal.NewFromInt(1)

		var wg sync.WaitGroup
		wg.Add(numTransfers * 2)

		for i := 0; i < numTransfers; i++ {
			go func() {
				defer wg.Done()
				_, _ = tellerUC.Transfer(ctx, a.ID, b.ID, amount, "")
			}()
			go func() {
				defer wg.Done()
				_, _ = tellerUC.Transfer(ctx, b.ID, a.ID, amount, "")
			}()
		}

		wg.Wait()

		// Totals must be preserved whatever the interleaving.
		accA, _ := accountRepo.GetByID(ctx, a.ID)
		accB, _ := accountRepo.GetByID(ctx, b.ID)

		total := accA.Balance.Add(accB.Balance)
		if !total.Equal(decimal.NewFromInt(2000)) {
			t.Errorf("expected combined balance 2000, got %s", total)
		}
	})
}
