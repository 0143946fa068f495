package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/adapter/http/dto"
	"github.com/covebank/loancore/internal/domain"
)

func TestTellerOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.db.CreateTestUser(ctx, "Ada Lovelace", "ada@example.com", domain.RoleCustomer)
	peer := env.db.CreateTestUser(ctx, "Grace Hopper", "grace@example.com", domain.RoleCustomer)

	var accountID string

	t.Run("open account", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{UserID: owner.ID})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		acc := decodeJSON[dto.AccountResponse](t, w)
		if !acc.Balance.IsZero() {
			t.Errorf("expected zero opening balance, got %s", acc.Balance)
		}
		if acc.Status != string(domain.AccountStatusActive) {
			t.Errorf("expected ACTIVE, got %s", acc.Status)
		}
		accountID = acc.ID
	})

	t.Run("deposit and withdraw", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/deposit", dto.AmountRequest{
			Amount: decimal.NewFromInt(200),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("deposit: expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/withdraw", dto.AmountRequest{
			Amount: decimal.NewFromInt(50),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("withdraw: expected 201, got %d: %s", w.Code, w.Body.String())
		}

		aw := env.request(t, http.MethodGet, "/api/v1/accounts/"+accountID, nil)
		acc := decodeJSON[dto.AccountResponse](t, aw)
		if !acc.Balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected balance 150, got %s", acc.Balance)
		}
	})

	t.Run("overdraft is rejected", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/withdraw", dto.AmountRequest{
			Amount: decimal.NewFromInt(1000),
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("transfer between accounts", func(t *testing.T) {
		other := env.db.CreateTestAccount(ctx, peer.ID, decimal.Zero)

		w := env.request(t, http.MethodPost, "/api/v1/transfers", dto.TransferRequest{
			FromAccountID: accountID,
			ToAccountID:   other.ID,
			Amount:        decimal.NewFromInt(100),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		aw := env.request(t, http.MethodGet, "/api/v1/accounts/"+other.ID, nil)
		acc := decodeJSON[dto.AccountResponse](t, aw)
		if !acc.Balance.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected receiver balance 100, got %s", acc.Balance)
		}
	})

	t.Run("freeze blocks operations until unfreeze", func(t *testing.T) {
		w := env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/freeze", dto.FreezeRequest{Reason: "fraud review"})
		if w.Code != http.StatusOK {
			t.Fatalf("freeze: expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/deposit", dto.AmountRequest{
			Amount: decimal.NewFromInt(10),
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("deposit on frozen account: expected 400, got %d", w.Code)
		}

		w = env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/unfreeze", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("unfreeze: expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = env.request(t, http.MethodPost, "/api/v1/accounts/"+accountID+"/deposit", dto.AmountRequest{
			Amount: decimal.NewFromInt(10),
		})
		if w.Code != http.StatusCreated {
			t.Errorf("deposit after unfreeze: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("transaction history covers all operations", func(t *testing.T) {
		w := env.request(t, http.MethodGet, "/api/v1/accounts/"+accountID+"/transactions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		resp := decodeJSON[map[string][]dto.TransactionResponse](t, w)
		// two deposits, one withdrawal, one transfer
		if len(resp["transactions"]) != 4 {
			t.Errorf("expected 4 transactions, got %d", len(resp["transactions"]))
		}
	})
}
