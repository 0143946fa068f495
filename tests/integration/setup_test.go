package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	adaptershttp "github.com/covebank/loancore/internal/adapter/http"
	"github.com/covebank/loancore/internal/adapter/http/handler"
	"github.com/covebank/loancore/internal/adapter/repository/postgres"
	redisrepo "github.com/covebank/loancore/internal/adapter/repository/redis"
	"github.com/covebank/loancore/internal/infrastructure/logger"
	"github.com/covebank/loancore/internal/infrastructure/notify"
	infraredis "github.com/covebank/loancore/internal/infrastructure/redis"
	"github.com/covebank/loancore/internal/usecase"
	"github.com/covebank/loancore/tests/testutil"
)

type testEnv struct {
	db     *testutil.TestDB
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	txManager := postgres.NewTxManager(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	paymentRepo := postgres.NewLoanPaymentRepository(pool)
	penaltyRepo := postgres.NewLoanPenaltyRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	idGen := postgres.NewULIDGenerator()
	notifier := notify.NewLogNotifier(log, nil)

	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, paymentRepo, penaltyRepo, accountRepo, txnRepo, userRepo, notifier, idGen, nil)
	scheduleUC := usecase.NewScheduleUseCase(loanRepo, paymentRepo, userRepo, nil)
	tellerUC := usecase.NewTellerUseCase(txManager, accountRepo, txnRepo, userRepo, notifier, idGen, nil)
	dashboardUC := usecase.NewDashboardUseCase(loanRepo)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LoanHandler:      handler.NewLoanHandler(loanUC, scheduleUC),
		TellerHandler:    handler.NewTellerHandler(tellerUC),
		DashboardHandler: handler.NewDashboardHandler(dashboardUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
		Logger:           log,
	})

	return &testEnv{db: testDB, router: router}
}

func (e *testEnv) request(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(b)
	}

	r := httptest.NewRequest(method, path, body)
	if payload != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
