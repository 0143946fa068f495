package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/covebank/loancore/internal/domain"
	"github.com/covebank/loancore/internal/usecase"
)

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc           func(ctx context.Context, loan *domain.Loan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	ListByUserFunc       func(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error)
	ListByStatusFunc     func(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)
	StatsFunc            func(ctx context.Context) (*domain.LoanStats, error)
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loans[id]; ok {
		return l, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		loans = append(loans, l)
	}
	return loans, nil
}

func (m *MockLoanRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Loan, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.UserID == userID {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) ListByStatus(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, l := range m.loans {
		if l.Status == status {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

func (m *MockLoanRepository) Stats(ctx context.Context) (*domain.LoanStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &domain.LoanStats{
		CountByStatus: make(map[domain.LoanStatus]int64),
		SumPrincipal:  decimal.Zero,
		SumRemaining:  decimal.Zero,
	}
	for _, l := range m.loans {
		stats.CountByStatus[l.Status]++
		stats.SumPrincipal = stats.SumPrincipal.Add(l.Principal)
		stats.SumRemaining = stats.SumRemaining.Add(l.RemainingBalance)
	}
	return stats, nil
}

// MockLoanPaymentRepository is a mock implementation of LoanPaymentRepository.
type MockLoanPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.LoanPayment

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, payment *domain.LoanPayment) error
	ListByLoanFunc func(ctx context.Context, loanID string) ([]*domain.LoanPayment, error)
}

func NewMockLoanPaymentRepository() *MockLoanPaymentRepository {
	return &MockLoanPaymentRepository{}
}

func (m *MockLoanPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.LoanPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *MockLoanPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPayment, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.LoanPayment
	for _, p := range m.payments {
		if p.LoanID == loanID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// MockLoanPenaltyRepository is a mock implementation of LoanPenaltyRepository.
type MockLoanPenaltyRepository struct {
	mu        sync.RWMutex
	penalties []*domain.LoanPenalty

	ListByLoanFunc func(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error)
}

func NewMockLoanPenaltyRepository() *MockLoanPenaltyRepository {
	return &MockLoanPenaltyRepository{}
}

func (m *MockLoanPenaltyRepository) Add(penalty *domain.LoanPenalty) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.penalties = append(m.penalties, penalty)
}

func (m *MockLoanPenaltyRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.LoanPenalty, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var penalties []*domain.LoanPenalty
	for _, p := range m.penalties {
		if p.LoanID == loanID {
			penalties = append(penalties, p)
		}
	}
	return penalties, nil
}

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc              func(ctx context.Context, account *domain.Account) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	ListByUserFunc          func(ctx context.Context, userID string) ([]*domain.Account, error)
	ListByUserForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.Account, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateFreezeStateFunc   func(ctx context.Context, tx usecase.Transaction, id string, frozen bool, frozenAt *time.Time, reason string, updatedAt time.Time) error
	UpdateLimitsFunc        func(ctx context.Context, tx usecase.Transaction, id string, withdrawalLimit, transferLimit decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Account, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListByUserForUpdate(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.Account, error) {
	if m.ListByUserForUpdateFunc != nil {
		return m.ListByUserForUpdateFunc(ctx, tx, userID)
	}
	return m.ListByUser(ctx, userID)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateFreezeState(ctx context.Context, tx usecase.Transaction, id string, frozen bool, frozenAt *time.Time, reason string, updatedAt time.Time) error {
	if m.UpdateFreezeStateFunc != nil {
		return m.UpdateFreezeStateFunc(ctx, tx, id, frozen, frozenAt, reason, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Frozen = frozen
		acc.FrozenAt = frozenAt
		acc.FreezeReason = reason
		if frozen {
			acc.Status = domain.AccountStatusFrozen
		} else {
			acc.Status = domain.AccountStatusActive
		}
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateLimits(ctx context.Context, tx usecase.Transaction, id string, withdrawalLimit, transferLimit decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateLimitsFunc != nil {
		return m.UpdateLimitsFunc(ctx, tx, id, withdrawalLimit, transferLimit, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.WithdrawalLimit = withdrawalLimit
		acc.TransferLimit = transferLimit
		acc.UpdatedAt = updatedAt
	}
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transactions []*domain.Transaction
	for _, t := range m.transactions {
		if (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
			(t.ToAccountID != nil && *t.ToAccountID == accountID) {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	GetByIDFunc func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Add(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockNotifier is a mock implementation of Notifier. Sent events are
// recorded for inspection.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentNotification

	NotifyFunc func(ctx context.Context, userID, email, name string, kind domain.EventKind, details map[string]string) error
}

// SentNotification is one recorded Notify call.
type SentNotification struct {
	UserID  string
	Kind    domain.EventKind
	Details map[string]string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, userID, email, name string, kind domain.EventKind, details map[string]string) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, userID, email, name, kind, details)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentNotification{UserID: userID, Kind: kind, Details: details})
	return nil
}

// Sent returns a copy of the recorded notifications.
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentNotification, len(m.sent))
	copy(out, m.sent)
	return out
}

// MockCache is an in-memory mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
