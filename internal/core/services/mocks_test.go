package services_test

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, accountID, balance, updatedBy, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) RecalculateBalanceRPC(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockEntryRepository is a mock type for the EntryRepository interface
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.FinancialEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, table domain.EntryTable, entryID string) (*domain.FinancialEntry, error) {
	args := m.Called(ctx, table, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialEntry), args.Error(1)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, table domain.EntryTable, entryID string) error {
	args := m.Called(ctx, table, entryID)
	return args.Error(0)
}

func (m *MockEntryRepository) FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.FinancialEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialEntry), args.Error(1)
}

func (m *MockEntryRepository) FindEntriesByBudgetItem(ctx context.Context, budgetItemID string) ([]domain.FinancialEntry, error) {
	args := m.Called(ctx, budgetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialEntry), args.Error(1)
}

func (m *MockEntryRepository) FindAdjustmentsByReconciliation(ctx context.Context, table domain.EntryTable, reconciliationID string, excludeEntryID string) ([]domain.FinancialEntry, error) {
	args := m.Called(ctx, table, reconciliationID, excludeEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialEntry), args.Error(1)
}

// MockTransactionLogRepository is a mock type for the TransactionLogRepository interface
type MockTransactionLogRepository struct {
	mock.Mock
}

func (m *MockTransactionLogRepository) SaveLog(ctx context.Context, log domain.TransactionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockTransactionLogRepository) DeleteLogsForEntry(ctx context.Context, table domain.EntryTable, entryID string) error {
	args := m.Called(ctx, table, entryID)
	return args.Error(0)
}

// MockBudgetRepository is a mock type for the BudgetRepository interface
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveBudgetItem(ctx context.Context, item domain.BudgetItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error) {
	args := m.Called(ctx, budgetItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetItem), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ListBudgetItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetItem), args.Error(1)
}

func (m *MockBudgetRepository) UpdateBudgetItemActuals(ctx context.Context, budgetItemID string, actual, variance decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, budgetItemID, actual, variance, updatedBy, now)
	return args.Error(0)
}

// MockLiabilityRepository is a mock type for the LiabilityRepository interface
type MockLiabilityRepository struct {
	mock.Mock
}

func (m *MockLiabilityRepository) SaveLiability(ctx context.Context, liability domain.Liability) error {
	args := m.Called(ctx, liability)
	return args.Error(0)
}

func (m *MockLiabilityRepository) FindLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	args := m.Called(ctx, liabilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Liability), args.Error(1)
}

func (m *MockLiabilityRepository) UpdatePaymentTotals(ctx context.Context, liabilityID string, paid, remaining decimal.Decimal, status domain.LiabilityStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, liabilityID, paid, remaining, status, updatedBy, now)
	return args.Error(0)
}

// MockReconciliationRepository is a mock type for the ReconciliationRepository interface
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindLatestByAccount(ctx context.Context, accountID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) FindLatest(ctx context.Context) (*domain.BankReconciliation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) UpdateBookBalance(ctx context.Context, reconciliationID string, bookBalance decimal.Decimal, hasManualAdjustments bool, now time.Time) error {
	args := m.Called(ctx, reconciliationID, bookBalance, hasManualAdjustments, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) MarkReconciled(ctx context.Context, reconciliationID string, now time.Time) error {
	args := m.Called(ctx, reconciliationID, now)
	return args.Error(0)
}

func (m *MockReconciliationRepository) SaveLink(ctx context.Context, link domain.TransactionReconciliationLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindLinkByEntryID(ctx context.Context, entryID string) (*domain.TransactionReconciliationLink, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionReconciliationLink), args.Error(1)
}

func (m *MockReconciliationRepository) DeleteLinksForEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindLegacyItemReconciliationID(ctx context.Context, entryID string) (string, error) {
	args := m.Called(ctx, entryID)
	return args.String(0), args.Error(1)
}

// MockAccountSvc is a mock type for the AccountSvcFacade interface
type MockAccountSvc struct {
	mock.Mock
}

func (m *MockAccountSvc) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountSvc) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountSvc) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountSvc) ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string) error {
	args := m.Called(ctx, accountID, delta, userID)
	return args.Error(0)
}

func (m *MockAccountSvc) RecalculateBalance(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockBudgetSvc is a mock type for the BudgetSvcFacade interface
type MockBudgetSvc struct {
	mock.Mock
}

func (m *MockBudgetSvc) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, []domain.BudgetItem, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Budget), args.Get(1).([]domain.BudgetItem), args.Error(2)
}

func (m *MockBudgetSvc) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Budget), args.Get(1).([]domain.BudgetItem), args.Error(2)
}

func (m *MockBudgetSvc) ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetSvc) ApplyEntryToBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error {
	args := m.Called(ctx, budgetItemID, amount, userID)
	return args.Error(0)
}

func (m *MockBudgetSvc) RemoveEntryFromBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error {
	args := m.Called(ctx, budgetItemID, amount, userID)
	return args.Error(0)
}

func (m *MockBudgetSvc) UpdateBudgetItemForExpenditure(ctx context.Context, expenditureEntryID string, userID string) (bool, error) {
	args := m.Called(ctx, expenditureEntryID, userID)
	return args.Bool(0), args.Error(1)
}

// MockLiabilitySvc is a mock type for the LiabilitySvcFacade interface
type MockLiabilitySvc struct {
	mock.Mock
}

func (m *MockLiabilitySvc) CreateLiability(ctx context.Context, req dto.CreateLiabilityRequest, userID string) (*domain.Liability, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilitySvc) GetLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error) {
	args := m.Called(ctx, liabilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Liability), args.Error(1)
}

func (m *MockLiabilitySvc) ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Liability), args.Error(1)
}

func (m *MockLiabilitySvc) ApplyPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error {
	args := m.Called(ctx, liabilityID, amount, userID)
	return args.Error(0)
}

func (m *MockLiabilitySvc) ReversePayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error {
	args := m.Called(ctx, liabilityID, amount, userID)
	return args.Error(0)
}

// MockResolver is a mock type for the ReconciliationResolverFacade interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) IsReconciliationAdjustment(entry domain.FinancialEntry) bool {
	args := m.Called(entry)
	return args.Bool(0)
}

func (m *MockResolver) ResolveReconciliationID(ctx context.Context, entry domain.FinancialEntry) (string, bool) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Bool(1)
}

// MockReconciliationSvc is a mock type for the ReconciliationSvcFacade interface
type MockReconciliationSvc struct {
	mock.Mock
}

func (m *MockReconciliationSvc) CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, userID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationSvc) GetReconciliation(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationSvc) ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankReconciliation), args.Error(1)
}

func (m *MockReconciliationSvc) AddManualAdjustment(ctx context.Context, reconciliationID string, req dto.ManualAdjustmentRequest, userID string) (*domain.FinancialEntry, error) {
	args := m.Called(ctx, reconciliationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialEntry), args.Error(1)
}

func (m *MockReconciliationSvc) FinalizeReconciliation(ctx context.Context, reconciliationID string, userID string) error {
	args := m.Called(ctx, reconciliationID, userID)
	return args.Error(0)
}

func (m *MockReconciliationSvc) ReverseAdjustment(ctx context.Context, reconciliationID string, table domain.EntryTable, amount decimal.Decimal, deletedEntryID string, userID string) (bool, error) {
	args := m.Called(ctx, reconciliationID, table, amount, deletedEntryID, userID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishFinancialEvent(ctx context.Context, event portssvc.FinancialEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
