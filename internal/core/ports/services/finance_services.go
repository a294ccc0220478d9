package services

import (
	"context"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade exposes fund account operations, including the balance
// recalculation primitive used by the deletion orchestrator.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// ApplyBalanceDelta incrementally adjusts the persisted balance, used on
	// entry creation where the full recalculation would be wasteful.
	ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, userID string) error

	// RecalculateBalance recomputes the balance from the full ledger and
	// persists it. The server-side aggregate is preferred; its failure falls
	// back to a client-side sum and is never fatal on its own.
	RecalculateBalance(ctx context.Context, accountID string, userID string) (decimal.Decimal, error)
}

// EntrySvcFacade posts income and expenditure entries.
type EntrySvcFacade interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.FinancialEntry, error)
	GetEntry(ctx context.Context, table domain.EntryTable, entryID string) (*domain.FinancialEntry, error)
}

// DeletionSvcFacade is the financial entry deletion orchestrator.
type DeletionSvcFacade interface {
	DeleteFinancialEntry(ctx context.Context, table domain.EntryTable, entryID string, userID string) (domain.DeletionResult, error)
}

// BudgetSvcFacade keeps budget line actuals in sync with the ledger.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, []domain.BudgetItem, error)
	GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error)
	ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error)

	ApplyEntryToBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error
	RemoveEntryFromBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error

	// UpdateBudgetItemForExpenditure re-syncs the budget line an expenditure
	// entry points at. Returns false when the entry has no budget linkage.
	UpdateBudgetItemForExpenditure(ctx context.Context, expenditureEntryID string, userID string) (bool, error)
}

// LiabilitySvcFacade tracks creditor liabilities and their payments.
type LiabilitySvcFacade interface {
	CreateLiability(ctx context.Context, req dto.CreateLiabilityRequest, userID string) (*domain.Liability, error)
	GetLiabilityByID(ctx context.Context, liabilityID string) (*domain.Liability, error)
	ListLiabilities(ctx context.Context, limit int, offset int) ([]domain.Liability, error)

	ApplyPayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error
	ReversePayment(ctx context.Context, liabilityID string, amount decimal.Decimal, userID string) error
}

// ReconciliationResolverFacade classifies reconciliation adjustment entries
// and resolves which reconciliation an entry belongs to.
type ReconciliationResolverFacade interface {
	IsReconciliationAdjustment(entry domain.FinancialEntry) bool
	ResolveReconciliationID(ctx context.Context, entry domain.FinancialEntry) (string, bool)
}

// ReconciliationSvcFacade manages bank reconciliations and their book
// balances.
type ReconciliationSvcFacade interface {
	CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, userID string) (*domain.BankReconciliation, error)
	GetReconciliation(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error)
	AddManualAdjustment(ctx context.Context, reconciliationID string, req dto.ManualAdjustmentRequest, userID string) (*domain.FinancialEntry, error)
	FinalizeReconciliation(ctx context.Context, reconciliationID string, userID string) error

	// ReverseAdjustment applies the book-balance compensation for a deleted
	// adjustment entry. Returns preserved=true when the balance was left
	// untouched because other manual adjustment entries still exist.
	ReverseAdjustment(ctx context.Context, reconciliationID string, table domain.EntryTable, amount decimal.Decimal, deletedEntryID string, userID string) (preserved bool, err error)
}

// MemberSvcFacade exposes the thin member registry.
type MemberSvcFacade interface {
	CreateMember(ctx context.Context, req dto.CreateMemberRequest, userID string) (*domain.Member, error)
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error)
	UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, userID string) (*domain.Member, error)
	DeactivateMember(ctx context.Context, memberID string, userID string) error
}

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Entry          EntrySvcFacade
	Deletion       DeletionSvcFacade
	Budget         BudgetSvcFacade
	Liability      LiabilitySvcFacade
	Reconciliation ReconciliationSvcFacade
	Member         MemberSvcFacade
}
