package repositories

import (
	"context"

	"github.com/chapelworks/chms_backend/internal/core/domain"
)

// EntryRepository persists income and expenditure rows across both ledger
// tables, selected by domain.EntryTable.
type EntryRepository interface {
	SaveEntry(ctx context.Context, entry domain.FinancialEntry) error
	FindEntryByID(ctx context.Context, table domain.EntryTable, entryID string) (*domain.FinancialEntry, error)
	DeleteEntry(ctx context.Context, table domain.EntryTable, entryID string) error
	FindEntriesByAccount(ctx context.Context, accountID string) ([]domain.FinancialEntry, error)
	FindEntriesByBudgetItem(ctx context.Context, budgetItemID string) ([]domain.FinancialEntry, error)

	// FindAdjustmentsByReconciliation returns entries in the given table still
	// flagged as adjustments for the reconciliation, excluding entryID (the
	// row being deleted may or may not still exist when this runs).
	FindAdjustmentsByReconciliation(ctx context.Context, table domain.EntryTable, reconciliationID string, excludeEntryID string) ([]domain.FinancialEntry, error)
}

// TransactionLogRepository records and cleans up audit log rows for entries.
type TransactionLogRepository interface {
	SaveLog(ctx context.Context, log domain.TransactionLog) error
	DeleteLogsForEntry(ctx context.Context, table domain.EntryTable, entryID string) error
}
