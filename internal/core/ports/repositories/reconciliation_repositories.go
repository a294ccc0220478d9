package repositories

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconciliationRepository persists bank reconciliations and the link rows
// tying ledger entries to them.
type ReconciliationRepository interface {
	SaveReconciliation(ctx context.Context, rec domain.BankReconciliation) error
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error)
	FindLatestByAccount(ctx context.Context, accountID string) (*domain.BankReconciliation, error)
	FindLatest(ctx context.Context) (*domain.BankReconciliation, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error)
	UpdateBookBalance(ctx context.Context, reconciliationID string, bookBalance decimal.Decimal, hasManualAdjustments bool, now time.Time) error
	MarkReconciled(ctx context.Context, reconciliationID string, now time.Time) error

	SaveLink(ctx context.Context, link domain.TransactionReconciliationLink) error
	FindLinkByEntryID(ctx context.Context, entryID string) (*domain.TransactionReconciliationLink, error)
	DeleteLinksForEntry(ctx context.Context, entryID string) error

	// FindLegacyItemReconciliationID consults the old reconciliation_items
	// table that predates the link table. Returns ErrNotFound when absent.
	FindLegacyItemReconciliationID(ctx context.Context, entryID string) (string, error)
}
