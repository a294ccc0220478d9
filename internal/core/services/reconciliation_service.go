package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	portssvc "github.com/chapelworks/chms_backend/internal/core/ports/services"
	"github.com/chapelworks/chms_backend/internal/dto"
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationService manages bank reconciliations, their manual adjustment
// entries, and book-balance compensation when adjustments are deleted.
type ReconciliationService struct {
	reconRepo  portsrepo.ReconciliationRepository
	entryRepo  portsrepo.EntryRepository
	accountSvc portssvc.AccountSvcFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconRepo portsrepo.ReconciliationRepository, entryRepo portsrepo.EntryRepository, accountSvc portssvc.AccountSvcFacade) *ReconciliationService {
	return &ReconciliationService{reconRepo: reconRepo, entryRepo: entryRepo, accountSvc: accountSvc}
}

var _ portssvc.ReconciliationSvcFacade = (*ReconciliationService)(nil)

// adjustmentDeletionDelta is the book-balance compensation applied when an
// adjustment entry is removed. Deleting an income adjustment adds the amount
// back (the adjustment decreased book balance when created); deleting an
// expenditure adjustment subtracts it. This sign convention is inherited
// behavior and is reproduced exactly, not rederived.
func adjustmentDeletionDelta(table domain.EntryTable, amount decimal.Decimal) decimal.Decimal {
	if table == domain.TableIncome {
		return amount
	}
	return amount.Neg()
}

// CreateReconciliation starts a reconciliation for an account. The book
// balance is seeded from a fresh ledger recalculation so it reflects every
// posted entry, not a possibly stale denormalized value.
func (s *ReconciliationService) CreateReconciliation(ctx context.Context, req dto.CreateReconciliationRequest, userID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountSvc.GetAccountByID(ctx, req.AccountID); err != nil {
		return nil, fmt.Errorf("failed to fetch account %s for reconciliation: %w", req.AccountID, err)
	}

	bookBalance, err := s.accountSvc.RecalculateBalance(ctx, req.AccountID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute book balance for account %s: %w", req.AccountID, err)
	}

	now := time.Now().UTC()
	rec := domain.BankReconciliation{
		ReconciliationID: uuid.NewString(),
		AccountID:        req.AccountID,
		StatementDate:    req.StatementDate,
		BankBalance:      req.BankBalance,
		BookBalance:      bookBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reconRepo.SaveReconciliation(ctx, rec); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("reconciliation_id", rec.ReconciliationID))
		return nil, err
	}

	logger.Info("Reconciliation created", slog.String("reconciliation_id", rec.ReconciliationID), slog.String("account_id", rec.AccountID), slog.String("book_balance", bookBalance.String()))
	return &rec, nil
}

// GetReconciliation retrieves a single reconciliation.
func (s *ReconciliationService) GetReconciliation(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	return s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
}

// ListByAccount lists the reconciliations recorded for an account.
func (s *ReconciliationService) ListByAccount(ctx context.Context, accountID string) ([]domain.BankReconciliation, error) {
	recs, err := s.reconRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for account %s: %w", accountID, err)
	}
	if recs == nil {
		return []domain.BankReconciliation{}, nil
	}
	return recs, nil
}

// AddManualAdjustment records a manual book-balance correction as a synthetic
// ledger entry, links it to the reconciliation, and applies the inverse of
// the deletion delta to the book balance.
//
// The description embeds the reconciliation id and account id in the labeled
// text forms the resolver can parse, so the linkage survives even if the link
// row is lost.
func (s *ReconciliationService) AddManualAdjustment(ctx context.Context, reconciliationID string, req dto.ManualAdjustmentRequest, userID string) (*domain.FinancialEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Table.Valid() {
		return nil, fmt.Errorf("%w: unknown entry table %q", apperrors.ErrValidation, req.Table)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: adjustment amount must be positive", apperrors.ErrValidation)
	}

	rec, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reconciliation %s: %w", reconciliationID, err)
	}

	now := time.Now().UTC()
	entry := domain.FinancialEntry{
		EntryID:          uuid.NewString(),
		Table:            req.Table,
		EntryDate:        now,
		Amount:           req.Amount,
		Category:         "Reconciliation Adjustment",
		AccountID:        rec.AccountID,
		ReconciliationID: rec.ReconciliationID,
		IsAdjustment:     true,
		PaymentMethod:    domain.PaymentMethodReconciliation,
		Description: fmt.Sprintf("%s Manual adjustment for reconciliation id: %s on account %s. %s",
			DescriptionAdjustmentMarker, rec.ReconciliationID, rec.AccountID, req.Description),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save adjustment entry", slog.String("error", err.Error()), slog.String("reconciliation_id", rec.ReconciliationID))
		return nil, err
	}

	link := domain.TransactionReconciliationLink{
		LinkID:           uuid.NewString(),
		EntryID:          entry.EntryID,
		Table:            entry.Table,
		ReconciliationID: rec.ReconciliationID,
		CreatedAt:        now,
	}
	if err := s.reconRepo.SaveLink(ctx, link); err != nil {
		// The entry description still carries the linkage; the resolver will
		// find it on deletion.
		logger.Warn("Failed to save reconciliation link", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
	}

	// Inverse of the deletion compensation: creating an income adjustment
	// decreases book balance, an expenditure adjustment increases it.
	newBook := rec.BookBalance.Sub(adjustmentDeletionDelta(entry.Table, entry.Amount))
	if err := s.reconRepo.UpdateBookBalance(ctx, rec.ReconciliationID, newBook, true, now); err != nil {
		logger.Error("Failed to update book balance after adjustment", slog.String("error", err.Error()), slog.String("reconciliation_id", rec.ReconciliationID))
		return nil, fmt.Errorf("adjustment entry %s saved but book balance update failed: %w", entry.EntryID, err)
	}

	logger.Info("Manual adjustment recorded",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("entry_id", entry.EntryID),
		slog.String("book_balance", newBook.String()))
	return &entry, nil
}

// FinalizeReconciliation marks a reconciliation as reconciled.
func (s *ReconciliationService) FinalizeReconciliation(ctx context.Context, reconciliationID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.reconRepo.MarkReconciled(ctx, reconciliationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to finalize reconciliation %s: %w", reconciliationID, err)
	}
	logger.Info("Reconciliation finalized", slog.String("reconciliation_id", reconciliationID))
	return nil
}

// ReverseAdjustment applies the book-balance compensation for a deleted
// adjustment entry.
//
// When the reconciliation carries manual adjustments, the book balance stays
// untouched as long as any other adjustment entry still references it: the
// manually corrected figure remains authoritative and preserved=true is
// returned. Once the last adjustment is gone the delta is applied and the
// manual-adjustments flag cleared. Reconciliations without the flag get the
// delta unconditionally.
func (s *ReconciliationService) ReverseAdjustment(ctx context.Context, reconciliationID string, table domain.EntryTable, amount decimal.Decimal, deletedEntryID string, userID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rec, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch reconciliation %s: %w", reconciliationID, err)
	}

	if rec.HasManualAdjustments {
		remaining := s.countRemainingAdjustments(ctx, rec.ReconciliationID, deletedEntryID)
		if remaining > 0 {
			logger.Info("Book balance preserved, other manual adjustments remain",
				slog.String("reconciliation_id", rec.ReconciliationID),
				slog.Int("remaining_adjustments", remaining))
			return true, nil
		}
	}

	newBook := rec.BookBalance.Add(adjustmentDeletionDelta(table, amount))
	if err := s.reconRepo.UpdateBookBalance(ctx, rec.ReconciliationID, newBook, false, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to update book balance for reconciliation %s: %w", rec.ReconciliationID, err)
	}

	logger.Info("Book balance compensated for deleted adjustment",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("table", string(table)),
		slog.String("amount", amount.String()),
		slog.String("book_balance", newBook.String()))
	return false, nil
}

// countRemainingAdjustments counts adjustment entries in both ledger tables
// still linked to the reconciliation, excluding the entry being deleted.
// Query failures are logged and count as zero for that table; the chain of
// compensation must not abort on a lookup error.
func (s *ReconciliationService) countRemainingAdjustments(ctx context.Context, reconciliationID string, deletedEntryID string) int {
	logger := middleware.GetLoggerFromCtx(ctx)

	count := 0
	for _, table := range []domain.EntryTable{domain.TableIncome, domain.TableExpenditure} {
		entries, err := s.entryRepo.FindAdjustmentsByReconciliation(ctx, table, reconciliationID, deletedEntryID)
		if err != nil {
			logger.Warn("Failed to query remaining adjustments",
				slog.String("table", string(table)),
				slog.String("reconciliation_id", reconciliationID),
				slog.String("error", err.Error()))
			continue
		}
		count += len(entries)
	}
	return count
}
