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
	"github.com/chapelworks/chms_backend/internal/middleware"
	"github.com/google/uuid"
)

// DeletionService orchestrates the removal of a financial entry and every
// compensating update it implies.
//
// The failure policy is asymmetric: only a missing entry or a failed row
// delete abort the operation. Every secondary step (transaction log cleanup,
// book-balance compensation, account resync, budget resync, liability
// reversal) runs best-effort after the delete commits, and its failure is
// reported as a warning so the caller can show "deleted, but balance may
// need review". Nothing is rolled back.
type DeletionService struct {
	entryRepo    portsrepo.EntryRepository
	logRepo      portsrepo.TransactionLogRepository
	reconRepo    portsrepo.ReconciliationRepository
	resolver     portssvc.ReconciliationResolverFacade
	reconSvc     portssvc.ReconciliationSvcFacade
	accountSvc   portssvc.AccountSvcFacade
	budgetSvc    portssvc.BudgetSvcFacade
	liabilitySvc portssvc.LiabilitySvcFacade
	publisher    portssvc.EventPublisher
}

// NewDeletionService creates a new DeletionService. publisher may be nil.
func NewDeletionService(
	entryRepo portsrepo.EntryRepository,
	logRepo portsrepo.TransactionLogRepository,
	reconRepo portsrepo.ReconciliationRepository,
	resolver portssvc.ReconciliationResolverFacade,
	reconSvc portssvc.ReconciliationSvcFacade,
	accountSvc portssvc.AccountSvcFacade,
	budgetSvc portssvc.BudgetSvcFacade,
	liabilitySvc portssvc.LiabilitySvcFacade,
	publisher portssvc.EventPublisher,
) *DeletionService {
	return &DeletionService{
		entryRepo:    entryRepo,
		logRepo:      logRepo,
		reconRepo:    reconRepo,
		resolver:     resolver,
		reconSvc:     reconSvc,
		accountSvc:   accountSvc,
		budgetSvc:    budgetSvc,
		liabilitySvc: liabilitySvc,
		publisher:    publisher,
	}
}

var _ portssvc.DeletionSvcFacade = (*DeletionService)(nil)

// DeleteFinancialEntry removes one ledger entry and sequences the
// compensating updates. Returns Deleted=true iff the row delete succeeded.
func (s *DeletionService) DeleteFinancialEntry(ctx context.Context, table domain.EntryTable, entryID string, userID string) (domain.DeletionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := domain.DeletionResult{}

	if !table.Valid() {
		return result, fmt.Errorf("%w: unknown entry table %q", apperrors.ErrValidation, table)
	}

	// Fetch and snapshot before anything else: classification and several
	// compensation steps need the pre-delete field values.
	entry, err := s.entryRepo.FindEntryByID(ctx, table, entryID)
	if err != nil {
		logger.Warn("Entry fetch failed, aborting deletion", slog.String("table", string(table)), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return result, err
	}
	snapshot := *entry

	// Classify and resolve while the row still exists; some lookup paths
	// read the row's own fields and description.
	isAdjustment := s.resolver.IsReconciliationAdjustment(snapshot)
	reconciliationID := ""
	resolved := false
	if isAdjustment {
		reconciliationID, resolved = s.resolver.ResolveReconciliationID(ctx, snapshot)
	}

	// Transaction log cleanup is routine housekeeping; failures are expected
	// and silent beyond a debug line.
	if err := s.logRepo.DeleteLogsForEntry(ctx, table, entryID); err != nil {
		logger.Debug("Transaction log cleanup failed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
	}

	// The row delete is the only step whose failure aborts the operation.
	if err := s.entryRepo.DeleteEntry(ctx, table, entryID); err != nil {
		logger.Error("Failed to delete entry", slog.String("table", string(table)), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return result, fmt.Errorf("failed to delete entry %s from %s: %w", entryID, table, err)
	}
	result.Deleted = true
	logger.Info("Entry deleted", slog.String("table", string(table)), slog.String("entry_id", entryID))

	if err := s.reconRepo.DeleteLinksForEntry(ctx, entryID); err != nil {
		logger.Debug("Reconciliation link cleanup failed", slog.String("entry_id", entryID), slog.String("error", err.Error()))
	}

	if isAdjustment {
		s.compensateReconciliation(ctx, &result, snapshot, reconciliationID, resolved, userID)
	}

	if snapshot.AccountID != "" {
		if _, err := s.accountSvc.RecalculateBalance(ctx, snapshot.AccountID, userID); err != nil {
			logger.Warn("Account balance resync failed", slog.String("account_id", snapshot.AccountID), slog.String("error", err.Error()))
			result.Warn(domain.StepAccountBalance, fmt.Sprintf("account %s balance could not be recalculated: %v", snapshot.AccountID, err))
		}
	}

	if snapshot.BudgetItemID != "" {
		if err := s.budgetSvc.RemoveEntryFromBudgetItem(ctx, snapshot.BudgetItemID, snapshot.Amount, userID); err != nil {
			logger.Warn("Budget item resync failed", slog.String("budget_item_id", snapshot.BudgetItemID), slog.String("error", err.Error()))
			result.Warn(domain.StepBudgetItem, fmt.Sprintf("budget item %s actuals could not be updated: %v", snapshot.BudgetItemID, err))
		}
	}

	if snapshot.LiabilityID != "" && table == domain.TableExpenditure {
		if err := s.liabilitySvc.ReversePayment(ctx, snapshot.LiabilityID, snapshot.Amount, userID); err != nil {
			logger.Warn("Liability payment reversal failed", slog.String("liability_id", snapshot.LiabilityID), slog.String("error", err.Error()))
			result.Warn(domain.StepLiability, fmt.Sprintf("liability %s payment could not be reversed: %v", snapshot.LiabilityID, err))
		}
	}

	s.publishDeletion(ctx, &result, snapshot)

	return result, nil
}

// compensateReconciliation applies the book-balance compensation for a
// deleted adjustment entry, at most once per deletion.
func (s *DeletionService) compensateReconciliation(ctx context.Context, result *domain.DeletionResult, snapshot domain.FinancialEntry, reconciliationID string, resolved bool, userID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !resolved {
		result.Warn(domain.StepReconciliation, "entry looked like a reconciliation adjustment but no reconciliation could be resolved; book balance may be stale")
		return
	}

	preserved, err := s.reconSvc.ReverseAdjustment(ctx, reconciliationID, snapshot.Table, snapshot.Amount, snapshot.EntryID, userID)
	if err != nil {
		logger.Warn("Book balance compensation failed", slog.String("reconciliation_id", reconciliationID), slog.String("error", err.Error()))
		result.Warn(domain.StepReconciliation, fmt.Sprintf("reconciliation %s book balance could not be updated: %v", reconciliationID, err))
		return
	}
	if preserved {
		result.Warn(domain.StepReconciliation, fmt.Sprintf("reconciliation %s book balance preserved; other manual adjustments remain", reconciliationID))
	}
}

// publishDeletion emits the audit event for a completed deletion.
func (s *DeletionService) publishDeletion(ctx context.Context, result *domain.DeletionResult, snapshot domain.FinancialEntry) {
	if s.publisher == nil {
		return
	}
	event := portssvc.FinancialEvent{
		EventID:   uuid.NewString(),
		EntryID:   snapshot.EntryID,
		Table:     string(snapshot.Table),
		Action:    "deleted",
		Amount:    snapshot.Amount.String(),
		AccountID: snapshot.AccountID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishFinancialEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish entry-deleted event", slog.String("entry_id", snapshot.EntryID), slog.String("error", err.Error()))
		result.Warn(domain.StepAuditEvent, fmt.Sprintf("audit event could not be published: %v", err))
	}
}
