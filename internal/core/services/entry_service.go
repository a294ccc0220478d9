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

// EntryService posts income and expenditure entries and drives the
// bookkeeping that creation implies: transaction log, incremental account
// balance, budget actuals, liability payments. Only persisting the entry row
// itself can fail the operation; the secondary updates are best-effort and
// logged.
type EntryService struct {
	entryRepo    portsrepo.EntryRepository
	logRepo      portsrepo.TransactionLogRepository
	accountSvc   portssvc.AccountSvcFacade
	budgetSvc    portssvc.BudgetSvcFacade
	liabilitySvc portssvc.LiabilitySvcFacade
	publisher    portssvc.EventPublisher
}

// NewEntryService creates a new EntryService. publisher may be nil when no
// event stream is configured.
func NewEntryService(
	entryRepo portsrepo.EntryRepository,
	logRepo portsrepo.TransactionLogRepository,
	accountSvc portssvc.AccountSvcFacade,
	budgetSvc portssvc.BudgetSvcFacade,
	liabilitySvc portssvc.LiabilitySvcFacade,
	publisher portssvc.EventPublisher,
) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		logRepo:      logRepo,
		accountSvc:   accountSvc,
		budgetSvc:    budgetSvc,
		liabilitySvc: liabilitySvc,
		publisher:    publisher,
	}
}

var _ portssvc.EntrySvcFacade = (*EntryService)(nil)

// CreateEntry validates and posts a new ledger entry.
func (s *EntryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.FinancialEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Table.Valid() {
		return nil, fmt.Errorf("%w: unknown entry table %q", apperrors.ErrValidation, req.Table)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: entry amount must be positive", apperrors.ErrValidation)
	}
	if req.LiabilityID != nil && req.Table != domain.TableExpenditure {
		return nil, fmt.Errorf("%w: only expenditure entries may reference a liability", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := domain.FinancialEntry{
		EntryID:       uuid.NewString(),
		Table:         req.Table,
		EntryDate:     req.EntryDate,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.AccountID != nil {
		entry.AccountID = *req.AccountID
	}
	if req.BudgetItemID != nil {
		entry.BudgetItemID = *req.BudgetItemID
	}
	if req.LiabilityID != nil {
		entry.LiabilityID = *req.LiabilityID
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("table", string(entry.Table)))
		return nil, err
	}
	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID), slog.String("table", string(entry.Table)), slog.String("amount", entry.Amount.String()))

	s.applyCreationBookkeeping(ctx, entry, userID)

	return &entry, nil
}

// GetEntry retrieves a single ledger entry.
func (s *EntryService) GetEntry(ctx context.Context, table domain.EntryTable, entryID string) (*domain.FinancialEntry, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: unknown entry table %q", apperrors.ErrValidation, table)
	}
	return s.entryRepo.FindEntryByID(ctx, table, entryID)
}

// applyCreationBookkeeping runs the secondary updates after the entry row is
// committed. Each failure is logged and the rest continue; the posted entry
// is never rolled back over bookkeeping.
func (s *EntryService) applyCreationBookkeeping(ctx context.Context, entry domain.FinancialEntry, userID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txLog := domain.TransactionLog{
		LogID:     uuid.NewString(),
		EntryID:   entry.EntryID,
		Table:     entry.Table,
		Action:    "created",
		Amount:    entry.Amount,
		AccountID: entry.AccountID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.logRepo.SaveLog(ctx, txLog); err != nil {
		logger.Warn("Failed to record transaction log", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
	}

	if entry.AccountID != "" {
		delta := entry.Amount.Mul(entry.Table.SignedSign())
		if err := s.accountSvc.ApplyBalanceDelta(ctx, entry.AccountID, delta, userID); err != nil {
			logger.Warn("Failed to apply account balance delta", slog.String("entry_id", entry.EntryID), slog.String("account_id", entry.AccountID), slog.String("error", err.Error()))
		}
	}

	if entry.BudgetItemID != "" {
		if err := s.budgetSvc.ApplyEntryToBudgetItem(ctx, entry.BudgetItemID, entry.Amount, userID); err != nil {
			logger.Warn("Failed to update budget item actuals", slog.String("entry_id", entry.EntryID), slog.String("budget_item_id", entry.BudgetItemID), slog.String("error", err.Error()))
		}
	}

	if entry.LiabilityID != "" && entry.Table == domain.TableExpenditure {
		if err := s.liabilitySvc.ApplyPayment(ctx, entry.LiabilityID, entry.Amount, userID); err != nil {
			logger.Warn("Failed to apply liability payment", slog.String("entry_id", entry.EntryID), slog.String("liability_id", entry.LiabilityID), slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		event := portssvc.FinancialEvent{
			EventID:   uuid.NewString(),
			EntryID:   entry.EntryID,
			Table:     string(entry.Table),
			Action:    "created",
			Amount:    entry.Amount.String(),
			AccountID: entry.AccountID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishFinancialEvent(ctx, event); err != nil {
			logger.Warn("Failed to publish entry-created event", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
		}
	}
}
