package services

import (
	"context"
	"errors"
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

// BudgetService manages budgets and keeps budget line actuals in sync with
// the ledger.
type BudgetService struct {
	budgetRepo portsrepo.BudgetRepository
	entryRepo  portsrepo.EntryRepository
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepository, entryRepo portsrepo.EntryRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, entryRepo: entryRepo}
}

var _ portssvc.BudgetSvcFacade = (*BudgetService)(nil)

// CreateBudget creates a budget and its planned lines. Actuals start at zero
// and variance at the planned amount.
func (s *BudgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, userID string) (*domain.Budget, []domain.BudgetItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, nil, fmt.Errorf("%w: budget period end must be after period start", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	budget := domain.Budget{
		BudgetID:    uuid.NewString(),
		Name:        req.Name,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		AuditFields: audit,
	}

	items := make([]domain.BudgetItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		if itemReq.PlannedAmount.IsNegative() {
			return nil, nil, fmt.Errorf("%w: planned amount cannot be negative for item %q", apperrors.ErrValidation, itemReq.Name)
		}
		items = append(items, domain.BudgetItem{
			BudgetItemID:  uuid.NewString(),
			BudgetID:      budget.BudgetID,
			Name:          itemReq.Name,
			Category:      itemReq.Category,
			PlannedAmount: itemReq.PlannedAmount,
			ActualAmount:  decimal.Zero,
			Variance:      itemReq.PlannedAmount,
			AuditFields:   audit,
		})
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()), slog.String("budget_id", budget.BudgetID))
		return nil, nil, err
	}
	for _, item := range items {
		if err := s.budgetRepo.SaveBudgetItem(ctx, item); err != nil {
			logger.Error("Failed to save budget item", slog.String("error", err.Error()), slog.String("budget_item_id", item.BudgetItemID))
			return nil, nil, err
		}
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID), slog.Int("item_count", len(items)))
	return &budget, items, nil
}

// GetBudget retrieves a budget with its lines.
func (s *BudgetService) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.budgetRepo.ListBudgetItems(ctx, budgetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list items for budget %s: %w", budgetID, err)
	}
	return budget, items, nil
}

// ListBudgets retrieves a page of budgets.
func (s *BudgetService) ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		return []domain.Budget{}, nil
	}
	return budgets, nil
}

// ApplyEntryToBudgetItem adds a newly posted entry's amount to its budget
// line and recomputes the variance.
func (s *BudgetService) ApplyEntryToBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.budgetRepo.FindBudgetItemByID(ctx, budgetItemID)
	if err != nil {
		return fmt.Errorf("failed to fetch budget item %s: %w", budgetItemID, err)
	}

	actual := item.ActualAmount.Add(amount)
	variance := item.PlannedAmount.Sub(actual)
	if err := s.budgetRepo.UpdateBudgetItemActuals(ctx, budgetItemID, actual, variance, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update actuals for budget item %s: %w", budgetItemID, err)
	}

	logger.Debug("Budget item actuals increased", slog.String("budget_item_id", budgetItemID), slog.String("actual", actual.String()))
	return nil
}

// RemoveEntryFromBudgetItem subtracts a deleted entry's amount from its
// budget line. The actual is clamped at zero so data drift can never produce
// a negative actual. A budget line that no longer exists is a no-op, not an
// error: the budget may have been deleted before the entry.
func (s *BudgetService) RemoveEntryFromBudgetItem(ctx context.Context, budgetItemID string, amount decimal.Decimal, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	item, err := s.budgetRepo.FindBudgetItemByID(ctx, budgetItemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Budget item gone, skipping actuals update", slog.String("budget_item_id", budgetItemID))
			return nil
		}
		return fmt.Errorf("failed to fetch budget item %s: %w", budgetItemID, err)
	}

	actual := item.ActualAmount.Sub(amount)
	if actual.IsNegative() {
		actual = decimal.Zero
	}
	variance := item.PlannedAmount.Sub(actual)
	if err := s.budgetRepo.UpdateBudgetItemActuals(ctx, budgetItemID, actual, variance, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update actuals for budget item %s: %w", budgetItemID, err)
	}

	logger.Debug("Budget item actuals decreased", slog.String("budget_item_id", budgetItemID), slog.String("actual", actual.String()))
	return nil
}

// UpdateBudgetItemForExpenditure re-syncs the budget line an expenditure
// entry points at by recomputing the actual from every linked entry. Returns
// false when the entry carries no budget linkage.
func (s *BudgetService) UpdateBudgetItemForExpenditure(ctx context.Context, expenditureEntryID string, userID string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, domain.TableExpenditure, expenditureEntryID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch expenditure entry %s: %w", expenditureEntryID, err)
	}
	if entry.BudgetItemID == "" {
		return false, nil
	}

	item, err := s.budgetRepo.FindBudgetItemByID(ctx, entry.BudgetItemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch budget item %s: %w", entry.BudgetItemID, err)
	}

	linked, err := s.entryRepo.FindEntriesByBudgetItem(ctx, item.BudgetItemID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch entries for budget item %s: %w", item.BudgetItemID, err)
	}

	actual := decimal.Zero
	for _, e := range linked {
		actual = actual.Add(e.Amount)
	}
	variance := item.PlannedAmount.Sub(actual)

	if err := s.budgetRepo.UpdateBudgetItemActuals(ctx, item.BudgetItemID, actual, variance, userID, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("failed to update actuals for budget item %s: %w", item.BudgetItemID, err)
	}

	logger.Info("Budget item re-synced from ledger", slog.String("budget_item_id", item.BudgetItemID), slog.String("actual", actual.String()))
	return true, nil
}
