package repositories

import (
	"context"
	"time"

	"github.com/chapelworks/chms_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BudgetRepository persists budgets and their planned lines.
type BudgetRepository interface {
	SaveBudget(ctx context.Context, budget domain.Budget) error
	SaveBudgetItem(ctx context.Context, item domain.BudgetItem) error
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error)
	ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error)
	ListBudgetItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error)
	UpdateBudgetItemActuals(ctx context.Context, budgetItemID string, actual, variance decimal.Decimal, updatedBy string, now time.Time) error
}
