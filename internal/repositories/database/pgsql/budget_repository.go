package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chapelworks/chms_backend/internal/apperrors"
	"github.com/chapelworks/chms_backend/internal/core/domain"
	portsrepo "github.com/chapelworks/chms_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// NewPgxBudgetRepository creates a new repository for budgets and lines.
func NewPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

const budgetItemColumns = `budget_item_id, budget_id, name, category, planned_amount, actual_amount, variance, created_at, created_by, last_updated_at, last_updated_by`

// SaveBudget inserts a new budget.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	query := `
		INSERT INTO budgets (budget_id, name, period_start, period_end, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.Name,
		budget.PeriodStart,
		budget.PeriodEnd,
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

// SaveBudgetItem inserts a new budget line.
func (r *PgxBudgetRepository) SaveBudgetItem(ctx context.Context, item domain.BudgetItem) error {
	query := `
		INSERT INTO budget_items (` + budgetItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.BudgetItemID,
		item.BudgetID,
		item.Name,
		item.Category,
		item.PlannedAmount,
		item.ActualAmount,
		item.Variance,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget item %s: %w", item.BudgetItemID, err)
	}
	return nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT budget_id, name, period_start, period_end, created_at, created_by, last_updated_at, last_updated_by
		FROM budgets WHERE budget_id = $1;
	`
	var b domain.Budget
	err := r.Pool.QueryRow(ctx, query, budgetID).Scan(
		&b.BudgetID, &b.Name, &b.PeriodStart, &b.PeriodEnd,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	return &b, nil
}

// FindBudgetItemByID retrieves a budget line by its ID.
func (r *PgxBudgetRepository) FindBudgetItemByID(ctx context.Context, budgetItemID string) (*domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE budget_item_id = $1;`
	item, err := scanBudgetItem(r.Pool.QueryRow(ctx, query, budgetItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget item %s: %w", budgetItemID, err)
	}
	return item, nil
}

// ListBudgets retrieves a page of budgets ordered by period start.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, limit int, offset int) ([]domain.Budget, error) {
	query := `
		SELECT budget_id, name, period_start, period_end, created_at, created_by, last_updated_at, last_updated_by
		FROM budgets ORDER BY period_start DESC, budget_id LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.BudgetID, &b.Name, &b.PeriodStart, &b.PeriodEnd,
			&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ListBudgetItems retrieves all lines of a budget.
func (r *PgxBudgetRepository) ListBudgetItems(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	query := `SELECT ` + budgetItemColumns + ` FROM budget_items WHERE budget_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for budget %s: %w", budgetID, err)
	}
	defer rows.Close()

	var items []domain.BudgetItem
	for rows.Next() {
		item, err := scanBudgetItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget item row: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateBudgetItemActuals persists recomputed actual and variance figures.
func (r *PgxBudgetRepository) UpdateBudgetItemActuals(ctx context.Context, budgetItemID string, actual, variance decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE budget_items
		SET actual_amount = $2, variance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE budget_item_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, budgetItemID, actual, variance, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update actuals for budget item %s: %w", budgetItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanBudgetItem(row pgx.Row) (*domain.BudgetItem, error) {
	var item domain.BudgetItem
	err := row.Scan(
		&item.BudgetItemID,
		&item.BudgetID,
		&item.Name,
		&item.Category,
		&item.PlannedAmount,
		&item.ActualAmount,
		&item.Variance,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
